package main

import (
	"strings"

	"tokmakchat/internal/config"
	"tokmakchat/internal/features"
	"tokmakchat/internal/i18n"
)

// runtimeConfig 是配置文件、环境变量与命令行叠加后的运行参数。
type runtimeConfig struct {
	Config   config.Config
	Language i18n.Language
	Locale   string
	Features features.Set
}

// loadRuntime 按 默认值 < 配置文件 < 环境变量 < -c < --model/--language 的顺序合并。
func loadRuntime(root rootArgs) (runtimeConfig, error) {
	cfg, err := config.Load(root.cfgPath)
	if err != nil {
		return runtimeConfig{}, err
	}
	return resolveRuntime(cfg, root), nil
}

func resolveRuntime(cfg config.Config, root rootArgs) runtimeConfig {
	cfg = config.ApplyKVOverrides(cfg, root.overrides)
	if model := strings.TrimSpace(root.model); model != "" {
		cfg.Model = model
	}
	lang := i18n.Normalize(cfg.Language)
	locale := strings.TrimSpace(cfg.Locale)
	if flagLang := strings.TrimSpace(root.language); flagLang != "" {
		lang = i18n.Normalize(flagLang)
		// 显式指定语言时区域跟随语言。
		locale = lang.Locale()
	}
	if locale == "" {
		locale = lang.Locale()
	}
	cfg.Language = lang.Code()
	cfg.Locale = locale
	return runtimeConfig{
		Config:   cfg,
		Language: lang,
		Locale:   locale,
		Features: features.Resolve(cfg.Features),
	}
}
