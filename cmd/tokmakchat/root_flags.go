package main

import (
	"flag"
	"fmt"
	"io"

	"tokmakchat/internal/features"
)

type rootArgs struct {
	cfgPath   string
	overrides []string
	model     string
	language  string
	logFile   string
}

// parseRootArgs 解析子命令之前的全局参数，返回剩余参数（子命令及其参数）。
func parseRootArgs(args []string) (rootArgs, []string, error) {
	fs := flag.NewFlagSet("tokmakchat", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	var root rootArgs
	var overrides stringSlice
	var enable stringSlice
	var disable stringSlice
	fs.StringVar(&root.cfgPath, "config", "", "Path to config file (default ~/.tokmak/config.toml)")
	fs.Var(&overrides, "c", "Override config value key=value (repeatable)")
	fs.StringVar(&root.model, "model", "", "Model name (overrides config)")
	fs.StringVar(&root.language, "language", "", "Reply language, e.g. tr or en")
	fs.StringVar(&root.logFile, "log-file", "", "Log file path (default logs/tokmakchat.log)")
	fs.Var(&enable, "enable", "Enable a feature (repeatable). Equivalent to -c features.<name>=true")
	fs.Var(&disable, "disable", "Disable a feature (repeatable). Equivalent to -c features.<name>=false")
	if err := fs.Parse(args); err != nil {
		return rootArgs{}, nil, err
	}

	featureOverrides, err := buildFeatureOverrides(enable, disable)
	if err != nil {
		return rootArgs{}, nil, err
	}
	root.overrides = append([]string{}, overrides...)
	root.overrides = append(root.overrides, featureOverrides...)
	return root, fs.Args(), nil
}

func buildFeatureOverrides(enable []string, disable []string) ([]string, error) {
	var overrides []string
	for _, key := range enable {
		if !features.IsKnown(key) {
			return nil, fmt.Errorf("unknown feature flag: %s", key)
		}
		overrides = append(overrides, fmt.Sprintf("features.%s=%t", key, true))
	}
	for _, key := range disable {
		if !features.IsKnown(key) {
			return nil, fmt.Errorf("unknown feature flag: %s", key)
		}
		overrides = append(overrides, fmt.Sprintf("features.%s=%t", key, false))
	}
	return overrides, nil
}
