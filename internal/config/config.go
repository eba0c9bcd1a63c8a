package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

// 支持的模型提供方。
const (
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"
	ProviderEcho      = "echo"
)

// 支持的语音后端。
const (
	SpeechSystem = "system"
	SpeechOpenAI = "openai"
	SpeechNone   = "none"
)

// DefaultUserProfile 是任务面板使用的固定用户画像。
const DefaultUserProfile = "A software developer interested in AI and productivity, with a meeting scheduled for later today."

// Config is the persisted config file schema.
type Config struct {
	Provider    string          `toml:"provider"`
	URL         string          `toml:"url"`
	Token       string          `toml:"token"`
	Model       string          `toml:"model"`
	WireAPI     string          `toml:"wire_api"`
	Language    string          `toml:"language"`
	Locale      string          `toml:"locale"`
	UserProfile string          `toml:"user_profile"`
	LogLevel    string          `toml:"log_level"`
	Speech      SpeechConfig    `toml:"speech"`
	Features    map[string]bool `toml:"features,omitempty"`
	Source      string          `toml:"-"`
}

// SpeechConfig 描述语音识别与合成后端。
type SpeechConfig struct {
	Backend  string `toml:"backend"`
	Voice    string `toml:"voice"`
	TTSModel string `toml:"tts_model"`
	STTModel string `toml:"stt_model"`
	Player   string `toml:"player"`
	Recorder string `toml:"recorder"`
	URL      string `toml:"url"`
	Token    string `toml:"token"`
}

func Default() Config {
	return Config{
		Provider:    ProviderOpenAI,
		Model:       "gpt-4o-mini",
		WireAPI:     "chat",
		Language:    "tr",
		Locale:      "tr-TR",
		UserProfile: DefaultUserProfile,
		LogLevel:    "info",
		Speech: SpeechConfig{
			Backend:  SpeechSystem,
			Voice:    "nova",
			TTSModel: "tts-1",
			STTModel: "whisper-1",
		},
	}
}

func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".tokmak", "config.toml")
}

func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		path = DefaultPath()
	}
	if path == "" {
		return cfg, errors.New("config path is empty and $HOME is not set")
	}
	cfg.Source = path

	content, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return cfg, err
	default:
		if err := toml.Unmarshal(content, &cfg); err != nil {
			return cfg, fmt.Errorf("parse %s: %w", path, err)
		}
	}
	applyEnv(&cfg)
	return cfg.normalized(), nil
}

// SpeechCredentials 返回语音云端使用的地址与密钥，未单独配置时沿用 OpenAI 凭据。
func (c Config) SpeechCredentials() (string, string) {
	url, token := c.Speech.URL, c.Speech.Token
	if c.Provider == ProviderOpenAI {
		if url == "" {
			url = c.URL
		}
		if token == "" {
			token = c.Token
		}
	}
	if token == "" {
		token = strings.TrimSpace(os.Getenv("OPENAI_API_KEY"))
	}
	return url, token
}

func applyEnv(cfg *Config) {
	switch cfg.Provider {
	case ProviderAnthropic:
		setFromEnv(&cfg.URL, "ANTHROPIC_BASE_URL")
		setFromEnv(&cfg.Token, "ANTHROPIC_AUTH_TOKEN")
	case ProviderOpenAI, "":
		setFromEnv(&cfg.URL, "OPENAI_BASE_URL")
		setFromEnv(&cfg.Token, "OPENAI_API_KEY")
	}
	setFromEnv(&cfg.Model, "TOKMAK_MODEL")
}

func setFromEnv(dst *string, key string) {
	if env := strings.TrimSpace(os.Getenv(key)); env != "" {
		*dst = env
	}
}

func (c Config) normalized() Config {
	def := Default()
	c.Provider = strings.ToLower(strings.TrimSpace(c.Provider))
	if c.Provider == "" {
		c.Provider = def.Provider
	}
	c.WireAPI = strings.ToLower(strings.TrimSpace(c.WireAPI))
	if c.WireAPI == "" {
		c.WireAPI = def.WireAPI
	}
	if strings.TrimSpace(c.Language) == "" {
		c.Language = def.Language
	}
	if strings.TrimSpace(c.Locale) == "" {
		c.Locale = def.Locale
	}
	if strings.TrimSpace(c.UserProfile) == "" {
		c.UserProfile = def.UserProfile
	}
	c.Speech.Backend = strings.ToLower(strings.TrimSpace(c.Speech.Backend))
	if c.Speech.Backend == "" {
		c.Speech.Backend = def.Speech.Backend
	}
	return c
}
