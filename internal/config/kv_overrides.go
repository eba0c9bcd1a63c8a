package config

import (
	"strconv"
	"strings"
)

// ApplyKVOverrides applies free-form -c key=value overrides.
// Unknown keys are ignored; features.<name>=bool toggles a feature flag.
func ApplyKVOverrides(cfg Config, overrides []string) Config {
	if len(overrides) == 0 {
		return cfg
	}
	for _, raw := range overrides {
		parts := strings.SplitN(raw, "=", 2)
		if len(parts) != 2 {
			continue
		}
		key := strings.TrimSpace(parts[0])
		val := strings.Trim(strings.TrimSpace(parts[1]), `"`)
		switch key {
		case "provider":
			cfg.Provider = val
		case "url":
			cfg.URL = val
		case "token":
			cfg.Token = val
		case "model":
			cfg.Model = val
		case "wire_api":
			cfg.WireAPI = val
		case "language":
			cfg.Language = val
		case "locale":
			cfg.Locale = val
		case "user_profile":
			cfg.UserProfile = val
		case "log_level":
			cfg.LogLevel = val
		case "speech.backend":
			cfg.Speech.Backend = val
		case "speech.voice":
			cfg.Speech.Voice = val
		case "speech.tts_model":
			cfg.Speech.TTSModel = val
		case "speech.stt_model":
			cfg.Speech.STTModel = val
		case "speech.player":
			cfg.Speech.Player = val
		case "speech.recorder":
			cfg.Speech.Recorder = val
		default:
			name, ok := strings.CutPrefix(key, "features.")
			if !ok || name == "" {
				continue
			}
			enabled, err := strconv.ParseBool(val)
			if err != nil {
				continue
			}
			if cfg.Features == nil {
				cfg.Features = map[string]bool{}
			}
			cfg.Features[name] = enabled
		}
	}
	return cfg.normalized()
}
