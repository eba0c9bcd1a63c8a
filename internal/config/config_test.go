package config

import (
	"os"
	"path/filepath"
	"testing"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"OPENAI_BASE_URL", "OPENAI_API_KEY",
		"ANTHROPIC_BASE_URL", "ANTHROPIC_AUTH_TOKEN",
		"TOKMAK_MODEL",
	} {
		t.Setenv(key, "")
	}
}

func TestDefault(t *testing.T) {
	cfg := Default()
	if cfg.Language != "tr" {
		t.Fatalf("Default().Language = %q, want %q", cfg.Language, "tr")
	}
	if cfg.Locale != "tr-TR" {
		t.Fatalf("Default().Locale = %q, want %q", cfg.Locale, "tr-TR")
	}
	if cfg.UserProfile != DefaultUserProfile {
		t.Fatalf("Default().UserProfile = %q", cfg.UserProfile)
	}
	if cfg.Speech.Backend != SpeechSystem {
		t.Fatalf("Default().Speech.Backend = %q, want %q", cfg.Speech.Backend, SpeechSystem)
	}
}

func TestLoad_MissingFile_UsesDefaults(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "config.toml")
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Source != path {
		t.Fatalf("cfg.Source = %q, want %q", cfg.Source, path)
	}
	if cfg.Model != Default().Model {
		t.Fatalf("cfg.Model = %q, want %q", cfg.Model, Default().Model)
	}
}

func TestLoad_FromTOML(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(`
provider = "anthropic"
url = "https://example.test"
token = "test-token"
model = "claude-custom"

[speech]
backend = "OpenAI"
voice = "shimmer"

[features]
speak_replies = false
`), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Provider != ProviderAnthropic {
		t.Fatalf("cfg.Provider = %q, want %q", cfg.Provider, ProviderAnthropic)
	}
	if cfg.Model != "claude-custom" {
		t.Fatalf("cfg.Model = %q, want %q", cfg.Model, "claude-custom")
	}
	if cfg.Speech.Backend != SpeechOpenAI {
		t.Fatalf("cfg.Speech.Backend = %q, want %q", cfg.Speech.Backend, SpeechOpenAI)
	}
	if cfg.Speech.Voice != "shimmer" {
		t.Fatalf("cfg.Speech.Voice = %q, want %q", cfg.Speech.Voice, "shimmer")
	}
	if enabled, ok := cfg.Features["speak_replies"]; !ok || enabled {
		t.Fatalf("cfg.Features[speak_replies] = %v,%v, want false,true", enabled, ok)
	}
	if cfg.Language != "tr" {
		t.Fatalf("cfg.Language = %q, want default %q", cfg.Language, "tr")
	}
}

func TestLoad_InvalidTOML(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("model = \n"), 0o600); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	if _, err := Load(path); err == nil {
		t.Fatalf("expected parse error")
	}
}

func TestLoad_EnvOverridesByProvider(t *testing.T) {
	clearEnv(t)
	t.Setenv("OPENAI_BASE_URL", "https://openai.example/v1")
	t.Setenv("OPENAI_API_KEY", "sk-env")
	t.Setenv("ANTHROPIC_AUTH_TOKEN", "ant-env")
	t.Setenv("TOKMAK_MODEL", "env-model")

	cfg, err := Load(filepath.Join(t.TempDir(), "config.toml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.URL != "https://openai.example/v1" || cfg.Token != "sk-env" {
		t.Fatalf("openai env not applied: url=%q token=%q", cfg.URL, cfg.Token)
	}
	if cfg.Model != "env-model" {
		t.Fatalf("cfg.Model = %q, want %q", cfg.Model, "env-model")
	}
}

func TestApplyKVOverrides(t *testing.T) {
	got := ApplyKVOverrides(Default(), []string{
		"model=override-model",
		"speech.backend=none",
		`language="en"`,
		"features.voice_input=false",
		"features.bogus=notabool",
		"malformed",
	})
	if got.Model != "override-model" {
		t.Fatalf("Model = %q, want %q", got.Model, "override-model")
	}
	if got.Speech.Backend != SpeechNone {
		t.Fatalf("Speech.Backend = %q, want %q", got.Speech.Backend, SpeechNone)
	}
	if got.Language != "en" {
		t.Fatalf("Language = %q, want %q", got.Language, "en")
	}
	if enabled, ok := got.Features["voice_input"]; !ok || enabled {
		t.Fatalf("Features[voice_input] = %v,%v, want false,true", enabled, ok)
	}
	if _, ok := got.Features["bogus"]; ok {
		t.Fatalf("expected unparsable feature value to be ignored")
	}
}

func TestSpeechCredentials(t *testing.T) {
	clearEnv(t)
	cfg := Default()
	cfg.URL = "https://api.example/v1"
	cfg.Token = "sk-main"
	url, token := cfg.SpeechCredentials()
	if url != cfg.URL || token != cfg.Token {
		t.Fatalf("SpeechCredentials() = %q,%q, want main credentials", url, token)
	}

	cfg.Provider = ProviderAnthropic
	t.Setenv("OPENAI_API_KEY", "sk-speech")
	url, token = cfg.SpeechCredentials()
	if url != "" || token != "sk-speech" {
		t.Fatalf("SpeechCredentials() = %q,%q, want env token only", url, token)
	}
}

func TestSaveRoundTrip(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	cfg := Default()
	cfg.Model = "saved-model"
	cfg.Speech.Voice = "alloy"
	if err := Save(path, cfg); err != nil {
		t.Fatalf("Save: %v", err)
	}
	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if loaded.Model != "saved-model" || loaded.Speech.Voice != "alloy" {
		t.Fatalf("round trip mismatch: %+v", loaded)
	}
}
