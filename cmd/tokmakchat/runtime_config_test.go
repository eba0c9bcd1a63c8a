package main

import (
	"os"
	"path/filepath"
	"testing"

	"tokmakchat/internal/config"
	"tokmakchat/internal/features"
)

func TestResolveRuntimeLayering(t *testing.T) {
	tests := []struct {
		name       string
		root       rootArgs
		wantModel  string
		wantLang   string
		wantLocale string
	}{
		{name: "defaults", wantModel: "gpt-4o-mini", wantLang: "tr", wantLocale: "tr-TR"},
		{name: "kv override", root: rootArgs{overrides: []string{"model=claude-3-5-haiku", "locale=tr-CY"}}, wantModel: "claude-3-5-haiku", wantLang: "tr", wantLocale: "tr-CY"},
		{name: "flags win", root: rootArgs{overrides: []string{"model=a"}, model: "b", language: "English"}, wantModel: "b", wantLang: "en", wantLocale: "en-US"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rt := resolveRuntime(config.Default(), tt.root)
			if rt.Config.Model != tt.wantModel || rt.Language.Code() != tt.wantLang || rt.Locale != tt.wantLocale {
				t.Fatalf("got model=%q lang=%q locale=%q", rt.Config.Model, rt.Language.Code(), rt.Locale)
			}
		})
	}
}

func TestLoadRuntimeFeatures(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("provider = \"echo\"\n[features]\nspeak_replies = false\n"), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	rt, err := loadRuntime(rootArgs{cfgPath: path, overrides: []string{"features.voice_input=false"}})
	if err != nil {
		t.Fatalf("loadRuntime: %v", err)
	}
	if rt.Features.Enabled(features.SpeakReplies) || rt.Features.Enabled(features.VoiceInput) {
		t.Fatalf("expected both speech features disabled, got %v", rt.Features)
	}
	if !rt.Features.Enabled(features.TasksAutoFetch) {
		t.Fatalf("untouched features keep their defaults")
	}
}
