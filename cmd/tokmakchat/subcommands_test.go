package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	"tokmakchat/internal/speech"
)

// isolateEnv 清空会覆盖配置文件的环境变量。
func isolateEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{"OPENAI_API_KEY", "OPENAI_BASE_URL", "ANTHROPIC_AUTH_TOKEN", "ANTHROPIC_BASE_URL", "TOKMAK_MODEL"} {
		t.Setenv(key, "")
	}
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

// newChatServer 模拟 /v1/chat/completions，返回固定内容并统计调用次数。
func newChatServer(t *testing.T, reply string) (*httptest.Server, *atomic.Int64) {
	t.Helper()
	var calls atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/chat/completions" {
			http.NotFound(w, r)
			return
		}
		if got := strings.TrimSpace(r.Header.Get("Authorization")); got != "Bearer test-key" {
			http.Error(w, "missing auth", http.StatusUnauthorized)
			return
		}
		calls.Add(1)
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"id":      "chatcmpl_test",
			"object":  "chat.completion",
			"created": 0,
			"model":   "gpt-4o-mini",
			"choices": []map[string]any{{
				"index":         0,
				"finish_reason": "stop",
				"message":       map[string]any{"role": "assistant", "content": reply},
			}},
		})
	}))
	t.Cleanup(srv.Close)
	return srv, &calls
}

func openAIConfig(t *testing.T, srv *httptest.Server) rootArgs {
	t.Helper()
	isolateEnv(t)
	return rootArgs{cfgPath: writeConfig(t, "provider = \"openai\"\ntoken = \"test-key\"\nurl = \""+srv.URL+"\"\n")}
}

func TestRunAskEchoProvider(t *testing.T) {
	isolateEnv(t)
	root := rootArgs{cfgPath: writeConfig(t, "provider = \"echo\"\n")}
	var out bytes.Buffer
	if err := runAsk(root, []string{"merhaba", "dünya"}, &out); err != nil {
		t.Fatalf("runAsk: %v", err)
	}
	if got := strings.TrimSpace(out.String()); got != "echo: merhaba dünya" {
		t.Fatalf("output = %q", got)
	}
}

func TestRunAskRequiresText(t *testing.T) {
	if err := runAsk(rootArgs{}, []string{"--speak"}, &bytes.Buffer{}); err == nil {
		t.Fatalf("expected usage error")
	}
}

func TestRunAskReportsEnvelopeError(t *testing.T) {
	srv, calls := newChatServer(t, "   ")
	var out bytes.Buffer
	err := runAsk(openAIConfig(t, srv), []string{"selam"}, &out)
	if err == nil || err.Error() != "Failed to get a response." {
		t.Fatalf("err = %v, want fixed envelope message", err)
	}
	if calls.Load() != 1 {
		t.Fatalf("calls = %d, want 1", calls.Load())
	}
}

func TestRunTasksPrintsTasks(t *testing.T) {
	reply, _ := json.Marshal(map[string]any{"anticipatedTasks": []map[string]string{
		{"taskDescription": "Toplantı notlarını hazırla", "reasoning": "Toplantı bugün"},
	}})
	srv, _ := newChatServer(t, "```json\n"+string(reply)+"\n```")
	var out bytes.Buffer
	if err := runTasks(openAIConfig(t, srv), []string{"--now", "2026-10-19T09:30:00Z"}, &out); err != nil {
		t.Fatalf("runTasks: %v", err)
	}
	want := "✓ Toplantı notlarını hazırla\n  Neden: Toplantı bugün\n"
	if out.String() != want {
		t.Fatalf("output = %q, want %q", out.String(), want)
	}
}

func TestRunTasksRejectsBadTime(t *testing.T) {
	if err := runTasks(rootArgs{}, []string{"--now", "yarın"}, &bytes.Buffer{}); err == nil {
		t.Fatalf("expected parse error")
	}
}

func TestRunAnalyzePrintsSummaries(t *testing.T) {
	srv, _ := newChatServer(t, `{"abstractSummary": "Kısa selam.", "concreteSummary": "Sayfa merhaba diyor.",}`)
	path := filepath.Join(t.TempDir(), "sayfa.html")
	if err := os.WriteFile(path, []byte("<html><body><p>Merhaba dünya</p></body></html>"), 0o600); err != nil {
		t.Fatalf("write doc: %v", err)
	}
	var out bytes.Buffer
	if err := runAnalyze(openAIConfig(t, srv), []string{path}, &out); err != nil {
		t.Fatalf("runAnalyze: %v", err)
	}
	want := "Soyut Özet\nKısa selam.\n\nSomut Özet\nSayfa merhaba diyor.\n"
	if out.String() != want {
		t.Fatalf("output = %q, want %q", out.String(), want)
	}
}

func TestRunAnalyzeRejectsUnsupportedFile(t *testing.T) {
	srv, calls := newChatServer(t, "{}")
	path := filepath.Join(t.TempDir(), "notlar.txt")
	if err := os.WriteFile(path, []byte("düz metin"), 0o600); err != nil {
		t.Fatalf("write doc: %v", err)
	}
	if err := runAnalyze(openAIConfig(t, srv), []string{path}, &bytes.Buffer{}); err == nil {
		t.Fatalf("expected unsupported type error")
	}
	if calls.Load() != 0 {
		t.Fatalf("unsupported files must not reach the model")
	}
}

type fakeSynth struct {
	voices []speech.Voice
}

func (f fakeSynth) Voices(context.Context) ([]speech.Voice, error) { return f.voices, nil }

func (f fakeSynth) Speak(context.Context, string, *speech.Voice) error { return nil }

func TestPrintVoicesMarksLocaleMatches(t *testing.T) {
	tests := []struct {
		name   string
		voices []speech.Voice
		want   []string
	}{
		{
			name:   "match",
			voices: []speech.Voice{{ID: "en-1", Name: "Samantha", Language: "en_US"}, {ID: "tr-1", Name: "Yelda", Language: "tr_TR"}},
			want:   []string{"  Samantha", "* Yelda"},
		},
		{
			name:   "no match",
			voices: []speech.Voice{{ID: "en-1", Name: "Samantha", Language: "en_US"}},
			want:   []string{"Turkish voice not found, using default."},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			if err := printVoices(context.Background(), fakeSynth{voices: tt.voices}, "tr-TR", &out); err != nil {
				t.Fatalf("printVoices: %v", err)
			}
			for _, want := range tt.want {
				if !strings.Contains(out.String(), want) {
					t.Fatalf("output %q missing %q", out.String(), want)
				}
			}
		})
	}
}
