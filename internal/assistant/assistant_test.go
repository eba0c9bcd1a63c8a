package assistant

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"tokmakchat/internal/agent"
	"tokmakchat/internal/document"
	"tokmakchat/internal/logger"
)

type fakeClient struct {
	mu      sync.Mutex
	reply   string
	err     error
	panics  bool
	prompts []agent.Prompt
}

func (f *fakeClient) Complete(_ context.Context, prompt agent.Prompt) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.prompts = append(f.prompts, prompt)
	if f.panics {
		panic("boom")
	}
	return f.reply, f.err
}

func (f *fakeClient) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.prompts)
}

func newTestAssistant(client agent.ModelClient) *Assistant {
	return New(Options{
		Client: client,
		Model:  "test-model",
		Vision: true,
		LLMLog: logger.NoopLLMLogger{},
		Log:    logger.Discard(),
	})
}

func dataURI(mimeType, payload string) string {
	return document.Document{MIMEType: mimeType, Data: []byte(payload)}.DataURI()
}

func TestConverse(t *testing.T) {
	client := &fakeClient{reply: "  Merhaba! Size nasıl yardımcı olabilirim?  "}
	res := newTestAssistant(client).Converse(context.Background(), ConverseInput{Query: "Merhaba"})
	if !res.Success {
		t.Fatalf("Converse() failed: %q", res.Error)
	}
	if res.Data.Response != "Merhaba! Size nasıl yardımcı olabilirim?" {
		t.Fatalf("Response = %q", res.Data.Response)
	}
	prompt := client.prompts[0]
	if prompt.Model != "test-model" {
		t.Fatalf("Model = %q, want test-model", prompt.Model)
	}
	if !strings.Contains(prompt.Messages[0].Content, "Language: tr") {
		t.Fatalf("system prompt should default to tr: %q", prompt.Messages[0].Content)
	}
	if last := prompt.Messages[len(prompt.Messages)-1]; last.Role != agent.RoleUser || last.Content != "Merhaba" {
		t.Fatalf("last message = %#v", last)
	}
}

func TestConverseFailuresUseFixedMessage(t *testing.T) {
	cases := []struct {
		name      string
		client    *fakeClient
		query     string
		wantCalls int
	}{
		{name: "empty query", client: &fakeClient{reply: "x"}, query: "   ", wantCalls: 0},
		{name: "remote error", client: &fakeClient{err: errors.New("http_500: upstream exploded")}, query: "hi", wantCalls: 1},
		{name: "empty reply", client: &fakeClient{reply: " "}, query: "hi", wantCalls: 1},
		{name: "panic", client: &fakeClient{panics: true}, query: "hi", wantCalls: 1},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			res := newTestAssistant(tc.client).Converse(context.Background(), ConverseInput{Query: tc.query})
			if res.Success {
				t.Fatalf("Converse() succeeded, want failure")
			}
			if res.Error != ErrConverse {
				t.Fatalf("Error = %q, want %q", res.Error, ErrConverse)
			}
			if got := tc.client.calls(); got != tc.wantCalls {
				t.Fatalf("remote calls = %d, want %d", got, tc.wantCalls)
			}
		})
	}
}

func TestAnalyzeDocument(t *testing.T) {
	cases := []struct {
		name        string
		uri         string
		reply       string
		wantSuccess bool
		wantImage   bool
		wantText    string
	}{
		{
			name:        "html extracted",
			uri:         dataURI(document.MIMEHTML, "<html><body><p>Toplantı saat 15:00</p></body></html>"),
			reply:       "```json\n{\"abstractSummary\": \"Toplantı notu\", \"concreteSummary\": \"Saat 15:00\",}\n```",
			wantSuccess: true,
			wantText:    "Toplantı saat 15:00",
		},
		{
			name:        "jpeg as image",
			uri:         dataURI(document.MIMEJPEG, "\xff\xd8\xff"),
			reply:       `Here you go: {"abstractSummary":"a","concreteSummary":"c"}`,
			wantSuccess: true,
			wantImage:   true,
		},
		{
			name:  "missing field",
			uri:   dataURI(document.MIMEHTML, "<p>x</p>"),
			reply: `{"abstractSummary":"a"}`,
		},
		{
			name:  "not json",
			uri:   dataURI(document.MIMEHTML, "<p>x</p>"),
			reply: "I cannot do that.",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			client := &fakeClient{reply: tc.reply}
			res := newTestAssistant(client).AnalyzeDocument(context.Background(), AnalyzeDocumentInput{DocumentDataURI: tc.uri})
			if res.Success != tc.wantSuccess {
				t.Fatalf("Success = %v (error %q), want %v", res.Success, res.Error, tc.wantSuccess)
			}
			if !tc.wantSuccess {
				if res.Error != ErrAnalyzeDocument {
					t.Fatalf("Error = %q, want %q", res.Error, ErrAnalyzeDocument)
				}
				return
			}
			if res.Data.AbstractSummary == "" || res.Data.ConcreteSummary == "" {
				t.Fatalf("summaries should be filled: %+v", res.Data)
			}
			prompt := client.prompts[0]
			if prompt.OutputSchema == "" {
				t.Fatalf("expected output schema on document prompt")
			}
			user := prompt.Messages[len(prompt.Messages)-1]
			if tc.wantImage != (len(user.Images) == 1) {
				t.Fatalf("images = %d, wantImage %v", len(user.Images), tc.wantImage)
			}
			if tc.wantText != "" && !strings.Contains(user.Content, tc.wantText) {
				t.Fatalf("user content %q should contain %q", user.Content, tc.wantText)
			}
		})
	}
}

func TestAnalyzeDocumentRejectsBeforeRemoteCall(t *testing.T) {
	for name, uri := range map[string]string{
		"png":     dataURI("image/png", "\x89PNG"),
		"garbage": "not a data uri",
	} {
		t.Run(name, func(t *testing.T) {
			client := &fakeClient{reply: `{"abstractSummary":"a","concreteSummary":"c"}`}
			res := newTestAssistant(client).AnalyzeDocument(context.Background(), AnalyzeDocumentInput{DocumentDataURI: uri})
			if res.Success || res.Error != ErrAnalyzeDocument {
				t.Fatalf("result = %+v, want fixed failure", res)
			}
			if client.calls() != 0 {
				t.Fatalf("remote calls = %d, want 0", client.calls())
			}
		})
	}

	client := &fakeClient{}
	a := New(Options{Client: client, LLMLog: logger.NoopLLMLogger{}, Log: logger.Discard()})
	res := a.AnalyzeDocument(context.Background(), AnalyzeDocumentInput{DocumentDataURI: dataURI(document.MIMEJPEG, "\xff\xd8\xff")})
	if res.Success || client.calls() != 0 {
		t.Fatalf("jpeg without vision should fail locally: %+v calls=%d", res, client.calls())
	}
}

func TestAnticipateTasks(t *testing.T) {
	client := &fakeClient{reply: `{"anticipatedTasks":[
		{"taskDescription":"Toplantı için sunum hazırla","reasoning":"Bugün toplantı var"},
		{"taskDescription":"  ","reasoning":"boş"}
	]}`}
	res := newTestAssistant(client).AnticipateTasks(context.Background(), AnticipateTasksInput{
		UserProfile:     "A developer",
		CurrentDateTime: "2025-01-02T03:04:05.000Z",
	})
	if !res.Success {
		t.Fatalf("AnticipateTasks() failed: %q", res.Error)
	}
	if len(res.Data.AnticipatedTasks) != 1 {
		t.Fatalf("tasks = %d, want 1 (blank task dropped)", len(res.Data.AnticipatedTasks))
	}
	if got := res.Data.AnticipatedTasks[0].Reasoning; got != "Bugün toplantı var" {
		t.Fatalf("Reasoning = %q", got)
	}
	if !strings.Contains(client.prompts[0].Messages[0].Content, "2025-01-02T03:04:05.000Z") {
		t.Fatalf("prompt should carry the current time")
	}
}

func TestAnticipateTasksProfileWithBraces(t *testing.T) {
	const profile = "A Go developer who writes {{.Name}} templates daily."
	client := &fakeClient{reply: `{"anticipatedTasks":[{"taskDescription":"Şablonları gözden geçir","reasoning":"Her gün şablon yazıyor"}]}`}
	res := newTestAssistant(client).AnticipateTasks(context.Background(), AnticipateTasksInput{
		UserProfile:     profile,
		CurrentDateTime: "2026-10-19T10:00:00Z",
	})
	if !res.Success {
		t.Fatalf("AnticipateTasks() failed: %q", res.Error)
	}
	if client.calls() != 1 {
		t.Fatalf("remote calls = %d, want 1", client.calls())
	}
	found := false
	for _, msg := range client.prompts[0].Messages {
		if strings.Contains(msg.Content, profile) {
			found = true
		}
	}
	if !found {
		t.Fatalf("prompt should carry the profile verbatim")
	}
}

func TestAnticipateTasksFailures(t *testing.T) {
	cases := []struct {
		name      string
		in        AnticipateTasksInput
		client    *fakeClient
		wantCalls int
	}{
		{
			name:   "empty profile",
			in:     AnticipateTasksInput{CurrentDateTime: "2025-01-02T03:04:05Z"},
			client: &fakeClient{},
		},
		{
			name:   "bad time",
			in:     AnticipateTasksInput{UserProfile: "p", CurrentDateTime: "yesterday"},
			client: &fakeClient{},
		},
		{
			name:      "remote error",
			in:        AnticipateTasksInput{UserProfile: "p", CurrentDateTime: "2025-01-02T03:04:05Z"},
			client:    &fakeClient{err: errors.New("timeout")},
			wantCalls: 1,
		},
		{
			name:      "missing key",
			in:        AnticipateTasksInput{UserProfile: "p", CurrentDateTime: "2025-01-02T03:04:05Z"},
			client:    &fakeClient{reply: `{"tasks":[]}`},
			wantCalls: 1,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			res := newTestAssistant(tc.client).AnticipateTasks(context.Background(), tc.in)
			if res.Success || res.Error != ErrAnticipateTasks {
				t.Fatalf("result = %+v, want %q", res, ErrAnticipateTasks)
			}
			if got := tc.client.calls(); got != tc.wantCalls {
				t.Fatalf("remote calls = %d, want %d", got, tc.wantCalls)
			}
		})
	}
}

func TestDecodeJSON(t *testing.T) {
	var out struct {
		A string `json:"a"`
	}
	for _, raw := range []string{
		`{"a":"x"}`,
		"```json\n{\"a\":\"x\"}\n```",
		`sure! {"a":"x",} hope it helps`,
		`{'a': 'x'}`,
	} {
		out.A = ""
		if err := decodeJSON(raw, &out); err != nil {
			t.Fatalf("decodeJSON(%q) error: %v", raw, err)
		}
		if out.A != "x" {
			t.Fatalf("decodeJSON(%q) = %q, want x", raw, out.A)
		}
	}
	if err := decodeJSON("no braces here", &out); !errors.Is(err, errNoJSON) {
		t.Fatalf("decodeJSON(no json) error = %v, want errNoJSON", err)
	}
}
