package logger

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
)

func TestPlainFormatter_TypePrefixAndFieldSkipping(t *testing.T) {
	ts := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)

	cases := []struct {
		name    string
		data    logrus.Fields
		message string
		want    string
	}{
		{
			name: "with type",
			data: logrus.Fields{
				"component":     "eq",
				"type":          "operation.completed",
				"caller":        "x.go:1",
				"operation":     "converse",
				"submission_id": "s1",
			},
			message: "published event into EQ",
			want:    "x.go:1 [2025-01-02T03:04:05Z] [INFO] [eq] [type=operation.completed] published event into EQ operation=converse submission_id=s1\n",
		},
		{
			name: "without type",
			data: logrus.Fields{
				"component": "speech",
				"caller":    "x.go:1",
				"voice":     "Yelda",
			},
			message: "hello",
			want:    "x.go:1 [2025-01-02T03:04:05Z] [INFO] [speech] hello voice=Yelda\n",
		},
		{
			name:    "bare",
			data:    logrus.Fields{},
			message: "plain",
			want:    "[2025-01-02T03:04:05Z] [INFO] plain\n",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			entry := &logrus.Entry{
				Logger:  logrus.New(),
				Time:    ts,
				Level:   logrus.InfoLevel,
				Message: tc.message,
				Data:    tc.data,
			}
			out, err := (PlainFormatter{}).Format(entry)
			if err != nil {
				t.Fatalf("Format() error: %v", err)
			}
			got := string(out)
			if got != tc.want {
				t.Fatalf("unexpected format:\nwant: %q\ngot:  %q", tc.want, got)
			}
			if _, ok := tc.data["type"]; ok && strings.Count(got, "type=") != 1 {
				t.Fatalf("expected type to appear only once in output, got: %q", got)
			}
		})
	}
}

func TestShortenFilePath(t *testing.T) {
	cases := map[string]string{
		"/home/u/src/tokmakchat/internal/chat/controller.go": "internal/chat/controller.go",
		"/home/u/src/tokmakchat/cmd/tokmakchat/main.go":      "cmd/tokmakchat/main.go",
		"/tmp/other.go": "other.go",
	}
	for in, want := range cases {
		if got := shortenFilePath(in); got != want {
			t.Fatalf("shortenFilePath(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestSetLevel(t *testing.T) {
	l := logrus.New()
	SetRoot(l)
	defer SetRoot(nil)

	if err := SetLevel("debug"); err != nil {
		t.Fatalf("SetLevel(debug) error: %v", err)
	}
	if l.GetLevel() != logrus.DebugLevel {
		t.Fatalf("level = %v, want debug", l.GetLevel())
	}
	if err := SetLevel(""); err != nil {
		t.Fatalf("SetLevel(\"\") error: %v", err)
	}
	if err := SetLevel("loud"); err == nil {
		t.Fatalf("expected error for unknown level")
	}
}

func TestStdLLMLoggerWritesFlowAndModel(t *testing.T) {
	var buf bytes.Buffer
	l := logrus.New()
	l.SetOutput(&buf)
	l.SetFormatter(PlainFormatter{})

	llm := NewLLMLogger(l)
	llm.Request("converse", "gpt-4o-mini", []LLMMessage{{Role: "user", Content: "Merhaba\nnasılsın"}})
	llm.Response("converse", "gpt-4o-mini", "İyiyim")
	llm.Error("converse", "gpt-4o-mini", errors.New("boom"))

	out := buf.String()
	for _, want := range []string{"[llm]", "flow=converse", "model=gpt-4o-mini", "text=İyiyim", "err=boom"} {
		if !strings.Contains(out, want) {
			t.Fatalf("log output missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "Merhaba\nnasılsın") {
		t.Fatalf("expected newlines to be escaped:\n%s", out)
	}
}
