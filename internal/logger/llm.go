package logger

import (
	"fmt"
	"runtime"
	"strings"

	"github.com/sirupsen/logrus"
)

// LLMMessage 表示一次请求中的对话消息。
type LLMMessage struct {
	Role    string
	Content string
}

// LLMLogger 记录与远端模型交互的请求、响应与错误。
type LLMLogger interface {
	Request(flow, model string, messages []LLMMessage)
	Response(flow, model, content string)
	Error(flow, model string, err error)
}

// LLMLog 是全局的 LLM 日志器。
var LLMLog LLMLogger = NewLLMLogger(nil)

// SetGlobalLLMLogger 覆盖全局 LLM 日志实例，传入 nil 将重置为默认实现。
func SetGlobalLLMLogger(l LLMLogger) {
	if l == nil {
		l = NewLLMLogger(nil)
	}
	LLMLog = l
}

// StdLLMLogger 使用 logrus 输出日志。
type StdLLMLogger struct {
	entry *logrus.Entry
}

// NewLLMLogger 构造默认的 LLM 日志记录器。
func NewLLMLogger(l *Logger) *StdLLMLogger {
	if l == nil {
		l = root()
	}
	return &StdLLMLogger{entry: logrus.NewEntry(l).WithField("component", "llm")}
}

func (l *StdLLMLogger) Request(flow, model string, messages []LLMMessage) {
	l.printf(logrus.InfoLevel, "-> request flow=%s model=%s messages=%d", flow, model, len(messages))
	for i, msg := range messages {
		l.printf(logrus.DebugLevel, "-> message[%d] role=%s content=%s", i, msg.Role, sanitize(msg.Content))
	}
}

func (l *StdLLMLogger) Response(flow, model, content string) {
	l.printf(logrus.InfoLevel, "<- response flow=%s model=%s text=%s", flow, model, sanitize(content))
}

func (l *StdLLMLogger) Error(flow, model string, err error) {
	l.printf(logrus.ErrorLevel, "!! error flow=%s model=%s err=%v", flow, model, err)
}

// NoopLLMLogger 忽略所有日志输出。
type NoopLLMLogger struct{}

func (NoopLLMLogger) Request(flow, model string, messages []LLMMessage) {}
func (NoopLLMLogger) Response(flow, model, content string)              {}
func (NoopLLMLogger) Error(flow, model string, err error)               {}

func (l *StdLLMLogger) printf(level logrus.Level, format string, args ...any) {
	if l == nil || l.entry == nil || !l.entry.Logger.IsLevelEnabled(level) {
		return
	}
	entry := l.entry
	if caller := findCaller(); caller != "" {
		entry = entry.WithField("caller", caller)
	}
	entry.Log(level, fmt.Sprintf(format, args...))
}

func sanitize(text string) string {
	text = strings.ReplaceAll(text, "\n", `\n`)
	text = strings.ReplaceAll(text, "\r", `\r`)
	const limit = 2000
	if r := []rune(text); len(r) > limit {
		return string(r[:limit]) + "…"
	}
	return text
}

func findCaller() string {
	pcs := make([]uintptr, 16)
	n := runtime.Callers(3, pcs)
	frames := runtime.CallersFrames(pcs[:n])
	for {
		frame, more := frames.Next()
		if frame.File != "" && !strings.HasSuffix(frame.File, "logger/llm.go") {
			return fmt.Sprintf("%s:%d", shortenFilePath(frame.File), frame.Line)
		}
		if !more {
			break
		}
	}
	return ""
}
