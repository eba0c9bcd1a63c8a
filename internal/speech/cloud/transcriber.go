package cloud

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"tokmakchat/internal/logger"
	"tokmakchat/internal/speech"
	"tokmakchat/internal/speech/system"

	openai "github.com/sashabaranov/go-openai"
)

type audioClient interface {
	CreateTranscription(ctx context.Context, request openai.AudioRequest) (openai.AudioResponse, error)
	CreateSpeech(ctx context.Context, request openai.CreateSpeechRequest) (openai.RawResponse, error)
}

// Transcriber 把录音文件转写为文本。
type Transcriber struct {
	client audioClient
	model  string
	log    *logger.LogEntry
}

func NewTranscriber(client audioClient, model string) *Transcriber {
	if strings.TrimSpace(model) == "" {
		model = DefaultSTTModel
	}
	return &Transcriber{client: client, model: model, log: logger.Named("stt")}
}

// Transcribe 以 locale 的语言代码调用转写接口。
func (t *Transcriber) Transcribe(ctx context.Context, path, locale string) (string, error) {
	resp, err := t.client.CreateTranscription(ctx, openai.AudioRequest{
		Model:    t.model,
		FilePath: path,
		Language: speech.LanguageCode(locale),
	})
	if err != nil {
		return "", fmt.Errorf("transcription: %w", err)
	}
	text := strings.TrimSpace(resp.Text)
	t.log.WithField("chars", len([]rune(text))).Debug("transcription complete")
	return text, nil
}

// recorder 抽象录音能力，便于测试。
type recorder interface {
	Record(ctx context.Context, path string) error
}

// Recognizer 组合本地录音和远程转写实现 speech.Recognizer。
type Recognizer struct {
	recorder    recorder
	transcriber *Transcriber
}

var _ speech.Recognizer = (*Recognizer)(nil)

func NewRecognizer(rec *system.Recorder, transcriber *Transcriber) *Recognizer {
	return &Recognizer{recorder: rec, transcriber: transcriber}
}

// Recognize 录制一句话并转写。ctx 取消只结束录音，已录内容仍会被转写。
func (r *Recognizer) Recognize(ctx context.Context, locale string) (string, error) {
	dir, err := os.MkdirTemp("", "tokmak-rec-*")
	if err != nil {
		return "", fmt.Errorf("create temp dir: %w", err)
	}
	defer os.RemoveAll(dir)
	path := filepath.Join(dir, "utterance.wav")

	if err := r.recorder.Record(ctx, path); err != nil {
		if errors.Is(err, system.ErrEmptyRecording) {
			return "", nil
		}
		return "", err
	}
	return r.transcriber.Transcribe(context.WithoutCancel(ctx), path, locale)
}
