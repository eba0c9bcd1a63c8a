package cloud

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"tokmakchat/internal/logger"
	"tokmakchat/internal/speech"

	openai "github.com/sashabaranov/go-openai"
)

var builtinVoices = []openai.SpeechVoice{
	openai.VoiceAlloy,
	openai.VoiceEcho,
	openai.VoiceFable,
	openai.VoiceOnyx,
	openai.VoiceNova,
	openai.VoiceShimmer,
}

// player 抽象音频播放，system.Player 实现它。
type player interface {
	Play(ctx context.Context, path string) error
}

// Synthesizer 调用 TTS 接口生成 MP3 并交给本地播放器。
type Synthesizer struct {
	client audioClient
	player player
	model  string
	voice  string
	log    *logger.LogEntry
}

var _ speech.Synthesizer = (*Synthesizer)(nil)

func NewSynthesizer(client audioClient, p player, model, voice string) *Synthesizer {
	if strings.TrimSpace(model) == "" {
		model = DefaultTTSModel
	}
	if strings.TrimSpace(voice) == "" {
		voice = DefaultVoice
	}
	return &Synthesizer{client: client, player: p, model: model, voice: voice, log: logger.Named("tts")}
}

// Voices 返回内置音色；这些音色都是多语种的。
func (s *Synthesizer) Voices(context.Context) ([]speech.Voice, error) {
	voices := make([]speech.Voice, 0, len(builtinVoices))
	for _, v := range builtinVoices {
		voices = append(voices, speech.Voice{ID: string(v), Name: string(v), Language: speech.LanguageMultilingual})
	}
	return voices, nil
}

func (s *Synthesizer) Speak(ctx context.Context, text string, voice *speech.Voice) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}
	name := s.voice
	if voice != nil && voice.ID != "" {
		name = voice.ID
	}
	resp, err := s.client.CreateSpeech(ctx, openai.CreateSpeechRequest{
		Model:          openai.SpeechModel(s.model),
		Input:          text,
		Voice:          openai.SpeechVoice(name),
		ResponseFormat: openai.SpeechResponseFormatMp3,
	})
	if err != nil {
		return fmt.Errorf("tts: %w", err)
	}
	defer resp.Close()

	f, err := os.CreateTemp("", "tokmak-tts-*.mp3")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	path := f.Name()
	defer os.Remove(path)
	if _, err := io.Copy(f, resp); err != nil {
		f.Close()
		return fmt.Errorf("write audio: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("write audio: %w", err)
	}
	s.log.WithField("voice", name).Debug("playing synthesized speech")
	return s.player.Play(ctx, path)
}
