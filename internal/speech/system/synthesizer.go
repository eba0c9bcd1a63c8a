package system

import (
	"bufio"
	"context"
	"fmt"
	"strings"

	"tokmakchat/internal/logger"
	"tokmakchat/internal/speech"
)

// Synthesizer 使用 macOS 的 say 或 espeak-ng 朗读文本。
type Synthesizer struct {
	command string
	log     *logger.LogEntry
}

var _ speech.Synthesizer = (*Synthesizer)(nil)

// NewSynthesizer 选择朗读命令；command 为空时依次尝试 say、espeak-ng、espeak。
func NewSynthesizer(command string) (*Synthesizer, error) {
	name, err := firstAvailable(command, "say", "espeak-ng", "espeak")
	if err != nil {
		return nil, err
	}
	return &Synthesizer{command: name, log: logger.Named("tts")}, nil
}

func (s *Synthesizer) Command() string { return s.command }

func (s *Synthesizer) Voices(ctx context.Context) ([]speech.Voice, error) {
	if s.command == "say" {
		out, err := runOutput(ctx, "say", "-v", "?")
		if err != nil {
			return nil, err
		}
		return parseSayVoices(out), nil
	}
	out, err := runOutput(ctx, s.command, "--voices")
	if err != nil {
		return nil, err
	}
	return parseEspeakVoices(out), nil
}

// Speak 阻塞到朗读结束；ctx 取消会终止进程。voice 为 nil 时使用系统默认音色。
func (s *Synthesizer) Speak(ctx context.Context, text string, voice *speech.Voice) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}
	args := speakArgs(s.command, text, voice)
	s.log.WithField("command", s.command).WithField("chars", len([]rune(text))).Debug("speaking")
	if _, err := runOutput(ctx, s.command, args...); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("speak: %w", err)
	}
	return nil
}

// speakArgs 组装朗读参数。文本放在 -- 之后，以 - 开头的回复不会被当成选项。
func speakArgs(command, text string, voice *speech.Voice) []string {
	var args []string
	if voice != nil {
		if command == "say" {
			args = append(args, "-v", voice.Name)
		} else {
			args = append(args, "-v", voice.ID)
		}
	}
	return append(args, "--", text)
}

// parseSayVoices 解析 `say -v ?` 的输出，例如
// "Yelda               tr_TR    # Merhaba, benim adım Yelda."
func parseSayVoices(out string) []speech.Voice {
	var voices []speech.Voice
	scanner := bufio.NewScanner(strings.NewReader(out))
	for scanner.Scan() {
		line := scanner.Text()
		if idx := strings.Index(line, "#"); idx >= 0 {
			line = line[:idx]
		}
		fields := strings.Fields(line)
		if len(fields) < 2 {
			continue
		}
		lang := fields[len(fields)-1]
		name := strings.Join(fields[:len(fields)-1], " ")
		voices = append(voices, speech.Voice{ID: name, Name: name, Language: lang})
	}
	return voices
}

// parseEspeakVoices 解析 `espeak-ng --voices` 的表格输出，跳过表头。
func parseEspeakVoices(out string) []speech.Voice {
	var voices []speech.Voice
	scanner := bufio.NewScanner(strings.NewReader(out))
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) < 4 || fields[0] == "Pty" {
			continue
		}
		voices = append(voices, speech.Voice{ID: fields[1], Name: fields[3], Language: fields[1]})
	}
	return voices
}
