package speech

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"tokmakchat/internal/logger"
)

// Handlers 是识别会话的回调，均在后台 goroutine 中调用。
type Handlers struct {
	OnTranscript func(text string)
	OnSpeechEnd  func()
	OnError      func(err error)
}

type Options struct {
	Recognizer  Recognizer
	Synthesizer Synthesizer
	// Locale 为空时使用 DefaultLocale。
	Locale string
	// Voice 是首选音色的 ID 或名称，为空时按 Locale 匹配。
	Voice    string
	Handlers Handlers
	Log      *logger.LogEntry
}

// Bridge 管理至多一个识别会话和一个合成会话。每个会话带单调递增的序号，
// 被替换或已释放的会话的完成回调会被丢弃。
type Bridge struct {
	recognizer  Recognizer
	synthesizer Synthesizer
	locale      string
	voicePref   string
	handlers    Handlers
	log         *logger.LogEntry

	mu           sync.Mutex
	closed       bool
	listenSeq    uint64
	listening    bool
	listenCancel context.CancelFunc
	speakSeq     uint64
	speaking     bool
	speakCancel  context.CancelFunc

	voiceMu     sync.Mutex
	voiceCached bool
	voice       Voice
	voiceFound  bool
}

func NewBridge(opts Options) *Bridge {
	b := &Bridge{
		recognizer:  opts.Recognizer,
		synthesizer: opts.Synthesizer,
		locale:      strings.TrimSpace(opts.Locale),
		voicePref:   opts.Voice,
		handlers:    opts.Handlers,
		log:         opts.Log,
	}
	if b.locale == "" {
		b.locale = DefaultLocale
	}
	if b.log == nil {
		b.log = logger.Named("speech")
	}
	return b
}

// Locale 返回桥接使用的语言区域。
func (b *Bridge) Locale() string { return b.locale }

// CanListen 报告是否配置了识别能力。
func (b *Bridge) CanListen() bool { return b.recognizer != nil }

func (b *Bridge) Listening() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.listening
}

func (b *Bridge) Speaking() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.speaking
}

// StartListening 开始一次单句识别。没有识别能力时通过 OnError 和日志报告
// ErrUnavailable；已在识别时返回 ErrBusy 且不触发回调。
func (b *Bridge) StartListening() error {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return ErrClosed
	}
	if b.listening {
		b.mu.Unlock()
		return ErrBusy
	}
	if b.recognizer == nil {
		b.mu.Unlock()
		b.log.WithError(ErrUnavailable).Error("speech recognition could not start")
		b.emitError(ErrUnavailable)
		return ErrUnavailable
	}
	ctx, cancel := context.WithCancel(context.Background())
	b.listenSeq++
	seq := b.listenSeq
	b.listening = true
	b.listenCancel = cancel
	b.mu.Unlock()

	b.log.WithField("locale", b.locale).Debug("speech recognition started")
	go b.recognize(ctx, seq)
	return nil
}

// StopListening 提前结束识别；已捕获部分的转写仍会送达。未在识别时为空操作。
func (b *Bridge) StopListening() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if !b.listening || b.listenCancel == nil {
		return
	}
	b.listenCancel()
}

func (b *Bridge) recognize(ctx context.Context, seq uint64) {
	text, err := b.safeRecognize(ctx)
	if err != nil && errors.Is(err, context.Canceled) {
		err = nil
	}

	b.mu.Lock()
	if b.closed || seq != b.listenSeq {
		b.mu.Unlock()
		return
	}
	b.listening = false
	if b.listenCancel != nil {
		b.listenCancel()
		b.listenCancel = nil
	}
	b.mu.Unlock()

	if err != nil {
		b.log.WithError(err).Warn("speech recognition failed")
		b.emitSpeechEnd()
		b.emitError(err)
		return
	}
	if text = strings.TrimSpace(text); text != "" {
		if b.handlers.OnTranscript != nil {
			b.handlers.OnTranscript(text)
		}
	}
	b.emitSpeechEnd()
}

func (b *Bridge) safeRecognize(ctx context.Context) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("recognizer panic: %v", r)
		}
	}()
	return b.recognizer.Recognize(ctx, b.locale)
}

// Speak 取消正在进行的朗读并朗读 text。onEnd 在朗读结束或失败时恰好调用一次；
// 被新的 Speak 抢占或 Bridge 被释放时不调用。返回本次会话序号，已释放时返回 0。
func (b *Bridge) Speak(text string, onEnd func()) uint64 {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return 0
	}
	if b.speakCancel != nil {
		b.speakCancel()
	}
	ctx, cancel := context.WithCancel(context.Background())
	b.speakSeq++
	seq := b.speakSeq
	b.speaking = true
	b.speakCancel = cancel
	b.mu.Unlock()

	go b.speak(ctx, seq, text, onEnd)
	return seq
}

func (b *Bridge) speak(ctx context.Context, seq uint64, text string, onEnd func()) {
	err := b.safeSpeak(ctx, text)

	b.mu.Lock()
	if b.closed || seq != b.speakSeq {
		b.mu.Unlock()
		return
	}
	b.speaking = false
	if b.speakCancel != nil {
		b.speakCancel()
		b.speakCancel = nil
	}
	b.mu.Unlock()

	if err != nil {
		b.log.WithError(err).Warn("speech synthesis failed")
	}
	if onEnd != nil {
		onEnd()
	}
}

func (b *Bridge) safeSpeak(ctx context.Context, text string) (err error) {
	if b.synthesizer == nil {
		return ErrNoSynthesizer
	}
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("synthesizer panic: %v", r)
		}
	}()
	voice := b.resolveVoice(ctx)
	return b.synthesizer.Speak(ctx, text, voice)
}

// CancelSpeech 停止当前朗读，其 onEnd 不再调用。
func (b *Bridge) CancelSpeech() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.speakCancel != nil {
		b.speakCancel()
		b.speakCancel = nil
	}
	b.speakSeq++
	b.speaking = false
}

// resolveVoice 返回匹配 locale 的音色；找不到时返回 nil 并记录警告，由合成器使用默认音色。
// 只有成功获取音色列表时才缓存结果。
func (b *Bridge) resolveVoice(ctx context.Context) *Voice {
	b.voiceMu.Lock()
	defer b.voiceMu.Unlock()
	if !b.voiceCached {
		voices, err := b.synthesizer.Voices(ctx)
		if err != nil {
			b.log.WithError(err).Warn("failed to list voices")
		} else {
			b.voice, b.voiceFound = SelectVoice(voices, b.locale, b.voicePref)
			b.voiceCached = true
		}
	}
	if !b.voiceFound {
		b.log.Warnf("%s voice not found, using default.", LanguageName(b.locale))
		return nil
	}
	v := b.voice
	return &v
}

// Close 停止识别并取消朗读，之后所有操作都是空操作，未完成会话的回调被丢弃。
func (b *Bridge) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	b.closed = true
	if b.listenCancel != nil {
		b.listenCancel()
		b.listenCancel = nil
	}
	if b.speakCancel != nil {
		b.speakCancel()
		b.speakCancel = nil
	}
	b.listening = false
	b.speaking = false
}

func (b *Bridge) emitSpeechEnd() {
	if b.handlers.OnSpeechEnd != nil {
		b.handlers.OnSpeechEnd()
	}
}

func (b *Bridge) emitError(err error) {
	if b.handlers.OnError != nil {
		b.handlers.OnError(err)
	}
}
