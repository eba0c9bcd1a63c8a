// Package chat 实现对话面板的状态机：消息列表、输入框、语音与远程对话的编排。
// Controller 不是并发安全的，只能在 UI 事件循环中调用。
package chat

import (
	"errors"
	"strings"

	"tokmakchat/internal/assistant"
	"tokmakchat/internal/avatar"
	"tokmakchat/internal/logger"
	"tokmakchat/internal/notify"
	"tokmakchat/internal/speech"
)

// Phase 是对话状态机的阶段。
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseListening
	PhaseThinking
	PhaseSpeaking
)

func (p Phase) String() string {
	switch p {
	case PhaseListening:
		return "listening"
	case PhaseThinking:
		return "thinking"
	case PhaseSpeaking:
		return "speaking"
	default:
		return "idle"
	}
}

// Requester 发起一次远程对话，返回用于匹配结果的提交 ID。
type Requester interface {
	RequestConverse(in assistant.ConverseInput) (string, error)
}

// Voice 是控制器需要的语音能力。Speak 返回的朗读编号会随 SpeechFinished 回传。
type Voice interface {
	StartListening() error
	StopListening()
	Speak(text string) uint64
}

type Options struct {
	Requester Requester
	Voice     Voice
	Notify    notify.Func
	// Language 为空时使用 tr。
	Language string
	// SpeakReplies 为 false 时回复不朗读，直接回到空闲。
	SpeakReplies bool
	Log          *logger.LogEntry
}

type Controller struct {
	requester    Requester
	voice        Voice
	notify       notify.Func
	language     string
	speakReplies bool
	log          *logger.LogEntry

	messages  []Message
	nextID    int64
	input     string
	phase     Phase
	pending   string
	utterance uint64
}

func NewController(opts Options) *Controller {
	c := &Controller{
		requester:    opts.Requester,
		voice:        opts.Voice,
		notify:       opts.Notify,
		language:     strings.TrimSpace(opts.Language),
		speakReplies: opts.SpeakReplies,
		log:          opts.Log,
	}
	if c.language == "" {
		c.language = "tr"
	}
	if c.log == nil {
		c.log = logger.Named("chat")
	}
	c.append(Greeting, SenderAssistant)
	return c
}

func (c *Controller) Messages() []Message {
	return append([]Message(nil), c.messages...)
}

func (c *Controller) Input() string        { return c.input }
func (c *Controller) SetInput(text string) { c.input = text }
func (c *Controller) Phase() Phase         { return c.phase }
func (c *Controller) Thinking() bool       { return c.phase == PhaseThinking }

// SetSpeakReplies 切换是否朗读回复。
func (c *Controller) SetSpeakReplies(on bool) { c.speakReplies = on }
func (c *Controller) SpeakReplies() bool      { return c.speakReplies }

// Status 把阶段映射为机器人形象状态。
func (c *Controller) Status() avatar.Status {
	switch c.phase {
	case PhaseListening:
		return avatar.StatusListening
	case PhaseThinking:
		return avatar.StatusThinking
	case PhaseSpeaking:
		return avatar.StatusSpeaking
	default:
		return avatar.StatusIdle
	}
}

// Submit 发送输入框内容。空白输入和思考中的提交都被忽略，返回 false。
func (c *Controller) Submit() bool {
	query := strings.TrimSpace(c.input)
	if query == "" {
		return false
	}
	if c.phase == PhaseThinking {
		c.log.WithField("chars", len([]rune(query))).Info("dropping submission while awaiting a reply")
		return false
	}
	if c.phase == PhaseListening && c.voice != nil {
		c.voice.StopListening()
	}

	c.append(query, SenderUser)
	c.input = ""
	c.phase = PhaseThinking
	c.utterance = 0

	if c.requester == nil {
		c.fail(assistant.ErrConverse)
		return true
	}
	id, err := c.requester.RequestConverse(assistant.ConverseInput{Query: query, Language: c.language})
	if err != nil {
		c.log.WithError(err).Error("failed to submit converse request")
		c.fail(assistant.ErrConverse)
		return true
	}
	c.pending = id
	return true
}

// ConverseResult 处理远程对话结果；ID 不匹配的结果被忽略。
func (c *Controller) ConverseResult(id string, res assistant.Result[assistant.ConverseOutput]) {
	if c.phase != PhaseThinking || id != c.pending {
		c.log.WithField("submission_id", id).Debug("ignoring stale converse result")
		return
	}
	c.pending = ""
	if !res.Success {
		msg := res.Error
		if msg == "" {
			msg = assistant.ErrConverse
		}
		c.fail(msg)
		return
	}
	reply := res.Data.Response
	c.append(reply, SenderAssistant)
	if !c.speakReplies || c.voice == nil || strings.TrimSpace(reply) == "" {
		c.phase = PhaseIdle
		return
	}
	c.phase = PhaseSpeaking
	c.utterance = c.voice.Speak(reply)
}

// SpeechFinished 在朗读结束时调用；只接受当前朗读的编号。
func (c *Controller) SpeechFinished(utterance uint64) {
	if c.phase != PhaseSpeaking || utterance != c.utterance {
		return
	}
	c.utterance = 0
	c.phase = PhaseIdle
}

// ToggleMic 在空闲时开始聆听、聆听时停止；思考或朗读中拒绝并返回 false。
// 停止后仍保持聆听阶段，直到 ListeningEnded 报告转写结束。
func (c *Controller) ToggleMic() bool {
	switch c.phase {
	case PhaseIdle:
		if c.voice == nil {
			c.notify.Send(notify.Error(SpeechErrorTitle, speech.ErrUnavailable.Error()))
			return false
		}
		// ErrUnavailable 已由语音桥通过错误回调报告。
		if err := c.voice.StartListening(); err != nil {
			if errors.Is(err, speech.ErrBusy) {
				c.notify.Send(notify.Error(SpeechErrorTitle, err.Error()))
			}
			c.log.WithError(err).Debug("microphone not started")
			return false
		}
		c.phase = PhaseListening
		return true
	case PhaseListening:
		c.voice.StopListening()
		return true
	default:
		return false
	}
}

// Transcript 把识别结果写入输入框并立即提交。
func (c *Controller) Transcript(text string) {
	c.input = text
	c.Submit()
}

// ListeningEnded 在识别会话结束时调用。
func (c *Controller) ListeningEnded() {
	if c.phase == PhaseListening {
		c.phase = PhaseIdle
	}
}

// RecognitionFailed 提示识别错误并回到空闲。
func (c *Controller) RecognitionFailed(err error) {
	if err == nil {
		return
	}
	c.notify.Send(notify.Error(SpeechErrorTitle, err.Error()))
	if c.phase == PhaseListening {
		c.phase = PhaseIdle
	}
}

// Clear 清空会话，只保留问候语。思考中不允许清空。
func (c *Controller) Clear() bool {
	if c.phase == PhaseThinking {
		return false
	}
	c.messages = nil
	c.append(Greeting, SenderAssistant)
	return true
}

// LastReply 返回最后一条助手消息。
func (c *Controller) LastReply() (string, bool) {
	for i := len(c.messages) - 1; i >= 0; i-- {
		if c.messages[i].Sender == SenderAssistant {
			return c.messages[i].Text, true
		}
	}
	return "", false
}

func (c *Controller) fail(message string) {
	c.notify.Send(notify.Error(ErrorTitle, message))
	c.append(Fallback, SenderAssistant)
	c.phase = PhaseIdle
	c.pending = ""
}

func (c *Controller) append(text string, sender Sender) {
	c.nextID++
	c.messages = append(c.messages, Message{ID: c.nextID, Text: text, Sender: sender})
}
