package tui

import (
	"sync/atomic"

	"tokmakchat/internal/events"
	"tokmakchat/internal/speech"
)

// 语音桥回调经 Bus 送回 UI 事件循环的消息。
type (
	transcriptMsg       struct{ Text string }
	recognitionEndedMsg struct{}
	recognitionErrorMsg struct{ Err error }
	speechDoneMsg       struct{ Utterance uint64 }
)

// VoiceHandlers 返回把识别回调发布到 bus 的处理器，用于构造 speech.Bridge。
func VoiceHandlers(bus *events.Bus) speech.Handlers {
	return speech.Handlers{
		OnTranscript: func(text string) { bus.Publish(transcriptMsg{Text: text}) },
		OnSpeechEnd:  func() { bus.Publish(recognitionEndedMsg{}) },
		OnError:      func(err error) { bus.Publish(recognitionErrorMsg{Err: err}) },
	}
}

// BridgeVoice 让 speech.Bridge 满足 chat.Voice。朗读编号由本地分配，
// 结束时以 speechDoneMsg 发布，不依赖 Bridge 内部的会话序号。
type BridgeVoice struct {
	bridge *speech.Bridge
	bus    *events.Bus
	next   atomic.Uint64
}

func NewBridgeVoice(bridge *speech.Bridge, bus *events.Bus) *BridgeVoice {
	return &BridgeVoice{bridge: bridge, bus: bus}
}

func (v *BridgeVoice) StartListening() error { return v.bridge.StartListening() }

func (v *BridgeVoice) StopListening() { v.bridge.StopListening() }

func (v *BridgeVoice) Speak(text string) uint64 {
	id := v.next.Add(1)
	v.bridge.Speak(text, func() { v.bus.Publish(speechDoneMsg{Utterance: id}) })
	return id
}
