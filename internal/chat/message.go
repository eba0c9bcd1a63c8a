package chat

// Sender 标识消息作者。
type Sender string

const (
	SenderUser      Sender = "user"
	SenderAssistant Sender = "assistant"
)

// Message 追加后不再修改。ID 单调递增。
type Message struct {
	ID     int64
	Text   string
	Sender Sender
}

const (
	// Greeting 是会话开始时的助手消息。
	Greeting = "Merhaba! Ben TokmakChat. Size nasıl yardımcı olabilirim?"
	// Fallback 是对话失败时追加的助手消息。
	Fallback = "Üzgünüm, bir hata oluştu. Lütfen tekrar deneyin."
	// ErrorTitle 是对话失败提示的标题。
	ErrorTitle = "Hata"
	// SpeechErrorTitle 是语音识别失败提示的标题。
	SpeechErrorTitle = "Ses Tanıma Hatası"
	// Placeholder 是输入框的占位文字。
	Placeholder = "Bir mesaj yazın veya mikrofona basın..."
)
