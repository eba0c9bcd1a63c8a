package agent

import "encoding/base64"

type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleSystem    Role = "system"
)

// Attachment 是随用户消息发送的图片。
type Attachment struct {
	MIMEType string
	Data     []byte
}

// Base64 返回附件内容的标准 base64 编码。
func (a Attachment) Base64() string {
	return base64.StdEncoding.EncodeToString(a.Data)
}

// DataURI 返回 data:<mime>;base64,<payload> 形式的地址。
func (a Attachment) DataURI() string {
	return "data:" + a.MIMEType + ";base64," + a.Base64()
}

type Message struct {
	Role    Role
	Content string
	Images  []Attachment
}
