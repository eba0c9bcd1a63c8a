package agent

// Prompt 代表一次模型调用的完整请求。
// OutputSchema 为 JSON Schema 文本，非空时要求模型按该结构输出 JSON。
type Prompt struct {
	Model        string
	Messages     []Message
	OutputSchema string
	SchemaName   string
}

// HasImages 判断请求中是否带有图片附件。
func (p Prompt) HasImages() bool {
	for _, msg := range p.Messages {
		if len(msg.Images) > 0 {
			return true
		}
	}
	return false
}
