package agent

import (
	"context"
	"errors"

	"tokmakchat/internal/logger"
)

// ModelClient 定义模型客户端接口
type ModelClient interface {
	Complete(ctx context.Context, prompt Prompt) (string, error)
}

// EchoClient is a fallback when no API key is available.
// Structured prompts get Reply verbatim when it is set.
type EchoClient struct {
	Prefix string
	Reply  string
}

func (c EchoClient) Complete(_ context.Context, prompt Prompt) (string, error) {
	if c.Reply != "" {
		return c.Reply, nil
	}
	for i := len(prompt.Messages) - 1; i >= 0; i-- {
		if msg := prompt.Messages[i]; msg.Role == RoleUser {
			return c.Prefix + msg.Content, nil
		}
	}
	return "", errors.New("no messages to echo")
}

// ToLLMMessages 将内部消息转换为日志友好的结构。
func ToLLMMessages(msgs []Message) []logger.LLMMessage {
	out := make([]logger.LLMMessage, 0, len(msgs))
	for _, msg := range msgs {
		content := msg.Content
		for _, img := range msg.Images {
			content += " [image " + img.MIMEType + "]"
		}
		out = append(out, logger.LLMMessage{
			Role:    string(msg.Role),
			Content: content,
		})
	}
	return out
}
