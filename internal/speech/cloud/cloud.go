// Package cloud 通过 OpenAI 兼容的音频接口实现语音转写（Whisper）和语音合成（TTS）。
package cloud

import (
	openai "github.com/sashabaranov/go-openai"

	openaimodel "tokmakchat/internal/agent/openai"
)

const (
	DefaultSTTModel = openai.Whisper1
	DefaultTTSModel = string(openai.TTSModel1)
	DefaultVoice    = string(openai.VoiceNova)
)

// Config 是音频接口的连接参数，BaseURL 为空时使用官方端点。
type Config struct {
	BaseURL string
	Token   string
}

// NewClient 根据配置创建 go-openai 客户端，BaseURL 与对话客户端按同样规则补全 /v1。
func NewClient(cfg Config) *openai.Client {
	clientCfg := openai.DefaultConfig(cfg.Token)
	if base := openaimodel.NormalizeBaseURL(cfg.BaseURL); base != "" {
		clientCfg.BaseURL = base
	}
	return openai.NewClientWithConfig(clientCfg)
}
