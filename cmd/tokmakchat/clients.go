package main

import (
	"errors"
	"fmt"
	"strings"

	"tokmakchat/internal/agent"
	anthropicmodel "tokmakchat/internal/agent/anthropic"
	openaimodel "tokmakchat/internal/agent/openai"
	"tokmakchat/internal/assistant"
	"tokmakchat/internal/config"
	"tokmakchat/internal/features"
	"tokmakchat/internal/logger"
	"tokmakchat/internal/speech"
	"tokmakchat/internal/speech/cloud"
	"tokmakchat/internal/speech/system"
)

// newRemoteClient 按 provider 构造真实的模型客户端，缺少凭据时返回错误。
func newRemoteClient(cfg config.Config) (agent.ModelClient, error) {
	token := strings.TrimSpace(cfg.Token)
	switch cfg.Provider {
	case config.ProviderOpenAI:
		if token == "" {
			return nil, errors.New("missing token: set OPENAI_API_KEY or configure token in ~/.tokmak/config.toml")
		}
		client, err := openaimodel.New(openaimodel.Options{
			APIKey:  token,
			BaseURL: cfg.URL,
			Model:   cfg.Model,
			WireAPI: cfg.WireAPI,
		})
		if err != nil {
			return nil, fmt.Errorf("init openai client: %w", err)
		}
		return client, nil
	case config.ProviderAnthropic:
		if token == "" {
			return nil, errors.New("missing token: set ANTHROPIC_AUTH_TOKEN or configure token in ~/.tokmak/config.toml")
		}
		client, err := anthropicmodel.New(anthropicmodel.Options{
			Token:   token,
			BaseURL: cfg.URL,
			Model:   cfg.Model,
		})
		if err != nil {
			return nil, fmt.Errorf("init anthropic client: %w", err)
		}
		return client, nil
	case config.ProviderEcho:
		return nil, errors.New("echo provider has no remote endpoint")
	default:
		return nil, fmt.Errorf("unknown provider %q", cfg.Provider)
	}
}

// buildModelClient 与 newRemoteClient 相同，但在无法连接远端时退回回显模式。
func buildModelClient(cfg config.Config) agent.ModelClient {
	if cfg.Provider == config.ProviderEcho {
		return agent.EchoClient{Prefix: "echo: "}
	}
	client, err := newRemoteClient(cfg)
	if err != nil {
		log.Warnf("%v; falling back to echo mode", err)
		return agent.EchoClient{Prefix: "echo: "}
	}
	return client
}

func buildAssistant(rt runtimeConfig, llm logger.LLMLogger) *assistant.Assistant {
	return assistant.New(assistant.Options{
		Client: buildModelClient(rt.Config),
		Model:  rt.Config.Model,
		Vision: rt.Features.Enabled(features.DocumentVision),
		LLMLog: llm,
	})
}

// speechBackend 是按配置挑选出的识别与合成能力，任一项可为 nil。
type speechBackend struct {
	Recognizer  speech.Recognizer
	Synthesizer speech.Synthesizer
}

// buildSpeech 按 speech.backend 组装语音能力。找不到本地命令只记警告，
// 对应能力为空，桥接层会把它报告为不可用。
func buildSpeech(rt runtimeConfig) speechBackend {
	cfg := rt.Config
	var out speechBackend
	switch cfg.Speech.Backend {
	case config.SpeechNone:
		return out
	case config.SpeechSystem:
		if synth, err := system.NewSynthesizer(""); err != nil {
			log.Warnf("speech synthesis unavailable: %v", err)
		} else {
			out.Synthesizer = synth
		}
	case config.SpeechOpenAI:
	default:
		log.Warnf("unknown speech backend %q; speech disabled", cfg.Speech.Backend)
		return out
	}

	url, token := cfg.SpeechCredentials()
	if token == "" {
		if cfg.Speech.Backend == config.SpeechOpenAI {
			log.Warn("speech backend openai needs a token; speech disabled")
		} else {
			log.Info("no speech token configured; voice input disabled")
		}
		return out
	}
	client := cloud.NewClient(cloud.Config{BaseURL: url, Token: token})
	if cfg.Speech.Backend == config.SpeechOpenAI {
		if player, err := system.NewPlayer(cfg.Speech.Player); err != nil {
			log.Warnf("speech playback unavailable: %v", err)
		} else {
			out.Synthesizer = cloud.NewSynthesizer(client, player, cfg.Speech.TTSModel, cfg.Speech.Voice)
		}
	}
	if rt.Features.Enabled(features.VoiceInput) {
		if rec, err := system.NewRecorder(cfg.Speech.Recorder); err != nil {
			log.Warnf("voice input unavailable: %v", err)
		} else {
			out.Recognizer = cloud.NewRecognizer(rec, cloud.NewTranscriber(client, cfg.Speech.STTModel))
		}
	}
	return out
}
