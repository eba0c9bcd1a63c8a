package openai

import (
	"net/url"
	"strings"
)

// endpointSuffixes 是用户可能误填进 base_url 的具体接口路径。
var endpointSuffixes = []string{"/chat/completions", "/completions", "/responses", "/audio/speech", "/audio/transcriptions"}

// NormalizeBaseURL 把各种写法的地址统一成以 /v1 结尾的 API 根路径，
// 例如 http://host:1234、http://host/v1/chat/completions 都得到 http://host:1234/v1。
// 语音客户端也用它，两边的地址写法保持一致。
func NormalizeBaseURL(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	parsed, err := url.Parse(raw)
	if err != nil || parsed == nil {
		return raw
	}

	path := strings.TrimRight(parsed.Path, "/")
	for _, suffix := range endpointSuffixes {
		if trimmed, ok := strings.CutSuffix(path, suffix); ok {
			path = strings.TrimRight(trimmed, "/")
			break
		}
	}
	for strings.HasSuffix(path, "/v1/v1") {
		path = strings.TrimSuffix(path, "/v1")
	}
	if !strings.HasSuffix(path, "/v1") {
		path += "/v1"
	}
	parsed.Path = path
	return parsed.String()
}
