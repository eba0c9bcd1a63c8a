package openai

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/url"
	"strings"
)

// ErrUnreachable 表示 base_url 指向的主机无法建立 TCP 连接。
var ErrUnreachable = errors.New("endpoint unreachable")

var defaultPorts = map[string]string{"http": "80", "https": "443"}

// CheckBaseURLReachable 在发请求前拨测 base_url 的主机端口，便于 ping 给出明确的原因。
// 空地址表示使用官方端点，直接返回 nil。
func CheckBaseURLReachable(ctx context.Context, baseURL string) error {
	if strings.TrimSpace(baseURL) == "" {
		return nil
	}
	addr, err := dialAddress(NormalizeBaseURL(baseURL))
	if err != nil {
		return fmt.Errorf("invalid base_url %q: %w", baseURL, err)
	}
	var d net.Dialer
	conn, err := d.DialContext(ctx, "tcp", addr)
	if err != nil {
		return fmt.Errorf("%w: %s (base_url=%q): %v", ErrUnreachable, addr, baseURL, err)
	}
	_ = conn.Close()
	return nil
}

func dialAddress(raw string) (string, error) {
	parsed, err := url.Parse(raw)
	if err != nil {
		return "", err
	}
	scheme := strings.ToLower(parsed.Scheme)
	host := parsed.Hostname()
	if host == "" {
		return "", errors.New("missing host")
	}
	port := parsed.Port()
	if port == "" {
		var ok bool
		if port, ok = defaultPorts[scheme]; !ok {
			return "", fmt.Errorf("unsupported scheme %q", parsed.Scheme)
		}
	}
	return net.JoinHostPort(host, port), nil
}
