package player

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

var (
	// ErrUnauthorized 网关拒绝访问（无有效会话且无有效令牌）
	ErrUnauthorized = errors.New("player: stream access unauthorized")

	// ErrTransport 加载音频源时的网络或解码故障
	ErrTransport = errors.New("player: transport failure")
)

// SourceResolver performs the stream negotiation step: given a file name it
// returns the URL the playback element should bind, or an error when the
// gateway refuses service. Resolution happens only on explicit play intent.
type SourceResolver interface {
	Resolve(ctx context.Context, fileName string) (string, error)
}

// GatewayResolver resolves sources against the stream gateway with a HEAD
// probe, so an expired session surfaces before any element binds a URL.
type GatewayResolver struct {
	BaseURL string       // 网关地址，如 http://localhost:8080
	Token   string       // 可选的临时访问令牌
	Client  *http.Client // 为nil时使用带超时的默认客户端
}

// Resolve 探测网关并返回可绑定的音频URL
func (r *GatewayResolver) Resolve(ctx context.Context, fileName string) (string, error) {
	streamURL := fmt.Sprintf("%s/stream?file=%s", r.BaseURL, url.QueryEscape(fileName))
	if r.Token != "" {
		streamURL += "&token=" + url.QueryEscape(r.Token)
	}

	client := r.Client
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodHead, streamURL, nil)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrTransport, err)
	}

	resp, err := client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrTransport, err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		return streamURL, nil
	case http.StatusUnauthorized:
		return "", ErrUnauthorized
	default:
		return "", fmt.Errorf("%w: gateway returned status %d", ErrTransport, resp.StatusCode)
	}
}

// StaticResolver 直接拼接URL，不做探测。用于无网关的本地场景和测试。
type StaticResolver struct {
	BaseURL string
}

// Resolve 返回拼接后的音频URL
func (r *StaticResolver) Resolve(ctx context.Context, fileName string) (string, error) {
	return fmt.Sprintf("%s/%s", r.BaseURL, url.PathEscape(fileName)), nil
}
