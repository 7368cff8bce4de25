// Package netease 是网易云音乐 API（NeteaseCloudMusicApi 代理）的客户端。
package netease

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

const (
	DefaultBaseURL = "http://localhost:3000"
	DefaultTimeout = 10 * time.Second
	DefaultLimit   = 30

	// 歌单详情最多拉取的歌曲数
	maxPlaylistTracks = 500

	codeOK = 200
)

var logger = log.With().Str("component", "netease").Logger()

// Client 网易云音乐客户端
type Client struct {
	httpClient *http.Client
	baseURL    string
	cookie     string
}

// NewClient 创建新的网易云音乐客户端，baseURL 为空时使用 DefaultBaseURL
func NewClient(baseURL string, timeout time.Duration) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    strings.TrimRight(baseURL, "/"),
		cookie:     os.Getenv("NETEASE_COOKIE"),
	}
}

// SetCookie 设置请求携带的 Cookie
func (c *Client) SetCookie(cookie string) {
	c.cookie = cookie
}

// GetProviderName 获取提供商名称
func (c *Client) GetProviderName() string {
	return "NetEase Cloud Music"
}

// envelope 所有响应共有的字段
type envelope struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Msg     string `json:"msg"`
}

// get 请求 path 并把响应解码到 out；code != 200 时返回 *APIError
func (c *Client) get(ctx context.Context, path string, params url.Values, out any) error {
	reqURL := c.baseURL + path
	if len(params) > 0 {
		reqURL += "?" + params.Encode()
	}
	logger.Debug().Str("url", reqURL).Msg("Requesting")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.cookie != "" {
		req.Header.Set("Cookie", c.cookie)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request to %s: %w", path, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response from %s: %w", path, err)
	}

	var env envelope
	decodeErr := json.Unmarshal(body, &env)

	if resp.StatusCode != http.StatusOK {
		msg := fmt.Sprintf("request failed: %d", resp.StatusCode)
		if decodeErr == nil && env.message() != "" {
			msg = env.message()
		}
		return &APIError{Code: resp.StatusCode, Message: msg}
	}
	if decodeErr != nil {
		return fmt.Errorf("failed to decode response from %s: %w", path, decodeErr)
	}
	if env.Code != codeOK {
		msg := env.message()
		if msg == "" {
			msg = "request failed"
		}
		return &APIError{Code: env.Code, Message: msg}
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to decode response from %s: %w", path, err)
	}
	return nil
}

func (e envelope) message() string {
	if e.Message != "" {
		return e.Message
	}
	return e.Msg
}

func pageParams(page, limit int) url.Values {
	if limit <= 0 {
		limit = DefaultLimit
	}
	params := url.Values{}
	params.Set("offset", strconv.Itoa(page*limit))
	params.Set("limit", strconv.Itoa(limit))
	return params
}

func idParam(key string, id int64) url.Values {
	params := url.Values{}
	params.Set(key, strconv.FormatInt(id, 10))
	return params
}
