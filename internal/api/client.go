package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

var (
	ErrRequestFailed   = errors.New("api request failed")
	ErrResponseInvalid = errors.New("api response invalid")
)

const defaultTimeout = 15 * time.Second

// BackendError 后端拒绝请求（校验失败、认证失败、未找到等），
// Message 原样携带后端返回的提示文案
type BackendError struct {
	StatusCode int
	Message    string
}

// Error 实现 error 接口
func (e *BackendError) Error() string {
	return e.Message
}

// Message 提取用于通知展示的错误文案：
// 后端拒绝时使用后端原文，传输失败时使用传输错误信息
func Message(err error) string {
	if err == nil {
		return ""
	}
	var backendErr *BackendError
	if errors.As(err, &backendErr) && strings.TrimSpace(backendErr.Message) != "" {
		return backendErr.Message
	}
	return err.Error()
}

// Client 商城后端 REST 客户端
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient 创建客户端
func NewClient(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &Client{
		baseURL:    strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

// doJSON 发送 JSON 请求并解析 JSON 响应；token 非空时附加 Bearer 认证
func (c *Client) doJSON(ctx context.Context, method, path, token string, query url.Values, body, out interface{}) error {
	if ctx == nil {
		ctx = context.Background()
	}

	endpoint := c.baseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("%w: marshal request body failed", ErrRequestFailed)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return fmt.Errorf("%w: build request failed", ErrRequestFailed)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	if strings.TrimSpace(token) != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrRequestFailed, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: read response failed", ErrResponseInvalid)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &BackendError{
			StatusCode: resp.StatusCode,
			Message:    extractMessage(respBody, resp.StatusCode),
		}
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("%w: decode response failed", ErrResponseInvalid)
	}
	return nil
}

func extractMessage(body []byte, statusCode int) string {
	var payload struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &payload); err == nil && strings.TrimSpace(payload.Message) != "" {
		return payload.Message
	}
	return fmt.Sprintf("request failed with status %d", statusCode)
}
