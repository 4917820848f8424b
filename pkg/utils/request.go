package utils

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
)

// ErrUnexpectedStatus 表示服务端返回了非 2xx 状态码。
var ErrUnexpectedStatus = errors.New("unexpected status")

// maxErrorBody 限制错误日志中记录的响应体长度。
const maxErrorBody = 512

// PostJSON 以 JSON 形式发送 payload，并把 2xx 响应体解码到 out。
func PostJSON(ctx context.Context, client *http.Client, url string, payload, out interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return fmt.Errorf("%w %d: %s", ErrUnexpectedStatus, resp.StatusCode, string(snippet))
	}

	// 整个响应体必须是一个合法的 JSON 值，尾随内容同样视为解码失败。
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
