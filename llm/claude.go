package llm

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// ClaudeClient Claude messages API 客户端
type ClaudeClient struct {
	apiKey      string
	apiURL      string
	model       string
	maxTokens   int
	temperature float64
	client      *http.Client
}

// NewClaudeClient 创建Claude客户端
func NewClaudeClient(apiKey, apiBase, model string, maxTokens int, temperature float64) *ClaudeClient {
	if apiBase == "" {
		apiBase = "https://api.anthropic.com"
	}
	if model == "" {
		model = "claude-3-haiku-20240307"
	}
	return &ClaudeClient{
		apiKey:      apiKey,
		apiURL:      strings.TrimSuffix(apiBase, "/") + "/v1/messages",
		model:       model,
		maxTokens:   maxTokens,
		temperature: temperature,
		client:      &http.Client{Timeout: 120 * time.Second},
	}
}

// Name 提供商名称
func (c *ClaudeClient) Name() string { return "anthropic" }

// Generate 生成文本，onDelta 非空时走流式接口
func (c *ClaudeClient) Generate(ctx context.Context, prompt string, onDelta func(string)) (string, error) {
	stream := onDelta != nil
	reqBody := map[string]interface{}{
		"model":       c.model,
		"max_tokens":  c.maxTokens,
		"temperature": c.temperature,
		"stream":      stream,
		"messages": []map[string]string{
			{"role": "user", "content": prompt},
		},
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.apiURL, bytes.NewBuffer(jsonData))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-api-key", c.apiKey)
	req.Header.Set("anthropic-version", "2023-06-01")

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("API请求失败: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != 200 {
		body, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("API返回错误 %d: %s", resp.StatusCode, string(body))
	}

	if stream {
		return readClaudeStream(resp.Body, onDelta)
	}
	return parseClaudeResponse(resp.Body)
}

// parseClaudeResponse 解析非流式messages响应
func parseClaudeResponse(r io.Reader) (string, error) {
	body, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}

	var result struct {
		Content []struct {
			Text string `json:"text"`
		} `json:"content"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		return "", err
	}
	if len(result.Content) == 0 {
		return "", fmt.Errorf("API返回内容为空")
	}
	return result.Content[0].Text, nil
}

// readClaudeStream 读取event-stream流式响应
func readClaudeStream(r io.Reader, onDelta func(string)) (string, error) {
	var sb strings.Builder
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)

	for scanner.Scan() {
		delta := parseClaudeStreamLine(scanner.Text())
		if delta != "" {
			sb.WriteString(delta)
			onDelta(delta)
		}
	}
	if err := scanner.Err(); err != nil {
		return sb.String(), fmt.Errorf("读取流式响应失败: %w", err)
	}
	if sb.Len() == 0 {
		return "", fmt.Errorf("流式响应内容为空")
	}
	return sb.String(), nil
}

// parseClaudeStreamLine 解析单行事件数据，仅关心content_block_delta
func parseClaudeStreamLine(line string) string {
	line = strings.TrimSpace(line)
	if !strings.HasPrefix(line, "data:") {
		return ""
	}
	payload := strings.TrimSpace(strings.TrimPrefix(line, "data:"))

	var event struct {
		Type  string `json:"type"`
		Delta struct {
			Type string `json:"type"`
			Text string `json:"text"`
		} `json:"delta"`
	}
	if err := json.Unmarshal([]byte(payload), &event); err != nil {
		return ""
	}
	if event.Type != "content_block_delta" || event.Delta.Type != "text_delta" {
		return ""
	}
	return event.Delta.Text
}
