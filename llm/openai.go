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

// OpenAIClient OpenAI兼容的chat-completions客户端（含各类兼容代理）
type OpenAIClient struct {
	apiKey      string
	apiURL      string
	model       string
	maxTokens   int
	temperature float64
	client      *http.Client
}

// NewOpenAIClient 创建OpenAI客户端
func NewOpenAIClient(apiKey, apiBase, model string, maxTokens int, temperature float64) *OpenAIClient {
	if apiBase == "" {
		apiBase = "https://api.openai.com"
	}
	if model == "" {
		model = "gpt-4o-mini"
	}
	return &OpenAIClient{
		apiKey:      apiKey,
		apiURL:      strings.TrimSuffix(apiBase, "/") + "/v1/chat/completions",
		model:       model,
		maxTokens:   maxTokens,
		temperature: temperature,
		client:      &http.Client{Timeout: 120 * time.Second},
	}
}

// Name 提供商名称
func (c *OpenAIClient) Name() string { return "openai" }

// Generate 生成文本，onDelta 非空时走流式接口
func (c *OpenAIClient) Generate(ctx context.Context, prompt string, onDelta func(string)) (string, error) {
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
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

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
		return readChatStream(resp.Body, onDelta)
	}
	return parseChatResponse(resp.Body)
}

// parseChatResponse 解析非流式chat响应
func parseChatResponse(r io.Reader) (string, error) {
	body, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}

	var result struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		return "", err
	}
	if len(result.Choices) == 0 {
		return "", fmt.Errorf("API返回内容为空")
	}
	return result.Choices[0].Message.Content, nil
}

// readChatStream 读取SSE流式响应，逐段回调并拼出完整文本
func readChatStream(r io.Reader, onDelta func(string)) (string, error) {
	var sb strings.Builder
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)

	for scanner.Scan() {
		delta, done := parseChatStreamLine(scanner.Text())
		if done {
			break
		}
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

// parseChatStreamLine 解析单行SSE数据，返回增量文本和是否结束
func parseChatStreamLine(line string) (delta string, done bool) {
	line = strings.TrimSpace(line)
	if !strings.HasPrefix(line, "data:") {
		return "", false
	}
	payload := strings.TrimSpace(strings.TrimPrefix(line, "data:"))
	if payload == "[DONE]" {
		return "", true
	}

	var chunk struct {
		Choices []struct {
			Delta struct {
				Content string `json:"content"`
			} `json:"delta"`
		} `json:"choices"`
	}
	if err := json.Unmarshal([]byte(payload), &chunk); err != nil {
		return "", false
	}
	if len(chunk.Choices) == 0 {
		return "", false
	}
	return chunk.Choices[0].Delta.Content, false
}
