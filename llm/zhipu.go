package llm

import (
	"context"
	"strings"
)

// ZhipuClient 智谱开放平台客户端。
// 接口与chat-completions兼容，仅基础路径和鉴权头不同，内部复用OpenAI客户端。
type ZhipuClient struct {
	inner *OpenAIClient
}

// NewZhipuClient 创建智谱客户端
func NewZhipuClient(apiKey, apiBase, model string, maxTokens int, temperature float64) *ZhipuClient {
	if apiBase == "" {
		apiBase = "https://open.bigmodel.cn"
	}
	if model == "" {
		model = "glm-4-flash"
	}

	inner := NewOpenAIClient(apiKey, apiBase, model, maxTokens, temperature)
	inner.apiURL = strings.TrimSuffix(apiBase, "/") + "/api/paas/v4/chat/completions"
	return &ZhipuClient{inner: inner}
}

// Name 提供商名称
func (c *ZhipuClient) Name() string { return "zhipu" }

// Generate 生成文本
func (c *ZhipuClient) Generate(ctx context.Context, prompt string, onDelta func(string)) (string, error) {
	return c.inner.Generate(ctx, prompt, onDelta)
}
