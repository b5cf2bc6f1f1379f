package llm

import (
	"context"
	"log"

	"stockweb/config"
	"stockweb/model"
)

// Provider AI提供商。onDelta 非空时流式推送增量，返回完整文本。
type Provider interface {
	Name() string
	Generate(ctx context.Context, prompt string, onDelta func(string)) (string, error)
}

// Client AI叙述生成客户端：按配置选择提供商，失败时降级为模板叙述
type Client struct {
	cfg       *config.Config
	providers map[string]Provider
	order     []string
}

// NewClient 创建客户端，只注册已配置密钥的提供商
func NewClient(cfg *config.Config) *Client {
	c := &Client{
		cfg:       cfg,
		providers: make(map[string]Provider),
	}

	if cfg.OpenAIKey != "" {
		c.providers["openai"] = NewOpenAIClient(cfg.OpenAIKey, cfg.APIBaseURLs["openai"], cfg.Models["openai"], cfg.MaxTokens, cfg.Temperature)
	}
	if cfg.AnthropicKey != "" {
		c.providers["anthropic"] = NewClaudeClient(cfg.AnthropicKey, cfg.APIBaseURLs["anthropic"], cfg.Models["anthropic"], cfg.MaxTokens, cfg.Temperature)
	}
	if cfg.ZhipuKey != "" {
		c.providers["zhipu"] = NewZhipuClient(cfg.ZhipuKey, cfg.APIBaseURLs["zhipu"], cfg.Models["zhipu"], cfg.MaxTokens, cfg.Temperature)
	}

	// 首选提供商排最前，其余作为备选
	if _, ok := c.providers[cfg.ModelPreference]; ok {
		c.order = append(c.order, cfg.ModelPreference)
	}
	for _, name := range []string{"openai", "anthropic", "zhipu"} {
		if name == cfg.ModelPreference {
			continue
		}
		if _, ok := c.providers[name]; ok {
			c.order = append(c.order, name)
		}
	}

	return c
}

// Available 是否有可用的AI提供商
func (c *Client) Available() bool {
	return len(c.order) > 0
}

// Narrate 生成分析叙述。所有提供商均失败或未配置时返回模板叙述。
func (c *Client) Narrate(ctx context.Context, report *model.Report, onDelta func(string)) (string, error) {
	prompt := BuildPrompt(report)

	if !c.cfg.StreamingEnabled {
		onDelta = nil
	}

	var lastErr error
	for _, name := range c.order {
		p := c.providers[name]
		text, err := p.Generate(ctx, prompt, onDelta)
		if err != nil {
			log.Printf("警告: %s 生成失败: %v", p.Name(), err)
			lastErr = err
			continue
		}
		if text != "" {
			return text, nil
		}
	}

	// 降级为模板叙述
	text := CannedNarrative(report)
	if onDelta != nil {
		onDelta(text)
	}
	if lastErr != nil {
		log.Printf("提示: 所有AI提供商失败(%v)，已使用模板分析", lastErr)
	}
	return text, nil
}
