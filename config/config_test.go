package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeTempConfig(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("写入临时配置失败: %v", err)
	}
	return path
}

func TestLoadFromFileJSON(t *testing.T) {
	path := writeTempConfig(t, "config.json", `{
  "api_keys": {"openai": "sk-test", "zhipu": "zp-test"},
  "ai": {"model_preference": "zhipu", "max_tokens": 2000},
  "cache": {"price_hours": 0.5, "news_hours": 4},
  "analysis_weights": {"technical": 0.5, "fundamental": 0.3, "sentiment": 0.2},
  "server": {"port": 9000, "max_workers": 8},
  "web_auth": {"enabled": true, "password": "secret", "session_timeout": 600}
}`)

	cfg, err := LoadFromFile(path)
	if err != nil {
		t.Fatalf("LoadFromFile失败: %v", err)
	}

	if cfg.OpenAIKey != "sk-test" {
		t.Errorf("OpenAIKey = %q, 期望 sk-test", cfg.OpenAIKey)
	}
	if cfg.ModelPreference != "zhipu" {
		t.Errorf("ModelPreference = %q, 期望 zhipu", cfg.ModelPreference)
	}
	if cfg.MaxTokens != 2000 {
		t.Errorf("MaxTokens = %d, 期望 2000", cfg.MaxTokens)
	}
	if cfg.PriceCacheTTL != 30*time.Minute {
		t.Errorf("PriceCacheTTL = %v, 期望 30m", cfg.PriceCacheTTL)
	}
	if cfg.NewsCacheTTL != 4*time.Hour {
		t.Errorf("NewsCacheTTL = %v, 期望 4h", cfg.NewsCacheTTL)
	}
	// 未配置项保持默认
	if cfg.FundamentalCacheTTL != 6*time.Hour {
		t.Errorf("FundamentalCacheTTL = %v, 期望默认 6h", cfg.FundamentalCacheTTL)
	}
	if cfg.TechnicalWeight != 0.5 || cfg.FundamentalWeight != 0.3 || cfg.SentimentWeight != 0.2 {
		t.Errorf("权重 = %v/%v/%v", cfg.TechnicalWeight, cfg.FundamentalWeight, cfg.SentimentWeight)
	}
	if cfg.Port != 9000 || cfg.MaxWorkers != 8 {
		t.Errorf("服务配置 = %d/%d", cfg.Port, cfg.MaxWorkers)
	}
	if !cfg.AuthEnabled || cfg.AuthPassword != "secret" {
		t.Errorf("鉴权配置异常: %v %q", cfg.AuthEnabled, cfg.AuthPassword)
	}
	if cfg.SessionTimeout != 10*time.Minute {
		t.Errorf("SessionTimeout = %v, 期望 10m", cfg.SessionTimeout)
	}
}

func TestLoadFromFileYAML(t *testing.T) {
	path := writeTempConfig(t, "config.yaml", `
ai:
  models:
    openai: gpt-4o
markets:
  hk_stock:
    enabled: false
`)

	cfg, err := LoadFromFile(path)
	if err != nil {
		t.Fatalf("LoadFromFile失败: %v", err)
	}
	if cfg.Models["openai"] != "gpt-4o" {
		t.Errorf("Models[openai] = %q", cfg.Models["openai"])
	}
	if cfg.Models["zhipu"] != "glm-4-flash" {
		t.Errorf("未覆盖的模型应保留默认, got %q", cfg.Models["zhipu"])
	}
	if cfg.MarketEnabled("hk_stock") {
		t.Error("hk_stock 应被禁用")
	}
	if !cfg.MarketEnabled("a_stock") {
		t.Error("a_stock 应保持启用")
	}
}

func TestLoadFromFilePartialKeepsBoolDefaults(t *testing.T) {
	// 配置文件未出现的布尔开关保持默认开启
	path := writeTempConfig(t, "config.json", `{"server": {"port": 9000}}`)

	cfg, err := LoadFromFile(path)
	if err != nil {
		t.Fatalf("LoadFromFile失败: %v", err)
	}
	if cfg.Port != 9000 {
		t.Errorf("Port = %d, 期望 9000", cfg.Port)
	}
	if !cfg.StreamingEnabled {
		t.Error("未配置streaming时应默认开启")
	}
	if !cfg.IncludeNewsContent {
		t.Error("未配置include_news_content时应默认开启")
	}
}

func TestLoadFromFileExplicitFalse(t *testing.T) {
	path := writeTempConfig(t, "config.yaml", `
streaming:
  enabled: false
analysis_params:
  include_news_content: false
`)

	cfg, err := LoadFromFile(path)
	if err != nil {
		t.Fatalf("LoadFromFile失败: %v", err)
	}
	if cfg.StreamingEnabled {
		t.Error("streaming.enabled=false 应生效")
	}
	if cfg.IncludeNewsContent {
		t.Error("include_news_content=false 应生效")
	}
}

func TestGetConfigEnvFallback(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "env-openai")
	t.Setenv("ANTHROPIC_AUTH_TOKEN", "env-token")
	t.Setenv("ANTHROPIC_API_KEY", "env-key")
	t.Setenv("ZHIPU_API_KEY", "")

	cfg := GetConfig("")
	if cfg.OpenAIKey != "env-openai" {
		t.Errorf("OpenAIKey = %q", cfg.OpenAIKey)
	}
	// AUTH_TOKEN 优先于 API_KEY
	if cfg.AnthropicKey != "env-token" {
		t.Errorf("AnthropicKey = %q, 期望 env-token", cfg.AnthropicKey)
	}
	if cfg.Port != 8080 || cfg.MaxWorkers != 4 {
		t.Errorf("默认服务配置异常: %d/%d", cfg.Port, cfg.MaxWorkers)
	}

	apis := cfg.ConfiguredAPIs()
	if len(apis) != 2 {
		t.Errorf("ConfiguredAPIs = %v, 期望2个", apis)
	}
}

func TestGetConfigMissingFile(t *testing.T) {
	cfg := GetConfig(filepath.Join(t.TempDir(), "nope.json"))
	if cfg.Port != DefaultConfig.Port {
		t.Errorf("缺失配置文件时应使用默认值, Port = %d", cfg.Port)
	}
}

func TestWeights(t *testing.T) {
	cfg := DefaultConfig
	w := cfg.Weights()
	sum := w["technical"] + w["fundamental"] + w["sentiment"]
	if sum < 0.99 || sum > 1.01 {
		t.Errorf("默认权重之和 = %v, 期望 1.0", sum)
	}
}
