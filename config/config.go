package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// FileConfig 配置文件结构。使用yaml解析器，JSON是YAML的子集，
// 因此 config.json 与 config.yaml 均可加载。
type FileConfig struct {
	APIKeys struct {
		OpenAI    string `yaml:"openai" json:"openai"`
		Anthropic string `yaml:"anthropic" json:"anthropic"`
		Zhipu     string `yaml:"zhipu" json:"zhipu"`
	} `yaml:"api_keys" json:"api_keys"`

	AI struct {
		ModelPreference string            `yaml:"model_preference" json:"model_preference"`
		Models          map[string]string `yaml:"models" json:"models"`
		MaxTokens       int               `yaml:"max_tokens" json:"max_tokens"`
		Temperature     float64           `yaml:"temperature" json:"temperature"`
		APIBaseURLs     map[string]string `yaml:"api_base_urls" json:"api_base_urls"`
	} `yaml:"ai" json:"ai"`

	AnalysisWeights struct {
		Technical   float64 `yaml:"technical" json:"technical"`
		Fundamental float64 `yaml:"fundamental" json:"fundamental"`
		Sentiment   float64 `yaml:"sentiment" json:"sentiment"`
	} `yaml:"analysis_weights" json:"analysis_weights"`

	Cache struct {
		PriceHours       float64 `yaml:"price_hours" json:"price_hours"`
		FundamentalHours float64 `yaml:"fundamental_hours" json:"fundamental_hours"`
		NewsHours        float64 `yaml:"news_hours" json:"news_hours"`
	} `yaml:"cache" json:"cache"`

	AnalysisParams struct {
		MaxNewsCount        int   `yaml:"max_news_count" json:"max_news_count"`
		TechnicalPeriodDays int   `yaml:"technical_period_days" json:"technical_period_days"`
		RecentTradingDays   int   `yaml:"recent_trading_days" json:"recent_trading_days"`
		IncludeNewsContent  *bool `yaml:"include_news_content" json:"include_news_content"` // 缺省为开
	} `yaml:"analysis_params" json:"analysis_params"`

	Streaming struct {
		Enabled *bool `yaml:"enabled" json:"enabled"` // 缺省为开
	} `yaml:"streaming" json:"streaming"`

	Markets map[string]struct {
		Enabled bool `yaml:"enabled" json:"enabled"`
	} `yaml:"markets" json:"markets"`

	Server struct {
		Port       int `yaml:"port" json:"port"`
		MaxWorkers int `yaml:"max_workers" json:"max_workers"`
	} `yaml:"server" json:"server"`

	WebAuth struct {
		Enabled        bool   `yaml:"enabled" json:"enabled"`
		Password       string `yaml:"password" json:"password"`
		SessionTimeout int    `yaml:"session_timeout" json:"session_timeout"` // 秒
	} `yaml:"web_auth" json:"web_auth"`
}

// Config 运行时配置
type Config struct {
	// HTTP 服务端口
	Port int

	// 分析线程池大小
	MaxWorkers int

	// 各类数据缓存TTL
	PriceCacheTTL       time.Duration
	FundamentalCacheTTL time.Duration
	NewsCacheTTL        time.Duration

	// 三维分析权重
	TechnicalWeight   float64
	FundamentalWeight float64
	SentimentWeight   float64

	// 分析参数
	MaxNewsCount        int
	TechnicalPeriodDays int
	RecentTradingDays   int
	IncludeNewsContent  bool

	// AI配置
	ModelPreference  string
	Models           map[string]string
	APIBaseURLs      map[string]string
	MaxTokens        int
	Temperature      float64
	StreamingEnabled bool

	// API密钥
	OpenAIKey    string
	AnthropicKey string
	ZhipuKey     string

	// 启用的市场
	EnabledMarkets map[string]bool

	// Web鉴权
	AuthEnabled    bool
	AuthPassword   string
	SessionTimeout time.Duration
}

// DefaultConfig 默认配置
var DefaultConfig = Config{
	Port:                8080,
	MaxWorkers:          4,
	PriceCacheTTL:       time.Hour,
	FundamentalCacheTTL: 6 * time.Hour,
	NewsCacheTTL:        2 * time.Hour,
	TechnicalWeight:     0.4,
	FundamentalWeight:   0.4,
	SentimentWeight:     0.2,
	MaxNewsCount:        100,
	TechnicalPeriodDays: 180,
	RecentTradingDays:   30,
	IncludeNewsContent:  true,
	ModelPreference:     "openai",
	Models: map[string]string{
		"openai":    "gpt-4o-mini",
		"anthropic": "claude-3-haiku-20240307",
		"zhipu":     "glm-4-flash",
	},
	APIBaseURLs: map[string]string{
		"openai":    "https://api.openai.com",
		"anthropic": "https://api.anthropic.com",
		"zhipu":     "https://open.bigmodel.cn",
	},
	MaxTokens:        4000,
	Temperature:      0.7,
	StreamingEnabled: true,
	EnabledMarkets: map[string]bool{
		"a_stock":  true,
		"hk_stock": true,
		"us_stock": true,
	},
	AuthEnabled:    false,
	SessionTimeout: time.Hour,
}

// LoadFromFile 从配置文件加载（JSON或YAML）
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("读取配置文件失败: %w", err)
	}

	var fc FileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return nil, fmt.Errorf("解析配置文件失败: %w", err)
	}

	cfg := DefaultConfig
	cfg.Models = cloneMap(DefaultConfig.Models)
	cfg.APIBaseURLs = cloneMap(DefaultConfig.APIBaseURLs)
	cfg.EnabledMarkets = map[string]bool{
		"a_stock":  true,
		"hk_stock": true,
		"us_stock": true,
	}

	// API密钥
	cfg.OpenAIKey = fc.APIKeys.OpenAI
	cfg.AnthropicKey = fc.APIKeys.Anthropic
	cfg.ZhipuKey = fc.APIKeys.Zhipu

	// AI配置
	if fc.AI.ModelPreference != "" {
		cfg.ModelPreference = fc.AI.ModelPreference
	}
	for name, model := range fc.AI.Models {
		cfg.Models[name] = model
	}
	for name, base := range fc.AI.APIBaseURLs {
		cfg.APIBaseURLs[name] = base
	}
	if fc.AI.MaxTokens > 0 {
		cfg.MaxTokens = fc.AI.MaxTokens
	}
	if fc.AI.Temperature > 0 {
		cfg.Temperature = fc.AI.Temperature
	}
	if fc.Streaming.Enabled != nil {
		cfg.StreamingEnabled = *fc.Streaming.Enabled
	}

	// 权重：三项均为正才覆盖默认
	w := fc.AnalysisWeights
	if w.Technical > 0 && w.Fundamental > 0 && w.Sentiment > 0 {
		cfg.TechnicalWeight = w.Technical
		cfg.FundamentalWeight = w.Fundamental
		cfg.SentimentWeight = w.Sentiment
	}

	// 缓存TTL
	if fc.Cache.PriceHours > 0 {
		cfg.PriceCacheTTL = hoursToDuration(fc.Cache.PriceHours)
	}
	if fc.Cache.FundamentalHours > 0 {
		cfg.FundamentalCacheTTL = hoursToDuration(fc.Cache.FundamentalHours)
	}
	if fc.Cache.NewsHours > 0 {
		cfg.NewsCacheTTL = hoursToDuration(fc.Cache.NewsHours)
	}

	// 分析参数
	if fc.AnalysisParams.MaxNewsCount > 0 {
		cfg.MaxNewsCount = fc.AnalysisParams.MaxNewsCount
	}
	if fc.AnalysisParams.TechnicalPeriodDays > 0 {
		cfg.TechnicalPeriodDays = fc.AnalysisParams.TechnicalPeriodDays
	}
	if fc.AnalysisParams.RecentTradingDays > 0 {
		cfg.RecentTradingDays = fc.AnalysisParams.RecentTradingDays
	}
	if fc.AnalysisParams.IncludeNewsContent != nil {
		cfg.IncludeNewsContent = *fc.AnalysisParams.IncludeNewsContent
	}

	// 市场开关
	for name, mc := range fc.Markets {
		cfg.EnabledMarkets[name] = mc.Enabled
	}

	// 服务配置
	if fc.Server.Port > 0 {
		cfg.Port = fc.Server.Port
	}
	if fc.Server.MaxWorkers > 0 {
		cfg.MaxWorkers = fc.Server.MaxWorkers
	}

	// 鉴权
	cfg.AuthEnabled = fc.WebAuth.Enabled
	cfg.AuthPassword = fc.WebAuth.Password
	if fc.WebAuth.SessionTimeout > 0 {
		cfg.SessionTimeout = time.Duration(fc.WebAuth.SessionTimeout) * time.Second
	}

	return &cfg, nil
}

// GetConfig 获取配置 (优先级: 配置文件 > 环境变量 > 默认值)
func GetConfig(path string) *Config {
	cfg := DefaultConfig
	cfg.Models = cloneMap(DefaultConfig.Models)
	cfg.APIBaseURLs = cloneMap(DefaultConfig.APIBaseURLs)

	if path != "" {
		if loaded, err := LoadFromFile(path); err == nil {
			cfg = *loaded
		} else {
			fmt.Printf("警告: 无法加载配置文件 %s: %v\n", path, err)
		}
	}

	// 环境变量补充密钥
	if cfg.OpenAIKey == "" {
		cfg.OpenAIKey = os.Getenv("OPENAI_API_KEY")
	}
	if cfg.AnthropicKey == "" {
		cfg.AnthropicKey = getAnthropicKey()
	}
	if cfg.ZhipuKey == "" {
		cfg.ZhipuKey = os.Getenv("ZHIPU_API_KEY")
	}

	return &cfg
}

// getAnthropicKey 获取 Claude API Key
func getAnthropicKey() string {
	// 优先使用 AUTH_TOKEN(代理服务常用)
	if key := os.Getenv("ANTHROPIC_AUTH_TOKEN"); key != "" {
		return key
	}
	return os.Getenv("ANTHROPIC_API_KEY")
}

// Weights 三维权重映射（用于报告输出）
func (c *Config) Weights() map[string]float64 {
	return map[string]float64{
		"technical":   c.TechnicalWeight,
		"fundamental": c.FundamentalWeight,
		"sentiment":   c.SentimentWeight,
	}
}

// APIKeyFor 指定AI提供商的密钥
func (c *Config) APIKeyFor(provider string) string {
	switch provider {
	case "openai":
		return c.OpenAIKey
	case "anthropic":
		return c.AnthropicKey
	case "zhipu":
		return c.ZhipuKey
	}
	return ""
}

// ConfiguredAPIs 已配置密钥的AI提供商列表
func (c *Config) ConfiguredAPIs() []string {
	var apis []string
	for _, name := range []string{"openai", "anthropic", "zhipu"} {
		if c.APIKeyFor(name) != "" {
			apis = append(apis, name)
		}
	}
	return apis
}

// MarketEnabled 市场是否启用，未配置默认启用
func (c *Config) MarketEnabled(name string) bool {
	if c.EnabledMarkets == nil {
		return true
	}
	enabled, ok := c.EnabledMarkets[name]
	if !ok {
		return true
	}
	return enabled
}

func hoursToDuration(hours float64) time.Duration {
	return time.Duration(hours * float64(time.Hour))
}

func cloneMap(m map[string]string) map[string]string {
	out := make(map[string]string, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
