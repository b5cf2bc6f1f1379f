package cache

import (
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"stockweb/market"
)

// Kind 缓存数据类别，不同类别有不同的TTL
type Kind string

const (
	KindPrice       Kind = "price"       // 价格序列，默认1小时
	KindFundamental Kind = "fundamental" // 基本面数据，默认6小时
	KindNews        Kind = "news"        // 新闻数据，默认2小时
	KindQuote       Kind = "quote"       // 实时报价，默认10分钟
)

// 默认TTL
const (
	DefaultPriceTTL       = time.Hour
	DefaultFundamentalTTL = 6 * time.Hour
	DefaultNewsTTL        = 2 * time.Hour
	DefaultQuoteTTL       = 10 * time.Minute
)

type entry struct {
	value     any
	expiresAt time.Time
}

// Cache 进程内TTL缓存，key = 类别+市场+代码。
// 条目只在TTL内可见；重启即失效，不落盘。
type Cache struct {
	mu   sync.RWMutex
	data map[string]entry
	ttls map[Kind]time.Duration
	cron *cron.Cron
}

// New 创建缓存
func New() *Cache {
	return &Cache{
		data: make(map[string]entry),
		ttls: map[Kind]time.Duration{
			KindPrice:       DefaultPriceTTL,
			KindFundamental: DefaultFundamentalTTL,
			KindNews:        DefaultNewsTTL,
			KindQuote:       DefaultQuoteTTL,
		},
	}
}

// Global 全局缓存实例
var Global = New()

// SetTTL 覆盖某一类别的TTL
func (c *Cache) SetTTL(kind Kind, ttl time.Duration) {
	if ttl <= 0 {
		return
	}
	c.mu.Lock()
	c.ttls[kind] = ttl
	c.mu.Unlock()
}

// Key 构造缓存键
func Key(kind Kind, m market.Market, code string, extra string) string {
	if extra == "" {
		return fmt.Sprintf("%s_%s_%s", kind, m, code)
	}
	return fmt.Sprintf("%s_%s_%s_%s", kind, m, code, extra)
}

// Get 读取未过期的条目
func (c *Cache) Get(key string) (any, bool) {
	c.mu.RLock()
	e, ok := c.data[key]
	c.mu.RUnlock()
	if !ok || time.Now().After(e.expiresAt) {
		return nil, false
	}
	return e.value, true
}

// Set 按类别TTL写入条目
func (c *Cache) Set(kind Kind, key string, value any) {
	c.mu.Lock()
	ttl := c.ttls[kind]
	if ttl <= 0 {
		ttl = time.Hour
	}
	c.data[key] = entry{value: value, expiresAt: time.Now().Add(ttl)}
	c.mu.Unlock()
}

// SetWithTTL 按指定TTL写入条目
func (c *Cache) SetWithTTL(key string, value any, ttl time.Duration) {
	c.mu.Lock()
	c.data[key] = entry{value: value, expiresAt: time.Now().Add(ttl)}
	c.mu.Unlock()
}

// Delete 删除条目
func (c *Cache) Delete(key string) {
	c.mu.Lock()
	delete(c.data, key)
	c.mu.Unlock()
}

// Len 当前条目数（含已过期未清理的）
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.data)
}

// Prune 清理已过期条目，返回清理数量
func (c *Cache) Prune() int {
	now := time.Now()
	c.mu.Lock()
	defer c.mu.Unlock()

	removed := 0
	for k, e := range c.data {
		if now.After(e.expiresAt) {
			delete(c.data, k)
			removed++
		}
	}
	return removed
}

// StartJanitor 启动定时清理任务（每10分钟一次）。
// 清理只是回收内存，Get 本身不会返回过期条目。
func (c *Cache) StartJanitor() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.cron != nil {
		return
	}
	c.cron = cron.New()
	c.cron.AddFunc("@every 10m", func() { c.Prune() })
	c.cron.Start()
}

// StopJanitor 停止定时清理任务
func (c *Cache) StopJanitor() {
	c.mu.Lock()
	cr := c.cron
	c.cron = nil
	c.mu.Unlock()
	if cr != nil {
		cr.Stop()
	}
}
