package fetcher

import (
	"context"
	"log"

	"stockweb/cache"
	"stockweb/config"
	"stockweb/market"
	"stockweb/model"
)

// 数据来源标识
const (
	SourceLive  = "live"  // 真实接口
	SourceCache = "cache" // 缓存命中
	SourceMock  = "mock"  // 模拟兜底
)

// Fetcher 数据获取门面：统一缓存、真实接口与模拟兜底三层
type Fetcher struct {
	cfg   *config.Config
	cache *cache.Cache

	price       *PriceFetcher
	spot        *SpotFetcher
	fundamental *FundamentalFetcher
	news        *NewsFetcher
}

// New 创建数据获取门面
func New(cfg *config.Config, c *cache.Cache) *Fetcher {
	if c == nil {
		c = cache.Global
	}
	c.SetTTL(cache.KindPrice, cfg.PriceCacheTTL)
	c.SetTTL(cache.KindFundamental, cfg.FundamentalCacheTTL)
	c.SetTTL(cache.KindNews, cfg.NewsCacheTTL)

	return &Fetcher{
		cfg:         cfg,
		cache:       c,
		price:       NewPriceFetcher(),
		spot:        NewSpotFetcher(),
		fundamental: NewFundamentalFetcher(),
		news:        NewNewsFetcher(),
	}
}

// GetPriceData 获取日K线。返回数据与来源标识，永不失败。
func (f *Fetcher) GetPriceData(ctx context.Context, code string, m market.Market) ([]model.Bar, string) {
	key := cache.Key(cache.KindPrice, m, code, "")
	if v, ok := f.cache.Get(key); ok {
		return v.([]model.Bar), SourceCache
	}

	days := f.cfg.TechnicalPeriodDays
	bars, err := f.price.FetchHistory(ctx, code, m, days)
	if err != nil {
		log.Printf("警告: 获取 %s 价格数据失败，使用模拟数据: %v", code, err)
		bars = MockBars(code, days)
		f.cache.Set(cache.KindPrice, key, bars)
		return bars, SourceMock
	}

	f.cache.Set(cache.KindPrice, key, bars)
	return bars, SourceLive
}

// GetQuote 获取实时行情（名称、最新价）。返回数据与来源标识，永不失败。
func (f *Fetcher) GetQuote(ctx context.Context, code string, m market.Market) (*model.Quote, string) {
	key := cache.Key(cache.KindQuote, m, code, "")
	if v, ok := f.cache.Get(key); ok {
		return v.(*model.Quote), SourceCache
	}

	quote, err := f.spot.FetchQuote(ctx, code, m)
	if err != nil || quote.Name == "" {
		if err != nil {
			log.Printf("警告: 获取 %s 实时行情失败，使用模拟数据: %v", code, err)
		}
		quote = MockQuote(code, m)
		f.cache.Set(cache.KindQuote, key, quote)
		return quote, SourceMock
	}

	f.cache.Set(cache.KindQuote, key, quote)
	return quote, SourceLive
}

// GetFundamental 获取基本面数据。返回数据与来源标识，永不失败。
func (f *Fetcher) GetFundamental(ctx context.Context, code string, m market.Market) (*model.Fundamental, string) {
	key := cache.Key(cache.KindFundamental, m, code, "")
	if v, ok := f.cache.Get(key); ok {
		return v.(*model.Fundamental), SourceCache
	}

	fund, err := f.fundamental.FetchFundamental(ctx, code, m)
	if err != nil {
		log.Printf("警告: 获取 %s 基本面失败，使用模拟数据: %v", code, err)
		fund = MockFundamental(code)
		f.cache.Set(cache.KindFundamental, key, fund)
		return fund, SourceMock
	}

	f.cache.Set(cache.KindFundamental, key, fund)
	return fund, SourceLive
}

// GetNews 获取新闻与资金流向。返回数据与来源标识，永不失败。
func (f *Fetcher) GetNews(ctx context.Context, code string, m market.Market) (*model.NewsBundle, string) {
	key := cache.Key(cache.KindNews, m, code, "")
	if v, ok := f.cache.Get(key); ok {
		return v.(*model.NewsBundle), SourceCache
	}

	bundle := &model.NewsBundle{}
	source := SourceLive

	news, err := f.news.FetchNews(ctx, code, m, f.cfg.MaxNewsCount)
	if err != nil || len(news) == 0 {
		if err != nil {
			log.Printf("警告: 获取 %s 新闻失败，使用模拟数据: %v", code, err)
		}
		news = MockNews(code, m, 10)
		source = SourceMock
	}
	bundle.News = news

	// 资金流向获取失败不影响整体结果
	if flow, err := f.news.FetchMoneyFlow(ctx, code, m); err == nil && flow != nil {
		bundle.MoneyFlow = flow
	}

	f.cache.Set(cache.KindNews, key, bundle)
	return bundle, source
}
