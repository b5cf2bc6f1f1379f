package fetcher

import (
	"fmt"
	"hash/fnv"
	"math"
	"math/rand"
	"time"

	"stockweb/market"
	"stockweb/model"
)

// 数据源不可用时使用确定性模拟数据兜底，
// 同一代码每次生成完全相同的序列。

func mockSeed(code string) int64 {
	h := fnv.New64a()
	h.Write([]byte(code))
	return int64(h.Sum64() & math.MaxInt64)
}

// MockBars 生成模拟日K线序列
func MockBars(code string, days int) []model.Bar {
	if days <= 0 {
		days = 120
	}
	rng := rand.New(rand.NewSource(mockSeed(code)))

	// 基准价由代码哈希决定，落在 [10, 210)
	base := 10.0 + float64(mockSeed(code)%2000)/10.0
	price := base

	bars := make([]model.Bar, 0, days)
	start := time.Now().AddDate(0, 0, -days)
	for i := 0; i < days; i++ {
		date := start.AddDate(0, 0, i)
		// 跳过周末
		if date.Weekday() == time.Saturday || date.Weekday() == time.Sunday {
			continue
		}

		// 随机游走 + 缓慢周期波动
		drift := math.Sin(float64(i)/20.0) * 0.002
		change := (rng.Float64()-0.5)*0.04 + drift
		open := price
		cls := price * (1 + change)
		high := math.Max(open, cls) * (1 + rng.Float64()*0.01)
		low := math.Min(open, cls) * (1 - rng.Float64()*0.01)
		volume := int64(1_000_000 + rng.Intn(9_000_000))

		bars = append(bars, model.Bar{
			Date:   date.Format("2006-01-02"),
			Open:   round2(open),
			High:   round2(high),
			Low:    round2(low),
			Close:  round2(cls),
			Volume: volume,
		})
		price = cls
	}
	return bars
}

// MockQuote 生成模拟实时行情
func MockQuote(code string, m market.Market) *model.Quote {
	bars := MockBars(code, 30)
	last := bars[len(bars)-1]
	prev := bars[len(bars)-2]

	return &model.Quote{
		Code:      code,
		Name:      mockName(code, m),
		Price:     last.Close,
		PreClose:  prev.Close,
		Open:      last.Open,
		High:      last.High,
		Low:       last.Low,
		Volume:    last.Volume,
		UpdatedAt: time.Now(),
	}
}

func mockName(code string, m market.Market) string {
	switch m {
	case market.AStock:
		return "模拟股票" + code
	case market.HKStock:
		return "模拟港股" + code
	default:
		return code + " Inc."
	}
}

// MockFundamental 生成模拟基本面数据
func MockFundamental(code string) *model.Fundamental {
	rng := rand.New(rand.NewSource(mockSeed(code) + 1))

	pe := round2(8 + rng.Float64()*40)
	pb := round2(0.8 + rng.Float64()*5)
	roe := round2(3 + rng.Float64()*20)
	revYoY := round2(rng.Float64()*40 - 10)
	profitYoY := round2(rng.Float64()*50 - 15)
	cap := round2(50e8 + rng.Float64()*5000e8)

	return &model.Fundamental{
		Indicators: map[string]string{
			"市盈率(动态)": fmt.Sprintf("%.2f", pe),
			"市净率":     fmt.Sprintf("%.2f", pb),
			"净资产收益率":  fmt.Sprintf("%.2f", roe),
			"营收同比增长":  fmt.Sprintf("%.2f", revYoY),
			"净利润同比增长": fmt.Sprintf("%.2f", profitYoY),
			"总市值":     fmt.Sprintf("%.0f", cap),
		},
		PE:         pe,
		PB:         pb,
		ROE:        roe,
		RevenueYoY: revYoY,
		ProfitYoY:  profitYoY,
		MarketCap:  cap,
	}
}

// MockNews 生成模拟新闻列表
func MockNews(code string, m market.Market, limit int) []model.NewsItem {
	if limit <= 0 || limit > 10 {
		limit = 10
	}
	name := mockName(code, m)
	templates := []struct {
		title   string
		content string
	}{
		{"%s发布最新财报，业绩符合预期", "%s公布季度财务报告，营收与利润基本符合市场预期，经营保持稳健。"},
		{"机构调研%s，关注主营业务进展", "多家机构近期对%s进行调研，重点关注公司主营业务发展及行业竞争格局。"},
		{"%s获得股东增持", "%s公告称主要股东近期增持公司股份，显示对公司长期发展的信心。"},
		{"行业景气度回升，%s有望受益", "行业整体景气度出现回升迹象，分析人士认为%s等公司有望从中受益。"},
		{"%s宣布新的合作协议", "%s与合作伙伴签署战略合作协议，双方将在多个领域展开深度合作。"},
		{"市场波动加大，%s股价震荡", "近期市场波动加大，%s股价出现震荡走势，投资者情绪趋于谨慎。"},
		{"%s回应市场传闻", "针对近期市场传闻，%s发布澄清公告，称公司经营正常。"},
		{"分析师上调%s评级", "有分析师发布报告上调%s评级，认为当前估值具备吸引力。"},
		{"%s加大研发投入", "%s披露将继续加大研发投入，推进新产品和新技术布局。"},
		{"%s面临成本压力", "受上游原材料价格影响，%s短期面临一定成本压力。"},
	}

	now := time.Now()
	var items []model.NewsItem
	for i := 0; i < limit && i < len(templates); i++ {
		t := templates[i]
		items = append(items, model.NewsItem{
			Title:   fmt.Sprintf(t.title, name),
			Content: fmt.Sprintf(t.content, name),
			Time:    now.AddDate(0, 0, -i).Format("2006-01-02 15:04:05"),
			Source:  "模拟数据",
		})
	}
	return items
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
