package analyzer

import (
	"strings"
	"testing"

	"stockweb/model"
)

func TestTechnicalScoreNeutral(t *testing.T) {
	score, signals := TechnicalScore(model.Indicators{}, model.PriceInfo{})
	if score != 50 {
		t.Errorf("无指标数据时评分 = %v, 期望 50", score)
	}
	if len(signals) == 0 {
		t.Error("应返回数据不足的中性信号")
	}
}

func TestTechnicalScoreBullish(t *testing.T) {
	ind := model.Indicators{
		MA5: 12, MA10: 11.5, MA20: 11,
		RSI: 25, HasRSI: true,
		MACD: 0.5, MACDSignal: 0.2, HasMACD: true,
		BBPosition: 0.1, HasBB: true,
		VolumeRatio: 2.5, HasVolume: true,
	}
	price := model.PriceInfo{CurrentPrice: 12.5}

	score, signals := TechnicalScore(ind, price)
	// 50 +10(均线) +5(站上MA20) +10(超卖) +5(MACD) +5(布林下轨) +5(放量) = 90
	if score != 90 {
		t.Errorf("多头行情评分 = %v, 期望 90", score)
	}
	if len(signals) != 6 {
		t.Errorf("信号数 = %d, 期望 6", len(signals))
	}
	joined := strings.Join(signals, ";")
	if !strings.Contains(joined, "超卖") || !strings.Contains(joined, "放量") {
		t.Errorf("信号内容异常: %v", signals)
	}
}

func TestTechnicalScoreBearishClamped(t *testing.T) {
	ind := model.Indicators{
		MA5: 10, MA10: 10.5, MA20: 11,
		RSI: 85, HasRSI: true,
		MACD: -0.5, MACDSignal: -0.2, HasMACD: true,
		BBPosition: 0.95, HasBB: true,
		VolumeRatio: 0.3, HasVolume: true,
	}
	price := model.PriceInfo{CurrentPrice: 9.5}

	score, _ := TechnicalScore(ind, price)
	// 50 -10 -5 -10 -5 -5 -5 = 10
	if score != 10 {
		t.Errorf("空头行情评分 = %v, 期望 10", score)
	}
	if score < 0 || score > 100 {
		t.Errorf("评分越界: %v", score)
	}
}

func TestFundamentalScore(t *testing.T) {
	tests := []struct {
		name string
		fund *model.Fundamental
		want float64
	}{
		{"空数据", nil, 50},
		{"无指标", &model.Fundamental{}, 50},
		{
			"优质",
			&model.Fundamental{
				Indicators: map[string]string{"x": "1"},
				PE:         10, ROE: 20, RevenueYoY: 25, ProfitYoY: 30,
			},
			// 50 +10(PE) +5(营收) +5(利润) +10(ROE) = 80
			80,
		},
		{
			"劣质",
			&model.Fundamental{
				Indicators: map[string]string{"x": "1"},
				PE:         50, ROE: 2, RevenueYoY: -20, ProfitYoY: -30,
			},
			// 50 -10 -5 -5 -5 = 25
			25,
		},
	}
	for _, tt := range tests {
		if got := FundamentalScore(tt.fund); got != tt.want {
			t.Errorf("%s: FundamentalScore = %v, 期望 %v", tt.name, got, tt.want)
		}
	}
}

func TestSentimentScoreMapping(t *testing.T) {
	tests := []struct {
		overall float64
		want    float64
	}{
		{-1, 0},
		{0, 50},
		{1, 100},
		{0.5, 75},
	}
	for _, tt := range tests {
		got := SentimentScore(model.Sentiment{Overall: tt.overall})
		if got != tt.want {
			t.Errorf("SentimentScore(%v) = %v, 期望 %v", tt.overall, got, tt.want)
		}
	}
}

func TestComprehensiveScore(t *testing.T) {
	weights := map[string]float64{"technical": 0.4, "fundamental": 0.4, "sentiment": 0.2}
	got := ComprehensiveScore(80, 60, 50, weights)
	want := 80*0.4 + 60*0.4 + 50*0.2
	if got != want {
		t.Errorf("ComprehensiveScore = %v, 期望 %v", got, want)
	}

	if ComprehensiveScore(0, 0, 0, weights) != 0 {
		t.Error("最低综合评分应为0")
	}
	if ComprehensiveScore(100, 100, 100, weights) != 100 {
		t.Error("最高综合评分应为100")
	}
}

func TestRecommendation(t *testing.T) {
	tests := []struct {
		score float64
		want  string
	}{
		{90, "强烈推荐"},
		{80, "强烈推荐"},
		{70, "推荐"},
		{50, "中性"},
		{35, "谨慎"},
		{10, "回避"},
	}
	for _, tt := range tests {
		if got := Recommendation(tt.score); got != tt.want {
			t.Errorf("Recommendation(%v) = %s, 期望 %s", tt.score, got, tt.want)
		}
	}
}

func TestAnalyzeSentiment(t *testing.T) {
	bundle := &model.NewsBundle{
		News: []model.NewsItem{
			{Title: "公司业绩大幅增长，创新高", Content: "利好不断"},
			{Title: "股价上涨", Content: "资金流入"},
			{Title: "行业风险加大", Content: "业绩下滑明显"},
			{Title: "市场观望情绪浓厚", Content: "成交平淡"},
		},
	}

	s := AnalyzeSentiment(bundle)
	if s.TotalAnalyzed != 4 {
		t.Errorf("TotalAnalyzed = %d", s.TotalAnalyzed)
	}
	if s.PositiveCount != 2 || s.NegativeCount != 1 {
		t.Errorf("正负计数 = %d/%d, 期望 2/1", s.PositiveCount, s.NegativeCount)
	}
	// (1+1-1+0)/4 = 0.25
	if s.Overall != 0.25 {
		t.Errorf("Overall = %v, 期望 0.25", s.Overall)
	}
	if s.Trend != "positive" {
		t.Errorf("Trend = %s", s.Trend)
	}
}

func TestAnalyzeSentimentMoneyFlow(t *testing.T) {
	bundle := &model.NewsBundle{
		News:      []model.NewsItem{{Title: "公司公告", Content: "例行披露"}},
		MoneyFlow: &model.MoneyFlow{MainInflow: 1e8, Direction: "inflow"},
	}
	s := AnalyzeSentiment(bundle)
	if s.Overall != 0.2 {
		t.Errorf("资金流入修正后 Overall = %v, 期望 0.2", s.Overall)
	}

	bundle.MoneyFlow = &model.MoneyFlow{MainInflow: -1e8, Direction: "outflow"}
	s = AnalyzeSentiment(bundle)
	if s.Overall != -0.2 {
		t.Errorf("资金流出修正后 Overall = %v, 期望 -0.2", s.Overall)
	}
}

func TestAnalyzeSentimentEmpty(t *testing.T) {
	s := AnalyzeSentiment(nil)
	if s.Overall != 0 || s.Trend != "neutral" {
		t.Errorf("空数据情绪应为中性: %+v", s)
	}
	if SentimentScore(s) != 50 {
		t.Error("空数据情绪得分应为50")
	}
}
