package model

import (
	"time"

	"stockweb/market"
)

// Bar 日K线数据
type Bar struct {
	Date   string  `json:"date"`   // 日期 (YYYY-MM-DD)
	Open   float64 `json:"open"`   // 开盘价
	High   float64 `json:"high"`   // 最高价
	Low    float64 `json:"low"`    // 最低价
	Close  float64 `json:"close"`  // 收盘价
	Volume int64   `json:"volume"` // 成交量
}

// Quote 实时报价（用于获取名称与最新价）
type Quote struct {
	Code      string    `json:"code"`       // 标准化代码
	Name      string    `json:"name"`       // 证券名称
	Price     float64   `json:"price"`      // 最新价
	PreClose  float64   `json:"pre_close"`  // 昨收
	Open      float64   `json:"open"`       // 今开
	High      float64   `json:"high"`       // 最高
	Low       float64   `json:"low"`        // 最低
	Volume    int64     `json:"volume"`     // 成交量
	UpdatedAt time.Time `json:"updated_at"` // 更新时间
}

// Change 计算涨跌额
func (q *Quote) Change() float64 {
	return q.Price - q.PreClose
}

// ChangePercent 计算涨跌幅
func (q *Quote) ChangePercent() float64 {
	if q.PreClose == 0 {
		return 0
	}
	return (q.Price - q.PreClose) / q.PreClose * 100
}

// PriceInfo 从价格序列中提取的关键信息
type PriceInfo struct {
	CurrentPrice   float64 `json:"current_price"`    // 最新收盘价
	PreviousPrice  float64 `json:"previous_price"`   // 前一交易日收盘价
	PriceChange    float64 `json:"price_change"`     // 涨跌额
	PriceChangePct float64 `json:"price_change_pct"` // 涨跌幅(%)
	CurrentVolume  float64 `json:"current_volume"`   // 最新成交量
	AvgVolume      float64 `json:"avg_volume"`       // 20日均量
	VolumeRatio    float64 `json:"volume_ratio"`     // 量比
	Volatility     float64 `json:"volatility"`       // 20日年化波动率(%)
	High52W        float64 `json:"high_52w"`         // 区间最高
	Low52W         float64 `json:"low_52w"`          // 区间最低
	DataPoints     int     `json:"data_points"`      // 数据条数
}

// Indicators 技术指标集合。HasX 标记对应窗口的数据是否充足。
type Indicators struct {
	MA5  float64 `json:"ma5,omitempty"`
	MA10 float64 `json:"ma10,omitempty"`
	MA20 float64 `json:"ma20,omitempty"`
	MA60 float64 `json:"ma60,omitempty"`

	RSI    float64 `json:"rsi,omitempty"`
	HasRSI bool    `json:"-"`

	MACD          float64 `json:"macd,omitempty"`
	MACDSignal    float64 `json:"macd_signal,omitempty"`
	MACDHistogram float64 `json:"macd_histogram,omitempty"`
	HasMACD       bool    `json:"-"`

	BBUpper    float64 `json:"bb_upper,omitempty"`
	BBMiddle   float64 `json:"bb_middle,omitempty"`
	BBLower    float64 `json:"bb_lower,omitempty"`
	BBPosition float64 `json:"bb_position"` // 收盘价在布林带中的位置 [0,1]附近
	HasBB      bool    `json:"-"`

	VolumeMA20  float64 `json:"volume_ma20,omitempty"`
	VolumeRatio float64 `json:"volume_ratio,omitempty"`
	HasVolume   bool    `json:"-"`
}

// Fundamental 基本面数据：原始指标键值对 + 尽力解析出的常用字段
type Fundamental struct {
	Indicators map[string]string `json:"financial_indicators"`  // 指标名 -> 原始值
	PE         float64           `json:"pe,omitempty"`          // 市盈率
	PB         float64           `json:"pb,omitempty"`          // 市净率
	ROE        float64           `json:"roe,omitempty"`         // 净资产收益率(%)
	RevenueYoY float64           `json:"revenue_yoy,omitempty"` // 营收同比(%)
	ProfitYoY  float64           `json:"profit_yoy,omitempty"`  // 净利润同比(%)
	MarketCap  float64           `json:"market_cap,omitempty"`  // 总市值
}

// Count 已获取的指标数量
func (f *Fundamental) Count() int {
	if f == nil {
		return 0
	}
	return len(f.Indicators)
}

// NewsItem 单条新闻
type NewsItem struct {
	Title   string `json:"title"`   // 标题
	Content string `json:"content"` // 摘要/正文
	Time    string `json:"time"`    // 发布时间
	Source  string `json:"source"`  // 来源
}

// MoneyFlow 资金流向摘要
type MoneyFlow struct {
	MainInflow float64 `json:"main_inflow"` // 主力净流入(元)
	Direction  string  `json:"direction"`   // inflow/outflow
}

// NewsBundle 新闻数据集合
type NewsBundle struct {
	News      []NewsItem `json:"news"`
	MoneyFlow *MoneyFlow `json:"money_flow,omitempty"`
}

// Sentiment 情绪分析结果
type Sentiment struct {
	Overall       float64 `json:"overall_sentiment"` // [-1,1] 总体情绪
	Trend         string  `json:"sentiment_trend"`   // positive/negative/neutral
	Confidence    float64 `json:"confidence_score"`  // 置信度 [0,1]
	TotalAnalyzed int     `json:"total_analyzed"`    // 参与分析的新闻条数
	PositiveCount int     `json:"positive_count"`
	NegativeCount int     `json:"negative_count"`
}

// Scores 四维评分，均在 [0,100]
type Scores struct {
	Technical     float64 `json:"technical"`
	Fundamental   float64 `json:"fundamental"`
	Sentiment     float64 `json:"sentiment"`
	Comprehensive float64 `json:"comprehensive"`
}

// DataQuality 数据质量指标
type DataQuality struct {
	FinancialIndicatorsCount int    `json:"financial_indicators_count"`
	TotalNewsCount           int    `json:"total_news_count"`
	AnalysisCompleteness     string `json:"analysis_completeness"` // 完整/部分/批量
	MarketCoverage           string `json:"market_coverage"`
}

// Report 单只股票的完整分析报告
type Report struct {
	StockCode        string             `json:"stock_code"`
	OriginalCode     string             `json:"original_code"`
	StockName        string             `json:"stock_name"`
	Market           market.Market      `json:"market"`
	MarketInfo       market.Info        `json:"market_info"`
	AnalysisDate     string             `json:"analysis_date"`
	PriceInfo        PriceInfo          `json:"price_info"`
	Indicators       Indicators         `json:"technical_analysis"`
	TechnicalSignals []string           `json:"technical_signals"`
	Fundamental      *Fundamental       `json:"fundamental_data"`
	News             *NewsBundle        `json:"comprehensive_news_data"`
	Sentiment        Sentiment          `json:"sentiment_analysis"`
	Scores           Scores             `json:"scores"`
	AnalysisWeights  map[string]float64 `json:"analysis_weights"`
	Recommendation   string             `json:"recommendation"`
	AIAnalysis       string             `json:"ai_analysis,omitempty"`
	DataQuality      DataQuality        `json:"data_quality"`
}
