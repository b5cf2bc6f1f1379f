package analyzer

import (
	"context"
	"fmt"
	"log"
	"time"

	"stockweb/config"
	"stockweb/fetcher"
	"stockweb/indicator"
	"stockweb/market"
	"stockweb/model"
)

// Observer 分析过程观察者，各阶段事件通过它上报（SSE推流等）。
type Observer interface {
	Log(level, message string)
	Progress(stage string, percent int, message string)
	ScoresUpdate(scores model.Scores)
	DataQualityUpdate(q model.DataQuality)
	PartialResult(name string, data any)
	AIStream(delta string)
}

// NopObserver 空观察者
type NopObserver struct{}

func (NopObserver) Log(level, message string)                      {}
func (NopObserver) Progress(stage string, percent int, msg string) {}
func (NopObserver) ScoresUpdate(scores model.Scores)               {}
func (NopObserver) DataQualityUpdate(q model.DataQuality)          {}
func (NopObserver) PartialResult(name string, data any)            {}
func (NopObserver) AIStream(delta string)                          {}

// Narrator AI叙述生成器
type Narrator interface {
	Narrate(ctx context.Context, report *model.Report, onDelta func(string)) (string, error)
}

// Options 单次分析的选项
type Options struct {
	EnableAI bool     // 是否生成AI分析
	Observer Observer // 进度观察者，nil时不上报
}

// Analyzer 股票分析器：拉取数据、计算指标、打分并生成报告
type Analyzer struct {
	cfg      *config.Config
	fetcher  *fetcher.Fetcher
	narrator Narrator
}

// New 创建分析器。narrator 可为 nil，此时不生成AI叙述。
func New(cfg *config.Config, f *fetcher.Fetcher, narrator Narrator) *Analyzer {
	return &Analyzer{
		cfg:      cfg,
		fetcher:  f,
		narrator: narrator,
	}
}

// Analyze 对单只股票执行完整分析流水线
func (a *Analyzer) Analyze(ctx context.Context, rawCode string, opts Options) (*model.Report, error) {
	obs := opts.Observer
	if obs == nil {
		obs = NopObserver{}
	}

	code, m := market.Normalize(rawCode)
	if !a.cfg.MarketEnabled(string(m)) {
		return nil, fmt.Errorf("市场 %s 未启用", market.GetInfo(m).Name)
	}

	report := &model.Report{
		StockCode:       code,
		OriginalCode:    rawCode,
		Market:          m,
		MarketInfo:      market.GetInfo(m),
		AnalysisDate:    time.Now().Format("2006-01-02 15:04:05"),
		AnalysisWeights: a.cfg.Weights(),
	}

	obs.Log("info", fmt.Sprintf("开始分析 %s (%s)", code, report.MarketInfo.Name))
	obs.Progress("init", 5, "初始化分析任务")

	// 实时行情：名称与最新价
	quote, quoteSrc := a.fetcher.GetQuote(ctx, code, m)
	report.StockName = quote.Name
	obs.Log("info", fmt.Sprintf("获取行情完成: %s %.2f (%+.2f%%) (%s)",
		quote.Name, quote.Price, quote.ChangePercent(), quoteSrc))

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// 价格序列与技术指标
	obs.Progress("price", 20, "获取历史价格数据")
	bars, priceSrc := a.fetcher.GetPriceData(ctx, code, m)
	obs.Log("info", fmt.Sprintf("获取%d条K线数据 (%s)", len(bars), priceSrc))

	report.PriceInfo = indicator.PriceInfo(bars, a.cfg.RecentTradingDays)
	report.Indicators = indicator.Compute(bars)

	techScore, signals := TechnicalScore(report.Indicators, report.PriceInfo)
	report.TechnicalSignals = signals
	report.Scores.Technical = techScore

	obs.Progress("technical", 40, "技术指标计算完成")
	obs.ScoresUpdate(report.Scores)
	obs.PartialResult("technical_analysis", report.Indicators)

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// 基本面
	obs.Progress("fundamental", 55, "获取基本面数据")
	fund, fundSrc := a.fetcher.GetFundamental(ctx, code, m)
	report.Fundamental = fund
	report.Scores.Fundamental = FundamentalScore(fund)

	obs.Log("info", fmt.Sprintf("获取%d项基本面指标 (%s)", fund.Count(), fundSrc))
	obs.ScoresUpdate(report.Scores)
	obs.PartialResult("fundamental_data", fund)

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// 新闻与情绪
	obs.Progress("news", 70, "获取新闻并分析市场情绪")
	news, newsSrc := a.fetcher.GetNews(ctx, code, m)
	report.News = news
	report.Sentiment = AnalyzeSentiment(news)
	if !a.cfg.IncludeNewsContent {
		report.News = stripNewsContent(news)
	}
	report.Scores.Sentiment = SentimentScore(report.Sentiment)

	obs.Log("info", fmt.Sprintf("分析%d条新闻 (%s)", len(news.News), newsSrc))
	obs.ScoresUpdate(report.Scores)

	// 综合评分与建议
	report.Scores.Comprehensive = ComprehensiveScore(
		report.Scores.Technical, report.Scores.Fundamental, report.Scores.Sentiment,
		report.AnalysisWeights,
	)
	report.Recommendation = Recommendation(report.Scores.Comprehensive)
	obs.Progress("scoring", 80, "综合评分完成")
	obs.ScoresUpdate(report.Scores)

	// 数据质量
	report.DataQuality = model.DataQuality{
		FinancialIndicatorsCount: fund.Count(),
		TotalNewsCount:           len(news.News),
		AnalysisCompleteness:     completeness(quoteSrc, priceSrc, fundSrc, newsSrc),
		MarketCoverage:           report.MarketInfo.Name,
	}
	obs.DataQualityUpdate(report.DataQuality)

	// AI叙述
	if opts.EnableAI && a.narrator != nil {
		obs.Progress("ai", 90, "生成AI分析报告")
		text, err := a.narrator.Narrate(ctx, report, obs.AIStream)
		if err != nil {
			log.Printf("警告: AI分析生成失败: %v", err)
			obs.Log("warn", "AI分析生成失败，已跳过")
		} else {
			report.AIAnalysis = text
		}
	}

	obs.Progress("done", 100, "分析完成")
	obs.Log("info", fmt.Sprintf("%s 分析完成，综合评分 %.1f (%s)",
		code, report.Scores.Comprehensive, report.Recommendation))

	return report, nil
}

// completeness 任一维度落到模拟兜底即视为部分完整
func completeness(sources ...string) string {
	for _, s := range sources {
		if s == fetcher.SourceMock {
			return "部分"
		}
	}
	return "完整"
}

// stripNewsContent 复制新闻列表并去掉正文，只保留标题等元信息。
// 原始数据可能被缓存共享，不能原地修改。
func stripNewsContent(bundle *model.NewsBundle) *model.NewsBundle {
	if bundle == nil {
		return nil
	}
	items := make([]model.NewsItem, len(bundle.News))
	copy(items, bundle.News)
	for i := range items {
		items[i].Content = ""
	}
	return &model.NewsBundle{News: items, MoneyFlow: bundle.MoneyFlow}
}
