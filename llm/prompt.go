package llm

import (
	"fmt"
	"sort"
	"strings"

	"stockweb/model"
)

// BuildPrompt 将分析报告渲染为中文分析提示
func BuildPrompt(r *model.Report) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("请作为专业的股票分析师，分析%s「%s」(%s):\n\n",
		r.MarketInfo.Name, r.StockName, r.StockCode))

	// 价格概况
	sb.WriteString("## 价格概况\n")
	sb.WriteString(fmt.Sprintf("- 最新价: %.2f %s\n", r.PriceInfo.CurrentPrice, r.MarketInfo.Currency))
	sb.WriteString(fmt.Sprintf("- 涨跌幅: %.2f%%\n", r.PriceInfo.PriceChangePct))
	sb.WriteString(fmt.Sprintf("- 区间高低: %.2f / %.2f\n", r.PriceInfo.High52W, r.PriceInfo.Low52W))
	sb.WriteString(fmt.Sprintf("- 年化波动率: %.1f%%\n", r.PriceInfo.Volatility))

	// 技术指标
	sb.WriteString("\n## 技术指标\n")
	sb.WriteString(fmt.Sprintf("- MA5/MA20: %.2f / %.2f\n", r.Indicators.MA5, r.Indicators.MA20))
	if r.Indicators.HasRSI {
		sb.WriteString(fmt.Sprintf("- RSI: %.1f\n", r.Indicators.RSI))
	}
	if r.Indicators.HasMACD {
		sb.WriteString(fmt.Sprintf("- MACD: %.3f (信号线 %.3f)\n", r.Indicators.MACD, r.Indicators.MACDSignal))
	}
	for _, signal := range r.TechnicalSignals {
		sb.WriteString(fmt.Sprintf("- 信号: %s\n", signal))
	}

	// 基本面摘要（按指标名排序保证输出稳定）
	if r.Fundamental != nil && r.Fundamental.Count() > 0 {
		sb.WriteString("\n## 基本面指标\n")
		names := make([]string, 0, len(r.Fundamental.Indicators))
		for name := range r.Fundamental.Indicators {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			sb.WriteString(fmt.Sprintf("- %s: %s\n", name, r.Fundamental.Indicators[name]))
		}
	}

	// 新闻标题
	if r.News != nil && len(r.News.News) > 0 {
		sb.WriteString("\n## 近期新闻\n")
		max := 10
		if len(r.News.News) < max {
			max = len(r.News.News)
		}
		for i := 0; i < max; i++ {
			item := r.News.News[i]
			sb.WriteString(fmt.Sprintf("- %s\n", item.Title))
			if item.Content != "" {
				sb.WriteString(fmt.Sprintf("  %s\n", truncateRunes(item.Content, 100)))
			}
		}
	}

	// 量化评分
	sb.WriteString("\n## 量化评分\n")
	sb.WriteString(fmt.Sprintf("- 技术面: %.1f\n", r.Scores.Technical))
	sb.WriteString(fmt.Sprintf("- 基本面: %.1f\n", r.Scores.Fundamental))
	sb.WriteString(fmt.Sprintf("- 市场情绪: %.1f\n", r.Scores.Sentiment))
	sb.WriteString(fmt.Sprintf("- 综合评分: %.1f (%s)\n", r.Scores.Comprehensive, r.Recommendation))

	sb.WriteString("\n请从以下角度给出分析（总共不超过500字）:\n")
	sb.WriteString("1. 整体趋势: 当前趋势方向与强度\n")
	sb.WriteString("2. 估值与基本面: 估值水平及经营状况\n")
	sb.WriteString("3. 市场情绪: 消息面与资金面\n")
	sb.WriteString("4. 操作建议: 中短期策略与风险提示\n")

	return sb.String()
}

// truncateRunes 按字符数截断，超长时追加省略号
func truncateRunes(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n]) + "…"
}
