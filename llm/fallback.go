package llm

import (
	"fmt"
	"strings"

	"stockweb/model"
)

// CannedNarrative 无可用AI提供商时，基于评分生成模板化的分析叙述
func CannedNarrative(r *model.Report) string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("## %s (%s) 分析摘要\n\n", r.StockName, r.StockCode))

	// 技术面
	sb.WriteString("**技术面**: ")
	switch {
	case r.Scores.Technical >= 65:
		sb.WriteString("技术指标整体偏多，短期走势较强。")
	case r.Scores.Technical <= 35:
		sb.WriteString("技术指标整体偏空，短期走势承压。")
	default:
		sb.WriteString("技术指标多空交织，方向尚不明朗。")
	}
	if len(r.TechnicalSignals) > 0 {
		sb.WriteString(fmt.Sprintf("%s。", r.TechnicalSignals[0]))
	}
	sb.WriteString("\n\n")

	// 基本面
	sb.WriteString("**基本面**: ")
	switch {
	case r.Scores.Fundamental >= 65:
		sb.WriteString("估值与盈利指标表现较好，基本面具备支撑。")
	case r.Scores.Fundamental <= 35:
		sb.WriteString("估值或盈利指标偏弱，基本面存在隐忧。")
	default:
		sb.WriteString("基本面表现中规中矩，缺乏明显亮点。")
	}
	sb.WriteString("\n\n")

	// 情绪面
	sb.WriteString("**市场情绪**: ")
	switch r.Sentiment.Trend {
	case "positive":
		sb.WriteString("近期消息面偏暖，市场情绪积极。")
	case "negative":
		sb.WriteString("近期消息面偏冷，市场情绪谨慎。")
	default:
		sb.WriteString("近期消息面平静，市场情绪中性。")
	}
	sb.WriteString("\n\n")

	// 结论
	sb.WriteString(fmt.Sprintf("**综合结论**: 综合评分%.1f分，建议「%s」。",
		r.Scores.Comprehensive, r.Recommendation))
	sb.WriteString("以上内容由规则模板生成，仅供参考，不构成投资建议。\n")

	return sb.String()
}
