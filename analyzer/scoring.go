package analyzer

import (
	"fmt"

	"stockweb/model"
)

// clamp 将评分限制在 [0,100]
func clamp(score float64) float64 {
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}

// TechnicalScore 技术面评分：以50为基准，按各指标信号加减分。
// 同时返回触发的中文信号描述列表。
func TechnicalScore(ind model.Indicators, price model.PriceInfo) (float64, []string) {
	score := 50.0
	var signals []string

	// 均线多空
	if ind.MA5 > 0 && ind.MA20 > 0 {
		if ind.MA5 > ind.MA20 {
			score += 10
			signals = append(signals, "MA5上穿MA20，短期趋势偏多")
		} else {
			score -= 10
			signals = append(signals, "MA5位于MA20下方，短期趋势偏空")
		}
	}

	// 现价相对MA20
	if ind.MA20 > 0 && price.CurrentPrice > 0 {
		if price.CurrentPrice > ind.MA20 {
			score += 5
			signals = append(signals, "股价站上20日均线")
		} else {
			score -= 5
			signals = append(signals, "股价跌破20日均线")
		}
	}

	// RSI 超买超卖
	if ind.HasRSI {
		if ind.RSI > 70 {
			score -= 10
			signals = append(signals, fmt.Sprintf("RSI=%.1f，进入超买区间", ind.RSI))
		} else if ind.RSI < 30 {
			score += 10
			signals = append(signals, fmt.Sprintf("RSI=%.1f，进入超卖区间", ind.RSI))
		}
	}

	// MACD 金叉死叉
	if ind.HasMACD {
		if ind.MACD > ind.MACDSignal {
			score += 5
			signals = append(signals, "MACD位于信号线上方")
		} else {
			score -= 5
			signals = append(signals, "MACD位于信号线下方")
		}
	}

	// 布林带位置
	if ind.HasBB {
		if ind.BBPosition > 0.8 {
			score -= 5
			signals = append(signals, "股价接近布林带上轨")
		} else if ind.BBPosition < 0.2 {
			score += 5
			signals = append(signals, "股价接近布林带下轨")
		}
	}

	// 量能
	if ind.HasVolume {
		if ind.VolumeRatio > 2 {
			score += 5
			signals = append(signals, fmt.Sprintf("量比%.2f，明显放量", ind.VolumeRatio))
		} else if ind.VolumeRatio < 0.5 {
			score -= 5
			signals = append(signals, fmt.Sprintf("量比%.2f，显著缩量", ind.VolumeRatio))
		}
	}

	if len(signals) == 0 {
		signals = append(signals, "技术指标数据不足，维持中性判断")
	}

	return clamp(score), signals
}

// FundamentalScore 基本面评分：以50为基准，按估值与成长性加减分
func FundamentalScore(fund *model.Fundamental) float64 {
	score := 50.0
	if fund == nil || fund.Count() == 0 {
		return score
	}

	// 估值
	if fund.PE > 0 {
		if fund.PE < 15 {
			score += 10
		} else if fund.PE > 30 {
			score -= 10
		}
	}

	// 成长性
	if fund.RevenueYoY > 20 {
		score += 5
	} else if fund.RevenueYoY < -10 && fund.RevenueYoY != 0 {
		score -= 5
	}
	if fund.ProfitYoY > 20 {
		score += 5
	} else if fund.ProfitYoY < -10 && fund.ProfitYoY != 0 {
		score -= 5
	}

	// 盈利能力
	if fund.ROE > 15 {
		score += 10
	} else if fund.ROE < 5 && fund.ROE != 0 {
		score -= 5
	}

	return clamp(score)
}

// SentimentScore 情绪得分映射：overall ∈ [-1,1] -> [0,100]
func SentimentScore(s model.Sentiment) float64 {
	return clamp(50 * (1 + s.Overall))
}

// ComprehensiveScore 综合评分：三维加权求和
func ComprehensiveScore(technical, fundamental, sentiment float64, weights map[string]float64) float64 {
	score := technical*weights["technical"] +
		fundamental*weights["fundamental"] +
		sentiment*weights["sentiment"]
	return clamp(score)
}

// Recommendation 根据综合评分给出投资建议
func Recommendation(comprehensive float64) string {
	switch {
	case comprehensive >= 80:
		return "强烈推荐"
	case comprehensive >= 65:
		return "推荐"
	case comprehensive >= 45:
		return "中性"
	case comprehensive >= 30:
		return "谨慎"
	default:
		return "回避"
	}
}
