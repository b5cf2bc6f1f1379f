package analyzer

import (
	"math"
	"strings"

	"stockweb/model"
)

// 正负面关键词表，用于新闻情绪打分
var (
	positiveWords = []string{
		"上涨", "增长", "利好", "突破", "创新高", "盈利", "超预期", "回暖",
		"扩张", "中标", "增持", "回购", "上调", "看好", "受益", "合作",
		"突飞猛进", "强劲", "复苏", "景气",
	}
	negativeWords = []string{
		"下跌", "下滑", "亏损", "利空", "跌破", "创新低", "风险", "违规",
		"处罚", "减持", "下调", "退市", "诉讼", "降级", "低迷", "疲软",
		"萎缩", "暴跌", "警示", "压力",
	}
)

// AnalyzeSentiment 对新闻集合做关键词情绪分析。
// 每条新闻按正负关键词出现数定性为 +1/0/-1，取均值得到总体情绪，
// 主力资金流向在此基础上做 ±0.2 修正。
func AnalyzeSentiment(bundle *model.NewsBundle) model.Sentiment {
	s := model.Sentiment{Trend: "neutral"}
	if bundle == nil || len(bundle.News) == 0 {
		return s
	}

	var sum float64
	for _, item := range bundle.News {
		text := item.Title + " " + item.Content
		pos, neg := 0, 0
		for _, w := range positiveWords {
			pos += strings.Count(text, w)
		}
		for _, w := range negativeWords {
			neg += strings.Count(text, w)
		}

		switch {
		case pos > neg:
			sum += 1
			s.PositiveCount++
		case neg > pos:
			sum -= 1
			s.NegativeCount++
		}
		s.TotalAnalyzed++
	}

	overall := sum / float64(s.TotalAnalyzed)

	// 资金流向修正
	if bundle.MoneyFlow != nil {
		if bundle.MoneyFlow.Direction == "inflow" && bundle.MoneyFlow.MainInflow > 0 {
			overall += 0.2
		} else if bundle.MoneyFlow.Direction == "outflow" {
			overall -= 0.2
		}
	}

	if overall > 1 {
		overall = 1
	} else if overall < -1 {
		overall = -1
	}
	s.Overall = overall

	switch {
	case overall > 0.1:
		s.Trend = "positive"
	case overall < -0.1:
		s.Trend = "negative"
	}

	// 置信度随样本量与偏离度提升
	s.Confidence = math.Min(1, float64(s.TotalAnalyzed)/20.0*0.5+math.Abs(overall)*0.5)

	return s
}
