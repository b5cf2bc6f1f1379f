package market

import (
	"regexp"
	"strings"
)

// Market 市场类型
type Market string

const (
	AStock  Market = "a_stock"  // 中国A股
	HKStock Market = "hk_stock" // 港股
	USStock Market = "us_stock" // 美股
)

// Info 市场基础信息
type Info struct {
	Name         string `json:"name"`          // 市场名称
	Currency     string `json:"currency"`      // 计价货币
	Timezone     string `json:"timezone"`      // 所在时区
	TradingHours string `json:"trading_hours"` // 交易时段
}

var marketInfo = map[Market]Info{
	AStock:  {Name: "中国A股市场", Currency: "CNY", Timezone: "Asia/Shanghai", TradingHours: "09:30-15:00"},
	HKStock: {Name: "香港股票市场", Currency: "HKD", Timezone: "Asia/Hong_Kong", TradingHours: "09:30-16:00"},
	USStock: {Name: "美国股票市场", Currency: "USD", Timezone: "America/New_York", TradingHours: "09:30-16:00"},
}

// GetInfo 获取市场信息，未知市场返回A股信息
func GetInfo(m Market) Info {
	if info, ok := marketInfo[m]; ok {
		return info
	}
	return marketInfo[AStock]
}

// All 返回全部支持的市场
func All() []Market {
	return []Market{AStock, HKStock, USStock}
}

var usTickerRe = regexp.MustCompile(`^[A-Z]{1,5}$`)

// Normalize 标准化股票代码并识别市场。
// 永远返回一个尽力而为的结果，不产生错误：
//   - 1-5位纯字母 -> 美股
//   - 4-5位纯数字（0/1/2/3/6/8/9开头）-> 港股
//   - 纯数字 -> 补齐/截断为6位，按A股处理
//   - 带后缀（.SZ/.SS -> A股，.HK -> 港股，其他 -> 美股）
//   - 其余情况默认美股
func Normalize(raw string) (string, Market) {
	code := strings.ToUpper(strings.TrimSpace(raw))

	// 美股：纯字母
	if usTickerRe.MatchString(code) {
		return code, USStock
	}

	// 港股：4-5位数字
	if isDigits(code) && len(code) >= 4 && len(code) <= 5 {
		switch code[0] {
		case '0', '1', '2', '3', '6', '8', '9':
			return code, HKStock
		}
	}

	// A股：纯数字，统一为6位
	if isDigits(code) && code != "" {
		if len(code) < 6 {
			code = strings.Repeat("0", 6-len(code)) + code
		} else if len(code) > 6 {
			code = code[:6]
		}
		// 00/30 深圳，60 上海，其余仍按A股处理
		return code, AStock
	}

	// 带后缀的情况
	if idx := strings.Index(code, "."); idx >= 0 {
		prefix, suffix := code[:idx], code[idx+1:]
		switch suffix {
		case "SZ", "SS":
			normalized, _ := Normalize(prefix)
			return normalized, AStock
		case "HK":
			return prefix, HKStock
		default:
			return code, USStock
		}
	}

	return code, USStock
}

// ExchangeOf A股代码所属交易所（sh/sz），非A股代码返回空
func ExchangeOf(code string) string {
	if !isDigits(code) || len(code) != 6 {
		return ""
	}
	switch {
	case strings.HasPrefix(code, "60"), strings.HasPrefix(code, "68"):
		return "sh"
	default:
		return "sz"
	}
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}
