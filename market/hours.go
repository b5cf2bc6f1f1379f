package market

import "time"

// 各市场本地时区（美股按纽约，含夏令时由 time.LoadLocation 处理；
// 加载失败时退回固定偏移）
var (
	cst        = time.FixedZone("CST", 8*3600)
	newYork    *time.Location
	nyFallback = time.FixedZone("EST", -5*3600)
)

func init() {
	if loc, err := time.LoadLocation("America/New_York"); err == nil {
		newYork = loc
	} else {
		newYork = nyFallback
	}
}

// TimeRange 时间范围
type TimeRange struct {
	StartHour   int
	StartMinute int
	EndHour     int
	EndMinute   int
}

// A股交易时间段
var aStockHours = []TimeRange{
	{9, 30, 11, 30}, // 上午 9:30-11:30
	{13, 0, 15, 0},  // 下午 13:00-15:00
}

// 港股交易时间段
var hkStockHours = []TimeRange{
	{9, 30, 12, 0}, // 上午 9:30-12:00
	{13, 0, 16, 0}, // 下午 13:00-16:00
}

// 美股常规交易时间段（当地时间）
var usStockHours = []TimeRange{
	{9, 30, 16, 0}, // 9:30-16:00 ET
}

// IsTradingTime 判断当前是否为指定市场的交易时间
func IsTradingTime(m Market) bool {
	return IsTradingTimeAt(m, time.Now())
}

// IsTradingTimeAt 判断指定时间是否为该市场的交易时间
func IsTradingTimeAt(m Market, t time.Time) bool {
	var local time.Time
	var ranges []TimeRange

	switch m {
	case HKStock:
		local = t.In(cst)
		ranges = hkStockHours
	case USStock:
		local = t.In(newYork)
		ranges = usStockHours
	default:
		local = t.In(cst)
		ranges = aStockHours
	}

	weekday := local.Weekday()
	if weekday == time.Saturday || weekday == time.Sunday {
		return false
	}

	return isInTimeRanges(local, ranges)
}

// isInTimeRanges 检查时间是否在指定的时间范围内
func isInTimeRanges(t time.Time, ranges []TimeRange) bool {
	currentMinutes := t.Hour()*60 + t.Minute()

	for _, r := range ranges {
		startMinutes := r.StartHour*60 + r.StartMinute
		endMinutes := r.EndHour*60 + r.EndMinute
		if currentMinutes >= startMinutes && currentMinutes <= endMinutes {
			return true
		}
	}
	return false
}
