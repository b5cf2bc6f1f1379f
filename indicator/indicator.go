package indicator

import (
	"math"

	"stockweb/model"
)

// Compute 基于日K线计算技术指标。
// 数据不足20根时返回零值结果；各指标只在窗口允许时填充。
func Compute(bars []model.Bar) model.Indicators {
	var ind model.Indicators
	if len(bars) < 20 {
		return ind
	}

	closes := make([]float64, len(bars))
	volumes := make([]float64, len(bars))
	for i, b := range bars {
		closes[i] = b.Close
		volumes[i] = float64(b.Volume)
	}

	// 移动平均线
	ind.MA5 = SMA(closes, 5)
	ind.MA10 = SMA(closes, 10)
	ind.MA20 = SMA(closes, 20)
	if len(closes) >= 60 {
		ind.MA60 = SMA(closes, 60)
	}

	// RSI
	if len(closes) >= 15 {
		ind.RSI = RSI(closes, 14)
		ind.HasRSI = true
	}

	// MACD（需要足够长度计算信号线）
	if len(closes) >= 35 {
		macd, signal := MACD(closes, 12, 26, 9)
		ind.MACD = macd
		ind.MACDSignal = signal
		ind.MACDHistogram = macd - signal
		ind.HasMACD = true
	}

	// 布林带
	upper, middle, lower := Bollinger(closes, 20, 2)
	ind.BBUpper = upper
	ind.BBMiddle = middle
	ind.BBLower = lower
	ind.HasBB = true
	if upper != lower {
		ind.BBPosition = (closes[len(closes)-1] - lower) / (upper - lower)
	} else {
		ind.BBPosition = 0.5
	}

	// 成交量
	ind.VolumeMA20 = SMA(volumes, 20)
	if ind.VolumeMA20 > 0 {
		ind.VolumeRatio = volumes[len(volumes)-1] / ind.VolumeMA20
	}
	ind.HasVolume = true

	return ind
}

// SMA 末端n期简单移动平均，数据不足时取全部均值
func SMA(values []float64, n int) float64 {
	if len(values) == 0 {
		return 0
	}
	if n > len(values) {
		n = len(values)
	}
	sum := 0.0
	for _, v := range values[len(values)-n:] {
		sum += v
	}
	return sum / float64(n)
}

// EMA 指数移动平均：以首值为种子逐根递推，乘数 2/(n+1)
func EMA(values []float64, n int) float64 {
	if len(values) == 0 {
		return 0
	}
	if len(values) < n {
		return SMA(values, len(values))
	}
	multiplier := 2.0 / float64(n+1)
	ema := values[0]
	for _, v := range values[1:] {
		ema = v*multiplier + ema*(1-multiplier)
	}
	return ema
}

// RSI 相对强弱指标：最近n期涨跌幅均值之比。
// 无下跌时返回100。
func RSI(closes []float64, n int) float64 {
	if len(closes) < n+1 {
		return 50
	}

	gains := make([]float64, 0, len(closes)-1)
	losses := make([]float64, 0, len(closes)-1)
	for i := 1; i < len(closes); i++ {
		delta := closes[i] - closes[i-1]
		if delta > 0 {
			gains = append(gains, delta)
			losses = append(losses, 0)
		} else {
			gains = append(gains, 0)
			losses = append(losses, -delta)
		}
	}

	avgGain := tailMean(gains, n)
	avgLoss := tailMean(losses, n)
	if avgLoss == 0 {
		return 100
	}
	rs := avgGain / avgLoss
	return 100 - 100/(1+rs)
}

// MACD 返回MACD线与信号线。
// MACD线 = EMA(fast) - EMA(slow)；信号线 = MACD序列的EMA(signal)。
func MACD(closes []float64, fast, slow, signal int) (float64, float64) {
	if len(closes) < slow {
		return 0, 0
	}

	macdLine := EMA(closes, fast) - EMA(closes, slow)

	// 逐根回算MACD序列，再对其取EMA作为信号线
	series := make([]float64, 0, len(closes)-slow)
	for i := slow; i <= len(closes); i++ {
		prefix := closes[:i]
		series = append(series, EMA(prefix, fast)-EMA(prefix, slow))
	}
	signalLine := EMA(series, signal)

	return macdLine, signalLine
}

// Bollinger 布林带：n期均线 ± k倍标准差（总体标准差）
func Bollinger(closes []float64, n int, k float64) (upper, middle, lower float64) {
	if len(closes) < n {
		n = len(closes)
	}
	if n == 0 {
		return 0, 0, 0
	}
	window := closes[len(closes)-n:]

	middle = SMA(closes, n)
	variance := 0.0
	for _, v := range window {
		d := v - middle
		variance += d * d
	}
	std := math.Sqrt(variance / float64(n))

	return middle + k*std, middle, middle - k*std
}

// PriceInfo 从价格序列提取关键行情信息。
// recentDays 限定高低点统计的近期窗口，<=0或超出序列长度时统计全部数据。
func PriceInfo(bars []model.Bar, recentDays int) model.PriceInfo {
	var info model.PriceInfo
	if len(bars) == 0 {
		return info
	}

	latest := bars[len(bars)-1]
	previous := latest
	if len(bars) > 1 {
		previous = bars[len(bars)-2]
	}

	info.CurrentPrice = latest.Close
	info.PreviousPrice = previous.Close
	info.PriceChange = latest.Close - previous.Close
	if previous.Close != 0 {
		info.PriceChangePct = info.PriceChange / previous.Close * 100
	}
	info.DataPoints = len(bars)

	volumes := make([]float64, len(bars))
	for i, b := range bars {
		volumes[i] = float64(b.Volume)
	}

	window := bars
	if recentDays > 0 && recentDays < len(bars) {
		window = bars[len(bars)-recentDays:]
	}
	high, low := window[0].High, window[0].Low
	for _, b := range window {
		if b.High > high {
			high = b.High
		}
		if b.Low < low && b.Low > 0 {
			low = b.Low
		}
	}
	info.High52W = high
	info.Low52W = low
	info.CurrentVolume = volumes[len(volumes)-1]
	info.AvgVolume = SMA(volumes, 20)
	if info.AvgVolume > 0 {
		info.VolumeRatio = info.CurrentVolume / info.AvgVolume
	}

	// 20日收益率标准差年化
	if len(bars) >= 21 {
		returns := make([]float64, 0, 20)
		for i := len(bars) - 20; i < len(bars); i++ {
			prev := bars[i-1].Close
			if prev != 0 {
				returns = append(returns, (bars[i].Close-prev)/prev)
			}
		}
		if len(returns) > 0 {
			mean := 0.0
			for _, r := range returns {
				mean += r
			}
			mean /= float64(len(returns))
			variance := 0.0
			for _, r := range returns {
				d := r - mean
				variance += d * d
			}
			std := math.Sqrt(variance / float64(len(returns)))
			info.Volatility = std * math.Sqrt(252) * 100
		}
	}

	return info
}

func tailMean(values []float64, n int) float64 {
	if len(values) == 0 {
		return 0
	}
	if n > len(values) {
		n = len(values)
	}
	sum := 0.0
	for _, v := range values[len(values)-n:] {
		sum += v
	}
	return sum / float64(n)
}
