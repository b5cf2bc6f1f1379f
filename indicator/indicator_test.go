package indicator

import (
	"math"
	"testing"

	"stockweb/model"
)

func flatBars(n int, price float64) []model.Bar {
	bars := make([]model.Bar, n)
	for i := range bars {
		bars[i] = model.Bar{Open: price, High: price, Low: price, Close: price, Volume: 1000}
	}
	return bars
}

func TestSMA(t *testing.T) {
	values := []float64{1, 2, 3, 4, 5}
	if got := SMA(values, 5); got != 3 {
		t.Errorf("SMA5 = %v, want 3", got)
	}
	if got := SMA(values, 2); got != 4.5 {
		t.Errorf("SMA2 = %v, want 4.5", got)
	}
	// 数据不足时取全部均值
	if got := SMA(values, 10); got != 3 {
		t.Errorf("SMA10 over 5 values = %v, want 3", got)
	}
}

func TestRSIAllGains(t *testing.T) {
	closes := make([]float64, 20)
	for i := range closes {
		closes[i] = 10 + float64(i)
	}
	if got := RSI(closes, 14); got != 100 {
		t.Errorf("RSI of all-gain series = %v, want 100", got)
	}
}

func TestRSIBalanced(t *testing.T) {
	// 涨跌幅相等的锯齿序列，RSI应接近50
	closes := make([]float64, 30)
	for i := range closes {
		if i%2 == 0 {
			closes[i] = 10
		} else {
			closes[i] = 11
		}
	}
	got := RSI(closes, 14)
	if math.Abs(got-50) > 5 {
		t.Errorf("RSI of balanced series = %v, want ~50", got)
	}
}

func TestBollingerFlatSeries(t *testing.T) {
	closes := make([]float64, 20)
	for i := range closes {
		closes[i] = 10
	}
	upper, middle, lower := Bollinger(closes, 20, 2)
	if upper != 10 || middle != 10 || lower != 10 {
		t.Errorf("flat series bands = %v %v %v, want all 10", upper, middle, lower)
	}
}

func TestComputeInsufficientData(t *testing.T) {
	ind := Compute(flatBars(10, 10))
	if ind.MA5 != 0 || ind.HasRSI || ind.HasBB {
		t.Errorf("expected zero-value indicators for <20 bars, got %+v", ind)
	}
}

func TestComputeFlatSeries(t *testing.T) {
	ind := Compute(flatBars(80, 10))
	if ind.MA5 != 10 || ind.MA20 != 10 || ind.MA60 != 10 {
		t.Errorf("MAs of flat series should be 10: %+v", ind)
	}
	if !ind.HasMACD || ind.MACD != 0 {
		t.Errorf("MACD of flat series should be 0, got %v", ind.MACD)
	}
	// 布林带宽度为0时位置取中值
	if ind.BBPosition != 0.5 {
		t.Errorf("BBPosition of flat series = %v, want 0.5", ind.BBPosition)
	}
	if ind.VolumeRatio != 1 {
		t.Errorf("VolumeRatio of flat volumes = %v, want 1", ind.VolumeRatio)
	}
}

func TestComputeUptrend(t *testing.T) {
	bars := make([]model.Bar, 80)
	for i := range bars {
		p := 10 + 0.1*float64(i)
		bars[i] = model.Bar{Open: p, High: p + 0.05, Low: p - 0.05, Close: p, Volume: 1000}
	}
	ind := Compute(bars)
	if ind.MA5 <= ind.MA20 {
		t.Errorf("uptrend should have MA5 > MA20: ma5=%v ma20=%v", ind.MA5, ind.MA20)
	}
	if ind.RSI != 100 {
		t.Errorf("monotonic uptrend RSI = %v, want 100", ind.RSI)
	}
	if ind.MACD <= 0 {
		t.Errorf("uptrend MACD should be positive, got %v", ind.MACD)
	}
	if ind.BBPosition < 0.8 {
		t.Errorf("uptrend close should sit near upper band, position=%v", ind.BBPosition)
	}
}

func TestPriceInfo(t *testing.T) {
	bars := flatBars(30, 10)
	bars[len(bars)-1].Close = 11
	bars[len(bars)-1].High = 11.5

	info := PriceInfo(bars, 0)
	if info.CurrentPrice != 11 || info.PreviousPrice != 10 {
		t.Errorf("unexpected prices: %+v", info)
	}
	if info.PriceChange != 1 || math.Abs(info.PriceChangePct-10) > 1e-9 {
		t.Errorf("unexpected change: %+v", info)
	}
	if info.High52W != 11.5 || info.Low52W != 10 {
		t.Errorf("unexpected range: high=%v low=%v", info.High52W, info.Low52W)
	}
	if info.DataPoints != 30 {
		t.Errorf("data points = %d, want 30", info.DataPoints)
	}
}

func TestPriceInfoRecentWindow(t *testing.T) {
	bars := flatBars(30, 10)
	// 窗口外的极值不应计入高低点
	bars[0].High = 99
	bars[0].Low = 1
	bars[len(bars)-1].High = 12

	info := PriceInfo(bars, 10)
	if info.High52W != 12 {
		t.Errorf("recent high = %v, want 12", info.High52W)
	}
	if info.Low52W != 10 {
		t.Errorf("recent low = %v, want 10", info.Low52W)
	}

	// 窗口大于序列长度时退化为全量统计
	info = PriceInfo(bars, 100)
	if info.High52W != 99 || info.Low52W != 1 {
		t.Errorf("full range = %v/%v, want 99/1", info.High52W, info.Low52W)
	}
}

func TestPriceInfoEmpty(t *testing.T) {
	info := PriceInfo(nil, 0)
	if info.DataPoints != 0 || info.CurrentPrice != 0 {
		t.Errorf("empty series should produce zero info: %+v", info)
	}
}
