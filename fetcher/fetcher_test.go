package fetcher

import (
	"reflect"
	"testing"

	"stockweb/market"
)

func TestSecIDs(t *testing.T) {
	tests := []struct {
		code string
		m    market.Market
		want []string
	}{
		{"600036", market.AStock, []string{"1.600036"}},
		{"000001", market.AStock, []string{"0.000001"}},
		{"688001", market.AStock, []string{"1.688001"}},
		{"300750", market.AStock, []string{"0.300750"}},
		{"0700", market.HKStock, []string{"116.00700"}},
		{"09988", market.HKStock, []string{"116.09988"}},
		{"AAPL", market.USStock, []string{"105.AAPL", "106.AAPL", "107.AAPL"}},
	}
	for _, tt := range tests {
		got := secIDs(tt.code, tt.m)
		if !reflect.DeepEqual(got, tt.want) {
			t.Errorf("secIDs(%s, %s) = %v, 期望 %v", tt.code, tt.m, got, tt.want)
		}
	}
}

func TestParseKlines(t *testing.T) {
	payload := []byte(`{"data":{"code":"600036","klines":[
		"2026-08-25,41.10,41.52,41.80,41.00,52000000,2150000000",
		"2026-08-26,41.50,42.00,42.10,41.30,61000000,2560000000"
	]}}`)

	bars, err := parseKlines(payload)
	if err != nil {
		t.Fatalf("parseKlines失败: %v", err)
	}
	if len(bars) != 2 {
		t.Fatalf("len(bars) = %d, 期望 2", len(bars))
	}
	if bars[0].Date != "2026-08-25" || bars[0].Open != 41.10 || bars[0].Close != 41.52 {
		t.Errorf("第一条K线解析错误: %+v", bars[0])
	}
	if bars[1].High != 42.10 || bars[1].Low != 41.30 || bars[1].Volume != 61000000 {
		t.Errorf("第二条K线解析错误: %+v", bars[1])
	}
}

func TestParseKlinesSkipsMalformed(t *testing.T) {
	payload := []byte(`{"data":{"klines":["bad-line","2026-08-26,10,11,12,9,100,1000"]}}`)
	bars, err := parseKlines(payload)
	if err != nil {
		t.Fatalf("parseKlines失败: %v", err)
	}
	if len(bars) != 1 {
		t.Errorf("格式错误的行应被跳过, len = %d", len(bars))
	}
}

func TestSinaSymbol(t *testing.T) {
	tests := []struct {
		code string
		m    market.Market
		want string
	}{
		{"600036", market.AStock, "sh600036"},
		{"000001", market.AStock, "sz000001"},
		{"0700", market.HKStock, "rt_hk00700"},
		{"AAPL", market.USStock, "gb_aapl"},
	}
	for _, tt := range tests {
		if got := sinaSymbol(tt.code, tt.m); got != tt.want {
			t.Errorf("sinaSymbol(%s, %s) = %s, 期望 %s", tt.code, tt.m, got, tt.want)
		}
	}
}

func TestParseSinaQuoteAStock(t *testing.T) {
	data := `var hq_str_sh600036="招商银行,41.50,41.52,42.00,42.10,41.30,41.99,42.00,61000000,2560000000.00,100,41.99,200,41.98,300,41.97,400,41.96,500,41.95,100,42.00,200,42.01,300,42.02,400,42.03,500,42.04,2026-08-26,15:00:00,00";`

	quote, err := parseSinaQuote(data, "600036", market.AStock)
	if err != nil {
		t.Fatalf("parseSinaQuote失败: %v", err)
	}
	if quote.Name != "招商银行" {
		t.Errorf("Name = %q", quote.Name)
	}
	if quote.Price != 42.00 || quote.PreClose != 41.52 {
		t.Errorf("Price/PreClose = %v/%v", quote.Price, quote.PreClose)
	}
	if quote.Volume != 61000000 {
		t.Errorf("Volume = %d", quote.Volume)
	}
	if pct := quote.ChangePercent(); pct < 1.1 || pct > 1.2 {
		t.Errorf("ChangePercent = %v", pct)
	}
}

func TestParseSinaQuoteEmpty(t *testing.T) {
	if _, err := parseSinaQuote(`var hq_str_sh999999="";`, "999999", market.AStock); err == nil {
		t.Error("空行情应返回错误")
	}
}

func TestParseFundamental(t *testing.T) {
	payload := []byte(`{"data":{"f162":6.15,"f167":0.95,"f173":15.2,"f184":3.5,"f185":4.1,"f116":1050000000000}}`)

	fund, err := parseFundamental(payload)
	if err != nil {
		t.Fatalf("parseFundamental失败: %v", err)
	}
	if fund.PE != 6.15 || fund.PB != 0.95 {
		t.Errorf("PE/PB = %v/%v", fund.PE, fund.PB)
	}
	if fund.ROE != 15.2 {
		t.Errorf("ROE = %v", fund.ROE)
	}
	if fund.Count() != 6 {
		t.Errorf("Count = %d, 期望 6", fund.Count())
	}
	if _, ok := fund.Indicators["市盈率(动态)"]; !ok {
		t.Error("缺少市盈率指标")
	}
}

func TestParseFundamentalNoData(t *testing.T) {
	if _, err := parseFundamental([]byte(`{"data":null}`)); err == nil {
		t.Error("空数据应返回错误")
	}
}

func TestParseNews(t *testing.T) {
	payload := []byte(`cb({"result":{"cmsArticleWebOld":[
		{"title":"<em>招商银行</em>发布中报","content":"净利润同比增长<em>4%</em>","date":"2026-08-25 08:30:00","mediaName":"证券时报"},
		{"title":"银行板块走强","content":"资金流入明显","date":"2026-08-24 10:00:00","mediaName":"财联社"}
	]}})`)

	items, err := parseNews(payload)
	if err != nil {
		t.Fatalf("parseNews失败: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("len(items) = %d, 期望 2", len(items))
	}
	if items[0].Title != "招商银行发布中报" {
		t.Errorf("HTML标签应被去除: %q", items[0].Title)
	}
	if items[0].Content != "净利润同比增长4%" {
		t.Errorf("Content = %q", items[0].Content)
	}
	if items[1].Source != "财联社" {
		t.Errorf("Source = %q", items[1].Source)
	}
}

func TestStripHTML(t *testing.T) {
	if got := stripHTML("純文本"); got != "純文本" {
		t.Errorf("无标签文本应原样返回: %q", got)
	}
	if got := stripHTML("<em>高亮</em>内容 "); got != "高亮内容" {
		t.Errorf("stripHTML = %q", got)
	}
}

func TestMockBarsDeterministic(t *testing.T) {
	a := MockBars("600036", 60)
	b := MockBars("600036", 60)
	if !reflect.DeepEqual(a, b) {
		t.Error("同一代码的模拟K线应完全一致")
	}

	c := MockBars("000001", 60)
	if reflect.DeepEqual(a, c) {
		t.Error("不同代码的模拟K线应不同")
	}

	for _, bar := range a {
		if bar.Low > bar.High || bar.Close <= 0 {
			t.Fatalf("模拟K线数据非法: %+v", bar)
		}
		if bar.Open > bar.High || bar.Open < bar.Low {
			t.Fatalf("开盘价越界: %+v", bar)
		}
	}
}

func TestMockQuote(t *testing.T) {
	q := MockQuote("600036", market.AStock)
	if q.Name == "" || q.Price <= 0 {
		t.Errorf("模拟行情非法: %+v", q)
	}
	q2 := MockQuote("AAPL", market.USStock)
	if q2.Name != "AAPL Inc." {
		t.Errorf("美股模拟名称 = %q", q2.Name)
	}
}

func TestMockFundamentalDeterministic(t *testing.T) {
	a := MockFundamental("600036")
	b := MockFundamental("600036")
	if a.PE != b.PE || a.ROE != b.ROE {
		t.Error("同一代码的模拟基本面应一致")
	}
	if a.PE <= 0 || a.Count() == 0 {
		t.Errorf("模拟基本面非法: %+v", a)
	}
}

func TestMockNews(t *testing.T) {
	items := MockNews("600036", market.AStock, 5)
	if len(items) != 5 {
		t.Fatalf("len = %d, 期望 5", len(items))
	}
	for _, item := range items {
		if item.Title == "" || item.Source != "模拟数据" {
			t.Errorf("模拟新闻非法: %+v", item)
		}
	}
}
