package market

import (
	"testing"
	"time"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		raw    string
		code   string
		market Market
	}{
		{"600036", "600036", AStock},
		{"000001", "000001", AStock},
		{"300750", "300750", AStock},
		{"688111", "688111", AStock},
		{"1", "000001", AStock},       // 补齐到6位
		{"36", "000036", AStock},      // 补齐到6位
		{"6000361", "600036", AStock}, // 超长截断
		{"00700", "00700", HKStock},
		{"0700", "0700", HKStock},
		{"09988", "09988", HKStock},
		{"AAPL", "AAPL", USStock},
		{"tsla", "TSLA", USStock},
		{"BRK", "BRK", USStock},
		{"600036.SS", "600036", AStock},
		{"000001.SZ", "000001", AStock},
		{"0700.HK", "0700", HKStock},
		{"BRK.A", "BRK.A", USStock},
		{" 600036 ", "600036", AStock},
		{"中文", "中文", USStock}, // 兜底美股
	}

	for _, tt := range tests {
		code, m := Normalize(tt.raw)
		if code != tt.code || m != tt.market {
			t.Errorf("Normalize(%q) = (%q, %s), want (%q, %s)", tt.raw, code, m, tt.code, tt.market)
		}
	}
}

func TestExchangeOf(t *testing.T) {
	tests := []struct {
		code string
		want string
	}{
		{"600036", "sh"},
		{"688111", "sh"},
		{"000001", "sz"},
		{"300750", "sz"},
		{"AAPL", ""},
		{"0700", ""},
	}
	for _, tt := range tests {
		if got := ExchangeOf(tt.code); got != tt.want {
			t.Errorf("ExchangeOf(%q) = %q, want %q", tt.code, got, tt.want)
		}
	}
}

func TestGetInfo(t *testing.T) {
	if info := GetInfo(HKStock); info.Currency != "HKD" {
		t.Errorf("unexpected currency: %s", info.Currency)
	}
	// 未知市场退回A股
	if info := GetInfo(Market("xx")); info.Currency != "CNY" {
		t.Errorf("unknown market should fall back to a_stock, got %s", info.Currency)
	}
}

func TestIsTradingTimeAt(t *testing.T) {
	// 2026-08-26 是周三
	morning := time.Date(2026, 8, 26, 10, 0, 0, 0, cst)
	if !IsTradingTimeAt(AStock, morning) {
		t.Error("expected A-share trading at 10:00 CST Wednesday")
	}
	noonBreak := time.Date(2026, 8, 26, 12, 30, 0, 0, cst)
	if IsTradingTimeAt(AStock, noonBreak) {
		t.Error("A-share should be closed at 12:30 CST")
	}
	if !IsTradingTimeAt(HKStock, noonBreak.Add(time.Hour)) {
		t.Error("expected HK trading at 13:30 CST")
	}
	saturday := time.Date(2026, 8, 29, 10, 0, 0, 0, cst)
	if IsTradingTimeAt(AStock, saturday) {
		t.Error("A-share should be closed on Saturday")
	}
}
