package fetcher

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"stockweb/market"
	"stockweb/model"
)

// PriceFetcher 历史价格拉取器（东方财富日K接口）
type PriceFetcher struct {
	client *http.Client
}

// NewPriceFetcher 创建历史价格拉取器
func NewPriceFetcher() *PriceFetcher {
	return &PriceFetcher{
		client: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

// secIDs 东方财富secid候选列表
// A股: sh -> 1.code, sz -> 0.code
// 港股: 116.code（五位补齐）
// 美股: 交易所未知，按 105(纳斯达克)/106(纽交所)/107(美交所) 依次尝试
func secIDs(code string, m market.Market) []string {
	switch m {
	case market.AStock:
		if market.ExchangeOf(code) == "sh" {
			return []string{"1." + code}
		}
		return []string{"0." + code}
	case market.HKStock:
		padded := code
		if len(padded) < 5 {
			padded = strings.Repeat("0", 5-len(padded)) + padded
		}
		return []string{"116." + padded}
	default:
		return []string{"105." + code, "106." + code, "107." + code}
	}
}

// FetchHistory 获取前复权日K线
func (f *PriceFetcher) FetchHistory(ctx context.Context, code string, m market.Market, days int) ([]model.Bar, error) {
	var lastErr error
	for _, secid := range secIDs(code, m) {
		bars, err := f.fetchKline(ctx, secid, days)
		if err != nil {
			lastErr = err
			continue
		}
		if len(bars) > 0 {
			return bars, nil
		}
		lastErr = fmt.Errorf("secid %s 无K线数据", secid)
	}
	return nil, fmt.Errorf("获取 %s 日K失败: %w", code, lastErr)
}

func (f *PriceFetcher) fetchKline(ctx context.Context, secid string, days int) ([]model.Bar, error) {
	url := fmt.Sprintf(
		"https://push2his.eastmoney.com/api/qt/stock/kline/get?secid=%s&fields1=f1,f2,f3,f4,f5,f6&fields2=f51,f52,f53,f54,f55,f56,f57&klt=101&fqt=1&end=20500101&lmt=%d",
		secid, days,
	)

	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36")
	req.Header.Set("Referer", "https://quote.eastmoney.com/")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	return parseKlines(body)
}

// parseKlines 解析东方财富K线响应
// 每行格式: 日期,开盘,收盘,最高,最低,成交量,成交额
func parseKlines(data []byte) ([]model.Bar, error) {
	var result struct {
		Data struct {
			Klines []string `json:"klines"`
		} `json:"data"`
	}

	if err := json.Unmarshal(data, &result); err != nil {
		return nil, fmt.Errorf("解析K线响应失败: %w", err)
	}

	var bars []model.Bar
	for _, line := range result.Data.Klines {
		parts := strings.Split(line, ",")
		if len(parts) < 6 {
			continue
		}

		open, _ := strconv.ParseFloat(parts[1], 64)
		cls, _ := strconv.ParseFloat(parts[2], 64)
		high, _ := strconv.ParseFloat(parts[3], 64)
		low, _ := strconv.ParseFloat(parts[4], 64)
		volume, _ := strconv.ParseInt(parts[5], 10, 64)

		bars = append(bars, model.Bar{
			Date:   parts[0],
			Open:   open,
			Close:  cls,
			High:   high,
			Low:    low,
			Volume: volume,
		})
	}

	return bars, nil
}
