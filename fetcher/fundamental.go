package fetcher

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"stockweb/market"
	"stockweb/model"
)

// FundamentalFetcher 基本面数据拉取器（东方财富行情快照接口）
type FundamentalFetcher struct {
	client *http.Client
}

// NewFundamentalFetcher 创建基本面数据拉取器
func NewFundamentalFetcher() *FundamentalFetcher {
	return &FundamentalFetcher{
		client: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

// 快照字段: f43最新价 f57代码 f58名称 f116总市值 f117流通市值
// f162市盈率(动) f163市盈率(静) f167市净率 f173ROE f183总营收 f184营收同比
// f105净利润 f185净利润同比 f186毛利率 f187净利率 f188资产负债率
const quoteFields = "f43,f57,f58,f105,f116,f117,f162,f163,f167,f173,f183,f184,f185,f186,f187,f188"

// FetchFundamental 获取基本面指标
func (f *FundamentalFetcher) FetchFundamental(ctx context.Context, code string, m market.Market) (*model.Fundamental, error) {
	var lastErr error
	for _, secid := range secIDs(code, m) {
		fund, err := f.fetchOne(ctx, secid)
		if err != nil {
			lastErr = err
			continue
		}
		if fund.Count() > 0 {
			return fund, nil
		}
		lastErr = fmt.Errorf("secid %s 无基本面数据", secid)
	}
	return nil, fmt.Errorf("获取 %s 基本面失败: %w", code, lastErr)
}

func (f *FundamentalFetcher) fetchOne(ctx context.Context, secid string) (*model.Fundamental, error) {
	url := fmt.Sprintf(
		"https://push2.eastmoney.com/api/qt/stock/get?secid=%s&fields=%s&invt=2&fltt=2",
		secid, quoteFields,
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

	return parseFundamental(body)
}

// parseFundamental 解析东方财富快照响应
func parseFundamental(data []byte) (*model.Fundamental, error) {
	var result struct {
		Data map[string]json.Number `json:"data"`
	}
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, fmt.Errorf("解析基本面响应失败: %w", err)
	}
	if result.Data == nil {
		return nil, fmt.Errorf("基本面响应无数据")
	}

	// 字段编号 -> 指标中文名
	fieldNames := map[string]string{
		"f162": "市盈率(动态)",
		"f163": "市盈率(静态)",
		"f167": "市净率",
		"f173": "净资产收益率",
		"f116": "总市值",
		"f117": "流通市值",
		"f183": "总营收",
		"f184": "营收同比增长",
		"f105": "净利润",
		"f185": "净利润同比增长",
		"f186": "毛利率",
		"f187": "净利率",
		"f188": "资产负债率",
	}

	fund := &model.Fundamental{Indicators: make(map[string]string)}
	for field, name := range fieldNames {
		num, ok := result.Data[field]
		if !ok || num.String() == "" || num.String() == "-" {
			continue
		}
		fund.Indicators[name] = num.String()

		v, err := num.Float64()
		if err != nil {
			continue
		}
		switch field {
		case "f162":
			fund.PE = v
		case "f167":
			fund.PB = v
		case "f173":
			fund.ROE = v
		case "f184":
			fund.RevenueYoY = v
		case "f185":
			fund.ProfitYoY = v
		case "f116":
			fund.MarketCap = v
		}
	}

	return fund, nil
}
