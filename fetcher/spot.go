package fetcher

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/encoding/simplifiedchinese"
	"golang.org/x/text/transform"

	"stockweb/market"
	"stockweb/model"
)

const sinaQuoteURL = "http://hq.sinajs.cn/list=%s"

// SpotFetcher 实时行情拉取器（新浪接口，主要用于获取名称和最新价）
type SpotFetcher struct {
	client *http.Client
}

// NewSpotFetcher 创建实时行情拉取器
func NewSpotFetcher() *SpotFetcher {
	return &SpotFetcher{
		client: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// sinaSymbol 新浪行情符号
// A股: sh600036 / sz000001，港股: rt_hk00700，美股: gb_aapl
func sinaSymbol(code string, m market.Market) string {
	switch m {
	case market.AStock:
		return market.ExchangeOf(code) + code
	case market.HKStock:
		padded := code
		if len(padded) < 5 {
			padded = strings.Repeat("0", 5-len(padded)) + padded
		}
		return "rt_hk" + padded
	default:
		return "gb_" + strings.ToLower(code)
	}
}

// FetchQuote 获取单只股票实时行情
func (f *SpotFetcher) FetchQuote(ctx context.Context, code string, m market.Market) (*model.Quote, error) {
	symbol := sinaSymbol(code, m)
	url := fmt.Sprintf(sinaQuoteURL, symbol)

	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return nil, fmt.Errorf("创建请求失败: %w", err)
	}
	req.Header.Set("Referer", "http://finance.sina.com.cn/")
	req.Header.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("请求失败: %w", err)
	}
	defer resp.Body.Close()

	// 新浪返回GBK编码
	reader := transform.NewReader(resp.Body, simplifiedchinese.GBK.NewDecoder())
	body, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("读取响应失败: %w", err)
	}

	return parseSinaQuote(string(body), code, m)
}

var sinaLineRe = regexp.MustCompile(`var hq_str_(\w+)="([^"]*)"`)

// parseSinaQuote 解析新浪行情响应，字段布局因市场而异
func parseSinaQuote(data, code string, m market.Market) (*model.Quote, error) {
	match := sinaLineRe.FindStringSubmatch(data)
	if match == nil || match[2] == "" {
		return nil, fmt.Errorf("未获取到 %s 的行情数据", code)
	}

	fields := strings.Split(match[2], ",")
	quote := &model.Quote{Code: code, UpdatedAt: time.Now()}

	switch m {
	case market.AStock:
		// 名称,今开,昨收,当前价,最高,最低,...,成交量(8),...
		if len(fields) < 10 {
			return nil, fmt.Errorf("A股行情字段不足: %d", len(fields))
		}
		quote.Name = fields[0]
		quote.Open = parseFloat(fields[1])
		quote.PreClose = parseFloat(fields[2])
		quote.Price = parseFloat(fields[3])
		quote.High = parseFloat(fields[4])
		quote.Low = parseFloat(fields[5])
		quote.Volume = parseInt(fields[8])

	case market.HKStock:
		// 英文名,中文名,今开,昨收,最高,最低,当前价,...,成交量(12),...
		if len(fields) < 13 {
			return nil, fmt.Errorf("港股行情字段不足: %d", len(fields))
		}
		quote.Name = fields[1]
		quote.Open = parseFloat(fields[2])
		quote.PreClose = parseFloat(fields[3])
		quote.High = parseFloat(fields[4])
		quote.Low = parseFloat(fields[5])
		quote.Price = parseFloat(fields[6])
		quote.Volume = parseInt(fields[12])

	default:
		// 名称,当前价,涨跌幅,时间,涨跌额,今开,最高,最低,52周高,52周低,成交量(10),...,昨收(26),...
		if len(fields) < 11 {
			return nil, fmt.Errorf("美股行情字段不足: %d", len(fields))
		}
		quote.Name = fields[0]
		quote.Price = parseFloat(fields[1])
		quote.Open = parseFloat(fields[5])
		quote.High = parseFloat(fields[6])
		quote.Low = parseFloat(fields[7])
		quote.Volume = parseInt(fields[10])
		if len(fields) > 26 {
			quote.PreClose = parseFloat(fields[26])
		}
	}

	return quote, nil
}

// parseFloat 解析浮点数，失败返回0
func parseFloat(s string) float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	v, _ := strconv.ParseFloat(s, 64)
	return v
}

// parseInt 解析整数，失败返回0
func parseInt(s string) int64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	// 部分接口成交量带小数
	if strings.Contains(s, ".") {
		f, _ := strconv.ParseFloat(s, 64)
		return int64(f)
	}
	v, _ := strconv.ParseInt(s, 10, 64)
	return v
}
