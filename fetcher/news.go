package fetcher

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"stockweb/market"
	"stockweb/model"
)

// NewsFetcher 新闻与资金流向拉取器
type NewsFetcher struct {
	client *http.Client
}

// NewNewsFetcher 创建新闻拉取器
func NewNewsFetcher() *NewsFetcher {
	return &NewsFetcher{
		client: &http.Client{
			Timeout: 15 * time.Second,
		},
	}
}

// FetchNews 获取个股新闻（东方财富搜索接口），limit 为最大条数
func (f *NewsFetcher) FetchNews(ctx context.Context, code string, m market.Market, limit int) ([]model.NewsItem, error) {
	if limit <= 0 {
		limit = 20
	}
	keyword := code
	if m == market.HKStock {
		keyword = code + ".HK"
	}

	param := fmt.Sprintf(
		`{"uid":"","keyword":"%s","type":["cmsArticleWebOld"],"client":"web","clientVersion":"curr","clientType":"web","param":{"cmsArticleWebOld":{"searchScope":"default","sort":"default","pageIndex":1,"pageSize":%d,"preTag":"","postTag":""}}}`,
		keyword, limit,
	)
	reqURL := fmt.Sprintf(
		"https://search-api-web.eastmoney.com/search/jsonp?cb=cb&param=%s&_=%d",
		url.QueryEscape(param), time.Now().UnixMilli(),
	)

	req, err := http.NewRequestWithContext(ctx, "GET", reqURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36")
	req.Header.Set("Referer", "https://so.eastmoney.com/")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	return parseNews(body)
}

// parseNews 解析新闻搜索响应
// 响应为 jsonp 格式: cb({...})，先剥掉包裹再解析
func parseNews(data []byte) ([]model.NewsItem, error) {
	str := string(data)
	start := strings.Index(str, "{")
	end := strings.LastIndex(str, "}")
	if start == -1 || end == -1 || start >= end {
		return nil, fmt.Errorf("无法解析新闻响应")
	}

	var result struct {
		Result struct {
			Articles []struct {
				Title     string `json:"title"`
				Content   string `json:"content"`
				Date      string `json:"date"`
				MediaName string `json:"mediaName"`
			} `json:"cmsArticleWebOld"`
		} `json:"result"`
	}
	if err := json.Unmarshal([]byte(str[start:end+1]), &result); err != nil {
		return nil, fmt.Errorf("解析新闻响应失败: %w", err)
	}

	var items []model.NewsItem
	for _, a := range result.Result.Articles {
		items = append(items, model.NewsItem{
			Title:   stripHTML(a.Title),
			Content: stripHTML(a.Content),
			Time:    a.Date,
			Source:  a.MediaName,
		})
	}
	return items, nil
}

// stripHTML 去除标题/摘要中的高亮标签等HTML片段
func stripHTML(s string) string {
	if !strings.Contains(s, "<") {
		return strings.TrimSpace(s)
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(s))
	if err != nil {
		return strings.TrimSpace(s)
	}
	return strings.TrimSpace(doc.Text())
}

// FetchMoneyFlow 获取主力资金净流入，仅A股有此数据
func (f *NewsFetcher) FetchMoneyFlow(ctx context.Context, code string, m market.Market) (*model.MoneyFlow, error) {
	if m != market.AStock {
		return nil, nil
	}

	var lastErr error
	for _, secid := range secIDs(code, m) {
		flow, err := f.fetchMoneyFlow(ctx, secid)
		if err != nil {
			lastErr = err
			continue
		}
		return flow, nil
	}
	return nil, lastErr
}

func (f *NewsFetcher) fetchMoneyFlow(ctx context.Context, secid string) (*model.MoneyFlow, error) {
	// f137 主力净流入(元)
	url := fmt.Sprintf(
		"https://push2.eastmoney.com/api/qt/stock/get?secid=%s&fields=f137&invt=2&fltt=2",
		secid,
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

	var result struct {
		Data struct {
			F137 float64 `json:"f137"`
		} `json:"data"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("解析资金流向失败: %w", err)
	}

	flow := &model.MoneyFlow{MainInflow: result.Data.F137}
	if flow.MainInflow >= 0 {
		flow.Direction = "inflow"
	} else {
		flow.Direction = "outflow"
	}
	return flow, nil
}
