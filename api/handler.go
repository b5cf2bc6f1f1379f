package api

import (
	"context"
	"fmt"
	"math"
	"net/http"
	"reflect"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"stockweb/analyzer"
	"stockweb/cache"
	"stockweb/config"
	"stockweb/llm"
	"stockweb/market"
	"stockweb/model"
	"stockweb/sse"
)

// 单次批量分析最多处理的股票数
const maxBatchSize = 10

// 单次分析的超时时间
const analyzeTimeout = 5 * time.Minute

// Handler API处理器
type Handler struct {
	cfg       *config.Config
	analyzer  *analyzer.Analyzer
	registry  *analyzer.Registry
	pool      *analyzer.Pool
	hub       *sse.Hub
	cache     *cache.Cache
	llm       *llm.Client
	startedAt time.Time
}

// NewHandler 创建API处理器
func NewHandler(cfg *config.Config, a *analyzer.Analyzer, hub *sse.Hub, c *cache.Cache, lc *llm.Client) *Handler {
	return &Handler{
		cfg:       cfg,
		analyzer:  a,
		registry:  analyzer.NewRegistry(),
		pool:      analyzer.NewPool(cfg.MaxWorkers),
		hub:       hub,
		cache:     c,
		llm:       lc,
		startedAt: time.Now(),
	}
}

// Close 关闭处理器的工作池
func (h *Handler) Close() {
	h.pool.Close()
}

// respondError 统一错误响应
func respondError(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"success": false, "error": message})
}

// analyzeRequest 单只分析请求体
type analyzeRequest struct {
	StockCode string `json:"stock_code" binding:"required"`
	EnableAI  *bool  `json:"enable_ai"`
	ClientID  string `json:"client_id"`
}

func (r *analyzeRequest) aiEnabled() bool {
	if r.EnableAI == nil {
		return true
	}
	return *r.EnableAI
}

// cleanBatchCodes 去除批量代码列表中的空白项
func cleanBatchCodes(raw []string) []string {
	codes := make([]string, 0, len(raw))
	for _, c := range raw {
		if c = strings.TrimSpace(c); c != "" {
			codes = append(codes, c)
		}
	}
	return codes
}

// Analyze 同步分析单只股票
func (h *Handler) Analyze(c *gin.Context) {
	var req analyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "缺少stock_code参数")
		return
	}
	rawCode := strings.TrimSpace(req.StockCode)
	if rawCode == "" {
		respondError(c, http.StatusBadRequest, "缺少stock_code参数")
		return
	}

	code, _ := market.Normalize(rawCode)
	if err := h.registry.Acquire(code); err != nil {
		respondError(c, http.StatusTooManyRequests, err.Error())
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), analyzeTimeout)
	defer cancel()

	opts := analyzer.Options{EnableAI: req.aiEnabled()}
	if req.ClientID != "" {
		opts.Observer = sse.NewStreamer(h.hub, req.ClientID)
	}

	report, err := h.analyzer.Analyze(ctx, rawCode, opts)
	h.registry.Release(code, err)
	if err != nil {
		respondError(c, http.StatusInternalServerError, fmt.Sprintf("分析失败: %v", err))
		return
	}

	cleanNaN(reflect.ValueOf(report))
	c.JSON(http.StatusOK, gin.H{"success": true, "data": report})
}

// AnalyzeStream 异步分析单只股票，结果通过SSE推送
func (h *Handler) AnalyzeStream(c *gin.Context) {
	var req analyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "缺少stock_code参数")
		return
	}
	rawCode := strings.TrimSpace(req.StockCode)
	if rawCode == "" {
		respondError(c, http.StatusBadRequest, "缺少stock_code参数")
		return
	}
	clientID := strings.TrimSpace(req.ClientID)
	if clientID == "" {
		respondError(c, http.StatusBadRequest, "缺少客户端ID")
		return
	}

	code, _ := market.Normalize(rawCode)
	if err := h.registry.Acquire(code); err != nil {
		respondError(c, http.StatusTooManyRequests, err.Error())
		return
	}

	streamer := sse.NewStreamer(h.hub, clientID)
	enableAI := req.aiEnabled()

	h.pool.Submit(func() {
		ctx, cancel := context.WithTimeout(context.Background(), analyzeTimeout)
		defer cancel()

		report, err := h.analyzer.Analyze(ctx, rawCode, analyzer.Options{
			EnableAI: enableAI,
			Observer: streamer,
		})
		h.registry.Release(code, err)
		if err != nil {
			streamer.Error(code, err)
			return
		}
		cleanNaN(reflect.ValueOf(report))
		streamer.FinalResult(report)
		streamer.Complete(code)
	})

	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"client_id":  clientID,
		"stock_code": code,
		"message":    "分析任务已提交",
	})
}

// batchRequest 批量分析请求体
type batchRequest struct {
	StockCodes []string `json:"stock_codes" binding:"required"`
	EnableAI   *bool    `json:"enable_ai"`
	ClientID   string   `json:"client_id"`
}

func (r *batchRequest) aiEnabled() bool {
	if r.EnableAI == nil {
		return false
	}
	return *r.EnableAI
}

// BatchAnalyze 同步批量分析，最多10只
func (h *Handler) BatchAnalyze(c *gin.Context) {
	var req batchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "缺少stock_codes参数")
		return
	}
	stockCodes := cleanBatchCodes(req.StockCodes)
	if len(stockCodes) == 0 {
		respondError(c, http.StatusBadRequest, "股票列表为空")
		return
	}
	if len(stockCodes) > maxBatchSize {
		respondError(c, http.StatusBadRequest, fmt.Sprintf("单次批量分析最多%d只股票", maxBatchSize))
		return
	}

	enableAI := req.aiEnabled()
	type result struct {
		report *model.Report
		err    error
		code   string
	}

	results := make([]result, len(stockCodes))
	var wg sync.WaitGroup
	for i, rawCode := range stockCodes {
		i, rawCode := i, rawCode
		wg.Add(1)
		h.pool.Submit(func() {
			defer wg.Done()

			code, _ := market.Normalize(rawCode)
			results[i].code = code

			if err := h.registry.Acquire(code); err != nil {
				results[i].err = err
				return
			}

			ctx, cancel := context.WithTimeout(context.Background(), analyzeTimeout)
			defer cancel()

			report, err := h.analyzer.Analyze(ctx, rawCode, analyzer.Options{EnableAI: enableAI})
			h.registry.Release(code, err)
			results[i].report = report
			results[i].err = err
		})
	}
	wg.Wait()

	var reports []*model.Report
	var failed []gin.H
	for _, r := range results {
		if r.err != nil {
			failed = append(failed, gin.H{"stock_code": r.code, "error": r.err.Error()})
			continue
		}
		cleanNaN(reflect.ValueOf(r.report))
		reports = append(reports, r.report)
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"data":    reports,
		"failed":  failed,
		"total":   len(stockCodes),
	})
}

// BatchAnalyzeStream 异步批量分析，结果逐只通过SSE推送
func (h *Handler) BatchAnalyzeStream(c *gin.Context) {
	var req batchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "缺少stock_codes参数")
		return
	}
	codes := cleanBatchCodes(req.StockCodes)
	if len(codes) == 0 {
		respondError(c, http.StatusBadRequest, "股票列表为空")
		return
	}
	if len(codes) > maxBatchSize {
		respondError(c, http.StatusBadRequest, fmt.Sprintf("单次批量分析最多%d只股票", maxBatchSize))
		return
	}
	clientID := strings.TrimSpace(req.ClientID)
	if clientID == "" {
		respondError(c, http.StatusBadRequest, "缺少客户端ID")
		return
	}

	streamer := sse.NewStreamer(h.hub, clientID)
	enableAI := req.aiEnabled()
	total := len(codes)

	go func() {
		var wg sync.WaitGroup
		for i, rawCode := range codes {
			i, rawCode := i, rawCode
			wg.Add(1)
			h.pool.Submit(func() {
				defer wg.Done()

				code, _ := market.Normalize(rawCode)
				if err := h.registry.Acquire(code); err != nil {
					streamer.Error(code, err)
					return
				}

				ctx, cancel := context.WithTimeout(context.Background(), analyzeTimeout)
				defer cancel()

				report, err := h.analyzer.Analyze(ctx, rawCode, analyzer.Options{
					EnableAI: enableAI,
					Observer: streamer,
				})
				h.registry.Release(code, err)
				if err != nil {
					streamer.Error(code, err)
					return
				}
				cleanNaN(reflect.ValueOf(report))
				streamer.BatchResult(i, total, report)
			})
		}
		wg.Wait()
		streamer.Complete("")
	}()

	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"client_id": clientID,
		"total":     total,
		"message":   "批量分析任务已提交",
	})
}

// TaskStatus 查询指定股票的任务状态
func (h *Handler) TaskStatus(c *gin.Context) {
	code, _ := market.Normalize(c.Param("code"))
	info, ok := h.registry.Get(code)
	if !ok {
		respondError(c, http.StatusNotFound, "未找到该股票的分析任务")
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": info})
}

// Status 服务运行状态
func (h *Handler) Status(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"success":        true,
		"status":         "running",
		"uptime":         time.Since(h.startedAt).String(),
		"running_tasks":  h.registry.Running(),
		"cache_entries":  h.cache.Len(),
		"stream_clients": h.hub.Clients(),
	})
}

// SystemInfo 系统与配置信息
func (h *Handler) SystemInfo(c *gin.Context) {
	markets := make([]gin.H, 0, 3)
	for _, m := range market.All() {
		info := market.GetInfo(m)
		markets = append(markets, gin.H{
			"market":        m,
			"name":          info.Name,
			"currency":      info.Currency,
			"trading_hours": info.TradingHours,
			"enabled":       h.cfg.MarketEnabled(string(m)),
			"is_trading":    market.IsTradingTime(m),
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"success":          true,
		"markets":          markets,
		"ai_available":     h.llm != nil && h.llm.Available(),
		"configured_apis":  h.cfg.ConfiguredAPIs(),
		"model_preference": h.cfg.ModelPreference,
		"max_workers":      h.cfg.MaxWorkers,
		"analysis_weights": h.cfg.Weights(),
		"auth_enabled":     h.cfg.AuthEnabled,
	})
}

// ValidateStock 校验并标准化股票代码
func (h *Handler) ValidateStock(c *gin.Context) {
	raw := c.Query("code")
	if raw == "" {
		respondError(c, http.StatusBadRequest, "缺少code参数")
		return
	}

	code, m := market.Normalize(raw)
	info := market.GetInfo(m)
	c.JSON(http.StatusOK, gin.H{
		"success":         true,
		"original_code":   raw,
		"normalized_code": code,
		"market":          m,
		"market_info":     info,
		"market_enabled":  h.cfg.MarketEnabled(string(m)),
	})
}

// cleanNaN 递归将NaN/Inf浮点字段归零，保证JSON序列化不失败
func cleanNaN(v reflect.Value) {
	switch v.Kind() {
	case reflect.Ptr, reflect.Interface:
		if !v.IsNil() {
			cleanNaN(v.Elem())
		}
	case reflect.Struct:
		for i := 0; i < v.NumField(); i++ {
			f := v.Field(i)
			if f.CanSet() || f.Kind() == reflect.Ptr || f.Kind() == reflect.Slice || f.Kind() == reflect.Map {
				cleanNaN(f)
			}
		}
	case reflect.Slice, reflect.Array:
		for i := 0; i < v.Len(); i++ {
			cleanNaN(v.Index(i))
		}
	case reflect.Map:
		for _, key := range v.MapKeys() {
			mv := v.MapIndex(key)
			if mv.Kind() == reflect.Float64 {
				if f := mv.Float(); math.IsNaN(f) || math.IsInf(f, 0) {
					v.SetMapIndex(key, reflect.ValueOf(0.0))
				}
			}
		}
	case reflect.Float32, reflect.Float64:
		if v.CanSet() {
			if f := v.Float(); math.IsNaN(f) || math.IsInf(f, 0) {
				v.SetFloat(0)
			}
		}
	}
}
