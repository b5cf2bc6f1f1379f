package api

import (
	"context"
	"fmt"
	"io/fs"
	"log"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"stockweb/analyzer"
	"stockweb/cache"
	"stockweb/config"
	"stockweb/llm"
	"stockweb/sse"
)

// Server HTTP服务器
type Server struct {
	engine   *gin.Engine
	server   *http.Server
	handler  *Handler
	staticFS fs.FS
}

// NewServer 创建服务器
func NewServer(cfg *config.Config, a *analyzer.Analyzer, hub *sse.Hub, c *cache.Cache, lc *llm.Client, staticFS fs.FS) *Server {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(corsMiddleware())
	engine.Use(loggerMiddleware())

	s := &Server{
		engine:   engine,
		handler:  NewHandler(cfg, a, hub, c, lc),
		staticFS: staticFS,
		server: &http.Server{
			Addr:    fmt.Sprintf(":%d", cfg.Port),
			Handler: engine,
		},
	}

	s.setupRoutes()
	return s
}

// setupRoutes 设置路由
func (s *Server) setupRoutes() {
	h := s.handler

	// 登录接口不做会话校验
	s.engine.POST("/api/login", h.Login)
	s.engine.POST("/api/logout", h.Logout)

	api := s.engine.Group("/api")
	api.Use(h.authMiddleware())
	{
		// 分析
		api.POST("/analyze", h.Analyze)
		api.POST("/analyze_stream", h.AnalyzeStream)
		api.POST("/batch_analyze", h.BatchAnalyze)
		api.POST("/batch_analyze_stream", h.BatchAnalyzeStream)

		// 任务与状态
		api.GET("/task_status/:code", h.TaskStatus)
		api.GET("/status", h.Status)
		api.GET("/system_info", h.SystemInfo)
		api.GET("/validate_stock", h.ValidateStock)

		// SSE推流
		api.GET("/stream/:client_id", h.Stream)
	}

	// 健康检查
	s.engine.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// 静态文件服务 (嵌入的前端)
	if s.staticFS != nil {
		s.engine.StaticFS("/static", http.FS(s.staticFS))
		s.engine.GET("/", func(c *gin.Context) {
			data, err := fs.ReadFile(s.staticFS, "index.html")
			if err != nil {
				c.String(http.StatusNotFound, "index.html not found")
				return
			}
			c.Data(http.StatusOK, "text/html; charset=utf-8", data)
		})
	}
}

// Start 启动服务器
func (s *Server) Start() error {
	log.Printf("[API] 服务启动在 http://localhost%s\n", s.server.Addr)
	log.Println("[API] 可用接口:")
	log.Println("  POST /api/analyze              - 同步分析单只股票")
	log.Println("  POST /api/analyze_stream       - 异步分析(SSE推送)")
	log.Println("  POST /api/batch_analyze        - 批量分析")
	log.Println("  POST /api/batch_analyze_stream - 批量分析(SSE推送)")
	log.Println("  GET  /api/stream/:client_id    - SSE事件流")
	log.Println("  GET  /api/task_status/:code    - 任务状态")
	log.Println("  GET  /api/validate_stock       - 代码校验")
	log.Println("  GET  /api/status               - 服务状态")
	log.Println("  GET  /api/system_info          - 系统信息")

	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown 优雅关闭服务器
func (s *Server) Shutdown() error {
	s.handler.Close()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.server.Shutdown(ctx)
}

// Engine 暴露底层引擎（测试用）
func (s *Server) Engine() *gin.Engine {
	return s.engine
}

// loggerMiddleware 日志中间件
func loggerMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		c.Next()

		latency := time.Since(start)
		status := c.Writer.Status()

		log.Printf("[API] %s %s %d %v\n", c.Request.Method, path, status, latency)
	}
}

// corsMiddleware CORS中间件
func corsMiddleware() gin.HandlerFunc {
	cfg := cors.DefaultConfig()
	cfg.AllowAllOrigins = true
	cfg.AllowMethods = []string{"GET", "POST", "OPTIONS"}
	cfg.AllowHeaders = []string{"Content-Type"}
	return cors.New(cfg)
}
