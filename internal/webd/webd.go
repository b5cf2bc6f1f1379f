package webd

import (
	"flag"
	"io/fs"
	"log"
	"os"
	"os/signal"
	"syscall"

	"stockweb"
	"stockweb/analyzer"
	"stockweb/api"
	"stockweb/cache"
	"stockweb/config"
	"stockweb/fetcher"
	"stockweb/llm"
	"stockweb/sse"
)

// Run 启动股票分析Web服务，返回进程退出码
func Run(args []string) int {
	flags := flag.NewFlagSet("stockweb", flag.ContinueOnError)
	flags.SetOutput(os.Stderr)

	var (
		configPath string
		port       int
	)
	flags.StringVar(&configPath, "config", "", "配置文件路径(JSON/YAML)，默认优先使用 ./config.json")
	flags.IntVar(&port, "port", 0, "HTTP服务端口，覆盖配置文件")

	if err := flags.Parse(args); err != nil {
		return 2
	}

	if configPath == "" {
		for _, candidate := range []string{"config.json", "config.yaml"} {
			if _, err := os.Stat(candidate); err == nil {
				configPath = candidate
				break
			}
		}
	}

	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)

	cfg := config.GetConfig(configPath)
	if port > 0 {
		cfg.Port = port
	}

	dataCache := cache.Global
	dataCache.StartJanitor()
	defer dataCache.StopJanitor()

	dataFetcher := fetcher.New(cfg, dataCache)
	llmClient := llm.NewClient(cfg)
	stockAnalyzer := analyzer.New(cfg, dataFetcher, llmClient)
	hub := sse.NewHub()

	log.Println("=== 多市场股票分析服务 (stockweb) ===")
	if llmClient.Available() {
		log.Printf("[AI] 已配置提供商: %v (首选 %s)\n", cfg.ConfiguredAPIs(), cfg.ModelPreference)
	} else {
		log.Println("[AI] 未配置API密钥，AI分析将使用模板叙述")
	}
	for _, name := range []string{"a_stock", "hk_stock", "us_stock"} {
		if !cfg.MarketEnabled(name) {
			log.Printf("[市场] %s 已禁用\n", name)
		}
	}

	staticFS, err := stockweb.GetStaticFS()
	var sfs fs.FS
	if err != nil {
		log.Printf("[WARN] 无法加载前端资源: %v (仅API模式)\n", err)
	} else {
		sfs = staticFS
	}

	server := api.NewServer(cfg, stockAnalyzer, hub, dataCache, llmClient, sfs)
	go func() {
		if err := server.Start(); err != nil {
			log.Printf("[ERROR] HTTP服务启动失败: %v\n", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	log.Println("正在关闭服务...")
	_ = server.Shutdown()
	log.Println("服务已关闭")
	return 0
}
