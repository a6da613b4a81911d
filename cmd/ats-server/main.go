package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"ats-agent-go/internal/api/handler"
	"ats-agent-go/internal/api/router"
	"ats-agent-go/internal/config"
	appLogger "ats-agent-go/internal/logger"
	"ats-agent-go/internal/parser"
	"ats-agent-go/internal/storage"
	"ats-agent-go/internal/tracing"

	"github.com/cloudwego/hertz/pkg/app/server"
	hertzconfig "github.com/cloudwego/hertz/pkg/common/config"
	glog "github.com/cloudwego/hertz/pkg/common/hlog"
	hertzadapter "github.com/hertz-contrib/logger/zerolog"
	hertztracing "github.com/hertz-contrib/obs-opentelemetry/tracing"
	"github.com/spf13/pflag"
)

func main() {
	var configPath string
	var sampleConfigPath string
	pflag.StringVarP(&configPath, "config", "c", "internal/config/config.yaml", "配置文件路径")
	pflag.StringVar(&sampleConfigPath, "create-sample-config", "", "生成示例配置文件后退出")
	pflag.Parse()

	if sampleConfigPath != "" {
		if err := config.CreateSampleConfig(sampleConfigPath); err != nil {
			appLogger.Fatal().Err(err).Str("path", sampleConfigPath).Msg("生成示例配置失败")
		}
		appLogger.Info().Str("path", sampleConfigPath).Msg("示例配置已生成")
		return
	}

	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		appLogger.Fatal().Err(err).Msg("加载配置失败")
	}

	appLogger.Init(appLogger.Config{
		Level:        cfg.Logger.Level,
		Format:       cfg.Logger.Format,
		TimeFormat:   cfg.Logger.TimeFormat,
		ReportCaller: cfg.Logger.ReportCaller,
	})
	// Hertz 自身的日志也走同一个zerolog实例
	glog.SetLogger(hertzadapter.From(appLogger.Logger))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	shutdownTracing, err := tracing.InitProvider(ctx, cfg.Tracing)
	if err != nil {
		appLogger.Fatal().Err(err).Msg("初始化链路追踪失败")
	}
	defer func() {
		shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancelShutdown()
		if err := shutdownTracing(shutdownCtx); err != nil {
			appLogger.Warn().Err(err).Msg("关闭链路追踪失败")
		}
	}()

	storageManager, err := storage.NewStorage(ctx, cfg)
	if err != nil {
		appLogger.Fatal().Err(err).Msg("初始化存储失败")
	}
	defer storageManager.Close()
	appLogger.Info().Msg("存储服务初始化成功")

	parserOptions := []parser.ParserOption{
		parser.WithEmailDenylist(cfg.Parser.EmailDenylist),
		parser.WithRawTextLimit(cfg.Parser.RawTextLimit),
	}
	if len(cfg.Parser.SkillTaxonomy) > 0 {
		parserOptions = append(parserOptions, parser.WithSkillTaxonomy(cfg.Parser.SkillTaxonomy))
	}
	if cfg.Parser.NLPServiceURL != "" {
		nlpTimeout := time.Duration(cfg.Parser.NLPTimeoutSeconds) * time.Second
		parserOptions = append(parserOptions,
			parser.WithEntityAnnotator(parser.NewHTTPEntityAnnotator(cfg.Parser.NLPServiceURL, nlpTimeout)))
		appLogger.Info().Str("url", cfg.Parser.NLPServiceURL).Msg("NLP实体标注服务已接入")
	}
	profileParser, err := parser.NewProfileParser(ctx, parserOptions...)
	if err != nil {
		appLogger.Fatal().Err(err).Msg("初始化简历解析器失败")
	}
	appLogger.Info().Msg("简历解析器初始化成功")

	handlers := &router.Handlers{
		Resume:    handler.NewResumeHandler(cfg, storageManager, profileParser),
		Candidate: handler.NewCandidateHandler(storageManager),
		Job:       handler.NewJobHandler(storageManager),
		Interview: handler.NewInterviewHandler(storageManager),
		Match:     handler.NewMatchHandler(storageManager),
		Dashboard: handler.NewDashboardHandler(storageManager),
	}

	workers := cfg.RabbitMQ.ConsumerWorkers
	appLogger.Info().Int("workers", workers).Msg("启动简历解析消费者")
	consumerStops := make([]chan<- struct{}, 0, workers)
	for i := 0; i < workers; i++ {
		stop, err := handlers.Resume.StartParseConsumer(ctx)
		if err != nil {
			appLogger.Fatal().Err(err).Msg("启动简历解析消费者失败")
		}
		consumerStops = append(consumerStops, stop)
	}

	serverOptions := []hertzconfig.Option{
		server.WithHostPorts(cfg.Server.Address),
		server.WithHandleMethodNotAllowed(true),
	}
	var h *server.Hertz
	if cfg.Tracing.Enabled {
		tracer, tracerCfg := hertztracing.NewServerTracer()
		serverOptions = append(serverOptions, tracer)
		h = server.New(serverOptions...)
		h.Use(hertztracing.ServerMiddleware(tracerCfg))
	} else {
		h = server.New(serverOptions...)
	}

	router.RegisterRoutes(h, cfg, handlers)
	appLogger.Info().Str("address", cfg.Server.Address).Msg("HTTP服务器启动中")

	go func() {
		if err := h.Run(); err != nil {
			appLogger.Fatal().Err(err).Msg("启动HTTP服务器失败")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	appLogger.Info().Msg("接收到终止信号，正在优雅退出")

	for _, stop := range consumerStops {
		close(stop)
	}
	cancel()

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()
	if err := h.Shutdown(shutdownCtx); err != nil {
		appLogger.Error().Err(err).Msg("服务器关闭失败")
	}
	appLogger.Info().Msg("优雅退出完成")
}
