package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"olif/internal/agents"
	"olif/internal/api"
	"olif/internal/basket"
	"olif/internal/bot"
	"olif/internal/catalog"
	"olif/internal/config"
	"olif/internal/database"
	"olif/internal/evaluation"
	"olif/internal/logger"
	"olif/internal/models/providers"
	"olif/internal/monitoring"
	"olif/internal/session"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

var (
	port        = flag.Int("port", 0, "API server port (overrides config)")
	metricsPort = flag.Int("metrics-port", 0, "Metrics server port (overrides config)")
	configFile  = flag.String("config", "configs/config.yaml", "Path to configuration file")
)

func main() {
	flag.Parse()

	cfg, err := config.Load(*configFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	if *port != 0 {
		cfg.Port = *port
	}
	if *metricsPort != 0 {
		cfg.MetricsConfig.Port = *metricsPort
	}

	if err := logger.Init(cfg.LogLevel, cfg.Dev); err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()
	log := logger.GetLogger()

	if !cfg.Dev {
		gin.SetMode(gin.ReleaseMode)
	}

	// Initialize context
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize database and catalog
	store, err := database.Open(cfg.Database.Driver, cfg.Database.URL)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer store.Close()

	if _, err := store.Seed(ctx, catalog.Restaurants); err != nil {
		log.Fatalf("Failed to seed catalog: %v", err)
	}
	cat, err := catalog.Load(ctx, store)
	if err != nil {
		log.Fatalf("Failed to load catalog: %v", err)
	}

	// Initialize LLM
	provider, err := providers.New(providers.Settings{
		Provider: cfg.LLM.Provider,
		Model:    cfg.LLM.Model,
		APIKey:   cfg.LLM.APIKey,
		BaseURL:  cfg.LLM.BaseURL,
		Timeout:  cfg.LLM.Timeout,
	})
	if err != nil {
		log.Fatalf("Failed to initialize LLM provider %q (available: %v): %v", cfg.LLM.Provider, providers.Available(), err)
	}
	concierge := agents.NewConcierge(provider, cat.ItemNames())
	modelName := fmt.Sprintf("%s/%s", provider.Name(), cfg.LLM.Model)

	// Initialize metrics collector
	collector := monitoring.NewCollector()
	evaluator := evaluation.NewEvaluator(cat, evaluation.NewMetricsCollector(collector.Registry()))

	sessions := session.NewManager(session.Config{
		Catalog:     cat,
		Extractor:   concierge,
		Chatter:     concierge,
		Recommender: concierge,
		Profile:     cfg.Assistant.RecommendationProfile,
		Receipts:    store,
		Metrics:     collector,
		Pricing: basket.Pricing{
			DeliveryFee: cfg.Basket.DeliveryFee,
			TaxRate:     decimal.NewFromFloat(cfg.Basket.TaxRate),
		},
		CheckoutDelay: cfg.Assistant.CheckoutDelay,
		TTL:           cfg.Session.TTL,
		Secret:        cfg.Session.JWTSecret,
	})
	go sessions.Run(ctx)

	if cfg.Telegram.Enabled {
		tg, err := bot.New(cfg.Telegram.Token, sessions)
		if err != nil {
			log.Fatalf("Failed to start telegram bot: %v", err)
		}
		go tg.Start(ctx)
	}

	server := api.NewServer(api.Options{
		Catalog:        cat,
		Sessions:       sessions,
		Evaluator:      evaluator,
		Extractor:      concierge,
		ModelName:      modelName,
		AllowedOrigins: cfg.AllowedOrigins,
	})

	// Start metrics server
	var metricsServer *http.Server
	if cfg.MetricsConfig.Enabled {
		metricsServer = startMetricsServer(cfg.MetricsConfig.Port, cfg.MetricsConfig.Path, collector)
	}

	httpServer := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Port),
		Handler: server.Router(),
	}

	// Graceful shutdown
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		log.Info("Shutting down servers...")

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()

		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			log.Errorf("API server shutdown error: %v", err)
		}
		if metricsServer != nil {
			if err := metricsServer.Shutdown(shutdownCtx); err != nil {
				log.Errorf("Metrics server shutdown error: %v", err)
			}
		}

		cancel()
	}()

	log.Infof("Starting API server on port %d with %s", cfg.Port, modelName)
	if err := httpServer.ListenAndServe(); err != http.ErrServerClosed {
		log.Fatalf("API server error: %v", err)
	}
}

func startMetricsServer(port int, path string, collector *monitoring.Collector) *http.Server {
	metricsRouter := gin.New()
	metricsRouter.Use(gin.Recovery())
	metricsRouter.GET(path, gin.WrapH(collector.Handler()))

	metricsServer := &http.Server{
		Addr:    fmt.Sprintf(":%d", port),
		Handler: metricsRouter,
	}

	go func() {
		logger.GetLogger().Infof("Starting metrics server on port %d", port)
		if err := metricsServer.ListenAndServe(); err != http.ErrServerClosed {
			logger.GetLogger().Errorf("Metrics server error: %v", err)
		}
	}()
	return metricsServer
}
