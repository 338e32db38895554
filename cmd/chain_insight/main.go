package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"chain_insight/internal/app/service"
	"chain_insight/internal/client"
	"chain_insight/internal/infrastructure/configloader"
	"chain_insight/internal/infrastructure/httpclient"
	networkdefinition "chain_insight/internal/infrastructure/network/definition"
	"chain_insight/internal/infrastructure/restapi"
	"chain_insight/internal/pkg/logger"
	"chain_insight/internal/pkg/metrics"
	"chain_insight/internal/pkg/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"
)

func main() {
	cfgPath := utils.GetEnv("CONFIG_PATH", "config/config.yml")
	cfg, err := configloader.Load(cfgPath)
	if err != nil {
		logrus.Fatalf("Failed to load configuration: %v", err)
	}

	zapLogger := logger.NewZapLogger(cfg.Logging.Level, cfg.Logging.Encoding)
	defer func() { _ = zapLogger.Sync() }()
	logger.InitFromZap(zapLogger)
	zapLogger.Info("Configuration loaded", zap.String("path", cfgPath))

	metrics.MustRegisterMetrics()

	registry, err := networkdefinition.NewRegistry(
		logger.NewComponentLogger("NetworkRegistry"),
		cfg.NetworkProfiles(),
		cfg.DefaultNetwork,
	)
	if err != nil {
		zapLogger.Fatal("Failed to build network registry", zap.Error(err))
	}

	explorerTimeout := time.Duration(cfg.Explorer.RequestTimeoutMillis) * time.Millisecond
	explorerTransport := httpclient.NewTransport(httpclient.Options{
		Source:        configloader.ExplorerSourceID,
		Timeout:       explorerTimeout,
		RatePerSecond: cfg.Explorer.RateLimitPerSecond,
		Burst:         cfg.Explorer.RateLimitBurst,
	}, zapLogger)
	etherscanClient := client.NewEtherscanClient(explorerTransport, cfg.Explorer.TxListLimit, zapLogger)
	_, explorerConfigured := cfg.CredentialFor(configloader.ExplorerSourceID)
	if !explorerConfigured {
		zapLogger.Warn("No explorer API key supplied; requests will run against the keyless rate limit")
	}

	indexerTimeout := time.Duration(cfg.Indexer.RequestTimeoutMillis) * time.Millisecond
	indexerTransport := httpclient.NewTransport(httpclient.Options{
		Source:        configloader.IndexerSourceID,
		Timeout:       indexerTimeout,
		RatePerSecond: cfg.Indexer.RateLimitPerSecond,
		Burst:         cfg.Indexer.RateLimitBurst,
	}, zapLogger)
	indexerKey, hasIndexerKey := cfg.CredentialFor(configloader.IndexerSourceID)
	theGraphClient := client.NewTheGraphClient(indexerTransport, client.TheGraphOptions{
		BaseURL:   cfg.Indexer.BaseURL,
		APIKey:    indexerKey,
		HasAPIKey: hasIndexerKey,
		Subgraphs: cfg.Indexer.Subgraphs,
	}, zapLogger)
	if ok, reason := theGraphClient.Configured(); !ok {
		zapLogger.Warn("Indexer enrichment disabled", zap.String("reason", reason))
	}

	explorerService := service.NewExplorerService(
		registry,
		etherscanClient,
		theGraphClient,
		logger.NewComponentLogger("ExplorerService"),
		service.ExplorerOptions{
			ExplorerTimeout:    explorerTimeout,
			EnrichmentTimeout:  indexerTimeout,
			SwapLimit:          cfg.Indexer.SwapLimit,
			ExplorerConfigured: explorerConfigured,
		},
	)
	healthService := service.NewHealthService(
		registry,
		etherscanClient,
		theGraphClient,
		logger.NewComponentLogger("HealthService"),
		time.Duration(cfg.Health.CacheTTLSeconds)*time.Second,
		time.Duration(cfg.Health.ProbeTimeoutMillis)*time.Millisecond,
	)

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowAllOrigins = true
	corsConfig.AllowMethods = []string{"GET", "POST", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Accept"}

	handler := restapi.NewExplorerHandler(explorerService, healthService, logger.NewComponentLogger("RestAPI"))
	router := restapi.SetupRouter(handler,
		cors.New(corsConfig),
		utils.ZapLoggerMiddleware(zapLogger),
		gin.Recovery(),
	)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	router.StaticFile("/docs/swagger.yaml", "./docs/swagger.yaml")
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, ginSwagger.URL("/docs/swagger.yaml")))

	srv := &http.Server{
		Addr:         cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	go func() {
		zapLogger.Info("Server starting",
			zap.String("addr", cfg.Server.Port),
			zap.String("network", registry.Active().ID),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zapLogger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	zapLogger.Info("Shutting down server...")

	ctxShutdown, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancelShutdown()

	if err := srv.Shutdown(ctxShutdown); err != nil {
		zapLogger.Fatal("Server forced to shutdown", zap.Error(err))
	}

	zapLogger.Info("Server exiting")
}
