package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/ballpark-labs/preview-service/internal/api/handlers"
	"github.com/ballpark-labs/preview-service/internal/config"
	"github.com/ballpark-labs/preview-service/internal/llm"
	"github.com/ballpark-labs/preview-service/internal/logger"
	"github.com/ballpark-labs/preview-service/internal/orchestrator"
	"github.com/ballpark-labs/preview-service/internal/resilience"
	"github.com/ballpark-labs/preview-service/internal/statsapi"
	"github.com/ballpark-labs/preview-service/internal/warmer"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		logrus.Fatalf("Failed to load config: %v", err)
	}

	log := logger.InitLogger(cfg.LogLevel, cfg.IsDevelopment())
	log.WithFields(logrus.Fields{
		"environment": cfg.Env,
		"port":        cfg.Port,
		"team":        cfg.SelfTeamName,
	}).Info("Starting preview service")

	if cfg.IsDevelopment() {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	exec := resilience.NewExecutor(resilience.Settings{
		RetryAttempts:    cfg.RetryAttempts,
		RetryBaseDelay:   cfg.RetryBaseDelay,
		BreakerThreshold: cfg.BreakerThreshold,
		ResetWindow:      cfg.BreakerResetWindow,
	}, []string{statsapi.Dependency, llm.Dependency}, log)

	gateway := statsapi.NewGateway(statsapi.Config{
		BaseURL:  cfg.StatsAPIBaseURL,
		Timeout:  cfg.StatsAPITimeout,
		CacheTTL: cfg.StatsAPICacheTTL,
	}, exec, log)

	llmClient, err := llm.NewClient(llm.Config{
		Provider:    cfg.LLMProvider,
		Model:       cfg.LLMModel,
		APIKey:      cfg.LLMAPIKey,
		BaseURL:     cfg.LLMBaseURL,
		Timeout:     cfg.LLMTimeout,
		MaxTokens:   cfg.LLMMaxTokens,
		Temperature: cfg.LLMTemperature,
	}, exec, log)
	if err != nil {
		log.Fatalf("Failed to create completion client: %v", err)
	}

	orch := orchestrator.New(orchestrator.Config{
		SelfTeamID:     cfg.SelfTeamID,
		SelfTeamName:   cfg.SelfTeamName,
		ResultCacheTTL: cfg.ResultCacheTTL,
	}, gateway, llmClient, log)

	if cfg.WarmerEnabled {
		previewWarmer := warmer.New(orch, cfg.WarmerSchedule, log)
		if err := previewWarmer.Start(); err != nil {
			log.Fatalf("Failed to start preview warmer: %v", err)
		}
		defer previewWarmer.Stop()
	}

	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery())

	previewHandler := handlers.NewPreviewHandler(orch, log)
	healthHandler := handlers.NewHealthHandler(exec, llmClient, gateway, log)

	apiV1 := router.Group("/api/v1")
	{
		apiV1.GET("/preview", previewHandler.GetPreview)
		apiV1.GET("/analysis/:kind", previewHandler.GetAnalysis)
		apiV1.GET("/usage", healthHandler.GetUsage)
	}

	router.GET("/health", healthHandler.GetHealth)
	router.HEAD("/health", healthHandler.GetHealth)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Port),
		Handler: router,
	}

	go func() {
		log.WithField("port", cfg.Port).Info("Preview service started")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down preview service...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("Preview service forced to shutdown: %v", err)
	}

	log.Info("Preview service exited")
}
