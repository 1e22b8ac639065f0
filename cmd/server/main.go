package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/yungbote/tutorbridge-backend/internal/clients/github"
	redisclient "github.com/yungbote/tutorbridge-backend/internal/clients/redis"
	"github.com/yungbote/tutorbridge-backend/internal/handlers"
	"github.com/yungbote/tutorbridge-backend/internal/observability"
	"github.com/yungbote/tutorbridge-backend/internal/platform/envutil"
	"github.com/yungbote/tutorbridge-backend/internal/platform/logger"
	"github.com/yungbote/tutorbridge-backend/internal/server"
	"github.com/yungbote/tutorbridge-backend/internal/services"
)

func main() {
	// Logger
	logMode := os.Getenv("LOG_MODE")
	if logMode == "" {
		logMode = "development"
	}
	log, err := logger.New(logMode)
	if err != nil {
		fmt.Printf("Failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	// Tracing
	serviceName := envutil.String("SERVICE_NAME", "tutorbridge-backend")
	shutdownOtel := observability.InitOTel(context.Background(), log, observability.OtelConfig{
		ServiceName: serviceName,
		Environment: envutil.String("DEPLOY_ENV", "development"),
		Version:     envutil.String("SERVICE_VERSION", "dev"),
	})
	if shutdownOtel != nil {
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = shutdownOtel(ctx)
		}()
	}

	// Clients
	log.Info("Setting up clients from main...")
	contentRepo, err := github.NewContentRepo(log)
	if err != nil {
		log.Error("Could not init GithubContentRepo", "error", err)
		os.Exit(1)
	}
	modelCache, err := redisclient.NewModelCache(log)
	if err != nil {
		log.Warn("Could not init RedisModelCache (serving without shared cache)", "error", err)
		modelCache = nil
	}

	// Services
	log.Info("Setting up services from main...")
	contentService, err := services.NewContentService(log, contentRepo, modelCache)
	if err != nil {
		log.Error("Could not init ContentService", "error", err)
		os.Exit(1)
	}

	// Warm the model before taking traffic; a broken corpus still serves,
	// the findings just come with it.
	warmCtx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	if _, err := contentService.Refresh(warmCtx); err != nil {
		log.Warn("Initial content compile failed (serving lazily)", "error", err)
	}
	cancel()

	// Handlers + router
	contentHandler := handlers.NewContentHandler(log, contentService)
	router := server.NewRouter(server.RouterConfig{
		ServiceName:    serviceName,
		ContentHandler: contentHandler,
	})

	addr := envutil.String("SERVER_ADDR", ":8080")
	log.Info("Starting server", "addr", addr)
	if err := router.Run(addr); err != nil {
		log.Fatal("Server exited", "error", err)
	}
}
