package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"

	"github.com/sevengen/site-backend/internal/api"
	"github.com/sevengen/site-backend/internal/config"
	"github.com/sevengen/site-backend/internal/core"
	"github.com/sevengen/site-backend/internal/db"
	"github.com/sevengen/site-backend/internal/firebase"
	"github.com/sevengen/site-backend/internal/metrics"
	"github.com/sevengen/site-backend/internal/middleware"
	"github.com/sevengen/site-backend/pkg/cache"
	"github.com/sevengen/site-backend/pkg/messagequeue"
)

func main() {
	appConfig, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("CRITICAL_ERROR: Failed to load application configuration: %v", err)
	}

	logger, err := newLogger(appConfig)
	if err != nil {
		log.Fatalf("CRITICAL_ERROR: Failed to initialize Zap logger: %v", err)
	}
	defer logger.Sync()

	if err := run(appConfig, logger); err != nil {
		logger.Fatal("Server stopped with error", zap.Error(err))
	}
	logger.Info("Server exiting gracefully.")
}

func newLogger(cfg *config.Config) (*zap.Logger, error) {
	if cfg.IsRelease() {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}

func run(appConfig *config.Config, logger *zap.Logger) error {
	initCtx, cancelInit := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancelInit()

	// Firebase Admin SDK, Firestore and the identity provider.
	app, err := firebase.InitFirebase(initCtx, firebase.Credentials{
		ProjectID:          appConfig.FirebaseProjectID,
		CredentialsFile:    appConfig.GoogleApplicationCredentials,
		ServiceAccountJSON: appConfig.FirebaseServiceAccountJSONBase64,
	})
	if err != nil {
		return err
	}
	store, err := db.OpenFirestore(initCtx, app)
	if err != nil {
		return err
	}
	defer store.Close()

	provider, err := firebase.NewProvider(initCtx, app, appConfig.FirebaseWebAPIKey)
	if err != nil {
		return err
	}
	if appConfig.FirebaseWebAPIKey == "" {
		logger.Warn("FIREBASE_WEB_API_KEY is not set; password sign-in is disabled")
	}
	logger.Info("Firebase Admin SDK (Firestore, Auth) initialized")

	// Optional content cache.
	var contentCache cache.Cache
	if appConfig.RedisAddr != "" {
		redisCache, err := cache.NewRedisCache(initCtx, cache.NewRedisCacheConfig{
			Address:  appConfig.RedisAddr,
			Password: appConfig.RedisPassword,
			DB:       appConfig.RedisDB,
		}, logger)
		if err != nil {
			return err
		}
		defer redisCache.Close()
		contentCache = redisCache
		logger.Info("Content cache enabled", zap.String("redisAddr", appConfig.RedisAddr))
	}

	// Optional quote event publishing.
	publisher := core.NoopPublisher
	if appConfig.AMQPURL != "" {
		queue, err := messagequeue.NewRabbitMQService(messagequeue.NewRabbitMQServiceConfig{URL: appConfig.AMQPURL}, logger)
		if err != nil {
			return err
		}
		defer queue.Close()
		publisher = core.NewQueuePublisher(queue, appConfig.QuoteEventsQueue)
		logger.Info("Quote events enabled", zap.String("queue", appConfig.QuoteEventsQueue))
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	collector := metrics.NewCollector(registry)

	validator, err := core.NewValidator(core.QuoteRules{
		NameMinLength:    appConfig.QuoteNameMinLength,
		MessageRequired:  appConfig.QuoteMessageRequired,
		MessageMinLength: appConfig.QuoteMessageMinLength,
	})
	if err != nil {
		return err
	}

	userRepo := db.NewUserRepository(store)
	roles := core.NewRoleResolver(userRepo, collector, logger)
	auditService := core.NewAuditService(db.NewAuditRepository(store))
	quoteService := core.NewQuoteService(db.NewQuoteRepository(store), roles, auditService, publisher, validator, collector, logger)
	// Runs before the store and queue defers so in-flight submissions can still persist.
	defer func() {
		drainCtx, cancelDrain := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancelDrain()
		if err := quoteService.Drain(drainCtx); err != nil {
			logger.Warn("Quote submissions still running at shutdown", zap.Error(err))
		}
	}()
	contentService, err := core.NewContentService(db.NewContentRepository(store), roles, auditService, validator, contentCache, appConfig.ContentCacheTTL, collector, logger)
	if err != nil {
		return err
	}
	accountService := core.NewAccountService(provider, userRepo, roles, validator, logger)

	if appConfig.SeedContent {
		if err := contentService.EnsureSeeded(initCtx); err != nil {
			logger.Warn("Failed to seed homepage content", zap.Error(err))
		}
	}

	if appConfig.IsRelease() {
		gin.SetMode(gin.ReleaseMode)
	} else {
		gin.SetMode(gin.DebugMode)
	}
	router := gin.New()
	router.Use(middleware.RequestLogger(logger))
	router.Use(middleware.RecoveryMiddleware(logger))
	router.Use(middleware.RequestMetrics(collector))
	router.Use(middleware.CORSMiddleware(appConfig))

	quoteLimiter := middleware.NewRateLimiter(
		middleware.PerMinute(appConfig.QuoteRatePerMinute, appConfig.QuoteRateBurst),
		collector,
		logger,
	)
	defer quoteLimiter.Stop()

	api.SetupRoutes(router, api.RouterDeps{
		Logger:         logger,
		Auth:           middleware.NewAuthMiddleware(provider, logger),
		Roles:          roles,
		Accounts:       accountService,
		Quotes:         quoteService,
		Content:        contentService,
		QuoteLimiter:   quoteLimiter,
		MetricsHandler: metrics.Handler(registry),
	})

	serverAddr := fmt.Sprintf(":%s", appConfig.Port)
	httpServer := &http.Server{
		Addr:              serverAddr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("Starting HTTP server", zap.String("address", serverAddr), zap.String("ginMode", gin.Mode()))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErr:
		return fmt.Errorf("http server: %w", err)
	case sig := <-quit:
		logger.Info("Received shutdown signal", zap.String("signal", sig.String()))
	}

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelShutdown()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown: %w", err)
	}
	return nil
}
