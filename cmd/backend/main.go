// Package main provides the entry point for the ShrinkIt URL Shortener service.
//
//	@title			ShrinkIt URL Shortener API
//	@version		1.0.0
//	@description	Link shortener with per-link analytics, QR codes and title suggestions.
//
//	@contact.name	ShrinkIt Support
//
//	@license.name	MIT
//	@license.url	https://opensource.org/licenses/MIT
//
//	@host		localhost:5001
//	@BasePath	/
//
//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				JWT Authorization header. Format: "Bearer {token}"
package main

import (
	"ShrinkIt-Backend/internal/analytics"
	"ShrinkIt-Backend/internal/auth"
	"ShrinkIt-Backend/internal/cache"
	"ShrinkIt-Backend/internal/config"
	"ShrinkIt-Backend/internal/database"
	httpHandler "ShrinkIt-Backend/internal/handler/http"
	"ShrinkIt-Backend/internal/repository"
	"ShrinkIt-Backend/internal/repository/memory"
	"ShrinkIt-Backend/internal/repository/postgres"
	"ShrinkIt-Backend/internal/service"
	"ShrinkIt-Backend/pkg/geoip"
	"ShrinkIt-Backend/pkg/logger"
	"ShrinkIt-Backend/pkg/titlegen"
	"ShrinkIt-Backend/pkg/useragent"
	"context"
	"errors"
	lg "log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	_ "ShrinkIt-Backend/docs" // Import swagger docs
)

func main() {
	cfg := config.MustLoad()
	log := logger.New(cfg.Env, cfg.Log.File)
	defer func() {
		if err := log.Sync(); err != nil {
			lg.Printf("ERROR: failed to sync zap logger: %v\n", err)
		}
	}()

	log.Info("starting ShrinkIt service", zap.String("env", cfg.Env), zap.String("storage", cfg.Storage))

	storage, db := mustStorage(cfg, log)
	if db != nil {
		defer func() {
			if err := database.Close(db, log); err != nil {
				log.Error("failed to close database connection", zap.Error(err))
			}
		}()
	}

	// Redis is optional; without an address every lookup goes to storage
	var linkCache service.LinkCache
	redisClient, err := cache.NewClient(&cfg.Cache)
	if err != nil {
		log.Warn("redis unavailable, link cache disabled", zap.Error(err))
	} else if redisClient != nil {
		defer redisClient.Close()
		linkCache = cache.New(redisClient, cfg.Cache.TTL, log)
		log.Info("link cache enabled", zap.String("address", cfg.Cache.Address), zap.Duration("ttl", cfg.Cache.TTL))
	}

	// Initialize User-Agent parser
	devices, err := useragent.NewParser("", log)
	if err != nil {
		log.Fatal("failed to initialize User-Agent parser", zap.Error(err))
	}

	recorder := analytics.NewRecorder(storage, geoip.New(cfg.Geo.Endpoint, cfg.Geo.Timeout), devices, log, analytics.RecorderConfig{
		Workers:         cfg.ClickRecorder.Workers,
		BufferSize:      cfg.ClickRecorder.BufferSize,
		WriteTimeout:    cfg.ClickRecorder.WriteTimeout,
		GeoTimeout:      cfg.Geo.Timeout,
		ShutdownTimeout: cfg.ClickRecorder.ShutdownTimeout,
		SimulateLocalIP: cfg.Geo.SimulateLocalIP,
		SentinelIP:      cfg.Geo.SentinelIP,
	})
	if err := recorder.Start(); err != nil {
		log.Fatal("failed to start click recorder", zap.Error(err))
	}

	jwtService := auth.NewJWTService(&cfg.Auth)
	passwordService := auth.NewPasswordService(cfg.Auth.BcryptCost)
	titles := titlegen.New(titlegen.Config{
		APIKey:   cfg.Title.APIKey,
		Endpoint: cfg.Title.Endpoint,
		Model:    cfg.Title.Model,
		Timeout:  cfg.Title.Timeout,
	}, log)

	allocator := service.NewAllocator(storage, cfg.URLShortener.CodeLength)
	links := service.NewLinkService(storage, allocator, linkCache, passwordService, titles, cfg.URLShortener.BaseURL, log)
	resolver := service.NewResolver(storage, linkCache, log)

	apiServer := httpHandler.NewServer(cfg, httpHandler.Dependencies{
		Storage:   storage,
		Links:     links,
		Resolver:  resolver,
		Clicks:    recorder,
		Stats:     recorder,
		JWT:       jwtService,
		Passwords: passwordService,
	}, log)

	server := &http.Server{
		Addr:         cfg.HTTPServer.Address,
		Handler:      apiServer.SetupRoutes(),
		ReadTimeout:  cfg.HTTPServer.ReadTimeout,
		WriteTimeout: cfg.HTTPServer.WriteTimeout,
		IdleTimeout:  cfg.HTTPServer.IdleTimeout,
	}

	log.Info("starting HTTP server", zap.String("address", cfg.HTTPServer.Address))

	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	// Wait for shutdown signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("shutting down ShrinkIt service...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("failed to shutdown HTTP server", zap.Error(err))
	} else {
		log.Info("HTTP server stopped")
	}

	// Redirects are finished, drain the clicks they queued
	if err := recorder.Stop(); err != nil {
		log.Error("failed to stop click recorder", zap.Error(err))
	}
}

// mustStorage выбирает хранилище по конфигурации. Для postgres также
// возвращает соединение, чтобы закрыть его при остановке.
func mustStorage(cfg *config.Config, log *zap.Logger) (repository.Storage, *gorm.DB) {
	if cfg.Storage == config.StorageMemory {
		log.Warn("using in-memory storage, data is lost on restart")
		return memory.New(), nil
	}

	db, err := database.NewConnection(&cfg.Database, cfg.Env, log)
	if err != nil {
		log.Fatal("failed to connect to database", zap.Error(err))
	}

	if cfg.Database.AutoMigrate {
		log.Info("running database migrations (auto_migrate: true)")
		if err := database.AutoMigrate(db, log); err != nil {
			log.Fatal("failed to run database migrations", zap.Error(err))
		}
	} else {
		log.Info("skipping database migrations (auto_migrate: false)")
	}

	return postgres.New(db, log), db
}
