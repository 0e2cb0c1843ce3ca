package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"discovery_backend/internal/analytics"
	"discovery_backend/internal/config"
	"discovery_backend/internal/db"
	httpServer "discovery_backend/internal/http"
	"discovery_backend/internal/http/middleware"
	"discovery_backend/internal/logger"
	"discovery_backend/internal/repository"
	"discovery_backend/internal/service"
	"discovery_backend/internal/state"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const version = "1.0.0"

func main() {
	cfg := config.Load()
	logger.Init(cfg.LogLevel, cfg.LogJSON)
	service.InitJWT(cfg.JWTSecret)

	dbPool := db.ConnectPostgres(cfg.DatabaseURL)
	defer dbPool.Close()

	rdb := db.ConnectRedis(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	middleware.InitRedisRateLimiter(rdb)

	var store repository.StateStore
	if rdb != nil {
		store = repository.NewRedisStateStore(rdb)
	} else {
		store = repository.NewMemoryStateStore()
	}

	tracker := analytics.NewTracker(1024)
	defer tracker.Close()

	registry := state.NewRegistry(cfg.Policy, store)
	rewards := service.NewRewardService(registry, tracker, cfg.Policy)

	profiles := repository.NewProfileRepository(dbPool)
	history := repository.NewCallHistoryRepository(dbPool)
	calls := service.NewCallManager(registry, history, profiles, tracker, cfg.Policy)

	r := gin.Default()

	// CORS for app webviews on other origins
	r.Use(func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")
		if origin != "" {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
			c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
			c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
			c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		}
		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}
		c.Next()
	})

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	httpServer.RegisterRoutes(r, dbPool, rdb, cfg, registry, rewards, calls, tracker, version)

	srv := &http.Server{
		Addr:    ":" + cfg.AppPort,
		Handler: r,
	}

	go func() {
		logger.Info("server started", "port", cfg.AppPort)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("listen failed", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatal("server forced to shutdown", "error", err)
	}

	logger.Info("server exited")
}
