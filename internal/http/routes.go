package http

import (
	"time"

	"discovery_backend/internal/analytics"
	"discovery_backend/internal/config"
	"discovery_backend/internal/http/handlers"
	"discovery_backend/internal/http/middleware"
	"discovery_backend/internal/service"
	"discovery_backend/internal/state"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	redis "github.com/redis/go-redis/v9"
)

// RegisterRoutes wires the API surface: auth, profile/state reads, reward
// claims, discovery, call lifecycle and the live call websocket.
func RegisterRoutes(r *gin.Engine, db *pgxpool.Pool, rdb *redis.Client, cfg *config.Config,
	registry *state.Registry, rewards *service.RewardService, calls *service.CallManager,
	tracker *analytics.Tracker, version string) {

	h := handlers.NewHandler(db, registry, rewards, calls, tracker, cfg.Policy)
	healthHandler := handlers.NewHealthHandler(db, rdb, version)

	apiWindow := time.Duration(cfg.APIRateWindow) * time.Second

	// Health checks (no rate limiting)
	r.GET("/health", healthHandler.Health)
	r.GET("/healthz", healthHandler.Liveness)
	r.GET("/readyz", healthHandler.Readiness)

	v1 := r.Group("/api/v1")
	v1.Use(middleware.RedisRateLimit(cfg.APIRateLimit, apiWindow))

	// Auth
	v1.POST("/auth", middleware.RedisRateLimit(cfg.AuthRateLimit, apiWindow), h.Auth)
	v1.POST("/logout", middleware.JWT(), h.Logout)

	// Profile & session state
	v1.GET("/me", middleware.JWT(), h.Me)
	v1.POST("/onboarding/seen", middleware.JWT(), h.MarkOnboardingSeen)
	v1.GET("/wallet", middleware.JWT(), h.Wallet)
	v1.GET("/free-minutes", middleware.JWT(), h.FreeMinutes)

	// Earning
	v1.POST("/rewards/ad/start", middleware.JWT(), h.StartAd)
	v1.POST("/rewards/ad/complete", middleware.JWT(), h.CompleteAd)
	v1.GET("/streak", middleware.JWT(), h.Streak)
	v1.POST("/streak/claim", middleware.JWT(), h.ClaimStreak)

	// Discovery
	v1.GET("/discover", middleware.JWT(), h.Discover)

	// Call lifecycle
	v1.POST("/calls", middleware.JWT(), h.StartCall)
	v1.GET("/calls/active", middleware.JWT(), h.ActiveCall)
	v1.POST("/calls/switch-paid", middleware.JWT(), h.SwitchToPaid)
	v1.POST("/calls/end", middleware.JWT(), h.EndCall)
	v1.GET("/calls/history", middleware.JWT(), h.CallHistory)
	v1.POST("/calls/:id/rating", middleware.JWT(), h.RateCall)

	// Admin
	v1.GET("/admin/stats", middleware.JWT(), h.AdminStats)

	// Live call events
	r.GET("/ws/call", middleware.JWT(), h.CallStream)
}
