package handlers

import (
	"discovery_backend/internal/analytics"
	"discovery_backend/internal/domain"
	"discovery_backend/internal/repository"
	"discovery_backend/internal/service"
	"discovery_backend/internal/state"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Handler struct {
	DB       *pgxpool.Pool
	Profiles *repository.ProfileRepository
	History  *repository.CallHistoryRepository
	Registry *state.Registry
	Rewards  *service.RewardService
	Calls    *service.CallManager
	Tracker  *analytics.Tracker
	Policy   domain.RewardPolicy
}

func NewHandler(db *pgxpool.Pool, registry *state.Registry, rewards *service.RewardService,
	calls *service.CallManager, tracker *analytics.Tracker, policy domain.RewardPolicy) *Handler {
	return &Handler{
		DB:       db,
		Profiles: repository.NewProfileRepository(db),
		History:  repository.NewCallHistoryRepository(db),
		Registry: registry,
		Rewards:  rewards,
		Calls:    calls,
		Tracker:  tracker,
		Policy:   policy,
	}
}

// getUserID extracts the authenticated user id set by the JWT middleware.
func getUserID(c *gin.Context) (int64, bool) {
	uidVal, ok := c.Get("user_id")
	if !ok {
		return 0, false
	}
	switch v := uidVal.(type) {
	case int64:
		return v, true
	case float64:
		return int64(v), true
	default:
		return 0, false
	}
}
