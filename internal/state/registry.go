package state

import (
	"context"
	"sync"
	"time"

	"discovery_backend/internal/domain"
	"discovery_backend/internal/repository"
)

// Registry hands out one Container per user, loading persisted state on first
// access. Within one backend instance there is at most one container (and so
// one writer) per user.
type Registry struct {
	mu         sync.Mutex
	containers map[int64]*Container
	policy     domain.RewardPolicy
	store      repository.StateStore
}

func NewRegistry(policy domain.RewardPolicy, store repository.StateStore) *Registry {
	return &Registry{
		containers: make(map[int64]*Container),
		policy:     policy,
		store:      store,
	}
}

// Get returns the user's container, restoring persisted blobs on first access.
// Concurrent first accesses share one container: whichever caller wins the
// init gate runs the load, the rest block on it before touching state.
func (r *Registry) Get(ctx context.Context, userID int64) *Container {
	r.mu.Lock()
	c, ok := r.containers[userID]
	if !ok {
		c = newContainer(userID, r.policy, r.store)
		r.containers[userID] = c
	}
	r.mu.Unlock()

	c.init.Do(func() {
		c.load(ctx, time.Now())
	})
	return c
}

// Provision creates fresh state for a newly registered account, replacing any
// stale blobs under the same user id. The container is fully provisioned
// before it is published.
func (r *Registry) Provision(ctx context.Context, userID int64) *Container {
	c := newContainer(userID, r.policy, r.store)
	c.init.Do(func() {
		c.provision(ctx, time.Now())
	})

	r.mu.Lock()
	r.containers[userID] = c
	r.mu.Unlock()
	return c
}

// Drop discards the container and deletes its persisted records (logout).
func (r *Registry) Drop(ctx context.Context, userID int64) error {
	r.mu.Lock()
	delete(r.containers, userID)
	r.mu.Unlock()

	return r.store.Delete(ctx, userID,
		repository.RecordUser,
		repository.RecordWallet,
		repository.RecordDailyStreak,
		repository.RecordFreeMinutes,
		repository.RecordOnboarding,
	)
}
