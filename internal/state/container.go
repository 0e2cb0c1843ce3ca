package state

import (
	"context"
	"sync"
	"time"

	"discovery_backend/internal/domain"
	"discovery_backend/internal/logger"
	"discovery_backend/internal/repository"
)

// Container owns one user's session-wide mutable state: wallet, free-minutes
// allowance, daily streak and onboarding flag. All mutations go through typed
// commands under a single lock, so per-user writes are totally ordered. Every
// mutation is persisted whole-blob, best-effort: a store failure is logged and
// the in-memory state stays authoritative for the running session.
type Container struct {
	// init gates first use: accessors must not run before provision/load has
	// populated the state pointers.
	init sync.Once

	mu     sync.Mutex
	userID int64
	policy domain.RewardPolicy
	store  repository.StateStore

	wallet            *domain.Wallet
	freeMinutes       *domain.FreeMinutes
	streak            *domain.DailyStreak
	hasSeenOnboarding bool
}

func newContainer(userID int64, policy domain.RewardPolicy, store repository.StateStore) *Container {
	return &Container{
		userID: userID,
		policy: policy,
		store:  store,
	}
}

// provision creates fresh state for a new account: starter-coin grant and the
// first day's free minutes.
func (c *Container) provision(ctx context.Context, now time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.wallet = domain.NewWallet(c.userID, c.policy, now)
	c.freeMinutes = domain.NewFreeMinutes(c.userID, c.policy, now)
	c.streak = domain.NewDailyStreak(c.userID, now)

	c.persist(ctx, repository.RecordWallet, c.wallet)
	c.persist(ctx, repository.RecordFreeMinutes, c.freeMinutes)
	c.persist(ctx, repository.RecordDailyStreak, c.streak)
}

// load restores persisted blobs, provisioning any record that is missing.
func (c *Container) load(ctx context.Context, now time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var w domain.Wallet
	if ok, err := c.store.Load(ctx, c.userID, repository.RecordWallet, &w); err == nil && ok {
		c.wallet = &w
	} else {
		if err != nil {
			logger.Error("failed to load wallet", "user_id", c.userID, "error", err)
		}
		c.wallet = domain.NewWallet(c.userID, c.policy, now)
		c.persist(ctx, repository.RecordWallet, c.wallet)
	}

	var f domain.FreeMinutes
	if ok, err := c.store.Load(ctx, c.userID, repository.RecordFreeMinutes, &f); err == nil && ok {
		c.freeMinutes = &f
	} else {
		if err != nil {
			logger.Error("failed to load free minutes", "user_id", c.userID, "error", err)
		}
		c.freeMinutes = domain.NewFreeMinutes(c.userID, c.policy, now)
		c.persist(ctx, repository.RecordFreeMinutes, c.freeMinutes)
	}

	var s domain.DailyStreak
	if ok, err := c.store.Load(ctx, c.userID, repository.RecordDailyStreak, &s); err == nil && ok {
		c.streak = &s
	} else {
		if err != nil {
			logger.Error("failed to load streak", "user_id", c.userID, "error", err)
		}
		c.streak = domain.NewDailyStreak(c.userID, now)
		c.persist(ctx, repository.RecordDailyStreak, c.streak)
	}

	var seen bool
	if ok, err := c.store.Load(ctx, c.userID, repository.RecordOnboarding, &seen); err == nil && ok {
		c.hasSeenOnboarding = seen
	}
}

func (c *Container) persist(ctx context.Context, record string, v any) {
	if err := c.store.Save(ctx, c.userID, record, v); err != nil {
		logger.Error("state persist failed", "user_id", c.userID, "record", record, "error", err)
	}
}

// Credit adds coins to the wallet and returns the new balance.
func (c *Container) Credit(ctx context.Context, amount int64) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.wallet.Credit(amount); err != nil {
		return c.wallet.BalanceCoins, err
	}
	c.persist(ctx, repository.RecordWallet, c.wallet)
	return c.wallet.BalanceCoins, nil
}

// Debit removes coins from the wallet (clamped at zero) and returns the new
// balance.
func (c *Container) Debit(ctx context.Context, amount int64) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.wallet.Debit(amount); err != nil {
		return c.wallet.BalanceCoins, err
	}
	c.persist(ctx, repository.RecordWallet, c.wallet)
	return c.wallet.BalanceCoins, nil
}

// ResetFreeMinutesIfNewDay runs the calendar-day refill and reports whether a
// reset happened.
func (c *Container) ResetFreeMinutesIfNewDay(ctx context.Context, now time.Time) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.freeMinutes.ResetIfNewDay(now, c.policy.FreeMinutesPerDay) {
		return false
	}
	c.persist(ctx, repository.RecordFreeMinutes, c.freeMinutes)
	return true
}

// ConsumeFreeMinutes burns minutes from the allowance, all-or-nothing.
func (c *Container) ConsumeFreeMinutes(ctx context.Context, minutes int) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.freeMinutes.Consume(minutes); err != nil {
		return err
	}
	c.persist(ctx, repository.RecordFreeMinutes, c.freeMinutes)
	return nil
}

// ClaimStreak advances the daily streak and credits the reward to the wallet.
// Returns the new streak day and the coins awarded.
func (c *Container) ClaimStreak(ctx context.Context, now time.Time) (day int, coins int64, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	coins, err = c.streak.Claim(now, c.policy)
	if err != nil {
		return 0, 0, err
	}
	if coins > 0 {
		if err := c.wallet.Credit(coins); err != nil {
			return 0, 0, err
		}
	}
	c.persist(ctx, repository.RecordDailyStreak, c.streak)
	c.persist(ctx, repository.RecordWallet, c.wallet)
	return c.streak.CurrentStreak, coins, nil
}

// EvaluateCallBoundary runs a session's minute-boundary billing against the
// wallet and allowance under the container lock and persists whatever changed.
// Evaluations for one user are totally ordered.
func (c *Container) EvaluateCallBoundary(ctx context.Context, session *domain.CallSession) []domain.BillingEvent {
	c.mu.Lock()
	defer c.mu.Unlock()

	events := session.EvaluateBoundary(c.wallet, c.freeMinutes)
	for _, ev := range events {
		switch ev.Type {
		case domain.EventFreeMinutesConsumed:
			c.persist(ctx, repository.RecordFreeMinutes, c.freeMinutes)
		case domain.EventCoinsDebited:
			c.persist(ctx, repository.RecordWallet, c.wallet)
		}
	}
	return events
}

// HasFreeMinutesAvailable reports whether a new call should start in the free
// lane, refreshing the daily quota first.
func (c *Container) HasFreeMinutesAvailable(ctx context.Context, now time.Time) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.freeMinutes.ResetIfNewDay(now, c.policy.FreeMinutesPerDay) {
		c.persist(ctx, repository.RecordFreeMinutes, c.freeMinutes)
	}
	return c.freeMinutes.HasAvailable()
}

// ExpireStarterCoins clears the starter display bucket once past its validity.
func (c *Container) ExpireStarterCoins(ctx context.Context, now time.Time) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.wallet.ExpireStarterIfDue(now) {
		return false
	}
	c.persist(ctx, repository.RecordWallet, c.wallet)
	return true
}

// MarkOnboardingSeen records the onboarding flag.
func (c *Container) MarkOnboardingSeen(ctx context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.hasSeenOnboarding = true
	c.persist(ctx, repository.RecordOnboarding, c.hasSeenOnboarding)
}

func (c *Container) HasSeenOnboarding() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hasSeenOnboarding
}

// Wallet returns a copy of the wallet state.
func (c *Container) Wallet() domain.Wallet {
	c.mu.Lock()
	defer c.mu.Unlock()
	return *c.wallet
}

// FreeMinutes returns a copy of the allowance state.
func (c *Container) FreeMinutes() domain.FreeMinutes {
	c.mu.Lock()
	defer c.mu.Unlock()
	return *c.freeMinutes
}

// Streak returns a copy of the streak state.
func (c *Container) Streak() domain.DailyStreak {
	c.mu.Lock()
	defer c.mu.Unlock()
	return *c.streak
}
