package state

import (
	"context"
	"sync"
	"testing"
	"time"

	"discovery_backend/internal/domain"
	"discovery_backend/internal/repository"
)

func day(d int) time.Time {
	return time.Date(2024, 5, d, 9, 30, 0, 0, time.UTC)
}

func newTestRegistry() (*Registry, *repository.MemoryStateStore) {
	store := repository.NewMemoryStateStore()
	return NewRegistry(domain.DefaultPolicy(), store), store
}

func TestProvisionGrantsStarterState(t *testing.T) {
	ctx := context.Background()
	reg, _ := newTestRegistry()

	c := reg.Provision(ctx, 1)

	w := c.Wallet()
	if w.BalanceCoins != 100 || w.StarterCoins != 100 {
		t.Fatalf("wallet = %+v; want starter grant of 100", w)
	}
	f := c.FreeMinutes()
	if f.FreeMinutesRemaining != 5 {
		t.Fatalf("free minutes = %d; want 5", f.FreeMinutesRemaining)
	}
	s := c.Streak()
	if s.CurrentStreak != 0 {
		t.Fatalf("streak = %d; want 0", s.CurrentStreak)
	}
}

func TestCreditDebitPersisted(t *testing.T) {
	ctx := context.Background()
	reg, store := newTestRegistry()

	c := reg.Provision(ctx, 2)
	if _, err := c.Credit(ctx, 50); err != nil {
		t.Fatalf("credit failed: %v", err)
	}
	balance, err := c.Debit(ctx, 30)
	if err != nil {
		t.Fatalf("debit failed: %v", err)
	}
	if balance != 120 {
		t.Fatalf("balance = %d; want 120", balance)
	}

	// A fresh registry against the same store reloads the persisted wallet.
	reg2 := NewRegistry(domain.DefaultPolicy(), store)
	w := reg2.Get(ctx, 2).Wallet()
	if w.BalanceCoins != 120 || w.TotalEarned != 150 || w.TotalSpent != 30 {
		t.Fatalf("reloaded wallet = %+v", w)
	}
}

func TestLoadProvisionsMissingRecords(t *testing.T) {
	ctx := context.Background()
	reg, _ := newTestRegistry()

	// No prior state: Get falls back to provisioning defaults.
	c := reg.Get(ctx, 3)
	if c.Wallet().BalanceCoins != 100 {
		t.Fatalf("balance = %d; want starter 100", c.Wallet().BalanceCoins)
	}
	if !c.HasFreeMinutesAvailable(ctx, time.Now()) {
		t.Fatal("fresh account should have free minutes")
	}
}

func TestClaimStreakCreditsWallet(t *testing.T) {
	ctx := context.Background()
	reg, _ := newTestRegistry()

	c := reg.Provision(ctx, 4)
	dayN, coins, err := c.ClaimStreak(ctx, day(1))
	if err != nil {
		t.Fatalf("claim failed: %v", err)
	}
	if dayN != 1 || coins != 5 {
		t.Fatalf("claim = day %d, %d coins; want day 1, 5 coins", dayN, coins)
	}
	if got := c.Wallet().BalanceCoins; got != 105 {
		t.Fatalf("balance = %d; want 105", got)
	}

	if _, _, err := c.ClaimStreak(ctx, day(1)); err != domain.ErrAlreadyClaimedToday {
		t.Fatalf("second claim = %v; want ErrAlreadyClaimedToday", err)
	}
}

func TestEvaluateCallBoundaryPersists(t *testing.T) {
	ctx := context.Background()
	reg, store := newTestRegistry()

	c := reg.Provision(ctx, 5)
	session := domain.NewCallSession("call-t", 5, 6, domain.CallVoice, 5, day(1))
	if err := session.Connect(true); err != nil {
		t.Fatalf("connect failed: %v", err)
	}

	for i := 0; i < 60; i++ {
		if session.Tick() {
			events := c.EvaluateCallBoundary(ctx, session)
			if len(events) != 1 || events[0].Type != domain.EventFreeMinutesConsumed {
				t.Fatalf("events = %+v", events)
			}
		}
	}
	if got := c.FreeMinutes().FreeMinutesRemaining; got != 4 {
		t.Fatalf("remaining = %d; want 4", got)
	}

	var f domain.FreeMinutes
	ok, err := store.Load(ctx, 5, repository.RecordFreeMinutes, &f)
	if err != nil || !ok {
		t.Fatalf("load persisted allowance: ok=%v err=%v", ok, err)
	}
	if f.FreeMinutesRemaining != 4 {
		t.Fatalf("persisted remaining = %d; want 4", f.FreeMinutesRemaining)
	}
}

func TestMarkOnboardingSeenSurvivesReload(t *testing.T) {
	ctx := context.Background()
	reg, store := newTestRegistry()

	c := reg.Provision(ctx, 7)
	if c.HasSeenOnboarding() {
		t.Fatal("fresh account should not have seen onboarding")
	}
	c.MarkOnboardingSeen(ctx)

	reg2 := NewRegistry(domain.DefaultPolicy(), store)
	if !reg2.Get(ctx, 7).HasSeenOnboarding() {
		t.Fatal("onboarding flag lost across reload")
	}
}

// Simultaneous first requests for one user must share a single container and
// never observe it before its state is loaded.
func TestConcurrentFirstAccess(t *testing.T) {
	ctx := context.Background()
	reg, _ := newTestRegistry()

	const n = 16
	var wg sync.WaitGroup
	containers := make([]*Container, n)
	balances := make([]int64, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			c := reg.Get(ctx, 9)
			containers[i] = c
			balances[i] = c.Wallet().BalanceCoins
		}(i)
	}
	wg.Wait()

	for i := 1; i < n; i++ {
		if containers[i] != containers[0] {
			t.Fatal("concurrent Get returned different containers")
		}
	}
	for i, b := range balances {
		if b != 100 {
			t.Fatalf("balance[%d] = %d; want 100", i, b)
		}
	}
}

func TestDropDeletesRecords(t *testing.T) {
	ctx := context.Background()
	reg, store := newTestRegistry()

	c := reg.Provision(ctx, 8)
	if _, err := c.Credit(ctx, 10); err != nil {
		t.Fatalf("credit failed: %v", err)
	}
	if err := reg.Drop(ctx, 8); err != nil {
		t.Fatalf("drop failed: %v", err)
	}

	var w domain.Wallet
	ok, err := store.Load(ctx, 8, repository.RecordWallet, &w)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if ok {
		t.Fatal("wallet record survived Drop")
	}
}
