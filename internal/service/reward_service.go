package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"discovery_backend/internal/analytics"
	"discovery_backend/internal/domain"
	"discovery_backend/internal/state"
)

var (
	ErrDailyAdCapReached = errors.New("daily ad cap reached")
	ErrAdCooldown        = errors.New("ad cooldown active")
	ErrNoAdInProgress    = errors.New("no ad in progress")
)

type adState struct {
	date       time.Time
	watched    int
	lastReward time.Time
	inProgress bool
}

// RewardService handles ad rewards and streak claims. Ad counters are
// device-session local (not persisted): the daily cap resets at the calendar
// day boundary.
type RewardService struct {
	registry *state.Registry
	tracker  *analytics.Tracker
	policy   domain.RewardPolicy

	mu  sync.Mutex
	ads map[int64]*adState

	now func() time.Time
}

func NewRewardService(registry *state.Registry, tracker *analytics.Tracker, policy domain.RewardPolicy) *RewardService {
	return &RewardService{
		registry: registry,
		tracker:  tracker,
		policy:   policy,
		ads:      make(map[int64]*adState),
		now:      time.Now,
	}
}

func (s *RewardService) adStateFor(userID int64, now time.Time) *adState {
	st, ok := s.ads[userID]
	if !ok || !sameDay(st.date, now) {
		st = &adState{date: now}
		s.ads[userID] = st
	}
	return st
}

// StartAd checks the daily cap and cooldown and marks an ad as in progress.
func (s *RewardService) StartAd(userID int64) error {
	now := s.now()

	s.mu.Lock()
	defer s.mu.Unlock()

	st := s.adStateFor(userID, now)
	if st.watched >= s.policy.DailyAdCap {
		return ErrDailyAdCapReached
	}
	cooldown := time.Duration(s.policy.AdCooldownSeconds) * time.Second
	if !st.lastReward.IsZero() && now.Sub(st.lastReward) < cooldown {
		return ErrAdCooldown
	}
	st.inProgress = true

	s.tracker.TrackAdRewardStarted(userID)
	return nil
}

// CompleteAd credits the per-ad reward and returns the new balance and the
// number of ads watched today.
func (s *RewardService) CompleteAd(ctx context.Context, userID int64) (balance int64, adsToday int, err error) {
	now := s.now()

	s.mu.Lock()
	st := s.adStateFor(userID, now)
	if !st.inProgress {
		s.mu.Unlock()
		return 0, st.watched, ErrNoAdInProgress
	}
	st.inProgress = false
	st.watched++
	st.lastReward = now
	adsToday = st.watched
	s.mu.Unlock()

	container := s.registry.Get(ctx, userID)
	balance, err = container.Credit(ctx, s.policy.CoinsPerAd)
	if err != nil {
		return balance, adsToday, err
	}

	adsCompleted.Inc()
	s.tracker.TrackAdRewardCompleted(s.policy.CoinsPerAd, userID)
	return balance, adsToday, nil
}

// AdsWatchedToday returns today's counter for the user.
func (s *RewardService) AdsWatchedToday(userID int64) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.adStateFor(userID, s.now()).watched
}

// ClaimStreak advances the user's daily streak and credits the reward.
func (s *RewardService) ClaimStreak(ctx context.Context, userID int64) (day int, coins int64, err error) {
	container := s.registry.Get(ctx, userID)
	day, coins, err = container.ClaimStreak(ctx, s.now())
	if err != nil {
		return 0, 0, err
	}

	streakClaims.Inc()
	s.tracker.TrackStreakClaimed(day, coins, userID)
	return day, coins, nil
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
