package service

import (
	"context"
	"strconv"
	"sync"
	"time"

	"discovery_backend/internal/analytics"
	"discovery_backend/internal/domain"
	"discovery_backend/internal/logger"
	"discovery_backend/internal/repository"
	"discovery_backend/internal/state"
)

// CallEvent is pushed to the caller's transport (WebSocket) during a call.
type CallEvent struct {
	Type           string              `json:"type"`
	ElapsedSeconds int                 `json:"elapsed_seconds,omitempty"`
	Minutes        int                 `json:"minutes,omitempty"`
	Coins          int64               `json:"coins,omitempty"`
	Summary        *domain.CallSummary `json:"summary,omitempty"`
}

const (
	CallEventTick     = "tick"
	CallEventSwitched = "switched_to_paid"
	CallEventEnded    = "ended"
)

type activeCall struct {
	mu        sync.Mutex
	session   *domain.CallSession
	container *state.Container
	events    chan CallEvent
	stop      chan struct{}
	done      sync.Once
}

// CallManager owns the active call sessions. Each session has one ticker
// goroutine feeding one-second ticks; minute-boundary billing runs under the
// user's state container lock so evaluations are totally ordered. Ending a
// call stops the ticker deterministically and discards the session.
type CallManager struct {
	registry *state.Registry
	history  *repository.CallHistoryRepository
	profiles *repository.ProfileRepository
	tracker  *analytics.Tracker
	policy   domain.RewardPolicy

	mu      sync.Mutex
	active  map[int64]*activeCall // keyed by caller id
	callSeq int64

	tickInterval time.Duration
}

func NewCallManager(registry *state.Registry, history *repository.CallHistoryRepository,
	profiles *repository.ProfileRepository, tracker *analytics.Tracker, policy domain.RewardPolicy) *CallManager {
	return &CallManager{
		registry:     registry,
		history:      history,
		profiles:     profiles,
		tracker:      tracker,
		policy:       policy,
		active:       make(map[int64]*activeCall),
		tickInterval: time.Second,
	}
}

// StartCall connects a new billing session for the caller. The per-minute
// rate comes from the callee's profile, falling back to the policy default.
func (m *CallManager) StartCall(ctx context.Context, callerID, calleeID int64, callType domain.CallType) (domain.CallSession, error) {
	m.mu.Lock()
	if _, ok := m.active[callerID]; ok {
		m.mu.Unlock()
		return domain.CallSession{}, domain.ErrCallInProgress
	}
	m.callSeq++
	id := "call-" + strconv.FormatInt(time.Now().Unix(), 10) + "-" + strconv.FormatInt(m.callSeq, 10)
	m.mu.Unlock()

	rate := m.policy.DefaultPerMinuteRate
	if m.profiles != nil {
		if callee, err := m.profiles.GetByID(ctx, calleeID); err == nil && callee.PerMinuteRate > 0 {
			rate = callee.PerMinuteRate
		}
	}

	container := m.registry.Get(ctx, callerID)
	session := domain.NewCallSession(id, callerID, calleeID, callType, rate, time.Now())
	if err := session.Connect(container.HasFreeMinutesAvailable(ctx, time.Now())); err != nil {
		return domain.CallSession{}, err
	}

	ac := &activeCall{
		session:   session,
		container: container,
		events:    make(chan CallEvent, 64),
		stop:      make(chan struct{}),
	}

	m.mu.Lock()
	m.active[callerID] = ac
	m.mu.Unlock()

	go m.run(ac)

	callsStarted.Inc()
	m.tracker.TrackCallInitiated(calleeID, string(callType), callerID)
	logger.Info("call started", "call_id", id, "caller_id", callerID, "callee_id", calleeID, "rate", rate)

	return *session, nil
}

func (m *CallManager) run(ac *activeCall) {
	ticker := time.NewTicker(m.tickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ac.stop:
			return
		case <-ticker.C:
			m.handleTick(ac)
		}
	}
}

func (m *CallManager) handleTick(ac *activeCall) {
	ac.mu.Lock()
	defer ac.mu.Unlock()

	if ac.session.State == domain.CallStateEnded {
		return
	}

	boundary := ac.session.Tick()
	m.emit(ac, CallEvent{Type: CallEventTick, ElapsedSeconds: ac.session.ElapsedSeconds})

	if !boundary {
		return
	}

	ctx := context.Background()
	events := ac.container.EvaluateCallBoundary(ctx, ac.session)
	for _, ev := range events {
		m.emit(ac, CallEvent{Type: string(ev.Type), Minutes: ev.Minutes, Coins: ev.Coins})

		switch ev.Type {
		case domain.EventFreeMinutesConsumed:
			freeMinutesConsumed.Add(float64(ev.Minutes))
			remaining := ac.container.FreeMinutes().FreeMinutesRemaining
			m.tracker.TrackFreeMinutesUsed(ev.Minutes, remaining, ac.session.CallerID)
		case domain.EventCoinsDebited:
			coinsDebitedTotal.Add(float64(ev.Coins))
			m.tracker.TrackCoinsSpent(ev.Coins, "call", ac.session.CallerID)
		case domain.EventInsufficientFunds:
			// Fatal to the call: end it automatically.
			m.finalizeLocked(ctx, ac, "insufficient_funds")
		}
	}
}

// SwitchToPaid resolves a pending free-exhausted prompt for the caller's
// active session.
func (m *CallManager) SwitchToPaid(ctx context.Context, callerID int64) error {
	ac, ok := m.lookup(callerID)
	if !ok {
		return domain.ErrCallEnded
	}

	ac.mu.Lock()
	defer ac.mu.Unlock()

	if err := ac.session.SwitchToPaid(); err != nil {
		return err
	}
	m.emit(ac, CallEvent{Type: CallEventSwitched})
	m.tracker.TrackFreeToPaidSwitch(ac.session.FreeMinutesUsed, callerID)
	return nil
}

// EndCall terminates the caller's active session and returns the final totals.
func (m *CallManager) EndCall(ctx context.Context, callerID int64) (domain.CallSummary, error) {
	ac, ok := m.lookup(callerID)
	if !ok {
		return domain.CallSummary{}, domain.ErrCallEnded
	}

	ac.mu.Lock()
	defer ac.mu.Unlock()

	summary, err := ac.session.End(time.Now())
	if err != nil {
		return summary, err
	}
	m.finalizeLocked(ctx, ac, "user")
	return summary, nil
}

// finalizeLocked stops the ticker, persists the history record and emits the
// terminal event. Caller holds ac.mu. Safe to invoke more than once.
func (m *CallManager) finalizeLocked(ctx context.Context, ac *activeCall, reason string) {
	ac.done.Do(func() {
		s := ac.session
		s.State = domain.CallStateEnded
		if s.EndedAt.IsZero() {
			s.EndedAt = time.Now()
		}
		close(ac.stop)

		m.mu.Lock()
		delete(m.active, s.CallerID)
		m.mu.Unlock()

		summary := domain.CallSummary{
			DurationSeconds: s.ElapsedSeconds,
			FreeMinutesUsed: s.FreeMinutesUsed,
			CoinsUsed:       s.CoinsUsed,
		}
		m.emit(ac, CallEvent{Type: CallEventEnded, Summary: &summary})
		close(ac.events)

		callsEnded.WithLabelValues(reason).Inc()
		m.tracker.TrackCallEnded(summary.DurationSeconds, summary.FreeMinutesUsed, summary.CoinsUsed, s.CallerID)

		if m.history != nil {
			rec := &domain.CallRecord{
				ID:              s.ID,
				CallerID:        s.CallerID,
				CalleeID:        s.CalleeID,
				Type:            s.Type,
				StartAt:         s.StartedAt,
				EndAt:           s.EndedAt,
				DurationSeconds: s.ElapsedSeconds,
				PerMinuteRate:   s.PerMinuteRate,
				CoinsDebited:    s.CoinsUsed,
				FreeMinutesUsed: s.FreeMinutesUsed,
				Status:          domain.CallRecordEnded,
			}
			if err := m.history.Create(ctx, rec); err != nil {
				logger.Error("failed to persist call record", "call_id", s.ID, "error", err)
			}
		}
		if m.profiles != nil {
			if err := m.profiles.IncrementTotalCalls(ctx, s.CallerID); err != nil {
				logger.Error("failed to bump caller total_calls", "error", err)
			}
			if err := m.profiles.IncrementTotalCalls(ctx, s.CalleeID); err != nil {
				logger.Error("failed to bump callee total_calls", "error", err)
			}
		}

		logger.Info("call ended", "call_id", s.ID, "reason", reason,
			"duration", summary.DurationSeconds, "free_minutes", summary.FreeMinutesUsed, "coins", summary.CoinsUsed)
	})
}

func (m *CallManager) lookup(callerID int64) (*activeCall, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	ac, ok := m.active[callerID]
	return ac, ok
}

// ActiveSession returns a snapshot of the caller's active session.
func (m *CallManager) ActiveSession(callerID int64) (domain.CallSession, bool) {
	ac, ok := m.lookup(callerID)
	if !ok {
		return domain.CallSession{}, false
	}
	ac.mu.Lock()
	defer ac.mu.Unlock()
	return *ac.session, true
}

// Events returns the caller's live event stream. The channel is closed when
// the call ends.
func (m *CallManager) Events(callerID int64) (<-chan CallEvent, bool) {
	ac, ok := m.lookup(callerID)
	if !ok {
		return nil, false
	}
	return ac.events, true
}

// emit queues an event without blocking the billing path; slow consumers miss
// events rather than stalling the ticker.
func (m *CallManager) emit(ac *activeCall, ev CallEvent) {
	select {
	case ac.events <- ev:
	default:
	}
}
