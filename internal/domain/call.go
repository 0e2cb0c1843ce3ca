package domain

import "time"

type CallState string

const (
	CallStateConnecting    CallState = "connecting"
	CallStateActive        CallState = "active"
	CallStatePendingSwitch CallState = "pending_switch"
	CallStateEnded         CallState = "ended"
)

type CallType string

const (
	CallVoice CallType = "voice"
	CallVideo CallType = "video"
)

type BillingEventType string

const (
	EventFreeMinutesConsumed BillingEventType = "free_minutes_consumed"
	EventSwitchPrompt        BillingEventType = "switch_prompt"
	EventCoinsDebited        BillingEventType = "coins_debited"
	EventInsufficientFunds   BillingEventType = "insufficient_funds"
)

// BillingEvent is produced by a minute-boundary evaluation and forwarded to
// the caller's transport (prompt display, balance update, forced hang-up).
type BillingEvent struct {
	Type    BillingEventType `json:"type"`
	Minutes int              `json:"minutes,omitempty"`
	Coins   int64            `json:"coins,omitempty"`
}

// CallSummary is the terminal tuple returned to the session layer at call end.
type CallSummary struct {
	DurationSeconds int   `json:"duration_seconds"`
	FreeMinutesUsed int   `json:"free_minutes_used"`
	CoinsUsed       int64 `json:"coins_used"`
}

// CallSession is the per-call billing state machine:
// connecting -> active(free) -> pending_switch -> active(paid) -> ended.
// Ticks accumulate elapsed seconds; billing is evaluated only at whole-minute
// boundaries. Free minutes are consumed first; once they run short mid-call
// the session parks in pending_switch and waits for an explicit decision
// rather than auto-switching to paid billing.
type CallSession struct {
	ID               string    `json:"id"`
	CallerID         int64     `json:"caller_id"`
	CalleeID         int64     `json:"callee_id"`
	Type             CallType  `json:"type"`
	State            CallState `json:"state"`
	ElapsedSeconds   int       `json:"elapsed_seconds"`
	PerMinuteRate    int64     `json:"per_minute_rate"`
	FreeMinutesUsed  int       `json:"free_minutes_used"`
	CoinsUsed        int64     `json:"coins_used"`
	UsingFreeMinutes bool      `json:"using_free_minutes"`
	StartedAt        time.Time `json:"started_at"`
	EndedAt          time.Time `json:"ended_at,omitempty"`
}

func NewCallSession(id string, callerID, calleeID int64, callType CallType, rate int64, now time.Time) *CallSession {
	return &CallSession{
		ID:            id,
		CallerID:      callerID,
		CalleeID:      calleeID,
		Type:          callType,
		State:         CallStateConnecting,
		PerMinuteRate: rate,
		StartedAt:     now,
	}
}

// Connect transitions the session to active. hasFreeMinutes decides whether
// billing starts in the free or paid lane.
func (s *CallSession) Connect(hasFreeMinutes bool) error {
	if s.State != CallStateConnecting {
		return ErrCallEnded
	}
	s.State = CallStateActive
	s.UsingFreeMinutes = hasFreeMinutes
	return nil
}

// Tick records one elapsed second and reports whether the tick crossed a
// whole-minute boundary, the sole point at which billing is evaluated.
func (s *CallSession) Tick() (boundary bool) {
	if s.State == CallStateEnded || s.State == CallStateConnecting {
		return false
	}
	s.ElapsedSeconds++
	return s.ElapsedSeconds%60 == 0
}

func (s *CallSession) ElapsedMinutes() int {
	return s.ElapsedSeconds / 60
}

// EvaluateBoundary applies minute-boundary billing against the given wallet
// and allowance and returns the events produced. It is a pure function of the
// session counters and the passed state, so it is testable without a live
// timer. While pending_switch no billing happens: the session waits for a
// SwitchToPaid or End decision. An evaluation either fully applies or fully
// fails; no partial consumption is left behind.
func (s *CallSession) EvaluateBoundary(wallet *Wallet, allowance *FreeMinutes) []BillingEvent {
	if s.State != CallStateActive {
		return nil
	}

	minutes := s.ElapsedMinutes()
	if minutes == 0 {
		return nil
	}

	if s.UsingFreeMinutes {
		return s.evaluateFree(minutes, allowance)
	}
	return s.evaluatePaid(minutes, wallet)
}

func (s *CallSession) evaluateFree(minutes int, allowance *FreeMinutes) []BillingEvent {
	due := minutes - s.FreeMinutesUsed
	if due <= 0 {
		return nil
	}

	var events []BillingEvent
	use := due
	if allowance.FreeMinutesRemaining < use {
		use = allowance.FreeMinutesRemaining
	}
	if use > 0 {
		if err := allowance.Consume(use); err != nil {
			return nil
		}
		s.FreeMinutesUsed += use
		events = append(events, BillingEvent{Type: EventFreeMinutesConsumed, Minutes: use})
	}
	if use < due {
		// Allowance exhausted mid-call: park and surface the decision prompt.
		s.State = CallStatePendingSwitch
		events = append(events, BillingEvent{Type: EventSwitchPrompt})
	}
	return events
}

func (s *CallSession) evaluatePaid(minutes int, wallet *Wallet) []BillingEvent {
	due := minutes - s.FreeMinutesUsed
	if due <= 0 {
		return nil
	}
	required := int64(due)*s.PerMinuteRate - s.CoinsUsed
	if required <= 0 {
		return nil
	}
	if wallet.BalanceCoins < required {
		s.State = CallStateEnded
		return []BillingEvent{{Type: EventInsufficientFunds}}
	}
	if err := wallet.Debit(required); err != nil {
		return nil
	}
	s.CoinsUsed = int64(due) * s.PerMinuteRate
	return []BillingEvent{{Type: EventCoinsDebited, Coins: required}}
}

// SwitchToPaid resolves the free-exhausted decision point. It does not debit:
// paid billing resumes at the next minute boundary.
func (s *CallSession) SwitchToPaid() error {
	if s.State != CallStatePendingSwitch {
		return ErrNoPendingSwitch
	}
	s.State = CallStateActive
	s.UsingFreeMinutes = false
	return nil
}

// End is terminal and returns the final totals. Calling End on an already
// ended session returns the same summary with ErrCallEnded.
func (s *CallSession) End(now time.Time) (CallSummary, error) {
	summary := CallSummary{
		DurationSeconds: s.ElapsedSeconds,
		FreeMinutesUsed: s.FreeMinutesUsed,
		CoinsUsed:       s.CoinsUsed,
	}
	if s.State == CallStateEnded {
		return summary, ErrCallEnded
	}
	s.State = CallStateEnded
	s.EndedAt = now
	return summary, nil
}
