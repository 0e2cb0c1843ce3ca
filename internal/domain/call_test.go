package domain

import (
	"testing"
	"time"
)

func newTestCall(t *testing.T, rate int64, hasFree bool) *CallSession {
	t.Helper()
	s := NewCallSession("call-1", 1, 2, CallVoice, rate, time.Now())
	if err := s.Connect(hasFree); err != nil {
		t.Fatalf("connect failed: %v", err)
	}
	return s
}

// runSeconds ticks the session second by second, evaluating billing at each
// minute boundary, and returns every event produced.
func runSeconds(s *CallSession, w *Wallet, f *FreeMinutes, seconds int) []BillingEvent {
	var events []BillingEvent
	for i := 0; i < seconds; i++ {
		if s.Tick() {
			events = append(events, s.EvaluateBoundary(w, f)...)
		}
	}
	return events
}

func TestCallConsumesFreeMinutesFirst(t *testing.T) {
	w := &Wallet{BalanceCoins: 100}
	f := &FreeMinutes{FreeMinutesRemaining: 2, FreeMinutesDaysRemaining: 3}
	s := newTestCall(t, 5, true)

	events := runSeconds(s, w, f, 120)

	if len(events) != 2 {
		t.Fatalf("events = %d; want 2 free-minute consumptions", len(events))
	}
	for _, ev := range events {
		if ev.Type != EventFreeMinutesConsumed || ev.Minutes != 1 {
			t.Fatalf("unexpected event %+v", ev)
		}
	}
	if f.FreeMinutesRemaining != 0 {
		t.Fatalf("free minutes remaining = %d; want 0", f.FreeMinutesRemaining)
	}
	if s.FreeMinutesUsed != 2 {
		t.Fatalf("free minutes used = %d; want 2", s.FreeMinutesUsed)
	}
	if s.CoinsUsed != 0 || w.BalanceCoins != 100 {
		t.Fatal("coins touched while free minutes cover the call")
	}
}

func TestCallPendingSwitchOnExhaustion(t *testing.T) {
	w := &Wallet{BalanceCoins: 100}
	f := &FreeMinutes{FreeMinutesRemaining: 2, FreeMinutesDaysRemaining: 3}
	s := newTestCall(t, 5, true)

	events := runSeconds(s, w, f, 180)

	last := events[len(events)-1]
	if last.Type != EventSwitchPrompt {
		t.Fatalf("last event = %v; want switch prompt", last.Type)
	}
	if s.State != CallStatePendingSwitch {
		t.Fatalf("state = %v; want pending_switch", s.State)
	}
	if s.CoinsUsed != 0 {
		t.Fatalf("coins used = %d; want 0 before decision", s.CoinsUsed)
	}

	// Billing is suspended while the decision is pending; the timer runs on.
	more := runSeconds(s, w, f, 120)
	if len(more) != 0 {
		t.Fatalf("billing ran while pending: %+v", more)
	}
	if s.ElapsedSeconds != 300 {
		t.Fatalf("elapsed = %d; want 300", s.ElapsedSeconds)
	}
}

func TestCallSwitchToPaidResumesBilling(t *testing.T) {
	w := &Wallet{BalanceCoins: 100}
	f := &FreeMinutes{FreeMinutesRemaining: 2, FreeMinutesDaysRemaining: 3}
	s := newTestCall(t, 5, true)

	runSeconds(s, w, f, 180)
	if err := s.SwitchToPaid(); err != nil {
		t.Fatalf("switch failed: %v", err)
	}
	if s.UsingFreeMinutes {
		t.Fatal("still marked as using free minutes after switch")
	}

	// Next boundary bills all unpaid minutes at the per-call rate.
	events := runSeconds(s, w, f, 60)
	if len(events) != 1 || events[0].Type != EventCoinsDebited {
		t.Fatalf("events = %+v; want one coins_debited", events)
	}
	// 4 elapsed minutes - 2 free = 2 paid minutes at rate 5.
	if events[0].Coins != 10 {
		t.Fatalf("debited = %d; want 10", events[0].Coins)
	}
	if w.BalanceCoins != 90 {
		t.Fatalf("balance = %d; want 90", w.BalanceCoins)
	}
	if s.CoinsUsed != 10 {
		t.Fatalf("coins used = %d; want 10", s.CoinsUsed)
	}
}

func TestCallPaidBillingIncremental(t *testing.T) {
	w := &Wallet{BalanceCoins: 100}
	f := &FreeMinutes{}
	s := newTestCall(t, 4, false)

	runSeconds(s, w, f, 60)
	if s.CoinsUsed != 4 {
		t.Fatalf("coins used after 1 min = %d; want 4", s.CoinsUsed)
	}
	runSeconds(s, w, f, 60)
	if s.CoinsUsed != 8 {
		t.Fatalf("coins used after 2 min = %d; want 8", s.CoinsUsed)
	}
	if w.BalanceCoins != 92 {
		t.Fatalf("balance = %d; want 92", w.BalanceCoins)
	}
}

func TestCallInsufficientFundsForceEnds(t *testing.T) {
	w := &Wallet{BalanceCoins: 4}
	f := &FreeMinutes{}
	s := newTestCall(t, 5, false)

	events := runSeconds(s, w, f, 60)

	if len(events) != 1 || events[0].Type != EventInsufficientFunds {
		t.Fatalf("events = %+v; want insufficient_funds", events)
	}
	if s.State != CallStateEnded {
		t.Fatalf("state = %v; want ended", s.State)
	}
	if w.BalanceCoins != 4 || w.TotalSpent != 0 {
		t.Fatal("wallet mutated by failed billing")
	}
}

func TestCallSwitchInvalidOutsidePending(t *testing.T) {
	s := newTestCall(t, 5, true)

	if err := s.SwitchToPaid(); err != ErrNoPendingSwitch {
		t.Fatalf("SwitchToPaid while active = %v; want ErrNoPendingSwitch", err)
	}

	if _, err := s.End(time.Now()); err != nil {
		t.Fatalf("end failed: %v", err)
	}
	if err := s.SwitchToPaid(); err != ErrNoPendingSwitch {
		t.Fatalf("SwitchToPaid after end = %v; want ErrNoPendingSwitch", err)
	}
}

func TestCallEndTerminal(t *testing.T) {
	w := &Wallet{BalanceCoins: 100}
	f := &FreeMinutes{FreeMinutesRemaining: 5, FreeMinutesDaysRemaining: 3}
	s := newTestCall(t, 5, true)

	runSeconds(s, w, f, 95)

	summary, err := s.End(time.Now())
	if err != nil {
		t.Fatalf("end failed: %v", err)
	}
	if summary.DurationSeconds != 95 || summary.FreeMinutesUsed != 1 || summary.CoinsUsed != 0 {
		t.Fatalf("summary = %+v", summary)
	}

	if _, err := s.End(time.Now()); err != ErrCallEnded {
		t.Fatalf("second End = %v; want ErrCallEnded", err)
	}
	if s.Tick() {
		t.Fatal("tick after end should not report a boundary")
	}
	if s.ElapsedSeconds != 95 {
		t.Fatalf("elapsed advanced after end: %d", s.ElapsedSeconds)
	}
}

// Billing never double-charges a minute under both free and paid rules.
func TestCallNoDoubleCharge(t *testing.T) {
	w := &Wallet{BalanceCoins: 1000}
	f := &FreeMinutes{FreeMinutesRemaining: 3, FreeMinutesDaysRemaining: 3}
	s := newTestCall(t, 5, true)

	for i := 0; i < 600; i++ {
		if s.Tick() {
			s.EvaluateBoundary(w, f)
		}
		if s.State == CallStatePendingSwitch {
			if err := s.SwitchToPaid(); err != nil {
				t.Fatalf("switch failed: %v", err)
			}
		}

		billed := int64(s.FreeMinutesUsed) + s.CoinsUsed/s.PerMinuteRate
		if billed > int64(s.ElapsedMinutes()) {
			t.Fatalf("billed %d minutes with only %d elapsed", billed, s.ElapsedMinutes())
		}
	}

	if s.FreeMinutesUsed != 3 {
		t.Fatalf("free minutes used = %d; want 3", s.FreeMinutesUsed)
	}
	// 10 minutes elapsed, 3 free, 7 paid at rate 5.
	if s.CoinsUsed != 35 {
		t.Fatalf("coins used = %d; want 35", s.CoinsUsed)
	}
}
