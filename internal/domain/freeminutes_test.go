package domain

import (
	"testing"
	"time"
)

func day(d int) time.Time {
	return time.Date(2024, 5, d, 9, 30, 0, 0, time.UTC)
}

func TestFreeMinutesResetIfNewDay(t *testing.T) {
	f := &FreeMinutes{
		FreeMinutesRemaining:     1,
		FreeMinutesDaysRemaining: 3,
		LastResetDate:            day(1),
	}

	if !f.ResetIfNewDay(day(2), 5) {
		t.Fatal("expected reset on new day")
	}
	if f.FreeMinutesRemaining != 5 {
		t.Fatalf("remaining = %d; want 5", f.FreeMinutesRemaining)
	}
	if f.FreeMinutesDaysRemaining != 2 {
		t.Fatalf("days remaining = %d; want 2", f.FreeMinutesDaysRemaining)
	}

	// Idempotent within the same calendar day.
	f.FreeMinutesRemaining = 2
	if f.ResetIfNewDay(day(2).Add(6*time.Hour), 5) {
		t.Fatal("second reset same day should be a no-op")
	}
	if f.FreeMinutesRemaining != 2 || f.FreeMinutesDaysRemaining != 2 {
		t.Fatalf("state changed by no-op reset: %+v", f)
	}
}

func TestFreeMinutesResetExhaustedPermanently(t *testing.T) {
	f := &FreeMinutes{
		FreeMinutesRemaining:     0,
		FreeMinutesDaysRemaining: 1,
		LastResetDate:            day(1),
	}

	if !f.ResetIfNewDay(day(2), 5) {
		t.Fatal("expected final reset")
	}
	if f.FreeMinutesDaysRemaining != 0 {
		t.Fatalf("days remaining = %d; want 0", f.FreeMinutesDaysRemaining)
	}
	if f.ResetIfNewDay(day(3), 5) {
		t.Fatal("no resets once grant days are exhausted")
	}
}

func TestFreeMinutesConsume(t *testing.T) {
	f := &FreeMinutes{FreeMinutesRemaining: 3, FreeMinutesDaysRemaining: 2}

	if err := f.Consume(2); err != nil {
		t.Fatalf("consume failed: %v", err)
	}
	if f.FreeMinutesRemaining != 1 {
		t.Fatalf("remaining = %d; want 1", f.FreeMinutesRemaining)
	}

	// All-or-nothing: a shortfall consumes nothing.
	if err := f.Consume(2); err != ErrInsufficientAllowance {
		t.Fatalf("Consume(2) = %v; want ErrInsufficientAllowance", err)
	}
	if f.FreeMinutesRemaining != 1 {
		t.Fatalf("remaining = %d after failed consume; want 1", f.FreeMinutesRemaining)
	}

	if err := f.Consume(0); err != ErrInvalidAmount {
		t.Fatalf("Consume(0) = %v; want ErrInvalidAmount", err)
	}
}

func TestFreeMinutesHasAvailable(t *testing.T) {
	cases := []struct {
		remaining int
		days      int
		want      bool
	}{
		{5, 3, true},
		{0, 3, false},
		{5, 0, false},
		{0, 0, false},
	}

	for _, tc := range cases {
		f := &FreeMinutes{FreeMinutesRemaining: tc.remaining, FreeMinutesDaysRemaining: tc.days}
		if got := f.HasAvailable(); got != tc.want {
			t.Fatalf("HasAvailable(remaining=%d days=%d) = %v; want %v", tc.remaining, tc.days, got, tc.want)
		}
	}
}

func TestNewFreeMinutesProvisioning(t *testing.T) {
	now := day(1)
	policy := DefaultPolicy()

	f := NewFreeMinutes(4, policy, now)

	if f.FreeMinutesRemaining != policy.FreeMinutesPerDay {
		t.Fatalf("remaining = %d; want %d", f.FreeMinutesRemaining, policy.FreeMinutesPerDay)
	}
	// Provisioning day counts against the validity window.
	if f.FreeMinutesDaysRemaining != policy.FreeMinutesValidityDays-1 {
		t.Fatalf("days remaining = %d; want %d", f.FreeMinutesDaysRemaining, policy.FreeMinutesValidityDays-1)
	}
	if !f.HasAvailable() {
		t.Fatal("fresh allowance should be available")
	}
}
