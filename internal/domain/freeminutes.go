package domain

import "time"

// FreeMinutes is the daily-renewing allotment of call time consumed before any
// coin debit occurs. Each calendar-day reset burns one of the remaining grant
// days; once FreeMinutesDaysRemaining hits zero no further resets happen.
type FreeMinutes struct {
	UserID                   int64     `json:"user_id"`
	FreeMinutesRemaining     int       `json:"free_minutes_remaining"`
	FreeMinutesDaysRemaining int       `json:"free_minutes_days_remaining"`
	LastResetDate            time.Time `json:"last_reset_date"`
	CreatedAt                time.Time `json:"created_at"`
	ExpiresAt                time.Time `json:"expires_at"`
}

// NewFreeMinutes provisions the allowance with the first day's quota already
// granted. The day of provisioning counts against the validity window.
func NewFreeMinutes(userID int64, policy RewardPolicy, now time.Time) *FreeMinutes {
	return &FreeMinutes{
		UserID:                   userID,
		FreeMinutesRemaining:     policy.FreeMinutesPerDay,
		FreeMinutesDaysRemaining: policy.FreeMinutesValidityDays - 1,
		LastResetDate:            now,
		CreatedAt:                now,
		ExpiresAt:                now.AddDate(0, 0, policy.FreeMinutesValidityDays),
	}
}

// ResetIfNewDay refills the daily quota when today is a different calendar day
// than the last reset and grant days remain. Idempotent within one calendar
// day. Reports whether a reset happened.
func (f *FreeMinutes) ResetIfNewDay(today time.Time, perDay int) bool {
	if f.FreeMinutesDaysRemaining <= 0 {
		return false
	}
	if sameCalendarDay(f.LastResetDate, today) {
		return false
	}
	f.FreeMinutesRemaining = perDay
	f.FreeMinutesDaysRemaining--
	f.LastResetDate = today
	return true
}

// Consume removes minutes from the allowance, all-or-nothing.
func (f *FreeMinutes) Consume(minutes int) error {
	if minutes <= 0 {
		return ErrInvalidAmount
	}
	if f.FreeMinutesRemaining < minutes {
		return ErrInsufficientAllowance
	}
	f.FreeMinutesRemaining -= minutes
	return nil
}

// HasAvailable reports whether the allowance can cover call time right now.
func (f *FreeMinutes) HasAvailable() bool {
	return f != nil && f.FreeMinutesRemaining > 0 && f.FreeMinutesDaysRemaining > 0
}

func sameCalendarDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
