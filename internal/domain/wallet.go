package domain

import "time"

// Wallet is the per-user coin ledger. Balance never goes negative: debits are
// clamped to a floor of zero, but TotalSpent always records the full requested
// amount (spending reconciliation is session-terminal, not clamped to funds).
type Wallet struct {
	UserID               int64     `json:"user_id"`
	BalanceCoins         int64     `json:"balance_coins"`
	StarterCoins         int64     `json:"starter_coins"`
	StarterCoinsExpiryAt time.Time `json:"starter_coins_expiry_at"`
	TotalEarned          int64     `json:"total_earned"`
	TotalSpent           int64     `json:"total_spent"`
}

// NewWallet provisions a wallet with the policy's starter-coin grant. Starter
// coins are a display bucket added into the main balance.
func NewWallet(userID int64, policy RewardPolicy, now time.Time) *Wallet {
	return &Wallet{
		UserID:               userID,
		BalanceCoins:         policy.StarterCoinsAmount,
		StarterCoins:         policy.StarterCoinsAmount,
		StarterCoinsExpiryAt: now.AddDate(0, 0, policy.StarterCoinsValidityDays),
		TotalEarned:          policy.StarterCoinsAmount,
	}
}

// Credit adds amount to the balance and total earned.
func (w *Wallet) Credit(amount int64) error {
	if amount <= 0 {
		return ErrInvalidAmount
	}
	w.BalanceCoins += amount
	w.TotalEarned += amount
	return nil
}

// Debit removes amount from the balance, clamped at zero. TotalSpent records
// the full requested amount regardless of clamping.
func (w *Wallet) Debit(amount int64) error {
	if amount <= 0 {
		return ErrInvalidAmount
	}
	w.BalanceCoins -= amount
	if w.BalanceCoins < 0 {
		w.BalanceCoins = 0
	}
	w.TotalSpent += amount
	return nil
}

// ExpireStarterIfDue clears the starter-coin display bucket once its validity
// window passes. The main balance is untouched: starter coins were merged into
// it at provisioning and may already have been spent.
func (w *Wallet) ExpireStarterIfDue(now time.Time) bool {
	if w.StarterCoins == 0 || now.Before(w.StarterCoinsExpiryAt) {
		return false
	}
	w.StarterCoins = 0
	return true
}
