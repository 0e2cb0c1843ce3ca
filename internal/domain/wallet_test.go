package domain

import (
	"testing"
	"time"
)

func TestWalletCredit(t *testing.T) {
	w := &Wallet{UserID: 1, BalanceCoins: 10, TotalEarned: 10}

	if err := w.Credit(25); err != nil {
		t.Fatalf("credit failed: %v", err)
	}
	if w.BalanceCoins != 35 {
		t.Fatalf("balance = %d; want 35", w.BalanceCoins)
	}
	if w.TotalEarned != 35 {
		t.Fatalf("total earned = %d; want 35", w.TotalEarned)
	}
	if w.TotalSpent != 0 {
		t.Fatalf("total spent = %d; want 0", w.TotalSpent)
	}
}

func TestWalletCreditInvalidAmount(t *testing.T) {
	w := &Wallet{BalanceCoins: 10}

	for _, amount := range []int64{0, -5} {
		if err := w.Credit(amount); err != ErrInvalidAmount {
			t.Fatalf("Credit(%d) = %v; want ErrInvalidAmount", amount, err)
		}
	}
	if w.BalanceCoins != 10 || w.TotalEarned != 0 {
		t.Fatalf("wallet mutated by rejected credit: %+v", w)
	}
}

func TestWalletDebit(t *testing.T) {
	w := &Wallet{BalanceCoins: 20}

	if err := w.Debit(15); err != nil {
		t.Fatalf("debit failed: %v", err)
	}
	if w.BalanceCoins != 5 {
		t.Fatalf("balance = %d; want 5", w.BalanceCoins)
	}
	if w.TotalSpent != 15 {
		t.Fatalf("total spent = %d; want 15", w.TotalSpent)
	}
}

func TestWalletDebitClampsAtZero(t *testing.T) {
	w := &Wallet{BalanceCoins: 7}

	if err := w.Debit(50); err != nil {
		t.Fatalf("debit failed: %v", err)
	}
	if w.BalanceCoins != 0 {
		t.Fatalf("balance = %d; want 0 (clamped)", w.BalanceCoins)
	}
	// TotalSpent records the full requested amount even when clamped.
	if w.TotalSpent != 50 {
		t.Fatalf("total spent = %d; want 50", w.TotalSpent)
	}
}

func TestWalletDebitInvalidAmount(t *testing.T) {
	w := &Wallet{BalanceCoins: 10}

	for _, amount := range []int64{0, -1} {
		if err := w.Debit(amount); err != ErrInvalidAmount {
			t.Fatalf("Debit(%d) = %v; want ErrInvalidAmount", amount, err)
		}
	}
	if w.BalanceCoins != 10 || w.TotalSpent != 0 {
		t.Fatalf("wallet mutated by rejected debit: %+v", w)
	}
}

func TestNewWalletStarterGrant(t *testing.T) {
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	policy := DefaultPolicy()

	w := NewWallet(7, policy, now)

	if w.BalanceCoins != policy.StarterCoinsAmount {
		t.Fatalf("balance = %d; want %d", w.BalanceCoins, policy.StarterCoinsAmount)
	}
	if w.StarterCoins != policy.StarterCoinsAmount {
		t.Fatalf("starter coins = %d; want %d", w.StarterCoins, policy.StarterCoinsAmount)
	}
	if w.TotalEarned != policy.StarterCoinsAmount {
		t.Fatalf("total earned = %d; want %d", w.TotalEarned, policy.StarterCoinsAmount)
	}
	wantExpiry := now.AddDate(0, 0, policy.StarterCoinsValidityDays)
	if !w.StarterCoinsExpiryAt.Equal(wantExpiry) {
		t.Fatalf("expiry = %v; want %v", w.StarterCoinsExpiryAt, wantExpiry)
	}
}

func TestWalletExpireStarter(t *testing.T) {
	now := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	w := NewWallet(1, DefaultPolicy(), now)

	if w.ExpireStarterIfDue(now.AddDate(0, 0, 3)) {
		t.Fatal("starter expired before validity window")
	}
	if !w.ExpireStarterIfDue(now.AddDate(0, 0, 8)) {
		t.Fatal("starter not expired after validity window")
	}
	if w.StarterCoins != 0 {
		t.Fatalf("starter coins = %d; want 0", w.StarterCoins)
	}
	// Balance untouched: starter was merged into it at provisioning.
	if w.BalanceCoins != 100 {
		t.Fatalf("balance = %d; want 100", w.BalanceCoins)
	}
	if w.ExpireStarterIfDue(now.AddDate(0, 0, 9)) {
		t.Fatal("second expiry should be a no-op")
	}
}
