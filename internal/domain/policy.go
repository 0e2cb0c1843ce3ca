package domain

// streakFallbackCoins is awarded for any streak day beyond the configured table.
const streakFallbackCoins = 10

// RewardPolicy holds the reward and billing thresholds consumed by the wallet,
// free-minutes, streak and call-billing components.
type RewardPolicy struct {
	StarterCoinsAmount       int64           `json:"starter_coins_amount"`
	StarterCoinsValidityDays int             `json:"starter_coins_validity_days"`
	CoinsPerAd               int64           `json:"coins_per_ad"`
	DailyAdCap               int             `json:"daily_ad_cap"`
	AdCooldownSeconds        int             `json:"ad_cooldown_seconds"`
	StreakCoinTable          map[int]int64   `json:"streak_coin_table"`
	FreeMinutesPerDay        int             `json:"free_minutes_per_day"`
	FreeMinutesValidityDays  int             `json:"free_minutes_validity_days"`
	DefaultPerMinuteRate     int64           `json:"default_per_minute_rate"`
}

// StreakCoins returns the reward for the given streak day. Days not present in
// the table resolve to a fixed fallback of 10 coins.
func (p *RewardPolicy) StreakCoins(day int) int64 {
	if coins, ok := p.StreakCoinTable[day]; ok {
		return coins
	}
	return streakFallbackCoins
}

// DefaultPolicy returns the production reward policy.
func DefaultPolicy() RewardPolicy {
	return RewardPolicy{
		StarterCoinsAmount:       100,
		StarterCoinsValidityDays: 7,
		CoinsPerAd:               5,
		DailyAdCap:               10,
		AdCooldownSeconds:        30,
		StreakCoinTable: map[int]int64{
			1: 5, 2: 10, 3: 15, 4: 20, 5: 25, 6: 30, 7: 50,
		},
		FreeMinutesPerDay:       5,
		FreeMinutesValidityDays: 7,
		DefaultPerMinuteRate:    5,
	}
}
