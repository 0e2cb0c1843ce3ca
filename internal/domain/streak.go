package domain

import "time"

// DailyStreak counts consecutive calendar-day reward claims. A missed day does
// not reset the count: the streak only ever advances on an explicit claim.
type DailyStreak struct {
	UserID          int64     `json:"user_id"`
	CurrentStreak   int       `json:"current_streak"`
	LongestStreak   int       `json:"longest_streak"`
	LastClaimedDate time.Time `json:"last_claimed_date"`
	StreakStartDate time.Time `json:"streak_start_date"`
}

func NewDailyStreak(userID int64, now time.Time) *DailyStreak {
	return &DailyStreak{
		UserID:          userID,
		StreakStartDate: now,
	}
}

// IsClaimable reports whether the streak reward can be claimed today. Claims
// are limited to one per calendar day.
func (s *DailyStreak) IsClaimable(today time.Time) bool {
	return !sameCalendarDay(s.LastClaimedDate, today)
}

// Claim advances the streak by one day and returns the coin reward for the new
// day per the policy table. The caller is responsible for crediting the wallet.
func (s *DailyStreak) Claim(today time.Time, policy RewardPolicy) (int64, error) {
	if !s.IsClaimable(today) {
		return 0, ErrAlreadyClaimedToday
	}
	nextDay := s.CurrentStreak + 1
	coins := policy.StreakCoins(nextDay)
	s.CurrentStreak = nextDay
	if nextDay > s.LongestStreak {
		s.LongestStreak = nextDay
	}
	s.LastClaimedDate = today
	return coins, nil
}
