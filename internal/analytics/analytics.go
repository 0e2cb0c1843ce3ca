package analytics

import (
	"time"

	"discovery_backend/internal/logger"
)

// Event is a named analytics event with a free-form property map and an
// optional user identifier.
type Event struct {
	Name       string         `json:"event"`
	Properties map[string]any `json:"properties,omitempty"`
	UserID     int64          `json:"user_id,omitempty"`
}

// Tracker is a fire-and-forget event sink. Events are queued on a buffered
// channel and drained by a single worker; when the queue is full the event is
// dropped. No delivery or retry guarantees.
type Tracker struct {
	events chan Event
	done   chan struct{}
}

func NewTracker(buffer int) *Tracker {
	if buffer <= 0 {
		buffer = 256
	}
	t := &Tracker{
		events: make(chan Event, buffer),
		done:   make(chan struct{}),
	}
	go t.run()
	return t
}

func (t *Tracker) run() {
	for ev := range t.events {
		// In production this forwards to the analytics provider.
		logger.Debug("analytics event", "event", ev.Name, "user_id", ev.UserID, "props", ev.Properties)
	}
	close(t.done)
}

// Close stops the worker after draining queued events.
func (t *Tracker) Close() {
	close(t.events)
	<-t.done
}

// Track queues a named event. Never blocks.
func (t *Tracker) Track(name string, props map[string]any, userID int64) {
	if props == nil {
		props = make(map[string]any)
	}
	props["timestamp"] = time.Now().UTC().Format(time.RFC3339)
	props["platform"] = "backend"

	select {
	case t.events <- Event{Name: name, Properties: props, UserID: userID}:
	default:
		logger.Warn("analytics queue full, dropping event", "event", name)
	}
}

func (t *Tracker) TrackSignup(method string, userID int64) {
	t.Track("user_signup", map[string]any{"method": method}, userID)
}

func (t *Tracker) TrackLogin(method string, userID int64) {
	t.Track("user_login", map[string]any{"method": method}, userID)
}

func (t *Tracker) TrackAdRewardStarted(userID int64) {
	t.Track("ad_reward_started", nil, userID)
}

func (t *Tracker) TrackAdRewardCompleted(coinsEarned int64, userID int64) {
	t.Track("ad_reward_completed", map[string]any{"coins_earned": coinsEarned}, userID)
}

func (t *Tracker) TrackCoinsSpent(amount int64, reason string, userID int64) {
	t.Track("coins_spent", map[string]any{"amount": amount, "reason": reason}, userID)
}

func (t *Tracker) TrackStreakClaimed(day int, coinsEarned int64, userID int64) {
	t.Track("streak_day_awarded", map[string]any{"day": day, "coins_earned": coinsEarned}, userID)
}

func (t *Tracker) TrackCallInitiated(calleeID int64, callType string, userID int64) {
	t.Track("call_initiated", map[string]any{"callee_id": calleeID, "call_type": callType}, userID)
}

func (t *Tracker) TrackFreeMinutesGranted(minutes, daysValid int, userID int64) {
	t.Track("free_minutes_granted", map[string]any{"minutes": minutes, "days_valid": daysValid}, userID)
}

func (t *Tracker) TrackFreeMinutesUsed(minutesUsed, minutesRemaining int, userID int64) {
	t.Track("free_minutes_used", map[string]any{"minutes_used": minutesUsed, "minutes_remaining": minutesRemaining}, userID)
}

func (t *Tracker) TrackFreeToPaidSwitch(freeMinutesUsed int, userID int64) {
	t.Track("free_to_paid_switch", map[string]any{"free_minutes_used": freeMinutesUsed}, userID)
}

func (t *Tracker) TrackCallEnded(durationSeconds, freeMinutesUsed int, coinsUsed int64, userID int64) {
	t.Track("call_ended", map[string]any{
		"duration":          durationSeconds,
		"free_minutes_used": freeMinutesUsed,
		"coins_used":        coinsUsed,
	}, userID)
}
