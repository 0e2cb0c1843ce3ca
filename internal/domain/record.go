package domain

import "time"

type CallRecordStatus string

const (
	CallRecordEnded  CallRecordStatus = "ended"
	CallRecordFailed CallRecordStatus = "failed"
)

// CallRecord is the persisted history row written once a call session reaches
// its terminal state.
type CallRecord struct {
	ID              string           `db:"id" json:"id"`
	CallerID        int64            `db:"caller_id" json:"caller_id"`
	CalleeID        int64            `db:"callee_id" json:"callee_id"`
	Type            CallType         `db:"type" json:"type"`
	StartAt         time.Time        `db:"start_at" json:"start_at"`
	EndAt           time.Time        `db:"end_at" json:"end_at"`
	DurationSeconds int              `db:"duration_seconds" json:"duration_seconds"`
	PerMinuteRate   int64            `db:"per_minute_rate" json:"per_minute_rate"`
	CoinsDebited    int64            `db:"coins_debited" json:"coins_debited"`
	FreeMinutesUsed int              `db:"free_minutes_used" json:"free_minutes_used"`
	RatingCaller    *int             `db:"rating_caller" json:"rating_caller,omitempty"`
	RatingCallee    *int             `db:"rating_callee" json:"rating_callee,omitempty"`
	Status          CallRecordStatus `db:"status" json:"status"`
}
