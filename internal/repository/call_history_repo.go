package repository

import (
	"context"

	"discovery_backend/internal/domain"

	"github.com/jackc/pgx/v5/pgxpool"
)

type CallHistoryRepository struct {
	db *pgxpool.Pool
}

func NewCallHistoryRepository(db *pgxpool.Pool) *CallHistoryRepository {
	return &CallHistoryRepository{db: db}
}

func (r *CallHistoryRepository) Create(ctx context.Context, rec *domain.CallRecord) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO call_history
		   (id, caller_id, callee_id, type, start_at, end_at, duration_seconds,
		    per_minute_rate, coins_debited, free_minutes_used, status)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		rec.ID, rec.CallerID, rec.CalleeID, rec.Type, rec.StartAt, rec.EndAt,
		rec.DurationSeconds, rec.PerMinuteRate, rec.CoinsDebited,
		rec.FreeMinutesUsed, rec.Status,
	)
	return err
}

func (r *CallHistoryRepository) GetByUserID(ctx context.Context, userID int64, limit int) ([]*domain.CallRecord, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, caller_id, callee_id, type, start_at, end_at, duration_seconds,
		        per_minute_rate, coins_debited, free_minutes_used, status
		 FROM call_history
		 WHERE caller_id = $1 OR callee_id = $1
		 ORDER BY start_at DESC
		 LIMIT $2`,
		userID, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []*domain.CallRecord
	for rows.Next() {
		var rec domain.CallRecord
		if err := rows.Scan(
			&rec.ID, &rec.CallerID, &rec.CalleeID, &rec.Type, &rec.StartAt,
			&rec.EndAt, &rec.DurationSeconds, &rec.PerMinuteRate,
			&rec.CoinsDebited, &rec.FreeMinutesUsed, &rec.Status,
		); err != nil {
			return nil, err
		}
		records = append(records, &rec)
	}
	return records, rows.Err()
}

// SetRating stores a post-call rating from either side of the call.
func (r *CallHistoryRepository) SetRating(ctx context.Context, callID string, userID int64, rating int) error {
	_, err := r.db.Exec(ctx,
		`UPDATE call_history
		 SET rating_caller = CASE WHEN caller_id = $2 THEN $3 ELSE rating_caller END,
		     rating_callee = CASE WHEN callee_id = $2 THEN $3 ELSE rating_callee END
		 WHERE id = $1 AND (caller_id = $2 OR callee_id = $2)`,
		callID, userID, rating,
	)
	return err
}

// CallStats aggregates platform-wide billing totals for the admin dashboard.
type CallStats struct {
	TotalCalls           int64 `json:"total_calls"`
	TotalCoinsDebited    int64 `json:"total_coins_debited"`
	TotalFreeMinutesUsed int64 `json:"total_free_minutes_used"`
	TotalCallSeconds     int64 `json:"total_call_seconds"`
}

func (r *CallHistoryRepository) Stats(ctx context.Context) (*CallStats, error) {
	var s CallStats
	err := r.db.QueryRow(ctx,
		`SELECT COUNT(*),
		        COALESCE(SUM(coins_debited), 0),
		        COALESCE(SUM(free_minutes_used), 0),
		        COALESCE(SUM(duration_seconds), 0)
		 FROM call_history`,
	).Scan(&s.TotalCalls, &s.TotalCoinsDebited, &s.TotalFreeMinutesUsed, &s.TotalCallSeconds)
	if err != nil {
		return nil, err
	}
	return &s, nil
}
