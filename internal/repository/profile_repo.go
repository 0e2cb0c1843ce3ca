package repository

import (
	"context"
	"errors"

	"discovery_backend/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type ProfileRepository struct {
	db *pgxpool.Pool
}

func NewProfileRepository(db *pgxpool.Pool) *ProfileRepository {
	return &ProfileRepository{db: db}
}

func (r *ProfileRepository) GetByDeviceID(ctx context.Context, deviceID string) (*domain.User, error) {
	row := r.db.QueryRow(ctx,
		`SELECT id, device_id, role, name, age, COALESCE(gender, ''), COALESCE(tier_city, ''),
		        COALESCE(languages, '{}'), kyc_status, is_online, rating, total_calls,
		        per_minute_rate, created_at, last_active_at
		 FROM users
		 WHERE device_id = $1`,
		deviceID,
	)
	return scanUser(row)
}

func (r *ProfileRepository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	row := r.db.QueryRow(ctx,
		`SELECT id, device_id, role, name, age, COALESCE(gender, ''), COALESCE(tier_city, ''),
		        COALESCE(languages, '{}'), kyc_status, is_online, rating, total_calls,
		        per_minute_rate, created_at, last_active_at
		 FROM users
		 WHERE id = $1`,
		id,
	)
	return scanUser(row)
}

func (r *ProfileRepository) Create(ctx context.Context, u *domain.User) error {
	return r.db.QueryRow(ctx,
		`INSERT INTO users (device_id, role, name, age, gender, tier_city, languages,
		                    kyc_status, is_online, per_minute_rate)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, true, $9)
		 RETURNING id, created_at, last_active_at`,
		u.DeviceID, u.Role, u.Name, u.Age, u.Gender, u.TierCity, u.Languages,
		u.KYCStatus, u.PerMinuteRate,
	).Scan(&u.ID, &u.CreatedAt, &u.LastActiveAt)
}

// ListOnlineCreators returns online creators for the discovery feed, ordered
// by rating.
func (r *ProfileRepository) ListOnlineCreators(ctx context.Context, limit int) ([]*domain.User, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, device_id, role, name, age, COALESCE(gender, ''), COALESCE(tier_city, ''),
		        COALESCE(languages, '{}'), kyc_status, is_online, rating, total_calls,
		        per_minute_rate, created_at, last_active_at
		 FROM users
		 WHERE role = 'creator' AND is_online = true AND kyc_status = 'verified'
		 ORDER BY rating DESC
		 LIMIT $1`,
		limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []*domain.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

func (r *ProfileRepository) SetOnline(ctx context.Context, userID int64, online bool) error {
	_, err := r.db.Exec(ctx,
		`UPDATE users SET is_online = $1, last_active_at = now() WHERE id = $2`,
		online, userID,
	)
	return err
}

func (r *ProfileRepository) IncrementTotalCalls(ctx context.Context, userID int64) error {
	_, err := r.db.Exec(ctx,
		`UPDATE users SET total_calls = total_calls + 1 WHERE id = $1`,
		userID,
	)
	return err
}

func (r *ProfileRepository) CountUsers(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM users`).Scan(&n)
	return n, err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (*domain.User, error) {
	var u domain.User
	err := row.Scan(
		&u.ID,
		&u.DeviceID,
		&u.Role,
		&u.Name,
		&u.Age,
		&u.Gender,
		&u.TierCity,
		&u.Languages,
		&u.KYCStatus,
		&u.IsOnline,
		&u.Rating,
		&u.TotalCalls,
		&u.PerMinuteRate,
		&u.CreatedAt,
		&u.LastActiveAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	return &u, nil
}
