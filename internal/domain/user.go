package domain

import "time"

type Role string

const (
	RoleUser      Role = "user"
	RoleCreator   Role = "creator"
	RoleModerator Role = "moderator"
	RoleAdmin     Role = "admin"
)

type KYCStatus string

const (
	KYCPending  KYCStatus = "pending"
	KYCVerified KYCStatus = "verified"
	KYCRejected KYCStatus = "rejected"
)

type User struct {
	ID            int64     `db:"id" json:"id"`
	DeviceID      string    `db:"device_id" json:"device_id"`
	Role          Role      `db:"role" json:"role"`
	Name          string    `db:"name" json:"name"`
	Age           int       `db:"age" json:"age"`
	Gender        string    `db:"gender" json:"gender"`
	TierCity      string    `db:"tier_city" json:"tier_city"`
	Languages     []string  `db:"languages" json:"languages"`
	KYCStatus     KYCStatus `db:"kyc_status" json:"kyc_status"`
	IsOnline      bool      `db:"is_online" json:"is_online"`
	Rating        float64   `db:"rating" json:"rating"`
	TotalCalls    int64     `db:"total_calls" json:"total_calls"`
	PerMinuteRate int64     `db:"per_minute_rate" json:"per_minute_rate"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
	LastActiveAt  time.Time `db:"last_active_at" json:"last_active_at"`
}
