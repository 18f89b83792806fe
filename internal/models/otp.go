package models

import "time"

// Otp is the one live second-factor code for a user. Upserts replace the
// previous code; rows older than the TTL are treated as gone.
type Otp struct {
	ID        int       `json:"id"`
	UserID    int       `json:"user_id"`
	Code      string    `json:"-"`
	CreatedAt time.Time `json:"created_at"`
}
