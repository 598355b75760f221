// file: model/token.go

package model

import "time"

// RefreshToken holds the data for a refresh token in the database.
// The token value itself is the lookup key; uniqueness is enforced by the
// storage layer. Expired rows are never deleted, they are rejected at
// read time by comparing ExpiresAt against the clock.
type RefreshToken struct {
	ID        int       `json:"id"`
	Token     string    `json:"-"` // The token value is not exposed in JSON responses.
	UserID    int       `json:"user_id"`
	ExpiresAt time.Time `json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
}
