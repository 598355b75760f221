package model

import "github.com/golang-jwt/jwt/v5"

// AppClaims is the explicit claim schema shared by the token issuer and the
// verification middleware. The subject of the registered claims carries the
// user ID; the extra fields are there so downstream handlers can authorize
// without a database round trip.
type AppClaims struct {
	UserID   int    `json:"user_id"`
	Email    string `json:"email"`
	FullName string `json:"full_name"`
	Role     string `json:"role"`
	jwt.RegisteredClaims
}

// RefreshClaims is the minimal claim set embedded in refresh tokens.
// Only the subject (user ID) is carried; everything else about the session
// lives in the refresh_tokens table.
type RefreshClaims struct {
	jwt.RegisteredClaims
}
