// file: service/errors.go

package service

import "errors"

// Sentinel errors for the authentication flows. Handlers map these onto HTTP
// status codes; anything not in this list is treated as an internal failure.
var (
	// ErrEmailTaken is returned when registration hits an email that already
	// has an account, whether through the pre-check or the unique constraint.
	ErrEmailTaken = errors.New("email is already taken")

	// ErrInvalidCredentials covers both an unknown email and a wrong
	// password. The two cases are deliberately indistinguishable.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrInvalidOrExpiredToken is returned when a refresh token is not in
	// the store or its expiry has passed.
	ErrInvalidOrExpiredToken = errors.New("invalid or expired refresh token")

	// ErrUserNotFound is returned when a refresh token points at a user
	// record that no longer exists.
	ErrUserNotFound = errors.New("user not found")
)
