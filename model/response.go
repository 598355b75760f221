// file: model/response.go

package model

// AuthResponse is returned by both registration and login: a freshly issued
// token pair plus the user it belongs to. The user's password hash is
// stripped before this struct is ever populated.
type AuthResponse struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
	User         *User  `json:"user"`
}

// RefreshResponse is returned by the refresh-token exchange. Only a new
// access token is issued; the refresh token itself is not rotated.
type RefreshResponse struct {
	AccessToken string `json:"accessToken"`
}
