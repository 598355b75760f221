// file: service/token_service.go

package service

import (
	"fmt"
	"go-auth-api/logger"
	"go-auth-api/model"
	"go-auth-api/repository"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// TokenService mints and verifies the two token kinds. Both are signed with
// the same secret; access tokens carry the full claim schema, refresh tokens
// only the subject. The signing secret and lifetimes are injected at
// construction instead of being read from global configuration.
type TokenService struct {
	tokenRepo  repository.ITokenRepository
	secretKey  []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
	now        func() time.Time
}

// NewTokenService creates a new TokenService.
func NewTokenService(tokenRepo repository.ITokenRepository, secretKey string, accessTTL, refreshTTL time.Duration) *TokenService {
	return &TokenService{
		tokenRepo:  tokenRepo,
		secretKey:  []byte(secretKey),
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
		now:        time.Now,
	}
}

// WithClock overrides the service clock. Tests use this to drive tokens
// across their expiry without sleeping.
func (s *TokenService) WithClock(now func() time.Time) *TokenService {
	s.now = now
	return s
}

// GenerateAccessToken signs a short-lived access token for the user.
// The jti claim guarantees two tokens for the same user are never equal,
// even when issued within the same second.
func (s *TokenService) GenerateAccessToken(user *model.User) (string, error) {
	issuedAt := s.now()

	claims := &model.AppClaims{
		UserID:   user.ID,
		Email:    user.Email,
		FullName: user.FullName,
		Role:     user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.Itoa(user.ID),
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(issuedAt.Add(s.accessTTL)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(s.secretKey)
	if err != nil {
		logger.Log.WithError(err).WithField("user_id", user.ID).Error("Failed to sign access token")
		return "", fmt.Errorf("failed to sign access token: %w", err)
	}

	return tokenString, nil
}

// GenerateRefreshToken signs a long-lived refresh token for the user and
// persists it. Every call produces a brand-new row; previously issued
// refresh tokens stay valid until they expire.
func (s *TokenService) GenerateRefreshToken(user *model.User) (string, error) {
	issuedAt := s.now()
	expiresAt := issuedAt.Add(s.refreshTTL)

	claims := &model.RefreshClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.Itoa(user.ID),
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(s.secretKey)
	if err != nil {
		logger.Log.WithError(err).WithField("user_id", user.ID).Error("Failed to sign refresh token")
		return "", fmt.Errorf("failed to sign refresh token: %w", err)
	}

	record := &model.RefreshToken{
		Token:     tokenString,
		UserID:    user.ID,
		ExpiresAt: expiresAt,
	}
	if err := s.tokenRepo.Create(record); err != nil {
		return "", fmt.Errorf("failed to persist refresh token: %w", err)
	}

	return tokenString, nil
}

// ParseAccessToken verifies the signature and expiry of an access token and
// returns its claims.
func (s *TokenService) ParseAccessToken(tokenString string) (*model.AppClaims, error) {
	claims := &model.AppClaims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return s.secretKey, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(s.now))
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, jwt.ErrTokenInvalidClaims
	}

	return claims, nil
}
