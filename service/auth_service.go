// file: service/auth_service.go

package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"go-auth-api/logger"
	"go-auth-api/model"
	"go-auth-api/repository"
	"time"

	"github.com/lib/pq"
	"golang.org/x/crypto/bcrypt"
)

const (
	uniqueViolationCode = "23505"
	userCacheTTL        = 10 * time.Minute
)

// AuthService orchestrates registration, login and the refresh-token
// exchange on top of the repositories and the token issuer.
type AuthService struct {
	userRepo  repository.IUserRepository
	tokenRepo repository.ITokenRepository
	tokens    *TokenService
	cache     ICacheClient
	now       func() time.Time
}

// NewAuthService creates a new AuthService. The cache client may be nil, in
// which case user lookups on the refresh path always hit the database.
func NewAuthService(userRepo repository.IUserRepository, tokenRepo repository.ITokenRepository, tokens *TokenService, cache ICacheClient) *AuthService {
	return &AuthService{
		userRepo:  userRepo,
		tokenRepo: tokenRepo,
		tokens:    tokens,
		cache:     cache,
		now:       time.Now,
	}
}

// WithClock overrides the service clock for expiry checks in tests.
func (s *AuthService) WithClock(now func() time.Time) *AuthService {
	s.now = now
	return s
}

func (s *AuthService) HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		logger.Log.WithError(err).Error("Failed to hash password")
		return "", err
	}
	return string(bytes), nil
}

func (s *AuthService) CheckPasswordHash(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}

// Register creates a new user and signs them in. A duplicate email fails
// with ErrEmailTaken whether it is caught by the pre-check or by the unique
// constraint racing a concurrent registration.
func (s *AuthService) Register(req *model.RegisterRequest) (*model.AuthResponse, error) {
	_, err := s.userRepo.GetUserByEmail(req.Email)
	if err == nil {
		return nil, ErrEmailTaken
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("failed to check existing email: %w", err)
	}

	hashedPassword, err := s.HashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	user := &model.User{
		FullName: req.FullName,
		Email:    req.Email,
		Password: hashedPassword,
		Role:     string(model.RoleUser),
	}

	if err := s.userRepo.CreateUser(user); err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolationCode {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	logger.Log.WithField("user_id", user.ID).Info("New user registered")
	return s.issueTokens(user)
}

// Login verifies the submitted credentials and signs the user in. Unknown
// email and wrong password are reported identically.
func (s *AuthService) Login(req *model.LoginRequest) (*model.AuthResponse, error) {
	user, err := s.userRepo.GetUserByEmail(req.Email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	if !s.CheckPasswordHash(req.Password, user.Password) {
		return nil, ErrInvalidCredentials
	}

	logger.Log.WithField("user_id", user.ID).Info("User logged in")
	return s.issueTokens(user)
}

// RefreshAccessToken exchanges a stored, unexpired refresh token for a new
// access token. The refresh token is not rotated; it stays valid until its
// own expiry. Expired rows are rejected here, not deleted.
func (s *AuthService) RefreshAccessToken(refreshToken string) (*model.RefreshResponse, error) {
	record, err := s.tokenRepo.GetByToken(refreshToken)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrInvalidOrExpiredToken
		}
		return nil, fmt.Errorf("failed to look up refresh token: %w", err)
	}

	if record.ExpiresAt.Before(s.now()) {
		return nil, ErrInvalidOrExpiredToken
	}

	user, err := s.resolveUser(record.UserID)
	if err != nil {
		return nil, err
	}

	accessToken, err := s.tokens.GenerateAccessToken(user)
	if err != nil {
		return nil, err
	}

	return &model.RefreshResponse{AccessToken: accessToken}, nil
}

// Logout invalidates every refresh token the user owns.
func (s *AuthService) Logout(userID int) error {
	return s.tokenRepo.DeleteByUserID(userID)
}

// ListUsers returns all registered users. Authorization is the caller's
// concern; the route is gated to admins.
func (s *AuthService) ListUsers() ([]*model.User, error) {
	return s.userRepo.GetAllUsers()
}

// issueTokens mints the access/refresh pair for a freshly authenticated
// user. The password hash is cleared before the user is placed in the
// response payload.
func (s *AuthService) issueTokens(user *model.User) (*model.AuthResponse, error) {
	accessToken, err := s.tokens.GenerateAccessToken(user)
	if err != nil {
		return nil, err
	}

	refreshToken, err := s.tokens.GenerateRefreshToken(user)
	if err != nil {
		return nil, err
	}

	user.Password = ""
	return &model.AuthResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		User:         user,
	}, nil
}

// resolveUser loads the owning user of a refresh token, going through the
// cache first. Refreshes arrive every few minutes per client, so the user
// row is a natural cache candidate.
func (s *AuthService) resolveUser(userID int) (*model.User, error) {
	cacheKey := fmt.Sprintf("user:%d", userID)
	ctx := context.Background()

	if s.cache != nil {
		if cached, err := s.cache.Get(ctx, cacheKey).Result(); err == nil {
			var user model.User
			if err := json.Unmarshal([]byte(cached), &user); err == nil {
				return &user, nil
			}
		}
	}

	user, err := s.userRepo.GetUserByID(userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			// The refresh token outlived its user; the row is dangling.
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to resolve refresh token owner: %w", err)
	}

	if s.cache != nil {
		if data, err := json.Marshal(user); err == nil {
			s.cache.Set(ctx, cacheKey, data, userCacheTTL)
		}
	}

	return user, nil
}
