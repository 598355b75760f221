// file: service/auth_service_test.go

package service

import (
	"database/sql"
	"go-auth-api/model"
	"testing"
	"time"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type mockUserRepo struct{ mock.Mock }

func (m *mockUserRepo) CreateUser(user *model.User) error {
	args := m.Called(user)
	return args.Error(0)
}

func (m *mockUserRepo) GetUserByEmail(email string) (*model.User, error) {
	args := m.Called(email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *mockUserRepo) GetUserByID(id int) (*model.User, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *mockUserRepo) GetAllUsers() ([]*model.User, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.User), args.Error(1)
}

func newTestAuthService(userRepo *mockUserRepo, tokenRepo *mockTokenRepo) *AuthService {
	tokens := NewTokenService(tokenRepo, "test-secret", 15*time.Minute, 7*24*time.Hour)
	return NewAuthService(userRepo, tokenRepo, tokens, nil)
}

// TestAuthService_HashAndCheckPassword ensures that password hashing and verification methods work correctly.
func TestAuthService_HashAndCheckPassword(t *testing.T) {
	// Hashing has no repository dependencies, so nil collaborators are fine here.
	authService := NewAuthService(nil, nil, nil, nil)
	password := "mySecretPassword123"

	hashedPassword, err := authService.HashPassword(password)
	if err != nil {
		t.Fatalf("authService.HashPassword() returned an unexpected error: %v", err)
	}

	if hashedPassword == password {
		t.Errorf("Hashed password should not be the same as the original password.")
	}

	match := authService.CheckPasswordHash(password, hashedPassword)
	if !match {
		t.Errorf("authService.CheckPasswordHash() should have returned true for a matching password, but got false.")
	}

	wrongPassword := "notMyPassword"
	match = authService.CheckPasswordHash(wrongPassword, hashedPassword)
	if match {
		t.Errorf("authService.CheckPasswordHash() should have returned false for a non-matching password, but got true.")
	}
}

func TestAuthService_Register(t *testing.T) {
	registerReq := &model.RegisterRequest{
		FullName: "Ada Lovelace",
		Email:    "ada@example.com",
		Password: "secret123",
	}

	t.Run("success", func(t *testing.T) {
		userRepo := new(mockUserRepo)
		tokenRepo := new(mockTokenRepo)
		authService := newTestAuthService(userRepo, tokenRepo)

		userRepo.On("GetUserByEmail", "ada@example.com").Return(nil, sql.ErrNoRows).Once()
		userRepo.On("CreateUser", mock.MatchedBy(func(u *model.User) bool {
			// The stored password must be a hash, never the plaintext.
			return u.Email == "ada@example.com" && u.Password != "secret123" && u.Role == "user"
		})).Run(func(args mock.Arguments) {
			args.Get(0).(*model.User).ID = 7
		}).Return(nil).Once()
		tokenRepo.On("Create", mock.Anything).Return(nil).Once()

		resp, err := authService.Register(registerReq)

		assert.NoError(t, err)
		assert.NotEmpty(t, resp.AccessToken)
		assert.NotEmpty(t, resp.RefreshToken)
		assert.Equal(t, "ada@example.com", resp.User.Email)
		assert.Empty(t, resp.User.Password, "password hash must never leave the service")
		userRepo.AssertExpectations(t)
		tokenRepo.AssertExpectations(t)
	})

	t.Run("duplicate email caught by pre-check", func(t *testing.T) {
		userRepo := new(mockUserRepo)
		authService := newTestAuthService(userRepo, new(mockTokenRepo))

		userRepo.On("GetUserByEmail", "ada@example.com").
			Return(&model.User{ID: 1, Email: "ada@example.com"}, nil).Once()

		_, err := authService.Register(registerReq)

		assert.ErrorIs(t, err, ErrEmailTaken)
		userRepo.AssertNotCalled(t, "CreateUser")
	})

	t.Run("duplicate email caught by unique constraint", func(t *testing.T) {
		// Simulates losing the race between the existence check and the
		// insert: the constraint violation must map to the same failure.
		userRepo := new(mockUserRepo)
		authService := newTestAuthService(userRepo, new(mockTokenRepo))

		userRepo.On("GetUserByEmail", "ada@example.com").Return(nil, sql.ErrNoRows).Once()
		userRepo.On("CreateUser", mock.Anything).Return(&pq.Error{Code: "23505"}).Once()

		_, err := authService.Register(registerReq)

		assert.ErrorIs(t, err, ErrEmailTaken)
		userRepo.AssertExpectations(t)
	})
}

func TestAuthService_Login(t *testing.T) {
	authForHash := NewAuthService(nil, nil, nil, nil)
	hashed, _ := authForHash.HashPassword("secret123")
	storedUser := func() *model.User {
		return &model.User{ID: 7, FullName: "Ada Lovelace", Email: "ada@example.com", Password: hashed, Role: "user"}
	}

	t.Run("success", func(t *testing.T) {
		userRepo := new(mockUserRepo)
		tokenRepo := new(mockTokenRepo)
		authService := newTestAuthService(userRepo, tokenRepo)

		userRepo.On("GetUserByEmail", "ada@example.com").Return(storedUser(), nil).Once()
		tokenRepo.On("Create", mock.Anything).Return(nil).Once()

		resp, err := authService.Login(&model.LoginRequest{Email: "ada@example.com", Password: "secret123"})

		assert.NoError(t, err)
		assert.NotEmpty(t, resp.AccessToken)
		assert.NotEmpty(t, resp.RefreshToken)
		assert.Empty(t, resp.User.Password)
	})

	t.Run("wrong password", func(t *testing.T) {
		userRepo := new(mockUserRepo)
		authService := newTestAuthService(userRepo, new(mockTokenRepo))

		userRepo.On("GetUserByEmail", "ada@example.com").Return(storedUser(), nil).Once()

		_, err := authService.Login(&model.LoginRequest{Email: "ada@example.com", Password: "wrong"})

		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("unknown email", func(t *testing.T) {
		userRepo := new(mockUserRepo)
		authService := newTestAuthService(userRepo, new(mockTokenRepo))

		userRepo.On("GetUserByEmail", "nobody@example.com").Return(nil, sql.ErrNoRows).Once()

		_, err := authService.Login(&model.LoginRequest{Email: "nobody@example.com", Password: "secret123"})

		// Unknown email and wrong password must be indistinguishable.
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})
}

func TestAuthService_RefreshAccessToken(t *testing.T) {
	storedUser := &model.User{ID: 7, FullName: "Ada Lovelace", Email: "ada@example.com", Role: "user"}

	t.Run("success issues a new access token only", func(t *testing.T) {
		userRepo := new(mockUserRepo)
		tokenRepo := new(mockTokenRepo)
		authService := newTestAuthService(userRepo, tokenRepo)

		tokenRepo.On("GetByToken", "stored-token").Return(&model.RefreshToken{
			Token:     "stored-token",
			UserID:    7,
			ExpiresAt: time.Now().Add(24 * time.Hour),
		}, nil).Once()
		userRepo.On("GetUserByID", 7).Return(storedUser, nil).Once()

		resp, err := authService.RefreshAccessToken("stored-token")

		assert.NoError(t, err)
		assert.NotEmpty(t, resp.AccessToken)
		// The refresh token is not rotated, so no new row may be written.
		tokenRepo.AssertNotCalled(t, "Create")
	})

	t.Run("token absent from store", func(t *testing.T) {
		tokenRepo := new(mockTokenRepo)
		authService := newTestAuthService(new(mockUserRepo), tokenRepo)

		tokenRepo.On("GetByToken", "unknown-token").Return(nil, sql.ErrNoRows).Once()

		_, err := authService.RefreshAccessToken("unknown-token")

		assert.ErrorIs(t, err, ErrInvalidOrExpiredToken)
	})

	t.Run("token past its expiry", func(t *testing.T) {
		tokenRepo := new(mockTokenRepo)
		issuedAt := time.Now()
		authService := newTestAuthService(new(mockUserRepo), tokenRepo).
			WithClock(func() time.Time { return issuedAt.Add(7*24*time.Hour + time.Minute) })

		// The row is present and well-formed; only the clock disqualifies it.
		tokenRepo.On("GetByToken", "expired-token").Return(&model.RefreshToken{
			Token:     "expired-token",
			UserID:    7,
			ExpiresAt: issuedAt.Add(7 * 24 * time.Hour),
		}, nil).Once()

		_, err := authService.RefreshAccessToken("expired-token")

		assert.ErrorIs(t, err, ErrInvalidOrExpiredToken)
	})

	t.Run("dangling token after user deletion", func(t *testing.T) {
		userRepo := new(mockUserRepo)
		tokenRepo := new(mockTokenRepo)
		authService := newTestAuthService(userRepo, tokenRepo)

		tokenRepo.On("GetByToken", "orphan-token").Return(&model.RefreshToken{
			Token:     "orphan-token",
			UserID:    99,
			ExpiresAt: time.Now().Add(24 * time.Hour),
		}, nil).Once()
		userRepo.On("GetUserByID", 99).Return(nil, sql.ErrNoRows).Once()

		_, err := authService.RefreshAccessToken("orphan-token")

		assert.ErrorIs(t, err, ErrUserNotFound)
	})
}

func TestAuthService_Logout(t *testing.T) {
	tokenRepo := new(mockTokenRepo)
	authService := newTestAuthService(new(mockUserRepo), tokenRepo)

	tokenRepo.On("DeleteByUserID", 7).Return(nil).Once()

	err := authService.Logout(7)

	assert.NoError(t, err)
	tokenRepo.AssertExpectations(t)
}
