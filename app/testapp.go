// File: app/testapp.go
package app

import (
	"database/sql"
	"go-auth-api/config"
	"go-auth-api/handler"
	"go-auth-api/repository"
	"go-auth-api/router"
	"go-auth-api/service"
	"net/http"

	"github.com/redis/go-redis/v9"
)

// TestApp wires the full stack against externally provided connections so
// integration tests can drive the real router without the startup plumbing.
type TestApp struct {
	DB     *sql.DB
	Router http.Handler
}

func NewTestApp(db *sql.DB, redisClient *redis.Client) *TestApp {
	userRepo := repository.NewUserRepository(db)
	tokenRepo := repository.NewTokenRepository(db)

	jwtCfg := config.AppConfig.JWT
	tokenService := service.NewTokenService(tokenRepo, jwtCfg.SecretKey, jwtCfg.AccessTTL, jwtCfg.RefreshTTL)
	authService := service.NewAuthService(userRepo, tokenRepo, tokenService, redisClient)

	authHandler := handler.NewAuthHandler(authService)
	authMiddleware := handler.NewAuthMiddleware(tokenService)

	return &TestApp{
		DB:     db,
		Router: router.NewRouter(authHandler, authMiddleware),
	}
}
