package router

import (
	"go-auth-api/handler"
	"net/http"

	httpSwagger "github.com/swaggo/http-swagger/v2"

	_ "go-auth-api/docs"
)

func NewRouter(authHandler *handler.AuthHandler, authMiddleware *handler.AuthMiddleware) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/health", handler.HealthCheck)
	mux.Handle("/swagger/", httpSwagger.WrapHandler)

	mux.Handle("/auth/register", handler.ErrorHandlingMiddleware(authHandler.Register))
	mux.Handle("/auth/login", handler.ErrorHandlingMiddleware(authHandler.Login))
	mux.Handle("/auth/refresh-token", handler.ErrorHandlingMiddleware(authHandler.RefreshToken))

	// Protected routes sit behind the authentication boundary.
	mux.Handle("/auth/user", authMiddleware.Handle(handler.ErrorHandlingMiddleware(authHandler.CurrentUser)))
	mux.Handle("/auth/logout", authMiddleware.Handle(handler.ErrorHandlingMiddleware(authHandler.Logout)))

	// Admin-only routes add the role gate on top of authentication.
	mux.Handle("/auth/users", authMiddleware.Handle(handler.AdminMiddleware(handler.ErrorHandlingMiddleware(authHandler.ListUsers))))

	return mux
}
