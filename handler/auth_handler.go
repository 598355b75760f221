// file: handler/auth_handler.go

package handler

import (
	"encoding/json"
	"errors"
	"go-auth-api/common"
	"go-auth-api/logger"
	"go-auth-api/model"
	"go-auth-api/service"
	"net/http"
)

type AuthHandler struct {
	service *service.AuthService
}

func NewAuthHandler(service *service.AuthService) *AuthHandler {
	return &AuthHandler{service: service}
}

// Register godoc
// @Summary      Register a new user
// @Description  Creates an account and returns a token pair plus the user profile
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body model.RegisterRequest true "Registration payload"
// @Success      201  {object}  model.AuthResponse
// @Failure      400  {object}  common.AppError
// @Router       /auth/register [post]
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) *common.AppError {
	var req model.RegisterRequest
	if !common.ValidateAndDecode(w, r, &req) {
		return nil
	}

	log := logger.Log.WithField("email", req.Email)
	log.Info("Register request received")

	resp, err := h.service.Register(&req)
	if err != nil {
		if errors.Is(err, service.ErrEmailTaken) {
			return common.NewAppError(http.StatusBadRequest, "Registration failed", nil).WithDetails(err.Error())
		}
		return common.NewAppError(http.StatusInternalServerError, "Registration failed", err)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(resp)

	return nil
}

// Login godoc
// @Summary      Authenticate a user
// @Description  Verifies credentials and returns a token pair plus the user profile
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body model.LoginRequest true "Login payload"
// @Success      200  {object}  model.AuthResponse
// @Failure      401  {object}  common.AppError
// @Router       /auth/login [post]
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) *common.AppError {
	var req model.LoginRequest
	if !common.ValidateAndDecode(w, r, &req) {
		return nil
	}

	resp, err := h.service.Login(&req)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			// Generic on purpose: the caller must not learn whether the
			// email exists.
			return common.NewAppError(http.StatusUnauthorized, "Invalid credentials", nil)
		}
		return common.NewAppError(http.StatusInternalServerError, "Login failed", err)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(resp)

	return nil
}

// RefreshToken godoc
// @Summary      Exchange a refresh token
// @Description  Returns a new access token for a valid, unexpired refresh token
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body model.RefreshTokenRequest true "Refresh payload"
// @Success      200  {object}  model.RefreshResponse
// @Failure      401  {object}  common.AppError
// @Router       /auth/refresh-token [post]
func (h *AuthHandler) RefreshToken(w http.ResponseWriter, r *http.Request) *common.AppError {
	var req model.RefreshTokenRequest
	if !common.ValidateAndDecode(w, r, &req) {
		return nil
	}

	resp, err := h.service.RefreshAccessToken(req.RefreshToken)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidOrExpiredToken), errors.Is(err, service.ErrUserNotFound):
			return common.NewAppError(http.StatusUnauthorized, "Invalid or expired refresh token", nil)
		default:
			return common.NewAppError(http.StatusInternalServerError, "Could not refresh token", err)
		}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(resp)

	return nil
}

// CurrentUser godoc
// @Summary      Get the current user
// @Description  Reflects the claims bound to the verified access token
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  model.AppClaims
// @Failure      401  {object}  common.AppError
// @Router       /auth/user [get]
func (h *AuthHandler) CurrentUser(w http.ResponseWriter, r *http.Request) *common.AppError {
	claims, ok := r.Context().Value(ClaimsKey).(*model.AppClaims)
	if !ok {
		return common.NewAppError(http.StatusUnauthorized, "Invalid token claims", nil)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"id":        claims.UserID,
		"email":     claims.Email,
		"full_name": claims.FullName,
		"role":      claims.Role,
	})

	return nil
}

// ListUsers godoc
// @Summary      List all users
// @Description  Returns every registered user; requires the admin role
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   model.User
// @Failure      401  {object}  common.AppError
// @Failure      403  {object}  common.AppError
// @Router       /auth/users [get]
func (h *AuthHandler) ListUsers(w http.ResponseWriter, r *http.Request) *common.AppError {
	users, err := h.service.ListUsers()
	if err != nil {
		return common.NewAppError(http.StatusInternalServerError, "Could not retrieve users", err)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(users)

	return nil
}

// Logout godoc
// @Summary      Log out of all sessions
// @Description  Invalidates every refresh token owned by the current user
// @Tags         auth
// @Security     BearerAuth
// @Success      204
// @Failure      401  {object}  common.AppError
// @Router       /auth/logout [post]
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) *common.AppError {
	userID, ok := r.Context().Value(UserIDKey).(int)
	if !ok {
		return common.NewAppError(http.StatusUnauthorized, "Invalid user ID in token", nil)
	}

	if err := h.service.Logout(userID); err != nil {
		return common.NewAppError(http.StatusInternalServerError, "Could not log out", err)
	}

	w.WriteHeader(http.StatusNoContent)
	return nil
}
