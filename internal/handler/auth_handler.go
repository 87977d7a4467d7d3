package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/swapmarket/swapmarket-backend/internal/middleware"
	"github.com/swapmarket/swapmarket-backend/internal/model"
	"github.com/swapmarket/swapmarket-backend/internal/service"
)

type AuthHandler struct {
	svc service.AuthService
}

func NewAuthHandler(svc service.AuthService) *AuthHandler {
	return &AuthHandler{svc: svc}
}

type SignUpRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type SignInRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type SessionResponse struct {
	User  model.User `json:"user"`
	Token string     `json:"token"`
}

func (h *AuthHandler) SignUp(c echo.Context) error {
	var req SignUpRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid json"))
	}
	user, token, err := h.svc.SignUp(c.Request().Context(), req.Name, req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrAccountExists) {
			return c.JSON(http.StatusConflict, NewErrorResponse("account_exists", "an account with this email already exists"))
		}
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", err.Error()))
	}
	return c.JSON(http.StatusCreated, SessionResponse{User: *user, Token: token})
}

func (h *AuthHandler) SignIn(c echo.Context) error {
	var req SignInRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid json"))
	}
	user, token, err := h.svc.SignIn(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrAccountNotFound) {
			return c.JSON(http.StatusNotFound, NewErrorResponse("account_not_found", "no account with this email"))
		}
		if errors.Is(err, service.ErrInvalidCredentials) {
			return c.JSON(http.StatusUnauthorized, NewErrorResponse("invalid_credentials", "email or password is incorrect"))
		}
		return c.JSON(http.StatusInternalServerError, NewErrorResponse("internal_error", "failed to sign in"))
	}
	return c.JSON(http.StatusOK, SessionResponse{User: *user, Token: token})
}

func (h *AuthHandler) Me(c echo.Context) error {
	return c.JSON(http.StatusOK, middleware.CurrentUser(c))
}

type UpdateProfileRequest struct {
	Name   string `json:"name"`
	Avatar string `json:"avatar"`
}

func (h *AuthHandler) UpdateProfile(c echo.Context) error {
	user := middleware.CurrentUser(c)
	var req UpdateProfileRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, NewErrorResponse("bad_request", "invalid json"))
	}
	updated, err := h.svc.UpdateProfile(c.Request().Context(), user.Email, req.Name, req.Avatar)
	if err != nil {
		if errors.Is(err, service.ErrAccountNotFound) {
			return c.JSON(http.StatusNotFound, NewErrorResponse("account_not_found", "no account with this email"))
		}
		return c.JSON(http.StatusInternalServerError, NewErrorResponse("internal_error", "failed to update profile"))
	}
	return c.JSON(http.StatusOK, updated)
}

// ListUsers serves the admin dashboard's member list.
func (h *AuthHandler) ListUsers(c echo.Context) error {
	users, err := h.svc.AllUsers(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, NewErrorResponse("internal_error", "failed to fetch users"))
	}
	return c.JSON(http.StatusOK, map[string]any{"users": users, "total": len(users)})
}
