package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/swapmarket/swapmarket-backend/internal/model"
	"github.com/swapmarket/swapmarket-backend/internal/service"
)

const userContextKey = "user"

type AuthMiddleware struct {
	auth service.AuthService
}

func NewAuthMiddleware(auth service.AuthService) *AuthMiddleware {
	return &AuthMiddleware{auth: auth}
}

// RequireAuth rejects requests without a valid bearer token and stores
// the authenticated user in the echo context.
func (m *AuthMiddleware) RequireAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		user, ok := m.userFromHeader(c)
		if !ok {
			return c.JSON(http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
		}
		c.Set(userContextKey, user)
		return next(c)
	}
}

// OptionalAuth stores the user when a valid token is present and lets the
// request through either way. Cart and compare work for guests too.
func (m *AuthMiddleware) OptionalAuth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if user, ok := m.userFromHeader(c); ok {
			c.Set(userContextKey, user)
		}
		return next(c)
	}
}

// RequireAdmin builds on RequireAuth and additionally checks the role.
func (m *AuthMiddleware) RequireAdmin(next echo.HandlerFunc) echo.HandlerFunc {
	return m.RequireAuth(func(c echo.Context) error {
		if user := CurrentUser(c); user == nil || user.Role != model.RoleAdmin {
			return c.JSON(http.StatusForbidden, map[string]string{"error": "forbidden"})
		}
		return next(c)
	})
}

func (m *AuthMiddleware) userFromHeader(c echo.Context) (*model.User, bool) {
	authz := c.Request().Header.Get("Authorization")
	if authz == "" || !strings.HasPrefix(authz, "Bearer ") {
		return nil, false
	}
	user, err := m.auth.ParseToken(strings.TrimPrefix(authz, "Bearer "))
	if err != nil {
		return nil, false
	}
	return user, true
}

// CurrentUser returns the authenticated user, or nil for guests.
func CurrentUser(c echo.Context) *model.User {
	user, _ := c.Get(userContextKey).(*model.User)
	return user
}
