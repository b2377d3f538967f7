// Package middleware provides reusable HTTP middleware: bearer-token
// authentication, role-based authorization and rate limiting.
package middleware

import (
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/hospital-management/internal/apperr"
	"github.com/iliyamo/hospital-management/internal/utils"
)

// Context keys under which the authenticated identity is stored.
const (
	CtxUserID = "user_id"
	CtxEmail  = "email"
	CtxRole   = "role"
)

// JWTAuth returns an echo middleware that validates a Bearer access token
// and injects the verified identity into the request context. Handlers read
// it via c.Get(CtxUserID) / c.Get(CtxEmail) / c.Get(CtxRole). Any absent,
// malformed, forged or expired token short-circuits the request with a 401.
func JWTAuth(secret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			auth := c.Request().Header.Get("Authorization")
			if !strings.HasPrefix(auth, "Bearer ") {
				return apperr.Authentication("Missing bearer token")
			}
			raw := strings.TrimPrefix(auth, "Bearer ")

			claims, err := utils.ParseAccessToken(secret, raw)
			if err != nil {
				return apperr.Authentication("Invalid or expired token")
			}

			c.Set(CtxUserID, claims.UserID)
			c.Set(CtxEmail, claims.Email)
			c.Set(CtxRole, claims.Role)
			return next(c)
		}
	}
}
