package middleware

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/hospital-management/internal/apperr"
	"github.com/iliyamo/hospital-management/internal/model"
)

// RequireRole returns a middleware that enforces the endpoint's allow-set.
// The caller's role must have been stored in context by JWTAuth. Membership
// is the only rule: there is no role hierarchy, so ADMIN passes only where
// it is listed, and an empty allow-set rejects every request.
func RequireRole(roles ...model.Role) echo.MiddlewareFunc {
	allowed := make(map[model.Role]bool, len(roles))
	for _, r := range roles {
		allowed[r] = true
	}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			role, ok := c.Get(CtxRole).(model.Role)
			if !ok || !allowed[role] {
				return apperr.Authorization("Not authorized")
			}
			return next(c)
		}
	}
}
