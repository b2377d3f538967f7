package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/iliyamo/hospital-management/internal/apperr"
	"github.com/iliyamo/hospital-management/internal/model"
)

func roleApp(allow ...model.Role) *echo.Echo {
	e := echo.New()
	e.HTTPErrorHandler = apperr.EchoErrorHandler(zerolog.Nop())
	e.GET("/gated", func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	}, RequireRole(allow...))
	return e
}

func getAs(e *echo.Echo, role any) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/gated", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if role != nil {
		c.Set(CtxRole, role)
	}
	e.Router().Find(http.MethodGet, "/gated", c)
	if err := c.Handler()(c); err != nil {
		e.HTTPErrorHandler(err, c)
	}
	return rec
}

func TestRequireRoleMembership(t *testing.T) {
	e := roleApp(model.RoleAdmin, model.RoleHR)

	if rec := getAs(e, model.RoleHR); rec.Code != http.StatusOK {
		t.Errorf("HR: status = %d, want 200", rec.Code)
	}
	if rec := getAs(e, model.RoleDoctor); rec.Code != http.StatusForbidden {
		t.Errorf("DOCTOR: status = %d, want 403", rec.Code)
	}
}

// No hierarchy: ADMIN passes only where it is listed.
func TestRequireRoleNoHierarchy(t *testing.T) {
	e := roleApp(model.RoleFinance)
	if rec := getAs(e, model.RoleAdmin); rec.Code != http.StatusForbidden {
		t.Errorf("ADMIN against {FINANCE}: status = %d, want 403", rec.Code)
	}
}

func TestRequireRoleEmptyAllowSetRejectsAll(t *testing.T) {
	e := roleApp()
	for _, r := range model.Roles {
		if rec := getAs(e, r); rec.Code != http.StatusForbidden {
			t.Errorf("%s against empty set: status = %d, want 403", r, rec.Code)
		}
	}
}

func TestRequireRoleMissingOrWrongTypedRole(t *testing.T) {
	e := roleApp(model.RoleAdmin)

	if rec := getAs(e, nil); rec.Code != http.StatusForbidden {
		t.Errorf("no role in context: status = %d, want 403", rec.Code)
	}
	// A raw string is not the typed role JWTAuth stores.
	if rec := getAs(e, "ADMIN"); rec.Code != http.StatusForbidden {
		t.Errorf("string role: status = %d, want 403", rec.Code)
	}
}
