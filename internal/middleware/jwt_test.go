package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/iliyamo/hospital-management/internal/apperr"
	"github.com/iliyamo/hospital-management/internal/model"
	"github.com/iliyamo/hospital-management/internal/utils"
)

const secret = "middleware-test-secret"

func protectedApp(t *testing.T) *echo.Echo {
	t.Helper()
	e := echo.New()
	e.HTTPErrorHandler = apperr.EchoErrorHandler(zerolog.Nop())
	e.GET("/private", func(c echo.Context) error {
		return c.JSON(http.StatusOK, echo.Map{
			"user_id": c.Get(CtxUserID),
			"email":   c.Get(CtxEmail),
			"role":    c.Get(CtxRole),
		})
	}, JWTAuth(secret))
	return e
}

func get(e *echo.Echo, auth string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/private", nil)
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestJWTAuthAcceptsValidToken(t *testing.T) {
	e := protectedApp(t)
	tok, err := utils.NewAccessToken(secret, 9, "n@h.co", model.RoleNurse, 15)
	if err != nil {
		t.Fatalf("NewAccessToken: %v", err)
	}

	rec := get(e, "Bearer "+tok.Token)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
}

func TestJWTAuthRejects(t *testing.T) {
	e := protectedApp(t)
	other, err := utils.NewAccessToken("another-secret", 9, "n@h.co", model.RoleNurse, 15)
	if err != nil {
		t.Fatalf("NewAccessToken: %v", err)
	}
	expired, err := utils.NewAccessToken(secret, 9, "n@h.co", model.RoleNurse, -1)
	if err != nil {
		t.Fatalf("NewAccessToken: %v", err)
	}

	cases := []struct {
		name string
		auth string
	}{
		{"no header", ""},
		{"not bearer", "Basic dXNlcjpwYXNz"},
		{"garbage token", "Bearer not.a.jwt"},
		{"wrong secret", "Bearer " + other.Token},
		{"expired", "Bearer " + expired.Token},
	}
	for _, c := range cases {
		if rec := get(e, c.auth); rec.Code != http.StatusUnauthorized {
			t.Errorf("%s: status = %d, want 401", c.name, rec.Code)
		}
	}
}

func TestJWTAuthInjectsTypedClaims(t *testing.T) {
	e := echo.New()
	e.HTTPErrorHandler = apperr.EchoErrorHandler(zerolog.Nop())
	e.GET("/private", func(c echo.Context) error {
		if id, ok := c.Get(CtxUserID).(uint64); !ok || id != 31 {
			t.Errorf("CtxUserID = %#v", c.Get(CtxUserID))
		}
		if role, ok := c.Get(CtxRole).(model.Role); !ok || role != model.RoleFinance {
			t.Errorf("CtxRole = %#v", c.Get(CtxRole))
		}
		return c.NoContent(http.StatusOK)
	}, JWTAuth(secret))

	tok, err := utils.NewAccessToken(secret, 31, "f@h.co", model.RoleFinance, 15)
	if err != nil {
		t.Fatalf("NewAccessToken: %v", err)
	}
	if rec := get(e, "Bearer "+tok.Token); rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
}
