package handler

import (
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/iliyamo/hospital-management/internal/apperr"
	"github.com/iliyamo/hospital-management/internal/config"
	"github.com/iliyamo/hospital-management/internal/middleware"
	"github.com/iliyamo/hospital-management/internal/model"
	"github.com/iliyamo/hospital-management/internal/queue"
	"github.com/iliyamo/hospital-management/internal/repository"
	"github.com/iliyamo/hospital-management/internal/utils"
)

// ----- in-memory fakes -----

type fakeUsers struct {
	nextID  uint64
	byEmail map[string]repository.User
}

func newFakeUsers() *fakeUsers {
	return &fakeUsers{nextID: 1, byEmail: map[string]repository.User{}}
}

func (f *fakeUsers) Create(_ context.Context, email, hash string, role model.Role) (uint64, error) {
	if _, ok := f.byEmail[email]; ok {
		return 0, apperr.Duplicate("Email")
	}
	id := f.nextID
	f.nextID++
	f.byEmail[email] = repository.User{ID: id, Email: email, PasswordHash: hash, Role: role}
	return id, nil
}

func (f *fakeUsers) GetByEmail(_ context.Context, email string) (repository.User, error) {
	u, ok := f.byEmail[email]
	if !ok {
		return repository.User{}, sql.ErrNoRows
	}
	return u, nil
}

func (f *fakeUsers) GetByID(_ context.Context, id uint64) (repository.User, error) {
	for _, u := range f.byEmail {
		if u.ID == id {
			return u, nil
		}
	}
	return repository.User{}, sql.ErrNoRows
}

func (f *fakeUsers) UpdatePasswordByEmail(_ context.Context, email, newHash string) error {
	u, ok := f.byEmail[email]
	if !ok {
		return apperr.NotFound("User")
	}
	u.PasswordHash = newHash
	f.byEmail[email] = u
	return nil
}

type resetEntry struct {
	userID    uint64
	expiresAt time.Time
}

type fakeResets struct {
	users *fakeUsers
	next  int
	live  map[string]resetEntry // token -> entry, removed on consume
}

func newFakeResets(users *fakeUsers) *fakeResets {
	return &fakeResets{users: users, live: map[string]resetEntry{}}
}

func (f *fakeResets) Create(_ context.Context, userID uint64) (string, error) {
	f.next++
	token := "reset-token-" + strings.Repeat("x", f.next)
	f.live[token] = resetEntry{userID: userID, expiresAt: time.Now().Add(time.Hour)}
	return token, nil
}

func (f *fakeResets) Verify(_ context.Context, token string) (uint64, error) {
	entry, ok := f.live[token]
	if !ok || time.Now().After(entry.expiresAt) {
		return 0, sql.ErrNoRows
	}
	return entry.userID, nil
}

func (f *fakeResets) ConsumeAndResetPassword(_ context.Context, token string, userID uint64, newHash string) error {
	entry, ok := f.live[token]
	if !ok || time.Now().After(entry.expiresAt) {
		return sql.ErrNoRows
	}
	delete(f.live, token)
	for email, u := range f.users.byEmail {
		if u.ID == userID {
			u.PasswordHash = newHash
			f.users.byEmail[email] = u
		}
	}
	return nil
}

// expire backdates a live token past its window.
func (f *fakeResets) expire(token string) {
	entry, ok := f.live[token]
	if !ok {
		return
	}
	entry.expiresAt = time.Now().Add(-time.Minute)
	f.live[token] = entry
}

type fakeEmails struct {
	sent []queue.EmailRequestedEvent
}

func (f *fakeEmails) Publish(_ context.Context, ev queue.EmailRequestedEvent) error {
	f.sent = append(f.sent, ev)
	return nil
}

// ----- harness -----

type authApp struct {
	e      *echo.Echo
	users  *fakeUsers
	resets *fakeResets
	emails *fakeEmails
	cfg    config.Config
}

func newAuthApp(t *testing.T) *authApp {
	t.Helper()
	cfg := config.Config{
		JWTSecret:    "auth-test-secret",
		AccessTTLMin: 15,
		BcryptCost:   4,
		FrontendURL:  "http://app.local",
	}
	users := newFakeUsers()
	resets := newFakeResets(users)
	emails := &fakeEmails{}
	h := NewAuthHandler(cfg, users, resets, emails, zerolog.Nop())

	e := echo.New()
	e.HTTPErrorHandler = apperr.EchoErrorHandler(zerolog.Nop())
	g := e.Group("/api/v1/auth")
	g.POST("/register", h.Register)
	g.POST("/login", h.Login)
	g.POST("/forgot-password", h.ForgotPassword)
	g.POST("/reset-password", h.ResetPassword)
	authed := e.Group("/api/v1/auth", middleware.JWTAuth(cfg.JWTSecret))
	authed.POST("/change-password", h.ChangePassword)
	authed.GET("/me", h.Me)

	return &authApp{e: e, users: users, resets: resets, emails: emails, cfg: cfg}
}

func (a *authApp) do(t *testing.T, method, path, token string, body any) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	var reader *strings.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = strings.NewReader(string(b))
	} else {
		reader = strings.NewReader("")
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	a.e.ServeHTTP(rec, req)

	out := map[string]any{}
	if rec.Body.Len() > 0 {
		if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
			t.Fatalf("response is not JSON: %s", rec.Body.String())
		}
	}
	return rec, out
}

func (a *authApp) register(t *testing.T, email, password, role string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	return a.do(t, http.MethodPost, "/api/v1/auth/register", "", map[string]string{
		"email": email, "password": password, "role": role,
	})
}

func (a *authApp) login(t *testing.T, email, password string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	return a.do(t, http.MethodPost, "/api/v1/auth/login", "", map[string]string{
		"email": email, "password": password,
	})
}

const goodPassword = "Str0ng&Pass"

// ----- tests -----

func TestRegisterIssuesUsableToken(t *testing.T) {
	a := newAuthApp(t)

	rec, body := a.register(t, "pat@example.com", goodPassword, "PATIENT")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	if body["user_role"] != "PATIENT" {
		t.Errorf("user_role = %v", body["user_role"])
	}

	raw, _ := body["access_token"].(string)
	claims, err := utils.ParseAccessToken(a.cfg.JWTSecret, raw)
	if err != nil {
		t.Fatalf("issued token does not verify: %v", err)
	}
	if claims.Email != "pat@example.com" || claims.Role != model.RolePatient {
		t.Errorf("claims = %+v", claims)
	}

	if len(a.emails.sent) != 1 {
		t.Errorf("welcome emails sent = %d, want 1", len(a.emails.sent))
	}
}

func TestRegisterRejectsBadInput(t *testing.T) {
	a := newAuthApp(t)
	cases := []struct {
		name                  string
		email, password, role string
	}{
		{"bad email", "not-an-email", goodPassword, "PATIENT"},
		{"weak password", "ok@example.com", "weak", "PATIENT"},
		{"unknown role", "ok@example.com", goodPassword, "WIZARD"},
	}
	for _, c := range cases {
		if rec, _ := a.register(t, c.email, c.password, c.role); rec.Code != http.StatusBadRequest {
			t.Errorf("%s: status = %d, want 400", c.name, rec.Code)
		}
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	a := newAuthApp(t)
	if rec, _ := a.register(t, "dup@example.com", goodPassword, "STAFF"); rec.Code != http.StatusOK {
		t.Fatalf("first register failed: %d", rec.Code)
	}
	rec, body := a.register(t, "dup@example.com", goodPassword, "STAFF")
	if rec.Code != http.StatusConflict {
		t.Errorf("status = %d, want 409", rec.Code)
	}
	if body["message"] != "Email already exists" {
		t.Errorf("message = %v", body["message"])
	}
}

func TestRegisterNormalizesEmail(t *testing.T) {
	a := newAuthApp(t)
	if rec, _ := a.register(t, "  Mixed@Example.COM ", goodPassword, "NURSE"); rec.Code != http.StatusOK {
		t.Fatalf("register: %d", rec.Code)
	}
	if rec, _ := a.login(t, "mixed@example.com", goodPassword); rec.Code != http.StatusOK {
		t.Errorf("login with normalized email: status = %d, want 200", rec.Code)
	}
}

// Unknown email and wrong password must be indistinguishable to a client.
func TestLoginOpaqueFailure(t *testing.T) {
	a := newAuthApp(t)
	a.register(t, "known@example.com", goodPassword, "DOCTOR")

	recUnknown, bodyUnknown := a.login(t, "ghost@example.com", goodPassword)
	recWrong, bodyWrong := a.login(t, "known@example.com", "Wr0ng&Pass1")

	for _, rec := range []*httptest.ResponseRecorder{recUnknown, recWrong} {
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("status = %d, want 401", rec.Code)
		}
	}
	if bodyUnknown["message"] != bodyWrong["message"] {
		t.Errorf("messages differ: %v vs %v", bodyUnknown["message"], bodyWrong["message"])
	}
	if bodyUnknown["message"] != "Incorrect email or password" {
		t.Errorf("message = %v", bodyUnknown["message"])
	}
}

func TestLoginSuccess(t *testing.T) {
	a := newAuthApp(t)
	a.register(t, "fin@example.com", goodPassword, "FINANCE")

	rec, body := a.login(t, "fin@example.com", goodPassword)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	if body["token_type"] != "bearer" {
		t.Errorf("token_type = %v", body["token_type"])
	}
	raw, _ := body["access_token"].(string)
	if _, err := utils.ParseAccessToken(a.cfg.JWTSecret, raw); err != nil {
		t.Errorf("issued token does not verify: %v", err)
	}
}

func TestMeReflectsTokenIdentity(t *testing.T) {
	a := newAuthApp(t)
	_, body := a.register(t, "me@example.com", goodPassword, "HR")
	token, _ := body["access_token"].(string)

	rec, me := a.do(t, http.MethodGet, "/api/v1/auth/me", token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if me["email"] != "me@example.com" || me["user_role"] != "HR" {
		t.Errorf("me = %v", me)
	}

	if rec, _ := a.do(t, http.MethodGet, "/api/v1/auth/me", "", nil); rec.Code != http.StatusUnauthorized {
		t.Errorf("me without token: status = %d, want 401", rec.Code)
	}
}

func TestForgotPasswordUnknownEmail(t *testing.T) {
	a := newAuthApp(t)
	rec, _ := a.do(t, http.MethodPost, "/api/v1/auth/forgot-password", "", map[string]string{
		"email": "nobody@example.com",
	})
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}

func TestForgotPasswordSendsResetLink(t *testing.T) {
	a := newAuthApp(t)
	a.register(t, "forgetful@example.com", goodPassword, "PATIENT")
	a.emails.sent = nil

	rec, _ := a.do(t, http.MethodPost, "/api/v1/auth/forgot-password", "", map[string]string{
		"email": "forgetful@example.com",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if len(a.emails.sent) != 1 {
		t.Fatalf("emails sent = %d, want 1", len(a.emails.sent))
	}
	mail := a.emails.sent[0]
	if mail.To != "forgetful@example.com" {
		t.Errorf("To = %q", mail.To)
	}
	if !strings.Contains(mail.Text, a.cfg.FrontendURL+"/reset-password?token=") {
		t.Errorf("reset link missing from body:\n%s", mail.Text)
	}
}

func TestResetPasswordFullFlow(t *testing.T) {
	a := newAuthApp(t)
	a.register(t, "reset@example.com", goodPassword, "PATIENT")
	a.do(t, http.MethodPost, "/api/v1/auth/forgot-password", "", map[string]string{
		"email": "reset@example.com",
	})

	var token string
	for tok := range a.resets.live {
		token = tok
	}
	if token == "" {
		t.Fatal("no reset token minted")
	}

	const newPassword = "N3w&Passw0rd"
	rec, _ := a.do(t, http.MethodPost, "/api/v1/auth/reset-password", "", map[string]string{
		"token": token, "new_password": newPassword,
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("reset: status = %d, body = %s", rec.Code, rec.Body.String())
	}

	if rec, _ := a.login(t, "reset@example.com", goodPassword); rec.Code != http.StatusUnauthorized {
		t.Errorf("old password still accepted: status = %d", rec.Code)
	}
	if rec, _ := a.login(t, "reset@example.com", newPassword); rec.Code != http.StatusOK {
		t.Errorf("new password rejected: status = %d", rec.Code)
	}

	// A consumed token can never be replayed.
	rec, body := a.do(t, http.MethodPost, "/api/v1/auth/reset-password", "", map[string]string{
		"token": token, "new_password": "An0ther&Pass",
	})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("replay: status = %d, want 400", rec.Code)
	}
	if body["message"] != "Invalid or expired reset token" {
		t.Errorf("replay message = %v", body["message"])
	}
}

// A token past its one-hour window is rejected exactly like an unknown one,
// and the password it was minted for stays in place.
func TestResetPasswordExpiredToken(t *testing.T) {
	a := newAuthApp(t)
	a.register(t, "late@example.com", goodPassword, "PATIENT")
	a.do(t, http.MethodPost, "/api/v1/auth/forgot-password", "", map[string]string{
		"email": "late@example.com",
	})

	var token string
	for tok := range a.resets.live {
		token = tok
	}
	if token == "" {
		t.Fatal("no reset token minted")
	}
	a.resets.expire(token)

	rec, body := a.do(t, http.MethodPost, "/api/v1/auth/reset-password", "", map[string]string{
		"token": token, "new_password": "N3w&Passw0rd",
	})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
	if body["message"] != "Invalid or expired reset token" {
		t.Errorf("message = %v", body["message"])
	}

	if rec, _ := a.login(t, "late@example.com", goodPassword); rec.Code != http.StatusOK {
		t.Errorf("original password no longer accepted: status = %d", rec.Code)
	}
	if rec, _ := a.login(t, "late@example.com", "N3w&Passw0rd"); rec.Code != http.StatusUnauthorized {
		t.Errorf("rejected reset still changed the password: status = %d", rec.Code)
	}
}

func TestResetPasswordInvalidToken(t *testing.T) {
	a := newAuthApp(t)
	rec, body := a.do(t, http.MethodPost, "/api/v1/auth/reset-password", "", map[string]string{
		"token": "never-issued", "new_password": goodPassword,
	})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
	if body["message"] != "Invalid or expired reset token" {
		t.Errorf("message = %v", body["message"])
	}
}

func TestResetPasswordWeakReplacement(t *testing.T) {
	a := newAuthApp(t)
	a.register(t, "weak@example.com", goodPassword, "PATIENT")
	a.do(t, http.MethodPost, "/api/v1/auth/forgot-password", "", map[string]string{
		"email": "weak@example.com",
	})
	var token string
	for tok := range a.resets.live {
		token = tok
	}

	rec, _ := a.do(t, http.MethodPost, "/api/v1/auth/reset-password", "", map[string]string{
		"token": token, "new_password": "weak",
	})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
	// The rejected attempt must not have burned the token.
	if _, ok := a.resets.live[token]; !ok {
		t.Error("token consumed by a failed reset")
	}
}

func TestChangePassword(t *testing.T) {
	a := newAuthApp(t)
	_, body := a.register(t, "rotate@example.com", goodPassword, "STAFF")
	token, _ := body["access_token"].(string)

	rec, resp := a.do(t, http.MethodPost, "/api/v1/auth/change-password", token, map[string]string{
		"old_password": "Wr0ng&Old1", "new_password": "N3w&Passw0rd",
	})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("wrong old password: status = %d, want 400", rec.Code)
	}
	if resp["message"] != "Incorrect password" {
		t.Errorf("message = %v", resp["message"])
	}

	rec, _ = a.do(t, http.MethodPost, "/api/v1/auth/change-password", token, map[string]string{
		"old_password": goodPassword, "new_password": "N3w&Passw0rd",
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("change: status = %d", rec.Code)
	}
	if rec, _ := a.login(t, "rotate@example.com", "N3w&Passw0rd"); rec.Code != http.StatusOK {
		t.Errorf("login with rotated password: status = %d", rec.Code)
	}

	if rec, _ := a.do(t, http.MethodPost, "/api/v1/auth/change-password", "", map[string]string{
		"old_password": goodPassword, "new_password": "N3w&Passw0rd",
	}); rec.Code != http.StatusUnauthorized {
		t.Errorf("change without token: status = %d, want 401", rec.Code)
	}
}
