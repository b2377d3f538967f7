// Package handler implements the HTTP endpoints. Handlers validate input,
// call one or two repository operations and shape the JSON response; every
// failure is returned as an apperr value and rendered by the central error
// handler.
package handler

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"
	"strings"

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

// UserStore is the slice of the user repository the auth endpoints need.
type UserStore interface {
	Create(ctx context.Context, email, passwordHash string, role model.Role) (uint64, error)
	GetByEmail(ctx context.Context, email string) (repository.User, error)
	GetByID(ctx context.Context, id uint64) (repository.User, error)
	UpdatePasswordByEmail(ctx context.Context, email, newHash string) error
}

// ResetTokenStore is the reset-token lifecycle the auth endpoints need.
type ResetTokenStore interface {
	Create(ctx context.Context, userID uint64) (string, error)
	Verify(ctx context.Context, token string) (uint64, error)
	ConsumeAndResetPassword(ctx context.Context, token string, userID uint64, newHash string) error
}

// EmailQueue enqueues outbound email, best-effort.
type EmailQueue interface {
	Publish(ctx context.Context, event queue.EmailRequestedEvent) error
}

// AuthHandler bundles dependencies for the auth endpoints.
type AuthHandler struct {
	Cfg    config.Config
	Users  UserStore
	Resets ResetTokenStore
	Emails EmailQueue
	Log    zerolog.Logger
}

func NewAuthHandler(cfg config.Config, users UserStore, resets ResetTokenStore, emails EmailQueue, log zerolog.Logger) *AuthHandler {
	return &AuthHandler{Cfg: cfg, Users: users, Resets: resets, Emails: emails, Log: log}
}

// ----- DTOs -----

type registerReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}
type loginReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}
type forgotReq struct {
	Email string `json:"email"`
}
type resetReq struct {
	Token       string `json:"token"`
	NewPassword string `json:"new_password"`
}
type changeReq struct {
	OldPassword string `json:"old_password"`
	NewPassword string `json:"new_password"`
}

// Register creates an account and returns a signed access token right away.
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerReq
	if err := c.Bind(&req); err != nil {
		return apperr.BadRequest("Invalid request body")
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if !utils.ValidEmail(req.Email) {
		return apperr.BadRequest("Invalid email format")
	}
	if ok, msg := utils.CheckPasswordStrength(req.Password); !ok {
		return apperr.BadRequest(msg)
	}
	role, ok := model.ParseRole(req.Role)
	if !ok {
		return apperr.BadRequest("Invalid role")
	}

	ctx := c.Request().Context()

	// Fast path only; the unique index on email is the real gate and closes
	// the check-then-insert race.
	if _, err := h.Users.GetByEmail(ctx, req.Email); err == nil {
		return apperr.Duplicate("Email")
	}

	hash, err := utils.HashPassword(req.Password, h.Cfg.BcryptCost)
	if err != nil {
		return apperr.Database("Failed to create user", err)
	}
	uid, err := h.Users.Create(ctx, req.Email, hash, role)
	if err != nil {
		return err
	}

	access, err := utils.NewAccessToken(h.Cfg.JWTSecret, uid, req.Email, role, h.Cfg.AccessTTLMin)
	if err != nil {
		return apperr.Database("Failed to issue token", err)
	}

	h.sendEmail(ctx, req.Email, "Welcome to Hospital Management System",
		"Thank you for registering with our system.", "")

	return c.JSON(http.StatusOK, echo.Map{
		"message":      "User registered successfully",
		"access_token": access.Token,
		"user_role":    role,
	})
}

// Login verifies credentials and returns a fresh access token. The response
// never reveals whether the email exists.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginReq
	if err := c.Bind(&req); err != nil {
		return apperr.BadRequest("Invalid request body")
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Email == "" || req.Password == "" {
		return apperr.BadRequest("Email and password are required")
	}

	ctx := c.Request().Context()

	u, err := h.Users.GetByEmail(ctx, req.Email)
	if err != nil {
		if err == sql.ErrNoRows {
			return apperr.Authentication("Incorrect email or password")
		}
		return err
	}
	if !utils.VerifyPassword(u.PasswordHash, req.Password) {
		return apperr.Authentication("Incorrect email or password")
	}

	access, err := utils.NewAccessToken(h.Cfg.JWTSecret, u.ID, u.Email, u.Role, h.Cfg.AccessTTLMin)
	if err != nil {
		return apperr.Database("Failed to issue token", err)
	}

	return c.JSON(http.StatusOK, echo.Map{
		"message":      "User logged in successfully",
		"access_token": access.Token,
		"token_type":   "bearer",
		"user_role":    u.Role,
	})
}

// ForgotPassword mints a one-hour reset token and mails a reset link.
func (h *AuthHandler) ForgotPassword(c echo.Context) error {
	var req forgotReq
	if err := c.Bind(&req); err != nil {
		return apperr.BadRequest("Invalid request body")
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))

	ctx := c.Request().Context()

	u, err := h.Users.GetByEmail(ctx, req.Email)
	if err != nil {
		if err == sql.ErrNoRows {
			return apperr.NotFound("Email")
		}
		return err
	}

	token, err := h.Resets.Create(ctx, u.ID)
	if err != nil {
		return err
	}

	link := fmt.Sprintf("%s/reset-password?token=%s", h.Cfg.FrontendURL, token)
	h.sendEmail(ctx, u.Email, "Password Reset Request",
		"You have requested to reset your password.\n"+
			"Please open the following link to choose a new one:\n"+link+"\n\n"+
			"This link will expire in 1 hour.\n"+
			"If you didn't request this, please ignore this email.", "")

	return c.JSON(http.StatusOK, echo.Map{
		"message": "Password reset instructions sent to your email",
	})
}

// ResetPassword consumes a reset token and writes the new password. Token
// invalidation and the password write happen in one transaction, so a token
// can never be replayed and a failed write never burns the token.
func (h *AuthHandler) ResetPassword(c echo.Context) error {
	var req resetReq
	if err := c.Bind(&req); err != nil {
		return apperr.BadRequest("Invalid request body")
	}

	ctx := c.Request().Context()

	uid, err := h.Resets.Verify(ctx, strings.TrimSpace(req.Token))
	if err != nil {
		if err == sql.ErrNoRows {
			return apperr.BadRequest("Invalid or expired reset token")
		}
		return err
	}
	if ok, msg := utils.CheckPasswordStrength(req.NewPassword); !ok {
		return apperr.BadRequest(msg)
	}

	hash, err := utils.HashPassword(req.NewPassword, h.Cfg.BcryptCost)
	if err != nil {
		return apperr.Database("Failed to reset password", err)
	}
	if err := h.Resets.ConsumeAndResetPassword(ctx, strings.TrimSpace(req.Token), uid, hash); err != nil {
		if err == sql.ErrNoRows {
			return apperr.BadRequest("Invalid or expired reset token")
		}
		return err
	}

	return c.JSON(http.StatusOK, echo.Map{"message": "Password reset successful"})
}

// ChangePassword lets an authenticated user rotate their password. Tokens
// issued before the change stay valid until they expire; expiry is the only
// bound on a leaked token's lifetime.
func (h *AuthHandler) ChangePassword(c echo.Context) error {
	var req changeReq
	if err := c.Bind(&req); err != nil {
		return apperr.BadRequest("Invalid request body")
	}

	email, _ := c.Get(middleware.CtxEmail).(string)
	if email == "" {
		return apperr.Authentication("")
	}

	ctx := c.Request().Context()

	u, err := h.Users.GetByEmail(ctx, email)
	if err != nil {
		return apperr.Authentication("")
	}
	if !utils.VerifyPassword(u.PasswordHash, req.OldPassword) {
		return apperr.BadRequest("Incorrect password")
	}
	if ok, msg := utils.CheckPasswordStrength(req.NewPassword); !ok {
		return apperr.BadRequest(msg)
	}

	hash, err := utils.HashPassword(req.NewPassword, h.Cfg.BcryptCost)
	if err != nil {
		return apperr.Database("Failed to change password", err)
	}
	if err := h.Users.UpdatePasswordByEmail(ctx, email, hash); err != nil {
		return err
	}

	return c.JSON(http.StatusOK, echo.Map{"message": "Password changed successfully"})
}

// Me returns the verified identity of the caller.
func (h *AuthHandler) Me(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{
		"user_id":   c.Get(middleware.CtxUserID),
		"email":     c.Get(middleware.CtxEmail),
		"user_role": c.Get(middleware.CtxRole),
	})
}

// sendEmail enqueues a message without letting delivery problems surface to
// the caller.
func (h *AuthHandler) sendEmail(ctx context.Context, to, subject, text, html string) {
	if h.Emails == nil {
		return
	}
	if err := h.Emails.Publish(ctx, queue.EmailRequestedEvent{
		To: to, Subject: subject, Text: text, HTML: html,
	}); err != nil {
		h.Log.Warn().Err(err).Str("to", to).Msg("email enqueue failed")
	}
}
