// Package repository implements data access for every resource. Each
// repository goes through the database.Gateway; none of them touches the
// pool or builds SQL from request values directly.
package repository

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/iliyamo/hospital-management/internal/apperr"
	"github.com/iliyamo/hospital-management/internal/database"
	"github.com/iliyamo/hospital-management/internal/model"
)

// User mirrors the 'users' table.
type User struct {
	ID           uint64     `json:"id"`
	Email        string     `json:"email"`
	PasswordHash string     `json:"-"`
	Role         model.Role `json:"role"`
	CreatedAt    time.Time  `json:"created_at"`
}

type UserRepo struct{ gw *database.Gateway }

func NewUserRepo(gw *database.Gateway) *UserRepo { return &UserRepo{gw: gw} }

// Create inserts a user and returns its ID. The unique index on email is
// the source of truth for duplicates; any pre-check by the caller is only a
// fast path and the race it leaves open is closed here.
func (r *UserRepo) Create(ctx context.Context, email, passwordHash string, role model.Role) (uint64, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	res, err := r.gw.Exec(ctx,
		"INSERT INTO users (email, password_hash, role, created_at) VALUES (?,?,?,NOW())",
		email, passwordHash, role)
	if err != nil {
		if e, ok := apperr.As(err); ok && e.Code == "DUPLICATE_ERROR" {
			return 0, apperr.Duplicate("Email")
		}
		return 0, err
	}
	return uint64(res.LastInsertID), nil
}

// GetByEmail fetches a user by normalized email. sql.ErrNoRows when absent.
func (r *UserRepo) GetByEmail(ctx context.Context, email string) (User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	var u User
	err := r.gw.One(ctx,
		"SELECT id, email, password_hash, role, created_at FROM users WHERE email=? LIMIT 1",
		[]any{email},
		&u.ID, &u.Email, &u.PasswordHash, &u.Role, &u.CreatedAt)
	return u, err
}

// GetByID fetches a user by id.
func (r *UserRepo) GetByID(ctx context.Context, id uint64) (User, error) {
	var u User
	err := r.gw.One(ctx,
		"SELECT id, email, password_hash, role, created_at FROM users WHERE id=? LIMIT 1",
		[]any{id},
		&u.ID, &u.Email, &u.PasswordHash, &u.Role, &u.CreatedAt)
	return u, err
}

// List returns every account, most recent first.
func (r *UserRepo) List(ctx context.Context) ([]User, error) {
	out := []User{}
	err := r.gw.All(ctx,
		"SELECT id, email, role, created_at FROM users ORDER BY id DESC",
		nil,
		func(rows *sql.Rows) error {
			var u User
			if err := rows.Scan(&u.ID, &u.Email, &u.Role, &u.CreatedAt); err != nil {
				return err
			}
			out = append(out, u)
			return nil
		})
	return out, err
}

// UpdatePasswordByEmail replaces the stored hash for the given email. The
// reset flow writes the hash inside its token-burning transaction instead;
// this is the change-password path only.
func (r *UserRepo) UpdatePasswordByEmail(ctx context.Context, email, newHash string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	res, err := r.gw.Exec(ctx, "UPDATE users SET password_hash=? WHERE email=?", newHash, email)
	if err != nil {
		return err
	}
	if res.RowsAffected == 0 {
		return apperr.NotFound("User")
	}
	return nil
}
