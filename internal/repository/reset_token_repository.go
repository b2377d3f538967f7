package repository

import (
	"context"
	"database/sql"

	"github.com/iliyamo/hospital-management/internal/database"
	"github.com/iliyamo/hospital-management/internal/utils"
)

// ResetTokenRepo persists one-time password-reset tokens. A token is
// acceptable for exactly one successful reset and only inside its expiry
// window; once consumed it can never be replayed.
type ResetTokenRepo struct{ gw *database.Gateway }

func NewResetTokenRepo(gw *database.Gateway) *ResetTokenRepo { return &ResetTokenRepo{gw: gw} }

// Create mints a fresh random token for the user with a one-hour expiry and
// used = FALSE.
func (r *ResetTokenRepo) Create(ctx context.Context, userID uint64) (string, error) {
	token, err := utils.NewResetToken()
	if err != nil {
		return "", err
	}
	_, err = r.gw.Exec(ctx,
		"INSERT INTO password_reset_tokens (user_id, token, expires_at, used) VALUES (?,?,DATE_ADD(NOW(), INTERVAL 1 HOUR),FALSE)",
		userID, token)
	if err != nil {
		return "", err
	}
	return token, nil
}

// Verify returns the owning user id when token exists, is unused and has
// not expired. sql.ErrNoRows otherwise.
func (r *ResetTokenRepo) Verify(ctx context.Context, token string) (uint64, error) {
	var userID uint64
	err := r.gw.One(ctx,
		"SELECT user_id FROM password_reset_tokens WHERE token=? AND used=FALSE AND expires_at > NOW() LIMIT 1",
		[]any{token}, &userID)
	if err != nil {
		return 0, err
	}
	return userID, nil
}

// ConsumeAndResetPassword writes the new password hash and marks the token
// used inside one transaction. Either both land or neither does, so a
// failed password write cannot leave the token burned. Both statements are
// guarded on used=FALSE: when two resets race past Verify, the loser's
// batch touches zero rows and is reported as a stale token, and the loser's
// hash never reaches the users table.
func (r *ResetTokenRepo) ConsumeAndResetPassword(ctx context.Context, token string, userID uint64, newHash string) error {
	results, err := r.gw.ExecBatch(ctx, []database.Statement{
		{
			Query: "UPDATE users SET password_hash=? WHERE id=? AND (SELECT COUNT(*) FROM password_reset_tokens WHERE token=? AND used=FALSE) = 1",
			Args:  []any{newHash, userID, token},
		},
		{
			Query: "UPDATE password_reset_tokens SET used=TRUE WHERE token=? AND used=FALSE",
			Args:  []any{token},
		},
	})
	if err != nil {
		return err
	}
	if results[1].RowsAffected == 0 {
		return sql.ErrNoRows
	}
	return nil
}
