package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/iliyamo/hospital-management/internal/database"
)

// Notification mirrors the 'notifications' table.
type Notification struct {
	ID        uint64    `json:"id"`
	UserID    uint64    `json:"user_id"`
	Type      string    `json:"type"`
	Message   string    `json:"message"`
	Read      bool      `json:"read"`
	CreatedAt time.Time `json:"created_at"`
}

type NotificationRepo struct{ gw *database.Gateway }

func NewNotificationRepo(gw *database.Gateway) *NotificationRepo { return &NotificationRepo{gw: gw} }

// ForUser lists a user's notifications newest first, optionally only the
// unread ones.
func (r *NotificationRepo) ForUser(ctx context.Context, userID uint64, unreadOnly bool) ([]Notification, error) {
	query := "SELECT id, user_id, type, message, is_read, created_at FROM notifications WHERE user_id=?"
	args := []any{userID}
	if unreadOnly {
		query += " AND is_read=FALSE"
	}
	query += " ORDER BY created_at DESC"

	out := []Notification{}
	err := r.gw.All(ctx, query, args, func(rows *sql.Rows) error {
		var n Notification
		if err := rows.Scan(&n.ID, &n.UserID, &n.Type, &n.Message, &n.Read, &n.CreatedAt); err != nil {
			return err
		}
		out = append(out, n)
		return nil
	})
	return out, err
}

// Create inserts a notification for a user.
func (r *NotificationRepo) Create(ctx context.Context, userID uint64, kind, message string) (uint64, error) {
	res, err := r.gw.Exec(ctx,
		"INSERT INTO notifications (user_id, type, message, created_at) VALUES (?,?,?,NOW())",
		userID, kind, message)
	if err != nil {
		return 0, err
	}
	return uint64(res.LastInsertID), nil
}

// MarkRead flags a notification read. The user id guards against marking
// someone else's notification; false means no owned row matched.
func (r *NotificationRepo) MarkRead(ctx context.Context, id, userID uint64) (bool, error) {
	res, err := r.gw.Exec(ctx,
		"UPDATE notifications SET is_read=TRUE WHERE id=? AND user_id=?", id, userID)
	if err != nil {
		return false, err
	}
	return res.RowsAffected > 0, nil
}

// Delete removes a notification owned by the user.
func (r *NotificationRepo) Delete(ctx context.Context, id, userID uint64) (bool, error) {
	res, err := r.gw.Exec(ctx,
		"DELETE FROM notifications WHERE id=? AND user_id=?", id, userID)
	if err != nil {
		return false, err
	}
	return res.RowsAffected > 0, nil
}
