package repository

import (
	"context"
	"database/sql"

	"github.com/healthtrack/backend/internal/model"
)

// AlertRepo provides access to the `user_alerts` table. Rows are written by
// the queue consumer and read back by the alert endpoints.
type AlertRepo struct{ DB *sql.DB }

func NewAlertRepo(db *sql.DB) *AlertRepo { return &AlertRepo{DB: db} }

// Create inserts an alert row and returns its ID.
func (r *AlertRepo) Create(ctx context.Context, userID uint64, message string) (uint64, error) {
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO user_alerts (user_id, message) VALUES (?,?)",
		userID, message)
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// ListByUser returns all alerts for a user, newest first.
func (r *AlertRepo) ListByUser(ctx context.Context, userID uint64) ([]model.Alert, error) {
	return r.list(ctx,
		"SELECT alert_id, user_id, message, alert_date, is_read FROM user_alerts WHERE user_id=? ORDER BY alert_date DESC, alert_id DESC",
		userID)
}

// ListUnread returns only unread alerts for a user, newest first.
func (r *AlertRepo) ListUnread(ctx context.Context, userID uint64) ([]model.Alert, error) {
	return r.list(ctx,
		"SELECT alert_id, user_id, message, alert_date, is_read FROM user_alerts WHERE user_id=? AND is_read=FALSE ORDER BY alert_date DESC, alert_id DESC",
		userID)
}

func (r *AlertRepo) list(ctx context.Context, query string, args ...any) ([]model.Alert, error) {
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var alerts []model.Alert
	for rows.Next() {
		var a model.Alert
		if err := rows.Scan(&a.ID, &a.UserID, &a.Message, &a.AlertDate, &a.IsRead); err != nil {
			return nil, err
		}
		alerts = append(alerts, a)
	}
	return alerts, rows.Err()
}

// MarkRead flags an alert as read and returns the updated row. Marking an
// already-read alert succeeds (idempotent); ErrNotFound only when the alert
// does not exist.
func (r *AlertRepo) MarkRead(ctx context.Context, alertID uint64) (model.Alert, error) {
	if _, err := r.DB.ExecContext(ctx,
		"UPDATE user_alerts SET is_read=TRUE WHERE alert_id=?", alertID); err != nil {
		return model.Alert{}, err
	}
	var a model.Alert
	err := r.DB.QueryRowContext(ctx,
		"SELECT alert_id, user_id, message, alert_date, is_read FROM user_alerts WHERE alert_id=? LIMIT 1",
		alertID).Scan(&a.ID, &a.UserID, &a.Message, &a.AlertDate, &a.IsRead)
	if err == sql.ErrNoRows {
		return model.Alert{}, ErrNotFound
	}
	return a, err
}
