package repository

import (
	"context"
	"database/sql"

	"github.com/healthtrack/backend/internal/model"
)

// MetricRepo provides access to the `health_metric` table plus the
// health_progress_view and calories_consumed_burned views.
type MetricRepo struct{ DB *sql.DB }

func NewMetricRepo(db *sql.DB) *MetricRepo { return &MetricRepo{DB: db} }

// Create inserts a metric row and returns its ID. A zero BMI is defaulted
// by the before_health_metric_insert trigger from the user's height.
func (r *MetricRepo) Create(ctx context.Context, m model.HealthMetric) (uint64, error) {
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO health_metric (user_id, date, weight, bmi) VALUES (?,?,?,?)",
		m.UserID, m.Date, m.Weight, m.BMI)
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// ListByUser returns a user's metric history, newest first.
func (r *MetricRepo) ListByUser(ctx context.Context, userID uint64) ([]model.HealthMetric, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT metric_id, user_id, date, weight, bmi FROM health_metric WHERE user_id=? ORDER BY date DESC, metric_id DESC",
		userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var metrics []model.HealthMetric
	for rows.Next() {
		var m model.HealthMetric
		if err := rows.Scan(&m.ID, &m.UserID, &m.Date, &m.Weight, &m.BMI); err != nil {
			return nil, err
		}
		metrics = append(metrics, m)
	}
	return metrics, rows.Err()
}

// Latest returns the most recent metric for a user; ErrNotFound when none
// has been recorded.
func (r *MetricRepo) Latest(ctx context.Context, userID uint64) (model.HealthMetric, error) {
	var m model.HealthMetric
	err := r.DB.QueryRowContext(ctx,
		"SELECT metric_id, user_id, date, weight, bmi FROM health_metric WHERE user_id=? ORDER BY date DESC, metric_id DESC LIMIT 1",
		userID).Scan(&m.ID, &m.UserID, &m.Date, &m.Weight, &m.BMI)
	if err == sql.ErrNoRows {
		return model.HealthMetric{}, ErrNotFound
	}
	return m, err
}

// Progress reads health_progress_view: per-measurement BMI category and
// weight change against the previous row.
func (r *MetricRepo) Progress(ctx context.Context, userID uint64) ([]model.HealthProgress, error) {
	rows, err := r.DB.QueryContext(ctx,
		`SELECT user_id, date, weight, bmi, bmi_category, weight_change
		 FROM health_progress_view WHERE user_id=? ORDER BY date`,
		userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var progress []model.HealthProgress
	for rows.Next() {
		var p model.HealthProgress
		if err := rows.Scan(&p.UserID, &p.Date, &p.Weight, &p.BMI, &p.BMICategory, &p.WeightChange); err != nil {
			return nil, err
		}
		progress = append(progress, p)
	}
	return progress, rows.Err()
}

// Balance reads calories_consumed_burned: daily intake vs burn.
func (r *MetricRepo) Balance(ctx context.Context, userID uint64) ([]model.CalorieBalance, error) {
	rows, err := r.DB.QueryContext(ctx,
		`SELECT user_id, date, calories_consumed, calories_burned
		 FROM calories_consumed_burned WHERE user_id=? ORDER BY date`,
		userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var balances []model.CalorieBalance
	for rows.Next() {
		var b model.CalorieBalance
		if err := rows.Scan(&b.UserID, &b.Date, &b.CaloriesConsumed, &b.CaloriesBurned); err != nil {
			return nil, err
		}
		balances = append(balances, b)
	}
	return balances, rows.Err()
}
