package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/healthtrack/backend/internal/model"
)

// ExerciseRepo provides access to the `exercise` table, the
// daily_exercise_summary view and the GetTotalCaloriesBurned procedure.
type ExerciseRepo struct{ DB *sql.DB }

func NewExerciseRepo(db *sql.DB) *ExerciseRepo { return &ExerciseRepo{DB: db} }

// Create inserts an exercise row and returns its ID.
func (r *ExerciseRepo) Create(ctx context.Context, e model.Exercise) (uint64, error) {
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO exercise (user_id, exercise_name, duration_minutes, calories_burned, date) VALUES (?,?,?,?,?)",
		e.UserID, e.ExerciseName, e.DurationMinutes, e.CaloriesBurned, e.Date)
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// ListByUser returns all exercises for a user, newest date first.
func (r *ExerciseRepo) ListByUser(ctx context.Context, userID uint64) ([]model.Exercise, error) {
	return r.list(ctx,
		"SELECT exercise_id, user_id, exercise_name, duration_minutes, calories_burned, date FROM exercise WHERE user_id=? ORDER BY date DESC, exercise_id DESC",
		userID)
}

// ListByUserAndDate returns the exercises a user logged on one day.
func (r *ExerciseRepo) ListByUserAndDate(ctx context.Context, userID uint64, date time.Time) ([]model.Exercise, error) {
	return r.list(ctx,
		"SELECT exercise_id, user_id, exercise_name, duration_minutes, calories_burned, date FROM exercise WHERE user_id=? AND date=? ORDER BY exercise_id",
		userID, date)
}

func (r *ExerciseRepo) list(ctx context.Context, query string, args ...any) ([]model.Exercise, error) {
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var exercises []model.Exercise
	for rows.Next() {
		var e model.Exercise
		if err := rows.Scan(&e.ID, &e.UserID, &e.ExerciseName, &e.DurationMinutes, &e.CaloriesBurned, &e.Date); err != nil {
			return nil, err
		}
		exercises = append(exercises, e)
	}
	return exercises, rows.Err()
}

// Delete removes an exercise by id; ErrNotFound if it does not exist.
func (r *ExerciseRepo) Delete(ctx context.Context, exerciseID uint64) error {
	res, err := r.DB.ExecContext(ctx, "DELETE FROM exercise WHERE exercise_id=?", exerciseID)
	if err != nil {
		return err
	}
	return mustAffect(res)
}

// DailySummary reads daily_exercise_summary for one user and day.
// ErrNotFound when no exercises were logged that day.
func (r *ExerciseRepo) DailySummary(ctx context.Context, userID uint64, date time.Time) (model.ExerciseSummary, error) {
	var s model.ExerciseSummary
	err := r.DB.QueryRowContext(ctx,
		`SELECT user_id, exercise_date, total_exercises, total_duration, total_calories_burned
		 FROM daily_exercise_summary WHERE user_id=? AND exercise_date=?`,
		userID, date).
		Scan(&s.UserID, &s.Date, &s.TotalExercises, &s.TotalDuration, &s.TotalCaloriesBurned)
	if err == sql.ErrNoRows {
		return model.ExerciseSummary{}, ErrNotFound
	}
	return s, err
}

// TotalCaloriesBurned calls the GetTotalCaloriesBurned procedure.
func (r *ExerciseRepo) TotalCaloriesBurned(ctx context.Context, userID uint64, date time.Time) (float64, error) {
	var total float64
	err := r.DB.QueryRowContext(ctx,
		"CALL GetTotalCaloriesBurned(?, ?)", userID, date).Scan(&total)
	return total, err
}
