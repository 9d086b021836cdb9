package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/healthtrack/backend/internal/model"
)

// MealRepo provides access to the `meal` table, the daily_calorie_intake
// view and the GetTotalCaloriesConsumed procedure.
type MealRepo struct{ DB *sql.DB }

func NewMealRepo(db *sql.DB) *MealRepo { return &MealRepo{DB: db} }

// Create inserts a meal row and returns its ID.
func (r *MealRepo) Create(ctx context.Context, m model.Meal) (uint64, error) {
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO meal (user_id, meal_name, calories_consumed, date) VALUES (?,?,?,?)",
		m.UserID, m.MealName, m.CaloriesConsumed, m.Date)
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint64(id), nil
}

// ListByUser returns all meals for a user, newest date first.
func (r *MealRepo) ListByUser(ctx context.Context, userID uint64) ([]model.Meal, error) {
	return r.list(ctx,
		"SELECT meal_id, user_id, meal_name, calories_consumed, date FROM meal WHERE user_id=? ORDER BY date DESC, meal_id DESC",
		userID)
}

// ListByUserAndDate returns the meals a user logged on one day.
func (r *MealRepo) ListByUserAndDate(ctx context.Context, userID uint64, date time.Time) ([]model.Meal, error) {
	return r.list(ctx,
		"SELECT meal_id, user_id, meal_name, calories_consumed, date FROM meal WHERE user_id=? AND date=? ORDER BY meal_id",
		userID, date)
}

func (r *MealRepo) list(ctx context.Context, query string, args ...any) ([]model.Meal, error) {
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var meals []model.Meal
	for rows.Next() {
		var m model.Meal
		if err := rows.Scan(&m.ID, &m.UserID, &m.MealName, &m.CaloriesConsumed, &m.Date); err != nil {
			return nil, err
		}
		meals = append(meals, m)
	}
	return meals, rows.Err()
}

// Delete removes a meal by id; ErrNotFound if it does not exist.
func (r *MealRepo) Delete(ctx context.Context, mealID uint64) error {
	res, err := r.DB.ExecContext(ctx, "DELETE FROM meal WHERE meal_id=?", mealID)
	if err != nil {
		return err
	}
	return mustAffect(res)
}

// DailyIntake reads daily_calorie_intake for one user and day.
// ErrNotFound when no meals were logged that day.
func (r *MealRepo) DailyIntake(ctx context.Context, userID uint64, date time.Time) (model.CalorieIntakeSummary, error) {
	var s model.CalorieIntakeSummary
	err := r.DB.QueryRowContext(ctx,
		`SELECT user_id, meal_date, total_meals, total_calories_consumed, avg_calories_per_meal
		 FROM daily_calorie_intake WHERE user_id=? AND meal_date=?`,
		userID, date).
		Scan(&s.UserID, &s.Date, &s.TotalMeals, &s.TotalCalories, &s.AvgCaloriesPerMeal)
	if err == sql.ErrNoRows {
		return model.CalorieIntakeSummary{}, ErrNotFound
	}
	return s, err
}

// TotalCaloriesConsumed calls the GetTotalCaloriesConsumed procedure.
func (r *MealRepo) TotalCaloriesConsumed(ctx context.Context, userID uint64, date time.Time) (float64, error) {
	var total float64
	err := r.DB.QueryRowContext(ctx,
		"CALL GetTotalCaloriesConsumed(?, ?)", userID, date).Scan(&total)
	return total, err
}
