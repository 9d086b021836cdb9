package model

import "time"

// Summary shapes scanned from the SQL views. The aggregation itself lives
// in the database; these structs only carry the results out.

// CalorieIntakeSummary mirrors one row of daily_calorie_intake.
type CalorieIntakeSummary struct {
	UserID             uint64
	Date               time.Time
	TotalMeals         int
	TotalCalories      float64
	AvgCaloriesPerMeal float64
}

// ExerciseSummary mirrors one row of daily_exercise_summary.
type ExerciseSummary struct {
	UserID              uint64
	Date                time.Time
	TotalExercises      int
	TotalDuration       int
	TotalCaloriesBurned float64
}

// HealthProgress mirrors one row of health_progress_view. WeightChange is
// nil for the first measurement (no previous row to diff against).
type HealthProgress struct {
	UserID       uint64
	Date         time.Time
	Weight       float64
	BMI          float64
	BMICategory  string
	WeightChange *float64
}

// CalorieBalance mirrors one row of calories_consumed_burned.
type CalorieBalance struct {
	UserID           uint64
	Date             time.Time
	CaloriesConsumed float64
	CaloriesBurned   float64
}

// UserProfile mirrors one row of user_profile_view. LastBMI is nil when no
// metric has been recorded yet.
type UserProfile struct {
	UserID        uint64
	Name          string
	Email         string
	Age           int
	CurrentWeight float64
	Height        float64
	LastBMI       *float64
	BMICategory   string
}
