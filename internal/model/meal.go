package model

import "time"

// Meal records a single logged meal for a user.
type Meal struct {
	ID               uint64    // meal.meal_id
	UserID           uint64    // meal.user_id
	MealName         string    // meal.meal_name
	CaloriesConsumed float64   // meal.calories_consumed
	Date             time.Time // meal.date (DATE)
}

// Exercise records a single logged workout for a user.
type Exercise struct {
	ID              uint64    // exercise.exercise_id
	UserID          uint64    // exercise.user_id
	ExerciseName    string    // exercise.exercise_name
	DurationMinutes int       // exercise.duration_minutes
	CaloriesBurned  float64   // exercise.calories_burned
	Date            time.Time // exercise.date (DATE)
}
