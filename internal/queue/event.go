// Package queue defines message payloads exchanged over the message broker
// and the background consumer that persists them.
package queue

// CalorieAlertEvent is published when a logged meal pushes a user's daily
// calorie total over the configured limit. It carries everything the
// consumer needs to write the alert row without querying the meal table.
type CalorieAlertEvent struct {
	UserID        uint64  `json:"user_id"`
	Date          string  `json:"date"`
	TotalCalories float64 `json:"total_calories"`
	DailyLimit    float64 `json:"daily_limit"`
	Message       string  `json:"message"`
	CreatedAt     string  `json:"created_at"`
}
