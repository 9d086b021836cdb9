package model

import "time"

// HealthMetric is one weight/BMI measurement in a user's history.
type HealthMetric struct {
	ID     uint64    // health_metric.metric_id
	UserID uint64    // health_metric.user_id
	Date   time.Time // health_metric.date (DATE)
	Weight float64   // health_metric.weight
	BMI    float64   // health_metric.bmi
}

// Alert is a notification row created when a user's daily calorie intake
// exceeds the configured limit.
type Alert struct {
	ID        uint64    // user_alerts.alert_id
	UserID    uint64    // user_alerts.user_id
	Message   string    // user_alerts.message
	AlertDate time.Time // user_alerts.alert_date
	IsRead    bool      // user_alerts.is_read
}
