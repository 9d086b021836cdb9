package database

// bootstrap.go creates the schema and the derived database objects the
// summary endpoints read from: views, stored procedures, a user-defined
// function, a trigger, and supporting indexes. All statements are idempotent
// (CREATE IF NOT EXISTS / CREATE OR REPLACE / DROP IF EXISTS first) so the
// bootstrap can run on every startup.

import (
	"context"
	"database/sql"
	"log"
	"strings"
)

var tableStatements = []string{
	`CREATE TABLE IF NOT EXISTS users (
		user_id INT AUTO_INCREMENT PRIMARY KEY,
		name VARCHAR(120) NOT NULL,
		email VARCHAR(255) NOT NULL UNIQUE,
		contact VARCHAR(64) NOT NULL UNIQUE,
		age INT NOT NULL DEFAULT 0,
		weight FLOAT NOT NULL DEFAULT 0,
		height FLOAT NOT NULL DEFAULT 0,
		role ENUM('USER','ADMIN') NOT NULL DEFAULT 'USER',
		password_hash VARCHAR(255) NOT NULL,
		active BOOLEAN NOT NULL DEFAULT TRUE,
		refresh_token TEXT NULL,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS admins (
		admin_id INT AUTO_INCREMENT PRIMARY KEY,
		name VARCHAR(120) NOT NULL,
		email VARCHAR(255) NOT NULL UNIQUE,
		contact VARCHAR(64) NOT NULL UNIQUE,
		address VARCHAR(255) NOT NULL DEFAULT '',
		nic VARCHAR(64) NOT NULL DEFAULT '',
		role ENUM('USER','ADMIN') NOT NULL DEFAULT 'ADMIN',
		active BOOLEAN NOT NULL DEFAULT TRUE,
		password_hash VARCHAR(255) NOT NULL,
		refresh_token TEXT NULL,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS meal (
		meal_id INT AUTO_INCREMENT PRIMARY KEY,
		user_id INT NOT NULL,
		meal_name VARCHAR(255) NOT NULL,
		calories_consumed FLOAT NOT NULL,
		date DATE NOT NULL,
		FOREIGN KEY (user_id) REFERENCES users(user_id)
	)`,
	`CREATE TABLE IF NOT EXISTS exercise (
		exercise_id INT AUTO_INCREMENT PRIMARY KEY,
		user_id INT NOT NULL,
		exercise_name VARCHAR(255) NOT NULL,
		duration_minutes INT NOT NULL,
		calories_burned FLOAT NOT NULL,
		date DATE NOT NULL,
		FOREIGN KEY (user_id) REFERENCES users(user_id)
	)`,
	`CREATE TABLE IF NOT EXISTS health_metric (
		metric_id INT AUTO_INCREMENT PRIMARY KEY,
		user_id INT NOT NULL,
		date DATE NOT NULL,
		weight FLOAT NOT NULL,
		bmi FLOAT NOT NULL DEFAULT 0,
		FOREIGN KEY (user_id) REFERENCES users(user_id)
	)`,
	`CREATE TABLE IF NOT EXISTS user_alerts (
		alert_id INT AUTO_INCREMENT PRIMARY KEY,
		user_id INT NOT NULL,
		message VARCHAR(500),
		alert_date DATETIME DEFAULT CURRENT_TIMESTAMP,
		is_read BOOLEAN DEFAULT FALSE,
		FOREIGN KEY (user_id) REFERENCES users(user_id)
	)`,
}

var viewStatements = []string{
	`CREATE OR REPLACE VIEW user_profile_view AS
	SELECT
		u.user_id,
		u.name,
		u.email,
		u.age,
		u.weight AS current_weight,
		u.height,
		hm.bmi AS last_bmi_recorded,
		CASE
			WHEN hm.bmi < 18.5 THEN 'Underweight'
			WHEN hm.bmi BETWEEN 18.5 AND 24.9 THEN 'Normal'
			WHEN hm.bmi BETWEEN 25 AND 29.9 THEN 'Overweight'
			ELSE 'Obese'
		END AS bmi_category
	FROM users u
	LEFT JOIN health_metric hm ON u.user_id = hm.user_id
		AND hm.date = (SELECT MAX(date) FROM health_metric WHERE user_id = u.user_id)`,

	`CREATE OR REPLACE VIEW daily_calorie_intake AS
	SELECT
		user_id,
		date AS meal_date,
		COUNT(*) AS total_meals,
		SUM(calories_consumed) AS total_calories_consumed,
		AVG(calories_consumed) AS avg_calories_per_meal
	FROM meal
	GROUP BY user_id, date`,

	`CREATE OR REPLACE VIEW daily_exercise_summary AS
	SELECT
		user_id,
		date AS exercise_date,
		COUNT(*) AS total_exercises,
		SUM(duration_minutes) AS total_duration,
		SUM(calories_burned) AS total_calories_burned
	FROM exercise
	GROUP BY user_id, date`,

	`CREATE OR REPLACE VIEW health_progress_view AS
	SELECT
		user_id,
		date,
		weight,
		bmi,
		CASE
			WHEN bmi < 18.5 THEN 'Underweight'
			WHEN bmi BETWEEN 18.5 AND 24.9 THEN 'Normal'
			WHEN bmi BETWEEN 25 AND 29.9 THEN 'Overweight'
			ELSE 'Obese'
		END AS bmi_category,
		weight - LAG(weight) OVER (PARTITION BY user_id ORDER BY date) AS weight_change
	FROM health_metric`,

	`CREATE OR REPLACE VIEW calories_consumed_burned AS
	SELECT
		ci.user_id,
		ci.meal_date AS date,
		ci.total_calories_consumed AS calories_consumed,
		COALESCE(es.total_calories_burned, 0) AS calories_burned
	FROM daily_calorie_intake ci
	LEFT JOIN daily_exercise_summary es
		ON ci.user_id = es.user_id AND ci.meal_date = es.exercise_date`,
}

var dropRoutineStatements = []string{
	"DROP PROCEDURE IF EXISTS CalculateUserBMI",
	"DROP PROCEDURE IF EXISTS GetTotalCaloriesBurned",
	"DROP PROCEDURE IF EXISTS GetTotalCaloriesConsumed",
	"DROP FUNCTION IF EXISTS get_user_calorie_summary",
	"DROP TRIGGER IF EXISTS before_health_metric_insert",
}

var routineStatements = []string{
	`CREATE PROCEDURE CalculateUserBMI(IN p_user_id INT)
	BEGIN
		DECLARE user_weight FLOAT;
		DECLARE user_height FLOAT;
		SELECT weight, height INTO user_weight, user_height
		FROM users WHERE user_id = p_user_id;
		IF user_weight IS NOT NULL AND user_height IS NOT NULL THEN
			SELECT user_weight / ((user_height / 100) * (user_height / 100)) AS bmi;
		ELSE
			SELECT NULL AS bmi;
		END IF;
	END`,

	`CREATE PROCEDURE GetTotalCaloriesConsumed(IN p_user_id INT, IN p_date DATE)
	BEGIN
		SELECT COALESCE(SUM(calories_consumed), 0) AS total_calories_consumed
		FROM meal
		WHERE user_id = p_user_id AND date = p_date;
	END`,

	`CREATE PROCEDURE GetTotalCaloriesBurned(IN p_user_id INT, IN p_date DATE)
	BEGIN
		SELECT COALESCE(SUM(calories_burned), 0) AS total_calories_burned
		FROM exercise
		WHERE user_id = p_user_id AND date = p_date;
	END`,

	`CREATE FUNCTION get_user_calorie_summary(p_user_id INT)
	RETURNS VARCHAR(255)
	READS SQL DATA
	DETERMINISTIC
	BEGIN
		DECLARE total_consumed FLOAT;
		DECLARE total_burned FLOAT;
		DECLARE net_calories FLOAT;
		DECLARE summary VARCHAR(255);
		SELECT COALESCE(SUM(calories_consumed), 0) INTO total_consumed
		FROM meal WHERE user_id = p_user_id AND date = CURDATE();
		SELECT COALESCE(SUM(calories_burned), 0) INTO total_burned
		FROM exercise WHERE user_id = p_user_id AND date = CURDATE();
		SET net_calories = total_consumed - total_burned;
		IF net_calories > 0 THEN
			SET summary = CONCAT('Calorie surplus: ', ROUND(net_calories, 2));
		ELSEIF net_calories < 0 THEN
			SET summary = CONCAT('Calorie deficit: ', ROUND(ABS(net_calories), 2));
		ELSE
			SET summary = 'Calorie balance maintained';
		END IF;
		RETURN summary;
	END`,

	// Defaults a zero BMI using the user's recorded height.
	`CREATE TRIGGER before_health_metric_insert
	BEFORE INSERT ON health_metric
	FOR EACH ROW
	BEGIN
		DECLARE user_height FLOAT;
		IF NEW.bmi = 0 THEN
			SELECT height INTO user_height FROM users WHERE user_id = NEW.user_id;
			IF user_height > 0 THEN
				SET NEW.bmi = NEW.weight / ((user_height / 100) * (user_height / 100));
			END IF;
		END IF;
	END`,
}

var indexStatements = []string{
	"CREATE INDEX idx_meal_user_date ON meal(user_id, date)",
	"CREATE INDEX idx_exercise_user_date ON exercise(user_id, date)",
	"CREATE INDEX idx_healthmetric_user_date ON health_metric(user_id, date)",
	"CREATE INDEX idx_alerts_user ON user_alerts(user_id, is_read)",
}

// Bootstrap creates tables first, then views, routines and indexes. Table
// creation errors are fatal; the derived objects log and continue so a
// partially privileged database user still gets a working CRUD schema.
func Bootstrap(ctx context.Context, db *sql.DB) error {
	for _, stmt := range tableStatements {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	for _, stmt := range viewStatements {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			log.Printf("bootstrap: view create failed: %v", err)
		}
	}
	for _, stmt := range dropRoutineStatements {
		_, _ = db.ExecContext(ctx, stmt)
	}
	for _, stmt := range routineStatements {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			log.Printf("bootstrap: routine create failed: %v", err)
		}
	}
	for _, stmt := range indexStatements {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			// MySQL has no CREATE INDEX IF NOT EXISTS; duplicates are fine.
			if !strings.Contains(strings.ToLower(err.Error()), "duplicate") {
				log.Printf("bootstrap: index create failed: %v", err)
			}
		}
	}
	return nil
}
