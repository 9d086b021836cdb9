package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/healthtrack/backend/internal/model"
	"github.com/healthtrack/backend/internal/repository"
)

// ExerciseHandler bundles dependencies for the exercise endpoints.
type ExerciseHandler struct {
	Exercises *repository.ExerciseRepo
}

func NewExerciseHandler(exercises *repository.ExerciseRepo) *ExerciseHandler {
	return &ExerciseHandler{Exercises: exercises}
}

type exerciseReq struct {
	UserID          uint64  `json:"userId"`
	ExerciseName    string  `json:"exerciseName"`
	DurationMinutes int     `json:"durationMinutes"`
	CaloriesBurned  float64 `json:"caloriesBurned"`
	Date            string  `json:"date"` // YYYY-MM-DD, defaults to today
}

type exerciseResp struct {
	ID              uint64  `json:"id"`
	UserID          uint64  `json:"userId"`
	ExerciseName    string  `json:"exerciseName"`
	DurationMinutes int     `json:"durationMinutes"`
	CaloriesBurned  float64 `json:"caloriesBurned"`
	Date            string  `json:"date"`
}

func toExerciseResp(e model.Exercise) exerciseResp {
	return exerciseResp{
		ID:              e.ID,
		UserID:          e.UserID,
		ExerciseName:    e.ExerciseName,
		DurationMinutes: e.DurationMinutes,
		CaloriesBurned:  e.CaloriesBurned,
		Date:            e.Date.Format(dateLayout),
	}
}

// Create logs an exercise.
func (h *ExerciseHandler) Create(c echo.Context) error {
	var req exerciseReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.UserID == 0 || strings.TrimSpace(req.ExerciseName) == "" || req.DurationMinutes <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "userId, exerciseName and durationMinutes required"})
	}
	date, ok := parseDate(req.Date)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid date, expected YYYY-MM-DD"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	exercise := model.Exercise{
		UserID:          req.UserID,
		ExerciseName:    strings.TrimSpace(req.ExerciseName),
		DurationMinutes: req.DurationMinutes,
		CaloriesBurned:  req.CaloriesBurned,
		Date:            date,
	}
	id, err := h.Exercises.Create(ctx, exercise)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "log exercise failed"})
	}
	exercise.ID = id

	return c.JSON(http.StatusCreated, toExerciseResp(exercise))
}

// ListByUser returns a user's exercises, optionally filtered by ?date=.
func (h *ExerciseHandler) ListByUser(c echo.Context) error {
	userID, ok := pathID(c, "userId")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid user id"})
	}
	date, given, ok := dateQuery(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid date, expected YYYY-MM-DD"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	var (
		exercises []model.Exercise
		err       error
	)
	if given {
		exercises, err = h.Exercises.ListByUserAndDate(ctx, userID, date)
	} else {
		exercises, err = h.Exercises.ListByUser(ctx, userID)
	}
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}

	out := make([]exerciseResp, 0, len(exercises))
	for _, e := range exercises {
		out = append(out, toExerciseResp(e))
	}
	return c.JSON(http.StatusOK, out)
}

// DailySummary reads the daily_exercise_summary view for ?date=.
func (h *ExerciseHandler) DailySummary(c echo.Context) error {
	userID, ok := pathID(c, "userId")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid user id"})
	}
	date, _, ok := dateQuery(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid date, expected YYYY-MM-DD"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	s, err := h.Exercises.DailySummary(ctx, userID, date)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "no exercises logged for date"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}

	return c.JSON(http.StatusOK, echo.Map{
		"userId":              s.UserID,
		"date":                s.Date.Format(dateLayout),
		"totalExercises":      s.TotalExercises,
		"totalDuration":       s.TotalDuration,
		"totalCaloriesBurned": s.TotalCaloriesBurned,
	})
}

// DailyTotal calls the GetTotalCaloriesBurned procedure for ?date=.
func (h *ExerciseHandler) DailyTotal(c echo.Context) error {
	userID, ok := pathID(c, "userId")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid user id"})
	}
	date, _, ok := dateQuery(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid date, expected YYYY-MM-DD"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	total, err := h.Exercises.TotalCaloriesBurned(ctx, userID, date)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"userId":              userID,
		"date":                date.Format(dateLayout),
		"totalCaloriesBurned": total,
	})
}

// Delete removes an exercise by id.
func (h *ExerciseHandler) Delete(c echo.Context) error {
	exerciseID, ok := pathID(c, "exerciseId")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid exercise id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Exercises.Delete(ctx, exerciseID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "exercise not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete failed"})
	}
	return c.NoContent(http.StatusNoContent)
}
