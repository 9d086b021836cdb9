package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/healthtrack/backend/internal/model"
	"github.com/healthtrack/backend/internal/repository"
)

// MetricHandler bundles dependencies for the health-metric endpoints. It
// needs the user repository to read height for BMI calculation and to keep
// the user's current weight in sync with the newest metric.
type MetricHandler struct {
	Metrics *repository.MetricRepo
	Users   *repository.UserRepo
}

func NewMetricHandler(metrics *repository.MetricRepo, users *repository.UserRepo) *MetricHandler {
	return &MetricHandler{Metrics: metrics, Users: users}
}

type metricReq struct {
	UserID uint64  `json:"userId"`
	Weight float64 `json:"weight"`
	BMI    float64 `json:"bmi"`  // optional, computed from height when zero
	Date   string  `json:"date"` // YYYY-MM-DD, defaults to today
}

type metricResp struct {
	ID     uint64  `json:"id"`
	UserID uint64  `json:"userId"`
	Date   string  `json:"date"`
	Weight float64 `json:"weight"`
	BMI    float64 `json:"bmi"`
}

func toMetricResp(m model.HealthMetric) metricResp {
	return metricResp{
		ID:     m.ID,
		UserID: m.UserID,
		Date:   m.Date.Format(dateLayout),
		Weight: m.Weight,
		BMI:    m.BMI,
	}
}

// Create records a weight measurement. When the BMI is omitted it is
// computed from the user's recorded height (weight / (height in m)^2). The
// user's current weight is updated to match the new measurement.
func (h *MetricHandler) Create(c echo.Context) error {
	var req metricReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.UserID == 0 || req.Weight <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "userId and weight required"})
	}
	date, ok := parseDate(req.Date)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid date, expected YYYY-MM-DD"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	user, err := h.Users.GetByID(ctx, req.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "user not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}

	bmi := req.BMI
	if bmi == 0 && user.Height > 0 {
		heightM := user.Height / 100
		bmi = req.Weight / (heightM * heightM)
	}

	metric := model.HealthMetric{
		UserID: req.UserID,
		Date:   date,
		Weight: req.Weight,
		BMI:    bmi,
	}
	id, err := h.Metrics.Create(ctx, metric)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "record metric failed"})
	}
	metric.ID = id

	if err := h.Users.UpdateWeight(ctx, req.UserID, req.Weight); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update weight failed"})
	}

	return c.JSON(http.StatusCreated, toMetricResp(metric))
}

// ListByUser returns a user's metric history, newest first.
func (h *MetricHandler) ListByUser(c echo.Context) error {
	userID, ok := pathID(c, "userId")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid user id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	metrics, err := h.Metrics.ListByUser(ctx, userID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}

	out := make([]metricResp, 0, len(metrics))
	for _, m := range metrics {
		out = append(out, toMetricResp(m))
	}
	return c.JSON(http.StatusOK, out)
}

// Latest returns the most recent metric for a user.
func (h *MetricHandler) Latest(c echo.Context) error {
	userID, ok := pathID(c, "userId")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid user id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	m, err := h.Metrics.Latest(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "no metrics recorded"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, toMetricResp(m))
}

// Progress reads health_progress_view: BMI category and weight change per
// measurement.
func (h *MetricHandler) Progress(c echo.Context) error {
	userID, ok := pathID(c, "userId")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid user id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	progress, err := h.Metrics.Progress(ctx, userID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}

	out := make([]echo.Map, 0, len(progress))
	for _, p := range progress {
		out = append(out, echo.Map{
			"userId":       p.UserID,
			"date":         p.Date.Format(dateLayout),
			"weight":       p.Weight,
			"bmi":          p.BMI,
			"bmiCategory":  p.BMICategory,
			"weightChange": p.WeightChange,
		})
	}
	return c.JSON(http.StatusOK, out)
}

// Balance reads calories_consumed_burned: daily intake vs burn.
func (h *MetricHandler) Balance(c echo.Context) error {
	userID, ok := pathID(c, "userId")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid user id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	balances, err := h.Metrics.Balance(ctx, userID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}

	out := make([]echo.Map, 0, len(balances))
	for _, b := range balances {
		out = append(out, echo.Map{
			"userId":           b.UserID,
			"date":             b.Date.Format(dateLayout),
			"caloriesConsumed": b.CaloriesConsumed,
			"caloriesBurned":   b.CaloriesBurned,
		})
	}
	return c.JSON(http.StatusOK, out)
}
