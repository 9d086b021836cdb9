package handler

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/healthtrack/backend/internal/model"
	"github.com/healthtrack/backend/internal/queue"
	"github.com/healthtrack/backend/internal/repository"
	"github.com/healthtrack/backend/internal/service"
)

// MealHandler bundles dependencies for the meal endpoints. CalorieLimit is
// the daily intake threshold that triggers an alert event.
type MealHandler struct {
	Meals        *repository.MealRepo
	CalorieLimit float64
}

func NewMealHandler(meals *repository.MealRepo, calorieLimit float64) *MealHandler {
	return &MealHandler{Meals: meals, CalorieLimit: calorieLimit}
}

type mealReq struct {
	UserID           uint64  `json:"userId"`
	MealName         string  `json:"mealName"`
	CaloriesConsumed float64 `json:"caloriesConsumed"`
	Date             string  `json:"date"` // YYYY-MM-DD, defaults to today
}

type mealResp struct {
	ID               uint64  `json:"id"`
	UserID           uint64  `json:"userId"`
	MealName         string  `json:"mealName"`
	CaloriesConsumed float64 `json:"caloriesConsumed"`
	Date             string  `json:"date"`
}

func toMealResp(m model.Meal) mealResp {
	return mealResp{
		ID:               m.ID,
		UserID:           m.UserID,
		MealName:         m.MealName,
		CaloriesConsumed: m.CaloriesConsumed,
		Date:             m.Date.Format(dateLayout),
	}
}

// Create logs a meal. After the insert the day's total is recomputed via
// the stored procedure; crossing the calorie limit publishes an alert event
// to the broker. Publish failures are logged and ignored so meal logging
// never depends on broker availability.
func (h *MealHandler) Create(c echo.Context) error {
	var req mealReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.UserID == 0 || strings.TrimSpace(req.MealName) == "" || req.CaloriesConsumed <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "userId, mealName and caloriesConsumed required"})
	}
	date, ok := parseDate(req.Date)
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid date, expected YYYY-MM-DD"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	meal := model.Meal{
		UserID:           req.UserID,
		MealName:         strings.TrimSpace(req.MealName),
		CaloriesConsumed: req.CaloriesConsumed,
		Date:             date,
	}
	id, err := h.Meals.Create(ctx, meal)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "log meal failed"})
	}
	meal.ID = id

	h.checkCalorieLimit(ctx, meal)

	return c.JSON(http.StatusCreated, toMealResp(meal))
}

func (h *MealHandler) checkCalorieLimit(ctx context.Context, m model.Meal) {
	total, err := h.Meals.TotalCaloriesConsumed(ctx, m.UserID, m.Date)
	if err != nil {
		log.Printf("meal: total calories lookup failed: %v", err)
		return
	}
	if total <= h.CalorieLimit {
		return
	}
	_ = service.PublishCalorieAlert(ctx, queue.CalorieAlertEvent{
		UserID:        m.UserID,
		Date:          m.Date.Format(dateLayout),
		TotalCalories: total,
		DailyLimit:    h.CalorieLimit,
		Message:       fmt.Sprintf("Daily calorie limit exceeded! Total: %.2f", total),
		CreatedAt:     time.Now().UTC().Format(time.RFC3339),
	})
}

// ListByUser returns a user's meals, optionally filtered by ?date=.
func (h *MealHandler) ListByUser(c echo.Context) error {
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
		meals []model.Meal
		err   error
	)
	if given {
		meals, err = h.Meals.ListByUserAndDate(ctx, userID, date)
	} else {
		meals, err = h.Meals.ListByUser(ctx, userID)
	}
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}

	out := make([]mealResp, 0, len(meals))
	for _, m := range meals {
		out = append(out, toMealResp(m))
	}
	return c.JSON(http.StatusOK, out)
}

// DailySummary reads the daily_calorie_intake view for ?date= (default today).
func (h *MealHandler) DailySummary(c echo.Context) error {
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

	s, err := h.Meals.DailyIntake(ctx, userID, date)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "no meals logged for date"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}

	return c.JSON(http.StatusOK, echo.Map{
		"userId":                s.UserID,
		"date":                  s.Date.Format(dateLayout),
		"totalMeals":            s.TotalMeals,
		"totalCaloriesConsumed": s.TotalCalories,
		"avgCaloriesPerMeal":    s.AvgCaloriesPerMeal,
	})
}

// DailyTotal calls the GetTotalCaloriesConsumed procedure for ?date=.
func (h *MealHandler) DailyTotal(c echo.Context) error {
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

	total, err := h.Meals.TotalCaloriesConsumed(ctx, userID, date)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{
		"userId":                userID,
		"date":                  date.Format(dateLayout),
		"totalCaloriesConsumed": total,
	})
}

// Delete removes a meal by id.
func (h *MealHandler) Delete(c echo.Context) error {
	mealID, ok := pathID(c, "mealId")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid meal id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Meals.Delete(ctx, mealID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "meal not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete failed"})
	}
	return c.NoContent(http.StatusNoContent)
}
