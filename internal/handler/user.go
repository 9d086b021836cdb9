package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/healthtrack/backend/internal/repository"
)

// UserHandler exposes the profile view and the calorie summary function.
type UserHandler struct {
	Users *repository.UserRepo
}

func NewUserHandler(users *repository.UserRepo) *UserHandler {
	return &UserHandler{Users: users}
}

// Profile reads user_profile_view: identity plus latest BMI and category.
func (h *UserHandler) Profile(c echo.Context) error {
	userID, ok := pathID(c, "userId")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid user id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	p, err := h.Users.Profile(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "user not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}

	return c.JSON(http.StatusOK, echo.Map{
		"userId":        p.UserID,
		"name":          p.Name,
		"email":         p.Email,
		"age":           p.Age,
		"currentWeight": p.CurrentWeight,
		"height":        p.Height,
		"lastBmi":       p.LastBMI,
		"bmiCategory":   p.BMICategory,
	})
}

// CalorieSummary returns the get_user_calorie_summary text for today.
func (h *UserHandler) CalorieSummary(c echo.Context) error {
	userID, ok := pathID(c, "userId")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid user id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	summary, err := h.Users.CalorieSummary(ctx, userID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, echo.Map{"userId": userID, "summary": summary})
}
