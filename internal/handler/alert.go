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

// AlertHandler exposes the alert rows written by the queue consumer.
type AlertHandler struct {
	Alerts *repository.AlertRepo
}

func NewAlertHandler(alerts *repository.AlertRepo) *AlertHandler {
	return &AlertHandler{Alerts: alerts}
}

type alertResp struct {
	ID        uint64 `json:"id"`
	UserID    uint64 `json:"userId"`
	Message   string `json:"message"`
	AlertDate string `json:"alertDate"`
	IsRead    bool   `json:"isRead"`
}

func toAlertResp(a model.Alert) alertResp {
	return alertResp{
		ID:        a.ID,
		UserID:    a.UserID,
		Message:   a.Message,
		AlertDate: a.AlertDate.UTC().Format(time.RFC3339),
		IsRead:    a.IsRead,
	}
}

// ListByUser returns all alerts for a user, newest first.
func (h *AlertHandler) ListByUser(c echo.Context) error {
	return h.list(c, h.Alerts.ListByUser)
}

// ListUnread returns only unread alerts for a user.
func (h *AlertHandler) ListUnread(c echo.Context) error {
	return h.list(c, h.Alerts.ListUnread)
}

func (h *AlertHandler) list(c echo.Context, query func(context.Context, uint64) ([]model.Alert, error)) error {
	userID, ok := pathID(c, "userId")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid user id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	alerts, err := query(ctx, userID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}

	out := make([]alertResp, 0, len(alerts))
	for _, a := range alerts {
		out = append(out, toAlertResp(a))
	}
	return c.JSON(http.StatusOK, out)
}

// MarkRead flags an alert as read and returns the updated row.
func (h *AlertHandler) MarkRead(c echo.Context) error {
	alertID, ok := pathID(c, "alertId")
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid alert id"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	a, err := h.Alerts.MarkRead(ctx, alertID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "alert not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update failed"})
	}
	return c.JSON(http.StatusOK, toAlertResp(a))
}
