// Package router wires HTTP routes to handlers and middleware.
package router

import (
	"github.com/labstack/echo/v4"

	"github.com/healthtrack/backend/internal/handler"
	"github.com/healthtrack/backend/internal/middleware"
	"github.com/healthtrack/backend/internal/model"
	"github.com/healthtrack/backend/internal/utils"
)

// Handlers collects everything Register needs to wire the API.
type Handlers struct {
	Auth      *handler.AuthHandler
	Meals     *handler.MealHandler
	Exercises *handler.ExerciseHandler
	Metrics   *handler.MetricHandler
	Alerts    *handler.AlertHandler
	Users     *handler.UserHandler
}

// Register sets up all routes. Public auth endpoints sit behind the rate
// limiter; everything else requires a valid access token. The cache
// middleware only applies to the read-mostly summary endpoints.
func Register(e *echo.Echo, h Handlers, codec *utils.TokenCodec, limiter, cache echo.MiddlewareFunc) {
	e.GET("/healthz", handler.Health)

	// Unauthenticated operations: register, login, token refresh.
	auth := e.Group("/api/auth", limiter)
	auth.POST("/register", h.Auth.Register)
	auth.POST("/login", h.Auth.Login)
	auth.POST("/refresh-token", h.Auth.Refresh)

	// Everything below requires a verified access token.
	api := e.Group("/api")
	api.Use(middleware.JWTAuth(codec))
	api.Use(middleware.RequireRole(string(model.RoleUser), string(model.RoleAdmin)))

	// Logout identifies the caller from the verified token claims.
	api.PUT("/auth/logout", h.Auth.Logout)

	// Admin registration is restricted to existing admins.
	api.POST("/auth/register-admin", h.Auth.RegisterAdmin,
		middleware.RequireRole(string(model.RoleAdmin)))

	meal := api.Group("/meal")
	meal.POST("", h.Meals.Create)
	meal.GET("/user/:userId", h.Meals.ListByUser)
	meal.GET("/user/:userId/summary", h.Meals.DailySummary, cache)
	meal.GET("/user/:userId/total", h.Meals.DailyTotal, cache)
	meal.DELETE("/:mealId", h.Meals.Delete)

	exercise := api.Group("/exercise")
	exercise.POST("", h.Exercises.Create)
	exercise.GET("/user/:userId", h.Exercises.ListByUser)
	exercise.GET("/user/:userId/summary", h.Exercises.DailySummary, cache)
	exercise.GET("/user/:userId/total", h.Exercises.DailyTotal, cache)
	exercise.DELETE("/:exerciseId", h.Exercises.Delete)

	metric := api.Group("/metric")
	metric.POST("", h.Metrics.Create)
	metric.GET("/user/:userId", h.Metrics.ListByUser)
	metric.GET("/user/:userId/latest", h.Metrics.Latest)
	metric.GET("/user/:userId/progress", h.Metrics.Progress, cache)
	metric.GET("/user/:userId/balance", h.Metrics.Balance, cache)

	alerts := api.Group("/alerts")
	alerts.GET("/user/:userId", h.Alerts.ListByUser)
	alerts.GET("/user/:userId/unread", h.Alerts.ListUnread)
	alerts.PUT("/:alertId/read", h.Alerts.MarkRead)

	users := api.Group("/users")
	users.GET("/:userId/profile", h.Users.Profile)
	users.GET("/:userId/calorie-summary", h.Users.CalorieSummary)
}
