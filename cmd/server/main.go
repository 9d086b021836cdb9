package main // Entry point package

import (
	"context"
	"log"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/healthtrack/backend/internal/config"
	"github.com/healthtrack/backend/internal/database"
	"github.com/healthtrack/backend/internal/handler"
	"github.com/healthtrack/backend/internal/middleware"
	"github.com/healthtrack/backend/internal/queue"
	"github.com/healthtrack/backend/internal/repository"
	"github.com/healthtrack/backend/internal/router"
	"github.com/healthtrack/backend/internal/service"
	"github.com/healthtrack/backend/internal/utils"
)

func main() {
	cfg := config.Load() // Load environment config

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database open: %v", err)
	}
	defer db.Close()

	// Create schema objects (tables, views, routines, indexes) on startup.
	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	if err := database.Bootstrap(ctx, db); err != nil {
		cancel()
		log.Fatalf("database bootstrap: %v", err)
	}
	cancel()

	// Redis is optional: rate limiting and response caching degrade to
	// no-ops when the client is nil.
	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Println("redis unavailable, rate limiting and caching disabled")
	}

	userRepo := repository.NewUserRepo(db)
	adminRepo := repository.NewAdminRepo(db)
	mealRepo := repository.NewMealRepo(db)
	exerciseRepo := repository.NewExerciseRepo(db)
	metricRepo := repository.NewMetricRepo(db)
	alertRepo := repository.NewAlertRepo(db)

	codec := utils.NewTokenCodec(cfg.JWTSecret, cfg.AccessTTLMin, cfg.RefreshTTLDays)
	authSvc := service.NewAuthService(userRepo, adminRepo, codec, cfg.BcryptCost)

	// Consume calorie alert events and persist them as user_alerts rows.
	// The consumer reconnects on broker failures and never exits.
	go func() {
		if err := queue.StartAlertConsumer(alertRepo); err != nil {
			log.Printf("alert consumer stopped: %v", err)
		}
	}()

	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.Recover())
	e.Use(echomw.Logger())

	limiter := middleware.NewRateLimiter(config.LoadRateLimitConfig(), rdb)
	cache := middleware.NewResponseCache(config.LoadCacheConfig(), rdb)

	router.Register(e, router.Handlers{
		Auth:      handler.NewAuthHandler(authSvc),
		Meals:     handler.NewMealHandler(mealRepo, cfg.CalorieLimit),
		Exercises: handler.NewExerciseHandler(exerciseRepo),
		Metrics:   handler.NewMetricHandler(metricRepo, userRepo),
		Alerts:    handler.NewAlertHandler(alertRepo),
		Users:     handler.NewUserHandler(userRepo),
	}, codec, limiter, cache)

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)

	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
