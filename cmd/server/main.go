package main // Entry point package

import (
	"log" // Logging library

	"github.com/joho/godotenv" // loads .env files in local development
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/giorgimart/cityvibe/internal/ai"
	"github.com/giorgimart/cityvibe/internal/config"
	"github.com/giorgimart/cityvibe/internal/database"
	"github.com/giorgimart/cityvibe/internal/handler"
	"github.com/giorgimart/cityvibe/internal/middleware"
	"github.com/giorgimart/cityvibe/internal/queue"
	"github.com/giorgimart/cityvibe/internal/repository"
	"github.com/giorgimart/cityvibe/internal/router"
	"github.com/giorgimart/cityvibe/internal/service"
)

func main() {
	// .env is optional; in containers the variables arrive from the
	// environment directly.
	_ = godotenv.Load()

	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	rdb := config.NewRedisClient()

	// Repositories share the single connection pool.
	users := repository.NewUserRepo(db)
	tokens := repository.NewTokenRepo(db)
	profiles := repository.NewProfileRepo(db)
	events := repository.NewEventRepo(db)
	attendance := repository.NewAttendanceRepo(db, profiles, events)

	aiClient := ai.NewClient(cfg.AI)

	checkinSvc := service.NewCheckInService(events, attendance, cfg.CheckinAwardFromEvent)
	scorer := service.NewRecommendationScorer(events, profiles, attendance)
	moodSvc := service.NewMoodService(events, aiClient)

	cacheCfg := config.LoadCacheConfig()
	invalidate := middleware.NewCatalogInvalidator(cacheCfg, rdb)

	authH := handler.NewAuthHandler(cfg, users, profiles, tokens)
	checkinH := handler.NewCheckInHandler(checkinSvc, true, invalidate)
	recH := handler.NewRecommendationHandler(scorer)
	moodH := handler.NewMoodHandler(moodSvc)
	eventH := handler.NewEventHandler(events, invalidate)
	profileH := handler.NewProfileHandler(profiles, attendance)

	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.Recover())
	e.Use(echomw.CORS())

	rateLimit := middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb)
	cache := middleware.NewRedisCache(cacheCfg, rdb)

	router.RegisterRoutes(e)
	router.RegisterAuth(e, authH, cfg.JWTSecret)
	router.RegisterPublic(e, eventH, cache)
	router.RegisterCore(e, cfg.JWTSecret, checkinH, recH, moodH, eventH, profileH, rateLimit)

	// The consumer drains checkin.recorded into the activity log. It
	// reconnects on its own; a broker outage never blocks the API.
	go func() {
		if err := queue.StartCheckinConsumer(); err != nil {
			log.Printf("queue consumer stopped: %v", err)
		}
	}()

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)

	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
