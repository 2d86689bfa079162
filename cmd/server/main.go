package main

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"github.com/mkrishnan-dev/movie-ticket-booking/internal/booking"
	"github.com/mkrishnan-dev/movie-ticket-booking/internal/config"
	"github.com/mkrishnan-dev/movie-ticket-booking/internal/database"
	"github.com/mkrishnan-dev/movie-ticket-booking/internal/handler"
	"github.com/mkrishnan-dev/movie-ticket-booking/internal/middleware"
	"github.com/mkrishnan-dev/movie-ticket-booking/internal/queue"
	"github.com/mkrishnan-dev/movie-ticket-booking/internal/repository"
	"github.com/mkrishnan-dev/movie-ticket-booking/internal/router"
	"github.com/mkrishnan-dev/movie-ticket-booking/internal/session"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()
	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	// Redis backs the checkout session store, the rate limiter and the
	// response cache.  A nil client degrades all three gracefully.
	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Println("redis unavailable; sessions in memory, rate limiting and caching disabled")
	}
	sessions := session.New(rdb, "checkout", cfg.CheckoutTTL)

	movies := repository.NewMovieRepo(db)
	theaters := repository.NewTheaterRepo(db)
	screens := repository.NewScreenRepo(db)
	showtimes := repository.NewShowtimeRepo(db)
	bookings := repository.NewBookingRepo(db)
	users := repository.NewUserRepo(db)
	tokens := repository.NewTokenRepo(db)
	reports := repository.NewReportRepo(db)
	catalog := repository.NewCatalog(showtimes, screens)

	rates := booking.Rates{
		EliteCents:   cfg.EliteRateCents,
		PremiumCents: cfg.PremiumRateCents,
		TaxPercent:   cfg.TaxPercent,
		FeeCents:     cfg.FeeCents,
	}

	authH := handler.NewAuthHandler(cfg, users, tokens)
	browseH := handler.NewBrowseHandler(movies, theaters, screens, showtimes, users)
	bookingH := handler.NewBookingHandler(catalog, bookings, movies, theaters, sessions, rates)
	adminMovieH := handler.NewAdminMovieHandler(movies)
	adminTheaterH := handler.NewAdminTheaterHandler(theaters, screens)
	adminShowtimeH := handler.NewAdminShowtimeHandler(showtimes, movies, screens)
	adminReportH := handler.NewAdminReportHandler(reports)

	e := echo.New()
	e.Use(middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb))
	cacheMW := middleware.NewRedisCache(config.LoadCacheConfig(), rdb)

	router.RegisterRoutes(e)
	router.RegisterAuth(e, authH, cfg.JWTSecret)
	router.RegisterBrowse(e, browseH, cfg.JWTSecret, cacheMW)
	router.RegisterBooking(e, bookingH, cfg.JWTSecret)
	router.RegisterAdmin(e, adminMovieH, adminTheaterH, adminShowtimeH, adminReportH, cfg.JWTSecret)

	// Background consumer appends issued tickets to logs/ticket.log.
	go func() {
		if err := queue.StartTicketConsumer(); err != nil {
			log.Printf("ticket consumer stopped: %v", err)
		}
	}()

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
