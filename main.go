package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"

	"github.com/cursus-lms/cursus-be/internal/api"
	"github.com/cursus-lms/cursus-be/internal/auth"
	"github.com/cursus-lms/cursus-be/internal/config"
	"github.com/cursus-lms/cursus-be/internal/database"
	"github.com/cursus-lms/cursus-be/internal/logger"
	"github.com/cursus-lms/cursus-be/internal/monitoring"
	"github.com/cursus-lms/cursus-be/internal/payment"
	"github.com/cursus-lms/cursus-be/internal/services"
	"github.com/cursus-lms/cursus-be/internal/websocket"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger.Init(cfg.LogLevel)

	// Ensure the directory for profile picture uploads exists
	if err := os.MkdirAll(cfg.UploadPath, 0755); err != nil {
		log.Fatal().Err(err).Msg("Failed to create upload directory")
	}

	// Set up database
	db, err := database.New(cfg.DatabasePath)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize database")
	}
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		log.Fatal().Err(err).Msg("Failed to apply database migrations")
	}

	// Token revocation store: Redis when configured, in-process otherwise
	var denylist auth.Denylist
	if cfg.RedisAddr != "" {
		client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		if err := client.Ping(context.Background()).Err(); err != nil {
			log.Fatal().Err(err).Str("addr", cfg.RedisAddr).Msg("Failed to connect to Redis")
		}
		denylist = auth.NewRedisDenylist(client)
	} else {
		denylist = auth.NewMemoryDenylist()
	}

	tokens := auth.NewTokenManager(cfg.JWTSecret, cfg.TokenTTL, denylist)

	// Set up WebSocket hub for the live activity feed
	hub := websocket.NewHub()
	go hub.Run()

	// Set up payment gateway client
	gateway := payment.NewClient(cfg.GatewayBaseURL, cfg.GatewayKeyID, cfg.GatewayKeySecret)

	// Set up services
	eventService := services.NewEventService(db, hub)
	userService := services.NewUserService(db)
	courseService := services.NewCourseService(db)
	cartService := services.NewCartService(db)
	enrollmentService := services.NewEnrollmentService(db)
	paymentService := services.NewPaymentService(db, gateway, cfg.GatewayKeySecret, cartService, enrollmentService, eventService)

	// Set up and run the background cart total reconciler
	reconciler := monitoring.NewReconciler(cartService, eventService, cfg.CartReconcileCron)
	if err := reconciler.Run(); err != nil {
		log.Fatal().Err(err).Msg("Failed to start cart reconciler")
	}

	// Set up router
	router := api.NewRouter(cfg, tokens, hub, userService, courseService, cartService, enrollmentService, paymentService, eventService)

	// Set up server
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.ServerPort),
		Handler: router,
	}

	// Graceful shutdown
	go func() {
		log.Info().Int("port", cfg.ServerPort).Msg("Server starting")
		if err := srv.ListenAndServe(); err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("ListenAndServe()")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("Shutting down server...")

	reconciler.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exiting")
}
