package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/cursus-lms/cursus-be/internal/api/handlers"
	"github.com/cursus-lms/cursus-be/internal/auth"
	"github.com/cursus-lms/cursus-be/internal/config"
	"github.com/cursus-lms/cursus-be/internal/services"
	"github.com/cursus-lms/cursus-be/internal/websocket"
)

// NewRouter creates and configures a new Chi router.
func NewRouter(
	cfg *config.Config,
	tokens *auth.TokenManager,
	hub *websocket.Hub,
	userService services.UserServiceProvider,
	courseService services.CourseServiceProvider,
	cartService services.CartServiceProvider,
	enrollmentService services.EnrollmentServiceProvider,
	paymentService services.PaymentServiceProvider,
	eventService services.EventServiceProvider,
) *chi.Mux {
	r := chi.NewRouter()

	// Basic middleware stack
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{cfg.AllowedOrigin},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Initialize handlers
	userHandler := handlers.NewUserHandler(userService, tokens, eventService, cfg.UploadPath)
	courseHandler := handlers.NewCourseHandler(courseService)
	cartHandler := handlers.NewCartHandler(cartService, eventService)
	enrollmentHandler := handlers.NewEnrollmentHandler(enrollmentService, eventService)
	paymentHandler := handlers.NewPaymentHandler(paymentService)
	eventHandler := handlers.NewEventHandler(eventService)
	wsHandler := handlers.NewWebSocketHandler(hub)

	loginLimiter := NewRateLimiter(time.Minute, 10)
	requireAuth := tokens.Middleware()

	r.Route("/api", func(r chi.Router) {
		// Live activity feed
		r.Get("/ws", wsHandler.Serve)

		r.Route("/courses", func(r chi.Router) {
			r.Get("/", courseHandler.GetAll)
			r.Post("/enroll", enrollmentHandler.Enroll)
			r.Get("/{id}", courseHandler.Get)

			// Administrative catalog path
			r.Group(func(r chi.Router) {
				r.Use(requireAuth)
				r.Post("/", courseHandler.Create)
				r.Put("/{id}", courseHandler.Update)
				r.Delete("/{id}", courseHandler.Delete)
			})
		})

		r.Route("/cart", func(r chi.Router) {
			r.Get("/{userId}", cartHandler.Get)
			r.Post("/add", cartHandler.Add)
			r.Post("/remove", cartHandler.Remove)
		})

		r.Route("/payment", func(r chi.Router) {
			// The verify callback carries its own HMAC proof of origin.
			r.Post("/verify", paymentHandler.Verify)

			r.Group(func(r chi.Router) {
				r.Use(requireAuth)
				r.Post("/order", paymentHandler.CreateOrder)
			})
		})

		r.Route("/users", func(r chi.Router) {
			r.Post("/signup", userHandler.Signup)
			r.With(loginLimiter.Middleware).Post("/login", userHandler.Login)

			r.Group(func(r chi.Router) {
				r.Use(requireAuth)
				r.Get("/profile", userHandler.GetProfile)
				r.Post("/profile", userHandler.UpdateProfile)
				r.Post("/password", userHandler.ChangePassword)
				r.Post("/logout", userHandler.Logout)
				r.Get("/enrollments", enrollmentHandler.GetMine)
			})
		})

		r.Get("/events/recent", eventHandler.GetRecent)
	})

	// Uploaded profile pictures
	r.Handle("/uploads/*", http.StripPrefix("/uploads/", http.FileServer(http.Dir(cfg.UploadPath))))

	return r
}
