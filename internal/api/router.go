package api

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/groupescape/escape-houses/internal/api/handlers"
	"github.com/groupescape/escape-houses/internal/api/middleware"
	"github.com/groupescape/escape-houses/internal/auth"
	"github.com/groupescape/escape-houses/internal/database/models"
	"github.com/groupescape/escape-houses/internal/moderation"
	"github.com/groupescape/escape-houses/internal/reporting"
	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Router struct {
	chi.Router
}

type RouterConfig struct {
	DB             *gorm.DB
	Redis          *redis.Client
	Inspector      *asynq.Inspector
	Logger         *slog.Logger
	JWTService     *auth.JWTService
	AuthService    *auth.Service
	PlanPrices     map[string]float64
	AllowedOrigins []string // CORS allowed origins
	RateLimitReqs  int      // Rate limit requests per window
	RateLimitSecs  int      // Rate limit window in seconds
}

func NewRouter(cfg RouterConfig) *Router {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.Recovery(cfg.Logger))
	r.Use(middleware.Logging(cfg.Logger))
	r.Use(middleware.Metrics())

	// Rate limiting - applied globally to prevent abuse
	if cfg.RateLimitReqs > 0 {
		r.Use(middleware.RateLimit(cfg.RateLimitReqs, cfg.RateLimitSecs))
	}

	// CORS - restrict to configured origins, or allow localhost in development
	allowedOrigins := cfg.AllowedOrigins
	if len(allowedOrigins) == 0 {
		allowedOrigins = []string{"http://localhost:3000", "http://localhost:8080"}
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-Auth-Token"},
		ExposedHeaders:   []string{"X-RateLimit-Limit", "X-RateLimit-Remaining", "X-RateLimit-Reset"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Initialize services
	dashboardService := reporting.NewDashboardService(cfg.DB)
	membershipService := reporting.NewMembershipService(cfg.DB, cfg.PlanPrices)
	transactionService := reporting.NewTransactionService(cfg.DB)
	moderationService := moderation.NewService(cfg.DB)

	// Initialize handlers
	healthHandler := handlers.NewHealthHandler(cfg.DB, cfg.Redis, cfg.Inspector)
	authHandler := handlers.NewAuthHandler(cfg.AuthService)
	dashboardHandler := handlers.NewDashboardHandler(dashboardService)
	membershipHandler := handlers.NewMembershipHandler(membershipService)
	transactionHandler := handlers.NewTransactionHandler(transactionService)
	propertyHandler := handlers.NewPropertyHandler(moderationService)
	userHandler := handlers.NewUserHandler(cfg.DB)

	// Health and metrics endpoints (no auth required)
	r.Get("/health", healthHandler.Health)
	r.Get("/ready", healthHandler.Ready)
	r.Method(http.MethodGet, "/metrics", middleware.MetricsHandler())

	r.Route("/api", func(r chi.Router) {
		// Public auth endpoints
		r.Post("/auth/register", authHandler.Register)
		r.Post("/auth/login", authHandler.Login)
		r.Post("/auth/logout", authHandler.Logout)

		// Authenticated routes
		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(cfg.JWTService))

			r.Get("/me", func(w http.ResponseWriter, r *http.Request) {
				userID := middleware.GetUserID(r.Context())
				user, err := cfg.AuthService.GetUserByID(r.Context(), userID)
				if err != nil {
					http.Error(w, "User not found", http.StatusNotFound)
					return
				}
				writeJSON(w, http.StatusOK, user)
			})

			// Admin back office
			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireRole(models.RoleAdmin))

				r.Get("/admin/dashboard/stats", dashboardHandler.Stats)

				r.Route("/memberships", func(r chi.Router) {
					r.Get("/", membershipHandler.List)
					r.Get("/stats", membershipHandler.Stats)
				})

				r.Route("/transactions", func(r chi.Router) {
					r.Get("/", transactionHandler.List)
					r.Get("/stats", transactionHandler.Stats)
				})

				r.Get("/properties/stats", propertyHandler.Stats)
				r.Route("/properties/{id}", func(r chi.Router) {
					r.Post("/approve", propertyHandler.Approve)
					r.Post("/reject", propertyHandler.Reject)
					r.Post("/unpublish", propertyHandler.Unpublish)
				})

				r.Route("/users", func(r chi.Router) {
					r.Get("/", userHandler.List)
					r.Delete("/", userHandler.Delete)
				})
			})
		})
	})

	return &Router{r}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
