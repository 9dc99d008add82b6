package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/redmonkez12/sentiment-api/internal/analysis"
	"github.com/redmonkez12/sentiment-api/internal/auth"
	"github.com/redmonkez12/sentiment-api/internal/config"
	"github.com/redmonkez12/sentiment-api/internal/httputil"
	"github.com/redmonkez12/sentiment-api/internal/logging"
	"github.com/redmonkez12/sentiment-api/internal/metrics"
)

// Handlers groups everything the router mounts
type Handlers struct {
	Auth           *auth.Handler
	AuthMiddleware *auth.Middleware
	Analysis       *analysis.Handler
	Health         *HealthHandler
	Metrics        *metrics.Metrics
}

// NewRouter creates and configures the HTTP router
func NewRouter(cfg *config.Config, h Handlers, logger *logging.Logger) *chi.Mux {
	r := chi.NewRouter()

	// CORS - must be first
	if len(cfg.Server.TrustedOrigins) > 0 {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins:   cfg.Server.TrustedOrigins,
			AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
			AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
			ExposedHeaders:   []string{"Content-Length"},
			AllowCredentials: true,
			MaxAge:           300, // 5 minutes
		}))
	}

	// Global middleware
	r.Use(SecurityHeaders)               // Security headers on all responses
	r.Use(middleware.Recoverer)          // Recover from panics
	r.Use(middleware.RequestID)          // Add request ID
	r.Use(middleware.RealIP)             // Set RemoteAddr to real IP
	r.Use(logging.RequestLogger(logger)) // Structured logging with request context
	r.Use(middleware.Compress(5))        // Compress responses

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		httputil.RespondError(w, "not found", http.StatusNotFound)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		httputil.RespondError(w, "method not allowed", http.StatusMethodNotAllowed)
	})

	// Public routes
	r.Get("/health", h.Health.Live)
	r.Get("/health/ready", h.Health.Ready)
	if h.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", h.Metrics.Handler())
	}

	// Swagger UI - only in development
	// Production builds will not have this route at all
	if cfg.Server.IsDevelopment() {
		logger.Info("swagger UI enabled at /swagger/*")
		r.Get("/swagger/*", httpSwagger.WrapHandler)
	} else {
		logger.Info("swagger UI disabled (production mode)")
	}

	// Credential routes (public)
	r.Post("/register", h.Auth.Register)
	r.Post("/login", h.Auth.Login)

	// Protected routes (require authentication)
	r.Group(func(r chi.Router) {
		r.Use(h.AuthMiddleware.RequireAuth)
		r.Post("/analyze", h.Analysis.Analyze)
		r.Get("/reviews", h.Analysis.ListReviews)
	})

	return r
}
