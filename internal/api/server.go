package api

import (
	"net/http"
	"time"

	adviceapi "github.com/futig/medi-assistant/internal/api/advice"
	"github.com/futig/medi-assistant/internal/api/docs"
	"github.com/futig/medi-assistant/internal/api/middleware"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"
)

// RouterConfig tunes the router.
type RouterConfig struct {
	// RequestTimeout bounds a whole advice action: model call, translation and speech.
	RequestTimeout time.Duration
	// DocsSpecPath is the OpenAPI document served under /docs.
	DocsSpecPath string
	// AllowedOrigins lists browser origins allowed to call the API. "*" allows any.
	AllowedOrigins []string
}

// SetupRouter creates and configures the HTTP router.
func SetupRouter(adviceHandler *adviceapi.Handler, cfg RouterConfig, logger *zap.Logger) http.Handler {
	r := chi.NewRouter()

	requestTimeout := cfg.RequestTimeout
	if requestTimeout <= 0 {
		requestTimeout = 3 * time.Minute
	}

	allowedOrigins := cfg.AllowedOrigins
	if len(allowedOrigins) == 0 {
		allowedOrigins = []string{"*"}
	}

	// Middleware stack
	r.Use(chimiddleware.Recoverer)   // Recover from panics
	r.Use(chimiddleware.RequestID)   // Add request ID
	r.Use(chimiddleware.RealIP)      // Client address from proxy headers
	r.Use(middleware.Logger(logger)) // Log requests
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
		ExposedHeaders: []string{"Content-Disposition", "X-Request-ID"},
		MaxAge:         300,
	}))
	r.Use(chimiddleware.Timeout(requestTimeout)) // Default timeout

	// Health check endpoint
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"healthy"}`))
	})

	// Swagger documentation endpoints
	docs.RegisterRoutes(r, cfg.DocsSpecPath)

	adviceapi.RegisterRoutes(r, adviceHandler)

	return r
}
