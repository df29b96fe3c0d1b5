package docs

import (
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"
	httpSwagger "github.com/swaggo/http-swagger/v2"
)

// DefaultSpecPath is relative to the working directory of the binary.
const DefaultSpecPath = "docs/swagger.yaml"

const specRoute = "/docs/swagger.yaml"

// Handler returns a handler that serves Swagger UI.
func Handler() http.HandlerFunc {
	return httpSwagger.Handler(
		httpSwagger.URL(specRoute),
		httpSwagger.DeepLinking(true),
		httpSwagger.DocExpansion("list"),
		httpSwagger.DomID("swagger-ui"),
	)
}

// SpecHandler serves the OpenAPI document of the advice API.
func SpecHandler(specPath string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		data, err := os.ReadFile(specPath)
		if err != nil {
			http.Error(w, "API specification is not available", http.StatusNotFound)
			return
		}

		w.Header().Set("Content-Type", "application/yaml")
		w.Write(data)
	}
}

// RegisterRoutes registers Swagger documentation routes on the router.
func RegisterRoutes(r chi.Router, specPath string) {
	if specPath == "" {
		specPath = DefaultSpecPath
	}

	r.Get("/docs", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/docs/index.html", http.StatusFound)
	})

	// Registered before the wildcard so chi prefers the exact match.
	r.Get(specRoute, SpecHandler(specPath))
	r.Get("/docs/*", Handler())
}
