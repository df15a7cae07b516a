package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	httpSwagger "github.com/swaggo/http-swagger"
)

func NewRouter(a *API, allowedOrigins []string) http.Handler {
	router := chi.NewRouter()

	router.Use(RequestID)
	router.Use(chimiddleware.RealIP)
	router.Use(Logger(a.logger))
	router.Use(Recoverer(a.logger))
	router.Use(a.Metrics)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{"GET", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
		ExposedHeaders: []string{"X-Request-ID"},
		MaxAge:         300,
	}))

	router.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, ErrorResponse{Message: "Route not found"})
	})
	router.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusMethodNotAllowed, ErrorResponse{Message: "Method not allowed"})
	})

	// Swagger documentation
	router.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))

	router.Get("/health", a.HealthHandler)
	router.Get("/ready", a.ReadyHandler)
	if a.metrics != nil {
		router.Method(http.MethodGet, "/metrics", a.metrics.Handler())
	}

	router.Route("/api/jobs", func(r chi.Router) {
		r.Get("/", a.SearchJobsHandler)
		r.Get("/{jobId}", a.GetJobHandler)
	})

	return router
}
