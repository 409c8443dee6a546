package main

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	httpSwagger "github.com/swaggo/http-swagger"
)

// router wires middlewares and endpoints. Adjust CORS for your frontend hosts.
func (a *App) router() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(a.log))
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:3000", "http://127.0.0.1:3000", "http://localhost:5173"},
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"X-Request-Id"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/health", a.handleHealth)

	r.Get("/api/openapi.yaml", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/yaml; charset=utf-8")
		w.Header().Set("Cache-Control", "public, max-age=60")
		w.Write(openapiYAML)
	})

	r.Mount("/swagger", httpSwagger.Handler(
		httpSwagger.URL("/api/openapi.yaml"),
	))

	r.Route("/api", func(api chi.Router) {
		api.Post("/auth/register", a.handleRegister)
		api.Post("/auth/login", a.handleLogin)

		api.Group(func(pub chi.Router) {
			pub.Use(a.optionalAuth)
			pub.Post("/forms/rainfall", a.handleRainfall)
			pub.Post("/forms/crop-yield", a.handleCropYield)
			pub.Post("/forms/satellite", a.handleSatellite)
			pub.Get("/forms/historical", a.handleHistorical)
			pub.Get("/dashboard", a.handleDashboard)
		})

		api.Group(func(pr chi.Router) {
			pr.Use(a.authMiddleware)
			pr.Get("/me", a.handleMe)
			pr.Get("/reports", a.handleListReports)

			pr.Route("/fields", func(fr chi.Router) {
				fr.Get("/", a.handleListFields)
				fr.Post("/", a.handleCreateField)
				fr.Get("/{id}", a.handleGetField)
				fr.Delete("/{id}", a.handleDeleteField)
			})
		})
	})

	return r
}

// handleHealth reports whether the store answers.
func (a *App) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	status := "ok"
	if err := a.store.Ping(r.Context()); err != nil {
		a.log.Warn().Err(err).Msg("store ping failed")
		status = "degraded"
	}
	_ = json.NewEncoder(w).Encode(map[string]any{
		"status":    status,
		"predictor": a.predictor.BaseURL,
		"routes":    a.routes.Name,
		"time":      time.Now().UTC(),
	})
}
