package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/IannisIP/RideApplicationBackend/internal/middleware"
)

func (app *Config) routes() http.Handler {
	mux := chi.NewRouter()

	// Request ID must be first
	mux.Use(middleware.RequestID)
	mux.Use(middleware.Logger)
	mux.Use(middleware.Recovery)
	mux.Use(middleware.Metrics("ride-app-backend"))

	// CORS: only the configured origins are accepted; requests without an
	// Origin header are unaffected.
	mux.Use(cors.Handler(cors.Options{
		AllowedOrigins:   app.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Request-ID", "x-access-token"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	mux.Use(chimiddleware.Heartbeat("/ping"))

	// Health check endpoints for Kubernetes
	mux.Get("/health/live", app.Liveness)
	mux.Get("/health/ready", app.Readiness)

	// Metrics endpoint for Prometheus
	mux.Handle("/metrics", promhttp.Handler())

	mux.Get("/", app.Banner)

	// Account routes
	mux.Post("/user", app.RegisterUser)
	mux.Post("/user/login", app.LoginUser)
	mux.Post("/driver", app.RegisterDriver)
	mux.Post("/driver/login", app.LoginDriver)
	mux.Get("/user-info", app.UserInfo)

	// Ride routes, gated by a valid session token
	mux.Route("/rides", func(r chi.Router) {
		r.Use(app.requireToken)
		r.Post("/", app.CreateRide)
		r.Get("/", app.ListRides)
		r.Get("/{id}", app.GetRide)
		r.Put("/{id}", app.UpdateRide)
		r.Delete("/{id}", app.DeleteRide)
	})

	return mux
}

// Banner answers the root path with a plain text greeting.
func (app *Config) Banner(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("Ride App Backend"))
}
