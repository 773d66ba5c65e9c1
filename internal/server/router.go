// Package server wires the backend HTTP API: auth, table CRUD and the
// realtime change feed.
package server

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/theprotagonist3610/les-sandwichs-du-docteur-v1-sub003/internal/config"
	"github.com/theprotagonist3610/les-sandwichs-du-docteur-v1-sub003/internal/server/handlers"
	"github.com/theprotagonist3610/les-sandwichs-du-docteur-v1-sub003/internal/server/middleware"
	"github.com/theprotagonist3610/les-sandwichs-du-docteur-v1-sub003/internal/server/storage"
	"github.com/theprotagonist3610/les-sandwichs-du-docteur-v1-sub003/pkg/api"
)

// Deps are the collaborators of the HTTP API.
type Deps struct {
	Logger    *slog.Logger
	Users     storage.UserStorage
	Records   storage.RecordStorage
	DB        handlers.Pinger
	Hub       *handlers.Hub
	Registry  *prometheus.Registry
	JWT       handlers.JWTConfig
	RateLimit config.RateLimitConfig
}

// Router is the HTTP handler of the backend. Stop releases the rate limiters.
type Router struct {
	http.Handler
	limiters []*middleware.RateLimiter
}

func (r *Router) Stop() {
	for _, l := range r.limiters {
		l.Stop()
	}
}

// NewRouter builds the routes:
//
//	GET    /health
//	GET    /metrics
//	POST   /v1/auth/register
//	POST   /v1/auth/login
//	GET    /v1/tables/{table}/records
//	POST   /v1/tables/{table}/records
//	GET    /v1/tables/{table}/records/{id}
//	PATCH  /v1/tables/{table}/records/{id}
//	DELETE /v1/tables/{table}/records/{id}
//	GET    /v1/realtime?table=...
func NewRouter(d Deps) *Router {
	logger := d.Logger
	registry := d.Registry
	if registry == nil {
		registry = prometheus.NewRegistry()
	}
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Namespace: "possync",
			Name:      "realtime_subscribers",
			Help:      "Open realtime websocket subscriptions.",
		}, func() float64 { return float64(d.Hub.Subscribers()) }),
	)
	metrics := middleware.NewHTTPMetrics(registry)

	general := middleware.NewRateLimiter(d.RateLimit.Requests, d.RateLimit.Window)
	auth := middleware.NewRateLimiter(d.RateLimit.AuthRequests, d.RateLimit.Window)

	authHandler := handlers.NewAuthHandler(logger, d.Users, d.JWT)
	recordsHandler := handlers.NewRecordsHandler(logger, d.Records, d.Hub)
	healthHandler := handlers.NewHealthHandler(logger, d.DB)

	r := chi.NewRouter()
	r.Use(
		middleware.RecoveryMiddleware(logger),
		middleware.LoggingMiddleware(logger, api.PathHealth, api.PathMetrics),
		middleware.TracingMiddleware,
		metrics.Middleware,
	)

	r.Get(api.PathHealth, healthHandler.Health)
	r.Method(http.MethodGet, api.PathMetrics, promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))

	r.Group(func(r chi.Router) {
		r.Use(middleware.RateLimitMiddleware(auth, logger))
		r.Post(api.PathRegister, authHandler.Register)
		r.Post(api.PathLogin, authHandler.Login)
	})

	r.Group(func(r chi.Router) {
		r.Use(
			middleware.RateLimitMiddleware(general, logger),
			middleware.AuthMiddleware(logger, d.JWT),
		)
		r.Route(api.PathTables+"/{table}/records", func(r chi.Router) {
			r.Get("/", recordsHandler.List)
			r.Post("/", recordsHandler.Insert)
			r.Get("/{id}", recordsHandler.Get)
			r.Patch("/{id}", recordsHandler.Update)
			r.Delete("/{id}", recordsHandler.Delete)
		})
		r.Get(api.PathRealtime, d.Hub.ServeWS)
	})

	return &Router{Handler: r, limiters: []*middleware.RateLimiter{general, auth}}
}
