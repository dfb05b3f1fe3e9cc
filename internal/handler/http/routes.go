package http

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func (h *Handler) Init() *chi.Mux {
	router := chi.NewRouter()
	router.Use(middleware.Recoverer)
	router.Use(h.withTraceID)

	router.Handle("/metrics", promhttp.Handler())

	router.Group(func(r chi.Router) {
		r.Use(h.auth)

		r.Get("/api/sessions", h.listSessions)
		r.Get("/api/reconnects", h.listReconnects)
		r.Post("/api/sessions/{name}", h.connect)
		r.Delete("/api/sessions/{name}", h.disconnect)
		r.Put("/api/accounts", h.upsertAccount)
		r.Delete("/api/accounts/{name}", h.deleteAccount)
		r.Get("/api/accounts/{name}/events", h.listEvents)
	})

	return router
}
