package main

import (
	"context"
	"net/http"
	"time"

	"obsdb/internal/field"
	"obsdb/internal/httpx"
	"obsdb/internal/lookup"
	"obsdb/internal/observation"
	"obsdb/internal/overview"
	"obsdb/internal/platform/crypto"
	"obsdb/internal/survey"
)

type handlers struct {
	lookup       *lookup.HTTPHandler
	surveys      *survey.HTTPHandler
	fields       *field.HTTPHandler
	observations *observation.HTTPHandler
	overview     *overview.HTTPHandler
}

// pinger reports whether a backing store is reachable.
type pinger func(ctx context.Context) error

func newRouter(h handlers, jwtSecret string, ready pinger) *http.ServeMux {
	router := http.NewServeMux()

	router.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	router.HandleFunc("GET /readyz", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 500*time.Millisecond)
		defer cancel()
		if err := ready(ctx); err != nil {
			http.Error(w, "db not ready", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	})

	router.HandleFunc("GET /v1/lookup", h.lookup.Lookup)
	router.HandleFunc("GET /v1/lookup/fields", h.lookup.Fields)

	router.HandleFunc("GET /v1/overview", h.overview.Overview)
	router.HandleFunc("GET /v1/targets/{name}", h.overview.Target)

	router.HandleFunc("GET /v1/surveys", h.surveys.List)
	router.HandleFunc("GET /v1/surveys/{name}", h.surveys.Summary)

	router.HandleFunc("GET /v1/fields", h.fields.List)
	router.HandleFunc("GET /v1/fields/{id}", h.fields.Get)

	router.HandleFunc("GET /v1/observations", h.observations.List)
	router.HandleFunc("GET /v1/observations/{obsid}", h.observations.Get)

	admin := httpx.AuthMiddleware(jwtSecret, crypto.RoleAdmin)
	router.Handle("POST /v1/observations/{obsid}/invalid", admin(http.HandlerFunc(h.observations.MarkInvalid)))
	router.Handle("POST /v1/observations/{obsid}/archive", admin(http.HandlerFunc(h.observations.Archive)))

	return router
}
