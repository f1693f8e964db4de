// Package httpapi is the admin HTTP surface (SPEC_FULL.md §6.2): health
// and stats only. Meeting CRUD lives outside this engine's scope (spec §1,
// "Out of scope").
package httpapi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// Stats is the subset of hub state worth exposing over HTTP, assembled by
// the caller (the hub holds the lock, httpapi never reaches into it
// directly).
type Stats struct {
	Participants int `json:"participants"`
	Rooms        int `json:"rooms"`
	Connections  int `json:"connections"`
}

// StatsFunc is invoked per request; it must return promptly.
type StatsFunc func() Stats

// WSHandler is the upgrade endpoint, already bound to the hub's router.
type WSHandler func(w http.ResponseWriter, r *http.Request)

// NewRouter builds the admin surface. allowedOrigins is the same CORS
// allow-list handed to the websocket upgrader; an empty list allows any
// origin on these GET-only, unauthenticated endpoints.
func NewRouter(wsHandler WSHandler, stats StatsFunc, allowedOrigins []string) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(10 * time.Second))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: corsOrigins(allowedOrigins),
		AllowedMethods: []string{http.MethodGet},
	}))

	r.Get("/ws", http.HandlerFunc(wsHandler))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Get("/stats", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, stats())
	})

	return r
}

// corsOrigins maps an empty allow-list onto go-chi/cors' wildcard, since
// this package's own config treats "no origins configured" as "allow any".
func corsOrigins(allowed []string) []string {
	if len(allowed) == 0 {
		return []string{"*"}
	}
	return allowed
}
