/*
Package handler provides the HTTP handlers and routing setup for the chat server.

This file defines the main Router, applying middleware like logging, CORS, and
IP-based rate limiting before delegating requests to specific handlers.
*/
package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/gorilla/websocket"
	"github.com/rs/cors"
	"golang.org/x/time/rate"

	"batepapo/internal/pkg/limiter"
	"batepapo/internal/pkg/logx"
	"batepapo/internal/pkg/resp"
)

const (
	JoinRate  = 0.2
	JoinBurst = 5
)

// Router sets up the main HTTP routing table (chi.Router) for the application.
// It initializes the per-IP rate limiter for the join endpoint, configures
// CORS, and applies global middleware.
func Router(deps *AppDeps) http.Handler {
	joinLimiter := limiter.NewIPRateLimiter(rate.Limit(JoinRate), JoinBurst)

	r := chi.NewRouter()

	allowedOrigins := make(map[string]struct{})
	for _, origin := range deps.Config.AllowedOrigins {
		allowedOrigins[origin] = struct{}{}
	}

	var wsUpgrader = websocket.Upgrader{
		ReadBufferSize:  4096,
		WriteBufferSize: 4096,
		CheckOrigin: func(r *http.Request) bool {
			if deps.Config.Environment == "development" {
				return true
			}

			origin := r.Header.Get("Origin")
			if _, ok := allowedOrigins[origin]; ok {
				return true
			}

			logx.Warn("WebSocket connection rejected: Origin not allowed.", "origin", origin)
			return false
		},
	}

	corsAllowedOrigins := []string{}
	if deps.Config.Environment == "development" {
		corsAllowedOrigins = []string{"*"}
	} else if len(deps.Config.AllowedOrigins) > 0 {
		corsAllowedOrigins = deps.Config.AllowedOrigins
	}

	c := cors.New(cors.Options{
		AllowedOrigins:   corsAllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "User"},
		ExposedHeaders:   []string{},
		AllowCredentials: true,
		MaxAge:           300,
	})
	r.Use(c.Handler)

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(logx.RequestLogger())
	r.Use(middleware.Recoverer)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		data := map[string]string{
			"status":  "ok",
			"service": "Batepapo Server",
		}
		resp.RespondSuccess(w, r, data)
	})

	rateLimitedJoin := joinLimiter.Middleware(HandleJoin(deps))
	r.Post("/participants", rateLimitedJoin.ServeHTTP)
	r.Get("/participants", HandleListParticipants(deps))

	r.Post("/messages", HandlePostMessage(deps))
	r.Get("/messages", HandleListMessages(deps))
	r.Delete("/messages/{id}", HandleDeleteMessage(deps))

	r.Post("/status", HandleStatus(deps))

	r.Get("/stream", HandleStream(wsUpgrader, deps))

	return r
}
