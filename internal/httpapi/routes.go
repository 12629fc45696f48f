package httpapi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/syndicategame/syndicate-backend/internal/auth"
	"github.com/syndicategame/syndicate-backend/internal/session"
	"github.com/syndicategame/syndicate-backend/internal/ws"
)

func SetupRoutes(gate *auth.Gate, sess *session.Session, log *zap.Logger) http.Handler {
	r := chi.NewRouter()
	r.Use(requestLogger(log))

	r.Post("/login", Login(gate))
	r.Get("/healthz", Healthz)
	r.Get("/state", GetState(gate, sess))
	r.Get("/ws", ws.Handler(gate, sess, log))

	// Player actions
	r.Post("/actions", SubmitActions(gate, sess))
	r.Post("/messages", SendMessage(gate, sess))
	r.Post("/inbox/read", MarkInboxRead(gate, sess))
	r.Post("/warning/ack", AckBankruptcy(gate, sess))

	// Host controls
	r.Post("/resolve", ResolveRound(gate, sess))
	r.Post("/roles/shuffle", ShuffleRoles(gate, sess))
	r.Put("/players/{id}/name", RenamePlayer(gate, sess))
	r.Put("/players/{id}/pin", SetPlayerPIN(gate))
	r.Post("/reset", HardReset(gate, sess))

	return r
}

func requestLogger(log *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			next.ServeHTTP(w, r)
			log.Debug("request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Duration("took", time.Since(start)))
		})
	}
}
