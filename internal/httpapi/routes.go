package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"catmouse/internal/session"
	"catmouse/internal/ws"
)

func SetupRoutes(s *session.Session, log *zap.Logger) http.Handler {
	r := chi.NewRouter()

	r.Get("/ws", ws.Handler(s, log))
	r.Get("/healthz", Healthz)
	return r
}
