package main

import (
	"context"
	"errors"
	"net/http"
	"syscall"

	"go.uber.org/zap"

	"catmouse/internal/config"
	"catmouse/internal/httpapi"
	"catmouse/internal/session"
)

func main() {
	cfg := config.Load()

	logger, err := zap.NewProduction()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	ctx := context.Background()
	s := session.New(ctx, logger)

	// Build the router *with* the session injected
	handler := httpapi.SetupRoutes(s, logger)

	addr := cfg.Addr()
	logger.Info("listening", zap.String("addr", addr))
	if err := http.ListenAndServe(addr, handler); err != nil {
		reportBindError(logger, addr, err)
	}
}

// reportBindError turns the common bind failures into actionable guidance
// instead of a bare error dump. The process does not serve in any of these
// cases; it just exits cleanly after logging.
func reportBindError(logger *zap.Logger, addr string, err error) {
	switch {
	case errors.Is(err, syscall.EADDRINUSE):
		logger.Error("address already in use; pick a free port, e.g. PORT=3001",
			zap.String("addr", addr))
	case errors.Is(err, syscall.EACCES), errors.Is(err, syscall.EPERM):
		logger.Error("permission denied binding; try HOST=127.0.0.1 with an unprivileged port, e.g. PORT=3001",
			zap.String("addr", addr))
	default:
		logger.Error("server failed to start", zap.String("addr", addr), zap.Error(err))
	}
}
