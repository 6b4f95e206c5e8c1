package services

import (
	"context"
	"net/http"
	"time"

	"go.uber.org/zap"

	"murshop24/internal/logger"
)

type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler отвечает 200, если БД отвечает на ping, иначе 503
func HealthHandler(p Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := p.Ping(ctx); err != nil {
			DatabaseUp.Set(0)
			logger.Error("health check failed", zap.Error(err))
			w.WriteHeader(http.StatusServiceUnavailable)
			w.Write([]byte("database unavailable"))
			return
		}
		DatabaseUp.Set(1)
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	}
}
