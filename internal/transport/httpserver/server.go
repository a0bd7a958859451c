package httpserver

import (
	"net/http"
	"time"

	"budget-app-go/internal/config"
	"budget-app-go/pkg/logger"
)

// New builds the listener for the routed API. The write timeout must stay
// above the router's request timeout so Timeout middleware can answer 504.
func New(cfg config.Config, handler http.Handler, log logger.Logger) *http.Server {
	return &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           handler,
		ReadHeaderTimeout: orDefault(cfg.HTTP.ReadHeaderTimeout, 5*time.Second),
		ReadTimeout:       orDefault(cfg.HTTP.ReadTimeout, 15*time.Second),
		WriteTimeout:      orDefault(cfg.HTTP.WriteTimeout, requestTimeout+5*time.Second),
		IdleTimeout:       orDefault(cfg.HTTP.IdleTimeout, 2*time.Minute),
		ErrorLog:          logger.StdLog(log),
	}
}

func orDefault(value, fallback time.Duration) time.Duration {
	if value <= 0 {
		return fallback
	}
	return value
}
