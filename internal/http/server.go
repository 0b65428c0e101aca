// Package http es la superficie HTTP del servicio: router, middlewares,
// handlers y el envelope de error que consume internal/client.
package http

import (
	"context"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/bscode-watanabejun/nasreco/internal/auth"
	"github.com/bscode-watanabejun/nasreco/internal/config"
	"github.com/bscode-watanabejun/nasreco/internal/domain/repository"
	"github.com/bscode-watanabejun/nasreco/internal/email"
	"github.com/bscode-watanabejun/nasreco/internal/observability/logger"
)

// Server arma y corre el servidor HTTP.
type Server struct {
	cfg      *config.Config
	db       repository.DataAccess
	sessions *auth.SessionManager
	issuer   *auth.TokenIssuer
	notifier email.Notifier
	metrics  http.Handler
	log      *zap.Logger
	srv      *http.Server
}

// New construye el Server. notifier y metricsHandler pueden ser nil.
func New(cfg *config.Config, db repository.DataAccess, sessions *auth.SessionManager, issuer *auth.TokenIssuer, notifier email.Notifier, metricsHandler http.Handler) *Server {
	s := &Server{
		cfg:      cfg,
		db:       db,
		sessions: sessions,
		issuer:   issuer,
		notifier: notifier,
		metrics:  metricsHandler,
		log:      logger.Named("server"),
	}
	s.srv = &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      s.Handler(),
		ReadTimeout:  parseDuration(cfg.Server.ReadTimeout, 10*time.Second),
		WriteTimeout: parseDuration(cfg.Server.WriteTimeout, 30*time.Second),
	}
	return s
}

// Handler arma la cadena completa de middlewares + rutas. El orden
// importa: el request id tiene que existir antes de cualquier log o
// envelope de error, y el tenant antes del logging para salir en cada
// línea.
func (s *Server) Handler() http.Handler {
	var h http.Handler = s.routes()
	h = WithLogging(h)
	h = WithTenant(h)
	h = WithMetrics(h)
	h = WithCORS(h, s.cfg.Server.CORSAllowedOrigins)
	h = WithSecurityHeaders(h)
	h = WithRecover(h)
	h = WithRequestID(h)
	return h
}

// ListenAndServe bloquea sirviendo requests.
func (s *Server) ListenAndServe() error {
	s.log.Info("escuchando", zap.String("addr", s.srv.Addr))
	return s.srv.ListenAndServe()
}

// Shutdown apaga el servidor con gracia.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}

func parseDuration(v string, fallback time.Duration) time.Duration {
	if d, err := time.ParseDuration(v); err == nil {
		return d
	}
	return fallback
}
