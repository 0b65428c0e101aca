package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/bscode-watanabejun/nasreco/internal/auth"
	"github.com/bscode-watanabejun/nasreco/internal/cache"
	"github.com/bscode-watanabejun/nasreco/internal/config"
	"github.com/bscode-watanabejun/nasreco/internal/email"
	httpapi "github.com/bscode-watanabejun/nasreco/internal/http"
	"github.com/bscode-watanabejun/nasreco/internal/observability/logger"
	"github.com/bscode-watanabejun/nasreco/internal/store"
	"github.com/bscode-watanabejun/nasreco/internal/store/pg"
	"github.com/jackc/pgx/v5/pgxpool"
)

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Arranca el servidor HTTP",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(cfgPath)
			if err != nil {
				return err
			}
			logger.Init(logger.Config{
				Env:         cfg.App.Env,
				ServiceName: "nasreco",
			})
			defer func() { _ = logger.Sync() }()
			log := logger.Named("main")

			ctx := cmd.Context()

			db, err := store.Open(ctx, cfg)
			if err != nil {
				return err
			}
			defer db.Close()

			cacheClient, err := cache.New(cache.Config{
				Kind:     cfg.Cache.Kind,
				Addr:     cfg.Cache.Redis.Addr,
				Password: cfg.Cache.Redis.Password,
				DB:       cfg.Cache.Redis.DB,
				Prefix:   cfg.Cache.Redis.Prefix,
			})
			if err != nil {
				return err
			}
			defer cacheClient.Close()

			sessions := auth.NewSessionManager(cacheClient, cfg.Auth.Session.CookieName, cfg.SessionTTL(), cfg.Auth.Session.Secure)
			issuer := auth.NewTokenIssuer(cfg.Auth.JWT.Issuer, cfg.Auth.JWT.Secret, cfg.AccessTTL())

			var notifier email.Notifier = email.NopNotifier{}
			if cfg.Notify.CommunicationEmails && cfg.SMTP.Host != "" {
				notifier = email.NewCommunicationNotifier(email.NewSMTPSender(cfg))
			}

			metricsHandler, err := httpapi.RegisterMetrics(httpapi.MetricsConfig{
				DBPool: dbPoolOf(db),
			})
			if err != nil {
				return err
			}

			srv := httpapi.New(cfg, db, sessions, issuer, notifier, metricsHandler)

			errCh := make(chan error, 1)
			go func() { errCh <- srv.ListenAndServe() }()

			stop := make(chan os.Signal, 1)
			signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

			select {
			case err := <-errCh:
				if err != nil && err != http.ErrServerClosed {
					return err
				}
			case sig := <-stop:
				log.Info("apagando", logger.Op(sig.String()))
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
				defer cancel()
				if err := srv.Shutdown(shutdownCtx); err != nil {
					return err
				}
			}
			return nil
		},
	}
}

// dbPoolOf expone el pool pgx del adapter postgres; nil para memory.
func dbPoolOf(db any) func() *pgxpool.Pool {
	s, ok := db.(*pg.Store)
	if !ok {
		return nil
	}
	return func() *pgxpool.Pool { return s.Pool() }
}
