package main

import (
	"fmt"
	"sort"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"

	"github.com/bscode-watanabejun/nasreco/internal/config"
	"github.com/bscode-watanabejun/nasreco/internal/observability/logger"
	migrations "github.com/bscode-watanabejun/nasreco/migrations/postgres"
)

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Aplica las migraciones de PostgreSQL pendientes",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(cfgPath)
			if err != nil {
				return err
			}
			logger.Init(logger.Config{Env: cfg.App.Env, ServiceName: "nasreco-migrate"})
			defer func() { _ = logger.Sync() }()
			log := logger.Named("migrate")

			if cfg.Storage.Driver != "postgres" {
				return fmt.Errorf("migrate requiere storage.driver=postgres (actual: %s)", cfg.Storage.Driver)
			}

			ctx := cmd.Context()
			pool, err := pgxpool.New(ctx, cfg.Storage.DSN)
			if err != nil {
				return err
			}
			defer pool.Close()

			const ensure = `CREATE TABLE IF NOT EXISTS schema_migrations (
				name text PRIMARY KEY,
				applied_at timestamptz NOT NULL DEFAULT now()
			)`
			if _, err := pool.Exec(ctx, ensure); err != nil {
				return err
			}

			entries, err := migrations.FS.ReadDir(".")
			if err != nil {
				return err
			}
			names := make([]string, 0, len(entries))
			for _, e := range entries {
				if !e.IsDir() {
					names = append(names, e.Name())
				}
			}
			sort.Strings(names)

			for _, name := range names {
				var exists bool
				if err := pool.QueryRow(ctx,
					`SELECT EXISTS (SELECT 1 FROM schema_migrations WHERE name = $1)`, name,
				).Scan(&exists); err != nil {
					return err
				}
				if exists {
					continue
				}

				sql, err := migrations.FS.ReadFile(name)
				if err != nil {
					return err
				}

				tx, err := pool.Begin(ctx)
				if err != nil {
					return err
				}
				if _, err := tx.Exec(ctx, string(sql)); err != nil {
					_ = tx.Rollback(ctx)
					return fmt.Errorf("migración %s: %w", name, err)
				}
				if _, err := tx.Exec(ctx,
					`INSERT INTO schema_migrations (name) VALUES ($1)`, name,
				); err != nil {
					_ = tx.Rollback(ctx)
					return err
				}
				if err := tx.Commit(ctx); err != nil {
					return err
				}
				log.Info("migración aplicada", logger.Op(name))
			}
			return nil
		},
	}
}
