// Package store selecciona el adapter de persistencia según configuración.
//
// Adapters disponibles:
//   - memory   (in-process, para desarrollo y tests)
//   - postgres (pgxpool, para producción)
package store

import (
	"context"
	"fmt"

	"github.com/bscode-watanabejun/nasreco/internal/config"
	"github.com/bscode-watanabejun/nasreco/internal/domain/repository"
	"github.com/bscode-watanabejun/nasreco/internal/store/memory"
	"github.com/bscode-watanabejun/nasreco/internal/store/pg"
)

// Open crea el DataAccess según cfg.Storage.Driver.
func Open(ctx context.Context, cfg *config.Config) (repository.DataAccess, error) {
	switch cfg.Storage.Driver {
	case "memory", "":
		return memory.New(), nil
	case "postgres":
		return pg.New(ctx, pg.Config{
			DSN:             cfg.Storage.DSN,
			MaxOpenConns:    cfg.Storage.Postgres.MaxOpenConns,
			ConnMaxLifetime: cfg.Storage.Postgres.ConnMaxLifetime,
		})
	default:
		return nil, fmt.Errorf("store: driver desconocido: %q", cfg.Storage.Driver)
	}
}
