package main

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/bscode-watanabejun/nasreco/internal/auth"
	"github.com/bscode-watanabejun/nasreco/internal/config"
	"github.com/bscode-watanabejun/nasreco/internal/domain/repository"
	"github.com/bscode-watanabejun/nasreco/internal/observability/logger"
	"github.com/bscode-watanabejun/nasreco/internal/store"
)

// Categorías y opciones iniciales de los desplegables.
var seedSettings = map[string][]string{
	"meal-amount":    {"全量", "多", "中", "少", "なし"},
	"timing":         {"morning", "noon", "evening", "night"},
	"excretion-kind": {"urine", "stool", "both"},
	"bath-type":      {"bath", "shower", "wipe", "none"},
	"floor":          {"1F", "2F", "3F"},
	"care-category":  {"nursing", "care", "rehab"},
}

func seedCmd() *cobra.Command {
	var (
		tenantName string
		email      string
		password   string
	)
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Crea un tenant inicial con un admin y los master settings base",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(cfgPath)
			if err != nil {
				return err
			}
			logger.Init(logger.Config{Env: cfg.App.Env, ServiceName: "nasreco-seed"})
			defer func() { _ = logger.Sync() }()
			log := logger.Named("seed")

			ctx := cmd.Context()
			db, err := store.Open(ctx, cfg)
			if err != nil {
				return err
			}
			defer db.Close()

			now := time.Now()
			t := &repository.Tenant{
				ID:        uuid.NewString(),
				Name:      tenantName,
				Active:    true,
				CreatedAt: now,
				UpdatedAt: now,
			}
			if err := db.CreateTenant(ctx, t); err != nil {
				return err
			}
			log.Info("tenant creado", logger.TenantID(t.ID))

			hash, err := auth.HashPassword(password)
			if err != nil {
				return err
			}
			admin := &repository.Staff{
				ID:           uuid.NewString(),
				TenantID:     t.ID,
				Email:        strings.ToLower(email),
				Name:         "Administrador",
				Role:         repository.RoleAdmin,
				PasswordHash: hash,
				Active:       true,
				CreatedAt:    now,
			}
			if err := db.CreateStaff(ctx, admin); err != nil {
				return err
			}
			log.Info("admin creado", logger.StaffID(admin.ID))

			for category, labels := range seedSettings {
				for i, label := range labels {
					ms := &repository.MasterSetting{
						ID:        uuid.NewString(),
						TenantID:  t.ID,
						Category:  category,
						Label:     label,
						Value:     label,
						Position:  i,
						Active:    true,
						CreatedAt: now,
						UpdatedAt: now,
					}
					if err := db.CreateSetting(ctx, ms); err != nil {
						return err
					}
				}
			}
			log.Info("settings sembrados", logger.Count(len(seedSettings)))
			return nil
		},
	}
	cmd.Flags().StringVar(&tenantName, "tenant", "demo", "nombre del tenant")
	cmd.Flags().StringVar(&email, "email", "admin@example.com", "email del admin")
	cmd.Flags().StringVar(&password, "password", "admin1234", "password del admin")
	return cmd
}
