package repository

import (
	"context"
	"time"
)

// MasterSetting es una opción configurable de un desplegable
// (cantidades de comida, tipos de excreción, timings, plantas...).
// Position define el orden dentro de su categoría y es reordenable.
type MasterSetting struct {
	ID        string    `json:"id"`
	TenantID  string    `json:"tenantId"`
	Category  string    `json:"category"` // ej: "meal-amount", "excretion-type", "floor"
	Label     string    `json:"label"`
	Value     string    `json:"value"`
	Position  int       `json:"position"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// SettingPosition es un par (id, posición nueva) de un reorder en lote.
type SettingPosition struct {
	ID       string `json:"id"`
	Position int    `json:"position"`
}

// SettingRepository gestiona master settings.
type SettingRepository interface {
	CreateSetting(ctx context.Context, s *MasterSetting) error
	GetSetting(ctx context.Context, tenantID, id string) (*MasterSetting, error)
	ListSettings(ctx context.Context, tenantID, category string) ([]*MasterSetting, error)
	UpdateSetting(ctx context.Context, s *MasterSetting) error
	DeleteSetting(ctx context.Context, tenantID, id string) error

	// ReorderSettings aplica el lote completo de posiciones. El server
	// procesa los pares individualmente; no garantiza atomicidad
	// transaccional entre adapters (el cliente lo trata como atómico).
	ReorderSettings(ctx context.Context, tenantID, category string, positions []SettingPosition) error
}
