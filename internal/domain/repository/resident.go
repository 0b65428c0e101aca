package repository

import (
	"context"
	"time"
)

// Resident representa un residente de la instalación.
type Resident struct {
	ID          string     `json:"id"`
	TenantID    string     `json:"tenantId"`
	Name        string     `json:"name"`
	Kana        string     `json:"kana,omitempty"`
	Floor       string     `json:"floor"`
	RoomNumber  string     `json:"roomNumber,omitempty"`
	DateOfBirth string     `json:"dateOfBirth,omitempty"` // YYYY-MM-DD
	Gender      string     `json:"gender,omitempty"`
	CareLevel   string     `json:"careLevel,omitempty"`
	Admitted    bool       `json:"admitted"`
	AdmittedAt  *time.Time `json:"admittedAt,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

// ResidentFilter filtra listados de residentes.
type ResidentFilter struct {
	Floor        string
	OnlyAdmitted bool
}

// ResidentRepository gestiona residentes de un tenant.
type ResidentRepository interface {
	CreateResident(ctx context.Context, r *Resident) error
	GetResident(ctx context.Context, tenantID, id string) (*Resident, error)
	ListResidents(ctx context.Context, tenantID string, f ResidentFilter) ([]*Resident, error)
	UpdateResident(ctx context.Context, r *Resident) error
	DeleteResident(ctx context.Context, tenantID, id string) error
}
