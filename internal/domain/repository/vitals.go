package repository

import (
	"context"
	"time"
)

// VitalRecord es una toma de signos vitales de un residente.
// Los campos numéricos son punteros: nil significa "no medido", distinto
// de cero.
type VitalRecord struct {
	ID          string    `json:"id"`
	TenantID    string    `json:"tenantId"`
	ResidentID  string    `json:"residentId"`
	RecordDate  string    `json:"recordDate"` // YYYY-MM-DD
	Timing      string    `json:"timing"`     // morning | noon | evening | night
	Temperature *float64  `json:"temperature,omitempty"`
	BPHigh      *int      `json:"bpHigh,omitempty"`
	BPLow       *int      `json:"bpLow,omitempty"`
	Pulse       *int      `json:"pulse,omitempty"`
	SpO2        *int      `json:"spo2,omitempty"`
	Respiration *int      `json:"respiration,omitempty"`
	Notes       string    `json:"notes,omitempty"`
	StaffID     string    `json:"staffId,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// RecordFilter filtra listados de registros diarios.
// Date vacío = todas las fechas; ResidentID vacío = todos los residentes.
type RecordFilter struct {
	Date       string // YYYY-MM-DD
	ResidentID string
	Floor      string
}

// VitalRepository gestiona registros de signos vitales.
type VitalRepository interface {
	CreateVital(ctx context.Context, v *VitalRecord) error
	GetVital(ctx context.Context, tenantID, id string) (*VitalRecord, error)
	ListVitals(ctx context.Context, tenantID string, f RecordFilter) ([]*VitalRecord, error)
	UpdateVital(ctx context.Context, v *VitalRecord) error
	DeleteVital(ctx context.Context, tenantID, id string) error
}
