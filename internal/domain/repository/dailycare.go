package repository

import (
	"context"
	"time"
)

// ExcretionRecord registra una excreción. Amount y Consistency son labels
// de master settings, opacos para esta capa.
type ExcretionRecord struct {
	ID          string    `json:"id"`
	TenantID    string    `json:"tenantId"`
	ResidentID  string    `json:"residentId"`
	RecordDate  string    `json:"recordDate"` // YYYY-MM-DD
	RecordedAt  time.Time `json:"recordedAt"`
	Kind        string    `json:"kind"` // urine | stool | both
	Amount      string    `json:"amount,omitempty"`
	Consistency string    `json:"consistency,omitempty"`
	Notes       string    `json:"notes,omitempty"`
	StaffID     string    `json:"staffId,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// BathingRecord registra un baño o aseo.
type BathingRecord struct {
	ID         string    `json:"id"`
	TenantID   string    `json:"tenantId"`
	ResidentID string    `json:"residentId"`
	RecordDate string    `json:"recordDate"` // YYYY-MM-DD
	BathType   string    `json:"bathType"`   // bath | shower | wipe | none
	Notes      string    `json:"notes,omitempty"`
	StaffID    string    `json:"staffId,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// CareNote es una nota de enfermería/cuidado de texto libre.
type CareNote struct {
	ID         string    `json:"id"`
	TenantID   string    `json:"tenantId"`
	ResidentID string    `json:"residentId"`
	RecordDate string    `json:"recordDate"` // YYYY-MM-DD
	RecordedAt time.Time `json:"recordedAt"`
	Category   string    `json:"category,omitempty"` // nursing | care | rehab
	Content    string    `json:"content"`
	StaffID    string    `json:"staffId,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// ExcretionRepository gestiona registros de excreción.
type ExcretionRepository interface {
	CreateExcretion(ctx context.Context, e *ExcretionRecord) error
	GetExcretion(ctx context.Context, tenantID, id string) (*ExcretionRecord, error)
	ListExcretions(ctx context.Context, tenantID string, f RecordFilter) ([]*ExcretionRecord, error)
	UpdateExcretion(ctx context.Context, e *ExcretionRecord) error
	DeleteExcretion(ctx context.Context, tenantID, id string) error
}

// BathingRepository gestiona registros de baño.
type BathingRepository interface {
	CreateBathing(ctx context.Context, b *BathingRecord) error
	GetBathing(ctx context.Context, tenantID, id string) (*BathingRecord, error)
	ListBathings(ctx context.Context, tenantID string, f RecordFilter) ([]*BathingRecord, error)
	UpdateBathing(ctx context.Context, b *BathingRecord) error
	DeleteBathing(ctx context.Context, tenantID, id string) error
}

// CareNoteRepository gestiona notas de cuidado.
type CareNoteRepository interface {
	CreateCareNote(ctx context.Context, n *CareNote) error
	GetCareNote(ctx context.Context, tenantID, id string) (*CareNote, error)
	ListCareNotes(ctx context.Context, tenantID string, f RecordFilter) ([]*CareNote, error)
	UpdateCareNote(ctx context.Context, n *CareNote) error
	DeleteCareNote(ctx context.Context, tenantID, id string) error
}
