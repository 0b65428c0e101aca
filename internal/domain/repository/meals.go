package repository

import (
	"context"
	"time"
)

// MealRecord registra la ingesta de una comida. Los valores de cantidad
// (MainAmount, SideAmount) son labels definidos en master settings
// (ej: "全量", "多", "中", "少") — opacos para esta capa.
type MealRecord struct {
	ID         string    `json:"id"`
	TenantID   string    `json:"tenantId"`
	ResidentID string    `json:"residentId"`
	RecordDate string    `json:"recordDate"` // YYYY-MM-DD
	MealTime   string    `json:"mealTime"`   // breakfast | lunch | dinner | snack
	MainAmount string    `json:"mainAmount,omitempty"`
	SideAmount string    `json:"sideAmount,omitempty"`
	WaterML    *int      `json:"waterMl,omitempty"`
	Supplement string    `json:"supplement,omitempty"`
	Notes      string    `json:"notes,omitempty"`
	StaffID    string    `json:"staffId,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// MedicationRecord registra la administración de una medicación.
type MedicationRecord struct {
	ID           string    `json:"id"`
	TenantID     string    `json:"tenantId"`
	ResidentID   string    `json:"residentId"`
	RecordDate   string    `json:"recordDate"` // YYYY-MM-DD
	Timing       string    `json:"timing"`     // before/after breakfast, lunch, dinner, bedtime
	Medication   string    `json:"medication"`
	Administered bool      `json:"administered"`
	ConfirmedBy  string    `json:"confirmedBy,omitempty"` // staff id que confirmó
	Notes        string    `json:"notes,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// MealRepository gestiona registros de comidas.
type MealRepository interface {
	CreateMeal(ctx context.Context, m *MealRecord) error
	GetMeal(ctx context.Context, tenantID, id string) (*MealRecord, error)
	ListMeals(ctx context.Context, tenantID string, f RecordFilter) ([]*MealRecord, error)
	UpdateMeal(ctx context.Context, m *MealRecord) error
	DeleteMeal(ctx context.Context, tenantID, id string) error
}

// MedicationRepository gestiona registros de medicación.
type MedicationRepository interface {
	CreateMedication(ctx context.Context, m *MedicationRecord) error
	GetMedication(ctx context.Context, tenantID, id string) (*MedicationRecord, error)
	ListMedications(ctx context.Context, tenantID string, f RecordFilter) ([]*MedicationRecord, error)
	UpdateMedication(ctx context.Context, m *MedicationRecord) error
	DeleteMedication(ctx context.Context, tenantID, id string) error
}
