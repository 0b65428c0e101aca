// Package memory implementa repository.DataAccess en memoria.
// Pensado para desarrollo y tests; todas las lecturas devuelven copias
// para que el caller no pueda mutar el estado interno.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/bscode-watanabejun/nasreco/internal/domain/repository"
)

// Store es el adapter en memoria. Thread-safe.
type Store struct {
	mu sync.RWMutex

	tenants        map[string]*repository.Tenant
	staff          map[string]*repository.Staff
	residents      map[string]*repository.Resident
	vitals         map[string]*repository.VitalRecord
	meals          map[string]*repository.MealRecord
	medications    map[string]*repository.MedicationRecord
	excretions     map[string]*repository.ExcretionRecord
	bathings       map[string]*repository.BathingRecord
	careNotes      map[string]*repository.CareNote
	communications map[string]*repository.Communication
	settings       map[string]*repository.MasterSetting

	// communicationID -> staffID -> readAt
	reads map[string]map[string]time.Time
}

// New crea un Store vacío.
func New() *Store {
	return &Store{
		tenants:        make(map[string]*repository.Tenant),
		staff:          make(map[string]*repository.Staff),
		residents:      make(map[string]*repository.Resident),
		vitals:         make(map[string]*repository.VitalRecord),
		meals:          make(map[string]*repository.MealRecord),
		medications:    make(map[string]*repository.MedicationRecord),
		excretions:     make(map[string]*repository.ExcretionRecord),
		bathings:       make(map[string]*repository.BathingRecord),
		careNotes:      make(map[string]*repository.CareNote),
		communications: make(map[string]*repository.Communication),
		settings:       make(map[string]*repository.MasterSetting),
		reads:          make(map[string]map[string]time.Time),
	}
}

func (s *Store) Ping(ctx context.Context) error { return nil }

func (s *Store) Close() error { return nil }

// residentFloor resuelve la planta de un residente para filtros de listado.
// Caller debe tener el lock.
func (s *Store) residentFloor(residentID string) string {
	if r, ok := s.residents[residentID]; ok {
		return r.Floor
	}
	return ""
}
