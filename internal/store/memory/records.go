package memory

import (
	"context"
	"sort"
	"time"

	"github.com/bscode-watanabejun/nasreco/internal/domain/repository"
)

// matches aplica el RecordFilter común a todos los tipos de registro.
// Caller debe tener el lock (usa residentFloor).
func (s *Store) matches(f repository.RecordFilter, date, residentID string) bool {
	if f.Date != "" && f.Date != date {
		return false
	}
	if f.ResidentID != "" && f.ResidentID != residentID {
		return false
	}
	if f.Floor != "" && s.residentFloor(residentID) != f.Floor {
		return false
	}
	return true
}

// ─────────────── Vitals ───────────────

func (s *Store) CreateVital(ctx context.Context, v *repository.VitalRecord) error {
	if v.ID == "" || v.TenantID == "" || v.ResidentID == "" {
		return repository.ErrInvalidInput
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.vitals[v.ID]; exists {
		return repository.ErrConflict
	}
	now := time.Now().UTC()
	v.CreatedAt = now
	v.UpdatedAt = now
	cp := *v
	s.vitals[v.ID] = &cp
	return nil
}

func (s *Store) GetVital(ctx context.Context, tenantID, id string) (*repository.VitalRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.vitals[id]
	if !ok || v.TenantID != tenantID {
		return nil, repository.ErrNotFound
	}
	cp := *v
	return &cp, nil
}

func (s *Store) ListVitals(ctx context.Context, tenantID string, f repository.RecordFilter) ([]*repository.VitalRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*repository.VitalRecord
	for _, v := range s.vitals {
		if v.TenantID != tenantID || !s.matches(f, v.RecordDate, v.ResidentID) {
			continue
		}
		cp := *v
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].RecordDate != out[j].RecordDate {
			return out[i].RecordDate < out[j].RecordDate
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

func (s *Store) UpdateVital(ctx context.Context, v *repository.VitalRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cur, ok := s.vitals[v.ID]
	if !ok || cur.TenantID != v.TenantID {
		return repository.ErrNotFound
	}
	v.CreatedAt = cur.CreatedAt
	v.UpdatedAt = time.Now().UTC()
	cp := *v
	s.vitals[v.ID] = &cp
	return nil
}

func (s *Store) DeleteVital(ctx context.Context, tenantID, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.vitals[id]
	if !ok || v.TenantID != tenantID {
		return repository.ErrNotFound
	}
	delete(s.vitals, id)
	return nil
}

// ─────────────── Meals ───────────────

func (s *Store) CreateMeal(ctx context.Context, m *repository.MealRecord) error {
	if m.ID == "" || m.TenantID == "" || m.ResidentID == "" {
		return repository.ErrInvalidInput
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.meals[m.ID]; exists {
		return repository.ErrConflict
	}
	now := time.Now().UTC()
	m.CreatedAt = now
	m.UpdatedAt = now
	cp := *m
	s.meals[m.ID] = &cp
	return nil
}

func (s *Store) GetMeal(ctx context.Context, tenantID, id string) (*repository.MealRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	m, ok := s.meals[id]
	if !ok || m.TenantID != tenantID {
		return nil, repository.ErrNotFound
	}
	cp := *m
	return &cp, nil
}

func (s *Store) ListMeals(ctx context.Context, tenantID string, f repository.RecordFilter) ([]*repository.MealRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*repository.MealRecord
	for _, m := range s.meals {
		if m.TenantID != tenantID || !s.matches(f, m.RecordDate, m.ResidentID) {
			continue
		}
		cp := *m
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].RecordDate != out[j].RecordDate {
			return out[i].RecordDate < out[j].RecordDate
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

func (s *Store) UpdateMeal(ctx context.Context, m *repository.MealRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cur, ok := s.meals[m.ID]
	if !ok || cur.TenantID != m.TenantID {
		return repository.ErrNotFound
	}
	m.CreatedAt = cur.CreatedAt
	m.UpdatedAt = time.Now().UTC()
	cp := *m
	s.meals[m.ID] = &cp
	return nil
}

func (s *Store) DeleteMeal(ctx context.Context, tenantID, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.meals[id]
	if !ok || m.TenantID != tenantID {
		return repository.ErrNotFound
	}
	delete(s.meals, id)
	return nil
}

// ─────────────── Medications ───────────────

func (s *Store) CreateMedication(ctx context.Context, m *repository.MedicationRecord) error {
	if m.ID == "" || m.TenantID == "" || m.ResidentID == "" {
		return repository.ErrInvalidInput
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.medications[m.ID]; exists {
		return repository.ErrConflict
	}
	now := time.Now().UTC()
	m.CreatedAt = now
	m.UpdatedAt = now
	cp := *m
	s.medications[m.ID] = &cp
	return nil
}

func (s *Store) GetMedication(ctx context.Context, tenantID, id string) (*repository.MedicationRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	m, ok := s.medications[id]
	if !ok || m.TenantID != tenantID {
		return nil, repository.ErrNotFound
	}
	cp := *m
	return &cp, nil
}

func (s *Store) ListMedications(ctx context.Context, tenantID string, f repository.RecordFilter) ([]*repository.MedicationRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*repository.MedicationRecord
	for _, m := range s.medications {
		if m.TenantID != tenantID || !s.matches(f, m.RecordDate, m.ResidentID) {
			continue
		}
		cp := *m
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].RecordDate != out[j].RecordDate {
			return out[i].RecordDate < out[j].RecordDate
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

func (s *Store) UpdateMedication(ctx context.Context, m *repository.MedicationRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cur, ok := s.medications[m.ID]
	if !ok || cur.TenantID != m.TenantID {
		return repository.ErrNotFound
	}
	m.CreatedAt = cur.CreatedAt
	m.UpdatedAt = time.Now().UTC()
	cp := *m
	s.medications[m.ID] = &cp
	return nil
}

func (s *Store) DeleteMedication(ctx context.Context, tenantID, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.medications[id]
	if !ok || m.TenantID != tenantID {
		return repository.ErrNotFound
	}
	delete(s.medications, id)
	return nil
}

// ─────────────── Excretion ───────────────

func (s *Store) CreateExcretion(ctx context.Context, e *repository.ExcretionRecord) error {
	if e.ID == "" || e.TenantID == "" || e.ResidentID == "" {
		return repository.ErrInvalidInput
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.excretions[e.ID]; exists {
		return repository.ErrConflict
	}
	now := time.Now().UTC()
	e.CreatedAt = now
	e.UpdatedAt = now
	if e.RecordedAt.IsZero() {
		e.RecordedAt = now
	}
	cp := *e
	s.excretions[e.ID] = &cp
	return nil
}

func (s *Store) GetExcretion(ctx context.Context, tenantID, id string) (*repository.ExcretionRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.excretions[id]
	if !ok || e.TenantID != tenantID {
		return nil, repository.ErrNotFound
	}
	cp := *e
	return &cp, nil
}

func (s *Store) ListExcretions(ctx context.Context, tenantID string, f repository.RecordFilter) ([]*repository.ExcretionRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*repository.ExcretionRecord
	for _, e := range s.excretions {
		if e.TenantID != tenantID || !s.matches(f, e.RecordDate, e.ResidentID) {
			continue
		}
		cp := *e
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].RecordedAt.Before(out[j].RecordedAt) })
	return out, nil
}

func (s *Store) UpdateExcretion(ctx context.Context, e *repository.ExcretionRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cur, ok := s.excretions[e.ID]
	if !ok || cur.TenantID != e.TenantID {
		return repository.ErrNotFound
	}
	e.CreatedAt = cur.CreatedAt
	e.UpdatedAt = time.Now().UTC()
	cp := *e
	s.excretions[e.ID] = &cp
	return nil
}

func (s *Store) DeleteExcretion(ctx context.Context, tenantID, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.excretions[id]
	if !ok || e.TenantID != tenantID {
		return repository.ErrNotFound
	}
	delete(s.excretions, id)
	return nil
}

// ─────────────── Bathing ───────────────

func (s *Store) CreateBathing(ctx context.Context, b *repository.BathingRecord) error {
	if b.ID == "" || b.TenantID == "" || b.ResidentID == "" {
		return repository.ErrInvalidInput
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.bathings[b.ID]; exists {
		return repository.ErrConflict
	}
	now := time.Now().UTC()
	b.CreatedAt = now
	b.UpdatedAt = now
	cp := *b
	s.bathings[b.ID] = &cp
	return nil
}

func (s *Store) GetBathing(ctx context.Context, tenantID, id string) (*repository.BathingRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	b, ok := s.bathings[id]
	if !ok || b.TenantID != tenantID {
		return nil, repository.ErrNotFound
	}
	cp := *b
	return &cp, nil
}

func (s *Store) ListBathings(ctx context.Context, tenantID string, f repository.RecordFilter) ([]*repository.BathingRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*repository.BathingRecord
	for _, b := range s.bathings {
		if b.TenantID != tenantID || !s.matches(f, b.RecordDate, b.ResidentID) {
			continue
		}
		cp := *b
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].RecordDate != out[j].RecordDate {
			return out[i].RecordDate < out[j].RecordDate
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

func (s *Store) UpdateBathing(ctx context.Context, b *repository.BathingRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cur, ok := s.bathings[b.ID]
	if !ok || cur.TenantID != b.TenantID {
		return repository.ErrNotFound
	}
	b.CreatedAt = cur.CreatedAt
	b.UpdatedAt = time.Now().UTC()
	cp := *b
	s.bathings[b.ID] = &cp
	return nil
}

func (s *Store) DeleteBathing(ctx context.Context, tenantID, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.bathings[id]
	if !ok || b.TenantID != tenantID {
		return repository.ErrNotFound
	}
	delete(s.bathings, id)
	return nil
}

// ─────────────── Care notes ───────────────

func (s *Store) CreateCareNote(ctx context.Context, n *repository.CareNote) error {
	if n.ID == "" || n.TenantID == "" || n.ResidentID == "" {
		return repository.ErrInvalidInput
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.careNotes[n.ID]; exists {
		return repository.ErrConflict
	}
	now := time.Now().UTC()
	n.CreatedAt = now
	n.UpdatedAt = now
	if n.RecordedAt.IsZero() {
		n.RecordedAt = now
	}
	cp := *n
	s.careNotes[n.ID] = &cp
	return nil
}

func (s *Store) GetCareNote(ctx context.Context, tenantID, id string) (*repository.CareNote, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n, ok := s.careNotes[id]
	if !ok || n.TenantID != tenantID {
		return nil, repository.ErrNotFound
	}
	cp := *n
	return &cp, nil
}

func (s *Store) ListCareNotes(ctx context.Context, tenantID string, f repository.RecordFilter) ([]*repository.CareNote, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*repository.CareNote
	for _, n := range s.careNotes {
		if n.TenantID != tenantID || !s.matches(f, n.RecordDate, n.ResidentID) {
			continue
		}
		cp := *n
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].RecordedAt.Before(out[j].RecordedAt) })
	return out, nil
}

func (s *Store) UpdateCareNote(ctx context.Context, n *repository.CareNote) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cur, ok := s.careNotes[n.ID]
	if !ok || cur.TenantID != n.TenantID {
		return repository.ErrNotFound
	}
	n.CreatedAt = cur.CreatedAt
	n.UpdatedAt = time.Now().UTC()
	cp := *n
	s.careNotes[n.ID] = &cp
	return nil
}

func (s *Store) DeleteCareNote(ctx context.Context, tenantID, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	n, ok := s.careNotes[id]
	if !ok || n.TenantID != tenantID {
		return repository.ErrNotFound
	}
	delete(s.careNotes, id)
	return nil
}
