package memory

import (
	"context"
	"sort"
	"time"

	"github.com/bscode-watanabejun/nasreco/internal/domain/repository"
)

func (s *Store) CreateResident(ctx context.Context, r *repository.Resident) error {
	if r.ID == "" || r.TenantID == "" {
		return repository.ErrInvalidInput
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.residents[r.ID]; exists {
		return repository.ErrConflict
	}
	now := time.Now().UTC()
	r.CreatedAt = now
	r.UpdatedAt = now
	cp := *r
	s.residents[r.ID] = &cp
	return nil
}

func (s *Store) GetResident(ctx context.Context, tenantID, id string) (*repository.Resident, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.residents[id]
	if !ok || r.TenantID != tenantID {
		return nil, repository.ErrNotFound
	}
	cp := *r
	return &cp, nil
}

func (s *Store) ListResidents(ctx context.Context, tenantID string, f repository.ResidentFilter) ([]*repository.Resident, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*repository.Resident
	for _, r := range s.residents {
		if r.TenantID != tenantID {
			continue
		}
		if f.Floor != "" && r.Floor != f.Floor {
			continue
		}
		if f.OnlyAdmitted && !r.Admitted {
			continue
		}
		cp := *r
		out = append(out, &cp)
	}
	// Orden estable: planta, habitación, nombre
	sort.Slice(out, func(i, j int) bool {
		if out[i].Floor != out[j].Floor {
			return out[i].Floor < out[j].Floor
		}
		if out[i].RoomNumber != out[j].RoomNumber {
			return out[i].RoomNumber < out[j].RoomNumber
		}
		return out[i].Name < out[j].Name
	})
	return out, nil
}

func (s *Store) UpdateResident(ctx context.Context, r *repository.Resident) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cur, ok := s.residents[r.ID]
	if !ok || cur.TenantID != r.TenantID {
		return repository.ErrNotFound
	}
	r.CreatedAt = cur.CreatedAt
	r.UpdatedAt = time.Now().UTC()
	cp := *r
	s.residents[r.ID] = &cp
	return nil
}

func (s *Store) DeleteResident(ctx context.Context, tenantID, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.residents[id]
	if !ok || r.TenantID != tenantID {
		return repository.ErrNotFound
	}
	delete(s.residents, id)
	return nil
}
