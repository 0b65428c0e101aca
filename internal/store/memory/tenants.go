package memory

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/bscode-watanabejun/nasreco/internal/domain/repository"
)

func (s *Store) CreateTenant(ctx context.Context, t *repository.Tenant) error {
	if t.ID == "" {
		return repository.ErrInvalidInput
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.tenants[t.ID]; exists {
		return repository.ErrConflict
	}
	now := time.Now().UTC()
	t.CreatedAt = now
	t.UpdatedAt = now
	cp := *t
	s.tenants[t.ID] = &cp
	return nil
}

func (s *Store) GetTenant(ctx context.Context, id string) (*repository.Tenant, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.tenants[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *t
	return &cp, nil
}

func (s *Store) ListTenants(ctx context.Context) ([]*repository.Tenant, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*repository.Tenant, 0, len(s.tenants))
	for _, t := range s.tenants {
		cp := *t
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *Store) UpdateTenant(ctx context.Context, t *repository.Tenant) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cur, ok := s.tenants[t.ID]
	if !ok {
		return repository.ErrNotFound
	}
	t.CreatedAt = cur.CreatedAt
	t.UpdatedAt = time.Now().UTC()
	cp := *t
	s.tenants[t.ID] = &cp
	return nil
}

func (s *Store) DeleteTenant(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.tenants[id]; !ok {
		return repository.ErrNotFound
	}
	delete(s.tenants, id)
	return nil
}

// ─────────────── Staff ───────────────

func (s *Store) CreateStaff(ctx context.Context, st *repository.Staff) error {
	if st.ID == "" || st.TenantID == "" {
		return repository.ErrInvalidInput
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.staff[st.ID]; exists {
		return repository.ErrConflict
	}
	for _, other := range s.staff {
		if other.TenantID == st.TenantID && strings.EqualFold(other.Email, st.Email) {
			return repository.ErrConflict
		}
	}
	st.CreatedAt = time.Now().UTC()
	cp := *st
	s.staff[st.ID] = &cp
	return nil
}

func (s *Store) GetStaff(ctx context.Context, tenantID, id string) (*repository.Staff, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	st, ok := s.staff[id]
	if !ok || st.TenantID != tenantID {
		return nil, repository.ErrNotFound
	}
	cp := *st
	return &cp, nil
}

func (s *Store) GetStaffByEmail(ctx context.Context, tenantID, email string) (*repository.Staff, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, st := range s.staff {
		if st.TenantID == tenantID && strings.EqualFold(st.Email, email) {
			cp := *st
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (s *Store) ListStaff(ctx context.Context, tenantID string) ([]*repository.Staff, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*repository.Staff
	for _, st := range s.staff {
		if st.TenantID == tenantID {
			cp := *st
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (s *Store) UpdateStaff(ctx context.Context, st *repository.Staff) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cur, ok := s.staff[st.ID]
	if !ok || cur.TenantID != st.TenantID {
		return repository.ErrNotFound
	}
	st.CreatedAt = cur.CreatedAt
	cp := *st
	s.staff[st.ID] = &cp
	return nil
}

func (s *Store) DeleteStaff(ctx context.Context, tenantID, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	st, ok := s.staff[id]
	if !ok || st.TenantID != tenantID {
		return repository.ErrNotFound
	}
	delete(s.staff, id)
	return nil
}
