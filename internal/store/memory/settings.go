package memory

import (
	"context"
	"sort"
	"time"

	"github.com/bscode-watanabejun/nasreco/internal/domain/repository"
)

func (s *Store) CreateSetting(ctx context.Context, m *repository.MasterSetting) error {
	if m.ID == "" || m.TenantID == "" || m.Category == "" {
		return repository.ErrInvalidInput
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.settings[m.ID]; exists {
		return repository.ErrConflict
	}
	now := time.Now().UTC()
	m.CreatedAt = now
	m.UpdatedAt = now
	cp := *m
	s.settings[m.ID] = &cp
	return nil
}

func (s *Store) GetSetting(ctx context.Context, tenantID, id string) (*repository.MasterSetting, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	m, ok := s.settings[id]
	if !ok || m.TenantID != tenantID {
		return nil, repository.ErrNotFound
	}
	cp := *m
	return &cp, nil
}

func (s *Store) ListSettings(ctx context.Context, tenantID, category string) ([]*repository.MasterSetting, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*repository.MasterSetting
	for _, m := range s.settings {
		if m.TenantID != tenantID {
			continue
		}
		if category != "" && m.Category != category {
			continue
		}
		cp := *m
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Category != out[j].Category {
			return out[i].Category < out[j].Category
		}
		return out[i].Position < out[j].Position
	})
	return out, nil
}

func (s *Store) UpdateSetting(ctx context.Context, m *repository.MasterSetting) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cur, ok := s.settings[m.ID]
	if !ok || cur.TenantID != m.TenantID {
		return repository.ErrNotFound
	}
	m.CreatedAt = cur.CreatedAt
	m.UpdatedAt = time.Now().UTC()
	cp := *m
	s.settings[m.ID] = &cp
	return nil
}

func (s *Store) DeleteSetting(ctx context.Context, tenantID, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	m, ok := s.settings[id]
	if !ok || m.TenantID != tenantID {
		return repository.ErrNotFound
	}
	delete(s.settings, id)
	return nil
}

func (s *Store) ReorderSettings(ctx context.Context, tenantID, category string, positions []repository.SettingPosition) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	// Validar todo antes de tocar nada: el reorder es atómico.
	for _, p := range positions {
		m, ok := s.settings[p.ID]
		if !ok || m.TenantID != tenantID || m.Category != category {
			return repository.ErrNotFound
		}
	}
	now := time.Now().UTC()
	for _, p := range positions {
		s.settings[p.ID].Position = p.Position
		s.settings[p.ID].UpdatedAt = now
	}
	return nil
}
