package memory

import (
	"context"
	"sort"
	"time"

	"github.com/bscode-watanabejun/nasreco/internal/domain/repository"
)

func (s *Store) CreateCommunication(ctx context.Context, c *repository.Communication) error {
	if c.ID == "" || c.TenantID == "" {
		return repository.ErrInvalidInput
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.communications[c.ID]; exists {
		return repository.ErrConflict
	}
	now := time.Now().UTC()
	c.CreatedAt = now
	c.UpdatedAt = now
	cp := *c
	s.communications[c.ID] = &cp
	return nil
}

func (s *Store) GetCommunication(ctx context.Context, tenantID, id string) (*repository.Communication, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.communications[id]
	if !ok || c.TenantID != tenantID {
		return nil, repository.ErrNotFound
	}
	cp := *c
	return &cp, nil
}

func (s *Store) ListCommunications(ctx context.Context, tenantID string, f repository.CommunicationFilter) ([]*repository.Communication, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*repository.Communication
	for _, c := range s.communications {
		if c.TenantID != tenantID {
			continue
		}
		if f.Floor != "" && c.Floor != "" && c.Floor != f.Floor {
			continue
		}
		if f.OnlyImportant && !c.Important {
			continue
		}
		cp := *c
		out = append(out, &cp)
	}
	// Más recientes primero
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (s *Store) UpdateCommunication(ctx context.Context, c *repository.Communication) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cur, ok := s.communications[c.ID]
	if !ok || cur.TenantID != c.TenantID {
		return repository.ErrNotFound
	}
	c.CreatedAt = cur.CreatedAt
	c.UpdatedAt = time.Now().UTC()
	cp := *c
	s.communications[c.ID] = &cp
	return nil
}

func (s *Store) DeleteCommunication(ctx context.Context, tenantID, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.communications[id]
	if !ok || c.TenantID != tenantID {
		return repository.ErrNotFound
	}
	delete(s.communications, id)
	delete(s.reads, id)
	return nil
}

func (s *Store) MarkRead(ctx context.Context, tenantID, communicationID, staffID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.communications[communicationID]
	if !ok || c.TenantID != tenantID {
		return repository.ErrNotFound
	}
	m, ok := s.reads[communicationID]
	if !ok {
		m = make(map[string]time.Time)
		s.reads[communicationID] = m
	}
	// Idempotente: conserva el primer readAt
	if _, already := m[staffID]; !already {
		m[staffID] = time.Now().UTC()
	}
	return nil
}

func (s *Store) MarkUnread(ctx context.Context, tenantID, communicationID, staffID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.communications[communicationID]
	if !ok || c.TenantID != tenantID {
		return repository.ErrNotFound
	}
	if m, ok := s.reads[communicationID]; ok {
		delete(m, staffID)
	}
	return nil
}

func (s *Store) ListReads(ctx context.Context, tenantID, communicationID string) ([]*repository.CommunicationRead, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.communications[communicationID]
	if !ok || c.TenantID != tenantID {
		return nil, repository.ErrNotFound
	}
	var out []*repository.CommunicationRead
	for staffID, at := range s.reads[communicationID] {
		out = append(out, &repository.CommunicationRead{
			CommunicationID: communicationID,
			StaffID:         staffID,
			ReadAt:          at,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StaffID < out[j].StaffID })
	return out, nil
}
