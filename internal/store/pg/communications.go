package pg

import (
	"context"

	"github.com/bscode-watanabejun/nasreco/internal/domain/repository"
)

const communicationCols = `id, tenant_id, title, content, floor, important,
	author_id, created_at, updated_at`

func scanCommunication(row rowScanner) (*repository.Communication, error) {
	var c repository.Communication
	if err := row.Scan(&c.ID, &c.TenantID, &c.Title, &c.Content, &c.Floor,
		&c.Important, &c.AuthorID, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return nil, mapErr(err)
	}
	return &c, nil
}

func (s *Store) CreateCommunication(ctx context.Context, c *repository.Communication) error {
	if c.ID == "" || c.TenantID == "" {
		return repository.ErrInvalidInput
	}
	row := s.pool.QueryRow(ctx, `
		INSERT INTO communications (id, tenant_id, title, content, floor, important, author_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at, updated_at`,
		c.ID, c.TenantID, c.Title, c.Content, c.Floor, c.Important, c.AuthorID)
	return mapErr(row.Scan(&c.CreatedAt, &c.UpdatedAt))
}

func (s *Store) GetCommunication(ctx context.Context, tenantID, id string) (*repository.Communication, error) {
	return scanCommunication(s.pool.QueryRow(ctx, `
		SELECT `+communicationCols+` FROM communications
		WHERE tenant_id = $1 AND id = $2`, tenantID, id))
}

func (s *Store) ListCommunications(ctx context.Context, tenantID string, f repository.CommunicationFilter) ([]*repository.Communication, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT `+communicationCols+` FROM communications
		WHERE tenant_id = $1
		  AND ($2 = '' OR floor = '' OR floor = $2)
		  AND (NOT $3 OR important)
		ORDER BY created_at DESC`,
		tenantID, f.Floor, f.OnlyImportant)
	if err != nil {
		return nil, mapErr(err)
	}
	defer rows.Close()
	var out []*repository.Communication
	for rows.Next() {
		c, err := scanCommunication(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, mapErr(rows.Err())
}

func (s *Store) UpdateCommunication(ctx context.Context, c *repository.Communication) error {
	tag, err := s.pool.Exec(ctx, `
		UPDATE communications SET title = $3, content = $4, floor = $5,
			important = $6, updated_at = now()
		WHERE tenant_id = $1 AND id = $2`,
		c.TenantID, c.ID, c.Title, c.Content, c.Floor, c.Important)
	return affected(tag, err)
}

func (s *Store) DeleteCommunication(ctx context.Context, tenantID, id string) error {
	tag, err := s.pool.Exec(ctx,
		`DELETE FROM communications WHERE tenant_id = $1 AND id = $2`, tenantID, id)
	return affected(tag, err)
}

func (s *Store) MarkRead(ctx context.Context, tenantID, communicationID, staffID string) error {
	// Verifica pertenencia al tenant antes de marcar
	if _, err := s.GetCommunication(ctx, tenantID, communicationID); err != nil {
		return err
	}
	_, err := s.pool.Exec(ctx, `
		INSERT INTO communication_reads (communication_id, staff_id, read_at)
		VALUES ($1, $2, now())
		ON CONFLICT (communication_id, staff_id) DO NOTHING`,
		communicationID, staffID)
	return mapErr(err)
}

func (s *Store) MarkUnread(ctx context.Context, tenantID, communicationID, staffID string) error {
	if _, err := s.GetCommunication(ctx, tenantID, communicationID); err != nil {
		return err
	}
	_, err := s.pool.Exec(ctx, `
		DELETE FROM communication_reads
		WHERE communication_id = $1 AND staff_id = $2`,
		communicationID, staffID)
	return mapErr(err)
}

func (s *Store) ListReads(ctx context.Context, tenantID, communicationID string) ([]*repository.CommunicationRead, error) {
	if _, err := s.GetCommunication(ctx, tenantID, communicationID); err != nil {
		return nil, err
	}
	rows, err := s.pool.Query(ctx, `
		SELECT communication_id, staff_id, read_at
		FROM communication_reads
		WHERE communication_id = $1
		ORDER BY staff_id`, communicationID)
	if err != nil {
		return nil, mapErr(err)
	}
	defer rows.Close()
	var out []*repository.CommunicationRead
	for rows.Next() {
		var r repository.CommunicationRead
		if err := rows.Scan(&r.CommunicationID, &r.StaffID, &r.ReadAt); err != nil {
			return nil, mapErr(err)
		}
		out = append(out, &r)
	}
	return out, mapErr(rows.Err())
}
