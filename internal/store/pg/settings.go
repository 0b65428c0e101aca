package pg

import (
	"context"

	"github.com/bscode-watanabejun/nasreco/internal/domain/repository"
)

const settingCols = `id, tenant_id, category, label, value, position, active,
	created_at, updated_at`

func scanSetting(row rowScanner) (*repository.MasterSetting, error) {
	var m repository.MasterSetting
	if err := row.Scan(&m.ID, &m.TenantID, &m.Category, &m.Label, &m.Value,
		&m.Position, &m.Active, &m.CreatedAt, &m.UpdatedAt); err != nil {
		return nil, mapErr(err)
	}
	return &m, nil
}

func (s *Store) CreateSetting(ctx context.Context, m *repository.MasterSetting) error {
	if m.ID == "" || m.TenantID == "" || m.Category == "" {
		return repository.ErrInvalidInput
	}
	row := s.pool.QueryRow(ctx, `
		INSERT INTO master_settings (id, tenant_id, category, label, value, position, active)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at, updated_at`,
		m.ID, m.TenantID, m.Category, m.Label, m.Value, m.Position, m.Active)
	return mapErr(row.Scan(&m.CreatedAt, &m.UpdatedAt))
}

func (s *Store) GetSetting(ctx context.Context, tenantID, id string) (*repository.MasterSetting, error) {
	return scanSetting(s.pool.QueryRow(ctx, `
		SELECT `+settingCols+` FROM master_settings
		WHERE tenant_id = $1 AND id = $2`, tenantID, id))
}

func (s *Store) ListSettings(ctx context.Context, tenantID, category string) ([]*repository.MasterSetting, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT `+settingCols+` FROM master_settings
		WHERE tenant_id = $1 AND ($2 = '' OR category = $2)
		ORDER BY category, position`,
		tenantID, category)
	if err != nil {
		return nil, mapErr(err)
	}
	defer rows.Close()
	var out []*repository.MasterSetting
	for rows.Next() {
		m, err := scanSetting(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, mapErr(rows.Err())
}

func (s *Store) UpdateSetting(ctx context.Context, m *repository.MasterSetting) error {
	tag, err := s.pool.Exec(ctx, `
		UPDATE master_settings SET category = $3, label = $4, value = $5,
			position = $6, active = $7, updated_at = now()
		WHERE tenant_id = $1 AND id = $2`,
		m.TenantID, m.ID, m.Category, m.Label, m.Value, m.Position, m.Active)
	return affected(tag, err)
}

func (s *Store) DeleteSetting(ctx context.Context, tenantID, id string) error {
	tag, err := s.pool.Exec(ctx,
		`DELETE FROM master_settings WHERE tenant_id = $1 AND id = $2`, tenantID, id)
	return affected(tag, err)
}

// ReorderSettings aplica las posiciones en una transacción. Si algún id no
// pertenece al tenant/categoría, la transacción entera aborta.
func (s *Store) ReorderSettings(ctx context.Context, tenantID, category string, positions []repository.SettingPosition) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return mapErr(err)
	}
	defer tx.Rollback(ctx)

	for _, p := range positions {
		tag, err := tx.Exec(ctx, `
			UPDATE master_settings SET position = $4, updated_at = now()
			WHERE tenant_id = $1 AND id = $2 AND category = $3`,
			tenantID, p.ID, category, p.Position)
		if err != nil {
			return mapErr(err)
		}
		if tag.RowsAffected() == 0 {
			return repository.ErrNotFound
		}
	}
	return mapErr(tx.Commit(ctx))
}
