package pg

import (
	"context"
	"strings"

	"github.com/bscode-watanabejun/nasreco/internal/domain/repository"
)

func (s *Store) CreateTenant(ctx context.Context, t *repository.Tenant) error {
	if t.ID == "" {
		return repository.ErrInvalidInput
	}
	row := s.pool.QueryRow(ctx, `
		INSERT INTO tenants (id, name, active)
		VALUES ($1, $2, $3)
		RETURNING created_at, updated_at`,
		t.ID, t.Name, t.Active)
	return mapErr(row.Scan(&t.CreatedAt, &t.UpdatedAt))
}

func (s *Store) GetTenant(ctx context.Context, id string) (*repository.Tenant, error) {
	var t repository.Tenant
	row := s.pool.QueryRow(ctx, `
		SELECT id, name, active, created_at, updated_at
		FROM tenants WHERE id = $1`, id)
	if err := row.Scan(&t.ID, &t.Name, &t.Active, &t.CreatedAt, &t.UpdatedAt); err != nil {
		return nil, mapErr(err)
	}
	return &t, nil
}

func (s *Store) ListTenants(ctx context.Context) ([]*repository.Tenant, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, name, active, created_at, updated_at
		FROM tenants ORDER BY id`)
	if err != nil {
		return nil, mapErr(err)
	}
	defer rows.Close()
	var out []*repository.Tenant
	for rows.Next() {
		var t repository.Tenant
		if err := rows.Scan(&t.ID, &t.Name, &t.Active, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, mapErr(err)
		}
		out = append(out, &t)
	}
	return out, mapErr(rows.Err())
}

func (s *Store) UpdateTenant(ctx context.Context, t *repository.Tenant) error {
	tag, err := s.pool.Exec(ctx, `
		UPDATE tenants SET name = $2, active = $3, updated_at = now()
		WHERE id = $1`,
		t.ID, t.Name, t.Active)
	return affected(tag, err)
}

func (s *Store) DeleteTenant(ctx context.Context, id string) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM tenants WHERE id = $1`, id)
	return affected(tag, err)
}

// ─────────────── Staff ───────────────

func (s *Store) CreateStaff(ctx context.Context, st *repository.Staff) error {
	if st.ID == "" || st.TenantID == "" {
		return repository.ErrInvalidInput
	}
	row := s.pool.QueryRow(ctx, `
		INSERT INTO staff (id, tenant_id, email, name, role, floor, password_hash, active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING created_at`,
		st.ID, st.TenantID, strings.ToLower(st.Email), st.Name, string(st.Role),
		st.Floor, st.PasswordHash, st.Active)
	return mapErr(row.Scan(&st.CreatedAt))
}

func (s *Store) GetStaff(ctx context.Context, tenantID, id string) (*repository.Staff, error) {
	return s.scanStaff(s.pool.QueryRow(ctx, `
		SELECT id, tenant_id, email, name, role, floor, password_hash, active, created_at, disabled_at
		FROM staff WHERE tenant_id = $1 AND id = $2`, tenantID, id))
}

func (s *Store) GetStaffByEmail(ctx context.Context, tenantID, email string) (*repository.Staff, error) {
	return s.scanStaff(s.pool.QueryRow(ctx, `
		SELECT id, tenant_id, email, name, role, floor, password_hash, active, created_at, disabled_at
		FROM staff WHERE tenant_id = $1 AND email = $2`, tenantID, strings.ToLower(email)))
}

type rowScanner interface {
	Scan(dest ...any) error
}

func (s *Store) scanStaff(row rowScanner) (*repository.Staff, error) {
	var st repository.Staff
	var role string
	if err := row.Scan(&st.ID, &st.TenantID, &st.Email, &st.Name, &role, &st.Floor,
		&st.PasswordHash, &st.Active, &st.CreatedAt, &st.DisabledAt); err != nil {
		return nil, mapErr(err)
	}
	st.Role = repository.StaffRole(role)
	return &st, nil
}

func (s *Store) ListStaff(ctx context.Context, tenantID string) ([]*repository.Staff, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, tenant_id, email, name, role, floor, password_hash, active, created_at, disabled_at
		FROM staff WHERE tenant_id = $1 ORDER BY name`, tenantID)
	if err != nil {
		return nil, mapErr(err)
	}
	defer rows.Close()
	var out []*repository.Staff
	for rows.Next() {
		st, err := s.scanStaff(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, st)
	}
	return out, mapErr(rows.Err())
}

func (s *Store) UpdateStaff(ctx context.Context, st *repository.Staff) error {
	tag, err := s.pool.Exec(ctx, `
		UPDATE staff SET email = $3, name = $4, role = $5, floor = $6,
			password_hash = $7, active = $8, disabled_at = $9
		WHERE tenant_id = $1 AND id = $2`,
		st.TenantID, st.ID, strings.ToLower(st.Email), st.Name, string(st.Role),
		st.Floor, st.PasswordHash, st.Active, st.DisabledAt)
	return affected(tag, err)
}

func (s *Store) DeleteStaff(ctx context.Context, tenantID, id string) error {
	tag, err := s.pool.Exec(ctx,
		`DELETE FROM staff WHERE tenant_id = $1 AND id = $2`, tenantID, id)
	return affected(tag, err)
}
