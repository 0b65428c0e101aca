package pg

import (
	"context"

	"github.com/bscode-watanabejun/nasreco/internal/domain/repository"
)

const residentCols = `id, tenant_id, name, kana, floor, room_number, date_of_birth,
	gender, care_level, admitted, admitted_at, created_at, updated_at`

func (s *Store) scanResident(row rowScanner) (*repository.Resident, error) {
	var r repository.Resident
	if err := row.Scan(&r.ID, &r.TenantID, &r.Name, &r.Kana, &r.Floor, &r.RoomNumber,
		&r.DateOfBirth, &r.Gender, &r.CareLevel, &r.Admitted, &r.AdmittedAt,
		&r.CreatedAt, &r.UpdatedAt); err != nil {
		return nil, mapErr(err)
	}
	return &r, nil
}

func (s *Store) CreateResident(ctx context.Context, r *repository.Resident) error {
	if r.ID == "" || r.TenantID == "" {
		return repository.ErrInvalidInput
	}
	row := s.pool.QueryRow(ctx, `
		INSERT INTO residents (id, tenant_id, name, kana, floor, room_number,
			date_of_birth, gender, care_level, admitted, admitted_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING created_at, updated_at`,
		r.ID, r.TenantID, r.Name, r.Kana, r.Floor, r.RoomNumber,
		r.DateOfBirth, r.Gender, r.CareLevel, r.Admitted, r.AdmittedAt)
	return mapErr(row.Scan(&r.CreatedAt, &r.UpdatedAt))
}

func (s *Store) GetResident(ctx context.Context, tenantID, id string) (*repository.Resident, error) {
	return s.scanResident(s.pool.QueryRow(ctx, `
		SELECT `+residentCols+` FROM residents
		WHERE tenant_id = $1 AND id = $2`, tenantID, id))
}

func (s *Store) ListResidents(ctx context.Context, tenantID string, f repository.ResidentFilter) ([]*repository.Resident, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT `+residentCols+` FROM residents
		WHERE tenant_id = $1
		  AND ($2 = '' OR floor = $2)
		  AND (NOT $3 OR admitted)
		ORDER BY floor, room_number, name`,
		tenantID, f.Floor, f.OnlyAdmitted)
	if err != nil {
		return nil, mapErr(err)
	}
	defer rows.Close()
	var out []*repository.Resident
	for rows.Next() {
		r, err := s.scanResident(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, mapErr(rows.Err())
}

func (s *Store) UpdateResident(ctx context.Context, r *repository.Resident) error {
	tag, err := s.pool.Exec(ctx, `
		UPDATE residents SET name = $3, kana = $4, floor = $5, room_number = $6,
			date_of_birth = $7, gender = $8, care_level = $9, admitted = $10,
			admitted_at = $11, updated_at = now()
		WHERE tenant_id = $1 AND id = $2`,
		r.TenantID, r.ID, r.Name, r.Kana, r.Floor, r.RoomNumber,
		r.DateOfBirth, r.Gender, r.CareLevel, r.Admitted, r.AdmittedAt)
	return affected(tag, err)
}

func (s *Store) DeleteResident(ctx context.Context, tenantID, id string) error {
	tag, err := s.pool.Exec(ctx,
		`DELETE FROM residents WHERE tenant_id = $1 AND id = $2`, tenantID, id)
	return affected(tag, err)
}
