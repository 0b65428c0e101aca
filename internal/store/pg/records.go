package pg

import (
	"context"

	"github.com/bscode-watanabejun/nasreco/internal/domain/repository"
)

// El filtro de planta necesita el residente, así que los listados hacen
// JOIN contra residents. $2 = fecha, $3 = resident_id, $4 = floor; vacío
// significa "sin filtro".

// ─────────────── Vitals ───────────────

const vitalCols = `v.id, v.tenant_id, v.resident_id, v.record_date, v.timing,
	v.temperature, v.bp_high, v.bp_low, v.pulse, v.spo2, v.respiration,
	v.notes, v.staff_id, v.created_at, v.updated_at`

func scanVital(row rowScanner) (*repository.VitalRecord, error) {
	var v repository.VitalRecord
	if err := row.Scan(&v.ID, &v.TenantID, &v.ResidentID, &v.RecordDate, &v.Timing,
		&v.Temperature, &v.BPHigh, &v.BPLow, &v.Pulse, &v.SpO2, &v.Respiration,
		&v.Notes, &v.StaffID, &v.CreatedAt, &v.UpdatedAt); err != nil {
		return nil, mapErr(err)
	}
	return &v, nil
}

func (s *Store) CreateVital(ctx context.Context, v *repository.VitalRecord) error {
	if v.ID == "" || v.TenantID == "" || v.ResidentID == "" {
		return repository.ErrInvalidInput
	}
	row := s.pool.QueryRow(ctx, `
		INSERT INTO vitals (id, tenant_id, resident_id, record_date, timing,
			temperature, bp_high, bp_low, pulse, spo2, respiration, notes, staff_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING created_at, updated_at`,
		v.ID, v.TenantID, v.ResidentID, v.RecordDate, v.Timing,
		v.Temperature, v.BPHigh, v.BPLow, v.Pulse, v.SpO2, v.Respiration,
		v.Notes, v.StaffID)
	return mapErr(row.Scan(&v.CreatedAt, &v.UpdatedAt))
}

func (s *Store) GetVital(ctx context.Context, tenantID, id string) (*repository.VitalRecord, error) {
	return scanVital(s.pool.QueryRow(ctx, `
		SELECT `+vitalCols+` FROM vitals v
		WHERE v.tenant_id = $1 AND v.id = $2`, tenantID, id))
}

func (s *Store) ListVitals(ctx context.Context, tenantID string, f repository.RecordFilter) ([]*repository.VitalRecord, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT `+vitalCols+` FROM vitals v
		JOIN residents r ON r.id = v.resident_id
		WHERE v.tenant_id = $1
		  AND ($2 = '' OR v.record_date = $2)
		  AND ($3 = '' OR v.resident_id = $3)
		  AND ($4 = '' OR r.floor = $4)
		ORDER BY v.record_date, v.created_at`,
		tenantID, f.Date, f.ResidentID, f.Floor)
	if err != nil {
		return nil, mapErr(err)
	}
	defer rows.Close()
	var out []*repository.VitalRecord
	for rows.Next() {
		v, err := scanVital(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, mapErr(rows.Err())
}

func (s *Store) UpdateVital(ctx context.Context, v *repository.VitalRecord) error {
	tag, err := s.pool.Exec(ctx, `
		UPDATE vitals SET record_date = $3, timing = $4, temperature = $5,
			bp_high = $6, bp_low = $7, pulse = $8, spo2 = $9, respiration = $10,
			notes = $11, staff_id = $12, updated_at = now()
		WHERE tenant_id = $1 AND id = $2`,
		v.TenantID, v.ID, v.RecordDate, v.Timing, v.Temperature,
		v.BPHigh, v.BPLow, v.Pulse, v.SpO2, v.Respiration, v.Notes, v.StaffID)
	return affected(tag, err)
}

func (s *Store) DeleteVital(ctx context.Context, tenantID, id string) error {
	tag, err := s.pool.Exec(ctx,
		`DELETE FROM vitals WHERE tenant_id = $1 AND id = $2`, tenantID, id)
	return affected(tag, err)
}

// ─────────────── Meals ───────────────

const mealCols = `m.id, m.tenant_id, m.resident_id, m.record_date, m.meal_time,
	m.main_amount, m.side_amount, m.water_ml, m.supplement, m.notes, m.staff_id,
	m.created_at, m.updated_at`

func scanMeal(row rowScanner) (*repository.MealRecord, error) {
	var m repository.MealRecord
	if err := row.Scan(&m.ID, &m.TenantID, &m.ResidentID, &m.RecordDate, &m.MealTime,
		&m.MainAmount, &m.SideAmount, &m.WaterML, &m.Supplement, &m.Notes, &m.StaffID,
		&m.CreatedAt, &m.UpdatedAt); err != nil {
		return nil, mapErr(err)
	}
	return &m, nil
}

func (s *Store) CreateMeal(ctx context.Context, m *repository.MealRecord) error {
	if m.ID == "" || m.TenantID == "" || m.ResidentID == "" {
		return repository.ErrInvalidInput
	}
	row := s.pool.QueryRow(ctx, `
		INSERT INTO meals (id, tenant_id, resident_id, record_date, meal_time,
			main_amount, side_amount, water_ml, supplement, notes, staff_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING created_at, updated_at`,
		m.ID, m.TenantID, m.ResidentID, m.RecordDate, m.MealTime,
		m.MainAmount, m.SideAmount, m.WaterML, m.Supplement, m.Notes, m.StaffID)
	return mapErr(row.Scan(&m.CreatedAt, &m.UpdatedAt))
}

func (s *Store) GetMeal(ctx context.Context, tenantID, id string) (*repository.MealRecord, error) {
	return scanMeal(s.pool.QueryRow(ctx, `
		SELECT `+mealCols+` FROM meals m
		WHERE m.tenant_id = $1 AND m.id = $2`, tenantID, id))
}

func (s *Store) ListMeals(ctx context.Context, tenantID string, f repository.RecordFilter) ([]*repository.MealRecord, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT `+mealCols+` FROM meals m
		JOIN residents r ON r.id = m.resident_id
		WHERE m.tenant_id = $1
		  AND ($2 = '' OR m.record_date = $2)
		  AND ($3 = '' OR m.resident_id = $3)
		  AND ($4 = '' OR r.floor = $4)
		ORDER BY m.record_date, m.created_at`,
		tenantID, f.Date, f.ResidentID, f.Floor)
	if err != nil {
		return nil, mapErr(err)
	}
	defer rows.Close()
	var out []*repository.MealRecord
	for rows.Next() {
		m, err := scanMeal(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, mapErr(rows.Err())
}

func (s *Store) UpdateMeal(ctx context.Context, m *repository.MealRecord) error {
	tag, err := s.pool.Exec(ctx, `
		UPDATE meals SET record_date = $3, meal_time = $4, main_amount = $5,
			side_amount = $6, water_ml = $7, supplement = $8, notes = $9,
			staff_id = $10, updated_at = now()
		WHERE tenant_id = $1 AND id = $2`,
		m.TenantID, m.ID, m.RecordDate, m.MealTime, m.MainAmount,
		m.SideAmount, m.WaterML, m.Supplement, m.Notes, m.StaffID)
	return affected(tag, err)
}

func (s *Store) DeleteMeal(ctx context.Context, tenantID, id string) error {
	tag, err := s.pool.Exec(ctx,
		`DELETE FROM meals WHERE tenant_id = $1 AND id = $2`, tenantID, id)
	return affected(tag, err)
}

// ─────────────── Medications ───────────────

const medicationCols = `m.id, m.tenant_id, m.resident_id, m.record_date, m.timing,
	m.medication, m.administered, m.confirmed_by, m.notes, m.created_at, m.updated_at`

func scanMedication(row rowScanner) (*repository.MedicationRecord, error) {
	var m repository.MedicationRecord
	if err := row.Scan(&m.ID, &m.TenantID, &m.ResidentID, &m.RecordDate, &m.Timing,
		&m.Medication, &m.Administered, &m.ConfirmedBy, &m.Notes,
		&m.CreatedAt, &m.UpdatedAt); err != nil {
		return nil, mapErr(err)
	}
	return &m, nil
}

func (s *Store) CreateMedication(ctx context.Context, m *repository.MedicationRecord) error {
	if m.ID == "" || m.TenantID == "" || m.ResidentID == "" {
		return repository.ErrInvalidInput
	}
	row := s.pool.QueryRow(ctx, `
		INSERT INTO medications (id, tenant_id, resident_id, record_date, timing,
			medication, administered, confirmed_by, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING created_at, updated_at`,
		m.ID, m.TenantID, m.ResidentID, m.RecordDate, m.Timing,
		m.Medication, m.Administered, m.ConfirmedBy, m.Notes)
	return mapErr(row.Scan(&m.CreatedAt, &m.UpdatedAt))
}

func (s *Store) GetMedication(ctx context.Context, tenantID, id string) (*repository.MedicationRecord, error) {
	return scanMedication(s.pool.QueryRow(ctx, `
		SELECT `+medicationCols+` FROM medications m
		WHERE m.tenant_id = $1 AND m.id = $2`, tenantID, id))
}

func (s *Store) ListMedications(ctx context.Context, tenantID string, f repository.RecordFilter) ([]*repository.MedicationRecord, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT `+medicationCols+` FROM medications m
		JOIN residents r ON r.id = m.resident_id
		WHERE m.tenant_id = $1
		  AND ($2 = '' OR m.record_date = $2)
		  AND ($3 = '' OR m.resident_id = $3)
		  AND ($4 = '' OR r.floor = $4)
		ORDER BY m.record_date, m.created_at`,
		tenantID, f.Date, f.ResidentID, f.Floor)
	if err != nil {
		return nil, mapErr(err)
	}
	defer rows.Close()
	var out []*repository.MedicationRecord
	for rows.Next() {
		m, err := scanMedication(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, mapErr(rows.Err())
}

func (s *Store) UpdateMedication(ctx context.Context, m *repository.MedicationRecord) error {
	tag, err := s.pool.Exec(ctx, `
		UPDATE medications SET record_date = $3, timing = $4, medication = $5,
			administered = $6, confirmed_by = $7, notes = $8, updated_at = now()
		WHERE tenant_id = $1 AND id = $2`,
		m.TenantID, m.ID, m.RecordDate, m.Timing, m.Medication,
		m.Administered, m.ConfirmedBy, m.Notes)
	return affected(tag, err)
}

func (s *Store) DeleteMedication(ctx context.Context, tenantID, id string) error {
	tag, err := s.pool.Exec(ctx,
		`DELETE FROM medications WHERE tenant_id = $1 AND id = $2`, tenantID, id)
	return affected(tag, err)
}

// ─────────────── Excretion ───────────────

const excretionCols = `e.id, e.tenant_id, e.resident_id, e.record_date, e.recorded_at,
	e.kind, e.amount, e.consistency, e.notes, e.staff_id, e.created_at, e.updated_at`

func scanExcretion(row rowScanner) (*repository.ExcretionRecord, error) {
	var e repository.ExcretionRecord
	if err := row.Scan(&e.ID, &e.TenantID, &e.ResidentID, &e.RecordDate, &e.RecordedAt,
		&e.Kind, &e.Amount, &e.Consistency, &e.Notes, &e.StaffID,
		&e.CreatedAt, &e.UpdatedAt); err != nil {
		return nil, mapErr(err)
	}
	return &e, nil
}

func (s *Store) CreateExcretion(ctx context.Context, e *repository.ExcretionRecord) error {
	if e.ID == "" || e.TenantID == "" || e.ResidentID == "" {
		return repository.ErrInvalidInput
	}
	row := s.pool.QueryRow(ctx, `
		INSERT INTO excretions (id, tenant_id, resident_id, record_date, recorded_at,
			kind, amount, consistency, notes, staff_id)
		VALUES ($1, $2, $3, $4, COALESCE($5, now()), $6, $7, $8, $9, $10)
		RETURNING recorded_at, created_at, updated_at`,
		e.ID, e.TenantID, e.ResidentID, e.RecordDate, nullTime(e.RecordedAt),
		e.Kind, e.Amount, e.Consistency, e.Notes, e.StaffID)
	return mapErr(row.Scan(&e.RecordedAt, &e.CreatedAt, &e.UpdatedAt))
}

func (s *Store) GetExcretion(ctx context.Context, tenantID, id string) (*repository.ExcretionRecord, error) {
	return scanExcretion(s.pool.QueryRow(ctx, `
		SELECT `+excretionCols+` FROM excretions e
		WHERE e.tenant_id = $1 AND e.id = $2`, tenantID, id))
}

func (s *Store) ListExcretions(ctx context.Context, tenantID string, f repository.RecordFilter) ([]*repository.ExcretionRecord, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT `+excretionCols+` FROM excretions e
		JOIN residents r ON r.id = e.resident_id
		WHERE e.tenant_id = $1
		  AND ($2 = '' OR e.record_date = $2)
		  AND ($3 = '' OR e.resident_id = $3)
		  AND ($4 = '' OR r.floor = $4)
		ORDER BY e.recorded_at`,
		tenantID, f.Date, f.ResidentID, f.Floor)
	if err != nil {
		return nil, mapErr(err)
	}
	defer rows.Close()
	var out []*repository.ExcretionRecord
	for rows.Next() {
		e, err := scanExcretion(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, mapErr(rows.Err())
}

func (s *Store) UpdateExcretion(ctx context.Context, e *repository.ExcretionRecord) error {
	tag, err := s.pool.Exec(ctx, `
		UPDATE excretions SET record_date = $3, kind = $4, amount = $5,
			consistency = $6, notes = $7, staff_id = $8, updated_at = now()
		WHERE tenant_id = $1 AND id = $2`,
		e.TenantID, e.ID, e.RecordDate, e.Kind, e.Amount,
		e.Consistency, e.Notes, e.StaffID)
	return affected(tag, err)
}

func (s *Store) DeleteExcretion(ctx context.Context, tenantID, id string) error {
	tag, err := s.pool.Exec(ctx,
		`DELETE FROM excretions WHERE tenant_id = $1 AND id = $2`, tenantID, id)
	return affected(tag, err)
}

// ─────────────── Bathing ───────────────

const bathingCols = `b.id, b.tenant_id, b.resident_id, b.record_date, b.bath_type,
	b.notes, b.staff_id, b.created_at, b.updated_at`

func scanBathing(row rowScanner) (*repository.BathingRecord, error) {
	var b repository.BathingRecord
	if err := row.Scan(&b.ID, &b.TenantID, &b.ResidentID, &b.RecordDate, &b.BathType,
		&b.Notes, &b.StaffID, &b.CreatedAt, &b.UpdatedAt); err != nil {
		return nil, mapErr(err)
	}
	return &b, nil
}

func (s *Store) CreateBathing(ctx context.Context, b *repository.BathingRecord) error {
	if b.ID == "" || b.TenantID == "" || b.ResidentID == "" {
		return repository.ErrInvalidInput
	}
	row := s.pool.QueryRow(ctx, `
		INSERT INTO bathings (id, tenant_id, resident_id, record_date, bath_type, notes, staff_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at, updated_at`,
		b.ID, b.TenantID, b.ResidentID, b.RecordDate, b.BathType, b.Notes, b.StaffID)
	return mapErr(row.Scan(&b.CreatedAt, &b.UpdatedAt))
}

func (s *Store) GetBathing(ctx context.Context, tenantID, id string) (*repository.BathingRecord, error) {
	return scanBathing(s.pool.QueryRow(ctx, `
		SELECT `+bathingCols+` FROM bathings b
		WHERE b.tenant_id = $1 AND b.id = $2`, tenantID, id))
}

func (s *Store) ListBathings(ctx context.Context, tenantID string, f repository.RecordFilter) ([]*repository.BathingRecord, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT `+bathingCols+` FROM bathings b
		JOIN residents r ON r.id = b.resident_id
		WHERE b.tenant_id = $1
		  AND ($2 = '' OR b.record_date = $2)
		  AND ($3 = '' OR b.resident_id = $3)
		  AND ($4 = '' OR r.floor = $4)
		ORDER BY b.record_date, b.created_at`,
		tenantID, f.Date, f.ResidentID, f.Floor)
	if err != nil {
		return nil, mapErr(err)
	}
	defer rows.Close()
	var out []*repository.BathingRecord
	for rows.Next() {
		b, err := scanBathing(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, mapErr(rows.Err())
}

func (s *Store) UpdateBathing(ctx context.Context, b *repository.BathingRecord) error {
	tag, err := s.pool.Exec(ctx, `
		UPDATE bathings SET record_date = $3, bath_type = $4, notes = $5,
			staff_id = $6, updated_at = now()
		WHERE tenant_id = $1 AND id = $2`,
		b.TenantID, b.ID, b.RecordDate, b.BathType, b.Notes, b.StaffID)
	return affected(tag, err)
}

func (s *Store) DeleteBathing(ctx context.Context, tenantID, id string) error {
	tag, err := s.pool.Exec(ctx,
		`DELETE FROM bathings WHERE tenant_id = $1 AND id = $2`, tenantID, id)
	return affected(tag, err)
}

// ─────────────── Care notes ───────────────

const careNoteCols = `n.id, n.tenant_id, n.resident_id, n.record_date, n.recorded_at,
	n.category, n.content, n.staff_id, n.created_at, n.updated_at`

func scanCareNote(row rowScanner) (*repository.CareNote, error) {
	var n repository.CareNote
	if err := row.Scan(&n.ID, &n.TenantID, &n.ResidentID, &n.RecordDate, &n.RecordedAt,
		&n.Category, &n.Content, &n.StaffID, &n.CreatedAt, &n.UpdatedAt); err != nil {
		return nil, mapErr(err)
	}
	return &n, nil
}

func (s *Store) CreateCareNote(ctx context.Context, n *repository.CareNote) error {
	if n.ID == "" || n.TenantID == "" || n.ResidentID == "" {
		return repository.ErrInvalidInput
	}
	row := s.pool.QueryRow(ctx, `
		INSERT INTO care_notes (id, tenant_id, resident_id, record_date, recorded_at,
			category, content, staff_id)
		VALUES ($1, $2, $3, $4, COALESCE($5, now()), $6, $7, $8)
		RETURNING recorded_at, created_at, updated_at`,
		n.ID, n.TenantID, n.ResidentID, n.RecordDate, nullTime(n.RecordedAt),
		n.Category, n.Content, n.StaffID)
	return mapErr(row.Scan(&n.RecordedAt, &n.CreatedAt, &n.UpdatedAt))
}

func (s *Store) GetCareNote(ctx context.Context, tenantID, id string) (*repository.CareNote, error) {
	return scanCareNote(s.pool.QueryRow(ctx, `
		SELECT `+careNoteCols+` FROM care_notes n
		WHERE n.tenant_id = $1 AND n.id = $2`, tenantID, id))
}

func (s *Store) ListCareNotes(ctx context.Context, tenantID string, f repository.RecordFilter) ([]*repository.CareNote, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT `+careNoteCols+` FROM care_notes n
		JOIN residents r ON r.id = n.resident_id
		WHERE n.tenant_id = $1
		  AND ($2 = '' OR n.record_date = $2)
		  AND ($3 = '' OR n.resident_id = $3)
		  AND ($4 = '' OR r.floor = $4)
		ORDER BY n.recorded_at`,
		tenantID, f.Date, f.ResidentID, f.Floor)
	if err != nil {
		return nil, mapErr(err)
	}
	defer rows.Close()
	var out []*repository.CareNote
	for rows.Next() {
		n, err := scanCareNote(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, mapErr(rows.Err())
}

func (s *Store) UpdateCareNote(ctx context.Context, n *repository.CareNote) error {
	tag, err := s.pool.Exec(ctx, `
		UPDATE care_notes SET record_date = $3, category = $4, content = $5,
			staff_id = $6, updated_at = now()
		WHERE tenant_id = $1 AND id = $2`,
		n.TenantID, n.ID, n.RecordDate, n.Category, n.Content, n.StaffID)
	return affected(tag, err)
}

func (s *Store) DeleteCareNote(ctx context.Context, tenantID, id string) error {
	tag, err := s.pool.Exec(ctx,
		`DELETE FROM care_notes WHERE tenant_id = $1 AND id = $2`, tenantID, id)
	return affected(tag, err)
}
