package http

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/bscode-watanabejun/nasreco/internal/domain/repository"
)

// recordResource agrupa las operaciones del repositorio para un tipo de
// registro diario. Los seis tipos comparten el mismo ciclo CRUD; solo
// difieren en struct, validación y sellado de metadata.
type recordResource[T any] struct {
	srv      *Server
	list     func(ctx context.Context, tenantID string, f repository.RecordFilter) ([]*T, error)
	get      func(ctx context.Context, tenantID, id string) (*T, error)
	create   func(ctx context.Context, rec *T) error
	update   func(ctx context.Context, rec *T) error
	remove   func(ctx context.Context, tenantID, id string) error
	validate func(rec *T) []fieldError
	// stamp fija id, tenant y timestamps; staffID solo pisa si el
	// registro no trae autor.
	stamp func(rec *T, id, tenantID, staffID string, createdAt, updatedAt time.Time)
}

func mountRecordRoutes[T any](r chi.Router, path string, res *recordResource[T]) {
	r.Route(path, func(r chi.Router) {
		r.Get("/", res.handleList)
		r.Post("/", res.handleCreate)
		r.Patch("/{id}", res.handlePatch)
		r.Delete("/{id}", res.handleDelete)
	})
}

func recordFilterFromQuery(r *http.Request) repository.RecordFilter {
	q := r.URL.Query()
	return repository.RecordFilter{
		Date:       q.Get("date"),
		ResidentID: q.Get("residentId"),
		Floor:      q.Get("floor"),
	}
}

func (res *recordResource[T]) handleList(w http.ResponseWriter, r *http.Request) {
	items, err := res.list(r.Context(), TenantFromContext(r.Context()), recordFilterFromQuery(r))
	if err != nil {
		WriteRepoError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, items)
}

func (res *recordResource[T]) handleCreate(w http.ResponseWriter, r *http.Request) {
	rec := new(T)
	if !ReadJSON(w, r, rec) {
		return
	}
	if fields := res.validate(rec); len(fields) > 0 {
		WriteFieldErrors(w, "registro inválido", fields)
		return
	}

	sess := SessionFromContext(r.Context())
	now := time.Now()
	res.stamp(rec, uuid.NewString(), TenantFromContext(r.Context()), sess.StaffID, now, now)

	if err := res.create(r.Context(), rec); err != nil {
		WriteRepoError(w, err)
		return
	}
	WriteJSON(w, http.StatusCreated, rec)
}

func (res *recordResource[T]) handlePatch(w http.ResponseWriter, r *http.Request) {
	tenantID := TenantFromContext(r.Context())
	existing, err := res.get(r.Context(), tenantID, chi.URLParam(r, "id"))
	if err != nil {
		WriteRepoError(w, err)
		return
	}

	var patch map[string]any
	if !ReadJSON(w, r, &patch) {
		return
	}
	merged, err := mergeRecord(existing, patch)
	if err != nil {
		WriteError(w, http.StatusBadRequest, "patch inválido")
		return
	}
	if fields := res.validate(merged); len(fields) > 0 {
		WriteFieldErrors(w, "registro inválido", fields)
		return
	}

	// Campos inmutables: el patch no puede mover un registro de id,
	// tenant ni fecha de creación.
	res.stamp(merged, chi.URLParam(r, "id"), tenantID, "", createdAtOf(existing), time.Now())

	if err := res.update(r.Context(), merged); err != nil {
		WriteRepoError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, merged)
}

func (res *recordResource[T]) handleDelete(w http.ResponseWriter, r *http.Request) {
	if err := res.remove(r.Context(), TenantFromContext(r.Context()), chi.URLParam(r, "id")); err != nil {
		WriteRepoError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// mergeRecord fusiona un patch de keys JSON sobre el registro existente.
func mergeRecord[T any](existing *T, patch map[string]any) (*T, error) {
	raw, err := json.Marshal(existing)
	if err != nil {
		return nil, err
	}
	var m map[string]any
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, err
	}
	for k, v := range patch {
		m[k] = v
	}
	merged, err := json.Marshal(m)
	if err != nil {
		return nil, err
	}
	out := new(T)
	if err := json.Unmarshal(merged, out); err != nil {
		return nil, err
	}
	return out, nil
}

// createdAtOf extrae createdAt via JSON; evita un accessor más por tipo.
func createdAtOf(rec any) time.Time {
	raw, err := json.Marshal(rec)
	if err != nil {
		return time.Time{}
	}
	var peek struct {
		CreatedAt time.Time `json:"createdAt"`
	}
	_ = json.Unmarshal(raw, &peek)
	return peek.CreatedAt
}

// ─────────────── Recursos por tipo ───────────────

func requireRecordFields(pairs ...[2]string) []fieldError {
	var fields []fieldError
	for _, p := range pairs {
		if p[1] == "" {
			fields = append(fields, fieldError{Field: p[0], Message: "requerido"})
		}
	}
	return fields
}

func (s *Server) vitalOps() *recordResource[repository.VitalRecord] {
	return &recordResource[repository.VitalRecord]{
		srv:    s,
		list:   s.db.ListVitals,
		get:    s.db.GetVital,
		create: s.db.CreateVital,
		update: s.db.UpdateVital,
		remove: s.db.DeleteVital,
		validate: func(v *repository.VitalRecord) []fieldError {
			return requireRecordFields(
				[2]string{"residentId", v.ResidentID},
				[2]string{"recordDate", v.RecordDate},
				[2]string{"timing", v.Timing},
			)
		},
		stamp: func(v *repository.VitalRecord, id, tenantID, staffID string, createdAt, updatedAt time.Time) {
			v.ID, v.TenantID, v.CreatedAt, v.UpdatedAt = id, tenantID, createdAt, updatedAt
			if staffID != "" && v.StaffID == "" {
				v.StaffID = staffID
			}
		},
	}
}

func (s *Server) mealOps() *recordResource[repository.MealRecord] {
	return &recordResource[repository.MealRecord]{
		srv:    s,
		list:   s.db.ListMeals,
		get:    s.db.GetMeal,
		create: s.db.CreateMeal,
		update: s.db.UpdateMeal,
		remove: s.db.DeleteMeal,
		validate: func(m *repository.MealRecord) []fieldError {
			return requireRecordFields(
				[2]string{"residentId", m.ResidentID},
				[2]string{"recordDate", m.RecordDate},
				[2]string{"mealTime", m.MealTime},
			)
		},
		stamp: func(m *repository.MealRecord, id, tenantID, staffID string, createdAt, updatedAt time.Time) {
			m.ID, m.TenantID, m.CreatedAt, m.UpdatedAt = id, tenantID, createdAt, updatedAt
			if staffID != "" && m.StaffID == "" {
				m.StaffID = staffID
			}
		},
	}
}

func (s *Server) medicationOps() *recordResource[repository.MedicationRecord] {
	return &recordResource[repository.MedicationRecord]{
		srv:    s,
		list:   s.db.ListMedications,
		get:    s.db.GetMedication,
		create: s.db.CreateMedication,
		update: s.db.UpdateMedication,
		remove: s.db.DeleteMedication,
		validate: func(m *repository.MedicationRecord) []fieldError {
			return requireRecordFields(
				[2]string{"residentId", m.ResidentID},
				[2]string{"recordDate", m.RecordDate},
				[2]string{"timing", m.Timing},
				[2]string{"medication", m.Medication},
			)
		},
		stamp: func(m *repository.MedicationRecord, id, tenantID, staffID string, createdAt, updatedAt time.Time) {
			m.ID, m.TenantID, m.CreatedAt, m.UpdatedAt = id, tenantID, createdAt, updatedAt
			if staffID != "" && m.Administered && m.ConfirmedBy == "" {
				m.ConfirmedBy = staffID
			}
		},
	}
}

func (s *Server) excretionOps() *recordResource[repository.ExcretionRecord] {
	return &recordResource[repository.ExcretionRecord]{
		srv:    s,
		list:   s.db.ListExcretions,
		get:    s.db.GetExcretion,
		create: s.db.CreateExcretion,
		update: s.db.UpdateExcretion,
		remove: s.db.DeleteExcretion,
		validate: func(e *repository.ExcretionRecord) []fieldError {
			return requireRecordFields(
				[2]string{"residentId", e.ResidentID},
				[2]string{"recordDate", e.RecordDate},
				[2]string{"kind", e.Kind},
			)
		},
		stamp: func(e *repository.ExcretionRecord, id, tenantID, staffID string, createdAt, updatedAt time.Time) {
			e.ID, e.TenantID, e.CreatedAt, e.UpdatedAt = id, tenantID, createdAt, updatedAt
			if e.RecordedAt.IsZero() {
				e.RecordedAt = updatedAt
			}
			if staffID != "" && e.StaffID == "" {
				e.StaffID = staffID
			}
		},
	}
}

func (s *Server) bathingOps() *recordResource[repository.BathingRecord] {
	return &recordResource[repository.BathingRecord]{
		srv:    s,
		list:   s.db.ListBathings,
		get:    s.db.GetBathing,
		create: s.db.CreateBathing,
		update: s.db.UpdateBathing,
		remove: s.db.DeleteBathing,
		validate: func(b *repository.BathingRecord) []fieldError {
			return requireRecordFields(
				[2]string{"residentId", b.ResidentID},
				[2]string{"recordDate", b.RecordDate},
				[2]string{"bathType", b.BathType},
			)
		},
		stamp: func(b *repository.BathingRecord, id, tenantID, staffID string, createdAt, updatedAt time.Time) {
			b.ID, b.TenantID, b.CreatedAt, b.UpdatedAt = id, tenantID, createdAt, updatedAt
			if staffID != "" && b.StaffID == "" {
				b.StaffID = staffID
			}
		},
	}
}

func (s *Server) careNoteOps() *recordResource[repository.CareNote] {
	return &recordResource[repository.CareNote]{
		srv:    s,
		list:   s.db.ListCareNotes,
		get:    s.db.GetCareNote,
		create: s.db.CreateCareNote,
		update: s.db.UpdateCareNote,
		remove: s.db.DeleteCareNote,
		validate: func(n *repository.CareNote) []fieldError {
			return requireRecordFields(
				[2]string{"residentId", n.ResidentID},
				[2]string{"recordDate", n.RecordDate},
				[2]string{"content", n.Content},
			)
		},
		stamp: func(n *repository.CareNote, id, tenantID, staffID string, createdAt, updatedAt time.Time) {
			n.ID, n.TenantID, n.CreatedAt, n.UpdatedAt = id, tenantID, createdAt, updatedAt
			if n.RecordedAt.IsZero() {
				n.RecordedAt = updatedAt
			}
			if staffID != "" && n.StaffID == "" {
				n.StaffID = staffID
			}
		},
	}
}
