package http

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/bscode-watanabejun/nasreco/internal/domain/repository"
)

func (s *Server) handleListSettings(w http.ResponseWriter, r *http.Request) {
	category := r.URL.Query().Get("category")
	if category == "" {
		WriteFieldErrors(w, "categoría requerida", []fieldError{{Field: "category", Message: "requerido"}})
		return
	}
	items, err := s.db.ListSettings(r.Context(), TenantFromContext(r.Context()), category)
	if err != nil {
		WriteRepoError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, items)
}

func (s *Server) handleCreateSetting(w http.ResponseWriter, r *http.Request) {
	var ms repository.MasterSetting
	if !ReadJSON(w, r, &ms) {
		return
	}
	var fields []fieldError
	if strings.TrimSpace(ms.Category) == "" {
		fields = append(fields, fieldError{Field: "category", Message: "requerido"})
	}
	if strings.TrimSpace(ms.Label) == "" {
		fields = append(fields, fieldError{Field: "label", Message: "requerido"})
	}
	if len(fields) > 0 {
		WriteFieldErrors(w, "setting inválido", fields)
		return
	}
	if ms.Value == "" {
		ms.Value = ms.Label
	}

	tenantID := TenantFromContext(r.Context())
	// Posición al final de la categoría.
	existing, err := s.db.ListSettings(r.Context(), tenantID, ms.Category)
	if err != nil {
		WriteRepoError(w, err)
		return
	}
	ms.ID = uuid.NewString()
	ms.TenantID = tenantID
	ms.Position = len(existing)
	ms.Active = true
	ms.CreatedAt = time.Now()
	ms.UpdatedAt = ms.CreatedAt

	if err := s.db.CreateSetting(r.Context(), &ms); err != nil {
		WriteRepoError(w, err)
		return
	}
	WriteJSON(w, http.StatusCreated, ms)
}

func (s *Server) handleUpdateSetting(w http.ResponseWriter, r *http.Request) {
	tenantID := TenantFromContext(r.Context())
	existing, err := s.db.GetSetting(r.Context(), tenantID, chi.URLParam(r, "id"))
	if err != nil {
		WriteRepoError(w, err)
		return
	}

	var ms repository.MasterSetting
	if !ReadJSON(w, r, &ms) {
		return
	}
	// Categoría y posición no se tocan por acá; el orden es del reorder.
	existing.Label = ms.Label
	existing.Value = ms.Value
	existing.Active = ms.Active
	existing.UpdatedAt = time.Now()

	if err := s.db.UpdateSetting(r.Context(), existing); err != nil {
		WriteRepoError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, existing)
}

func (s *Server) handleDeleteSetting(w http.ResponseWriter, r *http.Request) {
	if err := s.db.DeleteSetting(r.Context(), TenantFromContext(r.Context()), chi.URLParam(r, "id")); err != nil {
		WriteRepoError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type reorderRequest struct {
	Category  string                       `json:"category"`
	Positions []repository.SettingPosition `json:"positions"`
}

// handleReorderSettings aplica el lote completo de posiciones de una
// categoría. El lote tiene que cubrir exactamente los settings
// existentes: un reorder parcial se rechaza entero.
func (s *Server) handleReorderSettings(w http.ResponseWriter, r *http.Request) {
	var req reorderRequest
	if !ReadJSON(w, r, &req) {
		return
	}
	if req.Category == "" {
		WriteFieldErrors(w, "reorder inválido", []fieldError{{Field: "category", Message: "requerido"}})
		return
	}

	tenantID := TenantFromContext(r.Context())
	existing, err := s.db.ListSettings(r.Context(), tenantID, req.Category)
	if err != nil {
		WriteRepoError(w, err)
		return
	}
	if len(req.Positions) != len(existing) {
		WriteError(w, http.StatusBadRequest, "el reorder debe incluir todos los settings de la categoría")
		return
	}
	known := make(map[string]bool, len(existing))
	for _, ms := range existing {
		known[ms.ID] = true
	}
	seenPos := make(map[int]bool, len(req.Positions))
	seenID := make(map[string]bool, len(req.Positions))
	for _, p := range req.Positions {
		if !known[p.ID] {
			WriteError(w, http.StatusBadRequest, "el reorder referencia un setting desconocido")
			return
		}
		if seenID[p.ID] {
			WriteError(w, http.StatusBadRequest, "el reorder repite un setting")
			return
		}
		seenID[p.ID] = true
		if p.Position < 0 || p.Position >= len(req.Positions) || seenPos[p.Position] {
			WriteError(w, http.StatusBadRequest, "las posiciones deben ser una permutación completa")
			return
		}
		seenPos[p.Position] = true
	}

	if err := s.db.ReorderSettings(r.Context(), tenantID, req.Category, req.Positions); err != nil {
		WriteRepoError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
