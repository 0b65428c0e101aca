package http

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/bscode-watanabejun/nasreco/internal/domain/repository"
)

func (s *Server) handleListResidents(w http.ResponseWriter, r *http.Request) {
	f := repository.ResidentFilter{
		Floor:        r.URL.Query().Get("floor"),
		OnlyAdmitted: r.URL.Query().Get("admitted") == "true",
	}
	items, err := s.db.ListResidents(r.Context(), TenantFromContext(r.Context()), f)
	if err != nil {
		WriteRepoError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, items)
}

func (s *Server) handleGetResident(w http.ResponseWriter, r *http.Request) {
	res, err := s.db.GetResident(r.Context(), TenantFromContext(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		WriteRepoError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, res)
}

func (s *Server) handleCreateResident(w http.ResponseWriter, r *http.Request) {
	var res repository.Resident
	if !ReadJSON(w, r, &res) {
		return
	}
	var fields []fieldError
	if strings.TrimSpace(res.Name) == "" {
		fields = append(fields, fieldError{Field: "name", Message: "requerido"})
	}
	if strings.TrimSpace(res.Floor) == "" {
		fields = append(fields, fieldError{Field: "floor", Message: "requerido"})
	}
	if len(fields) > 0 {
		WriteFieldErrors(w, "residente inválido", fields)
		return
	}

	res.ID = uuid.NewString()
	res.TenantID = TenantFromContext(r.Context())
	res.CreatedAt = time.Now()
	res.UpdatedAt = res.CreatedAt
	if err := s.db.CreateResident(r.Context(), &res); err != nil {
		WriteRepoError(w, err)
		return
	}
	WriteJSON(w, http.StatusCreated, res)
}

func (s *Server) handleUpdateResident(w http.ResponseWriter, r *http.Request) {
	tenantID := TenantFromContext(r.Context())
	existing, err := s.db.GetResident(r.Context(), tenantID, chi.URLParam(r, "id"))
	if err != nil {
		WriteRepoError(w, err)
		return
	}

	var res repository.Resident
	if !ReadJSON(w, r, &res) {
		return
	}
	res.ID = existing.ID
	res.TenantID = tenantID
	res.CreatedAt = existing.CreatedAt
	res.UpdatedAt = time.Now()
	if err := s.db.UpdateResident(r.Context(), &res); err != nil {
		WriteRepoError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, res)
}

func (s *Server) handleDeleteResident(w http.ResponseWriter, r *http.Request) {
	if err := s.db.DeleteResident(r.Context(), TenantFromContext(r.Context()), chi.URLParam(r, "id")); err != nil {
		WriteRepoError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
