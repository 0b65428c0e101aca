package http

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/bscode-watanabejun/nasreco/internal/auth"
	"github.com/bscode-watanabejun/nasreco/internal/domain/repository"
)

type staffRequest struct {
	Email    string               `json:"email"`
	Name     string               `json:"name"`
	Role     repository.StaffRole `json:"role"`
	Floor    string               `json:"floor"`
	Password string               `json:"password"`
	Active   *bool                `json:"active"`
}

func (s *Server) handleListStaff(w http.ResponseWriter, r *http.Request) {
	items, err := s.db.ListStaff(r.Context(), TenantFromContext(r.Context()))
	if err != nil {
		WriteRepoError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, items)
}

func (s *Server) handleCreateStaff(w http.ResponseWriter, r *http.Request) {
	var req staffRequest
	if !ReadJSON(w, r, &req) {
		return
	}
	req.Email = strings.TrimSpace(strings.ToLower(req.Email))

	var fields []fieldError
	if req.Email == "" {
		fields = append(fields, fieldError{Field: "email", Message: "requerido"})
	}
	if strings.TrimSpace(req.Name) == "" {
		fields = append(fields, fieldError{Field: "name", Message: "requerido"})
	}
	if req.Password == "" {
		fields = append(fields, fieldError{Field: "password", Message: "requerido"})
	}
	if req.Role == "" {
		req.Role = repository.RoleStaff
	}
	if !req.Role.IsValid() {
		fields = append(fields, fieldError{Field: "role", Message: "rol desconocido"})
	}
	if len(fields) > 0 {
		WriteFieldErrors(w, "staff inválido", fields)
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		WriteError(w, http.StatusInternalServerError, "error interno")
		return
	}
	st := &repository.Staff{
		ID:           uuid.NewString(),
		TenantID:     TenantFromContext(r.Context()),
		Email:        req.Email,
		Name:         req.Name,
		Role:         req.Role,
		Floor:        req.Floor,
		PasswordHash: hash,
		Active:       true,
		CreatedAt:    time.Now(),
	}
	if err := s.db.CreateStaff(r.Context(), st); err != nil {
		WriteRepoError(w, err)
		return
	}
	WriteJSON(w, http.StatusCreated, st)
}

func (s *Server) handleUpdateStaff(w http.ResponseWriter, r *http.Request) {
	tenantID := TenantFromContext(r.Context())
	st, err := s.db.GetStaff(r.Context(), tenantID, chi.URLParam(r, "id"))
	if err != nil {
		WriteRepoError(w, err)
		return
	}

	var req staffRequest
	if !ReadJSON(w, r, &req) {
		return
	}
	if req.Email != "" {
		st.Email = strings.TrimSpace(strings.ToLower(req.Email))
	}
	if req.Name != "" {
		st.Name = req.Name
	}
	if req.Role != "" {
		if !req.Role.IsValid() {
			WriteFieldErrors(w, "staff inválido", []fieldError{{Field: "role", Message: "rol desconocido"}})
			return
		}
		st.Role = req.Role
	}
	if req.Floor != "" {
		st.Floor = req.Floor
	}
	if req.Password != "" {
		hash, err := auth.HashPassword(req.Password)
		if err != nil {
			WriteError(w, http.StatusInternalServerError, "error interno")
			return
		}
		st.PasswordHash = hash
	}
	if req.Active != nil {
		st.Active = *req.Active
		if !st.Active {
			now := time.Now()
			st.DisabledAt = &now
		} else {
			st.DisabledAt = nil
		}
	}

	if err := s.db.UpdateStaff(r.Context(), st); err != nil {
		WriteRepoError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, st)
}

func (s *Server) handleDeleteStaff(w http.ResponseWriter, r *http.Request) {
	if err := s.db.DeleteStaff(r.Context(), TenantFromContext(r.Context()), chi.URLParam(r, "id")); err != nil {
		WriteRepoError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
