package http

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/bscode-watanabejun/nasreco/internal/domain/repository"
)

// withManagementAuth protege la administración de tenants con un token
// Bearer de management (rol admin, emitido por nasrecoctl token).
func (s *Server) withManagementAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw := strings.TrimSpace(r.Header.Get("Authorization"))
		if !strings.HasPrefix(raw, "Bearer ") {
			WriteError(w, http.StatusUnauthorized, "token de management requerido")
			return
		}
		claims, err := s.issuer.Verify(strings.TrimPrefix(raw, "Bearer "))
		if err != nil || claims.Role != repository.RoleAdmin {
			WriteError(w, http.StatusUnauthorized, "token de management inválido")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) handleListTenants(w http.ResponseWriter, r *http.Request) {
	tenants, err := s.db.ListTenants(r.Context())
	if err != nil {
		WriteRepoError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, tenants)
}

func (s *Server) handleCreateTenant(w http.ResponseWriter, r *http.Request) {
	var t repository.Tenant
	if !ReadJSON(w, r, &t) {
		return
	}
	if strings.TrimSpace(t.Name) == "" {
		WriteFieldErrors(w, "tenant inválido", []fieldError{{Field: "name", Message: "requerido"}})
		return
	}
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	t.Active = true
	t.CreatedAt = time.Now()
	t.UpdatedAt = t.CreatedAt

	if err := s.db.CreateTenant(r.Context(), &t); err != nil {
		WriteRepoError(w, err)
		return
	}
	WriteJSON(w, http.StatusCreated, t)
}

func (s *Server) handleGetTenant(w http.ResponseWriter, r *http.Request) {
	t, err := s.db.GetTenant(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		WriteRepoError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, t)
}

func (s *Server) handleUpdateTenant(w http.ResponseWriter, r *http.Request) {
	var t repository.Tenant
	if !ReadJSON(w, r, &t) {
		return
	}
	t.ID = chi.URLParam(r, "id")
	t.UpdatedAt = time.Now()
	if err := s.db.UpdateTenant(r.Context(), &t); err != nil {
		WriteRepoError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, t)
}

func (s *Server) handleDeleteTenant(w http.ResponseWriter, r *http.Request) {
	if err := s.db.DeleteTenant(r.Context(), chi.URLParam(r, "id")); err != nil {
		WriteRepoError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
