package http

import (
	"net/http"
	"strings"

	"github.com/bscode-watanabejun/nasreco/internal/auth"
	"github.com/bscode-watanabejun/nasreco/internal/observability/logger"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// handleLogin autentica por email+password dentro del tenant del
// request y emite la cookie de sesión. El tenant es obligatorio: el
// mismo email puede existir en varios tenants.
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	tenantID := TenantFromContext(r.Context())
	if tenantID == "" {
		WriteError(w, http.StatusBadRequest, "tenant no especificado")
		return
	}

	var req loginRequest
	if !ReadJSON(w, r, &req) {
		return
	}
	req.Email = strings.TrimSpace(strings.ToLower(req.Email))
	var fields []fieldError
	if req.Email == "" {
		fields = append(fields, fieldError{Field: "email", Message: "requerido"})
	}
	if req.Password == "" {
		fields = append(fields, fieldError{Field: "password", Message: "requerido"})
	}
	if len(fields) > 0 {
		WriteFieldErrors(w, "datos de login incompletos", fields)
		return
	}

	staff, err := s.db.GetStaffByEmail(r.Context(), tenantID, req.Email)
	if err != nil || !staff.Active || !auth.VerifyPassword(staff.PasswordHash, req.Password) {
		// Mismo mensaje para usuario inexistente y password mala.
		WriteError(w, http.StatusUnauthorized, "credenciales inválidas")
		return
	}

	sess, err := s.sessions.Create(r.Context(), tenantID, staff.ID, staff.Role)
	if err != nil {
		s.log.Error("no se pudo crear la sesión", logger.TenantID(tenantID), logger.Err(err))
		WriteError(w, http.StatusInternalServerError, "error interno")
		return
	}
	s.sessions.IssueCookie(w, sess)

	s.log.Info("login", logger.TenantID(tenantID), logger.StaffID(staff.ID))
	WriteJSON(w, http.StatusOK, staff)
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if sess := SessionFromContext(r.Context()); sess != nil {
		_ = s.sessions.Destroy(r.Context(), sess.ID)
	}
	s.sessions.ClearCookie(w)
	w.WriteHeader(http.StatusNoContent)
}

// handleMe retorna el staff de la sesión actual. Es la fuente del
// fallback "usuario staff cacheado" del resolver de tenant del cliente.
func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	sess := SessionFromContext(r.Context())
	staff, err := s.db.GetStaff(r.Context(), sess.TenantID, sess.StaffID)
	if err != nil {
		WriteRepoError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, staff)
}
