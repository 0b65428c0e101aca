package auth

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/bscode-watanabejun/nasreco/internal/cache"
	"github.com/bscode-watanabejun/nasreco/internal/domain/repository"
)

// ErrNoSession indica que no hay sesión válida en el request.
var ErrNoSession = errors.New("auth: no session")

// Session es la sesión de login de un miembro del personal.
type Session struct {
	ID        string               `json:"id"`
	TenantID  string               `json:"tenantId"`
	StaffID   string               `json:"staffId"`
	Role      repository.StaffRole `json:"role"`
	CreatedAt time.Time            `json:"createdAt"`
}

// SessionManager crea, resuelve y destruye sesiones en el cache del
// servidor. Las sesiones viajan como cookie HttpOnly.
type SessionManager struct {
	cache      cache.Client
	cookieName string
	ttl        time.Duration
	secure     bool
}

// NewSessionManager crea un SessionManager.
func NewSessionManager(c cache.Client, cookieName string, ttl time.Duration, secure bool) *SessionManager {
	return &SessionManager{cache: c, cookieName: cookieName, ttl: ttl, secure: secure}
}

func sessionKey(id string) string { return "session:" + id }

// Create persiste una sesión nueva y retorna su ID.
func (m *SessionManager) Create(ctx context.Context, tenantID, staffID string, role repository.StaffRole) (*Session, error) {
	s := &Session{
		ID:        uuid.NewString(),
		TenantID:  tenantID,
		StaffID:   staffID,
		Role:      role,
		CreatedAt: time.Now().UTC(),
	}
	b, err := json.Marshal(s)
	if err != nil {
		return nil, err
	}
	if err := m.cache.Set(ctx, sessionKey(s.ID), string(b), m.ttl); err != nil {
		return nil, err
	}
	return s, nil
}

// Get resuelve una sesión por ID. ErrNoSession si expiró o no existe.
func (m *SessionManager) Get(ctx context.Context, id string) (*Session, error) {
	raw, err := m.cache.Get(ctx, sessionKey(id))
	if err != nil {
		if cache.IsNotFound(err) {
			return nil, ErrNoSession
		}
		return nil, err
	}
	var s Session
	if err := json.Unmarshal([]byte(raw), &s); err != nil {
		return nil, ErrNoSession
	}
	return &s, nil
}

// Destroy elimina la sesión del cache.
func (m *SessionManager) Destroy(ctx context.Context, id string) error {
	return m.cache.Delete(ctx, sessionKey(id))
}

// FromRequest resuelve la sesión de la cookie del request.
func (m *SessionManager) FromRequest(r *http.Request) (*Session, error) {
	ck, err := r.Cookie(m.cookieName)
	if err != nil || ck.Value == "" {
		return nil, ErrNoSession
	}
	return m.Get(r.Context(), ck.Value)
}

// IssueCookie escribe la cookie de sesión en la respuesta.
func (m *SessionManager) IssueCookie(w http.ResponseWriter, s *Session) {
	http.SetCookie(w, &http.Cookie{
		Name:     m.cookieName,
		Value:    s.ID,
		Path:     "/",
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(m.ttl / time.Second),
	})
}

// ClearCookie invalida la cookie en el browser.
func (m *SessionManager) ClearCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     m.cookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		Secure:   m.secure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   -1,
	})
}
