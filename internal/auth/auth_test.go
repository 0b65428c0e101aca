package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/bscode-watanabejun/nasreco/internal/cache"
	"github.com/bscode-watanabejun/nasreco/internal/domain/repository"
)

func TestPasswordHashRoundTrip(t *testing.T) {
	hash, err := HashPassword("secreta123")
	require.NoError(t, err)
	require.NotEqual(t, "secreta123", hash)

	require.True(t, VerifyPassword(hash, "secreta123"))
	require.False(t, VerifyPassword(hash, "otra"))
	require.False(t, VerifyPassword("no-es-un-hash", "secreta123"))
}

func TestTokenIssueAndVerify(t *testing.T) {
	issuer := NewTokenIssuer("nasreco", "secreto", 15*time.Minute)

	raw, err := issuer.Issue("stf-1", "acme", repository.RoleAdmin)
	require.NoError(t, err)

	claims, err := issuer.Verify(raw)
	require.NoError(t, err)
	require.Equal(t, "stf-1", claims.Subject)
	require.Equal(t, "acme", claims.TenantID)
	require.Equal(t, repository.RoleAdmin, claims.Role)
}

func TestTokenRejectsWrongSecretAndIssuer(t *testing.T) {
	issuer := NewTokenIssuer("nasreco", "secreto", 15*time.Minute)
	raw, err := issuer.Issue("stf-1", "", repository.RoleStaff)
	require.NoError(t, err)

	_, err = NewTokenIssuer("nasreco", "otro-secreto", 15*time.Minute).Verify(raw)
	require.Error(t, err)

	_, err = NewTokenIssuer("impostor", "secreto", 15*time.Minute).Verify(raw)
	require.Error(t, err)
}

func TestTokenExpires(t *testing.T) {
	issuer := NewTokenIssuer("nasreco", "secreto", -time.Minute)
	raw, err := issuer.Issue("stf-1", "", repository.RoleStaff)
	require.NoError(t, err)

	_, err = issuer.Verify(raw)
	require.Error(t, err)
}

func TestTokenRequiresSecret(t *testing.T) {
	issuer := NewTokenIssuer("nasreco", "", 15*time.Minute)
	_, err := issuer.Issue("stf-1", "", repository.RoleStaff)
	require.Error(t, err)
}

func newSessionManager(ttl time.Duration) *SessionManager {
	return NewSessionManager(cache.NewMemory("test"), "nasreco_session", ttl, false)
}

func TestSessionLifecycle(t *testing.T) {
	m := newSessionManager(time.Hour)
	ctx := context.Background()

	sess, err := m.Create(ctx, "acme", "stf-1", repository.RoleStaff)
	require.NoError(t, err)
	require.NotEmpty(t, sess.ID)

	got, err := m.Get(ctx, sess.ID)
	require.NoError(t, err)
	require.Equal(t, "acme", got.TenantID)
	require.Equal(t, "stf-1", got.StaffID)
	require.Equal(t, repository.RoleStaff, got.Role)

	require.NoError(t, m.Destroy(ctx, sess.ID))
	_, err = m.Get(ctx, sess.ID)
	require.ErrorIs(t, err, ErrNoSession)
}

func TestSessionExpiry(t *testing.T) {
	m := newSessionManager(20 * time.Millisecond)
	ctx := context.Background()

	sess, err := m.Create(ctx, "acme", "stf-1", repository.RoleStaff)
	require.NoError(t, err)

	time.Sleep(60 * time.Millisecond)
	_, err = m.Get(ctx, sess.ID)
	require.ErrorIs(t, err, ErrNoSession)
}

func TestFromRequestCookie(t *testing.T) {
	m := newSessionManager(time.Hour)
	ctx := context.Background()
	sess, err := m.Create(ctx, "acme", "stf-1", repository.RoleAdmin)
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	m.IssueCookie(rec, sess)
	ck := rec.Result().Cookies()
	require.Len(t, ck, 1)
	require.True(t, ck[0].HttpOnly)

	r := httptest.NewRequest(http.MethodGet, "/", nil)
	r.AddCookie(ck[0])
	got, err := m.FromRequest(r)
	require.NoError(t, err)
	require.Equal(t, sess.ID, got.ID)

	// Sin cookie: no hay sesión.
	_, err = m.FromRequest(httptest.NewRequest(http.MethodGet, "/", nil))
	require.ErrorIs(t, err, ErrNoSession)

	// ClearCookie manda MaxAge negativo.
	rec = httptest.NewRecorder()
	m.ClearCookie(rec)
	ck = rec.Result().Cookies()
	require.Len(t, ck, 1)
	require.Less(t, ck[0].MaxAge, 0)
}
