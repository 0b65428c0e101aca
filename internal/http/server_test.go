package http

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/bscode-watanabejun/nasreco/internal/auth"
	"github.com/bscode-watanabejun/nasreco/internal/cache"
	"github.com/bscode-watanabejun/nasreco/internal/config"
	"github.com/bscode-watanabejun/nasreco/internal/domain/repository"
	"github.com/bscode-watanabejun/nasreco/internal/store/memory"
)

type testEnv struct {
	srv    *httptest.Server
	db     *memory.Store
	issuer *auth.TokenIssuer
	hc     *http.Client
}

// newTestEnv levanta el stack completo en memoria, con dos tenants y
// un admin + un staff raso en el primero. Passwords: "secreta123".
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	cfg, err := config.Load("")
	require.NoError(t, err)
	cfg.Auth.JWT.Secret = "secreto-de-test"

	db := memory.New()
	hash, err := auth.HashPassword("secreta123")
	require.NoError(t, err)
	ctx := context.Background()
	require.NoError(t, db.CreateTenant(ctx, &repository.Tenant{ID: "acme", Name: "Acme Care", Active: true}))
	require.NoError(t, db.CreateTenant(ctx, &repository.Tenant{ID: "otro", Name: "Otro Care", Active: true}))
	require.NoError(t, db.CreateStaff(ctx, &repository.Staff{
		ID: "adm-1", TenantID: "acme", Email: "admin@example.com", Name: "Admin",
		Role: repository.RoleAdmin, PasswordHash: hash, Active: true,
	}))
	require.NoError(t, db.CreateStaff(ctx, &repository.Staff{
		ID: "stf-1", TenantID: "acme", Email: "staff@example.com", Name: "Staff",
		Role: repository.RoleStaff, Floor: "2F", PasswordHash: hash, Active: true,
	}))
	require.NoError(t, db.CreateResident(ctx, &repository.Resident{
		ID: "res-1", TenantID: "acme", Name: "田中花子", Floor: "2F", Admitted: true,
	}))

	sessions := auth.NewSessionManager(cache.NewMemory("test"), cfg.Auth.Session.CookieName, cfg.SessionTTL(), false)
	issuer := auth.NewTokenIssuer(cfg.Auth.JWT.Issuer, cfg.Auth.JWT.Secret, cfg.AccessTTL())

	server := New(cfg, db, sessions, issuer, nil, nil)
	srv := httptest.NewServer(server.Handler())
	t.Cleanup(srv.Close)

	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	return &testEnv{srv: srv, db: db, issuer: issuer, hc: &http.Client{Jar: jar}}
}

func (e *testEnv) do(t *testing.T, method, path string, body any, header map[string]string) *http.Response {
	t.Helper()
	var buf io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		buf = bytes.NewReader(b)
	}
	req, err := http.NewRequest(method, e.srv.URL+path, buf)
	require.NoError(t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range header {
		req.Header.Set(k, v)
	}
	resp, err := e.hc.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })
	return resp
}

func decodeBody[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&v))
	return v
}

// login autentica por el prefijo de ruta del tenant; la cookie queda en
// el jar para los requests siguientes.
func (e *testEnv) login(t *testing.T, tenantID, email string) {
	t.Helper()
	resp := e.do(t, http.MethodPost, "/tenant/"+tenantID+"/api/auth/login",
		map[string]string{"email": email, "password": "secreta123"}, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
}

func tenantHeader(id string) map[string]string {
	return map[string]string{"X-Tenant-Id": id}
}

func TestHealthAndReady(t *testing.T) {
	e := newTestEnv(t)
	resp := e.do(t, http.MethodGet, "/healthz", nil, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = e.do(t, http.MethodGet, "/readyz", nil, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestLoginRequiresTenant(t *testing.T) {
	e := newTestEnv(t)
	resp := e.do(t, http.MethodPost, "/api/auth/login",
		map[string]string{"email": "admin@example.com", "password": "secreta123"}, nil)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	e := newTestEnv(t)

	for _, body := range []map[string]string{
		{"email": "admin@example.com", "password": "incorrecta"},
		{"email": "nadie@example.com", "password": "secreta123"},
	} {
		resp := e.do(t, http.MethodPost, "/api/auth/login", body, tenantHeader("acme"))
		require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
		got := decodeBody[map[string]any](t, resp)
		// Mismo mensaje para no filtrar qué emails existen.
		require.Equal(t, "credenciales inválidas", got["message"])
	}
}

func TestLoginAndMe(t *testing.T) {
	e := newTestEnv(t)
	e.login(t, "acme", "admin@example.com")

	resp := e.do(t, http.MethodGet, "/api/auth/me", nil, tenantHeader("acme"))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	me := decodeBody[map[string]any](t, resp)
	require.Equal(t, "adm-1", me["id"])
	require.Equal(t, "acme", me["tenantId"])
	require.NotContains(t, me, "passwordHash", "el hash nunca se serializa")
}

func TestSessionBoundToTenant(t *testing.T) {
	e := newTestEnv(t)
	e.login(t, "acme", "admin@example.com")

	resp := e.do(t, http.MethodGet, "/tenant/otro/api/auth/me", nil, nil)
	require.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestRequestsWithoutSessionRejected(t *testing.T) {
	e := newTestEnv(t)
	resp := e.do(t, http.MethodGet, "/api/vitals", nil, tenantHeader("acme"))
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestVitalCRUD(t *testing.T) {
	e := newTestEnv(t)
	e.login(t, "acme", "staff@example.com")
	hdr := tenantHeader("acme")

	// Falta timing: 400 con field errors.
	resp := e.do(t, http.MethodPost, "/api/vitals",
		map[string]any{"residentId": "res-1", "recordDate": "2026-08-31"}, hdr)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	bad := decodeBody[map[string]any](t, resp)
	require.NotEmpty(t, bad["errors"])

	resp = e.do(t, http.MethodPost, "/api/vitals", map[string]any{
		"residentId":  "res-1",
		"recordDate":  "2026-08-31",
		"timing":      "morning",
		"temperature": 36.8,
	}, hdr)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	created := decodeBody[*repository.VitalRecord](t, resp)
	require.NotEmpty(t, created.ID)
	require.Equal(t, "acme", created.TenantID)
	require.Equal(t, "stf-1", created.StaffID, "el autor sale de la sesión")

	// Patch parcial: notes cambia, autor y createdAt no.
	resp = e.do(t, http.MethodPatch, "/api/vitals/"+created.ID,
		map[string]any{"notes": "mejoró", "temperature": 37.1}, hdr)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	patched := decodeBody[*repository.VitalRecord](t, resp)
	require.Equal(t, created.ID, patched.ID)
	require.Equal(t, "mejoró", patched.Notes)
	require.Equal(t, 37.1, *patched.Temperature)
	require.Equal(t, "stf-1", patched.StaffID)
	require.True(t, patched.CreatedAt.Equal(created.CreatedAt))

	resp = e.do(t, http.MethodGet, "/api/vitals?date=2026-08-31&residentId=res-1", nil, hdr)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	items := decodeBody[[]*repository.VitalRecord](t, resp)
	require.Len(t, items, 1)

	resp = e.do(t, http.MethodGet, "/api/vitals?date=2026-01-01", nil, hdr)
	require.Empty(t, decodeBody[[]*repository.VitalRecord](t, resp))

	resp = e.do(t, http.MethodDelete, "/api/vitals/"+created.ID, nil, hdr)
	require.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp = e.do(t, http.MethodPatch, "/api/vitals/"+created.ID, map[string]any{"notes": "x"}, hdr)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestRecordsIsolatedPerTenant(t *testing.T) {
	e := newTestEnv(t)
	require.NoError(t, e.db.CreateVital(context.Background(), &repository.VitalRecord{
		ID: "v-otro", TenantID: "otro", ResidentID: "res-x",
		RecordDate: "2026-08-31", Timing: "morning",
	}))
	e.login(t, "acme", "staff@example.com")

	resp := e.do(t, http.MethodGet, "/api/vitals?date=2026-08-31", nil, tenantHeader("acme"))
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Empty(t, decodeBody[[]*repository.VitalRecord](t, resp))
}

func TestStaffWritesRequireAdmin(t *testing.T) {
	e := newTestEnv(t)
	e.login(t, "acme", "staff@example.com")
	hdr := tenantHeader("acme")

	body := map[string]any{"email": "nuevo@example.com", "name": "Nuevo", "password": "otraclave1"}
	resp := e.do(t, http.MethodPost, "/api/staff", body, hdr)
	require.Equal(t, http.StatusForbidden, resp.StatusCode)

	e.login(t, "acme", "admin@example.com")
	resp = e.do(t, http.MethodPost, "/api/staff", body, hdr)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	created := decodeBody[*repository.Staff](t, resp)
	require.Equal(t, repository.RoleStaff, created.Role, "rol por defecto: staff")
	require.True(t, created.Active)
}

func TestSettingsReorderValidation(t *testing.T) {
	e := newTestEnv(t)
	e.login(t, "acme", "admin@example.com")
	hdr := tenantHeader("acme")

	var ids []string
	for _, label := range []string{"1F", "2F", "3F"} {
		resp := e.do(t, http.MethodPost, "/api/settings",
			map[string]any{"category": "floor", "label": label}, hdr)
		require.Equal(t, http.StatusCreated, resp.StatusCode)
		ids = append(ids, decodeBody[*repository.MasterSetting](t, resp).ID)
	}

	reorder := func(positions []map[string]any) *http.Response {
		return e.do(t, http.MethodPut, "/api/settings/reorder",
			map[string]any{"category": "floor", "positions": positions}, hdr)
	}

	// Permutación parcial.
	resp := reorder([]map[string]any{{"id": ids[0], "position": 0}})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	// Id desconocido.
	resp = reorder([]map[string]any{
		{"id": ids[0], "position": 0}, {"id": ids[1], "position": 1}, {"id": "fantasma", "position": 2},
	})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	// Posición duplicada.
	resp = reorder([]map[string]any{
		{"id": ids[0], "position": 0}, {"id": ids[1], "position": 0}, {"id": ids[2], "position": 2},
	})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	// Id repetido: el conteo y las posiciones cierran, pero un setting
	// quedaría afuera del lote.
	resp = reorder([]map[string]any{
		{"id": ids[0], "position": 0}, {"id": ids[1], "position": 1}, {"id": ids[0], "position": 2},
	})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	// Permutación completa válida: 3F pasa al frente.
	resp = reorder([]map[string]any{
		{"id": ids[2], "position": 0}, {"id": ids[0], "position": 1}, {"id": ids[1], "position": 2},
	})
	require.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp = e.do(t, http.MethodGet, "/api/settings?category=floor", nil, hdr)
	items := decodeBody[[]*repository.MasterSetting](t, resp)
	require.Len(t, items, 3)
	require.Equal(t, "3F", items[0].Label)
	require.Equal(t, "1F", items[1].Label)
	require.Equal(t, "2F", items[2].Label)
}

func TestSettingsWritesRequireAdmin(t *testing.T) {
	e := newTestEnv(t)
	e.login(t, "acme", "staff@example.com")

	resp := e.do(t, http.MethodPost, "/api/settings",
		map[string]any{"category": "floor", "label": "4F"}, tenantHeader("acme"))
	require.Equal(t, http.StatusForbidden, resp.StatusCode)
}

func TestCommunicationReadFlow(t *testing.T) {
	e := newTestEnv(t)
	e.login(t, "acme", "staff@example.com")
	hdr := tenantHeader("acme")

	resp := e.do(t, http.MethodPost, "/api/communications",
		map[string]any{"title": "cambio de turno", "content": "ver notas de la tarde"}, hdr)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	comm := decodeBody[*repository.Communication](t, resp)
	require.Equal(t, "stf-1", comm.AuthorID)

	resp = e.do(t, http.MethodPost, "/api/communications/"+comm.ID+"/read", nil, hdr)
	require.Equal(t, http.StatusNoContent, resp.StatusCode)
	// Repetir no duplica.
	resp = e.do(t, http.MethodPost, "/api/communications/"+comm.ID+"/read", nil, hdr)
	require.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp = e.do(t, http.MethodGet, "/api/communications/"+comm.ID+"/reads", nil, hdr)
	reads := decodeBody[[]*repository.CommunicationRead](t, resp)
	require.Len(t, reads, 1)
	require.Equal(t, "stf-1", reads[0].StaffID)

	resp = e.do(t, http.MethodDelete, "/api/communications/"+comm.ID+"/read", nil, hdr)
	require.Equal(t, http.StatusNoContent, resp.StatusCode)
	resp = e.do(t, http.MethodGet, "/api/communications/"+comm.ID+"/reads", nil, hdr)
	require.Empty(t, decodeBody[[]*repository.CommunicationRead](t, resp))
}

func TestTenantManagementRequiresToken(t *testing.T) {
	e := newTestEnv(t)

	resp := e.do(t, http.MethodGet, "/api/tenants", nil, nil)
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	staffToken, err := e.issuer.Issue("op-1", "", repository.RoleStaff)
	require.NoError(t, err)
	resp = e.do(t, http.MethodGet, "/api/tenants", nil,
		map[string]string{"Authorization": "Bearer " + staffToken})
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode, "un token sin rol admin no alcanza")

	token, err := e.issuer.Issue("op-1", "", repository.RoleAdmin)
	require.NoError(t, err)
	authHdr := map[string]string{"Authorization": "Bearer " + token}

	resp = e.do(t, http.MethodGet, "/api/tenants", nil, authHdr)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Len(t, decodeBody[[]*repository.Tenant](t, resp), 2)

	authHdr["Content-Type"] = "application/json"
	resp = e.do(t, http.MethodPost, "/api/tenants", map[string]any{"name": "Tercero"}, authHdr)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	created := decodeBody[*repository.Tenant](t, resp)
	require.NotEmpty(t, created.ID)
	require.True(t, created.Active)
}

func TestRequestIDPropagated(t *testing.T) {
	e := newTestEnv(t)
	resp := e.do(t, http.MethodGet, "/healthz", nil,
		map[string]string{"X-Request-Id": "req-fijo"})
	require.Equal(t, "req-fijo", resp.Header.Get("X-Request-Id"))

	resp = e.do(t, http.MethodGet, "/healthz", nil, nil)
	require.NotEmpty(t, resp.Header.Get("X-Request-Id"), "sin header entrante se genera uno")
}
