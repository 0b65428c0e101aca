package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	c, err := Load("")
	require.NoError(t, err)

	require.Equal(t, ":8080", c.Server.Addr)
	require.Equal(t, "memory", c.Storage.Driver)
	require.Equal(t, "memory", c.Cache.Kind)
	require.Equal(t, "nasreco_session", c.Auth.Session.CookieName)
	require.Equal(t, 12*time.Hour, c.SessionTTL())
	require.Equal(t, 15*time.Minute, c.AccessTTL())
	require.Equal(t, "nasreco", c.Auth.JWT.Issuer)
}

func TestLoadYAMLFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
app:
  env: prod
server:
  addr: ":9090"
storage:
  driver: postgres
  dsn: postgres://localhost/nasreco
auth:
  session:
    ttl: 8h
`), 0o600))

	c, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "prod", c.App.Env)
	require.Equal(t, ":9090", c.Server.Addr)
	require.Equal(t, "postgres", c.Storage.Driver)
	require.Equal(t, 8*time.Hour, c.SessionTTL())
	// Los defaults siguen rellenando lo no especificado.
	require.Equal(t, "30s", c.Server.WriteTimeout)
}

func TestEnvOverridesWinOverFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server:\n  addr: \":9090\"\n"), 0o600))

	t.Setenv("SERVER_ADDR", ":7070")
	t.Setenv("STORAGE_DRIVER", "MEMORY")
	t.Setenv("JWT_SECRET", "desde-el-entorno")
	t.Setenv("SESSION_SECURE", "true")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example.com, https://b.example.com")

	c, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, ":7070", c.Server.Addr)
	require.Equal(t, "memory", c.Storage.Driver, "el driver se normaliza a minúsculas")
	require.Equal(t, "desde-el-entorno", c.Auth.JWT.Secret)
	require.True(t, c.Auth.Session.Secure)
	require.Equal(t, []string{"https://a.example.com", "https://b.example.com"}, c.Server.CORSAllowedOrigins)
}

func TestValidateRejectsBadDriver(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("storage:\n  driver: cassandra\n"), 0o600))

	_, err := Load(path)
	require.Error(t, err)
}

func TestValidatePostgresNeedsDSN(t *testing.T) {
	t.Setenv("STORAGE_DRIVER", "postgres")
	t.Setenv("DATABASE_URL", "")

	_, err := Load("")
	require.Error(t, err)
}

func TestTTLFallbacksOnGarbage(t *testing.T) {
	t.Setenv("SESSION_TTL", "no-es-duración")
	c, err := Load("")
	require.NoError(t, err)
	require.Equal(t, 12*time.Hour, c.SessionTTL())
}
