package tenant

import (
	"testing"

	"github.com/stretchr/testify/require"
)

type fakeUsers struct {
	staff string
	user  string
}

func (f *fakeUsers) StaffTenant() (string, bool) { return f.staff, f.staff != "" }
func (f *fakeUsers) UserTenant() (string, bool)  { return f.user, f.user != "" }

func TestFromPath(t *testing.T) {
	cases := []struct {
		path string
		want string
		ok   bool
	}{
		{"/tenant/acme/records", "acme", true},
		{"/tenant/acme", "acme", true},
		{"/tenant/acme/", "acme", true},
		{"/tenant/", "", false},
		{"/records", "", false},
		{"", "", false},
	}
	for _, c := range cases {
		got, ok := FromPath(c.path)
		require.Equal(t, c.ok, ok, c.path)
		require.Equal(t, c.want, got, c.path)
	}
}

func TestResolvePathWinsAndPersists(t *testing.T) {
	sess := NewSession()
	sess.Set(SessionKey, "other")
	r := NewResolver(sess, &fakeUsers{staff: "beta"})

	got := r.Resolve("/tenant/acme/records")
	require.Equal(t, "acme", got)

	// La selección de URL pisa la persistida.
	stored, ok := sess.Get(SessionKey)
	require.True(t, ok)
	require.Equal(t, "acme", stored)

	// Sin tenant en el path, gana lo persistido.
	require.Equal(t, "acme", r.Resolve("/records"))
}

func TestResolveFallbackChain(t *testing.T) {
	t.Run("session", func(t *testing.T) {
		sess := NewSession()
		sess.Set(SessionKey, "stored")
		r := NewResolver(sess, &fakeUsers{staff: "beta"})
		require.Equal(t, "stored", r.Resolve("/records"))
	})

	t.Run("staff", func(t *testing.T) {
		r := NewResolver(NewSession(), &fakeUsers{staff: "beta", user: "gamma"})
		require.Equal(t, "beta", r.Resolve("/records"))
	})

	t.Run("user", func(t *testing.T) {
		r := NewResolver(NewSession(), &fakeUsers{user: "gamma"})
		require.Equal(t, "gamma", r.Resolve("/records"))
	})

	t.Run("vacío", func(t *testing.T) {
		r := NewResolver(NewSession(), nil)
		require.Equal(t, "", r.Resolve("/records"))
	})
}

func TestFallbackNoPersiste(t *testing.T) {
	sess := NewSession()
	r := NewResolver(sess, &fakeUsers{staff: "beta"})
	require.Equal(t, "beta", r.Resolve("/records"))

	// El fallback no escribe la Session: solo la selección por URL.
	_, ok := sess.Get(SessionKey)
	require.False(t, ok)
}

func TestPathFor(t *testing.T) {
	r := NewResolver(NewSession(), nil)
	require.Equal(t, "/records", r.PathFor("/records"))

	r.Resolve("/tenant/acme/home")
	require.Equal(t, "/tenant/acme/records", r.PathFor("/records"))
	require.Equal(t, "/tenant/acme/records", r.PathFor("records"))
}

func TestClear(t *testing.T) {
	sess := NewSession()
	r := NewResolver(sess, nil)
	r.Resolve("/tenant/acme/home")
	require.Equal(t, "acme", r.Current())

	r.Clear()
	require.Equal(t, "", r.Current())
	_, ok := sess.Get(SessionKey)
	require.False(t, ok)
}
