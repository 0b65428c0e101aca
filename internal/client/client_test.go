package client

import (
	"bytes"
	"context"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/bscode-watanabejun/nasreco/internal/tenant"
)

func newTestClient(t *testing.T, handler http.Handler) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	resolver := tenant.NewResolver(tenant.NewSession(), nil)
	return New(srv.URL, resolver), srv
}

func TestRequestInjectsTenantHeader(t *testing.T) {
	var got string
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Get(TenantHeader)
		w.WriteHeader(http.StatusNoContent)
	}))
	c.Resolver().Resolve("/tenant/acme/records")

	_, err := c.Request(context.Background(), http.MethodGet, "/api/vitals", nil)
	require.NoError(t, err)
	require.Equal(t, "acme", got)
}

func TestRequestOmitsHeaderWithoutTenant(t *testing.T) {
	var present bool
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, present = r.Header[http.CanonicalHeaderKey(TenantHeader)]
		w.WriteHeader(http.StatusNoContent)
	}))

	_, err := c.Request(context.Background(), http.MethodGet, "/api/vitals", nil)
	require.NoError(t, err)
	require.False(t, present, "sin tenant resuelto el header no debe viajar")
}

func TestRequestNoContent(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	raw, err := c.Request(context.Background(), http.MethodDelete, "/api/vitals/v1", nil)
	require.NoError(t, err)
	require.Nil(t, raw)
}

func TestRequestEmptyBody(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	raw, err := c.Request(context.Background(), http.MethodGet, "/api/vitals", nil)
	require.NoError(t, err)
	require.Nil(t, raw)
}

func TestRequestHTMLMisroute(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte("<!DOCTYPE html><html><body>login</body></html>"))
	}))
	_, err := c.Request(context.Background(), http.MethodGet, "/api/vitals", nil)
	require.Error(t, err)
	require.ErrorIs(t, err, ErrHTMLResponse)
}

func TestRequestNonJSONDegradesToNil(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("esto no es json"))
	}))
	raw, err := c.Request(context.Background(), http.MethodGet, "/api/vitals", nil)
	require.NoError(t, err)
	require.Nil(t, raw)
}

func TestRequestErrorEnvelope(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"message":"registro inválido","errors":[{"field":"recordDate","message":"requerido"},"otro error"]}`))
	}))
	_, err := c.Request(context.Background(), http.MethodPost, "/api/vitals", map[string]string{})
	require.Error(t, err)

	var ae *APIError
	require.True(t, errors.As(err, &ae))
	require.Equal(t, http.StatusBadRequest, ae.Status)
	require.Equal(t, "registro inválido", ae.Message)
	require.Len(t, ae.Errors, 2)
	require.Equal(t, "recordDate", ae.Errors[0].Field)
	require.Equal(t, "otro error", ae.Errors[1].Message)
}

func TestRequestErrorFallbacks(t *testing.T) {
	t.Run("texto plano", func(t *testing.T) {
		c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
			_, _ = w.Write([]byte("upstream caído"))
		}))
		_, err := c.Request(context.Background(), http.MethodGet, "/api/vitals", nil)
		require.EqualError(t, err, "upstream caído")
	})

	t.Run("status text", func(t *testing.T) {
		c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))
		_, err := c.Request(context.Background(), http.MethodGet, "/api/vitals", nil)
		require.EqualError(t, err, "500: Internal Server Error")
		require.True(t, IsStatus(err, http.StatusInternalServerError))
	})

	t.Run("body html en error", func(t *testing.T) {
		c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
			_, _ = w.Write([]byte("<html><body>404</body></html>"))
		}))
		_, err := c.Request(context.Background(), http.MethodGet, "/api/vitals", nil)
		// El HTML no se usa como mensaje.
		require.EqualError(t, err, "404: Not Found")
	})
}

func TestRequestNilOn401(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))

	raw, err := c.RequestWith(context.Background(), http.MethodGet, "/api/vitals", nil, RequestOpts{NilOn401: true})
	require.NoError(t, err)
	require.Nil(t, raw)

	// Sin la opción, el 401 es error.
	_, err = c.Request(context.Background(), http.MethodGet, "/api/vitals", nil)
	require.True(t, IsStatus(err, http.StatusUnauthorized))
}

func TestRequestSingleAttempt(t *testing.T) {
	var calls atomic.Int32
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	_, err := c.Request(context.Background(), http.MethodGet, "/api/vitals", nil)
	require.Error(t, err)
	require.Equal(t, int32(1), calls.Load(), "exactamente un intento por llamada")
}

func TestRequestMultipartForm(t *testing.T) {
	var gotCT string
	var gotField string
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotCT = r.Header.Get("Content-Type")
		_ = r.ParseMultipartForm(1 << 20)
		gotField = r.FormValue("note")
		w.WriteHeader(http.StatusNoContent)
	}))

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	require.NoError(t, mw.WriteField("note", "hola"))
	require.NoError(t, mw.Close())

	_, err := c.Request(context.Background(), http.MethodPost, "/api/upload", &Form{
		Body:        &buf,
		ContentType: mw.FormDataContentType(),
	})
	require.NoError(t, err)
	require.Contains(t, gotCT, "multipart/form-data")
	require.Equal(t, "hola", gotField)
}

func TestRequestSharesCookies(t *testing.T) {
	c, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/login":
			http.SetCookie(w, &http.Cookie{Name: "sid", Value: "s1", Path: "/"})
			w.WriteHeader(http.StatusNoContent)
		default:
			if ck, err := r.Cookie("sid"); err != nil || ck.Value != "s1" {
				w.WriteHeader(http.StatusUnauthorized)
				return
			}
			w.WriteHeader(http.StatusNoContent)
		}
	}))

	_, err := c.Request(context.Background(), http.MethodPost, "/login", nil)
	require.NoError(t, err)
	_, err = c.Request(context.Background(), http.MethodGet, "/api/vitals", nil)
	require.NoError(t, err, "la cookie de sesión debe acompañar requests posteriores")
}

func TestDecode(t *testing.T) {
	type rec struct {
		ID string `json:"id"`
	}
	out, err := Decode[[]rec]([]byte(`[{"id":"r1"}]`))
	require.NoError(t, err)
	require.Equal(t, []rec{{ID: "r1"}}, out)

	// raw nil → valor cero, sin error.
	empty, err := Decode[[]rec](nil)
	require.NoError(t, err)
	require.Nil(t, empty)
}
