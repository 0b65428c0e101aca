// Package client implementa el request wrapper tenant-aware que usan
// todos los facades de internal/records: inyección del header de tenant,
// credenciales de sesión (cookie jar), y normalización uniforme de
// errores y bodies vacíos.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"os"
	"strings"

	"go.uber.org/zap"

	"github.com/bscode-watanabejun/nasreco/internal/observability/logger"
	"github.com/bscode-watanabejun/nasreco/internal/tenant"
)

// TenantHeader es el header que lleva el tenant activo en cada request.
// Su ausencia señala el entorno host/padre al backend.
const TenantHeader = "x-tenant-id"

// DebugEnv habilita logging verboso de request/response.
const DebugEnv = "NASRECO_DEBUG_HTTP"

// Form es un body multipart/form-data ya codificado. El ContentType lo
// produce el multipart.Writer (incluye el boundary); el wrapper no lo
// pisa con application/json.
type Form struct {
	Body        io.Reader
	ContentType string
}

// Client es el request wrapper. Una instancia por "tab" de cliente;
// comparte cookie jar (credenciales de sesión) entre requests.
type Client struct {
	baseURL  string
	http     *http.Client
	resolver *tenant.Resolver
	debug    bool
	log      *zap.Logger
}

// Option configura el Client.
type Option func(*Client)

// WithHTTPClient reemplaza el transporte (tests).
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

// WithDebug fuerza el logging verboso independientemente del entorno.
func WithDebug(on bool) Option {
	return func(c *Client) { c.debug = on }
}

// New crea un Client contra baseURL. El cookie jar se crea acá para que
// la cookie de sesión acompañe cada request (credentials: include).
func New(baseURL string, resolver *tenant.Resolver, opts ...Option) *Client {
	jar, _ := cookiejar.New(nil)
	c := &Client{
		baseURL:  strings.TrimRight(baseURL, "/"),
		http:     &http.Client{Jar: jar},
		resolver: resolver,
		debug:    os.Getenv(DebugEnv) != "",
		log:      logger.Named("client"),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// Resolver expone el tenant resolver ligado a este cliente.
func (c *Client) Resolver() *tenant.Resolver { return c.resolver }

// RequestOpts ajusta el comportamiento por call-site.
type RequestOpts struct {
	// NilOn401 trata un 401 como "sin datos" (nil, nil) en vez de error.
	// Es una política por query, no global: páginas públicas la activan,
	// forms de edición la dejan apagada para propagar el error.
	NilOn401 bool
}

// Request emite una llamada HTTP con la política por defecto.
// body puede ser nil, *Form (multipart) o cualquier valor JSON-serializable.
// Exactamente un intento por llamada: los reintentos están deshabilitados
// en esta capa y en la integración con el cache.
func (c *Client) Request(ctx context.Context, method, path string, body any) (json.RawMessage, error) {
	return c.RequestWith(ctx, method, path, body, RequestOpts{})
}

// RequestWith es Request con opciones explícitas.
func (c *Client) RequestWith(ctx context.Context, method, path string, body any, opts RequestOpts) (json.RawMessage, error) {
	var reader io.Reader
	contentType := ""
	switch b := body.(type) {
	case nil:
	case *Form:
		reader = b.Body
		contentType = b.ContentType
	default:
		buf, err := json.Marshal(b)
		if err != nil {
			return nil, fmt.Errorf("client: serializando body: %w", err)
		}
		reader = bytes.NewReader(buf)
		contentType = "application/json"
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, err
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if id := c.resolver.Current(); id != "" {
		req.Header.Set(TenantHeader, id)
	}

	if c.debug {
		c.log.Debug("request",
			logger.Method(method),
			logger.Path(path),
			logger.TenantID(req.Header.Get(TenantHeader)))
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if c.debug {
		c.log.Debug("response",
			logger.Path(path),
			logger.Status(resp.StatusCode))
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		if resp.StatusCode == http.StatusUnauthorized && opts.NilOn401 {
			return nil, nil
		}
		return nil, c.normalizeError(resp)
	}

	// 204 o content-length declarado en cero: no hay body que parsear.
	if resp.StatusCode == http.StatusNoContent || resp.ContentLength == 0 {
		return nil, nil
	}

	// Leemos como texto primero: un string vacío o una página HTML
	// (request mal ruteado) se detectan antes del parse.
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	text := strings.TrimSpace(string(raw))
	if text == "" {
		return nil, nil
	}
	if isHTML(text) {
		return nil, fmt.Errorf("client: %w (status %d)", ErrHTMLResponse, resp.StatusCode)
	}
	if !json.Valid(raw) {
		// Body no-JSON, no-HTML: se degrada a "sin datos". Varios
		// call sites dependen de que esto sea indistinguible de una
		// respuesta vacía.
		c.log.Warn("body no parseable, degradado a null", logger.Path(path))
		return nil, nil
	}
	return json.RawMessage(raw), nil
}

// normalizeError construye el APIError de una respuesta non-2xx.
// Cada intento de parse está contenido: un fallo secundario no debe
// enmascarar el error HTTP original.
func (c *Client) normalizeError(resp *http.Response) error {
	apiErr := &APIError{
		Status:     resp.StatusCode,
		StatusText: http.StatusText(resp.StatusCode),
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return apiErr
	}

	ct := strings.ToLower(resp.Header.Get("Content-Type"))
	if strings.Contains(ct, "application/json") || json.Valid(raw) {
		var envelope struct {
			Message string       `json:"message"`
			Errors  []FieldError `json:"errors"`
		}
		if json.Unmarshal(raw, &envelope) == nil && envelope.Message != "" {
			apiErr.Message = envelope.Message
			apiErr.Errors = envelope.Errors
			return apiErr
		}
	}

	if text := strings.TrimSpace(string(raw)); text != "" && !isHTML(text) {
		apiErr.Message = text
	}
	return apiErr
}

func isHTML(text string) bool {
	lower := strings.ToLower(text)
	return strings.HasPrefix(lower, "<!doctype") || strings.HasPrefix(lower, "<html")
}

// Decode des-serializa un RawMessage en out. raw nil deja out en cero:
// "sin datos todavía" y "respuesta vacía" son indistinguibles a propósito.
func Decode[T any](raw json.RawMessage) (T, error) {
	var out T
	if raw == nil {
		return out, nil
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return out, fmt.Errorf("client: decodificando respuesta: %w", err)
	}
	return out, nil
}
