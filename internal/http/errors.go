package http

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/bscode-watanabejun/nasreco/internal/domain/repository"
)

// fieldError es un error de validación atado a un campo del body.
type fieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// apiError es el envelope de error del API. El cliente depende de la
// forma {message, errors?}; requestId viaja para correlación de logs.
type apiError struct {
	Message   string       `json:"message"`
	Errors    []fieldError `json:"errors,omitempty"`
	RequestID string       `json:"requestId,omitempty"`
}

// WriteJSON: respuesta JSON estándar
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// WriteError escribe el envelope de error con el request id ya emitido.
func WriteError(w http.ResponseWriter, status int, message string) {
	writeEnvelope(w, status, apiError{Message: message})
}

// WriteFieldErrors escribe un 400 con errores de validación por campo.
func WriteFieldErrors(w http.ResponseWriter, message string, fields []fieldError) {
	writeEnvelope(w, http.StatusBadRequest, apiError{Message: message, Errors: fields})
}

func writeEnvelope(w http.ResponseWriter, status int, e apiError) {
	e.RequestID = w.Header().Get("X-Request-ID")
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(e)
}

// WriteRepoError traduce errores del repositorio al status apropiado.
func WriteRepoError(w http.ResponseWriter, err error) {
	switch {
	case repository.IsNotFound(err):
		WriteError(w, http.StatusNotFound, "registro no encontrado")
	case repository.IsConflict(err):
		WriteError(w, http.StatusConflict, "el registro ya existe")
	case errors.Is(err, repository.ErrInvalidInput):
		WriteError(w, http.StatusBadRequest, "datos inválidos")
	case errors.Is(err, repository.ErrTenantMismatch):
		WriteError(w, http.StatusForbidden, "el registro pertenece a otro tenant")
	default:
		WriteError(w, http.StatusInternalServerError, "error interno")
	}
}

// ReadJSON: decodifica JSON de forma tolerante (NO falla por campos
// desconocidos). Valida Content-Type y limita el body a 1MB.
func ReadJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	ct := strings.ToLower(r.Header.Get("Content-Type"))
	if !strings.Contains(ct, "application/json") {
		WriteError(w, http.StatusBadRequest, "Content-Type debe ser application/json")
		return false
	}
	// máx 1MB
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)
	defer r.Body.Close()

	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(v); err != nil && err != io.EOF {
		WriteError(w, http.StatusBadRequest, "json inválido")
		return false
	}
	return true
}
