package client

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrHTMLResponse indica que el servidor devolvió una página HTML donde
// se esperaba JSON. Se distingue del resto de errores de parseo porque
// este modo de fallo (un redirect de auth devolviendo la página de login)
// es un problema sistémico de routing/sesión, no un problema de datos.
var ErrHTMLResponse = errors.New("el servidor devolvió una página en lugar de datos")

// FieldError es un error de validación de un campo concreto.
// El backend puede mandar strings sueltos u objetos {field, message};
// ambos se aceptan.
type FieldError struct {
	Field   string `json:"field,omitempty"`
	Message string `json:"message"`
}

func (f *FieldError) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		f.Message = s
		return nil
	}
	type alias FieldError
	var a alias
	if err := json.Unmarshal(b, &a); err != nil {
		return err
	}
	*f = FieldError(a)
	return nil
}

// APIError es un fallo HTTP normalizado. Message sale del body JSON si
// lo hay; si no, del texto crudo; como último recurso "{status}: {statusText}".
// Errors se conserva para que los forms puedan resaltar campos.
type APIError struct {
	Status     int
	StatusText string
	Message    string
	Errors     []FieldError
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("%d: %s", e.Status, e.StatusText)
}

// IsStatus verifica si err es un APIError con el status dado.
func IsStatus(err error, status int) bool {
	var ae *APIError
	return errors.As(err, &ae) && ae.Status == status
}
