package logger

import (
	"time"

	"go.uber.org/zap"
)

// ─────────────── HTTP ───────────────

// RequestID crea un campo para el ID del request.
func RequestID(v string) zap.Field {
	return zap.String("request_id", v)
}

// Method crea un campo para el método HTTP.
func Method(v string) zap.Field {
	return zap.String("method", v)
}

// Path crea un campo para el path del request.
func Path(v string) zap.Field {
	return zap.String("path", v)
}

// Status crea un campo para el status code HTTP.
func Status(v int) zap.Field {
	return zap.Int("status", v)
}

// Duration crea un campo para la duración del request.
func Duration(v time.Duration) zap.Field {
	return zap.Duration("duration", v)
}

// ─────────────── Negocio ───────────────

// TenantID crea un campo para el ID del tenant (facility).
func TenantID(v string) zap.Field {
	return zap.String("tenant_id", v)
}

// StaffID crea un campo para el ID del miembro del personal.
func StaffID(v string) zap.Field {
	return zap.String("staff_id", v)
}

// ResidentID crea un campo para el ID del residente.
func ResidentID(v string) zap.Field {
	return zap.String("resident_id", v)
}

// RecordType crea un campo para el tipo de registro
// (vitals, meals, excretion, ...).
func RecordType(v string) zap.Field {
	return zap.String("record_type", v)
}

// RecordDate crea un campo para la fecha del registro (YYYY-MM-DD).
func RecordDate(v string) zap.Field {
	return zap.String("record_date", v)
}

// ─────────────── Sistema ───────────────

// Component crea un campo para el componente/módulo.
func Component(v string) zap.Field {
	return zap.String("component", v)
}

// Op crea un campo para la operación actual.
func Op(v string) zap.Field {
	return zap.String("op", v)
}

// CacheKey crea un campo para una clave del query cache.
func CacheKey(v string) zap.Field {
	return zap.String("cache_key", v)
}

// Err crea un campo para un error.
func Err(err error) zap.Field {
	return zap.Error(err)
}

// Count crea un campo para un conteo.
func Count(v int) zap.Field {
	return zap.Int("count", v)
}
