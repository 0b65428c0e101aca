// Package tenant resuelve el tenant activo del lado cliente.
//
// Orden de resolución (gana el primero):
//  1. Path de la navegación actual (/tenant/{id}/...) — persiste el id
//     en la Session para navegaciones posteriores que no releen la URL.
//  2. Valor persistido en la Session bajo SessionKey.
//  3. Asociación de tenant del usuario autenticado (objeto residente en
//     cache), prefiriendo una sesión de staff sobre una genérica.
//  4. Vacío: entorno host/padre.
//
// Solo el paso 1 escribe la Session; el resto es read-only.
package tenant

import (
	"strings"
	"sync"
)

// SessionKey es la key de la Session donde se persiste el tenant elegido.
const SessionKey = "selectedTenantId"

// PathPrefix identifica rutas tenant-scoped.
const PathPrefix = "/tenant/"

// UserSource expone la asociación de tenant del usuario autenticado que
// esté residente en cache. Ambos métodos retornan ok=false si no hay
// sesión de ese tipo cacheada.
type UserSource interface {
	// StaffTenant: tenant de la sesión de staff.
	StaffTenant() (string, bool)
	// UserTenant: tenant de una sesión genérica.
	UserTenant() (string, bool)
}

// Resolver deriva el tenant activo. Thread-safe.
type Resolver struct {
	session Session
	users   UserSource // opcional

	mu   sync.RWMutex
	last string
}

// NewResolver crea un Resolver. users puede ser nil si el cliente no
// mantiene un usuario cacheado.
func NewResolver(session Session, users UserSource) *Resolver {
	return &Resolver{session: session, users: users}
}

// FromPath extrae el id de tenant de un path /tenant/{id}/...
func FromPath(path string) (string, bool) {
	if !strings.HasPrefix(path, PathPrefix) {
		return "", false
	}
	rest := path[len(PathPrefix):]
	if i := strings.IndexByte(rest, '/'); i >= 0 {
		rest = rest[:i]
	}
	if rest == "" {
		return "", false
	}
	return rest, true
}

// Resolve deriva el tenant activo para la navegación dada. Si el path
// trae tenant, lo persiste en la Session (pisa cualquier valor previo).
func (r *Resolver) Resolve(currentPath string) string {
	if id, ok := FromPath(currentPath); ok {
		r.session.Set(SessionKey, id)
		r.setLast(id)
		return id
	}
	id := r.readOnlyResolve()
	r.setLast(id)
	return id
}

// readOnlyResolve aplica los pasos 2-4 sin tocar la Session.
func (r *Resolver) readOnlyResolve() string {
	if id, ok := r.session.Get(SessionKey); ok && id != "" {
		return id
	}
	if r.users != nil {
		if id, ok := r.users.StaffTenant(); ok && id != "" {
			return id
		}
		if id, ok := r.users.UserTenant(); ok && id != "" {
			return id
		}
	}
	return ""
}

func (r *Resolver) setLast(id string) {
	r.mu.Lock()
	r.last = id
	r.mu.Unlock()
}

// Current retorna el último id resuelto sin efectos secundarios.
// Si nunca se llamó Resolve, cae a la resolución read-only.
func (r *Resolver) Current() string {
	r.mu.RLock()
	last := r.last
	r.mu.RUnlock()
	if last != "" {
		return last
	}
	return r.readOnlyResolve()
}

// PathFor prefija path con /tenant/{id} si hay tenant resuelto; si no,
// retorna path sin cambios. Pura dado el id actual: se usa para
// construir navegaciones y back-links que deben quedar dentro del
// mismo scope de tenant.
func (r *Resolver) PathFor(path string) string {
	id := r.Current()
	if id == "" {
		return path
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return PathPrefix + id + path
}

// Clear borra la selección persistida (logout).
func (r *Resolver) Clear() {
	r.session.Delete(SessionKey)
	r.setLast("")
}
