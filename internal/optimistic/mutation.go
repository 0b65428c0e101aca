// Package optimistic implementa el protocolo de mutación optimista sobre
// el querycache: aplicar el cambio localmente antes de confirmar con el
// servidor, y revertir al snapshot exacto si el servidor rechaza.
package optimistic

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/bscode-watanabejun/nasreco/internal/observability/logger"
	"github.com/bscode-watanabejun/nasreco/internal/querycache"
)

// State es el estado del ciclo de vida de una mutación.
type State int

const (
	StateIdle State = iota
	StatePending
	StateCommitted
	StateRolledBack
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StatePending:
		return "pending"
	case StateCommitted:
		return "committed"
	case StateRolledBack:
		return "rolled_back"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Notifier recibe el aviso de rollback para la UI (toast). La capa de
// transporte nunca notifica directamente; todo pasa por acá.
type Notifier interface {
	MutationFailed(key querycache.Key, err error)
}

// NotifierFunc adapta una función a Notifier.
type NotifierFunc func(key querycache.Key, err error)

func (f NotifierFunc) MutationFailed(key querycache.Key, err error) { f(key, err) }

// Mutation describe una mutación optimista sobre una colección cacheada.
//
// Apply transforma la colección cacheada (puede ser nil si no hay
// entrada) y retorna la versión optimista. Apply NO debe mutar current
// in place: tiene que construir una colección nueva, porque current es
// a la vez el snapshot que un rollback restaura textual. Send ejecuta
// el request; su respuesta se pasa a Commit, que reconcilia la colección
// optimista con la verdad del servidor (reemplazo de ids temporales,
// merge de campos calculados). Commit nil deja la versión optimista y
// solo invalida.
type Mutation struct {
	Key    querycache.Key
	Apply  func(current any) any
	Send   func(ctx context.Context) (any, error)
	Commit func(optimistic, response any) any
}

// Result reporta el desenlace de una mutación.
type Result struct {
	State    State
	Response any
}

// Runner ejecuta mutaciones contra un cache compartido.
type Runner struct {
	cache    *querycache.Cache
	notifier Notifier
	log      *zap.Logger
}

// NewRunner crea un Runner. notifier puede ser nil (sin toasts).
func NewRunner(cache *querycache.Cache, notifier Notifier) *Runner {
	return &Runner{cache: cache, notifier: notifier, log: logger.Named("optimistic")}
}

// Run ejecuta el protocolo completo:
//
//  1. snapshot sincrónico de la colección cacheada
//  2. Apply: versión optimista visible de inmediato
//  3. Send: request al servidor
//  4a. éxito → Commit reconcilia y la key se invalida (refetch eventual)
//  4b. error → el snapshot se restaura textual y se notifica el fallo
//
// El snapshot se toma antes de Apply y en el mismo paso crítico que la
// escritura optimista, para que ninguna otra mutación pueda colarse
// entre lectura y escritura.
func (r *Runner) Run(ctx context.Context, m Mutation) (*Result, error) {
	if m.Apply == nil || m.Send == nil {
		return nil, fmt.Errorf("optimistic: mutación incompleta para %q", m.Key.String())
	}

	snapshot, hadEntry := r.snapshotAndApply(m)

	resp, err := m.Send(ctx)
	if err != nil {
		r.rollback(m.Key, snapshot, hadEntry)
		if r.notifier != nil {
			r.notifier.MutationFailed(m.Key, err)
		}
		return &Result{State: StateRolledBack}, err
	}

	if m.Commit != nil {
		cur, _ := r.cache.Get(m.Key)
		var data any
		if cur != nil {
			data = cur.Data
		}
		r.cache.Set(m.Key, m.Commit(data, resp))
	}
	r.cache.Invalidate(m.Key)
	return &Result{State: StateCommitted, Response: resp}, nil
}

// snapshotAndApply captura el snapshot y escribe la versión optimista
// vía cache.Update, que corre bajo el lock del cache: dos mutaciones
// en vuelo sobre la misma key se serializan acá y la segunda aplica
// sobre la versión optimista de la primera, nunca sobre un estado ya
// pisado. El snapshot es la colección previa tal cual: Apply construye
// una colección nueva, así que la referencia retenida no puede ser
// contaminada por la versión optimista.
func (r *Runner) snapshotAndApply(m Mutation) (snapshot any, hadEntry bool) {
	return r.cache.Update(m.Key, m.Apply)
}

func (r *Runner) rollback(key querycache.Key, snapshot any, hadEntry bool) {
	if !hadEntry {
		// No había colección antes: la entrada optimista se invalida
		// para que el próximo acceso traiga el estado real.
		r.cache.Set(key, nil)
		r.cache.Invalidate(key)
		return
	}
	r.cache.Set(key, snapshot)
	r.log.Info("mutación revertida", logger.CacheKey(key.String()))
}
