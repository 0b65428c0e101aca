package records

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/bscode-watanabejun/nasreco/internal/client"
	"github.com/bscode-watanabejun/nasreco/internal/domain/repository"
	"github.com/bscode-watanabejun/nasreco/internal/observability/logger"
	"github.com/bscode-watanabejun/nasreco/internal/optimistic"
	"github.com/bscode-watanabejun/nasreco/internal/querycache"
)

// Facade es el facade genérico de un tipo de registro diario (vitales,
// comidas, medicación, excreciones, baños, notas). Todas las mutaciones
// son optimistas: la colección cacheada refleja el cambio de inmediato
// y se revierte si el servidor rechaza.
type Facade[T any] struct {
	svc    *Service
	name   string
	path   string
	id     func(*T) string
	withID func(*T, string) *T
}

func newFacade[T any](svc *Service, name, path string, id func(*T) string, withID func(*T, string) *T) *Facade[T] {
	return &Facade[T]{svc: svc, name: name, path: path, id: id, withID: withID}
}

// Key retorna la key de cache del listado filtrado.
func (f *Facade[T]) Key(filter repository.RecordFilter) querycache.Key {
	return querycache.NewKey(f.name, filter.Date, filter.ResidentID, filter.Floor)
}

// List trae el listado filtrado, sirviendo del cache cuando está fresco.
func (f *Facade[T]) List(ctx context.Context, filter repository.RecordFilter) ([]*T, error) {
	data, err := f.svc.cache.Fetch(ctx, f.Key(filter), func(ctx context.Context) (any, error) {
		raw, err := f.svc.api.Request(ctx, http.MethodGet, f.path+recordQuery(filter), nil)
		if err != nil {
			return nil, err
		}
		return client.Decode[[]*T](raw)
	}, f.svc.recordOpts)
	if err != nil {
		return nil, err
	}
	items, _ := data.([]*T)
	return items, nil
}

// Create crea un registro de forma optimista: la fila aparece en el
// listado con un id temporal, que el commit reemplaza por el id
// asignado por el servidor. Las ediciones encoladas contra el id
// temporal se despachan recién cuando el id real existe.
func (f *Facade[T]) Create(ctx context.Context, filter repository.RecordFilter, rec *T) (*T, error) {
	tempID := optimistic.NewTempID()
	pendingRec := f.withID(rec, tempID)
	key := f.Key(filter)

	var created *T
	_, err := f.svc.runner.Run(ctx, optimistic.Mutation{
		Key: key,
		Apply: func(current any) any {
			items, _ := current.([]*T)
			out := make([]*T, 0, len(items)+1)
			out = append(out, items...)
			return append(out, pendingRec)
		},
		Send: func(ctx context.Context) (any, error) {
			raw, err := f.svc.api.Request(ctx, http.MethodPost, f.path, rec)
			if err != nil {
				return nil, err
			}
			c, err := client.Decode[*T](raw)
			if err != nil {
				return nil, err
			}
			created = c
			return c, nil
		},
		Commit: func(current, resp any) any {
			items, _ := current.([]*T)
			return optimistic.ReplaceRecord(items, tempID, resp.(*T), f.id)
		},
	})
	if err != nil {
		f.svc.pending.Discard(f.name, tempID)
		return nil, err
	}

	for _, e := range f.svc.pending.Resolve(f.name, tempID, f.id(created)) {
		if uerr := f.Update(ctx, filter, e.RecordID, map[string]any{e.Field: e.Value}); uerr != nil {
			f.svc.log.Warn("edición encolada falló tras la creación",
				logger.RecordType(f.name), logger.Err(uerr))
		}
	}
	return created, nil
}

// Update aplica un patch parcial (keys JSON camelCase) a un registro.
// Si el id es temporal la creación todavía está en vuelo: el patch se
// aplica localmente y queda encolado hasta conocer el id real.
func (f *Facade[T]) Update(ctx context.Context, filter repository.RecordFilter, id string, patch map[string]any) error {
	key := f.Key(filter)

	if optimistic.IsTempID(id) {
		for field, value := range patch {
			f.svc.pending.Enqueue(f.name, id, field, value)
		}
		f.patchLocal(key, id, patch)
		return nil
	}

	_, err := f.svc.runner.Run(ctx, optimistic.Mutation{
		Key: key,
		Apply: func(current any) any {
			items, _ := current.([]*T)
			out := make([]*T, len(items))
			for i, it := range items {
				if f.id(it) == id {
					out[i] = patchRecord(it, patch)
					continue
				}
				out[i] = it
			}
			return out
		},
		Send: func(ctx context.Context) (any, error) {
			return f.svc.api.Request(ctx, http.MethodPatch, f.path+"/"+id, patch)
		},
	})
	return err
}

// Delete elimina un registro de forma optimista. Un id temporal se
// remueve solo localmente: el servidor nunca lo conoció.
func (f *Facade[T]) Delete(ctx context.Context, filter repository.RecordFilter, id string) error {
	key := f.Key(filter)

	if optimistic.IsTempID(id) {
		f.svc.pending.Discard(f.name, id)
		if e, ok := f.svc.cache.Get(key); ok {
			items, _ := e.Data.([]*T)
			f.svc.cache.Set(key, optimistic.RemoveID(items, id, f.id))
		}
		return nil
	}

	_, err := f.svc.runner.Run(ctx, optimistic.Mutation{
		Key: key,
		Apply: func(current any) any {
			items, _ := current.([]*T)
			return optimistic.RemoveID(items, id, f.id)
		},
		Send: func(ctx context.Context) (any, error) {
			return f.svc.api.Request(ctx, http.MethodDelete, f.path+"/"+id, nil)
		},
	})
	return err
}

// patchLocal reescribe la fila id dentro de la colección cacheada, sin
// tocar el servidor.
func (f *Facade[T]) patchLocal(key querycache.Key, id string, patch map[string]any) {
	e, ok := f.svc.cache.Get(key)
	if !ok {
		return
	}
	items, _ := e.Data.([]*T)
	out := make([]*T, len(items))
	for i, it := range items {
		if f.id(it) == id {
			out[i] = patchRecord(it, patch)
			continue
		}
		out[i] = it
	}
	f.svc.cache.Set(key, out)
}

// patchRecord fusiona un patch de keys JSON sobre el registro via
// round-trip: el resultado conserva el tipo y los campos no tocados.
func patchRecord[T any](rec *T, patch map[string]any) *T {
	raw, err := json.Marshal(rec)
	if err != nil {
		return rec
	}
	var m map[string]any
	if err := json.Unmarshal(raw, &m); err != nil {
		return rec
	}
	for k, v := range patch {
		m[k] = v
	}
	merged, err := json.Marshal(m)
	if err != nil {
		return rec
	}
	out := new(T)
	if err := json.Unmarshal(merged, out); err != nil {
		return rec
	}
	return out
}
