package records

import (
	"context"
	"net/http"
	"net/url"
	"time"

	"github.com/bscode-watanabejun/nasreco/internal/client"
	"github.com/bscode-watanabejun/nasreco/internal/domain/repository"
	"github.com/bscode-watanabejun/nasreco/internal/optimistic"
	"github.com/bscode-watanabejun/nasreco/internal/querycache"
)

// Communications es el facade del tablón de comunicaciones, incluido el
// estado de lectura por miembro del personal.
type Communications struct {
	svc *Service
}

// Communications retorna el facade de comunicaciones.
func (s *Service) Communications() *Communications { return &Communications{svc: s} }

func communicationsKey(f repository.CommunicationFilter) querycache.Key {
	important := ""
	if f.OnlyImportant {
		important = "important"
	}
	return querycache.NewKey("communications", f.Floor, important)
}

func readsKey(communicationID string) querycache.Key {
	return querycache.NewKey("communications", "reads", communicationID)
}

func communicationQuery(f repository.CommunicationFilter) string {
	q := url.Values{}
	if f.Floor != "" {
		q.Set("floor", f.Floor)
	}
	if f.OnlyImportant {
		q.Set("important", "true")
	}
	if len(q) == 0 {
		return ""
	}
	return "?" + q.Encode()
}

// List trae las comunicaciones filtradas.
func (c *Communications) List(ctx context.Context, filter repository.CommunicationFilter) ([]*repository.Communication, error) {
	data, err := c.svc.cache.Fetch(ctx, communicationsKey(filter), func(ctx context.Context) (any, error) {
		raw, err := c.svc.api.Request(ctx, http.MethodGet, "/api/communications"+communicationQuery(filter), nil)
		if err != nil {
			return nil, err
		}
		return client.Decode[[]*repository.Communication](raw)
	}, c.svc.commOpts)
	if err != nil {
		return nil, err
	}
	items, _ := data.([]*repository.Communication)
	return items, nil
}

// Create publica una comunicación de forma optimista: aparece al tope
// del tablón con id temporal hasta que el servidor confirma.
func (c *Communications) Create(ctx context.Context, filter repository.CommunicationFilter, comm *repository.Communication) (*repository.Communication, error) {
	tempID := optimistic.NewTempID()
	pendingComm := *comm
	pendingComm.ID = tempID
	pendingComm.CreatedAt = time.Now()

	var created *repository.Communication
	_, err := c.svc.runner.Run(ctx, optimistic.Mutation{
		Key: communicationsKey(filter),
		Apply: func(current any) any {
			items, _ := current.([]*repository.Communication)
			out := make([]*repository.Communication, 0, len(items)+1)
			out = append(out, &pendingComm)
			return append(out, items...)
		},
		Send: func(ctx context.Context) (any, error) {
			raw, err := c.svc.api.Request(ctx, http.MethodPost, "/api/communications", comm)
			if err != nil {
				return nil, err
			}
			cc, err := client.Decode[*repository.Communication](raw)
			if err != nil {
				return nil, err
			}
			created = cc
			return cc, nil
		},
		Commit: func(current, resp any) any {
			items, _ := current.([]*repository.Communication)
			return optimistic.ReplaceRecord(items, tempID, resp.(*repository.Communication),
				func(x *repository.Communication) string { return x.ID })
		},
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// Delete elimina una comunicación de forma optimista.
func (c *Communications) Delete(ctx context.Context, filter repository.CommunicationFilter, id string) error {
	_, err := c.svc.runner.Run(ctx, optimistic.Mutation{
		Key: communicationsKey(filter),
		Apply: func(current any) any {
			items, _ := current.([]*repository.Communication)
			return optimistic.RemoveID(items, id,
				func(x *repository.Communication) string { return x.ID })
		},
		Send: func(ctx context.Context) (any, error) {
			return c.svc.api.Request(ctx, http.MethodDelete, "/api/communications/"+id, nil)
		},
	})
	return err
}

// ListReads trae quiénes leyeron una comunicación.
func (c *Communications) ListReads(ctx context.Context, communicationID string) ([]*repository.CommunicationRead, error) {
	data, err := c.svc.cache.Fetch(ctx, readsKey(communicationID), func(ctx context.Context) (any, error) {
		raw, err := c.svc.api.Request(ctx, http.MethodGet, "/api/communications/"+communicationID+"/reads", nil)
		if err != nil {
			return nil, err
		}
		return client.Decode[[]*repository.CommunicationRead](raw)
	}, c.svc.commOpts)
	if err != nil {
		return nil, err
	}
	items, _ := data.([]*repository.CommunicationRead)
	return items, nil
}

// MarkRead marca la comunicación como leída por staffID, de forma
// optimista. Idempotente del lado servidor; repetir no duplica la fila
// local.
func (c *Communications) MarkRead(ctx context.Context, communicationID, staffID string) error {
	_, err := c.svc.runner.Run(ctx, optimistic.Mutation{
		Key: readsKey(communicationID),
		Apply: func(current any) any {
			items, _ := current.([]*repository.CommunicationRead)
			for _, r := range items {
				if r.StaffID == staffID {
					out := make([]*repository.CommunicationRead, len(items))
					copy(out, items)
					return out
				}
			}
			out := make([]*repository.CommunicationRead, 0, len(items)+1)
			out = append(out, items...)
			return append(out, &repository.CommunicationRead{
				CommunicationID: communicationID,
				StaffID:         staffID,
				ReadAt:          time.Now(),
			})
		},
		Send: func(ctx context.Context) (any, error) {
			return c.svc.api.Request(ctx, http.MethodPost, "/api/communications/"+communicationID+"/read", nil)
		},
	})
	return err
}

// MarkUnread deshace la marca de lectura de staffID.
func (c *Communications) MarkUnread(ctx context.Context, communicationID, staffID string) error {
	_, err := c.svc.runner.Run(ctx, optimistic.Mutation{
		Key: readsKey(communicationID),
		Apply: func(current any) any {
			items, _ := current.([]*repository.CommunicationRead)
			out := make([]*repository.CommunicationRead, 0, len(items))
			for _, r := range items {
				if r.StaffID == staffID {
					continue
				}
				out = append(out, r)
			}
			return out
		},
		Send: func(ctx context.Context) (any, error) {
			return c.svc.api.Request(ctx, http.MethodDelete, "/api/communications/"+communicationID+"/read", nil)
		},
	})
	return err
}
