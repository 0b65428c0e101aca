package records

import (
	"context"
	"net/http"
	"net/url"
	"strconv"

	"github.com/bscode-watanabejun/nasreco/internal/client"
	"github.com/bscode-watanabejun/nasreco/internal/domain/repository"
	"github.com/bscode-watanabejun/nasreco/internal/querycache"
)

// Residents es el facade de residentes. El CRUD de residentes es un
// flujo administrativo de baja frecuencia: no usa mutación optimista,
// solo invalida el cache tras confirmar.
type Residents struct {
	svc *Service
}

// Residents retorna el facade de residentes.
func (s *Service) Residents() *Residents { return &Residents{svc: s} }

func residentsKey(f repository.ResidentFilter) querycache.Key {
	return querycache.NewKey("residents", f.Floor, strconv.FormatBool(f.OnlyAdmitted))
}

func residentQuery(f repository.ResidentFilter) string {
	q := url.Values{}
	if f.Floor != "" {
		q.Set("floor", f.Floor)
	}
	if f.OnlyAdmitted {
		q.Set("admitted", "true")
	}
	if len(q) == 0 {
		return ""
	}
	return "?" + q.Encode()
}

// List trae los residentes filtrados.
func (r *Residents) List(ctx context.Context, filter repository.ResidentFilter) ([]*repository.Resident, error) {
	data, err := r.svc.cache.Fetch(ctx, residentsKey(filter), func(ctx context.Context) (any, error) {
		raw, err := r.svc.api.Request(ctx, http.MethodGet, "/api/residents"+residentQuery(filter), nil)
		if err != nil {
			return nil, err
		}
		return client.Decode[[]*repository.Resident](raw)
	}, r.svc.residentOpts)
	if err != nil {
		return nil, err
	}
	items, _ := data.([]*repository.Resident)
	return items, nil
}

// Get trae un residente por id, sin pasar por el cache de listados.
func (r *Residents) Get(ctx context.Context, id string) (*repository.Resident, error) {
	raw, err := r.svc.api.Request(ctx, http.MethodGet, "/api/residents/"+id, nil)
	if err != nil {
		return nil, err
	}
	return client.Decode[*repository.Resident](raw)
}

// Create da de alta un residente e invalida los listados.
func (r *Residents) Create(ctx context.Context, res *repository.Resident) (*repository.Resident, error) {
	raw, err := r.svc.api.Request(ctx, http.MethodPost, "/api/residents", res)
	if err != nil {
		return nil, err
	}
	created, err := client.Decode[*repository.Resident](raw)
	if err != nil {
		return nil, err
	}
	r.svc.cache.Invalidate(querycache.NewKey("residents"))
	return created, nil
}

// Update modifica un residente e invalida los listados.
func (r *Residents) Update(ctx context.Context, res *repository.Resident) error {
	if _, err := r.svc.api.Request(ctx, http.MethodPut, "/api/residents/"+res.ID, res); err != nil {
		return err
	}
	r.svc.cache.Invalidate(querycache.NewKey("residents"))
	return nil
}

// Delete elimina un residente e invalida los listados.
func (r *Residents) Delete(ctx context.Context, id string) error {
	if _, err := r.svc.api.Request(ctx, http.MethodDelete, "/api/residents/"+id, nil); err != nil {
		return err
	}
	r.svc.cache.Invalidate(querycache.NewKey("residents"))
	return nil
}
