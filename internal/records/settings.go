package records

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/bscode-watanabejun/nasreco/internal/client"
	"github.com/bscode-watanabejun/nasreco/internal/domain/repository"
	"github.com/bscode-watanabejun/nasreco/internal/optimistic"
	"github.com/bscode-watanabejun/nasreco/internal/querycache"
)

// Settings es el facade de master settings. El reorder manda la
// permutación completa de la categoría en un solo request: o se aplica
// entera o se revierte entera.
type Settings struct {
	svc *Service
}

// Settings retorna el facade de master settings.
func (s *Service) Settings() *Settings { return &Settings{svc: s} }

func settingsKey(category string) querycache.Key {
	return querycache.NewKey("settings", category)
}

func settingID(s *repository.MasterSetting) string { return s.ID }

// List trae los settings de una categoría, ordenados por posición.
func (s *Settings) List(ctx context.Context, category string) ([]*repository.MasterSetting, error) {
	data, err := s.svc.cache.Fetch(ctx, settingsKey(category), func(ctx context.Context) (any, error) {
		raw, err := s.svc.api.Request(ctx, http.MethodGet, "/api/settings?category="+url.QueryEscape(category), nil)
		if err != nil {
			return nil, err
		}
		return client.Decode[[]*repository.MasterSetting](raw)
	}, s.svc.settingOpts)
	if err != nil {
		return nil, err
	}
	items, _ := data.([]*repository.MasterSetting)
	return items, nil
}

// Create agrega un setting al final de su categoría, de forma optimista.
func (s *Settings) Create(ctx context.Context, setting *repository.MasterSetting) (*repository.MasterSetting, error) {
	tempID := optimistic.NewTempID()
	pendingSetting := *setting
	pendingSetting.ID = tempID

	var created *repository.MasterSetting
	_, err := s.svc.runner.Run(ctx, optimistic.Mutation{
		Key: settingsKey(setting.Category),
		Apply: func(current any) any {
			items, _ := current.([]*repository.MasterSetting)
			pendingSetting.Position = len(items)
			out := make([]*repository.MasterSetting, 0, len(items)+1)
			out = append(out, items...)
			return append(out, &pendingSetting)
		},
		Send: func(ctx context.Context) (any, error) {
			raw, err := s.svc.api.Request(ctx, http.MethodPost, "/api/settings", setting)
			if err != nil {
				return nil, err
			}
			c, err := client.Decode[*repository.MasterSetting](raw)
			if err != nil {
				return nil, err
			}
			created = c
			return c, nil
		},
		Commit: func(current, resp any) any {
			items, _ := current.([]*repository.MasterSetting)
			return optimistic.ReplaceRecord(items, tempID, resp.(*repository.MasterSetting), settingID)
		},
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// Update modifica label, value o active de un setting, de forma
// optimista.
func (s *Settings) Update(ctx context.Context, setting *repository.MasterSetting) error {
	_, err := s.svc.runner.Run(ctx, optimistic.Mutation{
		Key: settingsKey(setting.Category),
		Apply: func(current any) any {
			items, _ := current.([]*repository.MasterSetting)
			out := make([]*repository.MasterSetting, len(items))
			for i, it := range items {
				if it.ID == setting.ID {
					out[i] = setting
					continue
				}
				out[i] = it
			}
			return out
		},
		Send: func(ctx context.Context) (any, error) {
			return s.svc.api.Request(ctx, http.MethodPut, "/api/settings/"+setting.ID, setting)
		},
	})
	return err
}

// Delete elimina un setting de forma optimista.
func (s *Settings) Delete(ctx context.Context, category, id string) error {
	_, err := s.svc.runner.Run(ctx, optimistic.Mutation{
		Key: settingsKey(category),
		Apply: func(current any) any {
			items, _ := current.([]*repository.MasterSetting)
			return optimistic.RemoveID(items, id, settingID)
		},
		Send: func(ctx context.Context) (any, error) {
			return s.svc.api.Request(ctx, http.MethodDelete, "/api/settings/"+id, nil)
		},
	})
	return err
}

type reorderRequest struct {
	Category  string                       `json:"category"`
	Positions []repository.SettingPosition `json:"positions"`
}

// Reorder mueve el setting en la posición from a la posición to dentro
// de su categoría. El request lleva la permutación completa resultante;
// si el servidor rechaza, el orden previo se restaura entero.
func (s *Settings) Reorder(ctx context.Context, category string, from, to int) error {
	items, err := s.List(ctx, category)
	if err != nil {
		return err
	}
	if from < 0 || from >= len(items) || to < 0 || to >= len(items) {
		return fmt.Errorf("records: reorder fuera de rango (%d→%d de %d)", from, to, len(items))
	}

	reordered := optimistic.MoveItem(items, from, to)
	renumbered := make([]*repository.MasterSetting, len(reordered))
	positions := make([]repository.SettingPosition, len(reordered))
	for i, it := range reordered {
		cp := *it
		cp.Position = i
		renumbered[i] = &cp
		positions[i] = repository.SettingPosition{ID: cp.ID, Position: i}
	}

	_, err = s.svc.runner.Run(ctx, optimistic.Mutation{
		Key: settingsKey(category),
		Apply: func(current any) any {
			return renumbered
		},
		Send: func(ctx context.Context) (any, error) {
			return s.svc.api.Request(ctx, http.MethodPut, "/api/settings/reorder", reorderRequest{
				Category:  category,
				Positions: positions,
			})
		},
	})
	return err
}
