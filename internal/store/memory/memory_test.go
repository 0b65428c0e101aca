package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/bscode-watanabejun/nasreco/internal/domain/repository"
)

func seedStore(t *testing.T) *Store {
	t.Helper()
	s := New()
	ctx := context.Background()
	require.NoError(t, s.CreateTenant(ctx, &repository.Tenant{ID: "acme", Name: "Acme"}))
	require.NoError(t, s.CreateTenant(ctx, &repository.Tenant{ID: "otro", Name: "Otro"}))
	require.NoError(t, s.CreateResident(ctx, &repository.Resident{
		ID: "res-1", TenantID: "acme", Name: "佐藤", Floor: "2F", Admitted: true,
	}))
	require.NoError(t, s.CreateResident(ctx, &repository.Resident{
		ID: "res-2", TenantID: "acme", Name: "鈴木", Floor: "3F", Admitted: false,
	}))
	return s
}

func TestCreateTenantRejectsDuplicates(t *testing.T) {
	s := seedStore(t)
	err := s.CreateTenant(context.Background(), &repository.Tenant{ID: "acme", Name: "Clon"})
	require.ErrorIs(t, err, repository.ErrConflict)

	err = s.CreateTenant(context.Background(), &repository.Tenant{Name: "Sin ID"})
	require.ErrorIs(t, err, repository.ErrInvalidInput)
}

func TestVitalsTenantIsolation(t *testing.T) {
	s := seedStore(t)
	ctx := context.Background()
	require.NoError(t, s.CreateVital(ctx, &repository.VitalRecord{
		ID: "v-1", TenantID: "acme", ResidentID: "res-1", RecordDate: "2026-08-31", Timing: "morning",
	}))

	_, err := s.GetVital(ctx, "otro", "v-1")
	require.ErrorIs(t, err, repository.ErrNotFound)

	items, err := s.ListVitals(ctx, "otro", repository.RecordFilter{})
	require.NoError(t, err)
	require.Empty(t, items)

	require.ErrorIs(t, s.DeleteVital(ctx, "otro", "v-1"), repository.ErrNotFound)

	got, err := s.GetVital(ctx, "acme", "v-1")
	require.NoError(t, err)
	require.Equal(t, "res-1", got.ResidentID)
}

func TestListVitalsFilters(t *testing.T) {
	s := seedStore(t)
	ctx := context.Background()
	for _, v := range []*repository.VitalRecord{
		{ID: "v-1", TenantID: "acme", ResidentID: "res-1", RecordDate: "2026-08-30", Timing: "morning"},
		{ID: "v-2", TenantID: "acme", ResidentID: "res-1", RecordDate: "2026-08-31", Timing: "noon"},
		{ID: "v-3", TenantID: "acme", ResidentID: "res-2", RecordDate: "2026-08-31", Timing: "morning"},
	} {
		require.NoError(t, s.CreateVital(ctx, v))
	}

	items, err := s.ListVitals(ctx, "acme", repository.RecordFilter{Date: "2026-08-31"})
	require.NoError(t, err)
	require.Len(t, items, 2)

	items, err = s.ListVitals(ctx, "acme", repository.RecordFilter{ResidentID: "res-1"})
	require.NoError(t, err)
	require.Len(t, items, 2)

	// El floor se resuelve vía el residente del registro.
	items, err = s.ListVitals(ctx, "acme", repository.RecordFilter{Floor: "3F"})
	require.NoError(t, err)
	require.Len(t, items, 1)
	require.Equal(t, "v-3", items[0].ID)
}

func TestListReturnsCopies(t *testing.T) {
	s := seedStore(t)
	ctx := context.Background()
	require.NoError(t, s.CreateVital(ctx, &repository.VitalRecord{
		ID: "v-1", TenantID: "acme", ResidentID: "res-1", RecordDate: "2026-08-31", Timing: "morning",
	}))

	items, err := s.ListVitals(ctx, "acme", repository.RecordFilter{})
	require.NoError(t, err)
	items[0].Notes = "mutado por el caller"

	got, err := s.GetVital(ctx, "acme", "v-1")
	require.NoError(t, err)
	require.Empty(t, got.Notes, "el estado interno no se comparte")
}

func TestUpdateVitalPreservesCreatedAt(t *testing.T) {
	s := seedStore(t)
	ctx := context.Background()
	require.NoError(t, s.CreateVital(ctx, &repository.VitalRecord{
		ID: "v-1", TenantID: "acme", ResidentID: "res-1", RecordDate: "2026-08-31", Timing: "morning",
	}))
	before, err := s.GetVital(ctx, "acme", "v-1")
	require.NoError(t, err)

	require.NoError(t, s.UpdateVital(ctx, &repository.VitalRecord{
		ID: "v-1", TenantID: "acme", ResidentID: "res-1", RecordDate: "2026-08-31",
		Timing: "morning", Notes: "estable",
	}))
	after, err := s.GetVital(ctx, "acme", "v-1")
	require.NoError(t, err)
	require.Equal(t, "estable", after.Notes)
	require.True(t, after.CreatedAt.Equal(before.CreatedAt))
}

func TestListResidentsFilters(t *testing.T) {
	s := seedStore(t)
	ctx := context.Background()

	all, err := s.ListResidents(ctx, "acme", repository.ResidentFilter{})
	require.NoError(t, err)
	require.Len(t, all, 2)

	admitted, err := s.ListResidents(ctx, "acme", repository.ResidentFilter{OnlyAdmitted: true})
	require.NoError(t, err)
	require.Len(t, admitted, 1)
	require.Equal(t, "res-1", admitted[0].ID)

	floor3, err := s.ListResidents(ctx, "acme", repository.ResidentFilter{Floor: "3F"})
	require.NoError(t, err)
	require.Len(t, floor3, 1)
	require.Equal(t, "res-2", floor3[0].ID)
}

func TestReorderSettingsAtomic(t *testing.T) {
	s := seedStore(t)
	ctx := context.Background()
	for i, id := range []string{"s-1", "s-2", "s-3"} {
		require.NoError(t, s.CreateSetting(ctx, &repository.MasterSetting{
			ID: id, TenantID: "acme", Category: "floor", Label: id, Position: i,
		}))
	}

	// Un id desconocido en el lote no deja cambios a medias.
	err := s.ReorderSettings(ctx, "acme", "floor", []repository.SettingPosition{
		{ID: "s-3", Position: 0},
		{ID: "fantasma", Position: 1},
		{ID: "s-1", Position: 2},
	})
	require.ErrorIs(t, err, repository.ErrNotFound)

	items, err := s.ListSettings(ctx, "acme", "floor")
	require.NoError(t, err)
	for i, it := range items {
		require.Equal(t, i, it.Position, "el orden previo sobrevive al reorder fallido")
	}

	require.NoError(t, s.ReorderSettings(ctx, "acme", "floor", []repository.SettingPosition{
		{ID: "s-3", Position: 0},
		{ID: "s-1", Position: 1},
		{ID: "s-2", Position: 2},
	}))
	items, err = s.ListSettings(ctx, "acme", "floor")
	require.NoError(t, err)
	require.Equal(t, "s-3", items[0].ID)
	require.Equal(t, "s-1", items[1].ID)
	require.Equal(t, "s-2", items[2].ID)
}

func TestMarkReadIdempotent(t *testing.T) {
	s := seedStore(t)
	ctx := context.Background()
	require.NoError(t, s.CreateCommunication(ctx, &repository.Communication{
		ID: "c-1", TenantID: "acme", Title: "aviso", Content: "contenido", AuthorID: "stf-1",
	}))

	require.NoError(t, s.MarkRead(ctx, "acme", "c-1", "stf-1"))
	reads, err := s.ListReads(ctx, "acme", "c-1")
	require.NoError(t, err)
	require.Len(t, reads, 1)
	first := reads[0].ReadAt

	require.NoError(t, s.MarkRead(ctx, "acme", "c-1", "stf-1"))
	reads, err = s.ListReads(ctx, "acme", "c-1")
	require.NoError(t, err)
	require.Len(t, reads, 1)
	require.True(t, reads[0].ReadAt.Equal(first), "repetir conserva el primer readAt")

	require.NoError(t, s.MarkUnread(ctx, "acme", "c-1", "stf-1"))
	reads, err = s.ListReads(ctx, "acme", "c-1")
	require.NoError(t, err)
	require.Empty(t, reads)

	require.ErrorIs(t, s.MarkRead(ctx, "otro", "c-1", "stf-1"), repository.ErrNotFound)
}

func TestListCommunicationsFloorFilter(t *testing.T) {
	s := seedStore(t)
	ctx := context.Background()
	for _, c := range []*repository.Communication{
		{ID: "c-1", TenantID: "acme", Title: "general", Content: "x"},
		{ID: "c-2", TenantID: "acme", Title: "solo 2F", Content: "x", Floor: "2F"},
		{ID: "c-3", TenantID: "acme", Title: "solo 3F", Content: "x", Floor: "3F", Important: true},
	} {
		require.NoError(t, s.CreateCommunication(ctx, c))
	}

	// Floor filtra, pero los avisos sin planta llegan a todas.
	items, err := s.ListCommunications(ctx, "acme", repository.CommunicationFilter{Floor: "2F"})
	require.NoError(t, err)
	require.Len(t, items, 2)

	items, err = s.ListCommunications(ctx, "acme", repository.CommunicationFilter{OnlyImportant: true})
	require.NoError(t, err)
	require.Len(t, items, 1)
	require.Equal(t, "c-3", items[0].ID)
}
