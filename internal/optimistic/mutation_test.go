package optimistic

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/bscode-watanabejun/nasreco/internal/querycache"
)

type row struct {
	ID   string
	Note string
}

func rowID(r *row) string { return r.ID }

func seedCache(t *testing.T, data []*row) (*querycache.Cache, querycache.Key) {
	t.Helper()
	c := querycache.New(querycache.Options{StaleTime: time.Minute})
	key := querycache.NewKey("rows", "2026-08-31")
	c.Set(key, data)
	return c, key
}

func TestRunCommitReconciles(t *testing.T) {
	initial := []*row{{ID: "a", Note: "uno"}}
	c, key := seedCache(t, initial)
	r := NewRunner(c, nil)

	tempID := NewTempID()
	server := &row{ID: "real-1", Note: "dos"}
	res, err := r.Run(context.Background(), Mutation{
		Key: key,
		Apply: func(current any) any {
			rows, _ := current.([]*row)
			out := make([]*row, len(rows), len(rows)+1)
			copy(out, rows)
			return append(out, &row{ID: tempID, Note: "dos"})
		},
		Send: func(ctx context.Context) (any, error) { return server, nil },
		Commit: func(optimistic, response any) any {
			return ReplaceRecord(optimistic.([]*row), tempID, response.(*row), rowID)
		},
	})
	require.NoError(t, err)
	require.Equal(t, StateCommitted, res.State)
	require.Equal(t, server, res.Response)

	e, ok := c.Get(key)
	require.True(t, ok)
	got := e.Data.([]*row)
	require.Len(t, got, 2)
	require.Equal(t, "real-1", got[1].ID, "el id temporal se reemplaza por el del servidor")
	require.True(t, e.Stale(time.Now()), "la key queda invalidada tras el commit")
}

func TestRunRollbackRestoresSnapshotVerbatim(t *testing.T) {
	initial := []*row{{ID: "a", Note: "uno"}, {ID: "b", Note: "dos"}}
	c, key := seedCache(t, initial)

	var notified querycache.Key
	var notifiedErr error
	r := NewRunner(c, NotifierFunc(func(k querycache.Key, err error) {
		notified, notifiedErr = k, err
	}))

	sendErr := errors.New("500: Internal Server Error")
	applied := false
	res, err := r.Run(context.Background(), Mutation{
		Key: key,
		Apply: func(current any) any {
			applied = true
			rows := current.([]*row)
			return append(append([]*row{}, rows...), &row{ID: NewTempID()})
		},
		Send: func(ctx context.Context) (any, error) { return nil, sendErr },
	})
	require.ErrorIs(t, err, sendErr)
	require.Equal(t, StateRolledBack, res.State)
	require.True(t, applied)

	e, ok := c.Get(key)
	require.True(t, ok)
	got := e.Data.([]*row)
	require.Len(t, got, 2)
	// Misma colección, no una reconstrucción equivalente.
	require.Same(t, initial[0], got[0])
	require.Same(t, initial[1], got[1])

	require.Equal(t, key, notified)
	require.ErrorIs(t, notifiedErr, sendErr)
}

func TestRunRollbackWithoutPriorEntry(t *testing.T) {
	c := querycache.New(querycache.Options{StaleTime: time.Minute})
	key := querycache.NewKey("rows", "vacío")
	r := NewRunner(c, nil)

	_, err := r.Run(context.Background(), Mutation{
		Key:   key,
		Apply: func(current any) any { return []*row{{ID: NewTempID()}} },
		Send:  func(ctx context.Context) (any, error) { return nil, errors.New("boom") },
	})
	require.Error(t, err)

	e, ok := c.Get(key)
	require.True(t, ok)
	require.Nil(t, e.Data)
	require.True(t, e.Stale(time.Now()), "sin snapshot previo la key queda invalidada")
}

func TestRunNilCommitInvalidatesOnly(t *testing.T) {
	initial := []*row{{ID: "a"}}
	c, key := seedCache(t, initial)
	r := NewRunner(c, nil)

	optimistic := []*row{}
	res, err := r.Run(context.Background(), Mutation{
		Key:   key,
		Apply: func(current any) any { return optimistic },
		Send:  func(ctx context.Context) (any, error) { return nil, nil },
	})
	require.NoError(t, err)
	require.Equal(t, StateCommitted, res.State)

	e, ok := c.Get(key)
	require.True(t, ok)
	require.Equal(t, optimistic, e.Data.([]*row), "sin Commit la versión optimista se conserva")
	require.True(t, e.Stale(time.Now()))
}

func TestConcurrentRunsPreserveBothEdits(t *testing.T) {
	c, key := seedCache(t, []*row{{ID: "base"}})
	r := NewRunner(c, nil)

	appendRun := func(id string, release <-chan struct{}) <-chan error {
		done := make(chan error, 1)
		go func() {
			_, err := r.Run(context.Background(), Mutation{
				Key: key,
				Apply: func(current any) any {
					rows, _ := current.([]*row)
					return append(append([]*row{}, rows...), &row{ID: id})
				},
				Send: func(ctx context.Context) (any, error) {
					<-release
					return nil, nil
				},
			})
			done <- err
		}()
		return done
	}

	rowIDs := func() map[string]bool {
		e, ok := c.Get(key)
		require.True(t, ok)
		ids := make(map[string]bool)
		for _, it := range e.Data.([]*row) {
			ids[it.ID] = true
		}
		return ids
	}

	releaseA := make(chan struct{})
	releaseB := make(chan struct{})
	doneA := appendRun("r1", releaseA)

	// Esperar a que la mutación A haya aplicado su versión optimista
	// antes de lanzar B; B tiene que aplicar encima, no en paralelo
	// contra el estado previo.
	require.Eventually(t, func() bool { return rowIDs()["r1"] }, 2*time.Second, time.Millisecond)
	doneB := appendRun("r2", releaseB)
	require.Eventually(t, func() bool { return rowIDs()["r2"] }, 2*time.Second, time.Millisecond)

	// Con ambas en vuelo, las dos filas optimistas conviven.
	ids := rowIDs()
	require.True(t, ids["r1"] && ids["r2"], "las ediciones en vuelo no se pisan")

	close(releaseA)
	require.NoError(t, <-doneA)
	close(releaseB)
	require.NoError(t, <-doneB)

	ids = rowIDs()
	require.True(t, ids["base"] && ids["r1"] && ids["r2"],
		"ambas mutaciones quedan visibles tras confirmar")
}

func TestRunRejectsIncompleteMutation(t *testing.T) {
	c, key := seedCache(t, nil)
	r := NewRunner(c, nil)

	_, err := r.Run(context.Background(), Mutation{Key: key})
	require.Error(t, err)

	_, err = r.Run(context.Background(), Mutation{
		Key:  key,
		Send: func(ctx context.Context) (any, error) { return nil, nil },
	})
	require.Error(t, err)
}

func TestStateString(t *testing.T) {
	require.Equal(t, "idle", StateIdle.String())
	require.Equal(t, "pending", StatePending.String())
	require.Equal(t, "committed", StateCommitted.String())
	require.Equal(t, "rolled_back", StateRolledBack.String())
}
