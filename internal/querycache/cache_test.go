package querycache

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestKeyPrefix(t *testing.T) {
	k := NewKey("vitals", "2026-08-31", "r1")
	require.True(t, k.HasPrefix(NewKey("vitals")))
	require.True(t, k.HasPrefix(NewKey("vitals", "2026-08-31")))
	require.False(t, k.HasPrefix(NewKey("meals")))
	require.False(t, k.HasPrefix(NewKey("vitals", "2026-08-31", "r1", "extra")))
}

func TestFetchMissPopulatesAndFreshHitSkipsNetwork(t *testing.T) {
	c := New(Options{})
	var calls atomic.Int32
	fetch := func(ctx context.Context) (any, error) {
		calls.Add(1)
		return []string{"a"}, nil
	}
	opts := Options{StaleTime: time.Minute}

	key := NewKey("vitals", "2026-08-31")
	got, err := c.Fetch(context.Background(), key, fetch, opts)
	require.NoError(t, err)
	require.Equal(t, []string{"a"}, got)
	require.Equal(t, int32(1), calls.Load())

	// Dentro de la ventana de frescura no hay segundo request.
	got, err = c.Fetch(context.Background(), key, fetch, opts)
	require.NoError(t, err)
	require.Equal(t, []string{"a"}, got)
	require.Equal(t, int32(1), calls.Load())
}

func TestFetchStaleServesCachedAndRevalidates(t *testing.T) {
	c := New(Options{})
	var calls atomic.Int32
	done := make(chan struct{}, 1)
	fetch := func(ctx context.Context) (any, error) {
		n := calls.Add(1)
		if n > 1 {
			defer func() { done <- struct{}{} }()
			return []string{"nuevo"}, nil
		}
		return []string{"viejo"}, nil
	}
	// StaleTime 0: siempre stale.
	opts := Options{StaleTime: 0, RefetchOnMount: true}

	key := NewKey("meals", "2026-08-31")
	_, err := c.Fetch(context.Background(), key, fetch, opts)
	require.NoError(t, err)

	// Hit stale: retorna lo cacheado de inmediato y revalida atrás.
	got, err := c.Fetch(context.Background(), key, fetch, opts)
	require.NoError(t, err)
	require.Equal(t, []string{"viejo"}, got)

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("la revalidación en background no corrió")
	}
	e, ok := c.Get(key)
	require.True(t, ok)
	require.Equal(t, []string{"nuevo"}, e.Data)
}

func TestFetchStaleWithoutRefetchOnMount(t *testing.T) {
	c := New(Options{})
	var calls atomic.Int32
	fetch := func(ctx context.Context) (any, error) {
		calls.Add(1)
		return "v", nil
	}
	opts := Options{StaleTime: 0, RefetchOnMount: false}

	key := NewKey("settings", "floor")
	_, err := c.Fetch(context.Background(), key, fetch, opts)
	require.NoError(t, err)
	_, err = c.Fetch(context.Background(), key, fetch, opts)
	require.NoError(t, err)

	time.Sleep(50 * time.Millisecond)
	require.Equal(t, int32(1), calls.Load(), "el acceso stale no debe revalidar con RefetchOnMount apagado")
}

func TestFetchForeverNeverStale(t *testing.T) {
	c := New(Options{})
	var calls atomic.Int32
	fetch := func(ctx context.Context) (any, error) {
		calls.Add(1)
		return "v", nil
	}
	opts := Options{StaleTime: Forever, RefetchOnMount: true}

	key := NewKey("settings", "timing")
	for i := 0; i < 3; i++ {
		_, err := c.Fetch(context.Background(), key, fetch, opts)
		require.NoError(t, err)
	}
	require.Equal(t, int32(1), calls.Load())
}

func TestConcurrentFetchDeduplicated(t *testing.T) {
	c := New(Options{})
	var calls atomic.Int32
	release := make(chan struct{})
	fetch := func(ctx context.Context) (any, error) {
		calls.Add(1)
		<-release
		return "v", nil
	}
	opts := Options{StaleTime: time.Minute}
	key := NewKey("vitals", "2026-08-31")

	var wg sync.WaitGroup
	results := make([]any, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			got, err := c.Fetch(context.Background(), key, fetch, opts)
			require.NoError(t, err)
			results[i] = got
		}(i)
	}

	// Dar tiempo a que ambos lleguen al singleflight antes de liberar.
	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	require.Equal(t, int32(1), calls.Load(), "dos fetch concurrentes comparten un request")
	require.Equal(t, "v", results[0])
	require.Equal(t, "v", results[1])
}

func TestFetchErrorNotCached(t *testing.T) {
	c := New(Options{})
	var calls atomic.Int32
	fetch := func(ctx context.Context) (any, error) {
		calls.Add(1)
		return nil, context.DeadlineExceeded
	}
	opts := Options{StaleTime: time.Minute}
	key := NewKey("vitals", "2026-08-31")

	_, err := c.Fetch(context.Background(), key, fetch, opts)
	require.Error(t, err)
	_, ok := c.Get(key)
	require.False(t, ok, "un fetch fallido no deja entrada")

	// Sin retry automático; el próximo acceso vuelve a intentar.
	_, err = c.Fetch(context.Background(), key, fetch, opts)
	require.Error(t, err)
	require.Equal(t, int32(2), calls.Load())
}

func TestUpdateReadModifyWrite(t *testing.T) {
	c := New(Options{StaleTime: time.Minute})
	key := NewKey("rows")

	prev, existed := c.Update(key, func(current any) any {
		require.Nil(t, current)
		return []string{"a"}
	})
	require.Nil(t, prev)
	require.False(t, existed)

	prev, existed = c.Update(key, func(current any) any {
		return append(append([]string{}, current.([]string)...), "b")
	})
	require.True(t, existed)
	require.Equal(t, []string{"a"}, prev, "retorna el dato previo al cambio")

	e, ok := c.Get(key)
	require.True(t, ok)
	require.Equal(t, []string{"a", "b"}, e.Data, "el segundo Update ve lo que escribió el primero")
}

func TestUpdatePreservesEntryOptions(t *testing.T) {
	c := New(Options{})
	key := NewKey("settings", "timing")
	_, err := c.Fetch(context.Background(), key, func(ctx context.Context) (any, error) {
		return "v", nil
	}, Options{StaleTime: Forever})
	require.NoError(t, err)

	c.Update(key, func(current any) any { return "w" })

	e, ok := c.Get(key)
	require.True(t, ok)
	require.Equal(t, "w", e.Data)
	require.False(t, e.Stale(time.Now()), "las opciones de la entrada sobreviven al Update")
}

func TestInvalidatePrefix(t *testing.T) {
	c := New(Options{StaleTime: time.Minute})
	c.Set(NewKey("vitals", "2026-08-31"), "a")
	c.Set(NewKey("vitals", "2026-09-01"), "b")
	c.Set(NewKey("meals", "2026-08-31"), "c")

	c.Invalidate(NewKey("vitals"))

	for _, k := range []Key{NewKey("vitals", "2026-08-31"), NewKey("vitals", "2026-09-01")} {
		e, ok := c.Get(k)
		require.True(t, ok)
		require.True(t, e.Stale(time.Now()))
	}
	e, ok := c.Get(NewKey("meals", "2026-08-31"))
	require.True(t, ok)
	require.False(t, e.Stale(time.Now()), "otras keys no se invalidan")
}

func TestGCTimeEvicts(t *testing.T) {
	c := New(Options{})
	key := NewKey("vitals", "2026-08-31")
	_, err := c.Fetch(context.Background(), key, func(ctx context.Context) (any, error) {
		return "v", nil
	}, Options{StaleTime: Forever, GCTime: 20 * time.Millisecond})
	require.NoError(t, err)

	_, ok := c.Get(key)
	require.True(t, ok)

	time.Sleep(60 * time.Millisecond)
	_, ok = c.Get(key)
	require.False(t, ok, "una entrada no observada se evicta tras gcTime")
}

func TestNotifyFocusMarksConfiguredEntriesStale(t *testing.T) {
	c := New(Options{})
	withFocus := Options{StaleTime: Forever, RefetchOnFocus: true}
	without := Options{StaleTime: Forever}

	k1 := NewKey("communications", "all")
	k2 := NewKey("settings", "floor")
	var noop FetchFunc = func(ctx context.Context) (any, error) { return "v", nil }
	_, err := c.Fetch(context.Background(), k1, noop, withFocus)
	require.NoError(t, err)
	_, err = c.Fetch(context.Background(), k2, noop, without)
	require.NoError(t, err)

	c.NotifyFocus()

	e1, _ := c.Get(k1)
	require.True(t, e1.Stale(time.Now()))
	e2, _ := c.Get(k2)
	require.False(t, e2.Stale(time.Now()))
}
