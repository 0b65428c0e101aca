// Package querycache es el cache de colecciones del lado cliente: un
// store keyed por tuplas ordenadas con ventana de staleness, ventana de
// garbage-collection y de-duplicación de fetches concurrentes.
//
// Los reintentos están deshabilitados de forma categórica: un fetch
// fallido es terminal y la recuperación queda en manos del usuario
// (re-disparo manual), sin backoff automático.
package querycache

import (
	"context"
	"math"
	"strings"
	"sync"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"

	"github.com/bscode-watanabejun/nasreco/internal/observability/logger"
)

// Forever desactiva el refetch automático (staleTime infinito).
const Forever = time.Duration(math.MaxInt64)

// keySep separa los componentes de una key. Un separador de control evita
// colisiones entre tuplas distintas que concatenan igual.
const keySep = "\x1f"

// Key es una tupla ordenada de strings que identifica una colección
// cacheada. Los constructores tipados viven en internal/records para que
// dos dominios no puedan reutilizar la misma tupla por accidente.
type Key []string

// NewKey construye una Key.
func NewKey(parts ...string) Key { return Key(parts) }

func (k Key) String() string { return strings.Join(k, keySep) }

// HasPrefix verifica si k empieza con los componentes de prefix.
func (k Key) HasPrefix(prefix Key) bool {
	if len(prefix) > len(k) {
		return false
	}
	for i, p := range prefix {
		if k[i] != p {
			return false
		}
	}
	return true
}

// Options configura una entrada del cache.
type Options struct {
	// StaleTime: ventana tras la cual el dato es elegible para un
	// refetch en background en el próximo acceso. 0 = siempre stale,
	// Forever = nunca.
	StaleTime time.Duration

	// GCTime: ventana tras la cual una entrada no observada se evicta
	// por completo. 0 usa el default del cache.
	GCTime time.Duration

	// Gates de los eventos de ciclo de vida de la UI.
	RefetchOnFocus     bool
	RefetchOnMount     bool
	RefetchOnReconnect bool
}

// Entry es una colección cacheada con su metadata de frescura.
type Entry struct {
	Key       Key
	Data      any
	FetchedAt time.Time
	Opts      Options
}

// Stale indica si la entrada es elegible para revalidación.
func (e *Entry) Stale(now time.Time) bool {
	if e.FetchedAt.IsZero() {
		return true
	}
	switch e.Opts.StaleTime {
	case 0:
		return true
	case Forever:
		return false
	}
	return now.Sub(e.FetchedAt) > e.Opts.StaleTime
}

// FetchFunc trae la colección del servidor.
type FetchFunc func(ctx context.Context) (any, error)

// Cache es el store compartido de todo el "tab". Thread-safe; cualquier
// código puede tocar cualquier key — el aislamiento entre dominios lo
// dan los facades tipados de internal/records, no este nivel.
type Cache struct {
	mu       sync.Mutex
	store    *gocache.Cache
	sf       singleflight.Group
	defaults Options
	log      *zap.Logger
}

// DefaultGCTime aplica cuando la entrada no define GCTime.
const DefaultGCTime = 5 * time.Minute

// New crea un Cache con las opciones por defecto dadas.
func New(defaults Options) *Cache {
	if defaults.GCTime == 0 {
		defaults.GCTime = DefaultGCTime
	}
	return &Cache{
		store:    gocache.New(gocache.NoExpiration, time.Minute),
		defaults: defaults,
		log:      logger.Named("querycache"),
	}
}

func (c *Cache) gcTime(opts Options) time.Duration {
	if opts.GCTime > 0 {
		return opts.GCTime
	}
	return c.defaults.GCTime
}

// Get retorna la entrada para key, si existe. El acceso renueva la
// ventana de GC.
func (c *Cache) Get(key Key) (*Entry, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.getLocked(key)
}

func (c *Cache) getLocked(key Key) (*Entry, bool) {
	v, ok := c.store.Get(key.String())
	if !ok {
		return nil, false
	}
	e := v.(*Entry)
	c.store.Set(key.String(), e, c.gcTime(e.Opts))
	return e, true
}

// Set escribe data para key. Conserva las opciones de la entrada
// existente; una key nueva toma los defaults. FetchedAt se renueva:
// un Set cuenta como dato fresco.
func (c *Cache) Set(key Key, data any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	opts := c.defaults
	if cur, ok := c.getLocked(key); ok {
		opts = cur.Opts
	}
	c.putLocked(key, data, opts, time.Now())
}

func (c *Cache) putLocked(key Key, data any, opts Options, fetchedAt time.Time) {
	e := &Entry{Key: key, Data: data, FetchedAt: fetchedAt, Opts: opts}
	c.store.Set(key.String(), e, c.gcTime(opts))
}

// Update aplica fn sobre el dato actual de key y escribe el resultado,
// todo bajo el mismo lock: dos Update concurrentes sobre la misma key
// se serializan y el segundo ve lo que escribió el primero. Retorna el
// dato previo y si la entrada existía.
func (c *Cache) Update(key Key, fn func(current any) any) (prev any, existed bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	opts := c.defaults
	var current any
	if e, ok := c.getLocked(key); ok {
		current = e.Data
		prev = current
		opts = e.Opts
		existed = true
	}
	c.putLocked(key, fn(current), opts, time.Now())
	return prev, existed
}

// Invalidate marca stale toda entrada cuya key empiece con prefix.
// No evicta: el próximo acceso dispara el refetch.
func (c *Cache) Invalidate(prefix Key) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, e := range c.entriesLocked() {
		if e.Key.HasPrefix(prefix) {
			e.FetchedAt = time.Time{}
		}
	}
}

func (c *Cache) entriesLocked() []*Entry {
	items := c.store.Items()
	out := make([]*Entry, 0, len(items))
	for _, it := range items {
		out = append(out, it.Object.(*Entry))
	}
	return out
}

// Fetch es el read path común: hit fresco retorna directo; hit stale
// retorna el dato cacheado y dispara la revalidación en background;
// miss llama fetchFn. Dos Fetch concurrentes para la misma key comparten
// un único request (singleflight).
func (c *Cache) Fetch(ctx context.Context, key Key, fetchFn FetchFunc, opts Options) (any, error) {
	now := time.Now()

	c.mu.Lock()
	e, ok := c.getLocked(key)
	if ok && !e.Stale(now) {
		c.mu.Unlock()
		return e.Data, nil
	}
	if ok && !e.FetchedAt.IsZero() {
		// Stale con dato: stale-while-revalidate. RefetchOnMount en
		// false suprime la revalidación disparada por el acceso.
		data := e.Data
		c.mu.Unlock()
		if opts.RefetchOnMount {
			go c.revalidate(context.WithoutCancel(ctx), key, fetchFn, opts)
		}
		return data, nil
	}
	c.mu.Unlock()

	return c.doFetch(ctx, key, fetchFn, opts)
}

// doFetch ejecuta el fetch de-duplicado y persiste el resultado.
// Un solo intento: los reintentos están deshabilitados (ver el doc del
// package).
func (c *Cache) doFetch(ctx context.Context, key Key, fetchFn FetchFunc, opts Options) (any, error) {
	ks := key.String()
	data, err, _ := c.sf.Do(ks, func() (any, error) {
		data, err := fetchFn(ctx)
		if err != nil {
			return nil, err
		}
		c.mu.Lock()
		c.putLocked(key, data, opts, time.Now())
		c.mu.Unlock()
		return data, nil
	})
	if err != nil {
		return nil, err
	}
	return data, nil
}

func (c *Cache) revalidate(ctx context.Context, key Key, fetchFn FetchFunc, opts Options) {
	if _, err := c.doFetch(ctx, key, fetchFn, opts); err != nil {
		// Revalidación fallida: se conserva el dato stale, sin retry.
		c.log.Warn("revalidación falló", logger.CacheKey(key.String()), logger.Err(err))
	}
}

// NotifyFocus marca stale las entradas con RefetchOnFocus; el próximo
// acceso revalida. Análogo para NotifyReconnect.
func (c *Cache) NotifyFocus() { c.notify(func(o Options) bool { return o.RefetchOnFocus }) }

// NotifyReconnect marca stale las entradas con RefetchOnReconnect.
func (c *Cache) NotifyReconnect() { c.notify(func(o Options) bool { return o.RefetchOnReconnect }) }

func (c *Cache) notify(match func(Options) bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, e := range c.entriesLocked() {
		if match(e.Opts) {
			e.FetchedAt = time.Time{}
		}
	}
}
