// Package records expone los facades tipados por dominio sobre el
// cliente HTTP, el querycache y el runner de mutaciones optimistas.
// Cada dominio construye sus keys con su propio constructor, así dos
// dominios nunca comparten una tupla por accidente.
package records

import (
	"net/url"
	"time"

	"go.uber.org/zap"

	"github.com/bscode-watanabejun/nasreco/internal/client"
	"github.com/bscode-watanabejun/nasreco/internal/domain/repository"
	"github.com/bscode-watanabejun/nasreco/internal/observability/logger"
	"github.com/bscode-watanabejun/nasreco/internal/optimistic"
	"github.com/bscode-watanabejun/nasreco/internal/querycache"
)

// Service agrupa las dependencias compartidas por todos los facades.
type Service struct {
	api     *client.Client
	cache   *querycache.Cache
	runner  *optimistic.Runner
	pending *optimistic.PendingEdits
	log     *zap.Logger

	// Opciones de cache por familia. Los listados diarios cambian
	// durante el turno: siempre stale, revalidan al montar y al
	// reconectar. Residentes y settings cambian poco; settings solo
	// muta por esta misma capa, así que la invalidación explícita
	// alcanza y el staleTime es infinito.
	recordOpts    querycache.Options
	residentOpts  querycache.Options
	settingOpts   querycache.Options
	commOpts      querycache.Options

	vitals      *Facade[repository.VitalRecord]
	meals       *Facade[repository.MealRecord]
	medications *Facade[repository.MedicationRecord]
	excretions  *Facade[repository.ExcretionRecord]
	bathings    *Facade[repository.BathingRecord]
	careNotes   *Facade[repository.CareNote]
}

// New construye el Service. notifier puede ser nil.
func New(api *client.Client, cache *querycache.Cache, notifier optimistic.Notifier) *Service {
	s := &Service{
		api:     api,
		cache:   cache,
		runner:  optimistic.NewRunner(cache, notifier),
		pending: optimistic.NewPendingEdits(),
		log:     logger.Named("records"),
		recordOpts: querycache.Options{
			StaleTime:          0,
			RefetchOnMount:     true,
			RefetchOnReconnect: true,
		},
		residentOpts: querycache.Options{
			StaleTime:      5 * time.Minute,
			RefetchOnMount: true,
		},
		settingOpts: querycache.Options{
			StaleTime: querycache.Forever,
		},
		commOpts: querycache.Options{
			StaleTime:          0,
			RefetchOnMount:     true,
			RefetchOnFocus:     true,
			RefetchOnReconnect: true,
		},
	}
	s.vitals = newFacade(s, "vitals", "/api/vitals",
		func(v *repository.VitalRecord) string { return v.ID },
		func(v *repository.VitalRecord, id string) *repository.VitalRecord { out := *v; out.ID = id; return &out })
	s.meals = newFacade(s, "meals", "/api/meals",
		func(m *repository.MealRecord) string { return m.ID },
		func(m *repository.MealRecord, id string) *repository.MealRecord { out := *m; out.ID = id; return &out })
	s.medications = newFacade(s, "medications", "/api/medications",
		func(m *repository.MedicationRecord) string { return m.ID },
		func(m *repository.MedicationRecord, id string) *repository.MedicationRecord {
			out := *m
			out.ID = id
			return &out
		})
	s.excretions = newFacade(s, "excretions", "/api/excretions",
		func(e *repository.ExcretionRecord) string { return e.ID },
		func(e *repository.ExcretionRecord, id string) *repository.ExcretionRecord { out := *e; out.ID = id; return &out })
	s.bathings = newFacade(s, "bathings", "/api/bathings",
		func(b *repository.BathingRecord) string { return b.ID },
		func(b *repository.BathingRecord, id string) *repository.BathingRecord { out := *b; out.ID = id; return &out })
	s.careNotes = newFacade(s, "care-notes", "/api/care-notes",
		func(n *repository.CareNote) string { return n.ID },
		func(n *repository.CareNote, id string) *repository.CareNote { out := *n; out.ID = id; return &out })
	return s
}

// Vitals retorna el facade de signos vitales.
func (s *Service) Vitals() *Facade[repository.VitalRecord] { return s.vitals }

// Meals retorna el facade de comidas.
func (s *Service) Meals() *Facade[repository.MealRecord] { return s.meals }

// Medications retorna el facade de medicación.
func (s *Service) Medications() *Facade[repository.MedicationRecord] { return s.medications }

// Excretions retorna el facade de excreciones.
func (s *Service) Excretions() *Facade[repository.ExcretionRecord] { return s.excretions }

// Bathings retorna el facade de baños.
func (s *Service) Bathings() *Facade[repository.BathingRecord] { return s.bathings }

// CareNotes retorna el facade de notas de cuidado.
func (s *Service) CareNotes() *Facade[repository.CareNote] { return s.careNotes }

// Cache expone el cache compartido (eventos de ciclo de vida de la UI).
func (s *Service) Cache() *querycache.Cache { return s.cache }

// recordQuery arma el query string de un RecordFilter.
func recordQuery(f repository.RecordFilter) string {
	q := url.Values{}
	if f.Date != "" {
		q.Set("date", f.Date)
	}
	if f.ResidentID != "" {
		q.Set("residentId", f.ResidentID)
	}
	if f.Floor != "" {
		q.Set("floor", f.Floor)
	}
	if len(q) == 0 {
		return ""
	}
	return "?" + q.Encode()
}
