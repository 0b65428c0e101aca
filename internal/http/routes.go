package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// routes arma el router. El mismo árbol /api se monta también bajo
// /tenant/{tenantID}: el prefijo de ruta es la forma canónica de fijar
// el tenant desde un link compartido, y WithTenant ya lo resuelve antes
// de llegar acá.
func (s *Server) routes() http.Handler {
	r := chi.NewRouter()

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Get("/readyz", s.handleReadyz)
	if s.metrics != nil {
		r.Handle("/metrics", s.metrics)
	}

	r.Mount("/api", s.apiRouter())
	r.Route("/tenant/{tenantID}", func(r chi.Router) {
		r.Mount("/api", s.apiRouter())
	})

	return r
}

func (s *Server) apiRouter() http.Handler {
	r := chi.NewRouter()

	// Sin sesión: login y alta de tenants (token de management).
	r.Post("/auth/login", s.handleLogin)

	r.Route("/tenants", func(r chi.Router) {
		r.Use(s.withManagementAuth)
		r.Get("/", s.handleListTenants)
		r.Post("/", s.handleCreateTenant)
		r.Get("/{id}", s.handleGetTenant)
		r.Put("/{id}", s.handleUpdateTenant)
		r.Delete("/{id}", s.handleDeleteTenant)
	})

	// Todo lo demás exige sesión y tenant.
	r.Group(func(r chi.Router) {
		r.Use(WithAuth(s.sessions))
		r.Use(RequireTenant)

		r.Post("/auth/logout", s.handleLogout)
		r.Get("/auth/me", s.handleMe)

		r.Route("/staff", func(r chi.Router) {
			r.Get("/", s.handleListStaff)
			r.Group(func(r chi.Router) {
				r.Use(RequireAdmin)
				r.Post("/", s.handleCreateStaff)
				r.Put("/{id}", s.handleUpdateStaff)
				r.Delete("/{id}", s.handleDeleteStaff)
			})
		})

		r.Route("/residents", func(r chi.Router) {
			r.Get("/", s.handleListResidents)
			r.Post("/", s.handleCreateResident)
			r.Get("/{id}", s.handleGetResident)
			r.Put("/{id}", s.handleUpdateResident)
			r.Delete("/{id}", s.handleDeleteResident)
		})

		mountRecordRoutes(r, "/vitals", s.vitalOps())
		mountRecordRoutes(r, "/meals", s.mealOps())
		mountRecordRoutes(r, "/medications", s.medicationOps())
		mountRecordRoutes(r, "/excretions", s.excretionOps())
		mountRecordRoutes(r, "/bathings", s.bathingOps())
		mountRecordRoutes(r, "/care-notes", s.careNoteOps())

		r.Route("/communications", func(r chi.Router) {
			r.Get("/", s.handleListCommunications)
			r.Post("/", s.handleCreateCommunication)
			r.Delete("/{id}", s.handleDeleteCommunication)
			r.Get("/{id}/reads", s.handleListReads)
			r.Post("/{id}/read", s.handleMarkRead)
			r.Delete("/{id}/read", s.handleMarkUnread)
		})

		r.Route("/settings", func(r chi.Router) {
			r.Get("/", s.handleListSettings)
			r.Group(func(r chi.Router) {
				r.Use(RequireAdmin)
				r.Post("/", s.handleCreateSetting)
				r.Put("/reorder", s.handleReorderSettings)
				r.Put("/{id}", s.handleUpdateSetting)
				r.Delete("/{id}", s.handleDeleteSetting)
			})
		})
	})

	return r
}

func (s *Server) handleReadyz(w http.ResponseWriter, r *http.Request) {
	if err := s.db.Ping(r.Context()); err != nil {
		WriteError(w, http.StatusServiceUnavailable, "backend de datos no disponible")
		return
	}
	WriteJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}
