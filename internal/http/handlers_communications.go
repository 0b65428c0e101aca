package http

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/bscode-watanabejun/nasreco/internal/domain/repository"
	"github.com/bscode-watanabejun/nasreco/internal/observability/logger"
)

func (s *Server) handleListCommunications(w http.ResponseWriter, r *http.Request) {
	f := repository.CommunicationFilter{
		Floor:         r.URL.Query().Get("floor"),
		OnlyImportant: r.URL.Query().Get("important") == "true",
	}
	items, err := s.db.ListCommunications(r.Context(), TenantFromContext(r.Context()), f)
	if err != nil {
		WriteRepoError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, items)
}

func (s *Server) handleCreateCommunication(w http.ResponseWriter, r *http.Request) {
	var c repository.Communication
	if !ReadJSON(w, r, &c) {
		return
	}
	var fields []fieldError
	if strings.TrimSpace(c.Title) == "" {
		fields = append(fields, fieldError{Field: "title", Message: "requerido"})
	}
	if strings.TrimSpace(c.Content) == "" {
		fields = append(fields, fieldError{Field: "content", Message: "requerido"})
	}
	if len(fields) > 0 {
		WriteFieldErrors(w, "comunicación inválida", fields)
		return
	}

	sess := SessionFromContext(r.Context())
	c.ID = uuid.NewString()
	c.TenantID = TenantFromContext(r.Context())
	c.AuthorID = sess.StaffID
	c.CreatedAt = time.Now()
	c.UpdatedAt = c.CreatedAt

	if err := s.db.CreateCommunication(r.Context(), &c); err != nil {
		WriteRepoError(w, err)
		return
	}

	if s.notifier != nil && s.cfg.Notify.CommunicationEmails {
		go s.notifyCommunication(&c)
	}
	WriteJSON(w, http.StatusCreated, c)
}

// notifyCommunication resuelve los destinatarios y dispara los emails
// fuera del ciclo del request.
func (s *Server) notifyCommunication(c *repository.Communication) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	recipients, err := s.db.ListStaff(ctx, c.TenantID)
	if err != nil {
		s.log.Warn("no se pudieron resolver destinatarios",
			logger.TenantID(c.TenantID), logger.Err(err))
		return
	}
	if c.Floor != "" {
		filtered := recipients[:0]
		for _, st := range recipients {
			if st.Floor == "" || st.Floor == c.Floor {
				filtered = append(filtered, st)
			}
		}
		recipients = filtered
	}
	s.notifier.CommunicationPublished(ctx, c, recipients)
}

func (s *Server) handleDeleteCommunication(w http.ResponseWriter, r *http.Request) {
	tenantID := TenantFromContext(r.Context())
	if err := s.db.DeleteCommunication(r.Context(), tenantID, chi.URLParam(r, "id")); err != nil {
		WriteRepoError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleListReads(w http.ResponseWriter, r *http.Request) {
	reads, err := s.db.ListReads(r.Context(), TenantFromContext(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		WriteRepoError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, reads)
}

func (s *Server) handleMarkRead(w http.ResponseWriter, r *http.Request) {
	sess := SessionFromContext(r.Context())
	err := s.db.MarkRead(r.Context(), TenantFromContext(r.Context()), chi.URLParam(r, "id"), sess.StaffID)
	if err != nil {
		WriteRepoError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleMarkUnread(w http.ResponseWriter, r *http.Request) {
	sess := SessionFromContext(r.Context())
	err := s.db.MarkUnread(r.Context(), TenantFromContext(r.Context()), chi.URLParam(r, "id"), sess.StaffID)
	if err != nil {
		WriteRepoError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
