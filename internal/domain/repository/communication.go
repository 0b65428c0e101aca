package repository

import (
	"context"
	"time"
)

// Communication es un aviso interno del personal (tablón de comunicaciones).
type Communication struct {
	ID        string    `json:"id"`
	TenantID  string    `json:"tenantId"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Floor     string    `json:"floor,omitempty"` // vacío = todas las plantas
	Important bool      `json:"important"`
	AuthorID  string    `json:"authorId"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// CommunicationRead marca que un miembro del personal leyó una comunicación.
type CommunicationRead struct {
	CommunicationID string    `json:"communicationId"`
	StaffID         string    `json:"staffId"`
	ReadAt          time.Time `json:"readAt"`
}

// CommunicationFilter filtra el listado de comunicaciones.
type CommunicationFilter struct {
	Floor         string
	OnlyImportant bool
}

// CommunicationRepository gestiona comunicaciones y su estado de lectura.
type CommunicationRepository interface {
	CreateCommunication(ctx context.Context, c *Communication) error
	GetCommunication(ctx context.Context, tenantID, id string) (*Communication, error)
	ListCommunications(ctx context.Context, tenantID string, f CommunicationFilter) ([]*Communication, error)
	UpdateCommunication(ctx context.Context, c *Communication) error
	DeleteCommunication(ctx context.Context, tenantID, id string) error

	// MarkRead es idempotente: marcar dos veces no es error.
	MarkRead(ctx context.Context, tenantID, communicationID, staffID string) error
	MarkUnread(ctx context.Context, tenantID, communicationID, staffID string) error
	ListReads(ctx context.Context, tenantID, communicationID string) ([]*CommunicationRead, error)
}
