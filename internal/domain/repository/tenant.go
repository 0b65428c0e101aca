package repository

import (
	"context"
	"time"
)

// Tenant representa una instalación (facility) aislada. Los residentes y
// registros pertenecen exactamente a un tenant; la ausencia de tenant es el
// entorno host/administrativo donde se gestionan los tenants mismos.
type Tenant struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Staff representa a un miembro del personal de un tenant.
type Staff struct {
	ID           string     `json:"id"`
	TenantID     string     `json:"tenantId"`
	Email        string     `json:"email"`
	Name         string     `json:"name"`
	Role         StaffRole  `json:"role"`
	Floor        string     `json:"floor,omitempty"`
	PasswordHash string     `json:"-"`
	Active       bool       `json:"active"`
	CreatedAt    time.Time  `json:"createdAt"`
	DisabledAt   *time.Time `json:"disabledAt,omitempty"`
}

// StaffRole es el rol de un miembro del personal.
type StaffRole string

const (
	RoleStaff StaffRole = "staff"
	RoleAdmin StaffRole = "admin"
)

// IsValid retorna true si el rol es conocido.
func (r StaffRole) IsValid() bool {
	return r == RoleStaff || r == RoleAdmin
}

// TenantRepository gestiona tenants (solo scope host).
type TenantRepository interface {
	CreateTenant(ctx context.Context, t *Tenant) error
	GetTenant(ctx context.Context, id string) (*Tenant, error)
	ListTenants(ctx context.Context) ([]*Tenant, error)
	UpdateTenant(ctx context.Context, t *Tenant) error
	DeleteTenant(ctx context.Context, id string) error
}

// StaffRepository gestiona el personal de un tenant.
type StaffRepository interface {
	CreateStaff(ctx context.Context, s *Staff) error
	GetStaff(ctx context.Context, tenantID, id string) (*Staff, error)
	GetStaffByEmail(ctx context.Context, tenantID, email string) (*Staff, error)
	ListStaff(ctx context.Context, tenantID string) ([]*Staff, error)
	UpdateStaff(ctx context.Context, s *Staff) error
	DeleteStaff(ctx context.Context, tenantID, id string) error
}
