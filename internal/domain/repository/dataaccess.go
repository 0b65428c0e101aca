package repository

import "context"

// DataAccess agrupa todos los repositorios. Los adapters de internal/store
// implementan esta interfaz completa.
type DataAccess interface {
	TenantRepository
	StaffRepository
	ResidentRepository
	VitalRepository
	MealRepository
	MedicationRepository
	ExcretionRepository
	BathingRepository
	CareNoteRepository
	CommunicationRepository
	SettingRepository

	// Ping verifica la conexión al backend de datos.
	Ping(ctx context.Context) error

	// Close libera recursos (pools, conexiones).
	Close() error
}
