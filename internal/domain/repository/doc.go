// Package repository define las entidades de dominio y las interfaces de
// acceso a datos. Los adapters concretos viven en internal/store
// (memory, postgres) y deben cumplir estas interfaces.
//
// Todas las operaciones son tenant-scoped: el TenantID viaja en la entidad
// y los adapters lo aplican como filtro obligatorio.
package repository
