package entity

import "time"

// Estados de Project.
const (
	ProjectStatusActive   = "ACTIVE"
	ProjectStatusArchived = "ARCHIVED"
)

// ValidProjectStatus indica si el estado de proyecto es conocido.
func ValidProjectStatus(s string) bool {
	return s == ProjectStatusActive || s == ProjectStatusArchived
}

// Project representa una obra/proyecto de construcción de la empresa.
// El código es único por empresa.
type Project struct {
	ID        string
	CompanyID string
	Code      string // ej. "OBRA-2026-01"
	ManagerID string // user id del jefe de obra
	Status    string // ACTIVE, ARCHIVED
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ProjectTranslation nombre y descripción del proyecto por locale.
// (ProjectID, Locale) es único; se hace upsert por locale.
type ProjectTranslation struct {
	ProjectID   string
	Locale      string // ej. "cs", "en"
	Name        string
	Description string
}
