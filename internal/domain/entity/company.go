package entity

import "time"

// Estados de Company.
const (
	CompanyStatusActive    = "ACTIVE"
	CompanyStatusSuspended = "SUSPENDED"
)

// Address dirección postal registrada (se embebe en Company y Customer).
type Address struct {
	Street      string
	City        string
	Zip         string
	CountryCode string // ISO 3166-1 alpha-2, ej. "CZ"
}

// Company representa una organización/tenant del sistema. El IČO es único entre
// todos los tenants. Las empresas nunca se borran físicamente.
type Company struct {
	ID            string
	ICO           string // IČO: identificador del registro mercantil checo (8 dígitos)
	LegalName     string
	LegalFormCode string // código de forma jurídica (číselník ČSÚ), ej. "112" = s.r.o.
	DefaultLocale string // ej. "cs", "en"
	Address       Address
	Status        string // ACTIVE, SUSPENDED
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
