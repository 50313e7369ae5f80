package dto

import "time"

// AddressDTO dirección postal en requests y responses.
type AddressDTO struct {
	Street      string `json:"street"`
	City        string `json:"city"`
	Zip         string `json:"zip"`
	CountryCode string `json:"country_code"`
}

// RegisterCompanyRequest body para POST /api/v1/companies/register.
// Crea la empresa, el usuario inicial y su membresía OWNER en una sola transacción.
type RegisterCompanyRequest struct {
	ICO           string     `json:"ico"`
	LegalName     string     `json:"legal_name"`
	LegalFormCode string     `json:"legal_form_code"`
	DefaultLocale string     `json:"default_locale,omitempty"`
	Address       AddressDTO `json:"address"`
	OwnerEmail    string     `json:"owner_email"`
	OwnerPassword string     `json:"owner_password"`
	OwnerName     string     `json:"owner_name"`
}

// RegisterCompanyResponse identificadores creados por el registro.
type RegisterCompanyResponse struct {
	CompanyID string `json:"company_id"`
	UserID    string `json:"user_id"`
}

// CompanyResponse empresa en respuestas.
type CompanyResponse struct {
	ID            string     `json:"id"`
	ICO           string     `json:"ico"`
	LegalName     string     `json:"legal_name"`
	LegalFormCode string     `json:"legal_form_code"`
	LegalFormName string     `json:"legal_form_name,omitempty"`
	DefaultLocale string     `json:"default_locale"`
	Address       AddressDTO `json:"address"`
	Status        string     `json:"status"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// UpdateCompanyRequest body para PUT /api/company (datos propios del tenant).
type UpdateCompanyRequest struct {
	LegalName     string     `json:"legal_name"`
	LegalFormCode string     `json:"legal_form_code"`
	DefaultLocale string     `json:"default_locale"`
	Address       AddressDTO `json:"address"`
}

// RegistryCompanyResponse datos devueltos por la consulta ARES (prefill de registro).
type RegistryCompanyResponse struct {
	ICO           string     `json:"ico"`
	LegalName     string     `json:"legal_name"`
	LegalFormCode string     `json:"legal_form_code"`
	Address       AddressDTO `json:"address"`
}
