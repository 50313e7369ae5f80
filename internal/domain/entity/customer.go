package entity

import "time"

// Tipos de cliente.
const (
	CustomerTypePerson  = "PERSON"
	CustomerTypeCompany = "COMPANY"
)

// ValidCustomerType indica si el tipo de cliente es conocido.
func ValidCustomerType(t string) bool {
	return t == CustomerTypePerson || t == CustomerTypeCompany
}

// Customer representa un cliente de la empresa (facturación).
// El IČO es único por empresa cuando está presente.
type Customer struct {
	ID           string
	CompanyID    string
	Type         string // PERSON, COMPANY
	Name         string
	ICO          string // vacío para personas sin IČO
	DIC          string // DIČ: identificador fiscal, ej. "CZ12345678"
	Email        string
	Phone        string
	Billing      Address
	PaymentDays  int     // plazo de pago por defecto en días
	LinkedUserID *string // usuario del sistema vinculado, opcional
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
