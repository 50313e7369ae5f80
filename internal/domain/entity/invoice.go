package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Estados del ciclo de vida de la factura.
// DRAFT -> ISSUED -> {PAID, CANCELLED}; CANCELLED también es alcanzable desde DRAFT.
const (
	InvoiceStatusDraft     = "DRAFT"
	InvoiceStatusIssued    = "ISSUED"
	InvoiceStatusPaid      = "PAID"
	InvoiceStatusCancelled = "CANCELLED"
)

// Monedas aceptadas.
const (
	CurrencyCZK = "CZK"
	CurrencyEUR = "EUR"
)

// ValidCurrency indica si la moneda es una de las aceptadas.
func ValidCurrency(c string) bool {
	return c == CurrencyCZK || c == CurrencyEUR
}

// ValidInvoiceStatus indica si el estado de factura es conocido.
func ValidInvoiceStatus(s string) bool {
	switch s {
	case InvoiceStatusDraft, InvoiceStatusIssued, InvoiceStatusPaid, InvoiceStatusCancelled:
		return true
	}
	return false
}

// CanTransition valida una transición del ciclo de vida de la factura.
func CanTransition(from, to string) bool {
	switch from {
	case InvoiceStatusDraft:
		return to == InvoiceStatusIssued || to == InvoiceStatusCancelled
	case InvoiceStatusIssued:
		return to == InvoiceStatusPaid || to == InvoiceStatusCancelled
	}
	// PAID y CANCELLED son terminales
	return false
}

// Invoice representa la cabecera de una factura.
// Number queda vacío hasta `issue`; los totales son siempre la suma de las líneas.
type Invoice struct {
	ID         string
	CompanyID  string
	ProjectID  string
	CustomerID string
	Number     string // asignado al emitir: "YYYY-NNNNN", consecutivo por empresa y año
	IssueDate  *time.Time
	DueDate    *time.Time
	TaxDate    *time.Time
	Currency   string // CZK, EUR
	Subtotal   decimal.Decimal
	VATTotal   decimal.Decimal
	Total      decimal.Decimal
	Status     string // DRAFT, ISSUED, PAID, CANCELLED
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// InvoiceLine representa una línea de la factura.
// Subtotal y VATAmount se calculan al reemplazar líneas y quedan congelados al emitir.
type InvoiceLine struct {
	ID          string
	InvoiceID   string
	Position    int
	Description string
	Quantity    decimal.Decimal
	UnitPrice   decimal.Decimal
	VATRate     decimal.Decimal // fracción, ej. 0.21
	Subtotal    decimal.Decimal // round2(Quantity * UnitPrice)
	VATAmount   decimal.Decimal // round2(Subtotal * VATRate)
}

// InvoiceSequence consecutivo de numeración por empresa y año (sin huecos).
// La fila se bloquea FOR UPDATE al emitir para evitar números duplicados.
type InvoiceSequence struct {
	CompanyID string
	Year      int
	LastValue int64
	UpdatedAt time.Time
}
