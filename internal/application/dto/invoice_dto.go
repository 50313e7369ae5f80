package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateInvoiceDraftRequest body para POST /api/invoices. La factura nace en DRAFT
// sin número asignado; las líneas son opcionales al crear.
type CreateInvoiceDraftRequest struct {
	ProjectID  string               `json:"project_id"`
	CustomerID string               `json:"customer_id"`
	Currency   string               `json:"currency"` // CZK | EUR
	IssueDate  *time.Time           `json:"issue_date,omitempty"`
	DueDate    *time.Time           `json:"due_date,omitempty"`
	TaxDate    *time.Time           `json:"tax_date,omitempty"`
	Lines      []InvoiceLineRequest `json:"lines,omitempty"`
}

// InvoiceLineRequest línea de factura en requests.
type InvoiceLineRequest struct {
	Description string          `json:"description"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	VATRate     decimal.Decimal `json:"vat_rate"` // fracción, ej. 0.21
}

// ReplaceInvoiceLinesRequest body para PUT /api/invoices/:id/lines.
// Reemplaza el conjunto completo de líneas (sin parches parciales).
type ReplaceInvoiceLinesRequest struct {
	Lines []InvoiceLineRequest `json:"lines"`
}

// InvoiceLineResponse línea con montos calculados.
type InvoiceLineResponse struct {
	ID          string          `json:"id"`
	Position    int             `json:"position"`
	Description string          `json:"description"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	VATRate     decimal.Decimal `json:"vat_rate"`
	Subtotal    decimal.Decimal `json:"subtotal"`
	VATAmount   decimal.Decimal `json:"vat_amount"`
}

// InvoiceResponse factura con líneas.
type InvoiceResponse struct {
	ID         string                `json:"id"`
	CompanyID  string                `json:"company_id"`
	ProjectID  string                `json:"project_id"`
	CustomerID string                `json:"customer_id"`
	Number     string                `json:"number,omitempty"` // vacío mientras DRAFT
	IssueDate  *time.Time            `json:"issue_date,omitempty"`
	DueDate    *time.Time            `json:"due_date,omitempty"`
	TaxDate    *time.Time            `json:"tax_date,omitempty"`
	Currency   string                `json:"currency"`
	Subtotal   decimal.Decimal       `json:"subtotal"`
	VATTotal   decimal.Decimal       `json:"vat_total"`
	Total      decimal.Decimal       `json:"total"`
	Status     string                `json:"status"`
	Lines      []InvoiceLineResponse `json:"lines,omitempty"`
	CreatedAt  time.Time             `json:"created_at"`
	UpdatedAt  time.Time             `json:"updated_at"`
}

// InvoiceListResponse página de facturas (cabeceras, sin líneas).
type InvoiceListResponse struct {
	Items []InvoiceResponse `json:"items"`
	Page  PageResponse      `json:"page"`
}
