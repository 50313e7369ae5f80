package repository

import "github.com/stavbase/stavbase-api/internal/domain/entity"

// InvoiceFilter criterios ya normalizados para listar facturas.
type InvoiceFilter struct {
	Status    *string
	ProjectID *string
	Search    *string // texto libre sobre número de factura
}

// InvoiceRepository define el puerto de persistencia para Invoice, líneas y numeración.
type InvoiceRepository interface {
	Create(invoice *entity.Invoice) error
	GetByCompanyAndID(companyID, id string) (*entity.Invoice, error)
	// GetByCompanyAndIDForUpdate bloquea la fila de la factura (SELECT ... FOR UPDATE)
	// dentro de la transacción vigente. Serializa las transiciones de estado y el
	// reemplazo de líneas: dos operaciones concurrentes sobre la misma factura ven
	// el estado ya confirmado por la otra, nunca el original.
	GetByCompanyAndIDForUpdate(companyID, id string) (*entity.Invoice, error)
	ListByCompany(companyID string, f InvoiceFilter, limit, offset int) ([]*entity.Invoice, error)
	CountByCompany(companyID string, f InvoiceFilter) (int, error)
	// Update persiste cabecera: número, fechas, totales y estado.
	Update(invoice *entity.Invoice) error
	// ReplaceLines borra las líneas actuales e inserta el conjunto nuevo completo.
	ReplaceLines(invoiceID string, lines []*entity.InvoiceLine) error
	GetLines(invoiceID string) ([]*entity.InvoiceLine, error)
	// NextNumber incrementa el consecutivo de la empresa para el año dado y devuelve
	// el valor asignado. Bloquea la fila del consecutivo (FOR UPDATE); debe ejecutarse
	// dentro de la transacción de emisión.
	NextNumber(companyID string, year int) (int64, error)
}
