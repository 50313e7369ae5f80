package billing

import (
	"context"

	"github.com/stavbase/stavbase-api/internal/domain/entity"
	"github.com/stavbase/stavbase-api/internal/domain/repository"
)

// TxRunner ejecuta operaciones de facturación dentro de una transacción:
// reemplazo de líneas + recálculo y emisión + consecutivo son todo-o-nada.
type TxRunner interface {
	RunInvoices(ctx context.Context, fn func(invoiceRepo repository.InvoiceRepository) error) error
}

// InvoicePDFGenerator puerto de salida para la representación gráfica de la factura.
// La implementación concreta usa Maroto; para tests se inyecta un mock.
type InvoicePDFGenerator interface {
	GenerateInvoicePDF(
		ctx context.Context,
		invoice *entity.Invoice,
		lines []*entity.InvoiceLine,
		company *entity.Company,
		customer *entity.Customer,
	) ([]byte, error)
}
