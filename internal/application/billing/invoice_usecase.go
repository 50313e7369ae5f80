package billing

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stavbase/stavbase-api/internal/application/dto"
	"github.com/stavbase/stavbase-api/internal/domain"
	"github.com/stavbase/stavbase-api/internal/domain/entity"
	"github.com/stavbase/stavbase-api/internal/domain/repository"
)

// InvoiceUseCase ciclo de vida de la factura: DRAFT -> ISSUED -> {PAID, CANCELLED}.
// Las líneas solo se tocan en DRAFT; el número se asigna al emitir (consecutivo
// por empresa y año, sin huecos).
type InvoiceUseCase struct {
	txRunner     TxRunner
	invoiceRepo  repository.InvoiceRepository
	projectRepo  repository.ProjectRepository
	customerRepo repository.CustomerRepository
}

// NewInvoiceUseCase construye el caso de uso.
func NewInvoiceUseCase(txRunner TxRunner, invoiceRepo repository.InvoiceRepository, projectRepo repository.ProjectRepository, customerRepo repository.CustomerRepository) *InvoiceUseCase {
	return &InvoiceUseCase{
		txRunner:     txRunner,
		invoiceRepo:  invoiceRepo,
		projectRepo:  projectRepo,
		customerRepo: customerRepo,
	}
}

// round2 redondea al céntimo: half-up (alejándose de cero) a 2 decimales.
// Es la única política de redondeo del sistema y se aplica por línea.
func round2(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// computeLines calcula montos por línea y los totales de la cabecera.
// subtotal de línea = round2(cantidad × precio); IVA de línea = round2(subtotal × tasa).
// Los totales son la suma exacta de los montos ya redondeados.
func computeLines(invoiceID string, in []dto.InvoiceLineRequest) ([]*entity.InvoiceLine, decimal.Decimal, decimal.Decimal, error) {
	var subtotal, vatTotal decimal.Decimal
	lines := make([]*entity.InvoiceLine, 0, len(in))
	for i, l := range in {
		if l.Description == "" || !l.Quantity.GreaterThan(decimal.Zero) {
			return nil, decimal.Zero, decimal.Zero, domain.ErrInvalidInput
		}
		if l.UnitPrice.LessThan(decimal.Zero) || l.VATRate.LessThan(decimal.Zero) || l.VATRate.GreaterThan(decimal.NewFromInt(1)) {
			return nil, decimal.Zero, decimal.Zero, domain.ErrInvalidInput
		}
		lineSubtotal := round2(l.Quantity.Mul(l.UnitPrice))
		lineVAT := round2(lineSubtotal.Mul(l.VATRate))
		lines = append(lines, &entity.InvoiceLine{
			ID:          uuid.New().String(),
			InvoiceID:   invoiceID,
			Position:    i + 1,
			Description: l.Description,
			Quantity:    l.Quantity,
			UnitPrice:   l.UnitPrice,
			VATRate:     l.VATRate,
			Subtotal:    lineSubtotal,
			VATAmount:   lineVAT,
		})
		subtotal = subtotal.Add(lineSubtotal)
		vatTotal = vatTotal.Add(lineVAT)
	}
	return lines, subtotal, vatTotal, nil
}

// CreateDraft crea una factura en DRAFT, sin número. Proyecto y cliente deben
// pertenecer a la empresa del caller.
func (uc *InvoiceUseCase) CreateDraft(ctx context.Context, companyID string, in dto.CreateInvoiceDraftRequest) (*dto.InvoiceResponse, error) {
	if in.ProjectID == "" || in.CustomerID == "" {
		return nil, domain.ErrInvalidInput
	}
	if !entity.ValidCurrency(in.Currency) {
		return nil, domain.ErrInvalidInput
	}

	project, err := uc.projectRepo.GetByCompanyAndID(companyID, in.ProjectID)
	if err != nil {
		return nil, err
	}
	if project == nil {
		return nil, domain.ErrNotFound
	}
	customer, err := uc.customerRepo.GetByCompanyAndID(companyID, in.CustomerID)
	if err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, domain.ErrNotFound
	}

	now := time.Now()
	inv := &entity.Invoice{
		ID:         uuid.New().String(),
		CompanyID:  companyID,
		ProjectID:  in.ProjectID,
		CustomerID: in.CustomerID,
		IssueDate:  in.IssueDate,
		DueDate:    in.DueDate,
		TaxDate:    in.TaxDate,
		Currency:   in.Currency,
		Subtotal:   decimal.Zero,
		VATTotal:   decimal.Zero,
		Total:      decimal.Zero,
		Status:     entity.InvoiceStatusDraft,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	var lines []*entity.InvoiceLine
	if len(in.Lines) > 0 {
		var subtotal, vatTotal decimal.Decimal
		lines, subtotal, vatTotal, err = computeLines(inv.ID, in.Lines)
		if err != nil {
			return nil, err
		}
		inv.Subtotal = subtotal
		inv.VATTotal = vatTotal
		inv.Total = subtotal.Add(vatTotal)
	}

	err = uc.txRunner.RunInvoices(ctx, func(invoiceRepo repository.InvoiceRepository) error {
		if err := invoiceRepo.Create(inv); err != nil {
			return err
		}
		if len(lines) > 0 {
			return invoiceRepo.ReplaceLines(inv.ID, lines)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return toInvoiceResponse(inv, lines), nil
}

// ReplaceLines reemplaza el conjunto completo de líneas y recalcula totales.
// Solo legal en DRAFT; cualquier otro estado devuelve ErrInvalidStateTransition.
func (uc *InvoiceUseCase) ReplaceLines(ctx context.Context, companyID, invoiceID string, in dto.ReplaceInvoiceLinesRequest) (*dto.InvoiceResponse, error) {
	if len(in.Lines) == 0 {
		return nil, domain.ErrInvalidInput
	}
	var result *dto.InvoiceResponse
	err := uc.txRunner.RunInvoices(ctx, func(invoiceRepo repository.InvoiceRepository) error {
		// Bloquea la fila: una emisión concurrente no puede colarse entre la
		// lectura del estado y el reemplazo de líneas.
		inv, err := invoiceRepo.GetByCompanyAndIDForUpdate(companyID, invoiceID)
		if err != nil {
			return err
		}
		if inv == nil {
			return domain.ErrNotFound
		}
		if inv.Status != entity.InvoiceStatusDraft {
			return domain.ErrInvalidStateTransition
		}
		lines, subtotal, vatTotal, err := computeLines(inv.ID, in.Lines)
		if err != nil {
			return err
		}
		inv.Subtotal = subtotal
		inv.VATTotal = vatTotal
		inv.Total = subtotal.Add(vatTotal)
		inv.UpdatedAt = time.Now()
		if err := invoiceRepo.ReplaceLines(inv.ID, lines); err != nil {
			return err
		}
		if err := invoiceRepo.Update(inv); err != nil {
			return err
		}
		result = toInvoiceResponse(inv, lines)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// Issue emite la factura: asigna el consecutivo "YYYY-NNNNN" de la empresa
// (fila de numeración bloqueada FOR UPDATE) y pasa a ISSUED. Solo legal en DRAFT.
func (uc *InvoiceUseCase) Issue(ctx context.Context, companyID, invoiceID string) (*dto.InvoiceResponse, error) {
	var result *dto.InvoiceResponse
	err := uc.txRunner.RunInvoices(ctx, func(invoiceRepo repository.InvoiceRepository) error {
		// Bloquea la fila antes de consumir el consecutivo: dos emisiones
		// concurrentes no pueden pasar ambas el chequeo de DRAFT y quemar
		// dos números para la misma factura.
		inv, err := invoiceRepo.GetByCompanyAndIDForUpdate(companyID, invoiceID)
		if err != nil {
			return err
		}
		if inv == nil {
			return domain.ErrNotFound
		}
		if inv.Status != entity.InvoiceStatusDraft {
			return domain.ErrInvalidStateTransition
		}
		now := time.Now()
		if inv.IssueDate == nil {
			inv.IssueDate = &now
		}
		year := inv.IssueDate.Year()
		seq, err := invoiceRepo.NextNumber(companyID, year)
		if err != nil {
			return err
		}
		inv.Number = fmt.Sprintf("%d-%05d", year, seq)
		inv.Status = entity.InvoiceStatusIssued
		inv.UpdatedAt = now
		if err := invoiceRepo.Update(inv); err != nil {
			return err
		}
		lines, err := invoiceRepo.GetLines(inv.ID)
		if err != nil {
			return err
		}
		result = toInvoiceResponse(inv, lines)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// MarkPaid marca la factura como pagada. Solo legal desde ISSUED.
func (uc *InvoiceUseCase) MarkPaid(ctx context.Context, companyID, invoiceID string) error {
	return uc.transition(ctx, companyID, invoiceID, entity.InvoiceStatusPaid)
}

// Cancel anula la factura. Legal desde DRAFT o ISSUED, nunca desde PAID.
func (uc *InvoiceUseCase) Cancel(ctx context.Context, companyID, invoiceID string) error {
	return uc.transition(ctx, companyID, invoiceID, entity.InvoiceStatusCancelled)
}

func (uc *InvoiceUseCase) transition(ctx context.Context, companyID, invoiceID, to string) error {
	return uc.txRunner.RunInvoices(ctx, func(invoiceRepo repository.InvoiceRepository) error {
		// La fila queda bloqueada hasta el commit: la segunda de dos
		// transiciones concurrentes lee el estado ya confirmado.
		inv, err := invoiceRepo.GetByCompanyAndIDForUpdate(companyID, invoiceID)
		if err != nil {
			return err
		}
		if inv == nil {
			return domain.ErrNotFound
		}
		if !entity.CanTransition(inv.Status, to) {
			return domain.ErrInvalidStateTransition
		}
		inv.Status = to
		inv.UpdatedAt = time.Now()
		return invoiceRepo.Update(inv)
	})
}

// GetByID devuelve la factura con sus líneas, acotada al tenant.
func (uc *InvoiceUseCase) GetByID(companyID, invoiceID string) (*dto.InvoiceResponse, error) {
	inv, err := uc.invoiceRepo.GetByCompanyAndID(companyID, invoiceID)
	if err != nil {
		return nil, err
	}
	if inv == nil {
		return nil, domain.ErrNotFound
	}
	lines, err := uc.invoiceRepo.GetLines(inv.ID)
	if err != nil {
		return nil, err
	}
	return toInvoiceResponse(inv, lines), nil
}

// List lista cabeceras de factura con filtro normalizado y paginación.
func (uc *InvoiceUseCase) List(companyID string, rawFilter dto.InvoiceListFilter, page dto.PageRequest) (*dto.InvoiceListResponse, error) {
	f := rawFilter.Normalize()
	if f.Status != nil && !entity.ValidInvoiceStatus(*f.Status) {
		return nil, domain.ErrInvalidInput
	}
	page.DefaultPage()

	repoFilter := repository.InvoiceFilter{Status: f.Status, ProjectID: f.ProjectID, Search: f.Search}
	list, err := uc.invoiceRepo.ListByCompany(companyID, repoFilter, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	total, err := uc.invoiceRepo.CountByCompany(companyID, repoFilter)
	if err != nil {
		return nil, err
	}
	items := make([]dto.InvoiceResponse, 0, len(list))
	for _, inv := range list {
		items = append(items, *toInvoiceResponse(inv, nil))
	}
	return &dto.InvoiceListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset, Total: total},
	}, nil
}

func toInvoiceResponse(inv *entity.Invoice, lines []*entity.InvoiceLine) *dto.InvoiceResponse {
	resp := &dto.InvoiceResponse{
		ID:         inv.ID,
		CompanyID:  inv.CompanyID,
		ProjectID:  inv.ProjectID,
		CustomerID: inv.CustomerID,
		Number:     inv.Number,
		IssueDate:  inv.IssueDate,
		DueDate:    inv.DueDate,
		TaxDate:    inv.TaxDate,
		Currency:   inv.Currency,
		Subtotal:   inv.Subtotal,
		VATTotal:   inv.VATTotal,
		Total:      inv.Total,
		Status:     inv.Status,
		CreatedAt:  inv.CreatedAt,
		UpdatedAt:  inv.UpdatedAt,
	}
	for _, l := range lines {
		resp.Lines = append(resp.Lines, dto.InvoiceLineResponse{
			ID:          l.ID,
			Position:    l.Position,
			Description: l.Description,
			Quantity:    l.Quantity,
			UnitPrice:   l.UnitPrice,
			VATRate:     l.VATRate,
			Subtotal:    l.Subtotal,
			VATAmount:   l.VATAmount,
		})
	}
	return resp
}
