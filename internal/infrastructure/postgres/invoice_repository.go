package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/stavbase/stavbase-api/internal/domain"
	"github.com/stavbase/stavbase-api/internal/domain/entity"
	"github.com/stavbase/stavbase-api/internal/domain/repository"
)

var _ repository.InvoiceRepository = (*InvoiceRepo)(nil)

// InvoiceRepo implementación de InvoiceRepository (usable con pool o tx).
type InvoiceRepo struct {
	q Querier
}

// NewInvoiceRepository construye el adaptador. Pasar pool o tx (Querier).
func NewInvoiceRepository(q Querier) *InvoiceRepo {
	return &InvoiceRepo{q: q}
}

const invoiceColumns = `id, company_id, project_id, customer_id, number,
	issue_date, due_date, tax_date, currency, subtotal, vat_total, total, status,
	created_at, updated_at`

func scanInvoice(row pgx.Row) (*entity.Invoice, error) {
	var inv entity.Invoice
	err := row.Scan(
		&inv.ID, &inv.CompanyID, &inv.ProjectID, &inv.CustomerID, &inv.Number,
		&inv.IssueDate, &inv.DueDate, &inv.TaxDate, &inv.Currency,
		&inv.Subtotal, &inv.VATTotal, &inv.Total, &inv.Status,
		&inv.CreatedAt, &inv.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &inv, nil
}

// Create persiste una nueva factura (cabecera, sin líneas).
func (r *InvoiceRepo) Create(invoice *entity.Invoice) error {
	query := `
		INSERT INTO invoices (id, company_id, project_id, customer_id, number,
			issue_date, due_date, tax_date, currency, subtotal, vat_total, total, status,
			created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)`
	_, err := r.q.Exec(context.Background(), query,
		invoice.ID, invoice.CompanyID, invoice.ProjectID, invoice.CustomerID, invoice.Number,
		invoice.IssueDate, invoice.DueDate, invoice.TaxDate, invoice.Currency,
		invoice.Subtotal, invoice.VATTotal, invoice.Total, invoice.Status,
		invoice.CreatedAt, invoice.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		if isForeignKeyViolation(err) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("insert invoice: %w", err)
	}
	return nil
}

// GetByCompanyAndID obtiene una factura dentro del tenant.
func (r *InvoiceRepo) GetByCompanyAndID(companyID, id string) (*entity.Invoice, error) {
	query := `SELECT ` + invoiceColumns + ` FROM invoices WHERE company_id = $1 AND id = $2`
	inv, err := scanInvoice(r.q.QueryRow(context.Background(), query, companyID, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get invoice: %w", err)
	}
	return inv, nil
}

// GetByCompanyAndIDForUpdate como GetByCompanyAndID pero bloqueando la fila.
// Solo tiene sentido con el repo atado a una transacción.
func (r *InvoiceRepo) GetByCompanyAndIDForUpdate(companyID, id string) (*entity.Invoice, error) {
	query := `SELECT ` + invoiceColumns + ` FROM invoices WHERE company_id = $1 AND id = $2 FOR UPDATE`
	inv, err := scanInvoice(r.q.QueryRow(context.Background(), query, companyID, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get invoice for update: %w", err)
	}
	return inv, nil
}

func invoiceFilterWhere(f repository.InvoiceFilter, args []any) (string, []any) {
	where := ""
	if f.Status != nil {
		args = append(args, *f.Status)
		where += fmt.Sprintf(" AND status = $%d", len(args))
	}
	if f.ProjectID != nil {
		args = append(args, *f.ProjectID)
		where += fmt.Sprintf(" AND project_id = $%d", len(args))
	}
	if f.Search != nil {
		args = append(args, "%"+*f.Search+"%")
		where += fmt.Sprintf(" AND number ILIKE $%d", len(args))
	}
	return where, args
}

// ListByCompany lista facturas de la empresa con filtros y paginación.
func (r *InvoiceRepo) ListByCompany(companyID string, f repository.InvoiceFilter, limit, offset int) ([]*entity.Invoice, error) {
	args := []any{companyID}
	where, args := invoiceFilterWhere(f, args)
	args = append(args, limit, offset)
	query := fmt.Sprintf(`SELECT `+invoiceColumns+`
		FROM invoices WHERE company_id = $1%s
		ORDER BY created_at DESC LIMIT $%d OFFSET $%d`, where, len(args)-1, len(args))
	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list invoices: %w", err)
	}
	defer rows.Close()
	var list []*entity.Invoice
	for rows.Next() {
		inv, err := scanInvoice(rows)
		if err != nil {
			return nil, fmt.Errorf("scan invoice: %w", err)
		}
		list = append(list, inv)
	}
	return list, rows.Err()
}

// CountByCompany cuenta facturas con los mismos filtros del listado.
func (r *InvoiceRepo) CountByCompany(companyID string, f repository.InvoiceFilter) (int, error) {
	args := []any{companyID}
	where, args := invoiceFilterWhere(f, args)
	var total int
	err := r.q.QueryRow(context.Background(),
		`SELECT count(*) FROM invoices WHERE company_id = $1`+where, args...).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("count invoices: %w", err)
	}
	return total, nil
}

// Update persiste la cabecera: número, fechas, totales y estado.
func (r *InvoiceRepo) Update(invoice *entity.Invoice) error {
	query := `
		UPDATE invoices SET number = $3, issue_date = $4, due_date = $5, tax_date = $6,
			subtotal = $7, vat_total = $8, total = $9, status = $10, updated_at = $11
		WHERE company_id = $1 AND id = $2`
	tag, err := r.q.Exec(context.Background(), query,
		invoice.CompanyID, invoice.ID, invoice.Number,
		invoice.IssueDate, invoice.DueDate, invoice.TaxDate,
		invoice.Subtotal, invoice.VATTotal, invoice.Total, invoice.Status, invoice.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("update invoice: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// ReplaceLines borra las líneas actuales e inserta el conjunto nuevo completo.
func (r *InvoiceRepo) ReplaceLines(invoiceID string, lines []*entity.InvoiceLine) error {
	ctx := context.Background()
	if _, err := r.q.Exec(ctx, `DELETE FROM invoice_lines WHERE invoice_id = $1`, invoiceID); err != nil {
		return fmt.Errorf("delete lines: %w", err)
	}
	query := `
		INSERT INTO invoice_lines (id, invoice_id, position, description, quantity, unit_price,
			vat_rate, subtotal, vat_amount)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	for _, line := range lines {
		if line.ID == "" {
			line.ID = uuid.NewString()
		}
		_, err := r.q.Exec(ctx, query,
			line.ID, invoiceID, line.Position, line.Description, line.Quantity, line.UnitPrice,
			line.VATRate, line.Subtotal, line.VATAmount,
		)
		if err != nil {
			return fmt.Errorf("insert line: %w", err)
		}
	}
	return nil
}

// GetLines devuelve las líneas de la factura en orden.
func (r *InvoiceRepo) GetLines(invoiceID string) ([]*entity.InvoiceLine, error) {
	query := `
		SELECT id, invoice_id, position, description, quantity, unit_price, vat_rate, subtotal, vat_amount
		FROM invoice_lines WHERE invoice_id = $1 ORDER BY position`
	rows, err := r.q.Query(context.Background(), query, invoiceID)
	if err != nil {
		return nil, fmt.Errorf("get lines: %w", err)
	}
	defer rows.Close()
	var list []*entity.InvoiceLine
	for rows.Next() {
		var l entity.InvoiceLine
		if err := rows.Scan(
			&l.ID, &l.InvoiceID, &l.Position, &l.Description, &l.Quantity, &l.UnitPrice,
			&l.VATRate, &l.Subtotal, &l.VATAmount,
		); err != nil {
			return nil, fmt.Errorf("scan line: %w", err)
		}
		list = append(list, &l)
	}
	return list, rows.Err()
}

// NextNumber incrementa el consecutivo de la empresa para el año dado y devuelve
// el valor asignado. El upsert + FOR UPDATE serializa emisiones concurrentes;
// debe ejecutarse dentro de la transacción de emisión.
func (r *InvoiceRepo) NextNumber(companyID string, year int) (int64, error) {
	ctx := context.Background()
	_, err := r.q.Exec(ctx, `
		INSERT INTO invoice_sequences (company_id, year, last_value)
		VALUES ($1, $2, 0)
		ON CONFLICT (company_id, year) DO NOTHING`, companyID, year)
	if err != nil {
		return 0, fmt.Errorf("seed sequence: %w", err)
	}
	var last int64
	err = r.q.QueryRow(ctx, `
		SELECT last_value FROM invoice_sequences
		WHERE company_id = $1 AND year = $2 FOR UPDATE`, companyID, year).Scan(&last)
	if err != nil {
		return 0, fmt.Errorf("lock sequence: %w", err)
	}
	next := last + 1
	_, err = r.q.Exec(ctx, `
		UPDATE invoice_sequences SET last_value = $3, updated_at = now()
		WHERE company_id = $1 AND year = $2`, companyID, year, next)
	if err != nil {
		return 0, fmt.Errorf("advance sequence: %w", err)
	}
	return next, nil
}
