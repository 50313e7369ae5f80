package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/stavbase/stavbase-api/internal/domain"
	"github.com/stavbase/stavbase-api/internal/domain/entity"
	"github.com/stavbase/stavbase-api/internal/domain/repository"
)

var _ repository.CustomerRepository = (*CustomerRepo)(nil)

// CustomerRepo implementación de CustomerRepository (usable con pool o tx).
type CustomerRepo struct {
	q Querier
}

// NewCustomerRepository construye el adaptador. Pasar pool o tx (Querier).
func NewCustomerRepository(q Querier) *CustomerRepo {
	return &CustomerRepo{q: q}
}

const customerColumns = `id, company_id, type, name, ico, dic, email, phone,
	street, city, zip, country_code, payment_days, linked_user_id, created_at, updated_at`

func scanCustomer(row pgx.Row) (*entity.Customer, error) {
	var c entity.Customer
	err := row.Scan(
		&c.ID, &c.CompanyID, &c.Type, &c.Name, &c.ICO, &c.DIC, &c.Email, &c.Phone,
		&c.Billing.Street, &c.Billing.City, &c.Billing.Zip, &c.Billing.CountryCode,
		&c.PaymentDays, &c.LinkedUserID, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// Create persiste un nuevo cliente.
func (r *CustomerRepo) Create(customer *entity.Customer) error {
	query := `
		INSERT INTO customers (id, company_id, type, name, ico, dic, email, phone,
			street, city, zip, country_code, payment_days, linked_user_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)`
	_, err := r.q.Exec(context.Background(), query,
		customer.ID, customer.CompanyID, customer.Type, customer.Name, customer.ICO, customer.DIC,
		customer.Email, customer.Phone,
		customer.Billing.Street, customer.Billing.City, customer.Billing.Zip, customer.Billing.CountryCode,
		customer.PaymentDays, customer.LinkedUserID, customer.CreatedAt, customer.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert customer: %w", err)
	}
	return nil
}

// GetByCompanyAndID obtiene un cliente dentro del tenant.
func (r *CustomerRepo) GetByCompanyAndID(companyID, id string) (*entity.Customer, error) {
	query := `SELECT ` + customerColumns + ` FROM customers WHERE company_id = $1 AND id = $2`
	c, err := scanCustomer(r.q.QueryRow(context.Background(), query, companyID, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get customer: %w", err)
	}
	return c, nil
}

// GetByCompanyAndICO busca por IČO dentro del tenant.
func (r *CustomerRepo) GetByCompanyAndICO(companyID, ico string) (*entity.Customer, error) {
	query := `SELECT ` + customerColumns + ` FROM customers WHERE company_id = $1 AND ico = $2`
	c, err := scanCustomer(r.q.QueryRow(context.Background(), query, companyID, ico))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get customer by ico: %w", err)
	}
	return c, nil
}

func customerFilterWhere(f repository.CustomerFilter, args []any) (string, []any) {
	where := ""
	if f.Type != nil {
		args = append(args, *f.Type)
		where += fmt.Sprintf(" AND type = $%d", len(args))
	}
	if f.Search != nil {
		args = append(args, "%"+*f.Search+"%")
		where += fmt.Sprintf(" AND (name ILIKE $%d OR ico ILIKE $%d OR dic ILIKE $%d)",
			len(args), len(args), len(args))
	}
	return where, args
}

// ListByCompany lista clientes de la empresa con filtros y paginación.
func (r *CustomerRepo) ListByCompany(companyID string, f repository.CustomerFilter, limit, offset int) ([]*entity.Customer, error) {
	args := []any{companyID}
	where, args := customerFilterWhere(f, args)
	args = append(args, limit, offset)
	query := fmt.Sprintf(`SELECT `+customerColumns+`
		FROM customers WHERE company_id = $1%s
		ORDER BY name LIMIT $%d OFFSET $%d`, where, len(args)-1, len(args))
	rows, err := r.q.Query(context.Background(), query, args...)
	if err != nil {
		return nil, fmt.Errorf("list customers: %w", err)
	}
	defer rows.Close()
	var list []*entity.Customer
	for rows.Next() {
		c, err := scanCustomer(rows)
		if err != nil {
			return nil, fmt.Errorf("scan customer: %w", err)
		}
		list = append(list, c)
	}
	return list, rows.Err()
}

// CountByCompany cuenta clientes con los mismos filtros del listado.
func (r *CustomerRepo) CountByCompany(companyID string, f repository.CustomerFilter) (int, error) {
	args := []any{companyID}
	where, args := customerFilterWhere(f, args)
	var total int
	err := r.q.QueryRow(context.Background(),
		`SELECT count(*) FROM customers WHERE company_id = $1`+where, args...).Scan(&total)
	if err != nil {
		return 0, fmt.Errorf("count customers: %w", err)
	}
	return total, nil
}

// Update actualiza un cliente.
func (r *CustomerRepo) Update(customer *entity.Customer) error {
	query := `
		UPDATE customers SET type = $3, name = $4, ico = $5, dic = $6, email = $7, phone = $8,
			street = $9, city = $10, zip = $11, country_code = $12, payment_days = $13,
			linked_user_id = $14, updated_at = $15
		WHERE company_id = $1 AND id = $2`
	tag, err := r.q.Exec(context.Background(), query,
		customer.CompanyID, customer.ID, customer.Type, customer.Name, customer.ICO, customer.DIC,
		customer.Email, customer.Phone,
		customer.Billing.Street, customer.Billing.City, customer.Billing.Zip, customer.Billing.CountryCode,
		customer.PaymentDays, customer.LinkedUserID, customer.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("update customer: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// Delete elimina un cliente dentro del tenant.
func (r *CustomerRepo) Delete(companyID, id string) error {
	tag, err := r.q.Exec(context.Background(),
		`DELETE FROM customers WHERE company_id = $1 AND id = $2`, companyID, id)
	if err != nil {
		if isForeignKeyViolation(err) {
			// con facturas asociadas el cliente no se puede borrar
			return domain.ErrInvalidInput
		}
		return fmt.Errorf("delete customer: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}
