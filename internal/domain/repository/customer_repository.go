package repository

import "github.com/stavbase/stavbase-api/internal/domain/entity"

// CustomerFilter criterios ya normalizados para listar clientes.
type CustomerFilter struct {
	Type   *string
	Search *string // texto libre sobre nombre, IČO y DIČ
}

// CustomerRepository define el puerto de persistencia para Customer.
type CustomerRepository interface {
	Create(customer *entity.Customer) error
	GetByCompanyAndID(companyID, id string) (*entity.Customer, error)
	// GetByCompanyAndICO busca por IČO dentro del tenant (único por empresa cuando presente).
	GetByCompanyAndICO(companyID, ico string) (*entity.Customer, error)
	ListByCompany(companyID string, f CustomerFilter, limit, offset int) ([]*entity.Customer, error)
	CountByCompany(companyID string, f CustomerFilter) (int, error)
	Update(customer *entity.Customer) error
	Delete(companyID, id string) error
}
