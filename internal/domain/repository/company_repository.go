package repository

import "github.com/stavbase/stavbase-api/internal/domain/entity"

// CompanyRepository define el puerto de persistencia para Company (tenant).
type CompanyRepository interface {
	Create(company *entity.Company) error
	GetByID(id string) (*entity.Company, error)
	// GetByICO busca por IČO (único entre todos los tenants).
	GetByICO(ico string) (*entity.Company, error)
	Update(company *entity.Company) error
	// LockByID bloquea la fila de la empresa (SELECT ... FOR UPDATE) dentro de la
	// transacción vigente. Serializa operaciones que dependen de agregados de la
	// empresa, como la protección de último OWNER.
	LockByID(id string) error
}
