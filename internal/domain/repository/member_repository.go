package repository

import "github.com/stavbase/stavbase-api/internal/domain/entity"

// MemberFilter criterios ya normalizados para listar miembros.
// Los punteros nil significan "sin filtro".
type MemberFilter struct {
	Role   *string
	Status *string
	Search *string // texto libre sobre nombre y email del usuario
}

// MemberRepository define el puerto de persistencia para CompanyMember.
// Todas las operaciones están acotadas al tenant (companyID explícito).
type MemberRepository interface {
	Create(member *entity.CompanyMember) error
	GetByCompanyAndUser(companyID, userID string) (*entity.CompanyMember, error)
	// ListByCompany devuelve los miembros con los datos del usuario (join), paginados.
	ListByCompany(companyID string, f MemberFilter, limit, offset int) ([]*entity.MemberWithUser, error)
	CountByCompany(companyID string, f MemberFilter) (int, error)
	UpdateRole(companyID, userID, role string) error
	UpdateStatus(companyID, userID, status string) error
	Delete(companyID, userID string) error
	// CountActiveOwners cuenta los OWNER activos. Debe ejecutarse tras bloquear la
	// fila de la empresa para que el invariante de último OWNER no se rompa bajo concurrencia.
	CountActiveOwners(companyID string) (int, error)
	// Stats agrega conteos por rol y por estado sobre el conjunto vigente.
	Stats(companyID string) (*entity.MemberStats, error)
}
