package registration

import (
	"context"

	"github.com/stavbase/stavbase-api/internal/domain/entity"
	"github.com/stavbase/stavbase-api/internal/domain/repository"
)

// TxRunner ejecuta el registro dentro de una transacción: empresa, usuario inicial
// y membresía OWNER se crean todo-o-nada.
type TxRunner interface {
	RunRegistration(ctx context.Context, fn func(
		companyRepo repository.CompanyRepository,
		userRepo repository.UserRepository,
		memberRepo repository.MemberRepository,
	) error) error
}

// RegistryClient puerto de salida hacia el registro mercantil ARES.
// La implementación concreta consulta el WS público; para tests se inyecta un mock.
type RegistryClient interface {
	// LookupByICO consulta la empresa por IČO. Devuelve domain.ErrNotFound si el
	// registro no la conoce y domain.ErrServiceUnavailable ante timeout o 5xx remoto.
	LookupByICO(ctx context.Context, ico string) (*entity.Company, error)
}
