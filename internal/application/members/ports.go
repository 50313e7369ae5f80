package members

import (
	"context"

	"github.com/stavbase/stavbase-api/internal/domain/repository"
)

// TxRunner ejecuta operaciones de equipo dentro de una transacción. El callback
// recibe repos atados a la tx; la fila de la empresa se bloquea antes de evaluar
// el invariante de último OWNER.
type TxRunner interface {
	RunMembers(ctx context.Context, fn func(
		companyRepo repository.CompanyRepository,
		userRepo repository.UserRepository,
		memberRepo repository.MemberRepository,
	) error) error
}
