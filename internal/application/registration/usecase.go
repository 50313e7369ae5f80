package registration

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/stavbase/stavbase-api/internal/application/dto"
	"github.com/stavbase/stavbase-api/internal/domain"
	"github.com/stavbase/stavbase-api/internal/domain/entity"
	"github.com/stavbase/stavbase-api/internal/domain/repository"
	"github.com/stavbase/stavbase-api/pkg/refdata"
	"golang.org/x/crypto/bcrypt"
)

// UseCase registro de empresas: la única escritura multi-entidad del sistema.
// Crea Company, User inicial y CompanyMember OWNER en una sola transacción.
type UseCase struct {
	txRunner    TxRunner
	companyRepo repository.CompanyRepository
	userRepo    repository.UserRepository
	registry    RegistryClient
	legalForms  *refdata.LegalForms
}

// NewUseCase construye el caso de uso.
func NewUseCase(txRunner TxRunner, companyRepo repository.CompanyRepository, userRepo repository.UserRepository, registry RegistryClient, legalForms *refdata.LegalForms) *UseCase {
	return &UseCase{
		txRunner:    txRunner,
		companyRepo: companyRepo,
		userRepo:    userRepo,
		registry:    registry,
		legalForms:  legalForms,
	}
}

// Register valida unicidad de IČO y email y crea empresa + usuario + membresía OWNER
// de forma atómica. Devuelve domain.ErrDuplicate si el IČO o el email ya existen.
func (uc *UseCase) Register(ctx context.Context, in dto.RegisterCompanyRequest) (*dto.RegisterCompanyResponse, error) {
	ico := strings.TrimSpace(in.ICO)
	email := strings.ToLower(strings.TrimSpace(in.OwnerEmail))

	if !ValidICO(ico) {
		return nil, domain.ErrInvalidInput
	}
	if strings.TrimSpace(in.LegalName) == "" || !strings.Contains(email, "@") {
		return nil, domain.ErrInvalidInput
	}
	if len(in.OwnerPassword) < 8 {
		return nil, domain.ErrInvalidInput
	}
	if in.LegalFormCode != "" && !uc.legalForms.Valid(in.LegalFormCode) {
		return nil, domain.ErrInvalidInput
	}

	// Chequeos de existencia para responder 409 estructurado; el constraint único
	// en DB sigue siendo la garantía final dentro de la transacción.
	if existing, err := uc.companyRepo.GetByICO(ico); err != nil {
		return nil, err
	} else if existing != nil {
		return nil, domain.ErrDuplicate
	}
	if existing, err := uc.userRepo.GetByEmail(email); err != nil {
		return nil, err
	} else if existing != nil {
		return nil, domain.ErrDuplicate
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.OwnerPassword), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	locale := in.DefaultLocale
	if locale == "" {
		locale = "cs"
	}
	company := &entity.Company{
		ID:            uuid.New().String(),
		ICO:           ico,
		LegalName:     strings.TrimSpace(in.LegalName),
		LegalFormCode: in.LegalFormCode,
		DefaultLocale: locale,
		Address: entity.Address{
			Street:      in.Address.Street,
			City:        in.Address.City,
			Zip:         in.Address.Zip,
			CountryCode: in.Address.CountryCode,
		},
		Status:    entity.CompanyStatusActive,
		CreatedAt: now,
		UpdatedAt: now,
	}
	name := strings.TrimSpace(in.OwnerName)
	if name == "" {
		name = email
	}
	user := &entity.User{
		ID:           uuid.New().String(),
		CompanyID:    company.ID,
		Email:        email,
		PasswordHash: string(hash),
		Name:         name,
		Locale:       locale,
		Status:       entity.UserStatusActive,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	member := &entity.CompanyMember{
		ID:        uuid.New().String(),
		CompanyID: company.ID,
		UserID:    user.ID,
		Role:      entity.RoleOwner,
		Status:    entity.MemberStatusActive,
		CreatedAt: now,
		UpdatedAt: now,
	}

	err = uc.txRunner.RunRegistration(ctx, func(
		companyRepo repository.CompanyRepository,
		userRepo repository.UserRepository,
		memberRepo repository.MemberRepository,
	) error {
		if err := companyRepo.Create(company); err != nil {
			return err
		}
		if err := userRepo.Create(user); err != nil {
			return err
		}
		return memberRepo.Create(member)
	})
	if err != nil {
		return nil, err
	}

	return &dto.RegisterCompanyResponse{CompanyID: company.ID, UserID: user.ID}, nil
}

// LookupRegistry consulta ARES por IČO para prefill del formulario de registro.
func (uc *UseCase) LookupRegistry(ctx context.Context, ico string) (*dto.RegistryCompanyResponse, error) {
	ico = strings.TrimSpace(ico)
	if !ValidICO(ico) {
		return nil, domain.ErrInvalidInput
	}
	company, err := uc.registry.LookupByICO(ctx, ico)
	if err != nil {
		return nil, err
	}
	return &dto.RegistryCompanyResponse{
		ICO:           company.ICO,
		LegalName:     company.LegalName,
		LegalFormCode: company.LegalFormCode,
		Address: dto.AddressDTO{
			Street:      company.Address.Street,
			City:        company.Address.City,
			Zip:         company.Address.Zip,
			CountryCode: company.Address.CountryCode,
		},
	}, nil
}

// ValidICO valida el formato del IČO checo: exactamente 8 dígitos. El dígito de
// control módulo 11 NO se verifica aquí: el registro acepta identificadores
// históricos que no lo cumplen, y la verdad final la da ARES.
func ValidICO(ico string) bool {
	if len(ico) != 8 {
		return false
	}
	for i := 0; i < 8; i++ {
		if ico[i] < '0' || ico[i] > '9' {
			return false
		}
	}
	return true
}
