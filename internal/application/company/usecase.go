package company

import (
	"context"
	"strings"
	"time"

	"github.com/stavbase/stavbase-api/internal/application/dto"
	"github.com/stavbase/stavbase-api/internal/application/registration"
	"github.com/stavbase/stavbase-api/internal/domain"
	"github.com/stavbase/stavbase-api/internal/domain/entity"
	"github.com/stavbase/stavbase-api/internal/domain/repository"
	"github.com/stavbase/stavbase-api/pkg/refdata"
)

// UseCase datos del propio tenant: consulta, actualización y sincronización
// con el registro mercantil. Las empresas nunca se borran físicamente.
type UseCase struct {
	repo       repository.CompanyRepository
	registry   registration.RegistryClient
	legalForms *refdata.LegalForms
}

// NewUseCase construye el caso de uso.
func NewUseCase(repo repository.CompanyRepository, registry registration.RegistryClient, legalForms *refdata.LegalForms) *UseCase {
	return &UseCase{repo: repo, registry: registry, legalForms: legalForms}
}

// Get devuelve la empresa del caller.
func (uc *UseCase) Get(companyID string) (*dto.CompanyResponse, error) {
	company, err := uc.repo.GetByID(companyID)
	if err != nil {
		return nil, err
	}
	if company == nil {
		return nil, domain.ErrNotFound
	}
	return uc.toResponse(company), nil
}

// Update actualiza nombre legal, forma jurídica, locale y dirección del tenant.
func (uc *UseCase) Update(companyID string, in dto.UpdateCompanyRequest) (*dto.CompanyResponse, error) {
	if strings.TrimSpace(in.LegalName) == "" {
		return nil, domain.ErrInvalidInput
	}
	if in.LegalFormCode != "" && !uc.legalForms.Valid(in.LegalFormCode) {
		return nil, domain.ErrInvalidInput
	}
	company, err := uc.repo.GetByID(companyID)
	if err != nil {
		return nil, err
	}
	if company == nil {
		return nil, domain.ErrNotFound
	}
	company.LegalName = strings.TrimSpace(in.LegalName)
	company.LegalFormCode = in.LegalFormCode
	if in.DefaultLocale != "" {
		company.DefaultLocale = in.DefaultLocale
	}
	company.Address.Street = in.Address.Street
	company.Address.City = in.Address.City
	company.Address.Zip = in.Address.Zip
	company.Address.CountryCode = in.Address.CountryCode
	company.UpdatedAt = time.Now()
	if err := uc.repo.Update(company); err != nil {
		return nil, err
	}
	return uc.toResponse(company), nil
}

// SyncFromRegistry refresca nombre legal, forma jurídica y dirección desde ARES.
// Un fallo del registro no toca los datos del tenant.
func (uc *UseCase) SyncFromRegistry(ctx context.Context, companyID string) (*dto.CompanyResponse, error) {
	company, err := uc.repo.GetByID(companyID)
	if err != nil {
		return nil, err
	}
	if company == nil {
		return nil, domain.ErrNotFound
	}
	remote, err := uc.registry.LookupByICO(ctx, company.ICO)
	if err != nil {
		return nil, err
	}
	company.LegalName = remote.LegalName
	if remote.LegalFormCode != "" {
		company.LegalFormCode = remote.LegalFormCode
	}
	if remote.Address.Street != "" || remote.Address.City != "" {
		company.Address = remote.Address
	}
	company.UpdatedAt = time.Now()
	if err := uc.repo.Update(company); err != nil {
		return nil, err
	}
	return uc.toResponse(company), nil
}

func (uc *UseCase) toResponse(c *entity.Company) *dto.CompanyResponse {
	formName, _ := uc.legalForms.Lookup(c.LegalFormCode)
	return &dto.CompanyResponse{
		ID:            c.ID,
		ICO:           c.ICO,
		LegalName:     c.LegalName,
		LegalFormCode: c.LegalFormCode,
		LegalFormName: formName,
		DefaultLocale: c.DefaultLocale,
		Address: dto.AddressDTO{
			Street:      c.Address.Street,
			City:        c.Address.City,
			Zip:         c.Address.Zip,
			CountryCode: c.Address.CountryCode,
		},
		Status:    c.Status,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}
