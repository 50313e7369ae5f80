package billing

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/stavbase/stavbase-api/internal/application/dto"
	"github.com/stavbase/stavbase-api/internal/domain"
	"github.com/stavbase/stavbase-api/internal/domain/entity"
	"github.com/stavbase/stavbase-api/internal/domain/repository"
)

// CustomerUseCase CRUD de clientes de facturación, acotado al tenant.
type CustomerUseCase struct {
	repo repository.CustomerRepository
}

// NewCustomerUseCase construye el caso de uso.
func NewCustomerUseCase(repo repository.CustomerRepository) *CustomerUseCase {
	return &CustomerUseCase{repo: repo}
}

// Create crea un cliente. Devuelve domain.ErrDuplicate si el IČO ya existe en la empresa.
func (uc *CustomerUseCase) Create(companyID string, in dto.CreateCustomerRequest) (*dto.CustomerResponse, error) {
	if strings.TrimSpace(in.Name) == "" || !entity.ValidCustomerType(in.Type) {
		return nil, domain.ErrInvalidInput
	}
	ico := strings.TrimSpace(in.ICO)
	if ico != "" {
		existing, err := uc.repo.GetByCompanyAndICO(companyID, ico)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			return nil, domain.ErrDuplicate
		}
	}
	now := time.Now()
	customer := &entity.Customer{
		ID:           uuid.New().String(),
		CompanyID:    companyID,
		Type:         in.Type,
		Name:         strings.TrimSpace(in.Name),
		ICO:          ico,
		DIC:          strings.TrimSpace(in.DIC),
		Email:        in.Email,
		Phone:        in.Phone,
		Billing:      toAddress(in.Billing),
		PaymentDays:  in.PaymentDays,
		LinkedUserID: in.LinkedUserID,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if customer.PaymentDays <= 0 {
		customer.PaymentDays = 14
	}
	if err := uc.repo.Create(customer); err != nil {
		return nil, err
	}
	return toCustomerResponse(customer), nil
}

// GetByID obtiene un cliente por ID dentro del tenant.
func (uc *CustomerUseCase) GetByID(companyID, id string) (*dto.CustomerResponse, error) {
	customer, err := uc.repo.GetByCompanyAndID(companyID, id)
	if err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, domain.ErrNotFound
	}
	return toCustomerResponse(customer), nil
}

// List lista clientes con filtro normalizado y paginación.
func (uc *CustomerUseCase) List(companyID string, rawFilter dto.CustomerListFilter, page dto.PageRequest) (*dto.CustomerListResponse, error) {
	f := rawFilter.Normalize()
	if f.Type != nil && !entity.ValidCustomerType(*f.Type) {
		return nil, domain.ErrInvalidInput
	}
	page.DefaultPage()

	repoFilter := repository.CustomerFilter{Type: f.Type, Search: f.Search}
	list, err := uc.repo.ListByCompany(companyID, repoFilter, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	total, err := uc.repo.CountByCompany(companyID, repoFilter)
	if err != nil {
		return nil, err
	}
	items := make([]dto.CustomerResponse, 0, len(list))
	for _, c := range list {
		items = append(items, *toCustomerResponse(c))
	}
	return &dto.CustomerListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset, Total: total},
	}, nil
}

// Update actualiza un cliente. Cambiar el IČO a uno ya usado en la empresa
// devuelve domain.ErrDuplicate.
func (uc *CustomerUseCase) Update(companyID, id string, in dto.UpdateCustomerRequest) (*dto.CustomerResponse, error) {
	if strings.TrimSpace(in.Name) == "" {
		return nil, domain.ErrInvalidInput
	}
	customer, err := uc.repo.GetByCompanyAndID(companyID, id)
	if err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, domain.ErrNotFound
	}
	ico := strings.TrimSpace(in.ICO)
	if ico != "" && ico != customer.ICO {
		existing, err := uc.repo.GetByCompanyAndICO(companyID, ico)
		if err != nil {
			return nil, err
		}
		if existing != nil && existing.ID != id {
			return nil, domain.ErrDuplicate
		}
	}
	customer.Name = strings.TrimSpace(in.Name)
	customer.ICO = ico
	customer.DIC = strings.TrimSpace(in.DIC)
	customer.Email = in.Email
	customer.Phone = in.Phone
	customer.Billing = toAddress(in.Billing)
	customer.PaymentDays = in.PaymentDays
	customer.LinkedUserID = in.LinkedUserID
	customer.UpdatedAt = time.Now()
	if err := uc.repo.Update(customer); err != nil {
		return nil, err
	}
	return toCustomerResponse(customer), nil
}

// Delete elimina un cliente del tenant.
func (uc *CustomerUseCase) Delete(companyID, id string) error {
	customer, err := uc.repo.GetByCompanyAndID(companyID, id)
	if err != nil {
		return err
	}
	if customer == nil {
		return domain.ErrNotFound
	}
	return uc.repo.Delete(companyID, id)
}

func toAddress(a dto.AddressDTO) entity.Address {
	return entity.Address{Street: a.Street, City: a.City, Zip: a.Zip, CountryCode: a.CountryCode}
}

func toCustomerResponse(c *entity.Customer) *dto.CustomerResponse {
	if c == nil {
		return nil
	}
	return &dto.CustomerResponse{
		ID:        c.ID,
		CompanyID: c.CompanyID,
		Type:      c.Type,
		Name:      c.Name,
		ICO:       c.ICO,
		DIC:       c.DIC,
		Email:     c.Email,
		Phone:     c.Phone,
		Billing: dto.AddressDTO{
			Street:      c.Billing.Street,
			City:        c.Billing.City,
			Zip:         c.Billing.Zip,
			CountryCode: c.Billing.CountryCode,
		},
		PaymentDays:  c.PaymentDays,
		LinkedUserID: c.LinkedUserID,
		CreatedAt:    c.CreatedAt,
		UpdatedAt:    c.UpdatedAt,
	}
}
