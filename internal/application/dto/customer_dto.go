package dto

import "time"

// CreateCustomerRequest body para POST /api/customers.
type CreateCustomerRequest struct {
	Type         string     `json:"type"` // PERSON | COMPANY
	Name         string     `json:"name"`
	ICO          string     `json:"ico,omitempty"`
	DIC          string     `json:"dic,omitempty"`
	Email        string     `json:"email,omitempty"`
	Phone        string     `json:"phone,omitempty"`
	Billing      AddressDTO `json:"billing_address"`
	PaymentDays  int        `json:"payment_days,omitempty"`
	LinkedUserID *string    `json:"linked_user_id,omitempty"`
}

// UpdateCustomerRequest body para PUT /api/customers/:id.
type UpdateCustomerRequest struct {
	Name         string     `json:"name"`
	ICO          string     `json:"ico,omitempty"`
	DIC          string     `json:"dic,omitempty"`
	Email        string     `json:"email,omitempty"`
	Phone        string     `json:"phone,omitempty"`
	Billing      AddressDTO `json:"billing_address"`
	PaymentDays  int        `json:"payment_days,omitempty"`
	LinkedUserID *string    `json:"linked_user_id,omitempty"`
}

// CustomerResponse cliente en respuestas.
type CustomerResponse struct {
	ID           string     `json:"id"`
	CompanyID    string     `json:"company_id"`
	Type         string     `json:"type"`
	Name         string     `json:"name"`
	ICO          string     `json:"ico,omitempty"`
	DIC          string     `json:"dic,omitempty"`
	Email        string     `json:"email,omitempty"`
	Phone        string     `json:"phone,omitempty"`
	Billing      AddressDTO `json:"billing_address"`
	PaymentDays  int        `json:"payment_days"`
	LinkedUserID *string    `json:"linked_user_id,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// CustomerListResponse página de clientes.
type CustomerListResponse struct {
	Items []CustomerResponse `json:"items"`
	Page  PageResponse       `json:"page"`
}
