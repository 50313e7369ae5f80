package dto

import "strings"

// Normalización de filtros de consulta antes de convertirlos en predicados de
// persistencia. Las funciones son puras e idempotentes: normalizar un filtro ya
// normalizado produce el mismo resultado.

// NormalizeText recorta espacios; en blanco se convierte en ausente (nil).
func NormalizeText(s *string) *string {
	if s == nil {
		return nil
	}
	t := strings.TrimSpace(*s)
	if t == "" {
		return nil
	}
	return &t
}

// NormalizeEnum recorta espacios y pasa a mayúsculas; en blanco se convierte en ausente (nil).
func NormalizeEnum(s *string) *string {
	if s == nil {
		return nil
	}
	t := strings.ToUpper(strings.TrimSpace(*s))
	if t == "" {
		return nil
	}
	return &t
}

// MemberListFilter filtros crudos del listado de miembros (query params).
type MemberListFilter struct {
	Role   *string `query:"role"`
	Status *string `query:"status"`
	Search *string `query:"search"`
}

// Normalize devuelve una copia normalizada del filtro.
func (f MemberListFilter) Normalize() MemberListFilter {
	return MemberListFilter{
		Role:   NormalizeEnum(f.Role),
		Status: NormalizeEnum(f.Status),
		Search: NormalizeText(f.Search),
	}
}

// CustomerListFilter filtros crudos del listado de clientes.
type CustomerListFilter struct {
	Type   *string `query:"type"`
	Search *string `query:"search"`
}

// Normalize devuelve una copia normalizada del filtro.
func (f CustomerListFilter) Normalize() CustomerListFilter {
	return CustomerListFilter{
		Type:   NormalizeEnum(f.Type),
		Search: NormalizeText(f.Search),
	}
}

// ProjectListFilter filtros crudos del listado de proyectos.
type ProjectListFilter struct {
	Status    *string `query:"status"`
	ManagerID *string `query:"manager_id"`
	Search    *string `query:"search"`
}

// Normalize devuelve una copia normalizada del filtro.
func (f ProjectListFilter) Normalize() ProjectListFilter {
	return ProjectListFilter{
		Status:    NormalizeEnum(f.Status),
		ManagerID: NormalizeText(f.ManagerID),
		Search:    NormalizeText(f.Search),
	}
}

// InvoiceListFilter filtros crudos del listado de facturas.
type InvoiceListFilter struct {
	Status    *string `query:"status"`
	ProjectID *string `query:"project_id"`
	Search    *string `query:"search"`
}

// Normalize devuelve una copia normalizada del filtro.
func (f InvoiceListFilter) Normalize() InvoiceListFilter {
	return InvoiceListFilter{
		Status:    NormalizeEnum(f.Status),
		ProjectID: NormalizeText(f.ProjectID),
		Search:    NormalizeText(f.Search),
	}
}
