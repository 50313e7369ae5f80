package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/stavbase/stavbase-api/internal/application/company"
	"github.com/stavbase/stavbase-api/internal/application/dto"
)

// CompanyHandler maneja el perfil de la empresa del caller (protegido).
type CompanyHandler struct {
	uc *company.UseCase
}

// NewCompanyHandler construye el handler.
func NewCompanyHandler(uc *company.UseCase) *CompanyHandler {
	return &CompanyHandler{uc: uc}
}

// Get devuelve el perfil de la empresa del token.
// GET /api/company
func (h *CompanyHandler) Get(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return unauthorized(c)
	}
	out, err := h.uc.Get(companyID)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(out)
}

// Update actualiza el perfil de la empresa (el IČO es inmutable).
// PUT /api/company (ADMIN+)
func (h *CompanyHandler) Update(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return unauthorized(c)
	}
	var in dto.UpdateCompanyRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.Update(companyID, in)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(out)
}

// SyncFromRegistry refresca los datos de la empresa desde ARES.
// POST /api/company/sync-registry (ADMIN+)
func (h *CompanyHandler) SyncFromRegistry(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return unauthorized(c)
	}
	out, err := h.uc.SyncFromRegistry(c.Context(), companyID)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(out)
}
