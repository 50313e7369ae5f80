package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/stavbase/stavbase-api/internal/application/dto"
	"github.com/stavbase/stavbase-api/internal/application/registration"
	"github.com/stavbase/stavbase-api/internal/domain"
)

// RegistrationHandler maneja el alta de empresas y la consulta al registro mercantil (público).
type RegistrationHandler struct {
	uc *registration.UseCase
}

// NewRegistrationHandler construye el handler.
func NewRegistrationHandler(uc *registration.UseCase) *RegistrationHandler {
	return &RegistrationHandler{uc: uc}
}

// Register crea empresa + usuario inicial + membresía OWNER en una transacción.
// POST /api/v1/companies/register
func (h *RegistrationHandler) Register(c *fiber.Ctx) error {
	var in dto.RegisterCompanyRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.Register(c.Context(), in)
	if err != nil {
		if errors.Is(err, domain.ErrDuplicate) {
			return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "DUPLICATE", Message: "IČO o email ya registrado"})
		}
		return fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// LookupRegistry consulta los datos de la empresa en ARES por IČO.
// GET /api/companies/lookup/ares?ico=
func (h *RegistrationHandler) LookupRegistry(c *fiber.Ctx) error {
	ico := c.Query("ico")
	out, err := h.uc.LookupRegistry(c.Context(), ico)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "IČO no encontrado en el registro"})
		}
		return fail(c, err)
	}
	return c.JSON(out)
}
