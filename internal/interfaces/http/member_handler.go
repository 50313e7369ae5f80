package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/stavbase/stavbase-api/internal/application/dto"
	"github.com/stavbase/stavbase-api/internal/application/members"
	"github.com/stavbase/stavbase-api/internal/domain"
)

// MemberHandler maneja el equipo de la empresa (protegido).
type MemberHandler struct {
	uc *members.UseCase
}

// NewMemberHandler construye el handler.
func NewMemberHandler(uc *members.UseCase) *MemberHandler {
	return &MemberHandler{uc: uc}
}

// Add invita a un usuario: lo crea en estado INVITED con su membresía.
// POST /api/members (ADMIN+)
func (h *MemberHandler) Add(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return unauthorized(c)
	}
	var in dto.AddMemberRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.Add(c.Context(), companyID, in)
	if err != nil {
		if errors.Is(err, domain.ErrDuplicate) {
			return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "DUPLICATE", Message: "el email ya pertenece a un usuario"})
		}
		return fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// List lista el equipo con filtros, paginación y agregados.
// GET /api/members
func (h *MemberHandler) List(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return unauthorized(c)
	}
	var filter dto.MemberListFilter
	if err := c.QueryParser(&filter); err != nil {
		return badBody(c)
	}
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return badBody(c)
	}
	out, err := h.uc.List(companyID, filter, page)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(out)
}

// UpdateRole cambia el rol de un miembro (protección de último OWNER).
// PUT /api/members/:userId/role (ADMIN+)
func (h *MemberHandler) UpdateRole(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return unauthorized(c)
	}
	var in dto.UpdateMemberRoleRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	if err := h.uc.UpdateRole(c.Context(), companyID, c.Params("userId"), in.Role); err != nil {
		return fail(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Remove quita la membresía (protección de último OWNER).
// DELETE /api/members/:userId (ADMIN+)
func (h *MemberHandler) Remove(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return unauthorized(c)
	}
	if err := h.uc.Remove(c.Context(), companyID, c.Params("userId")); err != nil {
		return fail(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Archive archiva la membresía sin borrarla.
// POST /api/members/:userId/archive (ADMIN+)
func (h *MemberHandler) Archive(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return unauthorized(c)
	}
	if err := h.uc.Archive(c.Context(), companyID, c.Params("userId")); err != nil {
		return fail(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Unarchive reactiva una membresía archivada.
// POST /api/members/:userId/unarchive (ADMIN+)
func (h *MemberHandler) Unarchive(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return unauthorized(c)
	}
	if err := h.uc.Unarchive(c.Context(), companyID, c.Params("userId")); err != nil {
		return fail(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
