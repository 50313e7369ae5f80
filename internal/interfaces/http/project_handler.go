package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/stavbase/stavbase-api/internal/application/dto"
	"github.com/stavbase/stavbase-api/internal/application/projects"
)

// ProjectHandler maneja los proyectos de obra (protegido).
type ProjectHandler struct {
	uc *projects.UseCase
}

// NewProjectHandler construye el handler.
func NewProjectHandler(uc *projects.UseCase) *ProjectHandler {
	return &ProjectHandler{uc: uc}
}

// Create crea un proyecto con su traducción inicial.
// POST /api/projects (ADMIN+)
func (h *ProjectHandler) Create(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return unauthorized(c)
	}
	var in dto.CreateProjectRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.Create(companyID, in)
	if err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetByID obtiene un proyecto con sus traducciones.
// GET /api/projects/:id
func (h *ProjectHandler) GetByID(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return unauthorized(c)
	}
	out, err := h.uc.GetByID(companyID, c.Params("id"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(out)
}

// List lista proyectos con filtros y paginación.
// GET /api/projects
func (h *ProjectHandler) List(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return unauthorized(c)
	}
	var filter dto.ProjectListFilter
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

// Update actualiza código y jefe de obra.
// PUT /api/projects/:id (ADMIN+)
func (h *ProjectHandler) Update(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return unauthorized(c)
	}
	var in dto.UpdateProjectRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.Update(companyID, c.Params("id"), in)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(out)
}

// Archive archiva el proyecto.
// POST /api/projects/:id/archive (ADMIN+)
func (h *ProjectHandler) Archive(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return unauthorized(c)
	}
	if err := h.uc.Archive(companyID, c.Params("id")); err != nil {
		return fail(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Unarchive reactiva un proyecto archivado.
// POST /api/projects/:id/unarchive (ADMIN+)
func (h *ProjectHandler) Unarchive(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return unauthorized(c)
	}
	if err := h.uc.Unarchive(companyID, c.Params("id")); err != nil {
		return fail(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// UpsertTranslation inserta o actualiza la traducción del proyecto para un locale.
// PUT /api/projects/:id/translations/:locale
func (h *ProjectHandler) UpsertTranslation(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return unauthorized(c)
	}
	var in dto.UpsertProjectTranslationRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	if err := h.uc.UpsertTranslation(companyID, c.Params("id"), c.Params("locale"), in); err != nil {
		return fail(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
