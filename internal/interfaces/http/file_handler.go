package http

import (
	"io"

	"github.com/gofiber/fiber/v2"
	"github.com/stavbase/stavbase-api/internal/application/dto"
	"github.com/stavbase/stavbase-api/internal/application/files"
)

// Límite de tamaño de archivo subido (25 MB).
const maxUploadSize = 25 << 20

// FileHandler maneja los archivos adjuntos (protegido).
type FileHandler struct {
	uc *files.UseCase
}

// NewFileHandler construye el handler.
func NewFileHandler(uc *files.UseCase) *FileHandler {
	return &FileHandler{uc: uc}
}

// Upload sube un archivo multipart y registra sus metadatos.
// POST /api/files
func (h *FileHandler) Upload(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	userID := GetUserID(c)
	if companyID == "" || userID == "" {
		return unauthorized(c)
	}
	fh, err := c.FormFile("file")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "campo multipart 'file' requerido"})
	}
	if fh.Size > maxUploadSize {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "archivo demasiado grande"})
	}
	src, err := fh.Open()
	if err != nil {
		return fail(c, err)
	}
	defer src.Close()
	content, err := io.ReadAll(src)
	if err != nil {
		return fail(c, err)
	}
	mimeType := fh.Header.Get("Content-Type")
	if mimeType == "" {
		mimeType = "application/octet-stream"
	}
	out, err := h.uc.Upload(c.Context(), companyID, userID, fh.Filename, mimeType, content)
	if err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetByID devuelve los metadatos del archivo.
// GET /api/files/:id
func (h *FileHandler) GetByID(c *fiber.Ctx) error {
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

// List lista los archivos de la empresa con paginación.
// GET /api/files
func (h *FileHandler) List(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return unauthorized(c)
	}
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return badBody(c)
	}
	out, err := h.uc.List(companyID, page)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(out)
}

// Download devuelve el contenido del archivo.
// GET /api/files/:id/download
func (h *FileHandler) Download(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return unauthorized(c)
	}
	meta, content, err := h.uc.Download(c.Context(), companyID, c.Params("id"))
	if err != nil {
		return fail(c, err)
	}
	c.Set(fiber.HeaderContentType, meta.MimeType)
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+meta.OriginalName+`"`)
	return c.Send(content)
}

// Delete elimina el archivo y su objeto almacenado.
// DELETE /api/files/:id (ADMIN+)
func (h *FileHandler) Delete(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return unauthorized(c)
	}
	if err := h.uc.Delete(c.Context(), companyID, c.Params("id")); err != nil {
		return fail(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// SetTags reemplaza las etiquetas del archivo.
// PUT /api/files/:id/tags
func (h *FileHandler) SetTags(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return unauthorized(c)
	}
	var in dto.SetFileTagsRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	if err := h.uc.SetTags(companyID, c.Params("id"), in.Tags); err != nil {
		return fail(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Link vincula el archivo a un proyecto, cliente o factura del tenant.
// POST /api/files/:id/links
func (h *FileHandler) Link(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return unauthorized(c)
	}
	var in dto.LinkFileRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	if err := h.uc.Link(companyID, c.Params("id"), in); err != nil {
		return fail(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Unlink elimina un vínculo concreto.
// DELETE /api/files/:id/links/:targetType/:targetId
func (h *FileHandler) Unlink(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return unauthorized(c)
	}
	if err := h.uc.Unlink(companyID, c.Params("id"), c.Params("targetType"), c.Params("targetId")); err != nil {
		return fail(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// ListByTarget lista los archivos vinculados a un destino.
// GET /api/files/by-target/:targetType/:targetId
func (h *FileHandler) ListByTarget(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return unauthorized(c)
	}
	items, err := h.uc.ListByTarget(companyID, c.Params("targetType"), c.Params("targetId"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"items": items})
}
