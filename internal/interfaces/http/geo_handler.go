package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/stavbase/stavbase-api/internal/application/geo"
)

// GeoHandler maneja el autocompletado de direcciones (público, con rate limit).
type GeoHandler struct {
	uc *geo.UseCase
}

// NewGeoHandler construye el handler.
func NewGeoHandler(uc *geo.UseCase) *GeoHandler {
	return &GeoHandler{uc: uc}
}

// Suggest devuelve sugerencias de dirección para una consulta parcial.
// GET /api/v1/geo/suggest?q=...&limit=...&lang=...
func (h *GeoHandler) Suggest(c *fiber.Ctx) error {
	query := c.Query("q")
	limit := c.QueryInt("limit")
	lang := c.Query("lang")
	out, err := h.uc.Suggest(c.Context(), query, limit, lang)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(out)
}
