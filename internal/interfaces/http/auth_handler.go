package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/stavbase/stavbase-api/internal/application/auth"
	"github.com/stavbase/stavbase-api/internal/application/dto"
)

// AuthHandler maneja login, refresh y logout.
type AuthHandler struct {
	uc *auth.UseCase
}

// NewAuthHandler construye el handler.
func NewAuthHandler(uc *auth.UseCase) *AuthHandler {
	return &AuthHandler{uc: uc}
}

// Login autentica con email y contraseña, devuelve access + refresh token.
// POST /api/auth/login
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var in dto.LoginRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.Login(in)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(out)
}

// Refresh rota el refresh token y emite un access token nuevo.
// POST /api/auth/refresh
func (h *AuthHandler) Refresh(c *fiber.Ctx) error {
	var in dto.RefreshRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.Refresh(in)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(out)
}

// Logout invalida la sesión vigente (refresh token y versión de tokens).
// POST /api/auth/logout (protegido)
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	userID := GetUserID(c)
	if userID == "" {
		return unauthorized(c)
	}
	if err := h.uc.Logout(userID); err != nil {
		return fail(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
