package http

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/facturx-fr/facturation-api/internal/application/dto"
	"github.com/facturx-fr/facturation-api/pkg/jwt"
)

// Clés Locals pour l'identité de la plateforme appelante.
const (
	LocalPlatformID = "platform_id"
	LocalSIREN      = "siren"
)

// AuthMiddleware valide le Bearer Token JWT et charge l'identifiant de
// plateforme et le SIREN de l'appelant dans c.Locals.
func AuthMiddleware(jwtSecret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "MISSING_TOKEN", Message: "en-tête Authorization requis"})
		}
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "INVALID_TOKEN", Message: "format attendu : Bearer <token>"})
		}
		tokenString := strings.TrimSpace(parts[1])
		if tokenString == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "MISSING_TOKEN", Message: "token vide"})
		}
		platformID, siren, err := jwt.Parse(jwtSecret, tokenString)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "INVALID_TOKEN", Message: "token invalide ou expiré"})
		}
		c.Locals(LocalPlatformID, platformID)
		c.Locals(LocalSIREN, siren)
		return c.Next()
	}
}

// GetPlatformID identifiant de la plateforme appelante (après middleware).
func GetPlatformID(c *fiber.Ctx) string {
	v := c.Locals(LocalPlatformID)
	if v == nil {
		return ""
	}
	s, _ := v.(string)
	return s
}

// GetSIREN SIREN de l'appelant (après middleware).
func GetSIREN(c *fiber.Ctx) string {
	v := c.Locals(LocalSIREN)
	if v == nil {
		return ""
	}
	s, _ := v.(string)
	return s
}
