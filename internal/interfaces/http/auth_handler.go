package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/facturx-fr/facturation-api/internal/application/dto"
	"github.com/facturx-fr/facturation-api/pkg/jwt"
	"github.com/facturx-fr/facturation-api/pkg/siren"
)

// AuthConfig paramètres d'émission des jetons d'accès.
type AuthConfig struct {
	Secret      string
	Issuer      string
	ExpMinutes  int
	Environment string // l'émission directe n'est ouverte qu'en "sandbox"
}

// AuthHandler émet des jetons d'accès à l'API plateforme. En production,
// l'émission passe par l'immatriculation DGFiP des plateformes ; l'endpoint
// direct n'est disponible qu'en environnement sandbox.
type AuthHandler struct {
	cfg AuthConfig
}

// NewAuthHandler construit le handler.
func NewAuthHandler(cfg AuthConfig) *AuthHandler {
	return &AuthHandler{cfg: cfg}
}

// TokenRequest body pour POST /api/auth/token.
type TokenRequest struct {
	PlatformID string `json:"platform_id"`
	SIREN      string `json:"siren"`
}

// TokenResponse jeton émis.
type TokenResponse struct {
	Token     string `json:"token"`
	TokenType string `json:"token_type"`
	ExpiresIn int    `json:"expires_in"` // secondes
}

// Token émet un jeton pour une plateforme en environnement sandbox.
// POST /api/auth/token
func (h *AuthHandler) Token(c *fiber.Ctx) error {
	if h.cfg.Environment != "sandbox" {
		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{Code: "FORBIDDEN", Message: "émission directe de jetons réservée à l'environnement sandbox"})
	}

	var in TokenRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "corps de requête invalide"})
	}
	if in.PlatformID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "platform_id requis"})
	}
	if err := siren.ValidateSIREN(in.SIREN); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	}

	token, err := jwt.Generate(h.cfg.Secret, in.PlatformID, in.SIREN, h.cfg.Issuer, h.cfg.ExpMinutes)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	return c.JSON(TokenResponse{
		Token:     token,
		TokenType: "Bearer",
		ExpiresIn: h.cfg.ExpMinutes * 60,
	})
}
