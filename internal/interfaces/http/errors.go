package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/facturx-fr/facturation-api/internal/application/dto"
	"github.com/facturx-fr/facturation-api/internal/application/ereporting"
	"github.com/facturx-fr/facturation-api/internal/application/pdp"
	"github.com/facturx-fr/facturation-api/internal/domain"
	"github.com/facturx-fr/facturation-api/internal/domain/lifecycle"
)

// renderError traduit les erreurs du domaine et du connecteur en réponses
// HTTP : introuvable → 404, transition illégale → 409, motif manquant ou
// données invalides → 422, erreur de transport → 502.
func renderError(c *fiber.Ctx, err error) error {
	var (
		invalidTransition *lifecycle.InvalidTransitionError
		missingReason     *lifecycle.MissingReasonError
		pdpValidation     *pdp.ValidationError
		reportValidation  *ereporting.ValidationError
	)

	switch {
	case errors.Is(err, pdp.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: err.Error()})
	case errors.Is(err, pdp.ErrAuthentication):
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: err.Error()})
	case errors.Is(err, pdp.ErrConnection):
		return c.Status(fiber.StatusBadGateway).JSON(dto.ErrorResponse{Code: "UPSTREAM", Message: err.Error()})
	case errors.As(err, &invalidTransition):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "INVALID_TRANSITION", Message: invalidTransition.Error()})
	case errors.As(err, &missingReason):
		return c.Status(fiber.StatusUnprocessableEntity).JSON(dto.ErrorResponse{Code: "MISSING_REASON", Message: missingReason.Error()})
	case errors.As(err, &pdpValidation):
		return c.Status(fiber.StatusUnprocessableEntity).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: pdpValidation.Message, Errors: pdpValidation.Errors})
	case errors.As(err, &reportValidation):
		return c.Status(fiber.StatusUnprocessableEntity).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: reportValidation.Message, Errors: reportValidation.Errors})
	case errors.Is(err, ereporting.ErrEmptyDeclaration):
		return c.Status(fiber.StatusUnprocessableEntity).JSON(dto.ErrorResponse{Code: "EMPTY_DECLARATION", Message: err.Error()})

	// Erreurs d'autres connecteurs qui enveloppent les sentinelles de domaine
	// sans passer par les types ci-dessus.
	case errors.Is(err, domain.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: err.Error()})
	case errors.Is(err, domain.ErrUnauthorized):
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: err.Error()})
	case errors.Is(err, domain.ErrConflict):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{Code: "CONFLICT", Message: err.Error()})
	case errors.Is(err, domain.ErrInvalidInput):
		return c.Status(fiber.StatusUnprocessableEntity).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
}
