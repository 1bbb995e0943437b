package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/facturx-fr/facturation-api/internal/application/dto"
	"github.com/facturx-fr/facturation-api/internal/application/pdp"
	"github.com/facturx-fr/facturation-api/pkg/siren"
)

// AnnuaireHandler expose la consultation de l'annuaire central
// (SIREN → plateforme de réception).
type AnnuaireHandler struct {
	connector pdp.Connector
}

// NewAnnuaireHandler construit le handler.
func NewAnnuaireHandler(connector pdp.Connector) *AnnuaireHandler {
	return &AnnuaireHandler{connector: connector}
}

// Lookup consulte l'annuaire pour un SIREN.
// GET /api/annuaire/:siren
func (h *AnnuaireHandler) Lookup(c *fiber.Ctx) error {
	sirenParam := c.Params("siren")
	if err := siren.ValidateSIREN(sirenParam); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	}
	entry, err := h.connector.LookupDirectory(c.Context(), sirenParam)
	if err != nil {
		return renderError(c, err)
	}
	return c.JSON(dto.NewDirectoryEntryResponse(entry))
}
