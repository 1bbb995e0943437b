package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/facturx-fr/facturation-api/internal/application/dto"
	"github.com/facturx-fr/facturation-api/internal/infrastructure/cdar"
)

// CDARHandler expose le codec des messages de cycle de vie CDAR
// (XP Z12-012 / UN/CEFACT D22B) : génération d'un message XML depuis sa
// représentation JSON et analyse du XML reçu d'une autre plateforme.
type CDARHandler struct {
	generator *cdar.Generator
	parser    *cdar.Parser
}

// NewCDARHandler construit le handler.
func NewCDARHandler() *CDARHandler {
	return &CDARHandler{
		generator: cdar.NewGenerator(),
		parser:    cdar.NewParser(),
	}
}

// Generate produit le XML CDAR d'un message.
// POST /api/cdar/generer
func (h *CDARHandler) Generate(c *fiber.Ctx) error {
	var in dto.CDARGenerateRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "corps de requête invalide"})
	}
	if in.InvoiceReference == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "invoice_reference requis"})
	}

	msg, err := in.ToDomain()
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	}

	xmlBytes, err := h.generator.Generate(msg)
	if err != nil {
		return renderError(c, err)
	}
	c.Set(fiber.HeaderContentType, fiber.MIMEApplicationXMLCharsetUTF8)
	return c.Send(xmlBytes)
}

// Parse décode un message CDAR XML. Un élément obligatoire manquant ou un
// code statut inconnu répond 422.
// POST /api/cdar/analyser
func (h *CDARHandler) Parse(c *fiber.Ctx) error {
	body := c.Body()
	if len(body) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "document XML requis"})
	}

	msg, err := h.parser.Parse(body)
	if err != nil {
		var structural *cdar.StructuralError
		if errors.As(err, &structural) {
			return c.Status(fiber.StatusUnprocessableEntity).JSON(dto.ErrorResponse{Code: "STRUCTURAL", Message: structural.Error()})
		}
		return c.Status(fiber.StatusUnprocessableEntity).JSON(dto.ErrorResponse{Code: "DECODE", Message: err.Error()})
	}
	return c.JSON(dto.NewCDARMessageResponse(msg))
}
