package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/facturx-fr/facturation-api/internal/application/dto"
	"github.com/facturx-fr/facturation-api/internal/application/pdp"
	"github.com/facturx-fr/facturation-api/internal/domain/facture"
	"github.com/facturx-fr/facturation-api/internal/domain/lifecycle"
)

// FactureHandler expose le cycle de vie des factures sur la Plateforme
// Agréée : dépôt, consultation, recherche et progression de statut.
type FactureHandler struct {
	connector pdp.Connector
}

// NewFactureHandler construit le handler.
func NewFactureHandler(connector pdp.Connector) *FactureHandler {
	return &FactureHandler{connector: connector}
}

// Submit dépose une facture.
// POST /api/factures
func (h *FactureHandler) Submit(c *fiber.Ctx) error {
	var in dto.SubmitInvoiceRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "corps de requête invalide"})
	}
	if in.Number == "" || len(in.Lines) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "numéro de facture et au moins une ligne requis"})
	}

	invoice, xmlBytes, pdfBytes, err := in.ToDomain()
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	}

	resp, err := h.connector.Submit(c.Context(), invoice, xmlBytes, pdfBytes)
	if err != nil {
		return renderError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.NewSubmissionResponse(resp))
}

// GetStatus retourne le statut courant d'une facture.
// GET /api/factures/:id/statut
func (h *FactureHandler) GetStatus(c *fiber.Ctx) error {
	id := c.Params("id")
	status, err := h.connector.GetStatus(c.Context(), id)
	if err != nil {
		return renderError(c, err)
	}
	return c.JSON(dto.StatusResponse{
		InvoiceID:  id,
		Status:     string(status),
		StatusName: status.Name(),
		Terminal:   lifecycle.IsTerminal(status),
		Mandatory:  lifecycle.IsMandatory(status),
	})
}

// GetLifecycle retourne l'historique complet du cycle de vie.
// GET /api/factures/:id/cycle-de-vie
func (h *FactureHandler) GetLifecycle(c *fiber.Ctx) error {
	resp, err := h.connector.GetLifecycle(c.Context(), c.Params("id"))
	if err != nil {
		return renderError(c, err)
	}
	return c.JSON(dto.NewLifecycleResponse(resp))
}

// GetXML retourne le XML de la facture.
// GET /api/factures/:id/xml
func (h *FactureHandler) GetXML(c *fiber.Ctx) error {
	xmlBytes, err := h.connector.GetInvoice(c.Context(), c.Params("id"))
	if err != nil {
		return renderError(c, err)
	}
	c.Set(fiber.HeaderContentType, fiber.MIMEApplicationXMLCharsetUTF8)
	return c.Send(xmlBytes)
}

// Search recherche des factures avec filtres et pagination.
// GET /api/factures
func (h *FactureHandler) Search(c *fiber.Ctx) error {
	var q dto.SearchInvoicesQuery
	if err := c.QueryParser(&q); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "paramètres de recherche invalides"})
	}
	filters, err := q.ToFilters()
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	}
	resp, err := h.connector.SearchInvoices(c.Context(), filters)
	if err != nil {
		return renderError(c, err)
	}
	return c.JSON(dto.NewSearchInvoicesResponse(resp))
}

// UpdateStatus fait progresser le cycle de vie d'une facture. Une transition
// illégale répond 409, un motif manquant 422.
// POST /api/factures/:id/statut
func (h *FactureHandler) UpdateStatus(c *fiber.Ctx) error {
	var in dto.UpdateStatusRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "corps de requête invalide"})
	}

	target, err := facture.ParseInvoiceStatus(in.Status)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	}

	resp, err := h.connector.UpdateStatus(c.Context(), c.Params("id"), target, in.TransitionOptions())
	if err != nil {
		return renderError(c, err)
	}
	return c.JSON(dto.StatusUpdateResponse{
		InvoiceID:  resp.InvoiceID,
		Status:     string(resp.Status),
		StatusName: resp.Status.Name(),
		UpdatedAt:  resp.UpdatedAt,
	})
}
