package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/facturx-fr/facturation-api/internal/application/dto"
	"github.com/facturx-fr/facturation-api/internal/application/ereporting"
	"github.com/facturx-fr/facturation-api/internal/application/pdp"
	"github.com/facturx-fr/facturation-api/internal/domain/facture"
)

// EReportingHandler expose la transmission des données e-reporting au
// concentrateur : transactions, encaissements, statut de soumission et
// calendrier d'échéances. Le Reporter est construit par requête depuis le
// couple (SIREN, régime) du déclarant.
type EReportingHandler struct {
	connector pdp.Connector
}

// NewEReportingHandler construit le handler.
func NewEReportingHandler(connector pdp.Connector) *EReportingHandler {
	return &EReportingHandler{connector: connector}
}

func buildReporter(c *fiber.Ctx, sellerSIREN, regimeCode string) (*ereporting.Reporter, error) {
	regime, err := facture.ParseVATRegime(regimeCode)
	if err != nil {
		return nil, c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	}
	reporter, err := ereporting.NewReporter(sellerSIREN, regime)
	if err != nil {
		return nil, c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	}
	return reporter, nil
}

// SubmitTransaction valide et soumet une transaction individuelle.
// POST /api/ereporting/transactions
func (h *EReportingHandler) SubmitTransaction(c *fiber.Ctx) error {
	var in dto.EReportingTransactionRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "corps de requête invalide"})
	}

	reporter, errResp := buildReporter(c, in.SellerSIREN, in.VATRegime)
	if reporter == nil {
		return errResp
	}

	txn, err := in.ToDomain()
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	}

	submission, err := reporter.PrepareTransaction(txn)
	if err != nil {
		return renderError(c, err)
	}

	resp, err := h.connector.SubmitEReportingTransaction(c.Context(), submission)
	if err != nil {
		return renderError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.NewEReportingSubmissionResponse(resp))
}

// SubmitPayment valide et soumet un encaissement.
// POST /api/ereporting/paiements
func (h *EReportingHandler) SubmitPayment(c *fiber.Ctx) error {
	var in dto.EReportingPaymentRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "corps de requête invalide"})
	}

	reporter, errResp := buildReporter(c, in.SellerSIREN, in.VATRegime)
	if reporter == nil {
		return errResp
	}

	payment, err := in.ToDomain()
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	}

	submission, err := reporter.PreparePayment(payment)
	if err != nil {
		return renderError(c, err)
	}

	resp, err := h.connector.SubmitEReportingPayment(c.Context(), submission)
	if err != nil {
		return renderError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.NewEReportingSubmissionResponse(resp))
}

// GetSubmissionStatus retourne le statut de traitement d'une soumission.
// GET /api/ereporting/soumissions/:id
func (h *EReportingHandler) GetSubmissionStatus(c *fiber.Ctx) error {
	resp, err := h.connector.GetEReportingStatus(c.Context(), c.Params("id"))
	if err != nil {
		return renderError(c, err)
	}
	return c.JSON(dto.NewEReportingSubmissionResponse(resp))
}

// GetSchedule retourne le calendrier de transmission du déclarant et ses
// prochaines échéances depuis la date de référence (aujourd'hui par défaut).
// GET /api/ereporting/calendrier
func (h *EReportingHandler) GetSchedule(c *fiber.Ctx) error {
	var q dto.ScheduleQuery
	if err := c.QueryParser(&q); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "paramètres invalides"})
	}

	reporter, errResp := buildReporter(c, q.SellerSIREN, q.VATRegime)
	if reporter == nil {
		return errResp
	}

	ref := time.Now().UTC()
	if q.ReferenceDate != "" {
		parsed, err := time.Parse("2006-01-02", q.ReferenceDate)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "reference_date : format attendu AAAA-MM-JJ"})
		}
		ref = parsed
	}

	schedule := reporter.GetTransmissionSchedule()
	resp := dto.ScheduleResponse{
		VATRegime:               string(schedule.VATRegime),
		TransactionFrequency:    schedule.TransactionFrequency,
		PaymentFrequency:        schedule.PaymentFrequency,
		NextTransactionDeadline: reporter.NextTransactionDeadline(ref).Format("2006-01-02"),
	}
	if deadline := reporter.NextPaymentDeadline(ref); deadline != nil {
		resp.NextPaymentDeadline = deadline.Format("2006-01-02")
	}
	return c.JSON(resp)
}
