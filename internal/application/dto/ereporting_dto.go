package dto

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/facturx-fr/facturation-api/internal/application/ereporting"
	"github.com/facturx-fr/facturation-api/internal/application/pdp"
	"github.com/facturx-fr/facturation-api/internal/domain/facture"
)

// EReportingTransactionRequest body pour POST /api/ereporting/transactions.
// Le couple SIREN + régime identifie le déclarant.
type EReportingTransactionRequest struct {
	SellerSIREN string `json:"seller_siren"`
	VATRegime   string `json:"vat_regime"`

	TransactionType   string           `json:"transaction_type"`
	InvoiceDate       string           `json:"invoice_date,omitempty"` // AAAA-MM-JJ
	PeriodStart       string           `json:"period_start,omitempty"`
	PeriodEnd         string           `json:"period_end,omitempty"`
	InvoiceNumber     string           `json:"invoice_number,omitempty"`
	OperationCategory string           `json:"operation_category"`
	TotalExclTax      decimal.Decimal  `json:"total_excl_tax"`
	VATAmount         decimal.Decimal  `json:"vat_amount"`
	VATRate           *decimal.Decimal `json:"vat_rate,omitempty"`
	VATExemption      bool             `json:"vat_exemption,omitempty"`
	VATOnDebits       bool             `json:"vat_on_debits,omitempty"`
	CountryCode       string           `json:"country_code,omitempty"`
	Currency          string           `json:"currency,omitempty"`
}

// ToDomain convertit la requête en données de transaction.
func (r EReportingTransactionRequest) ToDomain() (ereporting.TransactionData, error) {
	currency := r.Currency
	if currency == "" {
		currency = "EUR"
	}
	txn := ereporting.TransactionData{
		SellerSIREN:       r.SellerSIREN,
		TransactionType:   facture.EReportingTransactionType(r.TransactionType),
		InvoiceNumber:     r.InvoiceNumber,
		OperationCategory: facture.OperationCategory(r.OperationCategory),
		TotalExclTax:      r.TotalExclTax,
		VATAmount:         r.VATAmount,
		VATRate:           r.VATRate,
		VATExemption:      r.VATExemption,
		VATOnDebits:       r.VATOnDebits,
		CountryCode:       r.CountryCode,
		Currency:          currency,
	}

	var err error
	if txn.InvoiceDate, err = parseOptionalDate("invoice_date", r.InvoiceDate); err != nil {
		return ereporting.TransactionData{}, err
	}
	if txn.PeriodStart, err = parseOptionalDate("period_start", r.PeriodStart); err != nil {
		return ereporting.TransactionData{}, err
	}
	if txn.PeriodEnd, err = parseOptionalDate("period_end", r.PeriodEnd); err != nil {
		return ereporting.TransactionData{}, err
	}
	return txn, nil
}

// EReportingPaymentRequest body pour POST /api/ereporting/paiements.
type EReportingPaymentRequest struct {
	SellerSIREN      string          `json:"seller_siren"`
	VATRegime        string          `json:"vat_regime"`
	CashingDate      string          `json:"cashing_date"` // AAAA-MM-JJ
	CashedAmount     decimal.Decimal `json:"cashed_amount"`
	Currency         string          `json:"currency,omitempty"`
	InvoiceReference string          `json:"invoice_reference"`
}

// ToDomain convertit la requête en données d'encaissement.
func (r EReportingPaymentRequest) ToDomain() (ereporting.PaymentData, error) {
	cashingDate, err := time.Parse(dateLayout, r.CashingDate)
	if err != nil {
		return ereporting.PaymentData{}, fmt.Errorf("cashing_date : format attendu AAAA-MM-JJ : %w", err)
	}
	currency := r.Currency
	if currency == "" {
		currency = "EUR"
	}
	return ereporting.PaymentData{
		SellerSIREN:      r.SellerSIREN,
		CashingDate:      cashingDate,
		CashedAmount:     r.CashedAmount,
		Currency:         currency,
		InvoiceReference: r.InvoiceReference,
	}, nil
}

// EReportingSubmissionResponse réponse de soumission e-reporting.
type EReportingSubmissionResponse struct {
	SubmissionID string    `json:"submission_id"`
	Status       string    `json:"status"`
	SubmittedAt  time.Time `json:"submitted_at"`
	Errors       []string  `json:"errors,omitempty"`
}

// NewEReportingSubmissionResponse construit la réponse depuis la réponse
// connecteur.
func NewEReportingSubmissionResponse(resp pdp.EReportingSubmissionResponse) EReportingSubmissionResponse {
	return EReportingSubmissionResponse{
		SubmissionID: resp.SubmissionID,
		Status:       resp.Status,
		SubmittedAt:  resp.SubmittedAt,
		Errors:       resp.Errors,
	}
}

// ScheduleQuery paramètres de GET /api/ereporting/calendrier.
type ScheduleQuery struct {
	SellerSIREN   string `query:"seller_siren"`
	VATRegime     string `query:"vat_regime"`
	ReferenceDate string `query:"reference_date"` // AAAA-MM-JJ, aujourd'hui par défaut
}

// ScheduleResponse calendrier de transmission et prochaines échéances.
type ScheduleResponse struct {
	VATRegime               string `json:"vat_regime"`
	TransactionFrequency    string `json:"transaction_frequency"`
	PaymentFrequency        string `json:"payment_frequency,omitempty"`
	NextTransactionDeadline string `json:"next_transaction_deadline"`
	NextPaymentDeadline     string `json:"next_payment_deadline,omitempty"`
}

func parseOptionalDate(field, value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	d, err := time.Parse(dateLayout, value)
	if err != nil {
		return nil, fmt.Errorf("%s : format attendu AAAA-MM-JJ : %w", field, err)
	}
	return &d, nil
}
