package ereporting

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/facturx-fr/facturation-api/internal/domain/facture"
)

// TaxBreakdown ventilation TVA d'un agrégat : un taux (ou une exonération)
// avec sa base imposable et son montant de taxe.
type TaxBreakdown struct {
	VATRate       *decimal.Decimal // Taux en %, nil si exonéré ou hors champ
	VATExemption  bool
	TaxableAmount decimal.Decimal // Base HT
	VATAmount     decimal.Decimal
}

// TransactionData transaction individuelle soumise au e-reporting (B2C
// domestique, B2B intracommunautaire ou hors UE). Flux 8/9 DGFiP.
type TransactionData struct {
	TransactionID   string
	SellerSIREN     string
	TransactionType facture.EReportingTransactionType

	// Période ou date de facture (au moins l'un des deux)
	PeriodStart   *time.Time
	PeriodEnd     *time.Time
	InvoiceDate   *time.Time
	InvoiceNumber string

	OperationCategory facture.OperationCategory

	TotalExclTax   decimal.Decimal
	VATAmount      decimal.Decimal
	VATRate        *decimal.Decimal // Taux en %, nil si exonéré
	VATExemption   bool
	TaxDueInFrance *decimal.Decimal // Taxe due en France en EUR, si connue

	VATOnDebits bool
	CountryCode string // Obligatoire si transaction internationale
	Currency    string // ISO 4217, "EUR" par défaut
}

// TotalInclTax montant TTC de la transaction.
func (t TransactionData) TotalInclTax() decimal.Decimal {
	return t.TotalExclTax.Add(t.VATAmount)
}

// PaymentData encaissement d'une prestation de services (TVA sur les
// encaissements). Flux 10 DGFiP.
type PaymentData struct {
	PaymentID        string
	SellerSIREN      string
	CashingDate      time.Time
	CashedAmount     decimal.Decimal
	Currency         string
	InvoiceReference string
}

// AggregatedTransactionData totaux de transactions sur une période, ventilés
// par taux de TVA. Flux 9 DGFiP (totaux par SIREN pour le B2C).
type AggregatedTransactionData struct {
	SellerSIREN       string
	PeriodStart       time.Time
	PeriodEnd         time.Time
	OperationCategory facture.OperationCategory
	TaxBreakdowns     []TaxBreakdown
	VATOnDebits       bool
}

// TotalExclTax total HT de l'agrégat.
func (a AggregatedTransactionData) TotalExclTax() decimal.Decimal {
	total := decimal.Zero
	for _, tb := range a.TaxBreakdowns {
		total = total.Add(tb.TaxableAmount)
	}
	return total
}

// TotalVAT total TVA de l'agrégat.
func (a AggregatedTransactionData) TotalVAT() decimal.Decimal {
	total := decimal.Zero
	for _, tb := range a.TaxBreakdowns {
		total = total.Add(tb.VATAmount)
	}
	return total
}

// TotalInclTax total TTC de l'agrégat.
func (a AggregatedTransactionData) TotalInclTax() decimal.Decimal {
	return a.TotalExclTax().Add(a.TotalVAT())
}

// Submission soumission e-reporting validée, prête à être transmise à la
// plateforme agréée. Exactement un des trois blocs de données est renseigné.
type Submission struct {
	SubmissionID     string
	TransmissionMode facture.EReportingTransmissionMode
	Transaction      *TransactionData
	Aggregated       *AggregatedTransactionData
	Payment          *PaymentData
	CreatedAt        time.Time
}

func newSubmission(mode facture.EReportingTransmissionMode) Submission {
	return Submission{
		SubmissionID:     uuid.NewString(),
		TransmissionMode: mode,
		CreatedAt:        time.Now().UTC(),
	}
}

// TransmissionSchedule fréquences de transmission des données de transaction
// et d'encaissement selon le régime de TVA du vendeur.
type TransmissionSchedule struct {
	VATRegime            facture.VATRegime
	TransactionFrequency string
	PaymentFrequency     string // Vide en franchise en base (pas de TVA collectée)
}
