package facture_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/facturx-fr/facturation-api/internal/domain/facture"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func sampleInvoice() facture.Invoice {
	return facture.Invoice{
		Number:            "FA-2026-042",
		IssueDate:         time.Date(2026, 9, 15, 0, 0, 0, 0, time.UTC),
		TypeCode:          facture.TypeInvoice,
		Currency:          "EUR",
		OperationCategory: facture.OperationDelivery,
		Seller: facture.Party{
			Name:  "OptiPaulo SARL",
			SIREN: "123456789",
		},
		Buyer: facture.Party{
			Name:  "LunettesPlus SA",
			SIREN: "987654321",
		},
		Lines: []facture.InvoiceLine{
			{
				Description: "Monture Ray-Ban Aviator",
				Quantity:    d("10"),
				Unit:        facture.UnitPiece,
				UnitPrice:   d("85.00"),
				VATRate:     d("20.0"),
				VATCategory: facture.VATStandard,
			},
			{
				Description: "Verres progressifs",
				Quantity:    d("10"),
				Unit:        facture.UnitPiece,
				UnitPrice:   d("35.00"),
				VATRate:     d("20.0"),
				VATCategory: facture.VATStandard,
			},
		},
	}
}

func TestLigne_TotalHT(t *testing.T) {
	t.Run("quantité × prix", func(t *testing.T) {
		l := facture.InvoiceLine{Quantity: d("10"), UnitPrice: d("85.00")}
		assert.True(t, l.TotalExclTax().Equal(d("850.00")))
	})

	t.Run("remise et majoration", func(t *testing.T) {
		l := facture.InvoiceLine{
			Quantity:       d("10"),
			UnitPrice:      d("85.00"),
			DiscountAmount: d("50.00"),
			ChargeAmount:   d("12.50"),
		}
		assert.True(t, l.TotalExclTax().Equal(d("812.50")))
	})

	t.Run("ligne de déduction négative", func(t *testing.T) {
		l := facture.InvoiceLine{Quantity: d("-1"), UnitPrice: d("200.00")}
		assert.True(t, l.TotalExclTax().Equal(d("-200.00")))
	})
}

func TestLigne_TVAArrondieAuCentime(t *testing.T) {
	// 3 × 9.99 = 29.97 ; 29.97 × 5.5 % = 1.64835 → 1.65
	l := facture.InvoiceLine{Quantity: d("3"), UnitPrice: d("9.99"), VATRate: d("5.5")}
	assert.Equal(t, "1.65", l.VATAmount().String())
	assert.True(t, l.TotalInclTax().Equal(d("31.62")))
}

func TestFacture_Totaux(t *testing.T) {
	inv := sampleInvoice()

	assert.True(t, inv.TotalExclTax().Equal(d("1200.00")))
	assert.True(t, inv.TotalVAT().Equal(d("240.00")))
	assert.True(t, inv.TotalInclTax().Equal(d("1440.00")))
}

func TestFacture_MontantAPayer(t *testing.T) {
	inv := sampleInvoice()

	t.Run("sans acompte", func(t *testing.T) {
		assert.True(t, inv.AmountDue().Equal(d("1440.00")))
	})

	t.Run("acompte déduit", func(t *testing.T) {
		paid := inv
		paid.PrepaidAmount = d("500.00")
		assert.True(t, paid.AmountDue().Equal(d("940.00")))
	})

	t.Run("retenue de garantie 5%", func(t *testing.T) {
		retained := inv
		retained.PrepaidAmount = d("72.00")
		assert.True(t, retained.AmountDue().Equal(d("1368.00")))
	})
}

func TestFacture_RecapitulatifsTVA(t *testing.T) {
	inv := sampleInvoice()
	inv.Lines = append(inv.Lines,
		facture.InvoiceLine{
			Description: "Livres d'optique",
			Quantity:    d("2"),
			UnitPrice:   d("25.00"),
			VATRate:     d("5.5"),
			VATCategory: facture.VATStandard,
		},
		facture.InvoiceLine{
			Description:        "Formation ajustage",
			Quantity:           d("1"),
			UnitPrice:          d("300.00"),
			VATRate:            decimal.Zero,
			VATCategory:        facture.VATExempt,
			VATExemptionReason: "Exonération art. 261-4-4° du CGI",
			VATExemptionCode:   "VATEX-FR-CGI261-4-4",
		},
	)

	summaries := inv.TaxSummaries()
	require.Len(t, summaries, 3, "un récapitulatif par couple (catégorie, taux)")

	// Tri : catégorie E avant S, puis taux croissant.
	assert.Equal(t, facture.VATExempt, summaries[0].VATCategory)
	assert.Equal(t, "Exonération art. 261-4-4° du CGI", summaries[0].VATExemptionReason)
	assert.Equal(t, "VATEX-FR-CGI261-4-4", summaries[0].VATExemptionCode)
	assert.True(t, summaries[0].TaxableAmount.Equal(d("300.00")))
	assert.True(t, summaries[0].TaxAmount.IsZero())

	assert.Equal(t, facture.VATStandard, summaries[1].VATCategory)
	assert.True(t, summaries[1].VATRate.Equal(d("5.5")))
	assert.True(t, summaries[1].TaxableAmount.Equal(d("50.00")))
	assert.Equal(t, "2.75", summaries[1].TaxAmount.String())

	// Les deux lignes à 20 % sont agrégées dans un seul récapitulatif.
	assert.Equal(t, facture.VATStandard, summaries[2].VATCategory)
	assert.True(t, summaries[2].VATRate.Equal(d("20.0")))
	assert.True(t, summaries[2].TaxableAmount.Equal(d("1200.00")))
	assert.True(t, summaries[2].TaxAmount.Equal(d("240.00")))
}

func TestConditionsDePaiement(t *testing.T) {
	due := time.Date(2026, 10, 15, 0, 0, 0, 0, time.UTC)
	inv := sampleInvoice()
	inv.DueDate = &due
	inv.PaymentTerms = &facture.PaymentTerms{
		Description:     "30 jours fin de mois",
		LatePenaltyRate: d("10.0"),
		EarlyDiscount:   "Néant",
		RecoveryFee:     facture.DefaultRecoveryFee,
	}
	inv.PaymentMeans = &facture.PaymentMeans{
		Code: facture.PaymentSEPATransfer,
		BankAccount: &facture.BankAccount{
			IBAN: "FR7630006000011234567890189",
			BIC:  "AGRIFRPP",
		},
	}

	assert.True(t, inv.PaymentTerms.RecoveryFee.Equal(d("40")),
		"indemnité forfaitaire légale de recouvrement")
	assert.Equal(t, facture.PaymentSEPATransfer, inv.PaymentMeans.Code)
	assert.Equal(t, "FR7630006000011234567890189", inv.PaymentMeans.BankAccount.IBAN)
}
