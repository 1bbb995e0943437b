package ereporting_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/facturx-fr/facturation-api/internal/application/ereporting"
	"github.com/facturx-fr/facturation-api/internal/domain/facture"
)

func dateOf(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

func datePtr(year int, month time.Month, day int) *time.Time {
	d := dateOf(year, month, day)
	return &d
}

func ratePtr(s string) *decimal.Decimal {
	r := decimal.RequireFromString(s)
	return &r
}

func newMonthlyReporter(t *testing.T) *ereporting.Reporter {
	t.Helper()
	r, err := ereporting.NewReporter("123456789", facture.RegimeRealNormalMonthly)
	require.NoError(t, err)
	return r
}

func newFranchiseReporter(t *testing.T) *ereporting.Reporter {
	t.Helper()
	r, err := ereporting.NewReporter("123456789", facture.RegimeFranchise)
	require.NoError(t, err)
	return r
}

func sampleTransaction() ereporting.TransactionData {
	return ereporting.TransactionData{
		SellerSIREN:       "123456789",
		TransactionType:   facture.TransactionB2CDomestic,
		InvoiceDate:       datePtr(2026, time.September, 15),
		InvoiceNumber:     "FA-B2C-001",
		OperationCategory: facture.OperationDelivery,
		TotalExclTax:      decimal.RequireFromString("100.00"),
		VATAmount:         decimal.RequireFromString("20.00"),
		VATRate:           ratePtr("20.0"),
	}
}

func samplePayment() ereporting.PaymentData {
	return ereporting.PaymentData{
		SellerSIREN:      "123456789",
		CashingDate:      dateOf(2026, time.October, 1),
		CashedAmount:     decimal.RequireFromString("120.00"),
		InvoiceReference: "FA-2026-042",
	}
}

func sampleAggregated() ereporting.AggregatedTransactionData {
	return ereporting.AggregatedTransactionData{
		SellerSIREN:       "123456789",
		PeriodStart:       dateOf(2026, time.September, 1),
		PeriodEnd:         dateOf(2026, time.September, 30),
		OperationCategory: facture.OperationDelivery,
		TaxBreakdowns: []ereporting.TaxBreakdown{
			{
				VATRate:       ratePtr("20.0"),
				TaxableAmount: decimal.RequireFromString("1000.00"),
				VATAmount:     decimal.RequireFromString("200.00"),
			},
			{
				VATRate:       ratePtr("5.5"),
				TaxableAmount: decimal.RequireFromString("500.00"),
				VATAmount:     decimal.RequireFromString("27.50"),
			},
		},
	}
}

func TestNewReporter(t *testing.T) {
	t.Run("SIREN valide", func(t *testing.T) {
		r, err := ereporting.NewReporter("123456789", facture.RegimeRealNormalMonthly)
		require.NoError(t, err)
		assert.Equal(t, "123456789", r.SellerSIREN())
		assert.Equal(t, facture.RegimeRealNormalMonthly, r.VATRegime())
	})

	t.Run("SIREN trop court", func(t *testing.T) {
		_, err := ereporting.NewReporter("12345", facture.RegimeFranchise)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "SIREN invalide")
	})

	t.Run("SIREN non numérique", func(t *testing.T) {
		_, err := ereporting.NewReporter("12345678A", facture.RegimeFranchise)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "SIREN invalide")
	})
}

func TestValidateTransaction(t *testing.T) {
	r := newMonthlyReporter(t)

	t.Run("B2C valide", func(t *testing.T) {
		assert.Empty(t, r.ValidateTransaction(sampleTransaction()))
	})

	t.Run("internationale valide", func(t *testing.T) {
		txn := ereporting.TransactionData{
			SellerSIREN:       "123456789",
			TransactionType:   facture.TransactionB2BIntraEU,
			InvoiceDate:       datePtr(2026, time.September, 20),
			InvoiceNumber:     "FA-EU-001",
			OperationCategory: facture.OperationDelivery,
			TotalExclTax:      decimal.RequireFromString("500.00"),
			VATAmount:         decimal.RequireFromString("0.00"),
			VATRate:           ratePtr("0.0"),
			CountryCode:       "DE",
		}
		assert.Empty(t, r.ValidateTransaction(txn))
	})

	t.Run("pays manquant pour internationale", func(t *testing.T) {
		txn := sampleTransaction()
		txn.TransactionType = facture.TransactionB2BIntraEU
		txn.VATRate = ratePtr("0.0")
		errs := r.ValidateTransaction(txn)
		require.Len(t, errs, 1)
		assert.Contains(t, errs[0], "pays obligatoire")
	})

	t.Run("pays FR pour internationale", func(t *testing.T) {
		txn := sampleTransaction()
		txn.TransactionType = facture.TransactionB2BExtraEU
		txn.CountryCode = "FR"
		errs := r.ValidateTransaction(txn)
		require.Len(t, errs, 1)
		assert.Contains(t, errs[0], "FR")
	})

	t.Run("SIREN différent du déclarant", func(t *testing.T) {
		txn := sampleTransaction()
		txn.SellerSIREN = "999999999"
		errs := r.ValidateTransaction(txn)
		require.Len(t, errs, 1)
		assert.Contains(t, errs[0], "SIREN")
	})

	t.Run("ni date ni période", func(t *testing.T) {
		txn := sampleTransaction()
		txn.InvoiceDate = nil
		errs := r.ValidateTransaction(txn)
		require.Len(t, errs, 1)
		assert.Contains(t, errs[0], "Date")
	})

	t.Run("période sans date de facture", func(t *testing.T) {
		txn := sampleTransaction()
		txn.InvoiceDate = nil
		txn.PeriodStart = datePtr(2026, time.September, 1)
		txn.PeriodEnd = datePtr(2026, time.September, 30)
		assert.Empty(t, r.ValidateTransaction(txn))
	})

	t.Run("ni taux ni exonération", func(t *testing.T) {
		txn := sampleTransaction()
		txn.VATRate = nil
		errs := r.ValidateTransaction(txn)
		require.Len(t, errs, 1)
		assert.Contains(t, errs[0], "TVA")
	})

	t.Run("exonération sans taux", func(t *testing.T) {
		txn := sampleTransaction()
		txn.VATRate = nil
		txn.VATExemption = true
		assert.Empty(t, r.ValidateTransaction(txn))
	})

	t.Run("violations cumulées", func(t *testing.T) {
		txn := ereporting.TransactionData{
			SellerSIREN:       "999999999",
			TransactionType:   facture.TransactionB2BIntraEU,
			OperationCategory: facture.OperationDelivery,
			TotalExclTax:      decimal.RequireFromString("100.00"),
		}
		errs := r.ValidateTransaction(txn)
		assert.Len(t, errs, 4, "toutes les violations doivent être accumulées")
	})
}

func TestValidatePayment(t *testing.T) {
	r := newMonthlyReporter(t)

	t.Run("encaissement valide", func(t *testing.T) {
		assert.Empty(t, r.ValidatePayment(samplePayment()))
	})

	t.Run("SIREN différent du déclarant", func(t *testing.T) {
		payment := samplePayment()
		payment.SellerSIREN = "999999999"
		errs := r.ValidatePayment(payment)
		require.Len(t, errs, 1)
		assert.Contains(t, errs[0], "SIREN")
	})
}

func TestValidateAggregated(t *testing.T) {
	r := newMonthlyReporter(t)

	t.Run("agrégat valide", func(t *testing.T) {
		errs, err := r.ValidateAggregated(sampleAggregated())
		require.NoError(t, err)
		assert.Empty(t, errs)
	})

	t.Run("SIREN différent du déclarant", func(t *testing.T) {
		agg := sampleAggregated()
		agg.SellerSIREN = "999999999"
		errs, err := r.ValidateAggregated(agg)
		require.NoError(t, err)
		require.Len(t, errs, 1)
		assert.Contains(t, errs[0], "SIREN")
	})

	t.Run("déclaration vide tout à zéro", func(t *testing.T) {
		agg := sampleAggregated()
		agg.TaxBreakdowns = []ereporting.TaxBreakdown{
			{VATRate: ratePtr("20.0"), TaxableAmount: decimal.Zero, VATAmount: decimal.Zero},
		}
		_, err := r.ValidateAggregated(agg)
		assert.ErrorIs(t, err, ereporting.ErrEmptyDeclaration)
	})
}

func TestPrepareTransaction(t *testing.T) {
	r := newMonthlyReporter(t)

	t.Run("retourne une soumission individuelle", func(t *testing.T) {
		sub, err := r.PrepareTransaction(sampleTransaction())
		require.NoError(t, err)
		assert.NotEmpty(t, sub.SubmissionID)
		assert.Equal(t, facture.TransmissionIndividual, sub.TransmissionMode)
		require.NotNil(t, sub.Transaction)
		assert.Nil(t, sub.Aggregated)
		assert.Nil(t, sub.Payment)
	})

	t.Run("rejette une transaction invalide avec la liste", func(t *testing.T) {
		txn := sampleTransaction()
		txn.SellerSIREN = "999999999"
		_, err := r.PrepareTransaction(txn)
		var validationErr *ereporting.ValidationError
		require.ErrorAs(t, err, &validationErr)
		assert.NotEmpty(t, validationErr.Errors)
	})
}

func TestPrepareAggregated(t *testing.T) {
	r := newMonthlyReporter(t)

	sub, err := r.PrepareAggregated(sampleAggregated())
	require.NoError(t, err)
	assert.Equal(t, facture.TransmissionAggregated, sub.TransmissionMode)
	require.NotNil(t, sub.Aggregated)
	assert.Nil(t, sub.Transaction)
}

func TestPreparePayment(t *testing.T) {
	r := newMonthlyReporter(t)

	t.Run("retourne une soumission individuelle", func(t *testing.T) {
		sub, err := r.PreparePayment(samplePayment())
		require.NoError(t, err)
		assert.Equal(t, facture.TransmissionIndividual, sub.TransmissionMode)
		require.NotNil(t, sub.Payment)
	})

	t.Run("rejette un encaissement invalide", func(t *testing.T) {
		payment := samplePayment()
		payment.SellerSIREN = "999999999"
		_, err := r.PreparePayment(payment)
		var validationErr *ereporting.ValidationError
		require.ErrorAs(t, err, &validationErr)
	})
}

func TestTransactionFromInvoice(t *testing.T) {
	r := newMonthlyReporter(t)
	inv := facture.Invoice{
		Number:            "FA-2026-042",
		IssueDate:         dateOf(2026, time.September, 15),
		TypeCode:          facture.TypeInvoice,
		Currency:          "EUR",
		OperationCategory: facture.OperationDelivery,
		Seller: facture.Party{
			Name:      "OptiPaulo SARL",
			SIREN:     "123456789",
			VATNumber: "FR12345678901",
			Address: facture.Address{
				Street:      "12 rue des Opticiens",
				City:        "Créteil",
				PostalCode:  "94000",
				CountryCode: "FR",
			},
		},
		Buyer: facture.Party{
			Name:      "LunettesPlus SA",
			SIREN:     "987654321",
			VATNumber: "FR98765432101",
			Address: facture.Address{
				Street:      "5 avenue de la Vision",
				City:        "Paris",
				PostalCode:  "75011",
				CountryCode: "FR",
			},
		},
		Lines: []facture.InvoiceLine{
			{
				Description: "Monture Ray-Ban Aviator",
				Quantity:    decimal.NewFromInt(10),
				Unit:        facture.UnitPiece,
				UnitPrice:   decimal.RequireFromString("85.00"),
				VATRate:     decimal.RequireFromString("20.0"),
				VATCategory: facture.VATStandard,
			},
			{
				Description: "Verres progressifs Essilor",
				Quantity:    decimal.NewFromInt(10),
				Unit:        facture.UnitPiece,
				UnitPrice:   decimal.RequireFromString("35.00"),
				VATRate:     decimal.RequireFromString("20.0"),
				VATCategory: facture.VATStandard,
			},
		},
	}

	t.Run("extraction des champs", func(t *testing.T) {
		txn := r.TransactionFromInvoice(inv, facture.TransactionB2CDomestic, "")
		assert.Equal(t, "123456789", txn.SellerSIREN)
		assert.Equal(t, "FA-2026-042", txn.InvoiceNumber)
		require.NotNil(t, txn.InvoiceDate)
		assert.Equal(t, dateOf(2026, time.September, 15), *txn.InvoiceDate)
		assert.True(t, txn.TotalExclTax.Equal(decimal.RequireFromString("1200.00")),
			"total HT attendu 1200.00, obtenu %s", txn.TotalExclTax)
		require.NotNil(t, txn.VATRate)
		assert.True(t, txn.VATRate.Equal(decimal.RequireFromString("20.0")))
		assert.Equal(t, facture.OperationDelivery, txn.OperationCategory)
		assert.False(t, txn.VATExemption)
	})

	t.Run("avec code pays", func(t *testing.T) {
		txn := r.TransactionFromInvoice(inv, facture.TransactionB2BIntraEU, "DE")
		assert.Equal(t, "DE", txn.CountryCode)
		assert.Equal(t, facture.TransactionB2BIntraEU, txn.TransactionType)
	})
}

func TestAggregateTransactions(t *testing.T) {
	r := newMonthlyReporter(t)
	periodStart := dateOf(2026, time.September, 1)
	periodEnd := dateOf(2026, time.September, 30)

	makeTxn := func(day int, totalHT, vat, rate string) ereporting.TransactionData {
		return ereporting.TransactionData{
			SellerSIREN:       "123456789",
			TransactionType:   facture.TransactionB2CDomestic,
			InvoiceDate:       datePtr(2026, time.September, day),
			OperationCategory: facture.OperationDelivery,
			TotalExclTax:      decimal.RequireFromString(totalHT),
			VATAmount:         decimal.RequireFromString(vat),
			VATRate:           ratePtr(rate),
		}
	}

	t.Run("taux unique", func(t *testing.T) {
		agg, err := r.AggregateTransactions(
			[]ereporting.TransactionData{
				makeTxn(15, "100.00", "20.00", "20.0"),
				makeTxn(16, "200.00", "40.00", "20.0"),
			},
			periodStart, periodEnd,
		)
		require.NoError(t, err)
		require.Len(t, agg.TaxBreakdowns, 1)
		assert.True(t, agg.TotalExclTax().Equal(decimal.RequireFromString("300.00")))
		assert.True(t, agg.TotalVAT().Equal(decimal.RequireFromString("60.00")))
	})

	t.Run("plusieurs taux triés croissants", func(t *testing.T) {
		agg, err := r.AggregateTransactions(
			[]ereporting.TransactionData{
				makeTxn(15, "100.00", "20.00", "20.0"),
				makeTxn(16, "200.00", "11.00", "5.5"),
			},
			periodStart, periodEnd,
		)
		require.NoError(t, err)
		require.Len(t, agg.TaxBreakdowns, 2)
		assert.True(t, agg.TaxBreakdowns[0].VATRate.Equal(decimal.RequireFromString("5.5")))
		assert.True(t, agg.TaxBreakdowns[1].VATRate.Equal(decimal.RequireFromString("20.0")))
		assert.True(t, agg.TotalExclTax().Equal(decimal.RequireFromString("300.00")))
		assert.True(t, agg.TotalVAT().Equal(decimal.RequireFromString("31.00")))
	})

	t.Run("exonération triée avant taux zéro", func(t *testing.T) {
		exempted := ereporting.TransactionData{
			SellerSIREN:       "123456789",
			TransactionType:   facture.TransactionB2CDomestic,
			InvoiceDate:       datePtr(2026, time.September, 17),
			OperationCategory: facture.OperationDelivery,
			TotalExclTax:      decimal.RequireFromString("50.00"),
			VATExemption:      true,
		}
		agg, err := r.AggregateTransactions(
			[]ereporting.TransactionData{
				makeTxn(15, "100.00", "0.00", "0.0"),
				exempted,
			},
			periodStart, periodEnd,
		)
		require.NoError(t, err)
		require.Len(t, agg.TaxBreakdowns, 2)
		assert.Nil(t, agg.TaxBreakdowns[0].VATRate, "l'absence de taux est triée en tête")
		assert.True(t, agg.TaxBreakdowns[0].VATExemption)
	})

	t.Run("liste vide", func(t *testing.T) {
		_, err := r.AggregateTransactions(nil, periodStart, periodEnd)
		assert.ErrorIs(t, err, ereporting.ErrEmptyDeclaration)
	})

	t.Run("SIREN mélangés", func(t *testing.T) {
		second := makeTxn(16, "200.00", "40.00", "20.0")
		second.SellerSIREN = "999888777"
		_, err := r.AggregateTransactions(
			[]ereporting.TransactionData{makeTxn(15, "100.00", "20.00", "20.0"), second},
			periodStart, periodEnd,
		)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "même SIREN")
	})
}

func TestGetTransmissionSchedule(t *testing.T) {
	cases := []struct {
		name           string
		regime         facture.VATRegime
		transactionFrq string
		paymentFrq     string
	}{
		{"réel normal mensuel", facture.RegimeRealNormalMonthly, "tous les 10 jours", "mensuel"},
		{"réel normal trimestriel", facture.RegimeRealNormalQuarterly, "tous les 10 jours", "mensuel"},
		{"réel simplifié", facture.RegimeSimplifiedReal, "mensuel", "mensuel"},
		{"franchise en base", facture.RegimeFranchise, "mensuel", ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r, err := ereporting.NewReporter("123456789", tc.regime)
			require.NoError(t, err)
			schedule := r.GetTransmissionSchedule()
			assert.Equal(t, tc.regime, schedule.VATRegime)
			assert.Equal(t, tc.transactionFrq, schedule.TransactionFrequency)
			assert.Equal(t, tc.paymentFrq, schedule.PaymentFrequency)
		})
	}
}

func TestNextTransactionDeadline_Decadal(t *testing.T) {
	r := newMonthlyReporter(t)

	cases := []struct {
		name     string
		ref      time.Time
		expected time.Time
	}{
		{"depuis le 1er", dateOf(2026, time.September, 1), dateOf(2026, time.September, 10)},
		{"depuis le 10", dateOf(2026, time.September, 10), dateOf(2026, time.September, 20)},
		{"depuis le 15", dateOf(2026, time.September, 15), dateOf(2026, time.September, 20)},
		{"depuis le 20", dateOf(2026, time.September, 20), dateOf(2026, time.September, 30)},
		{"depuis le 25", dateOf(2026, time.September, 25), dateOf(2026, time.September, 30)},
		{"depuis le dernier jour", dateOf(2026, time.September, 30), dateOf(2026, time.October, 10)},
		{"février court", dateOf(2026, time.February, 20), dateOf(2026, time.February, 28)},
		{"bascule d'année", dateOf(2026, time.December, 31), dateOf(2027, time.January, 10)},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, r.NextTransactionDeadline(tc.ref))
		})
	}
}

func TestNextTransactionDeadline_Monthly(t *testing.T) {
	r := newFranchiseReporter(t)

	cases := []struct {
		name     string
		ref      time.Time
		expected time.Time
	}{
		{"milieu de mois", dateOf(2026, time.September, 15), dateOf(2026, time.October, 31)},
		{"dernier jour du mois", dateOf(2026, time.September, 30), dateOf(2026, time.October, 31)},
		{"bascule d'année", dateOf(2026, time.December, 15), dateOf(2027, time.January, 31)},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, r.NextTransactionDeadline(tc.ref))
		})
	}
}

func TestNextPaymentDeadline(t *testing.T) {
	t.Run("réel normal mensuel", func(t *testing.T) {
		r := newMonthlyReporter(t)
		deadline := r.NextPaymentDeadline(dateOf(2026, time.September, 15))
		require.NotNil(t, deadline)
		assert.Equal(t, dateOf(2026, time.October, 31), *deadline)
	})

	t.Run("franchise en base sans échéance", func(t *testing.T) {
		r := newFranchiseReporter(t)
		assert.Nil(t, r.NextPaymentDeadline(dateOf(2026, time.September, 15)))
	})
}
