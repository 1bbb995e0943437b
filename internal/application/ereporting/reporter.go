package ereporting

import (
	"fmt"
	"sort"
	"time"

	"github.com/facturx-fr/facturation-api/internal/domain/facture"
	"github.com/facturx-fr/facturation-api/pkg/siren"
)

// Fréquences de transmission au concentrateur.
const (
	FrequencyDecadal = "tous les 10 jours"
	FrequencyMonthly = "mensuel"
)

// Reporter prépare les données e-reporting (transactions B2C et
// internationales, encaissements) pour transmission au concentrateur via la
// plateforme agréée. Porte uniquement le SIREN du vendeur et son régime de
// TVA ; aucun état mutable.
type Reporter struct {
	sellerSIREN string
	vatRegime   facture.VATRegime
}

// NewReporter construit un Reporter pour un vendeur. Le SIREN doit compter
// exactement 9 chiffres.
func NewReporter(sellerSIREN string, vatRegime facture.VATRegime) (*Reporter, error) {
	if err := siren.ValidateSIREN(sellerSIREN); err != nil {
		return nil, err
	}
	return &Reporter{sellerSIREN: sellerSIREN, vatRegime: vatRegime}, nil
}

// SellerSIREN SIREN du vendeur déclarant.
func (r *Reporter) SellerSIREN() string { return r.sellerSIREN }

// VATRegime régime de TVA du vendeur.
func (r *Reporter) VATRegime() facture.VATRegime { return r.vatRegime }

// ValidateTransaction contrôle une transaction individuelle et retourne la
// liste complète des violations, sans s'arrêter à la première. Liste vide =
// transaction valide.
func (r *Reporter) ValidateTransaction(txn TransactionData) []string {
	var errs []string

	if txn.SellerSIREN != r.sellerSIREN {
		errs = append(errs, fmt.Sprintf(
			"SIREN vendeur %s différent du SIREN du déclarant %s", txn.SellerSIREN, r.sellerSIREN))
	}

	if txn.TransactionType.IsInternational() {
		switch txn.CountryCode {
		case "":
			errs = append(errs, "code pays obligatoire pour une transaction internationale")
		case "FR":
			errs = append(errs, "code pays FR incohérent pour une transaction internationale")
		}
	}

	if txn.VATRate == nil && !txn.VATExemption {
		errs = append(errs, "taux de TVA ou indicateur d'exonération requis")
	}

	if txn.InvoiceDate == nil && txn.PeriodStart == nil {
		errs = append(errs, "Date de facture ou début de période requis")
	}

	return errs
}

// ValidatePayment contrôle un encaissement. Liste vide = encaissement valide.
func (r *Reporter) ValidatePayment(payment PaymentData) []string {
	var errs []string
	if payment.SellerSIREN != r.sellerSIREN {
		errs = append(errs, fmt.Sprintf(
			"SIREN vendeur %s différent du SIREN du déclarant %s", payment.SellerSIREN, r.sellerSIREN))
	}
	return errs
}

// ValidateAggregated contrôle un agrégat. Un agrégat dont toutes les
// ventilations sont à zéro constitue une déclaration vide, interdite depuis
// septembre 2025 : l'erreur ErrEmptyDeclaration est retournée, distincte des
// violations de données.
func (r *Reporter) ValidateAggregated(agg AggregatedTransactionData) ([]string, error) {
	var errs []string
	if agg.SellerSIREN != r.sellerSIREN {
		errs = append(errs, fmt.Sprintf(
			"SIREN vendeur %s différent du SIREN du déclarant %s", agg.SellerSIREN, r.sellerSIREN))
	}

	allZero := true
	for _, tb := range agg.TaxBreakdowns {
		if !tb.TaxableAmount.IsZero() || !tb.VATAmount.IsZero() {
			allZero = false
			break
		}
	}
	if allZero {
		return errs, ErrEmptyDeclaration
	}

	return errs, nil
}

// PrepareTransaction valide puis enveloppe une transaction individuelle dans
// une soumission en mode individuel.
func (r *Reporter) PrepareTransaction(txn TransactionData) (Submission, error) {
	if errs := r.ValidateTransaction(txn); len(errs) > 0 {
		return Submission{}, &ValidationError{Message: "transaction e-reporting invalide", Errors: errs}
	}
	sub := newSubmission(facture.TransmissionIndividual)
	sub.Transaction = &txn
	return sub, nil
}

// PrepareAggregated valide puis enveloppe un agrégat dans une soumission en
// mode agrégé.
func (r *Reporter) PrepareAggregated(agg AggregatedTransactionData) (Submission, error) {
	errs, err := r.ValidateAggregated(agg)
	if err != nil {
		return Submission{}, err
	}
	if len(errs) > 0 {
		return Submission{}, &ValidationError{Message: "agrégat e-reporting invalide", Errors: errs}
	}
	sub := newSubmission(facture.TransmissionAggregated)
	sub.Aggregated = &agg
	return sub, nil
}

// PreparePayment valide puis enveloppe un encaissement dans une soumission en
// mode individuel.
func (r *Reporter) PreparePayment(payment PaymentData) (Submission, error) {
	if errs := r.ValidatePayment(payment); len(errs) > 0 {
		return Submission{}, &ValidationError{Message: "encaissement e-reporting invalide", Errors: errs}
	}
	sub := newSubmission(facture.TransmissionIndividual)
	sub.Payment = &payment
	return sub, nil
}

// TransactionFromInvoice dérive une transaction e-reporting d'une facture
// finalisée. Le taux de TVA de la première ligne est pris comme représentatif
// de la facture ; aucune ventilation par ligne n'est tentée ici.
func (r *Reporter) TransactionFromInvoice(
	inv facture.Invoice,
	transactionType facture.EReportingTransactionType,
	countryCode string,
) TransactionData {
	txn := TransactionData{
		SellerSIREN:       inv.Seller.SIREN,
		TransactionType:   transactionType,
		InvoiceNumber:     inv.Number,
		OperationCategory: inv.OperationCategory,
		TotalExclTax:      inv.TotalExclTax(),
		VATAmount:         inv.TotalVAT(),
		VATOnDebits:       inv.VATOnDebits,
		CountryCode:       countryCode,
		Currency:          inv.Currency,
	}
	issueDate := inv.IssueDate
	txn.InvoiceDate = &issueDate

	if len(inv.Lines) > 0 {
		first := inv.Lines[0]
		rate := first.VATRate
		txn.VATRate = &rate
		txn.VATExemption = first.VATCategory == facture.VATExempt || first.VATExemptionReason != ""
	}

	return txn
}

// AggregateTransactions regroupe des transactions par (taux, exonération) sur
// une période, additionne bases et TVA par groupe, et trie les ventilations
// par taux croissant (absence de taux en tête) puis par indicateur
// d'exonération. Toutes les transactions doivent porter le même SIREN.
func (r *Reporter) AggregateTransactions(
	transactions []TransactionData,
	periodStart, periodEnd time.Time,
) (AggregatedTransactionData, error) {
	if len(transactions) == 0 {
		return AggregatedTransactionData{}, ErrEmptyDeclaration
	}

	sellerSIREN := transactions[0].SellerSIREN
	for _, txn := range transactions[1:] {
		if txn.SellerSIREN != sellerSIREN {
			return AggregatedTransactionData{}, &ValidationError{
				Message: "agrégation impossible",
				Errors:  []string{"toutes les transactions doivent porter le même SIREN"},
			}
		}
	}

	type groupKey struct {
		rate      string // Forme textuelle du taux, "" si absent
		exemption bool
	}
	groups := make(map[groupKey]*TaxBreakdown)
	var order []groupKey
	for _, txn := range transactions {
		key := groupKey{exemption: txn.VATExemption}
		if txn.VATRate != nil {
			key.rate = txn.VATRate.String()
		}
		tb, ok := groups[key]
		if !ok {
			tb = &TaxBreakdown{VATRate: txn.VATRate, VATExemption: txn.VATExemption}
			groups[key] = tb
			order = append(order, key)
		}
		tb.TaxableAmount = tb.TaxableAmount.Add(txn.TotalExclTax)
		tb.VATAmount = tb.VATAmount.Add(txn.VATAmount)
	}

	breakdowns := make([]TaxBreakdown, 0, len(order))
	for _, key := range order {
		breakdowns = append(breakdowns, *groups[key])
	}
	sort.SliceStable(breakdowns, func(i, j int) bool {
		a, b := breakdowns[i], breakdowns[j]
		switch {
		case a.VATRate == nil && b.VATRate == nil:
			return !a.VATExemption && b.VATExemption
		case a.VATRate == nil:
			return true
		case b.VATRate == nil:
			return false
		case !a.VATRate.Equal(*b.VATRate):
			return a.VATRate.LessThan(*b.VATRate)
		default:
			return !a.VATExemption && b.VATExemption
		}
	})

	return AggregatedTransactionData{
		SellerSIREN:       sellerSIREN,
		PeriodStart:       periodStart,
		PeriodEnd:         periodEnd,
		OperationCategory: transactions[0].OperationCategory,
		TaxBreakdowns:     breakdowns,
		VATOnDebits:       transactions[0].VATOnDebits,
	}, nil
}

// GetTransmissionSchedule fréquences de transmission selon le régime de TVA.
// En franchise en base, aucune fréquence de paiement : les assujettis exonérés
// ne déclarent pas d'encaissements.
func (r *Reporter) GetTransmissionSchedule() TransmissionSchedule {
	schedule := TransmissionSchedule{VATRegime: r.vatRegime}
	switch r.vatRegime {
	case facture.RegimeRealNormalMonthly, facture.RegimeRealNormalQuarterly:
		schedule.TransactionFrequency = FrequencyDecadal
		schedule.PaymentFrequency = FrequencyMonthly
	case facture.RegimeSimplifiedReal:
		schedule.TransactionFrequency = FrequencyMonthly
		schedule.PaymentFrequency = FrequencyMonthly
	case facture.RegimeFranchise:
		schedule.TransactionFrequency = FrequencyMonthly
	}
	return schedule
}

// NextTransactionDeadline prochaine échéance de transmission des transactions
// strictement postérieure à la date de référence. Au réel normal, échéances
// décadaires : le 10, le 20 puis le dernier jour du mois, avec report au 10 du
// mois suivant depuis le dernier jour. Aux régimes mensuels, dernier jour du
// mois suivant celui de la date de référence.
func (r *Reporter) NextTransactionDeadline(ref time.Time) time.Time {
	switch r.vatRegime {
	case facture.RegimeRealNormalMonthly, facture.RegimeRealNormalQuarterly:
		return nextDecadalDeadline(ref)
	default:
		return endOfNextMonth(ref)
	}
}

// NextPaymentDeadline prochaine échéance de transmission des encaissements :
// dernier jour du mois suivant. Retourne nil en franchise en base.
func (r *Reporter) NextPaymentDeadline(ref time.Time) *time.Time {
	if r.vatRegime == facture.RegimeFranchise {
		return nil
	}
	deadline := endOfNextMonth(ref)
	return &deadline
}

func nextDecadalDeadline(ref time.Time) time.Time {
	year, month, day := ref.Date()
	lastDay := lastDayOfMonth(year, month)
	for _, candidate := range []int{10, 20, lastDay} {
		if day < candidate {
			return time.Date(year, month, candidate, 0, 0, 0, 0, ref.Location())
		}
	}
	// Dernier jour du mois atteint : report au 10 du mois suivant.
	return time.Date(year, month+1, 10, 0, 0, 0, 0, ref.Location())
}

func endOfNextMonth(ref time.Time) time.Time {
	// Le jour zéro du mois M+2 est le dernier jour du mois M+1.
	return time.Date(ref.Year(), ref.Month()+2, 0, 0, 0, 0, 0, ref.Location())
}

func lastDayOfMonth(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
