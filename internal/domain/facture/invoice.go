package facture

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// InvoiceLine poste de facturation avec quantité, prix unitaire et TVA.
// Conforme à EN16931 BG-25. La quantité et le prix unitaire peuvent être
// négatifs (reprise d'acomptes, lignes de déduction).
type InvoiceLine struct {
	LineNumber         int // Auto-numéroté si zéro
	Description        string
	Quantity           decimal.Decimal
	Unit               UnitOfMeasure
	UnitPrice          decimal.Decimal // Prix unitaire HT
	VATRate            decimal.Decimal // Taux de TVA en %
	VATCategory        VATCategory
	ItemReference      string
	BuyerReference     string
	DiscountAmount     decimal.Decimal // Remise sur la ligne
	ChargeAmount       decimal.Decimal // Majoration sur la ligne
	VATExemptionReason string          // Motif d'exonération BT-121
	VATExemptionCode   string          // Code motif d'exonération BT-120 (liste VATEX)
	BillingPeriodStart *time.Time      // Période de facturation BG-26
	BillingPeriodEnd   *time.Time
}

// TotalExclTax montant total HT de la ligne (quantité × prix, remises et
// majorations appliquées).
func (l InvoiceLine) TotalExclTax() decimal.Decimal {
	total := l.Quantity.Mul(l.UnitPrice)
	total = total.Sub(l.DiscountAmount)
	total = total.Add(l.ChargeAmount)
	return total
}

// VATAmount montant de TVA de la ligne, arrondi au centime.
func (l InvoiceLine) VATAmount() decimal.Decimal {
	return l.TotalExclTax().Mul(l.VATRate).Div(decimal.NewFromInt(100)).Round(2)
}

// TotalInclTax montant total TTC de la ligne.
func (l InvoiceLine) TotalInclTax() decimal.Decimal {
	return l.TotalExclTax().Add(l.VATAmount())
}

// TaxSummary récapitulatif TVA par (catégorie, taux), avec le motif
// d'exonération le cas échéant.
type TaxSummary struct {
	VATCategory        VATCategory
	VATRate            decimal.Decimal
	TaxableAmount      decimal.Decimal // Base imposable HT
	TaxAmount          decimal.Decimal // Montant de TVA
	VATExemptionReason string
	VATExemptionCode   string
}

// Invoice facture électronique conforme EN16931 avec les mentions obligatoires
// de la réforme française sept. 2026 : catégorie de l'opération, SIREN du
// destinataire, adresse de livraison si différente, option TVA sur les débits.
type Invoice struct {
	// Identification
	Number    string
	IssueDate time.Time
	DueDate   *time.Time
	TypeCode  InvoiceTypeCode
	Currency  string // Code ISO 4217, "EUR" par défaut

	// Parties
	Seller Party
	Buyer  Party

	// Lignes (au moins une)
	Lines []InvoiceLine

	// Mentions obligatoires sept. 2026
	OperationCategory OperationCategory
	VATOnDebits       bool // Option TVA sur les débits

	// Références
	PurchaseOrderReference    string
	ContractReference         string
	PrecedingInvoiceReference string // Pour les avoirs
	BuyerAccountingReference  string

	// Paiement
	PaymentTerms *PaymentTerms
	PaymentMeans *PaymentMeans

	// Acomptes / retenue de garantie (BT-113)
	PrepaidAmount decimal.Decimal

	// Période de facturation BG-14 (situations de travaux)
	BillingPeriodStart *time.Time
	BillingPeriodEnd   *time.Time

	// Note libre
	Note string
}

// TotalExclTax total HT de la facture.
func (inv Invoice) TotalExclTax() decimal.Decimal {
	total := decimal.Zero
	for _, l := range inv.Lines {
		total = total.Add(l.TotalExclTax())
	}
	return total
}

// TotalVAT total TVA de la facture.
func (inv Invoice) TotalVAT() decimal.Decimal {
	total := decimal.Zero
	for _, l := range inv.Lines {
		total = total.Add(l.VATAmount())
	}
	return total
}

// TotalInclTax total TTC de la facture.
func (inv Invoice) TotalInclTax() decimal.Decimal {
	return inv.TotalExclTax().Add(inv.TotalVAT())
}

// AmountDue montant à payer : TTC moins acomptes et retenue de garantie.
func (inv Invoice) AmountDue() decimal.Decimal {
	return inv.TotalInclTax().Sub(inv.PrepaidAmount)
}

// TaxSummaries récapitulatifs TVA par (catégorie, taux), triés par catégorie
// puis par taux croissant.
func (inv Invoice) TaxSummaries() []TaxSummary {
	type key struct {
		category VATCategory
		rate     string
	}
	grouped := map[key]*TaxSummary{}
	for _, l := range inv.Lines {
		k := key{category: l.VATCategory, rate: l.VATRate.String()}
		s, ok := grouped[k]
		if !ok {
			s = &TaxSummary{
				VATCategory:        l.VATCategory,
				VATRate:            l.VATRate,
				VATExemptionReason: l.VATExemptionReason,
				VATExemptionCode:   l.VATExemptionCode,
			}
			grouped[k] = s
		}
		s.TaxableAmount = s.TaxableAmount.Add(l.TotalExclTax())
		s.TaxAmount = s.TaxAmount.Add(l.VATAmount())
		if s.VATExemptionReason == "" {
			s.VATExemptionReason = l.VATExemptionReason
		}
		if s.VATExemptionCode == "" {
			s.VATExemptionCode = l.VATExemptionCode
		}
	}

	out := make([]TaxSummary, 0, len(grouped))
	for _, s := range grouped {
		out = append(out, *s)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].VATCategory != out[j].VATCategory {
			return out[i].VATCategory < out[j].VATCategory
		}
		return out[i].VATRate.LessThan(out[j].VATRate)
	})
	return out
}
