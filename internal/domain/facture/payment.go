package facture

import "github.com/shopspring/decimal"

// BankAccount coordonnées bancaires du bénéficiaire pour les virements.
type BankAccount struct {
	IBAN string
	BIC  string
}

// PaymentTerms conditions de paiement avec les mentions obligatoires du Code
// de Commerce (art. L441-9) : pénalités de retard, escompte (ou « Néant »)
// et indemnité forfaitaire de recouvrement (minimum légal 40 EUR).
type PaymentTerms struct {
	Description     string          // ex. "30 jours fin de mois"
	LatePenaltyRate decimal.Decimal // Taux des pénalités de retard en %
	EarlyDiscount   string          // Conditions d'escompte, "Néant" si aucun
	RecoveryFee     decimal.Decimal // Indemnité forfaitaire de recouvrement en EUR
}

// DefaultRecoveryFee indemnité forfaitaire légale de recouvrement (L441-9).
var DefaultRecoveryFee = decimal.NewFromInt(40)

// PaymentMeans moyen de paiement (UNTDID 4461) avec les coordonnées bancaires.
type PaymentMeans struct {
	Code             PaymentMeansCode
	BankAccount      *BankAccount
	PaymentReference string
}
