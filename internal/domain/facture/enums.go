// Package facture contient le modèle de domaine de la facturation électronique
// française (norme EN16931, AFNOR XP Z12-012, réforme DGFiP 2026) : énumérations,
// factures, parties et moyens de paiement.
package facture

import "fmt"

// InvoiceTypeCode type de document commercial (UNTDID 1001).
type InvoiceTypeCode string

const (
	TypeInvoice           InvoiceTypeCode = "380" // Facture commerciale
	TypeCreditNote        InvoiceTypeCode = "381" // Avoir
	TypeDebitNote         InvoiceTypeCode = "383" // Note de débit
	TypeCorrectedInvoice  InvoiceTypeCode = "384" // Facture rectificative
	TypePrepaymentInvoice InvoiceTypeCode = "386" // Facture d'acompte
	TypeSelfBilledInvoice InvoiceTypeCode = "389" // Autofacturation
)

// OperationCategory catégorie de l'opération (mention obligatoire sept. 2026).
// Indique si la facture porte sur une livraison de biens, une prestation de
// services, ou les deux.
type OperationCategory string

const (
	OperationDelivery OperationCategory = "delivery" // Livraison de biens
	OperationService  OperationCategory = "service"  // Prestation de services
	OperationMixed    OperationCategory = "mixed"    // Livraison et prestation
)

// VATCategory catégorie de TVA (UNTDID 5305).
type VATCategory string

const (
	VATStandard       VATCategory = "S"  // Taux normal
	VATZeroRated      VATCategory = "Z"  // Taux zéro
	VATExempt         VATCategory = "E"  // Exonéré
	VATReverseCharge  VATCategory = "AE" // Autoliquidation
	VATIntraCommunity VATCategory = "K"  // Intracommunautaire
	VATExport         VATCategory = "G"  // Export hors UE
	VATNotSubject     VATCategory = "O"  // Non soumis
)

// UnitOfMeasure code unité de mesure (UN/ECE Rec. 20), unités courantes.
type UnitOfMeasure string

const (
	UnitPiece UnitOfMeasure = "C62" // Unité
	UnitHour  UnitOfMeasure = "HUR" // Heure
	UnitDay   UnitOfMeasure = "DAY" // Jour
	UnitMonth UnitOfMeasure = "MON" // Mois
	UnitKg    UnitOfMeasure = "KGM" // Kilogramme
	UnitMetre UnitOfMeasure = "MTR" // Mètre
	UnitLitre UnitOfMeasure = "LTR" // Litre
)

// PaymentMeansCode moyen de paiement (UNTDID 4461).
type PaymentMeansCode string

const (
	PaymentCash            PaymentMeansCode = "10" // Espèces
	PaymentCheque          PaymentMeansCode = "20" // Chèque
	PaymentCreditTransfer  PaymentMeansCode = "30" // Virement bancaire
	PaymentBankCard        PaymentMeansCode = "48" // Carte bancaire
	PaymentDirectDebit     PaymentMeansCode = "49" // Prélèvement
	PaymentSEPATransfer    PaymentMeansCode = "58" // Virement SEPA
	PaymentSEPADirectDebit PaymentMeansCode = "59" // Prélèvement SEPA
)

// InvoiceStatus statut du cycle de vie d'une facture (norme AFNOR XP Z12-012).
// 5 statuts obligatoires (transmis au concentrateur CDD/PPF) et 10 statuts
// recommandés (échangés entre les parties). Les valeurs sont les codes XP Z12-012.
type InvoiceStatus string

const (
	// Statuts OBLIGATOIRES (transmis au CDD/PPF pour la DGFiP).

	StatusDeposee          InvoiceStatus = "200" // Facture déposée et validée par la PA émettrice
	StatusRejeteeEmission  InvoiceStatus = "209" // Rejetée à l'émission (non-conformité technique)
	StatusRefusee          InvoiceStatus = "210" // Refusée par le destinataire (motif obligatoire)
	StatusRejeteeReception InvoiceStatus = "212" // Rejetée à la réception (non-conformité technique)
	StatusEncaissee        InvoiceStatus = "213" // Encaissée (paiement reçu)

	// Statuts RECOMMANDÉS (entre les parties, non transmis à la DGFiP).

	StatusEmise                  InvoiceStatus = "201" // Émise par la PA émettrice
	StatusRecue                  InvoiceStatus = "202" // Reçue par la PA réceptrice
	StatusMiseADisposition       InvoiceStatus = "203" // Mise à disposition de l'acheteur
	StatusPriseEnCharge          InvoiceStatus = "204" // Prise en charge par l'acheteur
	StatusApprouvee              InvoiceStatus = "205" // Approuvée intégralement
	StatusPartiellementApprouvee InvoiceStatus = "206" // Approuvée partiellement
	StatusEnLitige               InvoiceStatus = "207" // En litige (contestation en cours)
	StatusSuspendue              InvoiceStatus = "208" // Suspendue (informations manquantes)
	StatusPaiementTransmis       InvoiceStatus = "211" // Paiement transmis par l'acheteur
	StatusCompletee              InvoiceStatus = "214" // Complétée après suspension
)

// AllStatuses liste les 15 statuts du cycle de vie, par code croissant.
var AllStatuses = []InvoiceStatus{
	StatusDeposee,
	StatusEmise,
	StatusRecue,
	StatusMiseADisposition,
	StatusPriseEnCharge,
	StatusApprouvee,
	StatusPartiellementApprouvee,
	StatusEnLitige,
	StatusSuspendue,
	StatusRejeteeEmission,
	StatusRefusee,
	StatusPaiementTransmis,
	StatusRejeteeReception,
	StatusEncaissee,
	StatusCompletee,
}

var statusNames = map[InvoiceStatus]string{
	StatusDeposee:                "DEPOSEE",
	StatusEmise:                  "EMISE",
	StatusRecue:                  "RECUE",
	StatusMiseADisposition:       "MISE_A_DISPOSITION",
	StatusPriseEnCharge:          "PRISE_EN_CHARGE",
	StatusApprouvee:              "APPROUVEE",
	StatusPartiellementApprouvee: "PARTIELLEMENT_APPROUVEE",
	StatusEnLitige:               "EN_LITIGE",
	StatusSuspendue:              "SUSPENDUE",
	StatusRejeteeEmission:        "REJETEE_EMISSION",
	StatusRefusee:                "REFUSEE",
	StatusPaiementTransmis:       "PAIEMENT_TRANSMIS",
	StatusRejeteeReception:       "REJETEE_RECEPTION",
	StatusEncaissee:              "ENCAISSEE",
	StatusCompletee:              "COMPLETEE",
}

// Name retourne le libellé XP Z12-012 du statut (ex. "REFUSEE" pour le code 210).
func (s InvoiceStatus) Name() string {
	if n, ok := statusNames[s]; ok {
		return n
	}
	return string(s)
}

// IsKnown indique si le code correspond à l'un des 15 statuts de la norme.
func (s InvoiceStatus) IsKnown() bool {
	_, ok := statusNames[s]
	return ok
}

// ParseInvoiceStatus convertit un code XP Z12-012 ("200".."214") en statut.
func ParseInvoiceStatus(code string) (InvoiceStatus, error) {
	s := InvoiceStatus(code)
	if !s.IsKnown() {
		return "", fmt.Errorf("code statut inconnu : %q", code)
	}
	return s, nil
}

// StatusCategory catégorie du statut de cycle de vie (XP Z12-012).
type StatusCategory string

const (
	CategoryMandatory   StatusCategory = "mandatory"   // Obligatoire, transmis au CDD/PPF
	CategoryRecommended StatusCategory = "recommended" // Recommandé, entre les parties uniquement
)

// CDARRoleCode rôle d'une partie dans un message CDAR (XP Z12-012).
type CDARRoleCode string

const (
	RoleBuyer    CDARRoleCode = "BY"  // Acheteur
	RoleSeller   CDARRoleCode = "SE"  // Vendeur
	RoleFactor   CDARRoleCode = "DL"  // Affactureur
	RolePlatform CDARRoleCode = "WK"  // Plateforme agréée (PA)
	RolePPF      CDARRoleCode = "DFH" // Portail Public de Facturation (concentrateur)
)

// ParseCDARRoleCode convertit un code rôle CDAR en valeur typée.
func ParseCDARRoleCode(code string) (CDARRoleCode, error) {
	switch r := CDARRoleCode(code); r {
	case RoleBuyer, RoleSeller, RoleFactor, RolePlatform, RolePPF:
		return r, nil
	default:
		return "", fmt.Errorf("code rôle CDAR inconnu : %q", code)
	}
}

// VATRegime régime de TVA du vendeur. Conditionne les fréquences de transmission
// des données de transaction et de paiement e-reporting au concentrateur.
type VATRegime string

const (
	RegimeRealNormalMonthly   VATRegime = "real_normal_monthly"   // Réel normal — déclaration mensuelle
	RegimeRealNormalQuarterly VATRegime = "real_normal_quarterly" // Réel normal — déclaration trimestrielle
	RegimeSimplifiedReal      VATRegime = "simplified_real"       // Réel simplifié
	RegimeFranchise           VATRegime = "franchise"             // Franchise en base de TVA
)

// ParseVATRegime valide un code régime de TVA.
func ParseVATRegime(code string) (VATRegime, error) {
	switch r := VATRegime(code); r {
	case RegimeRealNormalMonthly, RegimeRealNormalQuarterly, RegimeSimplifiedReal, RegimeFranchise:
		return r, nil
	}
	return "", fmt.Errorf("régime de TVA inconnu : %q", code)
}

// EReportingTransactionType type de transaction e-reporting (hors e-invoicing).
type EReportingTransactionType string

const (
	TransactionB2CDomestic EReportingTransactionType = "b2c_domestic" // Vente B2C domestique
	TransactionB2BIntraEU  EReportingTransactionType = "b2b_intra_eu" // Intracommunautaire (LIC/AIC)
	TransactionB2BExtraEU  EReportingTransactionType = "b2b_extra_eu" // Hors UE (export/import)
)

// IsInternational indique si le type impose un code pays hors France.
func (t EReportingTransactionType) IsInternational() bool {
	return t == TransactionB2BIntraEU || t == TransactionB2BExtraEU
}

// EReportingTransmissionMode mode de soumission des données au concentrateur via la PA.
type EReportingTransmissionMode string

const (
	TransmissionIndividual EReportingTransmissionMode = "individual" // Transaction par transaction
	TransmissionAggregated EReportingTransmissionMode = "aggregated" // Totaux par période et par SIREN
)
