// Package lifecycle implémente la machine à états du cycle de vie des factures
// électroniques : le graphe complet des 15 statuts (5 obligatoires + 10
// recommandés) conforme à la norme AFNOR XP Z12-012 et aux spécifications
// DGFiP v3.1. Chaque transition est validée, les contraintes métier sont
// vérifiées (motif obligatoire pour REFUSEE, montant optionnel pour ENCAISSEE)
// et un historique horodaté des événements est conservé.
package lifecycle

import "github.com/facturx-fr/facturation-api/internal/domain/facture"

// Transitions graphe des transitions autorisées. Chaque statut y figure comme
// clé ; une liste vide marque un statut terminal. Le cycle
// SUSPENDUE → COMPLETEE → PRISE_EN_CHARGE est voulu : il modélise la boucle de
// complétion d'une facture suspendue pour informations manquantes.
var Transitions = map[facture.InvoiceStatus][]facture.InvoiceStatus{
	// Émission
	facture.StatusDeposee: {
		facture.StatusEmise,
		facture.StatusRejeteeEmission,
	},
	facture.StatusEmise: {
		facture.StatusRecue,
		facture.StatusRejeteeReception,
	},
	// Réception
	facture.StatusRecue: {
		facture.StatusMiseADisposition,
		facture.StatusRejeteeReception,
	},
	facture.StatusMiseADisposition: {
		facture.StatusPriseEnCharge,
		facture.StatusRejeteeReception,
	},
	// Traitement acheteur
	facture.StatusPriseEnCharge: {
		facture.StatusApprouvee,
		facture.StatusPartiellementApprouvee,
		facture.StatusRefusee,
		facture.StatusEnLitige,
		facture.StatusSuspendue,
	},
	facture.StatusApprouvee: {
		facture.StatusPaiementTransmis,
		facture.StatusEncaissee,
	},
	facture.StatusPartiellementApprouvee: {
		facture.StatusPaiementTransmis,
		facture.StatusRefusee,
		facture.StatusEnLitige,
	},
	facture.StatusEnLitige: {
		facture.StatusApprouvee,
		facture.StatusRefusee,
		facture.StatusSuspendue,
	},
	facture.StatusSuspendue: {
		facture.StatusCompletee,
	},
	facture.StatusCompletee: {
		facture.StatusPriseEnCharge,
	},
	// Paiement
	facture.StatusPaiementTransmis: {
		facture.StatusEncaissee,
	},
	// Terminaux (aucune transition sortante)
	facture.StatusRejeteeEmission:  {},
	facture.StatusRejeteeReception: {},
	facture.StatusRefusee:          {},
	facture.StatusEncaissee:        {},
}

// StatusInfo métadonnées d'un statut de cycle de vie.
type StatusInfo struct {
	Category        facture.StatusCategory
	DefaultProducer facture.CDARRoleCode
	ReasonRequired  bool
}

// StatusMetadata métadonnées par statut : catégorie (obligatoire/recommandé),
// rôle producteur par défaut et exigence d'un motif.
var StatusMetadata = map[facture.InvoiceStatus]StatusInfo{
	// --- Obligatoires (transmis au CDD/PPF) ---
	facture.StatusDeposee: {
		Category:        facture.CategoryMandatory,
		DefaultProducer: facture.RolePlatform,
	},
	facture.StatusRejeteeEmission: {
		Category:        facture.CategoryMandatory,
		DefaultProducer: facture.RolePlatform,
	},
	facture.StatusRefusee: {
		Category:        facture.CategoryMandatory,
		DefaultProducer: facture.RoleBuyer,
		ReasonRequired:  true,
	},
	facture.StatusRejeteeReception: {
		Category:        facture.CategoryMandatory,
		DefaultProducer: facture.RolePlatform,
	},
	facture.StatusEncaissee: {
		Category:        facture.CategoryMandatory,
		DefaultProducer: facture.RoleSeller,
	},
	// --- Recommandés (entre les parties) ---
	facture.StatusEmise: {
		Category:        facture.CategoryRecommended,
		DefaultProducer: facture.RolePlatform,
	},
	facture.StatusRecue: {
		Category:        facture.CategoryRecommended,
		DefaultProducer: facture.RolePlatform,
	},
	facture.StatusMiseADisposition: {
		Category:        facture.CategoryRecommended,
		DefaultProducer: facture.RolePlatform,
	},
	facture.StatusPriseEnCharge: {
		Category:        facture.CategoryRecommended,
		DefaultProducer: facture.RoleBuyer,
	},
	facture.StatusApprouvee: {
		Category:        facture.CategoryRecommended,
		DefaultProducer: facture.RoleBuyer,
	},
	facture.StatusPartiellementApprouvee: {
		Category:        facture.CategoryRecommended,
		DefaultProducer: facture.RoleBuyer,
	},
	facture.StatusEnLitige: {
		Category:        facture.CategoryRecommended,
		DefaultProducer: facture.RoleBuyer,
	},
	facture.StatusSuspendue: {
		Category:        facture.CategoryRecommended,
		DefaultProducer: facture.RoleBuyer,
	},
	facture.StatusPaiementTransmis: {
		Category:        facture.CategoryRecommended,
		DefaultProducer: facture.RoleBuyer,
	},
	facture.StatusCompletee: {
		Category:        facture.CategoryRecommended,
		DefaultProducer: facture.RoleSeller,
	},
}

// AllowedTargets retourne les statuts directement atteignables depuis status.
// Fonction totale : une liste vide pour un statut terminal ou inconnu.
func AllowedTargets(status facture.InvoiceStatus) []facture.InvoiceStatus {
	return Transitions[status]
}

// IsTerminal indique si le statut n'a aucune transition sortante.
func IsTerminal(status facture.InvoiceStatus) bool {
	return len(Transitions[status]) == 0 && status.IsKnown()
}

// Metadata retourne les métadonnées d'un statut.
func Metadata(status facture.InvoiceStatus) (StatusInfo, bool) {
	info, ok := StatusMetadata[status]
	return info, ok
}

// IsMandatory indique si le statut est de catégorie obligatoire
// (transmis au CDD/PPF).
func IsMandatory(status facture.InvoiceStatus) bool {
	info, ok := StatusMetadata[status]
	return ok && info.Category == facture.CategoryMandatory
}
