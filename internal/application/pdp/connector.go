package pdp

import (
	"context"

	"github.com/facturx-fr/facturation-api/internal/application/ereporting"
	"github.com/facturx-fr/facturation-api/internal/domain/facture"
	"github.com/facturx-fr/facturation-api/internal/domain/lifecycle"
)

// Connector interface d'échange avec une Plateforme Agréée, conforme à la
// norme AFNOR XP Z12-013 : dépôt de facture, consultation de statuts et de
// cycle de vie, récupération du XML, recherche, mise à jour de statut,
// annuaire central et e-reporting.
//
// Les implémentations concrètes (plateformes du marché, bouchon mémoire)
// portent leurs propres timeouts et reprises ; la machine à états et les
// codecs n'effectuent aucune E/S.
type Connector interface {
	// Submit dépose une facture sur la plateforme. Le XML et le PDF sont
	// optionnels ; sans XML, la plateforme génère le sien.
	Submit(ctx context.Context, invoice facture.Invoice, xmlBytes, pdfBytes []byte) (SubmissionResponse, error)

	// GetStatus retourne le statut courant d'une facture.
	GetStatus(ctx context.Context, invoiceID string) (facture.InvoiceStatus, error)

	// GetLifecycle retourne l'historique complet du cycle de vie.
	GetLifecycle(ctx context.Context, invoiceID string) (LifecycleResponse, error)

	// GetInvoice retourne le XML de la facture.
	GetInvoice(ctx context.Context, invoiceID string) ([]byte, error)

	// SearchInvoices recherche des factures selon les filtres, avec
	// pagination.
	SearchInvoices(ctx context.Context, filters InvoiceSearchFilters) (InvoiceSearchResponse, error)

	// UpdateStatus fait progresser le cycle de vie d'une facture. La
	// validation de la transition et du motif est déléguée à la machine à
	// états ; une transition illégale remonte telle quelle.
	UpdateStatus(ctx context.Context, invoiceID string, target facture.InvoiceStatus, opts lifecycle.TransitionOptions) (StatusUpdateResponse, error)

	// LookupDirectory consulte l'annuaire central pour un SIREN et retourne
	// la plateforme de réception du destinataire.
	LookupDirectory(ctx context.Context, siren string) (DirectoryEntry, error)

	// SubmitEReportingTransaction soumet des données de transaction
	// (individuelles ou agrégées) au concentrateur via la plateforme.
	SubmitEReportingTransaction(ctx context.Context, submission ereporting.Submission) (EReportingSubmissionResponse, error)

	// SubmitEReportingPayment soumet des données d'encaissement.
	SubmitEReportingPayment(ctx context.Context, submission ereporting.Submission) (EReportingSubmissionResponse, error)

	// GetEReportingStatus retourne le statut de traitement d'une soumission
	// e-reporting.
	GetEReportingStatus(ctx context.Context, submissionID string) (EReportingSubmissionResponse, error)
}
