package pdp

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/facturx-fr/facturation-api/internal/domain/facture"
	"github.com/facturx-fr/facturation-api/internal/domain/lifecycle"
)

// InvoiceDirection sens d'une facture vue depuis la plateforme.
type InvoiceDirection string

const (
	DirectionSent     InvoiceDirection = "sent"
	DirectionReceived InvoiceDirection = "received"
)

// Statuts de traitement d'une soumission e-reporting côté PA.
const (
	EReportingAccepted = "accepted"
	EReportingRejected = "rejected"
	EReportingPending  = "pending"
)

// SubmissionResponse réponse au dépôt d'une facture : identifiant attribué
// par la PA et statut initial.
type SubmissionResponse struct {
	InvoiceID   string
	Status      facture.InvoiceStatus
	SubmittedAt time.Time
}

// LifecycleResponse historique complet du cycle de vie d'une facture,
// événement de dépôt initial compris.
type LifecycleResponse struct {
	InvoiceID     string
	CurrentStatus facture.InvoiceStatus
	Events        []lifecycle.Event
}

// StatusUpdateResponse confirmation d'un changement de statut accepté par
// la PA.
type StatusUpdateResponse struct {
	InvoiceID string
	Status    facture.InvoiceStatus
	UpdatedAt time.Time
}

// InvoiceSearchFilters critères de recherche de factures, avec pagination.
// Les champs à zéro sont ignorés. Page démarre à 1 ; PageSize vaut 50 par
// défaut, 500 au plus.
type InvoiceSearchFilters struct {
	Status      facture.InvoiceStatus
	DateFrom    *time.Time
	DateTo      *time.Time
	SellerSIREN string
	BuyerSIREN  string
	Direction   InvoiceDirection
	Page        int
	PageSize    int
}

// DefaultPageSize et MaxPageSize bornes de pagination de la recherche.
const (
	DefaultPageSize = 50
	MaxPageSize     = 500
)

// Normalize applique les valeurs par défaut et les bornes de pagination.
func (f InvoiceSearchFilters) Normalize() InvoiceSearchFilters {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.PageSize < 1 {
		f.PageSize = DefaultPageSize
	}
	if f.PageSize > MaxPageSize {
		f.PageSize = MaxPageSize
	}
	return f
}

// InvoiceSearchResult résumé d'une facture retournée par la recherche.
type InvoiceSearchResult struct {
	InvoiceID    string
	Number       string
	IssueDate    time.Time
	SellerName   string
	BuyerName    string
	TotalInclTax decimal.Decimal
	Currency     string
	Status       facture.InvoiceStatus
	Direction    InvoiceDirection
}

// InvoiceSearchResponse page de résultats de recherche.
type InvoiceSearchResponse struct {
	Results    []InvoiceSearchResult
	TotalCount int
	Page       int
	PageSize   int
}

// EReportingSubmissionResponse réponse de la PA à une soumission e-reporting :
// statut de traitement et éventuelles erreurs retournées.
type EReportingSubmissionResponse struct {
	SubmissionID string
	Status       string
	SubmittedAt  time.Time
	Errors       []string
}

// DirectoryEntry entrée de l'annuaire central : le mapping entre un SIREN et
// sa Plateforme Agréée de réception, tel que publié par le PPF.
type DirectoryEntry struct {
	SIREN             string
	CompanyName       string
	PlatformID        string
	PlatformName      string
	ElectronicAddress string
	RegistrationDate  *time.Time
}
