// Package memory fournit un connecteur PDP en mémoire pour les tests et le
// développement : factures stockées localement, cycle de vie simulé par la
// machine à états, annuaire central simulé.
package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/facturx-fr/facturation-api/internal/application/ereporting"
	"github.com/facturx-fr/facturation-api/internal/application/pdp"
	"github.com/facturx-fr/facturation-api/internal/domain/facture"
	"github.com/facturx-fr/facturation-api/internal/domain/lifecycle"
)

type storedInvoice struct {
	invoiceID   string
	invoice     facture.Invoice
	xmlBytes    []byte
	lifecycle   *lifecycle.Manager
	submittedAt time.Time
	direction   pdp.InvoiceDirection

	// Événement de dépôt initial. Il ne figure pas dans l'historique du
	// Manager : le dépôt est le statut de départ, pas une transition.
	initialEvent lifecycle.Event
}

// Connector implémentation complète de pdp.Connector en mémoire. Contrairement
// au cœur de la machine à états, le connecteur est partagé entre handlers : un
// verrou protège les tables et sérialise les transitions par facture.
type Connector struct {
	mu          sync.RWMutex
	invoices    map[string]*storedInvoice
	directory   map[string]pdp.DirectoryEntry
	submissions map[string]pdp.EReportingSubmissionResponse
	counter     int
}

var _ pdp.Connector = (*Connector)(nil)

// NewConnector construit un connecteur vide.
func NewConnector() *Connector {
	return &Connector{
		invoices:    make(map[string]*storedInvoice),
		directory:   make(map[string]pdp.DirectoryEntry),
		submissions: make(map[string]pdp.EReportingSubmissionResponse),
	}
}

// nextID identifiant séquentiel. Appelé sous verrou.
func (c *Connector) nextID() string {
	c.counter++
	return fmt.Sprintf("MEM-%06d", c.counter)
}

func (c *Connector) store(invoice facture.Invoice, xmlBytes []byte, direction pdp.InvoiceDirection) *storedInvoice {
	now := time.Now().UTC()
	stored := &storedInvoice{
		invoiceID:   c.nextID(),
		invoice:     invoice,
		xmlBytes:    xmlBytes,
		lifecycle:   lifecycle.NewManager(invoice.Number),
		submittedAt: now,
		direction:   direction,
		initialEvent: lifecycle.Event{
			Timestamp: now,
			Status:    facture.StatusDeposee,
		},
	}
	c.invoices[stored.invoiceID] = stored
	return stored
}

func (c *Connector) getStored(invoiceID string) (*storedInvoice, error) {
	stored, ok := c.invoices[invoiceID]
	if !ok {
		return nil, fmt.Errorf("facture %s : %w", invoiceID, pdp.ErrNotFound)
	}
	return stored, nil
}

// Submit dépose une facture. Sans XML fourni, un contenu minimal est stocké.
func (c *Connector) Submit(_ context.Context, invoice facture.Invoice, xmlBytes, _ []byte) (pdp.SubmissionResponse, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if len(xmlBytes) == 0 {
		xmlBytes = []byte("<placeholder/>")
	}
	stored := c.store(invoice, xmlBytes, pdp.DirectionSent)

	return pdp.SubmissionResponse{
		InvoiceID:   stored.invoiceID,
		Status:      facture.StatusDeposee,
		SubmittedAt: stored.submittedAt,
	}, nil
}

func (c *Connector) GetStatus(_ context.Context, invoiceID string) (facture.InvoiceStatus, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	stored, err := c.getStored(invoiceID)
	if err != nil {
		return "", err
	}
	return stored.lifecycle.Status(), nil
}

// GetLifecycle retourne l'historique complet, événement de dépôt en tête.
func (c *Connector) GetLifecycle(_ context.Context, invoiceID string) (pdp.LifecycleResponse, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	stored, err := c.getStored(invoiceID)
	if err != nil {
		return pdp.LifecycleResponse{}, err
	}

	history := stored.lifecycle.History()
	events := make([]lifecycle.Event, 0, len(history)+1)
	events = append(events, stored.initialEvent)
	events = append(events, history...)

	return pdp.LifecycleResponse{
		InvoiceID:     invoiceID,
		CurrentStatus: stored.lifecycle.Status(),
		Events:        events,
	}, nil
}

func (c *Connector) GetInvoice(_ context.Context, invoiceID string) ([]byte, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	stored, err := c.getStored(invoiceID)
	if err != nil {
		return nil, err
	}
	return stored.xmlBytes, nil
}

// SearchInvoices filtre les factures stockées puis pagine. Les résultats sont
// ordonnés par identifiant croissant (ordre de dépôt).
func (c *Connector) SearchInvoices(_ context.Context, filters pdp.InvoiceSearchFilters) (pdp.InvoiceSearchResponse, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	filters = filters.Normalize()

	var results []pdp.InvoiceSearchResult
	for i := 1; i <= c.counter; i++ {
		stored, ok := c.invoices[fmt.Sprintf("MEM-%06d", i)]
		if !ok {
			continue
		}
		if !matches(stored, filters) {
			continue
		}
		inv := stored.invoice
		results = append(results, pdp.InvoiceSearchResult{
			InvoiceID:    stored.invoiceID,
			Number:       inv.Number,
			IssueDate:    inv.IssueDate,
			SellerName:   inv.Seller.Name,
			BuyerName:    inv.Buyer.Name,
			TotalInclTax: inv.TotalInclTax(),
			Currency:     inv.Currency,
			Status:       stored.lifecycle.Status(),
			Direction:    stored.direction,
		})
	}

	totalCount := len(results)
	start := (filters.Page - 1) * filters.PageSize
	if start > totalCount {
		start = totalCount
	}
	end := start + filters.PageSize
	if end > totalCount {
		end = totalCount
	}

	return pdp.InvoiceSearchResponse{
		Results:    results[start:end],
		TotalCount: totalCount,
		Page:       filters.Page,
		PageSize:   filters.PageSize,
	}, nil
}

func matches(stored *storedInvoice, filters pdp.InvoiceSearchFilters) bool {
	inv := stored.invoice
	if filters.Status != "" && stored.lifecycle.Status() != filters.Status {
		return false
	}
	if filters.DateFrom != nil && inv.IssueDate.Before(*filters.DateFrom) {
		return false
	}
	if filters.DateTo != nil && inv.IssueDate.After(*filters.DateTo) {
		return false
	}
	if filters.SellerSIREN != "" && inv.Seller.SIREN != filters.SellerSIREN {
		return false
	}
	if filters.BuyerSIREN != "" && inv.Buyer.SIREN != filters.BuyerSIREN {
		return false
	}
	if filters.Direction != "" && stored.direction != filters.Direction {
		return false
	}
	return true
}

// UpdateStatus fait progresser le cycle de vie. La machine à états valide la
// transition et le motif ; son erreur remonte sans altérer l'état stocké.
func (c *Connector) UpdateStatus(
	_ context.Context,
	invoiceID string,
	target facture.InvoiceStatus,
	opts lifecycle.TransitionOptions,
) (pdp.StatusUpdateResponse, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	stored, err := c.getStored(invoiceID)
	if err != nil {
		return pdp.StatusUpdateResponse{}, err
	}

	if _, err := stored.lifecycle.Transition(target, opts); err != nil {
		return pdp.StatusUpdateResponse{}, err
	}

	return pdp.StatusUpdateResponse{
		InvoiceID: invoiceID,
		Status:    target,
		UpdatedAt: time.Now().UTC(),
	}, nil
}

func (c *Connector) LookupDirectory(_ context.Context, siren string) (pdp.DirectoryEntry, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, ok := c.directory[siren]
	if !ok {
		return pdp.DirectoryEntry{}, fmt.Errorf("annuaire, SIREN %s : %w", siren, pdp.ErrNotFound)
	}
	return entry, nil
}

// SubmitEReportingTransaction accepte une soumission de transaction ou
// d'agrégat. Une soumission sans bloc transaction ni agrégat est rejetée.
func (c *Connector) SubmitEReportingTransaction(_ context.Context, submission ereporting.Submission) (pdp.EReportingSubmissionResponse, error) {
	if submission.Transaction == nil && submission.Aggregated == nil {
		return pdp.EReportingSubmissionResponse{}, &pdp.ValidationError{
			Message: "soumission e-reporting invalide",
			Errors:  []string{"données de transaction ou d'agrégat requises"},
		}
	}
	return c.acceptSubmission(submission), nil
}

// SubmitEReportingPayment accepte une soumission d'encaissement.
func (c *Connector) SubmitEReportingPayment(_ context.Context, submission ereporting.Submission) (pdp.EReportingSubmissionResponse, error) {
	if submission.Payment == nil {
		return pdp.EReportingSubmissionResponse{}, &pdp.ValidationError{
			Message: "soumission e-reporting invalide",
			Errors:  []string{"données d'encaissement requises"},
		}
	}
	return c.acceptSubmission(submission), nil
}

func (c *Connector) acceptSubmission(submission ereporting.Submission) pdp.EReportingSubmissionResponse {
	c.mu.Lock()
	defer c.mu.Unlock()

	response := pdp.EReportingSubmissionResponse{
		SubmissionID: submission.SubmissionID,
		Status:       pdp.EReportingAccepted,
		SubmittedAt:  time.Now().UTC(),
	}
	c.submissions[submission.SubmissionID] = response
	return response
}

func (c *Connector) GetEReportingStatus(_ context.Context, submissionID string) (pdp.EReportingSubmissionResponse, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	response, ok := c.submissions[submissionID]
	if !ok {
		return pdp.EReportingSubmissionResponse{}, fmt.Errorf("soumission %s : %w", submissionID, pdp.ErrNotFound)
	}
	return response, nil
}

// AddDirectoryEntry alimente l'annuaire simulé. Propre au connecteur mémoire.
func (c *Connector) AddDirectoryEntry(entry pdp.DirectoryEntry) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.directory[entry.SIREN] = entry
}

// AddReceivedInvoice simule la réception d'une facture entrante et retourne
// l'identifiant attribué. Propre au connecteur mémoire.
func (c *Connector) AddReceivedInvoice(invoice facture.Invoice, xmlBytes []byte) string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.store(invoice, xmlBytes, pdp.DirectionReceived).invoiceID
}
