package dto

import (
	"encoding/base64"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/facturx-fr/facturation-api/internal/application/pdp"
	"github.com/facturx-fr/facturation-api/internal/domain/facture"
	"github.com/facturx-fr/facturation-api/internal/domain/lifecycle"
	"github.com/facturx-fr/facturation-api/pkg/siren"
)

// dateLayout format des dates côté API (ISO 8601, sans heure).
const dateLayout = "2006-01-02"

// AddressRequest adresse postale d'une partie.
type AddressRequest struct {
	Street      string `json:"street"`
	City        string `json:"city"`
	PostalCode  string `json:"postal_code"`
	CountryCode string `json:"country_code"`
}

// PartyRequest partie à la facture (vendeur ou acheteur).
type PartyRequest struct {
	Name      string         `json:"name"`
	SIREN     string         `json:"siren"`
	SIRET     string         `json:"siret,omitempty"`
	VATNumber string         `json:"vat_number,omitempty"`
	Address   AddressRequest `json:"address"`
}

// InvoiceLineRequest poste de facturation.
type InvoiceLineRequest struct {
	Description        string          `json:"description"`
	Quantity           decimal.Decimal `json:"quantity"`
	Unit               string          `json:"unit,omitempty"`
	UnitPrice          decimal.Decimal `json:"unit_price"`
	VATRate            decimal.Decimal `json:"vat_rate"`
	VATCategory        string          `json:"vat_category,omitempty"`
	VATExemptionReason string          `json:"vat_exemption_reason,omitempty"`
}

// SubmitInvoiceRequest body pour POST /api/factures. Le XML et le PDF sont
// optionnels, encodés en base64 ; sans XML la plateforme stocke un contenu
// minimal.
type SubmitInvoiceRequest struct {
	Number            string               `json:"number"`
	IssueDate         string               `json:"issue_date"` // AAAA-MM-JJ
	TypeCode          string               `json:"type_code,omitempty"`
	Currency          string               `json:"currency,omitempty"`
	OperationCategory string               `json:"operation_category"`
	VATOnDebits       bool                 `json:"vat_on_debits,omitempty"`
	Seller            PartyRequest         `json:"seller"`
	Buyer             PartyRequest         `json:"buyer"`
	Lines             []InvoiceLineRequest `json:"lines"`
	XMLBase64         string               `json:"xml_base64,omitempty"`
	PDFBase64         string               `json:"pdf_base64,omitempty"`
}

// ToDomain convertit la requête en facture du domaine. Retourne les octets
// XML et PDF décodés.
func (r SubmitInvoiceRequest) ToDomain() (facture.Invoice, []byte, []byte, error) {
	issueDate, err := time.Parse(dateLayout, r.IssueDate)
	if err != nil {
		return facture.Invoice{}, nil, nil, fmt.Errorf("issue_date : format attendu AAAA-MM-JJ : %w", err)
	}

	typeCode := facture.InvoiceTypeCode(r.TypeCode)
	if r.TypeCode == "" {
		typeCode = facture.TypeInvoice
	}
	currency := r.Currency
	if currency == "" {
		currency = "EUR"
	}

	lines := make([]facture.InvoiceLine, 0, len(r.Lines))
	for _, l := range r.Lines {
		unit := facture.UnitOfMeasure(l.Unit)
		if l.Unit == "" {
			unit = facture.UnitPiece
		}
		category := facture.VATCategory(l.VATCategory)
		if l.VATCategory == "" {
			category = facture.VATStandard
		}
		lines = append(lines, facture.InvoiceLine{
			Description:        l.Description,
			Quantity:           l.Quantity,
			Unit:               unit,
			UnitPrice:          l.UnitPrice,
			VATRate:            l.VATRate,
			VATCategory:        category,
			VATExemptionReason: l.VATExemptionReason,
		})
	}

	seller, err := partyToDomain(r.Seller)
	if err != nil {
		return facture.Invoice{}, nil, nil, fmt.Errorf("seller : %w", err)
	}
	buyer, err := partyToDomain(r.Buyer)
	if err != nil {
		return facture.Invoice{}, nil, nil, fmt.Errorf("buyer : %w", err)
	}

	inv := facture.Invoice{
		Number:            r.Number,
		IssueDate:         issueDate,
		TypeCode:          typeCode,
		Currency:          currency,
		OperationCategory: facture.OperationCategory(r.OperationCategory),
		VATOnDebits:       r.VATOnDebits,
		Seller:            seller,
		Buyer:             buyer,
		Lines:             lines,
	}

	var xmlBytes, pdfBytes []byte
	if r.XMLBase64 != "" {
		if xmlBytes, err = base64.StdEncoding.DecodeString(r.XMLBase64); err != nil {
			return facture.Invoice{}, nil, nil, fmt.Errorf("xml_base64 : %w", err)
		}
	}
	if r.PDFBase64 != "" {
		if pdfBytes, err = base64.StdEncoding.DecodeString(r.PDFBase64); err != nil {
			return facture.Invoice{}, nil, nil, fmt.Errorf("pdf_base64 : %w", err)
		}
	}

	return inv, xmlBytes, pdfBytes, nil
}

func partyToDomain(p PartyRequest) (facture.Party, error) {
	if p.SIREN != "" {
		if err := siren.ValidateSIREN(p.SIREN); err != nil {
			return facture.Party{}, err
		}
	}
	if p.SIRET != "" {
		sirenOfSiret, err := siren.SIRENOfSIRET(p.SIRET)
		if err != nil {
			return facture.Party{}, err
		}
		if p.SIREN != "" && sirenOfSiret != p.SIREN {
			return facture.Party{}, fmt.Errorf("SIRET %q incohérent avec le SIREN %q", p.SIRET, p.SIREN)
		}
	}
	return facture.Party{
		Name:      p.Name,
		SIREN:     p.SIREN,
		SIRET:     p.SIRET,
		VATNumber: p.VATNumber,
		Address: facture.Address{
			Street:      p.Address.Street,
			City:        p.Address.City,
			PostalCode:  p.Address.PostalCode,
			CountryCode: p.Address.CountryCode,
		},
	}, nil
}

// SubmissionResponse réponse au dépôt d'une facture.
type SubmissionResponse struct {
	InvoiceID   string    `json:"invoice_id"`
	Status      string    `json:"status"`
	StatusName  string    `json:"status_name"`
	SubmittedAt time.Time `json:"submitted_at"`
}

// NewSubmissionResponse construit la réponse depuis la réponse connecteur.
func NewSubmissionResponse(resp pdp.SubmissionResponse) SubmissionResponse {
	return SubmissionResponse{
		InvoiceID:   resp.InvoiceID,
		Status:      string(resp.Status),
		StatusName:  resp.Status.Name(),
		SubmittedAt: resp.SubmittedAt,
	}
}

// StatusResponse statut courant d'une facture.
type StatusResponse struct {
	InvoiceID  string `json:"invoice_id"`
	Status     string `json:"status"`
	StatusName string `json:"status_name"`
	Terminal   bool   `json:"terminal"`
	Mandatory  bool   `json:"mandatory"`
}

// LifecycleEventResponse événement du cycle de vie dans les réponses.
type LifecycleEventResponse struct {
	Timestamp     time.Time        `json:"timestamp"`
	Status        string           `json:"status"`
	StatusName    string           `json:"status_name"`
	Reason        string           `json:"reason,omitempty"`
	ReasonCode    string           `json:"reason_code,omitempty"`
	Producer      string           `json:"producer,omitempty"`
	Amount        *decimal.Decimal `json:"amount,omitempty"`
	CDARMessageID string           `json:"cdar_message_id,omitempty"`
}

// LifecycleResponse historique du cycle de vie d'une facture.
type LifecycleResponse struct {
	InvoiceID     string                   `json:"invoice_id"`
	CurrentStatus string                   `json:"current_status"`
	StatusName    string                   `json:"status_name"`
	Events        []LifecycleEventResponse `json:"events"`
}

// NewLifecycleResponse construit la réponse depuis la réponse connecteur.
func NewLifecycleResponse(resp pdp.LifecycleResponse) LifecycleResponse {
	events := make([]LifecycleEventResponse, 0, len(resp.Events))
	for _, e := range resp.Events {
		events = append(events, LifecycleEventResponse{
			Timestamp:     e.Timestamp,
			Status:        string(e.Status),
			StatusName:    e.Status.Name(),
			Reason:        e.Reason,
			ReasonCode:    e.ReasonCode,
			Producer:      string(e.Producer),
			Amount:        e.Amount,
			CDARMessageID: e.CDARMessageID,
		})
	}
	return LifecycleResponse{
		InvoiceID:     resp.InvoiceID,
		CurrentStatus: string(resp.CurrentStatus),
		StatusName:    resp.CurrentStatus.Name(),
		Events:        events,
	}
}

// UpdateStatusRequest body pour POST /api/factures/:id/statut.
type UpdateStatusRequest struct {
	Status     string           `json:"status"`
	Reason     string           `json:"reason,omitempty"`
	ReasonCode string           `json:"reason_code,omitempty"`
	Amount     *decimal.Decimal `json:"amount,omitempty"`
}

// TransitionOptions options de transition dérivées de la requête.
func (r UpdateStatusRequest) TransitionOptions() lifecycle.TransitionOptions {
	return lifecycle.TransitionOptions{
		Reason:     r.Reason,
		ReasonCode: r.ReasonCode,
		Amount:     r.Amount,
	}
}

// StatusUpdateResponse confirmation d'un changement de statut.
type StatusUpdateResponse struct {
	InvoiceID  string    `json:"invoice_id"`
	Status     string    `json:"status"`
	StatusName string    `json:"status_name"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// SearchInvoicesQuery paramètres de GET /api/factures.
type SearchInvoicesQuery struct {
	Status      string `query:"status"`
	DateFrom    string `query:"date_from"` // AAAA-MM-JJ
	DateTo      string `query:"date_to"`
	SellerSIREN string `query:"seller_siren"`
	BuyerSIREN  string `query:"buyer_siren"`
	Direction   string `query:"direction"` // sent | received
	Page        int    `query:"page"`
	PageSize    int    `query:"page_size"`
}

// ToFilters convertit la requête en filtres connecteur.
func (q SearchInvoicesQuery) ToFilters() (pdp.InvoiceSearchFilters, error) {
	filters := pdp.InvoiceSearchFilters{
		Status:      facture.InvoiceStatus(q.Status),
		SellerSIREN: q.SellerSIREN,
		BuyerSIREN:  q.BuyerSIREN,
		Direction:   pdp.InvoiceDirection(q.Direction),
		Page:        q.Page,
		PageSize:    q.PageSize,
	}
	if q.Status != "" && !facture.InvoiceStatus(q.Status).IsKnown() {
		return pdp.InvoiceSearchFilters{}, fmt.Errorf("status : code statut inconnu : %q", q.Status)
	}
	if q.DateFrom != "" {
		d, err := time.Parse(dateLayout, q.DateFrom)
		if err != nil {
			return pdp.InvoiceSearchFilters{}, fmt.Errorf("date_from : format attendu AAAA-MM-JJ : %w", err)
		}
		filters.DateFrom = &d
	}
	if q.DateTo != "" {
		d, err := time.Parse(dateLayout, q.DateTo)
		if err != nil {
			return pdp.InvoiceSearchFilters{}, fmt.Errorf("date_to : format attendu AAAA-MM-JJ : %w", err)
		}
		filters.DateTo = &d
	}
	return filters, nil
}

// InvoiceSearchResultResponse résumé d'une facture dans les résultats.
type InvoiceSearchResultResponse struct {
	InvoiceID    string          `json:"invoice_id"`
	Number       string          `json:"number"`
	IssueDate    string          `json:"issue_date"`
	SellerName   string          `json:"seller_name"`
	BuyerName    string          `json:"buyer_name"`
	TotalInclTax decimal.Decimal `json:"total_incl_tax"`
	Currency     string          `json:"currency"`
	Status       string          `json:"status"`
	Direction    string          `json:"direction"`
}

// SearchInvoicesResponse page de résultats de recherche.
type SearchInvoicesResponse struct {
	Results    []InvoiceSearchResultResponse `json:"results"`
	TotalCount int                           `json:"total_count"`
	Page       int                           `json:"page"`
	PageSize   int                           `json:"page_size"`
}

// NewSearchInvoicesResponse construit la réponse depuis la réponse connecteur.
func NewSearchInvoicesResponse(resp pdp.InvoiceSearchResponse) SearchInvoicesResponse {
	results := make([]InvoiceSearchResultResponse, 0, len(resp.Results))
	for _, r := range resp.Results {
		results = append(results, InvoiceSearchResultResponse{
			InvoiceID:    r.InvoiceID,
			Number:       r.Number,
			IssueDate:    r.IssueDate.Format(dateLayout),
			SellerName:   r.SellerName,
			BuyerName:    r.BuyerName,
			TotalInclTax: r.TotalInclTax,
			Currency:     r.Currency,
			Status:       string(r.Status),
			Direction:    string(r.Direction),
		})
	}
	return SearchInvoicesResponse{
		Results:    results,
		TotalCount: resp.TotalCount,
		Page:       resp.Page,
		PageSize:   resp.PageSize,
	}
}

// DirectoryEntryResponse entrée annuaire pour GET /api/annuaire/:siren.
type DirectoryEntryResponse struct {
	SIREN             string `json:"siren"`
	CompanyName       string `json:"company_name"`
	PlatformID        string `json:"platform_id"`
	PlatformName      string `json:"platform_name"`
	ElectronicAddress string `json:"electronic_address"`
	RegistrationDate  string `json:"registration_date,omitempty"`
}

// NewDirectoryEntryResponse construit la réponse depuis l'entrée annuaire.
func NewDirectoryEntryResponse(entry pdp.DirectoryEntry) DirectoryEntryResponse {
	resp := DirectoryEntryResponse{
		SIREN:             entry.SIREN,
		CompanyName:       entry.CompanyName,
		PlatformID:        entry.PlatformID,
		PlatformName:      entry.PlatformName,
		ElectronicAddress: entry.ElectronicAddress,
	}
	if entry.RegistrationDate != nil {
		resp.RegistrationDate = entry.RegistrationDate.Format(dateLayout)
	}
	return resp
}
