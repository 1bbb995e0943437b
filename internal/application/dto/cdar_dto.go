package dto

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/facturx-fr/facturation-api/internal/domain/facture"
	"github.com/facturx-fr/facturation-api/internal/infrastructure/cdar"
)

// CDARParty partie d'un message CDAR.
type CDARParty struct {
	Identifier string `json:"identifier"`
	SchemeID   string `json:"scheme_id"`
	Role       string `json:"role"`
}

// CDARGenerateRequest body pour POST /api/cdar/generer. Sans identifiant de
// message, un UUID est attribué.
type CDARGenerateRequest struct {
	MessageID        string           `json:"message_id,omitempty"`
	IssueDate        string           `json:"issue_date"` // AAAA-MM-JJ
	Status           string           `json:"status"`
	InvoiceReference string           `json:"invoice_reference"`
	Sender           CDARParty        `json:"sender"`
	Recipients       []CDARParty      `json:"recipients"`
	Reason           string           `json:"reason,omitempty"`
	ReasonCode       string           `json:"reason_code,omitempty"`
	Amount           *decimal.Decimal `json:"amount,omitempty"`
}

// ToDomain convertit la requête en message CDAR.
func (r CDARGenerateRequest) ToDomain() (cdar.Message, error) {
	status, err := facture.ParseInvoiceStatus(r.Status)
	if err != nil {
		return cdar.Message{}, err
	}
	issueDate, err := time.Parse(dateLayout, r.IssueDate)
	if err != nil {
		return cdar.Message{}, fmt.Errorf("issue_date : format attendu AAAA-MM-JJ : %w", err)
	}
	sender, err := cdarPartyToDomain(r.Sender)
	if err != nil {
		return cdar.Message{}, fmt.Errorf("sender : %w", err)
	}
	recipients := make([]cdar.Party, 0, len(r.Recipients))
	for i, p := range r.Recipients {
		recipient, err := cdarPartyToDomain(p)
		if err != nil {
			return cdar.Message{}, fmt.Errorf("recipients[%d] : %w", i, err)
		}
		recipients = append(recipients, recipient)
	}

	messageID := r.MessageID
	if messageID == "" {
		messageID = uuid.NewString()
	}

	return cdar.Message{
		MessageID:        messageID,
		IssueDateTime:    issueDate,
		Status:           status,
		InvoiceReference: r.InvoiceReference,
		Sender:           sender,
		Recipients:       recipients,
		Reason:           r.Reason,
		ReasonCode:       r.ReasonCode,
		Amount:           r.Amount,
	}, nil
}

func cdarPartyToDomain(p CDARParty) (cdar.Party, error) {
	role, err := facture.ParseCDARRoleCode(p.Role)
	if err != nil {
		return cdar.Party{}, err
	}
	return cdar.Party{Identifier: p.Identifier, SchemeID: p.SchemeID, Role: role}, nil
}

// CDARMessageResponse message CDAR décodé, pour POST /api/cdar/analyser.
type CDARMessageResponse struct {
	MessageID        string           `json:"message_id"`
	IssueDate        string           `json:"issue_date"`
	Status           string           `json:"status"`
	StatusName       string           `json:"status_name"`
	InvoiceReference string           `json:"invoice_reference"`
	Sender           CDARParty        `json:"sender"`
	Recipients       []CDARParty      `json:"recipients"`
	Reason           string           `json:"reason,omitempty"`
	ReasonCode       string           `json:"reason_code,omitempty"`
	Amount           *decimal.Decimal `json:"amount,omitempty"`
}

// NewCDARMessageResponse construit la réponse depuis un message décodé.
func NewCDARMessageResponse(msg cdar.Message) CDARMessageResponse {
	recipients := make([]CDARParty, 0, len(msg.Recipients))
	for _, p := range msg.Recipients {
		recipients = append(recipients, cdarPartyFromDomain(p))
	}
	return CDARMessageResponse{
		MessageID:        msg.MessageID,
		IssueDate:        msg.IssueDateTime.Format(dateLayout),
		Status:           string(msg.Status),
		StatusName:       msg.Status.Name(),
		InvoiceReference: msg.InvoiceReference,
		Sender:           cdarPartyFromDomain(msg.Sender),
		Recipients:       recipients,
		Reason:           msg.Reason,
		ReasonCode:       msg.ReasonCode,
		Amount:           msg.Amount,
	}
}

func cdarPartyFromDomain(p cdar.Party) CDARParty {
	return CDARParty{Identifier: p.Identifier, SchemeID: p.SchemeID, Role: string(p.Role)}
}
