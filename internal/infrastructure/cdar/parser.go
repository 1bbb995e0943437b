package cdar

import (
	"fmt"
	"time"

	"github.com/beevik/etree"
	"github.com/shopspring/decimal"

	"github.com/facturx-fr/facturation-api/internal/domain/facture"
)

// StructuralError élément XML obligatoire absent du message CDAR. Le message
// est rejeté en bloc, aucun résultat partiel n'est produit.
type StructuralError struct {
	Element string
}

func (e *StructuralError) Error() string {
	return fmt.Sprintf("cdar : élément obligatoire manquant : %s", e.Element)
}

// Parser extrait un Message d'un XML CDAR reçu. Transformation inverse du
// Generator, liée par le contrat d'aller-retour.
type Parser struct{}

// NewParser crée le parseur.
func NewParser() *Parser {
	return &Parser{}
}

// Parse analyse le XML CDAR et retourne le Message extrait. Retourne une
// StructuralError si un élément obligatoire manque, ou une erreur de décodage
// si le code statut ou un code rôle n'est pas reconnu.
func (p *Parser) Parse(xmlBytes []byte) (Message, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(xmlBytes); err != nil {
		return Message{}, fmt.Errorf("cdar : XML invalide : %w", err)
	}
	root := doc.Root()
	if root == nil {
		return Message{}, &StructuralError{Element: "CrossDomainAcknowledgementAndResponse"}
	}

	// ExchangedDocument
	exchanged := root.SelectElement("rsm:ExchangedDocument")
	if exchanged == nil {
		return Message{}, &StructuralError{Element: "ExchangedDocument"}
	}

	messageID, err := p.requiredText(exchanged, "ram:ID")
	if err != nil {
		return Message{}, err
	}
	statusText, err := p.requiredText(exchanged, "ram:StatusCode")
	if err != nil {
		return Message{}, err
	}
	status, err := facture.ParseInvoiceStatus(statusText)
	if err != nil {
		return Message{}, fmt.Errorf("cdar : %w", err)
	}

	dtString := exchanged.FindElement("ram:IssueDateTime/udt:DateTimeString")
	if dtString == nil || dtString.Text() == "" {
		return Message{}, &StructuralError{Element: "IssueDateTime"}
	}
	issueDateTime, err := time.Parse("20060102", dtString.Text())
	if err != nil {
		return Message{}, fmt.Errorf("cdar : date d'émission invalide %q : %w", dtString.Text(), err)
	}

	// Sender
	senderElem := exchanged.SelectElement("ram:SenderTradeParty")
	if senderElem == nil {
		return Message{}, &StructuralError{Element: "SenderTradeParty"}
	}
	sender, err := p.parseParty(senderElem)
	if err != nil {
		return Message{}, err
	}

	// Recipients (zéro ou plus : l'absence n'est pas une erreur)
	var recipients []Party
	for _, elem := range exchanged.SelectElements("ram:RecipientTradeParty") {
		recipient, err := p.parseParty(elem)
		if err != nil {
			return Message{}, err
		}
		recipients = append(recipients, recipient)
	}

	// AcknowledgementDocument
	ack := root.SelectElement("rsm:AcknowledgementDocument")
	if ack == nil {
		return Message{}, &StructuralError{Element: "AcknowledgementDocument"}
	}

	reason := p.optionalText(ack, "ram:ReasonInformation")
	reasonCode := p.optionalText(ack, "ram:ReasonCode")

	var amount *decimal.Decimal
	if amountText := p.optionalText(ack, "ram:SpecifiedAmount"); amountText != "" {
		d, err := decimal.NewFromString(amountText)
		if err != nil {
			return Message{}, fmt.Errorf("cdar : montant invalide %q : %w", amountText, err)
		}
		amount = &d
	}

	refDoc := ack.SelectElement("ram:ReferenceReferencedDocument")
	if refDoc == nil {
		return Message{}, &StructuralError{Element: "ReferenceReferencedDocument"}
	}
	invoiceReference, err := p.requiredText(refDoc, "ram:IssuerAssignedID")
	if err != nil {
		return Message{}, err
	}

	return Message{
		MessageID:        messageID,
		IssueDateTime:    issueDateTime,
		Status:           status,
		InvoiceReference: invoiceReference,
		Sender:           sender,
		Recipients:       recipients,
		Reason:           reason,
		ReasonCode:       reasonCode,
		Amount:           amount,
	}, nil
}

// parseParty extrait une Party d'un élément TradeParty.
func (p *Parser) parseParty(elem *etree.Element) (Party, error) {
	idElem := elem.SelectElement("ram:ID")
	if idElem == nil {
		return Party{}, &StructuralError{Element: "TradeParty/ID"}
	}
	roleText, err := p.requiredText(elem, "ram:RoleCode")
	if err != nil {
		return Party{}, err
	}
	role, err := facture.ParseCDARRoleCode(roleText)
	if err != nil {
		return Party{}, fmt.Errorf("cdar : %w", err)
	}
	return Party{
		Identifier: idElem.Text(),
		SchemeID:   idElem.SelectAttrValue("schemeID", ""),
		Role:       role,
	}, nil
}

func (p *Parser) requiredText(parent *etree.Element, tag string) (string, error) {
	elem := parent.SelectElement(tag)
	if elem == nil || elem.Text() == "" {
		return "", &StructuralError{Element: tag}
	}
	return elem.Text(), nil
}

func (p *Parser) optionalText(parent *etree.Element, tag string) string {
	elem := parent.SelectElement(tag)
	if elem == nil {
		return ""
	}
	return elem.Text()
}
