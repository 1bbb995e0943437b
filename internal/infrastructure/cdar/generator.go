package cdar

import (
	"fmt"

	"github.com/beevik/etree"
)

// Generator produit le XML CDAR conforme UN/CEFACT D22B pour transmission
// entre les parties (PA, PPF, acheteur, vendeur). Transformation structurelle
// pure : aucune validation au-delà de ce que le type Message garantit, l'ordre
// des éléments est celui attendu par le schéma.
type Generator struct{}

// NewGenerator crée le générateur.
func NewGenerator() *Generator {
	return &Generator{}
}

// Generate sérialise le message en XML (UTF-8, avec déclaration XML).
func (g *Generator) Generate(message Message) ([]byte, error) {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)

	root := doc.CreateElement("rsm:CrossDomainAcknowledgementAndResponse")
	root.CreateAttr("xmlns:rsm", NsRSM)
	root.CreateAttr("xmlns:ram", NsRAM)
	root.CreateAttr("xmlns:udt", NsUDT)

	g.buildContext(root)
	g.buildExchangedDocument(root, message)
	g.buildAcknowledgementDocument(root, message)

	doc.Indent(2)
	out, err := doc.WriteToBytes()
	if err != nil {
		return nil, fmt.Errorf("cdar : sérialisation XML : %w", err)
	}
	return out, nil
}

// buildContext construit ExchangedDocumentContext (guideline fixe).
func (g *Generator) buildContext(root *etree.Element) {
	ctx := root.CreateElement("rsm:ExchangedDocumentContext")
	guideline := ctx.CreateElement("ram:GuidelineSpecifiedDocumentContextParameter")
	guideline.CreateElement("ram:ID").SetText(GuidelineID)
}

// buildExchangedDocument construit ExchangedDocument (ID, type, statut, date,
// parties émettrice et destinataires).
func (g *Generator) buildExchangedDocument(root *etree.Element, message Message) {
	doc := root.CreateElement("rsm:ExchangedDocument")

	doc.CreateElement("ram:ID").SetText(message.MessageID)
	doc.CreateElement("ram:TypeCode").SetText(TypeCode)
	doc.CreateElement("ram:StatusCode").SetText(string(message.Status))

	issueDT := doc.CreateElement("ram:IssueDateTime")
	dtString := issueDT.CreateElement("udt:DateTimeString")
	dtString.CreateAttr("format", "102")
	dtString.SetText(message.IssueDateTime.Format("20060102"))

	g.buildParty(doc, "ram:SenderTradeParty", message.Sender)
	for _, recipient := range message.Recipients {
		g.buildParty(doc, "ram:RecipientTradeParty", recipient)
	}
}

// buildParty construit un élément SenderTradeParty ou RecipientTradeParty.
func (g *Generator) buildParty(parent *etree.Element, tag string, party Party) {
	elem := parent.CreateElement(tag)

	id := elem.CreateElement("ram:ID")
	id.CreateAttr("schemeID", party.SchemeID)
	id.SetText(party.Identifier)

	elem.CreateElement("ram:RoleCode").SetText(string(party.Role))
}

// buildAcknowledgementDocument construit AcknowledgementDocument (statut,
// motif optionnel, montant optionnel, référence obligatoire à la facture).
func (g *Generator) buildAcknowledgementDocument(root *etree.Element, message Message) {
	ack := root.CreateElement("rsm:AcknowledgementDocument")

	ack.CreateElement("ram:StatusCode").SetText(string(message.Status))

	if message.Reason != "" {
		ack.CreateElement("ram:ReasonInformation").SetText(message.Reason)
	}
	if message.ReasonCode != "" {
		ack.CreateElement("ram:ReasonCode").SetText(message.ReasonCode)
	}
	if message.Amount != nil {
		ack.CreateElement("ram:SpecifiedAmount").SetText(message.Amount.String())
	}

	refDoc := ack.CreateElement("ram:ReferenceReferencedDocument")
	refDoc.CreateElement("ram:IssuerAssignedID").SetText(message.InvoiceReference)
}
