// Package cdar implémente la génération et le parsing des messages CDAR
// (Cross-industry Document and Application Response, UN/CEFACT D22B) portant
// les statuts de cycle de vie des factures électroniques, conformément à la
// norme AFNOR XP Z12-012.
package cdar

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/facturx-fr/facturation-api/internal/domain/facture"
	"github.com/facturx-fr/facturation-api/internal/domain/lifecycle"
)

// Namespaces CDAR (UN/CEFACT D22B).
const (
	NsRSM = "urn:un:unece:uncefact:data:standard:CrossDomainAcknowledgementAndResponse:100"
	NsRAM = "urn:un:unece:uncefact:data:standard:ReusableAggregateBusinessInformationEntity:100"
	NsUDT = "urn:un:unece:uncefact:data:standard:UnqualifiedDataType:100"
)

// GuidelineID identifiant de guideline des messages CDAR Factur-X.
const GuidelineID = "urn:factur-x.eu:1p0:cdar"

// TypeCode code type des messages CDAR (acknowledgement/response).
const TypeCode = "YC2"

// Schémas d'identification des parties (ISO 6523 ICD).
const (
	SchemeSIREN       = "0002"
	SchemeSIRET       = "0009"
	SchemeGLN         = "0088"
	SchemeCodeRoutage = "0224"
)

// Party partie impliquée dans un message CDAR : un acteur du cycle de vie
// (PA, acheteur, vendeur, affactureur, PPF).
type Party struct {
	Identifier string               // SIREN, SIRET, GLN ou code routage
	SchemeID   string               // Schéma d'identification ISO 6523
	Role       facture.CDARRoleCode // Rôle dans le message
}

// Message message CDAR conforme UN/CEFACT D22B. Chaque message référence une
// facture et porte un statut de cycle de vie ; valeur éphémère construite pour
// un échange puis sérialisée.
type Message struct {
	MessageID        string
	IssueDateTime    time.Time
	Status           facture.InvoiceStatus
	InvoiceReference string
	Sender           Party
	Recipients       []Party          // Peut être multiple : PA émettrice + PPF
	Reason           string           // Obligatoire pour REFUSEE
	ReasonCode       string           // Code motif (liste XP Z12-012)
	Amount           *decimal.Decimal // Encaissement partiel (retenue de garantie)
}

// MessageFromEvent construit un message CDAR à partir d'un événement de cycle
// de vie, prêt à être sérialisé pour transmission. Un identifiant UUID est
// attribué au message.
func MessageFromEvent(invoiceReference string, event lifecycle.Event, sender Party, recipients []Party) Message {
	return Message{
		MessageID:        uuid.NewString(),
		IssueDateTime:    event.Timestamp,
		Status:           event.Status,
		InvoiceReference: invoiceReference,
		Sender:           sender,
		Recipients:       recipients,
		Reason:           event.Reason,
		ReasonCode:       event.ReasonCode,
		Amount:           event.Amount,
	}
}
