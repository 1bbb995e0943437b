package lifecycle

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/facturx-fr/facturation-api/internal/domain"
	"github.com/facturx-fr/facturation-api/internal/domain/facture"
)

// Event événement du cycle de vie : changement de statut horodaté avec ses
// métadonnées (motif, producteur, montant d'encaissement partiel, référence
// au message CDAR associé). Immuable une fois créé.
type Event struct {
	Timestamp     time.Time
	Status        facture.InvoiceStatus
	Reason        string
	ReasonCode    string // Code motif (liste XP Z12-012)
	Producer      facture.CDARRoleCode
	Amount        *decimal.Decimal // Encaissement partiel (retenue de garantie)
	CDARMessageID string
}

// InvalidTransitionError transition refusée : le statut cible n'est pas
// atteignable depuis le statut courant. Porte la liste des cibles légales
// pour que l'appelant puisse corriger sans recalculer le graphe.
type InvalidTransitionError struct {
	From    facture.InvoiceStatus
	Target  facture.InvoiceStatus
	Allowed []facture.InvoiceStatus
}

func (e *InvalidTransitionError) Error() string {
	allowed := make([]string, len(e.Allowed))
	for i, s := range e.Allowed {
		allowed[i] = fmt.Sprintf("%s (%s)", s, s.Name())
	}
	return fmt.Sprintf(
		"transition non autorisée : %s (%s) → %s (%s). Transitions possibles : [%s]",
		e.From, e.From.Name(), e.Target, e.Target.Name(), strings.Join(allowed, ", "),
	)
}

func (e *InvalidTransitionError) Unwrap() error { return domain.ErrConflict }

// MissingReasonError le statut cible exige un motif et aucun n'a été fourni.
type MissingReasonError struct {
	Target facture.InvoiceStatus
}

func (e *MissingReasonError) Error() string {
	return fmt.Sprintf(
		"le statut %s (%s) exige un motif (champ 'reason' obligatoire)",
		e.Target, e.Target.Name(),
	)
}

func (e *MissingReasonError) Unwrap() error { return domain.ErrInvalidInput }

// TransitionOptions métadonnées optionnelles d'une transition.
// Le producteur par défaut du statut cible est substitué si Producer est vide ;
// l'horodatage courant (UTC) est utilisé si Timestamp est la valeur zéro.
// Le Timestamp fourni par l'appelant est accepté tel quel, sans contrôle de
// monotonie par rapport à l'historique.
type TransitionOptions struct {
	Reason        string
	ReasonCode    string
	Producer      facture.CDARRoleCode
	Amount        *decimal.Decimal
	Timestamp     time.Time
	CDARMessageID string
}

// Manager gestionnaire du cycle de vie d'une facture. Détient le statut
// courant et l'historique ordonné des événements ; toute mutation passe par
// Transition. Non synchronisé : un seul écrivain par facture (verrou externe
// ou discipline acteur-par-facture à la charge de l'appelant).
type Manager struct {
	invoiceReference string
	status           facture.InvoiceStatus
	history          []Event
}

// NewManager crée un gestionnaire au statut initial DEPOSEE.
func NewManager(invoiceReference string) *Manager {
	return NewManagerWithStatus(invoiceReference, facture.StatusDeposee)
}

// NewManagerWithStatus crée un gestionnaire à un statut initial arbitraire
// (reprise d'un cycle de vie déjà entamé).
func NewManagerWithStatus(invoiceReference string, initial facture.InvoiceStatus) *Manager {
	return &Manager{
		invoiceReference: invoiceReference,
		status:           initial,
	}
}

// InvoiceReference retourne la référence de la facture gérée.
func (m *Manager) InvoiceReference() string {
	return m.invoiceReference
}

// Status retourne le statut courant.
func (m *Manager) Status() facture.InvoiceStatus {
	return m.status
}

// History retourne une copie de l'historique ordonné des événements.
func (m *Manager) History() []Event {
	out := make([]Event, len(m.history))
	copy(out, m.history)
	return out
}

// CanTransition vérifie si la transition vers le statut cible est autorisée.
func (m *Manager) CanTransition(target facture.InvoiceStatus) bool {
	for _, t := range Transitions[m.status] {
		if t == target {
			return true
		}
	}
	return false
}

// Transition effectue la transition vers le statut cible : valide le graphe et
// les contraintes métier, enregistre l'événement dans l'historique et met à
// jour le statut courant. En cas d'erreur, ni le statut ni l'historique ne
// sont modifiés.
func (m *Manager) Transition(target facture.InvoiceStatus, opts TransitionOptions) (Event, error) {
	if !m.CanTransition(target) {
		return Event{}, &InvalidTransitionError{
			From:    m.status,
			Target:  target,
			Allowed: AllowedTargets(m.status),
		}
	}

	metadata, hasMetadata := StatusMetadata[target]

	// REFUSEE (et tout futur statut à motif obligatoire) exige un motif.
	if hasMetadata && metadata.ReasonRequired && opts.Reason == "" {
		return Event{}, &MissingReasonError{Target: target}
	}

	producer := opts.Producer
	if producer == "" && hasMetadata {
		producer = metadata.DefaultProducer
	}

	timestamp := opts.Timestamp
	if timestamp.IsZero() {
		timestamp = time.Now().UTC()
	}

	event := Event{
		Timestamp:     timestamp,
		Status:        target,
		Reason:        opts.Reason,
		ReasonCode:    opts.ReasonCode,
		Producer:      producer,
		Amount:        opts.Amount,
		CDARMessageID: opts.CDARMessageID,
	}

	m.status = target
	m.history = append(m.history, event)
	return event, nil
}

// IsTerminal indique si le statut courant est terminal.
func (m *Manager) IsTerminal() bool {
	return IsTerminal(m.status)
}

// MandatoryEvents retourne les événements de l'historique dont le statut est
// de catégorie obligatoire — le sous-ensemble à transmettre au concentrateur.
func (m *Manager) MandatoryEvents() []Event {
	var out []Event
	for _, e := range m.history {
		if IsMandatory(e.Status) {
			out = append(out, e)
		}
	}
	return out
}
