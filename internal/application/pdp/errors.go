package pdp

import (
	"errors"
	"fmt"
	"strings"

	"github.com/facturx-fr/facturation-api/internal/domain"
)

// Erreurs de frontière avec les Plateformes Agréées. Elles ne concernent que
// les échanges réseau et l'annuaire, jamais la machine à états elle-même.
// Chacune enveloppe la sentinelle de domaine correspondante.
var (
	// ErrNotFound facture, soumission ou entrée annuaire introuvable sur la PA.
	ErrNotFound = fmt.Errorf("pdp : %w", domain.ErrNotFound)

	// ErrAuthentication clé API invalide, token expiré ou droits insuffisants.
	ErrAuthentication = fmt.Errorf("pdp : authentification refusée : %w", domain.ErrUnauthorized)

	// ErrConnection timeout, DNS, TLS ou autre erreur de transport.
	ErrConnection = errors.New("pdp : connexion à la plateforme impossible")
)

// ValidationError facture ou soumission rejetée par les contrôles de la PA
// (XSD, schématron, règles de gestion). Porte la liste complète des erreurs
// retournées par la plateforme.
type ValidationError struct {
	Message string
	Errors  []string
}

func (e *ValidationError) Error() string {
	if len(e.Errors) == 0 {
		return e.Message
	}
	return fmt.Sprintf("%s : %s", e.Message, strings.Join(e.Errors, " ; "))
}

func (e *ValidationError) Unwrap() error { return domain.ErrInvalidInput }
