package ereporting

import (
	"errors"
	"fmt"
	"strings"

	"github.com/facturx-fr/facturation-api/internal/domain"
)

// ErrEmptyDeclaration déclaration sans aucune opération. Depuis les
// simplifications DGFiP de septembre 2025, pas d'opérations = pas de
// transmission : soumettre un agrégat à zéro est une violation de protocole,
// pas un défaut de données.
var ErrEmptyDeclaration = errors.New("déclaration e-reporting vide : aucune opération à transmettre")

// ValidationError données e-reporting invalides. Porte la liste complète des
// violations accumulées, jamais seulement la première.
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
