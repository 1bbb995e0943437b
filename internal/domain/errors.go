// Package domain porte la taxonomie d'erreurs partagée entre les couches.
// Les erreurs typées (transition illégale, motif manquant, validation) et les
// erreurs de frontière PDP enveloppent ces sentinelles, si bien qu'un appelant
// peut réagir par catégorie avec errors.Is sans connaître le type concret.
package domain

import "errors"

var (
	ErrNotFound     = errors.New("ressource introuvable")
	ErrInvalidInput = errors.New("entrée invalide")
	ErrUnauthorized = errors.New("non autorisé")
	ErrConflict     = errors.New("conflit avec l'état courant")
)
