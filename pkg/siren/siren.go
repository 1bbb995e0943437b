// Package siren fournit les contrôles syntaxiques des identifiants d'entreprise
// français (SIREN 9 chiffres, SIRET 14 chiffres) utilisés par la facturation
// électronique et l'annuaire central.
package siren

import "fmt"

// IsValidSIREN vérifie qu'un SIREN est composé d'exactement 9 chiffres.
func IsValidSIREN(s string) bool {
	if len(s) != 9 {
		return false
	}
	return allDigits(s)
}

// IsValidSIRET vérifie qu'un SIRET est composé d'exactement 14 chiffres.
// Les 9 premiers chiffres forment le SIREN de l'établissement.
func IsValidSIRET(s string) bool {
	if len(s) != 14 {
		return false
	}
	return allDigits(s)
}

// ValidateSIREN retourne une erreur descriptive si le SIREN est invalide.
func ValidateSIREN(s string) error {
	if !IsValidSIREN(s) {
		return fmt.Errorf("SIREN invalide : %q (9 chiffres attendus)", s)
	}
	return nil
}

// SIRENOfSIRET extrait le SIREN (9 premiers chiffres) d'un SIRET valide.
func SIRENOfSIRET(siret string) (string, error) {
	if !IsValidSIRET(siret) {
		return "", fmt.Errorf("SIRET invalide : %q (14 chiffres attendus)", siret)
	}
	return siret[:9], nil
}

func allDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
