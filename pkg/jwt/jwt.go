package jwt

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Claims inclut les claims standard JWT plus les champs propres à l'API plateforme.
// SIREN identifie l'entreprise appelante ; PlatformID la PA par laquelle elle passe.
type Claims struct {
	jwt.RegisteredClaims
	PlatformID string `json:"platform_id"`
	SIREN      string `json:"siren"`
}

// Generate émet un jeton JWT signé portant l'identifiant de plateforme et le SIREN.
func Generate(secret, platformID, siren, issuer string, expMinutes int) (string, error) {
	if secret == "" {
		return "", fmt.Errorf("jwt: secret vide")
	}
	now := time.Now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   platformID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Duration(expMinutes) * time.Minute)),
		},
		PlatformID: platformID,
		SIREN:      siren,
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// Parse valide le jeton et retourne l'identifiant de plateforme et le SIREN.
// Retourne une erreur si le jeton est invalide, expiré ou mal signé.
func Parse(secret, tokenString string) (platformID, siren string, err error) {
	if secret == "" {
		return "", "", fmt.Errorf("jwt: secret vide")
	}
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("méthode de signature inattendue : %v", t.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		return "", "", err
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return "", "", fmt.Errorf("claims invalides")
	}
	return claims.PlatformID, claims.SIREN, nil
}
