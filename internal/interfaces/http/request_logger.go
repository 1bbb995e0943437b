package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/facturx-fr/facturation-api/pkg/logger"
)

// RequestLogger journalise chaque requête traitée : méthode, chemin, code de
// réponse, durée et plateforme appelante (si authentifiée). Les réponses 5xx
// sortent en niveau error, les 4xx en warn.
func RequestLogger(log *logger.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		status := c.Response().StatusCode()
		event := log.Info()
		switch {
		case status >= fiber.StatusInternalServerError:
			event = log.Error()
		case status >= fiber.StatusBadRequest:
			event = log.Warn()
		}

		event.
			Str("méthode", c.Method()).
			Str("chemin", c.Path()).
			Int("statut", status).
			Dur("durée", time.Since(start))
		if platformID := GetPlatformID(c); platformID != "" {
			event.Str("plateforme", platformID)
		}
		event.Msg("requête traitée")

		return err
	}
}
