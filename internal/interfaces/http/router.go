package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/facturx-fr/facturation-api/internal/application/pdp"
	"github.com/facturx-fr/facturation-api/pkg/logger"
)

// RouterDeps dépendances pour le router. Logger est optionnel : sans logger,
// les requêtes ne sont pas journalisées.
type RouterDeps struct {
	Connector pdp.Connector
	Auth      AuthConfig
	Logger    *logger.Logger
}

// Router enregistre les routes de l'API plateforme.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")
	if deps.Logger != nil {
		api.Use(RequestLogger(deps.Logger))
	}

	// Auth (public, sandbox uniquement)
	authHandler := NewAuthHandler(deps.Auth)
	api.Post("/auth/token", authHandler.Token)

	// Routes protégées (Bearer Token requis)
	protected := api.Group("/", AuthMiddleware(deps.Auth.Secret))

	// Factures : dépôt, consultation, recherche, cycle de vie
	factures := protected.Group("/factures")
	factureHandler := NewFactureHandler(deps.Connector)
	factures.Post("/", factureHandler.Submit)
	factures.Get("/", factureHandler.Search)
	factures.Get("/:id/statut", factureHandler.GetStatus)
	factures.Post("/:id/statut", factureHandler.UpdateStatus)
	factures.Get("/:id/cycle-de-vie", factureHandler.GetLifecycle)
	factures.Get("/:id/xml", factureHandler.GetXML)

	// Annuaire central
	annuaire := protected.Group("/annuaire")
	annuaireHandler := NewAnnuaireHandler(deps.Connector)
	annuaire.Get("/:siren", annuaireHandler.Lookup)

	// E-reporting : transactions, encaissements, statut, calendrier
	ereportingGroup := protected.Group("/ereporting")
	ereportingHandler := NewEReportingHandler(deps.Connector)
	ereportingGroup.Post("/transactions", ereportingHandler.SubmitTransaction)
	ereportingGroup.Post("/paiements", ereportingHandler.SubmitPayment)
	ereportingGroup.Get("/soumissions/:id", ereportingHandler.GetSubmissionStatus)
	ereportingGroup.Get("/calendrier", ereportingHandler.GetSchedule)

	// Codec CDAR (messages de cycle de vie XP Z12-012)
	cdarGroup := protected.Group("/cdar")
	cdarHandler := NewCDARHandler()
	cdarGroup.Post("/generer", cdarHandler.Generate)
	cdarGroup.Post("/analyser", cdarHandler.Parse)
}
