package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/facturx-fr/facturation-api/internal/application/pdp"
	"github.com/facturx-fr/facturation-api/internal/infrastructure/memory"
	httpRouter "github.com/facturx-fr/facturation-api/internal/interfaces/http"
	"github.com/facturx-fr/facturation-api/pkg/config"
	"github.com/facturx-fr/facturation-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("chargement de la configuration : " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: "info",
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("pa", cfg.Facturation.PlatformID).
		Str("environnement_pa", cfg.Facturation.Environment).
		Msg("démarrage de l'application")

	// Connecteur mémoire : plateforme de référence pour le sandbox. Les
	// connecteurs vers les PA du marché s'enregistrent ici à la place.
	connector := memory.NewConnector()
	connector.AddDirectoryEntry(pdp.DirectoryEntry{
		SIREN:             cfg.Facturation.PlatformSIREN,
		CompanyName:       cfg.Facturation.PlatformName,
		PlatformID:        cfg.Facturation.PlatformID,
		PlatformName:      cfg.Facturation.PlatformName,
		ElectronicAddress: cfg.Facturation.PlatformSIREN + "@" + cfg.Facturation.PlatformID,
	})

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		Connector: connector,
		Logger:    log.Component("http"),
		Auth: httpRouter.AuthConfig{
			Secret:      cfg.JWT.Secret,
			Issuer:      cfg.JWT.Issuer,
			ExpMinutes:  cfg.JWT.Expiration,
			Environment: cfg.Facturation.Environment,
		},
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("serveur HTTP arrêté")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("signal d'arrêt reçu, fermeture du serveur...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("arrêt du serveur")
	}

	log.Info().Msg("application arrêtée")
}
