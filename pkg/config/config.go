package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Config regroupe la configuration de l'application (lecture via Viper depuis l'environnement
// et optionnellement un fichier).
type Config struct {
	App         AppConfig
	JWT         JWTConfig
	HTTP        HTTPConfig
	Facturation FacturationConfig
}

// AppConfig configuration générale de l'application.
type AppConfig struct {
	Env  string // development, staging, production
	Name string
}

// JWTConfig configuration des jetons d'accès à l'API plateforme.
type JWTConfig struct {
	Secret     string
	Expiration int // minutes
	Issuer     string
}

// HTTPConfig configuration du serveur HTTP.
type HTTPConfig struct {
	Host string
	Port int
}

// FacturationConfig paramètres du domaine facturation électronique (réforme 2026).
type FacturationConfig struct {
	PlatformID    string // Identifiant de la Plateforme Agréée (immatriculation DGFiP)
	PlatformName  string // Raison sociale de la PA
	PlatformSIREN string // SIREN de la PA (émetteur par défaut des messages CDAR)
	Environment   string // "sandbox" ou "production"
}

// Addr adresse d'écoute du serveur HTTP.
func (h HTTPConfig) Addr() string {
	return fmt.Sprintf("%s:%d", h.Host, h.Port)
}

// Load lit la configuration depuis l'environnement et les fichiers .env / config.env.
func Load() (*Config, error) {
	v := viper.New()

	// Optionnel : fichier de configuration (.env ou config.env)
	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	_ = v.ReadInConfig() // on ignore l'erreur si le fichier n'existe pas

	v.SetConfigName("config")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	_ = v.ReadInConfig()

	// Bind des variables d'environnement (APP_ENV, HTTP_PORT, JWT_SECRET, etc.)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	cfg := &Config{
		App: AppConfig{
			Env:  getString(v, "APP_ENV", "development"),
			Name: getString(v, "APP_NAME", "facturation-api"),
		},
		JWT: JWTConfig{
			Secret:     getString(v, "JWT_SECRET", ""),
			Expiration: getInt(v, "JWT_EXPIRATION_MINUTES", 60),
			Issuer:     getString(v, "JWT_ISSUER", "facturation-api"),
		},
		HTTP: HTTPConfig{
			Host: getString(v, "HTTP_HOST", "0.0.0.0"),
			Port: getInt(v, "HTTP_PORT", 8080),
		},
		Facturation: FacturationConfig{
			PlatformID:    getString(v, "PA_ID", "PA-0000"),
			PlatformName:  getString(v, "PA_NAME", "Plateforme de démonstration"),
			PlatformSIREN: getString(v, "PA_SIREN", "000000000"),
			Environment:   getString(v, "PA_ENVIRONMENT", "sandbox"),
		},
	}

	return cfg, nil
}

func getString(v *viper.Viper, key, def string) string {
	if v.IsSet(key) {
		if s := v.GetString(key); s != "" {
			return s
		}
	}
	return def
}

func getInt(v *viper.Viper, key string, def int) int {
	if v.IsSet(key) {
		if n := v.GetInt(key); n != 0 {
			return n
		}
	}
	return def
}
