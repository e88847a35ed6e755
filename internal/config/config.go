package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Config agrupa la configuración necesaria para correr la aplicación.
type Config struct {
	Port        string
	DatabaseURL string
	Env         string
}

// IsDevelopment indica si corremos en modo desarrollo.
// En desarrollo los errores 500 incluyen el detalle interno y el log sale pretty.
func (config Config) IsDevelopment() bool {
	return config.Env == "development"
}

// Load lee variables de entorno vía viper y valida lo mínimo indispensable.
func Load() (Config, error) {
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("APP_ENV", "development")
	viper.AutomaticEnv()

	port := strings.TrimSpace(viper.GetString("PORT"))
	// Normalizamos por si alguien manda ":8080"
	port = strings.TrimPrefix(port, ":")

	databaseURL := strings.TrimSpace(viper.GetString("DATABASE_URL"))
	if databaseURL == "" {
		return Config{}, fmt.Errorf("missing required env var: DATABASE_URL")
	}

	env := strings.TrimSpace(viper.GetString("APP_ENV"))
	if env != "development" && env != "production" {
		return Config{}, fmt.Errorf("invalid APP_ENV %q: must be development or production", env)
	}

	return Config{
		Port:        port,
		DatabaseURL: databaseURL,
		Env:         env,
	}, nil
}
