package config

import (
	"log"
	"os"
	"strconv"
	"time"
)

// Config holds application configuration values.
type Config struct {
	Secret         string
	TokenValidity  time.Duration
	DatabaseDSN    string
	HTTPPort       string
	MedicationsCSV string
}

// Load reads configuration from environment variables with reasonable defaults.
func Load() Config {
	secret := os.Getenv("SECRET")
	if secret == "" {
		secret = "dev_secret"
	}

	validity := 24 * time.Hour
	if raw := os.Getenv("TOKEN_VALIDITY"); raw != "" {
		parsed, err := time.ParseDuration(raw)
		if err != nil || parsed <= 0 {
			log.Printf("invalid TOKEN_VALIDITY value %q, defaulting to 24h", raw)
		} else {
			validity = parsed
		}
	}

	dsn := os.Getenv("DATABASE_DSN")
	if dsn == "" {
		dsn = "drugstore.db"
	}

	port := os.Getenv("HTTP_PORT")
	if port == "" {
		port = "8080"
	}
	if _, err := strconv.Atoi(port); err != nil {
		log.Printf("invalid HTTP_PORT value %q, defaulting to 8080", port)
		port = "8080"
	}

	return Config{
		Secret:         secret,
		TokenValidity:  validity,
		DatabaseDSN:    dsn,
		HTTPPort:       port,
		MedicationsCSV: os.Getenv("MEDICATIONS_CSV"),
	}
}
