package config

import (
	"log"
	"os"

	"github.com/joho/godotenv"
)

type Config struct {
	Port       string
	DBDSN      string
	Env        string // "production" enables the Secure cookie flag
	PinHash    string // bcrypt hash of the shared PIN (AUTH_PIN_HASH)
	AuthToken  string // fixed session token issued after PIN verification
	CronSecret string // bearer secret for backup/maintenance triggers
	LogFile    string
	BackupDir  string
}

func Load() Config {
	// Local .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg := Config{
		Port:       getenv("PORT", "8080"),
		DBDSN:      getenv("DB_DSN", "projectpan.db"),
		Env:        getenv("APP_ENV", "development"),
		PinHash:    os.Getenv("AUTH_PIN_HASH"),
		AuthToken:  os.Getenv("AUTH_TOKEN"),
		CronSecret: os.Getenv("CRON_SECRET"),
		LogFile:    os.Getenv("LOG_FILE"),
		BackupDir:  getenv("BACKUP_DIR", "./backups"),
	}

	// Never log the secrets themselves, only whether they are set.
	log.Printf("[config] PORT=%s DB_DSN=%s APP_ENV=%s pin_hash=%v auth_token=%v cron_secret=%v",
		cfg.Port, cfg.DBDSN, cfg.Env, cfg.PinHash != "", cfg.AuthToken != "", cfg.CronSecret != "")
	return cfg
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
