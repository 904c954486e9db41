package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	TelegramToken string
	DBDSN         string
	Environment   string

	MigrationsPath string

	DispatchInterval    time.Duration
	PlanningInterval    time.Duration
	PlanningHorizonDays int
	SendTimeout         time.Duration
	MaxSendAttempts     int
}

func Load() (*Config, error) {
	// A missing .env file is fine; plain environment variables still apply.
	if err := godotenv.Load(".env"); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := &Config{
		TelegramToken:  os.Getenv("TELEGRAM_TOKEN"),
		DBDSN:          os.Getenv("DB_DSN"),
		Environment:    os.Getenv("ENV"),
		MigrationsPath: os.Getenv("MIGRATIONS_PATH"),

		DispatchInterval:    durationEnv("DISPATCH_INTERVAL", time.Minute),
		PlanningInterval:    durationEnv("PLANNING_INTERVAL", time.Hour),
		PlanningHorizonDays: intEnv("PLANNING_HORIZON_DAYS", 7),
		SendTimeout:         durationEnv("SEND_TIMEOUT", 10*time.Second),
		MaxSendAttempts:     intEnv("MAX_SEND_ATTEMPTS", 25),
	}

	if cfg.Environment == "" {
		cfg.Environment = "development"
	}
	if cfg.MigrationsPath == "" {
		cfg.MigrationsPath = "migrations"
	}

	if cfg.DBDSN == "" {
		return nil, fmt.Errorf("DB_DSN is required but not set")
	}
	if cfg.TelegramToken == "" {
		return nil, fmt.Errorf("TELEGRAM_TOKEN is required but not set")
	}

	return cfg, nil
}

func durationEnv(key string, fallback time.Duration) time.Duration {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		log.Printf("Invalid %s=%q, using default %s", key, raw, fallback)
		return fallback
	}
	return d
}

func intEnv(key string, fallback int) int {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		log.Printf("Invalid %s=%q, using default %d", key, raw, fallback)
		return fallback
	}
	return n
}
