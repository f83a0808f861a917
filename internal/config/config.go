package config

import (
	"fmt"
	"log"
	"strings"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/undersea/storefront/internal/models"
)

type Config struct {
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`
	HTTPPort    string `env:"HTTP_PORT" envDefault:"8080"`

	DatabaseURL string `env:"DATABASE_URL"`
	JWTSecret   string `env:"JWT_SECRET"`

	// Externally visible origin of the storefront, used both for the
	// CORS allow-list and for building reset links.
	FrontendURL string `env:"FRONTEND_URL"`

	ResetTokenExpiresMinutes int `env:"RESET_TOKEN_EXPIRES_MINUTES" envDefault:"30"`

	Brevo Brevo `envPrefix:"BREVO_"`

	KafkaBrokers []string `env:"KAFKA_BROKERS"`

	ESURL      string `env:"ES_URL"`
	ESUser     string `env:"ES_USER"`
	ESPassword string `env:"ES_PASSWORD"`
	ESIndex    string `env:"ES_INDEX" envDefault:"productos"`
}

type Brevo struct {
	BaseURL     string `env:"BASE_URL" envDefault:"https://api.brevo.com"`
	APIKey      string `env:"API_KEY"`
	SenderEmail string `env:"SENDER_EMAIL"`
	SenderName  string `env:"SENDER_NAME" envDefault:"UNDERSEA"`
}

func Load() (*Config, error) {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("Notice: .env file not found: %v. Using system environment variables", err)
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}
	cfg.FrontendURL = strings.TrimRight(strings.TrimSpace(cfg.FrontendURL), "/")

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("missing required env DATABASE_URL")
	}
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("missing required env JWT_SECRET")
	}

	return cfg, nil
}

// MailConfigured reports whether outbound reset mail can be sent.
// Issuance still answers ok without it; the send is skipped and logged.
func (c *Config) MailConfigured() bool {
	return c.Brevo.APIKey != "" && c.Brevo.SenderEmail != ""
}

func InitDB(cfg *Config) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(cfg.DatabaseURL), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("could not connect to database: %w", err)
	}
	if err := Migrate(db); err != nil {
		return nil, err
	}
	return db, nil
}

func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&models.User{},
		&models.Product{},
		&models.Order{},
		&models.OrderItem{},
		&models.InventoryItem{},
		&models.PasswordReset{},
		&models.ProductImage{},
	); err != nil {
		return fmt.Errorf("could not run migrations: %w", err)
	}
	return nil
}
