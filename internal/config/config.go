package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config represents the full application configuration surface.
type Config struct {
	Server    ServerConfig
	WhatsApp  WhatsAppConfig
	Sheets    SheetsConfig
	Reporting ReportingConfig
	AI        AIConfig
	MongoDB   MongoDBConfig
	Redis     RedisConfig
}

// ServerConfig holds HTTP server related options.
type ServerConfig struct {
	Port     string
	LogLevel string
}

// WhatsAppConfig contains credentials and options for the Meta WhatsApp Cloud API.
type WhatsAppConfig struct {
	AccessToken   string
	PhoneNumberID string
	VerifyToken   string
	BaseURL       string
	APIVersion    string
	ManagerID     string
}

// Enabled reports whether any WhatsApp credential was supplied.
func (c WhatsAppConfig) Enabled() bool {
	return c.AccessToken != "" || c.PhoneNumberID != "" || c.VerifyToken != ""
}

// SheetsConfig contains configuration required to interact with Google Sheets.
type SheetsConfig struct {
	CredentialsPath string
	SpreadsheetID   string
}

// Enabled reports whether bookkeeping export was configured.
func (c SheetsConfig) Enabled() bool {
	return c.CredentialsPath != "" || c.SpreadsheetID != ""
}

// ReportingConfig holds scheduler-related settings.
type ReportingConfig struct {
	CronSchedule      string
	Timezone          string
	LowStockThreshold int
}

// AIConfig holds settings for LLM providers.
type AIConfig struct {
	AnthropicKey string
}

// MongoDBConfig holds settings for MongoDB. An empty URI selects the
// in-memory store.
type MongoDBConfig struct {
	URI    string
	DBName string
}

// RedisConfig holds the sale idempotency cache settings. An empty Addr
// disables the guard.
type RedisConfig struct {
	Addr           string
	Password       string
	DB             int
	IdempotencyTTL time.Duration
}

// Load reads environment variables (optionally from the provided file) and
// materializes a Config instance.
func Load(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			if !errors.Is(err, os.ErrNotExist) {
				return nil, fmt.Errorf("failed loading env file %s: %w", envFile, err)
			}
		}
	} else {
		// Ignore the returned error here; missing .env files are acceptable when
		// configuration comes from the environment directly.
		_ = godotenv.Load()
	}

	redisDB, err := getenvInt("REDIS_DB", 0)
	if err != nil {
		return nil, err
	}
	threshold, err := getenvInt("LOW_STOCK_THRESHOLD", 10)
	if err != nil {
		return nil, err
	}
	ttl, err := time.ParseDuration(getenvWithDefault("SALE_IDEMPOTENCY_TTL", "24h"))
	if err != nil {
		return nil, fmt.Errorf("SALE_IDEMPOTENCY_TTL: %w", err)
	}

	cfg := &Config{
		Server: ServerConfig{
			Port:     getenvWithDefault("APP_PORT", "8080"),
			LogLevel: getenvWithDefault("LOG_LEVEL", "info"),
		},
		WhatsApp: WhatsAppConfig{
			AccessToken:   os.Getenv("WHATSAPP_TOKEN"),
			PhoneNumberID: os.Getenv("WHATSAPP_PHONE_NUMBER_ID"),
			VerifyToken:   os.Getenv("META_VERIFY_TOKEN"),
			BaseURL:       getenvWithDefault("WHATSAPP_BASE_URL", "https://graph.facebook.com"),
			APIVersion:    getenvWithDefault("WHATSAPP_API_VERSION", "v20.0"),
			ManagerID:     os.Getenv("WHATSAPP_MANAGER_ID"),
		},
		Sheets: SheetsConfig{
			CredentialsPath: os.Getenv("GOOGLE_SHEETS_CREDENTIALS_PATH"),
			SpreadsheetID:   os.Getenv("GOOGLE_SHEET_DATABASE_ID"),
		},
		Reporting: ReportingConfig{
			CronSchedule:      getenvWithDefault("REPORT_CRON_SCHEDULE", "0 20 * * *"),
			Timezone:          getenvWithDefault("TIMEZONE", "UTC"),
			LowStockThreshold: threshold,
		},
		AI: AIConfig{
			AnthropicKey: os.Getenv("ANTHROPIC_API_KEY"),
		},
		MongoDB: MongoDBConfig{
			URI:    os.Getenv("MONGODB_URI"),
			DBName: getenvWithDefault("MONGODB_DB_NAME", "nursery"),
		},
		Redis: RedisConfig{
			Addr:           os.Getenv("REDIS_ADDR"),
			Password:       os.Getenv("REDIS_PASSWORD"),
			DB:             redisDB,
			IdempotencyTTL: ttl,
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate ensures that required configuration fields are populated and that
// optional groups are either complete or absent.
func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config is nil")
	}

	if c.Server.Port == "" {
		return errors.New("APP_PORT must be provided")
	}

	if c.WhatsApp.Enabled() {
		switch {
		case c.WhatsApp.AccessToken == "":
			return errors.New("WHATSAPP_TOKEN must be provided")
		case c.WhatsApp.PhoneNumberID == "":
			return errors.New("WHATSAPP_PHONE_NUMBER_ID must be provided")
		case c.WhatsApp.VerifyToken == "":
			return errors.New("META_VERIFY_TOKEN must be provided")
		case c.WhatsApp.BaseURL == "":
			return errors.New("WHATSAPP_BASE_URL must not be empty")
		case c.WhatsApp.APIVersion == "":
			return errors.New("WHATSAPP_API_VERSION must not be empty")
		}
	}

	if c.Sheets.Enabled() {
		if c.Sheets.CredentialsPath == "" {
			return errors.New("GOOGLE_SHEETS_CREDENTIALS_PATH must be provided")
		}
		if c.Sheets.SpreadsheetID == "" {
			return errors.New("GOOGLE_SHEET_DATABASE_ID must be provided")
		}
	}

	if c.MongoDB.URI != "" && c.MongoDB.DBName == "" {
		return errors.New("MONGODB_DB_NAME must not be empty")
	}

	if c.Redis.Addr != "" && c.Redis.IdempotencyTTL <= 0 {
		return errors.New("SALE_IDEMPOTENCY_TTL must be positive")
	}

	if c.Reporting.CronSchedule == "" {
		return errors.New("REPORT_CRON_SCHEDULE must be provided")
	}

	if c.Reporting.Timezone == "" {
		return errors.New("TIMEZONE must be provided")
	}

	if c.Reporting.LowStockThreshold <= 0 {
		return errors.New("LOW_STOCK_THRESHOLD must be positive")
	}

	return nil
}

func getenvWithDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getenvInt(key string, fallback int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer: %w", key, err)
	}
	return n, nil
}
