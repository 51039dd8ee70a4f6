package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var managedKeys = []string{
	"APP_PORT", "LOG_LEVEL",
	"WHATSAPP_TOKEN", "WHATSAPP_PHONE_NUMBER_ID", "META_VERIFY_TOKEN", "WHATSAPP_BASE_URL", "WHATSAPP_API_VERSION", "WHATSAPP_MANAGER_ID",
	"GOOGLE_SHEETS_CREDENTIALS_PATH", "GOOGLE_SHEET_DATABASE_ID",
	"REPORT_CRON_SCHEDULE", "TIMEZONE", "LOW_STOCK_THRESHOLD",
	"ANTHROPIC_API_KEY", "MONGODB_URI", "MONGODB_DB_NAME",
	"REDIS_ADDR", "REDIS_PASSWORD", "REDIS_DB", "SALE_IDEMPOTENCY_TTL",
}

// clearEnv unsets every key Load reads; t.Setenv restores them afterwards.
// Keys must be absent, not empty, for godotenv to fill them from a file.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range managedKeys {
		t.Setenv(key, "")
		require.NoError(t, os.Unsetenv(key))
	}
}

func missingEnvFile(t *testing.T) string {
	return filepath.Join(t.TempDir(), "absent.env")
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load(missingEnvFile(t))
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "info", cfg.Server.LogLevel)
	assert.Equal(t, "", cfg.MongoDB.URI)
	assert.Equal(t, "nursery", cfg.MongoDB.DBName)
	assert.Equal(t, 24*time.Hour, cfg.Redis.IdempotencyTTL)
	assert.Equal(t, 10, cfg.Reporting.LowStockThreshold)
	assert.False(t, cfg.WhatsApp.Enabled())
	assert.False(t, cfg.Sheets.Enabled())
}

func TestLoadFromEnvFile(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "test.env")
	content := "APP_PORT=9090\nREDIS_ADDR=localhost:6379\nREDIS_DB=2\nSALE_IDEMPOTENCY_TTL=90m\nLOW_STOCK_THRESHOLD=25\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, "localhost:6379", cfg.Redis.Addr)
	assert.Equal(t, 2, cfg.Redis.DB)
	assert.Equal(t, 90*time.Minute, cfg.Redis.IdempotencyTTL)
	assert.Equal(t, 25, cfg.Reporting.LowStockThreshold)
}

func TestLoadRejectsPartialWhatsApp(t *testing.T) {
	clearEnv(t)
	t.Setenv("WHATSAPP_TOKEN", "token")

	_, err := Load(missingEnvFile(t))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "WHATSAPP_PHONE_NUMBER_ID")
}

func TestLoadRejectsPartialSheets(t *testing.T) {
	clearEnv(t)
	t.Setenv("GOOGLE_SHEET_DATABASE_ID", "sheet")

	_, err := Load(missingEnvFile(t))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "GOOGLE_SHEETS_CREDENTIALS_PATH")
}

func TestLoadRejectsMalformedNumbers(t *testing.T) {
	clearEnv(t)
	t.Setenv("REDIS_DB", "two")

	_, err := Load(missingEnvFile(t))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "REDIS_DB")

	require.NoError(t, os.Unsetenv("REDIS_DB"))
	t.Setenv("SALE_IDEMPOTENCY_TTL", "a day")
	_, err = Load(missingEnvFile(t))
	require.Error(t, err)
}

func TestValidateNilConfig(t *testing.T) {
	var cfg *Config
	assert.Error(t, cfg.Validate())
}
