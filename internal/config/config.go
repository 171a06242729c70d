package config

import (
	"fmt"
	"os"
)

// Config holds application configuration
type Config struct {
	Port         string
	DBConn       string
	LogLevel     string
	ECBRatesURL  string
	SpotPriceURL string
	ReminderCron string
	SMTPHost     string
	SMTPPort     string
	SMTPUsername string
	SMTPPassword string
	SenderEmail  string
}

// NewConfig loads configuration from environment variables
func NewConfig() (*Config, error) {
	cfg := &Config{
		Port:         getEnv("PORT", "8080"),
		DBConn:       getEnv("DB_CONN", "host=localhost port=5432 user=pacplan password=pacplan dbname=pacplan sslmode=disable"),
		LogLevel:     getEnv("LOG_LEVEL", "INFO"),
		ECBRatesURL:  getEnv("ECB_RATES_URL", "https://www.ecb.europa.eu/stats/eurofxref/eurofxref-daily.xml"),
		SpotPriceURL: getEnv("SPOT_PRICE_URL", "https://api.coingecko.com/api/v3/simple/price?ids=bitcoin&vs_currencies=usd"),
		ReminderCron: getEnv("REMINDER_CRON", "0 8 * * *"),
		SMTPHost:     getEnv("SMTP_HOST", ""),
		SMTPPort:     getEnv("SMTP_PORT", "587"),
		SMTPUsername: getEnv("SMTP_USERNAME", ""),
		SMTPPassword: getEnv("SMTP_PASSWORD", ""),
		SenderEmail:  getEnv("SENDER_EMAIL", "noreply@pacplan.local"),
	}

	if cfg.DBConn == "" {
		return nil, fmt.Errorf("DB_CONN is required")
	}
	if cfg.ECBRatesURL == "" {
		return nil, fmt.Errorf("ECB_RATES_URL is required")
	}
	if cfg.ReminderCron == "" {
		return nil, fmt.Errorf("REMINDER_CRON is required")
	}

	return cfg, nil
}

// SMTPConfigured reports whether outbound email can be sent; the reminder
// job is not scheduled at all when it is false.
func (c *Config) SMTPConfigured() bool {
	return c.SMTPHost != "" && c.SMTPUsername != ""
}

func getEnv(key, defaultVal string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultVal
}
