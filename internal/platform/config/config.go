package config

import (
	"fmt"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	Seed              int64
	StartMonth        time.Time // First generated month, UTC
	Months            int
	Individuals       int
	Companies         int
	InvestorShare     float64 // Fraction of individuals given a brokerage account
	BaseCurrency      string
	ReferenceDataPath string // Empty means the embedded catalog

	DatabaseURL string // Postgres sink, optional
	SQLitePath  string // SQLite sink, optional

	RedisURL       string
	StreamKey      string
	StreamInterval time.Duration
	StreamBatch    int

	LogLevel string
}

// SetDefaults registers default values for every key.
func SetDefaults() {
	viper.SetDefault("SEED", 42)
	viper.SetDefault("START_MONTH", "2023-01")
	viper.SetDefault("MONTHS", 12)
	viper.SetDefault("INDIVIDUALS", 40)
	viper.SetDefault("COMPANIES", 6)
	viper.SetDefault("INVESTOR_SHARE", 0.10)
	viper.SetDefault("BASE_CURRENCY", "EUR")
	viper.SetDefault("REFERENCE_DATA_PATH", "")
	viper.SetDefault("PGSQL_URL", "")
	viper.SetDefault("SQLITE_PATH", "")
	viper.SetDefault("REDIS_URL", "redis://localhost:6379/0")
	viper.SetDefault("STREAM_KEY", "ledger:entries")
	viper.SetDefault("STREAM_INTERVAL", "5s")
	viper.SetDefault("STREAM_BATCH", 3)
	viper.SetDefault("LOG_LEVEL", "info")
}

// LoadConfig loads configuration from environment variables and .env file if present.
// Values bound from command-line flags take precedence over both.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	SetDefaults()
	viper.AutomaticEnv()

	cfg := &Config{
		Seed:              viper.GetInt64("SEED"),
		Months:            viper.GetInt("MONTHS"),
		Individuals:       viper.GetInt("INDIVIDUALS"),
		Companies:         viper.GetInt("COMPANIES"),
		InvestorShare:     viper.GetFloat64("INVESTOR_SHARE"),
		BaseCurrency:      viper.GetString("BASE_CURRENCY"),
		ReferenceDataPath: viper.GetString("REFERENCE_DATA_PATH"),
		DatabaseURL:       viper.GetString("PGSQL_URL"),
		SQLitePath:        viper.GetString("SQLITE_PATH"),
		RedisURL:          viper.GetString("REDIS_URL"),
		StreamKey:         viper.GetString("STREAM_KEY"),
		StreamBatch:       viper.GetInt("STREAM_BATCH"),
		LogLevel:          viper.GetString("LOG_LEVEL"),
	}

	startStr := viper.GetString("START_MONTH")
	start, err := time.Parse("2006-01", startStr)
	if err != nil {
		return nil, fmt.Errorf("invalid START_MONTH %q, expected YYYY-MM: %w", startStr, err)
	}
	cfg.StartMonth = start

	intervalStr := viper.GetString("STREAM_INTERVAL")
	interval, err := time.ParseDuration(intervalStr)
	if err != nil {
		interval = 5 * time.Second
		log.Printf("Warning: Invalid value for STREAM_INTERVAL ('%s'). Defaulting to %s.\n", intervalStr, interval)
	}
	cfg.StreamInterval = interval

	if cfg.Months <= 0 {
		return nil, fmt.Errorf("MONTHS must be positive, got %d", cfg.Months)
	}
	if cfg.Individuals < 0 || cfg.Companies <= 0 {
		return nil, fmt.Errorf("need at least one company and a non-negative number of individuals")
	}
	if cfg.InvestorShare < 0 || cfg.InvestorShare > 1 {
		return nil, fmt.Errorf("INVESTOR_SHARE must be within [0,1], got %v", cfg.InvestorShare)
	}
	if cfg.DatabaseURL == "" && cfg.SQLitePath == "" {
		log.Println("Warning: neither PGSQL_URL nor SQLITE_PATH set. Dataset will not be exported.")
	}

	return cfg, nil
}
