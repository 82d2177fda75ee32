package config_test

import (
	"testing"
	"time"

	"github.com/SscSPs/portfolio_ledger/internal/platform/config"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	cfg, err := config.LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, int64(42), cfg.Seed)
	assert.Equal(t, time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC), cfg.StartMonth)
	assert.Equal(t, 12, cfg.Months)
	assert.Equal(t, "EUR", cfg.BaseCurrency)
	assert.Equal(t, 5*time.Second, cfg.StreamInterval)
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)
	t.Setenv("SEED", "7")
	t.Setenv("MONTHS", "3")
	t.Setenv("START_MONTH", "2024-06")
	t.Setenv("STREAM_INTERVAL", "250ms")

	cfg, err := config.LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, int64(7), cfg.Seed)
	assert.Equal(t, 3, cfg.Months)
	assert.Equal(t, time.June, cfg.StartMonth.Month())
	assert.Equal(t, 250*time.Millisecond, cfg.StreamInterval)
}

func TestLoadConfig_RejectsBadStartMonth(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)
	t.Setenv("START_MONTH", "June")

	_, err := config.LoadConfig()
	assert.Error(t, err)
}
