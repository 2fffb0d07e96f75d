package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_RESTSourceDefaults(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("BACKEND_URL", "http://backend:8080")
	t.Setenv("TRANSACTION_SOURCE", "")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, SourceREST, cfg.Source)
	assert.Equal(t, "3000", cfg.Port)
	assert.Equal(t, "es-CL", cfg.DefaultLocale)
	assert.Equal(t, 2*time.Minute, cfg.CacheTTL)
	assert.Equal(t, float64(20), cfg.BackendRPS)
	assert.False(t, cfg.IsProduction())
}

func TestLoadConfig_RequiresSecretAndBackendURL(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	t.Setenv("JWT_SECRET", "")
	t.Setenv("BACKEND_URL", "")
	t.Setenv("TRANSACTION_SOURCE", "rest")

	_, err := LoadConfig()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "JWT_SECRET")
	assert.Contains(t, err.Error(), "BACKEND_URL")
}

func TestLoadConfig_PostgresSource(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("BACKEND_URL", "")
	t.Setenv("TRANSACTION_SOURCE", "Postgres")
	t.Setenv("DB_HOST", "replica")
	t.Setenv("DB_PASSWORD", "pw")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, SourcePostgres, cfg.Source)
	assert.Contains(t, cfg.PostgresDSN(), "host=replica")
	assert.Contains(t, cfg.PostgresDSN(), "dbname=payments")
}

func TestValidate_UnknownSource(t *testing.T) {
	err := Config{JWTSecret: "x", Source: "mongo"}.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "TRANSACTION_SOURCE")
}
