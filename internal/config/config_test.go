package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"APP_ENV", "NODE_ENV", "PORT", "MONGODB_URL", "REDIS_URL", "DATABASE_URL",
		"ACCESS_TOKEN_SECRET", "REFRESH_TOKEN_SECRET", "ACCESS_TOKEN_TTL", "REFRESH_TOKEN_TTL",
		shutdownSecondsEnvVar, shutdownDurationEnvVar, idemTTLSecondsEnvVar, idemTTLDurEnvVar,
		"LOGIN_RATE_LIMIT", "CLIENT_URL",
	} {
		t.Setenv(key, "")
	}
}

func TestLoadDevelopmentDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	require.NoError(t, err)
	require.True(t, cfg.IsDevelopment())
	require.False(t, cfg.IsProduction())
	require.Equal(t, 15*time.Minute, cfg.AccessTokenTTL)
	require.Equal(t, 7*24*time.Hour, cfg.RefreshTokenTTL)
	require.NotEqual(t, cfg.AccessTokenSecret, cfg.RefreshTokenSecret)
	require.Equal(t, ":5000", cfg.Address())
}

func TestLoadProductionRequiresSecretsAndStores(t *testing.T) {
	clearEnv(t)
	t.Setenv("APP_ENV", "production")

	_, err := Load()
	require.ErrorContains(t, err, "ACCESS_TOKEN_SECRET")

	t.Setenv("ACCESS_TOKEN_SECRET", "a")
	t.Setenv("REFRESH_TOKEN_SECRET", "a")
	_, err = Load()
	require.ErrorContains(t, err, "must differ")

	t.Setenv("REFRESH_TOKEN_SECRET", "b")
	_, err = Load()
	require.ErrorContains(t, err, "MONGODB_URL")

	t.Setenv("MONGODB_URL", "mongodb://localhost:27017")
	t.Setenv("REDIS_URL", "redis://localhost:6379/0")
	cfg, err := Load()
	require.NoError(t, err)
	require.True(t, cfg.IsProduction())
}

func TestLoadDurations(t *testing.T) {
	clearEnv(t)
	t.Setenv(shutdownSecondsEnvVar, "3")
	t.Setenv(shutdownDurationEnvVar, "1m")
	t.Setenv(idemTTLDurEnvVar, "90s")
	t.Setenv("CLIENT_URL", "https://shop.example.com/")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, 3*time.Second, cfg.ShutdownPeriod)
	require.Equal(t, 90*time.Second, cfg.IdempotencyTTL)
	require.Equal(t, "https://shop.example.com", cfg.ClientURL)

	t.Setenv(shutdownSecondsEnvVar, "soon")
	_, err = Load()
	require.Error(t, err)
}

func TestLoadRejectsInvertedTTLs(t *testing.T) {
	clearEnv(t)
	t.Setenv("ACCESS_TOKEN_TTL", "48h")
	t.Setenv("REFRESH_TOKEN_TTL", "1h")

	_, err := Load()
	require.Error(t, err)
}
