package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("STORAGE", "memory")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8000", cfg.Port)
	assert.Equal(t, StorageMemory, cfg.Storage)
	assert.Equal(t, 30*time.Second, cfg.PollInterval)
	assert.Equal(t, "Asia/Almaty", cfg.TimeZone)
	assert.Empty(t, cfg.KafkaBrokers)
	assert.Equal(t, "5432", cfg.DB.Port)
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret")
	t.Setenv("POLL_INTERVAL", "5s")
	t.Setenv("KAFKA_BROKERS", "kafka-1:9092,kafka-2:9092")
	t.Setenv("TIMEZONE", "Europe/Moscow")
	t.Setenv("DB_HOST", "db.internal")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 5*time.Second, cfg.PollInterval)
	assert.Equal(t, []string{"kafka-1:9092", "kafka-2:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, "db.internal", cfg.DB.Host)

	loc, err := cfg.Location()
	require.NoError(t, err)
	assert.Equal(t, "Europe/Moscow", loc.String())
}

func TestLoadRejectsBadValues(t *testing.T) {
	cases := map[string]map[string]string{
		"missing secret":   {"JWT_SECRET": ""},
		"unknown storage":  {"JWT_SECRET": "s", "STORAGE": "redis"},
		"unknown timezone": {"JWT_SECRET": "s", "TIMEZONE": "Mars/Olympus"},
		"zero interval":    {"JWT_SECRET": "s", "POLL_INTERVAL": "0s"},
	}
	for name, env := range cases {
		t.Run(name, func(t *testing.T) {
			for k, v := range env {
				t.Setenv(k, v)
			}
			_, err := Load()
			assert.Error(t, err)
		})
	}
}

func TestDSNSSLMode(t *testing.T) {
	assert.Contains(t, DBConfig{Host: "localhost", TimeZone: "UTC"}.DSN(), "sslmode=disable")
	assert.Contains(t, DBConfig{Host: "dpg-x.oregon-postgres.render.com"}.DSN(), "sslmode=require")
	assert.Contains(t, DBConfig{Host: "localhost", SSLMode: "verify-full"}.DSN(), "sslmode=verify-full")
}
