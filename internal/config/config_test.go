package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("KASSA_NAMED_QUEUES", "")
	t.Setenv("REDIS_HOST", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "https://kassa.komtet.ru", cfg.Kassa.Host)
	assert.Equal(t, "v2", cfg.Kassa.APIVersion)
	assert.Equal(t, 30*time.Second, cfg.Kassa.Timeout)
	assert.Empty(t, cfg.Kassa.NamedQueues)
	assert.False(t, cfg.HasRedis())
	assert.False(t, cfg.HasStorage())
}

func TestLoadKassaSettings(t *testing.T) {
	t.Setenv("KASSA_SHOP_ID", "shop")
	t.Setenv("KASSA_NAMED_QUEUES", `{"__default__": 5, "night": "6"}`)
	t.Setenv("KASSA_POLL_INTERVAL", "2s")
	t.Setenv("SANDBOX_QUEUES", "5, 6 ,")
	t.Setenv("REDIS_HOST", "cache")
	t.Setenv("REDIS_PORT", "6380")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "shop", cfg.Kassa.ShopID)
	assert.Equal(t, "5", cfg.Kassa.NamedQueues["__default__"])
	assert.Equal(t, "6", cfg.Kassa.NamedQueues["night"])
	assert.Equal(t, 2*time.Second, cfg.Kassa.PollInterval)
	assert.Equal(t, []string{"5", "6"}, cfg.Sandbox.Queues)
	assert.Equal(t, "cache:6380", cfg.GetRedisAddr())
	assert.True(t, cfg.HasRedis())
}

func TestLoadRejectsBrokenQueues(t *testing.T) {
	t.Setenv("KASSA_NAMED_QUEUES", "{not json")
	_, err := Load()
	assert.Error(t, err)
}

func TestGetDSN(t *testing.T) {
	cfg := &Config{Database: DatabaseConfig{
		Host: "db", Port: "5432", User: "u", Password: "p", Name: "kassa", SSLMode: "disable",
	}}
	assert.Equal(t, "host=db port=5432 user=u password=p dbname=kassa sslmode=disable", cfg.GetDSN())
}
