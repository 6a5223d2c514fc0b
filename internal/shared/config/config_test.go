package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "/api/v1", cfg.GetAPIBasePath())
	assert.Equal(t, 6*time.Hour, cfg.Engine.CancelBuffer)
	assert.Equal(t, 3, cfg.Engine.StoreRetries)
	assert.Contains(t, cfg.Database.DSN, "dbname=stagehand_db")
	assert.Equal(t, "localhost:6379", cfg.Redis.Addr)
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("CANCEL_BUFFER", "2h")
	t.Setenv("STORE_RETRIES", "5")
	t.Setenv("KAFKA_BROKERS", "kafka-1:9092, kafka-2:9092")
	t.Setenv("RATE_LIMIT_ENABLED", "false")

	cfg := Load()

	assert.Equal(t, 2*time.Hour, cfg.Engine.CancelBuffer)
	assert.Equal(t, 5, cfg.Engine.StoreRetries)
	assert.Equal(t, []string{"kafka-1:9092", "kafka-2:9092"}, cfg.Kafka.Brokers)
	assert.False(t, cfg.RateLimit.Enabled)
}

func TestMalformedEnvFallsBack(t *testing.T) {
	t.Setenv("CANCEL_BUFFER", "soon")
	t.Setenv("STORE_RETRIES", "many")

	cfg := Load()

	assert.Equal(t, 6*time.Hour, cfg.Engine.CancelBuffer)
	assert.Equal(t, 3, cfg.Engine.StoreRetries)
}
