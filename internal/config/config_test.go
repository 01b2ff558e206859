package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("GENAI_API_KEY", "")
	t.Setenv("STORE_DRIVER", "")

	cfg := Load()
	require.Equal(t, StorePostgres, cfg.StoreDriver)
	require.Equal(t, []string{"kafka:9092"}, cfg.KafkaBrokers)
	require.Equal(t, []string{"plan_events", "plan_feedback"}, cfg.ConsumerTopics)
	require.Equal(t, 4000, cfg.GenAIMaxTokens)
	require.False(t, cfg.GenerationEnabled())
	require.Equal(t, "@every 30s", cfg.DLQSchedule)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("STORE_DRIVER", "SQLite")
	t.Setenv("KAFKA_BROKERS", " k1:9092, ,k2:9092 ")
	t.Setenv("GENAI_API_KEY", "sk-test")
	t.Setenv("GENAI_TEMPERATURE", "0.2")
	t.Setenv("GENAI_TIMEOUT", "5s")
	t.Setenv("REFINE_TARGETS", "true")
	t.Setenv("OUTBOX_BATCH_SIZE", "not-a-number")

	cfg := Load()
	require.Equal(t, StoreSQLite, cfg.StoreDriver)
	require.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.KafkaBrokers)
	require.True(t, cfg.GenerationEnabled())
	require.InDelta(t, 0.2, cfg.GenAITemperature, 1e-9)
	require.Equal(t, 5*time.Second, cfg.GenAITimeout)
	require.True(t, cfg.RefineTargets)
	require.Equal(t, 25, cfg.OutboxBatchSize)
}
