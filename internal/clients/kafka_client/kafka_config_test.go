package kafka_client

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

// unsetEnv clears a variable for the test while keeping t.Setenv's cleanup,
// since an empty value still counts as set for os.LookupEnv.
func unsetEnv(t *testing.T, key string) {
	t.Helper()
	t.Setenv(key, "")
	os.Unsetenv(key)
}

func TestGetKafkaConfig_Defaults(t *testing.T) {
	unsetEnv(t, "KAFKA_BROKER")
	unsetEnv(t, "KAFKA_RESULTS_TOPIC")

	cfg := GetKafkaConfig()

	assert.Equal(t, "localhost:29092", cfg.Broker)
	assert.Equal(t, "sentiment-results", cfg.Topic)
}

func TestGetKafkaConfig_EnvOverrides(t *testing.T) {
	t.Setenv("KAFKA_BROKER", "broker-1:9092")
	t.Setenv("KAFKA_RESULTS_TOPIC", "sentiment-results-staging")

	cfg := GetKafkaConfig()

	assert.Equal(t, "broker-1:9092", cfg.Broker)
	assert.Equal(t, "sentiment-results-staging", cfg.Topic)
}
