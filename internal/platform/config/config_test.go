package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	v, err := Load("CFGTEST")
	require.NoError(t, err)

	assert.Equal(t, "development", GetAppEnv(v))
	assert.Equal(t, ":8080", GetServicePort(v, "SERVICE_PORT"))

	db := LoadDatabaseConfig(v, "DB_NAME")
	assert.Equal(t, "localhost", db.Host)
	assert.Equal(t, "5432", db.Port)
	assert.Equal(t, "disable", db.SSLMode)
}

func TestLoad_FromEnvironment(t *testing.T) {
	t.Setenv("CFGTEST_SERVICE_PORT", "9090")
	t.Setenv("CFGTEST_KAFKA_BROKERS", "kafka-1:9092, kafka-2:9092,")
	t.Setenv("CFGTEST_JWT_SECRET", "s3cret")
	t.Setenv("CFGTEST_TIMEOUT", "250ms")

	v, err := Load("CFGTEST")
	require.NoError(t, err)

	assert.Equal(t, ":9090", GetServicePort(v, "SERVICE_PORT"))
	assert.Equal(t, []string{"kafka-1:9092", "kafka-2:9092"}, LoadKafkaConfig(v).Brokers)
	assert.Equal(t, "s3cret", LoadJWTConfig(v).Secret)
	assert.Equal(t, 250*time.Millisecond, GetDuration(v, "TIMEOUT", time.Second))
	assert.Equal(t, time.Second, GetDuration(v, "MISSING_TIMEOUT", time.Second))
}

func TestLoad_MissingConfigFile(t *testing.T) {
	t.Setenv("CFGTEST_CONFIG_FILE", "/nonexistent/route.yaml")

	_, err := Load("CFGTEST")
	assert.Error(t, err)
}
