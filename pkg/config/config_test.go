package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCSV(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want []string
	}{
		{name: "empty", in: "", want: nil},
		{name: "single", in: "kafka:9092", want: []string{"kafka:9092"}},
		{name: "trims and skips blanks", in: " a:1 , ,b:2,", want: []string{"a:1", "b:2"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CSV(tt.in))
		})
	}
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("SERVER_PORT", "")
	t.Setenv("DB_DRIVER", "")
	t.Setenv("ES_INDEX", "")
	t.Setenv("KAFKA_BROKERS", "")

	cfg := Load()

	assert.Equal(t, 8080, cfg.ServerPort)
	assert.Equal(t, "postgres", cfg.DBDriver)
	assert.Equal(t, "recipes", cfg.ESIndex)
	assert.Nil(t, cfg.KafkaBrokers)
}

func TestLoad_FromEnv(t *testing.T) {
	t.Setenv("SERVER_PORT", "9000")
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("KAFKA_BROKERS", "k1:9092,k2:9092")
	t.Setenv("JWT_SECRET", "s3cret")

	cfg := Load()

	assert.Equal(t, 9000, cfg.ServerPort)
	assert.Equal(t, "sqlite", cfg.DBDriver)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, []byte("s3cret"), cfg.JWTAccessSecret)
}

func TestEnvIntDefault_InvalidFallsBack(t *testing.T) {
	t.Setenv("SOME_PORT", "not-a-number")
	assert.Equal(t, 42, EnvIntDefault("SOME_PORT", 42))
}

func TestLoad_DatabaseURLFromParts(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	t.Setenv("DB_HOST", "db")
	t.Setenv("DB_PORT", "")
	t.Setenv("DB_USER", "foodgram")
	t.Setenv("DB_PASSWORD", "p@ss")
	t.Setenv("DB_NAME", "foodgram")
	t.Setenv("DB_SSLMODE", "")

	cfg := Load()

	assert.Equal(t, "postgres://foodgram:p%40ss@db:5432/foodgram?sslmode=disable", cfg.DatabaseURL)
}

func TestLoad_DatabaseURLWins(t *testing.T) {
	t.Setenv("DATABASE_URL", "file::memory:")
	t.Setenv("DB_HOST", "db")

	assert.Equal(t, "file::memory:", Load().DatabaseURL)
}

func TestValidate(t *testing.T) {
	cfg := Config{ServerPort: 8080}

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DATABASE_URL")
	assert.Contains(t, err.Error(), "JWT_SECRET")
	assert.Contains(t, err.Error(), "JWT_REFRESH_SECRET")

	cfg.DatabaseURL = "postgres://db/foodgram"
	cfg.JWTAccessSecret = []byte("a")
	cfg.JWTRefreshSecret = []byte("r")
	assert.NoError(t, cfg.Validate())

	cfg.ServerPort = 70000
	assert.Error(t, cfg.Validate())
}

func TestEnvBoolDefault(t *testing.T) {
	t.Setenv("COOKIE_SECURE", "false")
	t.Setenv("CSRF_ENABLED", "maybe")

	cfg := Load()

	assert.False(t, cfg.CookieSecure)
	assert.True(t, cfg.CSRFEnabled)
}
