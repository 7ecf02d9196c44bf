package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var configEnvKeys = []string{
	"POS_APP_NAME", "POS_APP_ENV", "POS_APP_PORT",
	"POS_DATABASE_HOST", "POS_DATABASE_PORT", "POS_DATABASE_USER", "POS_DATABASE_PASSWORD",
	"POS_DATABASE_DBNAME", "POS_DATABASE_SSLMODE", "POS_DATABASE_MAX_OPEN_CONNS",
	"POS_DATABASE_MAX_IDLE_CONNS", "POS_DATABASE_LOCK_TIMEOUT",
	"POS_JWT_SECRET", "POS_AUTH_ENABLED", "POS_KAFKA_ENABLED", "POS_KAFKA_BROKERS",
	"POS_HTTP_IDEMPOTENCY_TTL", "POS_TELEMETRY_SAMPLING_RATIO", "POS_REDIS_ENABLED",
	"POS_INVENTORY_LOW_STOCK_THRESHOLD",
}

// clearEnv blanks every key; viper treats empty variables as unset
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range configEnvKeys {
		t.Setenv(k, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "pos-shoestore", cfg.App.Name)
	assert.Equal(t, "development", cfg.App.Env)
	assert.Equal(t, "8080", cfg.App.Port)
	assert.Equal(t, "localhost", cfg.Database.Host)
	assert.Equal(t, 5432, cfg.Database.Port)
	assert.Equal(t, "pos", cfg.Database.DBName)
	assert.Equal(t, 25, cfg.Database.MaxOpenConns)
	assert.Equal(t, 5*time.Second, cfg.Database.LockTimeout)
	assert.Equal(t, 24*time.Hour, cfg.HTTP.IdempotencyTTL)
	assert.Equal(t, "pos.events", cfg.Kafka.Topic)
	assert.False(t, cfg.Redis.Enabled)
	assert.False(t, cfg.Auth.Enabled)
	assert.Contains(t, cfg.HTTP.CORSAllowHeaders, "Idempotency-Key")
	assert.Empty(t, cfg.HTTP.CORSAllowOrigins)
	assert.Equal(t, int64(2), cfg.Inventory.LowStockThreshold)
}

func TestLoad_EnvironmentOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("POS_APP_PORT", "9000")
	t.Setenv("POS_DATABASE_HOST", "db.internal")
	t.Setenv("POS_DATABASE_PORT", "5433")
	t.Setenv("POS_DATABASE_PASSWORD", "s3cret")
	t.Setenv("POS_DATABASE_LOCK_TIMEOUT", "750ms")
	t.Setenv("POS_HTTP_IDEMPOTENCY_TTL", "2h")
	t.Setenv("POS_INVENTORY_LOW_STOCK_THRESHOLD", "-1")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9000", cfg.App.Port)
	assert.Equal(t, "db.internal", cfg.Database.Host)
	assert.Equal(t, 5433, cfg.Database.Port)
	assert.Equal(t, "s3cret", cfg.Database.Password)
	assert.Equal(t, 750*time.Millisecond, cfg.Database.LockTimeout)
	assert.Equal(t, 2*time.Hour, cfg.HTTP.IdempotencyTTL)
	assert.Equal(t, int64(-1), cfg.Inventory.LowStockThreshold)
}

func TestLoad_Validation(t *testing.T) {
	tests := []struct {
		name    string
		env     map[string]string
		wantErr string
	}{
		{
			name:    "idle exceeds open",
			env:     map[string]string{"POS_DATABASE_MAX_OPEN_CONNS": "10", "POS_DATABASE_MAX_IDLE_CONNS": "20"},
			wantErr: "cannot exceed",
		},
		{
			name:    "negative idle",
			env:     map[string]string{"POS_DATABASE_MAX_IDLE_CONNS": "-1"},
			wantErr: "cannot be negative",
		},
		{
			name:    "negative lock timeout",
			env:     map[string]string{"POS_DATABASE_LOCK_TIMEOUT": "-1s"},
			wantErr: "lock_timeout",
		},
		{
			name:    "kafka without brokers",
			env:     map[string]string{"POS_KAFKA_ENABLED": "true"},
			wantErr: "kafka.brokers",
		},
		{
			name:    "auth without secret",
			env:     map[string]string{"POS_AUTH_ENABLED": "true"},
			wantErr: "jwt.secret",
		},
		{
			name:    "sampling ratio out of range",
			env:     map[string]string{"POS_TELEMETRY_SAMPLING_RATIO": "1.5"},
			wantErr: "sampling_ratio",
		},
		{
			name:    "production requires long secret",
			env:     map[string]string{"POS_APP_ENV": "production", "POS_JWT_SECRET": "short", "POS_AUTH_ENABLED": "true"},
			wantErr: "at least 32 characters",
		},
		{
			name: "production requires ssl",
			env: map[string]string{
				"POS_APP_ENV":           "production",
				"POS_JWT_SECRET":        "0123456789abcdef0123456789abcdef",
				"POS_AUTH_ENABLED":      "true",
				"POS_DATABASE_PASSWORD": "pw",
			},
			wantErr: "sslmode",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoad_ProductionValid(t *testing.T) {
	clearEnv(t)
	t.Setenv("POS_APP_ENV", "production")
	t.Setenv("POS_JWT_SECRET", "0123456789abcdef0123456789abcdef")
	t.Setenv("POS_AUTH_ENABLED", "true")
	t.Setenv("POS_DATABASE_PASSWORD", "pw")
	t.Setenv("POS_DATABASE_SSLMODE", "require")

	cfg, err := Load()
	require.NoError(t, err)
	assert.True(t, cfg.IsProduction())
}

func TestDatabaseConfig_DSN(t *testing.T) {
	d := DatabaseConfig{Host: "db", Port: 5432, User: "pos", Password: "p@ss:w/rd", DBName: "pos", SSLMode: "disable"}
	assert.Equal(t, "postgres://pos:p%40ss%3Aw%2Frd@db:5432/pos?sslmode=disable", d.DSN())
}

func TestRedisConfig_Addr(t *testing.T) {
	r := RedisConfig{Host: "cache", Port: 6380}
	assert.Equal(t, "cache:6380", r.Addr())
}
