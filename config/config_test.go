package config

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadEnv_Defaults(t *testing.T) {
	cfg := LoadEnv()

	assert.Equal(t, ":8080", cfg.Server.HTTPPort)
	assert.Equal(t, 30, cfg.Subscription.PeriodDays)
	assert.True(t, cfg.Subscription.Required)
	assert.False(t, cfg.Subscription.EnableTestCreate)
	assert.Equal(t, 24*time.Hour, cfg.JWT.TTL)
	assert.Empty(t, cfg.Kafka.Brokers)
	assert.Equal(t, 2*time.Second, cfg.Kafka.PublishTimeout)
	assert.Equal(t, "UTC", cfg.Report.Timezone)
	assert.NoError(t, cfg.Validate())
}

func TestLoadEnv_Overrides(t *testing.T) {
	t.Setenv("APP_URL", "https://pos.example.com/")
	t.Setenv("KAFKA_BROKERS", "k1:9092, k2:9092,")
	t.Setenv("JWT_TTL", "2h")
	t.Setenv("SUBSCRIPTION_REQUIRED", "false")
	t.Setenv("PAYMENT_PLAN_PRICE", "1999.90")
	t.Setenv("POSTGRES_MAX_OPEN_CONNS", "not-a-number")

	cfg := LoadEnv()

	assert.Equal(t, "https://pos.example.com", cfg.Server.AppURL)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.Kafka.Brokers)
	assert.Equal(t, 2*time.Hour, cfg.JWT.TTL)
	assert.False(t, cfg.Subscription.Required)
	assert.True(t, decimal.RequireFromString("1999.90").Equal(cfg.Payment.PlanPrice))
	assert.Equal(t, 10, cfg.Postgres.MaxOpenConns)
}

func TestPostgresDSN(t *testing.T) {
	p := PostgresConfig{Host: "db", Port: "5432", User: "u", Password: "p@ss", DBName: "pos", SSLMode: "disable"}
	assert.Equal(t, "postgres://u:p%40ss@db:5432/pos?sslmode=disable", p.DSN())

	p.URL = "postgres://override"
	assert.Equal(t, "postgres://override", p.DSN())
}

func TestValidate_Production(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	cfg := LoadEnv()

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "JWT_SECRET_KEY must be changed")
	assert.Contains(t, err.Error(), "PAYMENT_ACCESS_TOKEN")

	cfg.JWT.SecretKey = "s3cr3t"
	cfg.Payment.AccessToken = "token"
	cfg.Payment.PublicKey = "key"
	assert.NoError(t, cfg.Validate())
}

func TestValidate_BadTimezone(t *testing.T) {
	cfg := LoadEnv()
	cfg.Report.Timezone = "Mars/Olympus"
	assert.Error(t, cfg.Validate())
}
