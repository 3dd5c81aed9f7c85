package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const defaultJWTSecret = "your-secret-key-change-this-in-prod"

type Config struct {
	Server       ServerConfig
	Logger       LoggerConfig
	Postgres     PostgresConfig
	JWT          JWTConfig
	Redis        RedisConfig
	Kafka        KafkaConfig
	Payment      PaymentConfig
	Mail         MailConfig
	Subscription SubscriptionConfig
	Report       ReportConfig
}

type ServerConfig struct {
	AppEnv       string
	HTTPPort     string
	GRPCPort     string
	AppURL       string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

type LoggerConfig struct {
	Level             string
	Encoding          string
	DisableCaller     bool
	DisableStacktrace bool
}

type PostgresConfig struct {
	URL             string
	Host            string
	Port            string
	User            string
	Password        string
	DBName          string
	SSLMode         string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime int
	ConnMaxIdleTime int
}

type JWTConfig struct {
	SecretKey string
	TTL       time.Duration
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type KafkaConfig struct {
	Brokers        []string
	Topic          string
	PublishTimeout time.Duration
}

type PaymentConfig struct {
	AccessToken string
	PublicKey   string
	BaseURL     string
	PlanTitle   string
	PlanPrice   decimal.Decimal
	Currency    string
	Timeout     time.Duration
}

type MailConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

type SubscriptionConfig struct {
	PeriodDays       int
	Required         bool
	EnableTestCreate bool
}

type ReportConfig struct {
	Timezone string
}

func LoadEnv() *Config {
	return &Config{
		Server: ServerConfig{
			AppEnv:       getEnv("APP_ENV", "dev"),
			HTTPPort:     getEnv("HTTP_PORT", ":8080"),
			GRPCPort:     getEnv("GRPC_PORT", ":9090"),
			AppURL:       strings.TrimRight(getEnv("APP_URL", "http://localhost:3000"), "/"),
			ReadTimeout:  getEnvDuration("HTTP_READ_TIMEOUT", 15*time.Second),
			WriteTimeout: getEnvDuration("HTTP_WRITE_TIMEOUT", 15*time.Second),
			IdleTimeout:  getEnvDuration("HTTP_IDLE_TIMEOUT", 60*time.Second),
		},
		Logger: LoggerConfig{
			Level:             getEnv("LOGGER_LEVEL", "debug"),
			Encoding:          getEnv("LOGGER_ENCODING", "console"),
			DisableCaller:     getEnvBool("LOGGER_DISABLE_CALLER", false),
			DisableStacktrace: getEnvBool("LOGGER_DISABLE_STACKTRACE", true),
		},
		Postgres: PostgresConfig{
			URL:             getEnv("DATABASE_URL", ""),
			Host:            getEnv("POSTGRES_HOST", "localhost"),
			Port:            getEnv("POSTGRES_PORT", "5432"),
			User:            getEnv("POSTGRES_USER", "omnipos"),
			Password:        getEnv("POSTGRES_PASSWORD", "omnipos"),
			DBName:          getEnv("POSTGRES_DB", "omnipos_dashboard"),
			SSLMode:         getEnv("POSTGRES_SSLMODE", "disable"),
			MaxOpenConns:    getEnvInt("POSTGRES_MAX_OPEN_CONNS", 10),
			MaxIdleConns:    getEnvInt("POSTGRES_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime: getEnvInt("POSTGRES_CONN_MAX_LIFETIME", 300),
			ConnMaxIdleTime: getEnvInt("POSTGRES_CONN_MAX_IDLE_TIME", 60),
		},
		JWT: JWTConfig{
			SecretKey: getEnv("JWT_SECRET_KEY", defaultJWTSecret),
			TTL:       getEnvDuration("JWT_TTL", 24*time.Hour),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", ""),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvInt("REDIS_DB", 0),
		},
		Kafka: KafkaConfig{
			Brokers:        getEnvSlice("KAFKA_BROKERS", nil),
			Topic:          getEnv("KAFKA_TOPIC_SALES", "sales.events"),
			PublishTimeout: getEnvDuration("KAFKA_PUBLISH_TIMEOUT", 2*time.Second),
		},
		Payment: PaymentConfig{
			AccessToken: getEnv("PAYMENT_ACCESS_TOKEN", ""),
			PublicKey:   getEnv("PAYMENT_PUBLIC_KEY", ""),
			BaseURL:     strings.TrimRight(getEnv("PAYMENT_BASE_URL", "https://api.mercadopago.com"), "/"),
			PlanTitle:   getEnv("PAYMENT_PLAN_TITLE", "Monthly subscription"),
			PlanPrice:   getEnvDecimal("PAYMENT_PLAN_PRICE", decimal.NewFromInt(10)),
			Currency:    getEnv("PAYMENT_CURRENCY", "ARS"),
			Timeout:     getEnvDuration("PAYMENT_TIMEOUT", 10*time.Second),
		},
		Mail: MailConfig{
			Host:     getEnv("SMTP_HOST", ""),
			Port:     getEnvInt("SMTP_PORT", 587),
			Username: getEnv("SMTP_USERNAME", ""),
			Password: getEnv("SMTP_PASSWORD", ""),
			From:     getEnv("MAIL_FROM", "no-reply@localhost"),
		},
		Subscription: SubscriptionConfig{
			PeriodDays:       getEnvInt("SUBSCRIPTION_PERIOD_DAYS", 30),
			Required:         getEnvBool("SUBSCRIPTION_REQUIRED", true),
			EnableTestCreate: getEnvBool("ENABLE_TEST_SUBSCRIPTIONS", false),
		},
		Report: ReportConfig{
			Timezone: getEnv("REPORT_TIMEZONE", "UTC"),
		},
	}
}

func (c *Config) IsProduction() bool {
	return c.Server.AppEnv == "production" || c.Server.AppEnv == "prod"
}

// Validate rejects settings the server cannot start with.
func (c *Config) Validate() error {
	var errs []error

	if c.JWT.SecretKey == "" {
		errs = append(errs, errors.New("JWT_SECRET_KEY is required"))
	}
	if c.IsProduction() && c.JWT.SecretKey == defaultJWTSecret {
		errs = append(errs, errors.New("JWT_SECRET_KEY must be changed in production"))
	}
	if c.IsProduction() && (c.Payment.AccessToken == "" || c.Payment.PublicKey == "") {
		errs = append(errs, errors.New("PAYMENT_ACCESS_TOKEN and PAYMENT_PUBLIC_KEY are required in production"))
	}
	if c.Subscription.PeriodDays <= 0 {
		errs = append(errs, errors.New("SUBSCRIPTION_PERIOD_DAYS must be positive"))
	}
	if !c.Payment.PlanPrice.IsPositive() {
		errs = append(errs, errors.New("PAYMENT_PLAN_PRICE must be positive"))
	}
	if _, err := time.LoadLocation(c.Report.Timezone); err != nil {
		errs = append(errs, fmt.Errorf("REPORT_TIMEZONE: %w", err))
	}

	return errors.Join(errs...)
}

// DSN returns DATABASE_URL when set, otherwise a URL built from the parts.
func (p PostgresConfig) DSN() string {
	if p.URL != "" {
		return p.URL
	}
	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(p.User, p.Password),
		Host:     p.Host + ":" + p.Port,
		Path:     "/" + p.DBName,
		RawQuery: "sslmode=" + url.QueryEscape(p.SSLMode),
	}
	return u.String()
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value, ok := os.LookupEnv(key); ok {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if value, ok := os.LookupEnv(key); ok {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return fallback
}

func getEnvSlice(key string, fallback []string) []string {
	if value, ok := os.LookupEnv(key); ok && value != "" {
		parts := strings.Split(value, ",")
		out := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				out = append(out, p)
			}
		}
		return out
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if value, ok := os.LookupEnv(key); ok {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return fallback
}

func getEnvDecimal(key string, fallback decimal.Decimal) decimal.Decimal {
	if value, ok := os.LookupEnv(key); ok {
		if d, err := decimal.NewFromString(value); err == nil {
			return d
		}
	}
	return fallback
}
