package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config aggregates runtime configuration for the service.
type Config struct {
	App          AppConfig
	Postgres     PostgresConfig
	Redis        RedisConfig
	Logger       LoggerConfig
	Auth         AuthConfig
	Notification NotificationConfig
}

// AppConfig controls server level behavior.
type AppConfig struct {
	Name                  string
	Env                   string
	Host                  string
	Port                  string
	Version               string
	RequestTimeoutSeconds int
}

// PostgresConfig holds DB connection values.
type PostgresConfig struct {
	DSN            string
	MaxConns       int32
	MinConns       int32
	RunMigrations  bool
	ConnMaxIdleSec int32
	ConnMaxLifeSec int32
}

// RedisConfig holds Redis connection values.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// LoggerConfig configures logging behavior.
type LoggerConfig struct {
	Level string
}

// AuthConfig defines bearer-token verification parameters. The key-set
// endpoint and expected issuer derive from BaseURL unless JWKSURL is set
// explicitly.
type AuthConfig struct {
	BaseURL             string
	ProjectRef          string
	JWKSURL             string
	JWKSCacheTTLMinutes int
}

// NotificationConfig holds the event stream destination.
type NotificationConfig struct {
	StreamName string
}

// Load reads configuration from environment variables, applying defaults
// where possible.
func Load() (*Config, error) {
	_ = godotenv.Load()

	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	maxConns := int32(getEnvAsInt("POSTGRES_MAX_CONNS", 10))
	minConns := int32(getEnvAsInt("POSTGRES_MIN_CONNS", 2))
	runMigrations := getEnvAsBool("POSTGRES_RUN_MIGRATIONS", true)
	connMaxIdle := int32(getEnvAsInt("POSTGRES_CONN_MAX_IDLE_SECONDS", 30))
	connMaxLife := int32(getEnvAsInt("POSTGRES_CONN_MAX_LIFE_SECONDS", 300))

	cfg := &Config{
		App: AppConfig{
			Name:                  getEnv("APP_NAME", "helpdesk-api"),
			Env:                   getEnv("APP_ENV", "development"),
			Host:                  getEnv("APP_HOST", "0.0.0.0"),
			Port:                  getEnv("APP_PORT", "8080"),
			Version:               getEnv("APP_VERSION", "dev"),
			RequestTimeoutSeconds: getEnvAsInt("HTTP_REQUEST_TIMEOUT_SECONDS", 30),
		},
		Postgres: PostgresConfig{
			DSN:            os.Getenv("POSTGRES_DSN"),
			MaxConns:       maxConns,
			MinConns:       minConns,
			RunMigrations:  runMigrations,
			ConnMaxIdleSec: connMaxIdle,
			ConnMaxLifeSec: connMaxLife,
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "127.0.0.1:6379"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       redisDB,
		},
		Logger: LoggerConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
		Auth: AuthConfig{
			BaseURL:             os.Getenv("AUTH_BASE_URL"),
			ProjectRef:          os.Getenv("AUTH_PROJECT_REF"),
			JWKSURL:             os.Getenv("AUTH_JWKS_URL"),
			JWKSCacheTTLMinutes: getEnvAsInt("AUTH_JWKS_CACHE_TTL_MINUTES", 60),
		},
		Notification: NotificationConfig{
			StreamName: getEnv("NOTIFY_STREAM_NAME", "helpdesk:events"),
		},
	}

	return cfg, nil
}

// Addr returns the HTTP bind address.
func (a AppConfig) Addr() string {
	return fmt.Sprintf("%s:%s", a.Host, a.Port)
}

// RequestTimeout returns the configured request timeout duration.
func (a AppConfig) RequestTimeout() time.Duration {
	if a.RequestTimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(a.RequestTimeoutSeconds) * time.Second
}

// IssuerBaseURL resolves the identity provider base URL from an explicit
// URL or a project reference.
func (a AuthConfig) IssuerBaseURL() (string, error) {
	if a.BaseURL != "" {
		return a.BaseURL, nil
	}
	if a.ProjectRef != "" {
		return fmt.Sprintf("https://%s.supabase.co", a.ProjectRef), nil
	}
	return "", fmt.Errorf("AUTH_BASE_URL or AUTH_PROJECT_REF must be configured")
}

// KeySetURL resolves the public-key-set endpoint.
func (a AuthConfig) KeySetURL() (string, error) {
	if a.JWKSURL != "" {
		return a.JWKSURL, nil
	}
	base, err := a.IssuerBaseURL()
	if err != nil {
		return "", err
	}
	return base + "/auth/v1/.well-known/jwks.json", nil
}

// Issuer returns the expected issuer claim.
func (a AuthConfig) Issuer() (string, error) {
	base, err := a.IssuerBaseURL()
	if err != nil {
		return "", err
	}
	return base + "/auth/v1", nil
}

// JWKSCacheTTL returns the key-set refresh interval.
func (a AuthConfig) JWKSCacheTTL() time.Duration {
	if a.JWKSCacheTTLMinutes <= 0 {
		return time.Hour
	}
	return time.Duration(a.JWKSCacheTTLMinutes) * time.Minute
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvAsBool(key string, fallback bool) bool {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(val)
	if err != nil {
		return fallback
	}
	return parsed
}
