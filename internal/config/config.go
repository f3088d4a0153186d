package config

import (
	"crypto/sha256"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config aggregates runtime configuration for the service.
type Config struct {
	App      AppConfig
	Postgres PostgresConfig
	Redis    RedisConfig
	Logger   LoggerConfig
	Auth     AuthConfig
	Google   GoogleConfig
	SMTP     SMTPConfig
}

// AppConfig controls server level behavior.
type AppConfig struct {
	Name                  string
	Env                   string
	Host                  string
	Port                  string
	Version               string
	RequestTimeoutSeconds int
	FrontendURL           string
	ProductionURL         string
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

// LoggerConfig configures logging behavior. Format is either "json" or
// "console"; anything else falls back to json.
type LoggerConfig struct {
	Level  string
	Format string
}

// AuthConfig defines authentication parameters. CryptoKey is the 32-byte
// AES key derived from CRYPTO_SECRET; the raw secret is never used directly.
type AuthConfig struct {
	JWTSecret       string
	CryptoKey       []byte
	SessionTTLHours int
}

// GoogleConfig holds the OAuth client settings for Google login. Enabled is
// true only when the full client triple is configured.
type GoogleConfig struct {
	ClientID      string
	ClientSecret  string
	CallbackURL   string
	AllowedDomain string
}

// SMTPConfig configures the outbound mail transport. A missing host disables
// email notifications entirely.
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// Enabled reports whether Google login is configured.
func (g GoogleConfig) Enabled() bool {
	return g.ClientID != "" && g.ClientSecret != "" && g.CallbackURL != ""
}

// Enabled reports whether outbound email is configured.
func (s SMTPConfig) Enabled() bool {
	return s.Host != "" && s.From != ""
}

// Load reads configuration from environment variables, applying defaults where
// possible and failing on invalid required values.
func Load() (*Config, error) {
	_ = godotenv.Load()

	env := getEnv("APP_ENV", "development")
	switch env {
	case "development", "production", "test":
	default:
		return nil, fmt.Errorf("invalid APP_ENV %q: must be development, production or test", env)
	}

	jwtSecret := os.Getenv("JWT_SECRET")
	if len(jwtSecret) < 10 {
		return nil, fmt.Errorf("JWT_SECRET must be at least 10 characters long")
	}

	cryptoSecret := os.Getenv("CRYPTO_SECRET")
	if len(cryptoSecret) < 8 {
		return nil, fmt.Errorf("CRYPTO_SECRET must be at least 8 characters long")
	}
	cryptoKey := sha256.Sum256([]byte(cryptoSecret))

	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	google := GoogleConfig{
		ClientID:      os.Getenv("GOOGLE_CLIENT_ID"),
		ClientSecret:  os.Getenv("GOOGLE_CLIENT_SECRET"),
		CallbackURL:   os.Getenv("GOOGLE_CALLBACK_URL"),
		AllowedDomain: os.Getenv("GOOGLE_ALLOWED_DOMAIN"),
	}
	if partial := google.ClientID != "" || google.ClientSecret != "" || google.CallbackURL != ""; partial && !google.Enabled() {
		return nil, fmt.Errorf("GOOGLE_CLIENT_ID, GOOGLE_CLIENT_SECRET and GOOGLE_CALLBACK_URL must be set together")
	}

	cfg := &Config{
		App: AppConfig{
			Name:                  getEnv("APP_NAME", "gtix-helpdesk"),
			Env:                   env,
			Host:                  getEnv("APP_HOST", "0.0.0.0"),
			Port:                  getEnv("APP_PORT", "3000"),
			Version:               getEnv("APP_VERSION", "dev"),
			RequestTimeoutSeconds: getEnvAsInt("HTTP_REQUEST_TIMEOUT_SECONDS", 30),
			FrontendURL:           getEnv("FRONTEND_URL", "http://localhost:5173"),
			ProductionURL:         getEnv("PRODUCTION_URL", ""),
		},
		Postgres: PostgresConfig{
			DSN:            os.Getenv("POSTGRES_DSN"),
			MaxConns:       int32(getEnvAsInt("POSTGRES_MAX_CONNS", 10)),
			MinConns:       int32(getEnvAsInt("POSTGRES_MIN_CONNS", 2)),
			RunMigrations:  getEnvAsBool("POSTGRES_RUN_MIGRATIONS", true),
			ConnMaxIdleSec: int32(getEnvAsInt("POSTGRES_CONN_MAX_IDLE_SECONDS", 30)),
			ConnMaxLifeSec: int32(getEnvAsInt("POSTGRES_CONN_MAX_LIFE_SECONDS", 300)),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "127.0.0.1:6379"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       redisDB,
		},
		Logger: LoggerConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
		Auth: AuthConfig{
			JWTSecret:       jwtSecret,
			CryptoKey:       cryptoKey[:],
			SessionTTLHours: getEnvAsInt("SESSION_TTL_HOURS", 24),
		},
		Google: google,
		SMTP: SMTPConfig{
			Host:     os.Getenv("SMTP_HOST"),
			Port:     getEnvAsInt("SMTP_PORT", 587),
			Username: os.Getenv("SMTP_USER"),
			Password: os.Getenv("SMTP_PASSWORD"),
			From:     getEnv("SMTP_FROM", os.Getenv("SMTP_USER")),
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

// BaseURL returns the frontend base URL for the running environment.
func (a AppConfig) BaseURL() string {
	if a.Env == "production" && a.ProductionURL != "" {
		return a.ProductionURL
	}
	return a.FrontendURL
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
