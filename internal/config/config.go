package config

import (
	"fmt"
	"log/slog"
	"net"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"
)

var validEnvs = map[string]bool{
	"local": true,
	"alpha": true,
	"beta":  true,
	"prod":  true,
}

type Config struct {
	ServerPort  string
	AppEnv      string
	AuthDevMode bool
	LogLevel    string
	SeedUsers   bool
	DB          DBConfig
	Oracle      OracleConfig
	Auth        AuthConfig
}

func (c Config) ParseLogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func (c Config) Validate() error {
	if _, err := strconv.Atoi(c.ServerPort); err != nil {
		return fmt.Errorf("invalid SERVER_PORT %q: %w", c.ServerPort, err)
	}
	if !validEnvs[c.AppEnv] {
		return fmt.Errorf("invalid APP_ENV %q: must be one of local, alpha, beta, prod", c.AppEnv)
	}
	if c.AuthDevMode && c.AppEnv != "local" {
		return fmt.Errorf("AUTH_DEV_MODE must not be enabled in %s environment", c.AppEnv)
	}
	if c.SeedUsers && c.AppEnv != "local" {
		return fmt.Errorf("SEED_USERS must not be enabled in %s environment", c.AppEnv)
	}
	if !c.AuthDevMode && c.Auth.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required when AUTH_DEV_MODE is disabled")
	}
	if c.Oracle.TimeoutSeconds <= 0 {
		return fmt.Errorf("ORACLE_TIMEOUT_SECONDS must be positive, got %d", c.Oracle.TimeoutSeconds)
	}
	return nil
}

type DBConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string
	// Migrate applies the embedded schema at startup. Schema application is
	// additive only; existing data is never dropped.
	Migrate bool
}

func (d DBConfig) DSN() string {
	u := &url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(d.User, d.Password),
		Host:     net.JoinHostPort(d.Host, d.Port),
		Path:     d.Name,
		RawQuery: fmt.Sprintf("sslmode=%s", url.QueryEscape(d.SSLMode)),
	}
	return u.String()
}

type OracleConfig struct {
	BaseURL        string
	APIKey         string
	Model          string
	TimeoutSeconds int
	// Temperature is pinned to 0 so extraction stays reproducible.
	Temperature float64
}

func (o OracleConfig) Timeout() time.Duration {
	return time.Duration(o.TimeoutSeconds) * time.Second
}

type AuthConfig struct {
	JWTSecret       string
	TokenTTLMinutes int
}

func (a AuthConfig) TokenTTL() time.Duration {
	return time.Duration(a.TokenTTLMinutes) * time.Minute
}

func Load() Config {
	return Config{
		ServerPort:  envOrDefault("SERVER_PORT", "8080"),
		AppEnv:      envOrDefault("APP_ENV", "local"),
		AuthDevMode: strings.EqualFold(envOrDefault("AUTH_DEV_MODE", "false"), "true"),
		LogLevel:    envOrDefault("LOG_LEVEL", "info"),
		SeedUsers:   strings.EqualFold(envOrDefault("SEED_USERS", "false"), "true"),
		DB: DBConfig{
			Host:     envOrDefault("DB_HOST", "localhost"),
			Port:     envOrDefault("DB_PORT", "5432"),
			User:     envOrDefault("DB_USER", "tasktalk"),
			Password: envOrDefault("DB_PASSWORD", "tasktalk"),
			Name:     envOrDefault("DB_NAME", "tasktalk"),
			SSLMode:  envOrDefault("DB_SSLMODE", "disable"),
			Migrate:  strings.EqualFold(envOrDefault("DB_MIGRATE", "false"), "true"),
		},
		Oracle: OracleConfig{
			BaseURL:        envOrDefault("ORACLE_BASE_URL", "https://api.openai.com/v1/chat/completions"),
			APIKey:         os.Getenv("ORACLE_API_KEY"),
			Model:          envOrDefault("ORACLE_MODEL", "gpt-4o"),
			TimeoutSeconds: envIntOrDefault("ORACLE_TIMEOUT_SECONDS", 15),
			Temperature:    0,
		},
		Auth: AuthConfig{
			JWTSecret:       os.Getenv("JWT_SECRET"),
			TokenTTLMinutes: envIntOrDefault("TOKEN_TTL_MINUTES", 60),
		},
	}
}

func envOrDefault(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func envIntOrDefault(key string, defaultVal int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return defaultVal
}
