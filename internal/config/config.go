package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

const (
	EnvProduction  = "production"
	EnvDevelopment = "development"

	// DevSigningKey is only accepted outside production.
	DevSigningKey = "dev-only-signing-key-change-me"

	minProductionKeyLen = 32
)

var (
	ErrMissingSigningKey  = errors.New("auth.jwt_signing_key is required in production")
	ErrWeakSigningKey     = errors.New("auth.jwt_signing_key is too short or is the development default")
	ErrWeakTerminalKey    = errors.New("auth.trusted_terminal_key is too short")
	ErrMissingTokenTTL    = errors.New("AUTH_TOKEN_TTL or JWT_EXPIRES_IN must be set in the environment in production")
	ErrMissingDatabaseURL = errors.New("POSTGRES_URL, DATABASE_URL or POSTGRES_USER and POSTGRES_DB must be set in the environment in production")
)

type AppConfig struct {
	API       *APIConfig
	Gin       *GinConfig
	Auth      *AuthConfig
	Postgres  *PostgresConfig
	Redis     *RedisConfig
	Scheduler *SchedulerConfig
}

type APIConfig struct {
	Port               string
	Environment        string
	BaseURL            string
	AllowedCORSDomains []string
	MaxBodyBytes       int64
}

type GinConfig struct {
	Mode string
}

type AuthConfig struct {
	JWTSigningKey      string
	TokenTTL           time.Duration
	TrustedTokenTTL    time.Duration
	// TrustedTerminalKey must accompany a login for it to get TrustedTokenTTL.
	TrustedTerminalKey string
	LoginRatePerMinute int
	LoginBurst         int

	tokenTTLFromEnv bool
}

type PostgresConfig struct {
	URL             string
	Host            string
	Port            string
	User            string
	Password        string
	DB              string
	SSLMode         string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	// AutoMigrate creates the API-owned tables on startup. Development only.
	AutoMigrate bool

	fromEnv bool
}

type RedisConfig struct {
	URL string
}

type SchedulerConfig struct {
	Enabled    bool
	Spec       string
	Timezone   string
	RunOnStart bool
}

// IsProduction reports whether the API runs with the production posture.
func (c *APIConfig) IsProduction() bool {
	return strings.EqualFold(c.Environment, EnvProduction)
}

// DSN builds a libpq keyword/value string when no URL is configured.
func (c *PostgresConfig) DSN() string {
	if c.URL != "" {
		return c.URL
	}

	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DB, c.SSLMode)
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("api.port", "3000")
	v.SetDefault("api.environment", EnvDevelopment)
	v.SetDefault("api.base_url", "localhost:3000")
	v.SetDefault("api.allowed_cors_domains", []string{"http://localhost:5173"})
	v.SetDefault("api.max_body_bytes", 1<<20)

	v.SetDefault("gin.mode", "debug")

	v.SetDefault("auth.token_ttl", "8h")
	v.SetDefault("auth.trusted_token_ttl", "0s")
	v.SetDefault("auth.trusted_terminal_key", "")
	v.SetDefault("auth.login_rate_per_minute", 10)
	v.SetDefault("auth.login_burst", 5)

	v.SetDefault("postgres.host", "localhost")
	v.SetDefault("postgres.port", "5432")
	v.SetDefault("postgres.sslmode", "disable")
	v.SetDefault("postgres.max_open_conns", 20)
	v.SetDefault("postgres.max_idle_conns", 10)
	v.SetDefault("postgres.conn_max_lifetime", "30m")
	v.SetDefault("postgres.auto_migrate", false)

	v.SetDefault("scheduler.enabled", true)
	v.SetDefault("scheduler.spec", "0 6 * * *")
	v.SetDefault("scheduler.timezone", "America/Santo_Domingo")
	v.SetDefault("scheduler.run_on_start", false)
}

// bindLegacyEnv keeps the variable names the node deployment used.
func bindLegacyEnv(v *viper.Viper) error {
	legacy := map[string][]string{
		"api.port":                  {"API_PORT", "PORT"},
		"api.environment":           {"API_ENVIRONMENT", "APP_ENV"},
		"auth.jwt_signing_key":      {"AUTH_JWT_SIGNING_KEY", "JWT_SECRET"},
		"auth.token_ttl":            {"AUTH_TOKEN_TTL", "JWT_EXPIRES_IN"},
		"auth.trusted_terminal_key": {"AUTH_TRUSTED_TERMINAL_KEY"},
		"postgres.url":              {"POSTGRES_URL", "DATABASE_URL"},
		"redis.url":                 {"REDIS_URL"},
		"scheduler.timezone":        {"SCHEDULER_TIMEZONE"},
		"scheduler.run_on_start":    {"SCHEDULER_RUN_ON_START"},
	}
	for key, envs := range legacy {
		args := append([]string{key}, envs...)
		if err := v.BindEnv(args...); err != nil {
			return fmt.Errorf("v.BindEnv(%s) -> %w", key, err)
		}
	}

	return nil
}

// Load reads the yaml file at path, overlays the environment and validates the result.
// The returned config is meant to be built once at startup and shared read-only.
func Load(path string) (*AppConfig, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigFile(path)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	if err := bindLegacyEnv(v); err != nil {
		return nil, err
	}

	fileRead := true
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("v.ReadInConfig -> %w", err)
		}
		fileRead = false
	}

	conf, err := fromViper(v)
	if err != nil {
		return nil, err
	}

	if err = conf.Validate(); err != nil {
		return nil, err
	}

	if fileRead {
		v.OnConfigChange(func(e fsnotify.Event) {
			zap.L().Warn("config file changed on disk; restart the process to apply it",
				zap.String("file", e.Name), zap.String("op", e.Op.String()))
		})
		v.WatchConfig()
	}

	return conf, nil
}

func fromViper(v *viper.Viper) (*AppConfig, error) {
	tokenTTL, err := parseDuration(v.GetString("auth.token_ttl"))
	if err != nil {
		return nil, fmt.Errorf("auth.token_ttl -> %w", err)
	}
	trustedTTL, err := parseDuration(v.GetString("auth.trusted_token_ttl"))
	if err != nil {
		return nil, fmt.Errorf("auth.trusted_token_ttl -> %w", err)
	}

	return &AppConfig{
		API: &APIConfig{
			Port:               v.GetString("api.port"),
			Environment:        strings.ToLower(strings.TrimSpace(v.GetString("api.environment"))),
			BaseURL:            v.GetString("api.base_url"),
			AllowedCORSDomains: v.GetStringSlice("api.allowed_cors_domains"),
			MaxBodyBytes:       v.GetInt64("api.max_body_bytes"),
		},
		Gin: &GinConfig{
			Mode: v.GetString("gin.mode"),
		},
		Auth: &AuthConfig{
			JWTSigningKey:      v.GetString("auth.jwt_signing_key"),
			TokenTTL:           tokenTTL,
			TrustedTokenTTL:    trustedTTL,
			TrustedTerminalKey: v.GetString("auth.trusted_terminal_key"),
			LoginRatePerMinute: v.GetInt("auth.login_rate_per_minute"),
			LoginBurst:         v.GetInt("auth.login_burst"),
			tokenTTLFromEnv:    envSet("AUTH_TOKEN_TTL", "JWT_EXPIRES_IN"),
		},
		Postgres: &PostgresConfig{
			URL:             v.GetString("postgres.url"),
			Host:            v.GetString("postgres.host"),
			Port:            v.GetString("postgres.port"),
			User:            v.GetString("postgres.user"),
			Password:        v.GetString("postgres.password"),
			DB:              v.GetString("postgres.db"),
			SSLMode:         v.GetString("postgres.sslmode"),
			MaxOpenConns:    v.GetInt("postgres.max_open_conns"),
			MaxIdleConns:    v.GetInt("postgres.max_idle_conns"),
			ConnMaxLifetime: v.GetDuration("postgres.conn_max_lifetime"),
			AutoMigrate:     v.GetBool("postgres.auto_migrate"),
			fromEnv:         envSet("POSTGRES_URL", "DATABASE_URL") || (envSet("POSTGRES_USER") && envSet("POSTGRES_DB")),
		},
		Redis: &RedisConfig{
			URL: v.GetString("redis.url"),
		},
		Scheduler: &SchedulerConfig{
			Enabled:    v.GetBool("scheduler.enabled"),
			Spec:       v.GetString("scheduler.spec"),
			Timezone:   v.GetString("scheduler.timezone"),
			RunOnStart: v.GetBool("scheduler.run_on_start"),
		},
	}, nil
}

func envSet(names ...string) bool {
	for _, name := range names {
		if _, ok := os.LookupEnv(name); ok {
			return true
		}
	}
	return false
}

// parseDuration accepts Go durations plus the "8h"/"30m"/"7d" forms JWT_EXPIRES_IN used.
func parseDuration(raw string) (time.Duration, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, nil
	}
	if strings.HasSuffix(raw, "d") {
		d, err := time.ParseDuration(strings.TrimSuffix(raw, "d") + "h")
		if err != nil {
			return 0, err
		}
		return d * 24, nil
	}

	return time.ParseDuration(raw)
}

// Validate enforces the production posture. Outside production the development
// signing key is filled in when none was supplied. In production the token
// lifetime and the database settings must come from the environment, so the
// committed config file can never supply them.
func (c *AppConfig) Validate() error {
	if c.Auth.TokenTTL <= 0 {
		return errors.New("auth.token_ttl must be positive")
	}

	if !c.API.IsProduction() {
		if c.Auth.JWTSigningKey == "" {
			c.Auth.JWTSigningKey = DevSigningKey
		}
		return nil
	}

	if c.Auth.JWTSigningKey == "" {
		return ErrMissingSigningKey
	}
	if c.Auth.JWTSigningKey == DevSigningKey || len(c.Auth.JWTSigningKey) < minProductionKeyLen {
		return ErrWeakSigningKey
	}
	if c.Auth.TrustedTerminalKey != "" && len(c.Auth.TrustedTerminalKey) < minProductionKeyLen {
		return ErrWeakTerminalKey
	}
	if !c.Auth.tokenTTLFromEnv {
		return ErrMissingTokenTTL
	}
	if !c.Postgres.fromEnv {
		return ErrMissingDatabaseURL
	}

	return nil
}
