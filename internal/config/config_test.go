package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad_DevelopmentDefaults(t *testing.T) {
	conf, err := Load(filepath.Join(t.TempDir(), "missing.yml"))
	require.NoError(t, err)

	assert.Equal(t, "3000", conf.API.Port)
	assert.False(t, conf.API.IsProduction())
	assert.Equal(t, DevSigningKey, conf.Auth.JWTSigningKey)
	assert.Equal(t, 8*time.Hour, conf.Auth.TokenTTL)
	assert.Equal(t, "0 6 * * *", conf.Scheduler.Spec)
	assert.Equal(t, "America/Santo_Domingo", conf.Scheduler.Timezone)
	assert.False(t, conf.Postgres.AutoMigrate)
}

func TestLoad_LegacyEnvironmentNames(t *testing.T) {
	t.Setenv("PORT", "8080")
	t.Setenv("JWT_SECRET", "legacy-secret")
	t.Setenv("JWT_EXPIRES_IN", "7d")
	t.Setenv("DATABASE_URL", "postgres://u:p@db:5432/bancas")

	conf, err := Load(filepath.Join(t.TempDir(), "missing.yml"))
	require.NoError(t, err)

	assert.Equal(t, "8080", conf.API.Port)
	assert.Equal(t, "legacy-secret", conf.Auth.JWTSigningKey)
	assert.Equal(t, 7*24*time.Hour, conf.Auth.TokenTTL)
	assert.Equal(t, "postgres://u:p@db:5432/bancas", conf.Postgres.DSN())
}

func TestLoad_File(t *testing.T) {
	path := writeConfig(t, `
api:
  port: "4000"
auth:
  token_ttl: 12h
  trusted_token_ttl: 30d
postgres:
  host: pg
  user: bancas
  db: bancas
scheduler:
  enabled: false
`)

	conf, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "4000", conf.API.Port)
	assert.Equal(t, 12*time.Hour, conf.Auth.TokenTTL)
	assert.Equal(t, 30*24*time.Hour, conf.Auth.TrustedTokenTTL)
	assert.False(t, conf.Scheduler.Enabled)
	assert.Equal(t, "host=pg port=5432 user=bancas password= dbname=bancas sslmode=disable", conf.Postgres.DSN())
}

func TestLoad_ProductionPosture(t *testing.T) {
	strongKey := "0123456789abcdef0123456789abcdef"

	tests := []struct {
		name string
		env  map[string]string
		want error
	}{
		{
			name: "missing key",
			env:  map[string]string{"API_ENVIRONMENT": "production", "AUTH_TOKEN_TTL": "8h", "POSTGRES_URL": "postgres://x"},
			want: ErrMissingSigningKey,
		},
		{
			name: "development key",
			env:  map[string]string{"API_ENVIRONMENT": "production", "AUTH_JWT_SIGNING_KEY": DevSigningKey, "AUTH_TOKEN_TTL": "8h", "POSTGRES_URL": "postgres://x"},
			want: ErrWeakSigningKey,
		},
		{
			name: "short key",
			env:  map[string]string{"API_ENVIRONMENT": "production", "AUTH_JWT_SIGNING_KEY": "short", "AUTH_TOKEN_TTL": "8h", "POSTGRES_URL": "postgres://x"},
			want: ErrWeakSigningKey,
		},
		{
			name: "implicit ttl",
			env:  map[string]string{"API_ENVIRONMENT": "production", "AUTH_JWT_SIGNING_KEY": strongKey, "POSTGRES_URL": "postgres://x"},
			want: ErrMissingTokenTTL,
		},
		{
			name: "no database",
			env:  map[string]string{"API_ENVIRONMENT": "production", "AUTH_JWT_SIGNING_KEY": strongKey, "AUTH_TOKEN_TTL": "8h"},
			want: ErrMissingDatabaseURL,
		},
		{
			name: "complete",
			env:  map[string]string{"API_ENVIRONMENT": "PRODUCTION", "AUTH_JWT_SIGNING_KEY": strongKey, "AUTH_TOKEN_TTL": "8h", "POSTGRES_URL": "postgres://x"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			conf, err := Load(filepath.Join(t.TempDir(), "missing.yml"))
			if tt.want != nil {
				assert.ErrorIs(t, err, tt.want)
				return
			}

			require.NoError(t, err)
			assert.True(t, conf.API.IsProduction())
		})
	}
}

func TestParseDuration(t *testing.T) {
	d, err := parseDuration("2d")
	require.NoError(t, err)
	assert.Equal(t, 48*time.Hour, d)

	d, err = parseDuration("")
	require.NoError(t, err)
	assert.Zero(t, d)

	_, err = parseDuration("soon")
	assert.Error(t, err)
}

func TestLoad_CommittedFileCannotSatisfyProduction(t *testing.T) {
	const committed = "../../cmd/app/config.yml"
	strongKey := "0123456789abcdef0123456789abcdef"

	t.Run("development runs on the file", func(t *testing.T) {
		conf, err := Load(committed)
		require.NoError(t, err)
		assert.Equal(t, 8*time.Hour, conf.Auth.TokenTTL)
		assert.Empty(t, conf.Postgres.User)
		assert.Empty(t, conf.Postgres.Password)
	})

	t.Run("token lifetime must come from the environment", func(t *testing.T) {
		t.Setenv("API_ENVIRONMENT", "production")
		t.Setenv("AUTH_JWT_SIGNING_KEY", strongKey)
		t.Setenv("POSTGRES_URL", "postgres://x")

		_, err := Load(committed)

		assert.ErrorIs(t, err, ErrMissingTokenTTL)
	})

	t.Run("database must come from the environment", func(t *testing.T) {
		t.Setenv("API_ENVIRONMENT", "production")
		t.Setenv("AUTH_JWT_SIGNING_KEY", strongKey)
		t.Setenv("AUTH_TOKEN_TTL", "8h")

		_, err := Load(committed)

		assert.ErrorIs(t, err, ErrMissingDatabaseURL)
	})

	t.Run("a file cannot stand in for the environment", func(t *testing.T) {
		t.Setenv("API_ENVIRONMENT", "production")
		t.Setenv("AUTH_JWT_SIGNING_KEY", strongKey)
		path := writeConfig(t, `
auth:
  token_ttl: 8h
postgres:
  user: bancas
  password: bancas
  db: bancas
`)

		_, err := Load(path)

		assert.ErrorIs(t, err, ErrMissingTokenTTL)
	})

	t.Run("user and db from the environment", func(t *testing.T) {
		t.Setenv("API_ENVIRONMENT", "production")
		t.Setenv("AUTH_JWT_SIGNING_KEY", strongKey)
		t.Setenv("AUTH_TOKEN_TTL", "12h")
		t.Setenv("POSTGRES_USER", "bancas_prod")
		t.Setenv("POSTGRES_DB", "bancas")

		conf, err := Load(committed)

		require.NoError(t, err)
		assert.Equal(t, 12*time.Hour, conf.Auth.TokenTTL)
		assert.Equal(t, "bancas_prod", conf.Postgres.User)
	})
}

func TestLoad_TrustedTerminalKey(t *testing.T) {
	strongKey := "0123456789abcdef0123456789abcdef"
	t.Setenv("API_ENVIRONMENT", "production")
	t.Setenv("AUTH_JWT_SIGNING_KEY", strongKey)
	t.Setenv("AUTH_TOKEN_TTL", "8h")
	t.Setenv("POSTGRES_URL", "postgres://x")

	t.Setenv("AUTH_TRUSTED_TERMINAL_KEY", "short")
	_, err := Load(filepath.Join(t.TempDir(), "missing.yml"))
	assert.ErrorIs(t, err, ErrWeakTerminalKey)

	t.Setenv("AUTH_TRUSTED_TERMINAL_KEY", "terminal-key-0123456789abcdef-0123")
	conf, err := Load(filepath.Join(t.TempDir(), "missing.yml"))
	require.NoError(t, err)
	assert.Equal(t, "terminal-key-0123456789abcdef-0123", conf.Auth.TrustedTerminalKey)
}
