package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("JWT_SECRET_KEY", "test-secret")
	t.Setenv("DATABASE_HOST", "localhost")
	t.Setenv("DATABASE_DBNAME", "trivia")
	t.Setenv("DATABASE_USER", "postgres")
}

func TestLoad_DefaultsFromEnvOnly(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, 60, cfg.JWT.ExpirationMinutes, "Токен по умолчанию живёт 1 час")
	assert.Equal(t, time.Hour, cfg.JWT.JWTExpiration())
	assert.Equal(t, 50, cfg.Scores.ListLimit, "Публичный список ограничен 50 записями")
	assert.Equal(t, 20, cfg.Scores.LeaderboardLimit)
	assert.Equal(t, 2*time.Hour, cfg.Game.SessionTTL)
	assert.Equal(t, 10, cfg.Game.DefaultAmount)
	assert.Equal(t, "file://migrations", cfg.Database.MigrationsPath)
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	setRequiredEnv(t)

	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := []byte(`
server:
  port: "9090"
scores:
  list_limit: 25
game:
  session_ttl: 30m
`)
	require.NoError(t, os.WriteFile(path, content, 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, 25, cfg.Scores.ListLimit)
	assert.Equal(t, 30*time.Minute, cfg.Game.SessionTTL)
}

func TestLoad_MissingJWTSecret(t *testing.T) {
	t.Setenv("DATABASE_HOST", "localhost")
	t.Setenv("DATABASE_DBNAME", "trivia")
	t.Setenv("DATABASE_USER", "postgres")
	t.Setenv("JWT_SECRET_KEY", "")

	_, err := Load("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "JWT secret")
}

func TestValidate_EmailEnabledWithoutKey(t *testing.T) {
	cfg := &Config{
		Database: DatabaseConfig{Host: "h", DBName: "d", User: "u"},
		JWT:      JWTConfig{Secret: "s", ExpirationMinutes: 60},
		Scores:   ScoresConfig{ListLimit: 50},
		Email:    EmailConfig{Enabled: true},
	}

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "RESEND_API_KEY")
}

func TestDatabaseConfig_ConnectionStrings(t *testing.T) {
	d := DatabaseConfig{Host: "db", Port: "5432", User: "u", Password: "p", DBName: "trivia", SSLMode: "disable"}

	assert.Equal(t, "host=db port=5432 user=u password=p dbname=trivia sslmode=disable", d.PostgresConnectionString())
	assert.Equal(t, "postgres://u:p@db:5432/trivia?sslmode=disable", d.PostgresURL())
}

func TestLoadDatabase_IgnoresJWT(t *testing.T) {
	t.Setenv("DATABASE_HOST", "db")
	t.Setenv("DATABASE_DBNAME", "trivia")
	t.Setenv("DATABASE_USER", "postgres")
	t.Setenv("JWT_SECRET_KEY", "")

	dbCfg, err := LoadDatabase("")
	require.NoError(t, err, "Для миграций JWT секрет не нужен")
	assert.Equal(t, "db", dbCfg.Host)
	assert.Equal(t, "file://migrations", dbCfg.MigrationsPath)
}

func TestLoadDatabase_Incomplete(t *testing.T) {
	t.Setenv("DATABASE_HOST", "")
	t.Setenv("DATABASE_DBNAME", "")
	t.Setenv("DATABASE_USER", "")

	_, err := LoadDatabase("")
	assert.Error(t, err)
}
