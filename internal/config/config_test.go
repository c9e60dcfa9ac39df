package config_test

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/Flaque/filet"
	"github.com/Houeta/payroll/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const fullConfig = `
env: development
postgres:
  host: db.local
  port: "15432"
  user: payroll
  password: secret
  db_name: payroll
http:
  address: ":8081"
  shutdown_timeout: 3s
monitoring:
  port: 9191
roster:
  enabled: true
  url: https://hr.example.com/roster
  login_url: https://hr.example.com/login
  username: sync
  password: syncpass
  interval: 30m
seed:
  path: seed.yaml
`

func writeConfig(t *testing.T, content string) string {
	t.Helper()

	dir := filet.TmpDir(t, "")
	path := filepath.Join(dir, "config.yaml")
	filet.File(t, path, content)

	return path
}

func TestLoad_FromFile(t *testing.T) {
	defer filet.CleanUp(t)

	cfg, err := config.Load(writeConfig(t, fullConfig))
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.Env)
	assert.Equal(t, "db.local", cfg.Postgres.Host)
	assert.Equal(t, "15432", cfg.Postgres.Port)
	assert.Equal(t, "payroll", cfg.Postgres.User)
	assert.Equal(t, "secret", cfg.Postgres.Password)
	assert.Equal(t, "payroll", cfg.Postgres.Dbname)
	assert.Equal(t, ":8081", cfg.HTTP.Address)
	assert.Equal(t, 3*time.Second, cfg.HTTP.ShutdownTimeout)
	assert.Equal(t, 9191, cfg.Monitoring.Port)
	assert.True(t, cfg.Roster.Enabled)
	assert.Equal(t, "https://hr.example.com/roster", cfg.Roster.URL)
	assert.Equal(t, "https://hr.example.com/login", cfg.Roster.LoginURL)
	assert.Equal(t, 30*time.Minute, cfg.Roster.Interval)
	assert.Equal(t, "seed.yaml", cfg.Seed.Path)
}

func TestLoad_Defaults(t *testing.T) {
	defer filet.CleanUp(t)

	cfg, err := config.Load(writeConfig(t, `
postgres:
  host: localhost
  user: payroll
  db_name: payroll
`))
	require.NoError(t, err)

	assert.Equal(t, "local", cfg.Env)
	assert.Equal(t, "5432", cfg.Postgres.Port)
	assert.Equal(t, ":8080", cfg.HTTP.Address)
	assert.Equal(t, 10*time.Second, cfg.HTTP.ShutdownTimeout)
	assert.Equal(t, 9090, cfg.Monitoring.Port)
	assert.False(t, cfg.Roster.Enabled)
	assert.Equal(t, 12*time.Hour, cfg.Roster.Interval)
}

func TestLoad_EnvOverrides(t *testing.T) {
	defer filet.CleanUp(t)

	t.Setenv("PAYROLL_POSTGRES_HOST", "testHost")
	t.Setenv("PAYROLL_POSTGRES_PORT", "12345")
	t.Setenv("PAYROLL_ENV", "production")

	cfg, err := config.Load(writeConfig(t, fullConfig))
	require.NoError(t, err)

	assert.Equal(t, "production", cfg.Env)
	assert.Equal(t, "testHost", cfg.Postgres.Host)
	assert.Equal(t, "12345", cfg.Postgres.Port)
}

func TestLoad_MissingRequired(t *testing.T) {
	defer filet.CleanUp(t)

	_, err := config.Load(writeConfig(t, "env: local\n"))

	require.ErrorContains(t, err, "postgres.host must be set")
}

func TestLoad_RosterWithoutURL(t *testing.T) {
	defer filet.CleanUp(t)

	_, err := config.Load(writeConfig(t, `
postgres:
  host: localhost
  user: payroll
  db_name: payroll
roster:
  enabled: true
`))

	require.ErrorContains(t, err, "roster.url must be set")
}

func TestLoad_EmptyPath(t *testing.T) {
	_, err := config.Load("")

	require.ErrorIs(t, err, config.ErrEmptyConfigPath)
}

func TestLoad_FileDoesNotExist(t *testing.T) {
	_, err := config.Load(filepath.Join(t.TempDir(), "missing.yaml"))

	require.ErrorContains(t, err, "config file does not exist")
}

func TestMustLoad_PanicsOnEmptyPath(t *testing.T) {
	t.Setenv("CONFIG_PATH", "")

	assert.PanicsWithValue(t, "config error: "+config.ErrEmptyConfigPath.Error(), func() {
		config.MustLoad()
	})
}

func TestMustLoad_FromEnvPath(t *testing.T) {
	defer filet.CleanUp(t)

	t.Setenv("CONFIG_PATH", writeConfig(t, fullConfig))

	cfg := config.MustLoad()

	assert.Equal(t, "db.local", cfg.Postgres.Host)
}
