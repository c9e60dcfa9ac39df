package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const envPrefix = "PAYROLL"

var ErrEmptyConfigPath = errors.New("config path is empty")

type Config struct {
	Env        string           `yaml:"env"`        // Env is the current environment: local, development, production.
	Postgres   PostgresConfig   `yaml:"postgres"`   // Postgres holds the database configuration
	HTTP       HTTPConfig       `yaml:"http"`       // HTTP holds the REST API listener configuration
	Monitoring MonitoringConfig `yaml:"monitoring"` // Monitoring holds the metrics/health listener configuration
	Roster     RosterConfig     `yaml:"roster"`     // Roster holds the roster portal sync configuration
	Seed       SeedConfig       `yaml:"seed"`       // Seed holds the initial data loader configuration
}

// PostgresConfig struct holds the configuration details for connecting to a PostgreSQL database.
type PostgresConfig struct {
	Host     string `yaml:"host"`     // Host is the database server address.
	Port     string `yaml:"port"`     // Port is the database server port.
	User     string `yaml:"user"`     // User is the database user.
	Password string `yaml:"password"` // Password is the database user's password.
	Dbname   string `yaml:"db_name"`  // Dbname is the name of the database.
}

type HTTPConfig struct {
	Address         string        `yaml:"address"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

type MonitoringConfig struct {
	Port int `yaml:"port"`
}

// RosterConfig struct holds the configuration details for the HR roster portal.
type RosterConfig struct {
	Enabled  bool          `yaml:"enabled"`
	URL      string        `yaml:"url"`       // URL is the roster page in format `https://example.com/roster`
	LoginURL string        `yaml:"login_url"` // LoginURL is the form login endpoint; empty disables login
	Username string        `yaml:"username"`
	Password string        `yaml:"password"`
	Interval time.Duration `yaml:"interval"` // Interval is the time between two sync runs.
}

type SeedConfig struct {
	Path string `yaml:"path"` // Path to a YAML seed file; empty disables seeding.
}

// MustLoad loads the configuration from the YAML file named by CONFIG_PATH.
// It panics when the configuration cannot be loaded.
func MustLoad() *Config {
	cfg, err := Load(os.Getenv("CONFIG_PATH"))
	if err != nil {
		panic("config error: " + err.Error())
	}

	return cfg
}

// Load reads an optional .env file, then the YAML file at configPath, and
// lets PAYROLL_* environment variables override any key
// (e.g. PAYROLL_POSTGRES_HOST for postgres.host).
func Load(configPath string) (*Config, error) {
	if configPath == "" {
		return nil, ErrEmptyConfigPath
	}

	// check if file exists
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("config file does not exist: %s", configPath)
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	}

	vpr := viper.New()
	vpr.SetConfigFile(configPath)
	vpr.SetEnvPrefix(envPrefix)
	vpr.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	vpr.AutomaticEnv()

	setDefaults(vpr)

	if err := vpr.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	cfg := &Config{
		Env: vpr.GetString("env"),
		Postgres: PostgresConfig{
			Host:     vpr.GetString("postgres.host"),
			Port:     vpr.GetString("postgres.port"),
			User:     vpr.GetString("postgres.user"),
			Password: vpr.GetString("postgres.password"),
			Dbname:   vpr.GetString("postgres.db_name"),
		},
		HTTP: HTTPConfig{
			Address:         vpr.GetString("http.address"),
			ShutdownTimeout: vpr.GetDuration("http.shutdown_timeout"),
		},
		Monitoring: MonitoringConfig{
			Port: vpr.GetInt("monitoring.port"),
		},
		Roster: RosterConfig{
			Enabled:  vpr.GetBool("roster.enabled"),
			URL:      vpr.GetString("roster.url"),
			LoginURL: vpr.GetString("roster.login_url"),
			Username: vpr.GetString("roster.username"),
			Password: vpr.GetString("roster.password"),
			Interval: vpr.GetDuration("roster.interval"),
		},
		Seed: SeedConfig{
			Path: vpr.GetString("seed.path"),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func setDefaults(vpr *viper.Viper) {
	defRosterInterval := 12

	vpr.SetDefault("env", "local")
	vpr.SetDefault("postgres.port", "5432")
	vpr.SetDefault("http.address", ":8080")
	vpr.SetDefault("http.shutdown_timeout", 10*time.Second)
	vpr.SetDefault("monitoring.port", 9090)
	vpr.SetDefault("roster.enabled", false)
	vpr.SetDefault("roster.interval", time.Duration(defRosterInterval*int(time.Hour)))
}

func (c *Config) validate() error {
	if c.Postgres.Host == "" {
		return errors.New("config: postgres.host must be set")
	}
	if c.Postgres.User == "" {
		return errors.New("config: postgres.user must be set")
	}
	if c.Postgres.Dbname == "" {
		return errors.New("config: postgres.db_name must be set")
	}
	if c.Roster.Enabled {
		if c.Roster.URL == "" {
			return errors.New("config: roster.url must be set when roster sync is enabled")
		}
		if c.Roster.Interval <= 0 {
			return errors.New("config: roster.interval must be positive")
		}
	}

	return nil
}
