// Package config holds the runtime configuration of the server and the
// render tool. Matrix geometry and the temperature range are fixed and not
// configurable.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"temperature-matrix/pkg/database"
)

// Source kinds
const (
	SourceCSV      = "csv"
	SourcePostgres = "postgres"
)

// Config is the root configuration
type Config struct {
	Server   ServerConfig   `yaml:"server" mapstructure:"server"`
	Source   SourceConfig   `yaml:"source" mapstructure:"source"`
	Database DatabaseConfig `yaml:"database" mapstructure:"database"`
	Logging  LoggingConfig  `yaml:"logging" mapstructure:"logging"`
}

// ServerConfig contains HTTP server settings
type ServerConfig struct {
	Host            string        `yaml:"host" mapstructure:"host"`
	Port            int           `yaml:"port" mapstructure:"port"`
	ReadTimeout     time.Duration `yaml:"read_timeout" mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout" mapstructure:"write_timeout"`
	IdleTimeout     time.Duration `yaml:"idle_timeout" mapstructure:"idle_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" mapstructure:"shutdown_timeout"`
}

// SourceConfig selects where daily records are read from
type SourceConfig struct {
	// Kind is "csv" or "postgres"
	Kind string `yaml:"kind" mapstructure:"kind"`

	CSVPath   string `yaml:"csv_path" mapstructure:"csv_path"`
	StationID string `yaml:"station_id" mapstructure:"station_id"`
}

// DatabaseConfig contains PostgreSQL settings, used by the postgres source
type DatabaseConfig struct {
	Host            string        `yaml:"host" mapstructure:"host"`
	Port            int           `yaml:"port" mapstructure:"port"`
	User            string        `yaml:"user" mapstructure:"user"`
	Password        string        `yaml:"password" mapstructure:"password"`
	Database        string        `yaml:"database" mapstructure:"database"`
	SSLMode         string        `yaml:"sslmode" mapstructure:"sslmode"`
	MaxOpenConns    int           `yaml:"max_open_conns" mapstructure:"max_open_conns"`
	MaxIdleConns    int           `yaml:"max_idle_conns" mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `yaml:"conn_max_lifetime" mapstructure:"conn_max_lifetime"`
	ConnMaxIdleTime time.Duration `yaml:"conn_max_idle_time" mapstructure:"conn_max_idle_time"`
}

// LoggingConfig contains logging settings
type LoggingConfig struct {
	Level string `yaml:"level" mapstructure:"level"`
}

// DefaultConfig returns the configuration used when nothing is set
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:            "0.0.0.0",
			Port:            8080,
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    15 * time.Second,
			IdleTimeout:     60 * time.Second,
			ShutdownTimeout: 30 * time.Second,
		},
		Source: SourceConfig{
			Kind:    SourceCSV,
			CSVPath: "temperature_daily.csv",
		},
		Database: DatabaseConfig{
			Host:            "localhost",
			Port:            5432,
			User:            "postgres",
			Database:        "weather",
			SSLMode:         "disable",
			MaxOpenConns:    10,
			MaxIdleConns:    5,
			ConnMaxLifetime: 30 * time.Minute,
			ConnMaxIdleTime: 5 * time.Minute,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Validate checks the configuration for errors
func (c *Config) Validate() error {
	var errs []error

	if c.Server.Port < 1 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Errorf("server.port must be between 1 and 65535, got %d", c.Server.Port))
	}
	if c.Server.ReadTimeout < 0 || c.Server.WriteTimeout < 0 || c.Server.IdleTimeout < 0 {
		errs = append(errs, errors.New("server timeouts must not be negative"))
	}

	switch c.Source.Kind {
	case SourceCSV:
		if strings.TrimSpace(c.Source.CSVPath) == "" {
			errs = append(errs, errors.New("source.csv_path is required for the csv source"))
		}
	case SourcePostgres:
		if strings.TrimSpace(c.Source.StationID) == "" {
			errs = append(errs, errors.New("source.station_id is required for the postgres source"))
		}
		if c.Database.Host == "" || c.Database.Database == "" {
			errs = append(errs, errors.New("database.host and database.database are required for the postgres source"))
		}
		if c.Database.Port < 1 || c.Database.Port > 65535 {
			errs = append(errs, fmt.Errorf("database.port must be between 1 and 65535, got %d", c.Database.Port))
		}
	default:
		errs = append(errs, fmt.Errorf("source.kind must be %q or %q, got %q", SourceCSV, SourcePostgres, c.Source.Kind))
	}

	switch strings.ToLower(c.Logging.Level) {
	case "debug", "info", "warn", "warning", "error":
	default:
		errs = append(errs, fmt.Errorf("logging.level %q is not one of debug, info, warn, error", c.Logging.Level))
	}

	return errors.Join(errs...)
}

// Address returns the host:port the server listens on
func (c *ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// PostgresConfig converts the database section for pkg/database
func (d *DatabaseConfig) PostgresConfig() *database.Config {
	return &database.Config{
		Host:            d.Host,
		Port:            d.Port,
		User:            d.User,
		Password:        d.Password,
		Database:        d.Database,
		SSLMode:         d.SSLMode,
		MaxOpenConns:    d.MaxOpenConns,
		MaxIdleConns:    d.MaxIdleConns,
		ConnMaxLifetime: d.ConnMaxLifetime,
		ConnMaxIdleTime: d.ConnMaxIdleTime,
	}
}
