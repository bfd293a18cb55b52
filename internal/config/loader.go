package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override, e.g. TEMPMATRIX_SERVER_PORT
const EnvPrefix = "TEMPMATRIX"

// Loader reads configuration with precedence
// defaults < config file < environment.
type Loader struct {
	v          *viper.Viper
	configFile string
}

// NewLoader creates a new configuration loader
func NewLoader() *Loader {
	return &Loader{
		v: viper.New(),
	}
}

// SetConfigFile sets an explicit config file path. A missing explicit
// file is an error; the default tempmatrix.yaml is optional.
func (l *Loader) SetConfigFile(path string) {
	l.configFile = path
}

// Load builds and validates the configuration
func (l *Loader) Load() (*Config, error) {
	cfg := DefaultConfig()
	l.setupViper(cfg)

	if err := l.loadConfigFile(); err != nil {
		return nil, fmt.Errorf("failed to load config file: %w", err)
	}

	if err := l.v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// ConfigFileUsed returns the config file that was read, if any
func (l *Loader) ConfigFileUsed() string {
	return l.v.ConfigFileUsed()
}

func (l *Loader) setupViper(cfg *Config) {
	v := l.v

	v.SetConfigName("tempmatrix")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("/etc/tempmatrix")

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	setDefaults(v, cfg)

	// Unmarshal only sees env vars for keys viper already knows about
	for _, key := range v.AllKeys() {
		_ = v.BindEnv(key)
	}
	v.AutomaticEnv()
}

func setDefaults(v *viper.Viper, cfg *Config) {
	v.SetDefault("server.host", cfg.Server.Host)
	v.SetDefault("server.port", cfg.Server.Port)
	v.SetDefault("server.read_timeout", cfg.Server.ReadTimeout)
	v.SetDefault("server.write_timeout", cfg.Server.WriteTimeout)
	v.SetDefault("server.idle_timeout", cfg.Server.IdleTimeout)
	v.SetDefault("server.shutdown_timeout", cfg.Server.ShutdownTimeout)

	v.SetDefault("source.kind", cfg.Source.Kind)
	v.SetDefault("source.csv_path", cfg.Source.CSVPath)
	v.SetDefault("source.station_id", cfg.Source.StationID)

	v.SetDefault("database.host", cfg.Database.Host)
	v.SetDefault("database.port", cfg.Database.Port)
	v.SetDefault("database.user", cfg.Database.User)
	v.SetDefault("database.password", cfg.Database.Password)
	v.SetDefault("database.database", cfg.Database.Database)
	v.SetDefault("database.sslmode", cfg.Database.SSLMode)
	v.SetDefault("database.max_open_conns", cfg.Database.MaxOpenConns)
	v.SetDefault("database.max_idle_conns", cfg.Database.MaxIdleConns)
	v.SetDefault("database.conn_max_lifetime", cfg.Database.ConnMaxLifetime)
	v.SetDefault("database.conn_max_idle_time", cfg.Database.ConnMaxIdleTime)

	v.SetDefault("logging.level", cfg.Logging.Level)
}

func (l *Loader) loadConfigFile() error {
	if l.configFile != "" {
		l.v.SetConfigFile(l.configFile)
		return l.v.ReadInConfig()
	}

	if err := l.v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			return nil
		}
		return err
	}
	return nil
}

// LoadConfig loads configuration from the default locations
func LoadConfig() (*Config, error) {
	return NewLoader().Load()
}

// LoadFromFile loads configuration from a specific file
func LoadFromFile(path string) (*Config, error) {
	loader := NewLoader()
	loader.SetConfigFile(path)
	return loader.Load()
}
