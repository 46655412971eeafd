// Package config loads planweave configuration with Viper: defaults first,
// then an optional YAML file, then PLANWEAVE_-prefixed environment
// variables.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config is the root configuration for the CLI and the reasoner service.
type Config struct {
	// Reasoner configures how the pipeline reaches the reasoner.
	Reasoner ReasonerConfig `mapstructure:"reasoner"`

	// Database holds paths for the SQLite databases.
	Database DatabaseConfig `mapstructure:"database"`

	// Server configures the reasoner HTTP service.
	Server ServerConfig `mapstructure:"server"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `mapstructure:"log_level"`
}

// ReasonerConfig selects between the in-process service and a remote one.
type ReasonerConfig struct {
	// BaseURL of a remote reasoner. Empty means run the reasoner
	// in-process against the student database.
	BaseURL string `mapstructure:"base_url"`

	// Timeout bounds each remote call.
	Timeout time.Duration `mapstructure:"timeout"`
}

// DatabaseConfig holds SQLite file paths.
type DatabaseConfig struct {
	// RunsPath stores workflow run records.
	RunsPath string `mapstructure:"runs_path"`

	// StudentsPath stores the student roster.
	StudentsPath string `mapstructure:"students_path"`
}

// ServerConfig configures the reasoner HTTP service.
type ServerConfig struct {
	// ListenAddr is the host:port to bind.
	ListenAddr string `mapstructure:"listen_addr"`

	// ShutdownTimeout bounds graceful shutdown on SIGINT/SIGTERM.
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// DefaultConfig returns the defaults that work without any config file.
func DefaultConfig() *Config {
	return &Config{
		Reasoner: ReasonerConfig{
			BaseURL: "",
			Timeout: 10 * time.Second,
		},
		Database: DatabaseConfig{
			RunsPath:     "planweave.db",
			StudentsPath: "students.db",
		},
		Server: ServerConfig{
			ListenAddr:      ":5000",
			ShutdownTimeout: 10 * time.Second,
		},
		LogLevel: "info",
	}
}

// Loader loads configuration through Viper.
type Loader struct {
	v *viper.Viper
}

// NewLoader builds a Loader with defaults and environment binding applied.
func NewLoader() *Loader {
	v := viper.New()

	def := DefaultConfig()
	v.SetDefault("reasoner.base_url", def.Reasoner.BaseURL)
	v.SetDefault("reasoner.timeout", def.Reasoner.Timeout)
	v.SetDefault("database.runs_path", def.Database.RunsPath)
	v.SetDefault("database.students_path", def.Database.StudentsPath)
	v.SetDefault("server.listen_addr", def.Server.ListenAddr)
	v.SetDefault("server.shutdown_timeout", def.Server.ShutdownTimeout)
	v.SetDefault("log_level", def.LogLevel)

	v.SetEnvPrefix("PLANWEAVE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	return &Loader{v: v}
}

// Load reads planweave.yaml from the working directory when present, then
// applies environment overrides. A missing file is not an error.
func (l *Loader) Load() (*Config, error) {
	l.v.SetConfigName("planweave")
	l.v.SetConfigType("yaml")
	l.v.AddConfigPath(".")

	if err := l.v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}
	return l.unmarshal()
}

// LoadFromFile reads configuration from an explicit path.
func (l *Loader) LoadFromFile(path string) (*Config, error) {
	l.v.SetConfigFile(path)
	if err := l.v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	return l.unmarshal()
}

func (l *Loader) unmarshal() (*Config, error) {
	var cfg Config
	if err := l.v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return &cfg, nil
}
