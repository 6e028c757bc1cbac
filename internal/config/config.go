// Package config provides configuration management for go-entrees.
package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

var AppVersion = "-unset-" // will be set at build time

const (
	DefaultListenPort = 8081
	DefaultDBDriver   = "sqlite3"
	DefaultDataDir    = "./data"
)

// MainConfig holds the main configuration for go-entrees
type MainConfig struct {
	// Web interface settings
	Web WebConfig `json:"web"`

	// Database settings
	Database DatabaseConfig `json:"database"`

	AppVersion string `json:"app_version"` // Application version, set at build time
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Driver  string `json:"driver"`   // sqlite3, pgx or mysql
	DSN     string `json:"dsn"`      // empty: sqlite file below DataDir
	DataDir string `json:"data_dir"` // Directory for the sqlite database
}

// WebConfig holds web interface configuration
type WebConfig struct {
	ListenPort    int    `json:"listen_port"`
	SSL           bool   `json:"ssl"`
	CertFile      string `json:"cert_file,omitempty"`
	KeyFile       string `json:"key_file,omitempty"`
	SessionSecret string `json:"-"`
	GinMode       string `json:"gin_mode"`
	Debug         bool   `json:"debug"`
}

// NewDefaultConfig returns a configuration with sensible defaults
func NewDefaultConfig() *MainConfig {
	return &MainConfig{
		AppVersion: AppVersion,
		Web: WebConfig{
			ListenPort: DefaultListenPort,
			GinMode:    "release",
		},
		Database: DatabaseConfig{
			Driver:  DefaultDBDriver,
			DataDir: DefaultDataDir,
		},
	}
}

// Load reads an optional .env file and applies environment overrides on top of the defaults
func Load() (*MainConfig, error) {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("[CONFIG] Warning: failed to read .env: %v", err)
	}
	cfg := NewDefaultConfig()
	if err := cfg.applyEnv(os.Getenv); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (cfg *MainConfig) applyEnv(getenv func(string) string) error {
	if v := getenv("PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid PORT %q: %w", v, err)
		}
		cfg.Web.ListenPort = port
	}
	if v := getenv("WEB_SSL"); v != "" {
		ssl, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid WEB_SSL %q: %w", v, err)
		}
		cfg.Web.SSL = ssl
	}
	if v := getenv("WEB_CERT_FILE"); v != "" {
		cfg.Web.CertFile = v
	}
	if v := getenv("WEB_KEY_FILE"); v != "" {
		cfg.Web.KeyFile = v
	}
	if v := getenv("SESSION_SECRET"); v != "" {
		cfg.Web.SessionSecret = v
	}
	if v := getenv("GIN_MODE"); v != "" {
		cfg.Web.GinMode = v
	}
	if v := getenv("WEB_DEBUG"); v != "" {
		debug, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid WEB_DEBUG %q: %w", v, err)
		}
		cfg.Web.Debug = debug
	}
	if v := getenv("DB_DRIVER"); v != "" {
		cfg.Database.Driver = strings.ToLower(v)
	}
	if v := getenv("DB_DSN"); v != "" {
		cfg.Database.DSN = v
	}
	if v := getenv("DB_DATA_DIR"); v != "" {
		cfg.Database.DataDir = v
	}
	return cfg.Validate()
}

// NormalizeDriver maps a driver name or alias to sqlite3, pgx or mysql
func NormalizeDriver(driver string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(driver)) {
	case "", "sqlite3", "sqlite":
		return "sqlite3", nil
	case "pgx", "postgres", "postgresql":
		return "pgx", nil
	case "mysql":
		return "mysql", nil
	default:
		return "", fmt.Errorf("unsupported database driver: %q (use sqlite3, pgx or mysql)", driver)
	}
}

// Validate checks the configuration for values the server cannot start with.
// It also normalizes the database driver name.
func (cfg *MainConfig) Validate() error {
	if cfg.Web.ListenPort < 1 || cfg.Web.ListenPort > 65535 {
		return fmt.Errorf("invalid port number: %d (must be between 1 and 65535)", cfg.Web.ListenPort)
	}
	if cfg.Web.SSL && (cfg.Web.CertFile == "" || cfg.Web.KeyFile == "") {
		return fmt.Errorf("SSL enabled but cert_file or key_file not specified")
	}
	driver, err := NormalizeDriver(cfg.Database.Driver)
	if err != nil {
		return err
	}
	cfg.Database.Driver = driver
	if cfg.Database.Driver != "sqlite3" && cfg.Database.DSN == "" {
		return fmt.Errorf("database driver %s needs a DSN", cfg.Database.Driver)
	}
	return nil
}
