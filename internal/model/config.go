package model

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// APIConfig points the client at the mail REST API.
type APIConfig struct {
	// BaseURL is the root URL of the API (e.g., http://localhost:8000).
	BaseURL string `mapstructure:"base_url" yaml:"base_url"`

	// TimeoutSec bounds each request round trip.
	TimeoutSec int `mapstructure:"timeout_sec" yaml:"timeout_sec"`
}

// DisplayConfig holds UI/rendering preferences.
type DisplayConfig struct {
	Theme string `mapstructure:"theme" yaml:"theme"`

	// Filter is the tab shown at startup.
	Filter string `mapstructure:"filter" yaml:"filter"`

	// RefreshIntervalSec re-fetches the active filter periodically.
	// Zero disables background refresh.
	RefreshIntervalSec int `mapstructure:"refresh_interval_sec" yaml:"refresh_interval_sec"`
}

// LogConfig controls where the client writes its log.
type LogConfig struct {
	File string `mapstructure:"file" yaml:"file"`
}

// ExportConfig controls .eml export.
type ExportConfig struct {
	Dir string `mapstructure:"dir" yaml:"dir"`
}

// ServerConfig holds settings for the mailpaned reference API server.
type ServerConfig struct {
	Addr        string   `mapstructure:"addr" yaml:"addr"`
	DBPath      string   `mapstructure:"db_path" yaml:"db_path"`
	CORSOrigins []string `mapstructure:"cors_origins" yaml:"cors_origins"`

	// OwnerName and OwnerEmail are stamped as the sender of created mail.
	OwnerName  string `mapstructure:"owner_name" yaml:"owner_name"`
	OwnerEmail string `mapstructure:"owner_email" yaml:"owner_email"`

	// Token, when set, is required as a bearer token on /emails routes.
	Token string `mapstructure:"token" yaml:"token"`
}

// AppConfig is the top-level application configuration.
type AppConfig struct {
	API     APIConfig     `mapstructure:"api" yaml:"api"`
	Display DisplayConfig `mapstructure:"display" yaml:"display"`
	Log     LogConfig     `mapstructure:"log" yaml:"log"`
	Export  ExportConfig  `mapstructure:"export" yaml:"export"`
	Server  ServerConfig  `mapstructure:"server" yaml:"server"`
}

// ConfigDir returns ~/.config/mailpane, or the working directory when the
// home directory cannot be resolved.
func ConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return filepath.Join(home, ".config", "mailpane")
}

// DefaultConfigPath returns the default path for the configuration file,
// located at ~/.config/mailpane/config.yaml.
func DefaultConfigPath() string {
	return filepath.Join(ConfigDir(), "config.yaml")
}

// defaultAppConfig returns a sensible default configuration.
func defaultAppConfig() *AppConfig {
	return &AppConfig{
		API: APIConfig{
			BaseURL:    "http://localhost:8000",
			TimeoutSec: 30,
		},
		Display: DisplayConfig{
			Theme:              "default",
			Filter:             string(FilterAll),
			RefreshIntervalSec: 0,
		},
		Log: LogConfig{
			File: "mailpane.log",
		},
		Export: ExportConfig{
			Dir: filepath.Join(ConfigDir(), "export"),
		},
		Server: ServerConfig{
			Addr:        ":8000",
			DBPath:      "emails.db",
			CORSOrigins: []string{"http://localhost:3000"},
			OwnerName:   "Richard Brown",
			OwnerEmail:  "richard@example.com",
		},
	}
}

// LoadConfig reads configuration from the given YAML file path using Viper.
// A missing file yields the defaults. Environment variables prefixed with
// MAILPANE_ (e.g. MAILPANE_API_BASE_URL) override both.
func LoadConfig(path string) (*AppConfig, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	def := defaultAppConfig()
	v.SetDefault("api.base_url", def.API.BaseURL)
	v.SetDefault("api.timeout_sec", def.API.TimeoutSec)
	v.SetDefault("display.theme", def.Display.Theme)
	v.SetDefault("display.filter", def.Display.Filter)
	v.SetDefault("display.refresh_interval_sec", def.Display.RefreshIntervalSec)
	v.SetDefault("log.file", def.Log.File)
	v.SetDefault("export.dir", def.Export.Dir)
	v.SetDefault("server.addr", def.Server.Addr)
	v.SetDefault("server.db_path", def.Server.DBPath)
	v.SetDefault("server.cors_origins", def.Server.CORSOrigins)
	v.SetDefault("server.owner_name", def.Server.OwnerName)
	v.SetDefault("server.owner_email", def.Server.OwnerEmail)
	v.SetDefault("server.token", "")

	v.SetEnvPrefix("MAILPANE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	// Short alias kept for parity with the web client's API_BASE setting.
	if err := v.BindEnv("api.base_url", "MAILPANE_API_URL", "MAILPANE_API_BASE_URL"); err != nil {
		return nil, fmt.Errorf("binding env: %w", err)
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.Is(err, os.ErrNotExist) && !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
	}

	cfg := &AppConfig{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	if _, err := ParseFilter(cfg.Display.Filter); err != nil {
		return nil, fmt.Errorf("parsing config %s: display.filter: %w", path, err)
	}
	if cfg.API.TimeoutSec <= 0 {
		cfg.API.TimeoutSec = def.API.TimeoutSec
	}
	if cfg.Display.RefreshIntervalSec < 0 {
		cfg.Display.RefreshIntervalSec = 0
	}

	return cfg, nil
}

// SaveConfig writes the given configuration to a YAML file at path,
// creating parent directories if needed.
func SaveConfig(path string, cfg *AppConfig) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory %s: %w", dir, err)
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")

	v.Set("api", cfg.API)
	v.Set("display", cfg.Display)
	v.Set("log", cfg.Log)
	v.Set("export", cfg.Export)
	v.Set("server", cfg.Server)

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}

	return nil
}
