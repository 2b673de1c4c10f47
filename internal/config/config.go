package config

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"github.com/BurntSushi/toml"
	"github.com/adrg/xdg"
)

// Backend kinds
const (
	BackendMemory   = "memory"
	BackendSQLite   = "sqlite"
	BackendPostgres = "postgres"
)

// BackendKinds lists the supported backend kinds.
var BackendKinds = []string{BackendMemory, BackendSQLite, BackendPostgres}

// Environment overrides
const (
	EnvConfig      = "PGACCESS_CONFIG"
	EnvDatabaseURL = "PGACCESS_DATABASE_URL"
	EnvBackend     = "PGACCESS_BACKEND"
)

// Config represents the pgaccess config.toml file
type Config struct {
	Backend BackendConfig `toml:"backend"`
	View    ViewConfig    `toml:"view"`
	UI      UIConfig      `toml:"ui"`
}

// BackendConfig selects where accounts and roles live
type BackendConfig struct {
	Kind string `toml:"kind" config:"backend.kind" default:"sqlite" desc:"Backend: memory, sqlite or postgres"`
	URL  string `toml:"url" config:"backend.url" desc:"PostgreSQL connection url"`
	Path string `toml:"path" config:"backend.path" desc:"SQLite database file (empty = XDG data dir)"`
}

// ViewConfig contains table settings
type ViewConfig struct {
	PageSize int `toml:"page_size" config:"view.page_size" default:"10" min:"1" max:"100" desc:"Accounts per page"`
}

// UIConfig contains terminal settings
type UIConfig struct {
	Accessible bool `toml:"accessible" config:"ui.accessible" default:"false" desc:"Plain tables instead of the interactive browser"`
	NoColor    bool `toml:"no_color" config:"ui.no_color" default:"false" desc:"Disable colors"`
}

// DefaultConfig returns a new config with default values
func DefaultConfig() *Config {
	return &Config{
		Backend: BackendConfig{Kind: BackendSQLite},
		View:    ViewConfig{PageSize: 10},
	}
}

// Path returns the config file path. PGACCESS_CONFIG wins over the XDG
// config directory.
func Path() string {
	if p := os.Getenv(EnvConfig); p != "" {
		return p
	}
	xdg.Reload()
	return filepath.Join(xdg.ConfigHome, "pgaccess", "config.toml")
}

// Load reads the config file at Path. A missing file yields defaults.
func Load() (*Config, error) {
	return LoadFrom(Path())
}

// LoadFrom reads the config file at path, applies defaults for missing
// values and then environment overrides.
func LoadFrom(path string) (*Config, error) {
	cfg := DefaultConfig()

	if _, err := os.Stat(path); err == nil {
		if _, err := toml.DecodeFile(path, cfg); err != nil {
			return nil, fmt.Errorf("invalid config %s: %w", path, err)
		}
	}

	defaults := DefaultConfig()
	if cfg.Backend.Kind == "" {
		cfg.Backend.Kind = defaults.Backend.Kind
	}
	if cfg.View.PageSize == 0 {
		cfg.View.PageSize = defaults.View.PageSize
	}

	if v := os.Getenv(EnvBackend); v != "" {
		cfg.Backend.Kind = v
	}
	if v := os.Getenv(EnvDatabaseURL); v != "" {
		cfg.Backend.URL = v
		if os.Getenv(EnvBackend) == "" {
			cfg.Backend.Kind = BackendPostgres
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks enumerations and ranges.
func (c *Config) Validate() error {
	if !slices.Contains(BackendKinds, c.Backend.Kind) {
		return fmt.Errorf("backend.kind %q: must be one of %v", c.Backend.Kind, BackendKinds)
	}
	if f := findField("view.page_size"); f != nil {
		if c.View.PageSize < f.Min || c.View.PageSize > f.Max {
			return fmt.Errorf("view.page_size %d: must be between %d and %d", c.View.PageSize, f.Min, f.Max)
		}
	}
	return nil
}

// Save writes the config file to Path
func (c *Config) Save() error {
	return c.SaveTo(Path())
}

// SaveTo writes the config file to path
func (c *Config) SaveTo(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	return toml.NewEncoder(f).Encode(c)
}

// GetValue returns a config value by key (uses reflection)
func (c *Config) GetValue(key string) (string, bool) {
	return getFieldValue(c, key)
}

// SetValue sets a config value by key (uses reflection with validation)
func (c *Config) SetValue(key, value string) error {
	return setFieldValue(c, key, value)
}
