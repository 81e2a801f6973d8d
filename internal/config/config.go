package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/rshade/resinhook/internal/engine/batch"
	"github.com/rshade/resinhook/internal/engine/cache"
	"github.com/rshade/resinhook/internal/engine/header"
)

// Environment overrides.
const (
	EnvHome       = "RESINHOOK_HOME"
	EnvChunkSize  = "RESINHOOK_CHUNK_SIZE"
	EnvLogLevel   = "RESINHOOK_LOG_LEVEL"
	EnvServerAddr = "RESINHOOK_SERVER_ADDR"
)

// FileName is the config file inside the config directory.
const FileName = "config.yaml"

// Defaults.
const (
	DefaultViewportHeight  = 20
	DefaultItemHeight      = 1
	DefaultOverscan        = 5
	DefaultServerAddr      = "127.0.0.1:3001"
	DefaultShutdownTimeout = 5 * time.Second
	DefaultReadTimeout     = 30 * time.Second
)

// ErrInvalidConfig is wrapped by every Validate failure.
var ErrInvalidConfig = errors.New("invalid configuration")

// Config is the resinhook configuration.
type Config struct {
	Export  ExportConfig  `yaml:"export"`
	Window  WindowConfig  `yaml:"window"`
	Server  ServerConfig  `yaml:"server"`
	Logging LoggingConfig `yaml:"logging"`
	Cache   CacheConfig   `yaml:"cache"`
	Store   StoreConfig   `yaml:"store"`

	path string
}

// ExportConfig holds defaults for export jobs.
type ExportConfig struct {
	ChunkSize  int               `yaml:"chunk_size"`
	OutDir     string            `yaml:"out_dir"`
	Filename   string            `yaml:"filename"`
	SheetName  string            `yaml:"sheet_name"`
	Columns    []string          `yaml:"columns,omitempty"`
	HeadersMap map[string]string `yaml:"headers_map,omitempty"`
	Headers    []header.Node     `yaml:"headers,omitempty"`
}

// WindowConfig tunes the virtual list used by browse. Heights are in
// terminal lines.
type WindowConfig struct {
	ViewportHeight int `yaml:"viewport_height"`
	ItemHeight     int `yaml:"item_height"`
	Overscan       int `yaml:"overscan"`
}

// ServerConfig configures the mock API.
type ServerConfig struct {
	Addr            string        `yaml:"addr"`
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

// LoggingConfig mirrors logging.Config in YAML.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	File   string `yaml:"file,omitempty"`
	Caller bool   `yaml:"caller,omitempty"`
}

// CacheConfig controls the remote source cache.
type CacheConfig struct {
	Enabled bool          `yaml:"enabled"`
	Dir     string        `yaml:"dir,omitempty"`
	TTL     time.Duration `yaml:"ttl"`
}

// StoreConfig controls the export job history.
type StoreConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path,omitempty"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Export: ExportConfig{
			ChunkSize: batch.DefaultBatchSize,
			OutDir:    ".",
		},
		Window: WindowConfig{
			ViewportHeight: DefaultViewportHeight,
			ItemHeight:     DefaultItemHeight,
			Overscan:       DefaultOverscan,
		},
		Server: ServerConfig{
			Addr:            DefaultServerAddr,
			ReadTimeout:     DefaultReadTimeout,
			ShutdownTimeout: DefaultShutdownTimeout,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
		Cache: CacheConfig{
			Enabled: true,
			TTL:     cache.DefaultTTL,
		},
		Store: StoreConfig{
			Enabled: true,
		},
	}
}

// New returns the defaults overlaid with the user config file and the
// environment. A missing or unreadable config file leaves the defaults.
func New() *Config {
	cfg := Default()
	if dir, err := GetConfigDir(); err == nil {
		path := filepath.Join(dir, FileName)
		if _, statErr := os.Stat(path); statErr == nil {
			if loadErr := cfg.decodeFile(path); loadErr != nil {
				cfg = Default()
			}
		}
	}
	cfg.ApplyEnv()
	return cfg
}

// Load reads path on top of the defaults and applies the environment. Fields
// the file omits keep their defaults. Unlike New, a broken file is an error.
func Load(path string) (*Config, error) {
	cfg := Default()
	if err := cfg.decodeFile(path); err != nil {
		return nil, err
	}
	cfg.ApplyEnv()
	return cfg, nil
}

func (c *Config) decodeFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading config %s: %w", path, err)
	}
	if err = yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parsing config %s: %w", path, err)
	}
	c.path = path
	return nil
}

// Path returns the file the config was loaded from, if any.
func (c *Config) Path() string {
	return c.path
}

// ApplyEnv applies environment overrides. Unparseable values are skipped.
func (c *Config) ApplyEnv() {
	if v := os.Getenv(EnvChunkSize); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Export.ChunkSize = n
		}
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		c.Logging.Level = v
	}
	if v := os.Getenv(EnvServerAddr); v != "" {
		c.Server.Addr = v
	}
	c.Cache.TTL = cache.TTLFromEnv(c.Cache.TTL)
	if cache.DisabledByEnv() {
		c.Cache.Enabled = false
	}
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	if n := c.Export.ChunkSize; n < batch.MinBatchSize {
		return fmt.Errorf("%w: export.chunk_size %d below %d", ErrInvalidConfig, n, batch.MinBatchSize)
	}
	if len(c.Export.Headers) > 0 {
		if err := header.Validate(c.Export.Headers); err != nil {
			return fmt.Errorf("%w: export.headers: %w", ErrInvalidConfig, err)
		}
	}
	if c.Window.ItemHeight <= 0 {
		return fmt.Errorf("%w: window.item_height must be positive", ErrInvalidConfig)
	}
	if c.Window.ViewportHeight <= 0 {
		return fmt.Errorf("%w: window.viewport_height must be positive", ErrInvalidConfig)
	}
	if c.Window.Overscan < 0 {
		return fmt.Errorf("%w: window.overscan must not be negative", ErrInvalidConfig)
	}
	if c.Server.Addr == "" {
		return fmt.Errorf("%w: server.addr is empty", ErrInvalidConfig)
	}
	if c.Cache.Enabled && (c.Cache.TTL < cache.MinTTL || c.Cache.TTL > cache.MaxTTL) {
		return fmt.Errorf("%w: cache.ttl %s: %w", ErrInvalidConfig, c.Cache.TTL, cache.ErrInvalidTTL)
	}
	switch c.Logging.Format {
	case "", "json", "console", "text":
	default:
		return fmt.Errorf("%w: logging.format %q", ErrInvalidConfig, c.Logging.Format)
	}
	return nil
}

// Save writes c as YAML to path, creating parent directories.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	if err = os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("writing config %s: %w", path, err)
	}
	c.path = path
	return nil
}

// CacheDir returns the configured cache directory or <config dir>/cache.
func (c *Config) CacheDir() (string, error) {
	if c.Cache.Dir != "" {
		return c.Cache.Dir, nil
	}
	dir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "cache"), nil
}

// StorePath returns the configured job database or <config dir>/jobs.db.
func (c *Config) StorePath() (string, error) {
	if c.Store.Path != "" {
		return c.Store.Path, nil
	}
	dir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "jobs.db"), nil
}
