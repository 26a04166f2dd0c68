package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"

	"hnstories/internal/eventbus"
	"hnstories/internal/kvstore"
	"hnstories/internal/remote"
)

// Config represents the application configuration
type Config struct {
	Version int            `toml:"version"`
	Fetch   FetchSettings  `toml:"fetch"`
	Search  SearchSettings `toml:"search"`
	Store   StoreSettings  `toml:"store"`
	Log     LogSettings    `toml:"log"`
}

// FetchSettings configures the story service client
type FetchSettings struct {
	Endpoint      string   `toml:"endpoint"` // query prefix, the search term is appended
	Timeout       Duration `toml:"timeout"`
	RatePerSecond float64  `toml:"rate_per_second"`
	UserAgent     string   `toml:"user_agent"`
}

// SearchSettings configures the persisted search term
type SearchSettings struct {
	DefaultTerm string `toml:"default_term"`
	Key         string `toml:"key"`
}

// StoreSettings selects the key-value backend for persisted values
type StoreSettings struct {
	Backend       string `toml:"backend"` // memory, file or redis
	Path          string `toml:"path"`
	RedisAddr     string `toml:"redis_addr"`
	RedisPassword string `toml:"redis_password"`
	RedisDB       int    `toml:"redis_db"`
	RedisPrefix   string `toml:"redis_prefix"`
}

// LogSettings configures the log file
type LogSettings struct {
	File  string `toml:"file"`
	Level string `toml:"level"`
}

// Duration is a time.Duration written as a string such as "10s"
type Duration struct {
	time.Duration
}

// MarshalText implements encoding.TextMarshaler
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", string(text), err)
	}
	d.Duration = v
	return nil
}

// StoreOptions converts the store settings for kvstore.Open
func (c *Config) StoreOptions() kvstore.Options {
	return kvstore.Options{
		Backend:       c.Store.Backend,
		Path:          c.Store.Path,
		RedisAddr:     c.Store.RedisAddr,
		RedisPassword: c.Store.RedisPassword,
		RedisDB:       c.Store.RedisDB,
		RedisPrefix:   c.Store.RedisPrefix,
	}
}

// ClientOptions converts the fetch settings for remote.NewClient
func (c *Config) ClientOptions() remote.Options {
	return remote.Options{
		Timeout:       c.Fetch.Timeout.Duration,
		UserAgent:     c.Fetch.UserAgent,
		RatePerSecond: c.Fetch.RatePerSecond,
	}
}

// Validate reports settings that cannot work
func (c *Config) Validate() error {
	var errs []error
	if c.Fetch.Endpoint == "" {
		errs = append(errs, errors.New("fetch.endpoint must not be empty"))
	}
	if c.Fetch.Timeout.Duration < 0 {
		errs = append(errs, errors.New("fetch.timeout must not be negative"))
	}
	if c.Fetch.RatePerSecond < 0 {
		errs = append(errs, errors.New("fetch.rate_per_second must not be negative"))
	}
	if c.Search.Key == "" {
		errs = append(errs, errors.New("search.key must not be empty"))
	}
	switch c.Store.Backend {
	case kvstore.BackendMemory, kvstore.BackendFile:
	case kvstore.BackendRedis:
		if c.Store.RedisAddr == "" {
			errs = append(errs, errors.New("store.redis_addr is required for the redis backend"))
		}
	default:
		errs = append(errs, fmt.Errorf("unknown store.backend %q", c.Store.Backend))
	}
	return errors.Join(errs...)
}

// ConfigService handles configuration management
type ConfigService interface {
	Load() (*Config, error)
	LoadOrCreate() (*Config, bool, error)
	Save(config *Config) error
	LoadFromPath(path string) (*Config, error)
	SaveToPath(config *Config, path string) error
	Path() string
}

// configService is the concrete implementation
type configService struct {
	bus      eventbus.EventBus
	filePath string
}

// DefaultDir returns the hnstories directory under the user config dir
func DefaultDir() string {
	configDir, err := os.UserConfigDir()
	if err != nil {
		// Fallback to home directory
		configDir, err = os.UserHomeDir()
		if err != nil {
			configDir = "."
		}
		configDir = filepath.Join(configDir, ".config")
	}
	return filepath.Join(configDir, "hnstories")
}

// NewConfigService creates a config service for the default location
func NewConfigService() ConfigService {
	return &configService{
		filePath: filepath.Join(DefaultDir(), "config.toml"),
	}
}

// NewConfigServiceForPath creates a config service bound to path
func NewConfigServiceForPath(path string) ConfigService {
	if path == "" {
		return NewConfigService()
	}
	return &configService{filePath: path}
}

// NewConfigServiceWithBus creates a config service with event bus support
func NewConfigServiceWithBus(path string, bus eventbus.EventBus) ConfigService {
	cs := NewConfigServiceForPath(path).(*configService)
	cs.bus = bus
	return cs
}

// Path returns the file the service reads and writes
func (cs *configService) Path() string {
	return cs.filePath
}

// Load loads the configuration from file, falling back to defaults when
// the file does not exist. Environment overrides are applied last.
func (cs *configService) Load() (*Config, error) {
	cfg, err := cs.LoadFromPath(cs.filePath)
	if errors.Is(err, os.ErrNotExist) {
		cfg = DefaultConfig()
	} else if err != nil {
		return nil, err
	}

	ApplyEnv(cfg)

	if cs.bus != nil {
		cs.bus.Publish(eventbus.ConfigLoadedEvent{Path: cs.filePath})
	}

	return cfg, nil
}

// LoadOrCreate writes the default configuration when the file is missing,
// so users have a file to edit, then loads it. created reports the write.
func (cs *configService) LoadOrCreate() (cfg *Config, created bool, err error) {
	if _, statErr := os.Stat(cs.filePath); errors.Is(statErr, os.ErrNotExist) {
		if err := cs.Save(DefaultConfig()); err != nil {
			return nil, false, err
		}
		created = true
	}

	cfg, err = cs.Load()
	if err != nil {
		return nil, false, err
	}
	return cfg, created, nil
}

// Save saves the configuration to file
func (cs *configService) Save(config *Config) error {
	if err := cs.SaveToPath(config, cs.filePath); err != nil {
		return err
	}

	if cs.bus != nil {
		cs.bus.Publish(eventbus.ConfigSavedEvent{Path: cs.filePath})
	}

	return nil
}

// LoadFromPath loads configuration from a specific path. Missing keys keep
// their default values.
func (cs *configService) LoadFromPath(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := DefaultConfig()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	return cfg, nil
}

// SaveToPath saves configuration to a specific path
func (cs *configService) SaveToPath(config *Config, path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := toml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	dir := DefaultDir()
	return &Config{
		Version: 1,
		Fetch: FetchSettings{
			Endpoint:  remote.DefaultEndpoint,
			Timeout:   Duration{remote.DefaultTimeout},
			UserAgent: remote.DefaultUserAgent,
		},
		Search: SearchSettings{
			DefaultTerm: "React",
			Key:         "search",
		},
		Store: StoreSettings{
			Backend:     kvstore.BackendFile,
			Path:        filepath.Join(dir, "state.json"),
			RedisPrefix: "hnstories:",
		},
		Log: LogSettings{
			File:  filepath.Join(dir, "hnstories.log"),
			Level: "info",
		},
	}
}

// LoadDotEnv loads a .env file from the working directory if one exists
func LoadDotEnv() {
	_ = godotenv.Load()
}

// ApplyEnv overrides cfg with HNSTORIES_* environment variables
func ApplyEnv(cfg *Config) {
	setString := func(name string, dst *string) {
		if v, ok := os.LookupEnv(name); ok {
			*dst = strings.TrimSpace(v)
		}
	}

	setString("HNSTORIES_ENDPOINT", &cfg.Fetch.Endpoint)
	setString("HNSTORIES_USER_AGENT", &cfg.Fetch.UserAgent)
	setString("HNSTORIES_DEFAULT_TERM", &cfg.Search.DefaultTerm)
	setString("HNSTORIES_STORE", &cfg.Store.Backend)
	setString("HNSTORIES_STORE_PATH", &cfg.Store.Path)
	setString("HNSTORIES_REDIS_ADDR", &cfg.Store.RedisAddr)
	setString("HNSTORIES_REDIS_PASSWORD", &cfg.Store.RedisPassword)
	setString("HNSTORIES_LOG_FILE", &cfg.Log.File)
	setString("HNSTORIES_LOG_LEVEL", &cfg.Log.Level)

	if v := os.Getenv("HNSTORIES_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.Fetch.Timeout = Duration{d}
		}
	}
	if v := os.Getenv("HNSTORIES_REDIS_DB"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Store.RedisDB = n
		}
	}
}
