package model

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Storage backend names.
const (
	BackendSQLite = "sqlite"
	BackendFile   = "file"
	BackendRedis  = "redis"
)

// Corrupt-state policies applied when the persisted value cannot be parsed.
const (
	OnCorruptReset = "reset"
	OnCorruptFail  = "fail"
)

// DefaultStorageKey is the slot the task collection is stored under.
const DefaultStorageKey = "todo-tasks"

// StorageConfig selects and configures the key-value backend.
type StorageConfig struct {
	// Backend is one of "sqlite", "file" or "redis".
	Backend string `mapstructure:"backend" yaml:"backend"`

	// Key is the storage slot holding the serialized collection.
	Key string `mapstructure:"key" yaml:"key"`

	SQLitePath  string `mapstructure:"sqlite_path" yaml:"sqlite_path"`
	FileDir     string `mapstructure:"file_dir" yaml:"file_dir"`
	RedisAddr   string `mapstructure:"redis_addr" yaml:"redis_addr"`
	RedisDB     int    `mapstructure:"redis_db" yaml:"redis_db"`
	RedisPrefix string `mapstructure:"redis_prefix" yaml:"redis_prefix"`

	// RedisPassword may be left empty; the keyring is consulted then.
	RedisPassword string `mapstructure:"redis_password" yaml:"redis_password"`

	// OnCorrupt is "reset" or "fail".
	OnCorrupt string `mapstructure:"on_corrupt" yaml:"on_corrupt"`
}

// DisplayConfig holds UI preferences.
type DisplayConfig struct {
	DefaultFilter string `mapstructure:"default_filter" yaml:"default_filter"`
}

// LogConfig holds logging preferences.
type LogConfig struct {
	Level string `mapstructure:"level" yaml:"level"`
	File  string `mapstructure:"file" yaml:"file"`
}

// AppConfig is the top-level application configuration.
type AppConfig struct {
	Storage StorageConfig `mapstructure:"storage" yaml:"storage"`
	Display DisplayConfig `mapstructure:"display" yaml:"display"`
	Log     LogConfig     `mapstructure:"log" yaml:"log"`
}

// Validate checks enumerated settings.
func (c *AppConfig) Validate() error {
	switch c.Storage.Backend {
	case BackendSQLite, BackendFile, BackendRedis:
	default:
		return fmt.Errorf("unknown storage backend %q", c.Storage.Backend)
	}
	switch c.Storage.OnCorrupt {
	case OnCorruptReset, OnCorruptFail:
	default:
		return fmt.Errorf("unknown on_corrupt policy %q", c.Storage.OnCorrupt)
	}
	if strings.TrimSpace(c.Storage.Key) == "" {
		return errors.New("storage key must not be empty")
	}
	if _, err := ParseFilterMode(c.Display.DefaultFilter); err != nil {
		return err
	}
	return nil
}

// DefaultConfigPath returns the default path for the configuration file,
// located at ~/.config/todo/config.yaml.
func DefaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", "config.yaml")
	}
	return filepath.Join(home, ".config", "todo", "config.yaml")
}

// DefaultDataDir returns the directory holding local data files.
func DefaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return filepath.Join(home, ".local", "share", "todo")
}

// defaultLogFile is where the terminal UI writes its log.
func defaultLogFile() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "todo.log"
	}
	return filepath.Join(home, ".local", "state", "todo", "todo.log")
}

// DefaultAppConfig returns a sensible default configuration.
func DefaultAppConfig() *AppConfig {
	dataDir := DefaultDataDir()
	return &AppConfig{
		Storage: StorageConfig{
			Backend:     BackendSQLite,
			Key:         DefaultStorageKey,
			SQLitePath:  filepath.Join(dataDir, "todo.db"),
			FileDir:     filepath.Join(dataDir, "kv"),
			RedisAddr:   "localhost:6379",
			RedisPrefix: "todo:",
			OnCorrupt:   OnCorruptReset,
		},
		Display: DisplayConfig{
			DefaultFilter: string(FilterAll),
		},
		Log: LogConfig{
			Level: "info",
			File:  defaultLogFile(),
		},
	}
}

// setDefaults registers every key so missing values and TODO_* environment
// overrides both resolve.
func setDefaults(v *viper.Viper, d *AppConfig) {
	v.SetDefault("storage.backend", d.Storage.Backend)
	v.SetDefault("storage.key", d.Storage.Key)
	v.SetDefault("storage.sqlite_path", d.Storage.SQLitePath)
	v.SetDefault("storage.file_dir", d.Storage.FileDir)
	v.SetDefault("storage.redis_addr", d.Storage.RedisAddr)
	v.SetDefault("storage.redis_db", d.Storage.RedisDB)
	v.SetDefault("storage.redis_prefix", d.Storage.RedisPrefix)
	v.SetDefault("storage.redis_password", "")
	v.SetDefault("storage.on_corrupt", d.Storage.OnCorrupt)
	v.SetDefault("display.default_filter", d.Display.DefaultFilter)
	v.SetDefault("log.level", d.Log.Level)
	v.SetDefault("log.file", d.Log.File)
}

// LoadConfig reads configuration from the given YAML file path using Viper.
// If the file does not exist, defaults (plus environment overrides) are used.
func LoadConfig(path string) (*AppConfig, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.SetEnvPrefix("TODO")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v, DefaultAppConfig())

	if err := v.ReadInConfig(); err != nil {
		var pathErr *os.PathError
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &pathErr) && !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
	}

	cfg := &AppConfig{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
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

	v.Set("storage", map[string]any{
		"backend":      cfg.Storage.Backend,
		"key":          cfg.Storage.Key,
		"sqlite_path":  cfg.Storage.SQLitePath,
		"file_dir":     cfg.Storage.FileDir,
		"redis_addr":   cfg.Storage.RedisAddr,
		"redis_db":     cfg.Storage.RedisDB,
		"redis_prefix": cfg.Storage.RedisPrefix,
		"on_corrupt":   cfg.Storage.OnCorrupt,
	})
	v.Set("display", map[string]any{
		"default_filter": cfg.Display.DefaultFilter,
	})
	v.Set("log", map[string]any{
		"level": cfg.Log.Level,
		"file":  cfg.Log.File,
	})

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}

	return nil
}
