package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/Veraticus/finansowy-tracker/internal/common"
)

// Storage backend names.
const (
	BackendSQLite = "sqlite"
	BackendFile   = "file"
	BackendMemory = "memory"
)

// EnvPrefix prefixes environment overrides, e.g. FINANCE_STORAGE_BACKEND.
const EnvPrefix = "FINANCE"

// Config is the resolved application configuration.
type Config struct {
	Storage StorageConfig `mapstructure:"storage"`
	Logging LoggingConfig `mapstructure:"logging"`
	Display DisplayConfig `mapstructure:"display"`
	Budget  BudgetConfig  `mapstructure:"budget"`
}

// StorageConfig selects the key-value backend.
type StorageConfig struct {
	Backend string `mapstructure:"backend"`
	Path    string `mapstructure:"path"`
}

// LoggingConfig configures the default slog logger.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// DisplayConfig controls how dates are rendered.
type DisplayConfig struct {
	DateLayout string `mapstructure:"date_layout"`
}

// BudgetConfig lists the reminder thresholds in percent of the limit.
type BudgetConfig struct {
	Thresholds []int `mapstructure:"thresholds"`
}

// SetDefaults registers the default value of every key.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("storage.backend", BackendSQLite)
	v.SetDefault("storage.path", "")
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
	v.SetDefault("display.date_layout", "02.01.2006")
	v.SetDefault("budget.thresholds", []int{50, 75, 90, 100})
}

// LoadDotEnv loads variables from the given .env files into the process
// environment. Missing files are skipped; variables already set win.
func LoadDotEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, path := range paths {
		if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err := godotenv.Load(path); err != nil {
			return fmt.Errorf("failed to load %s: %w", path, err)
		}
	}
	return nil
}

// Init points v at the config file and the environment. An explicit cfgFile
// must exist; otherwise $HOME/.config/finance/config.yaml and ./config.yaml
// are tried and may be absent.
func Init(v *viper.Viper, cfgFile string) error {
	SetDefaults(v)

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".config", "finance"))
		}
		v.AddConfigPath(".")
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("failed to read config: %w", err)
		}
	}
	return nil
}

// Load decodes and validates the configuration held by v.
func Load(v *viper.Viper) (Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("failed to decode config: %w", err)
	}

	cfg.Storage.Backend = strings.ToLower(strings.TrimSpace(cfg.Storage.Backend))
	if !slices.Contains([]string{BackendSQLite, BackendFile, BackendMemory}, cfg.Storage.Backend) {
		return Config{}, common.NewValidationError("storage.backend",
			fmt.Sprintf("unknown backend %q (want sqlite, file or memory)", cfg.Storage.Backend))
	}
	if cfg.Storage.Path == "" {
		cfg.Storage.Path = DefaultStoragePath(cfg.Storage.Backend)
	} else {
		cfg.Storage.Path = ExpandPath(cfg.Storage.Path)
	}

	for _, threshold := range cfg.Budget.Thresholds {
		if threshold <= 0 {
			return Config{}, common.NewValidationError("budget.thresholds", "thresholds must be positive")
		}
	}
	if cfg.Display.DateLayout == "" {
		cfg.Display.DateLayout = "02.01.2006"
	}
	return cfg, nil
}
