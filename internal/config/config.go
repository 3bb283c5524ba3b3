package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/spf13/viper"

	"github.com/jeanpaul/launchpad/internal/executor"
	"github.com/jeanpaul/launchpad/internal/launcher"
	"github.com/jeanpaul/launchpad/internal/logging"
)

const (
	appName   = "launchpad"
	envPrefix = "LAUNCHPAD"

	ExecutorCommand = "command"
	ExecutorDryRun  = "dry-run"
)

type Config struct {
	DataDir       string         `yaml:"data_dir" mapstructure:"data_dir"`
	AgentsDir     string         `yaml:"agents_dir" mapstructure:"agents_dir"`
	DefaultView   string         `yaml:"default_view" mapstructure:"default_view"`
	SortBy        string         `yaml:"sort_by" mapstructure:"sort_by"`
	SortAscending bool           `yaml:"sort_ascending" mapstructure:"sort_ascending"`
	FavoritesOnly bool           `yaml:"favorites_only" mapstructure:"favorites_only"`
	SessionType   string         `yaml:"session_type" mapstructure:"session_type"`
	WatchCatalog  bool           `yaml:"watch_catalog" mapstructure:"watch_catalog"`
	Log           LogConfig      `yaml:"log" mapstructure:"log"`
	Executor      ExecutorConfig `yaml:"executor" mapstructure:"executor"`

	// Source is the config file that was read, empty when running on defaults.
	Source string `yaml:"-" mapstructure:"-"`
}

type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	File   string `yaml:"file" mapstructure:"file"`
	Format string `yaml:"format" mapstructure:"format"`
}

type ExecutorConfig struct {
	Mode     string `yaml:"mode" mapstructure:"mode"`
	ShellEnv bool   `yaml:"shell_env" mapstructure:"shell_env"`
}

var envVarRe = regexp.MustCompile(`\$\{?([A-Za-z_][A-Za-z0-9_]*)\}?`)

// expandPath resolves a leading ~ and $VAR references. Unset variables are
// left as written.
func expandPath(s string) string {
	if s == "~" || strings.HasPrefix(s, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			s = filepath.Join(home, strings.TrimPrefix(s, "~"))
		}
	}
	return envVarRe.ReplaceAllStringFunc(s, func(match string) string {
		name := strings.Trim(match, "${}")
		if val, ok := os.LookupEnv(name); ok {
			return val
		}
		return match
	})
}

func configDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, appName)
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", appName)
}

func dataDir() string {
	if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
		return filepath.Join(xdg, appName)
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".local", "share", appName)
}

func DefaultConfig() *Config {
	return &Config{
		DataDir:      dataDir(),
		AgentsDir:    filepath.Join(configDir(), "agents"),
		DefaultView:  launcher.ViewGrid.String(),
		SortBy:       launcher.SortByCatalog.String(),
		SessionType:  string(executor.SessionInteractive),
		WatchCatalog: true,
		Log: LogConfig{
			Level:  "info",
			Format: logging.FormatSimple,
		},
		Executor: ExecutorConfig{
			Mode:     ExecutorCommand,
			ShellEnv: true,
		},
	}
}

// Load reads configuration from path, or from config.yaml in the usual
// search paths when path is empty. A missing config file means defaults.
// LAUNCHPAD_* environment variables override file values.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()
	v := viper.New()
	setDefaults(v, cfg)

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath(configDir())
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("config: %w", err)
		}
	}

	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	cfg.Source = v.ConfigFileUsed()

	cfg.DataDir = expandPath(cfg.DataDir)
	cfg.AgentsDir = expandPath(cfg.AgentsDir)
	cfg.Log.File = expandPath(cfg.Log.File)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// setDefaults registers every key so AutomaticEnv can override keys that
// are absent from the config file.
func setDefaults(v *viper.Viper, cfg *Config) {
	v.SetDefault("data_dir", cfg.DataDir)
	v.SetDefault("agents_dir", cfg.AgentsDir)
	v.SetDefault("default_view", cfg.DefaultView)
	v.SetDefault("sort_by", cfg.SortBy)
	v.SetDefault("sort_ascending", cfg.SortAscending)
	v.SetDefault("favorites_only", cfg.FavoritesOnly)
	v.SetDefault("session_type", cfg.SessionType)
	v.SetDefault("watch_catalog", cfg.WatchCatalog)
	v.SetDefault("log.level", cfg.Log.Level)
	v.SetDefault("log.file", cfg.Log.File)
	v.SetDefault("log.format", cfg.Log.Format)
	v.SetDefault("executor.mode", cfg.Executor.Mode)
	v.SetDefault("executor.shell_env", cfg.Executor.ShellEnv)
}

// LogFile is the configured log file, defaulting to launchpad.log in the
// data directory.
func (c *Config) LogFile() string {
	if c.Log.File != "" {
		return c.Log.File
	}
	return filepath.Join(c.DataDir, appName+".log")
}

// Query is the initial filter/sort query described by the config.
func (c *Config) Query() launcher.Query {
	sortBy, _ := launcher.ParseSortField(c.SortBy)
	return launcher.Query{
		SortBy:        sortBy,
		Ascending:     c.SortAscending,
		FavoritesOnly: c.FavoritesOnly,
	}
}

// View is the configured initial view.
func (c *Config) View() launcher.View {
	v, _ := launcher.ParseView(c.DefaultView)
	return v
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if c.DataDir == "" {
		return fmt.Errorf("config: data_dir is required")
	}
	if c.AgentsDir == "" {
		return fmt.Errorf("config: agents_dir is required")
	}
	if _, ok := launcher.ParseView(c.DefaultView); !ok {
		return fmt.Errorf("config: default_view %q is invalid (must be grid, list, table, or compact)", c.DefaultView)
	}
	if _, err := launcher.ParseSortField(c.SortBy); err != nil {
		return fmt.Errorf("config: sort_by: %w", err)
	}
	if _, err := executor.ParseSessionType(c.SessionType); err != nil {
		return fmt.Errorf("config: session_type: %w", err)
	}
	if _, err := logging.ParseLevel(c.Log.Level); err != nil {
		return fmt.Errorf("config: log.level: %w", err)
	}
	switch strings.ToLower(c.Log.Format) {
	case "", logging.FormatSimple, logging.FormatText, logging.FormatJSON:
	default:
		return fmt.Errorf("config: log.format %q is invalid (must be simple, text, or json)", c.Log.Format)
	}
	switch c.Executor.Mode {
	case ExecutorCommand, ExecutorDryRun:
	case "":
		c.Executor.Mode = ExecutorCommand
	default:
		return fmt.Errorf("config: executor.mode %q is invalid (must be command or dry-run)", c.Executor.Mode)
	}
	return nil
}
