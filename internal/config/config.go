// Package config resolves runtime settings from defaults, TOML files,
// environment variables and command-line flags, in that order.
package config

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
)

const (
	DefaultKey      = "todos"
	DefaultTheme    = "classic"
	DefaultColor    = "auto"
	DefaultLogLevel = "warn"

	projectFileName = "todo.toml"
	userFileName    = "config.toml"
)

// Config holds every tunable. Empty DataDir means the working directory.
type Config struct {
	DataDir  string `toml:"data_dir"`
	Key      string `toml:"key"`
	Theme    string `toml:"theme"`
	Color    string `toml:"color"` // auto | always | never
	LogLevel string `toml:"log_level"`
	LogFile  string `toml:"log_file"`
	Group    bool   `toml:"group"`

	// Files lists the config files that were applied, lowest priority first.
	Files []string `toml:"-"`
}

func setDefaults(cfg *Config) {
	cfg.Key = DefaultKey
	cfg.Theme = DefaultTheme
	cfg.Color = DefaultColor
	cfg.LogLevel = DefaultLogLevel
}

// Load builds the configuration and parses fs against args. Positional
// arguments remain available through fs.Args().
func Load(fs *flag.FlagSet, args []string) (*Config, error) {
	cfg := &Config{}
	setDefaults(cfg)

	if p := findUserConfigFile(); p != "" {
		if err := loadConfigFile(cfg, p); err != nil {
			return nil, fmt.Errorf("loading user config file %s: %w", p, err)
		}
	}
	if p := findProjectConfigFile(); p != "" {
		if err := loadConfigFile(cfg, p); err != nil {
			return nil, fmt.Errorf("loading project config file %s: %w", p, err)
		}
	}

	if err := loadFromEnv(cfg); err != nil {
		return nil, err
	}

	if err := parseFlags(cfg, fs, args); err != nil {
		return nil, fmt.Errorf("parsing flags: %w", err)
	}

	if err := finalizeConfig(cfg); err != nil {
		return nil, fmt.Errorf("finalizing config: %w", err)
	}
	return cfg, nil
}

func loadConfigFile(cfg *Config, path string) error {
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return err
	}
	cfg.Files = append(cfg.Files, path)
	return nil
}

func findProjectConfigFile() string {
	for _, name := range []string{projectFileName, "." + projectFileName} {
		if _, err := os.Stat(name); err == nil {
			return name
		}
	}
	return ""
}

func findUserConfigFile() string {
	dir, err := os.UserConfigDir()
	if err != nil || dir == "" {
		return ""
	}
	p := filepath.Join(dir, "todo", userFileName)
	if _, err := os.Stat(p); err == nil {
		return p
	}
	return ""
}

func loadFromEnv(cfg *Config) error {
	if v := os.Getenv("TODO_DATA_DIR"); v != "" {
		cfg.DataDir = v
	}
	if v := os.Getenv("TODO_KEY"); v != "" {
		cfg.Key = v
	}
	if v := os.Getenv("TODO_THEME"); v != "" {
		cfg.Theme = v
	}
	if v := os.Getenv("TODO_COLOR"); v != "" {
		cfg.Color = v
	}
	if v := os.Getenv("TODO_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv("TODO_LOG_FILE"); v != "" {
		cfg.LogFile = v
	}
	if v := os.Getenv("TODO_GROUP"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("TODO_GROUP: %w", err)
		}
		cfg.Group = b
	}
	return nil
}

// parseFlags registers the root flags on fs; flags default to the values
// resolved so far so that unset flags leave them alone.
func parseFlags(cfg *Config, fs *flag.FlagSet, args []string) error {
	if fs == nil {
		return nil
	}
	fs.StringVar(&cfg.DataDir, "data", cfg.DataDir, "directory holding the todo list")
	fs.StringVar(&cfg.Key, "key", cfg.Key, "storage key (file name without .json)")
	fs.StringVar(&cfg.Theme, "theme", cfg.Theme, "theme: classic, neon or mono")
	fs.StringVar(&cfg.Color, "color", cfg.Color, "color output: auto, always or never")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "log level: debug, info, warn, error")
	fs.StringVar(&cfg.LogFile, "log-file", cfg.LogFile, "write logs to this file")
	fs.BoolVar(&cfg.Group, "group", cfg.Group, "group output by pending/done")
	return fs.Parse(args)
}

func finalizeConfig(cfg *Config) error {
	cfg.DataDir = expandPath(cfg.DataDir)
	cfg.LogFile = expandPath(cfg.LogFile)
	if strings.TrimSpace(cfg.Key) == "" {
		cfg.Key = DefaultKey
	}
	switch strings.ToLower(cfg.Color) {
	case "auto", "always", "never":
		cfg.Color = strings.ToLower(cfg.Color)
	default:
		return fmt.Errorf("color must be auto, always or never, got %q", cfg.Color)
	}
	return nil
}

func expandPath(p string) string {
	if p == "~" || strings.HasPrefix(p, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, strings.TrimPrefix(p, "~"))
		}
	}
	return p
}
