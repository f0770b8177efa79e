package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/rileyhilliard/gapview/internal/errors"
	"github.com/spf13/viper"
)

const (
	// ConfigFileName is the default config file name.
	ConfigFileName = ".gapview.yaml"
	// GlobalConfigDir is the directory for global config.
	GlobalConfigDir = ".config/gapview"
	// GlobalConfigFile is the global config file name.
	GlobalConfigFile = "config.yaml"
	// EnvPrefix prefixes environment overrides, e.g. GAPVIEW_SOURCE_URL.
	EnvPrefix = "GAPVIEW"
)

// Load reads config from the specified path.
func Load(path string) (*Config, error) {
	v := newViper()
	v.SetConfigFile(path)

	if err := v.ReadInConfig(); err != nil {
		if os.IsNotExist(err) {
			return nil, errors.WrapWithCode(err, errors.ErrConfig,
				"Config file not found",
				"Run 'gapview init' to create a config file, or specify one with --config")
		}
		return nil, errors.WrapWithCode(err, errors.ErrConfig,
			"Failed to read config file",
			"Check the file exists and is valid YAML")
	}

	return parseConfig(v, path)
}

// Find locates the config file using the search order:
// 1. Explicit path (from --config flag)
// 2. .gapview.yaml in current directory
// 3. .gapview.yaml in parent directories (stops at git root or home)
// 4. ~/.config/gapview/config.yaml (global defaults)
//
// Returns the path to the config file, or empty string if not found.
func Find(explicit string) (string, error) {
	if explicit != "" {
		if _, err := os.Stat(explicit); err != nil {
			if os.IsNotExist(err) {
				return "", errors.WrapWithCode(err, errors.ErrConfig,
					"Specified config file not found: "+explicit,
					"Check the path is correct")
			}
			return "", errors.WrapWithCode(err, errors.ErrConfig,
				"Cannot access config file: "+explicit,
				"Check file permissions")
		}
		return explicit, nil
	}

	cwd, err := os.Getwd()
	if err != nil {
		return "", errors.WrapWithCode(err, errors.ErrConfig,
			"Cannot determine current directory",
			"Check directory permissions")
	}

	if path := findUpwards(cwd); path != "" {
		return path, nil
	}

	home, _ := os.UserHomeDir()
	if home != "" {
		globalConfig := filepath.Join(home, GlobalConfigDir, GlobalConfigFile)
		if _, err := os.Stat(globalConfig); err == nil {
			return globalConfig, nil
		}
	}

	return "", nil
}

// findUpwards checks dir and its parents for ConfigFileName, stopping at
// a git root or the home directory.
func findUpwards(dir string) string {
	home, _ := os.UserHomeDir()
	for {
		configPath := filepath.Join(dir, ConfigFileName)
		if _, err := os.Stat(configPath); err == nil {
			return configPath
		}
		if isGitRoot(dir) {
			return ""
		}
		parent := filepath.Dir(dir)
		if parent == dir || (home != "" && parent == home) {
			return ""
		}
		dir = parent
	}
}

// LoadOrDefault loads config from the found path, or returns defaults if not found.
// Environment overrides apply in both cases.
func LoadOrDefault(explicit string) (*Config, string, error) {
	path, err := Find(explicit)
	if err != nil {
		return nil, "", err
	}

	if path == "" {
		cfg, err := parseConfig(newViper(), "")
		return cfg, "", err
	}

	cfg, err := Load(path)
	return cfg, path, err
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v)
	return v
}

// parseConfig converts viper config to our Config struct with defaults merged in.
func parseConfig(v *viper.Viper, path string) (*Config, error) {
	cfg := DefaultConfig()

	// mapstructure decodes into an existing slice element by element, so a
	// shorter list in the file would keep trailing defaults.
	durations := cfg.Chart.Durations
	cfg.Chart.Durations = nil

	if err := v.Unmarshal(cfg); err != nil {
		where := "your config"
		if path != "" {
			where = path
		}
		return nil, errors.WrapWithCode(err, errors.ErrConfig,
			"Invalid config format",
			"Check the YAML syntax in "+where)
	}

	if len(cfg.Chart.Durations) == 0 {
		cfg.Chart.Durations = durations
	}

	cfg.Source.Path = ExpandTilde(Expand(cfg.Source.Path))
	if cfg.Source.Path != "" && path != "" && !filepath.IsAbs(cfg.Source.Path) {
		cfg.Source.Path = filepath.Join(configDir(path), cfg.Source.Path)
	}
	cfg.Source.Command = ExpandRemote(cfg.Source.Command)

	return cfg, nil
}

// setDefaults registers every scalar key so environment overrides are
// picked up by Unmarshal even when the file leaves the key out.
func setDefaults(v *viper.Viper) {
	d := DefaultConfig()
	v.SetDefault("version", d.Version)
	v.SetDefault("source.kind", d.Source.Kind)
	v.SetDefault("source.path", "")
	v.SetDefault("source.url", "")
	v.SetDefault("source.host", "")
	v.SetDefault("source.command", "")
	v.SetDefault("source.encoding", d.Source.Encoding)
	v.SetDefault("source.timeout", d.Source.Timeout.String())
	v.SetDefault("source.watch", false)
	v.SetDefault("source.refresh", "0s")
	v.SetDefault("chart.gap_threshold_minutes", d.Chart.GapThresholdMinutes)
	v.SetDefault("chart.gap_budget_units", d.Chart.GapBudgetUnits)
	v.SetDefault("chart.default_duration", d.Chart.DefaultDuration.String())
	v.SetDefault("chart.scroll_throttle", d.Chart.ScrollThrottle.String())
	v.SetDefault("chart.resize_debounce", d.Chart.ResizeDebounce.String())
	v.SetDefault("format.value", d.Format.Value)
	v.SetDefault("format.y_axis", d.Format.YAxis)
	v.SetDefault("format.date_long", d.Format.DateLong)
	v.SetDefault("format.date_short", d.Format.DateShort)
	v.SetDefault("format.date_tick", d.Format.DateTick)
	v.SetDefault("output.color", d.Output.Color)
}

// configDir returns the directory containing the config file.
func configDir(configPath string) string {
	if configPath == "" {
		cwd, _ := os.Getwd()
		return cwd
	}
	return filepath.Dir(configPath)
}

// isGitRoot checks if a directory is a git repository root.
func isGitRoot(dir string) bool {
	info, err := os.Stat(filepath.Join(dir, ".git"))
	if err != nil {
		return false
	}
	return info.IsDir()
}
