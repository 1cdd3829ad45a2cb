// Package config loads application settings from a YAML config file
// and RDM_* environment variables through viper.
package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Config holds the runtime settings of the application.
type Config struct {
	// DBPath is the SQLite database location. Empty means the default
	// under the XDG data directory.
	DBPath string `mapstructure:"db_path"`

	// StatePath is where the collapsed-group state lives. Empty means
	// the default under the XDG state directory.
	StatePath string `mapstructure:"state_path"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `mapstructure:"log_level"`

	// DefaultGroupBy is the grouping the board starts with:
	// none, tag, status or priority.
	DefaultGroupBy string `mapstructure:"default_group_by"`
}

// Load reads configuration with the usual precedence: explicit config
// file path, then RDM_* environment variables, then the config file
// under the XDG config dir, then defaults. A missing config file is
// not an error.
func Load(configFile string) (Config, error) {
	v := viper.New()

	v.SetDefault("db_path", "")
	v.SetDefault("state_path", "")
	v.SetDefault("log_level", "warn")
	v.SetDefault("default_group_by", "none")

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(configDir())
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix("RDM")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		// A config file that was asked for explicitly must load; an
		// absent default one is fine.
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return Config{}, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// configDir returns the XDG config directory for rdm
func configDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "rdm")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return filepath.Join(home, ".config", "rdm")
}

// DefaultStatePath returns where the collapse state file lives when
// not overridden: the XDG state directory.
func DefaultStatePath() string {
	if xdg := os.Getenv("XDG_STATE_HOME"); xdg != "" {
		return filepath.Join(xdg, "rdm", "collapsed.json")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), "rdm", "collapsed.json")
	}
	return filepath.Join(home, ".local", "state", "rdm", "collapsed.json")
}
