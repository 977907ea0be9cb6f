// Package config loads flowfree's runtime settings: a mapstructure-tagged
// Config tree, defaults registered before any file is read, and viper
// layering a config file and the environment on top of them.
package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config is the complete flowfree configuration.
type Config struct {
	Solve   SolveConfig   `mapstructure:"solve"`
	Logging LoggingConfig `mapstructure:"logging"`
	Serve   ServeConfig   `mapstructure:"serve"`
	Watch   WatchConfig   `mapstructure:"watch"`
}

// SolveConfig controls search behavior.
type SolveConfig struct {
	// Timeout bounds one Solve call; zero means no timeout.
	Timeout time.Duration `mapstructure:"timeout"`
	// Render selects the ASCII or styled renderer for the solved board.
	Render string `mapstructure:"render"`
	// AdvancedPruning enables the bottleneck check on top of the three
	// cheaper admissibility predicates.
	AdvancedPruning bool `mapstructure:"advanced_pruning"`
}

// LoggingConfig controls the logrus root logger.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// ServeConfig controls the live-metrics websocket server.
type ServeConfig struct {
	Addr string `mapstructure:"addr"`
}

// WatchConfig controls the filesystem watch-and-resolve mode.
type WatchConfig struct {
	Debounce time.Duration `mapstructure:"debounce"`
}

// SetDefaults registers every default before a config file or the
// environment is consulted, so a Config is always well-formed even with
// no config file present.
func SetDefaults() {
	viper.SetDefault("solve.timeout", 30*time.Second)
	viper.SetDefault("solve.render", "ascii")
	viper.SetDefault("solve.advanced_pruning", true)
	viper.SetDefault("logging.level", "info")
	viper.SetDefault("logging.format", "text")
	viper.SetDefault("serve.addr", ":8787")
	viper.SetDefault("watch.debounce", 300*time.Millisecond)
}

// ConfigDir returns the directory flowfree looks for a config file in
// when none is given explicitly, following the XDG convention.
func ConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "flowfree")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".config/flowfree"
	}
	return filepath.Join(home, ".config", "flowfree")
}

// Load merges defaults, an optional config file and the FLOWFREE_*
// environment into a Config. cfgFile may be empty, in which case the
// default search path is used.
func Load(cfgFile string) (*Config, error) {
	SetDefaults()

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(ConfigDir())
		viper.AddConfigPath(".")
	}

	viper.AutomaticEnv()
	viper.SetEnvPrefix("FLOWFREE")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
