// Package config loads richexif settings from defaults, an optional YAML
// file, RICHEXIF_* environment variables and command-line flags.
package config

import (
	"os"
	"time"

	"github.com/bethropolis/richexif/internal/display"
	"github.com/bethropolis/richexif/internal/exiftool"
	"github.com/mattn/go-isatty"
)

// EnvPrefix is prepended to every environment variable name.
const EnvPrefix = "RICHEXIF_"

// Config holds all application configuration settings
type Config struct {
	// Input settings
	FilePath string `yaml:"-"`
	Filter   string `yaml:"-"`

	// Display settings
	Display  string `yaml:"display" env:"DISPLAY"`
	MaxWidth int    `yaml:"max_width" env:"MAX_WIDTH"`

	// Extraction settings
	Exiftool Exiftool      `yaml:"exiftool" envPrefix:"EXIFTOOL_"`
	Timeout  time.Duration `yaml:"timeout" env:"TIMEOUT"`

	// Logging and output settings
	Verbose    bool   `yaml:"verbose" env:"VERBOSE"`
	Quiet      bool   `yaml:"quiet" env:"QUIET"`
	LogLevel   string `yaml:"log_level" env:"LOG_LEVEL"`
	NoColor    bool   `yaml:"no_color" env:"NO_COLOR"`
	OutputFile string `yaml:"-"`

	// ConfigFile is the optional YAML file merged under env and flags.
	ConfigFile string `yaml:"-" env:"CONFIG"`

	// Version is reported by --version
	Version string `yaml:"-"`

	// Derived by Load
	Mode      display.Mode `yaml:"-"`
	UseColors bool         `yaml:"-"`
	LogColors bool         `yaml:"-"`
}

// Exiftool configures the external extraction tool.
type Exiftool struct {
	// Path is the exiftool executable. Env: RICHEXIF_EXIFTOOL_PATH
	Path string `yaml:"path" env:"PATH"`

	// Args replaces the per-query arguments. Env: RICHEXIF_EXIFTOOL_ARGS,
	// space separated.
	Args []string `yaml:"args" env:"ARGS" envSeparator:" "`
}

// Defaults returns the built-in settings, the lowest configuration layer.
func Defaults() *Config {
	return &Config{
		Display:  display.DefaultMode.String(),
		Exiftool: Exiftool{
			Path: exiftool.DefaultBinary,
			Args: append([]string(nil), exiftool.DefaultArgs...),
		},
	}
}

// Load merges defaults, the YAML file, the environment and flags and
// validates the result. Later layers win for non-zero values, in this order:
//  1. Defaults
//  2. YAML file (path from the CONFIG env variable or --config)
//  3. Environment variables
//  4. Command-line flags
func Load(flags *Config) (*Config, error) {
	return newConfigBuilder().
		withDefaults().
		withEnv().
		withFlags(flags).
		withFile().
		build()
}

// isTerminal is swapped in tests.
var isTerminal = func(fd uintptr) bool {
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// detectColors decides whether stdout output and stderr logs get colors.
func (c *Config) detectColors() {
	_, noColorEnv := os.LookupEnv("NO_COLOR")
	allowed := !c.NoColor && !noColorEnv

	c.UseColors = allowed && c.OutputFile == "" && isTerminal(os.Stdout.Fd())
	c.LogColors = allowed && isTerminal(os.Stderr.Fd())
}
