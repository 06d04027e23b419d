// Package config provides centralized configuration management using Viper.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Config holds all configuration values for stepper.
//
// Linear and Vertical are overrides: nil leaves the flow file's value.
type Config struct {
	Flow     string `mapstructure:"flow" yaml:"flow"`
	DataDir  string `mapstructure:"data_dir" yaml:"data_dir"`
	WorkDir  string `mapstructure:"work_dir" yaml:"work_dir,omitempty"`
	LogLevel string `mapstructure:"log_level" yaml:"log_level"`
	LogFile  string `mapstructure:"log_file" yaml:"log_file"`
	Journal  bool   `mapstructure:"journal" yaml:"journal"`
	RunName  string `mapstructure:"run_name" yaml:"run_name,omitempty"`
	Watch    bool   `mapstructure:"watch" yaml:"watch"`
	Linear   *bool  `mapstructure:"linear" yaml:"linear,omitempty"`
	Vertical *bool  `mapstructure:"vertical" yaml:"vertical,omitempty"`
}

// envKeys lists keys bound explicitly so bool/int env values parse reliably.
var envKeys = []string{
	"flow", "data_dir", "work_dir", "log_level", "log_file",
	"journal", "run_name", "watch", "linear", "vertical",
}

// Load loads configuration with full precedence:
// CLI flags > ENV vars > project config > XDG global config > defaults
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetConfigName("stepper")

	v.SetDefault("flow", "stepper.flow.yml")
	v.SetDefault("data_dir", ".stepper")
	v.SetDefault("work_dir", "")
	v.SetDefault("log_level", "info")
	v.SetDefault("log_file", "")
	v.SetDefault("journal", false)
	v.SetDefault("run_name", "")
	v.SetDefault("watch", false)

	// Setup ENV binding with STEPPER_ prefix
	v.SetEnvPrefix("STEPPER")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	for _, key := range envKeys {
		if err := v.BindEnv(key, "STEPPER_"+strings.ToUpper(key)); err != nil {
			return nil, fmt.Errorf("binding %s env: %w", key, err)
		}
	}

	// Load global config first (if exists)
	globalPath := GlobalPath()
	if fileExists(globalPath) {
		v.SetConfigFile(globalPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading global config: %w", err)
		}
	}

	// Merge project config on top (if exists)
	projectPath := ProjectPath()
	if fileExists(projectPath) {
		v.SetConfigFile(projectPath)
		if err := v.MergeInConfig(); err != nil {
			return nil, fmt.Errorf("merging project config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	// Unmarshal cannot tell "unset" from false, so overrides are read directly
	if v.IsSet("linear") {
		linear := v.GetBool("linear")
		cfg.Linear = &linear
	}
	if v.IsSet("vertical") {
		vertical := v.GetBool("vertical")
		cfg.Vertical = &vertical
	}

	return &cfg, nil
}

// Default returns the configuration written by `stepper setup`.
func Default() *Config {
	return &Config{
		Flow:     "stepper.flow.yml",
		DataDir:  ".stepper",
		LogLevel: "info",
		Journal:  true,
	}
}

// Exists returns true if any config file exists (global or project).
func Exists() bool {
	return fileExists(GlobalPath()) || fileExists(ProjectPath())
}

// GlobalPath returns the XDG global config path.
// Returns ~/.config/stepper/stepper.yml or $XDG_CONFIG_HOME/stepper/stepper.yml.
func GlobalPath() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "stepper", "stepper.yml")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "stepper", "stepper.yml")
}

// ProjectPath returns the project-local config path.
func ProjectPath() string {
	return "stepper.yml"
}

// WriteGlobal writes the config to the XDG global location.
func WriteGlobal(cfg *Config) error {
	path := GlobalPath()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	return write(path, cfg)
}

// WriteProject writes the config to the project-local location.
func WriteProject(cfg *Config) error {
	return write(ProjectPath(), cfg)
}

func write(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
