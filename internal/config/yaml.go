package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// fileConfig mirrors Config with optional fields so the YAML file can
// override settings selectively: only keys present in the file replace the
// defaults.
type fileConfig struct {
	AppTitle  *string       `yaml:"app_title"`
	LogoPath  *string       `yaml:"logo_path"`
	IconPath  *string       `yaml:"icon_path"`
	MenuItems []MenuItem    `yaml:"menu_items"`
	Theme     *Theme        `yaml:"theme"`
	Server    *ServerConfig `yaml:"server"`
	Window    *WindowConfig `yaml:"window"`
}

func (fc *fileConfig) apply(cfg *Config) {
	if fc.AppTitle != nil {
		cfg.AppTitle = *fc.AppTitle
	}
	if fc.LogoPath != nil {
		cfg.LogoPath = *fc.LogoPath
	}
	if fc.IconPath != nil {
		cfg.IconPath = *fc.IconPath
	}
	if fc.MenuItems != nil {
		cfg.MenuItems = fc.MenuItems
	}
	if fc.Theme != nil {
		cfg.Theme = *fc.Theme
	}
	if fc.Server != nil {
		cfg.Server = *fc.Server
	}
	if fc.Window != nil {
		cfg.Window = *fc.Window
	}
}

// Load reads the YAML config at path and merges it over the built-in
// defaults. The returned Config is always usable: a missing, empty,
// malformed, or invalid file yields the defaults, with the problem reported
// in the error for the caller to log.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()
	cfg.ConfigPath = path

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}

	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return cfg, fmt.Errorf("parse %s: %w", path, err)
	}
	fc.apply(cfg)

	if err := Validate(cfg); err != nil {
		fallback := DefaultConfig()
		fallback.ConfigPath = path
		return fallback, fmt.Errorf("validate %s: %w", path, err)
	}
	return cfg, nil
}
