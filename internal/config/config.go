// Package config provides configuration management for deskwing.
//
// Configuration comes from three layers, later layers winning: built-in
// defaults, the YAML config file, and command-line flags. A missing or
// malformed config file falls back to defaults with a warning; the
// application always starts.
package config

import "time"

// MenuItem is one entry in the sidebar navigation.
type MenuItem struct {
	ID    string `yaml:"id"`
	Label string `yaml:"label"`
	Icon  string `yaml:"icon"`
	Page  string `yaml:"page"`
}

// Theme holds the color scheme applied to the UI layout.
type Theme struct {
	PrimaryColor             string `yaml:"primaryColor"`
	BackgroundColor          string `yaml:"backgroundColor"`
	SecondaryBackgroundColor string `yaml:"secondaryBackgroundColor"`
	TextColor                string `yaml:"textColor"`
	Font                     string `yaml:"font"`
}

// ServerConfig controls where the UI server binds.
type ServerConfig struct {
	// PortStart is the first port tried by the allocator.
	PortStart int `yaml:"port_start"`

	// PortRange is how many consecutive ports are tried.
	PortRange int `yaml:"port_range"`

	// Host is the bind address. The server is local-only; this stays on
	// loopback.
	Host string `yaml:"host"`
}

// WindowConfig controls the desktop window geometry.
type WindowConfig struct {
	Width     int  `yaml:"width"`
	Height    int  `yaml:"height"`
	Resizable bool `yaml:"resizable"`
}

// Config holds all configuration for the launcher and the hosted UI.
type Config struct {
	AppTitle  string       `yaml:"app_title"`
	LogoPath  string       `yaml:"logo_path"`
	IconPath  string       `yaml:"icon_path"`
	MenuItems []MenuItem   `yaml:"menu_items"`
	Theme     Theme        `yaml:"theme"`
	Server    ServerConfig `yaml:"server"`
	Window    WindowConfig `yaml:"window"`

	// Runtime options, set by flags rather than the YAML file.
	ConfigPath   string        `yaml:"-"`
	ReadyTimeout time.Duration `yaml:"-"`
	GracePeriod  time.Duration `yaml:"-"`
	NoWindow     bool          `yaml:"-"`
	PrintURL     bool          `yaml:"-"`
	MetricsAddr  string        `yaml:"-"`
	LogFormat    string        `yaml:"-"`
	LogFile      string        `yaml:"-"`
	Verbose      bool          `yaml:"-"`
}

// DefaultConfig returns a Config with the built-in defaults. The defaults
// are a complete, valid configuration: the application runs without any
// config file at all.
func DefaultConfig() *Config {
	return &Config{
		AppTitle: "Deskwing App",
		LogoPath: "assets/logo.png",
		IconPath: "assets/icon.png",
		MenuItems: []MenuItem{
			{ID: "home", Label: "Home", Icon: "🏠", Page: "home"},
			{ID: "feature1", Label: "Feature 1", Icon: "⚙️", Page: "feature1"},
			{ID: "feature2", Label: "Feature 2", Icon: "📊", Page: "feature2"},
			{ID: "about", Label: "About the Project", Icon: "ℹ️", Page: "about"},
		},
		Theme: Theme{
			PrimaryColor:             "#1f77b4",
			BackgroundColor:          "#ffffff",
			SecondaryBackgroundColor: "#f0f2f6",
			TextColor:                "#262730",
			Font:                     "sans-serif",
		},
		Server: ServerConfig{
			PortStart: 8501,
			PortRange: 10,
			Host:      "127.0.0.1",
		},
		Window: WindowConfig{
			Width:     1280,
			Height:    800,
			Resizable: true,
		},

		ConfigPath:   "config/app.yaml",
		ReadyTimeout: 30 * time.Second,
		GracePeriod:  5 * time.Second,
		LogFormat:    "text",
		LogFile:      "logs/app.log",
	}
}
