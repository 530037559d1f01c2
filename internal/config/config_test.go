package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "app.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestDefaultConfigIsValid(t *testing.T) {
	assert.NoError(t, Validate(DefaultConfig()))
}

func TestLoadMergesOverDefaults(t *testing.T) {
	path := writeConfig(t, `
app_title: "My App"
server:
  port_start: 9000
  port_range: 5
  host: 127.0.0.1
`)

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "My App", cfg.AppTitle)
	assert.Equal(t, 9000, cfg.Server.PortStart)
	assert.Equal(t, 5, cfg.Server.PortRange)
	// Untouched sections keep their defaults.
	assert.Len(t, cfg.MenuItems, 4)
	assert.Equal(t, 1280, cfg.Window.Width)
}

func TestLoadMissingFileFallsBackToDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))

	assert.Error(t, err)
	require.NotNil(t, cfg)
	assert.Equal(t, DefaultConfig().AppTitle, cfg.AppTitle)
	assert.NoError(t, Validate(cfg))
}

func TestLoadMalformedFileFallsBackToDefaults(t *testing.T) {
	path := writeConfig(t, "app_title: [unclosed")

	cfg, err := Load(path)

	assert.Error(t, err)
	assert.Equal(t, DefaultConfig().AppTitle, cfg.AppTitle)
}

func TestLoadEmptyFileUsesDefaults(t *testing.T) {
	path := writeConfig(t, "")

	cfg, err := Load(path)

	assert.NoError(t, err)
	assert.Equal(t, DefaultConfig().AppTitle, cfg.AppTitle)
}

func TestLoadInvalidConfigFallsBackToDefaults(t *testing.T) {
	// Duplicate menu ids fail validation; the file is rejected wholesale.
	path := writeConfig(t, `
menu_items:
  - {id: home, label: Home, page: home}
  - {id: home, label: Again, page: home}
`)

	cfg, err := Load(path)

	assert.Error(t, err)
	assert.Len(t, cfg.MenuItems, 4)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		wantOK bool
	}{
		{"valid defaults", func(c *Config) {}, true},
		{"empty title", func(c *Config) { c.AppTitle = "" }, false},
		{"no menu items", func(c *Config) { c.MenuItems = nil }, false},
		{"menu item missing page", func(c *Config) { c.MenuItems[0].Page = "" }, false},
		{"duplicate menu ids", func(c *Config) { c.MenuItems[1].ID = c.MenuItems[0].ID }, false},
		{"port start zero", func(c *Config) { c.Server.PortStart = 0 }, false},
		{"port range zero", func(c *Config) { c.Server.PortRange = 0 }, false},
		{"range past 65535", func(c *Config) { c.Server.PortStart = 65530; c.Server.PortRange = 10 }, false},
		{"zero window", func(c *Config) { c.Window.Width = 0 }, false},
		{"negative ready timeout", func(c *Config) { c.ReadyTimeout = -time.Second }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := Validate(cfg)
			if tt.wantOK {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestParseFlagsDefaults(t *testing.T) {
	f, err := ParseFlags(nil)
	require.NoError(t, err)

	cfg := DefaultConfig()
	f.Apply(cfg)

	assert.Equal(t, 8501, cfg.Server.PortStart)
	assert.Equal(t, 30*time.Second, cfg.ReadyTimeout)
	assert.False(t, cfg.NoWindow)
}

func TestParseFlagsOverrideOnlyExplicit(t *testing.T) {
	f, err := ParseFlags([]string{"-port-start", "9100", "-no-window"})
	require.NoError(t, err)

	// Simulate a YAML file that set its own title and range.
	cfg := DefaultConfig()
	cfg.AppTitle = "From YAML"
	cfg.Server.PortRange = 3

	f.Apply(cfg)

	assert.Equal(t, 9100, cfg.Server.PortStart, "explicit flag wins")
	assert.Equal(t, "From YAML", cfg.AppTitle, "unset flag must not clobber YAML")
	assert.Equal(t, 3, cfg.Server.PortRange, "unset flag must not clobber YAML")
	assert.True(t, cfg.NoWindow)
}

func TestParseFlagsBadInput(t *testing.T) {
	_, err := ParseFlags([]string{"-port-start", "not-a-number"})
	assert.Error(t, err)
}
