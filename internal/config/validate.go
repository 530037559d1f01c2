package config

import (
	"errors"
	"fmt"
)

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Validate checks the configuration for errors and inconsistencies.
// Returns nil if valid, or an error describing every problem found.
func Validate(cfg *Config) error {
	var errs []error

	if cfg.AppTitle == "" {
		errs = append(errs, ValidationError{
			Field:   "app_title",
			Message: "must not be empty",
		})
	}

	if len(cfg.MenuItems) == 0 {
		errs = append(errs, ValidationError{
			Field:   "menu_items",
			Message: "at least one menu item is required",
		})
	}

	seen := make(map[string]bool, len(cfg.MenuItems))
	for i, item := range cfg.MenuItems {
		field := fmt.Sprintf("menu_items[%d]", i)
		if item.ID == "" || item.Label == "" || item.Page == "" {
			errs = append(errs, ValidationError{
				Field:   field,
				Message: "id, label and page are required",
			})
			continue
		}
		if seen[item.ID] {
			errs = append(errs, ValidationError{
				Field:   field,
				Message: fmt.Sprintf("duplicate menu id %q", item.ID),
			})
		}
		seen[item.ID] = true
	}

	if cfg.Server.PortStart < 1 || cfg.Server.PortStart > 65535 {
		errs = append(errs, ValidationError{
			Field:   "server.port_start",
			Message: fmt.Sprintf("must be 1-65535 (got %d)", cfg.Server.PortStart),
		})
	}
	if cfg.Server.PortRange < 1 {
		errs = append(errs, ValidationError{
			Field:   "server.port_range",
			Message: "must be at least 1",
		})
	} else if cfg.Server.PortStart+cfg.Server.PortRange-1 > 65535 {
		errs = append(errs, ValidationError{
			Field:   "server.port_range",
			Message: "range extends past port 65535",
		})
	}

	if cfg.Window.Width < 1 || cfg.Window.Height < 1 {
		errs = append(errs, ValidationError{
			Field:   "window",
			Message: fmt.Sprintf("size must be positive (got %dx%d)", cfg.Window.Width, cfg.Window.Height),
		})
	}

	if cfg.ReadyTimeout <= 0 {
		errs = append(errs, ValidationError{
			Field:   "ready_timeout",
			Message: "must be positive",
		})
	}
	if cfg.GracePeriod <= 0 {
		errs = append(errs, ValidationError{
			Field:   "grace_period",
			Message: "must be positive",
		})
	}

	return errors.Join(errs...)
}
