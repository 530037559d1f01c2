// Package preflight provides startup validation checks.
package preflight

import (
	"fmt"
	"os"

	"github.com/deskwing/deskwing/internal/bundle"
	"github.com/deskwing/deskwing/internal/config"
	"github.com/deskwing/deskwing/internal/port"
	"github.com/deskwing/deskwing/internal/shell"
)

// Check represents the result of a single preflight check.
type Check struct {
	Name     string // Name of the check
	Required int    // Required value (if applicable)
	Actual   int    // Actual value found
	Passed   bool   // Whether the check passed
	Warning  bool   // True if it's a warning (non-fatal)
	Message  string // Additional context
}

// Result holds the results of all preflight checks.
type Result struct {
	Checks []Check
	Passed bool
}

// String returns a human-readable summary of the check.
func (c Check) String() string {
	status := "✓"
	if !c.Passed {
		status = "✗"
	} else if c.Warning {
		status = "⚠"
	}

	if c.Required > 0 {
		return fmt.Sprintf("  %s %s: %d available (need %d)", status, c.Name, c.Actual, c.Required)
	}
	return fmt.Sprintf("  %s %s: %s", status, c.Name, c.Message)
}

// RunAll executes all preflight checks.
func RunAll(cfg *config.Config) *Result {
	result := &Result{
		Checks: make([]Check, 0, 3),
		Passed: true,
	}

	portCheck := checkFreePorts(cfg)
	result.Checks = append(result.Checks, portCheck)
	if !portCheck.Passed {
		result.Passed = false
	}

	// A missing shell is a warning here: the launcher can still print
	// the URL or show the terminal dashboard.
	shellCheck := checkWindowShell()
	result.Checks = append(result.Checks, shellCheck)

	configCheck := checkConfigFile(cfg)
	result.Checks = append(result.Checks, configCheck)

	return result
}

// checkFreePorts verifies at least one port in the configured range is free.
func checkFreePorts(cfg *config.Config) Check {
	scanner := port.Scanner{Host: cfg.Server.Host}
	free := scanner.FreeCount(cfg.Server.PortStart, cfg.Server.PortRange)

	return Check{
		Name:     "free_ports",
		Required: 1,
		Actual:   free,
		Passed:   free >= 1,
		Message: fmt.Sprintf("%d free in %d-%d", free,
			cfg.Server.PortStart, cfg.Server.PortStart+cfg.Server.PortRange-1),
	}
}

// checkWindowShell reports which window shell is available, if any.
func checkWindowShell() Check {
	sh, err := shell.Detect()
	if err != nil {
		return Check{
			Name:    "window_shell",
			Passed:  true,
			Warning: true,
			Message: "no browser or URL opener found (will fall back to terminal)",
		}
	}
	return Check{
		Name:    "window_shell",
		Passed:  true,
		Message: sh.Name(),
	}
}

// checkConfigFile reports whether the config file was found.
func checkConfigFile(cfg *config.Config) Check {
	if cfg.ConfigPath == "" {
		return Check{
			Name:    "config_file",
			Passed:  true,
			Warning: true,
			Message: "none specified (using defaults)",
		}
	}

	path, err := bundle.ResourcePath(cfg.ConfigPath)
	if err != nil {
		path = cfg.ConfigPath
	}
	if _, err := os.Stat(path); err != nil {
		return Check{
			Name:    "config_file",
			Passed:  true,
			Warning: true,
			Message: fmt.Sprintf("%s not found (using defaults)", path),
		}
	}
	return Check{
		Name:    "config_file",
		Passed:  true,
		Message: path,
	}
}

// PrintResults prints the preflight check results to stdout.
func PrintResults(result *Result) {
	fmt.Println("Preflight checks:")
	for _, check := range result.Checks {
		fmt.Println(check.String())
		if !check.Passed {
			fmt.Printf("    Fix: %s\n", suggestFix(check.Name))
		}
	}
	fmt.Println()
}

// suggestFix returns a suggestion for fixing a failed check.
func suggestFix(name string) string {
	switch name {
	case "free_ports":
		return "free up ports in the configured range, or raise port_range in the config"
	case "window_shell":
		return "install chromium or google-chrome (apt install chromium / brew install chromium)"
	default:
		return "see documentation"
	}
}
