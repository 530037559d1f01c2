package config

import (
	"flag"
	"fmt"
	"os"
	"time"
)

// Flags holds values parsed from the command line, together with which
// flags were explicitly set so only those override the YAML config.
type Flags struct {
	ConfigPath string
	LogFormat  string
	LogFile    string
	Verbose    bool

	title        string
	portStart    int
	portRange    int
	readyTimeout time.Duration
	gracePeriod  time.Duration
	noWindow     bool
	printURL     bool
	metricsAddr  string

	set map[string]bool
}

// ParseFlags parses command-line flags. It does not touch the YAML file;
// the caller loads that separately and applies the flags on top with Apply.
func ParseFlags(args []string) (*Flags, error) {
	defaults := DefaultConfig()
	f := &Flags{set: make(map[string]bool)}

	fs := flag.NewFlagSet("deskwing", flag.ContinueOnError)
	fs.Usage = func() { printUsage(fs) }

	// Configuration
	fs.StringVar(&f.ConfigPath, "config", defaults.ConfigPath, "Path to YAML config file (relative to the resource root)")
	fs.StringVar(&f.title, "title", defaults.AppTitle, "Window title (overrides config file)")

	// Server
	fs.IntVar(&f.portStart, "port-start", defaults.Server.PortStart, "First port tried for the UI server")
	fs.IntVar(&f.portRange, "port-range", defaults.Server.PortRange, "Number of consecutive ports tried")
	fs.DurationVar(&f.readyTimeout, "ready-timeout", defaults.ReadyTimeout, "How long to wait for the UI server to accept connections")
	fs.DurationVar(&f.gracePeriod, "grace-period", defaults.GracePeriod, "Wait after SIGTERM before force-killing the worker")

	// Window
	fs.BoolVar(&f.noWindow, "no-window", false, "Skip the desktop window; show the terminal dashboard instead")
	fs.BoolVar(&f.printURL, "print-url", false, "Print the server URL to stdout once ready")

	// Observability
	fs.StringVar(&f.metricsAddr, "metrics", "", "Prometheus metrics address (empty = disabled)")
	fs.StringVar(&f.LogFormat, "log-format", defaults.LogFormat, `Log format: "json" or "text"`)
	fs.StringVar(&f.LogFile, "log-file", defaults.LogFile, "Log file path (empty = console only)")
	fs.BoolVar(&f.Verbose, "v", false, "Verbose logging")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	fs.Visit(func(fl *flag.Flag) { f.set[fl.Name] = true })
	return f, nil
}

// Apply copies explicitly-set flag values onto cfg, and runtime-only flags
// unconditionally (they have no YAML equivalent).
func (f *Flags) Apply(cfg *Config) {
	if f.set["title"] {
		cfg.AppTitle = f.title
	}
	if f.set["port-start"] {
		cfg.Server.PortStart = f.portStart
	}
	if f.set["port-range"] {
		cfg.Server.PortRange = f.portRange
	}
	if f.set["ready-timeout"] {
		cfg.ReadyTimeout = f.readyTimeout
	}
	if f.set["grace-period"] {
		cfg.GracePeriod = f.gracePeriod
	}

	cfg.ConfigPath = f.ConfigPath
	cfg.NoWindow = f.noWindow
	cfg.PrintURL = f.printURL
	cfg.MetricsAddr = f.metricsAddr
	cfg.LogFormat = f.LogFormat
	cfg.LogFile = f.LogFile
	cfg.Verbose = f.Verbose
}

func printUsage(fs *flag.FlagSet) {
	fmt.Fprintf(os.Stderr, `deskwing - desktop shell for a local web-UI server

Usage:
  deskwing [flags]

Configuration:
`)
	printFlagCategory(fs, []string{"config", "title"})

	fmt.Fprintf(os.Stderr, "\nServer:\n")
	printFlagCategory(fs, []string{"port-start", "port-range", "ready-timeout", "grace-period"})

	fmt.Fprintf(os.Stderr, "\nWindow:\n")
	printFlagCategory(fs, []string{"no-window", "print-url"})

	fmt.Fprintf(os.Stderr, "\nObservability:\n")
	printFlagCategory(fs, []string{"metrics", "log-format", "log-file", "v"})

	fmt.Fprintf(os.Stderr, `
Examples:
  # Run with the bundled config
  deskwing

  # Custom config and a wider port range
  deskwing -config config/custom.yaml -port-start 9000 -port-range 20

  # Headless: no desktop window, URL on stdout
  deskwing -no-window -print-url

`)
}

// printFlagCategory prints flags matching the given names (helper for usage).
func printFlagCategory(fs *flag.FlagSet, names []string) {
	fs.VisitAll(func(fl *flag.Flag) {
		for _, name := range names {
			if fl.Name == name {
				fmt.Fprintf(os.Stderr, "  -%s\n    \t%s", fl.Name, fl.Usage)
				if fl.DefValue != "" && fl.DefValue != "false" && fl.DefValue != "0" {
					fmt.Fprintf(os.Stderr, " (default %s)", fl.DefValue)
				}
				fmt.Fprintln(os.Stderr)
				return
			}
		}
	})
}
