// Package main provides the deskwing CLI entry point.
//
// deskwing wraps a local web-UI server in a desktop window: it allocates a
// port, spawns the UI server as a supervised child process, waits for it to
// accept connections, and opens a window (or terminal dashboard) on it.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"

	"github.com/deskwing/deskwing/internal/bundle"
	"github.com/deskwing/deskwing/internal/config"
	"github.com/deskwing/deskwing/internal/launcher"
	"github.com/deskwing/deskwing/internal/logging"
	"github.com/deskwing/deskwing/internal/worker"
)

// version is set at build time via ldflags:
//
//	go build -ldflags "-X main.version=1.0.0" ./cmd/deskwing
var version = "dev"

func main() {
	os.Exit(run())
}

func run() int {
	// Worker mode: this binary re-executed as the UI-server host.
	if len(os.Args) > 1 && os.Args[1] == worker.SubcommandServeUI {
		return worker.Run(os.Args[2:], version)
	}

	// Handle version flag early (before flag parsing)
	if len(os.Args) > 1 {
		arg := os.Args[1]
		if arg == "-version" || arg == "--version" || arg == "version" {
			fmt.Printf("deskwing %s\n", version)
			return 0
		}
	}

	flags, err := config.ParseFlags(os.Args[1:])
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return 0
		}
		fmt.Fprintf(os.Stderr, "Error parsing flags: %v\n", err)
		return 1
	}

	logger := logging.NewAppLogger(flags.LogFormat, "info", flags.Verbose, flags.LogFile)
	logging.SetDefault(logger)

	// Config file: missing or malformed falls back to defaults so the app
	// always starts.
	cfgPath, err := bundle.ResourcePath(flags.ConfigPath)
	if err != nil {
		cfgPath = flags.ConfigPath
	}
	cfg, loadErr := config.Load(cfgPath)
	if loadErr != nil {
		logger.Warn("config_fallback_to_defaults", "path", cfgPath, "error", loadErr)
	}
	flags.Apply(cfg)

	if err := config.Validate(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "Configuration error: %v\n", err)
		return 1
	}

	logger.Info("starting",
		"version", version,
		"title", cfg.AppTitle,
		"port_start", cfg.Server.PortStart,
		"port_range", cfg.Server.PortRange,
		"bundled", bundle.Bundled(),
	)

	return launcher.New(cfg, logger, version).Run(context.Background())
}
