package worker

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/deskwing/deskwing/internal/bundle"
	"github.com/deskwing/deskwing/internal/config"
	"github.com/deskwing/deskwing/internal/logging"
	"github.com/deskwing/deskwing/internal/supervisor"
	"github.com/deskwing/deskwing/internal/ui"
)

// shutdownTimeout bounds the in-flight-request drain when the parent sends
// SIGTERM. It must sit inside the supervisor's grace period.
const shutdownTimeout = 3 * time.Second

// Run is the worker-process entry point. It hosts the UI server on the
// requested port and blocks until the server stops. Any failure before the
// server accepts connections pushes a diagnostic onto the error channel and
// returns the distinguished startup-failure exit code.
func Run(args []string, version string) int {
	fs := flag.NewFlagSet(SubcommandServeUI, flag.ContinueOnError)
	port := fs.Int("port", 0, "TCP port to bind the UI server to")
	configPath := fs.String("config", "config/app.yaml", "Path to YAML config file")
	verbose := fs.Bool("v", false, "Verbose logging")
	if err := fs.Parse(args); err != nil {
		return supervisor.ExitStartupFailure
	}

	errFile := openErrorChannel()
	// Worker logs go to stderr; the parent decides what to do with them.
	logger := logging.NewLogger("text", "info", *verbose)

	if *port < 1 || *port > 65535 {
		return fail(errFile, logger, "invalid port %d", *port)
	}

	// Resources must resolve regardless of the parent's working directory.
	cfgPath, err := bundle.ResourcePath(*configPath)
	if err != nil {
		cfgPath = *configPath
	}
	cfg, loadErr := config.Load(cfgPath)
	if loadErr != nil {
		// Defaults keep the server serving; the parent already warned.
		logger.Warn("config_fallback_to_defaults", "path", cfgPath, "error", loadErr)
	}

	srv := ui.NewServer(cfg, logger, version)

	addr := net.JoinHostPort("127.0.0.1", strconv.Itoa(*port))
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fail(errFile, logger, "bind %s: %v", addr, err)
	}

	// Past this point the server is reachable: the parent's readiness
	// probe will see the open port. Release the error channel so the
	// parent's reader observes EOF.
	if errFile != nil {
		errFile.Close()
		errFile = nil
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGINT)
	defer stop()

	go func() {
		<-ctx.Done()
		logger.Info("worker_shutting_down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Warn("shutdown_incomplete", "error", err)
		}
	}()

	logger.Info("ui_server_listening", "addr", addr, "title", cfg.AppTitle)
	if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("ui_server_failed", "error", err)
		return 1
	}
	return 0
}

// openErrorChannel opens the diagnostic pipe inherited from the parent, or
// returns nil when run standalone.
func openErrorChannel() *os.File {
	fdStr := os.Getenv(errorFDEnv)
	if fdStr == "" {
		return nil
	}
	fd, err := strconv.Atoi(fdStr)
	if err != nil || fd < 3 {
		return nil
	}
	return os.NewFile(uintptr(fd), "error-channel")
}

// fail reports a startup failure: best effort onto the error channel, always
// into the log. Returns the exit code for Run.
func fail(errFile *os.File, logger interface{ Error(string, ...any) }, format string, args ...any) int {
	msg := fmt.Sprintf(format, args...)
	logger.Error("worker_startup_failed", "reason", msg)
	if errFile != nil {
		fmt.Fprintln(errFile, msg)
		errFile.Close()
	}
	return supervisor.ExitStartupFailure
}
