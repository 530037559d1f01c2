// Package launcher composes the application: port allocation, worker
// supervision, readiness probing, and the window shell or terminal
// dashboard. It owns process exit codes; main stays thin.
package launcher

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/deskwing/deskwing/internal/config"
	"github.com/deskwing/deskwing/internal/logging"
	"github.com/deskwing/deskwing/internal/metrics"
	"github.com/deskwing/deskwing/internal/port"
	"github.com/deskwing/deskwing/internal/preflight"
	"github.com/deskwing/deskwing/internal/probe"
	"github.com/deskwing/deskwing/internal/shell"
	"github.com/deskwing/deskwing/internal/supervisor"
	"github.com/deskwing/deskwing/internal/tui"
	"github.com/deskwing/deskwing/internal/worker"
)

// failureReportLines is how much recent worker output a startup-failure
// report includes.
const failureReportLines = 20

// Launcher runs the full application lifecycle.
type Launcher struct {
	cfg     *config.Config
	logger  *slog.Logger
	version string

	sup       *supervisor.Supervisor
	prober    *probe.Prober
	output    *logging.WorkerOutputHandler
	collector *metrics.Collector

	// Overridable for tests.
	builder     supervisor.WorkerBuilder
	detectShell func() (shell.Shell, error)

	port      int
	url       string
	startedAt time.Time
}

// New creates a Launcher for the given configuration.
func New(cfg *config.Config, logger *slog.Logger, version string) *Launcher {
	l := &Launcher{
		cfg:     cfg,
		logger:  logger,
		version: version,
		prober:  probe.New(),
		output:  logging.NewWorkerOutputHandler(logger, cfg.Verbose),
		builder: &worker.Builder{
			ConfigPath: cfg.ConfigPath,
			Verbose:    cfg.Verbose,
		},
		detectShell: shell.Detect,
	}
	l.prober.Host = cfg.Server.Host
	return l
}

// Run executes the launch sequence and blocks until the app is done.
// Returns the process exit code.
func (l *Launcher) Run(ctx context.Context) int {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if l.cfg.MetricsAddr != "" {
		l.collector = metrics.NewCollector(l.version)
		srv := metrics.NewServer(l.cfg.MetricsAddr, l.logger)
		if err := srv.Start(); err != nil {
			l.logger.Warn("metrics_server_start_failed", "error", err)
		} else {
			defer func() {
				shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
				defer cancel()
				_ = srv.Shutdown(shutdownCtx)
			}()
		}
	}

	pf := preflight.RunAll(l.cfg)
	for _, check := range pf.Checks {
		l.logger.Debug("preflight_check",
			"name", check.Name,
			"passed", check.Passed,
			"message", check.Message,
		)
	}
	if !pf.Passed {
		preflight.PrintResults(pf)
		l.logger.Error("preflight_failed")
		return 1
	}

	scanner := port.Scanner{Host: l.cfg.Server.Host}
	p, err := scanner.FindFree(l.cfg.Server.PortStart, l.cfg.Server.PortRange)
	if err != nil {
		if errors.Is(err, port.ErrNoFreePort) {
			l.logger.Error("no_free_port",
				"start", l.cfg.Server.PortStart,
				"range", l.cfg.Server.PortRange,
			)
		} else {
			l.logger.Error("port_scan_failed", "error", err)
		}
		return 1
	}
	l.port = p
	l.url = "http://" + net.JoinHostPort(l.cfg.Server.Host, strconv.Itoa(p))

	l.sup = supervisor.New(supervisor.Config{
		Builder:     l.builder,
		Logger:      l.logger,
		StderrSink:  l.output,
		GracePeriod: l.cfg.GracePeriod,
		Callbacks: supervisor.Callbacks{
			OnStateChange: l.onStateChange,
			OnStart:       l.onWorkerStart,
			OnExit:        l.onWorkerExit,
		},
	})

	l.startedAt = time.Now()
	handle, err := l.sup.Start(ctx, p)
	if err != nil {
		l.logger.Error("worker_spawn_failed", "error", err)
		return 1
	}
	defer l.sup.Stop()

	if !l.prober.Wait(ctx, p, l.cfg.ReadyTimeout) {
		if ctx.Err() != nil {
			l.logger.Info("interrupted_before_ready")
			return 1
		}
		l.reportStartupFailure(handle)
		return 1
	}

	timeToReady := time.Since(l.startedAt)
	report := l.prober.Report()
	l.logger.Debug("readiness_probe_report",
		"attempts", report.Attempts,
		"dial_p50", report.P50.String(),
		"dial_p95", report.P95.String(),
		"time_to_ready", timeToReady.String(),
	)
	if l.collector != nil {
		l.collector.AddProbeAttempts(report.Attempts)
		l.collector.SetTimeToReady(timeToReady)
	}

	l.logger.Info("app_ready", "url", l.url, "pid", handle.PID())
	if l.cfg.PrintURL {
		fmt.Println(l.url)
	}

	return l.present(ctx)
}

// present shows the app: window shell when available, terminal dashboard
// otherwise. Blocks until the surface closes or ctx is cancelled.
func (l *Launcher) present(ctx context.Context) int {
	if l.cfg.NoWindow {
		return l.runDashboard(ctx)
	}

	sh, err := l.detectShell()
	if err != nil {
		// Degraded mode: the dashboard still serves the URL, but the
		// requested window never opened, so the exit code says so.
		l.logger.Warn("window_shell_unavailable", "error", err)
		l.runDashboard(ctx)
		return 1
	}

	win := shell.Window{
		Title:  l.cfg.AppTitle,
		URL:    l.url,
		Icon:   shell.ResolveIcon(l.cfg.IconPath),
		Width:  l.cfg.Window.Width,
		Height: l.cfg.Window.Height,
	}
	l.logger.Info("opening_window", "shell", sh.Name(), "url", l.url)

	if err := sh.Open(ctx, win); err != nil && !errors.Is(err, context.Canceled) {
		l.logger.Error("window_failed", "error", err)
		return 1
	}
	l.logger.Info("window_closed")
	return 0
}

// runDashboard runs the terminal dashboard as the fallback surface.
func (l *Launcher) runDashboard(ctx context.Context) int {
	l.logger.Info("running_terminal_dashboard", "url", l.url)
	if err := tui.Run(ctx, tui.New(l.cfg.AppTitle, l.version, l)); err != nil {
		// A TUI failure (no TTY, for one) must not take the app down
		// while the server is healthy; fall back to waiting on ctx.
		l.logger.Warn("dashboard_unavailable", "error", err)
		<-ctx.Done()
	}
	return 0
}

// reportStartupFailure explains why the worker never became ready, using
// every signal available: the error channel, the exit code, and recent
// stderr output.
func (l *Launcher) reportStartupFailure(handle *supervisor.Handle) {
	diagnostics := handle.Errors().Drain()
	exitCode, exited := handle.ExitCode()

	switch {
	case exited && exitCode == supervisor.ExitStartupFailure:
		l.logger.Error("worker_startup_failed",
			"exit_code", exitCode,
			"diagnostics", diagnostics,
		)
	case exited:
		l.logger.Error("worker_crashed_before_ready",
			"exit_code", exitCode,
			"diagnostics", diagnostics,
		)
	default:
		l.logger.Error("worker_not_ready_in_time",
			"timeout", l.cfg.ReadyTimeout.String(),
			"diagnostics", diagnostics,
		)
	}

	for _, line := range l.output.RecentLines(failureReportLines) {
		l.logger.Error("worker_recent_output", "line", line)
	}
}

// Status implements tui.StatusSource.
func (l *Launcher) Status() tui.Status {
	st := tui.Status{
		URL:         l.url,
		State:       supervisor.StateIdle.String(),
		RecentLines: l.output.RecentLines(tuiRecentLines),
	}
	if !l.startedAt.IsZero() {
		st.Uptime = time.Since(l.startedAt)
	}
	if l.sup != nil {
		st.State = l.sup.State().String()
		if h := l.sup.Handle(); h != nil {
			st.PID = h.PID()
		}
	}
	return st
}

// tuiRecentLines is how much worker output the dashboard shows.
const tuiRecentLines = 8

func (l *Launcher) onStateChange(oldState, newState supervisor.State) {
	l.logger.Debug("worker_state_changed",
		"from", oldState.String(),
		"to", newState.String(),
	)
	if l.collector != nil {
		l.collector.SetState(int(newState))
	}
}

func (l *Launcher) onWorkerStart(pid int) {
	if l.collector != nil {
		l.collector.IncWorkerStart()
	}
}

func (l *Launcher) onWorkerExit(exitCode int, uptime time.Duration) {
	if l.collector != nil {
		l.collector.ObserveExit(exitCode)
	}
}
