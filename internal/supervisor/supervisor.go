package supervisor

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"sync"
	"syscall"
	"time"
)

// ExitStartupFailure is the distinguished exit code the worker uses when it
// fails before its server starts accepting connections.
const ExitStartupFailure = 2

// DefaultGracePeriod is how long Stop waits after SIGTERM before escalating
// to SIGKILL.
const DefaultGracePeriod = 5 * time.Second

// ErrAlreadyRunning is returned by Start while a previous handle is alive.
var ErrAlreadyRunning = errors.New("supervisor: worker already running")

// WorkerBuilder creates the command that hosts the UI server.
// The builder must wire errFile into the command so the worker sees it as
// fd 3, and must not start the command itself.
type WorkerBuilder interface {
	BuildCommand(ctx context.Context, port int, errFile *os.File) (*exec.Cmd, error)

	// Name returns a human-readable name for this worker type.
	Name() string
}

// StderrSink consumes the worker's stderr stream. Optional; when absent the
// worker inherits the parent's stderr.
type StderrSink interface {
	HandleReader(r io.Reader)
}

// Callbacks contains optional callback functions for supervisor events.
type Callbacks struct {
	// OnStateChange is called when the supervisor state changes.
	OnStateChange func(oldState, newState State)

	// OnStart is called when the worker process starts.
	OnStart func(pid int)

	// OnExit is called when the worker process exits.
	OnExit func(exitCode int, uptime time.Duration)
}

// Supervisor manages the lifecycle of the single UI-server worker process.
// It owns spawning, the error channel, and the graceful-then-forced
// termination protocol. It is not safe for concurrent Start/Stop from
// multiple goroutines; one control flow owns it.
type Supervisor struct {
	builder     WorkerBuilder
	logger      *slog.Logger
	callbacks   Callbacks
	stderrSink  StderrSink
	gracePeriod time.Duration

	mu     sync.Mutex
	state  State
	cmd    *exec.Cmd
	handle *Handle
}

// Config holds configuration for creating a new Supervisor.
type Config struct {
	Builder     WorkerBuilder
	Logger      *slog.Logger
	Callbacks   Callbacks
	StderrSink  StderrSink
	GracePeriod time.Duration // 0 = DefaultGracePeriod
}

// New creates a new Supervisor in the Idle state.
func New(cfg Config) *Supervisor {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	grace := cfg.GracePeriod
	if grace <= 0 {
		grace = DefaultGracePeriod
	}
	return &Supervisor{
		builder:     cfg.Builder,
		logger:      logger,
		callbacks:   cfg.Callbacks,
		stderrSink:  cfg.StderrSink,
		gracePeriod: grace,
		state:       StateIdle,
	}
}

// Start spawns the worker process for the given port and returns its Handle.
// The supervisor transitions to Running as soon as the process exists;
// whether the hosted server accepts connections is the caller's concern
// (see the probe package). If spawning fails, the supervisor returns to
// Idle and no handle is exposed.
func (s *Supervisor) Start(ctx context.Context, port int) (*Handle, error) {
	s.mu.Lock()
	if s.handle != nil && s.handle.Alive() {
		s.mu.Unlock()
		return nil, ErrAlreadyRunning
	}
	s.mu.Unlock()

	s.setState(StateStarting)

	errRead, errWrite, err := os.Pipe()
	if err != nil {
		s.setState(StateIdle)
		return nil, fmt.Errorf("create error channel: %w", err)
	}

	cmd, err := s.builder.BuildCommand(ctx, port, errWrite)
	if err != nil {
		errRead.Close()
		errWrite.Close()
		s.setState(StateIdle)
		return nil, err
	}

	// Process group so Stop can signal the worker and anything it spawned.
	if cmd.SysProcAttr == nil {
		cmd.SysProcAttr = &syscall.SysProcAttr{}
	}
	cmd.SysProcAttr.Setpgid = true

	var stderr io.ReadCloser
	if s.stderrSink != nil {
		stderr, err = cmd.StderrPipe()
		if err != nil {
			errRead.Close()
			errWrite.Close()
			s.setState(StateIdle)
			return nil, fmt.Errorf("stderr pipe: %w", err)
		}
	}

	startTime := time.Now()
	if err := cmd.Start(); err != nil {
		errRead.Close()
		errWrite.Close()
		s.setState(StateIdle)
		return nil, fmt.Errorf("spawn %s: %w", s.builder.Name(), err)
	}

	// Close the parent's copy of the write end so the channel reader sees
	// EOF when the worker exits.
	errWrite.Close()

	handle := &Handle{
		pid:  cmd.Process.Pid,
		errs: newErrorChannel(errRead),
		done: make(chan struct{}),
	}

	s.mu.Lock()
	s.cmd = cmd
	s.handle = handle
	s.mu.Unlock()

	if stderr != nil {
		go s.stderrSink.HandleReader(stderr)
	}
	go s.reap(cmd, handle, startTime)

	s.setState(StateRunning)
	s.logger.Info("worker_started",
		"name", s.builder.Name(),
		"pid", handle.pid,
		"port", port,
	)
	if s.callbacks.OnStart != nil {
		s.callbacks.OnStart(handle.pid)
	}
	return handle, nil
}

// reap waits for the worker to exit and records its exit code on the handle.
func (s *Supervisor) reap(cmd *exec.Cmd, handle *Handle, startTime time.Time) {
	waitErr := cmd.Wait()
	uptime := time.Since(startTime)
	handle.exitCode = extractExitCode(waitErr)
	close(handle.done)

	s.logger.Info("worker_exited",
		"pid", handle.pid,
		"exit_code", handle.exitCode,
		"uptime", uptime.String(),
	)
	if s.callbacks.OnExit != nil {
		s.callbacks.OnExit(handle.exitCode, uptime)
	}
}

// Stop terminates the worker: SIGTERM to its process group, a bounded wait
// for graceful exit, SIGKILL if it is still alive, then an unconditional
// reap. Stop is idempotent: calling it in Idle or Stopped state is a no-op.
// A graceful-shutdown timeout is recovered by escalation and only logged,
// never surfaced as an error.
func (s *Supervisor) Stop() {
	s.mu.Lock()
	if !s.state.IsActive() || s.handle == nil {
		s.mu.Unlock()
		return
	}
	cmd := s.cmd
	handle := s.handle
	s.mu.Unlock()

	s.setState(StateStopping)

	if handle.Alive() && cmd != nil && cmd.Process != nil {
		signalGroup(cmd, syscall.SIGTERM)

		select {
		case <-handle.done:
		case <-time.After(s.gracePeriod):
			s.logger.Warn("graceful_shutdown_timeout",
				"pid", handle.pid,
				"grace_period", s.gracePeriod.String(),
			)
			signalGroup(cmd, syscall.SIGKILL)
		}
		// Block until the reaper has collected the exit status.
		<-handle.done
	}

	s.mu.Lock()
	s.cmd = nil
	s.mu.Unlock()

	s.setState(StateStopped)
	s.logger.Info("worker_stopped", "pid", handle.pid)
}

// State returns the current supervisor state.
func (s *Supervisor) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Handle returns the current worker handle, or nil before the first Start.
func (s *Supervisor) Handle() *Handle {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.handle
}

// setState updates the state and calls the callback if registered.
func (s *Supervisor) setState(newState State) {
	s.mu.Lock()
	oldState := s.state
	s.state = newState
	s.mu.Unlock()

	if s.callbacks.OnStateChange != nil && oldState != newState {
		s.callbacks.OnStateChange(oldState, newState)
	}
}

// signalGroup signals the command's process group, falling back to the
// process itself when the group is gone.
func signalGroup(cmd *exec.Cmd, sig syscall.Signal) {
	pid := cmd.Process.Pid
	if pgid, err := syscall.Getpgid(pid); err == nil {
		_ = syscall.Kill(-pgid, sig)
	} else {
		_ = cmd.Process.Signal(sig)
	}
}

// extractExitCode extracts the exit code from a Wait() error.
func extractExitCode(err error) int {
	if err == nil {
		return 0
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		if status, ok := exitErr.Sys().(syscall.WaitStatus); ok {
			if status.Signaled() {
				// Signal exit: 128 + signal number
				return 128 + int(status.Signal())
			}
			return status.ExitStatus()
		}
	}

	// Unknown error, assume exit code 1
	return 1
}
