package supervisor

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"syscall"
	"testing"
	"time"
)

// =============================================================================
// Mock WorkerBuilder for testing
// =============================================================================

// scriptBuilder runs a shell script with the error channel wired to fd 3,
// the same contract the real worker builder provides.
type scriptBuilder struct {
	script     string
	buildError error
}

func (b *scriptBuilder) BuildCommand(ctx context.Context, port int, errFile *os.File) (*exec.Cmd, error) {
	if b.buildError != nil {
		return nil, b.buildError
	}
	cmd := exec.CommandContext(ctx, "sh", "-c", b.script)
	cmd.ExtraFiles = []*os.File{errFile}
	cmd.Env = append(os.Environ(), fmt.Sprintf("PORT=%d", port))
	return cmd, nil
}

func (b *scriptBuilder) Name() string { return "script" }

// missingBinaryBuilder builds a command whose binary does not exist, so
// cmd.Start itself fails.
type missingBinaryBuilder struct{}

func (b *missingBinaryBuilder) BuildCommand(ctx context.Context, port int, errFile *os.File) (*exec.Cmd, error) {
	cmd := exec.CommandContext(ctx, "/nonexistent/deskwing-worker")
	cmd.ExtraFiles = []*os.File{errFile}
	return cmd, nil
}

func (b *missingBinaryBuilder) Name() string { return "missing" }

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestSupervisor(builder WorkerBuilder, grace time.Duration) *Supervisor {
	return New(Config{
		Builder:     builder,
		Logger:      testLogger(),
		GracePeriod: grace,
	})
}

// =============================================================================
// Tests
// =============================================================================

func TestStartStop(t *testing.T) {
	s := newTestSupervisor(&scriptBuilder{script: "sleep 60"}, 2*time.Second)

	handle, err := s.Start(context.Background(), 18500)
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	if !handle.Alive() {
		t.Fatal("worker not alive after Start")
	}
	if got := s.State(); got != StateRunning {
		t.Errorf("state = %v, want running", got)
	}

	start := time.Now()
	s.Stop()

	if handle.Alive() {
		t.Error("worker still alive after Stop")
	}
	if got := s.State(); got != StateStopped {
		t.Errorf("state = %v, want stopped", got)
	}
	// sleep dies on SIGTERM, so Stop must return well inside the grace
	// period.
	if elapsed := time.Since(start); elapsed > time.Second {
		t.Errorf("Stop took %v, want prompt graceful exit", elapsed)
	}
}

func TestStopIdleIsNoOp(t *testing.T) {
	s := newTestSupervisor(&scriptBuilder{script: "true"}, time.Second)

	// Must not panic or reference any process.
	s.Stop()
	if got := s.State(); got != StateIdle {
		t.Errorf("state = %v after Stop on idle, want idle", got)
	}
}

func TestStopIsIdempotent(t *testing.T) {
	s := newTestSupervisor(&scriptBuilder{script: "sleep 60"}, 2*time.Second)

	if _, err := s.Start(context.Background(), 18501); err != nil {
		t.Fatalf("Start: %v", err)
	}
	s.Stop()
	s.Stop()
	if got := s.State(); got != StateStopped {
		t.Errorf("state = %v, want stopped", got)
	}
}

func TestStartWhileRunning(t *testing.T) {
	s := newTestSupervisor(&scriptBuilder{script: "sleep 60"}, 2*time.Second)

	if _, err := s.Start(context.Background(), 18502); err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer s.Stop()

	if _, err := s.Start(context.Background(), 18503); !errors.Is(err, ErrAlreadyRunning) {
		t.Errorf("second Start error = %v, want ErrAlreadyRunning", err)
	}
}

func TestStartAfterStop(t *testing.T) {
	s := newTestSupervisor(&scriptBuilder{script: "sleep 60"}, 2*time.Second)

	if _, err := s.Start(context.Background(), 18504); err != nil {
		t.Fatalf("first Start: %v", err)
	}
	s.Stop()

	handle, err := s.Start(context.Background(), 18505)
	if err != nil {
		t.Fatalf("Start after Stop: %v", err)
	}
	defer s.Stop()
	if !handle.Alive() {
		t.Error("second worker not alive")
	}
}

func TestWorkerStartupFailure(t *testing.T) {
	// Worker pushes a diagnostic onto fd 3 and exits with the
	// distinguished startup-failure code.
	s := newTestSupervisor(&scriptBuilder{script: "echo boom >&3; exit 2"}, time.Second)

	handle, err := s.Start(context.Background(), 18506)
	if err != nil {
		t.Fatalf("Start: %v", err)
	}

	handle.Wait()

	code, ok := handle.ExitCode()
	if !ok {
		t.Fatal("ExitCode not available after Wait")
	}
	if code != ExitStartupFailure {
		t.Errorf("exit code = %d, want %d", code, ExitStartupFailure)
	}

	diags := handle.Errors().Drain()
	if len(diags) != 1 || diags[0] != "boom" {
		t.Errorf("diagnostics = %q, want [boom]", diags)
	}

	// Reap the dead worker; must not error or hang.
	s.Stop()
}

func TestExitCodeUnavailableWhileRunning(t *testing.T) {
	s := newTestSupervisor(&scriptBuilder{script: "sleep 60"}, 2*time.Second)

	handle, err := s.Start(context.Background(), 18507)
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	defer s.Stop()

	if _, ok := handle.ExitCode(); ok {
		t.Error("ExitCode available while the worker is still running")
	}
}

func TestSpawnFailureLeavesIdle(t *testing.T) {
	s := newTestSupervisor(&missingBinaryBuilder{}, time.Second)

	if _, err := s.Start(context.Background(), 18508); err == nil {
		t.Fatal("Start succeeded with a missing binary")
	}
	if got := s.State(); got != StateIdle {
		t.Errorf("state = %v after spawn failure, want idle", got)
	}
	if s.Handle() != nil {
		t.Error("handle exposed after spawn failure")
	}
}

func TestBuildFailurePropagates(t *testing.T) {
	buildErr := errors.New("no executable")
	s := newTestSupervisor(&scriptBuilder{buildError: buildErr}, time.Second)

	if _, err := s.Start(context.Background(), 18509); !errors.Is(err, buildErr) {
		t.Errorf("Start error = %v, want %v", err, buildErr)
	}
	if got := s.State(); got != StateIdle {
		t.Errorf("state = %v, want idle", got)
	}
}

func TestStopEscalatesToKill(t *testing.T) {
	// Trap and ignore SIGTERM so only SIGKILL can end the worker.
	s := newTestSupervisor(&scriptBuilder{script: `trap "" TERM; sleep 60`}, 300*time.Millisecond)

	handle, err := s.Start(context.Background(), 18510)
	if err != nil {
		t.Fatalf("Start: %v", err)
	}

	// Give sh a moment to install the trap.
	time.Sleep(100 * time.Millisecond)

	start := time.Now()
	s.Stop()
	elapsed := time.Since(start)

	if handle.Alive() {
		t.Error("worker alive after forced kill")
	}
	if elapsed < 300*time.Millisecond {
		t.Errorf("Stop returned in %v, before the grace period elapsed", elapsed)
	}
	if elapsed > 3*time.Second {
		t.Errorf("Stop took %v, forced kill should be prompt", elapsed)
	}

	code, ok := handle.ExitCode()
	if !ok {
		t.Fatal("ExitCode not available after Stop")
	}
	if code != 128+int(syscall.SIGKILL) {
		t.Errorf("exit code = %d, want %d (SIGKILL)", code, 128+int(syscall.SIGKILL))
	}
}

func TestCallbacks(t *testing.T) {
	var started bool
	var transitions []string
	exited := make(chan struct{})

	s := New(Config{
		Builder:     &scriptBuilder{script: "true"},
		Logger:      testLogger(),
		GracePeriod: time.Second,
		Callbacks: Callbacks{
			OnStateChange: func(oldState, newState State) {
				transitions = append(transitions, oldState.String()+">"+newState.String())
			},
			OnStart: func(pid int) {
				if pid <= 0 {
					t.Errorf("OnStart pid = %d", pid)
				}
				started = true
			},
			OnExit: func(code int, uptime time.Duration) { close(exited) },
		},
	})

	handle, err := s.Start(context.Background(), 18511)
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	handle.Wait()

	if !started {
		t.Error("OnStart not called")
	}
	select {
	case <-exited:
	case <-time.After(2 * time.Second):
		t.Error("OnExit not called")
	}

	s.Stop()
	if len(transitions) == 0 || transitions[0] != "idle>starting" {
		t.Errorf("transitions = %v, want idle>starting first", transitions)
	}
}

func TestExtractExitCode(t *testing.T) {
	if got := extractExitCode(nil); got != 0 {
		t.Errorf("extractExitCode(nil) = %d, want 0", got)
	}
	if got := extractExitCode(errors.New("arbitrary")); got != 1 {
		t.Errorf("extractExitCode(arbitrary) = %d, want 1", got)
	}

	// Real non-zero exit.
	cmd := exec.Command("sh", "-c", "exit 7")
	err := cmd.Run()
	if got := extractExitCode(err); got != 7 {
		t.Errorf("extractExitCode(exit 7) = %d, want 7", got)
	}
}

func TestStateStrings(t *testing.T) {
	tests := []struct {
		state State
		want  string
	}{
		{StateIdle, "idle"},
		{StateStarting, "starting"},
		{StateRunning, "running"},
		{StateStopping, "stopping"},
		{StateStopped, "stopped"},
		{State(99), "unknown"},
	}
	for _, tt := range tests {
		if got := tt.state.String(); got != tt.want {
			t.Errorf("State(%d).String() = %q, want %q", tt.state, got, tt.want)
		}
	}

	if StateIdle.IsActive() || StateStopped.IsActive() {
		t.Error("idle/stopped reported active")
	}
	if !StateRunning.IsActive() {
		t.Error("running not reported active")
	}
	if !StateStopped.IsTerminal() {
		t.Error("stopped not terminal")
	}
}
