package supervisor

// Handle identifies a spawned worker process. It is created by Start and
// reaped by Stop (or by the worker exiting on its own); the supervisor
// exposes at most one live Handle at a time.
type Handle struct {
	pid  int
	errs *ErrorChannel

	// done is closed by the reaper goroutine after Wait returns; exitCode
	// is written before the close and must only be read after it.
	done     chan struct{}
	exitCode int
}

// PID returns the worker's process ID.
func (h *Handle) PID() int {
	return h.pid
}

// Alive reports whether the worker process has not yet exited and been
// reaped.
func (h *Handle) Alive() bool {
	select {
	case <-h.done:
		return false
	default:
		return true
	}
}

// ExitCode returns the worker's exit code. ok is false while the process is
// still running; that distinction is what separates "still starting, just
// slow" from "crashed" after a readiness timeout.
func (h *Handle) ExitCode() (code int, ok bool) {
	select {
	case <-h.done:
		return h.exitCode, true
	default:
		return 0, false
	}
}

// Errors returns the diagnostic channel for this worker.
func (h *Handle) Errors() *ErrorChannel {
	return h.errs
}

// Wait blocks until the worker has exited and been reaped.
func (h *Handle) Wait() {
	<-h.done
}
