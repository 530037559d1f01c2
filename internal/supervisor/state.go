// Package supervisor owns the lifecycle of the UI-server worker process.
package supervisor

// State represents the supervisor lifecycle.
type State int

const (
	// StateIdle is the initial state: no worker has been spawned.
	StateIdle State = iota

	// StateStarting indicates the worker process is being spawned.
	StateStarting

	// StateRunning indicates the worker process exists. It says nothing
	// about readiness; polling the server port is the caller's job.
	StateRunning

	// StateStopping indicates the termination protocol is in progress.
	StateStopping

	// StateStopped indicates the worker has exited and been reaped.
	StateStopped
)

// String returns a human-readable name for the state.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateStarting:
		return "starting"
	case StateRunning:
		return "running"
	case StateStopping:
		return "stopping"
	case StateStopped:
		return "stopped"
	default:
		return "unknown"
	}
}

// IsActive returns true if a worker process may exist in this state.
func (s State) IsActive() bool {
	return s == StateStarting || s == StateRunning || s == StateStopping
}

// IsTerminal returns true once the worker has been reaped.
func (s State) IsTerminal() bool {
	return s == StateStopped
}
