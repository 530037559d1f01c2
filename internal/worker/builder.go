// Package worker implements both sides of the process boundary: the Builder
// the supervisor uses to spawn the UI-server process, and Run, the entry
// point executed inside that process.
//
// The worker is the current binary re-executed with a hidden subcommand.
// Re-execution gives it a fully fresh runtime; the only links back to the
// parent are the error pipe on fd 3, the exit code, and liveness.
package worker

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"strconv"
)

// SubcommandServeUI is the hidden argv[1] that switches the binary into
// worker mode.
const SubcommandServeUI = "serve-ui"

// errorFDEnv tells the worker which file descriptor carries the error
// channel.
const errorFDEnv = "DESKWING_ERROR_FD"

// Builder builds the re-exec command that hosts the UI server. It
// implements supervisor.WorkerBuilder.
type Builder struct {
	// ConfigPath is forwarded so the worker renders the same menu and
	// theme the parent validated.
	ConfigPath string

	// Verbose forwards debug logging into the worker.
	Verbose bool
}

// Name returns "ui-server".
func (b *Builder) Name() string { return "ui-server" }

// BuildCommand creates the worker command for the given port. errFile is
// wired as ExtraFiles[0], which the child sees as fd 3.
func (b *Builder) BuildCommand(ctx context.Context, port int, errFile *os.File) (*exec.Cmd, error) {
	exe, err := os.Executable()
	if err != nil {
		return nil, fmt.Errorf("locate executable: %w", err)
	}

	args := []string{SubcommandServeUI, "-port", strconv.Itoa(port)}
	if b.ConfigPath != "" {
		args = append(args, "-config", b.ConfigPath)
	}
	if b.Verbose {
		args = append(args, "-v")
	}

	cmd := exec.CommandContext(ctx, exe, args...)
	cmd.ExtraFiles = []*os.File{errFile}
	cmd.Env = append(os.Environ(), errorFDEnv+"=3")
	return cmd, nil
}
