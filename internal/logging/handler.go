package logging

import (
	"bufio"
	"context"
	"io"
	"log/slog"
	"strings"
	"sync"
)

const (
	// MaxLineLength is the maximum length of a single worker output line
	// before truncation.
	MaxLineLength = 4096

	// MaxBufferedLines is the number of recent worker lines retained for
	// the startup-failure report.
	MaxBufferedLines = 100
)

// WorkerOutputHandler consumes the worker process's stderr stream. It
// buffers recent lines so a readiness failure can be reported together with
// what the server last printed, and forwards lines to the logger.
type WorkerOutputHandler struct {
	logger  *slog.Logger
	verbose bool

	// Circular buffer of recent lines.
	buffer []string
	bufIdx int
	mu     sync.Mutex
}

// NewWorkerOutputHandler creates a handler for the worker's stderr.
func NewWorkerOutputHandler(logger *slog.Logger, verbose bool) *WorkerOutputHandler {
	return &WorkerOutputHandler{
		logger:  logger,
		verbose: verbose,
		buffer:  make([]string, MaxBufferedLines),
	}
}

// HandleReader reads from r and processes each line. Run in a goroutine;
// it returns when the worker closes its stderr. Lines longer than
// MaxLineLength are truncated, never fatal: the reader must survive panic
// stack traces and other oversized output without going dark.
func (h *WorkerOutputHandler) HandleReader(r io.Reader) {
	br := bufio.NewReaderSize(r, MaxLineLength)
	for {
		chunk, isPrefix, err := br.ReadLine()
		if err != nil {
			return
		}
		line := string(chunk)
		if isPrefix {
			line += "...(truncated)"
			// Discard the remainder of the oversized line.
			for isPrefix && err == nil {
				_, isPrefix, err = br.ReadLine()
			}
		}
		h.HandleLine(line)
		if err != nil {
			return
		}
	}
}

// HandleLine processes a single line of worker output.
func (h *WorkerOutputHandler) HandleLine(line string) {
	if len(line) > MaxLineLength {
		line = line[:MaxLineLength] + "...(truncated)"
	}

	h.mu.Lock()
	h.buffer[h.bufIdx] = line
	h.bufIdx = (h.bufIdx + 1) % MaxBufferedLines
	h.mu.Unlock()

	level := classifyLine(line)
	if !h.verbose && level == slog.LevelDebug {
		return
	}
	h.logger.Log(context.Background(), level, "worker_output", "line", line)
}

// classifyLine determines the log level for a worker line based on content.
func classifyLine(line string) slog.Level {
	lower := strings.ToLower(line)

	if strings.Contains(lower, "panic:") ||
		strings.Contains(lower, "address already in use") ||
		strings.Contains(lower, "bind:") ||
		strings.Contains(lower, "permission denied") {
		return slog.LevelWarn
	}

	if strings.Contains(lower, "error") || strings.Contains(lower, "warn") {
		return slog.LevelWarn
	}

	return slog.LevelDebug
}

// RecentLines returns up to n of the most recent lines, oldest first.
func (h *WorkerOutputHandler) RecentLines(n int) []string {
	h.mu.Lock()
	defer h.mu.Unlock()

	if n > MaxBufferedLines {
		n = MaxBufferedLines
	}

	lines := make([]string, 0, n)
	for i := 0; i < n; i++ {
		idx := (h.bufIdx - n + i + MaxBufferedLines) % MaxBufferedLines
		if h.buffer[idx] != "" {
			lines = append(lines, h.buffer[idx])
		}
	}
	return lines
}
