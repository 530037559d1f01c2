package supervisor

import (
	"bufio"
	"os"
)

const (
	// maxDiagnosticLine bounds a single diagnostic message.
	maxDiagnosticLine = 4096

	// errorChannelDepth bounds retained diagnostics. The worker sends at
	// most a handful of lines before exiting.
	errorChannelDepth = 16
)

// ErrorChannel is the one-shot diagnostic conduit from the worker to the
// parent. The worker writes newline-terminated strings to its end of the
// pipe (fd 3); the parent drains them after a readiness timeout or crash.
// Its lifetime is bound to a single Handle.
type ErrorChannel struct {
	r    *os.File
	msgs chan string
	done chan struct{}
}

func newErrorChannel(r *os.File) *ErrorChannel {
	ec := &ErrorChannel{
		r:    r,
		msgs: make(chan string, errorChannelDepth),
		done: make(chan struct{}),
	}
	go ec.read()
	return ec
}

// read pumps pipe lines into the message buffer until the worker's end of
// the pipe closes (worker exit). Oversized lines are truncated, not fatal,
// so one runaway diagnostic cannot silence the channel.
func (ec *ErrorChannel) read() {
	defer close(ec.done)
	defer ec.r.Close()

	br := bufio.NewReaderSize(ec.r, maxDiagnosticLine)
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
		if line != "" {
			select {
			case ec.msgs <- line:
			default:
				// Buffer full; newer diagnostics are dropped. The first
				// messages are the ones that describe the root cause.
			}
		}
		if err != nil {
			return
		}
	}
}

// Drain returns all diagnostics received so far without blocking.
func (ec *ErrorChannel) Drain() []string {
	var out []string
	for {
		select {
		case m := <-ec.msgs:
			out = append(out, m)
		default:
			return out
		}
	}
}

// Closed reports whether the worker's end of the pipe has been closed.
func (ec *ErrorChannel) Closed() bool {
	select {
	case <-ec.done:
		return true
	default:
		return false
	}
}
