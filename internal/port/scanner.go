// Package port finds free local TCP ports for the hosted UI server.
//
// The probe is a bind-then-release: a listener proves the port is currently
// free and is closed immediately. The claim is advisory only; nothing stops
// another process from taking the port before the worker binds it. That race
// surfaces as a worker startup failure and is handled by the launcher's
// generic failure path.
package port

import (
	"errors"
	"fmt"
	"net"
	"strconv"
)

// ErrNoFreePort is returned when every port in the scanned range is taken.
var ErrNoFreePort = errors.New("no free port in range")

// Scanner probes local TCP ports by bind-testing them.
//
// Defined as a struct rather than bare functions so the bind host is
// injectable and the scanner can be passed as a dependency in tests.
type Scanner struct {
	// Host is the address probes bind to. Empty means 127.0.0.1, matching
	// where the worker's server will listen.
	Host string
}

// NewScanner creates a Scanner probing the loopback interface.
func NewScanner() *Scanner {
	return &Scanner{Host: "127.0.0.1"}
}

func (s *Scanner) host() string {
	if s.Host == "" {
		return "127.0.0.1"
	}
	return s.Host
}

// IsFree reports whether a TCP listen on host:port currently succeeds.
// The probe listener is closed before returning.
func (s *Scanner) IsFree(p int) bool {
	l, err := net.Listen("tcp", net.JoinHostPort(s.host(), strconv.Itoa(p)))
	if err != nil {
		return false
	}
	_ = l.Close()
	return true
}

// FindFree returns the first bindable port in [start, start+rangeSize),
// scanning ascending. The scan is deterministic and idempotent given stable
// system state: no retries, no randomization.
func (s *Scanner) FindFree(start, rangeSize int) (int, error) {
	for p := start; p < start+rangeSize; p++ {
		if p < 1 || p > 65535 {
			continue
		}
		if s.IsFree(p) {
			return p, nil
		}
	}
	return 0, fmt.Errorf("%w: %d-%d", ErrNoFreePort, start, start+rangeSize-1)
}

// FreeCount reports how many ports in [start, start+rangeSize) are currently
// bindable. Used by preflight.
func (s *Scanner) FreeCount(start, rangeSize int) int {
	n := 0
	for p := start; p < start+rangeSize; p++ {
		if p >= 1 && p <= 65535 && s.IsFree(p) {
			n++
		}
	}
	return n
}
