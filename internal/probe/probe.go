// Package probe implements TCP readiness polling for the worker's UI server.
//
// A bare TCP connect succeeding on the server's port is the sole readiness
// signal; there is no application-level health payload. Dial failures of any
// kind (connection refused included) mean "not ready yet". The only terminal
// outcomes are ready and timed out.
package probe

import (
	"context"
	"net"
	"strconv"
	"time"

	"github.com/influxdata/tdigest"
)

const (
	// DefaultInterval is the fixed backoff between connect attempts.
	DefaultInterval = 500 * time.Millisecond

	// DefaultDialTimeout bounds a single connect attempt.
	DefaultDialTimeout = time.Second
)

// Prober polls a TCP port until a connection succeeds or a deadline elapses.
// It records per-attempt dial latency so slow startups can be diagnosed
// after the fact.
type Prober struct {
	Host        string
	Interval    time.Duration
	DialTimeout time.Duration

	attempts int
	latency  *tdigest.TDigest
}

// New creates a Prober targeting the loopback interface with default timing.
func New() *Prober {
	return &Prober{
		Host:        "127.0.0.1",
		Interval:    DefaultInterval,
		DialTimeout: DefaultDialTimeout,
		latency:     tdigest.NewWithCompression(100),
	}
}

// Wait polls host:port until a TCP connect succeeds or timeout elapses.
// Returns true as soon as a connection is accepted, false once elapsed
// wall-clock time exceeds timeout or ctx is cancelled. There is no other
// cancellation: terminating the worker is the caller's only abort primitive.
func (p *Prober) Wait(ctx context.Context, port int, timeout time.Duration) bool {
	addr := net.JoinHostPort(p.Host, strconv.Itoa(port))
	deadline := time.Now().Add(timeout)

	for {
		if ctx.Err() != nil {
			return false
		}

		start := time.Now()
		conn, err := net.DialTimeout("tcp", addr, p.DialTimeout)
		p.attempts++
		if p.latency != nil {
			p.latency.Add(time.Since(start).Seconds(), 1)
		}
		if err == nil {
			_ = conn.Close()
			return true
		}

		if !time.Now().Before(deadline) {
			return false
		}

		select {
		case <-ctx.Done():
			return false
		case <-time.After(p.Interval):
		}
	}
}

// Report summarizes connect attempts for debug logging.
type Report struct {
	Attempts int
	P50      time.Duration
	P95      time.Duration
	Max      time.Duration
}

// Report returns latency percentiles across all attempts so far.
func (p *Prober) Report() Report {
	r := Report{Attempts: p.attempts}
	if p.latency == nil || p.attempts == 0 {
		return r
	}
	r.P50 = secondsToDuration(p.latency.Quantile(0.5))
	r.P95 = secondsToDuration(p.latency.Quantile(0.95))
	r.Max = secondsToDuration(p.latency.Quantile(1.0))
	return r
}

func secondsToDuration(s float64) time.Duration {
	if s < 0 {
		return 0
	}
	return time.Duration(s * float64(time.Second))
}
