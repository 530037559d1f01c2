package port

import (
	"errors"
	"fmt"
	"net"
	"testing"
)

// reserveBlock finds a run of size consecutive free ports and returns the
// base. Tests occupy parts of the block themselves, so scanning it is
// deterministic regardless of what else runs on the machine.
func reserveBlock(t *testing.T, s *Scanner, size int) int {
	t.Helper()
	for base := 20000; base < 60000; base += size + 1 {
		free := true
		for p := base; p < base+size; p++ {
			if !s.IsFree(p) {
				free = false
				break
			}
		}
		if free {
			return base
		}
	}
	t.Fatalf("could not reserve a block of %d consecutive free ports", size)
	return 0
}

// occupy binds a listener on port and releases it when the test ends.
func occupy(t *testing.T, port int) {
	t.Helper()
	l, err := net.Listen("tcp", fmt.Sprintf("127.0.0.1:%d", port))
	if err != nil {
		t.Fatalf("occupy %d: %v", port, err)
	}
	t.Cleanup(func() { _ = l.Close() })
}

func TestFindFreeReturnsBindablePortInRange(t *testing.T) {
	s := NewScanner()
	base := reserveBlock(t, s, 10)

	got, err := s.FindFree(base, 10)
	if err != nil {
		t.Fatalf("FindFree: %v", err)
	}
	if got < base || got >= base+10 {
		t.Errorf("FindFree = %d, want in [%d, %d)", got, base, base+10)
	}

	// The port must be immediately bindable after the call returns.
	l, err := net.Listen("tcp", fmt.Sprintf("127.0.0.1:%d", got))
	if err != nil {
		t.Fatalf("returned port %d not bindable: %v", got, err)
	}
	_ = l.Close()
}

func TestFindFreeSkipsOccupiedPorts(t *testing.T) {
	s := NewScanner()
	base := reserveBlock(t, s, 10)

	// Occupy everything except base+4, mirroring the 8501..8511-with-8505-
	// free scenario without depending on those exact ports being free.
	for p := base; p < base+10; p++ {
		if p == base+4 {
			continue
		}
		occupy(t, p)
	}

	got, err := s.FindFree(base, 10)
	if err != nil {
		t.Fatalf("FindFree: %v", err)
	}
	if got != base+4 {
		t.Errorf("FindFree = %d, want %d", got, base+4)
	}
}

func TestFindFreeExhaustedRange(t *testing.T) {
	s := NewScanner()
	base := reserveBlock(t, s, 5)

	for p := base; p < base+5; p++ {
		occupy(t, p)
	}

	_, err := s.FindFree(base, 5)
	if !errors.Is(err, ErrNoFreePort) {
		t.Errorf("FindFree error = %v, want ErrNoFreePort", err)
	}
}

func TestIsFree(t *testing.T) {
	s := NewScanner()
	base := reserveBlock(t, s, 1)

	if !s.IsFree(base) {
		t.Errorf("IsFree(%d) = false for a reserved-free port", base)
	}

	occupy(t, base)
	if s.IsFree(base) {
		t.Errorf("IsFree(%d) = true for an occupied port", base)
	}
}

func TestFreeCount(t *testing.T) {
	s := NewScanner()
	base := reserveBlock(t, s, 4)

	occupy(t, base)
	occupy(t, base+1)

	if got := s.FreeCount(base, 4); got != 2 {
		t.Errorf("FreeCount = %d, want 2", got)
	}
}
