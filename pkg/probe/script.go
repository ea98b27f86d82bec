package probe

import (
	"fmt"
	"sync"
)

// Script replays a fixed sequence of raw counts, one per ReadRaw, and records
// the channel of every acquisition. It is the deterministic stand-in for
// hardware used throughout the tests.
type Script struct {
	mu         sync.Mutex
	values     []uint16
	idx        int
	calls      []uint32
	configured bool
}

// NewScript creates a scripted source that will serve the given counts in
// order.
func NewScript(values ...uint16) *Script {
	return &Script{values: values}
}

// Configure rewinds the script.
func (sc *Script) Configure() error {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	sc.idx = 0
	sc.calls = nil
	sc.configured = true
	return nil
}

// ReadRaw returns the next scripted count. Reading past the end of the
// script is an error, so a test notices an unexpected extra acquisition.
func (sc *Script) ReadRaw(channel uint32) (uint16, error) {
	if channel > MaxChannel {
		return 0, ErrChannelRange
	}

	sc.mu.Lock()
	defer sc.mu.Unlock()

	if !sc.configured {
		return 0, ErrNotConnected
	}
	if sc.idx >= len(sc.values) {
		return 0, fmt.Errorf("script exhausted after %d reads", len(sc.values))
	}

	sc.calls = append(sc.calls, channel)
	v := sc.values[sc.idx]
	sc.idx++

	return v, nil
}

// Close ends the script.
func (sc *Script) Close() error {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	sc.configured = false
	return nil
}

// Calls returns the channels observed so far, in acquisition order.
func (sc *Script) Calls() []uint32 {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	out := make([]uint32, len(sc.calls))
	copy(out, sc.calls)
	return out
}

// Reads returns how many acquisitions have been served.
func (sc *Script) Reads() int {
	sc.mu.Lock()
	defer sc.mu.Unlock()
	return len(sc.calls)
}
