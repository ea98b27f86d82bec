package sched

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// DefaultTickInterval is the nominal hardware tick period.
const DefaultTickInterval = time.Millisecond

// Ticker drives a tick callback at a fixed interval from its own goroutine,
// standing in for the hardware timer interrupt on a hosted target.
type Ticker struct {
	interval time.Duration

	mu      sync.Mutex
	ctx     context.Context
	cancel  context.CancelFunc
	done    chan struct{}
	running bool
}

// NewTicker creates a tick source. An interval of 0 selects
// DefaultTickInterval.
func NewTicker(interval time.Duration) *Ticker {
	if interval <= 0 {
		interval = DefaultTickInterval
	}
	return &Ticker{interval: interval}
}

// Interval returns the configured tick period.
func (tk *Ticker) Interval() time.Duration {
	return tk.interval
}

// Start begins invoking fn once per interval until Stop is called.
func (tk *Ticker) Start(fn func()) error {
	tk.mu.Lock()
	defer tk.mu.Unlock()

	if tk.running {
		return fmt.Errorf("ticker already started")
	}
	if fn == nil {
		return fmt.Errorf("nil tick callback")
	}

	tk.ctx, tk.cancel = context.WithCancel(context.Background())
	tk.done = make(chan struct{})
	tk.running = true

	go tk.loop(tk.ctx, tk.done, fn)

	return nil
}

// Stop halts the tick stream and waits for the tick goroutine to exit.
// Stopping a ticker that was never started is a no-op.
func (tk *Ticker) Stop() error {
	tk.mu.Lock()
	if !tk.running {
		tk.mu.Unlock()
		return nil
	}
	tk.cancel()
	tk.running = false
	done := tk.done
	tk.mu.Unlock()

	<-done
	return nil
}

func (tk *Ticker) loop(ctx context.Context, done chan struct{}, fn func()) {
	defer close(done)

	ticker := time.NewTicker(tk.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			fn()
		}
	}
}
