// Package sched implements a time-triggered cooperative scheduler: a fixed
// table of periodic tasks activated by a hardware-style tick callback and
// dispatched to completion, one at a time, by a foreground loop.
package sched

import (
	"context"
	"fmt"
	"runtime"
	"sync/atomic"
)

// State describes where a task is in its activation cycle.
type State uint32

const (
	// Standby means the task is waiting for its period to elapse.
	Standby State = iota
	// Ready means the tick handler armed the task for the next dispatch scan.
	Ready
	// Execute means the dispatch loop is currently running the task's handler.
	Execute
)

var stateNames = [...]string{"STANDBY", "READY", "EXECUTE"}

func (s State) String() string {
	if int(s) < len(stateNames) {
		return stateNames[s]
	}
	return fmt.Sprintf("State(%d)", uint32(s))
}

// Task is one cooperatively scheduled unit of work. Period is the activation
// rate in ticks and must be positive. Handlers run to completion on every
// activation and must be bounded well below the shortest period in the table;
// a handler that never returns starves the whole scheduler.
type Task struct {
	Name    string
	Period  uint32
	Handler func()

	// state is the activation record shared between the tick context and the
	// dispatch loop. It is the only cross-context field.
	state atomic.Uint32

	// elapsed counts ticks since the last activation. Owned exclusively by
	// the tick handler.
	elapsed uint32
}

// State reports the task's current activation state.
func (t *Task) State() State {
	return State(t.state.Load())
}

// Scheduler owns a fixed task table. Construct once at startup with New;
// tasks cannot be added or removed afterwards.
type Scheduler struct {
	tasks []Task
	idle  func()

	ticks    atomic.Uint64
	cycles   atomic.Uint64
	overruns atomic.Uint64
}

// Option customizes a Scheduler at construction time.
type Option func(*Scheduler)

// WithIdle sets the action the dispatch loop performs for every table slot
// that is not READY during a scan. The default yields the processor.
func WithIdle(fn func()) Option {
	return func(s *Scheduler) {
		if fn != nil {
			s.idle = fn
		}
	}
}

// New creates a scheduler from a fixed task table. The table is copied and
// owned by the scheduler; all tasks start in STANDBY with a zero elapsed
// count.
func New(tasks []Task, opts ...Option) (*Scheduler, error) {
	if len(tasks) == 0 {
		return nil, fmt.Errorf("sched: empty task table")
	}
	s := &Scheduler{
		tasks: make([]Task, len(tasks)),
		idle:  runtime.Gosched,
	}
	for i := range tasks {
		if tasks[i].Period == 0 {
			return nil, fmt.Errorf("sched: task %q has zero period", tasks[i].Name)
		}
		if tasks[i].Handler == nil {
			return nil, fmt.Errorf("sched: task %q has no handler", tasks[i].Name)
		}
		s.tasks[i].Name = tasks[i].Name
		s.tasks[i].Period = tasks[i].Period
		s.tasks[i].Handler = tasks[i].Handler
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Tick is the tick-callback contract: advance every task's elapsed counter
// and arm tasks whose period expired. It never invokes handlers and performs
// no allocation, so its execution time stays bounded regardless of what the
// dispatched tasks are doing. Call it from exactly one goroutine (the
// simulated interrupt context).
func (s *Scheduler) Tick() {
	for i := range s.tasks {
		t := &s.tasks[i]
		t.elapsed++
		if t.elapsed >= t.Period {
			t.elapsed = 0
			if State(t.state.Swap(uint32(Ready))) != Standby {
				// The task was still READY or mid-EXECUTE when its period
				// expired again. The activation is coalesced; the counter
				// makes the overrun visible.
				s.overruns.Add(1)
			}
		}
	}
	s.ticks.Add(1)
}

// Run is the foreground dispatch loop. It scans the task table in declaration
// order forever: READY tasks are moved to EXECUTE, their handler invoked
// synchronously, then returned to STANDBY; every other slot invokes the idle
// action. Run returns nil once ctx is cancelled, or an error if a handler
// panics.
func (s *Scheduler) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		default:
		}
		if err := s.scan(); err != nil {
			return err
		}
		s.cycles.Add(1)
	}
}

// scan performs one dispatch pass over the table in declaration order.
func (s *Scheduler) scan() error {
	for i := range s.tasks {
		t := &s.tasks[i]
		if t.state.CompareAndSwap(uint32(Ready), uint32(Execute)) {
			if err := s.invoke(t); err != nil {
				return err
			}
			t.state.Store(uint32(Standby))
		} else {
			s.idle()
		}
	}
	return nil
}

// invoke runs one handler, converting a panic into an error so a broken task
// surfaces as an explicit failure instead of silent corruption.
func (s *Scheduler) invoke(t *Task) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("sched: task %q panicked: %v", t.Name, r)
		}
	}()
	t.Handler()
	return nil
}

// Ticks returns the total number of Tick invocations. With a 1 ms tick source
// this doubles as the monotonic millisecond clock tasks feed into the
// sampling pipeline.
func (s *Scheduler) Ticks() uint64 {
	return s.ticks.Load()
}

// Cycles returns the number of completed full table scans.
func (s *Scheduler) Cycles() uint64 {
	return s.cycles.Load()
}

// Overruns returns how many activations were coalesced because a task was
// still pending or executing when its period expired again.
func (s *Scheduler) Overruns() uint64 {
	return s.overruns.Load()
}

// Len returns the size of the task table.
func (s *Scheduler) Len() int {
	return len(s.tasks)
}
