package tic

import "sync/atomic"

// State is the lifecycle state of a Runtime's guest instance.
type State int32

const (
	StateUninitialized State = iota
	StateInitializing
	StateReady
	StateEvaluating
	StateClosed
)

func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateInitializing:
		return "initializing"
	case StateReady:
		return "ready"
	case StateEvaluating:
		return "evaluating"
	case StateClosed:
		return "closed"
	default:
		return "unknown"
	}
}

// busy reports whether guest code is executing in this state.
func (s State) busy() bool {
	return s == StateInitializing || s == StateEvaluating
}

// lifecycle holds a State that is switched atomically, so a call made from
// inside guest code observes that the runtime is busy.
type lifecycle struct {
	state atomic.Int32
}

func (l *lifecycle) load() State {
	return State(l.state.Load())
}

func (l *lifecycle) store(s State) {
	l.state.Store(int32(s))
}

// enter moves to next unless guest code is already executing. It returns the
// state that was replaced.
func (l *lifecycle) enter(next State) (State, bool) {
	for {
		prev := l.load()
		if prev.busy() {
			return prev, false
		}
		if l.state.CompareAndSwap(int32(prev), int32(next)) {
			return prev, true
		}
	}
}
