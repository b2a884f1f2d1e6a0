package tic

import (
	"fmt"
	"sync"

	"github.com/gofrs/uuid"

	"github.com/risor-io/tic/host"
)

// instance is one guest runtime: a compiler and VM pair bound to a host.
type instance struct {
	id     uuid.UUID
	host   host.API
	guest  *guest
	closed bool
}

// registry tracks the single live instance in the process. Bridge builtins
// carry no context of their own, so they look their host up here and fail
// once their instance has been replaced or closed.
type registry struct {
	mu    sync.Mutex
	live  *instance
	count int
}

var instances = &registry{}

// acquire makes next the live instance, destroying the previous one first.
// It returns the destroyed instance, if any.
func (r *registry) acquire(next *instance) *instance {
	r.mu.Lock()
	defer r.mu.Unlock()
	prev := r.live
	if prev != nil {
		r.destroyLocked(prev)
	}
	r.live = next
	r.count++
	r.checkLocked()
	return prev
}

// release destroys inst if it is still live. It reports whether anything
// was destroyed.
func (r *registry) release(inst *instance) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if inst == nil || inst.closed || r.live != inst {
		return false
	}
	r.destroyLocked(inst)
	r.checkLocked()
	return true
}

func (r *registry) destroyLocked(inst *instance) {
	inst.closed = true
	inst.guest = nil
	if r.live == inst {
		r.live = nil
		r.count--
	}
}

// resolve returns the host of inst, or ErrClosed when inst is no longer live.
func (r *registry) resolve(inst *instance) (host.API, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.live != inst || inst.closed {
		return nil, ErrClosed
	}
	return inst.host, nil
}

func (r *registry) isLive(inst *instance) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return inst != nil && r.live == inst && !inst.closed
}

// checkLocked enforces that at most one instance is reachable.
func (r *registry) checkLocked() {
	if r.count < 0 || r.count > 1 || (r.count == 1) != (r.live != nil) {
		panic(fmt.Sprintf("tic: instance registry corrupted (count=%d, live=%t)", r.count, r.live != nil))
	}
}

// LiveInstances returns the number of live guest instances in the process,
// which is always 0 or 1.
func LiveInstances() int {
	instances.mu.Lock()
	defer instances.mu.Unlock()
	return instances.count
}
