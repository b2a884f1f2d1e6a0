// Package tic runs Risor cartridge code against a fantasy console host. A
// Runtime owns at most one guest instance at a time, exposes the console
// operations to it, and triggers the cartridge's callbacks (TIC, BOOT, SCN,
// BDR and MENU) on behalf of the host's frame loop.
package tic

import (
	"context"
	"errors"
	"fmt"

	"github.com/gofrs/uuid"
	"github.com/rs/zerolog"

	"github.com/risor-io/tic/host"
)

var (
	// ErrBusy is returned when the runtime is asked to run code while guest
	// code is already executing on it.
	ErrBusy = errors.New("runtime is busy executing guest code")

	// ErrClosed is raised inside guest code when an operation is called on
	// an instance that has been closed or replaced.
	ErrClosed = errors.New("runtime instance is closed")

	// ErrTickNotFound is reported when the cartridge defines no TIC function.
	ErrTickNotFound = errors.New("TIC() isn't found :(")
)

// Runtime hosts cartridge code for one console host.
type Runtime struct {
	host     host.API
	cfg      *config
	reporter Reporter
	log      zerolog.Logger
	state    lifecycle
	inst     *instance
}

// New returns a Runtime bound to h. No guest instance exists until
// Initialize is called.
func New(h host.API, opts ...Option) *Runtime {
	cfg := newConfig(opts...)
	r := &Runtime{
		host: h,
		cfg:  cfg,
		log:  cfg.logger,
	}
	if cfg.filename != "" {
		r.log = r.log.With().Str("file", cfg.filename).Logger()
	}
	r.reporter = cfg.reporter
	if r.reporter == nil {
		r.reporter = defaultReporter(h, r.log)
	}
	return r
}

// State returns the lifecycle state of the runtime's instance. An instance
// destroyed because another runtime initialized is reported as closed.
func (r *Runtime) State() State {
	s := r.state.load()
	if r.inst != nil && r.inst.closed && !s.busy() {
		return StateClosed
	}
	return s
}

// InstanceID returns the id of the current instance, or uuid.Nil.
func (r *Runtime) InstanceID() uuid.UUID {
	if inst := r.current(); inst != nil {
		return inst.id
	}
	return uuid.Nil
}

// current returns the runtime's instance if it is still live.
func (r *Runtime) current() *instance {
	if r.inst == nil || !instances.isLive(r.inst) {
		return nil
	}
	return r.inst
}

// Initialize destroys any existing instance, creates a new one and evaluates
// code in it. A failure is reported and returned; the partially initialized
// instance is kept so callbacks defined before the failure remain callable.
func (r *Runtime) Initialize(ctx context.Context, code string) error {
	if _, ok := r.state.enter(StateInitializing); !ok {
		return ErrBusy
	}
	r.destroy()

	inst, err := r.create()
	if err != nil {
		r.state.store(StateClosed)
		r.report(err, SeverityError)
		return fmt.Errorf("create instance: %w", err)
	}
	r.inst = inst

	_, err = inst.guest.eval(ctx, code)
	r.state.store(StateReady)
	if err != nil {
		r.log.Error().Err(err).Str("instance", inst.id.String()).Msg("cartridge failed to load")
		r.report(err, SeverityError)
		return err
	}
	return nil
}

func (r *Runtime) create() (*instance, error) {
	id, err := uuid.NewV4()
	if err != nil {
		return nil, err
	}
	inst := &instance{id: id, host: r.host}
	operations := r.cfg.table.Bind(func() (host.API, error) {
		return instances.resolve(inst)
	})
	g, err := newGuest(guestGlobals(r.cfg, operations))
	if err != nil {
		return nil, err
	}
	inst.guest = g
	if prev := instances.acquire(inst); prev != nil {
		r.log.Debug().Str("instance", prev.id.String()).Msg("instance replaced")
	}
	r.log.Debug().Str("instance", id.String()).Msg("instance created")
	return inst, nil
}

func (r *Runtime) destroy() {
	if r.inst == nil {
		return
	}
	if instances.release(r.inst) {
		r.log.Debug().Str("instance", r.inst.id.String()).Msg("instance closed")
	}
}

// Close destroys the current instance. It is a no-op when there is none,
// and fails with ErrBusy when called from inside guest code.
func (r *Runtime) Close() error {
	prev, ok := r.state.enter(StateClosed)
	if !ok {
		return ErrBusy
	}
	if r.inst == nil && prev == StateUninitialized {
		r.state.store(StateUninitialized)
		return nil
	}
	r.destroy()
	return nil
}

// Evaluate runs code in the existing instance, keeping its globals. Without
// an instance it does nothing. Failures are reported and returned; the
// instance is left as it is.
func (r *Runtime) Evaluate(ctx context.Context, code string) error {
	inst := r.current()
	if inst == nil {
		return nil
	}
	if _, ok := r.state.enter(StateEvaluating); !ok {
		return ErrBusy
	}
	defer r.state.store(StateReady)

	if _, err := inst.guest.eval(ctx, code); err != nil {
		r.log.Debug().Err(err).Str("instance", inst.id.String()).Msg("evaluation failed")
		r.report(err, SeverityError)
		return err
	}
	return nil
}

func (r *Runtime) report(err error, severity Severity) {
	r.reporter.Report(ErrorMessage(err), severity)
}
