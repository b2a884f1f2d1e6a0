package tic

import (
	"context"

	"github.com/risor-io/risor/object"
)

// Slot identifies a callback the host triggers on a console event.
type Slot int

const (
	SlotTick Slot = iota
	SlotBoot
	SlotScanline
	SlotBorder
	SlotMenu
)

// Slots lists every callback slot.
var Slots = []Slot{SlotTick, SlotBoot, SlotScanline, SlotBorder, SlotMenu}

var slotNames = map[Slot][]string{
	SlotTick:     {"TIC"},
	SlotBoot:     {"BOOT"},
	SlotScanline: {"SCN", "scanline"},
	SlotBorder:   {"BDR"},
	SlotMenu:     {"MENU"},
}

// Names returns the guest function names tried for the slot, in call order.
func (s Slot) Names() []string {
	return slotNames[s]
}

func (s Slot) String() string {
	if names := slotNames[s]; len(names) > 0 {
		return names[0]
	}
	return "unknown"
}

// Mandatory reports whether a cartridge must define the slot.
func (s Slot) Mandatory() bool {
	return s == SlotTick
}

// Outcome is the result of one callback invocation. A missing optional
// callback is a successful outcome with no value.
type Outcome struct {
	Value object.Object
	Err   error
	Found bool
}

// OK reports whether the invocation succeeded.
func (o Outcome) OK() bool {
	return o.Err == nil
}

// Message returns the reported text of a failed outcome.
func (o Outcome) Message() string {
	return ErrorMessage(o.Err)
}

// Invoke calls the guest function for slot with args. The function is looked
// up by name on every call, so redefinitions take effect immediately. Guest
// failures never escape: they are reported once and returned in the Outcome.
func (r *Runtime) Invoke(ctx context.Context, slot Slot, args ...int) Outcome {
	inst := r.current()
	if inst == nil {
		return r.missing(slot)
	}
	if _, ok := r.state.enter(StateEvaluating); !ok {
		r.log.Warn().Str("slot", slot.String()).Msg("callback skipped while guest code is running")
		return Outcome{Err: ErrBusy}
	}
	defer r.state.store(StateReady)

	guestArgs := make([]object.Object, len(args))
	for i, arg := range args {
		guestArgs[i] = object.NewInt(int64(arg))
	}

	var out Outcome
	for _, name := range slot.Names() {
		fn, ok := inst.guest.lookup(name)
		if !ok || !callable(fn) {
			continue
		}
		out.Found = true
		value, err := inst.guest.call(ctx, fn, guestArgs)
		if err != nil {
			r.log.Debug().Err(err).
				Str("instance", inst.id.String()).
				Str("slot", name).
				Msg("callback failed")
			r.report(err, SeverityError)
			if out.Err == nil {
				out.Err = err
			}
			continue
		}
		out.Value = value
	}
	if !out.Found {
		return r.missing(slot)
	}
	return out
}

func (r *Runtime) missing(slot Slot) Outcome {
	if !slot.Mandatory() {
		return Outcome{}
	}
	r.report(ErrTickNotFound, SeverityError)
	return Outcome{Err: ErrTickNotFound}
}

// Tick runs the cartridge's TIC function for one frame.
func (r *Runtime) Tick(ctx context.Context) Outcome {
	return r.Invoke(ctx, SlotTick)
}

// Boot runs the cartridge's BOOT function.
func (r *Runtime) Boot(ctx context.Context) Outcome {
	return r.Invoke(ctx, SlotBoot)
}

// Scanline runs SCN, then the legacy scanline function, for a screen row.
func (r *Runtime) Scanline(ctx context.Context, row int) Outcome {
	return r.Invoke(ctx, SlotScanline, row)
}

// Border runs the cartridge's BDR function for a border row.
func (r *Runtime) Border(ctx context.Context, row int) Outcome {
	return r.Invoke(ctx, SlotBorder, row)
}

// MenuSelect runs the cartridge's MENU function with the chosen item.
func (r *Runtime) MenuSelect(ctx context.Context, index int) Outcome {
	return r.Invoke(ctx, SlotMenu, index)
}
