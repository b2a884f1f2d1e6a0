package bridge

import (
	"context"

	"github.com/risor-io/risor/object"

	"github.com/risor-io/tic/host"
)

func systemFunctions() []Function {
	return []Function{
		{
			Name:      "sync",
			Signature: "sync([mask=0], [bank=0], [tocart=false])",
			Doc:       "Copies cartridge banks to or from RAM.",
			Arity:     Range(0, 3),
			Call:      Sync,
		},
		{
			Name:      "vbank",
			Signature: "vbank(bank)",
			Doc:       "Switches video bank and returns the previous one.",
			Arity:     Fixed(1),
			Call:      VBank,
		},
		{
			Name:      "trace",
			Signature: "trace(message, [color=15])",
			Doc:       "Writes a message to the console log.",
			Arity:     Range(1, 2),
			Call:      Trace,
		},
		{
			Name:      "time",
			Signature: "time()",
			Doc:       "Returns milliseconds elapsed since the cartridge started.",
			Arity:     Fixed(0),
			Call:      Time,
		},
		{
			Name:      "tstamp",
			Signature: "tstamp()",
			Doc:       "Returns the current unix time in seconds.",
			Arity:     Fixed(0),
			Call:      Tstamp,
		},
		{
			Name:      "exit",
			Signature: "exit()",
			Doc:       "Stops the cartridge after the current frame.",
			Arity:     Fixed(0),
			Call:      Exit,
		},
		{
			Name:      "reset",
			Signature: "reset()",
			Doc:       "Requests a soft reset; the cartridge code is reloaded after the current frame.",
			Arity:     Fixed(0),
			Call:      Reset,
		},
	}
}

func Sync(ctx context.Context, h host.API, args []object.Object) object.Object {
	r := newReader("sync", args)
	mask := r.optU32(0, 0)
	bank := r.optS32(1, 0)
	toCart := r.optBool(2, false)
	if r.err != nil {
		return r.err
	}
	h.Sync(mask, bank, toCart)
	return nothing()
}

func VBank(ctx context.Context, h host.API, args []object.Object) object.Object {
	r := newReader("vbank", args)
	bank := r.s32(0)
	if r.err != nil {
		return r.err
	}
	return integer(h.VBank(bank))
}

func Trace(ctx context.Context, h host.API, args []object.Object) object.Object {
	r := newReader("trace", args)
	msg := r.message(0)
	color := r.optU8(1, host.DefaultColor)
	if r.err != nil {
		return r.err
	}
	h.Trace(msg, color)
	return nothing()
}

func Time(ctx context.Context, h host.API, args []object.Object) object.Object {
	return object.NewFloat(h.Time())
}

func Tstamp(ctx context.Context, h host.API, args []object.Object) object.Object {
	return integer(h.Tstamp())
}

func Exit(ctx context.Context, h host.API, args []object.Object) object.Object {
	h.Exit()
	return nothing()
}

func Reset(ctx context.Context, h host.API, args []object.Object) object.Object {
	h.Reset()
	return nothing()
}
