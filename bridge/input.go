package bridge

import (
	"context"

	"github.com/risor-io/risor/object"

	"github.com/risor-io/tic/host"
)

func inputFunctions() []Function {
	return []Function{
		{
			Name:      "btn",
			Signature: "btn(id)",
			Doc:       "Reports whether a gamepad button is held.",
			Arity:     Fixed(1),
			Call:      Btn,
		},
		{
			Name:      "btnp",
			Signature: "btnp(id, [hold=-1], [period=-1])",
			Doc:       "Reports whether a gamepad button was just pressed, repeating after hold frames every period frames.",
			Arity:     Range(1, 3),
			Call:      Btnp,
		},
		{
			Name:      "key",
			Signature: "key([code=-1])",
			Doc:       "Reports whether a keyboard key is held; without a code, whether any key is.",
			Arity:     Range(0, 1),
			Call:      Key,
		},
		{
			Name:      "keyp",
			Signature: "keyp([code=-1], [hold=-1], [period=-1])",
			Doc:       "Reports whether a keyboard key was just pressed.",
			Arity:     Range(0, 3),
			Call:      Keyp,
		},
		{
			Name:      "mouse",
			Signature: "mouse()",
			Doc:       "Returns [x, y, left, middle, right, scrollx, scrolly].",
			Arity:     Fixed(0),
			Call:      Mouse,
		},
	}
}

func Btn(ctx context.Context, h host.API, args []object.Object) object.Object {
	r := newReader("btn", args)
	id := r.s32(0)
	if r.err != nil {
		return r.err
	}
	return object.NewBool(h.Btn(id))
}

func Btnp(ctx context.Context, h host.API, args []object.Object) object.Object {
	r := newReader("btnp", args)
	id := r.s32(0)
	hold := r.optS32(1, -1)
	period := r.optS32(2, -1)
	if r.err != nil {
		return r.err
	}
	return object.NewBool(h.Btnp(id, hold, period))
}

func Key(ctx context.Context, h host.API, args []object.Object) object.Object {
	r := newReader("key", args)
	code := r.optS32(0, -1)
	if r.err != nil {
		return r.err
	}
	return object.NewBool(h.Key(code))
}

func Keyp(ctx context.Context, h host.API, args []object.Object) object.Object {
	r := newReader("keyp", args)
	code := r.optS32(0, -1)
	hold := r.optS32(1, -1)
	period := r.optS32(2, -1)
	if r.err != nil {
		return r.err
	}
	return object.NewBool(h.Keyp(code, hold, period))
}

func Mouse(ctx context.Context, h host.API, args []object.Object) object.Object {
	return mouseList(h.Mouse())
}
