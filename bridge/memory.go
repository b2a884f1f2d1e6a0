package bridge

import (
	"context"

	"github.com/risor-io/risor/object"

	"github.com/risor-io/tic/host"
)

func memoryFunctions() []Function {
	return []Function{
		{
			Name:      "mget",
			Signature: "mget(x, y)",
			Doc:       "Returns the tile id at a map cell.",
			Arity:     Fixed(2),
			Call:      MGet,
		},
		{
			Name:      "mset",
			Signature: "mset(x, y, tile)",
			Doc:       "Sets the tile id at a map cell.",
			Arity:     Fixed(3),
			Call:      MSet,
		},
		{
			Name:      "fget",
			Signature: "fget(sprite, flag)",
			Doc:       "Reports whether a sprite flag is set.",
			Arity:     Fixed(2),
			Call:      FGet,
		},
		{
			Name:      "fset",
			Signature: "fset(sprite, flag, value)",
			Doc:       "Sets or clears a sprite flag.",
			Arity:     Fixed(3),
			Call:      FSet,
		},
		{
			Name:      "peek",
			Signature: "peek(addr, [bits=8])",
			Doc:       "Reads RAM at an address counted in units of bits (1, 2, 4 or 8).",
			Arity:     Range(1, 2),
			Call:      Peek,
		},
		{
			Name:      "poke",
			Signature: "poke(addr, value, [bits=8])",
			Doc:       "Writes RAM at an address counted in units of bits (1, 2, 4 or 8).",
			Arity:     Range(2, 3),
			Call:      Poke,
		},
		{
			Name:      "peek1",
			Signature: "peek1(addr)",
			Doc:       "Reads one bit of RAM.",
			Arity:     Fixed(1),
			Call:      peekN("peek1", host.API.Peek1),
		},
		{
			Name:      "peek2",
			Signature: "peek2(addr)",
			Doc:       "Reads two bits of RAM.",
			Arity:     Fixed(1),
			Call:      peekN("peek2", host.API.Peek2),
		},
		{
			Name:      "peek4",
			Signature: "peek4(addr)",
			Doc:       "Reads a nibble of RAM.",
			Arity:     Fixed(1),
			Call:      peekN("peek4", host.API.Peek4),
		},
		{
			Name:      "poke1",
			Signature: "poke1(addr, value)",
			Doc:       "Writes one bit of RAM.",
			Arity:     Fixed(2),
			Call:      pokeN("poke1", host.API.Poke1),
		},
		{
			Name:      "poke2",
			Signature: "poke2(addr, value)",
			Doc:       "Writes two bits of RAM.",
			Arity:     Fixed(2),
			Call:      pokeN("poke2", host.API.Poke2),
		},
		{
			Name:      "poke4",
			Signature: "poke4(addr, value)",
			Doc:       "Writes a nibble of RAM.",
			Arity:     Fixed(2),
			Call:      pokeN("poke4", host.API.Poke4),
		},
		{
			Name:      "memcpy",
			Signature: "memcpy(dst, src, size)",
			Doc:       "Copies bytes within RAM.",
			Arity:     Fixed(3),
			Call:      Memcpy,
		},
		{
			Name:      "memset",
			Signature: "memset(dst, value, size)",
			Doc:       "Fills a RAM range with a byte.",
			Arity:     Fixed(3),
			Call:      Memset,
		},
		overload("pmem", "Reads a persistent memory slot, or writes it and returns the previous value.",
			Function{Signature: "pmem(index)", Arity: Fixed(1), Call: PMemGet},
			Function{Signature: "pmem(index, value)", Arity: Fixed(2), Call: PMemSet},
		),
	}
}

func MGet(ctx context.Context, h host.API, args []object.Object) object.Object {
	r := newReader("mget", args)
	x, y := r.s32(0), r.s32(1)
	if r.err != nil {
		return r.err
	}
	return integer(h.MGet(x, y))
}

func MSet(ctx context.Context, h host.API, args []object.Object) object.Object {
	r := newReader("mset", args)
	x, y, tile := r.s32(0), r.s32(1), r.u8(2)
	if r.err != nil {
		return r.err
	}
	h.MSet(x, y, tile)
	return nothing()
}

func FGet(ctx context.Context, h host.API, args []object.Object) object.Object {
	r := newReader("fget", args)
	sprite, flag := r.s32(0), r.u8(1)
	if r.err != nil {
		return r.err
	}
	return object.NewBool(h.FGet(sprite, flag))
}

func FSet(ctx context.Context, h host.API, args []object.Object) object.Object {
	r := newReader("fset", args)
	sprite, flag, value := r.s32(0), r.u8(1), r.boolean(2)
	if r.err != nil {
		return r.err
	}
	h.FSet(sprite, flag, value)
	return nothing()
}

func Peek(ctx context.Context, h host.API, args []object.Object) object.Object {
	r := newReader("peek", args)
	addr := r.s32(0)
	bits := r.optS32(1, 8)
	if r.err != nil {
		return r.err
	}
	return integer(h.Peek(addr, bits))
}

func Poke(ctx context.Context, h host.API, args []object.Object) object.Object {
	r := newReader("poke", args)
	addr, value := r.s32(0), r.u8(1)
	bits := r.optS32(2, 8)
	if r.err != nil {
		return r.err
	}
	h.Poke(addr, value, bits)
	return nothing()
}

func peekN(name string, read func(host.API, int32) uint8) CallFunc {
	return func(ctx context.Context, h host.API, args []object.Object) object.Object {
		r := newReader(name, args)
		addr := r.s32(0)
		if r.err != nil {
			return r.err
		}
		return integer(read(h, addr))
	}
}

func pokeN(name string, write func(host.API, int32, uint8)) CallFunc {
	return func(ctx context.Context, h host.API, args []object.Object) object.Object {
		r := newReader(name, args)
		addr, value := r.s32(0), r.u8(1)
		if r.err != nil {
			return r.err
		}
		write(h, addr, value)
		return nothing()
	}
}

func Memcpy(ctx context.Context, h host.API, args []object.Object) object.Object {
	r := newReader("memcpy", args)
	dst, src, size := r.s32(0), r.s32(1), r.s32(2)
	if r.err != nil {
		return r.err
	}
	h.Memcpy(dst, src, size)
	return nothing()
}

func Memset(ctx context.Context, h host.API, args []object.Object) object.Object {
	r := newReader("memset", args)
	dst, value, size := r.s32(0), r.u8(1), r.s32(2)
	if r.err != nil {
		return r.err
	}
	h.Memset(dst, value, size)
	return nothing()
}

func PMemGet(ctx context.Context, h host.API, args []object.Object) object.Object {
	r := newReader("pmem", args)
	index := r.s32(0)
	if r.err != nil {
		return r.err
	}
	return integer(h.PMem(index))
}

func PMemSet(ctx context.Context, h host.API, args []object.Object) object.Object {
	r := newReader("pmem", args)
	index, value := r.s32(0), r.u32(1)
	if r.err != nil {
		return r.err
	}
	return integer(h.SetPMem(index, value))
}
