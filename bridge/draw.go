package bridge

import (
	"context"

	"github.com/risor-io/risor/object"

	"github.com/risor-io/tic/host"
)

func drawFunctions() []Function {
	return []Function{
		{
			Name:      "print",
			Signature: "print(text, [x=0], [y=0], [color=15], [fixed=false], [scale=1], [alt=false])",
			Doc:       "Draws text with the system font and returns its width in pixels.",
			Arity:     Range(1, 7),
			Call:      Print,
		},
		{
			Name:      "cls",
			Signature: "cls([color=0])",
			Doc:       "Clears the screen with a palette color.",
			Arity:     Range(0, 1),
			Call:      Cls,
		},
		overload("pix", "Reads a pixel color, or sets it when a color is given.",
			Function{Signature: "pix(x, y)", Arity: Fixed(2), Call: PixGet},
			Function{Signature: "pix(x, y, color)", Arity: Fixed(3), Call: PixSet},
		),
		{
			Name:      "line",
			Signature: "line(x0, y0, x1, y1, color)",
			Doc:       "Draws a straight line.",
			Arity:     Fixed(5),
			Call:      Line,
		},
		{
			Name:      "rect",
			Signature: "rect(x, y, w, h, color)",
			Doc:       "Draws a filled rectangle.",
			Arity:     Fixed(5),
			Call:      rectangle("rect", host.API.Rect),
		},
		{
			Name:      "rectb",
			Signature: "rectb(x, y, w, h, color)",
			Doc:       "Draws a rectangle border.",
			Arity:     Fixed(5),
			Call:      rectangle("rectb", host.API.RectB),
		},
		{
			Name:      "circ",
			Signature: "circ(x, y, radius, color)",
			Doc:       "Draws a filled circle.",
			Arity:     Fixed(4),
			Call:      circle("circ", host.API.Circ),
		},
		{
			Name:      "circb",
			Signature: "circb(x, y, radius, color)",
			Doc:       "Draws a circle border.",
			Arity:     Fixed(4),
			Call:      circle("circb", host.API.CircB),
		},
		{
			Name:      "elli",
			Signature: "elli(x, y, a, b, color)",
			Doc:       "Draws a filled ellipse.",
			Arity:     Fixed(5),
			Call:      rectangle("elli", host.API.Elli),
		},
		{
			Name:      "ellib",
			Signature: "ellib(x, y, a, b, color)",
			Doc:       "Draws an ellipse border.",
			Arity:     Fixed(5),
			Call:      rectangle("ellib", host.API.ElliB),
		},
		{
			Name:      "tri",
			Signature: "tri(x1, y1, x2, y2, x3, y3, color)",
			Doc:       "Draws a filled triangle.",
			Arity:     Fixed(7),
			Call:      triangle("tri", host.API.Tri),
		},
		{
			Name:      "trib",
			Signature: "trib(x1, y1, x2, y2, x3, y3, color)",
			Doc:       "Draws a triangle border.",
			Arity:     Fixed(7),
			Call:      triangle("trib", host.API.TriB),
		},
		{
			Name:      "ttri",
			Signature: "ttri(x1, y1, x2, y2, x3, y3, u1, v1, u2, v2, u3, v3, [texsrc=0], [chromakey=-1], [z1=0], [z2=0], [z3=0])",
			Doc:       "Draws a triangle textured from sprite or map memory.",
			Arity:     Range(12, 17),
			Call:      TTri,
		},
		{
			Name:      "spr",
			Signature: "spr(id, x, y, [colorkey=-1], [scale=1], [flip=0], [rotate=0], [w=1], [h=1])",
			Doc:       "Draws a sprite or a block of sprites.",
			Arity:     Range(3, 9),
			Call:      Spr,
		},
		{
			Name:      "map",
			Signature: "map([x=0], [y=0], [w=30], [h=17], [sx=0], [sy=0], [colorkey=-1], [scale=1])",
			Doc:       "Draws a region of the map.",
			Arity:     Range(0, 8),
			Call:      Map,
		},
		{
			Name:      "font",
			Signature: "font(text, x, y, [transparent=-1], [w=8], [h=8], [fixed=false], [scale=1], [alt=false])",
			Doc:       "Draws text using sprites as the font and returns its width.",
			Arity:     Range(3, 9),
			Call:      Font,
		},
		{
			Name:      "clip",
			Signature: "clip() | clip(x, y, w, h)",
			Doc:       "Limits drawing to a rectangle; without arguments restores the full screen.",
			Arity:     OneOf(0, 4),
			Call:      Clip,
		},
	}
}

func inCategory(c Category, fns []Function) []Function {
	for i := range fns {
		fns[i].Category = c
	}
	return fns
}

func Print(ctx context.Context, h host.API, args []object.Object) object.Object {
	r := newReader("print", args)
	text := r.message(0)
	x := r.optS32(1, 0)
	y := r.optS32(2, 0)
	color := r.optU8(3, host.DefaultColor)
	fixed := r.optBool(4, false)
	scale := r.optS32(5, 1)
	alt := r.optBool(6, false)
	if r.err != nil {
		return r.err
	}
	return integer(h.Print(text, x, y, color, fixed, scale, alt))
}

func Cls(ctx context.Context, h host.API, args []object.Object) object.Object {
	r := newReader("cls", args)
	color := r.optU8(0, 0)
	if r.err != nil {
		return r.err
	}
	h.Cls(color)
	return nothing()
}

func PixGet(ctx context.Context, h host.API, args []object.Object) object.Object {
	r := newReader("pix", args)
	x, y := r.s32(0), r.s32(1)
	if r.err != nil {
		return r.err
	}
	return integer(h.Pix(x, y))
}

func PixSet(ctx context.Context, h host.API, args []object.Object) object.Object {
	r := newReader("pix", args)
	x, y, color := r.s32(0), r.s32(1), r.u8(2)
	if r.err != nil {
		return r.err
	}
	h.SetPix(x, y, color)
	return nothing()
}

func Line(ctx context.Context, h host.API, args []object.Object) object.Object {
	r := newReader("line", args)
	x0, y0, x1, y1 := r.f32(0), r.f32(1), r.f32(2), r.f32(3)
	color := r.u8(4)
	if r.err != nil {
		return r.err
	}
	h.Line(x0, y0, x1, y1, color)
	return nothing()
}

func rectangle(name string, draw func(host.API, int32, int32, int32, int32, uint8)) CallFunc {
	return func(ctx context.Context, h host.API, args []object.Object) object.Object {
		r := newReader(name, args)
		x, y, w, ht := r.s32(0), r.s32(1), r.s32(2), r.s32(3)
		color := r.u8(4)
		if r.err != nil {
			return r.err
		}
		draw(h, x, y, w, ht, color)
		return nothing()
	}
}

func circle(name string, draw func(host.API, int32, int32, int32, uint8)) CallFunc {
	return func(ctx context.Context, h host.API, args []object.Object) object.Object {
		r := newReader(name, args)
		x, y, rad := r.s32(0), r.s32(1), r.s32(2)
		color := r.u8(3)
		if r.err != nil {
			return r.err
		}
		draw(h, x, y, rad, color)
		return nothing()
	}
}

func triangle(name string, draw func(host.API, float32, float32, float32, float32, float32, float32, uint8)) CallFunc {
	return func(ctx context.Context, h host.API, args []object.Object) object.Object {
		r := newReader(name, args)
		var pts [6]float32
		for i := range pts {
			pts[i] = r.f32(i)
		}
		color := r.u8(6)
		if r.err != nil {
			return r.err
		}
		draw(h, pts[0], pts[1], pts[2], pts[3], pts[4], pts[5], color)
		return nothing()
	}
}

func TTri(ctx context.Context, h host.API, args []object.Object) object.Object {
	r := newReader("ttri", args)
	t := host.TexturedTriangle{
		X1: r.f32(0), Y1: r.f32(1),
		X2: r.f32(2), Y2: r.f32(3),
		X3: r.f32(4), Y3: r.f32(5),
		U1: r.f32(6), V1: r.f32(7),
		U2: r.f32(8), V2: r.f32(9),
		U3: r.f32(10), V3: r.f32(11),
		TexSrc:    r.optS32(12, 0),
		ColorKeys: r.colorKeys(13),
		Z1:        r.optF32(14, 0),
		Z2:        r.optF32(15, 0),
		Z3:        r.optF32(16, 0),
	}
	if r.err != nil {
		return r.err
	}
	h.TTri(t)
	return nothing()
}

func Spr(ctx context.Context, h host.API, args []object.Object) object.Object {
	r := newReader("spr", args)
	s := host.Sprite{
		ID:        r.s32(0),
		X:         r.s32(1),
		Y:         r.s32(2),
		ColorKeys: r.colorKeys(3),
		Scale:     r.optS32(4, 1),
		Flip:      r.optS32(5, 0),
		Rotate:    r.optS32(6, 0),
		W:         r.optS32(7, 1),
		H:         r.optS32(8, 1),
	}
	if r.err != nil {
		return r.err
	}
	h.Spr(s)
	return nothing()
}

func Map(ctx context.Context, h host.API, args []object.Object) object.Object {
	r := newReader("map", args)
	m := host.MapView{
		X:         r.optS32(0, 0),
		Y:         r.optS32(1, 0),
		W:         r.optS32(2, 30),
		H:         r.optS32(3, 17),
		SX:        r.optS32(4, 0),
		SY:        r.optS32(5, 0),
		ColorKeys: r.colorKeys(6),
		Scale:     r.optS32(7, 1),
	}
	if r.err != nil {
		return r.err
	}
	h.Map(m)
	return nothing()
}

func Font(ctx context.Context, h host.API, args []object.Object) object.Object {
	r := newReader("font", args)
	f := host.Font{
		Text:      r.text(0),
		X:         r.s32(1),
		Y:         r.s32(2),
		ColorKeys: r.colorKeys(3),
		W:         r.optS32(4, 8),
		H:         r.optS32(5, 8),
		Fixed:     r.optBool(6, false),
		Scale:     r.optS32(7, 1),
		Alt:       r.optBool(8, false),
	}
	if r.err != nil {
		return r.err
	}
	return integer(h.Font(f))
}

func Clip(ctx context.Context, h host.API, args []object.Object) object.Object {
	if len(args) == 0 {
		h.Clip(0, 0, host.ScreenWidth, host.ScreenHeight)
		return nothing()
	}
	r := newReader("clip", args)
	x, y, w, ht := r.s32(0), r.s32(1), r.s32(2), r.s32(3)
	if r.err != nil {
		return r.err
	}
	h.Clip(x, y, w, ht)
	return nothing()
}
