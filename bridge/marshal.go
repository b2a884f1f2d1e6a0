package bridge

import (
	"context"
	"math"
	"strconv"
	"strings"

	"github.com/risor-io/risor/object"

	"github.com/risor-io/tic/host"
)

// toInt converts a numeric guest value to an int64. Floats are truncated
// toward zero and NaN becomes 0. Callers narrow the result to the width of
// the parameter, so out-of-range values wrap instead of failing.
func toInt(name string, obj object.Object) (int64, *object.Error) {
	switch v := obj.(type) {
	case *object.Int:
		return v.Value(), nil
	case *object.Byte:
		return int64(v.Value()), nil
	case *object.Float:
		return truncate(v.Value()), nil
	default:
		return 0, typeError(name, "number", obj)
	}
}

func truncate(f float64) int64 {
	switch {
	case math.IsNaN(f):
		return 0
	case f >= math.MaxInt64:
		return math.MaxInt64
	case f <= math.MinInt64:
		return math.MinInt64
	}
	return int64(math.Trunc(f))
}

func toFloat(name string, obj object.Object) (float64, *object.Error) {
	switch v := obj.(type) {
	case *object.Float:
		return v.Value(), nil
	case *object.Int:
		return float64(v.Value()), nil
	case *object.Byte:
		return float64(v.Value()), nil
	default:
		return 0, typeError(name, "number", obj)
	}
}

func toBool(name string, obj object.Object) (bool, *object.Error) {
	b, ok := obj.(*object.Bool)
	if !ok {
		return false, typeError(name, "bool", obj)
	}
	return b.Value(), nil
}

// toText copies a string or byte sequence out of the guest value. The byte
// view returned by AsBytes is only valid during the call.
func toText(name string, obj object.Object) (string, *object.Error) {
	switch obj.(type) {
	case *object.String, *object.ByteSlice:
	default:
		return "", typeError(name, "string", obj)
	}
	b, err := object.AsBytes(obj)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func typeError(name, want string, got object.Object) *object.Error {
	return object.Errorf("type error: %s() expected %s (%s given)", name, want, got.Type())
}

// reader walks the arguments of one call. The first coercion failure is kept
// and every later accessor returns a zero value, so an operation reads all of
// its parameters and checks err once.
type reader struct {
	name string
	args []object.Object
	err  *object.Error
}

func newReader(name string, args []object.Object) *reader {
	return &reader{name: name, args: args}
}

// present reports whether argument i was supplied. A trailing nil counts as
// absent so guests can skip optional parameters.
func (r *reader) present(i int) bool {
	return i < len(r.args) && r.args[i] != object.Nil
}

func (r *reader) fail(err *object.Error) {
	if r.err == nil {
		r.err = err
	}
}

func (r *reader) int(i int) int64 {
	if r.err != nil || i >= len(r.args) {
		return 0
	}
	v, err := toInt(r.name, r.args[i])
	if err != nil {
		r.fail(err)
	}
	return v
}

func (r *reader) u8(i int) uint8   { return uint8(r.int(i)) }
func (r *reader) s32(i int) int32  { return int32(r.int(i)) }
func (r *reader) u32(i int) uint32 { return uint32(r.int(i)) }

func (r *reader) f32(i int) float32 {
	if r.err != nil || i >= len(r.args) {
		return 0
	}
	v, err := toFloat(r.name, r.args[i])
	if err != nil {
		r.fail(err)
	}
	return float32(v)
}

func (r *reader) boolean(i int) bool {
	if r.err != nil || i >= len(r.args) {
		return false
	}
	v, err := toBool(r.name, r.args[i])
	if err != nil {
		r.fail(err)
	}
	return v
}

func (r *reader) text(i int) string {
	if r.err != nil || i >= len(r.args) {
		return ""
	}
	v, err := toText(r.name, r.args[i])
	if err != nil {
		r.fail(err)
	}
	return v
}

// message accepts any guest value, using its printed form when it is not
// text. Used by print and trace.
func (r *reader) message(i int) string {
	if r.err != nil || i >= len(r.args) {
		return ""
	}
	switch v := r.args[i].(type) {
	case *object.String, *object.ByteSlice:
		return r.text(i)
	default:
		return v.Inspect()
	}
}

func (r *reader) optU8(i int, def uint8) uint8 {
	if !r.present(i) {
		return def
	}
	return r.u8(i)
}

func (r *reader) optS32(i int, def int32) int32 {
	if !r.present(i) {
		return def
	}
	return r.s32(i)
}

func (r *reader) optU32(i int, def uint32) uint32 {
	if !r.present(i) {
		return def
	}
	return r.u32(i)
}

func (r *reader) optF32(i int, def float32) float32 {
	if !r.present(i) {
		return def
	}
	return r.f32(i)
}

func (r *reader) optBool(i int, def bool) bool {
	if !r.present(i) {
		return def
	}
	return r.boolean(i)
}

// colorKeys reads a transparent color given as a single index or a list of
// indices. Negative indices mean no transparency.
func (r *reader) colorKeys(i int) []uint8 {
	if r.err != nil || !r.present(i) {
		return nil
	}
	list, ok := r.args[i].(*object.List)
	if !ok {
		c := r.int(i)
		if c < 0 {
			return nil
		}
		return []uint8{uint8(c)}
	}
	items := list.Value()
	keys := make([]uint8, 0, len(items))
	for _, item := range items {
		c, err := toInt(r.name, item)
		if err != nil {
			r.fail(err)
			return nil
		}
		if c >= 0 {
			keys = append(keys, uint8(c))
		}
	}
	return keys
}

// stereo reads a volume given as one value for both channels or as a
// [left, right] list.
func (r *reader) stereo(i int, def int32) (left, right int32) {
	if r.err != nil || !r.present(i) {
		return def, def
	}
	list, ok := r.args[i].(*object.List)
	if !ok {
		v := r.s32(i)
		return v, v
	}
	items := list.Value()
	if len(items) != 2 {
		r.fail(object.Errorf("value error: %s() volume list must have 2 items (%d given)",
			r.name, len(items)))
		return def, def
	}
	l, err := toInt(r.name, items[0])
	if err != nil {
		r.fail(err)
		return def, def
	}
	rt, err := toInt(r.name, items[1])
	if err != nil {
		r.fail(err)
		return def, def
	}
	return int32(l), int32(rt)
}

var noteNames = []string{"C-", "C#", "D-", "D#", "E-", "F-", "F#", "G-", "G#", "A-", "A#", "B-"}

// parseNote accepts notes written like "C#4" or "C-4". A bare letter is
// treated as natural ("C4").
func parseNote(s string) (note, octave int32, ok bool) {
	s = strings.ToUpper(strings.TrimSpace(s))
	if len(s) < 2 {
		return 0, 0, false
	}
	name, rest := s[:2], s[2:]
	if name[1] >= '0' && name[1] <= '9' {
		name, rest = name[:1]+"-", s[1:]
	}
	oct, err := strconv.Atoi(rest)
	if err != nil || oct < 0 || oct > 8 {
		return 0, 0, false
	}
	for i, n := range noteNames {
		if n == name {
			return int32(i), int32(oct), true
		}
	}
	return 0, 0, false
}

// note reads a pitch given as a note string or as an absolute semitone
// number. -1 keeps the effect's own pitch.
func (r *reader) note(i int) (note, octave int32) {
	if r.err != nil || !r.present(i) {
		return -1, -1
	}
	if _, isText := r.args[i].(*object.String); isText {
		s := r.text(i)
		n, o, ok := parseNote(s)
		if !ok {
			r.fail(object.Errorf("value error: %s() invalid note %q", r.name, s))
			return -1, -1
		}
		return n, o
	}
	v := r.s32(i)
	if v < 0 {
		return -1, -1
	}
	return v % 12, v / 12
}

func nothing() object.Object {
	return object.Nil
}

func integer[T ~int32 | ~uint32 | ~uint8 | ~int64](v T) object.Object {
	return object.NewInt(int64(v))
}

func mouseList(m host.Mouse) object.Object {
	return object.NewList([]object.Object{
		object.NewInt(int64(m.X)),
		object.NewInt(int64(m.Y)),
		object.NewBool(m.Left),
		object.NewBool(m.Middle),
		object.NewBool(m.Right),
		object.NewInt(int64(m.ScrollX)),
		object.NewInt(int64(m.ScrollY)),
	})
}

// overload joins a read form and a write form of the same resource under one
// guest name. Calls with at least write.Arity.Min arguments are writes;
// trailing nil arguments do not count, matching optional parameters.
func overload(name, doc string, read, write Function) Function {
	return Function{
		Name:      name,
		Signature: read.Signature + " | " + write.Signature,
		Doc:       doc,
		Category:  read.Category,
		Arity:     Range(read.Arity.Min, write.Arity.Max),
		Call: func(ctx context.Context, h host.API, args []object.Object) object.Object {
			for len(args) > read.Arity.Max && args[len(args)-1] == object.Nil {
				args = args[:len(args)-1]
			}
			if len(args) >= write.Arity.Min {
				return write.Call(ctx, h, args)
			}
			return read.Call(ctx, h, args)
		},
	}
}
