// Package hosttest provides a recording host.API for tests.
package hosttest

import (
	"fmt"
	"strings"

	"github.com/risor-io/tic/host"
)

var _ host.API = (*Recorder)(nil)

// Call is a single recorded host operation.
type Call struct {
	Name string
	Args []any
}

func (c Call) String() string {
	parts := make([]string, len(c.Args))
	for i, arg := range c.Args {
		parts[i] = fmt.Sprint(arg)
	}
	return fmt.Sprintf("%s(%s)", c.Name, strings.Join(parts, ","))
}

// Recorder logs every operation and keeps enough state to answer reads
// consistently with earlier writes.
type Recorder struct {
	Calls  []Call
	Errors []string
	Traces []string

	Buttons  map[int32]bool
	Keys     map[int32]bool
	Pointer  host.Mouse
	Elapsed  float64
	Stamp    uint32
	ResetReq bool
	ExitReq  bool

	pixels map[[2]int32]uint8
	cells  map[[2]int32]uint8
	flags  map[int32]uint8
	ram    []byte
	pmem   [host.PMemSlots]uint32
	bank   int32
}

// New returns an empty Recorder.
func New() *Recorder {
	return &Recorder{
		Buttons: map[int32]bool{},
		Keys:    map[int32]bool{},
		pixels:  map[[2]int32]uint8{},
		cells:   map[[2]int32]uint8{},
		flags:   map[int32]uint8{},
		ram:     make([]byte, host.RAMSize),
	}
}

func (r *Recorder) record(name string, args ...any) {
	r.Calls = append(r.Calls, Call{Name: name, Args: args})
}

// Names returns the recorded operation names in order.
func (r *Recorder) Names() []string {
	names := make([]string, len(r.Calls))
	for i, c := range r.Calls {
		names[i] = c.Name
	}
	return names
}

// Last returns the most recent call, or a zero Call when nothing was recorded.
func (r *Recorder) Last() Call {
	if len(r.Calls) == 0 {
		return Call{}
	}
	return r.Calls[len(r.Calls)-1]
}

// Count returns how many times the named operation was called.
func (r *Recorder) Count(name string) int {
	n := 0
	for _, c := range r.Calls {
		if c.Name == name {
			n++
		}
	}
	return n
}

// Error implements host.ErrorSink.
func (r *Recorder) Error(message string) {
	r.Errors = append(r.Errors, message)
}

func (r *Recorder) Print(text string, x, y int32, color uint8, fixed bool, scale int32, alt bool) int32 {
	r.record("print", text, x, y, color, fixed, scale, alt)
	return int32(len(text)) * 6 * scale
}

func (r *Recorder) Cls(color uint8) { r.record("cls", color) }

func (r *Recorder) Pix(x, y int32) uint8 {
	r.record("pix", x, y)
	return r.pixels[[2]int32{x, y}]
}

func (r *Recorder) SetPix(x, y int32, color uint8) {
	r.record("setpix", x, y, color)
	r.pixels[[2]int32{x, y}] = color
}

func (r *Recorder) Line(x0, y0, x1, y1 float32, color uint8) {
	r.record("line", x0, y0, x1, y1, color)
}

func (r *Recorder) Rect(x, y, w, h int32, color uint8)  { r.record("rect", x, y, w, h, color) }
func (r *Recorder) RectB(x, y, w, h int32, color uint8) { r.record("rectb", x, y, w, h, color) }
func (r *Recorder) Circ(x, y, rad int32, color uint8)   { r.record("circ", x, y, rad, color) }
func (r *Recorder) CircB(x, y, rad int32, color uint8)  { r.record("circb", x, y, rad, color) }
func (r *Recorder) Elli(x, y, a, b int32, color uint8)  { r.record("elli", x, y, a, b, color) }
func (r *Recorder) ElliB(x, y, a, b int32, color uint8) { r.record("ellib", x, y, a, b, color) }

func (r *Recorder) Tri(x1, y1, x2, y2, x3, y3 float32, color uint8) {
	r.record("tri", x1, y1, x2, y2, x3, y3, color)
}

func (r *Recorder) TriB(x1, y1, x2, y2, x3, y3 float32, color uint8) {
	r.record("trib", x1, y1, x2, y2, x3, y3, color)
}

func (r *Recorder) TTri(t host.TexturedTriangle) { r.record("ttri", t) }
func (r *Recorder) Spr(s host.Sprite)            { r.record("spr", s) }
func (r *Recorder) Map(m host.MapView)           { r.record("map", m) }

func (r *Recorder) Font(f host.Font) int32 {
	r.record("font", f)
	return int32(len(f.Text)) * f.W * f.Scale
}

func (r *Recorder) Clip(x, y, w, h int32) { r.record("clip", x, y, w, h) }

func (r *Recorder) Btn(id int32) bool {
	r.record("btn", id)
	return r.Buttons[id]
}

func (r *Recorder) Btnp(id, hold, period int32) bool {
	r.record("btnp", id, hold, period)
	return r.Buttons[id]
}

func (r *Recorder) Key(code int32) bool {
	r.record("key", code)
	if code < 0 {
		return len(r.Keys) > 0
	}
	return r.Keys[code]
}

func (r *Recorder) Keyp(code, hold, period int32) bool {
	r.record("keyp", code, hold, period)
	return r.Keys[code]
}

func (r *Recorder) Mouse() host.Mouse {
	r.record("mouse")
	return r.Pointer
}

func (r *Recorder) MGet(x, y int32) uint8 {
	r.record("mget", x, y)
	return r.cells[[2]int32{x, y}]
}

func (r *Recorder) MSet(x, y int32, value uint8) {
	r.record("mset", x, y, value)
	r.cells[[2]int32{x, y}] = value
}

func (r *Recorder) FGet(sprite int32, flag uint8) bool {
	r.record("fget", sprite, flag)
	return r.flags[sprite]&(1<<(flag&7)) != 0
}

func (r *Recorder) FSet(sprite int32, flag uint8, value bool) {
	r.record("fset", sprite, flag, value)
	if value {
		r.flags[sprite] |= 1 << (flag & 7)
	} else {
		r.flags[sprite] &^= 1 << (flag & 7)
	}
}

func (r *Recorder) byteAt(addr int32) *byte {
	if addr < 0 || int(addr) >= len(r.ram) {
		return nil
	}
	return &r.ram[addr]
}

func (r *Recorder) Peek(addr int32, bits int32) uint8 {
	r.record("peek", addr, bits)
	if b := r.byteAt(addr); b != nil {
		return *b
	}
	return 0
}

func (r *Recorder) Poke(addr int32, value uint8, bits int32) {
	r.record("poke", addr, value, bits)
	if b := r.byteAt(addr); b != nil {
		*b = value
	}
}

func (r *Recorder) Peek1(addr int32) uint8 { r.record("peek1", addr); return 0 }
func (r *Recorder) Poke1(addr int32, value uint8) { r.record("poke1", addr, value) }
func (r *Recorder) Peek2(addr int32) uint8 { r.record("peek2", addr); return 0 }
func (r *Recorder) Poke2(addr int32, value uint8) { r.record("poke2", addr, value) }
func (r *Recorder) Peek4(addr int32) uint8 { r.record("peek4", addr); return 0 }
func (r *Recorder) Poke4(addr int32, value uint8) { r.record("poke4", addr, value) }

func (r *Recorder) Memcpy(dst, src, size int32) { r.record("memcpy", dst, src, size) }

func (r *Recorder) Memset(dst int32, value uint8, size int32) {
	r.record("memset", dst, value, size)
}

func (r *Recorder) PMem(index int32) uint32 {
	r.record("pmem", index)
	if index < 0 || index >= host.PMemSlots {
		return 0
	}
	return r.pmem[index]
}

func (r *Recorder) SetPMem(index int32, value uint32) uint32 {
	r.record("setpmem", index, value)
	if index < 0 || index >= host.PMemSlots {
		return 0
	}
	prev := r.pmem[index]
	r.pmem[index] = value
	return prev
}

func (r *Recorder) Sfx(s host.Sfx)     { r.record("sfx", s) }
func (r *Recorder) Music(m host.Music) { r.record("music", m) }

func (r *Recorder) Sync(mask uint32, bank int32, toCart bool) {
	r.record("sync", mask, bank, toCart)
}

func (r *Recorder) VBank(bank int32) int32 {
	r.record("vbank", bank)
	prev := r.bank
	r.bank = bank
	return prev
}

func (r *Recorder) Trace(message string, color uint8) {
	r.record("trace", message, color)
	r.Traces = append(r.Traces, message)
}

func (r *Recorder) Time() float64 {
	r.record("time")
	return r.Elapsed
}

func (r *Recorder) Tstamp() uint32 {
	r.record("tstamp")
	return r.Stamp
}

func (r *Recorder) Exit() {
	r.record("exit")
	r.ExitReq = true
}

func (r *Recorder) Reset() {
	r.record("reset")
	r.ResetReq = true
}
