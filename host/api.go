// Package host defines the native operations a console engine provides to
// cartridge scripts. The bridge package forwards guest calls to an API
// implementation without interpreting pixel, audio or memory semantics.
package host

// Screen and memory geometry shared by every host implementation.
const (
	ScreenWidth  = 240
	ScreenHeight = 136
	MapWidth     = 240
	MapHeight    = 136
	PMemSlots    = 256
	RAMSize      = 96 * 1024
	SpriteCount  = 512
	FlagCount    = 8
	MaxVolume    = 15
	DefaultColor = 15
)

// Mouse is a snapshot of the pointer state.
type Mouse struct {
	X       int16
	Y       int16
	Left    bool
	Middle  bool
	Right   bool
	ScrollX int8
	ScrollY int8
}

// Sprite describes a sprite draw request.
type Sprite struct {
	ID        int32
	X, Y      int32
	ColorKeys []uint8
	Scale     int32
	Flip      int32
	Rotate    int32
	W, H      int32
}

// MapView describes a map draw request.
type MapView struct {
	X, Y      int32
	W, H      int32
	SX, SY    int32
	ColorKeys []uint8
	Scale     int32
}

// TexturedTriangle describes a ttri request. Z values are only honored by
// hosts that implement perspective correction.
type TexturedTriangle struct {
	X1, Y1, X2, Y2, X3, Y3 float32
	U1, V1, U2, V2, U3, V3 float32
	TexSrc                 int32
	ColorKeys              []uint8
	Z1, Z2, Z3             float32
}

// Font describes a font draw request.
type Font struct {
	Text      string
	X, Y      int32
	ColorKeys []uint8
	W, H      int32
	Fixed     bool
	Scale     int32
	Alt       bool
}

// Sfx describes a sound effect trigger. Note and Octave of -1 play the
// effect's own pitch.
type Sfx struct {
	Index    int32
	Note     int32
	Octave   int32
	Duration int32
	Channel  int32
	Left     int32
	Right    int32
	Speed    int32
}

// Music describes a music track request.
type Music struct {
	Track   int32
	Frame   int32
	Row     int32
	Loop    bool
	Sustain bool
	Tempo   int32
	Speed   int32
}

// API is the set of native operations exposed to cartridge code. Read and
// write variants of the same resource are separate methods.
type API interface {
	// Drawing
	Print(text string, x, y int32, color uint8, fixed bool, scale int32, alt bool) int32
	Cls(color uint8)
	Pix(x, y int32) uint8
	SetPix(x, y int32, color uint8)
	Line(x0, y0, x1, y1 float32, color uint8)
	Rect(x, y, w, h int32, color uint8)
	RectB(x, y, w, h int32, color uint8)
	Circ(x, y, r int32, color uint8)
	CircB(x, y, r int32, color uint8)
	Elli(x, y, a, b int32, color uint8)
	ElliB(x, y, a, b int32, color uint8)
	Tri(x1, y1, x2, y2, x3, y3 float32, color uint8)
	TriB(x1, y1, x2, y2, x3, y3 float32, color uint8)
	TTri(t TexturedTriangle)
	Spr(s Sprite)
	Map(m MapView)
	Font(f Font) int32
	Clip(x, y, w, h int32)

	// Input
	Btn(id int32) bool
	Btnp(id, hold, period int32) bool
	Key(code int32) bool
	Keyp(code, hold, period int32) bool
	Mouse() Mouse

	// Map and sprite flags
	MGet(x, y int32) uint8
	MSet(x, y int32, value uint8)
	FGet(sprite int32, flag uint8) bool
	FSet(sprite int32, flag uint8, value bool)

	// Memory
	Peek(addr int32, bits int32) uint8
	Poke(addr int32, value uint8, bits int32)
	Peek1(addr int32) uint8
	Poke1(addr int32, value uint8)
	Peek2(addr int32) uint8
	Poke2(addr int32, value uint8)
	Peek4(addr int32) uint8
	Poke4(addr int32, value uint8)
	Memcpy(dst, src, size int32)
	Memset(dst int32, value uint8, size int32)
	PMem(index int32) uint32
	SetPMem(index int32, value uint32) uint32

	// Audio
	Sfx(s Sfx)
	Music(m Music)

	// System
	Sync(mask uint32, bank int32, toCart bool)
	VBank(bank int32) int32
	Trace(message string, color uint8)
	Time() float64
	Tstamp() uint32
	Exit()
	Reset()
}

// ErrorSink is implemented by hosts that surface script failures in their own
// diagnostic channel.
type ErrorSink interface {
	Error(message string)
}
