// Package console is a software reference implementation of host.API. It
// keeps a 4-bit framebuffer in RAM, tracks input between frames, persists
// pmem through a store and records audio requests without synthesizing them.
package console

import (
	"context"
	"errors"
	"image"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/risor-io/tic/host"
	"github.com/risor-io/tic/store"
)

// TraceLine is one message written by trace().
type TraceLine struct {
	Message string
	Color   uint8
}

// Option configures a Console.
type Option func(*Console)

// WithStore persists pmem under key in s.
func WithStore(s store.Store, key string) Option {
	return func(c *Console) {
		c.store = s
		c.key = key
	}
}

// WithLogger sets the logger used for traces, errors and audio events.
func WithLogger(logger zerolog.Logger) Option {
	return func(c *Console) {
		c.log = logger
	}
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(c *Console) {
		c.now = now
	}
}

// WithTraceFunc is called for every trace() in addition to recording it.
func WithTraceFunc(fn func(TraceLine)) Option {
	return func(c *Console) {
		c.onTrace = fn
	}
}

// Console is the reference host. Drawing, memory and system operations must
// be called from a single goroutine; input setters may be called from any.
type Console struct {
	ram  [host.RAMSize]byte
	boot [host.RAMSize]byte
	vram [vramSize]byte
	bank int32
	cart [cartBanks]*[host.RAMSize]byte
	clip image.Rectangle

	pmem  [host.PMemSlots]uint32
	dirty bool
	store store.Store
	key   string

	in    input
	frame int

	channels [channelCount]host.Sfx
	track    host.Music
	playing  bool

	traces  []TraceLine
	errors  []string
	onTrace func(TraceLine)

	log   zerolog.Logger
	now   func() time.Time
	start time.Time

	mu       sync.Mutex
	exitReq  bool
	resetReq bool
}

var _ host.API = (*Console)(nil)
var _ host.ErrorSink = (*Console)(nil)

// New returns a console with the default palette loaded. When a store is
// configured the saved pmem is restored; a missing record is not an error.
func New(ctx context.Context, opts ...Option) (*Console, error) {
	c := &Console{
		log: log.Logger,
		now: time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.start = c.now()
	loadPalette(c.ram[addrPalette:], defaultPalette)
	c.boot = c.ram
	c.resetClip()
	for i := range c.channels {
		c.channels[i].Index = -1
	}
	if c.store != nil {
		values, err := c.store.Load(ctx, c.key)
		switch {
		case errors.Is(err, store.ErrNotFound):
		case err != nil:
			return nil, err
		default:
			copy(c.pmem[:], values)
			c.log.Debug().Str("cart", c.key).Msg("restored persistent memory")
		}
	}
	return c, nil
}

// Restart restores RAM to its boot image, as a soft reset does. Persistent
// memory and input state are kept.
func (c *Console) Restart() {
	c.ram = c.boot
	c.vram = [vramSize]byte{}
	c.bank = 0
	c.cart = [cartBanks]*[host.RAMSize]byte{}
	c.resetClip()
	for i := range c.channels {
		c.channels[i] = host.Sfx{Index: -1}
	}
	c.playing = false
	c.mu.Lock()
	c.resetReq = false
	c.mu.Unlock()
}

// Frame returns the number of completed frames.
func (c *Console) Frame() int {
	return c.frame
}

func (c *Console) PMem(index int32) uint32 {
	if index < 0 || index >= host.PMemSlots {
		return 0
	}
	return c.pmem[index]
}

func (c *Console) SetPMem(index int32, value uint32) uint32 {
	if index < 0 || index >= host.PMemSlots {
		return 0
	}
	prev := c.pmem[index]
	if prev != value {
		c.pmem[index] = value
		c.dirty = true
	}
	return prev
}

// Flush saves pmem to the store if it changed since the last flush.
func (c *Console) Flush(ctx context.Context) error {
	if c.store == nil || !c.dirty {
		return nil
	}
	if err := c.store.Save(ctx, c.key, c.pmem[:]); err != nil {
		return err
	}
	c.dirty = false
	c.log.Debug().Str("cart", c.key).Msg("saved persistent memory")
	return nil
}

func (c *Console) Sfx(s host.Sfx) {
	if s.Channel < 0 || s.Channel >= channelCount {
		return
	}
	c.channels[s.Channel] = s
	c.log.Debug().
		Int32("sfx", s.Index).
		Int32("note", s.Note).
		Int32("octave", s.Octave).
		Int32("channel", s.Channel).
		Msg("sfx")
}

// Channel returns the effect last started on channel ch. Index is -1 when
// the channel is idle.
func (c *Console) Channel(ch int) host.Sfx {
	if ch < 0 || ch >= channelCount {
		return host.Sfx{Index: -1}
	}
	return c.channels[ch]
}

func (c *Console) Music(m host.Music) {
	c.track = m
	c.playing = m.Track >= 0
	c.log.Debug().Int32("track", m.Track).Bool("loop", m.Loop).Msg("music")
}

// Playing returns the current music request.
func (c *Console) Playing() (host.Music, bool) {
	return c.track, c.playing
}

func (c *Console) Trace(message string, color uint8) {
	line := TraceLine{Message: message, Color: color & 0x0F}
	c.traces = append(c.traces, line)
	c.log.Debug().Str("trace", message).Uint8("color", line.Color).Msg("trace")
	if c.onTrace != nil {
		c.onTrace(line)
	}
}

// Traces returns every trace line written so far.
func (c *Console) Traces() []TraceLine {
	return c.traces
}

// Error records a script failure.
func (c *Console) Error(message string) {
	c.errors = append(c.errors, message)
	c.log.Error().Msg(message)
}

// Errors returns every script failure reported so far.
func (c *Console) Errors() []string {
	return c.errors
}

// Time returns milliseconds since the console started.
func (c *Console) Time() float64 {
	return float64(c.now().Sub(c.start).Microseconds()) / 1000
}

func (c *Console) Tstamp() uint32 {
	return uint32(c.now().Unix())
}

func (c *Console) Exit() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.exitReq = true
}

func (c *Console) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.resetReq = true
}

// ExitRequested reports whether the cartridge called exit().
func (c *Console) ExitRequested() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.exitReq
}

// ResetRequested reports whether the cartridge called reset() since the
// last Restart.
func (c *Console) ResetRequested() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.resetReq
}
