package console

import (
	"sync"

	"github.com/risor-io/tic/host"
)

// Gamepad buttons for player one. Player n adds 8*n.
const (
	ButtonUp = iota
	ButtonDown
	ButtonLeft
	ButtonRight
	ButtonA
	ButtonB
	ButtonX
	ButtonY
)

// Keyboard codes.
const (
	KeyA      = 1
	KeyZ      = 26
	Key0      = 27
	Key9      = 36
	KeyMinus  = 37
	KeySpace  = 48
	KeyTab    = 49
	KeyReturn = 50
	KeyBack   = 51
	KeyDelete = 52
	KeyUp     = 58
	KeyDown   = 59
	KeyLeft   = 60
	KeyRight  = 61
	KeyEscape = 66
	KeyCount  = 66
)

const buttonCount = 32

type input struct {
	mu sync.Mutex

	buttons, prevButtons uint32
	buttonHold           [buttonCount]int32

	keys, prevKeys [KeyCount + 1]bool
	keyHold        [KeyCount + 1]int32

	mouse host.Mouse
}

// SetButton updates a gamepad button. Safe for concurrent use.
func (c *Console) SetButton(id int, down bool) {
	if id < 0 || id >= buttonCount {
		return
	}
	c.in.mu.Lock()
	defer c.in.mu.Unlock()
	if down {
		c.in.buttons |= 1 << id
	} else {
		c.in.buttons &^= 1 << id
	}
}

// SetKey updates a keyboard key. Safe for concurrent use.
func (c *Console) SetKey(code int, down bool) {
	if code <= 0 || code > KeyCount {
		return
	}
	c.in.mu.Lock()
	defer c.in.mu.Unlock()
	c.in.keys[code] = down
}

// SetMouse replaces the pointer state. Safe for concurrent use.
func (c *Console) SetMouse(m host.Mouse) {
	c.in.mu.Lock()
	defer c.in.mu.Unlock()
	c.in.mouse = m
}

// ReleaseAll clears every button and key.
func (c *Console) ReleaseAll() {
	c.in.mu.Lock()
	defer c.in.mu.Unlock()
	c.in.buttons = 0
	c.in.keys = [KeyCount + 1]bool{}
}

// EndFrame advances the hold counters used by btnp and keyp and mirrors the
// input state into RAM.
func (c *Console) EndFrame() {
	c.in.mu.Lock()
	defer c.in.mu.Unlock()
	in := &c.in
	for i := range in.buttonHold {
		if in.buttons&(1<<i) != 0 {
			in.buttonHold[i]++
		} else {
			in.buttonHold[i] = 0
		}
	}
	in.prevButtons = in.buttons
	for i := range in.keyHold {
		if in.keys[i] {
			in.keyHold[i]++
		} else {
			in.keyHold[i] = 0
		}
	}
	in.prevKeys = in.keys

	c.ram[addrGamepads] = byte(in.buttons)
	c.ram[addrGamepads+1] = byte(in.buttons >> 8)
	c.ram[addrGamepads+2] = byte(in.buttons >> 16)
	c.ram[addrGamepads+3] = byte(in.buttons >> 24)
	c.ram[addrMouse] = byte(in.mouse.X)
	c.ram[addrMouse+1] = byte(in.mouse.Y)
	var mb byte
	if in.mouse.Left {
		mb |= 1
	}
	if in.mouse.Middle {
		mb |= 2
	}
	if in.mouse.Right {
		mb |= 4
	}
	c.ram[addrMouse+2] = mb
	pressed := c.ram[addrKeyboard : addrKeyboard+4]
	clear(pressed)
	n := 0
	for code := 1; code <= KeyCount && n < len(pressed); code++ {
		if in.keys[code] {
			pressed[n] = byte(code)
			n++
		}
	}
	c.frame++
}

// pressed reports a fresh press, or a repeat once held for hold frames and
// then every period frames.
func pressed(down, wasDown bool, held, hold, period int32) bool {
	if !down {
		return false
	}
	if !wasDown {
		return true
	}
	return hold >= 0 && period > 0 && held >= hold && (held-hold)%period == 0
}

func (c *Console) Btn(id int32) bool {
	c.in.mu.Lock()
	defer c.in.mu.Unlock()
	if id < 0 {
		return c.in.buttons != 0
	}
	if id >= buttonCount {
		return false
	}
	return c.in.buttons&(1<<id) != 0
}

func (c *Console) Btnp(id, hold, period int32) bool {
	c.in.mu.Lock()
	defer c.in.mu.Unlock()
	if id < 0 {
		return c.in.buttons&^c.in.prevButtons != 0
	}
	if id >= buttonCount {
		return false
	}
	bit := uint32(1) << id
	return pressed(c.in.buttons&bit != 0, c.in.prevButtons&bit != 0, c.in.buttonHold[id], hold, period)
}

func (c *Console) Key(code int32) bool {
	c.in.mu.Lock()
	defer c.in.mu.Unlock()
	if code < 0 {
		for _, down := range c.in.keys {
			if down {
				return true
			}
		}
		return false
	}
	if code == 0 || code > KeyCount {
		return false
	}
	return c.in.keys[code]
}

func (c *Console) Keyp(code, hold, period int32) bool {
	c.in.mu.Lock()
	defer c.in.mu.Unlock()
	if code < 0 {
		for i, down := range c.in.keys {
			if down && !c.in.prevKeys[i] {
				return true
			}
		}
		return false
	}
	if code == 0 || code > KeyCount {
		return false
	}
	return pressed(c.in.keys[code], c.in.prevKeys[code], c.in.keyHold[code], hold, period)
}

func (c *Console) Mouse() host.Mouse {
	c.in.mu.Lock()
	defer c.in.mu.Unlock()
	return c.in.mouse
}
