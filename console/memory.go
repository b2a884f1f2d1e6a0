package console

import "github.com/risor-io/tic/host"

// RAM layout.
const (
	addrScreen   = 0x00000
	addrPalette  = 0x03FC0
	addrTiles    = 0x04000
	addrSprites  = 0x06000
	addrMap      = 0x08000
	addrGamepads = 0x0FF80
	addrMouse    = 0x0FF84
	addrKeyboard = 0x0FF88
	addrSfx      = 0x100E4
	addrMusic    = 0x11164
	addrFlags    = 0x14404

	screenSize  = host.ScreenWidth * host.ScreenHeight / 2
	vramSize    = 0x4000
	tileSize    = 32
	mapSize     = host.MapWidth * host.MapHeight
	sfxSize     = 66 * 64
	musicSize   = 0x13FFC - addrMusic
	flagsSize   = host.SpriteCount
	paletteSize = 16 * 3

	cartBanks    = 8
	channelCount = 4
)

type section struct {
	bit  uint32
	addr int
	size int
}

// sections are the regions sync() copies, in mask bit order.
var sections = []section{
	{1 << 0, addrTiles, 256 * tileSize},
	{1 << 1, addrSprites, 256 * tileSize},
	{1 << 2, addrMap, mapSize},
	{1 << 3, addrSfx, sfxSize},
	{1 << 4, addrMusic, musicSize},
	{1 << 5, addrPalette, paletteSize},
	{1 << 6, addrFlags, flagsSize},
	{1 << 7, addrScreen, screenSize},
}

// RAM exposes the console memory.
func (c *Console) RAM() []byte {
	return c.ram[:]
}

func (c *Console) Peek(addr int32, bits int32) uint8 {
	switch bits {
	case 1:
		return c.Peek1(addr)
	case 2:
		return c.Peek2(addr)
	case 4:
		return c.Peek4(addr)
	case 8:
		if addr < 0 || int(addr) >= len(c.ram) {
			return 0
		}
		return c.ram[addr]
	}
	return 0
}

func (c *Console) Poke(addr int32, value uint8, bits int32) {
	switch bits {
	case 1:
		c.Poke1(addr, value)
	case 2:
		c.Poke2(addr, value)
	case 4:
		c.Poke4(addr, value)
	case 8:
		if addr >= 0 && int(addr) < len(c.ram) {
			c.ram[addr] = value
		}
	}
}

// peekBits reads the width-bit value at index addr, counting addresses in
// units of width.
func (c *Console) peekBits(addr int32, width uint) uint8 {
	perByte := int64(8 / width)
	if addr < 0 || int64(addr) >= int64(len(c.ram))*perByte {
		return 0
	}
	shift := uint(int64(addr)%perByte) * width
	mask := uint8(1<<width - 1)
	return c.ram[int64(addr)/perByte] >> shift & mask
}

func (c *Console) pokeBits(addr int32, value uint8, width uint) {
	perByte := int64(8 / width)
	if addr < 0 || int64(addr) >= int64(len(c.ram))*perByte {
		return
	}
	shift := uint(int64(addr)%perByte) * width
	mask := uint8(1<<width-1) << shift
	i := int64(addr) / perByte
	c.ram[i] = c.ram[i]&^mask | value<<shift&mask
}

func (c *Console) Peek1(addr int32) uint8 { return c.peekBits(addr, 1) }
func (c *Console) Peek2(addr int32) uint8 { return c.peekBits(addr, 2) }
func (c *Console) Peek4(addr int32) uint8 { return c.peekBits(addr, 4) }

func (c *Console) Poke1(addr int32, value uint8) { c.pokeBits(addr, value, 1) }
func (c *Console) Poke2(addr int32, value uint8) { c.pokeBits(addr, value, 2) }
func (c *Console) Poke4(addr int32, value uint8) { c.pokeBits(addr, value, 4) }

// span reports whether [addr, addr+size) lies inside RAM.
func (c *Console) span(addr, size int32) bool {
	return addr >= 0 && size >= 0 && int64(addr)+int64(size) <= int64(len(c.ram))
}

// Memcpy copies size bytes, handling overlapping ranges. Out of range
// requests are ignored.
func (c *Console) Memcpy(dst, src, size int32) {
	if !c.span(dst, size) || !c.span(src, size) {
		return
	}
	copy(c.ram[dst:dst+size], c.ram[src:src+size])
}

func (c *Console) Memset(dst int32, value uint8, size int32) {
	if !c.span(dst, size) {
		return
	}
	region := c.ram[dst : dst+size]
	for i := range region {
		region[i] = value
	}
}

func (c *Console) MGet(x, y int32) uint8 {
	if x < 0 || x >= host.MapWidth || y < 0 || y >= host.MapHeight {
		return 0
	}
	return c.ram[addrMap+int(y)*host.MapWidth+int(x)]
}

func (c *Console) MSet(x, y int32, value uint8) {
	if x < 0 || x >= host.MapWidth || y < 0 || y >= host.MapHeight {
		return
	}
	c.ram[addrMap+int(y)*host.MapWidth+int(x)] = value
}

func (c *Console) FGet(sprite int32, flag uint8) bool {
	if sprite < 0 || sprite >= host.SpriteCount || flag >= host.FlagCount {
		return false
	}
	return c.ram[addrFlags+int(sprite)]&(1<<flag) != 0
}

func (c *Console) FSet(sprite int32, flag uint8, value bool) {
	if sprite < 0 || sprite >= host.SpriteCount || flag >= host.FlagCount {
		return
	}
	if value {
		c.ram[addrFlags+int(sprite)] |= 1 << flag
	} else {
		c.ram[addrFlags+int(sprite)] &^= 1 << flag
	}
}

// Sync copies the sections selected by mask between RAM and cartridge bank.
// A zero mask selects every section. Banks start as the boot image.
func (c *Console) Sync(mask uint32, bank int32, toCart bool) {
	if bank < 0 || bank >= cartBanks {
		c.log.Warn().Int32("bank", bank).Msg("sync: bank out of range")
		return
	}
	if mask == 0 {
		mask = 0xFF
	}
	cart := c.cart[bank]
	if cart == nil {
		snapshot := c.boot
		cart = &snapshot
		c.cart[bank] = cart
	}
	for _, s := range sections {
		if mask&s.bit == 0 {
			continue
		}
		if toCart {
			copy(cart[s.addr:s.addr+s.size], c.ram[s.addr:s.addr+s.size])
		} else {
			copy(c.ram[s.addr:s.addr+s.size], cart[s.addr:s.addr+s.size])
		}
	}
}

// VBank switches the video bank and returns the previous one. Only banks 0
// and 1 exist; other values leave the current bank in place.
func (c *Console) VBank(bank int32) int32 {
	prev := c.bank
	if bank == prev || (bank != 0 && bank != 1) {
		return prev
	}
	active := c.ram[:vramSize]
	for i := range active {
		active[i], c.vram[i] = c.vram[i], active[i]
	}
	c.bank = bank
	return prev
}
