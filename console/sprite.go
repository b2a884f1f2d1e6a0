package console

import (
	"image"
	"slices"

	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/risor-io/tic/host"
)

const (
	sheetWidth  = 128 // pixels
	tilesPerRow = 16
)

// tilePixel reads pixel (x, y) of an 8x8 tile. Ids wrap at 512.
func (c *Console) tilePixel(id, x, y int) uint8 {
	id &= host.SpriteCount - 1
	nibble := (addrTiles+id*tileSize)*2 + y*8 + x
	return c.Peek4(int32(nibble))
}

// sheetPixel reads a pixel of the 128x256 sprite sheet.
func (c *Console) sheetPixel(x, y int) uint8 {
	x &= sheetWidth - 1
	y &= 2*sheetWidth - 1
	return c.tilePixel(y/8*tilesPerRow+x/8, x%8, y%8)
}

func keyed(keys []uint8, color uint8) bool {
	return slices.Contains(keys, color)
}

func (c *Console) block(x, y, scale int, color uint8) {
	if scale == 1 {
		c.plot(x, y, color)
		return
	}
	c.fill(image.Rect(x, y, x+scale, y+scale), color)
}

// Spr draws a w*h block of tiles starting at s.ID. Flip bit 0 mirrors
// horizontally and bit 1 vertically; rotation is in quarter turns clockwise
// and applies after flipping.
func (c *Console) Spr(s host.Sprite) {
	scale := int(max(s.Scale, 1))
	w, h := int(max(s.W, 1))*8, int(max(s.H, 1))*8
	for sy := 0; sy < h; sy++ {
		for sx := 0; sx < w; sx++ {
			tile := int(s.ID) + sy/8*tilesPerRow + sx/8
			color := c.tilePixel(tile, sx%8, sy%8)
			if keyed(s.ColorKeys, color) {
				continue
			}
			fx, fy := sx, sy
			if s.Flip&1 != 0 {
				fx = w - 1 - fx
			}
			if s.Flip&2 != 0 {
				fy = h - 1 - fy
			}
			dx, dy := fx, fy
			switch s.Rotate & 3 {
			case 1:
				dx, dy = h-1-fy, fx
			case 2:
				dx, dy = w-1-fx, h-1-fy
			case 3:
				dx, dy = fy, w-1-fx
			}
			c.block(int(s.X)+dx*scale, int(s.Y)+dy*scale, scale, color)
		}
	}
}

// Map draws a region of map cells. Cell coordinates wrap around the map.
func (c *Console) Map(m host.MapView) {
	scale := max(m.Scale, 1)
	for j := int32(0); j < m.H; j++ {
		for i := int32(0); i < m.W; i++ {
			cx := mod(m.X+i, host.MapWidth)
			cy := mod(m.Y+j, host.MapHeight)
			c.Spr(host.Sprite{
				ID:        int32(c.MGet(cx, cy)),
				X:         m.SX + i*8*scale,
				Y:         m.SY + j*8*scale,
				ColorKeys: m.ColorKeys,
				Scale:     scale,
				W:         1,
				H:         1,
			})
		}
	}
}

func mod(v, n int32) int32 {
	v %= n
	if v < 0 {
		v += n
	}
	return v
}

// Font draws text using tiles as glyphs: character code n uses tile n, or
// tile 256+n with alt. Proportional glyphs are trimmed to their rightmost
// opaque column. Returns the width of the widest line.
func (c *Console) Font(f host.Font) int32 {
	scale := int(max(f.Scale, 1))
	gw, gh := int(max(f.W, 1)), int(max(f.H, 1))
	base := 0
	if f.Alt {
		base = 256
	}
	x, y := int(f.X), int(f.Y)
	width, widest := 0, 0
	for _, ch := range []byte(f.Text) {
		if ch == '\n' {
			widest = max(widest, width)
			width = 0
			y += gh * scale
			continue
		}
		tile := base + int(ch)
		advance := gw
		if !f.Fixed {
			advance = c.glyphWidth(tile, gw, gh, f.ColorKeys)
		}
		for gy := 0; gy < gh; gy++ {
			for gx := 0; gx < advance; gx++ {
				color := c.sheetPixel(tile%tilesPerRow*8+gx, tile/tilesPerRow*8+gy)
				if keyed(f.ColorKeys, color) {
					continue
				}
				c.block(x+(width+gx)*scale, y+gy*scale, scale, color)
			}
		}
		width += advance + 1
	}
	return int32(max(widest, width) * scale)
}

func (c *Console) glyphWidth(tile, gw, gh int, keys []uint8) int {
	for gx := gw - 1; gx >= 0; gx-- {
		for gy := 0; gy < gh; gy++ {
			color := c.sheetPixel(tile%tilesPerRow*8+gx, tile/tilesPerRow*8+gy)
			if !keyed(keys, color) {
				return gx + 1
			}
		}
	}
	return gw / 2
}

// Print draws text with the built-in 7x13 font. The font is monospaced, so
// fixed has no effect, and alt selects no other glyphs. Returns the width of
// the widest line.
func (c *Console) Print(text string, x, y int32, color uint8, fixed bool, scale int32, alt bool) int32 {
	face := basicfont.Face7x13
	s := int(max(scale, 1))
	ascent := face.Ascent
	lineHeight := face.Height
	advance := face.Advance
	cx, cy := 0, 0
	widest := 0
	for _, ch := range text {
		if ch == '\n' {
			widest = max(widest, cx)
			cx = 0
			cy += lineHeight
			continue
		}
		dr, mask, mp, _, ok := face.Glyph(fixedPoint(cx, cy+ascent), ch)
		if !ok {
			dr, mask, mp, _, _ = face.Glyph(fixedPoint(cx, cy+ascent), '?')
		}
		for py := dr.Min.Y; py < dr.Max.Y; py++ {
			for px := dr.Min.X; px < dr.Max.X; px++ {
				_, _, _, a := mask.At(mp.X+px-dr.Min.X, mp.Y+py-dr.Min.Y).RGBA()
				if a == 0 {
					continue
				}
				c.block(int(x)+px*s, int(y)+py*s, s, color)
			}
		}
		cx += advance
	}
	return int32(max(widest, cx) * s)
}

func fixedPoint(x, y int) fixed.Point26_6 {
	return fixed.P(x, y)
}

// TTri draws a textured triangle with affine mapping. TexSrc 0 samples the
// sprite sheet, 1 the map and 2 the screen. Depth values are ignored.
func (c *Console) TTri(t host.TexturedTriangle) {
	v := [3]point{{t.X1, t.Y1}, {t.X2, t.Y2}, {t.X3, t.Y3}}
	var sample func(u, v int) uint8
	switch t.TexSrc {
	case 1:
		sample = func(u, v int) uint8 {
			cx := mod(int32(u>>3), host.MapWidth)
			cy := mod(int32(v>>3), host.MapHeight)
			return c.tilePixel(int(c.MGet(cx, cy)), u&7, v&7)
		}
	case 2:
		var snapshot [screenSize]byte
		copy(snapshot[:], c.ram[addrScreen:addrScreen+screenSize])
		sample = func(u, v int) uint8 {
			u = int(mod(int32(u), host.ScreenWidth))
			v = int(mod(int32(v), host.ScreenHeight))
			i := v*host.ScreenWidth + u
			return snapshot[i/2] >> (uint(i%2) * 4) & 0x0F
		}
	default:
		sample = c.sheetPixel
	}
	c.rasterize(v, func(x, y int, w0, w1, w2 float32) {
		u := round(w0*t.U1 + w1*t.U2 + w2*t.U3 - 0.5)
		vv := round(w0*t.V1 + w1*t.V2 + w2*t.V3 - 0.5)
		color := sample(u, vv)
		if keyed(t.ColorKeys, color) {
			return
		}
		c.plot(x, y, color)
	})
}
