package console

import (
	"image"
	"math"

	"github.com/risor-io/tic/host"
)

var screen = image.Rect(0, 0, host.ScreenWidth, host.ScreenHeight)

func (c *Console) resetClip() {
	c.clip = screen
}

// Clip limits drawing to a rectangle. A call covering the whole screen
// restores the default.
func (c *Console) Clip(x, y, w, h int32) {
	c.clip = image.Rect(int(x), int(y), int(x+w), int(y+h)).Intersect(screen)
}

// ClipRect returns the active clipping rectangle.
func (c *Console) ClipRect() image.Rectangle {
	return c.clip
}

// plot sets a pixel inside the clip rectangle.
func (c *Console) plot(x, y int, color uint8) {
	if !image.Pt(x, y).In(c.clip) {
		return
	}
	c.Poke4(int32(y*host.ScreenWidth+x), color&0x0F)
}

func (c *Console) fill(r image.Rectangle, color uint8) {
	r = r.Intersect(c.clip)
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			c.Poke4(int32(y*host.ScreenWidth+x), color&0x0F)
		}
	}
}

func (c *Console) Cls(color uint8) {
	c.fill(screen, color)
}

func (c *Console) Pix(x, y int32) uint8 {
	if !image.Pt(int(x), int(y)).In(screen) {
		return 0
	}
	return c.Peek4(y*host.ScreenWidth + x)
}

func (c *Console) SetPix(x, y int32, color uint8) {
	c.plot(int(x), int(y), color)
}

func round(v float32) int {
	return int(math.Floor(float64(v) + 0.5))
}

func (c *Console) Line(x0, y0, x1, y1 float32, color uint8) {
	dx, dy := x1-x0, y1-y0
	steps := max(abs(dx), abs(dy))
	if steps < 1 {
		c.plot(round(x0), round(y0), color)
		return
	}
	n := int(math.Ceil(float64(steps)))
	for i := 0; i <= n; i++ {
		t := float32(i) / float32(n)
		c.plot(round(x0+dx*t), round(y0+dy*t), color)
	}
}

func abs(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}

func (c *Console) Rect(x, y, w, h int32, color uint8) {
	c.fill(image.Rect(int(x), int(y), int(x+w), int(y+h)), color)
}

func (c *Console) RectB(x, y, w, h int32, color uint8) {
	if w <= 0 || h <= 0 {
		return
	}
	x0, y0, x1, y1 := int(x), int(y), int(x+w-1), int(y+h-1)
	for i := x0; i <= x1; i++ {
		c.plot(i, y0, color)
		c.plot(i, y1, color)
	}
	for j := y0; j <= y1; j++ {
		c.plot(x0, j, color)
		c.plot(x1, j, color)
	}
}

// inEllipse reports whether offset (dx, dy) lies within radii a and b.
func inEllipse(dx, dy, a, b int) bool {
	if a == 0 || b == 0 {
		return abs32(dx) <= a && abs32(dy) <= b
	}
	// Half a pixel of slack keeps small shapes round.
	fa, fb := float64(a)+0.5, float64(b)+0.5
	fx, fy := float64(dx), float64(dy)
	return fx*fx/(fa*fa)+fy*fy/(fb*fb) <= 1
}

func abs32(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// ellipse fills or outlines an ellipse. The outline is every inside pixel
// with an outside 4-neighbor.
func (c *Console) ellipse(cx, cy, a, b int32, color uint8, border bool) {
	if a < 0 || b < 0 {
		return
	}
	ia, ib := int(a), int(b)
	for dy := -ib; dy <= ib; dy++ {
		for dx := -ia; dx <= ia; dx++ {
			if !inEllipse(dx, dy, ia, ib) {
				continue
			}
			if border && inEllipse(dx+1, dy, ia, ib) && inEllipse(dx-1, dy, ia, ib) &&
				inEllipse(dx, dy+1, ia, ib) && inEllipse(dx, dy-1, ia, ib) {
				continue
			}
			c.plot(int(cx)+dx, int(cy)+dy, color)
		}
	}
}

func (c *Console) Circ(x, y, r int32, color uint8) { c.ellipse(x, y, r, r, color, false) }
func (c *Console) CircB(x, y, r int32, color uint8) { c.ellipse(x, y, r, r, color, true) }
func (c *Console) Elli(x, y, a, b int32, color uint8) { c.ellipse(x, y, a, b, color, false) }
func (c *Console) ElliB(x, y, a, b int32, color uint8) { c.ellipse(x, y, a, b, color, true) }

type point struct{ x, y float32 }

func edge(a, b, p point) float32 {
	return (b.x-a.x)*(p.y-a.y) - (b.y-a.y)*(p.x-a.x)
}

// rasterize calls fn for every pixel whose center lies inside the triangle,
// passing the barycentric weights of the three vertices.
func (c *Console) rasterize(v [3]point, fn func(x, y int, w0, w1, w2 float32)) {
	area := edge(v[0], v[1], v[2])
	if area == 0 {
		return
	}
	minX := int(math.Floor(float64(min(v[0].x, v[1].x, v[2].x))))
	maxX := int(math.Ceil(float64(max(v[0].x, v[1].x, v[2].x))))
	minY := int(math.Floor(float64(min(v[0].y, v[1].y, v[2].y))))
	maxY := int(math.Ceil(float64(max(v[0].y, v[1].y, v[2].y))))
	bounds := image.Rect(minX, minY, maxX+1, maxY+1).Intersect(c.clip)
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			p := point{float32(x) + 0.5, float32(y) + 0.5}
			w0 := edge(v[1], v[2], p) / area
			w1 := edge(v[2], v[0], p) / area
			w2 := edge(v[0], v[1], p) / area
			if w0 < 0 || w1 < 0 || w2 < 0 {
				continue
			}
			fn(x, y, w0, w1, w2)
		}
	}
}

func (c *Console) Tri(x1, y1, x2, y2, x3, y3 float32, color uint8) {
	c.rasterize([3]point{{x1, y1}, {x2, y2}, {x3, y3}}, func(x, y int, _, _, _ float32) {
		c.plot(x, y, color)
	})
}

func (c *Console) TriB(x1, y1, x2, y2, x3, y3 float32, color uint8) {
	c.Line(x1, y1, x2, y2, color)
	c.Line(x2, y2, x3, y3, color)
	c.Line(x3, y3, x1, y1, color)
}
