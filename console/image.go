package console

import (
	"fmt"
	"image"
	"image/color"

	"github.com/anthonynsimon/bild/imgio"
	"github.com/anthonynsimon/bild/transform"

	"github.com/risor-io/tic/host"
)

// defaultPalette is SWEETIE-16.
var defaultPalette = [16]uint32{
	0x1a1c2c, 0x5d275d, 0xb13e53, 0xef7d57,
	0xffcd75, 0xa7f070, 0x38b764, 0x257179,
	0x29366f, 0x3b5dc9, 0x41a6f6, 0x73eff7,
	0xf4f4f4, 0x94b0c2, 0x566c86, 0x333c57,
}

func loadPalette(dst []byte, palette [16]uint32) {
	for i, rgb := range palette {
		dst[i*3] = byte(rgb >> 16)
		dst[i*3+1] = byte(rgb >> 8)
		dst[i*3+2] = byte(rgb)
	}
}

// Color returns palette entry index as currently held in RAM.
func (c *Console) Color(index uint8) color.NRGBA {
	i := addrPalette + int(index&0x0F)*3
	return color.NRGBA{R: c.ram[i], G: c.ram[i+1], B: c.ram[i+2], A: 0xFF}
}

// Image renders the screen through the palette.
func (c *Console) Image() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, host.ScreenWidth, host.ScreenHeight))
	for y := 0; y < host.ScreenHeight; y++ {
		for x := 0; x < host.ScreenWidth; x++ {
			img.SetNRGBA(x, y, c.Color(c.Pix(int32(x), int32(y))))
		}
	}
	return img
}

// Screenshot writes the screen to a PNG file, enlarged by scale.
func (c *Console) Screenshot(path string, scale int) error {
	if scale < 1 {
		scale = 1
	}
	var img image.Image = c.Image()
	if scale > 1 {
		img = transform.Resize(img, host.ScreenWidth*scale, host.ScreenHeight*scale, transform.NearestNeighbor)
	}
	if err := imgio.Save(path, img, imgio.PNGEncoder()); err != nil {
		return fmt.Errorf("screenshot: %w", err)
	}
	return nil
}
