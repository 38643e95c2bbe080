// Package images decodes pictures for the LED matrix and encodes buffer
// snapshots. Resampling to 8x8 happens here, never in the led package.
package images

import (
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"
	"io"
	"os"

	"github.com/li20034/mono-sense-hat/internal/led"
	"github.com/sirupsen/logrus"
	"golang.org/x/image/draw"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"
)

func decode(r io.Reader) (image.Image, error) {
	src, format, err := image.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("images: decode: %w", err)
	}
	logrus.Debugf("Decoded %s image %v", format, src.Bounds())
	return src, nil
}

// Decode reads any registered image format and scales it to 8x8.
func Decode(r io.Reader) (image.Image, error) {
	src, err := decode(r)
	if err != nil {
		return nil, err
	}
	return Scale(src), nil
}

// Open decodes the image file at path at its own size.
func Open(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return decode(f)
}

// Load decodes the image file at path and scales it to 8x8.
func Load(path string) (image.Image, error) {
	src, err := Open(path)
	if err != nil {
		return nil, err
	}
	return Scale(src), nil
}

// Scale resamples src to 8x8 with Catmull-Rom. An 8x8 source is returned
// unchanged.
func Scale(src image.Image) image.Image {
	b := src.Bounds()
	if b.Dx() == led.Width && b.Dy() == led.Height {
		return src
	}
	dst := image.NewRGBA(image.Rect(0, 0, led.Width, led.Height))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, b, draw.Src, nil)
	return dst
}

// Rows converts an 8x8 image to the row layout taken by
// led.Display.DrawBitmap.
func Rows(img image.Image) ([][]led.RGB, error) {
	b := img.Bounds()
	if b.Dx() != led.Width || b.Dy() != led.Height {
		return nil, fmt.Errorf("%w: got %dx%d", led.ErrInvalidDimensions, b.Dx(), b.Dy())
	}
	rows := make([][]led.RGB, led.Height)
	for y := range rows {
		rows[y] = make([]led.RGB, led.Width)
		for x := range rows[y] {
			r, g, bl, _ := img.At(b.Min.X+x, b.Min.Y+y).RGBA()
			rows[y][x] = led.RGB{R: uint8(r >> 8), G: uint8(g >> 8), B: uint8(bl >> 8)}
		}
	}
	return rows, nil
}

// EncodePNG writes a snapshot of buffer b as an 8x8 PNG.
func EncodePNG(w io.Writer, b *led.Buffer) error {
	return png.Encode(w, b)
}

// SavePNG writes a snapshot of buffer b to path.
func SavePNG(path string, b *led.Buffer) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := EncodePNG(f, b); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
