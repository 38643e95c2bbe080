// Package led drives an 8x8 RGB565 LED matrix through a double buffered
// Display. Drawing happens on the back buffer; Present copies it, rotated
// if needed, into the front buffer which the Driver pushes to the LEDs.
package led

import (
	"fmt"
	"image"
	"image/color"
)

// Matrix geometry.
const (
	Width  = 8
	Height = 8
	Size   = Width * Height
)

// Buffer is an 8x8 grid of RGB565 cells stored row major, index (y<<3)|x.
//
// Buffer implements image.Image so it can be handed to image encoders and
// periph display drawers directly.
type Buffer struct {
	pix [Size]Color16
}

// NewBuffer returns a zeroed buffer.
func NewBuffer() *Buffer {
	return &Buffer{}
}

func index(x, y int) (int, error) {
	if x < 0 || x >= Width || y < 0 || y >= Height {
		return 0, fmt.Errorf("%w: pixel (%d, %d)", ErrOutOfRange, x, y)
	}
	return y<<3 | x, nil
}

// Get returns the cell at (x, y).
func (b *Buffer) Get(x, y int) (Color16, error) {
	i, err := index(x, y)
	if err != nil {
		return 0, err
	}
	return b.pix[i], nil
}

// Set writes the cell at (x, y).
func (b *Buffer) Set(x, y int, c Color16) error {
	i, err := index(x, y)
	if err != nil {
		return err
	}
	b.pix[i] = c
	return nil
}

// Fill sets every cell to c.
func (b *Buffer) Fill(c Color16) {
	for i := range b.pix {
		b.pix[i] = c
	}
}

// CopyFrom overwrites b with src.
func (b *Buffer) CopyFrom(src *Buffer) {
	b.pix = src.pix
}

// ReadAll returns a copy of all 64 cells.
func (b *Buffer) ReadAll() [Size]Color16 {
	return b.pix
}

// WriteAll overwrites all cells. values must hold exactly 64 entries,
// otherwise nothing is written.
func (b *Buffer) WriteAll(values []Color16) error {
	if len(values) != Size {
		return fmt.Errorf("%w: got %d values, want %d", ErrLengthMismatch, len(values), Size)
	}
	copy(b.pix[:], values)
	return nil
}

// Clone returns an independent copy of b.
func (b *Buffer) Clone() *Buffer {
	c := *b
	return &c
}

// ColorModel implements image.Image.
func (b *Buffer) ColorModel() color.Model {
	return Model
}

// Bounds implements image.Image.
func (b *Buffer) Bounds() image.Rectangle {
	return image.Rect(0, 0, Width, Height)
}

// At implements image.Image. Points outside the matrix are black.
func (b *Buffer) At(x, y int) color.Color {
	c, err := b.Get(x, y)
	if err != nil {
		return Color16(0)
	}
	return c
}
