// Package font holds bit packed bitmap fonts for the LED matrix.
//
// A glyph is width*height bits right aligned in a uint64, MSB first: bit
// width*height-1 is the top-left pixel and rows follow each other.
package font

import (
	"errors"
	"fmt"
)

// Printable range covered by a font.
const (
	FirstChar  = ' '
	LastChar   = '~'
	glyphCount = LastChar - FirstChar + 1

	// MaxSide is the largest glyph side that fits on the matrix. Shapes
	// such as 16x4 fit the 64 glyph bits but could never be shown whole.
	MaxSide = 8
)

// ErrUnsupportedChar is returned for characters outside ' '..'~'.
var ErrUnsupportedChar = errors.New("font: unsupported character")

// Font is an immutable glyph table.
type Font struct {
	Width  int
	Height int
	glyphs [glyphCount]uint64
}

// New builds a font from 95 glyphs ordered from ' ' to '~'.
func New(width, height int, glyphs []uint64) (*Font, error) {
	if width <= 0 || height <= 0 || width > MaxSide || height > MaxSide {
		return nil, fmt.Errorf("font: invalid glyph size %dx%d", width, height)
	}
	if len(glyphs) != glyphCount {
		return nil, fmt.Errorf("font: got %d glyphs, want %d", len(glyphs), glyphCount)
	}
	f := &Font{Width: width, Height: height}
	copy(f.glyphs[:], glyphs)
	return f, nil
}

// Printable reports whether ch has a glyph slot.
func Printable(ch rune) bool {
	return ch >= FirstChar && ch <= LastChar
}

// Glyph returns the bit pattern of ch.
func (f *Font) Glyph(ch rune) (uint64, error) {
	if !Printable(ch) {
		return 0, fmt.Errorf("%w: %q", ErrUnsupportedChar, ch)
	}
	return f.glyphs[ch-FirstChar], nil
}

// Lit reports whether pixel (row, col) of the glyph bits is set.
func (f *Font) Lit(bits uint64, row, col int) bool {
	shift := f.Width*f.Height - row*f.Width - col - 1
	return bits>>uint(shift)&1 == 1
}

// Column returns column col of the glyph as a byte whose MSB is row 0.
// Rows below the font height are blank.
func (f *Font) Column(bits uint64, col int) uint8 {
	var c uint8
	for row := 0; row < f.Height; row++ {
		if f.Lit(bits, row, col) {
			c |= 0x80 >> uint(row)
		}
	}
	return c
}
