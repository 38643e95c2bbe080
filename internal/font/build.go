package font

import (
	"fmt"
	"image"
	"image/color"

	"golang.org/x/image/draw"
	xfont "golang.org/x/image/font"
	"golang.org/x/image/math/fixed"
)

// pack turns a width x height lit-pixel predicate into glyph bits.
func pack(width, height int, lit func(x, y int) bool) uint64 {
	var bits uint64
	bitLen := width * height
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			if lit(x, y) {
				bits |= 1 << uint(bitLen-y*width-x-1)
			}
		}
	}
	return bits
}

// FromFace rasterizes every printable character of face into a cell of
// the face's full height and widest advance, then shrinks that cell to
// width x height. Faces taller than the matrix come out squeezed, not
// clipped.
func FromFace(face xfont.Face, width, height int) (*Font, error) {
	if width <= 0 || height <= 0 || width > MaxSide || height > MaxSide {
		return nil, fmt.Errorf("font: invalid glyph size %dx%d", width, height)
	}

	m := face.Metrics()
	cellHeight := (m.Ascent + m.Descent).Ceil()
	cellWidth := 0
	for ch := rune(FirstChar); ch <= LastChar; ch++ {
		if adv, ok := face.GlyphAdvance(ch); ok && adv.Ceil() > cellWidth {
			cellWidth = adv.Ceil()
		}
	}
	if cellWidth <= 0 || cellHeight <= 0 {
		return nil, fmt.Errorf("font: face has an empty %dx%d cell", cellWidth, cellHeight)
	}

	cell := image.NewAlpha(image.Rect(0, 0, cellWidth, cellHeight))
	dst := image.NewAlpha(image.Rect(0, 0, width, height))
	glyphs := make([]uint64, glyphCount)
	for ch := rune(FirstChar); ch <= LastChar; ch++ {
		bounds, _, ok := face.GlyphBounds(ch)
		if !ok {
			continue
		}
		dotX := fixed.I(0)
		if bounds.Min.X < 0 {
			dotX = -bounds.Min.X
		}

		draw.Draw(cell, cell.Bounds(), image.Transparent, image.Point{}, draw.Src)
		d := &xfont.Drawer{
			Dst:  cell,
			Src:  image.Opaque,
			Face: face,
			Dot:  fixed.Point26_6{X: dotX, Y: m.Ascent},
		}
		d.DrawString(string(ch))

		draw.ApproxBiLinear.Scale(dst, dst.Bounds(), cell, cell.Bounds(), draw.Src, nil)
		glyphs[ch-FirstChar] = pack(width, height, func(x, y int) bool {
			return dst.AlphaAt(x, y).A >= 0x40
		})
	}
	return New(width, height, glyphs)
}

// SheetChars is the tile order of a full font sheet: every printable
// character from ' ' to '~'.
var SheetChars = func() string {
	chars := make([]rune, 0, glyphCount)
	for ch := rune(FirstChar); ch <= LastChar; ch++ {
		chars = append(chars, ch)
	}
	return string(chars)
}()

// FromFullSheet reads a sheet holding one tile per character of
// SheetChars. The tile size is the sheet width by the sheet height
// divided by the number of characters.
func FromFullSheet(img image.Image) (*Font, error) {
	b := img.Bounds()
	if b.Dy()%glyphCount != 0 {
		return nil, fmt.Errorf("font: sheet height %d is not a multiple of %d", b.Dy(), glyphCount)
	}
	return FromSheet(img, SheetChars, b.Dx(), b.Dy()/glyphCount)
}

// FromSheet reads glyph tiles stacked vertically in img, one tile of
// width x height per rune of chars. A pixel is lit when it is brighter
// than mid gray. Printable characters missing from chars stay blank.
func FromSheet(img image.Image, chars string, width, height int) (*Font, error) {
	if width <= 0 || height <= 0 || width > MaxSide || height > MaxSide {
		return nil, fmt.Errorf("font: invalid glyph size %dx%d", width, height)
	}
	b := img.Bounds()
	if b.Dx() < width {
		return nil, fmt.Errorf("font: sheet is %d pixels wide, need %d", b.Dx(), width)
	}

	glyphs := make([]uint64, glyphCount)
	tile := 0
	for _, ch := range chars {
		if !Printable(ch) {
			return nil, fmt.Errorf("%w: %q in sheet", ErrUnsupportedChar, ch)
		}
		top := b.Min.Y + tile*height
		if top+height > b.Max.Y {
			return nil, fmt.Errorf("font: sheet too short for %d glyphs", tile+1)
		}
		glyphs[ch-FirstChar] = pack(width, height, func(x, y int) bool {
			g := color.GrayModel.Convert(img.At(b.Min.X+x, top+y)).(color.Gray)
			return g.Y > 0x7f
		})
		tile++
	}
	return New(width, height, glyphs)
}
