package led

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"
)

// Color16 is a packed RGB565 value: RRRRR GGGGGG BBBBB from MSB to LSB.
type Color16 uint16

// DefaultTextColor is used when no text colour is given.
const DefaultTextColor Color16 = 0x7fff

const (
	mask5 = 0x1f
	mask6 = 0x3f
)

// RGB is an 8 bit per channel colour.
type RGB struct {
	R, G, B uint8
}

// PackRGB565 quantizes 8 bit channels down to 5/6/5 bits by truncation.
func PackRGB565(r, g, b uint8) Color16 {
	return Color16(r>>3)<<11 | Color16(g>>2)<<5 | Color16(b>>3)
}

// PackRGB565Raw packs already quantized components. Components wider than
// their field are masked so they never bleed into a neighbour channel.
func PackRGB565Raw(r5, g6, b5 uint8) Color16 {
	return Color16(r5&mask5)<<11 | Color16(g6&mask6)<<5 | Color16(b5&mask5)
}

// Pack returns the RGB565 value of c.
func (c RGB) Pack() Color16 {
	return PackRGB565(c.R, c.G, c.B)
}

// RGBA implements color.Color.
func (c RGB) RGBA() (r, g, b, a uint32) {
	r = uint32(c.R) * 0x101
	g = uint32(c.G) * 0x101
	b = uint32(c.B) * 0x101
	return r, g, b, 0xffff
}

// RGB565 extracts the raw 5/6/5 components.
func (c Color16) RGB565() (r5, g6, b5 uint8) {
	return uint8(c>>11) & mask5, uint8(c>>5) & mask6, uint8(c) & mask5
}

// RGB888 expands the components back to 8 bits.
func (c Color16) RGB888() RGB {
	r5, g6, b5 := c.RGB565()
	return RGB{
		R: uint8(uint16(r5) * 255 / 31),
		G: uint8(uint16(g6) * 255 / 63),
		B: uint8(uint16(b5) * 255 / 31),
	}
}

// RGBA implements color.Color.
func (c Color16) RGBA() (r, g, b, a uint32) {
	return c.RGB888().RGBA()
}

func (c Color16) String() string {
	return fmt.Sprintf("0x%04x", uint16(c))
}

// Model converts any color.Color to Color16.
var Model = color.ModelFunc(toColor16)

func toColor16(c color.Color) color.Color {
	if c16, ok := c.(Color16); ok {
		return c16
	}
	r, g, b, _ := c.RGBA()
	return PackRGB565(uint8(r>>8), uint8(g>>8), uint8(b>>8))
}

// ParseColor accepts "#rrggbb", "#rgb" or a packed RGB565 value such as
// "0xf800".
func ParseColor(s string) (Color16, error) {
	s = strings.TrimSpace(s)
	switch {
	case strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X"):
		v, err := strconv.ParseUint(s[2:], 16, 16)
		if err != nil {
			return 0, fmt.Errorf("invalid color %q: %v", s, err)
		}
		return Color16(v), nil
	case strings.HasPrefix(s, "#"):
		hex := s[1:]
		if len(hex) == 3 {
			hex = string([]byte{hex[0], hex[0], hex[1], hex[1], hex[2], hex[2]})
		}
		if len(hex) != 6 {
			return 0, fmt.Errorf("invalid color %q", s)
		}
		v, err := strconv.ParseUint(hex, 16, 32)
		if err != nil {
			return 0, fmt.Errorf("invalid color %q: %v", s, err)
		}
		return PackRGB565(uint8(v>>16), uint8(v>>8), uint8(v)), nil
	}
	return 0, fmt.Errorf("invalid color %q", s)
}
