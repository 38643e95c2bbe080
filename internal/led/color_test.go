package led

import (
	"image/color"
	"testing"
)

func TestPackRGB565(t *testing.T) {
	tests := []struct {
		name    string
		r, g, b uint8
		want    Color16
	}{
		{"red", 255, 0, 0, 0xf800},
		{"green", 0, 255, 0, 0x07e0},
		{"blue", 0, 0, 255, 0x001f},
		{"white", 255, 255, 255, 0xffff},
		{"black", 0, 0, 0, 0x0000},
		{"truncates", 7, 3, 7, 0x0000},
		{"first step", 8, 4, 8, 0x0821},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := PackRGB565(tt.r, tt.g, tt.b); got != tt.want {
				t.Errorf("PackRGB565(%d, %d, %d) = %v, want %v", tt.r, tt.g, tt.b, got, tt.want)
			}
		})
	}
}

func TestPackRGB565RawMasks(t *testing.T) {
	if got := PackRGB565Raw(31, 63, 31); got != 0xffff {
		t.Errorf("PackRGB565Raw(31, 63, 31) = %v, want 0xffff", got)
	}
	// A 6 bit value in the red slot must not reach the green field.
	if got := PackRGB565Raw(0x3f, 0, 0); got != 0xf800 {
		t.Errorf("PackRGB565Raw(0x3f, 0, 0) = %v, want 0xf800", got)
	}
	if got := PackRGB565Raw(0, 0x7f, 0x20); got != 0x07e0 {
		t.Errorf("PackRGB565Raw(0, 0x7f, 0x20) = %v, want 0x07e0", got)
	}
}

func TestUnpack(t *testing.T) {
	r5, g6, b5 := Color16(0xf800).RGB565()
	if r5 != 31 || g6 != 0 || b5 != 0 {
		t.Errorf("RGB565(0xf800) = %d,%d,%d, want 31,0,0", r5, g6, b5)
	}
	if got := Color16(0xf800).RGB888(); got != (RGB{255, 0, 0}) {
		t.Errorf("RGB888(0xf800) = %v, want {255 0 0}", got)
	}
	if got := Color16(0x07e0).RGB888(); got != (RGB{0, 255, 0}) {
		t.Errorf("RGB888(0x07e0) = %v, want {0 255 0}", got)
	}
	// 16*255/31 = 131, 32*255/63 = 129
	if got := PackRGB565Raw(16, 32, 16).RGB888(); got != (RGB{131, 129, 131}) {
		t.Errorf("RGB888(16,32,16) = %v, want {131 129 131}", got)
	}
}

func TestRoundTripAllColors(t *testing.T) {
	diff := func(a, b uint8) int {
		if a > b {
			return int(a - b)
		}
		return int(b - a)
	}

	for r := 0; r < 256; r++ {
		for g := 0; g < 256; g++ {
			for b := 0; b < 256; b += 5 {
				c := PackRGB565(uint8(r), uint8(g), uint8(b))
				back := c.RGB888()
				if diff(back.R, uint8(r)) > 8 || diff(back.G, uint8(g)) > 4 || diff(back.B, uint8(b)) > 8 {
					t.Fatalf("(%d,%d,%d) -> %v -> %v exceeds quantization step", r, g, b, c, back)
				}
				if again := back.Pack(); again != c {
					t.Fatalf("re-encoding %v gives %v", c, again)
				}
			}
		}
	}
}

func TestModel(t *testing.T) {
	if got := Model.Convert(color.RGBA{0xff, 0, 0, 0xff}); got != Color16(0xf800) {
		t.Errorf("Model.Convert(red) = %v, want 0xf800", got)
	}
	if got := Model.Convert(Color16(0x1234)); got != Color16(0x1234) {
		t.Errorf("Model.Convert(Color16) = %v, want passthrough", got)
	}
	r, g, b, a := Color16(0xffff).RGBA()
	if r != 0xffff || g != 0xffff || b != 0xffff || a != 0xffff {
		t.Errorf("RGBA(0xffff) = %x,%x,%x,%x", r, g, b, a)
	}
}

func TestParseColor(t *testing.T) {
	tests := []struct {
		in      string
		want    Color16
		wantErr bool
	}{
		{"#ff0000", 0xf800, false},
		{"#00ff00", 0x07e0, false},
		{"#fff", 0xffff, false},
		{"0x7fff", 0x7fff, false},
		{" #0000ff ", 0x001f, false},
		{"red", 0, true},
		{"#12345", 0, true},
		{"0x1ffff", 0, true},
		{"#gg0000", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseColor(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseColor(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseColor(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}
