package images

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/png"
	"path/filepath"
	"testing"

	"github.com/li20034/mono-sense-hat/internal/led"
)

func solid(w, h int, c color.Color) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, c)
		}
	}
	return img
}

func TestScale(t *testing.T) {
	tests := []struct {
		name string
		w, h int
	}{
		{"8x8 passthrough", 8, 8},
		{"downscale", 64, 32},
		{"upscale", 2, 2},
	}

	red := color.RGBA{0xff, 0, 0, 0xff}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Scale(solid(tt.w, tt.h, red))
			if b := got.Bounds(); b.Dx() != 8 || b.Dy() != 8 {
				t.Fatalf("Scale() bounds = %v", b)
			}
			r, g, b, _ := got.At(4, 4).RGBA()
			if r>>8 < 0xf0 || g>>8 > 0x10 || b>>8 > 0x10 {
				t.Errorf("center pixel = %x,%x,%x, want red", r>>8, g>>8, b>>8)
			}
		})
	}
}

func TestDecode(t *testing.T) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, solid(16, 16, color.RGBA{0, 0, 0xff, 0xff})); err != nil {
		t.Fatal(err)
	}
	img, err := Decode(&buf)
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	rows, err := Rows(img)
	if err != nil {
		t.Fatalf("Rows() error = %v", err)
	}
	if rows[0][0].Pack() != 0x001f {
		t.Errorf("pixel = %v, want blue", rows[0][0])
	}

	if _, err := Decode(bytes.NewReader([]byte("not an image"))); err == nil {
		t.Error("Decode() of garbage should fail")
	}
}

func TestRowsDimensions(t *testing.T) {
	if _, err := Rows(solid(8, 7, color.Black)); !errors.Is(err, led.ErrInvalidDimensions) {
		t.Errorf("Rows(8x7) error = %v, want ErrInvalidDimensions", err)
	}
}

func TestSavePNG(t *testing.T) {
	b := led.NewBuffer()
	b.Set(2, 3, 0xf800)

	path := filepath.Join(t.TempDir(), "frame.png")
	if err := SavePNG(path, b); err != nil {
		t.Fatalf("SavePNG() error = %v", err)
	}
	img, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if got := led.Model.Convert(img.At(2, 3)); got != led.Color16(0xf800) {
		t.Errorf("pixel (2,3) = %v, want 0xf800", got)
	}
	if got := led.Model.Convert(img.At(0, 0)); got != led.Color16(0) {
		t.Errorf("pixel (0,0) = %v, want 0", got)
	}
}
