package led

import (
	"errors"
	"testing"
)

var allOrientations = []Orientation{Rotate0, Rotate90, Rotate180, Rotate270, FlipH, FlipV}

func numbered() *Buffer {
	b := NewBuffer()
	for i := range b.pix {
		b.pix[i] = Color16(i + 1)
	}
	return b
}

func TestRotateBijection(t *testing.T) {
	src := numbered()
	for _, o := range allOrientations {
		t.Run(o.String(), func(t *testing.T) {
			dst := o.Apply(src)
			seen := make(map[Color16]bool)
			for i, c := range dst.ReadAll() {
				if c == 0 {
					t.Fatalf("cell %d never written", i)
				}
				if seen[c] {
					t.Fatalf("value %v written twice", c)
				}
				seen[c] = true
			}
		})
	}
}

func TestRotateCycles(t *testing.T) {
	src := numbered()

	b := src
	for i := 0; i < 4; i++ {
		b = Rotate90.Apply(b)
	}
	if b.ReadAll() != src.ReadAll() {
		t.Error("four 90 degree rotations differ from identity")
	}

	tests := []struct {
		name  string
		steps []Orientation
	}{
		{"flip_h twice", []Orientation{FlipH, FlipH}},
		{"flip_v twice", []Orientation{FlipV, FlipV}},
		{"180 twice", []Orientation{Rotate180, Rotate180}},
		{"90 then 270", []Orientation{Rotate90, Rotate270}},
		{"flips make 180", []Orientation{FlipH, FlipV, Rotate180}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := src
			for _, o := range tt.steps {
				b = o.Apply(b)
			}
			if b.ReadAll() != src.ReadAll() {
				t.Errorf("%v is not the identity", tt.steps)
			}
		})
	}
}

func TestRotateMapping(t *testing.T) {
	src := NewBuffer()
	src.Set(1, 0, 0xaaaa) // one pixel right of the top-left corner

	tests := []struct {
		o    Orientation
		x, y int
	}{
		{Rotate0, 1, 0},
		{Rotate90, 7, 1},
		{Rotate180, 6, 7},
		{Rotate270, 0, 6},
		{FlipH, 6, 0},
		{FlipV, 1, 7},
	}

	for _, tt := range tests {
		t.Run(tt.o.String(), func(t *testing.T) {
			dst := tt.o.Apply(src)
			if c, _ := dst.Get(tt.x, tt.y); c != 0xaaaa {
				t.Errorf("pixel moved elsewhere than (%d,%d)", tt.x, tt.y)
			}
		})
	}
}

func TestParseOrientation(t *testing.T) {
	for _, o := range allOrientations {
		got, err := ParseOrientation(o.String())
		if err != nil || got != o {
			t.Errorf("ParseOrientation(%q) = %v, %v", o.String(), got, err)
		}
	}
	if _, err := ParseOrientation("45"); !errors.Is(err, ErrOutOfRange) {
		t.Errorf("ParseOrientation(45) error = %v, want ErrOutOfRange", err)
	}
	if Orientation(6).Valid() {
		t.Error("Orientation(6) is valid")
	}
}
