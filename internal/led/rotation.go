package led

import (
	"fmt"
	"strings"
)

// Orientation is the transform applied by Present.
type Orientation uint8

// Supported orientations. Rotations are clockwise.
const (
	Rotate0 Orientation = iota
	Rotate90
	Rotate180
	Rotate270
	FlipH
	FlipV
)

var orientationNames = [...]string{
	Rotate0:   "0",
	Rotate90:  "90",
	Rotate180: "180",
	Rotate270: "270",
	FlipH:     "flip_h",
	FlipV:     "flip_v",
}

// Valid reports whether o is one of the six supported orientations.
func (o Orientation) Valid() bool {
	return o <= FlipV
}

func (o Orientation) String() string {
	if !o.Valid() {
		return fmt.Sprintf("Orientation(%d)", uint8(o))
	}
	return orientationNames[o]
}

// ParseOrientation accepts the names returned by String.
func ParseOrientation(s string) (Orientation, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for o, name := range orientationNames {
		if name == s {
			return Orientation(o), nil
		}
	}
	return 0, fmt.Errorf("%w: unknown orientation %q", ErrOutOfRange, s)
}

// MarshalYAML stores orientations by name.
func (o Orientation) MarshalYAML() (interface{}, error) {
	return o.String(), nil
}

// UnmarshalYAML reads an orientation name.
func (o *Orientation) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var s string
	if err := unmarshal(&s); err != nil {
		return err
	}
	v, err := ParseOrientation(s)
	if err != nil {
		return err
	}
	*o = v
	return nil
}

// Rotate writes src transformed by o into dst. Every destination cell is
// written exactly once. dst and src must not be the same buffer.
func Rotate(o Orientation, dst, src *Buffer) {
	if o == Rotate0 {
		dst.CopyFrom(src)
		return
	}
	for y := 0; y < Height; y++ {
		for x := 0; x < Width; x++ {
			dst.pix[o.dest(x, y)] = src.pix[y<<3|x]
		}
	}
}

// Apply returns a new buffer holding src transformed by o.
func (o Orientation) Apply(src *Buffer) *Buffer {
	dst := NewBuffer()
	Rotate(o, dst, src)
	return dst
}

// dest maps source (x, y) to its destination index.
func (o Orientation) dest(x, y int) int {
	switch o {
	case Rotate90:
		return x<<3 | (7 - y)
	case Rotate180:
		return (7-y)<<3 | (7 - x)
	case Rotate270:
		return (7-x)<<3 | y
	case FlipH:
		return y<<3 | (7 - x)
	case FlipV:
		return (7-y)<<3 | x
	}
	return y<<3 | x
}
