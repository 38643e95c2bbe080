package led

import (
	"fmt"
	"image"
	"sync"

	"github.com/sirupsen/logrus"
)

// The hardware is singular: at most one Display is active per process.
var slot struct {
	sync.Mutex
	owner *Display
}

type state uint8

const (
	uninitialized state = iota
	active
	released
)

// Display owns a front buffer (last presented frame) and a back buffer
// (drawing target). Every drawing call writes the back buffer; only
// Present changes the front buffer.
//
// A Display is not safe for concurrent use. Callers sharing one between
// goroutines must serialize access to the whole Display.
type Display struct {
	drv      Driver
	front    *Buffer
	back     *Buffer
	rotation Orientation
	state    state
}

// Init acquires the process wide display slot, allocates both buffers
// through drv and clears them. It fails with ErrAlreadyActive while
// another Display is active. The caller must call Release on every exit
// path.
func Init(drv Driver) (*Display, error) {
	slot.Lock()
	defer slot.Unlock()

	if slot.owner != nil {
		return nil, ErrAlreadyActive
	}

	front := drv.Alloc(Front)
	if front == nil {
		return nil, fmt.Errorf("%w: front buffer", ErrAllocationFailed)
	}
	back := drv.Alloc(Back)
	if back == nil {
		drv.Release(front)
		return nil, fmt.Errorf("%w: back buffer", ErrAllocationFailed)
	}
	front.Fill(0)
	back.Fill(0)

	d := &Display{
		drv:      drv,
		front:    front,
		back:     back,
		rotation: Rotate0,
		state:    active,
	}
	slot.owner = d
	logrus.Debugf("LED display acquired")
	return d, nil
}

// Release frees both buffers and makes the display slot available again.
// It is a no-op on a Display that is not active.
func (d *Display) Release() {
	slot.Lock()
	defer slot.Unlock()

	if d.state != active {
		return
	}
	d.drv.Release(d.front)
	d.drv.Release(d.back)
	d.front, d.back = nil, nil
	d.state = released
	if slot.owner == d {
		slot.owner = nil
	}
	logrus.Debugf("LED display released")
}

// Active reports whether d may be drawn on.
func (d *Display) Active() bool {
	return d.state == active
}

func (d *Display) check() error {
	if d.state != active {
		return ErrNotActive
	}
	return nil
}

func (d *Display) buffer(r Role) *Buffer {
	if r == Front {
		return d.front
	}
	return d.back
}

// GetPixel returns the pixel at (x, y) of the selected buffer expanded to
// 8 bit channels.
func (d *Display) GetPixel(x, y int, r Role) (RGB, error) {
	c, err := d.GetPixel16(x, y, r)
	if err != nil {
		return RGB{}, err
	}
	return c.RGB888(), nil
}

// GetPixelRaw returns the 5/6/5 components of the pixel at (x, y).
func (d *Display) GetPixelRaw(x, y int, r Role) (r5, g6, b5 uint8, err error) {
	c, err := d.GetPixel16(x, y, r)
	if err != nil {
		return 0, 0, 0, err
	}
	r5, g6, b5 = c.RGB565()
	return r5, g6, b5, nil
}

// GetPixel16 returns the packed pixel at (x, y).
func (d *Display) GetPixel16(x, y int, r Role) (Color16, error) {
	if err := d.check(); err != nil {
		return 0, err
	}
	return d.buffer(r).Get(x, y)
}

// GetAllRaw returns every cell of the selected buffer.
func (d *Display) GetAllRaw(r Role) ([Size]Color16, error) {
	if err := d.check(); err != nil {
		return [Size]Color16{}, err
	}
	return d.buffer(r).ReadAll(), nil
}

// Snapshot returns a copy of the selected buffer, usable as an image.Image.
func (d *Display) Snapshot(r Role) (*Buffer, error) {
	if err := d.check(); err != nil {
		return nil, err
	}
	return d.buffer(r).Clone(), nil
}

// SetPixel writes c to the back buffer.
func (d *Display) SetPixel(x, y int, c RGB) error {
	return d.SetPixel16(x, y, c.Pack())
}

// SetPixelRaw writes already quantized components to the back buffer.
func (d *Display) SetPixelRaw(x, y int, r5, g6, b5 uint8) error {
	return d.SetPixel16(x, y, PackRGB565Raw(r5, g6, b5))
}

// SetPixel16 writes a packed value to the back buffer.
func (d *Display) SetPixel16(x, y int, c Color16) error {
	if err := d.check(); err != nil {
		return err
	}
	return d.back.Set(x, y, c)
}

// SetAllRaw overwrites the back buffer with exactly 64 values.
func (d *Display) SetAllRaw(values []Color16) error {
	if err := d.check(); err != nil {
		return err
	}
	return d.back.WriteAll(values)
}

// Fill paints the whole back buffer with c.
func (d *Display) Fill(c Color16) error {
	if err := d.check(); err != nil {
		return err
	}
	d.back.Fill(c)
	return nil
}

// Clear blanks the back buffer and presents it when redraw is set.
func (d *Display) Clear(redraw bool) error {
	if err := d.Fill(0); err != nil {
		return err
	}
	if redraw {
		return d.Present()
	}
	return nil
}

// DrawBitmap writes an 8x8 grid of rows into the back buffer.
func (d *Display) DrawBitmap(rows [][]RGB) error {
	if err := d.check(); err != nil {
		return err
	}
	if len(rows) != Height {
		return fmt.Errorf("%w: got %d rows", ErrInvalidDimensions, len(rows))
	}
	for y, row := range rows {
		if len(row) != Width {
			return fmt.Errorf("%w: row %d has %d pixels", ErrInvalidDimensions, y, len(row))
		}
	}
	for y, row := range rows {
		for x, c := range row {
			d.back.pix[y<<3|x] = c.Pack()
		}
	}
	return nil
}

// DrawImage writes an 8x8 image into the back buffer. Resampling larger
// images is left to the caller.
func (d *Display) DrawImage(img image.Image) error {
	if err := d.check(); err != nil {
		return err
	}
	b := img.Bounds()
	if b.Dx() != Width || b.Dy() != Height {
		return fmt.Errorf("%w: got %dx%d", ErrInvalidDimensions, b.Dx(), b.Dy())
	}
	for y := 0; y < Height; y++ {
		for x := 0; x < Width; x++ {
			d.back.pix[y<<3|x] = Model.Convert(img.At(b.Min.X+x, b.Min.Y+y)).(Color16)
		}
	}
	return nil
}

// Rotation returns the orientation applied by Present.
func (d *Display) Rotation() Orientation {
	return d.rotation
}

// SetRotation changes the orientation applied by Present and presents
// immediately when redraw is set.
func (d *Display) SetRotation(o Orientation, redraw bool) error {
	if err := d.check(); err != nil {
		return err
	}
	if !o.Valid() {
		return fmt.Errorf("%w: orientation %d", ErrOutOfRange, uint8(o))
	}
	d.rotation = o
	if redraw {
		return d.Present()
	}
	return nil
}

// Present copies the back buffer into the front buffer through the
// current rotation, then hands the front buffer to the driver.
func (d *Display) Present() error {
	if err := d.check(); err != nil {
		return err
	}
	Rotate(d.rotation, d.front, d.back)
	if err := d.drv.Commit(d.front); err != nil {
		return fmt.Errorf("%w: commit: %v", ErrDriverCallFailed, err)
	}
	return nil
}

func (d *Display) gammaDriver() (GammaDriver, error) {
	if err := d.check(); err != nil {
		return nil, err
	}
	g, ok := d.drv.(GammaDriver)
	if !ok {
		return nil, fmt.Errorf("%w: driver has no gamma control", ErrDriverCallFailed)
	}
	return g, nil
}

// Gamma returns the driver gamma table.
func (d *Display) Gamma() ([GammaSize]uint8, error) {
	g, err := d.gammaDriver()
	if err != nil {
		return [GammaSize]uint8{}, err
	}
	table, err := g.Gamma()
	if err != nil {
		return [GammaSize]uint8{}, fmt.Errorf("%w: get gamma: %v", ErrDriverCallFailed, err)
	}
	return table, nil
}

// SetGamma installs a gamma table. Every entry must be in [0,31].
func (d *Display) SetGamma(table []uint8) error {
	g, err := d.gammaDriver()
	if err != nil {
		return err
	}
	if len(table) != GammaSize {
		return fmt.Errorf("%w: gamma table has %d entries, want %d", ErrLengthMismatch, len(table), GammaSize)
	}
	var t [GammaSize]uint8
	for i, v := range table {
		if v > GammaMax {
			return fmt.Errorf("%w: gamma[%d] = %d", ErrOutOfRange, i, v)
		}
		t[i] = v
	}
	if err := g.SetGamma(t); err != nil {
		return fmt.Errorf("%w: set gamma: %v", ErrDriverCallFailed, err)
	}
	return nil
}

// ResetGamma restores the driver default table.
func (d *Display) ResetGamma() error {
	g, err := d.gammaDriver()
	if err != nil {
		return err
	}
	if err := g.ResetGamma(); err != nil {
		return fmt.Errorf("%w: reset gamma: %v", ErrDriverCallFailed, err)
	}
	return nil
}

// LowLight reports whether the low light gamma table is active.
func (d *Display) LowLight() (bool, error) {
	g, err := d.gammaDriver()
	if err != nil {
		return false, err
	}
	on, err := g.LowLight()
	if err != nil {
		return false, fmt.Errorf("%w: get low light: %v", ErrDriverCallFailed, err)
	}
	return on, nil
}

// SetLowLight switches between the low light and default gamma tables.
func (d *Display) SetLowLight(on bool) error {
	g, err := d.gammaDriver()
	if err != nil {
		return err
	}
	if err := g.SetLowLight(on); err != nil {
		return fmt.Errorf("%w: set low light: %v", ErrDriverCallFailed, err)
	}
	return nil
}
