package device

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"io"
	"sync"

	"github.com/li20034/mono-sense-hat/internal/led"
	"github.com/maruel/ansi256"
	"github.com/mattn/go-colorable"
	"periph.io/x/conn/v3/display"
)

// Terminal shows the matrix on the console with ANSI colors, in place of
// the Sense HAT. Each frame redraws the same 8 lines.
type Terminal struct {
	heapBuffers
	softGamma

	lock    sync.Mutex
	w       io.Writer
	palette ansi256.Palette
	pix     [led.Size]color.NRGBA
	drawn   bool
	buf     bytes.Buffer
}

func NewTerminal() *Terminal {
	return NewTerminalWriter(colorable.NewColorableStdout())
}

func NewTerminalWriter(w io.Writer) *Terminal {
	return &Terminal{
		softGamma: newSoftGamma(),
		w:         w,
		palette:   *ansi256.Default,
	}
}

func (t *Terminal) String() string {
	return "Terminal"
}

// Halt implements conn.Resource.
func (t *Terminal) Halt() error {
	_, err := t.w.Write([]byte("\033[0m\n"))
	return err
}

// ColorModel implements display.Drawer.
func (t *Terminal) ColorModel() color.Model {
	return color.NRGBAModel
}

// Bounds implements display.Drawer.
func (t *Terminal) Bounds() image.Rectangle {
	return image.Rect(0, 0, led.Width, led.Height)
}

// Draw implements display.Drawer.
func (t *Terminal) Draw(r image.Rectangle, src image.Image, sp image.Point) error {
	t.lock.Lock()
	defer t.lock.Unlock()

	r = r.Intersect(t.Bounds())
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			c := src.At(sp.X+x-r.Min.X, sp.Y+y-r.Min.Y)
			t.pix[y*led.Width+x] = color.NRGBAModel.Convert(c).(color.NRGBA)
		}
	}
	return t.refresh()
}

// Commit shows front as the LEDs would: through the gamma table.
func (t *Terminal) Commit(front *led.Buffer) error {
	img := image.NewNRGBA(t.Bounds())
	for y := 0; y < led.Height; y++ {
		for x := 0; x < led.Width; x++ {
			c, _ := front.Get(x, y)
			r, g, b := t.levels(c)
			img.SetNRGBA(x, y, color.NRGBA{R: expand5(r), G: expand5(g), B: expand5(b), A: 0xff})
		}
	}
	return t.Draw(t.Bounds(), img, image.Point{})
}

func expand5(v uint8) uint8 {
	return uint8(uint16(v) * 255 / led.GammaMax)
}

func (t *Terminal) refresh() error {
	t.buf.Reset()
	if t.drawn {
		fmt.Fprintf(&t.buf, "\033[%dA", led.Height)
	}
	for y := 0; y < led.Height; y++ {
		t.buf.WriteString("\r\033[0m")
		for x := 0; x < led.Width; x++ {
			t.buf.WriteString(t.palette.Block(t.pix[y*led.Width+x]))
		}
		t.buf.WriteString("\033[0m\n")
	}
	t.drawn = true
	_, err := t.buf.WriteTo(t.w)
	return err
}

func (t *Terminal) Close() error {
	return t.Halt()
}

var _ display.Drawer = &Terminal{}
var _ led.GammaDriver = &Terminal{}
