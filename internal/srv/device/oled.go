package device

import (
	"fmt"
	"image"
	"sync"

	"github.com/li20034/mono-sense-hat/internal/led"
	"github.com/sirupsen/logrus"
	"golang.org/x/image/draw"
	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/devices/v3/ssd1306"
	"periph.io/x/host/v3"
)

// OLED previews the matrix on a monochrome SSD1306 panel, each LED drawn as
// a square block.
type OLED struct {
	heapBuffers

	lock   sync.Mutex
	bus    i2c.BusCloser
	dev    *ssd1306.Dev
	canvas *image.Gray
}

func NewOLED(busName string) (*OLED, error) {
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("unable to initialize periph host: %w", err)
	}

	// Open a handle to the I²C bus
	bus, err := i2creg.Open(busName)
	if err != nil {
		return nil, fmt.Errorf("unable to open i2c bus: %w", err)
	}

	// Open a handle to a ssd1306 connected on the I²C bus
	dev, err := ssd1306.NewI2C(bus, &ssd1306.DefaultOpts)
	if err != nil {
		bus.Close()
		return nil, fmt.Errorf("unable to initialize oled display: %w", err)
	}
	logrus.Infof("Using %s on %s", dev, bus)

	return &OLED{
		bus:    bus,
		dev:    dev,
		canvas: image.NewGray(dev.Bounds()),
	}, nil
}

func (o *OLED) String() string {
	return "OLED"
}

func (o *OLED) Commit(front *led.Buffer) error {
	o.lock.Lock()
	defer o.lock.Unlock()

	renderBlocks(o.canvas, front)
	return o.dev.Draw(o.dev.Bounds(), o.canvas, image.Point{})
}

// renderBlocks scales src to the largest centered square of dst.
func renderBlocks(dst *image.Gray, src *led.Buffer) {
	b := dst.Bounds()
	side := b.Dx()
	if b.Dy() < side {
		side = b.Dy()
	}
	side -= side % led.Width
	origin := b.Min.Add(image.Pt((b.Dx()-side)/2, (b.Dy()-side)/2))

	draw.Draw(dst, b, image.Black, image.Point{}, draw.Src)
	draw.NearestNeighbor.Scale(dst, image.Rectangle{Min: origin, Max: origin.Add(image.Pt(side, side))}, src, src.Bounds(), draw.Src, nil)
}

func (o *OLED) Close() error {
	o.lock.Lock()
	defer o.lock.Unlock()

	if err := o.dev.Halt(); err != nil {
		logrus.Warnf("Unable to halt oled display: %v", err)
	}
	return o.bus.Close()
}
