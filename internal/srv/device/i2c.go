package device

import (
	"fmt"
	"io"
	"sync"

	"github.com/li20034/mono-sense-hat/internal/led"
	"github.com/sirupsen/logrus"
	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/host/v3"
)

// DefaultI2CAddress is the address of the Sense HAT ATTINY88 controller.
const DefaultI2CAddress = 0x46

// I2C frame: register 0, then for each row 8 red, 8 green and 8 blue
// levels.
const i2cFrameSize = 1 + led.Height*3*led.Width

// I2C talks to the LED controller directly, bypassing the kernel
// framebuffer. Gamma is applied in software.
type I2C struct {
	heapBuffers
	softGamma

	lock  sync.Mutex
	dev   *i2c.Dev
	bus   io.Closer
	frame [i2cFrameSize]byte
}

// NewI2C opens busName ("" for the first bus) through periph.io.
func NewI2C(busName string, addr uint16) (*I2C, error) {
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("unable to initialize periph host: %w", err)
	}
	bus, err := i2creg.Open(busName)
	if err != nil {
		return nil, fmt.Errorf("unable to open i2c bus: %w", err)
	}
	logrus.Infof("Using LED controller at %s address %#x", bus, addr)
	return newI2C(bus, bus, addr), nil
}

func newI2C(bus i2c.Bus, closer io.Closer, addr uint16) *I2C {
	return &I2C{
		softGamma: newSoftGamma(),
		dev:       &i2c.Dev{Bus: bus, Addr: addr},
		bus:       closer,
	}
}

func (d *I2C) String() string {
	return d.dev.String()
}

func (d *I2C) Commit(front *led.Buffer) error {
	d.lock.Lock()
	defer d.lock.Unlock()

	d.encode(front)
	_, err := d.dev.Write(d.frame[:])
	return err
}

func (d *I2C) encode(b *led.Buffer) {
	pix := b.ReadAll()
	d.frame[0] = 0
	for y := 0; y < led.Height; y++ {
		row := d.frame[1+y*3*led.Width:]
		for x := 0; x < led.Width; x++ {
			r, g, bl := d.levels(pix[y*led.Width+x])
			row[x] = r
			row[led.Width+x] = g
			row[2*led.Width+x] = bl
		}
	}
}

func (d *I2C) Close() error {
	if d.bus == nil {
		return nil
	}
	return d.bus.Close()
}
