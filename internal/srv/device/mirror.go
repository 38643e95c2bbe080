package device

import (
	"errors"
	"io"
	"sync"

	"github.com/li20034/mono-sense-hat/internal/led"
	"github.com/li20034/mono-sense-hat/internal/srv/config"
)

// LedDriver is a led.Driver holding an OS resource.
type LedDriver interface {
	led.Driver
	io.Closer
	String() string
}

// OpenLedDriver opens the backend selected by param.
func OpenLedDriver(param config.DriverParam) (LedDriver, error) {
	switch param.Type {
	case config.DriverFramebuffer:
		fb, err := NewFramebuffer(param.FbDevice)
		if err != nil {
			return nil, err
		}
		return fb, nil
	case config.DriverI2C:
		addr := param.I2cAddress
		if addr == 0 {
			addr = DefaultI2CAddress
		}
		d, err := NewI2C(param.I2cBus, addr)
		if err != nil {
			return nil, err
		}
		return d, nil
	case config.DriverOLED:
		o, err := NewOLED(param.I2cBus)
		if err != nil {
			return nil, err
		}
		return o, nil
	case config.DriverTerminal:
		return NewTerminal(), nil
	}
	return nil, errors.New("unknown driver type " + string(param.Type))
}

var errNoGamma = errors.New("driver has no gamma table")

// Mirror wraps a LedDriver and keeps a copy of the last committed frame,
// so the frame on the LEDs can be read while a Display is busy elsewhere.
type Mirror struct {
	drv LedDriver

	lock sync.RWMutex
	last [led.Size]led.Color16
}

func NewMirror(drv LedDriver) *Mirror {
	return &Mirror{drv: drv}
}

func (m *Mirror) String() string {
	return m.drv.String()
}

func (m *Mirror) Alloc(role led.Role) *led.Buffer {
	return m.drv.Alloc(role)
}

func (m *Mirror) Release(b *led.Buffer) {
	m.drv.Release(b)
}

func (m *Mirror) Commit(front *led.Buffer) error {
	if err := m.drv.Commit(front); err != nil {
		return err
	}
	m.lock.Lock()
	m.last = front.ReadAll()
	m.lock.Unlock()
	return nil
}

// Last returns the last frame the driver accepted.
func (m *Mirror) Last() [led.Size]led.Color16 {
	m.lock.RLock()
	defer m.lock.RUnlock()
	return m.last
}

func (m *Mirror) Close() error {
	return m.drv.Close()
}

// HasGamma reports whether the wrapped driver has a gamma table.
func (m *Mirror) HasGamma() bool {
	_, ok := m.drv.(led.GammaDriver)
	return ok
}

func (m *Mirror) gamma() (led.GammaDriver, error) {
	g, ok := m.drv.(led.GammaDriver)
	if !ok {
		return nil, errNoGamma
	}
	return g, nil
}

func (m *Mirror) Gamma() ([led.GammaSize]uint8, error) {
	g, err := m.gamma()
	if err != nil {
		return [led.GammaSize]uint8{}, err
	}
	return g.Gamma()
}

func (m *Mirror) SetGamma(table [led.GammaSize]uint8) error {
	g, err := m.gamma()
	if err != nil {
		return err
	}
	return g.SetGamma(table)
}

func (m *Mirror) ResetGamma() error {
	g, err := m.gamma()
	if err != nil {
		return err
	}
	return g.ResetGamma()
}

func (m *Mirror) LowLight() (bool, error) {
	g, err := m.gamma()
	if err != nil {
		return false, err
	}
	return g.LowLight()
}

func (m *Mirror) SetLowLight(on bool) error {
	g, err := m.gamma()
	if err != nil {
		return err
	}
	return g.SetLowLight(on)
}
