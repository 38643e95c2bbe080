package device

import (
	"fmt"
	"strings"

	"github.com/hajimehoshi/bitmapfont/v2"
	"github.com/li20034/mono-sense-hat/internal/font"
	"github.com/li20034/mono-sense-hat/internal/images"
	"github.com/li20034/mono-sense-hat/internal/led"
	"github.com/li20034/mono-sense-hat/internal/srv/config"
	"github.com/sirupsen/logrus"
)

// Matrix is the LED matrix device: the driver, the display drawn on it and
// the text renderer. Display and Text are not safe for concurrent use;
// Front is.
type Matrix struct {
	// Open creates the driver on Start.
	Open func(param config.DriverParam) (LedDriver, error)

	config  *config.ServerConfig
	driver  *Mirror
	display *led.Display
	text    *led.Text
}

func NewMatrix(config *config.ServerConfig) *Matrix {
	return &Matrix{
		Open:   OpenLedDriver,
		config: config,
	}
}

// LoadFont returns the font named in the text settings.
func LoadFont(name string) (*font.Font, error) {
	switch {
	case name == "", name == config.FontDefault:
		return font.Default, nil
	case name == config.FontBitmapfont:
		return font.FromFace(bitmapfont.Face, 6, led.Height)
	case strings.HasPrefix(name, config.FontSheetPrefix):
		img, err := images.Open(strings.TrimPrefix(name, config.FontSheetPrefix))
		if err != nil {
			return nil, fmt.Errorf("unable to read font sheet: %w", err)
		}
		return font.FromFullSheet(img)
	}
	return nil, fmt.Errorf("unknown font %q", name)
}

func (m *Matrix) Start() error {
	logrus.Infof("Start matrix device")

	f, err := LoadFont(m.config.Text.Font)
	if err != nil {
		return err
	}

	drv, err := m.Open(m.config.Driver)
	if err != nil {
		return err
	}
	m.driver = NewMirror(drv)

	m.display, err = led.Init(m.driver)
	if err != nil {
		m.driver.Close()
		return err
	}
	m.text = led.NewText(m.display, f)

	// Restore state
	if err = m.display.SetRotation(m.config.Rotation(), false); err != nil {
		logrus.Warnf("Unable to restore rotation: %v", err)
	}
	if m.driver.HasGamma() {
		if err = m.display.SetLowLight(m.config.LowLight()); err != nil {
			logrus.Warnf("Unable to restore low light: %v", err)
		}
	}

	logrus.Debugf("Matrix driver: %s", m.driver)
	if err = m.display.Present(); err != nil {
		m.display.Release()
		m.driver.Close()
		return err
	}
	return nil
}

func (m *Matrix) Stop() {
	logrus.Infof("Stop matrix device")

	if err := m.display.Clear(true); err != nil {
		logrus.Warnf("Unable to clear matrix: %v", err)
	}
	m.display.Release()
	if err := m.driver.Close(); err != nil {
		logrus.Warnf("Unable to close %s: %v", m.driver, err)
	}
}

func (m *Matrix) Display() *led.Display {
	return m.display
}

func (m *Matrix) Text() *led.Text {
	return m.text
}

// Front returns the last frame sent to the LEDs.
func (m *Matrix) Front() [led.Size]led.Color16 {
	return m.driver.Last()
}

// SaveFrame writes the front buffer to path as a PNG file.
func (m *Matrix) SaveFrame(path string) error {
	b, err := m.display.Snapshot(led.Front)
	if err != nil {
		return err
	}
	logrus.Infof("Save frame: %s", path)
	return images.SavePNG(path, b)
}

func (m *Matrix) HasGamma() bool {
	return m.driver.HasGamma()
}
