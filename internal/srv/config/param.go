package config

import (
	_ "embed"
	"fmt"
	"strings"
	"time"

	"github.com/li20034/mono-sense-hat/internal/led"
)

//go:embed param_default.yaml
var ParamDefaultFile []byte

type DriverType string

const (
	DriverFramebuffer DriverType = "framebuffer"
	DriverI2C         DriverType = "i2c"
	DriverTerminal    DriverType = "terminal"
	DriverOLED        DriverType = "oled"
)

const (
	FontDefault     = "default"
	FontBitmapfont  = "bitmapfont"
	// FontSheetPrefix followed by a png path loads a font sheet
	FontSheetPrefix = "sheet:"
)

type ServerParam struct {
	Driver   DriverParam `yaml:"driver"`
	Text     TextParam   `yaml:"text"`
	ApiParam ApiParam    `yaml:"api"`
}

// DriverParam selects the LED backend. An empty FbDevice looks the Sense HAT
// framebuffer up by name in sysfs.
type DriverParam struct {
	Type       DriverType `yaml:"type"`
	FbDevice   string     `yaml:"fb_device"`
	I2cBus     string     `yaml:"i2c_bus"`
	I2cAddress uint16     `yaml:"i2c_address"`
}

type TextParam struct {
	Color       string `yaml:"color"`
	ScrollDelay int64  `yaml:"scroll_delay"`
	Font        string `yaml:"font"`
}

// ApiParam configures the HTTP API. With Tls set and no cert/key paths, a
// self-signed pair is generated in the config folder.
type ApiParam struct {
	Enabled bool   `yaml:"enabled"`
	Port    int64  `yaml:"port"`
	ApiKey  string `yaml:"api_key"`
	Tls     bool   `yaml:"tls"`
	TlsCert string `yaml:"tls_cert"`
	TlsKey  string `yaml:"tls_key"`
}

func (p *ServerParam) Validate() error {
	switch p.Driver.Type {
	case DriverI2C:
		if p.Driver.I2cAddress == 0 {
			return fmt.Errorf("driver.i2c_address is required by the %s driver", p.Driver.Type)
		}
	case DriverFramebuffer, DriverTerminal, DriverOLED:
	default:
		return fmt.Errorf("unknown driver type %q", p.Driver.Type)
	}

	if _, err := p.Text.TextColor(); err != nil {
		return fmt.Errorf("text.color: %w", err)
	}
	if p.Text.ScrollDelay < 0 {
		return fmt.Errorf("text.scroll_delay must not be negative")
	}
	switch {
	case p.Text.Font == "", p.Text.Font == FontDefault, p.Text.Font == FontBitmapfont:
	case strings.HasPrefix(p.Text.Font, FontSheetPrefix):
		if strings.TrimPrefix(p.Text.Font, FontSheetPrefix) == "" {
			return fmt.Errorf("text.font: %s needs a file name", FontSheetPrefix)
		}
	default:
		return fmt.Errorf("unknown font %q", p.Text.Font)
	}

	if p.ApiParam.Enabled && (p.ApiParam.Port <= 0 || p.ApiParam.Port > 65535) {
		return fmt.Errorf("api.port %d out of range", p.ApiParam.Port)
	}
	if (p.ApiParam.TlsCert == "") != (p.ApiParam.TlsKey == "") {
		return fmt.Errorf("api.tls_cert and api.tls_key go together")
	}
	if p.ApiParam.TlsCert != "" && !p.ApiParam.Tls {
		return fmt.Errorf("api.tls_cert is set but api.tls is off")
	}
	return nil
}

// TextColor returns the configured text color, led.DefaultTextColor when
// unset.
func (t TextParam) TextColor() (led.Color16, error) {
	if t.Color == "" {
		return led.DefaultTextColor, nil
	}
	return led.ParseColor(t.Color)
}

func (t TextParam) ScrollDelayDuration() time.Duration {
	if t.ScrollDelay == 0 {
		return led.DefaultScrollDelay
	}
	return time.Duration(t.ScrollDelay) * time.Millisecond
}
