//go:build !linux

package device

import (
	"errors"

	"github.com/li20034/mono-sense-hat/internal/led"
)

const (
	fbGammaDefault = 0
	fbGammaLow     = 1
)

var errNoFbGamma = errors.New("framebuffer gamma needs linux")

func fbGetGamma(uintptr, *[led.GammaSize]uint8) error {
	return errNoFbGamma
}

func fbSetGamma(uintptr, *[led.GammaSize]uint8) error {
	return errNoFbGamma
}

func fbResetGamma(uintptr, int) error {
	return errNoFbGamma
}
