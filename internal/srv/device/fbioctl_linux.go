//go:build linux

package device

import (
	"unsafe"

	"github.com/li20034/mono-sense-hat/internal/led"
	"golang.org/x/sys/unix"
)

// rpisense-fb ioctls
const (
	fbioGetGamma   = 0xf100
	fbioSetGamma   = 0xf101
	fbioResetGamma = 0xf102
)

// Arguments of fbioResetGamma.
const (
	fbGammaDefault = 0
	fbGammaLow     = 1
)

func fbGetGamma(fd uintptr, table *[led.GammaSize]uint8) error {
	return fbIoctl(fd, fbioGetGamma, uintptr(unsafe.Pointer(table)))
}

func fbSetGamma(fd uintptr, table *[led.GammaSize]uint8) error {
	return fbIoctl(fd, fbioSetGamma, uintptr(unsafe.Pointer(table)))
}

func fbResetGamma(fd uintptr, mode int) error {
	return unix.IoctlSetInt(int(fd), fbioResetGamma, mode)
}

func fbIoctl(fd, req, arg uintptr) error {
	if _, _, errno := unix.Syscall(unix.SYS_IOCTL, fd, req, arg); errno != 0 {
		return errno
	}
	return nil
}
