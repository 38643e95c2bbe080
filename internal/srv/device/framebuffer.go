package device

import (
	"encoding/binary"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/li20034/mono-sense-hat/internal/led"
	"github.com/sirupsen/logrus"
)

// Name reported in sysfs by the rpisense-fb kernel driver.
const senseFbName = "RPi-Sense FB"

// Framebuffer drives the matrix through the Sense HAT kernel framebuffer:
// 64 little endian RGB565 words, gamma handled by the driver.
type Framebuffer struct {
	heapBuffers

	lock sync.Mutex
	path string
	file *os.File
	raw  [led.Size * 2]byte
}

// FindFramebuffer returns the /dev node of the Sense HAT framebuffer
// listed under sysfsRoot (normally "/sys").
func FindFramebuffer(sysfsRoot string) (string, error) {
	names, err := filepath.Glob(filepath.Join(sysfsRoot, "class", "graphics", "fb*", "name"))
	if err != nil {
		return "", err
	}
	for _, n := range names {
		raw, err := os.ReadFile(n)
		if err != nil {
			continue
		}
		if strings.TrimSpace(string(raw)) == senseFbName {
			return filepath.Join("/dev", filepath.Base(filepath.Dir(n))), nil
		}
	}
	return "", fmt.Errorf("no %q framebuffer found", senseFbName)
}

func NewFramebuffer(path string) (*Framebuffer, error) {
	if path == "" {
		var err error
		if path, err = FindFramebuffer("/sys"); err != nil {
			return nil, err
		}
	}
	file, err := os.OpenFile(path, os.O_RDWR, 0)
	if err != nil {
		return nil, fmt.Errorf("unable to open framebuffer: %w", err)
	}
	logrus.Infof("Using framebuffer %s", path)
	return &Framebuffer{path: path, file: file}, nil
}

func (f *Framebuffer) String() string {
	return "Framebuffer(" + f.path + ")"
}

func (f *Framebuffer) Commit(front *led.Buffer) error {
	f.lock.Lock()
	defer f.lock.Unlock()

	encodeFramebuffer(f.raw[:], front)
	_, err := f.file.WriteAt(f.raw[:], 0)
	return err
}

func encodeFramebuffer(dst []byte, b *led.Buffer) {
	for i, c := range b.ReadAll() {
		binary.LittleEndian.PutUint16(dst[2*i:], uint16(c))
	}
}

func (f *Framebuffer) Gamma() ([led.GammaSize]uint8, error) {
	f.lock.Lock()
	defer f.lock.Unlock()

	var table [led.GammaSize]uint8
	err := fbGetGamma(f.file.Fd(), &table)
	return table, err
}

func (f *Framebuffer) SetGamma(table [led.GammaSize]uint8) error {
	f.lock.Lock()
	defer f.lock.Unlock()
	return fbSetGamma(f.file.Fd(), &table)
}

func (f *Framebuffer) ResetGamma() error {
	f.lock.Lock()
	defer f.lock.Unlock()
	return fbResetGamma(f.file.Fd(), fbGammaDefault)
}

func (f *Framebuffer) LowLight() (bool, error) {
	table, err := f.Gamma()
	if err != nil {
		return false, err
	}
	return table == led.LowLightGamma, nil
}

func (f *Framebuffer) SetLowLight(on bool) error {
	f.lock.Lock()
	defer f.lock.Unlock()
	if on {
		return fbResetGamma(f.file.Fd(), fbGammaLow)
	}
	return fbResetGamma(f.file.Fd(), fbGammaDefault)
}

func (f *Framebuffer) Close() error {
	return f.file.Close()
}
