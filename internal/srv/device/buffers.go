package device

import (
	"sync"

	"github.com/li20034/mono-sense-hat/internal/led"
)

// heapBuffers provides the Alloc/Release half of led.Driver for backends
// whose frame lives in process memory.
type heapBuffers struct{}

func (heapBuffers) Alloc(led.Role) *led.Buffer {
	return led.NewBuffer()
}

func (heapBuffers) Release(*led.Buffer) {}

// softGamma is a gamma table applied in software, for backends without one
// in hardware. Low light is on while the low light table is installed.
type softGamma struct {
	lock  sync.RWMutex
	table [led.GammaSize]uint8
}

func newSoftGamma() softGamma {
	return softGamma{table: led.DefaultGamma}
}

func (g *softGamma) Gamma() ([led.GammaSize]uint8, error) {
	g.lock.RLock()
	defer g.lock.RUnlock()
	return g.table, nil
}

func (g *softGamma) SetGamma(table [led.GammaSize]uint8) error {
	g.lock.Lock()
	defer g.lock.Unlock()
	g.table = table
	return nil
}

func (g *softGamma) ResetGamma() error {
	return g.SetGamma(led.DefaultGamma)
}

func (g *softGamma) LowLight() (bool, error) {
	g.lock.RLock()
	defer g.lock.RUnlock()
	return g.table == led.LowLightGamma, nil
}

func (g *softGamma) SetLowLight(on bool) error {
	if on {
		return g.SetGamma(led.LowLightGamma)
	}
	return g.SetGamma(led.DefaultGamma)
}

// levels maps c through the table. Green keeps its top five bits, as the
// LED controller has five bit channels.
func (g *softGamma) levels(c led.Color16) (r, gr, b uint8) {
	g.lock.RLock()
	defer g.lock.RUnlock()
	return g.table[(c>>11)&0x1f], g.table[(c>>6)&0x1f], g.table[c&0x1f]
}
