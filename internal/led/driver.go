package led

// Role names one of the two buffers of a Display.
type Role uint8

const (
	Front Role = iota // backs the physical LEDs
	Back              // drawing target
)

func (r Role) String() string {
	if r == Front {
		return "front"
	}
	return "back"
}

// Driver is the hardware side of a Display.
type Driver interface {
	// Alloc returns a zeroed buffer for role, or nil when the hardware
	// cannot provide one.
	Alloc(role Role) *Buffer

	// Release gives a buffer obtained from Alloc back.
	Release(b *Buffer)

	// Commit pushes the front buffer to the LEDs.
	Commit(front *Buffer) error
}

// GammaDriver is implemented by drivers with a gamma table.
type GammaDriver interface {
	Gamma() ([GammaSize]uint8, error)
	SetGamma(table [GammaSize]uint8) error
	ResetGamma() error
	LowLight() (bool, error)
	SetLowLight(on bool) error
}

// Gamma table geometry: 32 entries mapping a 5 bit level to a 5 bit level.
const (
	GammaSize = 32
	GammaMax  = 31
)

// DefaultGamma and LowLightGamma are the tables used by the Sense HAT
// firmware driver.
var (
	DefaultGamma = [GammaSize]uint8{
		0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x01, 0x01,
		0x02, 0x02, 0x03, 0x03, 0x04, 0x05, 0x06, 0x07,
		0x08, 0x09, 0x0a, 0x0b, 0x0c, 0x0e, 0x0f, 0x11,
		0x12, 0x14, 0x15, 0x17, 0x19, 0x1b, 0x1d, 0x1f,
	}
	LowLightGamma = [GammaSize]uint8{
		0x00, 0x01, 0x01, 0x01, 0x01, 0x01, 0x01, 0x01,
		0x01, 0x01, 0x01, 0x01, 0x01, 0x02, 0x02, 0x02,
		0x03, 0x03, 0x03, 0x04, 0x04, 0x05, 0x05, 0x06,
		0x06, 0x07, 0x07, 0x08, 0x08, 0x09, 0x0a, 0x0a,
	}
)
