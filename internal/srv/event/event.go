package event

import (
	"errors"
	"image"
	"time"

	"github.com/li20034/mono-sense-hat/internal/led"
)

// ErrScrolling is returned for reads of the back buffer while a message
// scrolls over it.
var ErrScrolling = errors.New("a message is scrolling")

// Api
type ApiEvent struct {
	Result chan error
	Data   interface{}
}

// NewApiEvent returns an event whose Result never blocks the event loop.
func NewApiEvent(data interface{}) ApiEvent {
	return ApiEvent{Result: make(chan error, 1), Data: data}
}

type ApiEventStateData struct {
	State *State
}

type State struct {
	Rotation  led.Orientation
	LowLight  bool
	HasGamma  bool
	Scrolling bool
}

type ApiEventPixelsGetData struct {
	Role   led.Role
	Pixels *[led.Size]led.Color16
}

// ApiEventSnapshotData asks for a copy of a buffer.
type ApiEventSnapshotData struct {
	Role     led.Role
	Snapshot **led.Buffer
}

type ApiEventPixelsSetData struct {
	Pixels []led.Color16
}

type ApiEventPixelSetData struct {
	X, Y  int
	Color led.Color16
}

type ApiEventFillData struct {
	Color led.Color16
}

type ApiEventClearData struct{}

type ApiEventLetterData struct {
	Letter rune
	Color  led.Color16
}

type ApiEventMessageData struct {
	Text  string
	Color led.Color16
	Delay time.Duration
}

type ApiEventMessageStopData struct{}

type ApiEventRotationData struct {
	Rotation led.Orientation
}

type ApiEventLowLightData struct {
	On bool
}

type ApiEventGammaGetData struct {
	Gamma *[led.GammaSize]uint8
}

type ApiEventGammaSetData struct {
	Gamma []uint8
}

type ApiEventGammaResetData struct{}

type ApiEventImageData struct {
	Image image.Image
}
