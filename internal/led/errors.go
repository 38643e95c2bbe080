package led

import (
	"errors"

	"github.com/li20034/mono-sense-hat/internal/font"
)

// Errors
var (
	ErrAlreadyActive     = errors.New("led: a display is already active")
	ErrNotActive         = errors.New("led: display is not active")
	ErrOutOfRange        = errors.New("led: out of range")
	ErrLengthMismatch    = errors.New("led: buffer length mismatch")
	ErrInvalidDimensions = errors.New("led: bitmap must be 8x8")
	ErrUnsupportedChar   = font.ErrUnsupportedChar
	ErrAllocationFailed  = errors.New("led: buffer allocation failed")
	ErrDriverCallFailed  = errors.New("led: driver call failed")
)
