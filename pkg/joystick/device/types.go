// Package device reads Linux joystick devices (/dev/input/jsN).
package device

import (
	"errors"
	"io"
)

// ErrUnsupported is returned where joystick devices are unavailable.
var ErrUnsupported = errors.New("joystick devices are not supported on this platform")

// Kind is the type of an event.
type Kind uint8

// Event kinds.
const (
	KindOther Kind = iota
	KindButton
	KindAxis
)

// Event is a change of one button or axis.
type Event struct {
	Kind Kind
	// Init marks the synthetic events reporting the initial state.
	Init bool
	// Index is the button or axis number.
	Index int
	// Value is the axis position, or non-zero for a pressed button.
	Value int
}

// Pressed reports a button event is a press.
func (e Event) Pressed() bool {
	return e.Kind == KindButton && e.Value != 0
}

// Device represents an opened joystick.
type Device interface {
	io.Closer
	// Index returns the index of the device on the system.
	Index() int
	// Name returns the name of the device.
	Name() string
	// ReadEvent reads one event from the device.
	ReadEvent() (Event, error)
}
