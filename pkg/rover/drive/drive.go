// Package drive controls the direction lines of the differential chassis.
package drive

import (
	"fmt"

	"github.com/robotalks/rover/pkg/board"
)

// Direction is the motion asserted on the chassis.
type Direction int

// Directions.
const (
	Stop Direction = iota
	Forward
	Backward
	Right
	Left
)

// LineTerminator ends every status line.
const LineTerminator = "\r\n"

// String implements fmt.Stringer.
func (d Direction) String() string {
	switch d {
	case Stop:
		return "stop"
	case Forward:
		return "forward"
	case Backward:
		return "backward"
	case Right:
		return "right"
	case Left:
		return "left"
	}
	return fmt.Sprintf("direction(%d)", int(d))
}

// Status returns the status line reported on transition into d,
// without line terminator.
func (d Direction) Status() string {
	switch d {
	case Forward:
		return "Moving Forward..."
	case Backward:
		return "Moving Backward..."
	case Right:
		return "Turning Right..."
	case Left:
		return "Turning Left..."
	}
	return "Stopped..."
}

// Pins returns the states of the left and right motor lines for d.
// Clockwise drives a wheel forward.
func (d Direction) Pins() (left, right board.PinState) {
	switch d {
	case Forward:
		return board.Clockwise, board.Clockwise
	case Backward:
		return board.CounterClockwise, board.CounterClockwise
	case Right:
		return board.Clockwise, board.CounterClockwise
	case Left:
		return board.CounterClockwise, board.Clockwise
	}
	return board.Neutral, board.Neutral
}

// Speed is the duty of each motor, configured once at startup.
type Speed struct {
	Left  uint32 `yaml:"left"`
	Right uint32 `yaml:"right"`
}

// DefaultSpeed is the startup motor duty.
var DefaultSpeed = Speed{Left: 0xff, Right: 0xff}

// Actuator drives the direction lines. It has no state beyond what
// the pins show.
type Actuator struct {
	Pins board.Pins
}

// NewActuator creates an Actuator.
func NewActuator(pins board.Pins) *Actuator {
	return &Actuator{Pins: pins}
}

// Set asserts d on both motors.
func (a *Actuator) Set(d Direction) {
	left, right := d.Pins()
	a.Pins.SetPins(board.MotorLeft, left)
	a.Pins.SetPins(board.MotorRight, right)
}

// Start sets motor duties and leaves all direction lines neutral.
func Start(b board.Board, speed Speed) {
	b.SetDuty(board.MotorA, board.ClampDuty(speed.Left))
	b.SetDuty(board.MotorB, board.ClampDuty(speed.Right))
	NewActuator(b).Set(Stop)
}
