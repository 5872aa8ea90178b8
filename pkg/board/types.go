// Package board defines the hardware capabilities consumed by the
// rover controller.
package board

import "fmt"

// Period is the PWM period in timer ticks shared by all channels.
// Valid duty values are [0, Period-1].
const Period uint32 = 4800

// Channel identifies a PWM output.
type Channel int

// PWM channels.
const (
	LightRed Channel = iota
	LightGreen
	LightBlue
	MotorA
	MotorB
)

var channelNames = [...]string{"light.red", "light.green", "light.blue", "motor.a", "motor.b"}

// String implements fmt.Stringer.
func (c Channel) String() string {
	if c >= 0 && int(c) < len(channelNames) {
		return channelNames[c]
	}
	return fmt.Sprintf("channel(%d)", int(c))
}

// Motor identifies one side of the differential chassis.
type Motor int

// Motors.
const (
	MotorLeft Motor = iota
	MotorRight
)

// Motors lists all motors.
var Motors = []Motor{MotorLeft, MotorRight}

// String implements fmt.Stringer.
func (m Motor) String() string {
	switch m {
	case MotorLeft:
		return "left"
	case MotorRight:
		return "right"
	}
	return fmt.Sprintf("motor(%d)", int(m))
}

// PinState is the state of the pair of direction lines driving a motor.
type PinState int

// Pin states. Exactly one line is asserted for CW and CCW, none for Neutral.
const (
	Neutral PinState = iota
	Clockwise
	CounterClockwise
)

// String implements fmt.Stringer.
func (s PinState) String() string {
	switch s {
	case Neutral:
		return "neutral"
	case Clockwise:
		return "cw"
	case CounterClockwise:
		return "ccw"
	}
	return fmt.Sprintf("pins(%d)", int(s))
}

// PWM sets duty values on PWM channels.
// Writes are assumed to always succeed.
type PWM interface {
	SetDuty(ch Channel, value uint32)
}

// Pins sets direction lines of motors.
// Writes are assumed to always succeed.
type Pins interface {
	SetPins(m Motor, state PinState)
}

// Board provides all hardware outputs.
type Board interface {
	PWM
	Pins
}

// ClampDuty limits value to a valid duty.
func ClampDuty(value uint32) uint32 {
	if value >= Period {
		return Period - 1
	}
	return value
}
