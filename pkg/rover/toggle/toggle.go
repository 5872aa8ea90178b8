// Package toggle interprets single-byte commands into motion and light
// effects, alternating Stop and Backward on repeated '2'.
package toggle

import (
	"time"

	"github.com/robotalks/rover/pkg/rover/color"
	"github.com/robotalks/rover/pkg/rover/drive"
)

// Commands
const (
	CmdForward byte = '1'
	CmdToggle  byte = '2'
	CmdRight   byte = '3'
	CmdLeft    byte = '4'
)

// DefaultTurnDelay is how long a turn lasts before stopping.
const DefaultTurnDelay = 500 * time.Millisecond

// Phase is one indivisible (direction, color) assertion.
type Phase struct {
	Direction drive.Direction
	Color     color.Color
}

// Effect is the result of handling a command.
type Effect struct {
	Phase
	// Valid is false for unrecognized commands, which have no effect.
	Valid bool
	// StopAfter, when non-zero, requires a Stop phase with the same
	// color after the delay.
	StopAfter time.Duration
	// Latch is the latch value after the command.
	Latch bool
}

// Phases expands the effect into the phases to assert in order.
func (e Effect) Phases() []Phase {
	if !e.Valid {
		return nil
	}
	if e.StopAfter > 0 {
		return []Phase{e.Phase, {Direction: drive.Stop, Color: e.Color}}
	}
	return []Phase{e.Phase}
}

// Machine owns the latch. It is not safe for concurrent use; the
// dispatcher is its only owner.
type Machine struct {
	TurnDelay time.Duration

	latch bool
}

// New creates a Machine with the latch set.
func New() *Machine {
	return &Machine{TurnDelay: DefaultTurnDelay, latch: true}
}

// Latch returns the current latch value.
func (m *Machine) Latch() bool {
	return m.latch
}

// Handle interprets one command byte.
func (m *Machine) Handle(cmd byte) Effect {
	var e Effect
	switch cmd {
	case CmdForward:
		e.Phase = Phase{Direction: drive.Forward, Color: color.Green}
		m.latch = true
	case CmdToggle:
		e.Phase = Phase{Direction: drive.Backward, Color: color.Red}
		if m.latch {
			e.Direction = drive.Stop
		}
		m.latch = !m.latch
	case CmdRight:
		e.Phase = Phase{Direction: drive.Right, Color: color.Cyan}
		e.StopAfter = m.turnDelay()
		m.latch = true
	case CmdLeft:
		e.Phase = Phase{Direction: drive.Left, Color: color.Yellow}
		e.StopAfter = m.turnDelay()
		m.latch = true
	default:
		e.Latch = m.latch
		return e
	}
	e.Valid, e.Latch = true, m.latch
	return e
}

func (m *Machine) turnDelay() time.Duration {
	if m.TurnDelay <= 0 {
		return DefaultTurnDelay
	}
	return m.TurnDelay
}
