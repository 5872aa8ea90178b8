// Package chassis simulates the two-motor differential chassis and the
// status light on a host, standing in for the real timer and GPIO
// peripherals.
package chassis

import (
	"sync"
	"time"

	"github.com/golang/glog"

	"github.com/robotalks/rover/pkg/board"
	"github.com/robotalks/rover/pkg/sim"
)

// Defaults
const (
	DefaultWheelBase float64 = 120
	DefaultSpeedMax  float64 = 300
)

// Board implements board.Board by integrating wheel speeds into a pose.
type Board struct {
	// WheelBase is the distance (mm) between the wheels.
	WheelBase float64
	// SpeedMax is the wheel speed (mm/s) at full duty.
	SpeedMax float64
	// Clock provides current time, time.Now if nil.
	Clock func() time.Time

	duty [board.MotorB + 1]uint32
	pins [2]board.PinState
	pose sim.Pose2D
	last time.Time
	lock sync.Mutex
}

// New creates a simulated Board.
func New() *Board {
	return &Board{WheelBase: DefaultWheelBase, SpeedMax: DefaultSpeedMax}
}

// SetDuty implements board.PWM.
func (b *Board) SetDuty(ch board.Channel, value uint32) {
	b.lock.Lock()
	defer b.lock.Unlock()
	b.advance()
	if ch >= 0 && int(ch) < len(b.duty) {
		b.duty[ch] = board.ClampDuty(value)
	}
	glog.V(1).Infof("PWM %s=%d", ch, value)
}

// SetPins implements board.Pins.
func (b *Board) SetPins(m board.Motor, state board.PinState) {
	b.lock.Lock()
	defer b.lock.Unlock()
	b.advance()
	if m >= 0 && int(m) < len(b.pins) {
		b.pins[m] = state
	}
	glog.V(1).Infof("PINS %s=%s", m, state)
}

// Pose estimates the current pose.
func (b *Board) Pose() sim.Pose2D {
	b.lock.Lock()
	defer b.lock.Unlock()
	b.advance()
	return b.pose
}

// Light gets the current red, green and blue duties.
func (b *Board) Light() (r, g, bl uint32) {
	b.lock.Lock()
	defer b.lock.Unlock()
	return b.duty[board.LightRed], b.duty[board.LightGreen], b.duty[board.LightBlue]
}

func (b *Board) now() time.Time {
	if b.Clock != nil {
		return b.Clock()
	}
	return time.Now()
}

func (b *Board) wheelSpeed(m board.Motor, ch board.Channel) float64 {
	speed := b.SpeedMax * float64(b.duty[ch]) / float64(board.Period-1)
	switch b.pins[m] {
	case board.Clockwise:
		return speed
	case board.CounterClockwise:
		return -speed
	}
	return 0
}

// advance must be called with lock held. Orientation grows clockwise
// (screen coordinates), so a right turn has positive angular speed.
func (b *Board) advance() {
	now := b.now()
	if b.last.IsZero() {
		b.last = now
		return
	}
	secs := now.Sub(b.last).Seconds()
	b.last = now
	if secs <= 0 {
		return
	}
	left := b.wheelSpeed(board.MotorLeft, board.MotorA)
	right := b.wheelSpeed(board.MotorRight, board.MotorB)
	if left == 0 && right == 0 {
		return
	}
	var w float64
	if b.WheelBase > 0 {
		w = (left - right) / b.WheelBase
	}
	b.pose = b.pose.Advance((left+right)/2, w, secs)
}
