// Package fake provides a recording Board for tests.
package fake

import (
	"fmt"
	"sync"

	"github.com/robotalks/rover/pkg/board"
)

// Write is one recorded hardware write.
type Write struct {
	Channel board.Channel
	Duty    uint32
	Motor   board.Motor
	Pins    board.PinState
	IsPins  bool
}

// String implements fmt.Stringer.
func (w Write) String() string {
	if w.IsPins {
		return fmt.Sprintf("%s=%s", w.Motor, w.Pins)
	}
	return fmt.Sprintf("%s=%d", w.Channel, w.Duty)
}

// Board records all writes and keeps the latest state.
type Board struct {
	Writes []Write

	duty map[board.Channel]uint32
	pins map[board.Motor]board.PinState
	lock sync.Mutex
}

// New creates a Board.
func New() *Board {
	return &Board{
		duty: make(map[board.Channel]uint32),
		pins: make(map[board.Motor]board.PinState),
	}
}

// SetDuty implements board.PWM.
func (b *Board) SetDuty(ch board.Channel, value uint32) {
	b.lock.Lock()
	defer b.lock.Unlock()
	b.duty[ch] = value
	b.Writes = append(b.Writes, Write{Channel: ch, Duty: value})
}

// SetPins implements board.Pins.
func (b *Board) SetPins(m board.Motor, state board.PinState) {
	b.lock.Lock()
	defer b.lock.Unlock()
	b.pins[m] = state
	b.Writes = append(b.Writes, Write{Motor: m, Pins: state, IsPins: true})
}

// Duty gets the current duty of a channel.
func (b *Board) Duty(ch board.Channel) uint32 {
	b.lock.Lock()
	defer b.lock.Unlock()
	return b.duty[ch]
}

// Pins gets the current state of a motor's direction lines.
func (b *Board) Pins(m board.Motor) board.PinState {
	b.lock.Lock()
	defer b.lock.Unlock()
	return b.pins[m]
}

// Light gets the current red, green and blue duties.
func (b *Board) Light() [3]uint32 {
	b.lock.Lock()
	defer b.lock.Unlock()
	return [3]uint32{b.duty[board.LightRed], b.duty[board.LightGreen], b.duty[board.LightBlue]}
}

// Reset forgets recorded writes but keeps the current state.
func (b *Board) Reset() {
	b.lock.Lock()
	b.Writes = nil
	b.lock.Unlock()
}

// WriteCount returns the number of recorded writes.
func (b *Board) WriteCount() int {
	b.lock.Lock()
	defer b.lock.Unlock()
	return len(b.Writes)
}
