// Package mailbox provides the single-slot, latest-value command holder
// shared by the receiver and the dispatcher.
package mailbox

import "sync"

// Empty is the sentinel held by a drained mailbox.
const Empty byte = 0

// Mailbox holds at most one byte. Put overwrites any unread value.
type Mailbox struct {
	slot byte
	lock sync.Mutex
}

// Put overwrites the slot.
func (m *Mailbox) Put(b byte) {
	m.lock.Lock()
	defer m.lock.Unlock()
	m.slot = b
}

// Take reads and clears the slot. ok is false if the slot held Empty.
func (m *Mailbox) Take() (b byte, ok bool) {
	m.lock.Lock()
	defer m.lock.Unlock()
	b, m.slot = m.slot, Empty
	return b, b != Empty
}
