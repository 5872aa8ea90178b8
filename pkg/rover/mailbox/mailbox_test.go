package mailbox

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLatestValue(t *testing.T) {
	var m Mailbox
	_, ok := m.Take()
	require.False(t, ok)

	m.Put('A')
	m.Put('B')
	b, ok := m.Take()
	require.True(t, ok)
	require.Equal(t, byte('B'), b)

	b, ok = m.Take()
	require.False(t, ok)
	require.Equal(t, Empty, b)
}

func TestEmptyPut(t *testing.T) {
	var m Mailbox
	m.Put('1')
	m.Put(Empty)
	_, ok := m.Take()
	require.False(t, ok)
}

func TestConcurrentAccess(t *testing.T) {
	var m Mailbox
	var wg sync.WaitGroup
	var bad int
	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := 0; i < 1000; i++ {
			m.Put('1' + byte(i%4))
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < 1000; i++ {
			if b, ok := m.Take(); ok && (b < '1' || b > '4') {
				bad++
			}
		}
	}()
	wg.Wait()
	require.Zero(t, bad)
}
