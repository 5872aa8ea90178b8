package framework

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestSignalSaturates(t *testing.T) {
	s := NewSignal()
	require.False(t, s.Pending())
	s.Notify()
	s.Notify()
	s.Notify()
	require.True(t, s.Pending())

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	require.NoError(t, s.Wait(ctx))
	require.False(t, s.Pending())
	require.Equal(t, context.DeadlineExceeded, s.Wait(ctx))
}

func TestSignalWakesWaiter(t *testing.T) {
	s := NewSignal()
	errCh := make(chan error, 1)
	go func() {
		errCh <- s.Wait(context.Background())
	}()
	time.Sleep(10 * time.Millisecond)
	s.Notify()
	select {
	case err := <-errCh:
		require.NoError(t, err)
	case <-time.After(500 * time.Millisecond):
		t.Fatal("waiter not woken up")
	}
}

func TestSleep(t *testing.T) {
	require.NoError(t, Sleep(context.Background(), time.Millisecond))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.Equal(t, context.Canceled, Sleep(ctx, time.Hour))
	require.Equal(t, context.Canceled, Sleep(ctx, 0))
}
