package drive

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/robotalks/rover/pkg/board"
	"github.com/robotalks/rover/pkg/board/fake"
)

func TestActuatorSet(t *testing.T) {
	testCases := []struct {
		dir         Direction
		left, right board.PinState
		status      string
	}{
		{Forward, board.Clockwise, board.Clockwise, "Moving Forward..."},
		{Backward, board.CounterClockwise, board.CounterClockwise, "Moving Backward..."},
		{Right, board.Clockwise, board.CounterClockwise, "Turning Right..."},
		{Left, board.CounterClockwise, board.Clockwise, "Turning Left..."},
		{Stop, board.Neutral, board.Neutral, "Stopped..."},
	}
	for _, tc := range testCases {
		t.Run(tc.dir.String(), func(t *testing.T) {
			b := fake.New()
			NewActuator(b).Set(tc.dir)
			require.Equal(t, tc.left, b.Pins(board.MotorLeft))
			require.Equal(t, tc.right, b.Pins(board.MotorRight))
			require.Equal(t, 2, b.WriteCount())
			require.Equal(t, tc.status, tc.dir.Status())
		})
	}
}

func TestStart(t *testing.T) {
	b := fake.New()
	b.SetPins(board.MotorLeft, board.Clockwise)
	Start(b, Speed{Left: 0xff, Right: 10000})
	require.Equal(t, uint32(0xff), b.Duty(board.MotorA))
	require.Equal(t, board.Period-1, b.Duty(board.MotorB))
	require.Equal(t, board.Neutral, b.Pins(board.MotorLeft))
	require.Equal(t, board.Neutral, b.Pins(board.MotorRight))
}
