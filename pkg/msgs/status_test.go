package msgs

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRoverStatusWire(t *testing.T) {
	m := &RoverStatus{
		Command:   '3',
		Direction: "right",
		Color:     0x00FFFF,
		Latch:     true,
		DutyGreen: 1200,
		DutyBlue:  1200,
		Status:    "Turning Right...",
	}
	data, err := m.Encode()
	require.NoError(t, err)
	decoded, err := DecodeRoverStatus(data)
	require.NoError(t, err)
	require.Equal(t, m, decoded)
	require.Contains(t, decoded.String(), `direction:"right"`)

	_, err = DecodeRoverStatus([]byte{0xff})
	require.Error(t, err)
}
