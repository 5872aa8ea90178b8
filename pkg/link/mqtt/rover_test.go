package mqtt

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/robotalks/rover/pkg/msgs"
	"github.com/robotalks/rover/pkg/rover"
	"github.com/robotalks/rover/pkg/rover/color"
	"github.com/robotalks/rover/pkg/rover/drive"
	"github.com/robotalks/rover/pkg/rover/toggle"
)

func TestLinkReadWrite(t *testing.T) {
	q, c := newFakeQueue("")
	l := NewLink(q, "r1")
	c.deliver("rover/r1/cmd", "rover/r1/cmd", []byte("12"))
	for _, want := range []byte("12") {
		b, err := l.ReadByte()
		require.NoError(t, err)
		require.Equal(t, want, b)
	}

	n, err := l.Write([]byte("Stopped...\r\n"))
	require.NoError(t, err)
	require.Equal(t, 12, n)
	require.Equal(t, []published{{topic: "rover/r1/console", payload: []byte("Stopped...\r\n")}}, c.published())

	require.NoError(t, l.Close())
	require.NoError(t, l.Close())
	require.Equal(t, []string{"rover/r1/cmd"}, c.unsubs)
	_, err = l.ReadByte()
	require.Equal(t, ErrClosed, err)
	_, err = l.Write([]byte("x"))
	require.Equal(t, ErrClosed, err)
}

func TestLinkDropsOverflow(t *testing.T) {
	q, c := newFakeQueue("")
	l := NewLink(q, "r1")
	payload := make([]byte, DefaultBacklog+4)
	for n := range payload {
		payload[n] = '1'
	}
	payload[len(payload)-1] = '4'
	c.deliver("rover/r1/cmd", "rover/r1/cmd", payload)
	for n := 0; n < DefaultBacklog; n++ {
		b, err := l.ReadByte()
		require.NoError(t, err)
		require.Equal(t, byte('1'), b)
	}
	require.NoError(t, l.Close())
}

func TestPublisher(t *testing.T) {
	q, c := newFakeQueue("lab/")
	p := NewPublisher(q, "r1")
	report := rover.Report{
		Command: '3',
		Phase:   toggle.Phase{Direction: drive.Right, Color: color.Cyan},
		Duty:    color.Map(color.Cyan),
		Latch:   true,
	}
	p.PhaseAsserted(report)

	pubs := c.published()
	require.Len(t, pubs, 1)
	require.Equal(t, "lab/rover/r1/status", pubs[0].topic)
	require.True(t, pubs[0].retain)
	status, err := msgs.DecodeRoverStatus(pubs[0].payload)
	require.NoError(t, err)
	require.Equal(t, uint32('3'), status.Command)
	require.Equal(t, "right", status.Direction)
	require.Equal(t, uint32(color.Cyan), status.Color)
	require.True(t, status.Latch)
	require.Equal(t, uint32(0), status.DutyRed)
	require.Equal(t, uint32(1200), status.DutyGreen)
	require.Equal(t, uint32(1200), status.DutyBlue)
	require.Equal(t, "Turning Right...", status.Status)
}
