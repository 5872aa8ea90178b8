// Package joystick turns joystick events into rover command bytes.
package joystick

import (
	"github.com/golang/glog"

	"github.com/robotalks/rover/pkg/joystick/device"
	"github.com/robotalks/rover/pkg/rover/toggle"
)

// DefaultThreshold is the axis deflection treated as a push.
const DefaultThreshold = 16384

// Mapping assigns commands to buttons and the directions of the stick.
type Mapping struct {
	Buttons   map[int]byte
	AxisX     int
	AxisY     int
	Threshold int
}

// DefaultMapping: A forward, B toggle, stick up/down forward/toggle,
// stick left/right turns.
func DefaultMapping() Mapping {
	return Mapping{
		Buttons: map[int]byte{
			0: toggle.CmdForward,
			1: toggle.CmdToggle,
		},
		AxisX:     0,
		AxisY:     1,
		Threshold: DefaultThreshold,
	}
}

// Source reads commands from a joystick. Axes are edge triggered: a
// command is produced when the stick enters a zone, not while it stays.
type Source struct {
	Device  device.Device
	Mapping Mapping

	zones map[int]int
}

// NewSource creates a Source with DefaultMapping.
func NewSource(dev device.Device) *Source {
	return &Source{Device: dev, Mapping: DefaultMapping(), zones: make(map[int]int)}
}

// ReadByte implements io.ByteReader.
func (s *Source) ReadByte() (byte, error) {
	for {
		ev, err := s.Device.ReadEvent()
		if err != nil {
			return 0, err
		}
		glog.V(3).Infof("joystick %d: %+v", s.Device.Index(), ev)
		if cmd, ok := s.command(ev); ok {
			return cmd, nil
		}
	}
}

// Close implements io.Closer.
func (s *Source) Close() error {
	return s.Device.Close()
}

func (s *Source) command(ev device.Event) (byte, bool) {
	switch ev.Kind {
	case device.KindButton:
		if ev.Init || !ev.Pressed() {
			return 0, false
		}
		cmd, ok := s.Mapping.Buttons[ev.Index]
		return cmd, ok
	case device.KindAxis:
		zone := s.zone(ev.Value)
		prev := s.zones[ev.Index]
		s.zones[ev.Index] = zone
		if ev.Init || zone == 0 || zone == prev {
			return 0, false
		}
		switch ev.Index {
		case s.Mapping.AxisX:
			if zone > 0 {
				return toggle.CmdRight, true
			}
			return toggle.CmdLeft, true
		case s.Mapping.AxisY:
			// up is negative
			if zone < 0 {
				return toggle.CmdForward, true
			}
			return toggle.CmdToggle, true
		}
	}
	return 0, false
}

func (s *Source) zone(value int) int {
	threshold := s.Mapping.Threshold
	if threshold <= 0 {
		threshold = DefaultThreshold
	}
	switch {
	case value >= threshold:
		return 1
	case value <= -threshold:
		return -1
	}
	return 0
}
