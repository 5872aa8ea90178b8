// Package color maps packed 24-bit colors to calibrated duties of the
// tri-color status light.
package color

import (
	"fmt"

	"github.com/robotalks/rover/pkg/board"
)

// Color is a packed 0xRRGGBB value. Bits above 23 are ignored.
type Color uint32

// Named colors used by the rover.
const (
	Black  Color = 0x000000
	Red    Color = 0xFF0000
	Green  Color = 0x00FF00
	Blue   Color = 0x0000FF
	Cyan   Color = 0x00FFFF
	Yellow Color = 0xFFFF00
	White  Color = 0xFFFFFF
	Idle   Color = 0x888888
)

// ComponentMax is the largest value of a color component.
const ComponentMax = 0xFF

// RGB unpacks the components.
func (c Color) RGB() (r, g, b uint8) {
	return uint8(c >> 16), uint8(c >> 8), uint8(c)
}

// String implements fmt.Stringer.
func (c Color) String() string {
	return fmt.Sprintf("#%06x", uint32(c)&0xFFFFFF)
}

// Calibration is the maximum duty of each channel, reached with a
// component value of ComponentMax.
type Calibration struct {
	Red   uint32 `yaml:"red"`
	Green uint32 `yaml:"green"`
	Blue  uint32 `yaml:"blue"`
}

// DefaultCalibration balances the perceived intensity of the LEDs.
var DefaultCalibration = Calibration{Red: 625, Green: 1200, Blue: 1200}

// Duty is the set of duties for the three light channels.
type Duty struct {
	Red, Green, Blue uint32
}

// Map converts a color to duties using the calibration:
// duty = max * component / 255, truncated.
func (cal Calibration) Map(c Color) Duty {
	r, g, b := c.RGB()
	return Duty{
		Red:   scale(cal.Red, r),
		Green: scale(cal.Green, g),
		Blue:  scale(cal.Blue, b),
	}
}

// Validate checks every channel maximum fits in the PWM period.
func (cal Calibration) Validate() error {
	for _, v := range []uint32{cal.Red, cal.Green, cal.Blue} {
		if v >= board.Period {
			return fmt.Errorf("light calibration %d exceeds period %d", v, board.Period)
		}
	}
	return nil
}

// Map converts a color using DefaultCalibration.
func Map(c Color) Duty {
	return DefaultCalibration.Map(c)
}

func scale(max uint32, component uint8) uint32 {
	return max * uint32(component) / ComponentMax
}

// Light drives the status light through PWM.
type Light struct {
	PWM         board.PWM
	Calibration Calibration
}

// NewLight creates a Light with DefaultCalibration.
func NewLight(pwm board.PWM) *Light {
	return &Light{PWM: pwm, Calibration: DefaultCalibration}
}

// Set maps the color and writes the duties, returning what's written.
func (l *Light) Set(c Color) Duty {
	d := l.Calibration.Map(c)
	l.PWM.SetDuty(board.LightRed, d.Red)
	l.PWM.SetDuty(board.LightGreen, d.Green)
	l.PWM.SetDuty(board.LightBlue, d.Blue)
	return d
}
