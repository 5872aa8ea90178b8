// Package sim provides 2D geometry for simulating the rover chassis.
package sim

import "math"

// AngleFromDegrees creates Angle from degrees.
func AngleFromDegrees(d float64) Angle {
	return AngleFromRadians(d * math.Pi / 180.0)
}

// AngleFromRadians creates Angle from radians, normalized to [-Pi, Pi].
func AngleFromRadians(r float64) Angle {
	if r >= 2*math.Pi || r <= -2*math.Pi {
		r = math.Remainder(r, 2*math.Pi)
	}
	if r > math.Pi {
		r -= 2 * math.Pi
	} else if r < -math.Pi {
		r += 2 * math.Pi
	}
	return Angle(r)
}

// AddRadians adds radians to current angle.
func (a Angle) AddRadians(r float64) Angle {
	return AngleFromRadians(float64(a) + r)
}

// Radians gets angle in radians.
func (a Angle) Radians() float64 {
	return float64(a)
}

// Degrees gets angle in degrees.
func (a Angle) Degrees() float64 {
	return float64(a) * 180 / math.Pi
}

// Project projects distance into X and Y.
func (a Angle) Project(dist float64) Pos2D {
	return Pos2D{X: dist * math.Cos(float64(a)), Y: dist * math.Sin(float64(a))}
}
