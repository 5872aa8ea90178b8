package sim

// Pos2D defines the position in 2D.
type Pos2D struct {
	X, Y float64
}

// Pose2D defines the pose in 2D.
type Pose2D struct {
	Pos2D
	Orientation Angle
}

// Angle is the common representation of angle,
// supporting multiple units.
type Angle float64

// Add is a helper to add Pos2D.
func (p Pos2D) Add(p1 Pos2D) Pos2D {
	return Pos2D{X: p.X + p1.X, Y: p.Y + p1.Y}
}

// OffsetBy performs Add in-place.
func (p *Pos2D) OffsetBy(p1 Pos2D) *Pos2D {
	p.X += p1.X
	p.Y += p1.Y
	return p
}

// Advance moves the pose over a period of secs with linear speed v
// (along the orientation) and angular speed w (radians/s).
func (p Pose2D) Advance(v, w, secs float64) Pose2D {
	if w == 0 {
		p.Pos2D.OffsetBy(p.Orientation.Project(v * secs))
		return p
	}
	turn := w * secs
	mid := p.Orientation.AddRadians(turn / 2)
	p.Pos2D.OffsetBy(mid.Project(v * secs))
	p.Orientation = p.Orientation.AddRadians(turn)
	return p
}
