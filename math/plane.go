package math

import (
	m "math"
)

// Point is a position projected into a planar, meters-based coordinate
// system.
type Point struct {
	X float64
	Y float64
}

func Dot(a Point, b Point) float64 {
	return a.X*b.X + a.Y*b.Y
}

type Segment struct {
	Start, End Point
}

// Nearest returns the point on the segment closest to p, using the clamped
// parametric projection of p onto the segment.
func (s *Segment) Nearest(p Point) Point {
	ab := Point{X: s.End.X - s.Start.X, Y: s.End.Y - s.Start.Y}
	ap := Point{X: p.X - s.Start.X, Y: p.Y - s.Start.Y}

	denominator := Dot(ab, ab)
	if denominator == 0 {
		return s.Start
	}

	t := Dot(ap, ab) / denominator
	if t < 0 {
		t = 0
	}
	if t > 1 {
		t = 1
	}

	return Point{X: s.Start.X + t*ab.X, Y: s.Start.Y + t*ab.Y}
}

func (s *Segment) DistanceTo(p Point) float64 {
	nearest := s.Nearest(p)
	dx := p.X - nearest.X
	dy := p.Y - nearest.Y
	return m.Sqrt(dx*dx + dy*dy)
}
