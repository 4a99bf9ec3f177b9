package math

import (
	m "math"
)

// Coordinate is a vertex in the container's native coordinates (X is
// longitude or easting, Y is latitude or northing).
type Coordinate struct {
	X float64
	Y float64
}

// Polyline is an ordered vertex sequence. Fewer than 2 vertices is not a
// usable segment.
type Polyline []Coordinate

// MultiPolyline groups the polylines sharing one feature row.
type MultiPolyline []Polyline

func (l Polyline) Bounds() Bounds {
	bounds := Bounds{
		MinX: m.Inf(1),
		MinY: m.Inf(1),
		MaxX: m.Inf(-1),
		MaxY: m.Inf(-1),
	}
	for _, c := range l {
		bounds.MinX = m.Min(bounds.MinX, c.X)
		bounds.MinY = m.Min(bounds.MinY, c.Y)
		bounds.MaxX = m.Max(bounds.MaxX, c.X)
		bounds.MaxY = m.Max(bounds.MaxY, c.Y)
	}
	return bounds
}

func (ml MultiPolyline) Bounds() Bounds {
	bounds := Bounds{
		MinX: m.Inf(1),
		MinY: m.Inf(1),
		MaxX: m.Inf(-1),
		MaxY: m.Inf(-1),
	}
	for _, l := range ml {
		lb := l.Bounds()
		bounds.MinX = m.Min(bounds.MinX, lb.MinX)
		bounds.MinY = m.Min(bounds.MinY, lb.MinY)
		bounds.MaxX = m.Max(bounds.MaxX, lb.MaxX)
		bounds.MaxY = m.Max(bounds.MaxY, lb.MaxY)
	}
	return bounds
}

// DistanceToPolyline returns the minimum planar distance in meters from pos
// to any segment of any polyline. Polylines with fewer than 2 vertices
// contribute nothing; if none are usable the result is +Inf.
func DistanceToPolyline(proj Projection, pos Position, lines MultiPolyline) float64 {
	point := proj.Project(pos)
	minDistance := m.Inf(1)

	for _, line := range lines {
		if len(line) < 2 {
			continue
		}
		previous := proj.ProjectNative(line[0].X, line[0].Y)
		for i := 1; i < len(line); i++ {
			current := proj.ProjectNative(line[i].X, line[i].Y)
			segment := Segment{Start: previous, End: current}
			if d := segment.DistanceTo(point); d < minDistance {
				minDistance = d
			}
			previous = current
		}
	}

	return minDistance
}
