package math

import (
	m "math"

	ms "limitd.dev/limitd/settings"
)

func NewPosition(latDeg, lonDeg float64) Position {
	return Position{latitudeDeg: latDeg, longitudeDeg: lonDeg}
}

type Position struct {
	latitudeDeg  float64
	longitudeDeg float64
}

func (p *Position) LatRad() float64 {
	return p.latitudeDeg * ms.TO_RADIANS
}

func (p *Position) LonRad() float64 {
	return p.longitudeDeg * ms.TO_RADIANS
}

func (p *Position) Lat() float64 {
	return p.latitudeDeg
}

func (p *Position) Lon() float64 {
	return p.longitudeDeg
}

func (p *Position) Equals(other Position) bool {
	return p.latitudeDeg == other.latitudeDeg && p.longitudeDeg == other.longitudeDeg
}

// DistanceTo returns the haversine distance in meters.
func (p *Position) DistanceTo(end Position) float64 {
	latDiff := end.LatRad() - p.LatRad()
	lonDiff := end.LonRad() - p.LonRad()
	a := m.Pow(m.Sin(latDiff/2), 2) + m.Cos(p.LatRad())*m.Cos(end.LatRad())*m.Pow(m.Sin(lonDiff/2), 2)
	c := 2 * m.Atan2(m.Sqrt(a), m.Sqrt(1-a))

	return ms.R * c
}

// Destination returns the position reached by travelling distanceM meters
// along the given bearing (degrees clockwise from north) on a great circle.
func (p *Position) Destination(bearingDeg float64, distanceM float64) Position {
	delta := distanceM / ms.R
	theta := bearingDeg * ms.TO_RADIANS

	lat1 := p.LatRad()
	lon1 := p.LonRad()

	lat2 := m.Asin(m.Sin(lat1)*m.Cos(delta) + m.Cos(lat1)*m.Sin(delta)*m.Cos(theta))
	lon2 := lon1 + m.Atan2(m.Sin(theta)*m.Sin(delta)*m.Cos(lat1), m.Cos(delta)-m.Sin(lat1)*m.Sin(lat2))

	return Position{
		latitudeDeg:  lat2 * ms.TO_DEGREES,
		longitudeDeg: lon2 * ms.TO_DEGREES,
	}
}
