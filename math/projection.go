package math

import (
	m "math"

	"github.com/pkg/errors"
	ms "limitd.dev/limitd/settings"
)

const (
	SRS_WGS84                = 4326
	SRS_WEB_MERCATOR         = 3857
	SRS_UNDEFINED_GEOGRAPHIC = 0

	webMercatorRadius = 6378137.0 // meters
)

// Bounds is an axis-aligned bounding box in the container's native
// coordinates: X is longitude or easting, Y is latitude or northing.
type Bounds struct {
	MinX float64
	MinY float64
	MaxX float64
	MaxY float64
}

func (b *Bounds) Contains(x, y float64) bool {
	return x >= b.MinX && x <= b.MaxX && y >= b.MinY && y <= b.MaxY
}

// Projection converts between geographic positions and a planar,
// meters-based coordinate system suitable for short-range distance math.
type Projection interface {
	// Project maps a geographic position into the meters plane.
	Project(pos Position) Point

	// ProjectNative maps a coordinate pair as stored in the container
	// into the same plane Project targets.
	ProjectNative(x, y float64) Point

	// QueryBounds returns the native-coordinate bounding box covering
	// radiusM meters around pos.
	QueryBounds(pos Position, radiusM float64) Bounds
}

// LocalPlane approximates geographic-degree coordinates with an
// equirectangular plane centered on the query point. Valid for the tens of
// meters this package cares about.
type LocalPlane struct {
	origin          Position
	metersPerDegLon float64
}

func NewLocalPlane(origin Position) *LocalPlane {
	cosLat := m.Cos(origin.LatRad())
	if cosLat < 0.0001 {
		cosLat = 0.0001
	}
	return &LocalPlane{
		origin:          origin,
		metersPerDegLon: ms.METERS_PER_DEGREE * cosLat,
	}
}

func (p *LocalPlane) Project(pos Position) Point {
	return p.ProjectNative(pos.Lon(), pos.Lat())
}

func (p *LocalPlane) ProjectNative(x, y float64) Point {
	return Point{
		X: (x - p.origin.Lon()) * p.metersPerDegLon,
		Y: (y - p.origin.Lat()) * ms.METERS_PER_DEGREE,
	}
}

func (p *LocalPlane) QueryBounds(pos Position, radiusM float64) Bounds {
	dLat := radiusM / ms.METERS_PER_DEGREE
	dLon := radiusM / p.metersPerDegLon
	return Bounds{
		MinX: pos.Lon() - dLon,
		MinY: pos.Lat() - dLat,
		MaxX: pos.Lon() + dLon,
		MaxY: pos.Lat() + dLat,
	}
}

// Mercator handles containers that store spherical web-mercator meters.
// Stored coordinates are already planar, the query point just has to go
// through the same forward transform.
type Mercator struct{}

func (Mercator) Project(pos Position) Point {
	return Point{
		X: webMercatorRadius * pos.LonRad(),
		Y: webMercatorRadius * m.Log(m.Tan(m.Pi/4+pos.LatRad()/2)),
	}
}

func (Mercator) ProjectNative(x, y float64) Point {
	return Point{X: x, Y: y}
}

func (p Mercator) QueryBounds(pos Position, radiusM float64) Bounds {
	center := p.Project(pos)
	return Bounds{
		MinX: center.X - radiusM,
		MinY: center.Y - radiusM,
		MaxX: center.X + radiusM,
		MaxY: center.Y + radiusM,
	}
}

// NewProjection picks the projection matching a spatial reference system
// identifier. Identifiers outside the two conventions containers actually
// ship with are rejected.
func NewProjection(srsID int, origin Position) (Projection, error) {
	switch srsID {
	case SRS_WGS84, SRS_UNDEFINED_GEOGRAPHIC:
		return NewLocalPlane(origin), nil
	case SRS_WEB_MERCATOR:
		return Mercator{}, nil
	}
	return nil, errors.Errorf("unsupported spatial reference system: %d", srsID)
}
