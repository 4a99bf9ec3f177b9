package gpkg

import (
	"fmt"

	"github.com/pkg/errors"
)

var (
	// ErrContainerUnavailable means the container file was found in
	// neither the data directory nor the bundle directory.
	ErrContainerUnavailable = errors.New("spatial container unavailable")

	// ErrNoRoadTable means the geometry-column registry held no table
	// that could plausibly contain road features.
	ErrNoRoadTable = errors.New("no road feature table in container")
)

// ErrMalformedGeometry indicates a geometry blob that violates the expected
// structure. Rows carrying one are skipped, never fatal to a query.
type ErrMalformedGeometry struct {
	Reason string
	Offset int
}

func (e *ErrMalformedGeometry) Error() string {
	return fmt.Sprintf("malformed geometry at byte %d: %s", e.Offset, e.Reason)
}

// ErrUnsupportedGeometry indicates a well-formed blob encoding a geometry
// type other than LineString or MultiLineString.
type ErrUnsupportedGeometry struct {
	Type uint32
}

func (e *ErrUnsupportedGeometry) Error() string {
	return fmt.Sprintf("unsupported geometry type code: %d", e.Type)
}
