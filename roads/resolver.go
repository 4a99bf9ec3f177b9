package roads

import (
	"log/slog"
	"math"

	"github.com/pkg/errors"

	"limitd.dev/limitd/gpkg"
	m "limitd.dev/limitd/math"
	ms "limitd.dev/limitd/settings"
	"limitd.dev/limitd/utils"
)

// Resolver owns the container handle and the discovered schema for its
// lifetime and answers point queries with an expanding-radius search. When
// the container or the schema is unusable that is reported once at
// construction and every query afterwards returns no result without
// touching the filesystem again.
type Resolver struct {
	MinRadius     float64 // meters
	MaxRadius     float64 // meters
	IndexRowLimit int
	ScanRowLimit  int

	container *gpkg.Container
	schema    *gpkg.TableSchema
	noData    bool
}

// NewResolver opens the container under its well-known name in the data
// directory (with bundle fallback) and runs schema discovery.
func NewResolver() *Resolver {
	return newResolver(func() (*gpkg.Container, error) {
		return gpkg.OpenNamed(ms.CONTAINER_NAME)
	})
}

// NewResolverFromPath opens an explicit container file instead.
func NewResolverFromPath(path string) *Resolver {
	return newResolver(func() (*gpkg.Container, error) {
		return gpkg.Open(path)
	})
}

func newResolver(open func() (*gpkg.Container, error)) *Resolver {
	r := &Resolver{
		MinRadius:     ms.Settings.MinSearchRadius,
		MaxRadius:     ms.Settings.MaxSearchRadius,
		IndexRowLimit: ms.Settings.IndexRowLimit,
		ScanRowLimit:  ms.Settings.ScanRowLimit,
	}
	if r.MinRadius <= 0 {
		r.MinRadius = ms.DEFAULT_MIN_SEARCH_RADIUS
	}
	if r.MaxRadius <= 0 {
		r.MaxRadius = ms.DEFAULT_MAX_SEARCH_RADIUS
	}
	if r.IndexRowLimit <= 0 {
		r.IndexRowLimit = ms.DEFAULT_INDEX_ROW_LIMIT
	}
	if r.ScanRowLimit <= 0 {
		r.ScanRowLimit = ms.DEFAULT_SCAN_ROW_LIMIT
	}

	container, err := open()
	if err != nil {
		slog.Error("speed limit data unavailable", "error", err)
		r.noData = true
		return r
	}

	schema, err := gpkg.DiscoverSchema(container)
	if err != nil {
		slog.Error("speed limit data unusable", "error", err)
		container.Close()
		r.noData = true
		return r
	}

	_, err = m.NewProjection(schema.SRSID, m.NewPosition(0, 0))
	if err != nil {
		slog.Error("speed limit data unusable", "error", err)
		container.Close()
		r.noData = true
		return r
	}

	r.container = container
	r.schema = schema
	slog.Info("road schema discovered",
		"table", schema.Table,
		"geometry", schema.GeomColumn,
		"srs", schema.SRSID,
		"indexed", schema.IndexTable != "",
	)
	return r
}

func (r *Resolver) Close() {
	if r.container != nil {
		utils.Loge(r.container.Close())
		r.container = nil
	}
}

// Available reports whether the resolver has usable road data at all.
func (r *Resolver) Available() bool {
	return !r.noData
}

func (r *Resolver) Schema() *gpkg.TableSchema {
	return r.schema
}

// Resolve returns the speed limit of the nearest matching road segment and
// its distance in meters, or ok == false when nothing matches within the
// configured search radius.
func (r *Resolver) Resolve(pos m.Position) (QueryResult, float64, bool) {
	candidate, distance, found := r.Nearest(pos)
	if !found {
		return QueryResult{}, 0, false
	}
	result, ok := ResolveAttributes(candidate.Attributes)
	if !ok {
		return QueryResult{}, 0, false
	}
	return result, distance, true
}

// Nearest runs the expanding-radius search and returns the accepted
// candidate together with its distance in meters. The radius starts small
// because the common case is a fix on or next to a road; growth is capped
// so off-road fixes stay cheap.
func (r *Resolver) Nearest(pos m.Position) (gpkg.Candidate, float64, bool) {
	if r.noData {
		return gpkg.Candidate{}, 0, false
	}

	proj, err := m.NewProjection(r.schema.SRSID, pos)
	if err != nil {
		utils.Loge(err)
		return gpkg.Candidate{}, 0, false
	}

	selector := gpkg.NewSelector(r.container, r.schema, r.IndexRowLimit, r.ScanRowLimit)

	maxRadius := r.MaxRadius
	if maxRadius < r.MinRadius {
		maxRadius = r.MinRadius
	}

	for radius := r.MinRadius; radius <= maxRadius; radius += ms.SEARCH_RADIUS_STEP {
		bounds := proj.QueryBounds(pos, radius)
		candidates, err := selector.Select(bounds)
		if err != nil {
			utils.Loge(errors.Wrap(err, "could not select candidates"))
			return gpkg.Candidate{}, 0, false
		}

		best := gpkg.Candidate{}
		bestDistance := math.Inf(1)
		for _, candidate := range candidates {
			distance := m.DistanceToPolyline(proj, pos, candidate.Geometry)
			if distance > 2*radius {
				// not plausible at this radius, drop before comparing
				continue
			}
			if distance < bestDistance {
				best = candidate
				bestDistance = distance
			}
		}

		// accept only a candidate actually inside the current radius;
		// the closest of a sparse early batch is not a match
		if bestDistance <= radius {
			return best, bestDistance, true
		}
	}

	return gpkg.Candidate{}, 0, false
}
