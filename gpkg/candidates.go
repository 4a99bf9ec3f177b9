package gpkg

import (
	"database/sql"
	"fmt"
	"log/slog"
	"strings"

	"github.com/dhconnelly/rtreego"
	"github.com/pkg/errors"

	m "limitd.dev/limitd/math"
)

// Candidate is a feature row selected as geometrically plausible for one
// query, pending exact distance computation. Candidates are never kept
// across queries.
type Candidate struct {
	ID         int64
	Geometry   m.MultiPolyline
	Attributes map[string]string
}

// Selector returns candidate rows for a bounding box. It prefers the
// container's own spatial index; containers without one get a capped batch
// scan whose rows are indexed in memory once per query, so growing the
// search radius does not re-read the store.
type Selector struct {
	container *Container
	schema    *TableSchema

	indexRowLimit int
	scanRowLimit  int

	fallback *rtreego.Rtree
}

func NewSelector(container *Container, schema *TableSchema, indexRowLimit int, scanRowLimit int) *Selector {
	return &Selector{
		container:     container,
		schema:        schema,
		indexRowLimit: indexRowLimit,
		scanRowLimit:  scanRowLimit,
	}
}

func (s *Selector) Select(bounds m.Bounds) ([]Candidate, error) {
	if s.schema.IndexTable != "" {
		return s.selectIndexed(bounds)
	}
	return s.selectScanned(bounds)
}

// selectIndexed joins the companion rtree table against the feature table
// for a bounding-box intersection, capped to bound worst-case latency in
// dense urban data.
func (s *Selector) selectIndexed(bounds m.Bounds) ([]Candidate, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM %s t JOIN %s r ON %s = r.id
		WHERE r.minx <= ? AND r.maxx >= ? AND r.miny <= ? AND r.maxy >= ?
		LIMIT %d`,
		s.selectList(), quoteIdent(s.schema.Table), quoteIdent(s.schema.IndexTable),
		s.pkExpr(), s.indexRowLimit)

	rows, err := s.container.DB.Query(query, bounds.MaxX, bounds.MinX, bounds.MaxY, bounds.MinY)
	if err != nil {
		return nil, errors.Wrap(err, "could not query spatial index")
	}
	defer rows.Close()

	return s.scanRows(rows)
}

// selectScanned serves containers without a spatial index: one capped batch
// read, held in an in-memory R-tree for the remainder of the query.
func (s *Selector) selectScanned(bounds m.Bounds) ([]Candidate, error) {
	if s.fallback == nil {
		err := s.buildFallbackIndex()
		if err != nil {
			return nil, err
		}
	}

	rect, err := boundsRect(bounds)
	if err != nil {
		return nil, errors.Wrap(err, "could not build query rect")
	}

	spatials := s.fallback.SearchIntersect(rect)
	candidates := make([]Candidate, 0, len(spatials))
	for _, spatial := range spatials {
		candidates = append(candidates, spatial.(*indexedCandidate).candidate)
	}
	return candidates, nil
}

func (s *Selector) buildFallbackIndex() error {
	query := fmt.Sprintf(`SELECT %s FROM %s t LIMIT %d`,
		s.selectList(), quoteIdent(s.schema.Table), s.scanRowLimit)

	rows, err := s.container.DB.Query(query)
	if err != nil {
		return errors.Wrap(err, "could not scan feature table")
	}
	defer rows.Close()

	candidates, err := s.scanRows(rows)
	if err != nil {
		return err
	}

	s.fallback = rtreego.NewTree(2, 25, 50)
	for _, candidate := range candidates {
		s.fallback.Insert(&indexedCandidate{candidate: candidate})
	}
	return nil
}

// scanRows decodes fetched rows into candidates. A malformed or unsupported
// geometry never aborts the query: the row is skipped and scanning
// continues.
func (s *Selector) scanRows(rows *sql.Rows) ([]Candidate, error) {
	candidates := []Candidate{}
	for rows.Next() {
		var id int64
		var blob []byte
		var tagBlob, speed, unit, class any

		targets := []any{&id, &blob}
		if s.schema.TagsColumn != "" {
			targets = append(targets, &tagBlob)
		}
		if s.schema.SpeedColumn != "" {
			targets = append(targets, &speed)
		}
		if s.schema.SpeedUnitColumn != "" {
			targets = append(targets, &unit)
		}
		if s.schema.ClassColumn != "" {
			targets = append(targets, &class)
		}

		err := rows.Scan(targets...)
		if err != nil {
			return nil, errors.Wrap(err, "could not scan candidate row")
		}

		geometry, err := Decode(blob)
		if err != nil {
			slog.Debug("skipping row with undecodable geometry", "id", id, "error", err)
			continue
		}
		if len(geometry) == 0 {
			continue
		}

		candidates = append(candidates, Candidate{
			ID:       id,
			Geometry: geometry,
			Attributes: normalizeAttributes(s.schema,
				stringifyValue(tagBlob), stringifyValue(speed),
				stringifyValue(unit), stringifyValue(class)),
		})
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "could not read candidate rows")
	}
	return candidates, nil
}

func (s *Selector) selectList() string {
	columns := []string{s.pkExpr(), "t." + quoteIdent(s.schema.GeomColumn)}
	for _, optional := range []string{
		s.schema.TagsColumn,
		s.schema.SpeedColumn,
		s.schema.SpeedUnitColumn,
		s.schema.ClassColumn,
	} {
		if optional != "" {
			columns = append(columns, "t."+quoteIdent(optional))
		}
	}
	return strings.Join(columns, ", ")
}

func (s *Selector) pkExpr() string {
	if s.schema.PKColumn == "rowid" {
		return "t.rowid"
	}
	return "t." + quoteIdent(s.schema.PKColumn)
}

// indexedCandidate wraps a candidate for in-memory R-tree storage.
type indexedCandidate struct {
	candidate Candidate
}

func (c *indexedCandidate) Bounds() rtreego.Rect {
	rect, err := boundsRect(c.candidate.Geometry.Bounds())
	if err != nil {
		// degenerate bounds, index a tiny rect at origin instead
		rect, _ = rtreego.NewRect(rtreego.Point{0, 0}, []float64{boundsEpsilon, boundsEpsilon})
	}
	return rect
}

// R-trees need non-zero extents, vertical and horizontal segments have none
// along one axis.
const boundsEpsilon = 0.0001

func boundsRect(bounds m.Bounds) (rtreego.Rect, error) {
	lengths := []float64{bounds.MaxX - bounds.MinX, bounds.MaxY - bounds.MinY}
	for i := range lengths {
		if lengths[i] < boundsEpsilon {
			lengths[i] = boundsEpsilon
		}
	}
	return rtreego.NewRect(rtreego.Point{bounds.MinX, bounds.MinY}, lengths)
}
