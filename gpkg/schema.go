package gpkg

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/pkg/errors"
)

// TableSchema is the result of the one-time discovery pass: which feature
// table holds the roads, where its geometry lives, and which optional
// attribute columns exist. Immutable once discovered.
type TableSchema struct {
	Table      string
	GeomColumn string
	SRSID      int
	PKColumn   string

	// optional columns, empty when the table does not carry them
	TagsColumn      string
	SpeedColumn     string
	SpeedUnitColumn string
	ClassColumn     string

	// companion spatial index table, empty when the container ships none
	IndexTable string
}

// Road tables arrive under whatever name the producing tool picked, so
// discovery scores every registered feature table instead of hardcoding one.
var (
	tableNameScores = map[string]int{
		"road":    3,
		"highway": 3,
		"street":  2,
		"way":     1,
		"osm":     1,
		"line":    1,
	}

	speedColumns = []string{"maxspeed", "max_speed", "speed_limit", "speedlimit", "speed_kmh", "speed"}
	unitColumns  = []string{"maxspeed_unit", "maxspeed_units", "speed_unit", "speed_units"}
	classColumns = []string{"highway", "fclass", "road_class", "class"}
	tagsColumns  = []string{"tags", "other_tags", "all_tags"}
)

// DiscoverSchema enumerates the container's geometry-column registry and
// returns the highest-scoring road table, ties broken by registration
// order. ErrNoRoadTable when the registry is empty or unusable.
func DiscoverSchema(c *Container) (*TableSchema, error) {
	rows, err := c.DB.Query(`
		SELECT table_name, column_name, srs_id, geometry_type_name
		FROM gpkg_geometry_columns
		ORDER BY rowid`)
	if err != nil {
		slog.Debug("could not read geometry column registry", "error", err)
		return nil, ErrNoRoadTable
	}
	defer rows.Close()

	var best *TableSchema
	bestScore := 0

	for rows.Next() {
		var table, geomColumn, geomType string
		var srsID int
		err = rows.Scan(&table, &geomColumn, &srsID, &geomType)
		if err != nil {
			return nil, errors.Wrap(err, "could not scan geometry column registry row")
		}

		schema := &TableSchema{
			Table:      table,
			GeomColumn: geomColumn,
			SRSID:      srsID,
			PKColumn:   "rowid",
		}
		score := scoreName(table)
		if strings.Contains(strings.ToUpper(geomType), "LINESTRING") {
			score += 2
		}
		score += inspectColumns(c, schema)

		slog.Debug("scored feature table", "table", table, "score", score)
		if best == nil || score > bestScore {
			best = schema
			bestScore = score
		}
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "could not enumerate geometry column registry")
	}
	if best == nil {
		return nil, ErrNoRoadTable
	}

	best.IndexTable = findIndexTable(c, best)
	return best, nil
}

func scoreName(table string) int {
	name := strings.ToLower(table)
	score := 0
	for keyword, points := range tableNameScores {
		if strings.Contains(name, keyword) {
			score += points
		}
	}
	return score
}

// inspectColumns fills the schema's column names from the live table and
// returns the score contribution of what it found. Column-presence evidence
// outweighs naming: a table called "data" full of highway tags is still a
// road table.
func inspectColumns(c *Container, schema *TableSchema) int {
	rows, err := c.DB.Query(fmt.Sprintf(`PRAGMA table_info(%s)`, quoteIdent(schema.Table)))
	if err != nil {
		slog.Debug("could not inspect table columns", "table", schema.Table, "error", err)
		return 0
	}
	defer rows.Close()

	score := 0
	for rows.Next() {
		var cid, notNull, pk int
		var name, colType string
		var defaultValue any
		err = rows.Scan(&cid, &name, &colType, &notNull, &defaultValue, &pk)
		if err != nil {
			slog.Debug("could not scan table column", "table", schema.Table, "error", err)
			return score
		}

		lower := strings.ToLower(name)
		if pk > 0 && schema.PKColumn == "rowid" {
			schema.PKColumn = name
		}
		if schema.SpeedColumn == "" && matchColumn(lower, speedColumns) {
			schema.SpeedColumn = name
			score += 5
		}
		if schema.SpeedUnitColumn == "" && matchColumn(lower, unitColumns) {
			schema.SpeedUnitColumn = name
			score += 1
		}
		if schema.ClassColumn == "" && matchColumn(lower, classColumns) {
			schema.ClassColumn = name
			score += 4
		}
		if schema.TagsColumn == "" && matchColumn(lower, tagsColumns) {
			schema.TagsColumn = name
			score += 3
		}
	}
	return score
}

func matchColumn(name string, candidates []string) bool {
	for _, candidate := range candidates {
		if name == candidate {
			return true
		}
	}
	return false
}

// findIndexTable checks for the companion rtree table the GeoPackage
// spatial index extension registers for a geometry column.
func findIndexTable(c *Container, schema *TableSchema) string {
	name := fmt.Sprintf("rtree_%s_%s", schema.Table, schema.GeomColumn)
	var found string
	err := c.DB.QueryRow(
		`SELECT name FROM sqlite_master WHERE type = 'table' AND name = ?`, name,
	).Scan(&found)
	if err != nil {
		return ""
	}
	return found
}

// quoteIdent quotes an identifier discovered at runtime before it is
// interpolated into a statement.
func quoteIdent(ident string) string {
	return `"` + strings.ReplaceAll(ident, `"`, `""`) + `"`
}

// QuotedTable returns the feature table name quoted for interpolation into a
// statement.
func (s *TableSchema) QuotedTable() string {
	return quoteIdent(s.Table)
}
