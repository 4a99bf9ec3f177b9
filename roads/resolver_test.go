package roads

import (
	"database/sql"
	"path/filepath"
	"testing"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"limitd.dev/limitd/gpkg"
	m "limitd.dev/limitd/math"
	ms "limitd.dev/limitd/settings"
)

func writeContainer(t *testing.T, build func(w *gpkg.Writer)) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "roads.gpkg")
	writer, err := gpkg.Create(path)
	require.NoError(t, err)
	build(writer)
	require.NoError(t, writer.Close())
	return path
}

func addRoad(t *testing.T, w *gpkg.Writer, line m.Polyline, tags map[string]string) {
	t.Helper()
	_, err := w.AddRoad(line, tags)
	require.NoError(t, err)
}

func harborRoad(t *testing.T, w *gpkg.Writer) {
	// east-west residential street along latitude 55.6760
	addRoad(t, w, m.Polyline{
		{X: 12.5675, Y: 55.6760},
		{X: 12.5685, Y: 55.6760},
	}, map[string]string{"highway": "residential", "maxspeed": "50"})
}

func TestResolveNearby(t *testing.T) {
	ms.Settings.Default()
	path := writeContainer(t, func(w *gpkg.Writer) { harborRoad(t, w) })

	resolver := NewResolverFromPath(path)
	defer resolver.Close()
	require.True(t, resolver.Available())

	// ~5m north of the road
	result, distance, found := resolver.Resolve(m.NewPosition(55.676045, 12.568))
	require.True(t, found)
	assert.Equal(t, 50, result.SpeedLimit)
	assert.InDelta(t, 5, distance, 0.5)
}

func TestResolveBeyondMaxRadius(t *testing.T) {
	ms.Settings.Default()
	path := writeContainer(t, func(w *gpkg.Writer) { harborRoad(t, w) })

	resolver := NewResolverFromPath(path)
	defer resolver.Close()

	// ~30m north, past the radius cap
	_, _, found := resolver.Resolve(m.NewPosition(55.6762695, 12.568))
	assert.False(t, found)
}

func TestResolveWiderMaxRadiusIsConsistent(t *testing.T) {
	ms.Settings.Default()
	path := writeContainer(t, func(w *gpkg.Writer) { harborRoad(t, w) })

	resolver := NewResolverFromPath(path)
	defer resolver.Close()
	wide := NewResolverFromPath(path)
	defer wide.Close()
	wide.MaxRadius = 40

	// ~5m north: already inside the default cap, widening changes nothing
	near := m.NewPosition(55.676045, 12.568)
	result, distance, found := resolver.Resolve(near)
	require.True(t, found)
	wideResult, wideDistance, wideFound := wide.Resolve(near)
	require.True(t, wideFound)
	assert.Equal(t, result, wideResult)
	assert.Equal(t, distance, wideDistance)

	// ~30m north: a miss at the default cap becomes a hit at 40m
	far := m.NewPosition(55.6762695, 12.568)
	_, _, found = resolver.Resolve(far)
	require.False(t, found)
	wideResult, wideDistance, wideFound = wide.Resolve(far)
	require.True(t, wideFound)
	assert.Equal(t, 50, wideResult.SpeedLimit)
	assert.InDelta(t, 30, wideDistance, 0.5)
}

func TestResolvePrefersCloserRoad(t *testing.T) {
	ms.Settings.Default()
	path := writeContainer(t, func(w *gpkg.Writer) {
		harborRoad(t, w)
		// parallel street ~15m further north
		addRoad(t, w, m.Polyline{
			{X: 12.5675, Y: 55.67613},
			{X: 12.5685, Y: 55.67613},
		}, map[string]string{"highway": "primary", "maxspeed": "80"})
	})

	resolver := NewResolverFromPath(path)
	defer resolver.Close()

	result, _, found := resolver.Resolve(m.NewPosition(55.676045, 12.568))
	require.True(t, found)
	assert.Equal(t, 50, result.SpeedLimit)
}

func TestResolveSurvivesMalformedRows(t *testing.T) {
	ms.Settings.Default()
	path := writeContainer(t, func(w *gpkg.Writer) {
		bounds := m.Bounds{MinX: 12.5670, MinY: 55.6755, MaxX: 12.5690, MaxY: 55.6765}
		_, err := w.AddRoadBlob([]byte("garbage"), bounds, map[string]string{"maxspeed": "999"})
		require.NoError(t, err)
		harborRoad(t, w)
	})

	resolver := NewResolverFromPath(path)
	defer resolver.Close()

	result, _, found := resolver.Resolve(m.NewPosition(55.676045, 12.568))
	require.True(t, found)
	assert.Equal(t, 50, result.SpeedLimit)
}

func TestResolveWithoutSpatialIndex(t *testing.T) {
	ms.Settings.Default()
	path := writeContainer(t, func(w *gpkg.Writer) { harborRoad(t, w) })

	writer, err := gpkg.OpenWriter(path)
	require.NoError(t, err)
	require.NoError(t, writer.DropIndex())
	require.NoError(t, writer.Close())

	resolver := NewResolverFromPath(path)
	defer resolver.Close()

	result, _, found := resolver.Resolve(m.NewPosition(55.676045, 12.568))
	require.True(t, found)
	assert.Equal(t, 50, result.SpeedLimit)
}

func TestResolveUnusableAttributes(t *testing.T) {
	ms.Settings.Default()
	path := writeContainer(t, func(w *gpkg.Writer) {
		addRoad(t, w, m.Polyline{
			{X: 12.5675, Y: 55.6760},
			{X: 12.5685, Y: 55.6760},
		}, map[string]string{"maxspeed": "signals"})
	})

	resolver := NewResolverFromPath(path)
	defer resolver.Close()

	_, _, found := resolver.Resolve(m.NewPosition(55.676045, 12.568))
	assert.False(t, found)
}

func TestResolverMissingContainer(t *testing.T) {
	ms.Settings.Default()
	resolver := NewResolverFromPath(filepath.Join(t.TempDir(), "nope.gpkg"))
	defer resolver.Close()

	assert.False(t, resolver.Available())
	_, _, found := resolver.Resolve(m.NewPosition(55.676, 12.568))
	assert.False(t, found)
}

func TestResolveWebMercatorContainer(t *testing.T) {
	ms.Settings.Default()
	path := filepath.Join(t.TempDir(), "mercator.gpkg")

	proj := m.Mercator{}
	start := proj.Project(m.NewPosition(55.6760, 12.5675))
	end := proj.Project(m.NewPosition(55.6760, 12.5685))
	blob := gpkg.EncodeLineString(m.Polyline{
		{X: start.X, Y: start.Y},
		{X: end.X, Y: end.Y},
	})

	db, err := sql.Open("sqlite3", path)
	require.NoError(t, err)
	_, err = db.Exec(`CREATE TABLE gpkg_geometry_columns (
		table_name TEXT NOT NULL,
		column_name TEXT NOT NULL,
		geometry_type_name TEXT NOT NULL,
		srs_id INTEGER NOT NULL,
		z TINYINT NOT NULL,
		m TINYINT NOT NULL)`)
	require.NoError(t, err)
	_, err = db.Exec(`CREATE TABLE road_lines (id INTEGER PRIMARY KEY, geom BLOB, maxspeed TEXT)`)
	require.NoError(t, err)
	_, err = db.Exec(`INSERT INTO gpkg_geometry_columns VALUES ('road_lines', 'geom', 'LINESTRING', 3857, 0, 0)`)
	require.NoError(t, err)
	_, err = db.Exec(`INSERT INTO road_lines (geom, maxspeed) VALUES (?, ?)`, blob, "60")
	require.NoError(t, err)
	require.NoError(t, db.Close())

	resolver := NewResolverFromPath(path)
	defer resolver.Close()
	require.True(t, resolver.Available())

	result, distance, found := resolver.Resolve(m.NewPosition(55.6760, 12.568))
	require.True(t, found)
	assert.Equal(t, 60, result.SpeedLimit)
	assert.Less(t, distance, 1.0)
}

func TestLookAhead(t *testing.T) {
	ms.Settings.Default()
	path := writeContainer(t, func(w *gpkg.Writer) {
		harborRoad(t, w)
		// the limit changes ~200m further north
		addRoad(t, w, m.Polyline{
			{X: 12.5670, Y: 55.67780},
			{X: 12.5690, Y: 55.67780},
		}, map[string]string{"highway": "primary", "maxspeed": "80"})
	})

	resolver := NewResolverFromPath(path)
	defer resolver.Close()

	pos := m.NewPosition(55.6760, 12.568)
	next, hasNext := LookAhead(resolver, pos, 0, 50)
	require.True(t, hasNext)
	assert.Equal(t, 80, next.SpeedLimit)
	assert.Equal(t, ms.Settings.LookAheadDistance, next.Distance)

	// no change ahead, nothing to report
	_, hasNext = LookAhead(resolver, pos, 0, 80)
	assert.False(t, hasNext)
}
