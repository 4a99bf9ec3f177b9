package gpkg

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	m "limitd.dev/limitd/math"
)

var testRoads = []testRoad{
	{
		line: m.Polyline{{X: 12.5675, Y: 55.6760}, {X: 12.5685, Y: 55.6760}},
		tags: map[string]string{"highway": "residential", "maxspeed": "50", "name": "Havnegade"},
	},
	{
		line: m.Polyline{{X: 12.5680, Y: 55.6780}, {X: 12.5690, Y: 55.6780}},
		tags: map[string]string{"highway": "primary", "maxspeed": "60 mph"},
	},
	{
		// far away, must never be selected for queries around 55.676
		line: m.Polyline{{X: 13.5000, Y: 56.5000}, {X: 13.5010, Y: 56.5000}},
		tags: map[string]string{"highway": "motorway"},
	},
}

func queryBounds() m.Bounds {
	return m.Bounds{MinX: 12.5670, MinY: 55.6755, MaxX: 12.5690, MaxY: 55.6765}
}

func TestSelectIndexed(t *testing.T) {
	container := createTestContainer(t, testRoads)
	schema, err := DiscoverSchema(container)
	require.NoError(t, err)
	require.NotEmpty(t, schema.IndexTable)

	selector := NewSelector(container, schema, 200, 1000)
	candidates, err := selector.Select(queryBounds())
	require.NoError(t, err)

	require.Len(t, candidates, 1)
	assert.Equal(t, "50", candidates[0].Attributes["maxspeed"])
	assert.Equal(t, "residential", candidates[0].Attributes["highway"])
	require.Len(t, candidates[0].Geometry, 1)
	assert.Len(t, candidates[0].Geometry[0], 2)
}

func TestSelectScannedWithoutIndex(t *testing.T) {
	path := createTestContainer(t, testRoads).Path

	// reopen writable to drop the index, discovery then sees none
	writer, err := OpenWriter(path)
	require.NoError(t, err)
	require.NoError(t, writer.DropIndex())
	require.NoError(t, writer.Close())

	container, err := Open(path)
	require.NoError(t, err)
	defer container.Close()

	schema, err := DiscoverSchema(container)
	require.NoError(t, err)
	require.Empty(t, schema.IndexTable)

	selector := NewSelector(container, schema, 200, 1000)
	candidates, err := selector.Select(queryBounds())
	require.NoError(t, err)

	require.Len(t, candidates, 1)
	assert.Equal(t, "50", candidates[0].Attributes["maxspeed"])

	// a wider box over the same selector reuses the in-memory index
	wide := m.Bounds{MinX: 12.5, MinY: 55.6, MaxX: 12.6, MaxY: 55.7}
	candidates, err = selector.Select(wide)
	require.NoError(t, err)
	assert.Len(t, candidates, 2)
}

func TestSelectIndexedRowLimit(t *testing.T) {
	container := createTestContainer(t, testRoads)
	schema, err := DiscoverSchema(container)
	require.NoError(t, err)

	selector := NewSelector(container, schema, 1, 1000)
	wide := m.Bounds{MinX: 12.0, MinY: 55.0, MaxX: 14.0, MaxY: 57.0}
	candidates, err := selector.Select(wide)
	require.NoError(t, err)
	assert.Len(t, candidates, 1)
}

func TestSelectSkipsBadGeometryRows(t *testing.T) {
	path := createTestContainer(t, testRoads[:1]).Path

	writer, err := OpenWriter(path)
	require.NoError(t, err)
	bounds := queryBounds()
	_, err = writer.AddRoadBlob([]byte("not a geometry"), bounds, map[string]string{"maxspeed": "80"})
	require.NoError(t, err)
	_, err = writer.AddRoadBlob(nil, bounds, map[string]string{"maxspeed": "90"})
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	container, err := Open(path)
	require.NoError(t, err)
	defer container.Close()

	schema, err := DiscoverSchema(container)
	require.NoError(t, err)

	selector := NewSelector(container, schema, 200, 1000)
	candidates, err := selector.Select(queryBounds())
	require.NoError(t, err)

	// only the decodable row survives
	require.Len(t, candidates, 1)
	assert.Equal(t, "50", candidates[0].Attributes["maxspeed"])
}
