package math

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDistanceTo(t *testing.T) {
	start := NewPosition(39.87597128296241, -83.063094468947)
	end := NewPosition(39.8743989043051, -83.0064776388221)

	// ~3 miles or ~4828 meters
	distance := start.DistanceTo(end)
	assert.InDelta(t, 4828, distance, 50)
}

func TestDistanceToSelf(t *testing.T) {
	pos := NewPosition(55.676098, 12.568337)
	assert.Zero(t, pos.DistanceTo(pos))
}

func TestDestinationNorth(t *testing.T) {
	start := NewPosition(55.676098, 12.568337)
	end := start.Destination(0, 1000)

	assert.Greater(t, end.Lat(), start.Lat())
	assert.InDelta(t, start.Lon(), end.Lon(), 0.0001)
	assert.InDelta(t, 1000, start.DistanceTo(end), 1)
}

func TestDestinationEast(t *testing.T) {
	start := NewPosition(55.676098, 12.568337)
	end := start.Destination(90, 500)

	assert.Greater(t, end.Lon(), start.Lon())
	assert.InDelta(t, start.Lat(), end.Lat(), 0.0001)
	assert.InDelta(t, 500, start.DistanceTo(end), 1)
}

func TestEquals(t *testing.T) {
	a := NewPosition(1.5, 2.5)
	b := NewPosition(1.5, 2.5)
	c := NewPosition(1.5, 2.6)

	assert.True(t, a.Equals(b))
	assert.False(t, a.Equals(c))
}
