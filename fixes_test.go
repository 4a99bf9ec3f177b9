package main

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFixSourceParsesStream(t *testing.T) {
	input := strings.Join([]string{
		`{"latitude": 55.676098, "longitude": 12.568337}`,
		``,
		`not json`,
		`{"latitude": 55.677, "longitude": 12.569, "bearing": 0}`,
	}, "\n")

	source := NewFixSource(strings.NewReader(input))

	first, ok := source.Next()
	require.True(t, ok)
	assert.Equal(t, 55.676098, first.Latitude)
	assert.Equal(t, 12.568337, first.Longitude)
	assert.Nil(t, first.Bearing)

	// blank and unparseable lines are skipped
	second, ok := source.Next()
	require.True(t, ok)
	require.NotNil(t, second.Bearing)
	assert.Zero(t, *second.Bearing)

	_, ok = source.Next()
	assert.False(t, ok)
}

func TestFixPosition(t *testing.T) {
	fix := Fix{Latitude: 55.5, Longitude: 12.5}
	pos := fix.Position()
	assert.Equal(t, 55.5, pos.Lat())
	assert.Equal(t, 12.5, pos.Lon())
}

func TestStateToOutput(t *testing.T) {
	state := State{
		Fix:             Fix{Latitude: 55.5, Longitude: 12.5},
		ContainerLoaded: true,
	}

	output := state.ToOutput()
	assert.Zero(t, output.SpeedLimit)
	assert.True(t, output.ContainerLoaded)

	state.Found = true
	state.Result.SpeedLimit = 50
	state.Distance = 4.2
	output = state.ToOutput()
	assert.Equal(t, 50, output.SpeedLimit)
	assert.Equal(t, 4.2, output.Distance)
}
