package gpkg

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeAttributesColumnsWinOverBlob(t *testing.T) {
	schema := &TableSchema{
		SpeedColumn:     "MaxSpeed",
		SpeedUnitColumn: "speed_unit",
		ClassColumn:     "fclass",
		TagsColumn:      "other_tags",
	}

	attrs := normalizeAttributes(schema,
		`{"MaxSpeed": "30", "surface": "asphalt"}`,
		"50", "mph", "primary")

	assert.Equal(t, "50", attrs["maxspeed"])
	assert.Equal(t, "mph", attrs["maxspeed_unit"])
	assert.Equal(t, "primary", attrs["highway"])
	assert.Equal(t, "asphalt", attrs["surface"])
}

func TestParseTagBlobJSON(t *testing.T) {
	attrs := parseTagBlob(`{"maxspeed": 80, "oneway": true, "Name": "Ring 2"}`)

	assert.Equal(t, "80", attrs["maxspeed"])
	assert.Equal(t, "true", attrs["oneway"])
	assert.Equal(t, "Ring 2", attrs["name"])
}

func TestParseTagBlobSemicolonPairs(t *testing.T) {
	attrs := parseTagBlob("maxspeed=50; Surface = gravel ;broken;=empty")

	assert.Equal(t, "50", attrs["maxspeed"])
	assert.Equal(t, "gravel", attrs["surface"])
	assert.NotContains(t, attrs, "broken")
}

func TestParseTagBlobGarbage(t *testing.T) {
	assert.Empty(t, parseTagBlob(""))
	assert.Empty(t, parseTagBlob("   "))
	assert.Empty(t, parseTagBlob(`{"unterminated`))
}

func TestStringifyValue(t *testing.T) {
	assert.Equal(t, "", stringifyValue(nil))
	assert.Equal(t, "abc", stringifyValue("abc"))
	assert.Equal(t, "abc", stringifyValue([]byte("abc")))
	assert.Equal(t, "42", stringifyValue(int64(42)))
	assert.Equal(t, "49.5", stringifyValue(49.5))
	assert.Equal(t, "true", stringifyValue(true))
}
