package gpkg

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Road attributes arrive in whatever shape the producing tool left them:
// a JSON tag blob, a semicolon-delimited k=v string, or discrete columns.
// Everything is flattened into one canonical string map here so nothing
// downstream branches on the source representation.

// normalizeAttributes merges a tag blob and the discrete columns into one
// mapping. Discrete columns win over blob entries of the same name.
func normalizeAttributes(schema *TableSchema, tagBlob, speed, unit, class string) map[string]string {
	attrs := parseTagBlob(tagBlob)

	if speed != "" && schema.SpeedColumn != "" {
		attrs[strings.ToLower(schema.SpeedColumn)] = speed
	}
	if unit != "" {
		attrs["maxspeed_unit"] = unit
	}
	if class != "" {
		attrs["highway"] = class
	}
	return attrs
}

func parseTagBlob(blob string) map[string]string {
	attrs := map[string]string{}
	blob = strings.TrimSpace(blob)
	if blob == "" {
		return attrs
	}

	if strings.HasPrefix(blob, "{") {
		var decoded map[string]any
		if err := json.Unmarshal([]byte(blob), &decoded); err != nil {
			return attrs
		}
		for key, value := range decoded {
			attrs[strings.ToLower(key)] = stringifyValue(value)
		}
		return attrs
	}

	// osm2pgsql style "key=value;key=value"
	for _, pair := range strings.Split(blob, ";") {
		key, value, found := strings.Cut(pair, "=")
		if !found {
			continue
		}
		attrs[strings.ToLower(strings.TrimSpace(key))] = strings.TrimSpace(value)
	}
	return attrs
}

// stringifyValue renders a scanned or decoded value as the string the
// attribute resolver works with, regardless of the column's declared type.
func stringifyValue(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case []byte:
		return string(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(v)
	}
	return fmt.Sprintf("%v", value)
}
