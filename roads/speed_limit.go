package roads

import (
	"math"
	"strconv"
	"strings"

	ms "limitd.dev/limitd/settings"
)

// Speed-limit tagging in real road data is wildly inconsistent. Resolution
// is layered, first success wins: an explicit value/unit column pair, then
// the maxspeed tag in its usual spellings, then a per-class default.

var maxspeedKeys = []string{"maxspeed", "max_speed", "speed_limit", "speedlimit", "speed_kmh", "speed"}

var classDefaults = map[string]int{
	"motorway":      130,
	"trunk":         110,
	"primary":       80,
	"secondary":     80,
	"tertiary":      60,
	"unclassified":  60,
	"residential":   30,
	"service":       30,
	"living_street": 20,
}

// ResolveAttributes extracts a speed limit from a normalized attribute
// mapping. ok is false when the row offers nothing usable.
func ResolveAttributes(attrs map[string]string) (result QueryResult, ok bool) {
	// explicit raw value + raw unit pair always wins
	if unit := attrs["maxspeed_unit"]; unit != "" {
		for _, key := range maxspeedKeys {
			raw, present := attrs[key]
			if !present {
				continue
			}
			numeric, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
			if err == nil && numeric > 0 {
				if result, ok = convertSpeed(numeric, unit); ok {
					return result, true
				}
			}
		}
	}

	for _, key := range maxspeedKeys {
		raw, present := attrs[key]
		if !present || raw == "" {
			continue
		}
		numeric, unit, parsed := ParseMaxSpeed(raw)
		if !parsed {
			continue
		}
		if result, ok = convertSpeed(numeric, unit); ok {
			return result, true
		}
	}

	if class, present := attrs["highway"]; present {
		class = strings.ReplaceAll(strings.ToLower(strings.TrimSpace(class)), "-", "_")
		if limit, known := classDefaults[class]; known {
			return QueryResult{SpeedLimit: limit}, true
		}
	}

	return QueryResult{}, false
}

// ParseMaxSpeed splits a tagged value like "50", "50 km/h" or "30mph" into
// its numeric prefix and optional trailing unit token. Values without a
// numeric prefix ("signals", "DK:urban") do not parse.
func ParseMaxSpeed(maxspeed string) (value float64, unit string, ok bool) {
	s := strings.TrimSpace(maxspeed)

	i := 0
	for i < len(s) && (s[i] >= '0' && s[i] <= '9' || s[i] == '.') {
		i++
	}
	if i == 0 {
		return 0, "", false
	}

	value, err := strconv.ParseFloat(s[:i], 64)
	if err != nil || value <= 0 {
		return 0, "", false
	}
	return value, strings.TrimSpace(s[i:]), true
}

func convertSpeed(value float64, unit string) (QueryResult, bool) {
	kmh := value
	normalized := strings.ToLower(strings.TrimSpace(unit))
	switch normalized {
	case "", "kph", "km/h", "kmh":
	case "mph":
		kmh = value * ms.MPH_TO_KPH
	case "knots":
		kmh = value * ms.KNOTS_TO_KPH
	default:
		return QueryResult{}, false
	}

	return QueryResult{
		SpeedLimit: int(math.Round(kmh)),
		RawValue:   int(math.Round(value)),
		RawUnit:    normalized,
	}, true
}
