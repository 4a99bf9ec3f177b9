package roads

import (
	m "limitd.dev/limitd/math"
	ms "limitd.dev/limitd/settings"
)

// LookAhead resolves the speed limit at a point projected ahead of the
// current position along the travel bearing. It only reports a result when
// the limit ahead differs from the current one, so consumers can surface
// upcoming changes without diffing themselves.
func LookAhead(resolver *Resolver, pos m.Position, bearingDeg float64, currentLimit int) (NextSpeedLimit, bool) {
	distance := ms.Settings.LookAheadDistance
	if distance <= 0 {
		distance = ms.DEFAULT_LOOK_AHEAD_DISTANCE
	}

	ahead := pos.Destination(bearingDeg, distance)
	result, _, found := resolver.Resolve(ahead)
	if !found || result.SpeedLimit == currentLimit {
		return NextSpeedLimit{}, false
	}

	return NextSpeedLimit{
		Latitude:   ahead.Lat(),
		Longitude:  ahead.Lon(),
		SpeedLimit: result.SpeedLimit,
		Distance:   distance,
	}, true
}
