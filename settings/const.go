package settings

import (
	"time"
)

const (
	LOOP_DELAY = 100 * time.Millisecond

	MPH_TO_KPH   = 1.60934
	KNOTS_TO_KPH = 1.852

	R          = 6373000.0 // approximate radius of earth in meters
	TO_RADIANS = 3.141592653589793 / 180
	TO_DEGREES = 180 / 3.141592653589793

	// one degree of latitude is ~111320 meters everywhere, a degree of
	// longitude shrinks with cos(lat)
	METERS_PER_DEGREE = 111320.0

	DEFAULT_MIN_SEARCH_RADIUS = 1.0  // meters
	DEFAULT_MAX_SEARCH_RADIUS = 20.0 // meters
	SEARCH_RADIUS_STEP        = 1.0  // meters

	DEFAULT_INDEX_ROW_LIMIT = 200
	DEFAULT_SCAN_ROW_LIMIT  = 1000

	DEFAULT_LOOK_AHEAD_DISTANCE = 200.0 // meters

	CONTAINER_NAME = "roads.gpkg"
)
