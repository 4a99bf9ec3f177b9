package roads

// QueryResult is a resolved speed limit. Absence (ok == false from the
// resolver) is an expected outcome, not an error.
type QueryResult struct {
	SpeedLimit int    `json:"speed_limit"` // km/h
	RawValue   int    `json:"raw_value,omitempty"`
	RawUnit    string `json:"raw_unit,omitempty"`
}

// NextSpeedLimit is an upcoming limit change found by sampling along the
// current bearing.
type NextSpeedLimit struct {
	Latitude   float64 `json:"latitude"`
	Longitude  float64 `json:"longitude"`
	SpeedLimit int     `json:"speed_limit"` // km/h
	Distance   float64 `json:"distance"`    // meters
}

// Output is what the daemon publishes per position fix.
type Output struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`

	SpeedLimit int     `json:"speed_limit"` // km/h, 0 when unresolved
	RawValue   int     `json:"raw_value,omitempty"`
	RawUnit    string  `json:"raw_unit,omitempty"`
	Distance   float64 `json:"distance"` // meters to the matched segment

	NextSpeedLimit         int     `json:"next_speed_limit"`
	NextSpeedLimitDistance float64 `json:"next_speed_limit_distance"`

	ContainerLoaded bool `json:"container_loaded"`
}

// FEED_SPEED_LIMIT is the feed channel the daemon publishes Output on.
const FEED_SPEED_LIMIT = "SpeedLimit"
