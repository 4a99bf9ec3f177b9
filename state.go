package main

import (
	"log/slog"

	"limitd.dev/limitd/roads"
	"limitd.dev/limitd/utils"
)

type State struct {
	Fix             Fix
	Result          roads.QueryResult
	Distance        float64
	Found           bool
	NextSpeedLimit  roads.NextSpeedLimit
	HasNext         bool
	ContainerLoaded bool
	SpeedLimit      utils.IntTracker
}

func (s *State) ToOutput() roads.Output {
	output := roads.Output{
		Latitude:        s.Fix.Latitude,
		Longitude:       s.Fix.Longitude,
		ContainerLoaded: s.ContainerLoaded,
	}
	if s.Found {
		output.SpeedLimit = s.Result.SpeedLimit
		output.RawValue = s.Result.RawValue
		output.RawUnit = s.Result.RawUnit
		output.Distance = s.Distance
	}
	if s.HasNext {
		output.NextSpeedLimit = s.NextSpeedLimit.SpeedLimit
		output.NextSpeedLimitDistance = s.NextSpeedLimit.Distance
	}
	return output
}

func logOutput(output roads.Output) {
	slog.Debug("limitdOut",
		"latitude", output.Latitude,
		"longitude", output.Longitude,
		"speedLimit", output.SpeedLimit,
		"rawValue", output.RawValue,
		"rawUnit", output.RawUnit,
		"distance", output.Distance,
		"nextSpeedLimit", output.NextSpeedLimit,
		"nextSpeedLimitDistance", output.NextSpeedLimitDistance,
		"containerLoaded", output.ContainerLoaded,
	)
}
