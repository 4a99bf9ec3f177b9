package settings

import (
	"encoding/json"
	"log/slog"
	"strings"
	"time"

	"limitd.dev/limitd/params"
	"limitd.dev/limitd/utils"
)

var (
	Settings = LimitdSettings{}
)

type LimitdSettings struct {
	LogLevel               string  `json:"log_level"`
	MinSearchRadius        float64 `json:"min_search_radius"`
	MaxSearchRadius        float64 `json:"max_search_radius"`
	IndexRowLimit          int     `json:"index_row_limit"`
	ScanRowLimit           int     `json:"scan_row_limit"`
	LookAheadEnabled       bool    `json:"look_ahead_enabled"`
	LookAheadDistance      float64 `json:"look_ahead_distance"`
	HoldLastSeenSpeedLimit bool    `json:"hold_last_seen_speed_limit"`
}

func (s *LimitdSettings) Default() {
	s.LogLevel = "error"
	s.MinSearchRadius = DEFAULT_MIN_SEARCH_RADIUS
	s.MaxSearchRadius = DEFAULT_MAX_SEARCH_RADIUS
	s.IndexRowLimit = DEFAULT_INDEX_ROW_LIMIT
	s.ScanRowLimit = DEFAULT_SCAN_ROW_LIMIT
	s.LookAheadEnabled = false
	s.LookAheadDistance = DEFAULT_LOOK_AHEAD_DISTANCE
	s.HoldLastSeenSpeedLimit = false
}

func (s *LimitdSettings) Recommended() {
	s.Default()
	s.LogLevel = "error"
	s.LookAheadEnabled = true
	s.HoldLastSeenSpeedLimit = true
}

func (s *LimitdSettings) Load() (success bool) {
	s.Default() // set defaults so settings not already in param are defaulted
	data, err := params.GetParam(params.LIMITD_SETTINGS)
	if err != nil {
		utils.Loge(err)
		return false
	}

	err = json.Unmarshal(data, s)
	if err != nil {
		utils.Loge(err)
		return false
	}

	s.setLogLevel()

	return true
}

func (s *LimitdSettings) LoadWithRetries(tries int) {
	for range tries {
		if s.Load() {
			break
		}
		time.Sleep(1 * time.Second)
	}
	s.Save()
}

func (s *LimitdSettings) Save() {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		utils.Loge(err)
		return
	}
	err = params.PutParam(params.LIMITD_SETTINGS, data)
	if err != nil {
		utils.Loge(err)
		return
	}
}

func (s *LimitdSettings) setLogLevel() {
	switch strings.ToLower(s.LogLevel) {
	case "debug":
		slog.SetLogLoggerLevel(slog.LevelDebug)
	case "info":
		slog.SetLogLoggerLevel(slog.LevelInfo)
	case "warn":
		slog.SetLogLoggerLevel(slog.LevelWarn)
	case "error":
		slog.SetLogLoggerLevel(slog.LevelError)
	default:
		slog.SetLogLoggerLevel(slog.LevelError)
	}
}
