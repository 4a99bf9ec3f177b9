package main

import (
	"bufio"
	"encoding/json"
	"io"
	"log/slog"

	m "limitd.dev/limitd/math"
)

// Fix is one GNSS position report read from the input stream. Bearing is a
// pointer because 0 is a valid heading and absence has to be distinguishable.
type Fix struct {
	Latitude  float64  `json:"latitude"`
	Longitude float64  `json:"longitude"`
	Bearing   *float64 `json:"bearing,omitempty"`
}

func (f Fix) Position() m.Position {
	return m.NewPosition(f.Latitude, f.Longitude)
}

// FixSource yields fixes from newline-delimited JSON. Blank lines and lines
// that fail to parse are skipped, the stream itself is never aborted.
type FixSource struct {
	scanner *bufio.Scanner
}

func NewFixSource(r io.Reader) *FixSource {
	return &FixSource{scanner: bufio.NewScanner(r)}
}

// Next returns the next usable fix. ok is false only when the stream ends.
func (s *FixSource) Next() (Fix, bool) {
	for s.scanner.Scan() {
		line := s.scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var fix Fix
		err := json.Unmarshal(line, &fix)
		if err != nil {
			slog.Debug("skipping unparseable fix", "error", err)
			continue
		}
		return fix, true
	}
	return Fix{}, false
}
