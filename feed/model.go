package feed

import (
	"time"
)

// Envelope wraps a published value with validity and send time so
// subscribers can detect stale or repeated reads.
type Envelope[T any] struct {
	Valid       bool   `json:"valid"`
	LogMonoTime uint64 `json:"log_mono_time"`
	Data        T      `json:"data"`
}

func GetTime() uint64 {
	return uint64(time.Now().UnixNano())
}
