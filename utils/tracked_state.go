package utils

import (
	"time"
)

type IntTracker struct {
	LastValue   int
	Value       int
	UpdatedTime time.Time
}

func (t *IntTracker) Update(val int) (updated bool) {
	if t.Value != val {
		if t.Value != 0 {
			t.LastValue = t.Value
		}
		t.UpdatedTime = time.Now()
		t.Value = val
		return true
	}
	return false
}
