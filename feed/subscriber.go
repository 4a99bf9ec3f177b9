package feed

import (
	"encoding/json"

	"limitd.dev/limitd/params"
)

type Subscriber[T any] struct {
	path     string
	lastMono uint64

	// OnlyNew makes Read report success exclusively for messages that
	// were published after the previous successful Read.
	OnlyNew bool
}

func (s *Subscriber[T]) Read() (obj T, success bool) {
	data, err := params.GetParam(s.path)
	if err != nil || len(data) == 0 {
		return obj, false
	}

	var envelope Envelope[T]
	err = json.Unmarshal(data, &envelope)
	if err != nil {
		return obj, false
	}
	if !envelope.Valid {
		return obj, false
	}
	if s.OnlyNew && envelope.LogMonoTime == s.lastMono {
		return obj, false
	}
	s.lastMono = envelope.LogMonoTime

	return envelope.Data, true
}

func NewSubscriber[T any](name string, onlyNew bool) (subscriber Subscriber[T]) {
	subscriber.path = params.ParamPath(name)
	subscriber.OnlyNew = onlyNew
	return subscriber
}
