package feed

import (
	"encoding/json"

	"github.com/pkg/errors"
	"limitd.dev/limitd/params"
)

type Publisher[T any] struct {
	path string
}

func (p *Publisher[T]) Send(valid bool, obj T) error {
	envelope := Envelope[T]{
		Valid:       valid,
		LogMonoTime: GetTime(),
		Data:        obj,
	}
	b, err := json.Marshal(envelope)
	if err != nil {
		return errors.Wrap(err, "could not marshal feed message")
	}
	err = params.PutParam(p.path, b)
	if err != nil {
		return errors.Wrap(err, "could not publish feed message")
	}
	return nil
}

func NewPublisher[T any](name string) (publisher Publisher[T]) {
	params.EnsureParamDirectories()
	publisher.path = params.ParamPath(name)
	return publisher
}
