package export

import (
	"context"
	"fmt"

	"github.com/rshade/resinhook/internal/dataset"
)

// Producer lazily loads the complete row set. It is called at most once per
// export; its result is treated as the full data in memory.
type Producer func(ctx context.Context) ([]*dataset.Row, error)

// Source is where an export gets its rows: either a ready slice or a Producer.
type Source struct {
	rows     []*dataset.Row
	producer Producer
}

// Rows returns a Source over already materialized rows.
func Rows(rows []*dataset.Row) Source {
	return Source{rows: rows}
}

// FromProducer returns a Source that calls p once.
func FromProducer(p Producer) Source {
	return Source{producer: p}
}

// IsProducer reports whether the source loads its rows lazily.
func (s Source) IsProducer() bool {
	return s.producer != nil
}

// load returns the rows, invoking the producer if there is one. Producer
// failures, including panics, come back as *ProducerError.
func (s Source) load(ctx context.Context) (rows []*dataset.Row, err error) {
	if s.producer == nil {
		return s.rows, nil
	}

	defer func() {
		if r := recover(); r != nil {
			err = &ProducerError{Err: fmt.Errorf("producer panicked: %v", r)}
		}
	}()

	rows, err = s.producer(ctx)
	if err != nil {
		return nil, &ProducerError{Err: err}
	}
	return rows, nil
}

// Load returns the rows the way an export would see them. Callers that only
// display data use it instead of running an export.
func (s Source) Load(ctx context.Context) ([]*dataset.Row, error) {
	return s.load(ctx)
}
