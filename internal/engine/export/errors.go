package export

import (
	"errors"
	"fmt"
)

// Export errors.
var (
	ErrEmptyData = errors.New("no data to export")
	ErrNoColumns = errors.New("no columns to export")
)

// ProducerError wraps a failure raised by a row producer. Its message is the
// producer's own message.
type ProducerError struct {
	Err error
}

func (e *ProducerError) Error() string {
	return e.Err.Error()
}

func (e *ProducerError) Unwrap() error {
	return e.Err
}

// DeliveryError wraps a failure while saving or sending the finished document.
type DeliveryError struct {
	Filename string
	Err      error
}

func (e *DeliveryError) Error() string {
	return fmt.Sprintf("delivering %q: %v", e.Filename, e.Err)
}

func (e *DeliveryError) Unwrap() error {
	return e.Err
}
