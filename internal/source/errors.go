package source

import (
	"errors"
	"fmt"
)

// Source errors.
var (
	ErrUnsupportedFormat = errors.New("unsupported input format")
	ErrNoHeaderRow       = errors.New("worksheet has no header row")
)

// FetchError describes a failed remote fetch.
type FetchError struct {
	URL        string
	StatusCode int
	Err        error
}

func (e *FetchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("fetching %s: unexpected status %d", e.URL, e.StatusCode)
	}
	return fmt.Sprintf("fetching %s: %v", e.URL, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}
