package cli

import (
	"errors"
	"fmt"
)

// Exit codes returned by the resinhook binary.
const (
	ExitOK        = 0
	ExitFailure   = 1
	ExitUsage     = 2
	ExitCancelled = 130
)

// Errors reported by commands.
var (
	ErrNoSource         = errors.New("no row source: use one of --input, --url or --mock")
	ErrMultipleSources  = errors.New("--input, --url and --mock are mutually exclusive")
	ErrCancelled        = errors.New("export cancelled")
	ErrStoreDisabled    = errors.New("job store is disabled (store.enabled: false)")
	ErrStoreUnavailable = errors.New("job store could not be opened, rerun with --debug for details")
)

// ExitError carries a specific process exit code.
type ExitError struct {
	Code int
	Err  error
}

func (e *ExitError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("exit code %d", e.Code)
	}
	return e.Err.Error()
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// ExitCode maps an error returned by the root command to a process exit code.
func ExitCode(err error) int {
	if err == nil {
		return ExitOK
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	if errors.Is(err, ErrNoSource) || errors.Is(err, ErrMultipleSources) {
		return ExitUsage
	}
	return ExitFailure
}
