package templating

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidArgument is matched by *ConfigurationError.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrWriteFailed is matched by *IOError.
	ErrWriteFailed = errors.New("write failed")

	// ErrStale reports that an existing output differs from
	// the current rendering.
	ErrStale = errors.New("output is stale")
)

// ConfigurationError reports that no usable template file
// was found. Path is the path originally requested, not
// its .dist fallback.
type ConfigurationError struct {
	Path string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("failed to load template %q", e.Path)
}

func (e *ConfigurationError) Unwrap() error {
	return ErrInvalidArgument
}

// IOError reports a failure to persist a rendered result.
type IOError struct {
	Path string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf(
		"writing rendered result to %q failed: %v",
		e.Path, e.Err,
	)
}

func (e *IOError) Unwrap() []error {
	return []error{ErrWriteFailed, e.Err}
}
