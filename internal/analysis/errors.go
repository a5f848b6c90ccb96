package analysis

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingKey means a dataset key has no counterpart in the baseline.
	ErrMissingKey = errors.New("key not found in baseline")
	// ErrParse means a measurement is not a floating-point literal.
	ErrParse = errors.New("invalid measurement")
	// ErrZeroBaseline means the baseline measurement for a key is zero.
	ErrZeroBaseline = errors.New("baseline measurement is zero")
	// ErrInvalidPhase is returned for a phase that cannot be run.
	ErrInvalidPhase = errors.New("invalid phase")
)

// LookupError reports the record whose key is missing from the baseline.
type LookupError struct {
	Key     string
	Dataset string
	Line    int
}

func (e *LookupError) Error() string {
	return fmt.Sprintf("%s line %d: key %q: %v", e.Dataset, e.Line, e.Key, ErrMissingKey)
}

func (e *LookupError) Unwrap() error { return ErrMissingKey }
