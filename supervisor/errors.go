package supervisor

import "errors"

var (
	// ErrIgnore can be returned by a StartFunc or an InitFunc to
	// decline without it counting as a failure.
	ErrIgnore = errors.New("supervisor: ignore")

	// ErrNotFound is returned by TerminateChild for a handle the
	// supervisor does not know.
	ErrNotFound = errors.New("supervisor: child not found")
)
