package supervisor

import (
	"errors"
	"fmt"

	"github.com/taskward/taskward/actor"
	"github.com/taskward/taskward/internal/pid"
)

// StartStatus is the result class of one launch attempt.
type StartStatus int32

const (
	// Started means the child is running and linked to the supervisor.
	Started StartStatus = iota
	// Ignored means the template declined this instance; not an error.
	Ignored
	// Failed means the start function reported (or panicked with) an
	// error; the supervisor itself is unaffected.
	Failed
)

func (s StartStatus) String() string {
	switch s {
	case Started:
		return "started"
	case Ignored:
		return "ignored"
	default:
		return "failed"
	}
}

// Outcome is what a launch attempt produced.
type Outcome struct {
	Status StartStatus
	// Handle is set when Status == Started.
	Handle *pid.ProtectedPID
	// Reason is set when Status == Failed.
	Reason error
}

// launch runs the template's start function with the given full
// argument list and classifies the result. On success the new handle
// is recorded under the save rule; on failure a start-error report is
// emitted. A misbehaving start function can never take the
// supervisor's loop down.
func (s *state) launch(args []interface{}) Outcome {
	fn, err := safeStart(s.tmpl.Start.Func, args)
	switch {
	case errors.Is(err, ErrIgnore), err == nil && fn == nil:
		return Outcome{Status: Ignored}
	case err != nil:
		s.reportUnstarted(ReportStartError, err, args)
		return Outcome{Status: Failed, Reason: err}
	}

	child := s.sup.SpawnLink(fn, args...)
	s.save(pid.ExtractPID(child), args)
	return Outcome{Status: Started, Handle: child}
}

// safeStart keeps a panicking start routine from propagating into the
// control loop.
func safeStart(fn StartFunc, args []interface{}) (f actor.Func, err error) {
	defer func() {
		if r := recover(); r != nil {
			f, err = nil, fmt.Errorf("child start panicked: %v", r)
		}
	}()
	return fn(args)
}
