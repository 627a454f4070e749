package supervisor

import (
	"fmt"

	"github.com/taskward/taskward/actor"
	"github.com/taskward/taskward/internal/pid"
)

// Ref is the caller's handle to a running supervisor. Every method is
// synchronous: it sends a request through the supervisor's mailbox and
// waits for the reply, without a deadline. A supervisor that dies
// mid-call fails the call instead of hanging it.
type Ref struct {
	ppid *pid.ProtectedPID
	name string
}

// PID exposes the supervisor's own handle, e.g. for linking it under a
// parent.
func (r *Ref) PID() *pid.ProtectedPID {
	return r.ppid
}

// Name is the supervisor's registered name.
func (r *Ref) Name() string {
	return r.name
}

// StartChild launches one instance from the template, appending extra
// to the template's base arguments, and returns the launch outcome.
func (r *Ref) StartChild(extra ...interface{}) (Outcome, error) {
	result, err := r.call(startChildReq{extra: extra})
	if err != nil {
		return Outcome{}, err
	}
	switch res := result.(type) {
	case Outcome:
		return res, nil
	case error:
		return Outcome{}, res
	default:
		return Outcome{}, errInvalidResponse(res)
	}
}

// TerminateChild stops the child behind handle and removes its slot.
// ErrNotFound is returned for a handle the supervisor does not know
// (never started here, already removed, or replaced by a restart).
func (r *Ref) TerminateChild(handle *pid.ProtectedPID) error {
	result, err := r.call(terminateChildReq{handle: handle})
	if err != nil {
		return err
	}
	switch res := result.(type) {
	case okReply:
		return nil
	case error:
		return res
	default:
		return errInvalidResponse(res)
	}
}

// Children returns a snapshot of every slot, live or pending restart.
func (r *Ref) Children() ([]ChildInfo, error) {
	result, err := r.call(whichChildrenReq{})
	if err != nil {
		return nil, err
	}
	switch res := result.(type) {
	case []ChildInfo:
		return res, nil
	case error:
		return nil, res
	default:
		return nil, errInvalidResponse(res)
	}
}

// Count returns the population counters.
func (r *Ref) Count() (Counts, error) {
	result, err := r.call(countChildrenReq{})
	if err != nil {
		return Counts{}, err
	}
	switch res := result.(type) {
	case Counts:
		return res, nil
	case error:
		return Counts{}, res
	default:
		return Counts{}, errInvalidResponse(res)
	}
}

// Stop tears the supervisor down: every child is terminated under the
// template's shutdown policy before the call returns.
func (r *Ref) Stop(reason string) error {
	result, err := r.call(stopReq{reason: reason})
	if err != nil {
		return err
	}
	switch res := result.(type) {
	case okReply:
		return nil
	case error:
		return res
	default:
		return errInvalidResponse(res)
	}
}

func (r *Ref) call(request interface{}) (interface{}, error) {
	future := actor.NewFuture()
	future.Send(r.ppid, call{sender: future.Self(), request: request})
	return future.Recv()
}

func errInvalidResponse(response interface{}) error {
	return fmt.Errorf("supervisor sent an invalid response: %v", response)
}
