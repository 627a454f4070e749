package supervisor

import (
	"github.com/taskward/taskward/internal/pid"
)

// call is the envelope every synchronous request travels in; the reply
// goes straight to sender.
type call struct {
	sender  *pid.ProtectedPID
	request interface{}
}

type startChildReq struct {
	extra []interface{}
}

type terminateChildReq struct {
	handle *pid.ProtectedPID
}

type whichChildrenReq struct{}

type countChildrenReq struct{}

type stopReq struct {
	reason string
}

// retryRestart is the supervisor's self-addressed relay message: a
// failed relaunch is retried from the main loop instead of recursing,
// so concurrent requests keep being served.
type retryRestart struct {
	p *pid.PID
}

type okReply struct{}
