// Package actor is a small actor substrate: message-addressed tasks
// with mailboxes, links, monitors and synchronous call/reply futures.
// It exists to host supervisors; it is deliberately not a general
// actor framework.
package actor

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/taskward/taskward/internal/mailbox"
	"github.com/taskward/taskward/internal/pid"
	"github.com/taskward/taskward/sysmsg"
)

const (
	trapExitNo int32 = iota
	trapExitYes
)

// Func is the body of an actor. It runs on its own goroutine; when it
// returns or panics the actor's links and monitors are notified.
type Func func(a *Actor)

// Actor is the handle a Func receives to its own runtime: its mailbox,
// its spawn arguments, and its lifecycle switches.
type Actor struct {
	ctx      context.Context
	args     []interface{}
	pid      *pid.PID
	trapExit int32
}

// Args returns the arguments the actor was spawned with.
func (a *Actor) Args() []interface{} {
	return a.args
}

// Self returns the actor's own protected handle.
func (a *Actor) Self() *pid.ProtectedPID {
	return pid.NewProtectedPID(a.pid)
}

// Receive runs handler for every inbound message until it returns
// false or the actor is stopped.
func (a *Actor) Receive(handler mailbox.MessageHandler) {
	a.pid.Mailbox().Receive(handler)
}

// ReceiveTimeout is Receive with an idle deadline; the handler gets a
// sysmsg.Timeout each time d elapses with no traffic.
func (a *Actor) ReceiveTimeout(d time.Duration, handler mailbox.MessageHandler) {
	a.pid.Mailbox().ReceiveTimeout(d, handler)
}

// Done is closed when the actor is asked to stop. Long-running bodies
// must watch it and return.
func (a *Actor) Done() <-chan struct{} {
	return a.ctx.Done()
}

// Context returns a context cancelled on stop, for passing to blocking
// calls inside the actor body.
func (a *Actor) Context() context.Context {
	return a.ctx
}

// TrapExit toggles whether linked terminations and shutdown commands
// are delivered as messages instead of terminating this actor.
// Supervisors always trap.
func (a *Actor) TrapExit(trap bool) {
	v := trapExitNo
	if trap {
		v = trapExitYes
	}
	atomic.StoreInt32(&a.trapExit, v)
}

func (a *Actor) trapExited() bool {
	return atomic.LoadInt32(&a.trapExit) == trapExitYes
}

// Link connects this actor to another; either side's termination is
// delivered to the survivor.
func (a *Actor) Link(ppid *pid.ProtectedPID) {
	a.pid.Link(pid.ExtractPID(ppid))
}

// Unlink removes a link.
func (a *Actor) Unlink(ppid *pid.ProtectedPID) {
	a.pid.Unlink(pid.ExtractPID(ppid))
}

// SpawnLink starts a new actor atomically linked to this one: the link
// is in place before the child's first instruction, so even an
// immediate crash is observed.
func (a *Actor) SpawnLink(fn Func, args ...interface{}) *pid.ProtectedPID {
	child := createActor(args...)
	a.pid.Link(child.pid)
	run(fn, child)
	return pid.NewProtectedPID(child.pid)
}

// handleTermination converts the actor's return or panic into a
// terminal reason and hands it to the pid, which notifies links and
// monitors exactly once.
func (a *Actor) handleTermination() {
	var reason sysmsg.Reason
	switch r := recover().(type) {
	case nil:
		if a.pid.StopRequested() {
			reason = sysmsg.Reason{Type: sysmsg.ShutdownReason, Details: "stop requested"}
		} else {
			reason = sysmsg.Reason{Type: sysmsg.Normal}
		}
	case sysmsg.Exit:
		reason = r.Reason
	case sysmsg.Shutdown:
		reason = sysmsg.Reason{Type: sysmsg.ShutdownReason, Details: "stop requested"}
	default:
		reason = sysmsg.Reason{Type: sysmsg.Panic, Details: r}
	}
	a.pid.Terminated(reason)
}
