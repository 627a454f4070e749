package actor

import (
	"context"

	"github.com/taskward/taskward/internal/mailbox"
	"github.com/taskward/taskward/internal/pid"
	"github.com/taskward/taskward/sysmsg"
)

// Send queues a message for the target actor. It never blocks; sends
// to a dead actor are dropped.
func Send(ppid *pid.ProtectedPID, message interface{}) {
	pid.ExtractPID(ppid).Mailbox().SendUserMessage(message)
}

// SendNamed sends to a registered name, dropping the message if the
// name is unknown.
func SendNamed(name string, message interface{}) {
	ppid := WhereIs(name)
	if ppid == nil {
		return
	}
	Send(ppid, message)
}

// Spawn starts fn as a new unlinked actor and returns its handle.
func Spawn(fn Func, args ...interface{}) *pid.ProtectedPID {
	a := createActor(args...)
	run(fn, a)
	return pid.NewProtectedPID(a.pid)
}

// Stop asks the actor to terminate gracefully. It does not wait.
func Stop(ppid *pid.ProtectedPID) {
	pid.ExtractPID(ppid).Stop(nil)
}

// Kill terminates the actor immediately, abandoning its goroutine.
func Kill(ppid *pid.ProtectedPID) {
	pid.ExtractPID(ppid).Kill(sysmsg.Reason{Type: sysmsg.Kill, Details: "killed"})
}

func createActor(args ...interface{}) *Actor {
	m := mailbox.NewMPSC()
	p := pid.New(m)
	ctx, cancel := context.WithCancel(context.Background())
	p.SetCancel(cancel)
	a := &Actor{ctx: ctx, args: args, pid: p, trapExit: trapExitNo}
	m.SetSystemHandler(&systemHandler{actor: a})
	return a
}

func run(fn Func, a *Actor) {
	go func() {
		defer a.handleTermination()
		fn(a)
	}()
}
