package actor

import (
	"errors"
	"fmt"
	"time"

	"github.com/taskward/taskward/internal/mailbox"
	"github.com/taskward/taskward/internal/pid"
	"github.com/taskward/taskward/sysmsg"
)

// ErrTimeout is returned by RecvTimeout when no response arrives in time.
var ErrTimeout = errors.New("future: timed out waiting for a response")

// Future is a single-use reply address for synchronous calls. Send
// monitors the target, so a call to an actor that dies before replying
// fails instead of hanging; the monitor notice shares the future's
// mailbox with the reply, which keeps "reply then die" ordered
// correctly.
type Future struct {
	pid    *pid.PID
	target *pid.PID
}

func NewFuture() *Future {
	return &Future{pid: pid.New(mailbox.NewFuture())}
}

func (f *Future) Self() *pid.ProtectedPID {
	return pid.NewProtectedPID(f.pid)
}

// Send dispatches a request to the target on behalf of this future.
func (f *Future) Send(target *pid.ProtectedPID, message interface{}) {
	f.target = pid.ExtractPID(target)
	f.target.Monitor(pid.MailboxSink{M: f.pid.Mailbox()})
	Send(target, message)
}

// Recv blocks until a response (or the target's death) arrives.
func (f *Future) Recv() (interface{}, error) {
	defer f.settle()
	var response interface{}
	var err error
	f.pid.Mailbox().Receive(func(message interface{}) (loop bool) {
		response, err = f.interpret(message)
		return false
	})
	return response, err
}

// RecvTimeout is Recv with a deadline.
func (f *Future) RecvTimeout(d time.Duration) (interface{}, error) {
	defer f.settle()
	var response interface{}
	var err error
	f.pid.Mailbox().ReceiveTimeout(d, func(message interface{}) (loop bool) {
		if _, timedOut := message.(sysmsg.Timeout); timedOut {
			err = ErrTimeout
			return false
		}
		response, err = f.interpret(message)
		return false
	})
	return response, err
}

func (f *Future) interpret(message interface{}) (interface{}, error) {
	switch msg := message.(type) {
	case sysmsg.Exit:
		return nil, fmt.Errorf("future: target terminated before replying: %s", msg.Reason.Type)
	case mailbox.ErrDisposed:
		return nil, msg
	default:
		return msg, nil
	}
}

// settle retires the single-use future: the monitor is dropped and the
// mailbox disposed so late replies are discarded.
func (f *Future) settle() {
	if f.target != nil {
		f.target.Demonitor(pid.MailboxSink{M: f.pid.Mailbox()})
		f.target = nil
	}
	f.pid.Mailbox().Dispose()
}
