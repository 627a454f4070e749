package sysmsg

import "time"

// Exit describes the termination of a linked or monitored task.
type Exit struct {
	// Who is the task that terminated. It is an opaque handle; the
	// receiver knows its concrete type.
	Who interface{}
	// Parent is the task that caused the termination, if any.
	Parent interface{}
	// Reason behind the termination.
	Reason Reason
	// Relation between the terminated task and the receiver.
	Relation Relation
}

func (e Exit) systemMessage() {}

// Shutdown is a stop request sent by a supervisor to a supervised task.
// A task that traps exits receives it as an ordinary message and is
// expected to return; one that does not terminates right away with a
// shutdown reason.
type Shutdown struct {
	// Parent is the requesting supervisor.
	Parent interface{}
}

func (s Shutdown) systemMessage() {}

// Timeout is delivered by a mailbox receive with a deadline.
type Timeout struct {
	Duration time.Duration
}

func (t Timeout) systemMessage() {}
