package sysmsg

// SystemMessage marks messages that are handled by the mailbox's system
// handler before (or instead of) reaching the user's receive callback.
type SystemMessage interface {
	systemMessage()
}

// ReasonType is the raw termination reason of a task.
type ReasonType string

const (
	// Normal is a plain return from the task's function.
	Normal ReasonType = "normal"
	// ShutdownReason is a termination caused by a stop request.
	ShutdownReason ReasonType = "shutdown"
	// Kill is a forced termination, no graceful attempt was made or it expired.
	Kill ReasonType = "killed"
	// Panic is an unhandled panic inside the task's function.
	Panic ReasonType = "panic"
	// SupRestartsExceeded is a supervisor giving up after hitting its
	// restart intensity limit.
	SupRestartsExceeded ReasonType = "reached_max_restart_intensity"
)

// Reason describes why a task terminated.
type Reason struct {
	Type    ReasonType
	Details interface{}
}

// Class is the restart-eligibility classification of a Reason.
type Class int

const (
	// ClassNormal covers plain returns.
	ClassNormal Class = iota
	// ClassShutdown covers stop requests, with or without detail.
	ClassShutdown
	// ClassOther covers everything else: panics, kills, propagated
	// abnormal exits. Only this class makes a transient child restart.
	ClassOther
)

// Classify buckets a reason into normal, shutdown or other. Every type
// this package does not know about is abnormal.
func (r Reason) Classify() Class {
	switch r.Type {
	case Normal:
		return ClassNormal
	case ShutdownReason:
		return ClassShutdown
	default:
		return ClassOther
	}
}

// Relation describes how the terminated task was connected to the
// receiver of its Exit notification.
type Relation string

const (
	Linked    Relation = "linked"
	Monitored Relation = "monitored"
)
