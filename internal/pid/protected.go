package pid

// ProtectedPID is the user-facing form of a task handle. It hides the
// lifecycle methods (Kill, Stop, connection management) that only the
// actor layer and supervisors may touch.
type ProtectedPID struct {
	pid *PID
}

func NewProtectedPID(pid *PID) *ProtectedPID {
	return &ProtectedPID{pid: pid}
}

// ExtractPID recovers the raw handle. Only the actor and supervisor
// layers call this.
func ExtractPID(ppid *ProtectedPID) *PID {
	return ppid.pid
}

// ID returns the task's unique identity.
func (pp *ProtectedPID) ID() string {
	return pp.pid.id
}
