package supervisor

import (
	"github.com/taskward/taskward/actor"
	"github.com/taskward/taskward/internal/pid"
	"github.com/taskward/taskward/sysmsg"
)

// childTerminated is the restart governor: it classifies a linked
// termination and decides, per restart policy, whether the child comes
// back. Returning false ends the control loop (the supervisor itself
// is shutting down).
func (s *state) childTerminated(p *pid.PID, reason sysmsg.Reason) bool {
	entry, known := s.children[p]
	if !known || entry.restarting {
		// already removed (explicit termination raced the exit) or a
		// tombstone that has no live task to speak of
		return true
	}

	switch s.tmpl.Restart {
	case Permanent:
		s.report(ReportChildTerminated, reason, p, entry.args)
		return s.restartChild(p, entry)
	case Transient:
		if reason.Classify() == sysmsg.ClassOther {
			s.report(ReportChildTerminated, reason, p, entry.args)
			return s.restartChild(p, entry)
		}
		delete(s.children, p)
		return true
	default: // Temporary
		if reason.Classify() == sysmsg.ClassOther {
			s.report(ReportChildTerminated, reason, p, entry.args)
		}
		delete(s.children, p)
		return true
	}
}

// restartChild runs one restart attempt for the slot keyed by p. The
// intensity window is charged first: a supervisor that restarts too
// fast must stop, not loop.
func (s *state) restartChild(p *pid.PID, entry *childEntry) bool {
	if s.addRestart() {
		s.report(ReportRestartLimit,
			sysmsg.Reason{Type: sysmsg.SupRestartsExceeded, Details: "restart intensity exceeded"},
			p, entry.args)
		delete(s.children, p)
		s.terminateSelf(sysmsg.Reason{
			Type:    sysmsg.SupRestartsExceeded,
			Details: "restart intensity exceeded",
		})
		return false // not reached; terminateSelf panics out of the loop
	}

	switch out := s.launch(entry.args); out.Status {
	case Started:
		// launch recorded the new handle; retire the old slot key
		delete(s.children, p)
	case Ignored:
		delete(s.children, p)
	case Failed:
		// defer the retry through our own mailbox so other requests
		// are serviced between attempts and stack depth stays flat
		entry.restarting = true
		s.pending++
		actor.Send(s.self, retryRestart{p: p})
	}
	return true
}

// handleRetry processes a relayed restart. The slot may have been
// removed while the message was in flight; that makes this a no-op.
func (s *state) handleRetry(msg retryRestart) bool {
	entry, known := s.children[msg.p]
	if !known || !entry.restarting {
		return true
	}
	s.pending--
	entry.restarting = false
	return s.restartChild(msg.p, entry)
}

// addRestart charges one restart against the sliding window and
// reports whether the budget is blown. The window boundary is
// inclusive: a restart exactly MaxSeconds old still counts.
func (s *state) addRestart() (exceeded bool) {
	now := s.now()
	s.restarts = append(s.restarts, now)
	inWindow := s.restarts[:0]
	for _, t := range s.restarts {
		if now <= t+int64(s.opts.MaxSeconds) {
			inWindow = append(inWindow, t)
		}
	}
	s.restarts = inWindow
	return len(s.restarts) > s.opts.MaxRestarts
}

// terminateSelf tears down every remaining child and then exits the
// control loop with a non-normal reason, which propagates to whatever
// links or monitors this supervisor.
func (s *state) terminateSelf(reason sysmsg.Reason) {
	s.stopAllChildren()
	panic(sysmsg.Exit{
		Who:      pid.ExtractPID(s.self),
		Reason:   reason,
		Relation: sysmsg.Linked,
	})
}
