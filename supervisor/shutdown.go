package supervisor

import (
	"time"

	"github.com/taskward/taskward/internal/pid"
	"github.com/taskward/taskward/sysmsg"
)

// shutdownFailure is one child that ended abnormally during a drain.
type shutdownFailure struct {
	p      *pid.PID
	args   []interface{}
	reason sysmsg.Reason
}

// shutdownChildren terminates every live task among targets with the
// template's shutdown policy: graceful first (unless the policy is an
// immediate kill), then forced once the deadline fires. It blocks the
// control loop until every target has reported — teardown is atomic
// relative to new requests — and reports all abnormal terminations
// once the drain completes.
func (s *state) shutdownChildren(targets map[*pid.PID]*childEntry) {
	live := make(map[*pid.PID][]interface{}, len(targets))
	for p, entry := range targets {
		if entry.restarting {
			continue // tombstone, nothing running to stop
		}
		live[p] = entry.args
	}
	if len(live) == 0 {
		return
	}

	// Swap from link to monitor before signalling, so our own stop
	// does not come back as a linked exit, and an already-dead child
	// is captured immediately.
	down := make(chan sysmsg.Exit, len(live))
	sink := pid.ChanSink{C: down}
	supPID := pid.ExtractPID(s.self)
	for p := range live {
		p.Monitor(sink)
		supPID.Unlink(p)
	}

	var deadline <-chan time.Time
	switch s.tmpl.Shutdown.kind {
	case shutdownKill:
		for p := range live {
			p.Kill(sysmsg.Reason{Type: sysmsg.Kill, Details: "killed by supervisor"})
		}
	case shutdownInfinity:
		for p := range live {
			p.Stop(supPID)
		}
	case shutdownTimeout:
		for p := range live {
			p.Stop(supPID)
		}
		timer := time.NewTimer(s.tmpl.Shutdown.timeout)
		defer timer.Stop()
		deadline = timer.C
	}

	var failures []shutdownFailure
	waiting := len(live)
	for waiting > 0 {
		select {
		case exit := <-down:
			waiting--
			p := exit.Who.(*pid.PID)
			if s.abnormalDrainExit(exit.Reason) {
				failures = append(failures, shutdownFailure{p: p, args: live[p], reason: exit.Reason})
			}
		case <-deadline:
			deadline = nil
			// stragglers get the hard kill; Kill on a task that
			// reported in the meantime is a no-op
			for p := range live {
				p.Kill(sysmsg.Reason{Type: sysmsg.Kill, Details: "shutdown deadline exceeded"})
			}
		}
	}

	for _, f := range failures {
		s.report(ReportShutdownError, f.reason, f.p, f.args)
	}
}

// abnormalDrainExit decides whether a termination observed during a
// drain belongs in the error set. Kills are supervisor-initiated here
// and expected; a permanent child has no business stopping normally,
// even when asked.
func (s *state) abnormalDrainExit(reason sysmsg.Reason) bool {
	switch reason.Classify() {
	case sysmsg.ClassNormal:
		return s.tmpl.Restart == Permanent
	case sysmsg.ClassShutdown:
		return false
	default:
		return reason.Type != sysmsg.Kill
	}
}

// stopAllChildren runs the coordinator over the whole child set and
// empties the state.
func (s *state) stopAllChildren() {
	s.shutdownChildren(s.children)
	s.children = make(map[*pid.PID]*childEntry)
	s.pending = 0
}

// terminateChild stops exactly one child. A tombstoned slot has no
// live task and is simply removed; the relayed retry then no-ops.
func (s *state) terminateChild(handle *pid.ProtectedPID) error {
	p := pid.ExtractPID(handle)
	entry, known := s.children[p]
	if !known {
		return ErrNotFound
	}
	if !entry.restarting {
		s.shutdownChildren(map[*pid.PID]*childEntry{p: entry})
	} else {
		s.pending--
	}
	delete(s.children, p)
	return nil
}
