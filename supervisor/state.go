package supervisor

import (
	"time"

	"github.com/rs/zerolog"

	"github.com/taskward/taskward/actor"
	"github.com/taskward/taskward/internal/pid"
)

// childEntry is one slot in the children map: either a live task (the
// map key is its handle) or, while restarting is set, a tombstone for
// a task whose relaunch failed and is queued on the relay.
type childEntry struct {
	args       []interface{}
	restarting bool
}

// state is the supervisor's whole world. It is touched exclusively
// from the control loop, one message at a time, so it carries no
// locks.
type state struct {
	tmpl Template
	opts Options
	sup  *actor.Actor
	self *pid.ProtectedPID

	children map[*pid.PID]*childEntry
	// restarts holds the unix timestamps of restarts inside the
	// sliding window, oldest first. Pruned on every restart attempt.
	restarts []int64
	// pending counts the restarting tombstones in children.
	pending int

	log zerolog.Logger
	rep Reporter
	now func() int64
}

func newState(tmpl Template, opts Options, sup *actor.Actor) *state {
	return &state{
		tmpl:     tmpl,
		opts:     opts,
		sup:      sup,
		self:     sup.Self(),
		children: make(map[*pid.PID]*childEntry),
		log:      *opts.Logger,
		rep:      opts.Reporter,
		now:      func() int64 { return time.Now().Unix() },
	}
}

// save records a freshly started child. Temporary children never
// restart, so their arguments are not retained.
func (s *state) save(p *pid.PID, args []interface{}) {
	if s.tmpl.Restart == Temporary {
		args = nil
	}
	s.children[p] = &childEntry{args: args}
}

func (s *state) descriptor(handle string, args []interface{}) ChildDescriptor {
	return ChildDescriptor{
		Handle:   handle,
		Args:     args,
		Restart:  s.tmpl.Restart,
		Shutdown: s.tmpl.Shutdown,
		Role:     s.tmpl.Role,
		Modules:  s.tmpl.Modules,
	}
}

func (s *state) report(ctx ReportContext, reason interface{}, p *pid.PID, args []interface{}) {
	s.rep.Report(Report{
		Supervisor: s.opts.Name,
		Context:    ctx,
		Reason:     reason,
		Child:      s.descriptor(p.ID(), args),
	})
}

// reportUnstarted reports a failure for an instance that never got a
// handle.
func (s *state) reportUnstarted(ctx ReportContext, reason interface{}, args []interface{}) {
	s.rep.Report(Report{
		Supervisor: s.opts.Name,
		Context:    ctx,
		Reason:     reason,
		Child:      s.descriptor("", args),
	})
}
