// Package supervisor implements a dynamic process supervisor: a
// coordinator that launches, tracks and restarts a homogeneous
// population of tasks from a single child template, giving up once
// restarts exceed a sliding-window intensity limit.
package supervisor

import (
	"errors"
	"fmt"

	"github.com/taskward/taskward/actor"
	"github.com/taskward/taskward/internal/pid"
	"github.com/taskward/taskward/sysmsg"
)

// Start validates the configuration and brings up a supervisor with no
// children. Exactly one template must be supplied; any configuration
// problem aborts startup before any child can exist.
func Start(opts Options, templates ...Template) (*Ref, error) {
	if len(templates) != 1 {
		return nil, fmt.Errorf("dynamic supervisor takes exactly one child template, got %d", len(templates))
	}
	tmpl := templates[0]
	if err := tmpl.validate(); err != nil {
		return nil, err
	}
	opts.normalize()
	if err := opts.validate(); err != nil {
		return nil, err
	}

	ppid := actor.Spawn(run, tmpl, opts)
	actor.Register(opts.Name, ppid)
	return &Ref{ppid: ppid, name: opts.Name}, nil
}

// InitFunc is a configuration callback: it produces the template and
// options for a supervisor about to start. Returning ErrIgnore makes
// StartInit report neither a supervisor nor an error.
type InitFunc func(arg interface{}) (Template, Options, error)

// StartInit starts a supervisor from a configuration callback.
func StartInit(init InitFunc, arg interface{}) (*Ref, error) {
	tmpl, opts, err := init(arg)
	if errors.Is(err, ErrIgnore) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("supervisor init: %w", err)
	}
	return Start(opts, tmpl)
}

// run is the supervisor's control loop. Everything — requests, linked
// terminations, relayed retries — arrives through one mailbox and is
// handled one message at a time, so state needs no locking and the
// order between "a child died" and "terminate that child" is decided
// by arrival.
func run(a *actor.Actor) {
	tmpl := a.Args()[0].(Template)
	opts := a.Args()[1].(Options)

	// linked children must not take the loop down; their exits are
	// messages to classify
	a.TrapExit(true)
	defer actor.Unregister(opts.Name)

	s := newState(tmpl, opts, a)
	a.Receive(s.handle)
}

func (s *state) handle(message interface{}) (loop bool) {
	switch msg := message.(type) {
	case sysmsg.Exit:
		if msg.Relation != sysmsg.Linked {
			return true
		}
		p, ok := msg.Who.(*pid.PID)
		if !ok {
			return true
		}
		return s.childTerminated(p, msg.Reason)
	case retryRestart:
		return s.handleRetry(msg)
	case sysmsg.Shutdown:
		// our own supervisor is tearing us down: stop the children,
		// then exit with a shutdown reason
		s.stopAllChildren()
		panic(sysmsg.Exit{
			Who:      pid.ExtractPID(s.self),
			Parent:   msg.Parent,
			Reason:   sysmsg.Reason{Type: sysmsg.ShutdownReason},
			Relation: sysmsg.Linked,
		})
	case call:
		return s.handleCall(msg)
	default:
		s.log.Warn().Str("supervisor", s.opts.Name).
			Interface("message", message).
			Msg("unknown message ignored")
		return true
	}
}

func (s *state) handleCall(msg call) (loop bool) {
	switch req := msg.request.(type) {
	case startChildReq:
		args := make([]interface{}, 0, len(s.tmpl.Start.Args)+len(req.extra))
		args = append(args, s.tmpl.Start.Args...)
		args = append(args, req.extra...)
		actor.Send(msg.sender, s.launch(args))
	case terminateChildReq:
		if err := s.terminateChild(req.handle); err != nil {
			actor.Send(msg.sender, err)
		} else {
			actor.Send(msg.sender, okReply{})
		}
	case whichChildrenReq:
		actor.Send(msg.sender, s.childrenInfo())
	case countChildrenReq:
		actor.Send(msg.sender, s.countChildren())
	case stopReq:
		s.log.Info().Str("supervisor", s.opts.Name).Str("reason", req.reason).
			Msg("supervisor stopping")
		s.stopAllChildren()
		actor.Send(msg.sender, okReply{})
		return false
	default:
		actor.Send(msg.sender, fmt.Errorf("supervisor: unknown request %T", req))
	}
	return true
}
