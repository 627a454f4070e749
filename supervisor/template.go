package supervisor

import (
	"fmt"
	"time"

	"github.com/taskward/taskward/actor"
)

// RestartPolicy governs whether a child is relaunched after it
// terminates.
type RestartPolicy int32

const (
	// Permanent children are always relaunched, whatever the reason.
	Permanent RestartPolicy = iota
	// Transient children are relaunched only after an abnormal
	// termination.
	Transient
	// Temporary children are never relaunched.
	Temporary
)

func (p RestartPolicy) String() string {
	switch p {
	case Permanent:
		return "permanent"
	case Transient:
		return "transient"
	case Temporary:
		return "temporary"
	default:
		return fmt.Sprintf("restart(%d)", p)
	}
}

type shutdownKind int32

const (
	shutdownKill shutdownKind = iota
	shutdownInfinity
	shutdownTimeout
)

// ShutdownPolicy is how a child is asked to stop: an immediate kill, a
// graceful stop with no deadline, or a graceful stop escalated to a
// kill after a deadline.
type ShutdownPolicy struct {
	kind    shutdownKind
	timeout time.Duration
}

// ShutdownKill stops children with an immediate hard kill.
func ShutdownKill() ShutdownPolicy {
	return ShutdownPolicy{kind: shutdownKill}
}

// ShutdownInfinity waits for a stopped child indefinitely.
func ShutdownInfinity() ShutdownPolicy {
	return ShutdownPolicy{kind: shutdownInfinity}
}

// ShutdownTimeout waits up to d for a stopped child, then kills it.
func ShutdownTimeout(d time.Duration) ShutdownPolicy {
	return ShutdownPolicy{kind: shutdownTimeout, timeout: d}
}

func (sp ShutdownPolicy) String() string {
	switch sp.kind {
	case shutdownKill:
		return "brutal_kill"
	case shutdownInfinity:
		return "infinity"
	default:
		return sp.timeout.String()
	}
}

// Role tags what kind of task the template produces. It is
// introspection metadata only; the supervisor treats both the same.
type Role int32

const (
	RoleWorker Role = iota
	RoleSupervisor
)

func (r Role) String() string {
	if r == RoleSupervisor {
		return "supervisor"
	}
	return "worker"
}

// StartFunc builds one child instance. It is invoked synchronously on
// the supervisor's loop with the template's base arguments plus any
// extras from StartChild, and returns the actor body to run:
//
//   - (fn, nil)  the child starts; fn is spawned linked to the supervisor
//   - (nil, nil) or (nil, ErrIgnore)  the template declines this instance
//   - (nil, err) the start failed; err is reported, never raised
//
// A panic inside a StartFunc is caught and treated as a failure.
type StartFunc func(args []interface{}) (actor.Func, error)

// StartSpec pairs a start function with its base arguments.
type StartSpec struct {
	Func StartFunc
	Args []interface{}
}

// Template is the single child specification a dynamic supervisor
// launches every instance from. It is immutable once the supervisor is
// running; only the per-launch extra arguments vary.
type Template struct {
	Start    StartSpec
	Restart  RestartPolicy
	Shutdown ShutdownPolicy
	Role     Role
	// Modules is opaque metadata echoed by introspection.
	Modules []string
}

// NewTemplate returns a worker template with transient restart and a
// 5s graceful shutdown.
func NewTemplate(fn StartFunc, args ...interface{}) Template {
	return Template{
		Start:    StartSpec{Func: fn, Args: args},
		Restart:  Transient,
		Shutdown: ShutdownTimeout(5 * time.Second),
		Role:     RoleWorker,
	}
}

func (t Template) SetRestart(p RestartPolicy) Template {
	t.Restart = p
	return t
}

func (t Template) SetShutdown(sp ShutdownPolicy) Template {
	t.Shutdown = sp
	return t
}

func (t Template) SetRole(r Role) Template {
	t.Role = r
	return t
}

func (t Template) SetModules(modules ...string) Template {
	t.Modules = modules
	return t
}

func (t Template) validate() error {
	if t.Start.Func == nil {
		return fmt.Errorf("child template: start function cannot be nil")
	}
	switch t.Restart {
	case Permanent, Transient, Temporary:
	default:
		return fmt.Errorf("child template: invalid restart policy: %d", t.Restart)
	}
	switch t.Shutdown.kind {
	case shutdownKill, shutdownInfinity:
	case shutdownTimeout:
		if t.Shutdown.timeout < 0 {
			return fmt.Errorf("child template: negative shutdown timeout: %v", t.Shutdown.timeout)
		}
	default:
		return fmt.Errorf("child template: invalid shutdown policy: %d", t.Shutdown.kind)
	}
	switch t.Role {
	case RoleWorker, RoleSupervisor:
	default:
		return fmt.Errorf("child template: invalid role: %d", t.Role)
	}
	return nil
}
