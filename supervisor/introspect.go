package supervisor

import (
	"github.com/taskward/taskward/internal/pid"
)

// ChildInfo is one row of a Children snapshot.
type ChildInfo struct {
	// Handle is the live task, or nil while the slot is queued for
	// relaunch.
	Handle     *pid.ProtectedPID
	Restarting bool
	// Role and Modules are copied from the template; every child
	// shares them.
	Role    Role
	Modules []string
}

// Counts summarises the population. Specs is always 1: a dynamic
// supervisor has a single template. Active excludes slots awaiting
// relaunch. Workers/Supervisors hold the total slot count under
// whichever role the template declares.
type Counts struct {
	Specs       int
	Active      int
	Workers     int
	Supervisors int
}

func (s *state) childrenInfo() []ChildInfo {
	info := make([]ChildInfo, 0, len(s.children))
	for p, entry := range s.children {
		ci := ChildInfo{
			Restarting: entry.restarting,
			Role:       s.tmpl.Role,
			Modules:    s.tmpl.Modules,
		}
		if !entry.restarting {
			ci.Handle = pid.NewProtectedPID(p)
		}
		info = append(info, ci)
	}
	return info
}

func (s *state) countChildren() Counts {
	total := len(s.children)
	counts := Counts{
		Specs:  1,
		Active: total - s.pending,
	}
	if s.tmpl.Role == RoleSupervisor {
		counts.Supervisors = total
	} else {
		counts.Workers = total
	}
	return counts
}
