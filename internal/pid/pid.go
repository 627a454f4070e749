package pid

import (
	"sync"

	"github.com/rs/xid"

	"github.com/taskward/taskward/internal/mailbox"
	"github.com/taskward/taskward/sysmsg"
)

// ExitSink receives the one-shot termination notice of a monitored
// task. Sinks must be comparable values so they can be demonitored.
type ExitSink interface {
	DeliverExit(exit sysmsg.Exit)
}

// ChanSink adapts a channel into an ExitSink. The channel must have
// capacity for one Exit per task monitored through it; delivery is a
// plain send.
type ChanSink struct {
	C chan sysmsg.Exit
}

func (s ChanSink) DeliverExit(exit sysmsg.Exit) {
	s.C <- exit
}

// MailboxSink delivers termination notices as system messages, keeping
// them in arrival order with the rest of the receiver's traffic.
type MailboxSink struct {
	M mailbox.Mailbox
}

func (s MailboxSink) DeliverExit(exit sysmsg.Exit) {
	s.M.SendSystemMessage(exit)
}

// PID identifies one concurrent task. It carries the task's mailbox and
// its connection table: links, which interrupt a peer's control flow on
// any termination, and monitors, which deliver a single terminal event
// without interrupting anything.
//
// All state transitions funnel through markDead, so a task terminates
// exactly once no matter how many sides race to signal it.
type PID struct {
	id      string
	mailbox mailbox.Mailbox
	cancel  func()

	mu       sync.Mutex
	links    map[*PID]struct{}
	monitors map[ExitSink]struct{}
	dead     bool
	reason   sysmsg.Reason
	stopping bool
}

// New wraps a mailbox in a fresh task handle.
func New(m mailbox.Mailbox) *PID {
	return &PID{
		id:       xid.New().String(),
		mailbox:  m,
		links:    make(map[*PID]struct{}),
		monitors: make(map[ExitSink]struct{}),
	}
}

func (p *PID) ID() string {
	return p.id
}

func (p *PID) Mailbox() mailbox.Mailbox {
	return p.mailbox
}

// SetCancel installs the function that closes the task's context.
func (p *PID) SetCancel(cancel func()) {
	p.cancel = cancel
}

func (p *PID) Alive() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return !p.dead
}

// StopRequested reports whether a graceful stop has been requested;
// a plain return after that classifies as shutdown, not normal.
func (p *PID) StopRequested() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.stopping
}

// Link connects p and other mutually. If either side is already dead
// the survivor is notified immediately, so a link established against
// a corpse still fires.
func (p *PID) Link(other *PID) {
	if dead, reason := other.addLink(p); dead {
		p.mailbox.SendSystemMessage(sysmsg.Exit{Who: other, Reason: reason, Relation: sysmsg.Linked})
		return
	}
	if dead, reason := p.addLink(other); dead {
		other.mailbox.SendSystemMessage(sysmsg.Exit{Who: p, Reason: reason, Relation: sysmsg.Linked})
	}
}

// Unlink removes the mutual link, if any.
func (p *PID) Unlink(other *PID) {
	other.removeLink(p)
	p.removeLink(other)
}

// Monitor registers sink for a one-shot termination notice.
// Monitoring a dead task delivers its terminal reason right away.
func (p *PID) Monitor(sink ExitSink) {
	p.mu.Lock()
	if p.dead {
		reason := p.reason
		p.mu.Unlock()
		sink.DeliverExit(sysmsg.Exit{Who: p, Reason: reason, Relation: sysmsg.Monitored})
		return
	}
	p.monitors[sink] = struct{}{}
	p.mu.Unlock()
}

// Demonitor removes a previously registered sink.
func (p *PID) Demonitor(sink ExitSink) {
	p.mu.Lock()
	delete(p.monitors, sink)
	p.mu.Unlock()
}

// Stop asks the task to terminate gracefully: a shutdown command is
// queued for trap-exit tasks and the context is cancelled for everyone
// else. It does not wait; pair it with Monitor to observe the result.
func (p *PID) Stop(parent *PID) {
	p.mu.Lock()
	if p.dead {
		p.mu.Unlock()
		return
	}
	p.stopping = true
	p.mu.Unlock()

	p.mailbox.SendSystemMessage(sysmsg.Shutdown{Parent: parent})
	if p.cancel != nil {
		p.cancel()
	}
}

// Kill terminates the task immediately: the handle is declared dead,
// the mailbox is disposed and connections are notified. The goroutine
// itself cannot be preempted; it is abandoned and its eventual return
// is ignored.
func (p *PID) Kill(reason sysmsg.Reason) {
	p.finish(reason)
}

// Terminated is invoked by the task wrapper once its function has
// returned or panicked. It is a no-op if the task was killed first.
func (p *PID) Terminated(reason sysmsg.Reason) {
	p.finish(reason)
}

func (p *PID) finish(reason sysmsg.Reason) {
	links, monitors, ok := p.markDead(reason)
	if !ok {
		return
	}
	p.mailbox.Dispose()
	if p.cancel != nil {
		p.cancel()
	}
	// Monitors first: a shutdown drain must observe the death even if a
	// linked peer's mailbox is momentarily busy.
	for sink := range monitors {
		sink.DeliverExit(sysmsg.Exit{Who: p, Reason: reason, Relation: sysmsg.Monitored})
	}
	for linked := range links {
		linked.removeLink(p)
		linked.mailbox.SendSystemMessage(sysmsg.Exit{Who: p, Reason: reason, Relation: sysmsg.Linked})
	}
}

func (p *PID) markDead(reason sysmsg.Reason) (map[*PID]struct{}, map[ExitSink]struct{}, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.dead {
		return nil, nil, false
	}
	p.dead = true
	p.reason = reason
	links, monitors := p.links, p.monitors
	p.links, p.monitors = nil, nil
	return links, monitors, true
}

func (p *PID) addLink(other *PID) (dead bool, reason sysmsg.Reason) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.dead {
		return true, p.reason
	}
	p.links[other] = struct{}{}
	return false, sysmsg.Reason{}
}

func (p *PID) removeLink(other *PID) {
	p.mu.Lock()
	if !p.dead {
		delete(p.links, other)
	}
	p.mu.Unlock()
}
