package mailbox

import (
	"sync/atomic"
	"time"

	mpsc "github.com/t3rm1n4l/go-mpscqueue"

	"github.com/taskward/taskward/sysmsg"
)

// mpscMailbox is the default actor mailbox: a single unbounded
// multi-producer single-consumer FIFO. User requests and system
// notifications share one queue so the receiver observes them in
// arrival order, and a producer never blocks on a busy receiver.
type mpscMailbox struct {
	queue  *mpsc.MPSCQueue
	done   chan struct{}
	status int32
	signal chan struct{}
	sys    SystemHandler
}

// NewMPSC returns an unbounded FIFO mailbox.
func NewMPSC() Mailbox {
	return &mpscMailbox{
		queue:  mpsc.New(),
		done:   make(chan struct{}),
		status: mailboxIdle,
		signal: make(chan struct{}, 1),
	}
}

func (m *mpscMailbox) SetSystemHandler(handler SystemHandler) {
	m.sys = handler
}

func (m *mpscMailbox) SendUserMessage(message interface{}) {
	select {
	case <-m.done:
		return
	default:
	}
	m.queue.Push(message)
	if atomic.CompareAndSwapInt32(&m.status, mailboxIdle, mailboxProcessing) {
		select {
		case m.signal <- struct{}{}:
		default:
		}
	}
}

func (m *mpscMailbox) SendSystemMessage(message interface{}) {
	m.SendUserMessage(message)
}

func (m *mpscMailbox) Receive(handler MessageHandler) {
	for {
		select {
		case <-m.done:
			return
		case <-m.signal:
		}
		if !m.drain(handler) {
			return
		}
	}
}

func (m *mpscMailbox) ReceiveTimeout(d time.Duration, handler MessageHandler) {
	if d < 1 {
		m.Receive(handler)
		return
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	for {
		select {
		case <-m.done:
			return
		case <-m.signal:
			if !m.drain(handler) {
				return
			}
			resetTimer(timer, d)
		case <-timer.C:
			if !handler(sysmsg.Timeout{Duration: d}) {
				return
			}
			timer.Reset(d)
		}
	}
}

// drain empties the queue, then flips back to idle. A message pushed
// between the last pop and the status store would be stranded until
// the next send, so the queue is re-checked after going idle.
func (m *mpscMailbox) drain(handler MessageHandler) bool {
	for {
		for m.queue.Size() != 0 {
			select {
			case <-m.done:
				return false
			default:
			}
			if !m.dispatch(m.queue.Pop(), handler) {
				return false
			}
		}
		atomic.StoreInt32(&m.status, mailboxIdle)
		if m.queue.Size() == 0 || !atomic.CompareAndSwapInt32(&m.status, mailboxIdle, mailboxProcessing) {
			return true
		}
	}
}

func (m *mpscMailbox) dispatch(message interface{}, handler MessageHandler) bool {
	if _, isSys := message.(sysmsg.SystemMessage); isSys && m.sys != nil {
		pass, msg := m.sys.HandleSystemMessage(message)
		if !pass {
			return true
		}
		return handler(msg)
	}
	return handler(message)
}

func (m *mpscMailbox) Dispose() {
	select {
	case <-m.done:
		return
	default:
		close(m.done)
	}
}

func resetTimer(timer *time.Timer, d time.Duration) {
	if !timer.Stop() {
		select {
		case <-timer.C:
		default:
		}
	}
	timer.Reset(d)
}
