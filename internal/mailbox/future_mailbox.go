package mailbox

import (
	"time"

	"github.com/Workiva/go-datastructures/queue"

	"github.com/taskward/taskward/sysmsg"
)

// futureMailbox backs a single-reply future: a small ring buffer that
// one caller drains. Senders never block; once the future has its
// answer the surplus is irrelevant.
type futureMailbox struct {
	buffer *queue.RingBuffer
}

// NewFuture returns a mailbox suitable for one call/reply exchange.
func NewFuture() Mailbox {
	return &futureMailbox{
		buffer: queue.NewRingBuffer(defaultFutureCap),
	}
}

func (m *futureMailbox) SetSystemHandler(SystemHandler) {}

func (m *futureMailbox) SendUserMessage(message interface{}) {
	// Offer drops the message when the buffer is full or disposed,
	// both of which mean nobody is waiting for it anymore.
	_, _ = m.buffer.Offer(message)
}

func (m *futureMailbox) SendSystemMessage(message interface{}) {
	m.SendUserMessage(message)
}

func (m *futureMailbox) Receive(handler MessageHandler) {
	for {
		msg, err := m.buffer.Get()
		if err != nil {
			handler(Disposed)
			return
		}
		if !handler(msg) {
			return
		}
	}
}

func (m *futureMailbox) ReceiveTimeout(d time.Duration, handler MessageHandler) {
	for {
		msg, err := m.buffer.Poll(d)
		switch err {
		case nil:
		case queue.ErrTimeout:
			if !handler(sysmsg.Timeout{Duration: d}) {
				return
			}
			continue
		default:
			handler(Disposed)
			return
		}
		if !handler(msg) {
			return
		}
	}
}

func (m *futureMailbox) Dispose() {
	m.buffer.Dispose()
}
