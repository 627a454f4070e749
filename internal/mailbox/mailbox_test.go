package mailbox

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskward/taskward/sysmsg"
)

func TestMPSCKeepsArrivalOrder(t *testing.T) {
	m := NewMPSC()
	defer m.Dispose()

	const n = 200
	for i := 0; i < n; i++ {
		m.SendUserMessage(i)
	}

	var got []int
	done := make(chan struct{})
	go func() {
		defer close(done)
		m.Receive(func(message interface{}) bool {
			got = append(got, message.(int))
			return len(got) < n
		})
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("receive did not drain the mailbox")
	}
	require.Len(t, got, n)
	for i, v := range got {
		require.Equal(t, i, v)
	}
}

func TestMPSCConcurrentSendersAllDelivered(t *testing.T) {
	m := NewMPSC()
	defer m.Dispose()

	const senders, perSender = 8, 50
	for s := 0; s < senders; s++ {
		go func(s int) {
			for i := 0; i < perSender; i++ {
				m.SendUserMessage(s)
			}
		}(s)
	}

	count := 0
	done := make(chan struct{})
	go func() {
		defer close(done)
		m.Receive(func(interface{}) bool {
			count++
			return count < senders*perSender
		})
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatalf("only %d of %d messages delivered", count, senders*perSender)
	}
}

type swallowExits struct {
	swallowed int
}

func (h *swallowExits) HandleSystemMessage(message interface{}) (bool, interface{}) {
	if _, isExit := message.(sysmsg.Exit); isExit {
		h.swallowed++
		return false, nil
	}
	return true, message
}

func TestMPSCSystemHandlerIntercepts(t *testing.T) {
	m := NewMPSC()
	defer m.Dispose()
	handler := &swallowExits{}
	m.SetSystemHandler(handler)

	m.SendSystemMessage(sysmsg.Exit{Reason: sysmsg.Reason{Type: sysmsg.Panic}})
	m.SendUserMessage("hello")

	var got interface{}
	m.Receive(func(message interface{}) bool {
		got = message
		return false
	})

	assert.Equal(t, "hello", got)
	assert.Equal(t, 1, handler.swallowed)
}

func TestMPSCReceiveTimeout(t *testing.T) {
	m := NewMPSC()
	defer m.Dispose()

	var got interface{}
	start := time.Now()
	m.ReceiveTimeout(20*time.Millisecond, func(message interface{}) bool {
		got = message
		return false
	})

	timeout, ok := got.(sysmsg.Timeout)
	require.True(t, ok, "expected a timeout, got %T", got)
	assert.Equal(t, 20*time.Millisecond, timeout.Duration)
	assert.GreaterOrEqual(t, time.Since(start), 20*time.Millisecond)
}

func TestMPSCDisposeUnblocksReceive(t *testing.T) {
	m := NewMPSC()

	done := make(chan struct{})
	go func() {
		defer close(done)
		m.Receive(func(interface{}) bool { return true })
	}()

	m.Dispose()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("receive did not return after dispose")
	}

	// sends to a disposed mailbox are dropped, not panics
	m.SendUserMessage("late")
	m.Dispose()
}

func TestFutureMailboxKeepsArrivalOrder(t *testing.T) {
	m := NewFuture()
	defer m.Dispose()

	m.SendUserMessage("reply")
	m.SendSystemMessage(sysmsg.Exit{Reason: sysmsg.Reason{Type: sysmsg.Normal}})

	var got interface{}
	m.Receive(func(message interface{}) bool {
		got = message
		return false
	})
	assert.Equal(t, "reply", got)
}

func TestFutureMailboxReceiveTimeout(t *testing.T) {
	m := NewFuture()
	defer m.Dispose()

	var got interface{}
	m.ReceiveTimeout(20*time.Millisecond, func(message interface{}) bool {
		got = message
		return false
	})
	_, ok := got.(sysmsg.Timeout)
	assert.True(t, ok, "expected a timeout, got %T", got)
}

func TestFutureMailboxDisposedDeliversError(t *testing.T) {
	m := NewFuture()
	m.Dispose()

	var got interface{}
	m.Receive(func(message interface{}) bool {
		got = message
		return false
	})
	assert.Equal(t, Disposed, got)
}
