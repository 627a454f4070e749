package pid

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taskward/taskward/internal/mailbox"
	"github.com/taskward/taskward/sysmsg"
)

func newTestPID() *PID {
	return New(mailbox.NewFuture())
}

// firstMessage pulls one message off p's mailbox, or a sysmsg.Timeout
// when nothing arrives in time.
func firstMessage(p *PID) interface{} {
	var got interface{}
	p.Mailbox().ReceiveTimeout(100*time.Millisecond, func(message interface{}) bool {
		got = message
		return false
	})
	return got
}

func TestMonitorDeliversTerminationOnce(t *testing.T) {
	p := newTestPID()
	down := make(chan sysmsg.Exit, 2)
	p.Monitor(ChanSink{C: down})

	p.Kill(sysmsg.Reason{Type: sysmsg.Kill, Details: "killed"})
	p.Kill(sysmsg.Reason{Type: sysmsg.Kill, Details: "killed again"})

	exit := <-down
	assert.Equal(t, p, exit.Who)
	assert.Equal(t, sysmsg.Kill, exit.Reason.Type)
	assert.Equal(t, sysmsg.Monitored, exit.Relation)
	assert.Len(t, down, 0, "a second kill must not deliver a second notice")
	assert.False(t, p.Alive())
}

func TestMonitorDeadDeliversImmediately(t *testing.T) {
	p := newTestPID()
	p.Kill(sysmsg.Reason{Type: sysmsg.Panic, Details: "boom"})

	down := make(chan sysmsg.Exit, 1)
	p.Monitor(ChanSink{C: down})

	exit := <-down
	assert.Equal(t, sysmsg.Panic, exit.Reason.Type)
}

func TestDemonitorStopsDelivery(t *testing.T) {
	p := newTestPID()
	down := make(chan sysmsg.Exit, 1)
	sink := ChanSink{C: down}
	p.Monitor(sink)
	p.Demonitor(sink)

	p.Kill(sysmsg.Reason{Type: sysmsg.Kill})
	assert.Len(t, down, 0)
}

func TestMailboxSinkSharesReplyOrdering(t *testing.T) {
	p := newTestPID()
	observer := newTestPID()
	p.Monitor(MailboxSink{M: observer.Mailbox()})

	observer.Mailbox().SendUserMessage("reply")
	p.Kill(sysmsg.Reason{Type: sysmsg.Kill})

	assert.Equal(t, "reply", firstMessage(observer))
	exit, ok := firstMessage(observer).(sysmsg.Exit)
	require.True(t, ok)
	assert.Equal(t, sysmsg.Kill, exit.Reason.Type)
}

func TestLinkNotifiesSurvivor(t *testing.T) {
	a, b := newTestPID(), newTestPID()
	a.Link(b)

	b.Kill(sysmsg.Reason{Type: sysmsg.Panic, Details: "boom"})

	exit, ok := firstMessage(a).(sysmsg.Exit)
	require.True(t, ok, "expected a linked exit")
	assert.Equal(t, b, exit.Who)
	assert.Equal(t, sysmsg.Linked, exit.Relation)
	assert.Equal(t, sysmsg.Panic, exit.Reason.Type)
}

func TestLinkToDeadNotifiesImmediately(t *testing.T) {
	a, b := newTestPID(), newTestPID()
	b.Kill(sysmsg.Reason{Type: sysmsg.Normal})

	a.Link(b)

	exit, ok := firstMessage(a).(sysmsg.Exit)
	require.True(t, ok)
	assert.Equal(t, b, exit.Who)
	assert.Equal(t, sysmsg.Normal, exit.Reason.Type)
}

func TestUnlinkStopsNotification(t *testing.T) {
	a, b := newTestPID(), newTestPID()
	a.Link(b)
	a.Unlink(b)

	b.Kill(sysmsg.Reason{Type: sysmsg.Panic})

	_, timedOut := firstMessage(a).(sysmsg.Timeout)
	assert.True(t, timedOut, "unlinked pid must not be notified")
}

func TestStopRequestsGracefulTermination(t *testing.T) {
	p := newTestPID()
	require.False(t, p.StopRequested())

	p.Stop(nil)

	assert.True(t, p.StopRequested())
	assert.True(t, p.Alive(), "stop is a request, not a kill")
	msg := firstMessage(p)
	_, ok := msg.(sysmsg.Shutdown)
	require.True(t, ok, "expected a shutdown command, got %T", msg)
}

func TestTerminatedAfterKillIsNoop(t *testing.T) {
	p := newTestPID()
	down := make(chan sysmsg.Exit, 2)
	p.Monitor(ChanSink{C: down})

	p.Kill(sysmsg.Reason{Type: sysmsg.Kill})
	p.Terminated(sysmsg.Reason{Type: sysmsg.Normal})

	exit := <-down
	assert.Equal(t, sysmsg.Kill, exit.Reason.Type, "the first terminal reason wins")
	assert.Len(t, down, 0)
}

func TestProtectedPIDHidesLifecycle(t *testing.T) {
	p := newTestPID()
	pp := NewProtectedPID(p)

	assert.Equal(t, p.ID(), pp.ID())
	assert.Equal(t, p, ExtractPID(pp))
}
