package mailbox

import "time"

const (
	mailboxProcessing int32 = iota
	mailboxIdle
)

// defaultFutureCap bounds a reply mailbox; a future only ever holds a
// single response plus the odd late system message.
const defaultFutureCap = 8

// ErrDisposed is handed to a receive handler whose mailbox was
// disposed while it was waiting.
type ErrDisposed string

func (e ErrDisposed) Error() string { return string(e) }

// Disposed is the ErrDisposed value mailboxes deliver.
const Disposed ErrDisposed = "mailbox has been disposed"

// MessageHandler consumes one message; returning false stops the
// receive loop.
type MessageHandler func(message interface{}) (loop bool)

// SystemHandler is installed by the actor layer. It intercepts system
// messages pulled off the queue; passToUser hands the (possibly
// rewritten) message to the user's handler.
type SystemHandler interface {
	HandleSystemMessage(message interface{}) (passToUser bool, msg interface{})
}

// Mailbox decouples message delivery from the receiving task. Sends
// never fail; messages sent after Dispose are dropped.
type Mailbox interface {
	SendUserMessage(message interface{})
	SendSystemMessage(message interface{})
	Receive(handler MessageHandler)
	ReceiveTimeout(d time.Duration, handler MessageHandler)
	SetSystemHandler(handler SystemHandler)
	Dispose()
}
