package actor

import (
	"github.com/taskward/taskward/sysmsg"
)

// systemHandler runs on the mailbox receive path and decides which
// system messages reach the user's handler. A non-trapping actor dies
// here, by panicking into handleTermination, when a linked peer
// terminates abnormally or a stop command arrives.
type systemHandler struct {
	actor *Actor
}

func (h *systemHandler) HandleSystemMessage(message interface{}) (bool, interface{}) {
	switch msg := message.(type) {
	case sysmsg.Exit:
		if msg.Relation == sysmsg.Monitored || h.actor.trapExited() {
			return true, msg
		}
		if msg.Reason.Classify() != sysmsg.ClassNormal {
			// exit propagation: adopt the dead peer's reason
			panic(sysmsg.Exit{
				Who:      h.actor.pid,
				Parent:   msg.Who,
				Reason:   msg.Reason,
				Relation: sysmsg.Linked,
			})
		}
		return false, nil
	case sysmsg.Shutdown:
		if h.actor.trapExited() {
			return true, msg
		}
		panic(msg)
	default:
		return true, msg
	}
}
