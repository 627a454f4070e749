package actor

import (
	"github.com/taskward/taskward/internal/pid"
)

// The name registry is itself an actor, so registration observes the
// same ordering guarantees as every other message exchange.

var registryPID *pid.ProtectedPID

type registryMap map[string]*pid.ProtectedPID

type cmdRegister struct {
	name string
	pid  *pid.ProtectedPID
}

type cmdUnregister struct {
	name string
}

type cmdGet struct {
	name   string
	sender *pid.ProtectedPID
}

func init() {
	registryPID = Spawn(registry)
}

// Register binds a name to an actor. A later Register for the same
// name replaces the binding.
func Register(name string, ppid *pid.ProtectedPID) {
	Send(registryPID, cmdRegister{name: name, pid: ppid})
}

// Unregister removes a name binding, if present.
func Unregister(name string) {
	Send(registryPID, cmdUnregister{name: name})
}

// WhereIs resolves a registered name; nil when unknown.
func WhereIs(name string) *pid.ProtectedPID {
	future := NewFuture()
	future.Send(registryPID, cmdGet{name: name, sender: future.Self()})
	result, err := future.Recv()
	if err != nil {
		return nil
	}
	ppid, _ := result.(*pid.ProtectedPID)
	return ppid
}

func registry(act *Actor) {
	repo := registryMap{}

	act.Receive(func(message interface{}) (loop bool) {
		switch cmd := message.(type) {
		case cmdRegister:
			repo[cmd.name] = cmd.pid
		case cmdUnregister:
			delete(repo, cmd.name)
		case cmdGet:
			Send(cmd.sender, repo[cmd.name])
		}
		return true
	})
}
