package uhid

import "fmt"

// State is the device's position in its create/start/stop/destroy lifecycle.
type State int

const (
	StateUninitialized State = iota // no create event sent yet
	StateCreated                    // create sent, kernel has not started the device
	StateActive                     // kernel sent START
	StateInactive                   // kernel sent STOP; a later START may follow
	StateDestroyed                  // destroy sent, terminal
)

func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateCreated:
		return "created"
	case StateActive:
		return "active"
	case StateInactive:
		return "inactive"
	case StateDestroyed:
		return "destroyed"
	}
	return fmt.Sprintf("state(%d)", int(s))
}

// Violation describes a lifecycle-inconsistent observation. Violations are
// diagnostics only: the kernel is the authority on what it accepts, this
// tracker never gates an operation.
type Violation struct {
	State  State
	Event  EventType
	Reason string
}

func (v *Violation) Error() string {
	return fmt.Sprintf("uhid: %s in state %s: %s", v.Event, v.State, v.Reason)
}

// Lifecycle tracks a single device across create/start/stop/open/close/
// destroy. The zero value is a device in StateUninitialized. Not safe for
// concurrent use; the event loop owns it on one goroutine.
type Lifecycle struct {
	state     State
	openCount int
}

func (l *Lifecycle) State() State { return l.state }

// OpenCount reports how many userspace consumers currently hold the device
// node open, as observed through OPEN/CLOSE events.
func (l *Lifecycle) OpenCount() int { return l.openCount }

// NoteCreateSent records a successfully written create event.
func (l *Lifecycle) NoteCreateSent() *Violation {
	if l.state != StateUninitialized {
		return &Violation{State: l.state, Event: EventCreate2, Reason: "device already created"}
	}
	l.state = StateCreated
	return nil
}

// NoteDestroySent records a destroy event. Legal from any non-terminal
// state; the device cannot be revived afterwards.
func (l *Lifecycle) NoteDestroySent() *Violation {
	if l.state == StateDestroyed {
		return &Violation{State: l.state, Event: EventDestroy, Reason: "device already destroyed"}
	}
	l.state = StateDestroyed
	return nil
}

// ObserveKernelEvent updates the lifecycle from a kernel-originated event.
// START and STOP move the active/inactive axis, OPEN and CLOSE only adjust
// the consumer count, everything else is ignored.
func (l *Lifecycle) ObserveKernelEvent(t EventType) *Violation {
	switch t {
	case EventStart:
		if l.state == StateUninitialized || l.state == StateDestroyed {
			return &Violation{State: l.state, Event: t, Reason: "start without a live device"}
		}
		l.state = StateActive
	case EventStop:
		if l.state == StateUninitialized || l.state == StateDestroyed {
			return &Violation{State: l.state, Event: t, Reason: "stop without a live device"}
		}
		l.state = StateInactive
	case EventOpen:
		l.openCount++
	case EventClose:
		if l.openCount == 0 {
			return &Violation{State: l.state, Event: t, Reason: "close without matching open"}
		}
		l.openCount--
	}
	return nil
}
