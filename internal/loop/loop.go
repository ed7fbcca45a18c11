// Package loop runs the duplex event loop at the heart of a session: a
// single-threaded, blocking multiplex over terminal input and the uhid
// device, dispatching each ready source per iteration.
package loop

import (
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/softhid/softhid/device"
	"github.com/softhid/softhid/internal/session"
	"github.com/softhid/softhid/internal/transport"
)

// Readiness reports the outcome of one multiplexed wait.
type Readiness struct {
	Input           bool // terminal bytes available
	Transport       bool // uhid event available
	InputHangup     bool
	TransportHangup bool
}

// Poller blocks until at least one source is ready. Wait never times out;
// the loop waits indefinitely for the next input byte or device event.
type Poller interface {
	Wait() (Readiness, error)
}

// ExitReason says why Run returned without an error.
type ExitReason int

const (
	ExitUserQuit ExitReason = iota
	ExitInputHangup
	ExitTransportHangup
)

func (r ExitReason) String() string {
	switch r {
	case ExitUserQuit:
		return "user quit"
	case ExitInputHangup:
		return "hangup on input"
	case ExitTransportHangup:
		return "hangup on uhid device"
	}
	return fmt.Sprintf("exit(%d)", int(r))
}

// Loop multiplexes the two event sources of a session. Everything runs on
// the caller's goroutine: input handling, report emission and kernel event
// dispatch are serialized, so every emitted report sees a consistent
// InputState.
type Loop struct {
	Poller  Poller
	Input   io.Reader
	Session *session.Session
	State   device.InputHandler
	Logger  *slog.Logger
}

// Run blocks until the session ends. A nil error means an orderly exit for
// the returned reason; a non-nil error is an unrecoverable I/O failure.
// Either way the caller still owes the device a best-effort destroy.
func (l *Loop) Run() (ExitReason, error) {
	for {
		r, err := l.Poller.Wait()
		if err != nil {
			return 0, fmt.Errorf("wait for events: %w", err)
		}
		if r.InputHangup {
			l.Logger.Info("received hangup on input")
			return ExitInputHangup, nil
		}
		if r.TransportHangup {
			l.Logger.Info("received hangup on uhid device")
			return ExitTransportHangup, nil
		}

		// Both sources may be serviced within one iteration.
		if r.Input {
			quit, err := l.handleInput()
			if err != nil {
				if errors.Is(err, io.EOF) {
					l.Logger.Info("input closed")
					return ExitInputHangup, nil
				}
				return 0, err
			}
			if quit {
				return ExitUserQuit, nil
			}
		}
		if r.Transport {
			if err := l.Session.HandleKernelEvent(); err != nil {
				if errors.Is(err, transport.ErrHangup) {
					l.Logger.Info("uhid device closed")
					return ExitTransportHangup, nil
				}
				return 0, err
			}
		}
	}
}

// handleInput drains available command bytes and services each in order.
// Every button/motion/wheel command emits one report immediately; transient
// deltas are cleared after each emission attempt, successful or not.
func (l *Loop) handleInput() (quit bool, err error) {
	var buf [128]byte
	n, err := l.Input.Read(buf[:])
	if err != nil {
		return false, err
	}
	if n == 0 {
		return false, io.EOF
	}

	for _, c := range buf[:n] {
		switch l.State.Apply(c) {
		case device.ActionQuit:
			return true, nil
		case device.ActionInvalid:
			l.Logger.Warn("invalid input", "char", string(c))
		case device.ActionEmit:
			report := l.State.BuildReport()
			err := l.Session.SendReport(report)
			l.State.ResetDeltas()
			if err != nil {
				return false, fmt.Errorf("send input report: %w", err)
			}
		}
	}
	return false, nil
}
