// Package session drives one emulated device through its uhid lifecycle:
// create, kernel event handling, input reports, destroy.
package session

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/softhid/softhid/uhid"
)

// EventReadWriter is the envelope channel to the kernel. Implemented by
// transport.Device; tests substitute an in-memory fake.
type EventReadWriter interface {
	ReadEvent() (uhid.Event, error)
	WriteEvent(uhid.Event) error
}

// Session ties the transport, codec and lifecycle tracker together for a
// single device. Owned by one goroutine; the lifecycle tracker is not
// locked.
type Session struct {
	rw     EventReadWriter
	life   uhid.Lifecycle
	logger *slog.Logger
}

func New(rw EventReadWriter, logger *slog.Logger) *Session {
	return &Session{rw: rw, logger: logger}
}

// State exposes the tracked lifecycle state for diagnostics.
func (s *Session) State() uhid.State { return s.life.State() }

// Create registers the device with the kernel. A write failure here is
// fatal for the whole session: no device exists, nothing to clean up.
func (s *Session) Create(id uhid.DeviceIdentity, descriptor []byte) error {
	s.logger.Info("creating uhid device",
		"name", id.Name,
		"bus", id.Bus,
		"vendor", fmt.Sprintf("%#04x", id.Vendor),
		"product", fmt.Sprintf("%#04x", id.Product),
		"descriptor_len", len(descriptor))
	if err := s.rw.WriteEvent(uhid.CreateEvent{Identity: id, Descriptor: descriptor}); err != nil {
		return fmt.Errorf("create device: %w", err)
	}
	s.noteViolation(s.life.NoteCreateSent())
	return nil
}

// Destroy tears the device down. Best-effort: the session is ending
// regardless, so a failed write is logged and not retried.
func (s *Session) Destroy() {
	s.logger.Info("destroying uhid device")
	if err := s.rw.WriteEvent(uhid.DestroyEvent{}); err != nil {
		s.logger.Warn("failed to send destroy event", "error", err)
	}
	s.noteViolation(s.life.NoteDestroySent())
}

// SendReport frames report bytes into an input event and writes it. Write
// failures propagate; the loop treats them as fatal. State tracking never
// gates the write, the kernel decides whether to accept it.
func (s *Session) SendReport(report []byte) error {
	if st := s.life.State(); st != uhid.StateActive {
		s.logger.Debug("sending input report while not active", "state", st.String())
	}
	return s.rw.WriteEvent(uhid.InputEvent{Data: report})
}

// HandleKernelEvent reads and dispatches one event from the kernel. Unknown
// event types are logged and swallowed so the loop keeps running; transport
// failures (including hangup) are returned.
func (s *Session) HandleKernelEvent() error {
	ev, err := s.rw.ReadEvent()
	if err != nil {
		var unknown *uhid.UnknownTypeError
		if errors.As(err, &unknown) {
			s.logger.Warn("unknown event from uhid device", "type", uint32(unknown.EventType))
			return nil
		}
		return err
	}

	s.noteViolation(s.life.ObserveKernelEvent(ev.Type()))

	switch e := ev.(type) {
	case uhid.StartEvent:
		s.logger.Info("device started", "dev_flags", e.DevFlags)
	case uhid.StopEvent:
		s.logger.Info("device stopped")
	case uhid.OpenEvent:
		s.logger.Info("device opened", "open_count", s.life.OpenCount())
	case uhid.CloseEvent:
		s.logger.Info("device closed", "open_count", s.life.OpenCount())
	case uhid.OutputEvent:
		s.logger.Info("output report from device", "len", len(e.Data), "rtype", e.RType)
	case uhid.OutputEvEvent:
		s.logger.Info("output event from device", "ev_type", e.EvType, "code", e.Code, "value", e.Value)
	default:
		// Decodable but not kernel-originated; a well-behaved kernel
		// never echoes these back.
		s.logger.Warn("unexpected event from uhid device", "type", ev.Type().String())
	}
	return nil
}

func (s *Session) noteViolation(v *uhid.Violation) {
	if v != nil {
		s.logger.Debug("lifecycle violation", "violation", v.Error())
	}
}
