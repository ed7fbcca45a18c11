// Package transport owns the uhid character device: opening the node and
// moving whole event envelopes across it. Framing and interpretation live in
// package uhid; this layer only guarantees envelope-at-a-time I/O.
package transport

import (
	"errors"
	"fmt"
	"io"
	"os"

	"golang.org/x/sys/unix"

	"github.com/softhid/softhid/internal/log"
	"github.com/softhid/softhid/uhid"
)

// DefaultPath is the well-known uhid character device node.
const DefaultPath = "/dev/uhid"

// ErrHangup reports that the kernel side closed the channel. Distinguished
// from read/write failures: it is a clean peer close, but the session is
// over either way.
var ErrHangup = errors.New("transport: hangup on uhid device")

// Device is an open uhid character device.
type Device struct {
	f      *os.File
	rawLog log.RawLogger
}

// Open opens the uhid character device at path for bidirectional event
// exchange. Every envelope crossing the device is mirrored to rawLog.
func Open(path string, rawLog log.RawLogger) (*Device, error) {
	fd, err := unix.Open(path, unix.O_RDWR|unix.O_CLOEXEC, 0)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	return &Device{f: os.NewFile(uintptr(fd), path), rawLog: rawLog}, nil
}

// Fd returns the underlying file descriptor for readiness polling.
func (d *Device) Fd() int { return int(d.f.Fd()) }

func (d *Device) Close() error { return d.f.Close() }

// WriteEvent encodes ev and writes the full envelope. A short write is an
// error: the kernel consumes events only in whole envelopes.
func (d *Device) WriteEvent(ev uhid.Event) error {
	buf, err := uhid.Encode(ev)
	if err != nil {
		return err
	}
	d.rawLog.Log(true, buf)
	n, err := d.f.Write(buf)
	if err != nil {
		return fmt.Errorf("write %s event: %w", ev.Type(), err)
	}
	if n != len(buf) {
		return fmt.Errorf("write %s event: wrote %d of %d bytes", ev.Type(), n, len(buf))
	}
	return nil
}

// ReadEvent reads and decodes one envelope. A zero-length read or EOF is a
// hangup; anything shorter than a full envelope is a framing error.
func (d *Device) ReadEvent() (uhid.Event, error) {
	buf := make([]byte, uhid.EventSize)
	n, err := d.f.Read(buf)
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, ErrHangup
		}
		return nil, fmt.Errorf("read uhid event: %w", err)
	}
	if n == 0 {
		return nil, ErrHangup
	}
	d.rawLog.Log(false, buf[:n])
	return uhid.Decode(buf[:n])
}
