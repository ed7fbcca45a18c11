package log

import (
	"bytes"
	"fmt"
	"io"
	"sync"
	"time"
)

// RawLogger handles raw envelope logging with optional file output.
type RawLogger interface {
	Log(toKernel bool, data []byte)
}

// rawLogger implements RawLogger with thread-safe logging.
type rawLogger struct {
	w  io.Writer
	mu sync.Mutex
}

// NewRaw creates a new RawLogger. If writer is nil, returns a no-op logger.
func NewRaw(w io.Writer) RawLogger {
	return &rawLogger{w: w}
}

// rawDumpMax bounds the hex dump per envelope. uhid envelopes are 4376
// bytes and almost entirely zero padding; the leading bytes carry the tag
// and every populated field of the small variants.
const rawDumpMax = 64

// Log emits a single-line raw envelope log with timestamp and hex dump.
// toKernel=true means userspace->kernel, false means kernel->userspace.
func (r *rawLogger) Log(toKernel bool, data []byte) {
	if len(data) == 0 {
		return
	}
	if r.w == nil {
		return
	}

	dir := "K->U"
	if toKernel {
		dir = "U->K"
	}

	n := len(data)
	if n > rawDumpMax {
		n = rawDumpMax
	}
	var hexbuf bytes.Buffer
	const hexdigits = "0123456789abcdef"
	for i, b := range data[:n] {
		if i > 0 {
			hexbuf.WriteByte(' ')
		}
		hexbuf.WriteByte(hexdigits[b>>4])
		hexbuf.WriteByte(hexdigits[b&0x0f])
	}
	if n < len(data) {
		fmt.Fprintf(&hexbuf, " .. (+%d bytes)", len(data)-n)
	}

	line := fmt.Sprintf("%s %s envelope: %d bytes, hex: %s\n",
		time.Now().Format("2006/01/02 15:04:05"),
		dir,
		len(data),
		hexbuf.String())

	r.mu.Lock()
	_, _ = r.w.Write([]byte(line))
	r.mu.Unlock()
}
