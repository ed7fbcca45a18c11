package uhid

import (
	"errors"
	"fmt"
)

// ErrShortEvent reports a buffer smaller than the fixed envelope size. A
// short read on the transport is a broken channel, never a partial event.
var ErrShortEvent = errors.New("uhid: short event envelope")

// UnknownTypeError reports an envelope whose type tag is not one of the
// variants this codec handles. Recoverable: callers log it and keep reading.
type UnknownTypeError struct {
	EventType EventType
}

func (e *UnknownTypeError) Error() string {
	return fmt.Sprintf("uhid: unknown event type %d", uint32(e.EventType))
}

// OversizeError reports a payload field exceeding its fixed wire capacity.
type OversizeError struct {
	Field string
	Len   int
	Max   int
}

func (e *OversizeError) Error() string {
	return fmt.Sprintf("uhid: %s length %d exceeds capacity %d", e.Field, e.Len, e.Max)
}
