package uhid

import (
	"encoding/binary"
	"fmt"
)

// The kernel ABI is host-native byte order; uhid is not a network protocol.
var ord = binary.NativeEndian

// Payload field offsets inside the envelope (tag occupies bytes 0..4).
const (
	offCreateName    = 4
	offCreatePhys    = offCreateName + NameMax
	offCreateUniq    = offCreatePhys + PhysMax
	offCreateRdSize  = offCreateUniq + UniqMax
	offCreateBus     = offCreateRdSize + 2
	offCreateVendor  = offCreateBus + 2
	offCreateProduct = offCreateVendor + 4
	offCreateVersion = offCreateProduct + 4
	offCreateCountry = offCreateVersion + 4
	offCreateRdData  = offCreateCountry + 4

	offInputSize = 4
	offInputData = offInputSize + 2

	offOutputData  = 4
	offOutputSize  = offOutputData + DataMax
	offOutputRType = offOutputSize + 2

	offOutputEvType  = 4
	offOutputEvCode  = 6
	offOutputEvValue = 8

	offStartDevFlags = 4
)

// Encode renders an event into a freshly zeroed fixed-size envelope.
// Starting from zeroed memory is deliberate: the envelope crosses into the
// kernel, and union padding must never carry stale bytes from earlier calls.
func Encode(ev Event) ([]byte, error) {
	buf := make([]byte, EventSize)
	ord.PutUint32(buf[0:4], uint32(ev.Type()))

	switch e := ev.(type) {
	case CreateEvent:
		if len(e.Descriptor) > DescriptorMax {
			return nil, &OversizeError{Field: "report descriptor", Len: len(e.Descriptor), Max: DescriptorMax}
		}
		putFixedString(buf[offCreateName:offCreatePhys], e.Identity.Name)
		putFixedString(buf[offCreatePhys:offCreateUniq], e.Identity.Phys)
		putFixedString(buf[offCreateUniq:offCreateRdSize], e.Identity.Uniq)
		ord.PutUint16(buf[offCreateRdSize:], uint16(len(e.Descriptor)))
		ord.PutUint16(buf[offCreateBus:], e.Identity.Bus)
		ord.PutUint32(buf[offCreateVendor:], e.Identity.Vendor)
		ord.PutUint32(buf[offCreateProduct:], e.Identity.Product)
		ord.PutUint32(buf[offCreateVersion:], e.Identity.Version)
		ord.PutUint32(buf[offCreateCountry:], e.Identity.Country)
		copy(buf[offCreateRdData:], e.Descriptor)
	case DestroyEvent:
		// tag only
	case InputEvent:
		if len(e.Data) > DataMax {
			return nil, &OversizeError{Field: "input report", Len: len(e.Data), Max: DataMax}
		}
		ord.PutUint16(buf[offInputSize:], uint16(len(e.Data)))
		copy(buf[offInputData:], e.Data)
	case StartEvent:
		ord.PutUint64(buf[offStartDevFlags:], e.DevFlags)
	case StopEvent, OpenEvent, CloseEvent:
		// tag only
	case OutputEvent:
		if len(e.Data) > DataMax {
			return nil, &OversizeError{Field: "output report", Len: len(e.Data), Max: DataMax}
		}
		copy(buf[offOutputData:], e.Data)
		ord.PutUint16(buf[offOutputSize:], uint16(len(e.Data)))
		buf[offOutputRType] = e.RType
	case OutputEvEvent:
		ord.PutUint16(buf[offOutputEvType:], e.EvType)
		ord.PutUint16(buf[offOutputEvCode:], e.Code)
		ord.PutUint32(buf[offOutputEvValue:], uint32(e.Value))
	default:
		return nil, fmt.Errorf("uhid: cannot encode event type %s", ev.Type())
	}
	return buf, nil
}

// Decode parses one envelope. The buffer must hold a full envelope; anything
// shorter is a framing error, not a partial event. The tag is validated
// before any payload byte is interpreted.
func Decode(buf []byte) (Event, error) {
	if len(buf) < EventSize {
		return nil, fmt.Errorf("%w: got %d bytes, need %d", ErrShortEvent, len(buf), EventSize)
	}

	switch t := EventType(ord.Uint32(buf[0:4])); t {
	case EventCreate2:
		rdSize := int(ord.Uint16(buf[offCreateRdSize:]))
		if rdSize > DescriptorMax {
			return nil, &OversizeError{Field: "report descriptor", Len: rdSize, Max: DescriptorMax}
		}
		ev := CreateEvent{
			Identity: DeviceIdentity{
				Name:    fixedString(buf[offCreateName:offCreatePhys]),
				Phys:    fixedString(buf[offCreatePhys:offCreateUniq]),
				Uniq:    fixedString(buf[offCreateUniq:offCreateRdSize]),
				Bus:     ord.Uint16(buf[offCreateBus:]),
				Vendor:  ord.Uint32(buf[offCreateVendor:]),
				Product: ord.Uint32(buf[offCreateProduct:]),
				Version: ord.Uint32(buf[offCreateVersion:]),
				Country: ord.Uint32(buf[offCreateCountry:]),
			},
		}
		if rdSize > 0 {
			ev.Descriptor = append([]byte(nil), buf[offCreateRdData:offCreateRdData+rdSize]...)
		}
		return ev, nil
	case EventDestroy:
		return DestroyEvent{}, nil
	case EventInput2:
		size := int(ord.Uint16(buf[offInputSize:]))
		if size > DataMax {
			return nil, &OversizeError{Field: "input report", Len: size, Max: DataMax}
		}
		ev := InputEvent{}
		if size > 0 {
			ev.Data = append([]byte(nil), buf[offInputData:offInputData+size]...)
		}
		return ev, nil
	case EventStart:
		return StartEvent{DevFlags: ord.Uint64(buf[offStartDevFlags:])}, nil
	case EventStop:
		return StopEvent{}, nil
	case EventOpen:
		return OpenEvent{}, nil
	case EventClose:
		return CloseEvent{}, nil
	case EventOutput:
		size := int(ord.Uint16(buf[offOutputSize:]))
		if size > DataMax {
			return nil, &OversizeError{Field: "output report", Len: size, Max: DataMax}
		}
		ev := OutputEvent{RType: buf[offOutputRType]}
		if size > 0 {
			ev.Data = append([]byte(nil), buf[offOutputData:offOutputData+size]...)
		}
		return ev, nil
	case EventOutputEv:
		return OutputEvEvent{
			EvType: ord.Uint16(buf[offOutputEvType:]),
			Code:   ord.Uint16(buf[offOutputEvCode:]),
			Value:  int32(ord.Uint32(buf[offOutputEvValue:])),
		}, nil
	default:
		return nil, &UnknownTypeError{EventType: t}
	}
}

// putFixedString copies s into dst, truncating silently if it does not fit.
// dst is already zeroed, so shorter strings come out NUL-padded.
func putFixedString(dst []byte, s string) {
	copy(dst, s)
}

// fixedString reads a NUL-padded fixed-capacity string field.
func fixedString(b []byte) string {
	for i, c := range b {
		if c == 0 {
			return string(b[:i])
		}
	}
	return string(b)
}
