// Package uhid implements the binary event protocol spoken over the kernel's
// uhid character device (/dev/uhid), matching <linux/uhid.h>.
//
// Every exchange with the kernel is one fixed-size envelope: a uint32 event
// type tag followed by a type-specific payload union, zero-padded to the size
// of the largest payload variant. The kernel's ABI is native byte order.
//
// Device creation and input reports use the modern UHID_CREATE2/UHID_INPUT2
// forms; the legacy UHID_CREATE carries a raw userspace pointer to the report
// descriptor and has no safe representation here.
package uhid

// EventType is the uint32 tag at the start of every envelope.
type EventType uint32

// Event type tags from <linux/uhid.h>, in kernel enum order.
const (
	EventLegacyCreate EventType = iota // unsupported, pointer-bearing ABI
	EventDestroy
	EventStart
	EventStop
	EventOpen
	EventClose
	EventOutput
	EventOutputEv // legacy, only sent to uhid_dev_flag-less devices
	EventLegacyInput
	EventGetReport
	EventGetReportReply
	EventCreate2
	EventInput2
	EventSetReport
	EventSetReportReply
)

func (t EventType) String() string {
	switch t {
	case EventLegacyCreate:
		return "LEGACY_CREATE"
	case EventDestroy:
		return "DESTROY"
	case EventStart:
		return "START"
	case EventStop:
		return "STOP"
	case EventOpen:
		return "OPEN"
	case EventClose:
		return "CLOSE"
	case EventOutput:
		return "OUTPUT"
	case EventOutputEv:
		return "OUTPUT_EV"
	case EventLegacyInput:
		return "LEGACY_INPUT"
	case EventGetReport:
		return "GET_REPORT"
	case EventGetReportReply:
		return "GET_REPORT_REPLY"
	case EventCreate2:
		return "CREATE2"
	case EventInput2:
		return "INPUT2"
	case EventSetReport:
		return "SET_REPORT"
	case EventSetReportReply:
		return "SET_REPORT_REPLY"
	}
	return "UNKNOWN"
}

// Fixed payload capacities from the kernel ABI.
const (
	NameMax       = 128  // create payload device name
	PhysMax       = 64   // create payload phys string
	UniqMax       = 64   // create payload uniq string
	DescriptorMax = 4096 // HID_MAX_DESCRIPTOR_SIZE
	DataMax       = 4096 // UHID_DATA_MAX, input/output report buffers
)

// createPayloadSize is the size of the UHID_CREATE2 payload, the largest
// union variant and therefore the payload size of every envelope.
const createPayloadSize = NameMax + PhysMax + UniqMax + 2 + 2 + 4 + 4 + 4 + 4 + DescriptorMax

// EventSize is the exact size of one envelope on the wire. Reads and writes
// on the character device transfer exactly this many bytes per event.
const EventSize = 4 + createPayloadSize

// DeviceIdentity carries the immutable identification fields of a device,
// set once in the create event.
type DeviceIdentity struct {
	Name    string // truncated to NameMax bytes, NUL-padded on the wire
	Phys    string // physical location hint, may be empty
	Uniq    string // unique identifier (e.g. serial), may be empty
	Bus     uint16 // BUS_* constant, e.g. BusUSB
	Vendor  uint32
	Product uint32
	Version uint32
	Country uint32
}

// Bus types understood by the HID core (subset of linux/input.h BUS_*).
const (
	BusPCI       uint16 = 0x01
	BusUSB       uint16 = 0x03
	BusBluetooth uint16 = 0x05
	BusVirtual   uint16 = 0x06
)

// Event is one decoded or to-be-encoded envelope. The concrete type selects
// the union variant; Decode never interprets payload bytes before validating
// the tag.
type Event interface {
	Type() EventType
}

// CreateEvent registers a new device with the kernel (UHID_CREATE2).
type CreateEvent struct {
	Identity   DeviceIdentity
	Descriptor []byte // HID report descriptor, at most DescriptorMax bytes
}

// DestroyEvent tears the device down (UHID_DESTROY). Terminal; a new device
// requires a fresh create.
type DestroyEvent struct{}

// InputEvent carries one HID input report to the kernel (UHID_INPUT2).
type InputEvent struct {
	Data []byte // report bytes, at most DataMax
}

// StartEvent is sent by the kernel once the device is registered.
type StartEvent struct {
	DevFlags uint64
}

// StopEvent is sent by the kernel when the device is stopped; a later start
// may follow.
type StopEvent struct{}

// OpenEvent signals that a userspace consumer opened the device node.
type OpenEvent struct{}

// CloseEvent signals that a userspace consumer closed the device node.
type CloseEvent struct{}

// OutputEvent carries an output report from the kernel (e.g. LED state).
type OutputEvent struct {
	Data  []byte
	RType uint8 // report type (output/feature)
}

// OutputEvEvent is the legacy raw input-event form of an output report.
type OutputEvEvent struct {
	EvType uint16
	Code   uint16
	Value  int32
}

func (CreateEvent) Type() EventType   { return EventCreate2 }
func (DestroyEvent) Type() EventType  { return EventDestroy }
func (InputEvent) Type() EventType    { return EventInput2 }
func (StartEvent) Type() EventType    { return EventStart }
func (StopEvent) Type() EventType     { return EventStop }
func (OpenEvent) Type() EventType     { return EventOpen }
func (CloseEvent) Type() EventType    { return EventClose }
func (OutputEvent) Type() EventType   { return EventOutput }
func (OutputEvEvent) Type() EventType { return EventOutputEv }
