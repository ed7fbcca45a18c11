package mouse

import "github.com/softhid/softhid/uhid"

// Button bits in report byte 0.
const (
	BtnLeft   uint8 = 0x01
	BtnRight  uint8 = 0x02
	BtnMiddle uint8 = 0x04
)

// ReportSize is the length of one input report: buttons, dx, dy, wheel.
const ReportSize = 4

// MoveStep is the relative motion emitted per movement keypress.
const MoveStep = 20

// ReportDescriptor describes a 3-button mouse with a vertical wheel.
// Report layout: 3 button bits + 5 padding bits, then X/Y/Wheel as signed
// 8-bit relative values. BuildReport must stay bit-for-bit consistent with
// this field order.
var ReportDescriptor = []byte{
	0x05, 0x01, // Usage Page (Generic Desktop)
	0x09, 0x02, // Usage (Mouse)
	0xA1, 0x01, // Collection (Application)
	0x09, 0x01, //   Usage (Pointer)
	0xA1, 0x00, //   Collection (Physical)
	0x05, 0x09, //     Usage Page (Button)
	0x19, 0x01, //     Usage Minimum (Button 1)
	0x29, 0x03, //     Usage Maximum (Button 3)
	0x15, 0x00, //     Logical Minimum (0)
	0x25, 0x01, //     Logical Maximum (1)
	0x95, 0x03, //     Report Count (3)
	0x75, 0x01, //     Report Size (1)
	0x81, 0x02, //     Input (Data, Variable, Absolute)
	0x95, 0x01, //     Report Count (1)
	0x75, 0x05, //     Report Size (5)
	0x81, 0x01, //     Input - padding
	0x05, 0x01, //     Usage Page (Generic Desktop)
	0x09, 0x30, //     Usage (X)
	0x09, 0x31, //     Usage (Y)
	0x09, 0x38, //     Usage (Wheel)
	0x15, 0x80, //     Logical Minimum (-128)
	0x25, 0x7F, //     Logical Maximum (127)
	0x75, 0x08, //     Report Size (8)
	0x95, 0x03, //     Report Count (3)
	0x81, 0x06, //     Input (Data, Variable, Relative)
	0xC0, //   End Collection
	0xC0, // End Collection
}

// DefaultIdentity is the identity used when no overrides are configured.
var DefaultIdentity = uhid.DeviceIdentity{
	Name:    "softhid-mouse",
	Bus:     uhid.BusUSB,
	Vendor:  0x15d9,
	Product: 0x0a37,
}
