// Package mouse implements a 3-button HID mouse with wheel, driven by
// single-byte terminal commands.
package mouse

import "github.com/softhid/softhid/device"

// InputState is the mouse state used to build a report. Button flags persist
// until toggled again; DX/DY/Wheel are single-report relative deltas and are
// cleared after every emit attempt.
type InputState struct {
	Btn1, Btn2, Btn3 bool
	// Relative deltas, descriptor logical range [-128,127]
	DX, DY, Wheel int8
}

// BuildReport encodes the InputState into the 4-byte HID mouse report.
//
// Report layout (4 bytes):
//
//	Byte 0: Button bitfield (bit 0=Left, 1=Right, 2=Middle, bits 3-7=padding)
//	Byte 1: DX (int8, relative)
//	Byte 2: DY (int8, relative)
//	Byte 3: Wheel (int8, relative)
func (s *InputState) BuildReport() []byte {
	b := make([]byte, ReportSize)
	if s.Btn1 {
		b[0] |= BtnLeft
	}
	if s.Btn2 {
		b[0] |= BtnRight
	}
	if s.Btn3 {
		b[0] |= BtnMiddle
	}
	b[1] = byte(s.DX)
	b[2] = byte(s.DY)
	b[3] = byte(s.Wheel)
	return b
}

// ResetDeltas clears the transient motion fields. Called after every report
// emission attempt, whether or not the write succeeded: deltas are one-shot
// and a failed report's motion is dropped, not retried.
func (s *InputState) ResetDeltas() {
	s.DX = 0
	s.DY = 0
	s.Wheel = 0
}

// Apply interprets one command byte from the terminal:
//
//	1/2/3: toggle left/right/middle button
//	a/d:   move left/right     w/s: move up/down
//	r/f:   wheel up/down       q:   quit
func (s *InputState) Apply(c byte) device.Action {
	switch c {
	case '1':
		s.Btn1 = !s.Btn1
	case '2':
		s.Btn2 = !s.Btn2
	case '3':
		s.Btn3 = !s.Btn3
	case 'a':
		s.DX = -MoveStep
	case 'd':
		s.DX = MoveStep
	case 'w':
		s.DY = -MoveStep
	case 's':
		s.DY = MoveStep
	case 'r':
		s.Wheel = 1
	case 'f':
		s.Wheel = -1
	case 'q':
		return device.ActionQuit
	default:
		return device.ActionInvalid
	}
	return device.ActionEmit
}
