package mouse_test

import (
	"testing"

	"github.com/softhid/softhid/device"
	"github.com/softhid/softhid/device/mouse"

	"github.com/stretchr/testify/assert"
)

func TestBuildReport(t *testing.T) {
	type testCase struct {
		name           string
		inputState     mouse.InputState
		expectedReport []byte
	}

	cases := []testCase{
		{
			name:           "No movement, no buttons",
			inputState:     mouse.InputState{},
			expectedReport: []byte{0x00, 0x00, 0x00, 0x00},
		},
		{
			name:           "Left down",
			inputState:     mouse.InputState{Btn1: true},
			expectedReport: []byte{0x01, 0x00, 0x00, 0x00},
		},
		{
			name:           "Right down",
			inputState:     mouse.InputState{Btn2: true},
			expectedReport: []byte{0x02, 0x00, 0x00, 0x00},
		},
		{
			name:           "All buttons down",
			inputState:     mouse.InputState{Btn1: true, Btn2: true, Btn3: true},
			expectedReport: []byte{0x07, 0x00, 0x00, 0x00},
		},
		{
			name:           "Left and middle, move left 20",
			inputState:     mouse.InputState{Btn1: true, Btn3: true, DX: -20},
			expectedReport: []byte{0x05, 0xec, 0x00, 0x00},
		},
		{
			name:           "Move right 20, down 20",
			inputState:     mouse.InputState{DX: 20, DY: 20},
			expectedReport: []byte{0x00, 0x14, 0x14, 0x00},
		},
		{
			name:           "Wheel up 1",
			inputState:     mouse.InputState{Wheel: 1},
			expectedReport: []byte{0x00, 0x00, 0x00, 0x01},
		},
		{
			name:           "Wheel down 1",
			inputState:     mouse.InputState{Wheel: -1},
			expectedReport: []byte{0x00, 0x00, 0x00, 0xff},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expectedReport, tc.inputState.BuildReport())
		})
	}
}

func TestApplyCommandMapping(t *testing.T) {
	type testCase struct {
		name     string
		cmd      byte
		expected mouse.InputState
	}

	cases := []testCase{
		{name: "toggle left", cmd: '1', expected: mouse.InputState{Btn1: true}},
		{name: "toggle right", cmd: '2', expected: mouse.InputState{Btn2: true}},
		{name: "toggle middle", cmd: '3', expected: mouse.InputState{Btn3: true}},
		{name: "move left", cmd: 'a', expected: mouse.InputState{DX: -20}},
		{name: "move right", cmd: 'd', expected: mouse.InputState{DX: 20}},
		{name: "move up", cmd: 'w', expected: mouse.InputState{DY: -20}},
		{name: "move down", cmd: 's', expected: mouse.InputState{DY: 20}},
		{name: "wheel up", cmd: 'r', expected: mouse.InputState{Wheel: 1}},
		{name: "wheel down", cmd: 'f', expected: mouse.InputState{Wheel: -1}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var s mouse.InputState
			assert.Equal(t, device.ActionEmit, s.Apply(tc.cmd))
			assert.Equal(t, tc.expected, s)
		})
	}
}

func TestApplyQuitAndInvalid(t *testing.T) {
	var s mouse.InputState
	assert.Equal(t, device.ActionQuit, s.Apply('q'))
	assert.Equal(t, mouse.InputState{}, s)

	assert.Equal(t, device.ActionInvalid, s.Apply('x'))
	assert.Equal(t, device.ActionInvalid, s.Apply(0x1b))
	assert.Equal(t, mouse.InputState{}, s)
}

func TestToggleIdempotence(t *testing.T) {
	var s mouse.InputState
	for _, cmd := range []byte{'1', '2', '3'} {
		s.Apply(cmd)
	}
	assert.Equal(t, mouse.InputState{Btn1: true, Btn2: true, Btn3: true}, s)
	for _, cmd := range []byte{'1', '2', '3'} {
		s.Apply(cmd)
	}
	assert.Equal(t, mouse.InputState{}, s)
}

func TestResetDeltasKeepsButtons(t *testing.T) {
	s := mouse.InputState{Btn1: true, DX: 20, DY: -20, Wheel: 1}
	s.ResetDeltas()
	assert.Equal(t, mouse.InputState{Btn1: true}, s)
}

func TestDescriptorMatchesReportSize(t *testing.T) {
	// 3 button bits + 5 padding bits + three 8-bit axes = 4 bytes.
	var s mouse.InputState
	assert.Len(t, s.BuildReport(), mouse.ReportSize)
	assert.NotEmpty(t, mouse.ReportDescriptor)
}
