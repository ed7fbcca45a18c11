// Package device provides common interfaces for emulated HID devices.
package device

// Action is the verdict of applying one command byte to a device's input
// state.
type Action int

const (
	// ActionEmit means the state changed and a report should be written.
	ActionEmit Action = iota
	// ActionQuit ends the session.
	ActionQuit
	// ActionInvalid means the byte is not a command; report it and move on.
	ActionInvalid
)

// ReportBuilder is implemented by device input states that can encode
// themselves into a HID input report.
type ReportBuilder interface {
	// BuildReport encodes the input state into report bytes laid out
	// exactly as the device's report descriptor declares.
	BuildReport() []byte
}

// InputHandler is a device input state driven by single-byte terminal
// commands. The event loop owns one handler and calls it from a single
// goroutine.
type InputHandler interface {
	ReportBuilder

	// Apply interprets one command byte, mutating the state.
	Apply(c byte) Action
	// ResetDeltas clears transient per-report fields after an emission
	// attempt, whether or not the write succeeded.
	ResetDeltas()
}
