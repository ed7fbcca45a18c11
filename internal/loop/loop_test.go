package loop_test

import (
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/softhid/softhid/device/mouse"
	"github.com/softhid/softhid/internal/loop"
	"github.com/softhid/softhid/internal/session"
	"github.com/softhid/softhid/internal/transport"
	"github.com/softhid/softhid/uhid"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRW struct {
	reads         []any // uhid.Event or error, consumed in order
	writes        []uhid.Event
	failOnInput   bool
	inputAttempts int
}

func (f *fakeRW) ReadEvent() (uhid.Event, error) {
	if len(f.reads) == 0 {
		return nil, errors.New("no scripted event")
	}
	next := f.reads[0]
	f.reads = f.reads[1:]
	if err, ok := next.(error); ok {
		return nil, err
	}
	return next.(uhid.Event), nil
}

func (f *fakeRW) WriteEvent(ev uhid.Event) error {
	if _, ok := ev.(uhid.InputEvent); ok {
		f.inputAttempts++
		if f.failOnInput {
			return errors.New("EPIPE")
		}
	}
	f.writes = append(f.writes, ev)
	return nil
}

// inputReports filters the recorded writes down to input events.
func (f *fakeRW) inputReports() [][]byte {
	var out [][]byte
	for _, ev := range f.writes {
		if in, ok := ev.(uhid.InputEvent); ok {
			out = append(out, in.Data)
		}
	}
	return out
}

// chunkReader yields one scripted chunk per Read call, the way a terminal
// delivers whatever bytes are pending at each readiness.
type chunkReader struct {
	chunks []string
}

func (r *chunkReader) Read(p []byte) (int, error) {
	if len(r.chunks) == 0 {
		return 0, io.EOF
	}
	n := copy(p, r.chunks[0])
	r.chunks = r.chunks[1:]
	return n, nil
}

type scriptPoller struct {
	steps []loop.Readiness
}

func (p *scriptPoller) Wait() (loop.Readiness, error) {
	if len(p.steps) == 0 {
		return loop.Readiness{}, errors.New("poller script exhausted")
	}
	next := p.steps[0]
	p.steps = p.steps[1:]
	return next, nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newLoop(rw *fakeRW, poller loop.Poller, input io.Reader) (*loop.Loop, *mouse.InputState) {
	state := &mouse.InputState{}
	return &loop.Loop{
		Poller:  poller,
		Input:   input,
		Session: session.New(rw, testLogger()),
		State:   state,
		Logger:  testLogger(),
	}, state
}

func TestRunEndToEndUserQuit(t *testing.T) {
	rw := &fakeRW{}
	l, state := newLoop(rw, &scriptPoller{steps: []loop.Readiness{{Input: true}}}, strings.NewReader("1a1q"))
	require.NoError(t, l.Session.Create(mouse.DefaultIdentity, mouse.ReportDescriptor))

	reason, err := l.Run()
	require.NoError(t, err)
	assert.Equal(t, loop.ExitUserQuit, reason)

	// '1' toggles the button, 'a' moves left, '1' releases: one report per
	// command, with the motion delta cleared before the next command.
	assert.Equal(t, [][]byte{
		{0x01, 0x00, 0x00, 0x00},
		{0x01, 0xec, 0x00, 0x00},
		{0x00, 0x00, 0x00, 0x00},
	}, rw.inputReports())
	assert.Equal(t, mouse.InputState{}, *state)
}

func TestRunInvalidBytesAreIgnored(t *testing.T) {
	rw := &fakeRW{}
	l, _ := newLoop(rw, &scriptPoller{steps: []loop.Readiness{{Input: true}}}, strings.NewReader("zx?q"))
	require.NoError(t, l.Session.Create(mouse.DefaultIdentity, mouse.ReportDescriptor))

	reason, err := l.Run()
	require.NoError(t, err)
	assert.Equal(t, loop.ExitUserQuit, reason)
	assert.Empty(t, rw.inputReports())
}

func TestRunDispatchesKernelEvents(t *testing.T) {
	rw := &fakeRW{reads: []any{
		uhid.StartEvent{},
		uhid.StopEvent{},
	}}
	l, _ := newLoop(rw, &scriptPoller{steps: []loop.Readiness{
		{Transport: true},
		{Transport: true},
		{Input: true},
	}}, strings.NewReader("q"))
	require.NoError(t, l.Session.Create(mouse.DefaultIdentity, mouse.ReportDescriptor))

	reason, err := l.Run()
	require.NoError(t, err)
	assert.Equal(t, loop.ExitUserQuit, reason)
	assert.Equal(t, uhid.StateInactive, l.Session.State())
}

func TestRunBothSourcesInOneIteration(t *testing.T) {
	rw := &fakeRW{reads: []any{uhid.StartEvent{}}}
	l, _ := newLoop(rw, &scriptPoller{steps: []loop.Readiness{
		{Input: true, Transport: true},
		{Input: true},
	}}, &chunkReader{chunks: []string{"r", "q"}})
	require.NoError(t, l.Session.Create(mouse.DefaultIdentity, mouse.ReportDescriptor))

	reason, err := l.Run()
	require.NoError(t, err)
	assert.Equal(t, loop.ExitUserQuit, reason)
	assert.Equal(t, [][]byte{{0x00, 0x00, 0x00, 0x01}}, rw.inputReports())
	assert.Equal(t, uhid.StateActive, l.Session.State())
}

func TestRunUnknownKernelEventContinues(t *testing.T) {
	rw := &fakeRW{reads: []any{
		&uhid.UnknownTypeError{EventType: uhid.EventSetReport},
	}}
	l, _ := newLoop(rw, &scriptPoller{steps: []loop.Readiness{
		{Transport: true},
		{Input: true},
	}}, strings.NewReader("q"))

	reason, err := l.Run()
	require.NoError(t, err)
	assert.Equal(t, loop.ExitUserQuit, reason)
}

func TestRunHangups(t *testing.T) {
	type testCase struct {
		name     string
		steps    []loop.Readiness
		reads    []any
		expected loop.ExitReason
	}

	cases := []testCase{
		{
			name:     "input hangup from poll",
			steps:    []loop.Readiness{{InputHangup: true}},
			expected: loop.ExitInputHangup,
		},
		{
			name:     "transport hangup from poll",
			steps:    []loop.Readiness{{TransportHangup: true}},
			expected: loop.ExitTransportHangup,
		},
		{
			name:     "transport hangup from read",
			steps:    []loop.Readiness{{Transport: true}},
			reads:    []any{transport.ErrHangup},
			expected: loop.ExitTransportHangup,
		},
		{
			name:     "input EOF",
			steps:    []loop.Readiness{{Input: true}},
			expected: loop.ExitInputHangup,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rw := &fakeRW{reads: tc.reads}
			l, _ := newLoop(rw, &scriptPoller{steps: tc.steps}, strings.NewReader(""))

			reason, err := l.Run()
			require.NoError(t, err)
			assert.Equal(t, tc.expected, reason)
		})
	}
}

func TestRunWriteFailureIsFatalAndResetsDeltas(t *testing.T) {
	rw := &fakeRW{failOnInput: true}
	l, state := newLoop(rw, &scriptPoller{steps: []loop.Readiness{{Input: true}}}, strings.NewReader("a"))
	require.NoError(t, l.Session.Create(mouse.DefaultIdentity, mouse.ReportDescriptor))

	_, err := l.Run()
	require.Error(t, err)
	assert.Equal(t, 1, rw.inputAttempts)
	// The failed report's delta is dropped, not retried.
	assert.Equal(t, int8(0), state.DX)
}
