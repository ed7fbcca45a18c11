package loop

import (
	"errors"
	"fmt"

	"golang.org/x/sys/unix"
)

// FDPoller multiplexes the two session file descriptors with poll(2).
type FDPoller struct {
	inputFd     int
	transportFd int
}

func NewFDPoller(inputFd, transportFd int) *FDPoller {
	return &FDPoller{inputFd: inputFd, transportFd: transportFd}
}

// Wait blocks indefinitely until a descriptor is readable or hung up.
// Interrupted waits are retried; both sources can come back ready at once.
func (p *FDPoller) Wait() (Readiness, error) {
	fds := []unix.PollFd{
		{Fd: int32(p.inputFd), Events: unix.POLLIN},
		{Fd: int32(p.transportFd), Events: unix.POLLIN},
	}
	for {
		_, err := unix.Poll(fds, -1)
		if err != nil {
			if errors.Is(err, unix.EINTR) {
				continue
			}
			return Readiness{}, fmt.Errorf("poll: %w", err)
		}
		break
	}
	return Readiness{
		Input:           fds[0].Revents&unix.POLLIN != 0,
		Transport:       fds[1].Revents&unix.POLLIN != 0,
		InputHangup:     fds[0].Revents&unix.POLLHUP != 0,
		TransportHangup: fds[1].Revents&unix.POLLHUP != 0,
	}, nil
}
