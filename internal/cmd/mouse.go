// Package cmd holds the kong subcommand implementations.
package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"

	"golang.org/x/term"

	"github.com/softhid/softhid/device/mouse"
	"github.com/softhid/softhid/internal/log"
	"github.com/softhid/softhid/internal/loop"
	"github.com/softhid/softhid/internal/session"
	"github.com/softhid/softhid/internal/transport"
	"github.com/softhid/softhid/uhid"
)

// Mouse runs an interactive virtual mouse session over uhid.
type Mouse struct {
	Path    string `help:"uhid character device path" default:"/dev/uhid" env:"SOFTHID_UHID_PATH"`
	Name    string `help:"HID device name reported to the kernel" default:"softhid-mouse" env:"SOFTHID_DEVICE_NAME"`
	Vendor  string `help:"Vendor ID (decimal or 0x-prefixed hex)" default:"0x15d9" env:"SOFTHID_VENDOR_ID"`
	Product string `help:"Product ID (decimal or 0x-prefixed hex)" default:"0x0a37" env:"SOFTHID_PRODUCT_ID"`
}

// Run is called by Kong when the mouse command is executed.
func (m *Mouse) Run(logger *slog.Logger, rawLogger log.RawLogger) error {
	identity, err := m.identity()
	if err != nil {
		return err
	}

	// Raw mode so single keypresses arrive without line buffering. Stdin
	// not being a terminal is survivable (e.g. piped command streams),
	// matching the tty-setup-is-optional behavior of the device itself.
	stdinFd := int(os.Stdin.Fd())
	if term.IsTerminal(stdinFd) {
		oldState, err := term.MakeRaw(stdinFd)
		if err != nil {
			logger.Warn("cannot set terminal raw mode", "error", err)
		} else {
			defer func() { _ = term.Restore(stdinFd, oldState) }()
		}
	} else {
		logger.Warn("stdin is not a terminal, running without raw mode")
	}

	logger.Info("opening uhid device", "path", m.Path)
	dev, err := transport.Open(m.Path, rawLogger)
	if err != nil {
		return err
	}
	defer dev.Close()

	sess := session.New(dev, logger)
	if err := sess.Create(identity, mouse.ReportDescriptor); err != nil {
		return err
	}
	// Best-effort teardown regardless of how the loop ends.
	defer sess.Destroy()

	l := &loop.Loop{
		Poller:  loop.NewFDPoller(stdinFd, dev.Fd()),
		Input:   os.Stdin,
		Session: sess,
		State:   &mouse.InputState{},
		Logger:  logger,
	}

	logger.Info("press 'q' to quit, 1/2/3 toggle buttons, a/d/w/s move, r/f wheel")
	reason, err := l.Run()
	if err != nil {
		return err
	}
	logger.Info("session ended", "reason", reason.String())
	if reason != loop.ExitUserQuit {
		return fmt.Errorf("session ended: %s", reason)
	}
	return nil
}

func (m *Mouse) identity() (uhid.DeviceIdentity, error) {
	id := mouse.DefaultIdentity
	id.Name = m.Name
	vendor, err := strconv.ParseUint(m.Vendor, 0, 32)
	if err != nil {
		return id, fmt.Errorf("invalid vendor id %q: %w", m.Vendor, err)
	}
	product, err := strconv.ParseUint(m.Product, 0, 32)
	if err != nil {
		return id, fmt.Errorf("invalid product id %q: %w", m.Product, err)
	}
	id.Vendor = uint32(vendor)
	id.Product = uint32(product)
	return id, nil
}
