// Package config defines the CLI structure and configuration for softhid.
package config

import (
	"github.com/softhid/softhid/internal/cmd"
)

type Log struct {
	Level   string `help:"Log level: trace, debug, info, warn, error" default:"info" env:"SOFTHID_LOG_LEVEL"`
	File    string `help:"Log file path (default: none; logs only to console)" env:"SOFTHID_LOG_FILE"`
	RawFile string `help:"Raw envelope log file path (default: none)" env:"SOFTHID_LOG_RAW_FILE"`
}

// CLI is the root command structure for Kong CLI parsing.
type CLI struct {
	Log `embed:"" prefix:"log."`

	// Parsed manually before kong runs so candidate paths can include it;
	// declared here so kong accepts the flag.
	ConfigPath string `name:"config" help:"Configuration file path" env:"SOFTHID_CONFIG"`

	Mouse  cmd.Mouse         `cmd:"" help:"Emulate a 3-button mouse with wheel over uhid"`
	Config cmd.ConfigCommand `cmd:"" help:"Manage configuration files"`
}
