// Package logging builds the logger handle that is passed explicitly to
// every toolboot component. There is no package-level logger.
package logging

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/log"
)

// Prefix is prepended to every line emitted by toolboot.
const Prefix = "toolboot"

// Profile selects the defaults a logger starts from.
type Profile int

const (
	ProfileRuntime Profile = iota
	ProfileTest
)

// Settings are the user-tunable parts of the logger.
type Settings struct {
	Level     string // trace/debug, info, warn, error; empty keeps the profile default
	Timestamp bool
}

// New returns a logger writing to w.
func New(w io.Writer, profile Profile, s Settings) *log.Logger {
	opts := log.Options{
		Prefix:          Prefix,
		Level:           defaultLevel(profile),
		ReportTimestamp: s.Timestamp && profile == ProfileRuntime,
		TimeFormat:      time.TimeOnly,
	}
	if lvl, ok := parseLevel(s.Level); ok {
		opts.Level = lvl
	}
	return log.NewWithOptions(w, opts)
}

// Runtime returns the stderr logger used by the CLI.
func Runtime(s Settings) *log.Logger {
	return New(os.Stderr, ProfileRuntime, s)
}

// Discard returns a logger that drops everything.
func Discard() *log.Logger {
	return log.NewWithOptions(io.Discard, log.Options{Level: log.FatalLevel})
}

func defaultLevel(profile Profile) log.Level {
	if profile == ProfileTest {
		return log.DebugLevel
	}
	return log.InfoLevel
}

func parseLevel(raw string) (log.Level, bool) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "":
		return log.InfoLevel, false
	case "trace", "debug":
		return log.DebugLevel, true
	case "info":
		return log.InfoLevel, true
	case "warn", "warning":
		return log.WarnLevel, true
	case "error":
		return log.ErrorLevel, true
	case "off", "none", "disabled":
		return log.FatalLevel, true
	default:
		return log.InfoLevel, false
	}
}
