// Package testlog routes component logs into the test log.
package testlog

import (
	"strings"
	"testing"

	"github.com/2ndBillingCycle/toolboot/internal/logging"
	"github.com/charmbracelet/log"
)

type writer struct{ t testing.TB }

func (w writer) Write(p []byte) (int, error) {
	w.t.Helper()
	w.t.Log(strings.TrimRight(string(p), "\n"))
	return len(p), nil
}

// New returns a debug-level logger that writes through t.Log.
func New(t testing.TB) *log.Logger {
	t.Helper()
	return logging.New(writer{t: t}, logging.ProfileTest, logging.Settings{})
}
