package locate

import (
	"fmt"
	"strings"
)

// Kind classifies why a tool could not be located.
type Kind string

const (
	// MissingDir: the install directory does not exist, so the install
	// mechanism is missing or misconfigured.
	MissingDir Kind = "missing-dir"
	// MissingExecutable: the directory exists but the tool was never installed.
	MissingExecutable Kind = "missing-executable"
	// ProbeFailed: the executable exists but is broken or not the right tool.
	ProbeFailed Kind = "probe-failed"
)

// NotFoundError is returned when a tool is missing or fails verification.
// It carries the expected path and any captured probe output.
type NotFoundError struct {
	Kind     Kind
	Name     string
	Path     string
	ExitCode int
	Stdout   string
	Stderr   string
	Err      error
}

func (e *NotFoundError) Error() string {
	var b strings.Builder
	switch e.Kind {
	case MissingDir:
		fmt.Fprintf(&b, "could not find the directory where pipx installs binaries\nexpected %q", e.Path)
	case MissingExecutable:
		fmt.Fprintf(&b, "%s installed but not found\nexpected to be at %q", e.Name, e.Path)
	default:
		fmt.Fprintf(&b, "error running '%s --version'\nused %s at %q", e.Name, e.Name, e.Path)
		if e.Err != nil {
			fmt.Fprintf(&b, ": %v", e.Err)
		} else {
			fmt.Fprintf(&b, " (exit code %d)", e.ExitCode)
		}
		fmt.Fprintf(&b, "\ngot:\n%s\n%s", strings.TrimRight(e.Stdout, "\n"), strings.TrimRight(e.Stderr, "\n"))
	}
	return b.String()
}

func (e *NotFoundError) Unwrap() error {
	return e.Err
}
