package runner

import (
	"fmt"
	"strings"
)

// Outcome holds the output of a command execution. It is never mutated
// after Run returns it.
type Outcome struct {
	RunID    string  // unique identifier for this execution
	Command  Command // the command that produced this outcome
	ExitCode int     // process exit code
	Stdout   string  // captured stdout, complete
	Stderr   string  // captured stderr, complete
}

// ExecutionError is returned by Run when failure checking was requested
// and the command exited non-zero. It carries the full outcome.
type ExecutionError struct {
	Outcome *Outcome
}

func (e *ExecutionError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "command failed with exit code %d: %s", e.Outcome.ExitCode, e.Outcome.Command)
	if s := strings.TrimRight(e.Outcome.Stdout, "\n"); s != "" {
		fmt.Fprintf(&b, "\nstdout:\n%s", s)
	}
	if s := strings.TrimRight(e.Outcome.Stderr, "\n"); s != "" {
		fmt.Fprintf(&b, "\nstderr:\n%s", s)
	}
	return b.String()
}
