// Package runner executes structured commands through an embedded shell
// interpreter and captures their complete output.
package runner

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"mvdan.cc/sh/v3/expand"
	"mvdan.cc/sh/v3/interp"
	"mvdan.cc/sh/v3/syntax"
)

// Executor runs a command and returns its outcome. When check is true a
// non-zero exit is reported as an *ExecutionError alongside the outcome.
// Implemented by *Runner; tests substitute fakes.
type Executor interface {
	Run(ctx context.Context, cmd Command, check bool) (*Outcome, error)
}

// Runner executes commands with the mvdan.cc/sh interpreter. Every call
// blocks until the command exits.
type Runner struct {
	// Workspace anchors relative Command.Dir values. Empty means the
	// current working directory.
	Workspace string
	Log       *log.Logger
}

// New returns a Runner that logs to logger.
func New(workspace string, logger *log.Logger) *Runner {
	return &Runner{Workspace: workspace, Log: logger}
}

// Run executes cmd. The rendered command line is logged before execution.
func (r *Runner) Run(ctx context.Context, cmd Command, check bool) (*Outcome, error) {
	if cmd.Program == "" {
		return nil, fmt.Errorf("empty command")
	}

	line, err := cmd.quote()
	if err != nil {
		return nil, fmt.Errorf("quoting %s: %w", cmd.Program, err)
	}
	if r.Log != nil {
		r.Log.Info(line)
	}

	dir, err := r.resolveDir(cmd.Dir)
	if err != nil {
		return nil, err
	}

	prog, err := syntax.NewParser().Parse(strings.NewReader(line), "")
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", line, err)
	}

	var stdout, stderr bytes.Buffer
	sh, err := interp.New(
		interp.Dir(dir),
		interp.Env(expand.ListEnviron(os.Environ()...)),
		interp.StdIO(nil, &stdout, &stderr),
	)
	if err != nil {
		return nil, fmt.Errorf("creating interpreter for %s: %w", cmd.Program, err)
	}

	exitCode := 0
	if runErr := sh.Run(ctx, prog); runErr != nil {
		var status interp.ExitStatus
		if !errors.As(runErr, &status) {
			return nil, fmt.Errorf("executing %s: %w", cmd.Program, runErr)
		}
		exitCode = int(status)
	}

	out := &Outcome{
		RunID:    uuid.New().String(),
		Command:  cmd.In(dir),
		ExitCode: exitCode,
		Stdout:   stdout.String(),
		Stderr:   stderr.String(),
	}
	if r.Log != nil {
		r.Log.Debug("command finished", "exit", exitCode, "stdout", out.Stdout, "stderr", out.Stderr)
	}

	if check && exitCode != 0 {
		return out, &ExecutionError{Outcome: out}
	}
	return out, nil
}

// resolveDir returns the absolute directory a command runs in. An empty
// dir is read from the process at call time so scoped directory changes
// take effect.
func (r *Runner) resolveDir(dir string) (string, error) {
	if dir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("determining working directory: %w", err)
		}
		return wd, nil
	}
	if filepath.IsAbs(dir) {
		return filepath.Clean(dir), nil
	}
	base := r.Workspace
	if base == "" {
		wd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("determining working directory: %w", err)
		}
		base = wd
	}
	return filepath.Join(base, dir), nil
}
