// Package locate finds the base installer tool where pipx links it and
// verifies that it actually runs before anyone relies on it.
package locate

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/2ndBillingCycle/toolboot/internal/runner"
	"github.com/charmbracelet/log"
)

// Defaults for the hererocks bridge tool.
const (
	DefaultName   = "hererocks"
	DefaultMarker = "Hererocks"
)

// ToolLocation is a verified executable. It is only produced after the
// file was found and its version probe succeeded.
type ToolLocation struct {
	Path    string // absolute path to the executable
	Dir     string // directory it was found in
	Version string // first line of the version probe output
}

// Command returns a command invoking the tool with args.
func (t *ToolLocation) Command(args ...string) runner.Command {
	return runner.Cmd(t.Path, args...)
}

// Locator resolves a tool inside a fixed install directory.
type Locator struct {
	BinDir string // install directory, see DefaultBinDir
	Name   string // executable base name
	Marker string // substring the version probe must print
	Runner runner.Executor
	Log    *log.Logger
}

// New returns a Locator for hererocks in binDir.
func New(binDir string, r runner.Executor, logger *log.Logger) *Locator {
	return &Locator{
		BinDir: binDir,
		Name:   DefaultName,
		Marker: DefaultMarker,
		Runner: r,
		Log:    logger,
	}
}

// DefaultBinDir returns the directory pipx installs executables into:
// $PIPX_BIN_DIR when set, otherwise ~/.local/bin on every platform.
func DefaultBinDir() (string, error) {
	if dir := os.Getenv("PIPX_BIN_DIR"); dir != "" {
		return dir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("determining home directory: %w", err)
	}
	return filepath.Join(home, ".local", "bin"), nil
}

// Locate returns the verified location of the tool.
//
// A missing install directory means the install mechanism itself is
// absent and is reported without probing anything. Otherwise the plain
// name is preferred over the .exe variant, and the candidate must both
// exit zero on --version and print Marker.
func (l *Locator) Locate(ctx context.Context) (*ToolLocation, error) {
	dir, err := filepath.Abs(l.BinDir)
	if err != nil {
		return nil, fmt.Errorf("resolving %s: %w", l.BinDir, err)
	}
	if info, err := os.Stat(dir); err != nil || !info.IsDir() {
		return nil, &NotFoundError{Kind: MissingDir, Name: l.Name, Path: dir, Err: err}
	}

	path, ok := l.pick(dir)
	if !ok {
		return nil, &NotFoundError{Kind: MissingExecutable, Name: l.Name, Path: path}
	}
	if l.Log != nil {
		l.Log.Debug("probing tool", "name", l.Name, "path", path)
	}

	out, err := l.Runner.Run(ctx, runner.Cmd(path, "--version"), false)
	if err != nil {
		return nil, &NotFoundError{Kind: ProbeFailed, Name: l.Name, Path: path, ExitCode: -1, Err: err}
	}
	if out.ExitCode != 0 || !strings.Contains(out.Stdout, l.Marker) {
		return nil, &NotFoundError{
			Kind:     ProbeFailed,
			Name:     l.Name,
			Path:     path,
			ExitCode: out.ExitCode,
			Stdout:   out.Stdout,
			Stderr:   out.Stderr,
		}
	}

	return &ToolLocation{Path: path, Dir: dir, Version: firstLine(out.Stdout)}, nil
}

// pick returns the first candidate that is a regular file. When none is,
// it returns the last candidate so errors name the .exe path.
func (l *Locator) pick(dir string) (string, bool) {
	var path string
	for _, name := range []string{l.Name, l.Name + ".exe"} {
		path = filepath.Join(dir, name)
		if info, err := os.Stat(path); err == nil && info.Mode().IsRegular() {
			return path, true
		}
	}
	return path, false
}

func firstLine(s string) string {
	line, _, _ := strings.Cut(strings.TrimSpace(s), "\n")
	return strings.TrimSpace(line)
}
