// Package toolchain provisions the two isolated Lua runtimes under the
// build root and runs identical LuaRocks commands against both.
package toolchain

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/2ndBillingCycle/toolboot/internal/config"
	"github.com/2ndBillingCycle/toolboot/internal/runner"
)

// Target names. They double as directory names under the build root.
const (
	Lua51  = "lua51"
	LuaJIT = "luajit"
)

// Target describes one runtime variant.
type Target struct {
	Name  string   // directory name under the build root
	Root  string   // absolute environment root
	Flags []string // hererocks flags selecting interpreter and package manager
}

// LocalTool returns the path of an executable installed into the target.
// hererocks writes .bat wrappers on Windows.
func (t Target) LocalTool(name string) string {
	if runtime.GOOS == "windows" {
		name += ".bat"
	}
	return filepath.Join(t.Root, "bin", name)
}

// Environments is the build root and the targets beneath it, reference
// interpreter first. It is read-only once created.
type Environments struct {
	BuildRoot string
	Targets   []Target
}

// DefaultTargets returns the fixed, ordered target list for buildRoot.
func DefaultTargets(buildRoot string, cfg *config.Config) []Target {
	return []Target{
		{
			Name:  Lua51,
			Root:  filepath.Join(buildRoot, Lua51),
			Flags: []string{"--lua", cfg.Lua(), "--luarocks", cfg.LuaRocks(), "--patch"},
		},
		{
			Name:  LuaJIT,
			Root:  filepath.Join(buildRoot, LuaJIT),
			Flags: []string{"--luajit", cfg.LuaJIT(), "--luarocks", cfg.LuaRocks(), "--compat", cfg.Compat()},
		},
	}
}

// NewEnvironments creates the build root if it does not exist, keeping
// any existing contents, and returns the targets rooted under its
// absolute path. Relative roots resolve against workspace.
func NewEnvironments(workspace, buildDir string, cfg *config.Config) (*Environments, error) {
	root := buildDir
	if !filepath.IsAbs(root) {
		root = filepath.Join(workspace, root)
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("creating build root: %w", err)
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolving build root: %w", err)
	}
	if _, err := os.Stat(abs); err != nil {
		return nil, fmt.Errorf("resolving build root: %w", err)
	}
	return &Environments{BuildRoot: abs, Targets: DefaultTargets(abs, cfg)}, nil
}

// PairedOutcome holds one outcome per runtime variant.
type PairedOutcome struct {
	Reference *runner.Outcome // lua51
	JIT       *runner.Outcome // luajit
}

// Outcomes returns the pair in target order.
func (p PairedOutcome) Outcomes() []*runner.Outcome {
	return []*runner.Outcome{p.Reference, p.JIT}
}

// Complete reports whether both halves are populated.
func (p PairedOutcome) Complete() bool {
	return p.Reference != nil && p.JIT != nil
}

func pair(outs []*runner.Outcome) PairedOutcome {
	var p PairedOutcome
	if len(outs) > 0 {
		p.Reference = outs[0]
	}
	if len(outs) > 1 {
		p.JIT = outs[1]
	}
	return p
}
