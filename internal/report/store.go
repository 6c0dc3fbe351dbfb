// Package report persists bootstrap run results so CI can upload them as
// artifacts and the MCP server can answer questions about past runs.
package report

import (
	"strings"
	"time"
)

// Kind identifies the type of a run.
type Kind string

const (
	// Bootstrap is a full or partial run of the bootstrap stages.
	Bootstrap Kind = "bootstrap"
	// Locate is a standalone tool location check.
	Locate Kind = "locate"
)

// Store persists and retrieves run results.
type Store interface {
	Save(result *RunResult) error
	Load(runID string) (*RunResult, error)
}

// RunResult holds the structured record of one run.
type RunResult struct {
	ID        string    `json:"id"`
	Kind      Kind      `json:"kind"`
	Started   time.Time `json:"started"`
	Workspace string    `json:"workspace,omitempty"`
	BuildRoot string    `json:"build_root,omitempty"`
	Error     string    `json:"error,omitempty"`

	Tool     *Tool     `json:"tool,omitempty"`
	Stages   []Stage   `json:"stages,omitempty"`
	Commands []Command `json:"commands,omitempty"`
}

// Tool records the verified base tool.
type Tool struct {
	Path    string `json:"path"`
	Version string `json:"version,omitempty"`
}

// Stage records the status of one bootstrap stage.
type Stage struct {
	Name   string `json:"name"`
	Status string `json:"status"` // pass, fail, skipped
	Detail string `json:"detail,omitempty"`
}

// Command records one executed command.
type Command struct {
	RunID    string `json:"run_id"`
	Stage    string `json:"stage"`
	Target   string `json:"target,omitempty"` // lua51, luajit, or empty for host commands
	Line     string `json:"line"`
	Dir      string `json:"dir"`
	ExitCode int    `json:"exit_code"`
	Stdout   string `json:"stdout,omitempty"`
	Stderr   string `json:"stderr,omitempty"`
}

// Passed reports whether every recorded stage passed.
func (r *RunResult) Passed() bool {
	if r.Error != "" {
		return false
	}
	for _, s := range r.Stages {
		if s.Status == "fail" {
			return false
		}
	}
	return true
}

// Filter returns the commands matching scope. Scope is a stage name, a
// target name, or "stage/target". An empty scope matches everything.
func (r *RunResult) Filter(scope string) []Command {
	stage, target, hasTarget := strings.Cut(scope, "/")
	var out []Command
	for _, c := range r.Commands {
		switch {
		case scope == "":
		case hasTarget:
			if c.Stage != stage || c.Target != target {
				continue
			}
		default:
			if c.Stage != scope && c.Target != scope {
				continue
			}
		}
		out = append(out, c)
	}
	return out
}
