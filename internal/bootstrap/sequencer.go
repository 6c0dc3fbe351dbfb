// Package bootstrap sequences the toolchain bootstrap: host precondition
// check, base tool install, provisioning of both Lua runtimes, and
// dependency installation. Each stage runs only if the previous one
// succeeded; there are no retries and no rollback.
package bootstrap

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/2ndBillingCycle/toolboot/internal/config"
	"github.com/2ndBillingCycle/toolboot/internal/locate"
	"github.com/2ndBillingCycle/toolboot/internal/logging"
	"github.com/2ndBillingCycle/toolboot/internal/report"
	"github.com/2ndBillingCycle/toolboot/internal/runner"
	"github.com/2ndBillingCycle/toolboot/internal/toolchain"
	"github.com/charmbracelet/log"
	"github.com/google/uuid"
)

// Stage names, in execution order.
const (
	StagePrecondition = "precondition"
	StageBaseTool     = "base-tool"
	StageProvision    = "provision"
	StageDependencies = "dependencies"
)

// Stages lists every stage in the order it runs.
var Stages = []string{StagePrecondition, StageBaseTool, StageProvision, StageDependencies}

// Sequencer holds the shared dependencies of a bootstrap run.
type Sequencer struct {
	Config    *config.Config
	Runner    runner.Executor
	Workspace string // build_dir is resolved against this directory
	BinDir    string // overrides config and platform default when set
	Log       *log.Logger
}

// Result holds the full outcome of a bootstrap run.
type Result struct {
	RunResult *report.RunResult
	Stages    []StageResult
	FailedIdx int // -1 if no stage failed
	Env       *toolchain.Environments
	Tool      *locate.ToolLocation
	Packages  []PackageResult
}

// StageResult holds the outcome of a single stage.
type StageResult struct {
	Name   string
	Status string // pass, fail, skipped
	Detail string
}

// PackageResult pairs a dependency with its per-target outcomes.
type PackageResult struct {
	Name    string
	Outcome toolchain.PairedOutcome
}

// Run executes the selected stages in canonical order and stops at the
// first failure. The returned Result is populated even when err is not nil.
func (s *Sequencer) Run(ctx context.Context) (*Result, error) {
	selected, err := selectStages(s.Config.Stages())
	if err != nil {
		return nil, err
	}

	p := s.newPass(report.Bootstrap)
	res := &Result{RunResult: p.rr, FailedIdx: -1}
	res.Stages = make([]StageResult, len(Stages))
	for i, name := range Stages {
		res.Stages[i] = StageResult{Name: name, Status: "skipped"}
		if !selected[name] {
			res.Stages[i].Detail = "not selected"
		}
	}

	var runErr error
	for i, name := range Stages {
		if !selected[name] {
			continue
		}
		p.stage = name
		p.log.Info("stage", "name", name)

		switch name {
		case StagePrecondition:
			runErr = p.checkPython(ctx)
		case StageBaseTool:
			runErr = p.installBaseTool(ctx)
		case StageProvision:
			runErr = p.provision(ctx)
		case StageDependencies:
			res.Packages, runErr = p.installDependencies(ctx)
		}

		if runErr != nil {
			res.Stages[i] = StageResult{Name: name, Status: "fail", Detail: runErr.Error()}
			res.FailedIdx = i
			p.rr.Error = runErr.Error()
			break
		}
		res.Stages[i].Status = "pass"
	}

	for _, st := range res.Stages {
		p.rr.Stages = append(p.rr.Stages, report.Stage(st))
	}
	res.Env = p.env
	res.Tool = p.tool
	if p.env != nil {
		p.rr.BuildRoot = p.env.BuildRoot
	}
	return res, runErr
}

// Locate runs only the tool locator.
func (s *Sequencer) Locate(ctx context.Context) (*locate.ToolLocation, *report.RunResult, error) {
	p := s.newPass(report.Locate)
	p.stage = "locate"
	err := p.locateTool(ctx)
	if err != nil {
		p.rr.Error = err.Error()
	}
	return p.tool, p.rr, err
}

// BinDirectory returns the directory the base tool is expected in.
func (s *Sequencer) BinDirectory() (string, error) {
	if s.BinDir != "" {
		return s.BinDir, nil
	}
	if dir := s.Config.BinDir(); dir != "" {
		return dir, nil
	}
	return locate.DefaultBinDir()
}

func selectStages(names []string) (map[string]bool, error) {
	known := make(map[string]bool, len(Stages))
	for _, n := range Stages {
		known[n] = true
	}
	selected := make(map[string]bool, len(names))
	for _, n := range names {
		n = strings.TrimSpace(n)
		if !known[n] {
			return nil, fmt.Errorf("unknown stage: %s", n)
		}
		selected[n] = true
	}
	return selected, nil
}

// pass is the state of one run. It also wraps the runner so every
// executed command is recorded against the current stage and target.
type pass struct {
	s     *Sequencer
	cfg   *config.Config
	log   *log.Logger
	rr    *report.RunResult
	stage string
	env   *toolchain.Environments
	tool  *locate.ToolLocation
}

func (s *Sequencer) newPass(kind report.Kind) *pass {
	logger := s.Log
	if logger == nil {
		logger = logging.Discard()
	}
	return &pass{
		s:   s,
		cfg: s.Config,
		log: logger,
		rr: &report.RunResult{
			ID:        uuid.New().String(),
			Kind:      kind,
			Started:   time.Now().UTC(),
			Workspace: s.Workspace,
		},
	}
}

// Run implements runner.Executor.
func (p *pass) Run(ctx context.Context, cmd runner.Command, check bool) (*runner.Outcome, error) {
	out, err := p.s.Runner.Run(ctx, cmd, check)
	if out != nil {
		p.rr.Commands = append(p.rr.Commands, report.Command{
			RunID:    out.RunID,
			Stage:    p.stage,
			Target:   p.targetOf(cmd),
			Line:     out.Command.String(),
			Dir:      out.Command.Dir,
			ExitCode: out.ExitCode,
			Stdout:   out.Stdout,
			Stderr:   out.Stderr,
		})
	}
	return out, err
}

func (p *pass) targetOf(cmd runner.Command) string {
	if p.env == nil {
		return ""
	}
	for _, t := range p.env.Targets {
		if strings.HasPrefix(cmd.Program, t.Root+string(filepath.Separator)) {
			return t.Name
		}
		if n := len(cmd.Args); n > 0 && cmd.Args[n-1] == t.Root {
			return t.Name
		}
	}
	return ""
}

func (p *pass) installBaseTool(ctx context.Context) error {
	python := p.cfg.Python()

	p.log.Info("Installing pipx...")
	if _, err := p.Run(ctx, runner.Cmd(python, "-m", "pip", "install", "--user", "-U", "pipx"), true); err != nil {
		return fmt.Errorf("installing pipx: %w", err)
	}
	if _, err := p.Run(ctx, runner.Cmd(python, "-m", "pipx", "ensurepath"), true); err != nil {
		return fmt.Errorf("configuring pipx path: %w", err)
	}

	p.log.Info("Installing hererocks...")
	if _, err := p.Run(ctx, runner.Cmd(python, "-m", "pipx", "install", locate.DefaultName), true); err != nil {
		return fmt.Errorf("installing %s: %w", locate.DefaultName, err)
	}
	return nil
}

func (p *pass) locateTool(ctx context.Context) error {
	dir, err := p.s.BinDirectory()
	if err != nil {
		return err
	}
	p.log.Info("Checking hererocks is installed")
	tool, err := locate.New(dir, p, p.log).Locate(ctx)
	if err != nil {
		return err
	}
	p.tool = tool
	p.rr.Tool = &report.Tool{Path: tool.Path, Version: tool.Version}
	return nil
}

func (p *pass) ensureEnv() error {
	if p.env != nil {
		return nil
	}
	env, err := toolchain.NewEnvironments(p.s.Workspace, p.cfg.BuildDir(), p.cfg)
	if err != nil {
		return err
	}
	p.env = env
	return nil
}

func (p *pass) provision(ctx context.Context) error {
	if err := p.ensureEnv(); err != nil {
		return err
	}
	if err := p.locateTool(ctx); err != nil {
		return err
	}
	prov := &toolchain.Provisioner{Runner: p, Log: p.log}
	_, err := prov.Provision(ctx, p.tool, p.env)
	return err
}

func (p *pass) installDependencies(ctx context.Context) ([]PackageResult, error) {
	if err := p.ensureEnv(); err != nil {
		return nil, err
	}
	inst := &toolchain.Installer{Env: p.env, Runner: p, Log: p.log}

	p.log.Info("Installing dependencies...")
	var results []PackageResult
	for _, pkg := range p.cfg.Packages() {
		pair, err := inst.Install(ctx, []string{"install", pkg}, true)
		results = append(results, PackageResult{Name: pkg, Outcome: pair})
		if err != nil {
			return results, fmt.Errorf("installing %s: %w", pkg, err)
		}
	}
	return results, nil
}
