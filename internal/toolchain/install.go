package toolchain

import (
	"context"
	"fmt"

	"github.com/2ndBillingCycle/toolboot/internal/dirscope"
	"github.com/2ndBillingCycle/toolboot/internal/locate"
	"github.com/2ndBillingCycle/toolboot/internal/runner"
	"github.com/charmbracelet/log"
)

// PackageManager is the per-target dependency installer.
const PackageManager = "luarocks"

// Installer runs the same package-manager command in every target, one
// target after the other.
type Installer struct {
	Env    *Environments
	Runner runner.Executor
	Log    *log.Logger
}

// Install runs `<target>/bin/luarocks args...` inside each target root.
// With check enabled a failure in one target stops the run before the
// next target is attempted; the outcomes collected so far are returned.
func (i *Installer) Install(ctx context.Context, args []string, check bool) (PairedOutcome, error) {
	outs := make([]*runner.Outcome, 0, len(i.Env.Targets))
	for _, t := range i.Env.Targets {
		var out *runner.Outcome
		err := dirscope.Within(t.Root, func(string) error {
			var runErr error
			out, runErr = i.Runner.Run(ctx, runner.Cmd(t.LocalTool(PackageManager), args...), check)
			return runErr
		})
		if out != nil {
			outs = append(outs, out)
		}
		if err != nil {
			return pair(outs), fmt.Errorf("%s: %w", t.Name, err)
		}
		if i.Log != nil {
			i.Log.Debug("target done", "target", t.Name, "exit", out.ExitCode)
		}
	}
	return pair(outs), nil
}

// Provisioner installs the interpreter and package manager of every
// target using a verified hererocks.
type Provisioner struct {
	Runner runner.Executor
	Log    *log.Logger
}

// Provision runs `hererocks <flags...> <root>` for each target in order.
// Every invocation is failure-checked.
func (p *Provisioner) Provision(ctx context.Context, tool *locate.ToolLocation, env *Environments) (PairedOutcome, error) {
	if tool == nil {
		return PairedOutcome{}, fmt.Errorf("provisioning requires a verified %s", locate.DefaultName)
	}
	if p.Log != nil {
		p.Log.Infof("Installing lua, luajit, and luarocks in %s", env.BuildRoot)
	}
	outs := make([]*runner.Outcome, 0, len(env.Targets))
	for _, t := range env.Targets {
		args := append(append([]string(nil), t.Flags...), t.Root)
		out, err := p.Runner.Run(ctx, tool.Command(args...).In(env.BuildRoot), true)
		if out != nil {
			outs = append(outs, out)
		}
		if err != nil {
			return pair(outs), fmt.Errorf("provisioning %s: %w", t.Name, err)
		}
	}
	return pair(outs), nil
}
