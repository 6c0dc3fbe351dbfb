package main

import (
	"fmt"
	"os"

	"github.com/2ndBillingCycle/toolboot/internal/bootstrap"
	"github.com/2ndBillingCycle/toolboot/internal/config"
	"github.com/2ndBillingCycle/toolboot/internal/logging"
	"github.com/2ndBillingCycle/toolboot/internal/runner"
	"github.com/spf13/cobra"
)

// globalFlags are shared by every subcommand.
type globalFlags struct {
	binDir   string
	logLevel string
}

func newRootCmd() *cobra.Command {
	var g globalFlags

	run := newRunCmd(&g)
	root := &cobra.Command{
		Use:   "toolboot",
		Short: "Bootstrap the Lua build toolchain on a CI runner",
		Long: `toolboot checks the host Python, installs pipx and hererocks, provisions
Lua 5.1 and LuaJIT 2.1 under build/ (each with its own LuaRocks), and installs
the build dependencies into both.

Without a subcommand toolboot runs every stage, like "toolboot run".`,
		SilenceUsage: true,
		Args:         cobra.NoArgs,
		RunE:         run.RunE,
	}
	root.Flags().AddFlagSet(run.Flags())

	root.PersistentFlags().StringVar(&g.binDir, "bin-dir", "", "directory pipx installs executables into (default $PIPX_BIN_DIR or ~/.local/bin)")
	root.PersistentFlags().StringVar(&g.logLevel, "log-level", "", "log level: debug, info, warn, error")

	root.AddCommand(run, newLocateCmd(&g), newMCPCmd(&g))
	return root
}

// newSequencer loads config from the working directory and wires the
// sequencer with a real runner and a stderr logger.
func newSequencer(g *globalFlags) (*bootstrap.Sequencer, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("determining workspace: %w", err)
	}
	loaded, err := config.Load(cwd)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	cfg := loaded.Config

	settings := logging.Settings{Level: cfg.Log.Level, Timestamp: cfg.Log.Timestamp}
	if g.logLevel != "" {
		settings.Level = g.logLevel
	}
	logger := logging.Runtime(settings)
	if loaded.Path != "" {
		logger.Debug("config loaded", "path", loaded.Path)
	}

	return &bootstrap.Sequencer{
		Config:    cfg,
		Runner:    runner.New(loaded.Workspace, logger),
		Workspace: loaded.Workspace,
		BinDir:    g.binDir,
		Log:       logger,
	}, nil
}
