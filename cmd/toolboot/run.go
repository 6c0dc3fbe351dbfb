package main

import (
	"encoding/json"
	"fmt"
	"path/filepath"

	"github.com/2ndBillingCycle/toolboot/internal/bootstrap"
	"github.com/2ndBillingCycle/toolboot/internal/report"
	"github.com/spf13/cobra"
)

func newRunCmd(g *globalFlags) *cobra.Command {
	var (
		jsonOut    bool
		saveReport bool
		stages     []string
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the bootstrap stages",
		Long: `Run precondition, base-tool, provision and dependencies in order,
stopping at the first failure.

Exit codes: 2 host precondition failed, 3 hererocks not found or broken,
4 a command failed, 1 anything else.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			seq, err := newSequencer(g)
			if err != nil {
				return err
			}
			if len(stages) > 0 {
				seq.Config.RawStages = stages
			}

			res, runErr := seq.Run(cmd.Context())
			if res == nil {
				return exitWith(runErr)
			}

			if jsonOut {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				if err := enc.Encode(res.RunResult); err != nil {
					return err
				}
			} else {
				fmt.Fprint(cmd.OutOrStdout(), res.String())
			}

			if saveReport {
				path, err := writeReport(seq, res)
				if err != nil {
					seq.Log.Error("writing report", "err", err)
				} else {
					seq.Log.Info("report written", "path", path)
				}
			}

			return exitWith(runErr)
		},
	}

	cmd.Flags().BoolVar(&jsonOut, "json", false, "print the run record as JSON")
	cmd.Flags().BoolVar(&saveReport, "report", false, "write the run record to <build>/toolboot-<run-id>.json")
	cmd.Flags().StringSliceVar(&stages, "stages", nil, "run only these stages (comma-separated)")
	return cmd
}

// writeReport saves the run record into the build root, falling back to the
// configured build dir when provisioning never ran.
func writeReport(seq *bootstrap.Sequencer, res *bootstrap.Result) (string, error) {
	dir := res.RunResult.BuildRoot
	if dir == "" {
		dir = seq.Config.BuildDir()
		if !filepath.IsAbs(dir) {
			dir = filepath.Join(seq.Workspace, dir)
		}
	}
	store := report.NewDiskStore(dir)
	if err := store.Save(res.RunResult); err != nil {
		return "", err
	}
	return store.Path(res.RunResult.ID)
}
