package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newLocateCmd(g *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "locate",
		Short: "Check that hererocks is installed and runs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			seq, err := newSequencer(g)
			if err != nil {
				return err
			}
			tool, _, err := seq.Locate(cmd.Context())
			if err != nil {
				return exitWith(err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s\n%s\n", tool.Path, tool.Version)
			return nil
		},
	}
}
