package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/syssam/veloxdoc/compiler/load"
)

// NewCheckCommand builds the check command, which validates the
// manifest without writing anything.
func NewCheckCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:           "check",
		Short:         "Validate the manifest without generating code",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := load.ParseFile(rootOpts.Manifest)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %d models ok\n", rootOpts.Manifest, len(m.Models))
			return nil
		},
	}
}
