package main

import (
	"github.com/spf13/cobra"
)

// RootOptions holds the flags shared by all commands.
type RootOptions struct {
	Manifest string
}

// NewRootCommand builds the veloxdoc command tree.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "veloxdoc",
		Short: "Generate typed document packages from a schema manifest",
		Long: `veloxdoc turns a YAML schema manifest into Go packages: one package
per model with the document struct, its compiled schema and typed
predicate binders for the query layer.`,
	}

	cmd.PersistentFlags().StringVarP(&opts.Manifest, "manifest", "m", "veloxdoc.yaml", "manifest file to load")

	cmd.AddCommand(NewGenCommand(opts))
	cmd.AddCommand(NewCheckCommand(opts))

	return cmd
}
