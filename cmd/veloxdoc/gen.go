package main

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/syssam/veloxdoc/compiler/gen"
	"github.com/syssam/veloxdoc/compiler/load"
)

// debounceWindow folds the burst of filesystem events an editor fires
// per save into one regeneration.
const debounceWindow = 200 * time.Millisecond

// GenOptions holds the flags of the gen command.
type GenOptions struct {
	*RootOptions
	Target string
	Watch  bool
}

// NewGenCommand builds the gen command.
func NewGenCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &GenOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "gen",
		Short: "Generate model packages from the manifest",
		Long: `Generate renders one package per manifest model into the target
directory. With --watch it stays running and regenerates whenever the
manifest changes.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.Watch {
				return watch(cmd, opts)
			}
			return generate(cmd.Context(), opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Target, "target", "t", "", "output directory (defaults to the manifest's directory)")
	cmd.Flags().BoolVarP(&opts.Watch, "watch", "w", false, "regenerate whenever the manifest changes")

	return cmd
}

func generate(ctx context.Context, opts *GenOptions) error {
	m, err := load.ParseFile(opts.Manifest)
	if err != nil {
		return err
	}
	target := opts.Target
	if target == "" {
		target = filepath.Dir(opts.Manifest)
	}
	return gen.Generate(ctx, &gen.Config{Manifest: m, Target: target})
}

// watch regenerates on every manifest change until the command's
// context is canceled. The manifest's directory is watched rather than
// the file itself: editors typically replace the file on save, which
// would orphan a watch installed on the old inode.
func watch(cmd *cobra.Command, opts *GenOptions) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	manifest, err := filepath.Abs(opts.Manifest)
	if err != nil {
		return err
	}
	if err := w.Add(filepath.Dir(manifest)); err != nil {
		return err
	}

	run := func() {
		if err := generate(cmd.Context(), opts); err != nil {
			fmt.Fprintln(cmd.ErrOrStderr(), "veloxdoc:", err)
			return
		}
		fmt.Fprintf(cmd.OutOrStdout(), "veloxdoc: regenerated at %s\n", time.Now().Format(time.TimeOnly))
	}
	run()

	debounce := time.NewTimer(debounceWindow)
	if !debounce.Stop() {
		<-debounce.C
	}
	for {
		select {
		case <-cmd.Context().Done():
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if ev.Name != manifest || !ev.Op.Has(fsnotify.Write|fsnotify.Create|fsnotify.Rename) {
				continue
			}
			debounce.Reset(debounceWindow)
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			fmt.Fprintln(cmd.ErrOrStderr(), "veloxdoc: watch:", err)
		case <-debounce.C:
			run()
		}
	}
}
