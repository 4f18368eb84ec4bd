package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-recipemd/internal/catalog"
	recipecmd "github.com/goliatone/go-recipemd/internal/commands/recipes"
)

func newImportCmd(opts *globalOptions) *cobra.Command {
	var (
		pattern         string
		dryRun          bool
		prune           bool
		continueOnError bool
	)

	cmd := &cobra.Command{
		Use:   "import <dir>",
		Short: "Import recipes under a directory into the catalog",
		Long: `Import every recipe under dir into the catalog selected by --driver and --dsn.

Unchanged recipes are skipped. Use --prune to delete catalog entries whose
source file no longer exists.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			module, err := moduleBuilder(cmd.Context(), opts.config(args[0]))
			if err != nil {
				return err
			}
			defer module.Close()

			var result catalog.ImportResult
			err = module.Commands().Sync.Execute(cmd.Context(), recipecmd.SyncDirectoryCommand{
				Directory:       ".",
				Pattern:         pattern,
				ContinueOnError: &continueOnError,
				DryRun:          dryRun,
				DeleteOrphaned:  prune,
				Result:          &result,
			})
			if err != nil {
				return describeError(err)
			}

			printImportResult(cmd.OutOrStdout(), &result, dryRun)
			if len(result.Failures) > 0 {
				return fmt.Errorf("%d recipe(s) failed to import", len(result.Failures))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&pattern, "pattern", "", "glob pattern for recipe files (default *.md)")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "report changes without writing")
	cmd.Flags().BoolVar(&prune, "prune", false, "delete entries without a source file")
	cmd.Flags().BoolVar(&continueOnError, "continue-on-error", false, "skip recipes that fail to parse")

	return cmd
}

func printImportResult(w io.Writer, result *catalog.ImportResult, dryRun bool) {
	for _, failure := range result.Failures {
		fmt.Fprintln(w, formatFailure(failure.Path, failure.Err))
	}
	prefix := ""
	if dryRun {
		prefix = "dry run: "
	}
	fmt.Fprintf(w, "%s%d created, %d updated, %d unchanged, %d deleted\n", prefix,
		len(result.Created), len(result.Updated), len(result.Unchanged), len(result.Deleted))
}
