package main

import (
	"fmt"

	goerrors "github.com/goliatone/go-errors"
	"github.com/spf13/cobra"

	"github.com/goliatone/go-recipemd/internal/library"
)

func newCheckCmd(opts *globalOptions) *cobra.Command {
	var pattern string

	cmd := &cobra.Command{
		Use:   "check <dir>",
		Short: "Parse every recipe under a directory and report errors",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			module, err := moduleBuilder(cmd.Context(), opts.config(args[0]))
			if err != nil {
				return err
			}
			defer module.Close()

			continueOnError := true
			result, err := module.Loader().LoadDirectory(cmd.Context(), ".", library.LoadParams{
				Pattern:         pattern,
				ContinueOnError: &continueOnError,
			})
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for _, failure := range result.Failures {
				fmt.Fprintln(out, formatFailure(failure.Path, failure.Err))
			}
			fmt.Fprintf(out, "%d ok, %d failed\n", len(result.Documents), len(result.Failures))
			if len(result.Failures) > 0 {
				return fmt.Errorf("%d recipe(s) failed to parse", len(result.Failures))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&pattern, "pattern", "", "glob pattern for recipe files (default *.md)")

	return cmd
}

// formatFailure renders path:line:column: message [CODE].
func formatFailure(path string, err error) string {
	message := err.Error()
	code := ""
	var typed *goerrors.Error
	if goerrors.As(err, &typed) {
		code = typed.TextCode
		if root := goerrors.RootCause(err); root != nil {
			message = root.Error()
		}
	}

	location := path
	if line, column, ok := library.Location(err); ok {
		location = fmt.Sprintf("%s:%d:%d", path, line, column)
	}
	if code == "" {
		return fmt.Sprintf("%s: %s", location, message)
	}
	return fmt.Sprintf("%s: %s [%s]", location, message, code)
}

// describeError prefixes located errors for single file commands.
func describeError(err error) error {
	var typed *goerrors.Error
	if !goerrors.As(err, &typed) {
		return err
	}
	path, _ := typed.Metadata["path"].(string)
	if path == "" {
		return err
	}
	return fmt.Errorf("%s", formatFailure(path, err))
}
