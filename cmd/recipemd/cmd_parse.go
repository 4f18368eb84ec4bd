package main

import (
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	recipecmd "github.com/goliatone/go-recipemd/internal/commands/recipes"
	"github.com/goliatone/go-recipemd/internal/library"
	"github.com/goliatone/go-recipemd/internal/parser"
	"github.com/goliatone/go-recipemd/internal/render"
	"github.com/goliatone/go-recipemd/internal/validation"
)

func newParseCmd(opts *globalOptions) *cobra.Command {
	var (
		checkSchema bool
		asHTML      bool
	)

	cmd := &cobra.Command{
		Use:   "parse [file]",
		Short: "Parse a recipe and print it as JSON",
		Long: `Parse a RecipeMD document and print the recipe as JSON.

If no file is provided, or the file is "-", the document is read from stdin.
Use --html to print a rendered HTML page instead.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var doc library.Document

			if len(args) == 0 || args[0] == "-" {
				source, err := io.ReadAll(cmd.InOrStdin())
				if err != nil {
					return fmt.Errorf("read stdin: %w", err)
				}
				parsed, err := library.BuildDocument("stdin.md", "", source, time.Now(), parser.WithExtensions(opts.extensions...))
				if err != nil {
					return describeError(err)
				}
				if checkSchema {
					if err := validation.ValidateRecipe(parsed.Recipe); err != nil {
						return err
					}
				}
				doc = *parsed
			} else {
				abs, err := filepath.Abs(args[0])
				if err != nil {
					return err
				}
				module, err := moduleBuilder(cmd.Context(), opts.config(filepath.Dir(abs)))
				if err != nil {
					return err
				}
				defer module.Close()

				err = module.Commands().Parse.Execute(cmd.Context(), recipecmd.ParseFileCommand{
					Path:        filepath.Base(abs),
					CheckSchema: checkSchema,
					Result:      &doc,
				})
				if err != nil {
					return describeError(err)
				}
			}

			out := cmd.OutOrStdout()
			if asHTML {
				page, err := render.New(render.Options{Extensions: opts.extensions}).Page(doc.Recipe)
				if err != nil {
					return err
				}
				_, err = out.Write(page)
				return err
			}
			return writeJSON(out, doc.Recipe)
		},
	}

	cmd.Flags().BoolVar(&checkSchema, "validate", false, "validate the recipe against the JSON schema")
	cmd.Flags().BoolVar(&asHTML, "html", false, "print a rendered HTML page")

	return cmd
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

