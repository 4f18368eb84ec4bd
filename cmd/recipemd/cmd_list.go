package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-recipemd/internal/catalog"
)

func newListCmd(opts *globalOptions) *cobra.Command {
	var tag string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List catalog recipes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			module, err := moduleBuilder(cmd.Context(), opts.config("."))
			if err != nil {
				return err
			}
			defer module.Close()

			var entries []*catalog.Entry
			if strings.TrimSpace(tag) != "" {
				entries, err = module.Catalog().Search(cmd.Context(), tag)
			} else {
				entries, err = module.Catalog().List(cmd.Context())
			}
			if err != nil {
				return err
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "SLUG\tTITLE\tINGREDIENTS\tTAGS")
			for _, entry := range entries {
				fmt.Fprintf(tw, "%s\t%s\t%d\t%s\n", entry.Slug, entry.Title, entry.IngredientCount, strings.Join(entry.Tags, ", "))
			}
			return tw.Flush()
		},
	}

	cmd.Flags().StringVar(&tag, "tag", "", "only list recipes with this tag")

	return cmd
}
