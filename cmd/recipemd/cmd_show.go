package main

import (
	"github.com/spf13/cobra"
)

func newShowCmd(opts *globalOptions) *cobra.Command {
	var asHTML bool

	cmd := &cobra.Command{
		Use:   "show <slug>",
		Short: "Print a catalog recipe",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			module, err := moduleBuilder(cmd.Context(), opts.config("."))
			if err != nil {
				return err
			}
			defer module.Close()

			entry, err := module.Catalog().Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if asHTML {
				page, err := module.Renderer().Page(entry.Recipe)
				if err != nil {
					return err
				}
				_, err = cmd.OutOrStdout().Write(page)
				return err
			}
			return writeJSON(cmd.OutOrStdout(), entry)
		},
	}

	cmd.Flags().BoolVar(&asHTML, "html", false, "print a rendered HTML page")

	return cmd
}
