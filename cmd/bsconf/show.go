package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/auctions-dev/bsconf/internal/render"
)

func showCmd(g *globals) *cobra.Command {
	var (
		format  string
		sources bool
	)

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print the resolved configuration",
		Long: `Print the configuration after defaults, the config file and
environment overrides have been merged.

Examples:
  bsconf show
  bsconf show --format=json
  bsconf show --sources`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := render.Parse(format)
			if err != nil {
				return err
			}

			cfg, loader, err := g.load()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if sources {
				for _, key := range loader.SourceKeys() {
					fmt.Fprintf(out, "%-22s %s\n", key, loader.Sources()[key])
				}
				return nil
			}

			data, err := render.Render(cfg, f)
			if err != nil {
				return err
			}
			_, err = out.Write(data)
			return err
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", string(render.DefaultFormat), "Output format: js, json or yaml")
	cmd.Flags().BoolVar(&sources, "sources", false, "Print where each value came from instead of the config")

	return cmd
}
