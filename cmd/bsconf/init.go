package main

import (
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/auctions-dev/bsconf/internal/config"
	"github.com/auctions-dev/bsconf/internal/errors"
	"github.com/auctions-dev/bsconf/internal/render"
)

func initCmd(g *globals) *cobra.Command {
	var (
		format string
		force  bool
	)

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write the default configuration file",
		Long: `Write the default configuration to the project directory.

The js format produces the module the live-reload tool loads with
--config. The json and yaml formats are also read back by bsconf.

Examples:
  bsconf init
  bsconf init --format=json
  bsconf init --force`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := render.Parse(format)
			if err != nil {
				return err
			}

			dir, err := g.projectDir()
			if err != nil {
				return err
			}
			path := filepath.Join(dir, render.FileName(f))

			if _, err := os.Stat(path); err == nil && !force {
				return errors.New("E201").
					WithDetail(path + " already exists").
					WithSuggestion("Pass --force to overwrite it")
			}

			data, err := render.Render(config.Default(), f)
			if err != nil {
				return err
			}
			if err := os.WriteFile(path, data, 0644); err != nil {
				return errors.New("E103").Wrap(err)
			}

			g.logger().Debug("wrote config", "path", path, "format", string(f))
			g.success(cmd.OutOrStdout(), "Created %s", path)
			return nil
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", string(render.DefaultFormat), "File format: js, json or yaml")
	cmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing file")

	return cmd
}
