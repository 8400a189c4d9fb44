package main

import (
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/auctions-dev/bsconf/internal/globs"
)

func filesCmd(g *globals) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "files",
		Short: "List the files each watched pattern selects",
		Long: `Expand every watched pattern against the project directory and list
the files a change to which would trigger a reload. Files matching
watchOptions.ignored are left out.

This is a one-shot report; nothing is watched.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, err := g.load()
			if err != nil {
				return err
			}

			dir, err := g.projectDir()
			if err != nil {
				return err
			}
			if cfg.Path() != "" {
				dir = filepath.Dir(cfg.Path())
			}

			matches, err := globs.NewResolver(dir).Matches(cfg)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for _, m := range matches {
				if len(m.Files) == 0 {
					g.warn(out, "%s (no matches)", m.Pattern)
					continue
				}
				g.success(out, "%s (%d)", m.Pattern, len(m.Files))
				for _, f := range m.Files {
					info(out, "%s", f)
				}
			}
			g.logger().Debug("expanded patterns", "dir", dir, "files", globs.Count(matches))
			return nil
		},
	}

	return cmd
}

func matchCmd(g *globals) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "match <path>...",
		Short: "Report whether changes to paths would trigger a reload",
		Long: `Report, for each path relative to the project directory, whether a
change to it would trigger a reload.

Examples:
  bsconf match auctions/templates/auctions/index.html
  bsconf match node_modules/pkg/style.css`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, err := g.load()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for _, path := range args {
				if globs.Triggers(cfg, path) {
					g.success(out, "%s reloads", path)
				} else {
					g.errorMsg(out, "%s ignored", path)
				}
			}
			return nil
		},
	}

	return cmd
}
