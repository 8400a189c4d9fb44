package main

import (
	"github.com/spf13/cobra"

	"github.com/auctions-dev/bsconf/internal/errors"
	"github.com/auctions-dev/bsconf/internal/lint"
)

func checkCmd(g *globals) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check",
		Short: "Report likely mistakes in the configuration",
		Long: `Check the proxy address and the watch patterns.

Errors make the command exit non-zero; warnings do not. The live-reload
tool performs its own validation and may still reject values that pass.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, err := g.load()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			problems := lint.Check(cfg)
			for _, p := range problems {
				if p.Severity == lint.SeverityError {
					g.errorMsg(out, "%s", p)
				} else {
					g.warn(out, "%s", p)
				}
			}

			if lint.HasErrors(problems) {
				return errors.New("E203").WithDetailf("%d problem(s) found", len(problems))
			}
			if len(problems) == 0 {
				g.success(out, "No problems found")
			}
			return nil
		},
	}

	return cmd
}
