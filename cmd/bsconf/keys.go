package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/auctions-dev/bsconf/internal/config"
)

func keysCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "keys",
		Short: "Print the top-level configuration keys",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			for _, key := range config.Keys() {
				fmt.Fprintln(cmd.OutOrStdout(), key)
			}
		},
	}
}
