package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

func newStatsCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Print dashboard statistics for the seeded state",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := appFromFlags(configPath)
			if err != nil {
				return err
			}
			st, err := a.stats.Current(context.Background())
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), st.Summary())
			return nil
		},
	}

	addConfigFlag(cmd, &configPath)
	return cmd
}
