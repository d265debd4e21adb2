package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewVersionCommand prints the build-time version metadata main sets.
func NewVersionCommand(version, commit, date string) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintf(cmd.OutOrStdout(), "secretcore %s (commit: %s, built: %s)\n", version, commit, date)
			return nil
		},
	}
}
