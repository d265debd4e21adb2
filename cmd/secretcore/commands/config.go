package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/systmms/secretcore/internal/config"
)

// NewConfigCommand groups configuration subcommands under `secretcore
// config`, grounded on the teacher's per-concern cobra command layout
// (cmd/dsops/commands/*.go, one file per subcommand).
func NewConfigCommand(configPath *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Configuration inspection commands",
	}
	cmd.AddCommand(newConfigValidateCommand(configPath))
	return cmd
}

func newConfigValidateCommand(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Load and validate the configuration file",
		RunE: func(cmd *cobra.Command, args []string) error {
			def, err := config.Load(*configPath)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "configuration valid: backend=%s encrypt=%t grpc=%s\n", def.Backend, def.Encrypt, def.GRPC.ListenAddr)
			return nil
		},
	}
}
