package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/systmms/secretcore/cmd/secretcore/commands"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	var configPath string

	rootCmd := &cobra.Command{
		Use:     "secretcore",
		Short:   "secretcore is the multi-tenant secret-management gRPC service",
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
	}
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "secretcore.yaml", "Config file path")

	rootCmd.AddCommand(
		commands.NewServeCommand(&configPath),
		commands.NewConfigCommand(&configPath),
		commands.NewVersionCommand(version, commit, date),
	)

	return rootCmd.Execute()
}
