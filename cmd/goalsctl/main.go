package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/gmgoals/goals/cmd/goalsctl/cmd"
)

func main() {
	rootCmd := &cobra.Command{
		Use:          "goalsctl",
		Short:        "Operator tools for the goals tracker",
		SilenceUsage: true,
	}

	rootCmd.AddCommand(cmd.HashPasswordCmd())
	rootCmd.AddCommand(cmd.DigestCmd())
	rootCmd.AddCommand(cmd.MigrateCmd())
	rootCmd.AddCommand(cmd.BackupCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
