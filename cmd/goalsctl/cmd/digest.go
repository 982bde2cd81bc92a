package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

func DigestCmd() *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "digest",
		Short: "Send the monthly goals summary",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, err := openApp(ctx)
			if err != nil {
				return err
			}
			defer a.Close()

			if dryRun {
				digest, err := a.DigestService.Build(ctx)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.ErrOrStderr(), "subject: %s\n", digest.Subject)
				fmt.Fprintln(cmd.OutOrStdout(), digest.HTML)
				return nil
			}

			err = a.DigestService.SendMonthlySummary(ctx)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Monthly summary sent successfully")
			return nil
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "print the HTML instead of sending it")
	return cmd
}
