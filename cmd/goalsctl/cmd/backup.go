package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

func BackupCmd() *cobra.Command {
	var noLink bool

	cmd := &cobra.Command{
		Use:   "backup",
		Short: "Snapshot the SQLite database to object storage",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			a, err := openApp(ctx)
			if err != nil {
				return err
			}
			defer a.Close()

			result, err := a.BackupService.Backup(ctx)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "uploaded %s (%d bytes)\n", result.Key, result.Size)
			for _, key := range result.Pruned {
				fmt.Fprintf(out, "pruned %s\n", key)
			}

			if noLink {
				return nil
			}
			url, err := a.BackupService.DownloadURL(ctx, result.Key)
			if err != nil {
				return fmt.Errorf("backup uploaded but presigning failed: %w", err)
			}
			fmt.Fprintf(out, "download (valid 1h): %s\n", url)
			return nil
		},
	}

	cmd.Flags().BoolVar(&noLink, "no-link", false, "skip printing a presigned download URL")
	return cmd
}
