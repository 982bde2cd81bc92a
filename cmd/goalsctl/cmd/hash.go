package cmd

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/gmgoals/goals/internal/service"
	"github.com/gmgoals/goals/internal/validation"
)

func HashPasswordCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "hash-password [password]",
		Short: "Print a bcrypt hash for APP_PASSWORD_HASH",
		Long:  "Print a bcrypt hash for APP_PASSWORD_HASH. Reads the password from stdin when no argument is given.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var password string
			if len(args) == 1 {
				password = args[0]
			} else {
				var err error
				password, err = readPassword(cmd.InOrStdin())
				if err != nil {
					return err
				}
			}
			return hashPassword(cmd.OutOrStdout(), cmd.ErrOrStderr(), password)
		},
	}
}

func readPassword(r io.Reader) (string, error) {
	line, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && err != io.EOF {
		return "", fmt.Errorf("failed to read password: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func hashPassword(out, errOut io.Writer, password string) error {
	err := validation.ValidatePassword(password)
	if err != nil {
		return err
	}

	if reason := validation.PasswordWeakness(password); reason != "" {
		fmt.Fprintf(errOut, "warning: password is weak (%s)\n", reason)
	}

	hash, err := service.HashPassword(password)
	if err != nil {
		return err
	}

	fmt.Fprintln(out, hash)
	return nil
}
