package cli

import (
	"bufio"
	"errors"
	"strings"

	"github.com/spf13/cobra"

	"floorplan/internal/app"
)

// secretCommand manages keychain entries referenced by store.dsn_secret.
func (c *CLI) secretCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "secret",
		Short: "Store database DSNs in the keychain",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "set NAME",
		Short: "Read a DSN from stdin and store it under NAME",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
			value := strings.TrimSpace(line)
			if value == "" {
				if err != nil {
					return err
				}
				return errors.New("empty secret")
			}
			if err := app.Secrets.Set(args[0], []byte(value)); err != nil {
				return err
			}
			printSuccess(cmd.OutOrStdout(), "Stored secret %s", args[0])
			printDetail(cmd.OutOrStdout(), "Set store.dsn_secret = %q to use it", args[0])
			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "delete NAME",
		Short: "Remove a stored secret",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.Secrets.Delete(args[0]); err != nil {
				return err
			}
			printSuccess(cmd.OutOrStdout(), "Deleted secret %s", args[0])
			return nil
		},
	})

	return cmd
}
