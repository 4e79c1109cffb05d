package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// NewConfigCommand creates the config command with get/set
// subcommands over the same keys the rest of the CLI reads.
func NewConfigCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect and change configuration",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "get <key>",
		Short: "Print one configuration value",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, v, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			fmt.Fprintln(os.Stdout, v.Get(args[0]))

			return nil
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "set <key> <value>",
		Short: "Set one configuration value and save it",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, v, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			v.Set(args[0], args[1])

			return saveConfig(v)
		},
	})

	return cmd
}
