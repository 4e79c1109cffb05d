package main

import (
	"fmt"
	"os"

	"github.com/huntdesk-io/huntdesk/cmd/huntdesk/commands"
	"github.com/spf13/cobra"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var rootCmd = &cobra.Command{
	Use:   "huntdesk",
	Short: "Operator console for training machines, bounty programs, and workspace tracking",
	Long: `huntdesk aggregates a security-training machine catalog, a bug-bounty
program directory, and a workspace document service behind one console.

Running huntdesk without a subcommand starts the interactive shell.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return commands.RunShell(cmd)
	},
}

func init() {
	rootCmd.PersistentFlags().StringP("config", "c", "", "config file (default is $HOME/.huntdesk/config.yaml)")
	rootCmd.PersistentFlags().String("output", "table", "output format (table, json, yaml)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "verbose output")

	rootCmd.AddCommand(commands.NewShellCommand())
	rootCmd.AddCommand(commands.NewMachinesCommand())
	rootCmd.AddCommand(commands.NewProgramsCommand())
	rootCmd.AddCommand(commands.NewAuthCommand())
	rootCmd.AddCommand(commands.NewConfigCommand())
	rootCmd.AddCommand(commands.NewVersionCommand(version, commit, date))
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
