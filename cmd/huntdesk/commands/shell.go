package commands

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/huntdesk-io/huntdesk/internal/session"
	"github.com/huntdesk-io/huntdesk/internal/shell"
	"github.com/spf13/cobra"
)

// NewShellCommand creates the shell command. The root command without
// a subcommand runs the same thing.
func NewShellCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "shell",
		Short: "Start the interactive console",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return RunShell(cmd)
		},
	}
}

// RunShell wires the services and drives the root scope until the user
// exits or input ends.
func RunShell(cmd *cobra.Command) error {
	cfg, _, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	logger := newLogger(cfg.Verbose)
	defer func() { _ = logger.Sync() }()

	services := buildServices(cfg, logger)

	sess := session.New(func(ctx context.Context, identifier string) (session.Target, error) {
		ws, err := workspaceClient(cfg, logger)
		if err != nil {
			return session.Target{}, err
		}

		return ws.LookupTarget(ctx, identifier)
	})

	fmt.Fprintln(os.Stdout, "huntdesk console, type \"help\" for commands")

	runner := shell.NewRunner(os.Stdin, os.Stdout, sess, logger)

	err = runner.Run(cmd.Context(), shell.NewRootScope(services))
	if errors.Is(err, shell.ErrExit) {
		return nil
	}

	return err
}
