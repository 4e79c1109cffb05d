package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/huntdesk-io/huntdesk/pkg/huntapi"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/term"
)

var integrations = []string{"training", "bounty", "workspace"}

// NewAuthCommand creates the auth command: prompt for an integration
// token without echo and persist it to the config file.
func NewAuthCommand() *cobra.Command {
	return &cobra.Command{
		Use:       "auth <integration>",
		Short:     "Store an API token for an integration",
		Long:      "Prompt for an API token (input is not echoed) and save it to the config file.",
		Args:      cobra.ExactArgs(1),
		ValidArgs: integrations,
		RunE: func(cmd *cobra.Command, args []string) error {
			integration := args[0]
			if !knownIntegration(integration) {
				return fmt.Errorf("%w: unknown integration %q (want one of %s)",
					huntapi.ErrInvalidArgument, integration, strings.Join(integrations, ", "))
			}

			_, v, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			fmt.Fprintf(os.Stdout, "%s token: ", integration)

			tokenBytes, err := term.ReadPassword(int(syscall.Stdin))

			fmt.Fprintln(os.Stdout)

			if err != nil {
				return fmt.Errorf("reading token: %w", err)
			}

			token := strings.TrimSpace(string(tokenBytes))
			if token == "" {
				return fmt.Errorf("%w: empty token", huntapi.ErrInvalidArgument)
			}

			v.Set(integration+".token", token)

			err = saveConfig(v)
			if err != nil {
				return err
			}

			fmt.Fprintf(os.Stdout, "%s token saved\n", integration)

			return nil
		},
	}
}

func knownIntegration(name string) bool {
	for _, integration := range integrations {
		if integration == name {
			return true
		}
	}

	return false
}

// saveConfig writes viper state back to the file it was loaded from,
// creating ~/.huntdesk/config.yaml when none existed yet.
func saveConfig(v *viper.Viper) error {
	if v.ConfigFileUsed() != "" {
		return v.WriteConfig()
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return fmt.Errorf("resolving home directory: %w", err)
	}

	dir := filepath.Join(home, ".huntdesk")

	err = os.MkdirAll(dir, 0o700)
	if err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	return v.WriteConfigAs(filepath.Join(dir, "config.yaml"))
}
