// Package commands implements the huntdesk CLI: the interactive shell
// plus one-shot listing, authentication, and configuration commands.
package commands

import (
	"fmt"
	"strings"

	"github.com/huntdesk-io/huntdesk/internal/bounty"
	"github.com/huntdesk-io/huntdesk/internal/config"
	internalhttp "github.com/huntdesk-io/huntdesk/internal/http"
	"github.com/huntdesk-io/huntdesk/internal/shell"
	"github.com/huntdesk-io/huntdesk/internal/training"
	"github.com/huntdesk-io/huntdesk/internal/workspace"
	"github.com/huntdesk-io/huntdesk/pkg/huntapi"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// loadConfig resolves the effective configuration for a command from
// its persistent flags, the environment, and the optional config file.
func loadConfig(cmd *cobra.Command) (*config.Config, *viper.Viper, error) {
	cfgFile, _ := cmd.Flags().GetString("config")

	v, err := config.Init(cfgFile)
	if err != nil {
		return nil, nil, err
	}

	if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
		v.Set("verbose", true)
	}

	return config.FromViper(v), v, nil
}

// newLogger builds the command logger. The console stays quiet unless
// verbose output was requested.
func newLogger(verbose bool) *zap.Logger {
	if !verbose {
		return zap.NewNop()
	}

	logger, err := zap.NewDevelopment()
	if err != nil {
		return zap.NewNop()
	}

	return logger
}

// versionHeader pins the workspace API version on every request.
const versionHeader = "Notion-Version"

func missingToken(integration string) error {
	return fmt.Errorf("%w: %s token (set HUNTDESK_%s_TOKEN or run \"huntdesk auth %s\")",
		huntapi.ErrConfigurationMissing, integration, strings.ToUpper(integration), integration)
}

// workspaceClient constructs the workspace client, shared between the
// service factory and the session-context lookup.
func workspaceClient(cfg *config.Config, logger *zap.Logger) (*workspace.Client, error) {
	if cfg.Workspace.Token == "" {
		return nil, missingToken("workspace")
	}

	httpClient := internalhttp.NewClient(cfg.Workspace.BaseURL, cfg.Workspace.Token,
		internalhttp.WithTimeout(cfg.HTTPTimeout),
		internalhttp.WithHeader(versionHeader, cfg.Workspace.Version),
		internalhttp.WithLogger(logger))

	return workspace.NewClient(httpClient, cfg.Workspace.RootCollection, cfg.Workspace.TemplateDir, logger), nil
}

// buildServices wires the integration factories. Construction of each
// client is deferred so a missing credential fails only the command
// that needs that integration.
func buildServices(cfg *config.Config, logger *zap.Logger) shell.Services {
	cache, err := huntapi.NewCacheFromConfig(cfg.CacheConfig())
	if err != nil {
		logger.Warn("cache unavailable, responses will not be cached", zap.Error(err))

		cache = huntapi.NewNoOpCache()
	}

	gate := huntapi.NewGate(cache, cfg.Cache.TTL)

	return shell.Services{
		Workspace: func() (shell.WorkspaceService, error) {
			return workspaceClient(cfg, logger)
		},
		Training: func() (shell.TrainingService, error) {
			if cfg.Training.Token == "" {
				return nil, missingToken("training")
			}

			httpClient := internalhttp.NewClient(cfg.Training.BaseURL, cfg.Training.Token,
				internalhttp.WithTimeout(cfg.HTTPTimeout),
				internalhttp.WithLogger(logger))

			return training.NewClient(httpClient, gate, logger), nil
		},
		Bounty: func() (shell.BountyService, error) {
			if cfg.Bounty.Token == "" {
				return nil, missingToken("bounty")
			}

			httpClient := internalhttp.NewClient(cfg.Bounty.BaseURL, cfg.Bounty.Token,
				internalhttp.WithTimeout(cfg.HTTPTimeout),
				internalhttp.WithLogger(logger))

			return bounty.NewClient(httpClient, logger), nil
		},
		Links: shell.MachineLinks{
			Web:    cfg.Training.WebURL,
			Assets: cfg.Training.AssetsURL,
		},
	}
}
