package commands

import (
	"os"

	"github.com/huntdesk-io/huntdesk/internal/bounty"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

type programRow struct {
	ID              string `json:"id" yaml:"id"`
	Handle          string `json:"handle" yaml:"handle"`
	Name            string `json:"name" yaml:"name"`
	Confidentiality string `json:"confidentiality" yaml:"confidentiality"`
	Status          string `json:"status" yaml:"status"`
}

// NewProgramsCommand creates the one-shot program listing command.
func NewProgramsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "programs",
		Short: "List bug-bounty programs",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, _, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			logger := newLogger(cfg.Verbose)
			defer func() { _ = logger.Sync() }()

			svc, err := buildServices(cfg, logger).Bounty()
			if err != nil {
				return err
			}

			opts := bounty.ListOptions{}
			opts.Following, _ = cmd.Flags().GetBool("following")
			opts.Limit, _ = cmd.Flags().GetInt("limit")
			opts.Offset, _ = cmd.Flags().GetInt("offset")
			opts.StatusID, _ = cmd.Flags().GetInt("status")
			opts.TypeID, _ = cmd.Flags().GetInt("type")
			opts.Search, _ = cmd.Flags().GetString("search")

			programs, err := svc.ListPrograms(cmd.Context(), opts)
			if err != nil {
				return err
			}

			rows := make([]programRow, 0, len(programs))
			for _, program := range programs {
				rows = append(rows, programRow{
					ID:              program.ID,
					Handle:          program.Handle,
					Name:            program.Name,
					Confidentiality: program.Confidentiality,
					Status:          program.Status,
				})
			}

			return renderOutput(cmd, rows, func() error {
				table := tablewriter.NewWriter(os.Stdout)
				table.Header("ID", "Handle", "Name", "Confidentiality", "Status")

				for _, row := range rows {
					_ = table.Append(row.ID, row.Handle, row.Name, row.Confidentiality, row.Status)
				}

				return table.Render()
			})
		},
	}

	cmd.Flags().BoolP("following", "f", false, "only programs you follow")
	cmd.Flags().IntP("limit", "l", 0, "page size requested upstream (0 = default)")
	cmd.Flags().Int("offset", 0, "starting offset")
	cmd.Flags().Int("status", 0, "filter by status identifier")
	cmd.Flags().Int("type", 0, "filter by type identifier")
	cmd.Flags().String("search", "", "case-insensitive name filter")

	return cmd
}
