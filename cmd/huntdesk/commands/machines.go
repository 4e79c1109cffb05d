package commands

import (
	"os"
	"strconv"

	"github.com/huntdesk-io/huntdesk/internal/training"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

type machineRow struct {
	ID         int     `json:"id" yaml:"id"`
	Name       string  `json:"name" yaml:"name"`
	OS         string  `json:"os" yaml:"os"`
	Difficulty string  `json:"difficulty" yaml:"difficulty"`
	Stars      float64 `json:"stars" yaml:"stars"`
	UserOwns   int     `json:"user_owns" yaml:"user_owns"`
	RootOwns   int     `json:"root_owns" yaml:"root_owns"`
	Release    string  `json:"release,omitempty" yaml:"release,omitempty"`
}

// NewMachinesCommand creates the one-shot machine listing command.
func NewMachinesCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "machines",
		Short: "List training machines",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, _, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			logger := newLogger(cfg.Verbose)
			defer func() { _ = logger.Sync() }()

			svc, err := buildServices(cfg, logger).Training()
			if err != nil {
				return err
			}

			size, _ := cmd.Flags().GetInt("size")
			retired, _ := cmd.Flags().GetBool("retired")
			refresh, _ := cmd.Flags().GetBool("refresh")

			machines, err := svc.ListMachines(cmd.Context(), training.ListOptions{
				Size:         size,
				Retired:      retired,
				ForceRefresh: refresh,
			})
			if err != nil {
				return err
			}

			rows := make([]machineRow, 0, len(machines))

			for _, machine := range machines {
				row := machineRow{
					ID:         machine.ID,
					Name:       machine.Name,
					OS:         machine.OS,
					Difficulty: machine.DifficultyLabel,
					Stars:      machine.Stars,
					UserOwns:   machine.UserOwns,
					RootOwns:   machine.RootOwns,
				}

				if !machine.Release.IsZero() {
					row.Release = machine.Release.Format("2006-01-02")
				}

				rows = append(rows, row)
			}

			return renderOutput(cmd, rows, func() error {
				table := tablewriter.NewWriter(os.Stdout)
				table.Header("ID", "Name", "OS", "Difficulty", "Stars", "Owns (user/root)", "Release")

				for _, row := range rows {
					_ = table.Append(strconv.Itoa(row.ID), row.Name, row.OS, row.Difficulty,
						strconv.FormatFloat(row.Stars, 'f', 1, 64),
						strconv.Itoa(row.UserOwns)+"/"+strconv.Itoa(row.RootOwns),
						row.Release)
				}

				return table.Render()
			})
		},
	}

	cmd.Flags().IntP("size", "s", 0, "maximum machines to return (0 = all)")
	cmd.Flags().BoolP("retired", "r", false, "list retired machines")
	cmd.Flags().BoolP("refresh", "u", false, "bypass the cache for this listing")

	return cmd
}
