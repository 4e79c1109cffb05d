package commands

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/huntdesk-io/huntdesk/pkg/huntapi"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// renderOutput writes rows in the format selected by the --output
// flag. The table callback renders the default view.
func renderOutput(cmd *cobra.Command, rows any, table func() error) error {
	output, _ := cmd.Flags().GetString("output")

	switch output {
	case "json":
		encoder := json.NewEncoder(os.Stdout)
		encoder.SetIndent("", "  ")

		return encoder.Encode(rows)
	case "yaml":
		return yaml.NewEncoder(os.Stdout).Encode(rows)
	case "table", "":
		return table()
	default:
		return fmt.Errorf("%w: unknown output format %q", huntapi.ErrInvalidArgument, output)
	}
}
