package shell

import (
	"context"
	"fmt"

	"github.com/huntdesk-io/huntdesk/internal/bounty"
	"github.com/huntdesk-io/huntdesk/pkg/huntapi"
	"github.com/olekukonko/tablewriter"
)

// NewBountyScope builds the program-directory scope.
func NewBountyScope(services Services) *Scope {
	return &Scope{
		Name: "bounty",
		Commands: []Command{
			{
				Name:    "programs",
				Usage:   "[-f] [-l n] [-ms id] [-mt id] [-of n] [-s text]",
				Summary: "list programs (-f following, -l limit, -ms status, -mt type, -of offset, -s search)",
				Run: func(ctx context.Context, r *Runner, tokens []string) error {
					args, err := ParseArgs(tokens, "-l", "-ms", "-mt", "-of", "-s")
					if err != nil {
						return err
					}

					opts := bounty.ListOptions{
						Following: args.Has("-f"),
						Search:    args.String("-s", ""),
					}

					if opts.Limit, err = args.Int("-l", 0); err != nil {
						return err
					}

					if opts.Offset, err = args.Int("-of", 0); err != nil {
						return err
					}

					if opts.StatusID, err = args.Int("-ms", 0); err != nil {
						return err
					}

					if opts.TypeID, err = args.Int("-mt", 0); err != nil {
						return err
					}

					svc, err := services.Bounty()
					if err != nil {
						return err
					}

					programs, err := svc.ListPrograms(ctx, opts)
					if err != nil {
						return err
					}

					table := tablewriter.NewWriter(r.Out())
					table.Header("ID", "Handle", "Name", "Confidentiality", "Status")

					for _, program := range programs {
						_ = table.Append(program.ID, program.Handle, program.Name, program.Confidentiality, program.Status)
					}

					return table.Render()
				},
			},
			{
				Name:    "info",
				Usage:   "<id>",
				Summary: "show one program with its scope domains",
				Run: func(ctx context.Context, r *Runner, tokens []string) error {
					args, err := ParseArgs(tokens)
					if err != nil {
						return err
					}

					if len(args.Positional()) != 1 {
						return fmt.Errorf("%w: info takes exactly one program identifier", huntapi.ErrInvalidArgument)
					}

					svc, err := services.Bounty()
					if err != nil {
						return err
					}

					program, err := svc.GetProgram(ctx, args.Positional()[0])
					if err != nil {
						return err
					}

					fmt.Fprintf(r.Out(), "%s (%s)\n", program.Name, program.Handle)
					fmt.Fprintf(r.Out(), "confidentiality: %s  status: %s\n", program.Confidentiality, program.Status)

					if len(program.Domains) == 0 {
						fmt.Fprintln(r.Out(), "no scope domains")

						return nil
					}

					table := tablewriter.NewWriter(r.Out())
					table.Header("Endpoint", "Type", "Tier", "Description")

					for _, domain := range program.Domains {
						_ = table.Append(domain.Endpoint, domain.Type, domain.Tier, domain.Description)
					}

					return table.Render()
				},
			},
		},
	}
}
