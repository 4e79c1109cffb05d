package shell

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/huntdesk-io/huntdesk/internal/session"
	"github.com/huntdesk-io/huntdesk/internal/training"
	"github.com/huntdesk-io/huntdesk/internal/workspace"
	"github.com/huntdesk-io/huntdesk/pkg/huntapi"
	"github.com/olekukonko/tablewriter"
)

// NewTrainingScope builds the machine-catalog scope. The scope keeps
// its last fetched list so a follow-up push can resolve a machine
// without refetching.
func NewTrainingScope(services Services) *Scope {
	var last []training.Machine

	return &Scope{
		Name: "training",
		Commands: []Command{
			{
				Name:    "machines",
				Usage:   "[-u] [-r] [-s n]",
				Summary: "list machines (-u refresh, -r retired, -s size)",
				Run: func(ctx context.Context, r *Runner, tokens []string) error {
					args, err := ParseArgs(tokens, "-s")
					if err != nil {
						return err
					}

					size, err := args.Int("-s", 0)
					if err != nil {
						return err
					}

					svc, err := services.Training()
					if err != nil {
						return err
					}

					machines, err := svc.ListMachines(ctx, training.ListOptions{
						Size:         size,
						Retired:      args.Has("-r"),
						ForceRefresh: args.Has("-u"),
					})
					if err != nil {
						return err
					}

					last = machines

					table := tablewriter.NewWriter(r.Out())
					table.Header("ID", "Name", "OS", "Difficulty", "Stars", "Owns (user/root)", "Release")

					for _, machine := range machines {
						release := ""
						if !machine.Release.IsZero() {
							release = machine.Release.Format("2006-01-02")
						}

						_ = table.Append(
							strconv.Itoa(machine.ID),
							machine.Name,
							machine.OS,
							machine.DifficultyLabel,
							strconv.FormatFloat(machine.Stars, 'f', 1, 64),
							fmt.Sprintf("%d/%d", machine.UserOwns, machine.RootOwns),
							release,
						)
					}

					return table.Render()
				},
			},
			{
				Name:    "add",
				Usage:   "<id>",
				Summary: "push a machine into the selected collection",
				Run: func(ctx context.Context, r *Runner, tokens []string) error {
					args, err := ParseArgs(tokens)
					if err != nil {
						return err
					}

					if len(args.Positional()) != 1 {
						return fmt.Errorf("%w: add takes exactly one machine identifier", huntapi.ErrInvalidArgument)
					}

					target := r.Session().Current()
					if target.Kind != session.KindCollection {
						fmt.Fprintln(r.Out(), "no collection selected, pick one with \"use <id>\":")

						ws, err := services.Workspace()
						if err != nil {
							return err
						}

						return printCollections(ctx, r, ws)
					}

					machine, err := resolveMachine(ctx, services, &last, args.Positional()[0])
					if err != nil {
						return err
					}

					ws, err := services.Workspace()
					if err != nil {
						return err
					}

					err = ws.CreateEntry(ctx, target.ID, machineEntry(machine, services.Links))
					if err != nil {
						return err
					}

					fmt.Fprintf(r.Out(), "added %s to %s\n", machine.Name, target.Title)

					return nil
				},
			},
		},
	}
}

// resolveMachine finds a machine by upstream identifier, consulting
// the scope's last listing before fetching a fresh one. Positional
// references are never accepted.
func resolveMachine(ctx context.Context, services Services, last *[]training.Machine, identifier string) (training.Machine, error) {
	id, err := strconv.Atoi(identifier)
	if err != nil {
		return training.Machine{}, fmt.Errorf("%w: machine identifier %q is not numeric", huntapi.ErrInvalidArgument, identifier)
	}

	if machine, ok := findMachine(*last, id); ok {
		return machine, nil
	}

	svc, err := services.Training()
	if err != nil {
		return training.Machine{}, err
	}

	machines, err := svc.ListMachines(ctx, training.ListOptions{})
	if err != nil {
		return training.Machine{}, err
	}

	*last = machines

	if machine, ok := findMachine(machines, id); ok {
		return machine, nil
	}

	return training.Machine{}, fmt.Errorf("%w: no machine %d", huntapi.ErrNotFound, id)
}

func findMachine(machines []training.Machine, id int) (training.Machine, bool) {
	for _, machine := range machines {
		if machine.ID == id {
			return machine, true
		}
	}

	return training.Machine{}, false
}

// machineEntry maps a machine onto the workspace entry template data.
func machineEntry(machine training.Machine, links MachineLinks) workspace.Entry {
	release := ""
	if !machine.Release.IsZero() {
		release = machine.Release.Format("2006-01-02")
	}

	return workspace.Entry{
		Name:            machine.Name,
		DifficultyLabel: machine.DifficultyLabel,
		OS:              machine.OS,
		URL:             strings.TrimSuffix(links.Web, "/") + "/machines/" + machine.Name,
		ReleaseDate:     release,
		IconURL:         strings.TrimSuffix(links.Assets, "/") + "/" + strings.TrimPrefix(machine.Avatar, "/"),
	}
}
