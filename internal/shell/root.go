package shell

import (
	"context"
	"fmt"

	"github.com/huntdesk-io/huntdesk/internal/bounty"
	"github.com/huntdesk-io/huntdesk/internal/training"
	"github.com/huntdesk-io/huntdesk/internal/workspace"
	"github.com/huntdesk-io/huntdesk/pkg/huntapi"
	"github.com/olekukonko/tablewriter"
)

// WorkspaceService is the workspace surface the scopes consume.
type WorkspaceService interface {
	ListCollections(ctx context.Context) ([]workspace.Collection, error)
	ListDocuments(ctx context.Context) ([]workspace.Document, error)
	CreateCollection(ctx context.Context, templatePath, parentID string) error
	CreateEntry(ctx context.Context, collectionID string, entry workspace.Entry) error
}

// TrainingService is the machine-catalog surface the scopes consume.
type TrainingService interface {
	ListMachines(ctx context.Context, opts training.ListOptions) ([]training.Machine, error)
}

// BountyService is the program-directory surface the scopes consume.
type BountyService interface {
	ListPrograms(ctx context.Context, opts bounty.ListOptions) ([]bounty.ProgramSlim, error)
	GetProgram(ctx context.Context, programID string) (*bounty.Program, error)
}

// MachineLinks builds the human-facing URLs pushed into a workspace
// entry alongside a machine.
type MachineLinks struct {
	Web    string
	Assets string
}

// Services provides the integration clients to the scopes. Factories
// defer construction so a missing credential fails the command that
// needs it, not the whole console session.
type Services struct {
	Workspace func() (WorkspaceService, error)
	Training  func() (TrainingService, error)
	Bounty    func() (BountyService, error)
	Links     MachineLinks
}

// NewRootScope builds the top-level scope: workspace listings, target
// selection, collection creation, and entry into the per-integration
// scopes.
func NewRootScope(services Services) *Scope {
	return &Scope{
		Name: "",
		Commands: []Command{
			{
				Name:    "collections",
				Summary: "list workspace collections",
				Run: func(ctx context.Context, r *Runner, _ []string) error {
					ws, err := services.Workspace()
					if err != nil {
						return err
					}

					return printCollections(ctx, r, ws)
				},
			},
			{
				Name:    "docs",
				Summary: "list workspace documents",
				Run: func(ctx context.Context, r *Runner, _ []string) error {
					ws, err := services.Workspace()
					if err != nil {
						return err
					}

					documents, err := ws.ListDocuments(ctx)
					if err != nil {
						return err
					}

					table := tablewriter.NewWriter(r.Out())
					table.Header("ID", "Title")

					for _, document := range documents {
						_ = table.Append(document.ID, document.Title)
					}

					return table.Render()
				},
			},
			{
				Name:    "use",
				Usage:   "<id>",
				Summary: "select a collection or document as the working target",
				Run: func(ctx context.Context, r *Runner, tokens []string) error {
					args, err := ParseArgs(tokens)
					if err != nil {
						return err
					}

					if len(args.Positional()) != 1 {
						return fmt.Errorf("%w: use takes exactly one identifier", huntapi.ErrInvalidArgument)
					}

					target, err := r.Session().Select(ctx, args.Positional()[0])
					if err != nil {
						return err
					}

					fmt.Fprintf(r.Out(), "using %s\n", target.Title)

					return nil
				},
			},
			{
				Name:    "new-collection",
				Usage:   "<template>",
				Summary: "create a collection from a JSON template under the selection",
				Run: func(ctx context.Context, r *Runner, tokens []string) error {
					args, err := ParseArgs(tokens)
					if err != nil {
						return err
					}

					if len(args.Positional()) != 1 {
						return fmt.Errorf("%w: new-collection takes exactly one template path", huntapi.ErrInvalidArgument)
					}

					ws, err := services.Workspace()
					if err != nil {
						return err
					}

					return ws.CreateCollection(ctx, args.Positional()[0], r.Session().Current().ID)
				},
			},
			{
				Name:    "training",
				Summary: "enter the machine-catalog scope",
				Run: func(ctx context.Context, r *Runner, _ []string) error {
					return r.Run(ctx, NewTrainingScope(services))
				},
			},
			{
				Name:    "bounty",
				Summary: "enter the program-directory scope",
				Run: func(ctx context.Context, r *Runner, _ []string) error {
					return r.Run(ctx, NewBountyScope(services))
				},
			},
		},
	}
}

// printCollections renders the collections table. The training scope
// reuses it when a push lacks a selected collection.
func printCollections(ctx context.Context, r *Runner, ws WorkspaceService) error {
	collections, err := ws.ListCollections(ctx)
	if err != nil {
		return err
	}

	table := tablewriter.NewWriter(r.Out())
	table.Header("ID", "Title")

	for _, collection := range collections {
		_ = table.Append(collection.ID, collection.Title)
	}

	return table.Render()
}
