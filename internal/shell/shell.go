// Package shell implements the interactive console: a scope framework
// with built-in commands, a flag-style argument parser, and one scope
// per integration plus a root scope tying them together.
package shell

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/huntdesk-io/huntdesk/internal/session"
	"go.uber.org/zap"
)

// ErrExit signals that the user asked to leave the console entirely.
// It unwinds through every open scope.
var ErrExit = errors.New("exit requested")

// Command is one dispatchable command inside a scope. Run receives the
// raw tokens after the command name; commands parse their own flags.
type Command struct {
	Name    string
	Usage   string
	Summary string
	Run     func(ctx context.Context, r *Runner, tokens []string) error
}

// Scope is a named command set. Entering a scope starts a nested
// read-eval loop over the same Runner.
type Scope struct {
	Name     string
	Commands []Command
}

func (s *Scope) find(name string) (Command, bool) {
	for _, cmd := range s.Commands {
		if cmd.Name == name {
			return cmd, true
		}
	}

	return Command{}, false
}

// Runner owns the console I/O and the shared session context. One
// Runner serves the whole console; nested scopes recurse through Run.
type Runner struct {
	in      *bufio.Scanner
	out     io.Writer
	session *session.Context
	logger  *zap.Logger
}

// NewRunner creates a Runner reading commands from in and writing to
// out.
func NewRunner(in io.Reader, out io.Writer, sess *session.Context, logger *zap.Logger) *Runner {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Runner{
		in:      bufio.NewScanner(in),
		out:     out,
		session: sess,
		logger:  logger,
	}
}

// Out returns the console writer for commands that render output.
func (r *Runner) Out() io.Writer {
	return r.out
}

// Session returns the shared selection state.
func (r *Runner) Session() *session.Context {
	return r.session
}

// Run drives scope's read-eval loop until the user leaves the scope,
// asks to exit, or input ends. It returns ErrExit when the whole
// console should terminate and nil when only this scope closed.
func (r *Runner) Run(ctx context.Context, scope *Scope) error {
	for {
		fmt.Fprint(r.out, r.prompt(scope))

		if !r.in.Scan() {
			return r.in.Err()
		}

		tokens := strings.Fields(r.in.Text())
		if len(tokens) == 0 {
			continue
		}

		name, rest := tokens[0], tokens[1:]

		switch name {
		case "help":
			r.printHelp(scope)
			continue
		case "clear":
			fmt.Fprint(r.out, "\033[2J\033[H")
			continue
		case "exit", "quit":
			return ErrExit
		case "back":
			// Leaving with a selection clears it; without one there is
			// no enclosing selection and the scope itself closes.
			if !r.session.Leave() {
				return nil
			}

			continue
		}

		cmd, ok := scope.find(name)
		if !ok {
			fmt.Fprintf(r.out, "unknown command %q, try \"help\"\n", name)

			continue
		}

		err := cmd.Run(ctx, r, rest)
		if errors.Is(err, ErrExit) {
			return ErrExit
		}

		if err != nil {
			r.logger.Debug("command failed", zap.String("scope", scope.Name), zap.String("command", name), zap.Error(err))
			fmt.Fprintf(r.out, "error: %v\n", err)
		}
	}
}

// prompt renders the scope name and current selection, e.g.
// "huntdesk(training) (Tracker) > ".
func (r *Runner) prompt(scope *Scope) string {
	var b strings.Builder

	b.WriteString("huntdesk")

	if scope.Name != "" {
		fmt.Fprintf(&b, "(%s)", scope.Name)
	}

	if target := r.session.Current(); !target.None() {
		fmt.Fprintf(&b, " (%s)", target.Title)
	}

	b.WriteString(" > ")

	return b.String()
}

func (r *Runner) printHelp(scope *Scope) {
	commands := make([]Command, len(scope.Commands))
	copy(commands, scope.Commands)

	sort.Slice(commands, func(i, j int) bool { return commands[i].Name < commands[j].Name })

	for _, cmd := range commands {
		usage := cmd.Name
		if cmd.Usage != "" {
			usage += " " + cmd.Usage
		}

		fmt.Fprintf(r.out, "  %-28s %s\n", usage, cmd.Summary)
	}

	fmt.Fprintf(r.out, "  %-28s %s\n", "back", "clear the selection, or leave the scope")
	fmt.Fprintf(r.out, "  %-28s %s\n", "clear", "clear the screen")
	fmt.Fprintf(r.out, "  %-28s %s\n", "exit", "leave the console")
}
