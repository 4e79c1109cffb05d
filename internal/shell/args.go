package shell

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/huntdesk-io/huntdesk/pkg/huntapi"
)

// Args holds the parsed tokens of one command invocation: positional
// arguments plus flag-style options. Option letters mean different
// things per scope, so each command declares which of its flags take a
// value.
type Args struct {
	positional []string
	present    map[string]bool
	values     map[string]string
}

// ParseArgs splits tokens into positionals and flags. Flags listed in
// valued consume the following token; a valued flag at the end of the
// line is an error. Every other "-x" token is a boolean flag.
func ParseArgs(tokens []string, valued ...string) (*Args, error) {
	takesValue := make(map[string]bool, len(valued))
	for _, flag := range valued {
		takesValue[flag] = true
	}

	args := &Args{
		present: make(map[string]bool),
		values:  make(map[string]string),
	}

	for i := 0; i < len(tokens); i++ {
		token := tokens[i]

		if !strings.HasPrefix(token, "-") || len(token) == 1 {
			args.positional = append(args.positional, token)

			continue
		}

		args.present[token] = true

		if takesValue[token] {
			if i+1 >= len(tokens) {
				return nil, fmt.Errorf("%w: flag %s needs a value", huntapi.ErrInvalidArgument, token)
			}

			i++
			args.values[token] = tokens[i]
		}
	}

	return args, nil
}

// Has reports whether flag appeared.
func (a *Args) Has(flag string) bool {
	return a.present[flag]
}

// String returns flag's value, or def when the flag is absent.
func (a *Args) String(flag, def string) string {
	if value, ok := a.values[flag]; ok {
		return value
	}

	return def
}

// Int returns flag's value as an integer, or def when absent.
func (a *Args) Int(flag string, def int) (int, error) {
	value, ok := a.values[flag]
	if !ok {
		return def, nil
	}

	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("%w: flag %s needs a number, got %q", huntapi.ErrInvalidArgument, flag, value)
	}

	return n, nil
}

// Positional returns the non-flag tokens in order.
func (a *Args) Positional() []string {
	return a.positional
}
