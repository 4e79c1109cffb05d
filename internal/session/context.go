// Package session holds the selection state shared by every shell
// scope: which workspace collection or document commands act on when
// they need an implicit target.
package session

import (
	"context"
	"sync"
)

// Kind discriminates the selection states.
type Kind int

const (
	// KindNone means no target is selected.
	KindNone Kind = iota

	// KindCollection means a workspace collection is selected.
	KindCollection

	// KindDocument means a workspace document is selected.
	KindDocument
)

// Target is the current selection. The zero value is "no selection".
type Target struct {
	Kind  Kind
	ID    string
	Title string
}

// None reports whether no target is selected.
func (t Target) None() bool {
	return t.Kind == KindNone
}

// Lookup resolves an identifier against the known collections and
// documents. It returns huntapi.ErrNotFound (wrapped or not) when the
// identifier matches neither. The workspace integration supplies the
// implementation; the state machine itself never touches the network.
type Lookup func(ctx context.Context, identifier string) (Target, error)

// Context is the process-wide selection state machine. One instance
// is created at startup and injected into every shell scope, so a
// selection made inside a nested scope stays visible after returning
// to the enclosing one.
type Context struct {
	mu      sync.Mutex
	current Target
	lookup  Lookup
}

// New creates a Context in the no-selection state.
func New(lookup Lookup) *Context {
	return &Context{lookup: lookup}
}

// Current returns the active selection.
func (c *Context) Current() Target {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.current
}

// Select resolves identifier and, on a match, transitions to the
// corresponding selected state. On a miss the state is unchanged and
// the lookup's not-found error is returned.
func (c *Context) Select(ctx context.Context, identifier string) (Target, error) {
	target, err := c.lookup(ctx, identifier)
	if err != nil {
		return Target{}, err
	}

	c.mu.Lock()
	c.current = target
	c.mu.Unlock()

	return target, nil
}

// Leave clears the active selection and reports true. When nothing is
// selected it reports false: there is no enclosing selection to leave,
// and the caller exits the scope instead.
func (c *Context) Leave() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.current.None() {
		return false
	}

	c.current = Target{}

	return true
}
