package huntapi

import (
	"context"
	"fmt"
)

// RawRecord is one untyped record as decoded from an upstream page.
type RawRecord = map[string]any

// Continuation tells the pagination engine how to fetch the next page.
// The engine never interprets the payload of a non-exhausted variant;
// it hands it back to the PageFunc unchanged.
type Continuation interface {
	continuation()
}

// NextLink continues at a literal next-page URL embedded in the
// previous response.
type NextLink struct {
	URL string
}

// Offset continues at a numeric offset. Total is the upstream's
// declared result count; the engine stops once Next reaches it.
type Offset struct {
	Next  int
	Total int
}

// Cursor continues with an opaque token from the previous response.
type Cursor struct {
	Token string
}

type exhausted struct{}

// Exhausted signals that no further pages remain.
var Exhausted Continuation = exhausted{}

func (NextLink) continuation()  {}
func (Offset) continuation()    {}
func (Cursor) continuation()    {}
func (exhausted) continuation() {}

// PageFunc performs exactly one network round trip. A nil continuation
// requests the first page. It returns the page's records plus the
// continuation for the page after it.
type PageFunc func(ctx context.Context, cont Continuation) ([]RawRecord, Continuation, error)

// FetchAll drives page sequentially until the upstream is exhausted or
// size records have been accumulated. size == 0 means "everything
// available". size may exceed the upstream page granularity; the final
// page is over-fetched and the result truncated to exactly size
// records in fetch order.
//
// Requests are strictly sequential: at most one call to page is in
// flight at any time. Any error from page aborts the loop and is
// returned unchanged, with no partial results.
func FetchAll(ctx context.Context, page PageFunc, size int) ([]RawRecord, error) {
	if size < 0 {
		return nil, fmt.Errorf("%w: size %d is negative", ErrInvalidArgument, size)
	}

	var (
		records []RawRecord
		cont    Continuation
	)

	for {
		batch, next, err := page(ctx, cont)
		if err != nil {
			return nil, err
		}

		records = append(records, batch...)

		if size > 0 && len(records) >= size {
			return records[:size], nil
		}

		if done(next) {
			return records, nil
		}

		cont = next
	}
}

// done reports whether a continuation terminates the loop. Offset
// exhaustion is derived, not signaled: the upstream declares a total
// and the engine compares the next offset against it.
func done(cont Continuation) bool {
	switch c := cont.(type) {
	case nil, exhausted:
		return true
	case Offset:
		return c.Next >= c.Total
	default:
		return false
	}
}
