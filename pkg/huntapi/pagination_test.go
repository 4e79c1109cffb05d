package huntapi_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/huntdesk-io/huntdesk/pkg/huntapi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// linkPager simulates a next-link upstream holding total records in
// pages of pageSize.
type linkPager struct {
	total    int
	pageSize int
	calls    int
}

func (p *linkPager) page(_ context.Context, cont huntapi.Continuation) ([]huntapi.RawRecord, huntapi.Continuation, error) {
	p.calls++

	start := 0
	if link, ok := cont.(huntapi.NextLink); ok {
		_, err := fmt.Sscanf(link.URL, "/machines?page=%d", &start)
		if err != nil {
			return nil, nil, err
		}
	}

	records := make([]huntapi.RawRecord, 0, p.pageSize)
	for i := start; i < start+p.pageSize && i < p.total; i++ {
		records = append(records, huntapi.RawRecord{"id": float64(i)})
	}

	next := start + p.pageSize
	if next >= p.total {
		return records, huntapi.Exhausted, nil
	}

	return records, huntapi.NextLink{URL: fmt.Sprintf("/machines?page=%d", next)}, nil
}

func TestFetchAll_LinkStyle(t *testing.T) {
	t.Parallel()

	t.Run("truncates to requested size after one over-fetched page", func(t *testing.T) {
		t.Parallel()

		pager := &linkPager{total: 230, pageSize: 100}

		records, err := huntapi.FetchAll(context.Background(), pager.page, 50)
		require.NoError(t, err)
		assert.Len(t, records, 50)
		assert.Equal(t, 1, pager.calls)
	})

	t.Run("size zero fetches everything", func(t *testing.T) {
		t.Parallel()

		pager := &linkPager{total: 230, pageSize: 100}

		records, err := huntapi.FetchAll(context.Background(), pager.page, 0)
		require.NoError(t, err)
		assert.Len(t, records, 230)
		assert.Equal(t, 3, pager.calls)
	})

	t.Run("size beyond availability returns everything", func(t *testing.T) {
		t.Parallel()

		pager := &linkPager{total: 30, pageSize: 100}

		records, err := huntapi.FetchAll(context.Background(), pager.page, 500)
		require.NoError(t, err)
		assert.Len(t, records, 30)
		assert.Equal(t, 1, pager.calls)
	})

	t.Run("size not a page multiple still over-fetches one page", func(t *testing.T) {
		t.Parallel()

		pager := &linkPager{total: 1000, pageSize: 100}

		records, err := huntapi.FetchAll(context.Background(), pager.page, 150)
		require.NoError(t, err)
		assert.Len(t, records, 150)
		// ceil(150/100) pages, never more.
		assert.Equal(t, 2, pager.calls)
	})

	t.Run("order is fetch order", func(t *testing.T) {
		t.Parallel()

		pager := &linkPager{total: 250, pageSize: 100}

		records, err := huntapi.FetchAll(context.Background(), pager.page, 0)
		require.NoError(t, err)

		for i, rec := range records {
			assert.InDelta(t, float64(i), rec["id"], 0)
		}
	})
}

func TestFetchAll_OffsetStyle(t *testing.T) {
	t.Parallel()

	const (
		limit    = 50
		maxCount = 120
	)

	var (
		calls   int
		offsets []int
	)

	page := func(_ context.Context, cont huntapi.Continuation) ([]huntapi.RawRecord, huntapi.Continuation, error) {
		calls++

		offset := 0
		if o, ok := cont.(huntapi.Offset); ok {
			offset = o.Next
		}

		offsets = append(offsets, offset)

		records := make([]huntapi.RawRecord, 0, limit)
		for i := offset; i < offset+limit && i < maxCount; i++ {
			records = append(records, huntapi.RawRecord{"id": float64(i)})
		}

		return records, huntapi.Offset{Next: offset + limit, Total: maxCount}, nil
	}

	records, err := huntapi.FetchAll(context.Background(), page, 0)
	require.NoError(t, err)

	// 3 requests at offsets 0/50/100; the final one returns 20 records.
	assert.Len(t, records, maxCount)
	assert.Equal(t, 3, calls)
	assert.Equal(t, []int{0, 50, 100}, offsets)
}

func TestFetchAll_CursorStyle(t *testing.T) {
	t.Parallel()

	pages := map[string]struct {
		records int
		next    huntapi.Continuation
	}{
		"":    {records: 2, next: huntapi.Cursor{Token: "abc"}},
		"abc": {records: 2, next: huntapi.Cursor{Token: "def"}},
		"def": {records: 1, next: huntapi.Exhausted},
	}

	calls := 0
	page := func(_ context.Context, cont huntapi.Continuation) ([]huntapi.RawRecord, huntapi.Continuation, error) {
		calls++

		token := ""
		if c, ok := cont.(huntapi.Cursor); ok {
			token = c.Token
		}

		p := pages[token]

		records := make([]huntapi.RawRecord, p.records)
		for i := range records {
			records[i] = huntapi.RawRecord{"token": token}
		}

		return records, p.next, nil
	}

	records, err := huntapi.FetchAll(context.Background(), page, 0)
	require.NoError(t, err)
	assert.Len(t, records, 5)
	assert.Equal(t, 3, calls)
}

func TestFetchAll_NegativeSize(t *testing.T) {
	t.Parallel()

	calls := 0
	page := func(context.Context, huntapi.Continuation) ([]huntapi.RawRecord, huntapi.Continuation, error) {
		calls++

		return nil, huntapi.Exhausted, nil
	}

	_, err := huntapi.FetchAll(context.Background(), page, -1)
	require.Error(t, err)
	assert.ErrorIs(t, err, huntapi.ErrInvalidArgument)
	// Fails before any network access.
	assert.Equal(t, 0, calls)
}

func TestFetchAll_ErrorPropagatesUnchanged(t *testing.T) {
	t.Parallel()

	transportErr := errors.New("connection reset")

	calls := 0
	page := func(_ context.Context, cont huntapi.Continuation) ([]huntapi.RawRecord, huntapi.Continuation, error) {
		calls++
		if calls == 2 {
			return nil, nil, transportErr
		}

		return []huntapi.RawRecord{{"id": 1.0}}, huntapi.NextLink{URL: "/next"}, nil
	}

	records, err := huntapi.FetchAll(context.Background(), page, 0)
	require.Error(t, err)
	assert.Equal(t, transportErr, err)
	// No partial results.
	assert.Nil(t, records)
}
