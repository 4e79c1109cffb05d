// Package training integrates the security-training machine catalog.
// The catalog paginates with a literal next-page link embedded in each
// response, and its listings are served through the response cache
// gate so repeated browsing does not hammer the upstream.
package training

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"sort"
	"strconv"

	internalhttp "github.com/huntdesk-io/huntdesk/internal/http"
	"github.com/huntdesk-io/huntdesk/pkg/huntapi"
	"go.uber.org/zap"
)

// pageSize is the upstream's declared per-page maximum. Requests
// always ask for a full page; the pagination engine truncates.
const pageSize = 100

const (
	activePath  = "machine/paginated"
	retiredPath = "machine/list/retired/paginated"
)

// Client lists machines from the training catalog.
type Client struct {
	http   *internalhttp.Client
	gate   *huntapi.Gate
	logger *zap.Logger
}

// NewClient creates a training client. Listings go through gate so
// repeated fetches of the same page URLs are served from cache.
func NewClient(httpClient *internalhttp.Client, gate *huntapi.Gate, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Client{http: httpClient, gate: gate, logger: logger}
}

// ListOptions controls a machine listing.
type ListOptions struct {
	// Size is how many machines to return; 0 means all available.
	Size int

	// Retired lists the retired catalog instead of the active one.
	Retired bool

	// ForceRefresh invalidates cached pages for the target resource
	// before fetching, guaranteeing live round trips.
	ForceRefresh bool
}

// ListMachines fetches machines page by page and returns them sorted
// by identifier descending (newest first).
func (c *Client) ListMachines(ctx context.Context, opts ListOptions) ([]Machine, error) {
	path := activePath
	if opts.Retired {
		path = retiredPath
	}

	if opts.ForceRefresh {
		err := c.gate.Invalidate(ctx, c.http.URL(path, nil))
		if err != nil {
			return nil, fmt.Errorf("invalidating cached pages: %w", err)
		}
	}

	firstURL := c.http.URL(path, url.Values{"per_page": []string{strconv.Itoa(pageSize)}})

	page := func(ctx context.Context, cont huntapi.Continuation) ([]huntapi.RawRecord, huntapi.Continuation, error) {
		target := firstURL
		if link, ok := cont.(huntapi.NextLink); ok {
			target = link.URL
		}

		body, err := c.gate.Fetch(ctx, target, func(ctx context.Context) ([]byte, error) {
			resp, err := c.http.GetURL(ctx, target)
			if err != nil {
				return nil, err
			}

			return resp.Body, nil
		})
		if err != nil {
			return nil, nil, err
		}

		return parseMachinesPage(body)
	}

	c.logger.Debug("listing machines",
		zap.Int("size", opts.Size),
		zap.Bool("retired", opts.Retired),
		zap.Bool("force_refresh", opts.ForceRefresh))

	records, err := huntapi.FetchAll(ctx, page, opts.Size)
	if err != nil {
		return nil, err
	}

	machines := make([]Machine, 0, len(records))

	for _, rec := range records {
		machine, err := MachineFromRecord(rec)
		if err != nil {
			return nil, err
		}

		machines = append(machines, machine)
	}

	sort.SliceStable(machines, func(i, j int) bool {
		return machines[i].ID > machines[j].ID
	})

	return machines, nil
}

// parseMachinesPage maps one raw page body onto records plus the
// next-link continuation. An empty or null next link means exhaustion.
func parseMachinesPage(body []byte) ([]huntapi.RawRecord, huntapi.Continuation, error) {
	var payload map[string]any

	err := json.Unmarshal(body, &payload)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: decoding machines page: %v", huntapi.ErrMalformedResponse, err)
	}

	list, ok := huntapi.Slice(payload, "data")
	if !ok {
		return nil, nil, huntapi.MissingKey("data")
	}

	records, err := huntapi.Records(list, "data")
	if err != nil {
		return nil, nil, err
	}

	next := huntapi.String(payload, "", "links.next")
	if next == "" {
		return records, huntapi.Exhausted, nil
	}

	return records, huntapi.NextLink{URL: next}, nil
}
