// Package bounty integrates the bug-bounty program directory. The
// directory paginates with a numeric offset against a declared total:
// exhaustion is derived by comparing the next offset to the payload's
// maxCount, never signaled explicitly.
package bounty

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"strings"

	internalhttp "github.com/huntdesk-io/huntdesk/internal/http"
	"github.com/huntdesk-io/huntdesk/pkg/huntapi"
	"go.uber.org/zap"
)

const (
	// defaultLimit is the page size used when the caller does not set
	// one.
	defaultLimit = 50

	// maxLimit is the upstream's hard per-request cap.
	maxLimit = 500
)

// Client lists and fetches bug-bounty programs.
type Client struct {
	http   *internalhttp.Client
	logger *zap.Logger
}

// NewClient creates a directory client.
func NewClient(httpClient *internalhttp.Client, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Client{http: httpClient, logger: logger}
}

// ListOptions controls a program listing.
type ListOptions struct {
	// Following restricts the listing to followed programs.
	Following bool

	// Limit is the page size; 0 means the default, values above the
	// upstream cap are clamped.
	Limit int

	// Offset is the starting offset.
	Offset int

	// StatusID and TypeID filter server-side when non-zero.
	StatusID int
	TypeID   int

	// Search filters program names client-side, case-insensitively,
	// after sorting.
	Search string
}

// ListPrograms fetches every program page by page, sorts by name
// ascending, then applies the search filter preserving sort order.
func (c *Client) ListPrograms(ctx context.Context, opts ListOptions) ([]ProgramSlim, error) {
	if opts.Limit < 0 {
		return nil, fmt.Errorf("%w: limit %d is negative", huntapi.ErrInvalidArgument, opts.Limit)
	}

	if opts.Offset < 0 {
		return nil, fmt.Errorf("%w: offset %d is negative", huntapi.ErrInvalidArgument, opts.Offset)
	}

	limit := opts.Limit
	if limit == 0 {
		limit = defaultLimit
	}

	if limit > maxLimit {
		limit = maxLimit
	}

	page := func(ctx context.Context, cont huntapi.Continuation) ([]huntapi.RawRecord, huntapi.Continuation, error) {
		offset := opts.Offset
		if o, ok := cont.(huntapi.Offset); ok {
			offset = o.Next
		}

		query := url.Values{
			"limit":  []string{strconv.Itoa(limit)},
			"offset": []string{strconv.Itoa(offset)},
		}

		if opts.Following {
			query.Set("following", "true")
		}

		if opts.StatusID != 0 {
			query.Set("statusId", strconv.Itoa(opts.StatusID))
		}

		if opts.TypeID != 0 {
			query.Set("typeId", strconv.Itoa(opts.TypeID))
		}

		resp, err := c.http.Get(ctx, "programs", query)
		if err != nil {
			return nil, nil, err
		}

		return parseProgramsPage(resp.Body, offset, limit)
	}

	c.logger.Debug("listing programs",
		zap.Int("limit", limit),
		zap.Bool("following", opts.Following))

	records, err := huntapi.FetchAll(ctx, page, 0)
	if err != nil {
		return nil, err
	}

	programs := make([]ProgramSlim, 0, len(records))

	for _, rec := range records {
		program, err := ProgramSlimFromRecord(rec)
		if err != nil {
			return nil, err
		}

		programs = append(programs, program)
	}

	sort.SliceStable(programs, func(i, j int) bool {
		return programs[i].Name < programs[j].Name
	})

	if opts.Search == "" {
		return programs, nil
	}

	needle := strings.ToLower(opts.Search)
	filtered := make([]ProgramSlim, 0, len(programs))

	for _, program := range programs {
		if strings.Contains(strings.ToLower(program.Name), needle) {
			filtered = append(filtered, program)
		}
	}

	return filtered, nil
}

// GetProgram fetches one program with its scope domains. No
// pagination applies to single resources.
func (c *Client) GetProgram(ctx context.Context, programID string) (*Program, error) {
	if programID == "" {
		return nil, fmt.Errorf("%w: empty program identifier", huntapi.ErrInvalidArgument)
	}

	resp, err := c.http.Get(ctx, "programs/"+programID, nil)
	if err != nil {
		return nil, err
	}

	var rec huntapi.RawRecord

	err = json.Unmarshal(resp.Body, &rec)
	if err != nil {
		return nil, fmt.Errorf("%w: decoding program: %v", huntapi.ErrMalformedResponse, err)
	}

	program, err := ProgramFromRecord(rec)
	if err != nil {
		return nil, err
	}

	return &program, nil
}

// parseProgramsPage maps one raw page body onto records plus the
// derived offset continuation.
func parseProgramsPage(body []byte, offset, limit int) ([]huntapi.RawRecord, huntapi.Continuation, error) {
	var payload map[string]any

	err := json.Unmarshal(body, &payload)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: decoding programs page: %v", huntapi.ErrMalformedResponse, err)
	}

	list, ok := huntapi.Slice(payload, "records")
	if !ok {
		return nil, nil, huntapi.MissingKey("records")
	}

	records, err := huntapi.Records(list, "records")
	if err != nil {
		return nil, nil, err
	}

	total, err := huntapi.RequireInt(payload, "maxCount")
	if err != nil {
		return nil, nil, err
	}

	return records, huntapi.Offset{Next: offset + limit, Total: total}, nil
}
