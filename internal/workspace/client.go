// Package workspace integrates the workspace/document service:
// listing collections and documents through its cursor-paginated
// search endpoint, resolving selection targets for the session
// context, and creating collections and entries from JSON templates.
package workspace

import (
	"context"
	"encoding/json"
	"fmt"

	internalhttp "github.com/huntdesk-io/huntdesk/internal/http"
	"github.com/huntdesk-io/huntdesk/internal/session"
	"github.com/huntdesk-io/huntdesk/pkg/huntapi"
	"go.uber.org/zap"
)

// Wire values of the search endpoint's object filter.
const (
	objectCollection = "database"
	objectDocument   = "page"
)

// Client talks to the workspace service.
type Client struct {
	http           *internalhttp.Client
	rootCollection string
	templateDir    string
	logger         *zap.Logger
}

// NewClient creates a workspace client. rootCollection parents new
// collections when no selection is active; templateDir holds the JSON
// templates for create operations.
func NewClient(httpClient *internalhttp.Client, rootCollection, templateDir string, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Client{
		http:           httpClient,
		rootCollection: rootCollection,
		templateDir:    templateDir,
		logger:         logger,
	}
}

// search drives the cursor-paginated search endpoint: an opaque token
// plus a more-available flag, exhausted when the flag is false.
func (c *Client) search(ctx context.Context, query, object string) ([]huntapi.RawRecord, error) {
	page := func(ctx context.Context, cont huntapi.Continuation) ([]huntapi.RawRecord, huntapi.Continuation, error) {
		body := map[string]any{
			"query": query,
			"filter": map[string]any{
				"value":    object,
				"property": "object",
			},
		}

		if cursor, ok := cont.(huntapi.Cursor); ok {
			body["start_cursor"] = cursor.Token
		}

		resp, err := c.http.Post(ctx, "search", body)
		if err != nil {
			return nil, nil, err
		}

		return parseSearchPage(resp.Body)
	}

	return huntapi.FetchAll(ctx, page, 0)
}

// ListCollections lists every collection visible to the integration.
func (c *Client) ListCollections(ctx context.Context) ([]Collection, error) {
	records, err := c.search(ctx, "", objectCollection)
	if err != nil {
		return nil, err
	}

	collections := make([]Collection, 0, len(records))

	for _, rec := range records {
		collection, err := CollectionFromRecord(rec)
		if err != nil {
			return nil, err
		}

		collections = append(collections, collection)
	}

	return collections, nil
}

// ListDocuments lists every document visible to the integration.
func (c *Client) ListDocuments(ctx context.Context) ([]Document, error) {
	records, err := c.search(ctx, "", objectDocument)
	if err != nil {
		return nil, err
	}

	documents := make([]Document, 0, len(records))

	for _, rec := range records {
		document, err := DocumentFromRecord(rec)
		if err != nil {
			return nil, err
		}

		documents = append(documents, document)
	}

	return documents, nil
}

// LookupTarget resolves identifier for the session context. Documents
// are searched before collections; the first match wins.
func (c *Client) LookupTarget(ctx context.Context, identifier string) (session.Target, error) {
	documents, err := c.ListDocuments(ctx)
	if err != nil {
		return session.Target{}, err
	}

	for _, document := range documents {
		if document.ID == identifier {
			return session.Target{Kind: session.KindDocument, ID: document.ID, Title: document.Title}, nil
		}
	}

	collections, err := c.ListCollections(ctx)
	if err != nil {
		return session.Target{}, err
	}

	for _, collection := range collections {
		if collection.ID == identifier {
			return session.Target{Kind: session.KindCollection, ID: collection.ID, Title: collection.Title}, nil
		}
	}

	return session.Target{}, fmt.Errorf("%w: no collection or document %q", huntapi.ErrNotFound, identifier)
}

// parseSearchPage maps one raw search response onto records plus the
// cursor continuation.
func parseSearchPage(body []byte) ([]huntapi.RawRecord, huntapi.Continuation, error) {
	var payload map[string]any

	err := json.Unmarshal(body, &payload)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: decoding search page: %v", huntapi.ErrMalformedResponse, err)
	}

	list, ok := huntapi.Slice(payload, "results")
	if !ok {
		return nil, nil, huntapi.MissingKey("results")
	}

	records, err := huntapi.Records(list, "results")
	if err != nil {
		return nil, nil, err
	}

	hasMore, ok := huntapi.Lookup(payload, "has_more")
	if !ok {
		return nil, nil, huntapi.MissingKey("has_more")
	}

	more, ok := hasMore.(bool)
	if !ok {
		return nil, nil, huntapi.MissingKey("has_more")
	}

	if !more {
		return records, huntapi.Exhausted, nil
	}

	token, err := huntapi.RequireString(payload, "next_cursor")
	if err != nil {
		return nil, nil, err
	}

	return records, huntapi.Cursor{Token: token}, nil
}
