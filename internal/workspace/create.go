package workspace

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/huntdesk-io/huntdesk/pkg/huntapi"
	"go.uber.org/zap"
)

// entryTemplate is the template used when pushing a machine entry into
// a collection.
const entryTemplate = "machine_entry.json"

// Entry is the data injected into the entry template when a training
// machine is pushed into a tracking collection.
type Entry struct {
	Name            string
	DifficultyLabel string
	OS              string
	URL             string
	ReleaseDate     string
	IconURL         string
}

// CreateCollection creates a collection from a JSON template file,
// parented to parentID, or to the configured root collection when
// parentID is empty.
func (c *Client) CreateCollection(ctx context.Context, templatePath, parentID string) error {
	if parentID == "" {
		parentID = c.rootCollection
	}

	if parentID == "" {
		return fmt.Errorf("%w: no parent selected and no root collection configured", huntapi.ErrInvalidArgument)
	}

	template, err := loadTemplate(templatePath)
	if err != nil {
		return err
	}

	err = setPath(template, "parent.page_id", parentID)
	if err != nil {
		return err
	}

	c.logger.Debug("creating collection", zap.String("template", templatePath), zap.String("parent", parentID))

	_, err = c.http.Post(ctx, "databases", template)

	return err
}

// CreateEntry pushes entry into collectionID using the entry template
// from the template directory.
func (c *Client) CreateEntry(ctx context.Context, collectionID string, entry Entry) error {
	if collectionID == "" {
		return fmt.Errorf("%w: empty collection identifier", huntapi.ErrInvalidArgument)
	}

	template, err := loadTemplate(filepath.Join(c.templateDir, entryTemplate))
	if err != nil {
		return err
	}

	values := map[string]string{
		"parent.database_id":                       collectionID,
		"properties.Name.title.0.text.content":     entry.Name,
		"properties.Difficulty.select.name":        entry.DifficultyLabel,
		"properties.OS.select.name":                entry.OS,
		"properties.URL.url":                       entry.URL,
		"properties.Release Date.date.start":       entry.ReleaseDate,
		"icon.external.url":                        entry.IconURL,
	}

	for path, value := range values {
		err = setPath(template, path, value)
		if err != nil {
			return err
		}
	}

	c.logger.Debug("creating entry", zap.String("collection", collectionID), zap.String("name", entry.Name))

	_, err = c.http.Post(ctx, "pages", template)

	return err
}

// loadTemplate reads a JSON template file into a mutable map.
func loadTemplate(path string) (map[string]any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: template %s: %v", huntapi.ErrInvalidArgument, path, err)
	}

	var template map[string]any

	err = json.Unmarshal(data, &template)
	if err != nil {
		return nil, fmt.Errorf("%w: template %s is not valid JSON: %v", huntapi.ErrInvalidArgument, path, err)
	}

	return template, nil
}

// setPath writes value at a dot path inside template. Numeric
// segments index into lists. Every intermediate node must already
// exist in the template; templates declare the full shape and this
// only fills values in.
func setPath(template map[string]any, path string, value any) error {
	segments := strings.Split(path, ".")

	var current any = template

	for _, segment := range segments[:len(segments)-1] {
		switch node := current.(type) {
		case map[string]any:
			next, ok := node[segment]
			if !ok {
				return fmt.Errorf("%w: template missing %q under path %s", huntapi.ErrInvalidArgument, segment, path)
			}

			current = next
		case []any:
			index, err := strconv.Atoi(segment)
			if err != nil || index < 0 || index >= len(node) {
				return fmt.Errorf("%w: template has no element %q under path %s", huntapi.ErrInvalidArgument, segment, path)
			}

			current = node[index]
		default:
			return fmt.Errorf("%w: template path %s hits a scalar at %q", huntapi.ErrInvalidArgument, path, segment)
		}
	}

	leaf, ok := current.(map[string]any)
	if !ok {
		return fmt.Errorf("%w: template path %s does not end in an object", huntapi.ErrInvalidArgument, path)
	}

	leaf[segments[len(segments)-1]] = value

	return nil
}
