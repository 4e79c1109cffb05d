package workspace

import (
	"github.com/huntdesk-io/huntdesk/pkg/huntapi"
)

// Collection is a workspace collection (a database of entries). Used
// interchangeably with Document as a selection target.
type Collection struct {
	ID    string
	Title string
}

// Document is a standalone workspace document.
type Document struct {
	ID    string
	Title string
}

// CollectionFromRecord builds a Collection. The title lives in the
// first rich-text fragment of the top-level title list.
func CollectionFromRecord(rec huntapi.RawRecord) (Collection, error) {
	id, err := huntapi.RequireString(rec, "id")
	if err != nil {
		return Collection{}, err
	}

	title, ok := firstPlainText(rec["title"])
	if !ok {
		return Collection{}, huntapi.MissingKey("title")
	}

	return Collection{ID: id, Title: title}, nil
}

// DocumentFromRecord builds a Document. Document titles hide inside a
// property whose location varies by parent, so the title list is found
// by a depth-first search for a "title" key holding rich text.
func DocumentFromRecord(rec huntapi.RawRecord) (Document, error) {
	id, err := huntapi.RequireString(rec, "id")
	if err != nil {
		return Document{}, err
	}

	title, ok := findTitle(rec)
	if !ok {
		return Document{}, huntapi.MissingKey("title")
	}

	return Document{ID: id, Title: title}, nil
}

// firstPlainText extracts the plain_text of the first fragment of a
// rich-text list.
func firstPlainText(value any) (string, bool) {
	list, ok := value.([]any)
	if !ok || len(list) == 0 {
		return "", false
	}

	fragment, ok := list[0].(map[string]any)
	if !ok {
		return "", false
	}

	text, ok := fragment["plain_text"].(string)

	return text, ok
}

// findTitle searches rec depth-first for a "title" key holding a
// rich-text list and returns its first fragment's plain text.
func findTitle(value any) (string, bool) {
	switch v := value.(type) {
	case map[string]any:
		if title, ok := firstPlainText(v["title"]); ok {
			return title, true
		}

		for _, nested := range v {
			if title, ok := findTitle(nested); ok {
				return title, true
			}
		}
	case []any:
		for _, item := range v {
			if title, ok := findTitle(item); ok {
				return title, true
			}
		}
	}

	return "", false
}
